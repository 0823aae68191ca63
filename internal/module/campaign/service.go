package campaign

import (
	"context"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/simp-lee/leadboard/internal/domain"
	"github.com/simp-lee/leadboard/internal/pkg"
)

const maxNameLength = 200

// campaignService implements domain.CampaignService.
type campaignService struct {
	repo domain.CampaignRepository
	now  func() time.Time
}

// NewCampaignService creates a new CampaignService with the given repository.
func NewCampaignService(repo domain.CampaignRepository) domain.CampaignService {
	return &campaignService{repo: repo, now: time.Now}
}

// ListCampaigns returns one page of campaigns matching the search and status filters.
func (s *campaignService) ListCampaigns(ctx context.Context, params domain.PaginationParams) (*domain.Page[domain.Campaign], error) {
	opts := pkg.CalculatePagination(params)

	items, total, err := s.repo.List(ctx, opts, Predicates(params))
	if err != nil {
		return nil, s.fail(ctx, "list", "Failed to fetch campaigns", err)
	}

	return &domain.Page[domain.Campaign]{
		Items: items,
		Meta:  pkg.NewPaginationMeta(opts.Page, opts.Limit, total),
	}, nil
}

// GetCampaign retrieves a campaign by ID.
func (s *campaignService) GetCampaign(ctx context.Context, id uuid.UUID) (*domain.Campaign, error) {
	c, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, s.fail(ctx, "get", "Failed to fetch campaign", err)
	}
	return c, nil
}

// CreateCampaign validates input, derives the response rate when none is
// given, and persists the campaign.
func (s *campaignService) CreateCampaign(ctx context.Context, in domain.NewCampaign) (*domain.Campaign, error) {
	name := strings.TrimSpace(in.Name)
	if err := validateName(name); err != nil {
		return nil, err
	}

	status := in.Status
	if status == "" {
		status = domain.CampaignActive
	}
	if !status.Valid() {
		return nil, domain.NewValidationError("status must be one of draft, active, paused, completed")
	}

	rate := domain.ResponseRate(in.SuccessfulLeads, in.TotalLeads)
	if in.ResponseRate != nil {
		rate = *in.ResponseRate
	}

	c := &domain.Campaign{
		ID:              uuid.New(),
		Name:            name,
		Status:          status,
		TotalLeads:      in.TotalLeads,
		SuccessfulLeads: in.SuccessfulLeads,
		ResponseRate:    rate,
		CreatedAt:       s.now().UTC(),
	}
	if err := c.ValidateCounts(); err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, c); err != nil {
		return nil, s.fail(ctx, "create", "Failed to create campaign", err)
	}
	return c, nil
}

// UpdateCampaign applies a partial update. An empty patch returns the
// campaign unchanged.
func (s *campaignService) UpdateCampaign(ctx context.Context, id uuid.UUID, patch domain.CampaignPatch) (*domain.Campaign, error) {
	if patch.Empty() {
		return s.GetCampaign(ctx, id)
	}
	if patch.Name != nil {
		name := strings.TrimSpace(*patch.Name)
		if err := validateName(name); err != nil {
			return nil, err
		}
		patch.Name = &name
	}

	c, err := s.repo.Update(ctx, id, patch)
	if err != nil {
		return nil, s.fail(ctx, "update", "Failed to update campaign", err)
	}
	return c, nil
}

// DeleteCampaign removes a campaign and its leads and returns the deleted campaign.
func (s *campaignService) DeleteCampaign(ctx context.Context, id uuid.UUID) (*domain.Campaign, error) {
	c, err := s.repo.Delete(ctx, id)
	if err != nil {
		return nil, s.fail(ctx, "delete", "Failed to delete campaign", err)
	}
	return c, nil
}

// fail maps a repository error to the error returned to callers. Datastore
// failures are logged and replaced by msg.
func (s *campaignService) fail(ctx context.Context, op, msg string, err error) error {
	switch {
	case domain.IsNotFound(err):
		return domain.NewAppError(domain.CodeNotFound, "Campaign not found", err)
	case domain.IsValidation(err), domain.IsAlreadyExists(err):
		return err
	}
	slog.ErrorContext(ctx, "campaign "+op+" failed", slog.Any("error", err))
	return domain.NewAppError(domain.CodeInternal, msg, err)
}

func validateName(name string) error {
	if name == "" {
		return domain.NewValidationError("name is required")
	}
	if utf8.RuneCountInString(name) > maxNameLength {
		return domain.NewValidationError("name must not exceed 200 characters")
	}
	return nil
}
