package lead

import (
	"context"
	"log/slog"
	"net/mail"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/simp-lee/leadboard/internal/domain"
	"github.com/simp-lee/leadboard/internal/pkg"
)

const maxFieldLength = 200

// leadService implements domain.LeadService.
type leadService struct {
	repo      domain.LeadRepository
	campaigns domain.CampaignRepository
	now       func() time.Time
}

// NewLeadService creates a new LeadService. campaigns is used to check that
// a lead's campaign exists.
func NewLeadService(repo domain.LeadRepository, campaigns domain.CampaignRepository) domain.LeadService {
	return &leadService{repo: repo, campaigns: campaigns, now: time.Now}
}

// ListLeads returns one page of leads matching the search, status and
// campaign filters.
func (s *leadService) ListLeads(ctx context.Context, params domain.PaginationParams) (*domain.Page[domain.Lead], error) {
	return s.list(ctx, params, Predicates(params), "Failed to fetch leads")
}

// RecentActivity returns every lead, most recently contacted first. Only the
// page and limit of params are honored.
func (s *leadService) RecentActivity(ctx context.Context, params domain.PaginationParams) (*domain.Page[domain.Lead], error) {
	return s.list(ctx, params, nil, "Failed to fetch recent activity")
}

func (s *leadService) list(ctx context.Context, params domain.PaginationParams, preds []domain.Predicate, msg string) (*domain.Page[domain.Lead], error) {
	opts := pkg.CalculatePagination(params)

	items, total, err := s.repo.List(ctx, opts, preds)
	if err != nil {
		return nil, s.fail(ctx, "list", msg, err)
	}

	return &domain.Page[domain.Lead]{
		Items: items,
		Meta:  pkg.NewPaginationMeta(opts.Page, opts.Limit, total),
	}, nil
}

// GetLead retrieves a lead by ID.
func (s *leadService) GetLead(ctx context.Context, id uuid.UUID) (*domain.Lead, error) {
	l, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, s.fail(ctx, "get", "Failed to fetch lead", err)
	}
	return l, nil
}

// CreateLead validates input, checks the campaign, and persists the lead.
// The last contact date starts at the creation time.
func (s *leadService) CreateLead(ctx context.Context, in domain.NewLead) (*domain.Lead, error) {
	l := &domain.Lead{
		Name:    strings.TrimSpace(in.Name),
		Email:   strings.TrimSpace(in.Email),
		Company: strings.TrimSpace(in.Company),
		Title:   strings.TrimSpace(in.Title),
		Status:  in.Status,
	}
	if l.Status == "" {
		l.Status = domain.LeadPending
	}
	if err := validateLead(l); err != nil {
		return nil, err
	}

	campaign, err := s.campaign(ctx, in.CampaignID)
	if err != nil {
		return nil, s.fail(ctx, "create", "Failed to create lead", err)
	}

	l.ID = uuid.New()
	l.CampaignID = campaign.ID
	l.LastContactDate = s.now().UTC()
	if err := s.repo.Create(ctx, l); err != nil {
		return nil, s.fail(ctx, "create", "Failed to create lead", err)
	}
	l.CampaignName = campaign.Name
	return l, nil
}

// UpdateLead applies a partial update. Changing the status stamps the last
// contact date. An empty patch returns the lead unchanged.
func (s *leadService) UpdateLead(ctx context.Context, id uuid.UUID, patch domain.LeadPatch) (*domain.Lead, error) {
	if patch.Empty() {
		return s.GetLead(ctx, id)
	}

	for _, f := range []**string{&patch.Name, &patch.Email, &patch.Company, &patch.Title} {
		if *f != nil {
			v := strings.TrimSpace(**f)
			*f = &v
		}
	}
	if err := validatePatch(patch); err != nil {
		return nil, err
	}
	if patch.CampaignID != nil {
		if _, err := s.campaign(ctx, *patch.CampaignID); err != nil {
			return nil, s.fail(ctx, "update", "Failed to update lead", err)
		}
	}

	l, err := s.repo.Update(ctx, id, patch, s.now().UTC())
	if err != nil {
		return nil, s.fail(ctx, "update", "Failed to update lead", err)
	}
	return l, nil
}

// UpdateLeadStatus sets a lead's status and stamps its last contact date.
// Repeating the current status still refreshes the date.
func (s *leadService) UpdateLeadStatus(ctx context.Context, id uuid.UUID, status domain.LeadStatus) (*domain.Lead, error) {
	if !status.Valid() {
		return nil, domain.NewValidationError("status must be one of pending, contacted, responded, converted")
	}

	l, err := s.repo.UpdateStatus(ctx, id, status, s.now().UTC())
	if err != nil {
		return nil, s.fail(ctx, "update status", "Failed to update lead status", err)
	}
	return l, nil
}

// DeleteLead removes a lead and returns it.
func (s *leadService) DeleteLead(ctx context.Context, id uuid.UUID) (*domain.Lead, error) {
	l, err := s.repo.Delete(ctx, id)
	if err != nil {
		return nil, s.fail(ctx, "delete", "Failed to delete lead", err)
	}
	return l, nil
}

// campaign loads the campaign a lead refers to. A missing campaign is a
// validation failure of the lead, not a missing lead.
func (s *leadService) campaign(ctx context.Context, id uuid.UUID) (*domain.Campaign, error) {
	c, err := s.campaigns.GetByID(ctx, id)
	if domain.IsNotFound(err) {
		return nil, domain.NewValidationError("campaign does not exist")
	}
	return c, err
}

// fail maps a repository error to the error returned to callers. Datastore
// failures are logged and replaced by msg.
func (s *leadService) fail(ctx context.Context, op, msg string, err error) error {
	switch {
	case domain.IsNotFound(err):
		return domain.NewAppError(domain.CodeNotFound, "Lead not found", err)
	case domain.IsAlreadyExists(err):
		return domain.NewAppError(domain.CodeAlreadyExists, "A lead with this email already exists", err)
	case domain.IsValidation(err):
		return err
	}
	slog.ErrorContext(ctx, "lead "+op+" failed", slog.Any("error", err))
	return domain.NewAppError(domain.CodeInternal, msg, err)
}

func validateLead(l *domain.Lead) error {
	if err := validateText("name", l.Name); err != nil {
		return err
	}
	if err := validateEmail(l.Email); err != nil {
		return err
	}
	if err := validateText("company", l.Company); err != nil {
		return err
	}
	if err := validateText("title", l.Title); err != nil {
		return err
	}
	if !l.Status.Valid() {
		return domain.NewValidationError("status must be one of pending, contacted, responded, converted")
	}
	return nil
}

func validatePatch(p domain.LeadPatch) error {
	if p.Name != nil {
		if err := validateText("name", *p.Name); err != nil {
			return err
		}
	}
	if p.Email != nil {
		if err := validateEmail(*p.Email); err != nil {
			return err
		}
	}
	if p.Company != nil {
		if err := validateText("company", *p.Company); err != nil {
			return err
		}
	}
	if p.Title != nil {
		if err := validateText("title", *p.Title); err != nil {
			return err
		}
	}
	if p.Status != nil && !p.Status.Valid() {
		return domain.NewValidationError("status must be one of pending, contacted, responded, converted")
	}
	return nil
}

func validateText(field, v string) error {
	if v == "" {
		return domain.NewValidationError(field + " is required")
	}
	if utf8.RuneCountInString(v) > maxFieldLength {
		return domain.NewValidationError(field + " must not exceed 200 characters")
	}
	return nil
}

func validateEmail(email string) error {
	if email == "" {
		return domain.NewValidationError("email is required")
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Name != "" || addr.Address != email {
		return domain.NewValidationError("email must be a valid email address")
	}
	return nil
}
