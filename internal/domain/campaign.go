package domain

import (
	"context"
	"math"
	"time"

	"github.com/google/uuid"
)

// CampaignStatus is the lifecycle state of a campaign.
type CampaignStatus string

const (
	CampaignDraft     CampaignStatus = "draft"
	CampaignActive    CampaignStatus = "active"
	CampaignPaused    CampaignStatus = "paused"
	CampaignCompleted CampaignStatus = "completed"
)

// Aggregate campaign status filters understood by campaign listings.
const (
	CampaignFilterAll      = "all"
	CampaignFilterActive   = "active"
	CampaignFilterInactive = "inactive"
)

// InactiveCampaignStatuses are the statuses covered by the "inactive" filter.
var InactiveCampaignStatuses = []CampaignStatus{CampaignDraft, CampaignPaused, CampaignCompleted}

// Valid reports whether s is a known campaign status.
func (s CampaignStatus) Valid() bool {
	switch s {
	case CampaignDraft, CampaignActive, CampaignPaused, CampaignCompleted:
		return true
	}
	return false
}

// Campaign is a named outreach effort with aggregate lead metrics.
type Campaign struct {
	ID              uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	Name            string         `gorm:"not null" json:"name"`
	Status          CampaignStatus `gorm:"size:16;not null;default:active" json:"status"`
	TotalLeads      int            `gorm:"not null" json:"total_leads"`
	SuccessfulLeads int            `gorm:"not null" json:"successful_leads"`
	ResponseRate    int            `json:"response_rate"`
	CreatedAt       time.Time      `json:"created_at"`
}

// ResponseRate derives the percentage of successful leads, rounded half away
// from zero. A campaign without leads has a rate of 0.
func ResponseRate(successful, total int) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(float64(successful) / float64(total) * 100))
}

// ValidateCounts checks the lead counters and rate of a campaign.
func (c *Campaign) ValidateCounts() error {
	if c.TotalLeads < 0 {
		return NewValidationError("total_leads must not be negative")
	}
	if c.SuccessfulLeads < 0 {
		return NewValidationError("successful_leads must not be negative")
	}
	if c.SuccessfulLeads > c.TotalLeads {
		return NewValidationError("successful_leads must not exceed total_leads")
	}
	if c.ResponseRate < 0 || c.ResponseRate > 100 {
		return NewValidationError("response_rate must be between 0 and 100")
	}
	return nil
}

// CampaignPatch is a partial campaign update; nil fields are left untouched.
type CampaignPatch struct {
	Name            *string
	Status          *CampaignStatus
	TotalLeads      *int
	SuccessfulLeads *int
	ResponseRate    *int
}

// Empty reports whether the patch changes nothing.
func (p CampaignPatch) Empty() bool {
	return p.Name == nil && p.Status == nil && p.TotalLeads == nil &&
		p.SuccessfulLeads == nil && p.ResponseRate == nil
}

// Apply merges the patch into c. When either lead counter changes and no
// explicit rate is given, the response rate is re-derived from the merged
// counters. The merged campaign is validated before Apply returns.
func (p CampaignPatch) Apply(c *Campaign) error {
	if p.Name != nil {
		c.Name = *p.Name
	}
	if p.Status != nil {
		if !p.Status.Valid() {
			return NewValidationError("status must be one of draft, active, paused, completed")
		}
		c.Status = *p.Status
	}
	if p.TotalLeads != nil {
		c.TotalLeads = *p.TotalLeads
	}
	if p.SuccessfulLeads != nil {
		c.SuccessfulLeads = *p.SuccessfulLeads
	}
	switch {
	case p.ResponseRate != nil:
		c.ResponseRate = *p.ResponseRate
	case p.TotalLeads != nil || p.SuccessfulLeads != nil:
		c.ResponseRate = ResponseRate(c.SuccessfulLeads, c.TotalLeads)
	}
	return c.ValidateCounts()
}

// NewCampaign holds the fields accepted when creating a campaign.
type NewCampaign struct {
	Name            string
	Status          CampaignStatus
	TotalLeads      int
	SuccessfulLeads int
	ResponseRate    *int
}

// CampaignRepository defines the data access interface for campaigns.
type CampaignRepository interface {
	Create(ctx context.Context, c *Campaign) error
	GetByID(ctx context.Context, id uuid.UUID) (*Campaign, error)
	List(ctx context.Context, opts PaginationOptions, preds []Predicate) ([]Campaign, int64, error)
	Update(ctx context.Context, id uuid.UUID, patch CampaignPatch) (*Campaign, error)
	Delete(ctx context.Context, id uuid.UUID) (*Campaign, error)
}

// CampaignService defines the business logic interface for campaigns.
type CampaignService interface {
	ListCampaigns(ctx context.Context, params PaginationParams) (*Page[Campaign], error)
	GetCampaign(ctx context.Context, id uuid.UUID) (*Campaign, error)
	CreateCampaign(ctx context.Context, in NewCampaign) (*Campaign, error)
	UpdateCampaign(ctx context.Context, id uuid.UUID, patch CampaignPatch) (*Campaign, error)
	DeleteCampaign(ctx context.Context, id uuid.UUID) (*Campaign, error)
}
