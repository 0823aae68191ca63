package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// LeadStatus is a lead's position in the outreach funnel.
type LeadStatus string

const (
	LeadPending   LeadStatus = "pending"
	LeadContacted LeadStatus = "contacted"
	LeadResponded LeadStatus = "responded"
	LeadConverted LeadStatus = "converted"
)

// LeadFilterAll disables the status filter on lead listings.
const LeadFilterAll = "all"

// LeadStatuses lists the funnel in order.
var LeadStatuses = []LeadStatus{LeadPending, LeadContacted, LeadResponded, LeadConverted}

// Valid reports whether s is a known lead status.
func (s LeadStatus) Valid() bool {
	switch s {
	case LeadPending, LeadContacted, LeadResponded, LeadConverted:
		return true
	}
	return false
}

// Lead is an individual contact that belongs to exactly one campaign.
type Lead struct {
	ID              uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	Name            string     `gorm:"not null" json:"name"`
	Email           string     `gorm:"uniqueIndex;not null" json:"email"`
	Company         string     `gorm:"not null" json:"company"`
	Title           string     `gorm:"not null" json:"title"`
	CampaignID      uuid.UUID  `gorm:"type:uuid;not null;index" json:"campaign_id"`
	Status          LeadStatus `gorm:"size:16;not null;default:pending" json:"status"`
	LastContactDate time.Time  `json:"last_contact_date"`

	// CampaignName is resolved by listings through a join; it is never written.
	CampaignName string `gorm:"->;-:migration" json:"campaign_name,omitempty"`
}

// LeadPatch is a partial lead update; nil fields are left untouched.
type LeadPatch struct {
	Name       *string
	Email      *string
	Company    *string
	Title      *string
	CampaignID *uuid.UUID
	Status     *LeadStatus
}

// Empty reports whether the patch changes nothing.
func (p LeadPatch) Empty() bool {
	return p.Name == nil && p.Email == nil && p.Company == nil &&
		p.Title == nil && p.CampaignID == nil && p.Status == nil
}

// Apply merges the patch into l. A status that differs from l's current one
// stamps LastContactDate with now; repeating the current status does not.
func (p LeadPatch) Apply(l *Lead, now time.Time) error {
	if p.Status != nil && !p.Status.Valid() {
		return NewValidationError("status must be one of pending, contacted, responded, converted")
	}
	if p.Name != nil {
		l.Name = *p.Name
	}
	if p.Email != nil {
		l.Email = *p.Email
	}
	if p.Company != nil {
		l.Company = *p.Company
	}
	if p.Title != nil {
		l.Title = *p.Title
	}
	if p.CampaignID != nil {
		l.CampaignID = *p.CampaignID
	}
	if p.Status != nil && *p.Status != l.Status {
		l.Status = *p.Status
		l.LastContactDate = now
	}
	return nil
}

// NewLead holds the fields accepted when creating a lead.
type NewLead struct {
	Name       string
	Email      string
	Company    string
	Title      string
	CampaignID uuid.UUID
	Status     LeadStatus
}

// LeadRepository defines the data access interface for leads.
type LeadRepository interface {
	Create(ctx context.Context, l *Lead) error
	GetByID(ctx context.Context, id uuid.UUID) (*Lead, error)
	List(ctx context.Context, opts PaginationOptions, preds []Predicate) ([]Lead, int64, error)
	Update(ctx context.Context, id uuid.UUID, patch LeadPatch, now time.Time) (*Lead, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status LeadStatus, now time.Time) (*Lead, error)
	Delete(ctx context.Context, id uuid.UUID) (*Lead, error)
}

// LeadService defines the business logic interface for leads.
type LeadService interface {
	ListLeads(ctx context.Context, params PaginationParams) (*Page[Lead], error)
	RecentActivity(ctx context.Context, params PaginationParams) (*Page[Lead], error)
	GetLead(ctx context.Context, id uuid.UUID) (*Lead, error)
	CreateLead(ctx context.Context, in NewLead) (*Lead, error)
	UpdateLead(ctx context.Context, id uuid.UUID, patch LeadPatch) (*Lead, error)
	UpdateLeadStatus(ctx context.Context, id uuid.UUID, status LeadStatus) (*Lead, error)
	DeleteLead(ctx context.Context, id uuid.UUID) (*Lead, error)
}
