package lead

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/simp-lee/leadboard/internal/domain"
	"github.com/simp-lee/leadboard/internal/pkg"
)

// listColumns selects a lead together with its campaign's name.
const listColumns = "leads.*, campaigns.name AS campaign_name"

// leadRepository implements domain.LeadRepository using GORM.
type leadRepository struct {
	db *gorm.DB
}

// NewLeadRepository creates a new LeadRepository backed by the given GORM database.
func NewLeadRepository(db *gorm.DB) domain.LeadRepository {
	return &leadRepository{db: db}
}

// joined starts a lead query left-joined to campaigns.
func joined(db *gorm.DB) *gorm.DB {
	return db.Model(&domain.Lead{}).
		Joins("LEFT JOIN campaigns ON campaigns.id = leads.campaign_id")
}

// Create inserts a new lead.
func (r *leadRepository) Create(ctx context.Context, l *domain.Lead) error {
	if err := r.db.WithContext(ctx).Create(l).Error; err != nil {
		return pkg.MapDBError(err)
	}
	return nil
}

// GetByID retrieves a lead, including its campaign name, by primary key.
func (r *leadRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Lead, error) {
	l, err := takeJoined(r.db.WithContext(ctx), id)
	if err != nil {
		return nil, pkg.MapDBError(err)
	}
	return l, nil
}

func takeJoined(db *gorm.DB, id uuid.UUID) (*domain.Lead, error) {
	var l domain.Lead
	if err := joined(db).Select(listColumns).Where("leads.id = ?", id).Take(&l).Error; err != nil {
		return nil, err
	}
	return &l, nil
}

// List counts the leads matching preds and returns the requested window,
// most recently contacted first.
func (r *leadRepository) List(ctx context.Context, opts domain.PaginationOptions, preds []domain.Predicate) ([]domain.Lead, int64, error) {
	query := func() *gorm.DB {
		return joined(r.db.WithContext(ctx)).Scopes(pkg.Where(preds))
	}

	var total int64
	if err := query().Count(&total).Error; err != nil {
		return nil, 0, pkg.MapDBError(err)
	}

	leads := []domain.Lead{}
	if err := query().
		Select(listColumns).
		Order("leads.last_contact_date DESC").Order("leads.id").
		Scopes(pkg.Paginate(opts)).
		Find(&leads).Error; err != nil {
		return nil, 0, pkg.MapDBError(err)
	}
	return leads, total, nil
}

// Update applies patch to the stored lead inside a transaction.
func (r *leadRepository) Update(ctx context.Context, id uuid.UUID, patch domain.LeadPatch, now time.Time) (*domain.Lead, error) {
	var updated *domain.Lead
	err := pkg.WithTx(ctx, r.db, func(tx *gorm.DB) error {
		var l domain.Lead
		if err := tx.Take(&l, "id = ?", id).Error; err != nil {
			return err
		}
		if err := patch.Apply(&l, now); err != nil {
			return err
		}
		if err := tx.Save(&l).Error; err != nil {
			return err
		}
		var err error
		updated, err = takeJoined(tx, id)
		return err
	})
	if err != nil {
		return nil, pkg.MapDBError(err)
	}
	return updated, nil
}

// UpdateStatus sets the lead's status and stamps its last contact date, even
// when the status is unchanged.
func (r *leadRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.LeadStatus, now time.Time) (*domain.Lead, error) {
	return r.Update(ctx, id, domain.LeadPatch{Status: &status}, now)
}

// Delete removes a lead and returns it.
func (r *leadRepository) Delete(ctx context.Context, id uuid.UUID) (*domain.Lead, error) {
	var deleted *domain.Lead
	err := pkg.WithTx(ctx, r.db, func(tx *gorm.DB) error {
		l, err := takeJoined(tx, id)
		if err != nil {
			return err
		}
		if err := tx.Delete(&domain.Lead{}, "id = ?", id).Error; err != nil {
			return err
		}
		deleted = l
		return nil
	})
	if err != nil {
		return nil, pkg.MapDBError(err)
	}
	return deleted, nil
}
