package campaign

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/simp-lee/leadboard/internal/domain"
	"github.com/simp-lee/leadboard/internal/pkg"
)

// campaignRepository implements domain.CampaignRepository using GORM.
type campaignRepository struct {
	db *gorm.DB
}

// NewCampaignRepository creates a new CampaignRepository backed by the given GORM database.
func NewCampaignRepository(db *gorm.DB) domain.CampaignRepository {
	return &campaignRepository{db: db}
}

// Create inserts a new campaign.
func (r *campaignRepository) Create(ctx context.Context, c *domain.Campaign) error {
	if err := r.db.WithContext(ctx).Create(c).Error; err != nil {
		return pkg.MapDBError(err)
	}
	return nil
}

// GetByID retrieves a campaign by its primary key.
func (r *campaignRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Campaign, error) {
	var c domain.Campaign
	if err := r.db.WithContext(ctx).Take(&c, "id = ?", id).Error; err != nil {
		return nil, pkg.MapDBError(err)
	}
	return &c, nil
}

// List counts the campaigns matching preds and returns the requested window,
// newest first.
func (r *campaignRepository) List(ctx context.Context, opts domain.PaginationOptions, preds []domain.Predicate) ([]domain.Campaign, int64, error) {
	query := func() *gorm.DB {
		return r.db.WithContext(ctx).Model(&domain.Campaign{}).Scopes(pkg.Where(preds))
	}

	var total int64
	if err := query().Count(&total).Error; err != nil {
		return nil, 0, pkg.MapDBError(err)
	}

	campaigns := []domain.Campaign{}
	if err := query().
		Order("created_at DESC").Order("id DESC").
		Scopes(pkg.Paginate(opts)).
		Find(&campaigns).Error; err != nil {
		return nil, 0, pkg.MapDBError(err)
	}
	return campaigns, total, nil
}

// Update applies patch to the stored campaign inside a transaction.
func (r *campaignRepository) Update(ctx context.Context, id uuid.UUID, patch domain.CampaignPatch) (*domain.Campaign, error) {
	var c domain.Campaign
	err := pkg.WithTx(ctx, r.db, func(tx *gorm.DB) error {
		if err := tx.Take(&c, "id = ?", id).Error; err != nil {
			return err
		}
		if err := patch.Apply(&c); err != nil {
			return err
		}
		return tx.Save(&c).Error
	})
	if err != nil {
		return nil, pkg.MapDBError(err)
	}
	return &c, nil
}

// Delete removes a campaign together with its leads and returns the removed
// campaign.
func (r *campaignRepository) Delete(ctx context.Context, id uuid.UUID) (*domain.Campaign, error) {
	var c domain.Campaign
	err := pkg.WithTx(ctx, r.db, func(tx *gorm.DB) error {
		if err := tx.Take(&c, "id = ?", id).Error; err != nil {
			return err
		}
		if err := tx.Where("campaign_id = ?", id).Delete(&domain.Lead{}).Error; err != nil {
			return err
		}
		return tx.Delete(&c).Error
	})
	if err != nil {
		return nil, pkg.MapDBError(err)
	}
	return &c, nil
}
