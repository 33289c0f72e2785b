package offers

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/angelmondragon/minishop-backend/internal/repo"
	"github.com/angelmondragon/minishop-backend/pkg/db/models"
)

// Repository persists quantity offers and their tiers.
type Repository struct {
	repo.Base
}

// NewRepository constructs an offer repository bound to the provided gorm DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{Base: repo.NewBase(db)}
}

// WithTx returns a repository bound to the supplied transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{Base: r.Base.WithTx(tx)}
}

func preloadTiers(db *gorm.DB) *gorm.DB {
	return db.Order("quantity DESC").Order("position ASC")
}

// ListActive returns the tenant's active offers with tiers, priority DESC then created_at DESC.
func (r *Repository) ListActive(ctx context.Context, tenantID uuid.UUID) ([]models.QuantityOffer, error) {
	var rows []models.QuantityOffer
	err := r.Scoped(ctx, tenantID, &models.QuantityOffer{}).
		Preload("Tiers", preloadTiers).
		Where("is_active = ?", true).
		Order("priority DESC").
		Order("created_at DESC").
		Find(&rows).Error
	return rows, err
}

// List returns every offer of the tenant, active or not.
func (r *Repository) List(ctx context.Context, tenantID uuid.UUID) ([]models.QuantityOffer, error) {
	var rows []models.QuantityOffer
	err := r.Scoped(ctx, tenantID, &models.QuantityOffer{}).
		Preload("Tiers", preloadTiers).
		Order("priority DESC").
		Order("created_at DESC").
		Find(&rows).Error
	return rows, err
}

// FindByID loads one offer with tiers.
func (r *Repository) FindByID(ctx context.Context, tenantID, offerID uuid.UUID) (*models.QuantityOffer, error) {
	var offer models.QuantityOffer
	err := r.Scoped(ctx, tenantID, &models.QuantityOffer{}).
		Preload("Tiers", preloadTiers).
		Where("id = ?", offerID).
		First(&offer).Error
	if err != nil {
		return nil, err
	}
	return &offer, nil
}

// Create inserts the offer row followed by its tiers in one transaction.
func (r *Repository) Create(ctx context.Context, offer *models.QuantityOffer) error {
	return r.DB(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(offer).Error; err != nil {
			return err
		}
		return insertTiers(tx, offer)
	})
}

// Replace rewrites the offer columns and swaps its whole tier set in one
// transaction. It reports whether the offer exists for the tenant.
func (r *Repository) Replace(ctx context.Context, offer *models.QuantityOffer) (bool, error) {
	found := false
	err := r.DB(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.QuantityOffer{}).
			Where("id = ? AND tenant_id = ?", offer.ID, offer.TenantID).
			Select("name", "product_ids", "priority", "is_active").
			Updates(offer)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return nil
		}
		found = true
		if err := tx.Where("offer_id = ?", offer.ID).Delete(&models.QuantityOfferTier{}).Error; err != nil {
			return err
		}
		return insertTiers(tx, offer)
	})
	return found, err
}

func insertTiers(tx *gorm.DB, offer *models.QuantityOffer) error {
	if len(offer.Tiers) == 0 {
		return nil
	}
	for i := range offer.Tiers {
		offer.Tiers[i].OfferID = offer.ID
	}
	return tx.Create(&offer.Tiers).Error
}

// SetActive toggles an offer and reports whether a row matched.
func (r *Repository) SetActive(ctx context.Context, tenantID, offerID uuid.UUID, active bool) (bool, error) {
	res := r.Scoped(ctx, tenantID, &models.QuantityOffer{}).
		Where("id = ?", offerID).
		Update("is_active", active)
	return res.RowsAffected > 0, res.Error
}

// Delete removes the offer and its tiers and reports whether a row matched.
func (r *Repository) Delete(ctx context.Context, tenantID, offerID uuid.UUID) (bool, error) {
	db := r.DB(ctx)
	owned := db.Model(&models.QuantityOffer{}).Select("id").Where("id = ? AND tenant_id = ?", offerID, tenantID)
	if err := db.Where("offer_id IN (?)", owned).Delete(&models.QuantityOfferTier{}).Error; err != nil {
		return false, err
	}
	res := db.Where("id = ? AND tenant_id = ?", offerID, tenantID).Delete(&models.QuantityOffer{})
	return res.RowsAffected > 0, res.Error
}

// IncrementOrdersCount bumps orders_count in place.
func (r *Repository) IncrementOrdersCount(ctx context.Context, tenantID, offerID uuid.UUID) error {
	return r.increment(ctx, tenantID, offerID, "orders_count")
}

// IncrementImpressions bumps impressions in place.
func (r *Repository) IncrementImpressions(ctx context.Context, tenantID, offerID uuid.UUID) error {
	return r.increment(ctx, tenantID, offerID, "impressions")
}

func (r *Repository) increment(ctx context.Context, tenantID, offerID uuid.UUID, column string) error {
	res := r.Scoped(ctx, tenantID, &models.QuantityOffer{}).
		Where("id = ?", offerID).
		UpdateColumn(column, gorm.Expr(column+" + 1"))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
