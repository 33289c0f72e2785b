package upsells

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/angelmondragon/minishop-backend/internal/repo"
	"github.com/angelmondragon/minishop-backend/pkg/db/models"
	"github.com/angelmondragon/minishop-backend/pkg/enums"
)

// DefaultMaxPerOrder is the cap given to auto-created configs.
const DefaultMaxPerOrder = 2

// Repository persists upsells and the per-tenant upsell config.
type Repository struct {
	repo.Base
}

// NewRepository constructs an upsell repository bound to the provided gorm DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{Base: repo.NewBase(db)}
}

// WithTx returns a repository bound to the supplied transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{Base: r.Base.WithTx(tx)}
}

// FindConfig returns gorm.ErrRecordNotFound when the tenant never configured upsells.
func (r *Repository) FindConfig(ctx context.Context, tenantID uuid.UUID) (*models.UpsellConfig, error) {
	var cfg models.UpsellConfig
	if err := r.Scoped(ctx, tenantID, &models.UpsellConfig{}).First(&cfg).Error; err != nil {
		return nil, err
	}
	return &cfg, nil
}

// EnsureConfig returns the tenant config, inserting the default one on first access.
func (r *Repository) EnsureConfig(ctx context.Context, tenantID uuid.UUID) (*models.UpsellConfig, error) {
	now := time.Now().UTC()
	err := r.DB(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "tenant_id"}},
		DoNothing: true,
	}).Create(&models.UpsellConfig{
		ID:                 uuid.New(),
		TenantID:           tenantID,
		UpsellType:         enums.UpsellTypePostPurchase,
		MaxUpsellsPerOrder: DefaultMaxPerOrder,
		IsActive:           true,
		CreatedAt:          now,
		UpdatedAt:          now,
	}).Error
	if err != nil {
		return nil, err
	}
	return r.FindConfig(ctx, tenantID)
}

// UpdateConfig applies the given column updates to the tenant config.
func (r *Repository) UpdateConfig(ctx context.Context, tenantID uuid.UUID, updates map[string]any) error {
	if len(updates) == 0 {
		return nil
	}
	return r.Scoped(ctx, tenantID, &models.UpsellConfig{}).Updates(updates).Error
}

// ListActive returns active upsells ordered priority DESC, created_at DESC.
func (r *Repository) ListActive(ctx context.Context, tenantID uuid.UUID) ([]models.Upsell, error) {
	var rows []models.Upsell
	err := r.Scoped(ctx, tenantID, &models.Upsell{}).
		Where("is_active = ?", true).
		Order("priority DESC").
		Order("created_at DESC").
		Find(&rows).Error
	return rows, err
}

// List returns every upsell of the tenant in display order.
func (r *Repository) List(ctx context.Context, tenantID uuid.UUID) ([]models.Upsell, error) {
	var rows []models.Upsell
	err := r.Scoped(ctx, tenantID, &models.Upsell{}).
		Order("priority DESC").
		Order("created_at DESC").
		Find(&rows).Error
	return rows, err
}

// FindByID loads an upsell owned by tenantID.
func (r *Repository) FindByID(ctx context.Context, tenantID, upsellID uuid.UUID) (*models.Upsell, error) {
	var upsell models.Upsell
	err := r.Scoped(ctx, tenantID, &models.Upsell{}).
		Where("id = ?", upsellID).
		First(&upsell).Error
	if err != nil {
		return nil, err
	}
	return &upsell, nil
}

// Create inserts a new upsell.
func (r *Repository) Create(ctx context.Context, upsell *models.Upsell) error {
	return r.DB(ctx).Create(upsell).Error
}

// Update rewrites the editable columns of an upsell and reports whether a row matched.
// Impression and acceptance counters are left alone.
func (r *Repository) Update(ctx context.Context, upsell *models.Upsell) (bool, error) {
	res := r.Scoped(ctx, upsell.TenantID, &models.Upsell{}).
		Where("id = ?", upsell.ID).
		Select("name", "is_active", "priority", "trigger_type", "trigger_product_ids", "upsell_product_id",
			"discount_type", "discount_value", "title", "subtitle", "add_button_text", "decline_button_text").
		Updates(upsell)
	return res.RowsAffected > 0, res.Error
}

// SetActive toggles an upsell and reports whether a row matched.
func (r *Repository) SetActive(ctx context.Context, tenantID, upsellID uuid.UUID, active bool) (bool, error) {
	res := r.Scoped(ctx, tenantID, &models.Upsell{}).
		Where("id = ?", upsellID).
		Update("is_active", active)
	return res.RowsAffected > 0, res.Error
}

// Delete removes an upsell and reports whether a row matched.
func (r *Repository) Delete(ctx context.Context, tenantID, upsellID uuid.UUID) (bool, error) {
	res := r.DB(ctx).
		Where("id = ? AND tenant_id = ?", upsellID, tenantID).
		Delete(&models.Upsell{})
	return res.RowsAffected > 0, res.Error
}

// IncrementImpressions bumps impressions in place.
func (r *Repository) IncrementImpressions(ctx context.Context, tenantID, upsellID uuid.UUID) error {
	return r.increment(ctx, tenantID, upsellID, "impressions")
}

// IncrementAccepted bumps accepted_count in place.
func (r *Repository) IncrementAccepted(ctx context.Context, tenantID, upsellID uuid.UUID) error {
	return r.increment(ctx, tenantID, upsellID, "accepted_count")
}

func (r *Repository) increment(ctx context.Context, tenantID, upsellID uuid.UUID, column string) error {
	res := r.Scoped(ctx, tenantID, &models.Upsell{}).
		Where("id = ?", upsellID).
		UpdateColumn(column, gorm.Expr(column+" + 1"))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
