package stores

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/angelmondragon/minishop-backend/internal/repo"
	"github.com/angelmondragon/minishop-backend/pkg/db/models"
)

// Repository persists the per-tenant storefront config.
type Repository struct {
	repo.Base
}

// NewRepository constructs a store config repository bound to the provided gorm DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{Base: repo.NewBase(db)}
}

// FindConfig returns gorm.ErrRecordNotFound until the tenant saves a config.
func (r *Repository) FindConfig(ctx context.Context, tenantID uuid.UUID) (*models.StoreConfig, error) {
	var cfg models.StoreConfig
	if err := r.Scoped(ctx, tenantID, &models.StoreConfig{}).First(&cfg).Error; err != nil {
		return nil, err
	}
	return &cfg, nil
}

// EnsureConfig inserts the default config when none exists and returns the stored row.
func (r *Repository) EnsureConfig(ctx context.Context, tenantID uuid.UUID) (*models.StoreConfig, error) {
	now := time.Now().UTC()
	row := models.DefaultStoreConfig(tenantID)
	row.CreatedAt, row.UpdatedAt = now, now
	err := r.DB(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "tenant_id"}},
		DoNothing: true,
	}).Create(&row).Error
	if err != nil {
		return nil, err
	}
	return r.FindConfig(ctx, tenantID)
}

// UpdateConfig applies column updates to the tenant config.
func (r *Repository) UpdateConfig(ctx context.Context, tenantID uuid.UUID, updates map[string]any) error {
	if len(updates) == 0 {
		return nil
	}
	return r.Scoped(ctx, tenantID, &models.StoreConfig{}).Updates(updates).Error
}
