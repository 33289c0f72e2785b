package products

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/angelmondragon/minishop-backend/internal/repo"
	"github.com/angelmondragon/minishop-backend/pkg/db/models"
)

// Repository persists the tenant catalog: products with their variants and images.
type Repository struct {
	repo.Base
}

// NewRepository constructs a product repository bound to the provided gorm DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{Base: repo.NewBase(db)}
}

// WithTx returns a repository bound to the supplied transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{Base: r.Base.WithTx(tx)}
}

// FindActiveForTenant loads an active product owned by tenantID with all of its variants.
// gorm.ErrRecordNotFound covers missing, inactive and foreign products alike.
func (r *Repository) FindActiveForTenant(ctx context.Context, tenantID, productID uuid.UUID) (*models.Product, error) {
	var product models.Product
	err := r.Scoped(ctx, tenantID, &models.Product{}).
		Preload("Variants", orderVariants).
		Where("id = ? AND is_active = ?", productID, true).
		First(&product).Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// ListActiveByIDs loads the active products among ids with active variants and images.
// Missing ids are silently absent from the result.
func (r *Repository) ListActiveByIDs(ctx context.Context, tenantID uuid.UUID, ids []uuid.UUID) ([]models.Product, error) {
	if len(ids) == 0 {
		return []models.Product{}, nil
	}
	var rows []models.Product
	err := r.Scoped(ctx, tenantID, &models.Product{}).
		Preload("Variants", activeVariants).
		Preload("Images", orderImages).
		Where("id IN ? AND is_active = ?", ids, true).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func orderVariants(db *gorm.DB) *gorm.DB {
	return db.Order("sort_order ASC").Order("created_at ASC")
}

func activeVariants(db *gorm.DB) *gorm.DB {
	return orderVariants(db.Where("is_active = ?", true))
}

func orderImages(db *gorm.DB) *gorm.DB {
	return db.Order("is_primary DESC").Order("sort_order ASC").Order("created_at ASC")
}

// ListActive returns the storefront catalog in display order.
func (r *Repository) ListActive(ctx context.Context, tenantID uuid.UUID) ([]models.Product, error) {
	var rows []models.Product
	err := r.Scoped(ctx, tenantID, &models.Product{}).
		Preload("Variants", activeVariants).
		Preload("Images", orderImages).
		Where("is_active = ?", true).
		Order("sort_order ASC").
		Order("created_at DESC").
		Find(&rows).Error
	return rows, err
}

// FindActiveBySlug loads an active product by its storefront slug.
func (r *Repository) FindActiveBySlug(ctx context.Context, tenantID uuid.UUID, slug string) (*models.Product, error) {
	var product models.Product
	err := r.Scoped(ctx, tenantID, &models.Product{}).
		Preload("Variants", activeVariants).
		Preload("Images", orderImages).
		Where("slug = ? AND is_active = ?", slug, true).
		First(&product).Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// List returns one admin page of products plus the total matching the filters.
func (r *Repository) List(ctx context.Context, tenantID uuid.UUID, filters ListFilters, offset, limit int) ([]models.Product, int64, error) {
	filtered := func() *gorm.DB {
		query := r.Scoped(ctx, tenantID, &models.Product{})
		if filters.IsActive != nil {
			query = query.Where("is_active = ?", *filters.IsActive)
		}
		if term := strings.ToLower(strings.TrimSpace(filters.Search)); term != "" {
			query = query.Where("LOWER(name) LIKE ?", "%"+term+"%")
		}
		return query
	}

	var total int64
	if err := filtered().Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []models.Product
	err := filtered().
		Preload("Variants", orderVariants).
		Preload("Images", orderImages).
		Order("sort_order ASC").
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

// FindByID loads a product owned by tenantID with every variant and image.
func (r *Repository) FindByID(ctx context.Context, tenantID, productID uuid.UUID) (*models.Product, error) {
	var product models.Product
	err := r.Scoped(ctx, tenantID, &models.Product{}).
		Preload("Variants", orderVariants).
		Preload("Images", orderImages).
		Where("id = ?", productID).
		First(&product).Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// SlugTaken reports whether another product of the tenant already uses slug.
func (r *Repository) SlugTaken(ctx context.Context, tenantID uuid.UUID, slug string, except uuid.UUID) (bool, error) {
	var count int64
	err := r.Scoped(ctx, tenantID, &models.Product{}).
		Where("slug = ? AND id <> ?", slug, except).
		Count(&count).Error
	return count > 0, err
}

// CreateProduct inserts the product row only; variants and images go through the Replace methods.
func (r *Repository) CreateProduct(ctx context.Context, product *models.Product) error {
	return r.DB(ctx).Omit(clause.Associations).Create(product).Error
}

// UpdateProduct writes every column of product, including zero values.
func (r *Repository) UpdateProduct(ctx context.Context, product *models.Product) error {
	return r.Scoped(ctx, product.TenantID, &models.Product{}).
		Where("id = ?", product.ID).
		Select("name", "slug", "description", "price", "compare_at_price", "dropi_product_id", "is_active", "sort_order").
		Updates(product).Error
}

// ReplaceVariants swaps the full variant set of a product.
func (r *Repository) ReplaceVariants(ctx context.Context, tenantID, productID uuid.UUID, variants []models.ProductVariant) error {
	db := r.DB(ctx)
	if err := db.Where("product_id = ? AND tenant_id = ?", productID, tenantID).Delete(&models.ProductVariant{}).Error; err != nil {
		return err
	}
	if len(variants) == 0 {
		return nil
	}
	return db.Create(&variants).Error
}

// ReplaceImages swaps the full image set of a product.
func (r *Repository) ReplaceImages(ctx context.Context, tenantID, productID uuid.UUID, images []models.ProductImage) error {
	db := r.DB(ctx)
	if err := db.Where("product_id = ? AND tenant_id = ?", productID, tenantID).Delete(&models.ProductImage{}).Error; err != nil {
		return err
	}
	if len(images) == 0 {
		return nil
	}
	return db.Create(&images).Error
}

// DeleteProduct removes a product with its variants and images and reports whether it existed.
// Order items keep their name and price snapshot.
func (r *Repository) DeleteProduct(ctx context.Context, tenantID, productID uuid.UUID) (bool, error) {
	db := r.DB(ctx)
	if err := db.Where("product_id = ? AND tenant_id = ?", productID, tenantID).Delete(&models.ProductVariant{}).Error; err != nil {
		return false, err
	}
	if err := db.Where("product_id = ? AND tenant_id = ?", productID, tenantID).Delete(&models.ProductImage{}).Error; err != nil {
		return false, err
	}
	res := db.Where("id = ? AND tenant_id = ?", productID, tenantID).Delete(&models.Product{})
	return res.RowsAffected > 0, res.Error
}
