package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Product is a tenant catalog entry.
type Product struct {
	ID             uuid.UUID           `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	TenantID       uuid.UUID           `gorm:"column:tenant_id;type:uuid;not null"`
	Name           string              `gorm:"column:name;not null"`
	Slug           string              `gorm:"column:slug;not null"`
	Description    *string             `gorm:"column:description"`
	Price          decimal.Decimal     `gorm:"column:price;type:numeric(12,2);not null"`
	CompareAtPrice decimal.NullDecimal `gorm:"column:compare_at_price;type:numeric(12,2)"`
	DropiProductID *string             `gorm:"column:dropi_product_id"`
	IsActive       bool                `gorm:"column:is_active;not null"`
	SortOrder      int                 `gorm:"column:sort_order;not null"`
	Variants       []ProductVariant    `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
	Images         []ProductImage      `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
	CreatedAt      time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}

// ProductVariant is a purchasable option of a product with an optional price override.
type ProductVariant struct {
	ID               uuid.UUID           `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	ProductID        uuid.UUID           `gorm:"column:product_id;type:uuid;not null"`
	TenantID         uuid.UUID           `gorm:"column:tenant_id;type:uuid;not null"`
	Name             string              `gorm:"column:name;not null"`
	PriceOverride    decimal.NullDecimal `gorm:"column:price_override;type:numeric(12,2)"`
	DropiVariationID *string             `gorm:"column:dropi_variation_id"`
	IsActive         bool                `gorm:"column:is_active;not null"`
	SortOrder        int                 `gorm:"column:sort_order;not null"`
	CreatedAt        time.Time           `gorm:"column:created_at;autoCreateTime"`
}

// ProductImage stores the public URL of an uploaded product picture.
type ProductImage struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	ProductID uuid.UUID `gorm:"column:product_id;type:uuid;not null"`
	TenantID  uuid.UUID `gorm:"column:tenant_id;type:uuid;not null"`
	ImageURL  string    `gorm:"column:image_url;not null"`
	SortOrder int       `gorm:"column:sort_order;not null"`
	IsPrimary bool      `gorm:"column:is_primary;not null"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}
