package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	dbtypes "github.com/angelmondragon/minishop-backend/pkg/db/types"
	"github.com/angelmondragon/minishop-backend/pkg/enums"
)

// QuantityOffer is a "buy N, get a discount" rule attached to a set of products.
type QuantityOffer struct {
	ID          uuid.UUID           `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	TenantID    uuid.UUID           `gorm:"column:tenant_id;type:uuid;not null"`
	Name        string              `gorm:"column:name;not null"`
	ProductIDs  dbtypes.UUIDArray   `gorm:"column:product_ids;type:uuid[];not null"`
	Priority    int                 `gorm:"column:priority;not null"`
	IsActive    bool                `gorm:"column:is_active;not null"`
	Impressions int64               `gorm:"column:impressions;not null"`
	OrdersCount int64               `gorm:"column:orders_count;not null"`
	Tiers       []QuantityOfferTier `gorm:"foreignKey:OfferID;constraint:OnDelete:CASCADE"`
	CreatedAt   time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}

// QuantityOfferTier is one discount threshold inside a QuantityOffer.
type QuantityOfferTier struct {
	ID            uuid.UUID          `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OfferID       uuid.UUID          `gorm:"column:offer_id;type:uuid;not null"`
	Quantity      int                `gorm:"column:quantity;not null"`
	DiscountType  enums.DiscountType `gorm:"column:discount_type;not null"`
	DiscountValue decimal.Decimal    `gorm:"column:discount_value;type:numeric(12,2);not null"`
	Position      int                `gorm:"column:position;not null"`
	Title         *string            `gorm:"column:title"`
	LabelText     *string            `gorm:"column:label_text"`
	CreatedAt     time.Time          `gorm:"column:created_at;autoCreateTime"`
}
