package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	dbtypes "github.com/angelmondragon/minishop-backend/pkg/db/types"
	"github.com/angelmondragon/minishop-backend/pkg/enums"
)

// Upsell is a post-purchase offer for an add-on product.
type Upsell struct {
	ID                uuid.UUID           `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	TenantID          uuid.UUID           `gorm:"column:tenant_id;type:uuid;not null"`
	Name              string              `gorm:"column:name;not null"`
	IsActive          bool                `gorm:"column:is_active;not null"`
	Priority          int                 `gorm:"column:priority;not null"`
	TriggerType       enums.UpsellTrigger `gorm:"column:trigger_type;not null"`
	TriggerProductIDs dbtypes.UUIDArray   `gorm:"column:trigger_product_ids;type:uuid[];not null"`
	UpsellProductID   uuid.UUID           `gorm:"column:upsell_product_id;type:uuid;not null"`
	DiscountType      enums.DiscountType  `gorm:"column:discount_type;not null"`
	DiscountValue     decimal.Decimal     `gorm:"column:discount_value;type:numeric(12,2);not null"`
	Title             string              `gorm:"column:title;not null"`
	Subtitle          *string             `gorm:"column:subtitle"`
	AddButtonText     string              `gorm:"column:add_button_text;not null"`
	DeclineButtonText string              `gorm:"column:decline_button_text;not null"`
	Impressions       int64               `gorm:"column:impressions;not null"`
	AcceptedCount     int64               `gorm:"column:accepted_count;not null"`
	CreatedAt         time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt         time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}

// UpsellConfig is the per-tenant switch and cap for post-purchase upsells.
type UpsellConfig struct {
	ID                 uuid.UUID        `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	TenantID           uuid.UUID        `gorm:"column:tenant_id;type:uuid;not null;uniqueIndex"`
	UpsellType         enums.UpsellType `gorm:"column:upsell_type;not null"`
	MaxUpsellsPerOrder int              `gorm:"column:max_upsells_per_order;not null"`
	IsActive           bool             `gorm:"column:is_active;not null"`
	CreatedAt          time.Time        `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt          time.Time        `gorm:"column:updated_at;autoUpdateTime"`
}
