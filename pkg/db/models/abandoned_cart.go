package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/minishop-backend/pkg/enums"
)

// AbandonedCart is the partially filled checkout form of a storefront session.
type AbandonedCart struct {
	ID            uuid.UUID           `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	TenantID      uuid.UUID           `gorm:"column:tenant_id;type:uuid;not null"`
	SessionID     string              `gorm:"column:session_id;not null"`
	CustomerName  *string             `gorm:"column:customer_name"`
	CustomerPhone *string             `gorm:"column:customer_phone"`
	CustomerEmail *string             `gorm:"column:customer_email"`
	ProductID     *uuid.UUID          `gorm:"column:product_id;type:uuid"`
	ProductName   *string             `gorm:"column:product_name"`
	VariantName   *string             `gorm:"column:variant_name"`
	Quantity      int                 `gorm:"column:quantity;not null"`
	TotalValue    decimal.NullDecimal `gorm:"column:total_value;type:numeric(12,2)"`
	Status        enums.CartStatus    `gorm:"column:status;not null"`
	LastStep      *string             `gorm:"column:last_step"`
	UTMSource     *string             `gorm:"column:utm_source"`
	CreatedAt     time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}
