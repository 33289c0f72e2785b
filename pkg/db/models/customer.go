package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Customer aggregates orders by phone number within a tenant.
type Customer struct {
	ID          uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	TenantID    uuid.UUID       `gorm:"column:tenant_id;type:uuid;not null"`
	Name        string          `gorm:"column:name;not null"`
	Phone       string          `gorm:"column:phone;not null"`
	Email       *string         `gorm:"column:email"`
	City        *string         `gorm:"column:city"`
	Address     *string         `gorm:"column:address"`
	TotalOrders int             `gorm:"column:total_orders;not null"`
	TotalSpent  decimal.Decimal `gorm:"column:total_spent;type:numeric(12,2);not null"`
	LastOrderAt *time.Time      `gorm:"column:last_order_at"`
	CreatedAt   time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}
