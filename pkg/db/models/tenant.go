package models

import (
	"time"

	"github.com/google/uuid"
)

// Tenant is one independent storefront sharing the deployment.
type Tenant struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Email     string    `gorm:"column:email;not null"`
	StoreName string    `gorm:"column:store_name;not null"`
	Slug      string    `gorm:"column:slug;not null;uniqueIndex"`
	Country   string    `gorm:"column:country;not null"`
	Currency  string    `gorm:"column:currency;not null"`
	IsActive  bool      `gorm:"column:is_active;not null"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

// TenantOrderCounter hands out sequential order numbers per tenant.
type TenantOrderCounter struct {
	TenantID  uuid.UUID `gorm:"column:tenant_id;type:uuid;primaryKey"`
	LastValue int64     `gorm:"column:last_value;not null"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
