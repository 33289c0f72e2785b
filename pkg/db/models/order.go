package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/minishop-backend/pkg/enums"
)

// Order is a placed storefront order. Totals only change through upsell adds.
type Order struct {
	ID              uuid.UUID           `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	TenantID        uuid.UUID           `gorm:"column:tenant_id;type:uuid;not null"`
	OrderNumber     string              `gorm:"column:order_number;not null"`
	CustomerName    string              `gorm:"column:customer_name;not null"`
	CustomerSurname *string             `gorm:"column:customer_surname"`
	CustomerPhone   string              `gorm:"column:customer_phone;not null"`
	CustomerEmail   *string             `gorm:"column:customer_email"`
	CustomerDNI     *string             `gorm:"column:customer_dni"`
	Address         string              `gorm:"column:address;not null"`
	City            string              `gorm:"column:city;not null"`
	State           *string             `gorm:"column:state"`
	Neighborhood    *string             `gorm:"column:neighborhood"`
	ZipCode         *string             `gorm:"column:zip_code"`
	AddressNotes    *string             `gorm:"column:address_notes"`
	Subtotal        decimal.Decimal     `gorm:"column:subtotal;type:numeric(12,2);not null"`
	ShippingCost    decimal.Decimal     `gorm:"column:shipping_cost;type:numeric(12,2);not null"`
	Discount        decimal.Decimal     `gorm:"column:discount;type:numeric(12,2);not null"`
	Total           decimal.Decimal     `gorm:"column:total;type:numeric(12,2);not null"`
	Status          enums.OrderStatus   `gorm:"column:status;not null"`
	PaymentMethod   enums.PaymentMethod `gorm:"column:payment_method;not null"`
	UTMSource       *string             `gorm:"column:utm_source"`
	UTMMedium       *string             `gorm:"column:utm_medium"`
	UTMCampaign     *string             `gorm:"column:utm_campaign"`
	Notes           *string             `gorm:"column:notes"`
	AdminNotes      *string             `gorm:"column:admin_notes"`
	Items           []OrderItem         `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	CreatedAt       time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}

// OrderItem snapshots a priced line at the time it was added.
type OrderItem struct {
	ID               uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OrderID          uuid.UUID       `gorm:"column:order_id;type:uuid;not null"`
	TenantID         uuid.UUID       `gorm:"column:tenant_id;type:uuid;not null"`
	ProductID        *uuid.UUID      `gorm:"column:product_id;type:uuid"`
	VariantID        *uuid.UUID      `gorm:"column:variant_id;type:uuid"`
	UpsellID         *uuid.UUID      `gorm:"column:upsell_id;type:uuid"`
	ProductName      string          `gorm:"column:product_name;not null"`
	VariantName      *string         `gorm:"column:variant_name"`
	Quantity         int             `gorm:"column:quantity;not null"`
	UnitPrice        decimal.Decimal `gorm:"column:unit_price;type:numeric(12,2);not null"`
	TotalPrice       decimal.Decimal `gorm:"column:total_price;type:numeric(12,2);not null"`
	DropiProductID   *string         `gorm:"column:dropi_product_id"`
	DropiVariationID *string         `gorm:"column:dropi_variation_id"`
	CreatedAt        time.Time       `gorm:"column:created_at;autoCreateTime"`
}
