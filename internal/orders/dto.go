package orders

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/minishop-backend/pkg/db/models"
	"github.com/angelmondragon/minishop-backend/pkg/enums"
)

// CreatedOrder is returned to the storefront after checkout.
type CreatedOrder struct {
	OrderID     uuid.UUID       `json:"order_id"`
	OrderNumber string          `json:"order_number"`
	Total       decimal.Decimal `json:"total"`
}

// UpsellItemResult reports the accepted upsell line and the order total after it.
type UpsellItemResult struct {
	ItemTotal     decimal.Decimal `json:"item_total"`
	NewOrderTotal decimal.Decimal `json:"new_order_total"`
}

// ListFilters narrows the admin order list.
type ListFilters struct {
	Status   *enums.OrderStatus
	Search   string
	DateFrom *time.Time
	DateTo   *time.Time
}

// OrderSummary is the admin list row.
type OrderSummary struct {
	ID              uuid.UUID           `json:"id"`
	OrderNumber     string              `json:"order_number"`
	CustomerName    string              `json:"customer_name"`
	CustomerSurname *string             `json:"customer_surname,omitempty"`
	CustomerPhone   string              `json:"customer_phone"`
	CustomerEmail   *string             `json:"customer_email,omitempty"`
	City            string              `json:"city"`
	Total           decimal.Decimal     `json:"total"`
	Status          enums.OrderStatus   `json:"status"`
	PaymentMethod   enums.PaymentMethod `json:"payment_method"`
	CreatedAt       time.Time           `json:"created_at"`
}

// OrderList wraps a page of orders plus the next page cursor.
type OrderList struct {
	Orders     []OrderSummary `json:"orders"`
	NextCursor string         `json:"next_cursor,omitempty"`
}

// OrderItemDTO is an immutable line of an order.
type OrderItemDTO struct {
	ID               uuid.UUID       `json:"id"`
	ProductID        *uuid.UUID      `json:"product_id,omitempty"`
	VariantID        *uuid.UUID      `json:"variant_id,omitempty"`
	UpsellID         *uuid.UUID      `json:"upsell_id,omitempty"`
	ProductName      string          `json:"product_name"`
	VariantName      *string         `json:"variant_name,omitempty"`
	Quantity         int             `json:"quantity"`
	UnitPrice        decimal.Decimal `json:"unit_price"`
	TotalPrice       decimal.Decimal `json:"total_price"`
	DropiProductID   *string         `json:"dropi_product_id,omitempty"`
	DropiVariationID *string         `json:"dropi_variation_id,omitempty"`
}

// OrderDetail is the full admin view of an order.
type OrderDetail struct {
	ID              uuid.UUID           `json:"id"`
	OrderNumber     string              `json:"order_number"`
	CustomerName    string              `json:"customer_name"`
	CustomerSurname *string             `json:"customer_surname,omitempty"`
	CustomerPhone   string              `json:"customer_phone"`
	CustomerEmail   *string             `json:"customer_email,omitempty"`
	CustomerDNI     *string             `json:"customer_dni,omitempty"`
	Address         string              `json:"address"`
	City            string              `json:"city"`
	State           *string             `json:"state,omitempty"`
	Neighborhood    *string             `json:"neighborhood,omitempty"`
	ZipCode         *string             `json:"zip_code,omitempty"`
	AddressNotes    *string             `json:"address_notes,omitempty"`
	Subtotal        decimal.Decimal     `json:"subtotal"`
	ShippingCost    decimal.Decimal     `json:"shipping_cost"`
	Discount        decimal.Decimal     `json:"discount"`
	Total           decimal.Decimal     `json:"total"`
	Status          enums.OrderStatus   `json:"status"`
	PaymentMethod   enums.PaymentMethod `json:"payment_method"`
	UTMSource       *string             `json:"utm_source,omitempty"`
	UTMMedium       *string             `json:"utm_medium,omitempty"`
	UTMCampaign     *string             `json:"utm_campaign,omitempty"`
	Notes           *string             `json:"notes,omitempty"`
	AdminNotes      *string             `json:"admin_notes,omitempty"`
	Items           []OrderItemDTO      `json:"items"`
	CreatedAt       time.Time           `json:"created_at"`
	UpdatedAt       time.Time           `json:"updated_at"`
}

func newOrderSummary(o models.Order) OrderSummary {
	return OrderSummary{
		ID:              o.ID,
		OrderNumber:     o.OrderNumber,
		CustomerName:    o.CustomerName,
		CustomerSurname: o.CustomerSurname,
		CustomerPhone:   o.CustomerPhone,
		CustomerEmail:   o.CustomerEmail,
		City:            o.City,
		Total:           o.Total,
		Status:          o.Status,
		PaymentMethod:   o.PaymentMethod,
		CreatedAt:       o.CreatedAt,
	}
}

func newOrderDetail(o models.Order) *OrderDetail {
	items := make([]OrderItemDTO, 0, len(o.Items))
	for _, it := range o.Items {
		items = append(items, OrderItemDTO{
			ID:               it.ID,
			ProductID:        it.ProductID,
			VariantID:        it.VariantID,
			UpsellID:         it.UpsellID,
			ProductName:      it.ProductName,
			VariantName:      it.VariantName,
			Quantity:         it.Quantity,
			UnitPrice:        it.UnitPrice,
			TotalPrice:       it.TotalPrice,
			DropiProductID:   it.DropiProductID,
			DropiVariationID: it.DropiVariationID,
		})
	}
	return &OrderDetail{
		ID:              o.ID,
		OrderNumber:     o.OrderNumber,
		CustomerName:    o.CustomerName,
		CustomerSurname: o.CustomerSurname,
		CustomerPhone:   o.CustomerPhone,
		CustomerEmail:   o.CustomerEmail,
		CustomerDNI:     o.CustomerDNI,
		Address:         o.Address,
		City:            o.City,
		State:           o.State,
		Neighborhood:    o.Neighborhood,
		ZipCode:         o.ZipCode,
		AddressNotes:    o.AddressNotes,
		Subtotal:        o.Subtotal,
		ShippingCost:    o.ShippingCost,
		Discount:        o.Discount,
		Total:           o.Total,
		Status:          o.Status,
		PaymentMethod:   o.PaymentMethod,
		UTMSource:       o.UTMSource,
		UTMMedium:       o.UTMMedium,
		UTMCampaign:     o.UTMCampaign,
		Notes:           o.Notes,
		AdminNotes:      o.AdminNotes,
		Items:           items,
		CreatedAt:       o.CreatedAt,
		UpdatedAt:       o.UpdatedAt,
	}
}
