package carts

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/minishop-backend/pkg/db/models"
	"github.com/angelmondragon/minishop-backend/pkg/enums"
)

// CartDTO is the admin view of an abandoned cart.
type CartDTO struct {
	ID            uuid.UUID           `json:"id"`
	SessionID     string              `json:"session_id"`
	CustomerName  *string             `json:"customer_name"`
	CustomerPhone *string             `json:"customer_phone"`
	CustomerEmail *string             `json:"customer_email"`
	ProductID     *uuid.UUID          `json:"product_id"`
	ProductName   *string             `json:"product_name"`
	VariantName   *string             `json:"variant_name"`
	Quantity      int                 `json:"quantity"`
	TotalValue    decimal.NullDecimal `json:"total_value"`
	Status        enums.CartStatus    `json:"status"`
	LastStep      *string             `json:"last_step"`
	UTMSource     *string             `json:"utm_source"`
	CreatedAt     time.Time           `json:"created_at"`
	UpdatedAt     time.Time           `json:"updated_at"`
}

// CartList wraps a page of carts plus the next page cursor.
type CartList struct {
	Carts      []CartDTO `json:"carts"`
	NextCursor string    `json:"next_cursor,omitempty"`
}

func newCartDTO(c models.AbandonedCart) CartDTO {
	return CartDTO{
		ID:            c.ID,
		SessionID:     c.SessionID,
		CustomerName:  c.CustomerName,
		CustomerPhone: c.CustomerPhone,
		CustomerEmail: c.CustomerEmail,
		ProductID:     c.ProductID,
		ProductName:   c.ProductName,
		VariantName:   c.VariantName,
		Quantity:      c.Quantity,
		TotalValue:    c.TotalValue,
		Status:        c.Status,
		LastStep:      c.LastStep,
		UTMSource:     c.UTMSource,
		CreatedAt:     c.CreatedAt,
		UpdatedAt:     c.UpdatedAt,
	}
}
