package offers

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/minishop-backend/pkg/db/models"
	"github.com/angelmondragon/minishop-backend/pkg/enums"
)

// OfferDTO is the JSON shape of a quantity offer.
type OfferDTO struct {
	ID          uuid.UUID  `json:"id"`
	Name        string     `json:"name"`
	ProductIDs  []string   `json:"product_ids"`
	Priority    int        `json:"priority"`
	IsActive    bool       `json:"is_active"`
	Impressions int64      `json:"impressions"`
	OrdersCount int64      `json:"orders_count"`
	Tiers       []TierDTO  `json:"tiers"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   *time.Time `json:"updated_at,omitempty"`
}

// TierDTO is the JSON shape of a quantity offer tier.
type TierDTO struct {
	ID            uuid.UUID          `json:"id"`
	Quantity      int                `json:"quantity"`
	DiscountType  enums.DiscountType `json:"discount_type"`
	DiscountValue decimal.Decimal    `json:"discount_value"`
	Position      int                `json:"position"`
	Title         *string            `json:"title"`
	LabelText     *string            `json:"label_text"`
}

// NewOfferDTO maps an offer and its tiers; tiers keep repository order.
func NewOfferDTO(o models.QuantityOffer) OfferDTO {
	dto := OfferDTO{
		ID:          o.ID,
		Name:        o.Name,
		ProductIDs:  o.ProductIDs.Strings(),
		Priority:    o.Priority,
		IsActive:    o.IsActive,
		Impressions: o.Impressions,
		OrdersCount: o.OrdersCount,
		Tiers:       make([]TierDTO, 0, len(o.Tiers)),
		CreatedAt:   o.CreatedAt,
	}
	if !o.UpdatedAt.IsZero() {
		updated := o.UpdatedAt
		dto.UpdatedAt = &updated
	}
	for _, t := range o.Tiers {
		dto.Tiers = append(dto.Tiers, TierDTO{
			ID:            t.ID,
			Quantity:      t.Quantity,
			DiscountType:  t.DiscountType,
			DiscountValue: t.DiscountValue,
			Position:      t.Position,
			Title:         t.Title,
			LabelText:     t.LabelText,
		})
	}
	return dto
}
