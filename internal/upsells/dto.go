package upsells

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/minishop-backend/internal/products"
	"github.com/angelmondragon/minishop-backend/pkg/db/models"
	"github.com/angelmondragon/minishop-backend/pkg/enums"
)

// ConfigDTO is the JSON shape of the tenant upsell configuration.
type ConfigDTO struct {
	ID                 uuid.UUID        `json:"id"`
	UpsellType         enums.UpsellType `json:"upsell_type"`
	MaxUpsellsPerOrder int              `json:"max_upsells_per_order"`
	IsActive           bool             `json:"is_active"`
}

// UpsellDTO is the JSON shape of an upsell with its target product.
type UpsellDTO struct {
	ID                uuid.UUID                `json:"id"`
	Name              string                   `json:"name"`
	IsActive          bool                     `json:"is_active"`
	Priority          int                      `json:"priority"`
	TriggerType       enums.UpsellTrigger      `json:"trigger_type"`
	TriggerProductIDs []string                 `json:"trigger_product_ids"`
	UpsellProductID   uuid.UUID                `json:"upsell_product_id"`
	DiscountType      enums.DiscountType       `json:"discount_type"`
	DiscountValue     decimal.Decimal          `json:"discount_value"`
	Title             string                   `json:"title"`
	Subtitle          *string                  `json:"subtitle"`
	AddButtonText     string                   `json:"add_button_text"`
	DeclineButtonText string                   `json:"decline_button_text"`
	Impressions       int64                    `json:"impressions"`
	AcceptedCount     int64                    `json:"accepted_count"`
	UpsellProduct     *products.ProductSummary `json:"upsell_product"`
	CreatedAt         time.Time                `json:"created_at"`
}

// EligibleUpsells is the storefront response for a product page.
type EligibleUpsells struct {
	Config  *ConfigDTO  `json:"config"`
	Upsells []UpsellDTO `json:"upsells"`
}

func newConfigDTO(cfg models.UpsellConfig) *ConfigDTO {
	return &ConfigDTO{
		ID:                 cfg.ID,
		UpsellType:         cfg.UpsellType,
		MaxUpsellsPerOrder: cfg.MaxUpsellsPerOrder,
		IsActive:           cfg.IsActive,
	}
}

func newUpsellDTO(u models.Upsell, product *products.ProductSummary) UpsellDTO {
	return UpsellDTO{
		ID:                u.ID,
		Name:              u.Name,
		IsActive:          u.IsActive,
		Priority:          u.Priority,
		TriggerType:       u.TriggerType,
		TriggerProductIDs: u.TriggerProductIDs.Strings(),
		UpsellProductID:   u.UpsellProductID,
		DiscountType:      u.DiscountType,
		DiscountValue:     u.DiscountValue,
		Title:             u.Title,
		Subtitle:          u.Subtitle,
		AddButtonText:     u.AddButtonText,
		DeclineButtonText: u.DeclineButtonText,
		Impressions:       u.Impressions,
		AcceptedCount:     u.AcceptedCount,
		UpsellProduct:     product,
		CreatedAt:         u.CreatedAt,
	}
}
