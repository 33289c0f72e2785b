package storefront

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/minishop-backend/api/validators"
	"github.com/angelmondragon/minishop-backend/internal/carts"
	"github.com/angelmondragon/minishop-backend/internal/orders"
)

const (
	maxTextLength  = 255
	maxNotesLength = 2000
)

type orderItemRequest struct {
	ProductID uuid.UUID  `json:"product_id" validate:"required"`
	VariantID *uuid.UUID `json:"variant_id"`
	Quantity  int        `json:"quantity" validate:"gte=1"`
}

type createOrderRequest struct {
	CustomerName    string             `json:"customer_name" validate:"required,max=255"`
	CustomerSurname *string            `json:"customer_surname"`
	CustomerPhone   string             `json:"customer_phone" validate:"required,max=50"`
	CustomerEmail   *string            `json:"customer_email" validate:"omitempty,max=255"`
	CustomerDNI     *string            `json:"customer_dni"`
	Address         string             `json:"address" validate:"required"`
	City            string             `json:"city" validate:"required"`
	State           *string            `json:"state"`
	Neighborhood    *string            `json:"neighborhood"`
	ZipCode         *string            `json:"zip_code"`
	AddressNotes    *string            `json:"address_notes"`
	Notes           *string            `json:"notes"`
	UTMSource       *string            `json:"utm_source"`
	UTMMedium       *string            `json:"utm_medium"`
	UTMCampaign     *string            `json:"utm_campaign"`
	Items           []orderItemRequest `json:"items" validate:"required,min=1,dive"`
}

type upsellItemRequest struct {
	UpsellID  uuid.UUID  `json:"upsell_id" validate:"required"`
	ProductID uuid.UUID  `json:"product_id" validate:"required"`
	VariantID *uuid.UUID `json:"variant_id"`
	Quantity  int        `json:"quantity" validate:"gte=1"`
}

type cartCaptureRequest struct {
	SessionID     string           `json:"session_id" validate:"required,max=128"`
	CustomerName  *string          `json:"customer_name"`
	CustomerPhone *string          `json:"customer_phone"`
	CustomerEmail *string          `json:"customer_email"`
	ProductID     *uuid.UUID       `json:"product_id"`
	ProductName   *string          `json:"product_name"`
	VariantName   *string          `json:"variant_name"`
	Quantity      *int             `json:"quantity"`
	TotalValue    *decimal.Decimal `json:"total_value"`
	LastStep      *string          `json:"last_step"`
	UTMSource     *string          `json:"utm_source"`
}

func toCreateOrderInput(req createOrderRequest) orders.CreateOrderInput {
	items := make([]orders.LineInput, 0, len(req.Items))
	for _, item := range req.Items {
		items = append(items, orders.LineInput{
			ProductID: item.ProductID,
			VariantID: item.VariantID,
			Quantity:  item.Quantity,
		})
	}
	return orders.CreateOrderInput{
		Customer: orders.CustomerInput{
			Name:         validators.SanitizeString(req.CustomerName, maxTextLength),
			Surname:      clean(req.CustomerSurname, maxTextLength),
			Phone:        validators.SanitizeString(req.CustomerPhone, maxTextLength),
			Email:        clean(req.CustomerEmail, maxTextLength),
			DNI:          clean(req.CustomerDNI, maxTextLength),
			Address:      validators.SanitizeString(req.Address, maxNotesLength),
			City:         validators.SanitizeString(req.City, maxTextLength),
			State:        clean(req.State, maxTextLength),
			Neighborhood: clean(req.Neighborhood, maxTextLength),
			ZipCode:      clean(req.ZipCode, maxTextLength),
			AddressNotes: clean(req.AddressNotes, maxNotesLength),
		},
		Items:       items,
		Notes:       clean(req.Notes, maxNotesLength),
		UTMSource:   clean(req.UTMSource, maxTextLength),
		UTMMedium:   clean(req.UTMMedium, maxTextLength),
		UTMCampaign: clean(req.UTMCampaign, maxTextLength),
	}
}

func toUpsellItemInput(req upsellItemRequest) orders.AddUpsellItemInput {
	return orders.AddUpsellItemInput{
		UpsellID:  req.UpsellID,
		ProductID: req.ProductID,
		VariantID: req.VariantID,
		Quantity:  req.Quantity,
	}
}

func toCaptureInput(req cartCaptureRequest) carts.CaptureInput {
	return carts.CaptureInput{
		SessionID:     req.SessionID,
		CustomerName:  clean(req.CustomerName, maxTextLength),
		CustomerPhone: clean(req.CustomerPhone, maxTextLength),
		CustomerEmail: clean(req.CustomerEmail, maxTextLength),
		ProductID:     req.ProductID,
		ProductName:   clean(req.ProductName, maxTextLength),
		VariantName:   clean(req.VariantName, maxTextLength),
		Quantity:      req.Quantity,
		TotalValue:    req.TotalValue,
		LastStep:      clean(req.LastStep, maxTextLength),
		UTMSource:     clean(req.UTMSource, maxTextLength),
	}
}

// clean trims optional text; blank values become nil.
func clean(value *string, maxLen int) *string {
	if value == nil {
		return nil
	}
	trimmed := validators.SanitizeString(*value, maxLen)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
