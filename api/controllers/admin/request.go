package admin

import (
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/minishop-backend/api/middleware"
	"github.com/angelmondragon/minishop-backend/internal/offers"
	"github.com/angelmondragon/minishop-backend/internal/products"
	"github.com/angelmondragon/minishop-backend/internal/stores"
	"github.com/angelmondragon/minishop-backend/internal/upsells"
	"github.com/angelmondragon/minishop-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/minishop-backend/pkg/errors"
)

type statusRequest struct {
	Status string `json:"status" validate:"required"`
}

type notesRequest struct {
	AdminNotes *string `json:"admin_notes" validate:"omitempty,max=4000"`
}

type activeRequest struct {
	IsActive *bool `json:"is_active" validate:"required"`
}

type tierRequest struct {
	Quantity      int             `json:"quantity" validate:"gte=1"`
	DiscountType  string          `json:"discount_type"`
	DiscountValue decimal.Decimal `json:"discount_value"`
	Position      *int            `json:"position"`
	Title         *string         `json:"title"`
	LabelText     *string         `json:"label_text"`
}

type createOfferRequest struct {
	Name       string        `json:"name" validate:"required,max=255"`
	ProductIDs []uuid.UUID   `json:"product_ids" validate:"required,min=1"`
	Priority   int           `json:"priority"`
	IsActive   *bool         `json:"is_active"`
	Tiers      []tierRequest `json:"tiers" validate:"required,min=1,dive"`
}

type upsellConfigRequest struct {
	UpsellType         *string `json:"upsell_type"`
	MaxUpsellsPerOrder *int    `json:"max_upsells_per_order"`
	IsActive           *bool   `json:"is_active"`
}

type createUpsellRequest struct {
	Name              string          `json:"name" validate:"required,max=255"`
	IsActive          *bool           `json:"is_active"`
	Priority          int             `json:"priority"`
	TriggerType       string          `json:"trigger_type"`
	TriggerProductIDs []uuid.UUID     `json:"trigger_product_ids"`
	UpsellProductID   uuid.UUID       `json:"upsell_product_id" validate:"required"`
	DiscountType      string          `json:"discount_type"`
	DiscountValue     decimal.Decimal `json:"discount_value"`
	Title             string          `json:"title"`
	Subtitle          *string         `json:"subtitle"`
	AddButtonText     string          `json:"add_button_text"`
	DeclineButtonText string          `json:"decline_button_text"`
}

type variantRequest struct {
	ID               *uuid.UUID       `json:"id"`
	Name             string           `json:"name" validate:"required,max=255"`
	PriceOverride    *decimal.Decimal `json:"price_override"`
	DropiVariationID *string          `json:"dropi_variation_id" validate:"omitempty,max=100"`
	IsActive         *bool            `json:"is_active"`
	SortOrder        *int             `json:"sort_order"`
}

type imageRequest struct {
	ImageURL  string `json:"image_url" validate:"required,url,max=2048"`
	IsPrimary bool   `json:"is_primary"`
	SortOrder *int   `json:"sort_order"`
}

type createProductRequest struct {
	Name           string           `json:"name" validate:"required,max=255"`
	Description    *string          `json:"description" validate:"omitempty,max=10000"`
	Price          decimal.Decimal  `json:"price"`
	CompareAtPrice *decimal.Decimal `json:"compare_at_price"`
	DropiProductID *string          `json:"dropi_product_id" validate:"omitempty,max=100"`
	IsActive       *bool            `json:"is_active"`
	SortOrder      int              `json:"sort_order"`
	Variants       []variantRequest `json:"variants" validate:"omitempty,dive"`
	Images         []imageRequest   `json:"images" validate:"omitempty,dive"`
}

type updateProductRequest struct {
	Name           *string           `json:"name" validate:"omitempty,max=255"`
	Description    *string           `json:"description" validate:"omitempty,max=10000"`
	Price          *decimal.Decimal  `json:"price"`
	CompareAtPrice *decimal.Decimal  `json:"compare_at_price"`
	DropiProductID *string           `json:"dropi_product_id" validate:"omitempty,max=100"`
	IsActive       *bool             `json:"is_active"`
	SortOrder      *int              `json:"sort_order"`
	Variants       *[]variantRequest `json:"variants" validate:"omitempty,dive"`
	Images         *[]imageRequest   `json:"images" validate:"omitempty,dive"`
}

type storeConfigRequest struct {
	LogoURL                *string `json:"logo_url" validate:"omitempty,url,max=2048"`
	PrimaryColor           *string `json:"primary_color" validate:"omitempty,hexcolor,max=7"`
	SecondaryColor         *string `json:"secondary_color" validate:"omitempty,hexcolor,max=7"`
	AccentColor            *string `json:"accent_color" validate:"omitempty,hexcolor,max=7"`
	FontFamily             *string `json:"font_family" validate:"omitempty,max=100"`
	BannerImageURL         *string `json:"banner_image_url" validate:"omitempty,url,max=2048"`
	BannerTitle            *string `json:"banner_title" validate:"omitempty,max=255"`
	BannerSubtitle         *string `json:"banner_subtitle" validate:"omitempty,max=500"`
	MetaPixelID            *string `json:"meta_pixel_id" validate:"omitempty,max=100"`
	TikTokPixelID          *string `json:"tiktok_pixel_id" validate:"omitempty,max=100"`
	CheckoutTitle          *string `json:"checkout_title" validate:"omitempty,max=255"`
	CheckoutSuccessMessage *string `json:"checkout_success_message" validate:"omitempty,max=2000"`
	WhatsAppNumber         *string `json:"whatsapp_number" validate:"omitempty,max=20"`
	CurrencySymbol         *string `json:"currency_symbol" validate:"omitempty,max=5"`
	ProductsPerRow         *int    `json:"products_per_row"`
	ShowComparePrice       *bool   `json:"show_compare_price"`
	SEOTitle               *string `json:"seo_title" validate:"omitempty,max=255"`
	SEODescription         *string `json:"seo_description" validate:"omitempty,max=500"`
}

func toCreateProductInput(req createProductRequest) products.CreateProductInput {
	return products.CreateProductInput{
		Name:           req.Name,
		Description:    req.Description,
		Price:          req.Price,
		CompareAtPrice: req.CompareAtPrice,
		DropiProductID: req.DropiProductID,
		IsActive:       boolOr(req.IsActive, true),
		SortOrder:      req.SortOrder,
		Variants:       toVariantInputs(req.Variants),
		Images:         toImageInputs(req.Images),
	}
}

func toUpdateProductInput(req updateProductRequest) products.UpdateProductInput {
	input := products.UpdateProductInput{
		Name:           req.Name,
		Description:    req.Description,
		Price:          req.Price,
		CompareAtPrice: req.CompareAtPrice,
		DropiProductID: req.DropiProductID,
		IsActive:       req.IsActive,
		SortOrder:      req.SortOrder,
	}
	if req.Variants != nil {
		variants := toVariantInputs(*req.Variants)
		input.Variants = &variants
	}
	if req.Images != nil {
		images := toImageInputs(*req.Images)
		input.Images = &images
	}
	return input
}

func toVariantInputs(reqs []variantRequest) []products.VariantInput {
	out := make([]products.VariantInput, 0, len(reqs))
	for _, v := range reqs {
		out = append(out, products.VariantInput{
			ID:               v.ID,
			Name:             v.Name,
			PriceOverride:    v.PriceOverride,
			DropiVariationID: v.DropiVariationID,
			IsActive:         boolOr(v.IsActive, true),
			SortOrder:        v.SortOrder,
		})
	}
	return out
}

func toImageInputs(reqs []imageRequest) []products.ImageInput {
	out := make([]products.ImageInput, 0, len(reqs))
	for _, img := range reqs {
		out = append(out, products.ImageInput{
			ImageURL:  img.ImageURL,
			IsPrimary: img.IsPrimary,
			SortOrder: img.SortOrder,
		})
	}
	return out
}

func toStoreConfigInput(req storeConfigRequest) stores.UpdateConfigInput {
	return stores.UpdateConfigInput{
		LogoURL:                req.LogoURL,
		PrimaryColor:           req.PrimaryColor,
		SecondaryColor:         req.SecondaryColor,
		AccentColor:            req.AccentColor,
		FontFamily:             req.FontFamily,
		BannerImageURL:         req.BannerImageURL,
		BannerTitle:            req.BannerTitle,
		BannerSubtitle:         req.BannerSubtitle,
		MetaPixelID:            req.MetaPixelID,
		TikTokPixelID:          req.TikTokPixelID,
		CheckoutTitle:          req.CheckoutTitle,
		CheckoutSuccessMessage: req.CheckoutSuccessMessage,
		WhatsAppNumber:         req.WhatsAppNumber,
		CurrencySymbol:         req.CurrencySymbol,
		ProductsPerRow:         req.ProductsPerRow,
		ShowComparePrice:       req.ShowComparePrice,
		SEOTitle:               req.SEOTitle,
		SEODescription:         req.SEODescription,
	}
}

func toCreateOfferInput(req createOfferRequest) offers.CreateOfferInput {
	tiers := make([]offers.TierInput, 0, len(req.Tiers))
	for _, t := range req.Tiers {
		tiers = append(tiers, offers.TierInput{
			Quantity:      t.Quantity,
			DiscountType:  enums.DiscountType(normalize(t.DiscountType)),
			DiscountValue: t.DiscountValue,
			Position:      t.Position,
			Title:         t.Title,
			LabelText:     t.LabelText,
		})
	}
	return offers.CreateOfferInput{
		Name:       req.Name,
		ProductIDs: req.ProductIDs,
		Priority:   req.Priority,
		IsActive:   boolOr(req.IsActive, true),
		Tiers:      tiers,
	}
}

func toUpdateConfigInput(req upsellConfigRequest) upsells.UpdateConfigInput {
	input := upsells.UpdateConfigInput{
		MaxUpsellsPerOrder: req.MaxUpsellsPerOrder,
		IsActive:           req.IsActive,
	}
	if req.UpsellType != nil {
		t := enums.UpsellType(normalize(*req.UpsellType))
		input.UpsellType = &t
	}
	return input
}

func toCreateUpsellInput(req createUpsellRequest) upsells.CreateUpsellInput {
	return upsells.CreateUpsellInput{
		Name:              req.Name,
		IsActive:          boolOr(req.IsActive, true),
		Priority:          req.Priority,
		TriggerType:       enums.UpsellTrigger(normalize(req.TriggerType)),
		TriggerProductIDs: req.TriggerProductIDs,
		UpsellProductID:   req.UpsellProductID,
		DiscountType:      enums.DiscountType(normalize(req.DiscountType)),
		DiscountValue:     req.DiscountValue,
		Title:             req.Title,
		Subtitle:          req.Subtitle,
		AddButtonText:     req.AddButtonText,
		DeclineButtonText: req.DeclineButtonText,
	}
}

func normalize(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}

func boolOr(value *bool, fallback bool) bool {
	if value == nil {
		return fallback
	}
	return *value
}

func tenantFromContext(r *http.Request) (uuid.UUID, error) {
	tenantID := middleware.TenantIDFromContext(r.Context())
	if tenantID == uuid.Nil {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeForbidden, "store context missing")
	}
	return tenantID, nil
}
