package stores

import (
	"github.com/google/uuid"

	"github.com/angelmondragon/minishop-backend/pkg/db/models"
)

// ConfigDTO is the storefront config merged with the tenant's identity.
type ConfigDTO struct {
	TenantID               uuid.UUID `json:"tenant_id"`
	StoreName              string    `json:"store_name"`
	Slug                   string    `json:"slug"`
	Country                string    `json:"country"`
	CurrencyCode           string    `json:"currency_code"`
	CurrencySymbol         string    `json:"currency_symbol"`
	LogoURL                *string   `json:"logo_url"`
	PrimaryColor           string    `json:"primary_color"`
	SecondaryColor         string    `json:"secondary_color"`
	AccentColor            string    `json:"accent_color"`
	FontFamily             string    `json:"font_family"`
	BannerImageURL         *string   `json:"banner_image_url"`
	BannerTitle            *string   `json:"banner_title"`
	BannerSubtitle         *string   `json:"banner_subtitle"`
	MetaPixelID            *string   `json:"meta_pixel_id"`
	TikTokPixelID          *string   `json:"tiktok_pixel_id"`
	CheckoutTitle          string    `json:"checkout_title"`
	CheckoutSuccessMessage string    `json:"checkout_success_message"`
	WhatsAppNumber         *string   `json:"whatsapp_number"`
	ProductsPerRow         int       `json:"products_per_row"`
	ShowComparePrice       bool      `json:"show_compare_price"`
	SEOTitle               *string   `json:"seo_title"`
	SEODescription         *string   `json:"seo_description"`
}

func newConfigDTO(tenant models.Tenant, cfg models.StoreConfig) *ConfigDTO {
	return &ConfigDTO{
		TenantID:               tenant.ID,
		StoreName:              tenant.StoreName,
		Slug:                   tenant.Slug,
		Country:                tenant.Country,
		CurrencyCode:           tenant.Currency,
		CurrencySymbol:         cfg.CurrencySymbol,
		LogoURL:                cfg.LogoURL,
		PrimaryColor:           cfg.PrimaryColor,
		SecondaryColor:         cfg.SecondaryColor,
		AccentColor:            cfg.AccentColor,
		FontFamily:             cfg.FontFamily,
		BannerImageURL:         cfg.BannerImageURL,
		BannerTitle:            cfg.BannerTitle,
		BannerSubtitle:         cfg.BannerSubtitle,
		MetaPixelID:            cfg.MetaPixelID,
		TikTokPixelID:          cfg.TikTokPixelID,
		CheckoutTitle:          cfg.CheckoutTitle,
		CheckoutSuccessMessage: cfg.CheckoutSuccessMessage,
		WhatsAppNumber:         cfg.WhatsAppNumber,
		ProductsPerRow:         cfg.ProductsPerRow,
		ShowComparePrice:       cfg.ShowComparePrice,
		SEOTitle:               cfg.SEOTitle,
		SEODescription:         cfg.SEODescription,
	}
}
