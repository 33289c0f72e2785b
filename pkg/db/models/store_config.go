package models

import (
	"time"

	"github.com/google/uuid"
)

// StoreConfig holds the storefront branding and checkout copy of a tenant.
type StoreConfig struct {
	TenantID               uuid.UUID `gorm:"column:tenant_id;type:uuid;primaryKey"`
	LogoURL                *string   `gorm:"column:logo_url"`
	PrimaryColor           string    `gorm:"column:primary_color;not null"`
	SecondaryColor         string    `gorm:"column:secondary_color;not null"`
	AccentColor            string    `gorm:"column:accent_color;not null"`
	FontFamily             string    `gorm:"column:font_family;not null"`
	BannerImageURL         *string   `gorm:"column:banner_image_url"`
	BannerTitle            *string   `gorm:"column:banner_title"`
	BannerSubtitle         *string   `gorm:"column:banner_subtitle"`
	MetaPixelID            *string   `gorm:"column:meta_pixel_id"`
	TikTokPixelID          *string   `gorm:"column:tiktok_pixel_id"`
	CheckoutTitle          string    `gorm:"column:checkout_title;not null"`
	CheckoutSuccessMessage string    `gorm:"column:checkout_success_message;not null"`
	WhatsAppNumber         *string   `gorm:"column:whatsapp_number"`
	CurrencySymbol         string    `gorm:"column:currency_symbol;not null"`
	ProductsPerRow         int       `gorm:"column:products_per_row;not null"`
	ShowComparePrice       bool      `gorm:"column:show_compare_price;not null"`
	SEOTitle               *string   `gorm:"column:seo_title"`
	SEODescription         *string   `gorm:"column:seo_description"`
	CreatedAt              time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt              time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

// DefaultStoreConfig is the branding a tenant gets before customizing it.
func DefaultStoreConfig(tenantID uuid.UUID) StoreConfig {
	return StoreConfig{
		TenantID:               tenantID,
		PrimaryColor:           "#4DBEA4",
		SecondaryColor:         "#0D1717",
		AccentColor:            "#FFD700",
		FontFamily:             "Inter",
		CheckoutTitle:          "Complete your order",
		CheckoutSuccessMessage: "Your order has been received.",
		CurrencySymbol:         "$",
		ProductsPerRow:         3,
		ShowComparePrice:       true,
	}
}
