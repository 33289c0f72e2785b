// Package dbtest opens isolated in-memory sqlite databases carrying the
// MiniShop schema for repository and service tests.
package dbtest

import (
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/angelmondragon/minishop-backend/pkg/db/models"
	dbtypes "github.com/angelmondragon/minishop-backend/pkg/db/types"
	"github.com/angelmondragon/minishop-backend/pkg/enums"
)

// schema mirrors pkg/migrate/migrations in sqlite terms: uuids and arrays are
// TEXT, money is NUMERIC.
var schema = []string{
	`CREATE TABLE tenants (
		id TEXT PRIMARY KEY,
		email TEXT NOT NULL,
		store_name TEXT NOT NULL,
		slug TEXT NOT NULL,
		country TEXT NOT NULL DEFAULT 'CO',
		currency TEXT NOT NULL DEFAULT 'COP',
		is_active BOOLEAN NOT NULL DEFAULT 1,
		created_at DATETIME,
		updated_at DATETIME
	)`,
	`CREATE UNIQUE INDEX idx_tenants_slug ON tenants (slug)`,
	`CREATE TABLE tenant_order_counters (
		tenant_id TEXT PRIMARY KEY,
		last_value INTEGER NOT NULL DEFAULT 0,
		updated_at DATETIME
	)`,
	`CREATE TABLE products (
		id TEXT PRIMARY KEY,
		tenant_id TEXT NOT NULL,
		name TEXT NOT NULL,
		slug TEXT NOT NULL,
		description TEXT,
		price NUMERIC NOT NULL,
		compare_at_price NUMERIC,
		dropi_product_id TEXT,
		is_active BOOLEAN NOT NULL DEFAULT 1,
		sort_order INTEGER NOT NULL DEFAULT 0,
		created_at DATETIME,
		updated_at DATETIME
	)`,
	`CREATE UNIQUE INDEX idx_products_tenant_slug ON products (tenant_id, slug)`,
	`CREATE TABLE product_variants (
		id TEXT PRIMARY KEY,
		product_id TEXT NOT NULL,
		tenant_id TEXT NOT NULL,
		name TEXT NOT NULL,
		price_override NUMERIC,
		dropi_variation_id TEXT,
		is_active BOOLEAN NOT NULL DEFAULT 1,
		sort_order INTEGER NOT NULL DEFAULT 0,
		created_at DATETIME
	)`,
	`CREATE TABLE product_images (
		id TEXT PRIMARY KEY,
		product_id TEXT NOT NULL,
		tenant_id TEXT NOT NULL,
		image_url TEXT NOT NULL,
		sort_order INTEGER NOT NULL DEFAULT 0,
		is_primary BOOLEAN NOT NULL DEFAULT 0,
		created_at DATETIME
	)`,
	`CREATE TABLE quantity_offers (
		id TEXT PRIMARY KEY,
		tenant_id TEXT NOT NULL,
		name TEXT NOT NULL,
		product_ids TEXT NOT NULL DEFAULT '{}',
		priority INTEGER NOT NULL DEFAULT 0,
		is_active BOOLEAN NOT NULL DEFAULT 1,
		impressions INTEGER NOT NULL DEFAULT 0,
		orders_count INTEGER NOT NULL DEFAULT 0,
		created_at DATETIME,
		updated_at DATETIME
	)`,
	`CREATE TABLE quantity_offer_tiers (
		id TEXT PRIMARY KEY,
		offer_id TEXT NOT NULL REFERENCES quantity_offers(id) ON DELETE CASCADE,
		quantity INTEGER NOT NULL,
		discount_type TEXT NOT NULL,
		discount_value NUMERIC NOT NULL DEFAULT 0,
		position INTEGER NOT NULL DEFAULT 0,
		title TEXT,
		label_text TEXT,
		created_at DATETIME
	)`,
	`CREATE UNIQUE INDEX idx_quantity_offer_tiers_offer_quantity ON quantity_offer_tiers (offer_id, quantity)`,
	`CREATE TABLE upsell_configs (
		id TEXT PRIMARY KEY,
		tenant_id TEXT NOT NULL,
		upsell_type TEXT NOT NULL DEFAULT 'post_purchase',
		max_upsells_per_order INTEGER NOT NULL DEFAULT 2,
		is_active BOOLEAN NOT NULL DEFAULT 1,
		created_at DATETIME,
		updated_at DATETIME
	)`,
	`CREATE UNIQUE INDEX idx_upsell_configs_tenant ON upsell_configs (tenant_id)`,
	`CREATE TABLE upsells (
		id TEXT PRIMARY KEY,
		tenant_id TEXT NOT NULL,
		name TEXT NOT NULL,
		is_active BOOLEAN NOT NULL DEFAULT 1,
		priority INTEGER NOT NULL DEFAULT 0,
		trigger_type TEXT NOT NULL DEFAULT 'all',
		trigger_product_ids TEXT NOT NULL DEFAULT '{}',
		upsell_product_id TEXT NOT NULL,
		discount_type TEXT NOT NULL DEFAULT 'none',
		discount_value NUMERIC NOT NULL DEFAULT 0,
		title TEXT NOT NULL,
		subtitle TEXT,
		add_button_text TEXT NOT NULL,
		decline_button_text TEXT NOT NULL,
		impressions INTEGER NOT NULL DEFAULT 0,
		accepted_count INTEGER NOT NULL DEFAULT 0,
		created_at DATETIME,
		updated_at DATETIME
	)`,
	`CREATE TABLE orders (
		id TEXT PRIMARY KEY,
		tenant_id TEXT NOT NULL,
		order_number TEXT NOT NULL,
		customer_name TEXT NOT NULL,
		customer_surname TEXT,
		customer_phone TEXT NOT NULL,
		customer_email TEXT,
		customer_dni TEXT,
		address TEXT NOT NULL,
		city TEXT NOT NULL,
		state TEXT,
		neighborhood TEXT,
		zip_code TEXT,
		address_notes TEXT,
		subtotal NUMERIC NOT NULL DEFAULT 0,
		shipping_cost NUMERIC NOT NULL DEFAULT 0,
		discount NUMERIC NOT NULL DEFAULT 0,
		total NUMERIC NOT NULL DEFAULT 0,
		status TEXT NOT NULL DEFAULT 'pending',
		payment_method TEXT NOT NULL DEFAULT 'cod',
		utm_source TEXT,
		utm_medium TEXT,
		utm_campaign TEXT,
		notes TEXT,
		admin_notes TEXT,
		created_at DATETIME,
		updated_at DATETIME
	)`,
	`CREATE UNIQUE INDEX idx_orders_tenant_order_number ON orders (tenant_id, order_number)`,
	`CREATE TABLE order_items (
		id TEXT PRIMARY KEY,
		order_id TEXT NOT NULL REFERENCES orders(id) ON DELETE CASCADE,
		tenant_id TEXT NOT NULL,
		product_id TEXT,
		variant_id TEXT,
		upsell_id TEXT,
		product_name TEXT NOT NULL,
		variant_name TEXT,
		quantity INTEGER NOT NULL,
		unit_price NUMERIC NOT NULL,
		total_price NUMERIC NOT NULL,
		dropi_product_id TEXT,
		dropi_variation_id TEXT,
		created_at DATETIME
	)`,
	`CREATE UNIQUE INDEX idx_order_items_order_upsell ON order_items (order_id, upsell_id) WHERE upsell_id IS NOT NULL`,
	`CREATE TABLE customers (
		id TEXT PRIMARY KEY,
		tenant_id TEXT NOT NULL,
		name TEXT NOT NULL,
		phone TEXT NOT NULL,
		email TEXT,
		city TEXT,
		address TEXT,
		total_orders INTEGER NOT NULL DEFAULT 0,
		total_spent NUMERIC NOT NULL DEFAULT 0,
		last_order_at DATETIME,
		created_at DATETIME,
		updated_at DATETIME
	)`,
	`CREATE UNIQUE INDEX idx_customers_tenant_phone ON customers (tenant_id, phone)`,
	`CREATE TABLE abandoned_carts (
		id TEXT PRIMARY KEY,
		tenant_id TEXT NOT NULL,
		session_id TEXT NOT NULL,
		customer_name TEXT,
		customer_phone TEXT,
		customer_email TEXT,
		product_id TEXT,
		product_name TEXT,
		variant_name TEXT,
		quantity INTEGER NOT NULL DEFAULT 1,
		total_value NUMERIC,
		status TEXT NOT NULL DEFAULT 'abandoned',
		last_step TEXT,
		utm_source TEXT,
		created_at DATETIME,
		updated_at DATETIME
	)`,
	`CREATE UNIQUE INDEX idx_abandoned_carts_tenant_session ON abandoned_carts (tenant_id, session_id)`,
	`CREATE TABLE store_configs (
		tenant_id TEXT PRIMARY KEY,
		logo_url TEXT,
		primary_color TEXT NOT NULL DEFAULT '#4DBEA4',
		secondary_color TEXT NOT NULL DEFAULT '#0D1717',
		accent_color TEXT NOT NULL DEFAULT '#FFD700',
		font_family TEXT NOT NULL DEFAULT 'Inter',
		banner_image_url TEXT,
		banner_title TEXT,
		banner_subtitle TEXT,
		meta_pixel_id TEXT,
		tiktok_pixel_id TEXT,
		checkout_title TEXT NOT NULL,
		checkout_success_message TEXT NOT NULL,
		whatsapp_number TEXT,
		currency_symbol TEXT NOT NULL DEFAULT '$',
		products_per_row INTEGER NOT NULL DEFAULT 3,
		show_compare_price BOOLEAN NOT NULL DEFAULT 1,
		seo_title TEXT,
		seo_description TEXT,
		created_at DATETIME,
		updated_at DATETIME
	)`,
}

// Open returns a fresh database private to the calling test.
func Open(t testing.TB) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_foreign_keys=1", uuid.NewString())
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := conn.DB()
	if err != nil {
		t.Fatalf("sqlite handle: %v", err)
	}
	// a single connection keeps the shared-cache database alive and serializes writers
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	for _, stmt := range schema {
		if err := conn.Exec(stmt).Error; err != nil {
			t.Fatalf("apply schema: %v\n%s", err, stmt)
		}
	}
	return conn
}

// Dec parses a decimal literal or fails the test.
func Dec(t testing.TB, value string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(value)
	if err != nil {
		t.Fatalf("parse decimal %q: %v", value, err)
	}
	return d
}

// MustCreateTenant inserts an active tenant with the given slug.
func MustCreateTenant(t testing.TB, db *gorm.DB, slug string) *models.Tenant {
	t.Helper()
	tenant := &models.Tenant{
		ID:        uuid.New(),
		Email:     slug + "@minishop.test",
		StoreName: slug,
		Slug:      slug,
		Country:   "CO",
		Currency:  "COP",
		IsActive:  true,
	}
	if err := db.Create(tenant).Error; err != nil {
		t.Fatalf("create tenant: %v", err)
	}
	return tenant
}

// ProductSeed describes a catalog entry for MustCreateProduct.
// An empty Slug gets a random unique one.
type ProductSeed struct {
	Name      string
	Slug      string
	Price     string
	SortOrder int
	Inactive  bool
	Variants  []VariantSeed
	ImageURL  string
}

// VariantSeed describes a product variant; an empty PriceOverride means none.
type VariantSeed struct {
	Name          string
	PriceOverride string
}

// MustCreateProduct inserts a product with its variants and an optional primary image.
func MustCreateProduct(t testing.TB, db *gorm.DB, tenantID uuid.UUID, seed ProductSeed) *models.Product {
	t.Helper()
	if seed.Slug == "" {
		seed.Slug = fmt.Sprintf("%s-%s", seed.Name, uuid.NewString()[:8])
	}
	product := &models.Product{
		ID:        uuid.New(),
		TenantID:  tenantID,
		Name:      seed.Name,
		Slug:      seed.Slug,
		Price:     Dec(t, seed.Price),
		IsActive:  !seed.Inactive,
		SortOrder: seed.SortOrder,
	}
	if err := db.Omit("Variants", "Images").Create(product).Error; err != nil {
		t.Fatalf("create product: %v", err)
	}
	for i, vs := range seed.Variants {
		variant := models.ProductVariant{
			ID:        uuid.New(),
			ProductID: product.ID,
			TenantID:  tenantID,
			Name:      vs.Name,
			IsActive:  true,
			SortOrder: i,
		}
		if vs.PriceOverride != "" {
			variant.PriceOverride = decimal.NewNullDecimal(Dec(t, vs.PriceOverride))
		}
		if err := db.Create(&variant).Error; err != nil {
			t.Fatalf("create variant: %v", err)
		}
		product.Variants = append(product.Variants, variant)
	}
	if seed.ImageURL != "" {
		image := models.ProductImage{
			ID:        uuid.New(),
			ProductID: product.ID,
			TenantID:  tenantID,
			ImageURL:  seed.ImageURL,
			IsPrimary: true,
		}
		if err := db.Create(&image).Error; err != nil {
			t.Fatalf("create image: %v", err)
		}
		product.Images = append(product.Images, image)
	}
	return product
}

// TierSeed describes one quantity offer tier.
type TierSeed struct {
	Quantity int
	Type     enums.DiscountType
	Value    string
	Position int
}

// OfferSeed describes a quantity offer for MustCreateOffer.
type OfferSeed struct {
	Name       string
	ProductIDs []uuid.UUID
	Priority   int
	Inactive   bool
	CreatedAt  time.Time
	Tiers      []TierSeed
}

// MustCreateOffer inserts a quantity offer and its tiers.
func MustCreateOffer(t testing.TB, db *gorm.DB, tenantID uuid.UUID, seed OfferSeed) *models.QuantityOffer {
	t.Helper()
	offer := &models.QuantityOffer{
		ID:         uuid.New(),
		TenantID:   tenantID,
		Name:       seed.Name,
		ProductIDs: dbtypes.UUIDArray(seed.ProductIDs),
		Priority:   seed.Priority,
		IsActive:   !seed.Inactive,
		CreatedAt:  seed.CreatedAt,
	}
	if err := db.Omit("Tiers").Create(offer).Error; err != nil {
		t.Fatalf("create offer: %v", err)
	}
	for _, ts := range seed.Tiers {
		tier := models.QuantityOfferTier{
			ID:            uuid.New(),
			OfferID:       offer.ID,
			Quantity:      ts.Quantity,
			DiscountType:  ts.Type,
			DiscountValue: Dec(t, ts.Value),
			Position:      ts.Position,
		}
		if err := db.Create(&tier).Error; err != nil {
			t.Fatalf("create tier: %v", err)
		}
		offer.Tiers = append(offer.Tiers, tier)
	}
	return offer
}

// UpsellSeed describes an upsell for MustCreateUpsell.
type UpsellSeed struct {
	Name              string
	ProductID         uuid.UUID
	Priority          int
	Inactive          bool
	TriggerType       enums.UpsellTrigger
	TriggerProductIDs []uuid.UUID
	DiscountType      enums.DiscountType
	DiscountValue     string
	CreatedAt         time.Time
}

// MustCreateUpsell inserts an upsell offer.
func MustCreateUpsell(t testing.TB, db *gorm.DB, tenantID uuid.UUID, seed UpsellSeed) *models.Upsell {
	t.Helper()
	if seed.TriggerType == "" {
		seed.TriggerType = enums.UpsellTriggerAll
	}
	if seed.DiscountType == "" {
		seed.DiscountType = enums.DiscountTypeNone
	}
	if seed.DiscountValue == "" {
		seed.DiscountValue = "0"
	}
	upsell := &models.Upsell{
		ID:                uuid.New(),
		TenantID:          tenantID,
		Name:              seed.Name,
		IsActive:          !seed.Inactive,
		Priority:          seed.Priority,
		TriggerType:       seed.TriggerType,
		TriggerProductIDs: dbtypes.UUIDArray(seed.TriggerProductIDs),
		UpsellProductID:   seed.ProductID,
		DiscountType:      seed.DiscountType,
		DiscountValue:     Dec(t, seed.DiscountValue),
		Title:             "Add " + seed.Name,
		AddButtonText:     "Yes, add it",
		DeclineButtonText: "No, thanks",
		CreatedAt:         seed.CreatedAt,
	}
	if err := db.Create(upsell).Error; err != nil {
		t.Fatalf("create upsell: %v", err)
	}
	return upsell
}

// MustCreateUpsellConfig inserts the tenant upsell configuration.
func MustCreateUpsellConfig(t testing.TB, db *gorm.DB, tenantID uuid.UUID, active bool, maxPerOrder int) *models.UpsellConfig {
	t.Helper()
	cfg := &models.UpsellConfig{
		ID:                 uuid.New(),
		TenantID:           tenantID,
		UpsellType:         enums.UpsellTypePostPurchase,
		MaxUpsellsPerOrder: maxPerOrder,
		IsActive:           active,
	}
	if err := db.Create(cfg).Error; err != nil {
		t.Fatalf("create upsell config: %v", err)
	}
	return cfg
}
