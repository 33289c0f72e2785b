package stores

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/angelmondragon/minishop-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/minishop-backend/pkg/errors"
)

const (
	minProductsPerRow = 1
	maxProductsPerRow = 6
)

type configRepository interface {
	FindConfig(ctx context.Context, tenantID uuid.UUID) (*models.StoreConfig, error)
	EnsureConfig(ctx context.Context, tenantID uuid.UUID) (*models.StoreConfig, error)
	UpdateConfig(ctx context.Context, tenantID uuid.UUID, updates map[string]any) error
}

type tenantLoader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Tenant, error)
}

// Service serves the storefront config and lets admins edit it.
type Service interface {
	Storefront(ctx context.Context, tenantID uuid.UUID) (*ConfigDTO, error)
	Get(ctx context.Context, tenantID uuid.UUID) (*ConfigDTO, error)
	Update(ctx context.Context, tenantID uuid.UUID, input UpdateConfigInput) (*ConfigDTO, error)
}

// UpdateConfigInput carries optional changes. Nil fields are untouched; an
// empty string clears an optional text field.
type UpdateConfigInput struct {
	LogoURL                *string
	PrimaryColor           *string
	SecondaryColor         *string
	AccentColor            *string
	FontFamily             *string
	BannerImageURL         *string
	BannerTitle            *string
	BannerSubtitle         *string
	MetaPixelID            *string
	TikTokPixelID          *string
	CheckoutTitle          *string
	CheckoutSuccessMessage *string
	WhatsAppNumber         *string
	CurrencySymbol         *string
	ProductsPerRow         *int
	ShowComparePrice       *bool
	SEOTitle               *string
	SEODescription         *string
}

type service struct {
	repo    configRepository
	tenants tenantLoader
}

// NewService builds the store config service.
func NewService(repo configRepository, tenants tenantLoader) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("store config repository required")
	}
	if tenants == nil {
		return nil, fmt.Errorf("tenant repository required")
	}
	return &service{repo: repo, tenants: tenants}, nil
}

// Storefront never writes: a tenant that never saved a config sees the defaults.
func (s *service) Storefront(ctx context.Context, tenantID uuid.UUID) (*ConfigDTO, error) {
	tenant, err := s.tenant(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	cfg, err := s.repo.FindConfig(ctx, tenantID)
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		defaults := models.DefaultStoreConfig(tenantID)
		cfg = &defaults
	case err != nil:
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load store config")
	}
	return newConfigDTO(*tenant, *cfg), nil
}

func (s *service) Get(ctx context.Context, tenantID uuid.UUID) (*ConfigDTO, error) {
	tenant, err := s.tenant(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	cfg, err := s.repo.EnsureConfig(ctx, tenantID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load store config")
	}
	return newConfigDTO(*tenant, *cfg), nil
}

func (s *service) Update(ctx context.Context, tenantID uuid.UUID, input UpdateConfigInput) (*ConfigDTO, error) {
	updates, err := configUpdates(input)
	if err != nil {
		return nil, err
	}
	tenant, err := s.tenant(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	if _, err := s.repo.EnsureConfig(ctx, tenantID); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load store config")
	}
	if err := s.repo.UpdateConfig(ctx, tenantID, updates); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update store config")
	}
	cfg, err := s.repo.FindConfig(ctx, tenantID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reload store config")
	}
	return newConfigDTO(*tenant, *cfg), nil
}

func (s *service) tenant(ctx context.Context, tenantID uuid.UUID) (*models.Tenant, error) {
	tenant, err := s.tenants.FindByID(ctx, tenantID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "store not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load store")
	}
	return tenant, nil
}

func configUpdates(input UpdateConfigInput) (map[string]any, error) {
	updates := map[string]any{}

	required := []struct {
		column string
		value  *string
	}{
		{"primary_color", input.PrimaryColor},
		{"secondary_color", input.SecondaryColor},
		{"accent_color", input.AccentColor},
		{"font_family", input.FontFamily},
		{"checkout_title", input.CheckoutTitle},
		{"checkout_success_message", input.CheckoutSuccessMessage},
		{"currency_symbol", input.CurrencySymbol},
	}
	for _, f := range required {
		if f.value == nil {
			continue
		}
		v := strings.TrimSpace(*f.value)
		if v == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, f.column+" must not be empty")
		}
		updates[f.column] = v
	}

	optional := []struct {
		column string
		value  *string
	}{
		{"logo_url", input.LogoURL},
		{"banner_image_url", input.BannerImageURL},
		{"banner_title", input.BannerTitle},
		{"banner_subtitle", input.BannerSubtitle},
		{"meta_pixel_id", input.MetaPixelID},
		{"tiktok_pixel_id", input.TikTokPixelID},
		{"whatsapp_number", input.WhatsAppNumber},
		{"seo_title", input.SEOTitle},
		{"seo_description", input.SEODescription},
	}
	for _, f := range optional {
		if f.value == nil {
			continue
		}
		var value any
		if v := strings.TrimSpace(*f.value); v != "" {
			value = v
		}
		updates[f.column] = value
	}

	if input.ProductsPerRow != nil {
		n := *input.ProductsPerRow
		if n < minProductsPerRow || n > maxProductsPerRow {
			return nil, pkgerrors.New(pkgerrors.CodeValidation,
				fmt.Sprintf("products_per_row must be between %d and %d", minProductsPerRow, maxProductsPerRow))
		}
		updates["products_per_row"] = n
	}
	if input.ShowComparePrice != nil {
		updates["show_compare_price"] = *input.ShowComparePrice
	}
	return updates, nil
}
