package products

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/multierr"
	"gorm.io/gorm"

	"github.com/angelmondragon/minishop-backend/pkg/db"
	"github.com/angelmondragon/minishop-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/minishop-backend/pkg/errors"
	"github.com/angelmondragon/minishop-backend/pkg/slug"
)

const (
	maxSlugAttempts = 50
	fallbackSlug    = "product"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service exposes the storefront catalog and admin product management.
type Service interface {
	ListStorefront(ctx context.Context, tenantID uuid.UUID) ([]ProductDTO, error)
	StorefrontProduct(ctx context.Context, tenantID uuid.UUID, productSlug string) (*ProductDTO, error)
	List(ctx context.Context, tenantID uuid.UUID, input ListInput) (*ProductList, error)
	Get(ctx context.Context, tenantID, productID uuid.UUID) (*ProductDTO, error)
	Create(ctx context.Context, tenantID uuid.UUID, input CreateProductInput) (*ProductDTO, error)
	Update(ctx context.Context, tenantID, productID uuid.UUID, input UpdateProductInput) (*ProductDTO, error)
	Delete(ctx context.Context, tenantID, productID uuid.UUID) error
}

// CreateProductInput holds the validated payload to create a product.
type CreateProductInput struct {
	Name           string
	Description    *string
	Price          decimal.Decimal
	CompareAtPrice *decimal.Decimal
	DropiProductID *string
	IsActive       bool
	SortOrder      int
	Variants       []VariantInput
	Images         []ImageInput
}

// UpdateProductInput holds optional mutations. Nil fields are untouched, a
// zero CompareAtPrice or empty Description clears the value, and non-nil
// Variants or Images replace the whole set.
type UpdateProductInput struct {
	Name           *string
	Description    *string
	Price          *decimal.Decimal
	CompareAtPrice *decimal.Decimal
	DropiProductID *string
	IsActive       *bool
	SortOrder      *int
	Variants       *[]VariantInput
	Images         *[]ImageInput
}

// VariantInput is one variant of a product. An ID of an existing variant keeps
// that id so past order lines still point at it.
type VariantInput struct {
	ID               *uuid.UUID
	Name             string
	PriceOverride    *decimal.Decimal
	DropiVariationID *string
	IsActive         bool
	SortOrder        *int
}

// ImageInput is one product picture. When none is primary the first one is.
type ImageInput struct {
	ImageURL  string
	IsPrimary bool
	SortOrder *int
}

type service struct {
	repo *Repository
	tx   txRunner
}

// NewService constructs a product service instance.
func NewService(repo *Repository, tx txRunner) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("product repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	return &service{repo: repo, tx: tx}, nil
}

func (s *service) ListStorefront(ctx context.Context, tenantID uuid.UUID) ([]ProductDTO, error) {
	rows, err := s.repo.ListActive(ctx, tenantID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list products")
	}
	out := make([]ProductDTO, 0, len(rows))
	for _, row := range rows {
		out = append(out, NewProductDTO(row).public())
	}
	return out, nil
}

func (s *service) StorefrontProduct(ctx context.Context, tenantID uuid.UUID, productSlug string) (*ProductDTO, error) {
	productSlug = strings.ToLower(strings.TrimSpace(productSlug))
	if productSlug == "" {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}
	row, err := s.repo.FindActiveBySlug(ctx, tenantID, productSlug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}
	dto := NewProductDTO(*row).public()
	return &dto, nil
}

func (s *service) List(ctx context.Context, tenantID uuid.UUID, input ListInput) (*ProductList, error) {
	input = input.normalized()
	rows, total, err := s.repo.List(ctx, tenantID, input.Filters, (input.Page-1)*input.PerPage, input.PerPage)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list products")
	}
	out := &ProductList{Items: make([]ProductDTO, 0, len(rows)), Total: total, Page: input.Page, PerPage: input.PerPage}
	for _, row := range rows {
		out.Items = append(out.Items, NewProductDTO(row))
	}
	return out, nil
}

func (s *service) Get(ctx context.Context, tenantID, productID uuid.UUID) (*ProductDTO, error) {
	product, err := s.load(ctx, tenantID, productID)
	if err != nil {
		return nil, err
	}
	dto := NewProductDTO(*product)
	return &dto, nil
}

// Create inserts the product with its variants and images in one transaction.
func (s *service) Create(ctx context.Context, tenantID uuid.UUID, input CreateProductInput) (*ProductDTO, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}
	if err := validatePrices(&input.Price, input.CompareAtPrice); err != nil {
		return nil, err
	}
	if err := validateChildren(input.Variants, input.Images); err != nil {
		return nil, err
	}

	productID := uuid.New()
	if err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)

		productSlug, err := uniqueSlug(ctx, txRepo, tenantID, name, productID)
		if err != nil {
			return err
		}
		product := &models.Product{
			ID:             productID,
			TenantID:       tenantID,
			Name:           name,
			Slug:           productSlug,
			Description:    trimmedOrNil(input.Description),
			Price:          input.Price,
			CompareAtPrice: compareAt(input.CompareAtPrice),
			DropiProductID: trimmedOrNil(input.DropiProductID),
			IsActive:       input.IsActive,
			SortOrder:      input.SortOrder,
		}
		if err := txRepo.CreateProduct(ctx, product); err != nil {
			return err
		}
		if err := txRepo.ReplaceVariants(ctx, tenantID, productID, buildVariants(tenantID, productID, input.Variants, nil)); err != nil {
			return err
		}
		return txRepo.ReplaceImages(ctx, tenantID, productID, buildImages(tenantID, productID, input.Images))
	}); err != nil {
		return nil, writeError(err, "create product")
	}
	return s.Get(ctx, tenantID, productID)
}

func (s *service) Update(ctx context.Context, tenantID, productID uuid.UUID, input UpdateProductInput) (*ProductDTO, error) {
	if input.Name != nil && strings.TrimSpace(*input.Name) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name must not be empty")
	}
	if err := validatePrices(input.Price, input.CompareAtPrice); err != nil {
		return nil, err
	}
	var variants []VariantInput
	if input.Variants != nil {
		variants = *input.Variants
	}
	var images []ImageInput
	if input.Images != nil {
		images = *input.Images
	}
	if err := validateChildren(variants, images); err != nil {
		return nil, err
	}

	product, err := s.load(ctx, tenantID, productID)
	if err != nil {
		return nil, err
	}

	if err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)

		if input.Name != nil {
			name := strings.TrimSpace(*input.Name)
			if name != product.Name {
				productSlug, err := uniqueSlug(ctx, txRepo, tenantID, name, productID)
				if err != nil {
					return err
				}
				product.Name, product.Slug = name, productSlug
			}
		}
		applyUpdate(product, input)
		if err := txRepo.UpdateProduct(ctx, product); err != nil {
			return err
		}

		if input.Variants != nil {
			existing := make(map[uuid.UUID]struct{}, len(product.Variants))
			for _, v := range product.Variants {
				existing[v.ID] = struct{}{}
			}
			if err := txRepo.ReplaceVariants(ctx, tenantID, productID, buildVariants(tenantID, productID, variants, existing)); err != nil {
				return err
			}
		}
		if input.Images != nil {
			if err := txRepo.ReplaceImages(ctx, tenantID, productID, buildImages(tenantID, productID, images)); err != nil {
				return err
			}
		}
		return nil
	}); err != nil {
		return nil, writeError(err, "update product")
	}
	return s.Get(ctx, tenantID, productID)
}

// Delete removes the product. Upsells and offers pointing at it stop matching
// because their product lookups only see existing active products.
func (s *service) Delete(ctx context.Context, tenantID, productID uuid.UUID) error {
	var found bool
	if err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		var err error
		found, err = s.repo.WithTx(tx).DeleteProduct(ctx, tenantID, productID)
		return err
	}); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete product")
	}
	if !found {
		return pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}
	return nil
}

func (s *service) load(ctx context.Context, tenantID, productID uuid.UUID) (*models.Product, error) {
	product, err := s.repo.FindByID(ctx, tenantID, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}
	return product, nil
}

func writeError(err error, action string) error {
	if pkgerrors.As(err) != nil {
		return err
	}
	if db.IsUniqueViolation(err, "idx_products_tenant_slug") {
		return pkgerrors.Wrap(pkgerrors.CodeConflict, err, "product slug already in use")
	}
	return pkgerrors.Wrap(pkgerrors.CodeDependency, err, action)
}

// uniqueSlug follows name, name-1, name-2... within the tenant catalog.
func uniqueSlug(ctx context.Context, repo *Repository, tenantID uuid.UUID, name string, self uuid.UUID) (string, error) {
	base := slug.Make(name)
	if base == "" {
		base = fallbackSlug
	}
	for n := 0; n < maxSlugAttempts; n++ {
		candidate := slug.WithSuffix(base, n)
		taken, err := repo.SlugTaken(ctx, tenantID, candidate, self)
		if err != nil {
			return "", err
		}
		if !taken {
			return candidate, nil
		}
	}
	return base + "-" + uuid.NewString()[:8], nil
}

func validatePrices(price, compareAtPrice *decimal.Decimal) error {
	if price != nil && price.IsNegative() {
		return pkgerrors.New(pkgerrors.CodeValidation, "price must not be negative")
	}
	if compareAtPrice != nil && compareAtPrice.IsNegative() {
		return pkgerrors.New(pkgerrors.CodeValidation, "compare_at_price must not be negative")
	}
	return nil
}

// validateChildren collects every variant and image problem in one error.
func validateChildren(variants []VariantInput, images []ImageInput) error {
	var errs error
	for i, v := range variants {
		if strings.TrimSpace(v.Name) == "" {
			errs = multierr.Append(errs, fmt.Errorf("variants[%d].name is required", i))
		}
		if v.PriceOverride != nil && v.PriceOverride.IsNegative() {
			errs = multierr.Append(errs, fmt.Errorf("variants[%d].price_override must not be negative", i))
		}
	}
	primaries := 0
	for i, img := range images {
		if strings.TrimSpace(img.ImageURL) == "" {
			errs = multierr.Append(errs, fmt.Errorf("images[%d].image_url is required", i))
		}
		if img.IsPrimary {
			primaries++
		}
	}
	if primaries > 1 {
		errs = multierr.Append(errs, errors.New("at most one image can be primary"))
	}
	if errs == nil {
		return nil
	}

	problems := make([]string, 0)
	for _, err := range multierr.Errors(errs) {
		problems = append(problems, err.Error())
	}
	return pkgerrors.New(pkgerrors.CodeValidation, "invalid product").
		WithDetails(map[string]any{"fields": problems})
}

func buildVariants(tenantID, productID uuid.UUID, inputs []VariantInput, existing map[uuid.UUID]struct{}) []models.ProductVariant {
	rows := make([]models.ProductVariant, 0, len(inputs))
	kept := make(map[uuid.UUID]struct{}, len(inputs))
	for i, in := range inputs {
		id := uuid.New()
		if in.ID != nil {
			_, owned := existing[*in.ID]
			_, reused := kept[*in.ID]
			if owned && !reused {
				id = *in.ID
				kept[id] = struct{}{}
			}
		}
		sortOrder := i
		if in.SortOrder != nil {
			sortOrder = *in.SortOrder
		}
		row := models.ProductVariant{
			ID:               id,
			ProductID:        productID,
			TenantID:         tenantID,
			Name:             strings.TrimSpace(in.Name),
			DropiVariationID: trimmedOrNil(in.DropiVariationID),
			IsActive:         in.IsActive,
			SortOrder:        sortOrder,
		}
		if in.PriceOverride != nil {
			row.PriceOverride = decimal.NewNullDecimal(*in.PriceOverride)
		}
		rows = append(rows, row)
	}
	return rows
}

func buildImages(tenantID, productID uuid.UUID, inputs []ImageInput) []models.ProductImage {
	rows := make([]models.ProductImage, 0, len(inputs))
	hasPrimary := false
	for _, in := range inputs {
		hasPrimary = hasPrimary || in.IsPrimary
	}
	for i, in := range inputs {
		sortOrder := i
		if in.SortOrder != nil {
			sortOrder = *in.SortOrder
		}
		rows = append(rows, models.ProductImage{
			ID:        uuid.New(),
			ProductID: productID,
			TenantID:  tenantID,
			ImageURL:  strings.TrimSpace(in.ImageURL),
			SortOrder: sortOrder,
			IsPrimary: in.IsPrimary || (!hasPrimary && i == 0),
		})
	}
	return rows
}

func applyUpdate(product *models.Product, input UpdateProductInput) {
	if input.Description != nil {
		product.Description = trimmedOrNil(input.Description)
	}
	if input.Price != nil {
		product.Price = *input.Price
	}
	if input.CompareAtPrice != nil {
		product.CompareAtPrice = compareAt(input.CompareAtPrice)
	}
	if input.DropiProductID != nil {
		product.DropiProductID = trimmedOrNil(input.DropiProductID)
	}
	if input.IsActive != nil {
		product.IsActive = *input.IsActive
	}
	if input.SortOrder != nil {
		product.SortOrder = *input.SortOrder
	}
}

func compareAt(value *decimal.Decimal) decimal.NullDecimal {
	if value == nil || value.IsZero() {
		return decimal.NullDecimal{}
	}
	return decimal.NewNullDecimal(*value)
}

func trimmedOrNil(value *string) *string {
	if value == nil {
		return nil
	}
	v := strings.TrimSpace(*value)
	if v == "" {
		return nil
	}
	return &v
}
