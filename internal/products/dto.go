package products

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/minishop-backend/pkg/db/models"
)

// ProductSummary is the storefront read model of a product shown next to an offer.
type ProductSummary struct {
	ID             uuid.UUID           `json:"id"`
	Name           string              `json:"name"`
	Price          decimal.Decimal     `json:"price"`
	CompareAtPrice decimal.NullDecimal `json:"compare_at_price"`
	ImageURL       *string             `json:"image_url"`
	Variants       []VariantSummary    `json:"variants"`
}

// VariantSummary is a purchasable option inside a ProductSummary.
type VariantSummary struct {
	ID            uuid.UUID           `json:"id"`
	Name          string              `json:"name"`
	PriceOverride decimal.NullDecimal `json:"price_override"`
}

// NewProductSummary maps a product with preloaded variants and images.
// The first image is used; callers order primary images first.
func NewProductSummary(p models.Product) ProductSummary {
	summary := ProductSummary{
		ID:             p.ID,
		Name:           p.Name,
		Price:          p.Price,
		CompareAtPrice: p.CompareAtPrice,
		Variants:       make([]VariantSummary, 0, len(p.Variants)),
	}
	if len(p.Images) > 0 {
		url := p.Images[0].ImageURL
		summary.ImageURL = &url
	}
	for _, v := range p.Variants {
		summary.Variants = append(summary.Variants, VariantSummary{
			ID:            v.ID,
			Name:          v.Name,
			PriceOverride: v.PriceOverride,
		})
	}
	return summary
}

// SummariesByID indexes products by id as summaries.
func SummariesByID(rows []models.Product) map[uuid.UUID]ProductSummary {
	out := make(map[uuid.UUID]ProductSummary, len(rows))
	for _, row := range rows {
		out[row.ID] = NewProductSummary(row)
	}
	return out
}

// ProductDTO is the full catalog shape. Supplier ids are only set for admins.
type ProductDTO struct {
	ID             uuid.UUID           `json:"id"`
	Name           string              `json:"name"`
	Slug           string              `json:"slug"`
	Description    *string             `json:"description"`
	Price          decimal.Decimal     `json:"price"`
	CompareAtPrice decimal.NullDecimal `json:"compare_at_price"`
	DropiProductID *string             `json:"dropi_product_id,omitempty"`
	IsActive       bool                `json:"is_active"`
	SortOrder      int                 `json:"sort_order"`
	ImageURL       *string             `json:"image_url"`
	Images         []ImageDTO          `json:"images"`
	Variants       []VariantDTO        `json:"variants"`
	CreatedAt      time.Time           `json:"created_at"`
	UpdatedAt      time.Time           `json:"updated_at"`
}

// VariantDTO is one variant inside a ProductDTO.
type VariantDTO struct {
	ID               uuid.UUID           `json:"id"`
	Name             string              `json:"name"`
	PriceOverride    decimal.NullDecimal `json:"price_override"`
	DropiVariationID *string             `json:"dropi_variation_id,omitempty"`
	IsActive         bool                `json:"is_active"`
	SortOrder        int                 `json:"sort_order"`
}

// ImageDTO is one picture inside a ProductDTO.
type ImageDTO struct {
	ID        uuid.UUID `json:"id"`
	ImageURL  string    `json:"image_url"`
	IsPrimary bool      `json:"is_primary"`
	SortOrder int       `json:"sort_order"`
}

// NewProductDTO maps a product with preloaded variants and images.
func NewProductDTO(p models.Product) ProductDTO {
	dto := ProductDTO{
		ID:             p.ID,
		Name:           p.Name,
		Slug:           p.Slug,
		Description:    p.Description,
		Price:          p.Price,
		CompareAtPrice: p.CompareAtPrice,
		DropiProductID: p.DropiProductID,
		IsActive:       p.IsActive,
		SortOrder:      p.SortOrder,
		Images:         make([]ImageDTO, 0, len(p.Images)),
		Variants:       make([]VariantDTO, 0, len(p.Variants)),
		CreatedAt:      p.CreatedAt,
		UpdatedAt:      p.UpdatedAt,
	}
	for _, img := range p.Images {
		dto.Images = append(dto.Images, ImageDTO{
			ID:        img.ID,
			ImageURL:  img.ImageURL,
			IsPrimary: img.IsPrimary,
			SortOrder: img.SortOrder,
		})
	}
	if len(dto.Images) > 0 {
		url := dto.Images[0].ImageURL
		dto.ImageURL = &url
	}
	for _, v := range p.Variants {
		dto.Variants = append(dto.Variants, VariantDTO{
			ID:               v.ID,
			Name:             v.Name,
			PriceOverride:    v.PriceOverride,
			DropiVariationID: v.DropiVariationID,
			IsActive:         v.IsActive,
			SortOrder:        v.SortOrder,
		})
	}
	return dto
}

// public drops the supplier ids before a product reaches shoppers.
func (d ProductDTO) public() ProductDTO {
	d.DropiProductID = nil
	variants := make([]VariantDTO, len(d.Variants))
	for i, v := range d.Variants {
		v.DropiVariationID = nil
		variants[i] = v
	}
	d.Variants = variants
	return d
}
