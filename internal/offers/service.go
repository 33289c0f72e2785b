package offers

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
	dbtypes "github.com/angelmondragon/minishop-backend/pkg/db/types"
	"github.com/angelmondragon/minishop-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/minishop-backend/pkg/errors"
	"github.com/angelmondragon/minishop-backend/pkg/logger"
)

var maxPercentage = decimal.NewFromInt(100)

type offerRepository interface {
	ListActive(ctx context.Context, tenantID uuid.UUID) ([]models.QuantityOffer, error)
	List(ctx context.Context, tenantID uuid.UUID) ([]models.QuantityOffer, error)
	FindByID(ctx context.Context, tenantID, offerID uuid.UUID) (*models.QuantityOffer, error)
	Create(ctx context.Context, offer *models.QuantityOffer) error
	Replace(ctx context.Context, offer *models.QuantityOffer) (bool, error)
	SetActive(ctx context.Context, tenantID, offerID uuid.UUID, active bool) (bool, error)
	Delete(ctx context.Context, tenantID, offerID uuid.UUID) (bool, error)
	IncrementImpressions(ctx context.Context, tenantID, offerID uuid.UUID) error
}

// Service exposes quantity offer reads for the storefront and management for admins.
type Service interface {
	MatchForProduct(ctx context.Context, tenantID uuid.UUID, productID string) (*OfferDTO, error)
	RecordImpression(ctx context.Context, tenantID, offerID uuid.UUID)
	List(ctx context.Context, tenantID uuid.UUID) ([]OfferDTO, error)
	Create(ctx context.Context, tenantID uuid.UUID, input CreateOfferInput) (*OfferDTO, error)
	Update(ctx context.Context, tenantID, offerID uuid.UUID, input CreateOfferInput) (*OfferDTO, error)
	SetActive(ctx context.Context, tenantID, offerID uuid.UUID, active bool) error
	Delete(ctx context.Context, tenantID, offerID uuid.UUID) error
}

// CreateOfferInput is the validated admin payload for a new offer. Update
// takes the same payload and replaces the offer and all of its tiers.
type CreateOfferInput struct {
	Name       string
	ProductIDs []uuid.UUID
	Priority   int
	IsActive   bool
	Tiers      []TierInput
}

// TierInput is one requested tier; Position defaults to its index.
type TierInput struct {
	Quantity      int
	DiscountType  enums.DiscountType
	DiscountValue decimal.Decimal
	Position      *int
	Title         *string
	LabelText     *string
}

type service struct {
	repo offerRepository
	logg *logger.Logger
}

// NewService builds the offer service.
func NewService(repo offerRepository, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("offer repository required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{repo: repo, logg: logg}, nil
}

func (s *service) MatchForProduct(ctx context.Context, tenantID uuid.UUID, productID string) (*OfferDTO, error) {
	offers, err := s.repo.ListActive(ctx, tenantID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list quantity offers")
	}
	match := ResolveOffer(offers, productID)
	if match == nil {
		return nil, nil
	}
	dto := NewOfferDTO(*match)
	return &dto, nil
}

// RecordImpression never fails the caller; counter errors are only logged.
func (s *service) RecordImpression(ctx context.Context, tenantID, offerID uuid.UUID) {
	if err := s.repo.IncrementImpressions(ctx, tenantID, offerID); err != nil {
		logCtx := s.logg.WithFields(ctx, map[string]any{"offer_id": offerID.String()})
		if errors.Is(err, gorm.ErrRecordNotFound) {
			s.logg.Warn(logCtx, "offers.impression.unknown_offer")
			return
		}
		s.logg.Error(logCtx, "offers.impression.failed", err)
	}
}

func (s *service) List(ctx context.Context, tenantID uuid.UUID) ([]OfferDTO, error) {
	rows, err := s.repo.List(ctx, tenantID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list quantity offers")
	}
	out := make([]OfferDTO, 0, len(rows))
	for _, row := range rows {
		out = append(out, NewOfferDTO(row))
	}
	return out, nil
}

func (s *service) Create(ctx context.Context, tenantID uuid.UUID, input CreateOfferInput) (*OfferDTO, error) {
	offer, err := buildOffer(tenantID, uuid.New(), input)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, offer); err != nil {
		return nil, writeError(err, "create quantity offer")
	}
	return s.reload(ctx, tenantID, offer.ID)
}

func (s *service) Update(ctx context.Context, tenantID, offerID uuid.UUID, input CreateOfferInput) (*OfferDTO, error) {
	offer, err := buildOffer(tenantID, offerID, input)
	if err != nil {
		return nil, err
	}
	found, err := s.repo.Replace(ctx, offer)
	if err != nil {
		return nil, writeError(err, "update quantity offer")
	}
	if !found {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "quantity offer not found")
	}
	return s.reload(ctx, tenantID, offerID)
}

func (s *service) reload(ctx context.Context, tenantID, offerID uuid.UUID) (*OfferDTO, error) {
	offer, err := s.repo.FindByID(ctx, tenantID, offerID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reload quantity offer")
	}
	dto := NewOfferDTO(*offer)
	return &dto, nil
}

func writeError(err error, action string) error {
	if db.IsUniqueViolation(err, "idx_quantity_offer_tiers_offer_quantity") {
		return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "tier quantities must be unique")
	}
	return pkgerrors.Wrap(pkgerrors.CodeDependency, err, action)
}

func buildOffer(tenantID, offerID uuid.UUID, input CreateOfferInput) (*models.QuantityOffer, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}
	productIDs := dedupeIDs(input.ProductIDs)
	if len(productIDs) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "at least one product is required")
	}
	if err := validateTiers(input.Tiers); err != nil {
		return nil, err
	}

	offer := &models.QuantityOffer{
		ID:         offerID,
		TenantID:   tenantID,
		Name:       name,
		ProductIDs: productIDs,
		Priority:   input.Priority,
		IsActive:   input.IsActive,
		Tiers:      make([]models.QuantityOfferTier, 0, len(input.Tiers)),
	}
	for i, t := range input.Tiers {
		position := i
		if t.Position != nil {
			position = *t.Position
		}
		discountType := t.DiscountType
		if discountType == "" {
			discountType = enums.DiscountTypeNone
		}
		offer.Tiers = append(offer.Tiers, models.QuantityOfferTier{
			ID:            uuid.New(),
			Quantity:      t.Quantity,
			DiscountType:  discountType,
			DiscountValue: t.DiscountValue,
			Position:      position,
			Title:         t.Title,
			LabelText:     t.LabelText,
		})
	}
	return offer, nil
}

func (s *service) SetActive(ctx context.Context, tenantID, offerID uuid.UUID, active bool) error {
	found, err := s.repo.SetActive(ctx, tenantID, offerID, active)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update quantity offer")
	}
	if !found {
		return pkgerrors.New(pkgerrors.CodeNotFound, "quantity offer not found")
	}
	return nil
}

func (s *service) Delete(ctx context.Context, tenantID, offerID uuid.UUID) error {
	found, err := s.repo.Delete(ctx, tenantID, offerID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete quantity offer")
	}
	if !found {
		return pkgerrors.New(pkgerrors.CodeNotFound, "quantity offer not found")
	}
	return nil
}

// validateTiers collects every tier problem so admins can fix them in one pass.
func validateTiers(tiers []TierInput) error {
	if len(tiers) == 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "at least one tier is required")
	}

	var errs error
	seen := make(map[int]int, len(tiers))
	for i, t := range tiers {
		if t.Quantity < 1 {
			errs = multierr.Append(errs, fmt.Errorf("tiers[%d].quantity must be at least 1", i))
		}
		if prev, dup := seen[t.Quantity]; dup {
			errs = multierr.Append(errs, fmt.Errorf("tiers[%d].quantity duplicates tiers[%d]", i, prev))
		} else {
			seen[t.Quantity] = i
		}
		if t.DiscountType != "" && !t.DiscountType.IsValid() {
			errs = multierr.Append(errs, fmt.Errorf("tiers[%d].discount_type %q is invalid", i, t.DiscountType))
		}
		if t.DiscountValue.IsNegative() {
			errs = multierr.Append(errs, fmt.Errorf("tiers[%d].discount_value must not be negative", i))
		}
		if t.DiscountType == enums.DiscountTypePercentage && t.DiscountValue.GreaterThan(maxPercentage) {
			errs = multierr.Append(errs, fmt.Errorf("tiers[%d].discount_value must not exceed 100", i))
		}
	}
	if errs == nil {
		return nil
	}

	problems := make([]string, 0)
	for _, err := range multierr.Errors(errs) {
		problems = append(problems, err.Error())
	}
	return pkgerrors.New(pkgerrors.CodeValidation, "invalid tiers").
		WithDetails(map[string]any{"tiers": problems})
}

func dedupeIDs(ids []uuid.UUID) dbtypes.UUIDArray {
	out := make(dbtypes.UUIDArray, 0, len(ids))
	seen := make(map[uuid.UUID]struct{}, len(ids))
	for _, id := range ids {
		if id == uuid.Nil {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
