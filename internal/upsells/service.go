package upsells

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/angelmondragon/minishop-backend/internal/products"
	"github.com/angelmondragon/minishop-backend/pkg/db/models"
	dbtypes "github.com/angelmondragon/minishop-backend/pkg/db/types"
	"github.com/angelmondragon/minishop-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/minishop-backend/pkg/errors"
	"github.com/angelmondragon/minishop-backend/pkg/logger"
)

var maxPercentage = decimal.NewFromInt(100)

type upsellRepository interface {
	FindConfig(ctx context.Context, tenantID uuid.UUID) (*models.UpsellConfig, error)
	EnsureConfig(ctx context.Context, tenantID uuid.UUID) (*models.UpsellConfig, error)
	UpdateConfig(ctx context.Context, tenantID uuid.UUID, updates map[string]any) error
	ListActive(ctx context.Context, tenantID uuid.UUID) ([]models.Upsell, error)
	List(ctx context.Context, tenantID uuid.UUID) ([]models.Upsell, error)
	FindByID(ctx context.Context, tenantID, upsellID uuid.UUID) (*models.Upsell, error)
	Create(ctx context.Context, upsell *models.Upsell) error
	Update(ctx context.Context, upsell *models.Upsell) (bool, error)
	SetActive(ctx context.Context, tenantID, upsellID uuid.UUID, active bool) (bool, error)
	Delete(ctx context.Context, tenantID, upsellID uuid.UUID) (bool, error)
	IncrementImpressions(ctx context.Context, tenantID, upsellID uuid.UUID) error
}

type productCatalog interface {
	ListActiveByIDs(ctx context.Context, tenantID uuid.UUID, ids []uuid.UUID) ([]models.Product, error)
}

// Service exposes the storefront eligibility query and admin management of upsells.
type Service interface {
	ForProduct(ctx context.Context, tenantID uuid.UUID, productID string) (*EligibleUpsells, error)
	RecordImpression(ctx context.Context, tenantID, upsellID uuid.UUID)
	GetConfig(ctx context.Context, tenantID uuid.UUID) (*ConfigDTO, error)
	UpdateConfig(ctx context.Context, tenantID uuid.UUID, input UpdateConfigInput) (*ConfigDTO, error)
	List(ctx context.Context, tenantID uuid.UUID) ([]UpsellDTO, error)
	Get(ctx context.Context, tenantID, upsellID uuid.UUID) (*UpsellDTO, error)
	Create(ctx context.Context, tenantID uuid.UUID, input CreateUpsellInput) (*UpsellDTO, error)
	Update(ctx context.Context, tenantID, upsellID uuid.UUID, input CreateUpsellInput) (*UpsellDTO, error)
	Duplicate(ctx context.Context, tenantID, upsellID uuid.UUID) (*UpsellDTO, error)
	SetActive(ctx context.Context, tenantID, upsellID uuid.UUID, active bool) error
	Delete(ctx context.Context, tenantID, upsellID uuid.UUID) error
}

// UpdateConfigInput carries optional config changes; nil fields are left untouched.
type UpdateConfigInput struct {
	UpsellType         *enums.UpsellType
	MaxUpsellsPerOrder *int
	IsActive           *bool
}

// CreateUpsellInput is the validated admin payload for a new upsell. Update
// takes the same payload and replaces every editable field.
type CreateUpsellInput struct {
	Name              string
	IsActive          bool
	Priority          int
	TriggerType       enums.UpsellTrigger
	TriggerProductIDs []uuid.UUID
	UpsellProductID   uuid.UUID
	DiscountType      enums.DiscountType
	DiscountValue     decimal.Decimal
	Title             string
	Subtitle          *string
	AddButtonText     string
	DeclineButtonText string
}

type service struct {
	repo     upsellRepository
	products productCatalog
	logg     *logger.Logger
}

// NewService builds the upsell service.
func NewService(repo upsellRepository, catalog productCatalog, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("upsell repository required")
	}
	if catalog == nil {
		return nil, fmt.Errorf("product catalog required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{repo: repo, products: catalog, logg: logg}, nil
}

func (s *service) ForProduct(ctx context.Context, tenantID uuid.UUID, productID string) (*EligibleUpsells, error) {
	empty := &EligibleUpsells{Upsells: []UpsellDTO{}}

	cfg, err := s.repo.FindConfig(ctx, tenantID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return empty, nil
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load upsell config")
	}
	if !cfg.IsActive || cfg.MaxUpsellsPerOrder <= 0 {
		return empty, nil
	}

	active, err := s.repo.ListActive(ctx, tenantID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list upsells")
	}
	candidates := make([]models.Upsell, 0, len(active))
	for _, u := range active {
		if triggers(u, productID) {
			candidates = append(candidates, u)
		}
	}

	summaries, err := s.summaries(ctx, tenantID, candidates)
	if err != nil {
		return nil, err
	}

	out := &EligibleUpsells{Config: newConfigDTO(*cfg), Upsells: make([]UpsellDTO, 0, cfg.MaxUpsellsPerOrder)}
	for _, u := range candidates {
		if len(out.Upsells) == cfg.MaxUpsellsPerOrder {
			break
		}
		summary, ok := summaries[u.UpsellProductID]
		if !ok {
			continue
		}
		out.Upsells = append(out.Upsells, newUpsellDTO(u, &summary))
	}
	return out, nil
}

// triggers reports whether u applies to a product page.
func triggers(u models.Upsell, productID string) bool {
	switch u.TriggerType {
	case enums.UpsellTriggerAll:
		return true
	case enums.UpsellTriggerSpecific:
		return u.TriggerProductIDs.Contains(productID)
	default:
		return false
	}
}

func (s *service) summaries(ctx context.Context, tenantID uuid.UUID, rows []models.Upsell) (map[uuid.UUID]products.ProductSummary, error) {
	ids := make([]uuid.UUID, 0, len(rows))
	seen := make(map[uuid.UUID]struct{}, len(rows))
	for _, u := range rows {
		if _, ok := seen[u.UpsellProductID]; ok {
			continue
		}
		seen[u.UpsellProductID] = struct{}{}
		ids = append(ids, u.UpsellProductID)
	}
	found, err := s.products.ListActiveByIDs(ctx, tenantID, ids)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load upsell products")
	}
	return products.SummariesByID(found), nil
}

// RecordImpression never fails the caller; counter errors are only logged.
func (s *service) RecordImpression(ctx context.Context, tenantID, upsellID uuid.UUID) {
	if err := s.repo.IncrementImpressions(ctx, tenantID, upsellID); err != nil {
		logCtx := s.logg.WithFields(ctx, map[string]any{"upsell_id": upsellID.String()})
		if errors.Is(err, gorm.ErrRecordNotFound) {
			s.logg.Warn(logCtx, "upsells.impression.unknown_upsell")
			return
		}
		s.logg.Error(logCtx, "upsells.impression.failed", err)
	}
}

func (s *service) GetConfig(ctx context.Context, tenantID uuid.UUID) (*ConfigDTO, error) {
	cfg, err := s.repo.EnsureConfig(ctx, tenantID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load upsell config")
	}
	return newConfigDTO(*cfg), nil
}

func (s *service) UpdateConfig(ctx context.Context, tenantID uuid.UUID, input UpdateConfigInput) (*ConfigDTO, error) {
	updates := map[string]any{}
	if input.UpsellType != nil {
		if !input.UpsellType.IsValid() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid upsell_type %q", *input.UpsellType))
		}
		updates["upsell_type"] = *input.UpsellType
	}
	if input.MaxUpsellsPerOrder != nil {
		if *input.MaxUpsellsPerOrder < 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "max_upsells_per_order must not be negative")
		}
		updates["max_upsells_per_order"] = *input.MaxUpsellsPerOrder
	}
	if input.IsActive != nil {
		updates["is_active"] = *input.IsActive
	}

	if _, err := s.repo.EnsureConfig(ctx, tenantID); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load upsell config")
	}
	if err := s.repo.UpdateConfig(ctx, tenantID, updates); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update upsell config")
	}
	cfg, err := s.repo.FindConfig(ctx, tenantID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reload upsell config")
	}
	return newConfigDTO(*cfg), nil
}

func (s *service) List(ctx context.Context, tenantID uuid.UUID) ([]UpsellDTO, error) {
	rows, err := s.repo.List(ctx, tenantID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list upsells")
	}
	summaries, err := s.summaries(ctx, tenantID, rows)
	if err != nil {
		return nil, err
	}
	out := make([]UpsellDTO, 0, len(rows))
	for _, u := range rows {
		var product *products.ProductSummary
		if summary, ok := summaries[u.UpsellProductID]; ok {
			product = &summary
		}
		out = append(out, newUpsellDTO(u, product))
	}
	return out, nil
}

func (s *service) Get(ctx context.Context, tenantID, upsellID uuid.UUID) (*UpsellDTO, error) {
	upsell, err := s.load(ctx, tenantID, upsellID)
	if err != nil {
		return nil, err
	}
	return s.withProduct(ctx, *upsell)
}

func (s *service) Create(ctx context.Context, tenantID uuid.UUID, input CreateUpsellInput) (*UpsellDTO, error) {
	upsell, err := buildUpsell(tenantID, input)
	if err != nil {
		return nil, err
	}
	summary, err := s.targetProduct(ctx, tenantID, upsell.UpsellProductID)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, upsell); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create upsell")
	}
	dto := newUpsellDTO(*upsell, summary)
	return &dto, nil
}

func (s *service) Update(ctx context.Context, tenantID, upsellID uuid.UUID, input CreateUpsellInput) (*UpsellDTO, error) {
	upsell, err := buildUpsell(tenantID, input)
	if err != nil {
		return nil, err
	}
	upsell.ID = upsellID
	if _, err := s.targetProduct(ctx, tenantID, upsell.UpsellProductID); err != nil {
		return nil, err
	}

	found, err := s.repo.Update(ctx, upsell)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update upsell")
	}
	if !found {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "upsell not found")
	}
	return s.Get(ctx, tenantID, upsellID)
}

// Duplicate copies an upsell as an inactive draft with fresh counters.
func (s *service) Duplicate(ctx context.Context, tenantID, upsellID uuid.UUID) (*UpsellDTO, error) {
	source, err := s.load(ctx, tenantID, upsellID)
	if err != nil {
		return nil, err
	}

	upsell := *source
	upsell.ID = uuid.New()
	upsell.Name = source.Name + " (copy)"
	upsell.IsActive = false
	upsell.Impressions = 0
	upsell.AcceptedCount = 0
	upsell.TriggerProductIDs = append(dbtypes.UUIDArray{}, source.TriggerProductIDs...)
	upsell.CreatedAt = time.Time{}
	upsell.UpdatedAt = time.Time{}

	if err := s.repo.Create(ctx, &upsell); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "duplicate upsell")
	}
	return s.withProduct(ctx, upsell)
}

func (s *service) load(ctx context.Context, tenantID, upsellID uuid.UUID) (*models.Upsell, error) {
	upsell, err := s.repo.FindByID(ctx, tenantID, upsellID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "upsell not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load upsell")
	}
	return upsell, nil
}

// withProduct attaches the target product summary, or nil once it is gone or inactive.
func (s *service) withProduct(ctx context.Context, upsell models.Upsell) (*UpsellDTO, error) {
	summaries, err := s.summaries(ctx, upsell.TenantID, []models.Upsell{upsell})
	if err != nil {
		return nil, err
	}
	var product *products.ProductSummary
	if summary, ok := summaries[upsell.UpsellProductID]; ok {
		product = &summary
	}
	dto := newUpsellDTO(upsell, product)
	return &dto, nil
}

// targetProduct rejects upsells pointing at a missing or inactive product.
func (s *service) targetProduct(ctx context.Context, tenantID, productID uuid.UUID) (*products.ProductSummary, error) {
	found, err := s.products.ListActiveByIDs(ctx, tenantID, []uuid.UUID{productID})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load upsell product")
	}
	if len(found) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("product %s not found or inactive", productID))
	}
	summary := products.NewProductSummary(found[0])
	return &summary, nil
}

func buildUpsell(tenantID uuid.UUID, input CreateUpsellInput) (*models.Upsell, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}
	if input.UpsellProductID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "upsell_product_id is required")
	}

	trigger := input.TriggerType
	if trigger == "" {
		trigger = enums.UpsellTriggerAll
	}
	if !trigger.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid trigger_type %q", trigger))
	}
	if trigger == enums.UpsellTriggerSpecific && len(input.TriggerProductIDs) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "trigger_product_ids required for specific trigger")
	}

	discountType := input.DiscountType
	if discountType == "" {
		discountType = enums.DiscountTypeNone
	}
	if !discountType.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid discount_type %q", discountType))
	}
	if input.DiscountValue.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "discount_value must not be negative")
	}
	if discountType == enums.DiscountTypePercentage && input.DiscountValue.GreaterThan(maxPercentage) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "discount_value must not exceed 100")
	}

	title := strings.TrimSpace(input.Title)
	if title == "" {
		title = name
	}
	return &models.Upsell{
		ID:                uuid.New(),
		TenantID:          tenantID,
		Name:              name,
		IsActive:          input.IsActive,
		Priority:          input.Priority,
		TriggerType:       trigger,
		TriggerProductIDs: dbtypes.UUIDArray(input.TriggerProductIDs),
		UpsellProductID:   input.UpsellProductID,
		DiscountType:      discountType,
		DiscountValue:     input.DiscountValue,
		Title:             title,
		Subtitle:          input.Subtitle,
		AddButtonText:     defaultText(input.AddButtonText, "Add to my order"),
		DeclineButtonText: defaultText(input.DeclineButtonText, "No, thanks"),
	}, nil
}

func defaultText(value, fallback string) string {
	if v := strings.TrimSpace(value); v != "" {
		return v
	}
	return fallback
}

func (s *service) SetActive(ctx context.Context, tenantID, upsellID uuid.UUID, active bool) error {
	found, err := s.repo.SetActive(ctx, tenantID, upsellID, active)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update upsell")
	}
	if !found {
		return pkgerrors.New(pkgerrors.CodeNotFound, "upsell not found")
	}
	return nil
}

func (s *service) Delete(ctx context.Context, tenantID, upsellID uuid.UUID) error {
	found, err := s.repo.Delete(ctx, tenantID, upsellID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete upsell")
	}
	if !found {
		return pkgerrors.New(pkgerrors.CodeNotFound, "upsell not found")
	}
	return nil
}
