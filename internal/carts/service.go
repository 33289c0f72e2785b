package carts

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/angelmondragon/minishop-backend/pkg/db/models"
	"github.com/angelmondragon/minishop-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/minishop-backend/pkg/errors"
	"github.com/angelmondragon/minishop-backend/pkg/pagination"
)

const maxSessionIDLength = 128

type cartRepository interface {
	Upsert(ctx context.Context, cart *models.AbandonedCart, columns []string) error
	FindByID(ctx context.Context, tenantID, cartID uuid.UUID) (*models.AbandonedCart, error)
	List(ctx context.Context, tenantID uuid.UUID, status *enums.CartStatus, params pagination.Params) ([]models.AbandonedCart, string, error)
	UpdateStatus(ctx context.Context, tenantID, cartID uuid.UUID, status enums.CartStatus) (bool, error)
}

type productCatalog interface {
	FindActiveForTenant(ctx context.Context, tenantID, productID uuid.UUID) (*models.Product, error)
}

// Service captures storefront checkout drop-offs and exposes them to the admin.
type Service interface {
	Capture(ctx context.Context, tenantID uuid.UUID, input CaptureInput) error
	List(ctx context.Context, tenantID uuid.UUID, status *enums.CartStatus, params pagination.Params) (*CartList, error)
	UpdateStatus(ctx context.Context, tenantID, cartID uuid.UUID, status enums.CartStatus) (*CartDTO, error)
}

// CaptureInput is a snapshot of the checkout form. Nil fields leave the stored
// value untouched.
type CaptureInput struct {
	SessionID     string
	CustomerName  *string
	CustomerPhone *string
	CustomerEmail *string
	ProductID     *uuid.UUID
	ProductName   *string
	VariantName   *string
	Quantity      *int
	TotalValue    *decimal.Decimal
	LastStep      *string
	UTMSource     *string
}

type service struct {
	repo     cartRepository
	products productCatalog
	now      func() time.Time
}

// NewService builds the abandoned cart service.
func NewService(repo cartRepository, catalog productCatalog) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("cart repository required")
	}
	if catalog == nil {
		return nil, fmt.Errorf("product catalog required")
	}
	return &service{repo: repo, products: catalog, now: time.Now}, nil
}

func (s *service) Capture(ctx context.Context, tenantID uuid.UUID, input CaptureInput) error {
	sessionID := strings.TrimSpace(input.SessionID)
	if sessionID == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "session_id is required")
	}
	if len(sessionID) > maxSessionIDLength {
		return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("session_id must be at most %d characters", maxSessionIDLength))
	}
	if input.Quantity != nil && *input.Quantity < 1 {
		return pkgerrors.New(pkgerrors.CodeValidation, "quantity must be at least 1")
	}
	if input.TotalValue != nil && input.TotalValue.IsNegative() {
		return pkgerrors.New(pkgerrors.CodeValidation, "total_value must not be negative")
	}
	if input.ProductID != nil {
		if _, err := s.products.FindActiveForTenant(ctx, tenantID, *input.ProductID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("product %s not found or inactive", *input.ProductID))
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
		}
	}

	now := s.now().UTC()
	cart := &models.AbandonedCart{
		ID:        uuid.New(),
		TenantID:  tenantID,
		SessionID: sessionID,
		Quantity:  1,
		Status:    enums.CartStatusAbandoned,
		CreatedAt: now,
		UpdatedAt: now,
	}

	var columns []string
	if input.CustomerName != nil {
		cart.CustomerName = input.CustomerName
		columns = append(columns, "customer_name")
	}
	if input.CustomerPhone != nil {
		cart.CustomerPhone = input.CustomerPhone
		columns = append(columns, "customer_phone")
	}
	if input.CustomerEmail != nil {
		cart.CustomerEmail = input.CustomerEmail
		columns = append(columns, "customer_email")
	}
	if input.ProductID != nil {
		cart.ProductID = input.ProductID
		columns = append(columns, "product_id")
	}
	if input.ProductName != nil {
		cart.ProductName = input.ProductName
		columns = append(columns, "product_name")
	}
	if input.VariantName != nil {
		cart.VariantName = input.VariantName
		columns = append(columns, "variant_name")
	}
	if input.Quantity != nil {
		cart.Quantity = *input.Quantity
		columns = append(columns, "quantity")
	}
	if input.TotalValue != nil {
		cart.TotalValue = decimal.NewNullDecimal(*input.TotalValue)
		columns = append(columns, "total_value")
	}
	if input.LastStep != nil {
		cart.LastStep = input.LastStep
		columns = append(columns, "last_step")
	}
	if input.UTMSource != nil {
		cart.UTMSource = input.UTMSource
		columns = append(columns, "utm_source")
	}

	if err := s.repo.Upsert(ctx, cart, columns); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "capture cart")
	}
	return nil
}

func (s *service) List(ctx context.Context, tenantID uuid.UUID, status *enums.CartStatus, params pagination.Params) (*CartList, error) {
	if status != nil && !status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid cart status %q", *status))
	}
	rows, next, err := s.repo.List(ctx, tenantID, status, params)
	if err != nil {
		if errors.Is(err, pagination.ErrInvalidCursor) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list carts")
	}
	out := &CartList{Carts: make([]CartDTO, 0, len(rows)), NextCursor: next}
	for _, row := range rows {
		out.Carts = append(out.Carts, newCartDTO(row))
	}
	return out, nil
}

func (s *service) UpdateStatus(ctx context.Context, tenantID, cartID uuid.UUID, status enums.CartStatus) (*CartDTO, error) {
	if !status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid cart status %q", status))
	}
	found, err := s.repo.UpdateStatus(ctx, tenantID, cartID, status)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update cart status")
	}
	if !found {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "cart not found")
	}
	cart, err := s.repo.FindByID(ctx, tenantID, cartID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reload cart")
	}
	dto := newCartDTO(*cart)
	return &dto, nil
}
