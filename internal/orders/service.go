package orders

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/angelmondragon/minishop-backend/internal/customers"
	"github.com/angelmondragon/minishop-backend/internal/offers"
	"github.com/angelmondragon/minishop-backend/internal/pricing"
	"github.com/angelmondragon/minishop-backend/internal/products"
	"github.com/angelmondragon/minishop-backend/internal/upsells"
	"github.com/angelmondragon/minishop-backend/pkg/db"
	"github.com/angelmondragon/minishop-backend/pkg/db/models"
	"github.com/angelmondragon/minishop-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/minishop-backend/pkg/errors"
	"github.com/angelmondragon/minishop-backend/pkg/logger"
	"github.com/angelmondragon/minishop-backend/pkg/metrics"
	"github.com/angelmondragon/minishop-backend/pkg/pagination"
)

// DefaultMaxLineQuantity caps a single line when no limit is configured.
const DefaultMaxLineQuantity = 1000

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service covers checkout, the post-purchase upsell add and admin order management.
type Service interface {
	CreateOrder(ctx context.Context, tenantID uuid.UUID, input CreateOrderInput) (*CreatedOrder, error)
	AddUpsellItem(ctx context.Context, tenantID, orderID uuid.UUID, input AddUpsellItemInput) (*UpsellItemResult, error)
	List(ctx context.Context, tenantID uuid.UUID, params pagination.Params, filters ListFilters) (*OrderList, error)
	Detail(ctx context.Context, tenantID, orderID uuid.UUID) (*OrderDetail, error)
	UpdateStatus(ctx context.Context, tenantID, orderID uuid.UUID, status enums.OrderStatus) (*OrderDetail, error)
	UpdateNotes(ctx context.Context, tenantID, orderID uuid.UUID, notes *string) (*OrderDetail, error)
}

// CustomerInput is the shipping and contact block of the checkout form.
type CustomerInput struct {
	Name         string
	Surname      *string
	Phone        string
	Email        *string
	DNI          *string
	Address      string
	City         string
	State        *string
	Neighborhood *string
	ZipCode      *string
	AddressNotes *string
}

// LineInput is one cart line as submitted by the storefront.
type LineInput struct {
	ProductID uuid.UUID
	VariantID *uuid.UUID
	Quantity  int
}

// CreateOrderInput is the validated checkout payload.
type CreateOrderInput struct {
	Customer    CustomerInput
	Items       []LineInput
	Notes       *string
	UTMSource   *string
	UTMMedium   *string
	UTMCampaign *string
}

// AddUpsellItemInput is the accepted post-purchase offer.
type AddUpsellItemInput struct {
	UpsellID  uuid.UUID
	ProductID uuid.UUID
	VariantID *uuid.UUID
	Quantity  int
}

// ServiceParams wires the order service collaborators.
type ServiceParams struct {
	Repo            Repository
	Tx              txRunner
	Products        *products.Repository
	Offers          *offers.Repository
	Upsells         *upsells.Repository
	Customers       *customers.Repository
	Metrics         *metrics.CheckoutMetrics
	Logger          *logger.Logger
	MaxLineQuantity int
	MaxLines        int
}

type service struct {
	repo      Repository
	tx        txRunner
	products  *products.Repository
	offers    *offers.Repository
	upsells   *upsells.Repository
	customers *customers.Repository
	metrics   *metrics.CheckoutMetrics
	logg      *logger.Logger
	maxQty    int
	maxLines  int
	now       func() time.Time
}

// NewService builds the order service with the required dependencies.
func NewService(p ServiceParams) (Service, error) {
	if p.Repo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if p.Tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if p.Products == nil {
		return nil, fmt.Errorf("products repository required")
	}
	if p.Offers == nil {
		return nil, fmt.Errorf("offers repository required")
	}
	if p.Upsells == nil {
		return nil, fmt.Errorf("upsells repository required")
	}
	if p.Customers == nil {
		return nil, fmt.Errorf("customers repository required")
	}
	if p.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	maxQty := p.MaxLineQuantity
	if maxQty <= 0 {
		maxQty = DefaultMaxLineQuantity
	}
	return &service{
		repo:      p.Repo,
		tx:        p.Tx,
		products:  p.Products,
		offers:    p.Offers,
		upsells:   p.Upsells,
		customers: p.Customers,
		metrics:   p.Metrics,
		logg:      p.Logger,
		maxQty:    maxQty,
		maxLines:  p.MaxLines,
		now:       time.Now,
	}, nil
}

type pricedOrder struct {
	order       *models.Order
	offerIDs    []uuid.UUID
	tierApplied int
}

func (s *service) CreateOrder(ctx context.Context, tenantID uuid.UUID, input CreateOrderInput) (*CreatedOrder, error) {
	if err := s.validateOrderInput(input); err != nil {
		return nil, err
	}

	var result *pricedOrder
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		priced, err := s.priceOrder(ctx, tx, tenantID, input)
		if err != nil {
			return err
		}

		number, err := s.repo.WithTx(tx).NextOrderNumber(ctx, tenantID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "assign order number")
		}
		priced.order.OrderNumber = number

		if err := s.repo.WithTx(tx).Create(ctx, priced.order); err != nil {
			if db.IsUniqueViolation(err, "idx_orders_tenant_order_number") {
				return pkgerrors.Wrap(pkgerrors.CodeConflict, err, "order number already taken")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "insert order")
		}

		if err := s.customers.WithTx(tx).RecordOrder(ctx, customers.OrderPlaced{
			TenantID: tenantID,
			Name:     priced.order.CustomerName,
			Phone:    priced.order.CustomerPhone,
			Email:    priced.order.CustomerEmail,
			City:     optionalString(priced.order.City),
			Address:  optionalString(priced.order.Address),
			Total:    priced.order.Total,
			PlacedAt: priced.order.CreatedAt,
		}); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "upsert customer")
		}

		result = priced
		return nil
	})
	if err != nil {
		return nil, err
	}

	// Offer stats are written after commit; a failed statement inside the
	// transaction would abort the order on Postgres.
	for _, offerID := range result.offerIDs {
		if err := s.offers.IncrementOrdersCount(ctx, tenantID, offerID); err != nil {
			logCtx := s.logg.WithFields(ctx, map[string]any{"offer_id": offerID.String(), "order_id": result.order.ID.String()})
			s.logg.Warn(logCtx, fmt.Sprintf("increment offer orders_count failed: %v", err))
		}
	}

	tenantLabel := tenantID.String()
	s.metrics.ObserveOrder(tenantLabel, result.order.Total)
	s.metrics.IncTierApplied(tenantLabel, result.tierApplied)

	return &CreatedOrder{
		OrderID:     result.order.ID,
		OrderNumber: result.order.OrderNumber,
		Total:       result.order.Total,
	}, nil
}

func (s *service) validateOrderInput(input CreateOrderInput) error {
	if len(input.Items) == 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "order must have at least one item")
	}
	if s.maxLines > 0 && len(input.Items) > s.maxLines {
		return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("order cannot have more than %d items", s.maxLines))
	}
	for i, item := range input.Items {
		if err := s.validateQuantity(item.Quantity); err != nil {
			return err.WithDetails(map[string]any{"item": i})
		}
	}
	if strings.TrimSpace(input.Customer.Name) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "customer name is required")
	}
	if strings.TrimSpace(input.Customer.Phone) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "customer phone is required")
	}
	return nil
}

func (s *service) validateQuantity(qty int) *pkgerrors.Error {
	if qty < 1 || qty > s.maxQty {
		return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("quantity must be between 1 and %d", s.maxQty))
	}
	return nil
}

// priceOrder loads the catalog rows inside tx and builds the order with its
// priced items. Nothing is written.
func (s *service) priceOrder(ctx context.Context, tx *gorm.DB, tenantID uuid.UUID, input CreateOrderInput) (*pricedOrder, error) {
	activeOffers, err := s.offers.WithTx(tx).ListActive(ctx, tenantID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load quantity offers")
	}
	catalog := s.products.WithTx(tx)

	now := s.now().UTC()
	orderID := uuid.New()
	priced := &pricedOrder{}
	seenOffers := map[uuid.UUID]struct{}{}
	items := make([]models.OrderItem, 0, len(input.Items))
	lines := make([]pricing.Line, 0, len(input.Items))

	for _, in := range input.Items {
		product, err := catalog.FindActiveForTenant(ctx, tenantID, in.ProductID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("product %s not found or inactive", in.ProductID))
			}
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
		}
		variant := findVariant(product, in.VariantID)

		var discount *pricing.Discount
		if offer := offers.ResolveOffer(activeOffers, product.ID.String()); offer != nil {
			if _, ok := seenOffers[offer.ID]; !ok {
				seenOffers[offer.ID] = struct{}{}
				priced.offerIDs = append(priced.offerIDs, offer.ID)
			}
			discount = pricing.FromTier(offers.ResolveTier(offer, in.Quantity))
		}

		line := pricing.PriceLine(pricing.BaseUnitPrice(product, variant), in.Quantity, discount)
		if line.Discounted {
			priced.tierApplied++
		}
		lines = append(lines, line)
		items = append(items, newOrderItem(orderID, tenantID, product, variant, in.Quantity, line, now))
	}

	subtotal := pricing.Sum(lines)
	c := input.Customer
	priced.order = &models.Order{
		ID:              orderID,
		TenantID:        tenantID,
		CustomerName:    strings.TrimSpace(c.Name),
		CustomerSurname: c.Surname,
		CustomerPhone:   strings.TrimSpace(c.Phone),
		CustomerEmail:   c.Email,
		CustomerDNI:     c.DNI,
		Address:         c.Address,
		City:            c.City,
		State:           c.State,
		Neighborhood:    c.Neighborhood,
		ZipCode:         c.ZipCode,
		AddressNotes:    c.AddressNotes,
		Subtotal:        subtotal,
		ShippingCost:    decimal.Zero,
		Discount:        decimal.Zero,
		Total:           subtotal,
		Status:          enums.OrderStatusPending,
		PaymentMethod:   enums.PaymentMethodCashOnDelivery,
		UTMSource:       input.UTMSource,
		UTMMedium:       input.UTMMedium,
		UTMCampaign:     input.UTMCampaign,
		Notes:           input.Notes,
		Items:           items,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	return priced, nil
}

func (s *service) AddUpsellItem(ctx context.Context, tenantID, orderID uuid.UUID, input AddUpsellItemInput) (*UpsellItemResult, error) {
	if err := s.validateQuantity(input.Quantity); err != nil {
		return nil, err
	}

	var (
		result  *UpsellItemResult
		created bool
	)
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		orderRepo := s.repo.WithTx(tx)
		order, err := orderRepo.FindForUpdate(ctx, tenantID, orderID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
		}

		upsellRepo := s.upsells.WithTx(tx)
		upsell, err := upsellRepo.FindByID(ctx, tenantID, input.UpsellID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "upsell not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load upsell")
		}
		if !upsell.IsActive {
			return pkgerrors.New(pkgerrors.CodeNotFound, "upsell not found")
		}
		// the discount only ever applies to the upsell's own product
		if input.ProductID != upsell.UpsellProductID {
			return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("product %s is not offered by upsell %s", input.ProductID, upsell.ID))
		}

		existing, err := orderRepo.FindUpsellItem(ctx, tenantID, order.ID, upsell.ID)
		switch {
		case err == nil:
			result = &UpsellItemResult{ItemTotal: existing.TotalPrice, NewOrderTotal: order.Total}
			return nil
		case !errors.Is(err, gorm.ErrRecordNotFound):
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load upsell item")
		}

		product, err := s.products.WithTx(tx).FindActiveForTenant(ctx, tenantID, input.ProductID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("product %s not found or inactive", input.ProductID))
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
		}
		variant := findVariant(product, input.VariantID)

		line := pricing.PriceLine(pricing.BaseUnitPrice(product, variant), input.Quantity, pricing.FromUpsell(upsell))
		item := newOrderItem(order.ID, tenantID, product, variant, input.Quantity, line, s.now().UTC())
		item.UpsellID = &upsell.ID

		if err := orderRepo.InsertItem(ctx, &item); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "insert upsell item")
		}
		if err := orderRepo.AddToTotals(ctx, tenantID, order.ID, line.TotalPrice); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update order totals")
		}
		if err := upsellRepo.IncrementAccepted(ctx, tenantID, upsell.ID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "increment upsell accepted_count")
		}

		result = &UpsellItemResult{ItemTotal: line.TotalPrice, NewOrderTotal: order.Total.Add(line.TotalPrice)}
		created = true
		return nil
	})
	if err != nil {
		return nil, err
	}

	if created {
		s.metrics.IncUpsellItem(tenantID.String())
	}
	return result, nil
}

func (s *service) List(ctx context.Context, tenantID uuid.UUID, params pagination.Params, filters ListFilters) (*OrderList, error) {
	if filters.Status != nil && !filters.Status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid order status %q", *filters.Status))
	}
	if filters.DateFrom != nil && filters.DateTo != nil && filters.DateTo.Before(*filters.DateFrom) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "date_to must not be before date_from")
	}
	list, err := s.repo.List(ctx, tenantID, params, filters)
	if err != nil {
		if errors.Is(err, pagination.ErrInvalidCursor) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list orders")
	}
	return list, nil
}

func (s *service) Detail(ctx context.Context, tenantID, orderID uuid.UUID) (*OrderDetail, error) {
	order, err := s.repo.FindDetail(ctx, tenantID, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}
	return newOrderDetail(*order), nil
}

func (s *service) UpdateStatus(ctx context.Context, tenantID, orderID uuid.UUID, status enums.OrderStatus) (*OrderDetail, error) {
	if !status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid order status %q", status))
	}
	found, err := s.repo.UpdateStatus(ctx, tenantID, orderID, status)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update order status")
	}
	if !found {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
	}
	return s.Detail(ctx, tenantID, orderID)
}

func (s *service) UpdateNotes(ctx context.Context, tenantID, orderID uuid.UUID, notes *string) (*OrderDetail, error) {
	found, err := s.repo.UpdateAdminNotes(ctx, tenantID, orderID, notes)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update order notes")
	}
	if !found {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
	}
	return s.Detail(ctx, tenantID, orderID)
}

// findVariant returns the product's variant with the given id. An unknown id
// prices the line at the product's base price.
func findVariant(product *models.Product, variantID *uuid.UUID) *models.ProductVariant {
	if product == nil || variantID == nil {
		return nil
	}
	for i := range product.Variants {
		if product.Variants[i].ID == *variantID {
			return &product.Variants[i]
		}
	}
	return nil
}

func newOrderItem(orderID, tenantID uuid.UUID, product *models.Product, variant *models.ProductVariant, qty int, line pricing.Line, now time.Time) models.OrderItem {
	productID := product.ID
	item := models.OrderItem{
		ID:             uuid.New(),
		OrderID:        orderID,
		TenantID:       tenantID,
		ProductID:      &productID,
		ProductName:    product.Name,
		Quantity:       qty,
		UnitPrice:      line.UnitPrice,
		TotalPrice:     line.TotalPrice,
		DropiProductID: product.DropiProductID,
		CreatedAt:      now,
	}
	if variant != nil {
		variantID := variant.ID
		variantName := variant.Name
		item.VariantID = &variantID
		item.VariantName = &variantName
		item.DropiVariationID = variant.DropiVariationID
	}
	return item
}

func optionalString(value string) *string {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
