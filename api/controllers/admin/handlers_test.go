package admin

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/angelmondragon/minishop-backend/api/middleware"
	"github.com/angelmondragon/minishop-backend/internal/carts"
	"github.com/angelmondragon/minishop-backend/internal/offers"
	"github.com/angelmondragon/minishop-backend/internal/orders"
	"github.com/angelmondragon/minishop-backend/internal/upsells"
	"github.com/angelmondragon/minishop-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/minishop-backend/pkg/errors"
	"github.com/angelmondragon/minishop-backend/pkg/pagination"
)

type stubOrders struct {
	orders.Service
	listParams  pagination.Params
	listFilters orders.ListFilters
	status      enums.OrderStatus
	notes       *string
	err         error
}

func (s *stubOrders) List(_ context.Context, _ uuid.UUID, params pagination.Params, filters orders.ListFilters) (*orders.OrderList, error) {
	s.listParams = params
	s.listFilters = filters
	return &orders.OrderList{Orders: []orders.OrderSummary{}}, s.err
}

func (s *stubOrders) Detail(_ context.Context, _ uuid.UUID, orderID uuid.UUID) (*orders.OrderDetail, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &orders.OrderDetail{ID: orderID, OrderNumber: "ORD-0007", Status: enums.OrderStatusPending}, nil
}

func (s *stubOrders) UpdateStatus(_ context.Context, _ uuid.UUID, orderID uuid.UUID, status enums.OrderStatus) (*orders.OrderDetail, error) {
	if s.err != nil {
		return nil, s.err
	}
	s.status = status
	return &orders.OrderDetail{ID: orderID, Status: status}, nil
}

func (s *stubOrders) UpdateNotes(_ context.Context, _ uuid.UUID, orderID uuid.UUID, notes *string) (*orders.OrderDetail, error) {
	s.notes = notes
	return &orders.OrderDetail{ID: orderID, AdminNotes: notes}, nil
}

type stubOffers struct {
	offers.Service
	created *offers.CreateOfferInput
	updated map[uuid.UUID]offers.CreateOfferInput
	active  map[uuid.UUID]bool
	deleted []uuid.UUID
	err     error
}

func (s *stubOffers) List(context.Context, uuid.UUID) ([]offers.OfferDTO, error) {
	return []offers.OfferDTO{{ID: uuid.New(), Name: "2x1"}}, nil
}

func (s *stubOffers) Create(_ context.Context, _ uuid.UUID, input offers.CreateOfferInput) (*offers.OfferDTO, error) {
	if s.err != nil {
		return nil, s.err
	}
	s.created = &input
	return &offers.OfferDTO{ID: uuid.New(), Name: input.Name, IsActive: input.IsActive}, nil
}

func (s *stubOffers) Update(_ context.Context, _ uuid.UUID, offerID uuid.UUID, input offers.CreateOfferInput) (*offers.OfferDTO, error) {
	if s.err != nil {
		return nil, s.err
	}
	if s.updated == nil {
		s.updated = map[uuid.UUID]offers.CreateOfferInput{}
	}
	s.updated[offerID] = input
	return &offers.OfferDTO{ID: offerID, Name: input.Name, IsActive: input.IsActive}, nil
}

func (s *stubOffers) SetActive(_ context.Context, _ uuid.UUID, offerID uuid.UUID, active bool) error {
	if s.active == nil {
		s.active = map[uuid.UUID]bool{}
	}
	s.active[offerID] = active
	return s.err
}

func (s *stubOffers) Delete(_ context.Context, _ uuid.UUID, offerID uuid.UUID) error {
	s.deleted = append(s.deleted, offerID)
	return s.err
}

type stubUpsells struct {
	upsells.Service
	configInput *upsells.UpdateConfigInput
	created     *upsells.CreateUpsellInput
	updated     map[uuid.UUID]upsells.CreateUpsellInput
	duplicated  []uuid.UUID
	missing     uuid.UUID
	active      map[uuid.UUID]bool
	deleted     []uuid.UUID
}

func (s *stubUpsells) GetConfig(context.Context, uuid.UUID) (*upsells.ConfigDTO, error) {
	return &upsells.ConfigDTO{UpsellType: enums.UpsellTypePostPurchase, MaxUpsellsPerOrder: 1, IsActive: true}, nil
}

func (s *stubUpsells) UpdateConfig(_ context.Context, _ uuid.UUID, input upsells.UpdateConfigInput) (*upsells.ConfigDTO, error) {
	s.configInput = &input
	return &upsells.ConfigDTO{UpsellType: enums.UpsellTypeOneClick, MaxUpsellsPerOrder: 2}, nil
}

func (s *stubUpsells) List(context.Context, uuid.UUID) ([]upsells.UpsellDTO, error) {
	return []upsells.UpsellDTO{}, nil
}

func (s *stubUpsells) Create(_ context.Context, _ uuid.UUID, input upsells.CreateUpsellInput) (*upsells.UpsellDTO, error) {
	s.created = &input
	return &upsells.UpsellDTO{ID: uuid.New(), Name: input.Name}, nil
}

func (s *stubUpsells) Get(_ context.Context, _ uuid.UUID, upsellID uuid.UUID) (*upsells.UpsellDTO, error) {
	if upsellID == s.missing {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "upsell not found")
	}
	return &upsells.UpsellDTO{ID: upsellID, Name: "Funda"}, nil
}

func (s *stubUpsells) Update(_ context.Context, _ uuid.UUID, upsellID uuid.UUID, input upsells.CreateUpsellInput) (*upsells.UpsellDTO, error) {
	if upsellID == s.missing {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "upsell not found")
	}
	if s.updated == nil {
		s.updated = map[uuid.UUID]upsells.CreateUpsellInput{}
	}
	s.updated[upsellID] = input
	return &upsells.UpsellDTO{ID: upsellID, Name: input.Name, IsActive: input.IsActive}, nil
}

func (s *stubUpsells) Duplicate(_ context.Context, _ uuid.UUID, upsellID uuid.UUID) (*upsells.UpsellDTO, error) {
	if upsellID == s.missing {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "upsell not found")
	}
	s.duplicated = append(s.duplicated, upsellID)
	return &upsells.UpsellDTO{ID: uuid.New(), Name: "Funda (copy)"}, nil
}

func (s *stubUpsells) SetActive(_ context.Context, _ uuid.UUID, upsellID uuid.UUID, active bool) error {
	if s.active == nil {
		s.active = map[uuid.UUID]bool{}
	}
	s.active[upsellID] = active
	return nil
}

func (s *stubUpsells) Delete(_ context.Context, _ uuid.UUID, upsellID uuid.UUID) error {
	s.deleted = append(s.deleted, upsellID)
	return nil
}

type stubCarts struct {
	carts.Service
	status     *enums.CartStatus
	listParams pagination.Params
	updated    enums.CartStatus
}

func (s *stubCarts) List(_ context.Context, _ uuid.UUID, status *enums.CartStatus, params pagination.Params) (*carts.CartList, error) {
	s.status = status
	s.listParams = params
	return &carts.CartList{Carts: []carts.CartDTO{}}, nil
}

func (s *stubCarts) UpdateStatus(_ context.Context, _ uuid.UUID, cartID uuid.UUID, status enums.CartStatus) (*carts.CartDTO, error) {
	if !status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid cart status")
	}
	s.updated = status
	return &carts.CartDTO{ID: cartID, Status: status}, nil
}

type deps struct {
	orders   *stubOrders
	offers   *stubOffers
	upsells  *stubUpsells
	carts    *stubCarts
	products *stubProducts
	stores   *stubStores
}

func newRouter(tenantID uuid.UUID, d *deps) http.Handler {
	if d.orders == nil {
		d.orders = &stubOrders{}
	}
	if d.offers == nil {
		d.offers = &stubOffers{}
	}
	if d.upsells == nil {
		d.upsells = &stubUpsells{}
	}
	if d.carts == nil {
		d.carts = &stubCarts{}
	}
	if d.products == nil {
		d.products = &stubProducts{}
	}
	if d.stores == nil {
		d.stores = &stubStores{}
	}
	r := chi.NewRouter()
	r.Route("/api/admin", func(r chi.Router) {
		r.Use(func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
				ctx := req.Context()
				if tenantID != uuid.Nil {
					ctx = middleware.WithTenant(ctx, tenantID, "tienda")
				}
				next.ServeHTTP(w, req.WithContext(ctx))
			})
		})
		r.Get("/store-config", StoreConfig(d.stores, nil))
		r.Put("/store-config", UpdateStoreConfig(d.stores, nil))

		r.Get("/products", ListProducts(d.products, nil))
		r.Post("/products", CreateProduct(d.products, nil))
		r.Get("/products/{productId}", ProductDetail(d.products, nil))
		r.Put("/products/{productId}", UpdateProduct(d.products, nil))
		r.Delete("/products/{productId}", DeleteProduct(d.products, nil))

		r.Get("/orders", ListOrders(d.orders, nil))
		r.Get("/orders/{orderId}", OrderDetail(d.orders, nil))
		r.Put("/orders/{orderId}/status", UpdateOrderStatus(d.orders, nil))
		r.Put("/orders/{orderId}/notes", UpdateOrderNotes(d.orders, nil))

		r.Get("/quantity-offers", ListOffers(d.offers, nil))
		r.Post("/quantity-offers", CreateOffer(d.offers, nil))
		r.Put("/quantity-offers/{offerId}", UpdateOffer(d.offers, nil))
		r.Patch("/quantity-offers/{offerId}/active", SetOfferActive(d.offers, nil))
		r.Delete("/quantity-offers/{offerId}", DeleteOffer(d.offers, nil))

		r.Get("/upsells/config", UpsellConfig(d.upsells, nil))
		r.Put("/upsells/config", UpdateUpsellConfig(d.upsells, nil))
		r.Get("/upsells", ListUpsells(d.upsells, nil))
		r.Post("/upsells", CreateUpsell(d.upsells, nil))
		r.Get("/upsells/{upsellId}", UpsellDetail(d.upsells, nil))
		r.Put("/upsells/{upsellId}", UpdateUpsell(d.upsells, nil))
		r.Post("/upsells/{upsellId}/duplicate", DuplicateUpsell(d.upsells, nil))
		r.Patch("/upsells/{upsellId}/active", SetUpsellActive(d.upsells, nil))
		r.Delete("/upsells/{upsellId}", DeleteUpsell(d.upsells, nil))

		r.Get("/carts", ListCarts(d.carts, nil))
		r.Put("/carts/{cartId}/status", UpdateCartStatus(d.carts, nil))
	})
	return r
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeData(t *testing.T, rec *httptest.ResponseRecorder, dest any) {
	t.Helper()
	envelope := struct {
		Data any `json:"data"`
	}{Data: dest}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
}

func errorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var payload struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	return payload.Error.Code
}

func TestAdminRequiresTenantContext(t *testing.T) {
	h := newRouter(uuid.Nil, &deps{})

	rec := do(t, h, http.MethodGet, "/api/admin/orders", "")
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, string(pkgerrors.CodeForbidden), errorCode(t, rec))
}

func TestListOrdersParsesFilters(t *testing.T) {
	d := &deps{}
	h := newRouter(uuid.New(), d)

	rec := do(t, h, http.MethodGet, "/api/admin/orders?status=SHIPPED&search=%20ana%20&date_from=2026-03-01&date_to=2026-03-31&limit=10&cursor=abc", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	got := d.orders.listFilters
	require.NotNil(t, got.Status)
	assert.Equal(t, enums.OrderStatusShipped, *got.Status)
	assert.Equal(t, "ana", got.Search)
	require.NotNil(t, got.DateFrom)
	require.NotNil(t, got.DateTo)
	assert.Equal(t, time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC), *got.DateFrom)
	assert.Equal(t, 31, got.DateTo.Day())
	assert.Equal(t, 23, got.DateTo.Hour())
	assert.Equal(t, 10, d.orders.listParams.Limit)
	assert.Equal(t, "abc", d.orders.listParams.Cursor)
}

func TestListOrdersRejectsBadQuery(t *testing.T) {
	h := newRouter(uuid.New(), &deps{})

	for _, query := range []string{"limit=0", "limit=1000", "limit=abc", "date_from=yesterday"} {
		t.Run(query, func(t *testing.T) {
			rec := do(t, h, http.MethodGet, "/api/admin/orders?"+query, "")
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestOrderDetail(t *testing.T) {
	orderID := uuid.New()
	h := newRouter(uuid.New(), &deps{})

	rec := do(t, h, http.MethodGet, "/api/admin/orders/"+orderID.String(), "")
	require.Equal(t, http.StatusOK, rec.Code)
	var detail orders.OrderDetail
	decodeData(t, rec, &detail)
	assert.Equal(t, orderID, detail.ID)
	assert.Equal(t, "ORD-0007", detail.OrderNumber)

	rec = do(t, h, http.MethodGet, "/api/admin/orders/not-a-uuid", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestOrderDetailNotFound(t *testing.T) {
	h := newRouter(uuid.New(), &deps{orders: &stubOrders{err: pkgerrors.New(pkgerrors.CodeNotFound, "order not found")}})

	rec := do(t, h, http.MethodGet, "/api/admin/orders/"+uuid.NewString(), "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestUpdateOrderStatus(t *testing.T) {
	d := &deps{}
	h := newRouter(uuid.New(), d)
	orderID := uuid.New()

	rec := do(t, h, http.MethodPut, "/api/admin/orders/"+orderID.String()+"/status", `{"status":" Delivered "}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, enums.OrderStatusDelivered, d.orders.status)

	rec = do(t, h, http.MethodPut, "/api/admin/orders/"+orderID.String()+"/status", `{}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, h, http.MethodPut, "/api/admin/orders/"+orderID.String()+"/status", `{"status":"shipped","extra":1}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code, "admin bodies reject unknown fields")
}

func TestUpdateOrderNotes(t *testing.T) {
	d := &deps{}
	h := newRouter(uuid.New(), d)
	path := "/api/admin/orders/" + uuid.NewString() + "/notes"

	rec := do(t, h, http.MethodPut, path, `{"admin_notes":"  llamar antes de entregar "}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	require.NotNil(t, d.orders.notes)
	assert.Equal(t, "llamar antes de entregar", *d.orders.notes)

	rec = do(t, h, http.MethodPut, path, `{"admin_notes":"   "}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Nil(t, d.orders.notes)
}

func TestCreateOffer(t *testing.T) {
	d := &deps{}
	h := newRouter(uuid.New(), d)
	productID := uuid.New()

	body := `{
		"name": "Lleva más",
		"product_ids": ["` + productID.String() + `"],
		"priority": 5,
		"tiers": [
			{"quantity": 1, "discount_type": "none", "discount_value": 0},
			{"quantity": 2, "discount_type": "PERCENTAGE", "discount_value": 10, "label_text": "Más vendido"}
		]
	}`
	rec := do(t, h, http.MethodPost, "/api/admin/quantity-offers", body)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	got := d.offers.created
	require.NotNil(t, got)
	assert.True(t, got.IsActive, "offers default to active")
	assert.Equal(t, 5, got.Priority)
	assert.Equal(t, []uuid.UUID{productID}, got.ProductIDs)
	require.Len(t, got.Tiers, 2)
	assert.Equal(t, enums.DiscountTypePercentage, got.Tiers[1].DiscountType)
	assert.True(t, decimal.NewFromInt(10).Equal(got.Tiers[1].DiscountValue))
	require.NotNil(t, got.Tiers[1].LabelText)
}

func TestCreateOfferValidation(t *testing.T) {
	h := newRouter(uuid.New(), &deps{})

	cases := map[string]string{
		"no tiers":    `{"name":"x","product_ids":["` + uuid.NewString() + `"],"tiers":[]}`,
		"no products": `{"name":"x","product_ids":[],"tiers":[{"quantity":1}]}`,
		"no name":     `{"product_ids":["` + uuid.NewString() + `"],"tiers":[{"quantity":1}]}`,
		"zero qty":    `{"name":"x","product_ids":["` + uuid.NewString() + `"],"tiers":[{"quantity":0}]}`,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			rec := do(t, h, http.MethodPost, "/api/admin/quantity-offers", body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestOfferActiveAndDelete(t *testing.T) {
	d := &deps{}
	h := newRouter(uuid.New(), d)
	offerID := uuid.New()

	rec := do(t, h, http.MethodPatch, "/api/admin/quantity-offers/"+offerID.String()+"/active", `{"is_active":false}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	active, ok := d.offers.active[offerID]
	require.True(t, ok)
	assert.False(t, active)

	rec = do(t, h, http.MethodPatch, "/api/admin/quantity-offers/"+offerID.String()+"/active", `{}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, h, http.MethodDelete, "/api/admin/quantity-offers/"+offerID.String(), "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []uuid.UUID{offerID}, d.offers.deleted)
	var resp struct {
		Status string `json:"status"`
	}
	decodeData(t, rec, &resp)
	assert.Equal(t, "deleted", resp.Status)
}

func TestDeleteOfferNotFound(t *testing.T) {
	h := newRouter(uuid.New(), &deps{offers: &stubOffers{err: pkgerrors.New(pkgerrors.CodeNotFound, "offer not found")}})

	rec := do(t, h, http.MethodDelete, "/api/admin/quantity-offers/"+uuid.NewString(), "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestListOffers(t *testing.T) {
	h := newRouter(uuid.New(), &deps{})

	rec := do(t, h, http.MethodGet, "/api/admin/quantity-offers", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var list []offers.OfferDTO
	decodeData(t, rec, &list)
	require.Len(t, list, 1)
	assert.Equal(t, "2x1", list[0].Name)
}

func TestUpsellConfig(t *testing.T) {
	d := &deps{}
	h := newRouter(uuid.New(), d)

	rec := do(t, h, http.MethodGet, "/api/admin/upsells/config", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var cfg upsells.ConfigDTO
	decodeData(t, rec, &cfg)
	assert.Equal(t, enums.UpsellTypePostPurchase, cfg.UpsellType)

	rec = do(t, h, http.MethodPut, "/api/admin/upsells/config", `{"upsell_type":"ONE_CLICK","max_upsells_per_order":2}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	input := d.upsells.configInput
	require.NotNil(t, input)
	require.NotNil(t, input.UpsellType)
	assert.Equal(t, enums.UpsellTypeOneClick, *input.UpsellType)
	require.NotNil(t, input.MaxUpsellsPerOrder)
	assert.Equal(t, 2, *input.MaxUpsellsPerOrder)
	assert.Nil(t, input.IsActive, "omitted fields stay nil")
}

func TestCreateUpsell(t *testing.T) {
	d := &deps{}
	h := newRouter(uuid.New(), d)
	upsellProduct, trigger := uuid.New(), uuid.New()

	body := `{
		"name": "Funda",
		"is_active": false,
		"trigger_type": "specific",
		"trigger_product_ids": ["` + trigger.String() + `"],
		"upsell_product_id": "` + upsellProduct.String() + `",
		"discount_type": "fixed",
		"discount_value": 5000,
		"title": "¡Agrega una funda!"
	}`
	rec := do(t, h, http.MethodPost, "/api/admin/upsells", body)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	got := d.upsells.created
	require.NotNil(t, got)
	assert.False(t, got.IsActive)
	assert.Equal(t, enums.UpsellTriggerSpecific, got.TriggerType)
	assert.Equal(t, []uuid.UUID{trigger}, got.TriggerProductIDs)
	assert.Equal(t, upsellProduct, got.UpsellProductID)
	assert.Equal(t, enums.DiscountTypeFixed, got.DiscountType)

	rec = do(t, h, http.MethodPost, "/api/admin/upsells", `{"name":"Funda"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code, "upsell product is required")
}

func TestUpdateOffer(t *testing.T) {
	d := &deps{}
	h := newRouter(uuid.New(), d)
	offerID, productID := uuid.New(), uuid.New()

	body := `{
		"name": "Lleva 3",
		"product_ids": ["` + productID.String() + `"],
		"is_active": false,
		"tiers": [{"quantity": 3, "discount_type": "fixed", "discount_value": 9000}]
	}`
	rec := do(t, h, http.MethodPut, "/api/admin/quantity-offers/"+offerID.String(), body)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	got, ok := d.offers.updated[offerID]
	require.True(t, ok)
	assert.Equal(t, "Lleva 3", got.Name)
	assert.False(t, got.IsActive)
	require.Len(t, got.Tiers, 1)
	assert.Equal(t, enums.DiscountTypeFixed, got.Tiers[0].DiscountType)

	rec = do(t, h, http.MethodPut, "/api/admin/quantity-offers/"+offerID.String(), `{"name":"x","product_ids":[],"tiers":[]}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	missing := newRouter(uuid.New(), &deps{offers: &stubOffers{err: pkgerrors.New(pkgerrors.CodeNotFound, "quantity offer not found")}})
	rec = do(t, missing, http.MethodPut, "/api/admin/quantity-offers/"+offerID.String(), body)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestUpsellDetailUpdateAndDuplicate(t *testing.T) {
	missing := uuid.New()
	d := &deps{upsells: &stubUpsells{missing: missing}}
	h := newRouter(uuid.New(), d)
	upsellID, productID := uuid.New(), uuid.New()

	rec := do(t, h, http.MethodGet, "/api/admin/upsells/"+upsellID.String(), "")
	require.Equal(t, http.StatusOK, rec.Code)
	var dto upsells.UpsellDTO
	decodeData(t, rec, &dto)
	assert.Equal(t, upsellID, dto.ID)

	rec = do(t, h, http.MethodGet, "/api/admin/upsells/"+missing.String(), "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	body := `{"name":"Funda premium","upsell_product_id":"` + productID.String() + `","discount_type":"percentage","discount_value":15}`
	rec = do(t, h, http.MethodPut, "/api/admin/upsells/"+upsellID.String(), body)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	got, ok := d.upsells.updated[upsellID]
	require.True(t, ok)
	assert.Equal(t, "Funda premium", got.Name)
	assert.True(t, got.IsActive, "omitted is_active defaults to active")
	assert.Equal(t, enums.DiscountTypePercentage, got.DiscountType)

	rec = do(t, h, http.MethodPut, "/api/admin/upsells/"+upsellID.String(), `{"name":"Funda"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, h, http.MethodPost, "/api/admin/upsells/"+upsellID.String()+"/duplicate", "")
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	decodeData(t, rec, &dto)
	assert.Equal(t, "Funda (copy)", dto.Name)
	assert.Equal(t, []uuid.UUID{upsellID}, d.upsells.duplicated)

	rec = do(t, h, http.MethodPost, "/api/admin/upsells/"+missing.String()+"/duplicate", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestUpsellActiveAndDelete(t *testing.T) {
	d := &deps{}
	h := newRouter(uuid.New(), d)
	upsellID := uuid.New()

	rec := do(t, h, http.MethodPatch, "/api/admin/upsells/"+upsellID.String()+"/active", `{"is_active":true}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, d.upsells.active[upsellID])

	rec = do(t, h, http.MethodDelete, "/api/admin/upsells/"+upsellID.String(), "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []uuid.UUID{upsellID}, d.upsells.deleted)
}

func TestListCarts(t *testing.T) {
	d := &deps{}
	h := newRouter(uuid.New(), d)

	rec := do(t, h, http.MethodGet, "/api/admin/carts?status=Contacted&limit=5", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	require.NotNil(t, d.carts.status)
	assert.Equal(t, enums.CartStatusContacted, *d.carts.status)
	assert.Equal(t, 5, d.carts.listParams.Limit)

	rec = do(t, h, http.MethodGet, "/api/admin/carts", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Nil(t, d.carts.status)
	assert.Equal(t, pagination.DefaultLimit, d.carts.listParams.Limit)
}

func TestUpdateCartStatus(t *testing.T) {
	d := &deps{}
	h := newRouter(uuid.New(), d)
	path := "/api/admin/carts/" + uuid.NewString() + "/status"

	rec := do(t, h, http.MethodPut, path, `{"status":"recovered"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, enums.CartStatusRecovered, d.carts.updated)

	rec = do(t, h, http.MethodPut, path, `{"status":"gone"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
