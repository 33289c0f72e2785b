package storefront

import (
	"context"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/angelmondragon/minishop-backend/internal/products"
	"github.com/angelmondragon/minishop-backend/internal/stores"
	pkgerrors "github.com/angelmondragon/minishop-backend/pkg/errors"
)

type stubStores struct {
	stores.Service
	cfg      *stores.ConfigDTO
	tenantID uuid.UUID
}

func (s *stubStores) Storefront(_ context.Context, tenantID uuid.UUID) (*stores.ConfigDTO, error) {
	s.tenantID = tenantID
	return s.cfg, nil
}

type stubProducts struct {
	products.Service
	list     []products.ProductDTO
	bySlug   map[string]products.ProductDTO
	lastSlug string
}

func (s *stubProducts) ListStorefront(context.Context, uuid.UUID) ([]products.ProductDTO, error) {
	return s.list, nil
}

func (s *stubProducts) StorefrontProduct(_ context.Context, _ uuid.UUID, productSlug string) (*products.ProductDTO, error) {
	s.lastSlug = productSlug
	p, ok := s.bySlug[productSlug]
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}
	return &p, nil
}

func TestStoreConfig(t *testing.T) {
	tenantID := uuid.New()
	storeStub := &stubStores{cfg: &stores.ConfigDTO{Slug: "tienda", PrimaryColor: "#4DBEA4", ProductsPerRow: 3}}
	h := newRouter(tenantID, deps{stores: storeStub})

	rec := do(t, h, http.MethodGet, "/api/store/tienda/config", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var got stores.ConfigDTO
	decodeData(t, rec, &got)
	assert.Equal(t, "#4DBEA4", got.PrimaryColor)
	assert.Equal(t, 3, got.ProductsPerRow)
	assert.Equal(t, tenantID, storeStub.tenantID)
}

func TestListProducts(t *testing.T) {
	productStub := &stubProducts{list: []products.ProductDTO{
		{ID: uuid.New(), Name: "Zapatilla urbana", Slug: "zapatilla-urbana", Price: decimal.NewFromInt(89900)},
	}}
	h := newRouter(uuid.New(), deps{products: productStub})

	rec := do(t, h, http.MethodGet, "/api/store/tienda/products", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var got []products.ProductDTO
	decodeData(t, rec, &got)
	require.Len(t, got, 1)
	assert.Equal(t, "zapatilla-urbana", got[0].Slug)
	assert.NotContains(t, rec.Body.String(), "dropi_product_id")
}

func TestProductDetail(t *testing.T) {
	productStub := &stubProducts{bySlug: map[string]products.ProductDTO{
		"zapatilla-urbana": {ID: uuid.New(), Name: "Zapatilla urbana", Slug: "zapatilla-urbana"},
	}}
	h := newRouter(uuid.New(), deps{products: productStub})

	rec := do(t, h, http.MethodGet, "/api/store/tienda/products/zapatilla-urbana", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var got products.ProductDTO
	decodeData(t, rec, &got)
	assert.Equal(t, "Zapatilla urbana", got.Name)

	rec = do(t, h, http.MethodGet, "/api/store/tienda/products/no-existe", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, string(pkgerrors.CodeNotFound), errorCode(t, rec))
	assert.Equal(t, "no-existe", productStub.lastSlug)
}
