package validators

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgerrors "github.com/angelmondragon/minishop-backend/pkg/errors"
)

type lineRequest struct {
	ProductID string `json:"product_id" validate:"required,uuid"`
	Quantity  int    `json:"quantity" validate:"gte=1"`
}

type orderRequest struct {
	Name  string        `json:"name" validate:"required"`
	Items []lineRequest `json:"items" validate:"required,min=1,dive"`
}

func TestDecodeJSONBodyStrictRejectsUnknownFields(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"Ana","items":[{"product_id":"`+uuid.NewString()+`","quantity":1}],"price":1}`))
	var dest orderRequest
	err := DecodeJSONBody(req, &dest)
	require.Error(t, err)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))

	req = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"Ana","items":[{"product_id":"`+uuid.NewString()+`","quantity":1,"price":1}]}`))
	require.NoError(t, DecodeLenientJSONBody(req, &dest))
	assert.Equal(t, "Ana", dest.Name)
}

func TestDecodeJSONBodyReportsFieldPaths(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"","items":[{"product_id":"nope","quantity":0}]}`))
	var dest orderRequest
	err := DecodeLenientJSONBody(req, &dest)
	require.Error(t, err)

	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	details, ok := typed.Details().(map[string]string)
	require.True(t, ok)
	assert.Equal(t, "is required", details["name"])
	assert.Equal(t, "must be a valid uuid", details["items[0].product_id"])
	assert.Equal(t, "must be greater than or equal to 1", details["items[0].quantity"])
}

func TestParseQueryInt(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/?limit=5&bad=x&big=500", nil)

	v, err := ParseQueryInt(req, "limit", 20, 1, 100)
	require.NoError(t, err)
	assert.Equal(t, 5, v)

	v, err = ParseQueryInt(req, "missing", 20, 1, 100)
	require.NoError(t, err)
	assert.Equal(t, 20, v)

	_, err = ParseQueryInt(req, "bad", 20, 1, 100)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
	_, err = ParseQueryInt(req, "big", 20, 1, 100)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
}

func TestParseQueryBool(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/?is_active=false&bad=maybe", nil)

	v, err := ParseQueryBool(req, "is_active")
	require.NoError(t, err)
	require.NotNil(t, v)
	assert.False(t, *v)

	v, err = ParseQueryBool(req, "missing")
	require.NoError(t, err)
	assert.Nil(t, v)

	_, err = ParseQueryBool(req, "bad")
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
}

func TestParseQueryTime(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/?from=2026-03-01&to=2026-03-01&ts=2026-03-01T10:00:00-05:00&bad=ayer", nil)

	from, err := ParseQueryTime(req, "from", false)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC), *from)

	to, err := ParseQueryTime(req, "to", true)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 3, 1, 23, 59, 59, 999999999, time.UTC), *to)

	ts, err := ParseQueryTime(req, "ts", false)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 3, 1, 15, 0, 0, 0, time.UTC), *ts)

	none, err := ParseQueryTime(req, "missing", false)
	require.NoError(t, err)
	assert.Nil(t, none)

	_, err = ParseQueryTime(req, "bad", false)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
}

func TestPathUUID(t *testing.T) {
	id := uuid.New()
	withParam := func(value string) *http.Request {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		rc := chi.NewRouteContext()
		rc.URLParams.Add("orderId", value)
		return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rc))
	}

	got, err := PathUUID(withParam(id.String()), "orderId")
	require.NoError(t, err)
	assert.Equal(t, id, got)

	_, err = PathUUID(withParam("abc"), "orderId")
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
	_, err = PathUUID(withParam(""), "orderId")
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
}

func TestSanitizeString(t *testing.T) {
	assert.Equal(t, "Peña", SanitizeString("  Peña  ", 10))
	assert.Equal(t, "Pe", SanitizeString("Peña", 2))
	assert.Equal(t, "ña", SanitizeString("ñañaña", 2))
	assert.Equal(t, "abc", SanitizeString(" abc ", 0))
}
