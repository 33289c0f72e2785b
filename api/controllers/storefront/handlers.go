package storefront

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/angelmondragon/minishop-backend/api/middleware"
	"github.com/angelmondragon/minishop-backend/api/responses"
	"github.com/angelmondragon/minishop-backend/api/validators"
	"github.com/angelmondragon/minishop-backend/internal/carts"
	"github.com/angelmondragon/minishop-backend/internal/offers"
	"github.com/angelmondragon/minishop-backend/internal/orders"
	"github.com/angelmondragon/minishop-backend/internal/upsells"
	pkgerrors "github.com/angelmondragon/minishop-backend/pkg/errors"
	"github.com/angelmondragon/minishop-backend/pkg/logger"
)

// CreateOrderResponse is the storefront receipt for a placed order.
type CreateOrderResponse struct {
	OrderID     uuid.UUID `json:"order_id"`
	OrderNumber string    `json:"order_number"`
}

// UpsellItemResponse acknowledges an accepted post-purchase upsell.
type UpsellItemResponse struct {
	Status string `json:"status"`
	orders.UpsellItemResult
}

// CreateOrder prices the cart server-side and places a cash-on-delivery order.
func CreateOrder(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "order service unavailable"))
			return
		}
		tenantID, err := tenantFromContext(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload createOrderRequest
		if err := validators.DecodeLenientJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		created, err := svc.CreateOrder(r.Context(), tenantID, toCreateOrderInput(payload))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if logg != nil {
			ctx := logg.WithFields(r.Context(), map[string]any{
				"order_id":     created.OrderID.String(),
				"order_number": created.OrderNumber,
				"lines":        len(payload.Items),
			})
			logg.Info(ctx, "storefront.order.created")
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, CreateOrderResponse{
			OrderID:     created.OrderID,
			OrderNumber: created.OrderNumber,
		})
	}
}

// AddUpsellItem appends an accepted upsell to a freshly placed order.
func AddUpsellItem(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "order service unavailable"))
			return
		}
		tenantID, err := tenantFromContext(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		orderID, err := validators.PathUUID(r, "orderId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload upsellItemRequest
		if err := validators.DecodeLenientJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.AddUpsellItem(r.Context(), tenantID, orderID, toUpsellItemInput(payload))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, UpsellItemResponse{Status: "ok", UpsellItemResult: *result})
	}
}

// EligibleUpsells lists the upsells a product page should offer.
func EligibleUpsells(svc upsells.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "upsell service unavailable"))
			return
		}
		tenantID, err := tenantFromContext(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.ForProduct(r.Context(), tenantID, productParam(r))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

// QuantityOffer returns the winning quantity offer for a product, or null.
func QuantityOffer(svc offers.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "offer service unavailable"))
			return
		}
		tenantID, err := tenantFromContext(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		offer, err := svc.MatchForProduct(r.Context(), tenantID, productParam(r))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, offer)
	}
}

// OfferImpression counts a quantity offer render. Unknown offers still get "ok".
func OfferImpression(svc offers.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "offer service unavailable"))
			return
		}
		tenantID, err := tenantFromContext(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		offerID, err := validators.PathUUID(r, "offerId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		svc.RecordImpression(r.Context(), tenantID, offerID)
		responses.WriteStatus(w, "ok")
	}
}

// UpsellImpression counts an upsell render. Unknown upsells still get "ok".
func UpsellImpression(svc upsells.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "upsell service unavailable"))
			return
		}
		tenantID, err := tenantFromContext(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		upsellID, err := validators.PathUUID(r, "upsellId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		svc.RecordImpression(r.Context(), tenantID, upsellID)
		responses.WriteStatus(w, "ok")
	}
}

// CaptureCart snapshots the checkout form for abandoned cart recovery.
func CaptureCart(svc carts.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}
		tenantID, err := tenantFromContext(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload cartCaptureRequest
		if err := validators.DecodeLenientJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Capture(r.Context(), tenantID, toCaptureInput(payload)); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteStatus(w, "captured")
	}
}

func tenantFromContext(r *http.Request) (uuid.UUID, error) {
	tenantID := middleware.TenantIDFromContext(r.Context())
	if tenantID == uuid.Nil {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeNotFound, "store not found")
	}
	return tenantID, nil
}

// productParam is matched textually against offer and trigger product lists,
// so a malformed id simply matches nothing.
func productParam(r *http.Request) string {
	return strings.ToLower(strings.TrimSpace(chi.URLParam(r, "productId")))
}
