package admin

import (
	"net/http"

	"github.com/angelmondragon/minishop-backend/api/responses"
	"github.com/angelmondragon/minishop-backend/api/validators"
	"github.com/angelmondragon/minishop-backend/internal/carts"
	"github.com/angelmondragon/minishop-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/minishop-backend/pkg/errors"
	"github.com/angelmondragon/minishop-backend/pkg/logger"
)

// ListCarts returns abandoned carts, optionally filtered by recovery status.
func ListCarts(svc carts.Service, logg *logger.Logger) http.HandlerFunc {
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
		params, err := pageParams(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var status *enums.CartStatus
		if raw := normalize(r.URL.Query().Get("status")); raw != "" {
			s := enums.CartStatus(raw)
			status = &s
		}

		list, err := svc.List(r.Context(), tenantID, status, params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}

func UpdateCartStatus(svc carts.Service, logg *logger.Logger) http.HandlerFunc {
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
		cartID, err := validators.PathUUID(r, "cartId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload statusRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		cart, err := svc.UpdateStatus(r.Context(), tenantID, cartID, enums.CartStatus(normalize(payload.Status)))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, cart)
	}
}
