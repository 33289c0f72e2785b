package middleware

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/angelmondragon/minishop-backend/api/responses"
	"github.com/angelmondragon/minishop-backend/internal/tenants"
	pkgerrors "github.com/angelmondragon/minishop-backend/pkg/errors"
	"github.com/angelmondragon/minishop-backend/pkg/logger"
)

// StoreTenant resolves the {slug} path segment to an active tenant.
func StoreTenant(resolver tenants.Resolver, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if resolver == nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "tenant resolver unavailable"))
				return
			}
			slug := strings.TrimSpace(chi.URLParam(r, "slug"))
			if slug == "" {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeNotFound, "store not found"))
				return
			}

			tenant, err := resolver.ResolveSlug(r.Context(), slug)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}

			ctx := WithTenant(r.Context(), tenant.ID, tenant.Slug)
			if logg != nil {
				ctx = logg.WithTenantID(ctx, tenant.ID.String())
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
