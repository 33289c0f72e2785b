package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/angelmondragon/minishop-backend/api/responses"
	"github.com/angelmondragon/minishop-backend/internal/tenants"
	pkgAuth "github.com/angelmondragon/minishop-backend/pkg/auth"
	"github.com/angelmondragon/minishop-backend/pkg/config"
	pkgerrors "github.com/angelmondragon/minishop-backend/pkg/errors"
	"github.com/angelmondragon/minishop-backend/pkg/logger"
)

// AdminAuth validates a bearer token and binds the request to the tenant named in its claims.
func AdminAuth(cfg config.JWTConfig, resolver tenants.Resolver, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := strings.TrimSpace(r.Header.Get("Authorization"))
			if raw == "" {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
				return
			}

			token := raw
			if strings.HasPrefix(strings.ToLower(token), "bearer ") {
				token = strings.TrimSpace(token[7:])
			}
			if token == "" {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
				return
			}

			claims, err := pkgAuth.ParseAccessToken(cfg, token)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid token"))
				return
			}

			if resolver == nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "tenant resolver unavailable"))
				return
			}
			tenant, err := resolver.ResolveID(r.Context(), claims.TenantID)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}

			ctx := WithTenant(r.Context(), tenant.ID, tenant.Slug)
			ctx = context.WithValue(ctx, ctxAdminID, claims.UserID)

			if logg != nil {
				ctx = logg.WithTenantID(ctx, tenant.ID.String())
				ctx = logg.WithField(ctx, "admin_user_id", claims.UserID.String())
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
