package middleware

import (
	"context"

	"github.com/google/uuid"
)

type contextKey string

const (
	ctxTenantID   contextKey = "tenant_id"
	ctxTenantSlug contextKey = "tenant_slug"
	ctxAdminID    contextKey = "admin_user_id"
)

// TenantIDFromContext returns the tenant resolved for the request, or uuid.Nil.
func TenantIDFromContext(ctx context.Context) uuid.UUID {
	if ctx == nil {
		return uuid.Nil
	}
	if v, ok := ctx.Value(ctxTenantID).(uuid.UUID); ok {
		return v
	}
	return uuid.Nil
}

func TenantSlugFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(ctxTenantSlug).(string); ok {
		return v
	}
	return ""
}

func AdminUserIDFromContext(ctx context.Context) uuid.UUID {
	if ctx == nil {
		return uuid.Nil
	}
	if v, ok := ctx.Value(ctxAdminID).(uuid.UUID); ok {
		return v
	}
	return uuid.Nil
}

// WithTenant injects the tenant identity into the context for downstream handlers.
func WithTenant(ctx context.Context, tenantID uuid.UUID, slug string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx = context.WithValue(ctx, ctxTenantID, tenantID)
	return context.WithValue(ctx, ctxTenantSlug, slug)
}
