package tenants

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/angelmondragon/minishop-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/minishop-backend/pkg/errors"
)

type tenantReader interface {
	FindBySlug(ctx context.Context, slug string) (*models.Tenant, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Tenant, error)
}

// Resolver maps storefront slugs and admin token claims onto active tenants.
type Resolver interface {
	ResolveSlug(ctx context.Context, slug string) (*models.Tenant, error)
	ResolveID(ctx context.Context, id uuid.UUID) (*models.Tenant, error)
}

type resolver struct {
	repo tenantReader
}

// NewResolver builds a tenant resolver over the provided repository.
func NewResolver(repo tenantReader) (Resolver, error) {
	if repo == nil {
		return nil, fmt.Errorf("tenant repository required")
	}
	return &resolver{repo: repo}, nil
}

// ResolveSlug returns NOT_FOUND for unknown or inactive stores so storefront
// callers cannot tell which slugs exist.
func (r *resolver) ResolveSlug(ctx context.Context, slug string) (*models.Tenant, error) {
	tenant, err := r.repo.FindBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "store not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load store")
	}
	if !tenant.IsActive {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "store not found")
	}
	return tenant, nil
}

// ResolveID returns FORBIDDEN when the tenant behind an admin token is gone or disabled.
func (r *resolver) ResolveID(ctx context.Context, id uuid.UUID) (*models.Tenant, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "store context missing")
	}
	tenant, err := r.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeForbidden, "store not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load store")
	}
	if !tenant.IsActive {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "store is inactive")
	}
	return tenant, nil
}
