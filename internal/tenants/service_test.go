package tenants

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/angelmondragon/minishop-backend/pkg/db/dbtest"
	pkgerrors "github.com/angelmondragon/minishop-backend/pkg/errors"
)

func TestResolveSlug(t *testing.T) {
	db := dbtest.Open(t)
	active := dbtest.MustCreateTenant(t, db, "zapatos-co")
	inactive := dbtest.MustCreateTenant(t, db, "cerrada")
	require.NoError(t, db.Model(inactive).Update("is_active", false).Error)

	svc, err := NewResolver(NewRepository(db))
	require.NoError(t, err)
	ctx := context.Background()

	got, err := svc.ResolveSlug(ctx, "  Zapatos-CO ")
	require.NoError(t, err)
	require.Equal(t, active.ID, got.ID)

	_, err = svc.ResolveSlug(ctx, "cerrada")
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))

	_, err = svc.ResolveSlug(ctx, "missing")
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))

	_, err = svc.ResolveSlug(ctx, "")
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))
}

func TestResolveID(t *testing.T) {
	db := dbtest.Open(t)
	active := dbtest.MustCreateTenant(t, db, "activa")
	inactive := dbtest.MustCreateTenant(t, db, "inactiva")
	require.NoError(t, db.Model(inactive).Update("is_active", false).Error)

	svc, err := NewResolver(NewRepository(db))
	require.NoError(t, err)
	ctx := context.Background()

	got, err := svc.ResolveID(ctx, active.ID)
	require.NoError(t, err)
	require.Equal(t, "activa", got.Slug)

	for _, id := range []uuid.UUID{inactive.ID, uuid.New(), uuid.Nil} {
		_, err = svc.ResolveID(ctx, id)
		require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeForbidden), "id %s: %v", id, err)
	}
}

func TestNewResolverRequiresRepo(t *testing.T) {
	_, err := NewResolver(nil)
	require.Error(t, err)
}
