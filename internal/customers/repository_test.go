package customers

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/angelmondragon/minishop-backend/pkg/db/dbtest"
)

func strPtr(v string) *string { return &v }

func TestRecordOrderUpsertsAggregate(t *testing.T) {
	db := dbtest.Open(t)
	tenant := dbtest.MustCreateTenant(t, db, "zapatos-co")
	repo := NewRepository(db)
	ctx := context.Background()
	first := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	require.NoError(t, repo.RecordOrder(ctx, OrderPlaced{
		TenantID: tenant.ID,
		Name:     "Ana",
		Phone:    "3001234567",
		City:     strPtr("Bogotá"),
		Total:    dbtest.Dec(t, "161820"),
		PlacedAt: first,
	}))

	customer, err := repo.FindByPhone(ctx, tenant.ID, "3001234567")
	require.NoError(t, err)
	assert.Equal(t, "Ana", customer.Name)
	assert.Equal(t, 1, customer.TotalOrders)
	assert.True(t, dbtest.Dec(t, "161820").Equal(customer.TotalSpent))
	require.NotNil(t, customer.City)
	assert.Equal(t, "Bogotá", *customer.City)

	require.NoError(t, repo.RecordOrder(ctx, OrderPlaced{
		TenantID: tenant.ID,
		Name:     "Ana María",
		Phone:    " 3001234567 ",
		Total:    dbtest.Dec(t, "50000"),
		PlacedAt: first.Add(24 * time.Hour),
	}))

	customer, err = repo.FindByPhone(ctx, tenant.ID, "3001234567")
	require.NoError(t, err)
	assert.Equal(t, "Ana María", customer.Name)
	assert.Equal(t, 2, customer.TotalOrders)
	assert.True(t, dbtest.Dec(t, "211820").Equal(customer.TotalSpent), customer.TotalSpent.String())
	require.NotNil(t, customer.City, "city is kept when the new order omits it")
	assert.Equal(t, "Bogotá", *customer.City)
	require.NotNil(t, customer.LastOrderAt)
	assert.True(t, customer.LastOrderAt.Equal(first.Add(24*time.Hour)))
}

func TestRecordOrderIsTenantScoped(t *testing.T) {
	db := dbtest.Open(t)
	a := dbtest.MustCreateTenant(t, db, "a")
	b := dbtest.MustCreateTenant(t, db, "b")
	repo := NewRepository(db)
	ctx := context.Background()
	now := time.Now()

	require.NoError(t, repo.RecordOrder(ctx, OrderPlaced{TenantID: a.ID, Name: "Ana", Phone: "300", Total: dbtest.Dec(t, "10"), PlacedAt: now}))
	require.NoError(t, repo.RecordOrder(ctx, OrderPlaced{TenantID: b.ID, Name: "Ana", Phone: "300", Total: dbtest.Dec(t, "20"), PlacedAt: now}))

	ca, err := repo.FindByPhone(ctx, a.ID, "300")
	require.NoError(t, err)
	cb, err := repo.FindByPhone(ctx, b.ID, "300")
	require.NoError(t, err)
	assert.NotEqual(t, ca.ID, cb.ID)
	assert.Equal(t, 1, ca.TotalOrders)
	assert.Equal(t, 1, cb.TotalOrders)
}
