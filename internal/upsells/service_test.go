package upsells

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/angelmondragon/minishop-backend/internal/products"
	"github.com/angelmondragon/minishop-backend/pkg/db/dbtest"
	"github.com/angelmondragon/minishop-backend/pkg/db/models"
	"github.com/angelmondragon/minishop-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/minishop-backend/pkg/errors"
	"github.com/angelmondragon/minishop-backend/pkg/logger"
)

type fixture struct {
	db     *gorm.DB
	svc    Service
	repo   *Repository
	tenant *models.Tenant
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	db := dbtest.Open(t)
	repo := NewRepository(db)
	svc, err := NewService(repo, products.NewRepository(db), logger.New(logger.Options{ServiceName: "test", Output: io.Discard}))
	require.NoError(t, err)
	return fixture{db: db, svc: svc, repo: repo, tenant: dbtest.MustCreateTenant(t, db, "zapatos-co")}
}

func TestForProductEmptyWithoutActiveConfig(t *testing.T) {
	f := newFixture(t)
	socks := dbtest.MustCreateProduct(t, f.db, f.tenant.ID, dbtest.ProductSeed{Name: "Medias", Price: "15000"})
	dbtest.MustCreateUpsell(t, f.db, f.tenant.ID, dbtest.UpsellSeed{Name: "medias", ProductID: socks.ID})
	ctx := context.Background()

	got, err := f.svc.ForProduct(ctx, f.tenant.ID, uuid.NewString())
	require.NoError(t, err)
	assert.Nil(t, got.Config)
	assert.Empty(t, got.Upsells)
	assert.NotNil(t, got.Upsells)

	dbtest.MustCreateUpsellConfig(t, f.db, f.tenant.ID, false, 2)
	got, err = f.svc.ForProduct(ctx, f.tenant.ID, uuid.NewString())
	require.NoError(t, err)
	assert.Nil(t, got.Config)
	assert.Empty(t, got.Upsells)
}

func TestForProductFiltersOrdersAndTruncates(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	shoes := dbtest.MustCreateProduct(t, f.db, f.tenant.ID, dbtest.ProductSeed{Name: "Zapatillas", Price: "89900"})
	socks := dbtest.MustCreateProduct(t, f.db, f.tenant.ID, dbtest.ProductSeed{
		Name:     "Medias", Price: "15000", ImageURL: "https://cdn.minishop.test/medias.jpg",
		Variants: []dbtest.VariantSeed{{Name: "Negras"}},
	})
	laces := dbtest.MustCreateProduct(t, f.db, f.tenant.ID, dbtest.ProductSeed{Name: "Cordones", Price: "8000"})
	gone := dbtest.MustCreateProduct(t, f.db, f.tenant.ID, dbtest.ProductSeed{Name: "Agotado", Price: "1000", Inactive: true})
	base := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	dbtest.MustCreateUpsellConfig(t, f.db, f.tenant.ID, true, 2)
	dbtest.MustCreateUpsell(t, f.db, f.tenant.ID, dbtest.UpsellSeed{Name: "low", ProductID: laces.ID, Priority: 1, CreatedAt: base})
	dbtest.MustCreateUpsell(t, f.db, f.tenant.ID, dbtest.UpsellSeed{
		Name:        "specific", ProductID: socks.ID, Priority: 5, CreatedAt: base,
		TriggerType: enums.UpsellTriggerSpecific, TriggerProductIDs: []uuid.UUID{shoes.ID},
	})
	dbtest.MustCreateUpsell(t, f.db, f.tenant.ID, dbtest.UpsellSeed{
		Name:        "other trigger", ProductID: socks.ID, Priority: 9, CreatedAt: base,
		TriggerType: enums.UpsellTriggerSpecific, TriggerProductIDs: []uuid.UUID{uuid.New()},
	})
	dbtest.MustCreateUpsell(t, f.db, f.tenant.ID, dbtest.UpsellSeed{Name: "inactive", ProductID: laces.ID, Priority: 9, Inactive: true, CreatedAt: base})
	dbtest.MustCreateUpsell(t, f.db, f.tenant.ID, dbtest.UpsellSeed{Name: "missing product", ProductID: gone.ID, Priority: 8, CreatedAt: base})
	dbtest.MustCreateUpsell(t, f.db, f.tenant.ID, dbtest.UpsellSeed{Name: "newer low", ProductID: laces.ID, Priority: 1, CreatedAt: base.Add(time.Hour)})

	got, err := f.svc.ForProduct(ctx, f.tenant.ID, shoes.ID.String())
	require.NoError(t, err)
	require.NotNil(t, got.Config)
	assert.Equal(t, 2, got.Config.MaxUpsellsPerOrder)
	require.Len(t, got.Upsells, 2)
	assert.Equal(t, "specific", got.Upsells[0].Name)
	assert.Equal(t, "newer low", got.Upsells[1].Name)

	product := got.Upsells[0].UpsellProduct
	require.NotNil(t, product)
	assert.Equal(t, "Medias", product.Name)
	require.NotNil(t, product.ImageURL)
	require.Len(t, product.Variants, 1)

	// a product with no specific trigger only sees "all" upsells
	got, err = f.svc.ForProduct(ctx, f.tenant.ID, laces.ID.String())
	require.NoError(t, err)
	require.Len(t, got.Upsells, 2)
	assert.Equal(t, "newer low", got.Upsells[0].Name)
	assert.Equal(t, "low", got.Upsells[1].Name)
}

func TestForProductZeroCapReturnsEmpty(t *testing.T) {
	f := newFixture(t)
	socks := dbtest.MustCreateProduct(t, f.db, f.tenant.ID, dbtest.ProductSeed{Name: "Medias", Price: "15000"})
	dbtest.MustCreateUpsellConfig(t, f.db, f.tenant.ID, true, 0)
	dbtest.MustCreateUpsell(t, f.db, f.tenant.ID, dbtest.UpsellSeed{Name: "medias", ProductID: socks.ID})

	got, err := f.svc.ForProduct(context.Background(), f.tenant.ID, socks.ID.String())
	require.NoError(t, err)
	assert.Empty(t, got.Upsells)
}

func TestConfigAutoCreateAndUpdate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	cfg, err := f.svc.GetConfig(ctx, f.tenant.ID)
	require.NoError(t, err)
	assert.True(t, cfg.IsActive)
	assert.Equal(t, DefaultMaxPerOrder, cfg.MaxUpsellsPerOrder)
	assert.Equal(t, enums.UpsellTypePostPurchase, cfg.UpsellType)

	again, err := f.svc.GetConfig(ctx, f.tenant.ID)
	require.NoError(t, err)
	assert.Equal(t, cfg.ID, again.ID)

	maxPer := 3
	inactive := false
	updated, err := f.svc.UpdateConfig(ctx, f.tenant.ID, UpdateConfigInput{MaxUpsellsPerOrder: &maxPer, IsActive: &inactive})
	require.NoError(t, err)
	assert.Equal(t, 3, updated.MaxUpsellsPerOrder)
	assert.False(t, updated.IsActive)

	negative := -1
	_, err = f.svc.UpdateConfig(ctx, f.tenant.ID, UpdateConfigInput{MaxUpsellsPerOrder: &negative})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))

	bogus := enums.UpsellType("popup")
	_, err = f.svc.UpdateConfig(ctx, f.tenant.ID, UpdateConfigInput{UpsellType: &bogus})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
}

func TestCreateListToggleDelete(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	other := dbtest.MustCreateTenant(t, f.db, "otra")
	socks := dbtest.MustCreateProduct(t, f.db, f.tenant.ID, dbtest.ProductSeed{Name: "Medias", Price: "15000"})
	foreign := dbtest.MustCreateProduct(t, f.db, other.ID, dbtest.ProductSeed{Name: "Ajeno", Price: "15000"})

	created, err := f.svc.Create(ctx, f.tenant.ID, CreateUpsellInput{
		Name:            "Medias",
		IsActive:        true,
		UpsellProductID: socks.ID,
		DiscountType:    enums.DiscountTypePercentage,
		DiscountValue:   decimal.NewFromInt(20),
	})
	require.NoError(t, err)
	assert.Equal(t, enums.UpsellTriggerAll, created.TriggerType)
	assert.Equal(t, "Medias", created.Title)
	require.NotNil(t, created.UpsellProduct)

	_, err = f.svc.Create(ctx, f.tenant.ID, CreateUpsellInput{Name: "ajeno", UpsellProductID: foreign.ID})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))

	_, err = f.svc.Create(ctx, f.tenant.ID, CreateUpsellInput{Name: "x", UpsellProductID: socks.ID, TriggerType: enums.UpsellTriggerSpecific})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))

	_, err = f.svc.Create(ctx, f.tenant.ID, CreateUpsellInput{Name: "x", UpsellProductID: socks.ID, DiscountType: enums.DiscountTypePercentage, DiscountValue: decimal.NewFromInt(101)})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))

	listed, err := f.svc.List(ctx, f.tenant.ID)
	require.NoError(t, err)
	require.Len(t, listed, 1)

	assert.True(t, pkgerrors.IsCode(f.svc.SetActive(ctx, other.ID, created.ID, false), pkgerrors.CodeNotFound))
	require.NoError(t, f.svc.SetActive(ctx, f.tenant.ID, created.ID, false))
	active, err := f.repo.ListActive(ctx, f.tenant.ID)
	require.NoError(t, err)
	assert.Empty(t, active)

	assert.True(t, pkgerrors.IsCode(f.svc.Delete(ctx, other.ID, created.ID), pkgerrors.CodeNotFound))
	require.NoError(t, f.svc.Delete(ctx, f.tenant.ID, created.ID))
	_, err = f.repo.FindByID(ctx, f.tenant.ID, created.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestGetAndUpdateUpsell(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	other := dbtest.MustCreateTenant(t, f.db, "otra")
	socks := dbtest.MustCreateProduct(t, f.db, f.tenant.ID, dbtest.ProductSeed{Name: "Medias", Price: "15000"})
	hat := dbtest.MustCreateProduct(t, f.db, f.tenant.ID, dbtest.ProductSeed{Name: "Gorra", Price: "35000"})
	off := dbtest.MustCreateProduct(t, f.db, f.tenant.ID, dbtest.ProductSeed{Name: "Off", Price: "1", Inactive: true})
	upsell := dbtest.MustCreateUpsell(t, f.db, f.tenant.ID, dbtest.UpsellSeed{Name: "medias", ProductID: socks.ID})
	require.NoError(t, f.repo.IncrementImpressions(ctx, f.tenant.ID, upsell.ID))

	got, err := f.svc.Get(ctx, f.tenant.ID, upsell.ID)
	require.NoError(t, err)
	assert.Equal(t, "medias", got.Name)
	require.NotNil(t, got.UpsellProduct)
	assert.Equal(t, socks.ID, got.UpsellProduct.ID)

	_, err = f.svc.Get(ctx, other.ID, upsell.ID)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))

	updated, err := f.svc.Update(ctx, f.tenant.ID, upsell.ID, CreateUpsellInput{
		Name:              "gorra",
		Priority:          5,
		TriggerType:       enums.UpsellTriggerSpecific,
		TriggerProductIDs: []uuid.UUID{socks.ID},
		UpsellProductID:   hat.ID,
		DiscountType:      enums.DiscountTypeFixed,
		DiscountValue:     decimal.NewFromInt(5000),
		Title:             "¿Una gorra?",
	})
	require.NoError(t, err)
	assert.Equal(t, "gorra", updated.Name)
	assert.False(t, updated.IsActive)
	assert.Equal(t, 5, updated.Priority)
	assert.Equal(t, []string{socks.ID.String()}, updated.TriggerProductIDs)
	assert.Equal(t, hat.ID, updated.UpsellProductID)
	assert.Equal(t, "Add to my order", updated.AddButtonText)
	assert.EqualValues(t, 1, updated.Impressions, "counters survive edits")

	_, err = f.svc.Update(ctx, f.tenant.ID, upsell.ID, CreateUpsellInput{Name: "x", UpsellProductID: off.ID})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))

	_, err = f.svc.Update(ctx, other.ID, upsell.ID, CreateUpsellInput{Name: "x", UpsellProductID: hat.ID})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation), "foreign tenant cannot see the product either")

	_, err = f.svc.Update(ctx, f.tenant.ID, uuid.New(), CreateUpsellInput{Name: "x", UpsellProductID: hat.ID})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))
}

func TestDuplicateUpsell(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	socks := dbtest.MustCreateProduct(t, f.db, f.tenant.ID, dbtest.ProductSeed{Name: "Medias", Price: "15000"})
	source := dbtest.MustCreateUpsell(t, f.db, f.tenant.ID, dbtest.UpsellSeed{
		Name:              "medias",
		ProductID:         socks.ID,
		Priority:          3,
		TriggerType:       enums.UpsellTriggerSpecific,
		TriggerProductIDs: []uuid.UUID{uuid.New()},
		DiscountType:      enums.DiscountTypePercentage,
		DiscountValue:     "20",
	})
	require.NoError(t, f.repo.IncrementImpressions(ctx, f.tenant.ID, source.ID))
	require.NoError(t, f.repo.IncrementAccepted(ctx, f.tenant.ID, source.ID))

	copied, err := f.svc.Duplicate(ctx, f.tenant.ID, source.ID)
	require.NoError(t, err)
	assert.NotEqual(t, source.ID, copied.ID)
	assert.Equal(t, "medias (copy)", copied.Name)
	assert.False(t, copied.IsActive)
	assert.Equal(t, 3, copied.Priority)
	assert.Equal(t, source.TriggerProductIDs.Strings(), copied.TriggerProductIDs)
	assert.True(t, decimal.NewFromInt(20).Equal(copied.DiscountValue))
	assert.Zero(t, copied.Impressions)
	assert.Zero(t, copied.AcceptedCount)
	require.NotNil(t, copied.UpsellProduct)

	original, err := f.svc.Get(ctx, f.tenant.ID, source.ID)
	require.NoError(t, err)
	assert.True(t, original.IsActive)
	assert.EqualValues(t, 1, original.Impressions)

	_, err = f.svc.Duplicate(ctx, f.tenant.ID, uuid.New())
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))
}

func TestRecordImpression(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	socks := dbtest.MustCreateProduct(t, f.db, f.tenant.ID, dbtest.ProductSeed{Name: "Medias", Price: "15000"})
	upsell := dbtest.MustCreateUpsell(t, f.db, f.tenant.ID, dbtest.UpsellSeed{Name: "medias", ProductID: socks.ID})

	f.svc.RecordImpression(ctx, f.tenant.ID, upsell.ID)
	f.svc.RecordImpression(ctx, f.tenant.ID, upsell.ID)
	f.svc.RecordImpression(ctx, f.tenant.ID, uuid.New())

	reloaded, err := f.repo.FindByID(ctx, f.tenant.ID, upsell.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 2, reloaded.Impressions)
}
