package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/oms/backend/internal/domain/order"
	"github.com/oms/backend/internal/domain/shared"
	"github.com/oms/backend/internal/infrastructure/persistence/models"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&models.OrderModel{},
		&models.OrderItemModel{},
		&models.OrderNoteModel{},
		&models.ProductModel{},
		&models.SyncCursorModel{},
		&models.ImportLogModel{},
	))
	// partial unique index matching the production schema: local orders
	// (source none) are exempt from origin uniqueness
	require.NoError(t, db.Exec(
		`CREATE UNIQUE INDEX idx_orders_origin_unique ON orders(origin_source, origin_external_id) WHERE origin_source != 'none'`,
	).Error)

	return db
}

func newTestImportedOrder(t *testing.T, externalID string) *order.LocalOrder {
	t.Helper()
	o, err := order.NewImportedOrder("1001", order.StatusProcessing, order.Origin{
		Source:              order.SourceWooCommerce,
		ExternalID:          externalID,
		ExternalOrderNumber: "1001",
	}, time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	o.Billing = order.Address{FirstName: "Ada", City: "London"}
	o.AddItem(o.ID, "Widget", "WID-1", decimal.NewFromInt(2), decimal.NewFromInt(10))
	o.GrandTotal = decimal.NewFromInt(20)
	return o
}

func TestGormOrderRepository_CreateAndFindByID(t *testing.T) {
	db := newTestDB(t)
	repo := NewGormOrderRepository(db)
	ctx := context.Background()

	o := newTestImportedOrder(t, "wc_501")
	require.NoError(t, repo.Create(ctx, o))

	found, err := repo.FindByID(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, "1001", found.Number)
	assert.Equal(t, order.StatusProcessing, found.Status)
	assert.Equal(t, order.SourceWooCommerce, found.Origin.Source)
	assert.Equal(t, "wc_501", found.Origin.ExternalID)
	assert.True(t, found.Imported)
	assert.Equal(t, "Ada", found.Billing.FirstName)
	require.Len(t, found.Items, 1)
	assert.Equal(t, "WID-1", found.Items[0].SKU)
	assert.Equal(t, "20", found.Items[0].Total.String())
}

func TestGormOrderRepository_Create_DuplicateOrigin(t *testing.T) {
	db := newTestDB(t)
	repo := NewGormOrderRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, newTestImportedOrder(t, "wc_501")))

	err := repo.Create(ctx, newTestImportedOrder(t, "wc_501"))
	require.Error(t, err)
	assert.ErrorIs(t, err, shared.ErrAlreadyExists)
}

func TestGormOrderRepository_ExistsByOrigin(t *testing.T) {
	db := newTestDB(t)
	repo := NewGormOrderRepository(db)
	ctx := context.Background()

	exists, err := repo.ExistsByOrigin(ctx, order.SourceWooCommerce, "wc_501")
	require.NoError(t, err)
	assert.False(t, exists)

	require.NoError(t, repo.Create(ctx, newTestImportedOrder(t, "wc_501")))

	exists, err = repo.ExistsByOrigin(ctx, order.SourceWooCommerce, "wc_501")
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = repo.ExistsByOrigin(ctx, order.SourceShopify, "wc_501")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestGormOrderRepository_FindByOrigin(t *testing.T) {
	db := newTestDB(t)
	repo := NewGormOrderRepository(db)
	ctx := context.Background()

	_, err := repo.FindByOrigin(ctx, order.SourceWooCommerce, "wc_501")
	assert.ErrorIs(t, err, shared.ErrNotFound)

	created := newTestImportedOrder(t, "wc_501")
	require.NoError(t, repo.Create(ctx, created))

	found, err := repo.FindByOrigin(ctx, order.SourceWooCommerce, "wc_501")
	require.NoError(t, err)
	assert.Equal(t, created.ID, found.ID)
}

func TestGormOrderRepository_Update_Tracking(t *testing.T) {
	db := newTestDB(t)
	repo := NewGormOrderRepository(db)
	ctx := context.Background()

	o := newTestImportedOrder(t, "wc_501")
	require.NoError(t, repo.Create(ctx, o))

	require.NoError(t, o.MarkShipped("1Z999AA10123456784", "UPS"))
	require.NoError(t, repo.Update(ctx, o))

	found, err := repo.FindByID(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, order.StatusShipped, found.Status)
	assert.Equal(t, "1Z999AA10123456784", found.TrackingNumber)
	assert.Equal(t, "UPS", found.TrackingCarrier)
}

func TestGormOrderRepository_Update_NotFound(t *testing.T) {
	db := newTestDB(t)
	repo := NewGormOrderRepository(db)

	err := repo.Update(context.Background(), newTestImportedOrder(t, "wc_999"))
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestGormOrderRepository_Notes(t *testing.T) {
	db := newTestDB(t)
	repo := NewGormOrderRepository(db)
	ctx := context.Background()

	o := newTestImportedOrder(t, "wc_501")
	require.NoError(t, repo.Create(ctx, o))

	require.NoError(t, repo.AddNote(ctx, o.ID, "tracking pushed to woocommerce"))
	require.NoError(t, repo.AddNote(ctx, o.ID, "second note"))

	notes, err := repo.FindNotes(ctx, o.ID)
	require.NoError(t, err)
	require.Len(t, notes, 2)
	assert.Equal(t, "tracking pushed to woocommerce", notes[0].Text)
	assert.Equal(t, "second note", notes[1].Text)
}

func TestTxManager_RollsBackOnError(t *testing.T) {
	db := newTestDB(t)
	repo := NewGormOrderRepository(db)
	tm := NewTxManager(db)
	ctx := context.Background()

	o := newTestImportedOrder(t, "wc_501")
	err := tm.Do(ctx, func(ctx context.Context) error {
		if err := repo.Create(ctx, o); err != nil {
			return err
		}
		return assert.AnError
	})
	require.Error(t, err)

	exists, err := repo.ExistsByOrigin(ctx, order.SourceWooCommerce, "wc_501")
	require.NoError(t, err)
	assert.False(t, exists, "rolled-back insert must not be visible")
}
