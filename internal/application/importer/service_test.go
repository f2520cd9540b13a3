package importer

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/oms/backend/internal/domain/order"
	"github.com/oms/backend/internal/domain/shared"
	"github.com/oms/backend/internal/domain/sync"
	"github.com/oms/backend/internal/infrastructure/notification"
)

// ---------------------------------------------------------------------------
// Test fakes
// ---------------------------------------------------------------------------

type fakeTx struct{}

func (fakeTx) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fakeOrderRepo struct {
	byOrigin map[string]*order.LocalOrder
	byID     map[uuid.UUID]*order.LocalOrder
	notes    map[uuid.UUID][]order.Note
}

func newFakeOrderRepo() *fakeOrderRepo {
	return &fakeOrderRepo{
		byOrigin: make(map[string]*order.LocalOrder),
		byID:     make(map[uuid.UUID]*order.LocalOrder),
		notes:    make(map[uuid.UUID][]order.Note),
	}
}

func originKey(source order.Source, externalID string) string {
	return source.String() + "/" + externalID
}

func (r *fakeOrderRepo) Create(_ context.Context, o *order.LocalOrder) error {
	key := originKey(o.Origin.Source, o.Origin.ExternalID)
	if _, ok := r.byOrigin[key]; ok {
		return shared.ErrAlreadyExists
	}
	r.byOrigin[key] = o
	r.byID[o.ID] = o
	return nil
}

func (r *fakeOrderRepo) FindByID(_ context.Context, id uuid.UUID) (*order.LocalOrder, error) {
	o, ok := r.byID[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return o, nil
}

func (r *fakeOrderRepo) FindByOrigin(_ context.Context, source order.Source, externalID string) (*order.LocalOrder, error) {
	o, ok := r.byOrigin[originKey(source, externalID)]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return o, nil
}

func (r *fakeOrderRepo) ExistsByOrigin(_ context.Context, source order.Source, externalID string) (bool, error) {
	_, ok := r.byOrigin[originKey(source, externalID)]
	return ok, nil
}

func (r *fakeOrderRepo) Update(_ context.Context, o *order.LocalOrder) error {
	if _, ok := r.byID[o.ID]; !ok {
		return shared.ErrNotFound
	}
	r.byID[o.ID] = o
	return nil
}

func (r *fakeOrderRepo) AddNote(_ context.Context, orderID uuid.UUID, text string) error {
	r.notes[orderID] = append(r.notes[orderID], order.Note{
		ID: uuid.New(), OrderID: orderID, Text: text, CreatedAt: time.Now(),
	})
	return nil
}

func (r *fakeOrderRepo) FindNotes(_ context.Context, orderID uuid.UUID) ([]order.Note, error) {
	return r.notes[orderID], nil
}

type fakeProductRepo struct {
	bySKU map[string]*order.Product
}

func newFakeProductRepo() *fakeProductRepo {
	return &fakeProductRepo{bySKU: make(map[string]*order.Product)}
}

func (r *fakeProductRepo) FindBySKU(_ context.Context, sku string) (*order.Product, error) {
	p, ok := r.bySKU[sku]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return p, nil
}

func (r *fakeProductRepo) Create(_ context.Context, p *order.Product) error {
	if _, ok := r.bySKU[p.SKU]; ok {
		return shared.ErrAlreadyExists
	}
	r.bySKU[p.SKU] = p
	return nil
}

type fakeCursorRepo struct {
	cursors map[order.Source]time.Time
}

func newFakeCursorRepo() *fakeCursorRepo {
	return &fakeCursorRepo{cursors: make(map[order.Source]time.Time)}
}

func (r *fakeCursorRepo) Get(_ context.Context, platform order.Source) (*sync.ImportCursor, error) {
	return &sync.ImportCursor{Platform: platform, LastImportAt: r.cursors[platform]}, nil
}

func (r *fakeCursorRepo) Advance(_ context.Context, platform order.Source, to time.Time) error {
	if to.After(r.cursors[platform]) {
		r.cursors[platform] = to
	}
	return nil
}

type fakeLogRepo struct {
	entries []sync.ImportLogEntry
}

func (r *fakeLogRepo) Append(_ context.Context, entry *sync.ImportLogEntry) error {
	r.entries = append(r.entries, *entry)
	return nil
}

func (r *fakeLogRepo) FindRecent(_ context.Context, limit int) ([]sync.ImportLogEntry, error) {
	out := make([]sync.ImportLogEntry, 0, limit)
	for i := len(r.entries) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, r.entries[i])
	}
	return out, nil
}

type fakeAdapter struct {
	platform    order.Source
	minimumDate time.Time
	result      *sync.FetchResult
	fetchErr    error
	lastSince   time.Time
	fetchCalls  int
}

func (a *fakeAdapter) Platform() order.Source { return a.platform }
func (a *fakeAdapter) MinimumDate() time.Time { return a.minimumDate }

func (a *fakeAdapter) TestConnection(context.Context) error {
	return nil
}

func (a *fakeAdapter) FetchOrders(_ context.Context, since time.Time, _ []string) (*sync.FetchResult, error) {
	a.fetchCalls++
	a.lastSince = since
	if a.fetchErr != nil {
		return nil, a.fetchErr
	}
	if a.result == nil {
		return &sync.FetchResult{}, nil
	}
	return a.result, nil
}

func (a *fakeAdapter) PushTracking(context.Context, string, string, string) error {
	return nil
}

type silentNotifier struct{ sent int }

func (n *silentNotifier) OrderCreated(context.Context, *order.LocalOrder) error {
	n.sent++
	return nil
}
func (n *silentNotifier) OrderShipped(context.Context, *order.LocalOrder) error {
	n.sent++
	return nil
}

// ---------------------------------------------------------------------------
// Harness
// ---------------------------------------------------------------------------

type harness struct {
	service  *Service
	orders   *fakeOrderRepo
	products *fakeProductRepo
	cursors  *fakeCursorRepo
	logs     *fakeLogRepo
	notifier *silentNotifier
}

func newHarness(t *testing.T, adapters ...sync.PlatformAdapter) *harness {
	t.Helper()
	orders := newFakeOrderRepo()
	products := newFakeProductRepo()
	cursors := newFakeCursorRepo()
	logs := &fakeLogRepo{}
	notifier := &silentNotifier{}
	gate := notification.NewGate(notifier, zap.NewNop())

	materializer := NewMaterializer(fakeTx{}, orders, products, gate, nil, zap.NewNop())
	service := NewService(
		sync.NewAdapterRegistry(adapters...),
		cursors, logs, orders, materializer, nil, zap.NewNop(),
	)
	return &harness{service: service, orders: orders, products: products, cursors: cursors, logs: logs, notifier: notifier}
}

func remoteWooOrder(externalID string) sync.RemoteOrder {
	return sync.RemoteOrder{
		ExternalID: externalID,
		Number:     "501",
		Status:     "processing",
		CreatedAt:  time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC),
		Billing:    sync.RemoteAddress{FirstName: "Ada", Email: "ada@example.com"},
		Items: []sync.RemoteLineItem{
			{Name: "Widget", SKU: "ABC", Quantity: decimal.NewFromInt(2), UnitPrice: decimal.NewFromInt(10)},
		},
		GrandTotal: decimal.NewFromInt(20),
	}
}

// ---------------------------------------------------------------------------
// Tests
// ---------------------------------------------------------------------------

func TestRunImport_ImportsRemoteOrder(t *testing.T) {
	adapter := &fakeAdapter{
		platform:    order.SourceWooCommerce,
		minimumDate: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		result:      &sync.FetchResult{Orders: []sync.RemoteOrder{remoteWooOrder("wc_501")}},
	}
	h := newHarness(t, adapter)

	summary, err := h.service.RunImport(context.Background(), sync.TriggerManual)
	require.NoError(t, err)
	assert.Equal(t, 1, summary.TotalImported)
	assert.Equal(t, sync.RunStatusSuccess, summary.Status())

	imported, err := h.orders.FindByOrigin(context.Background(), order.SourceWooCommerce, "wc_501")
	require.NoError(t, err)
	assert.Equal(t, order.StatusProcessing, imported.Status)
	assert.Equal(t, "501", imported.Origin.ExternalOrderNumber)
	require.Len(t, imported.Items, 1)
	assert.Equal(t, "ABC", imported.Items[0].SKU)
	assert.Equal(t, "2", imported.Items[0].Quantity.String())

	// SKU ABC was unknown, so the catalog gained a placeholder
	product, err := h.products.FindBySKU(context.Background(), "ABC")
	require.NoError(t, err)
	assert.True(t, product.Placeholder)
	assert.Equal(t, imported.Items[0].ProductID, product.ID)
}

func TestRunImport_SecondRunIsIdempotent(t *testing.T) {
	adapter := &fakeAdapter{
		platform:    order.SourceWooCommerce,
		minimumDate: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		result:      &sync.FetchResult{Orders: []sync.RemoteOrder{remoteWooOrder("wc_501")}},
	}
	h := newHarness(t, adapter)
	ctx := context.Background()

	first, err := h.service.RunImport(ctx, sync.TriggerManual)
	require.NoError(t, err)
	assert.Equal(t, 1, first.TotalImported)

	second, err := h.service.RunImport(ctx, sync.TriggerManual)
	require.NoError(t, err)
	assert.Equal(t, 0, second.TotalImported)
	assert.Equal(t, 1, second.Platforms[0].Skipped)
	assert.Equal(t, sync.RunStatusSuccess, second.Status())
}

func TestRunImport_PartialFailureIsolation(t *testing.T) {
	woo := &fakeAdapter{
		platform:    order.SourceWooCommerce,
		minimumDate: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		result:      &sync.FetchResult{Orders: []sync.RemoteOrder{remoteWooOrder("wc_501")}},
	}
	bc := &fakeAdapter{
		platform:    order.SourceBigCommerce,
		minimumDate: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		fetchErr:    fmt.Errorf("%w: HTTP 500", sync.ErrPlatformRequestFailed),
	}
	shopify := &fakeAdapter{
		platform:    order.SourceShopify,
		minimumDate: time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC),
		result: &sync.FetchResult{Orders: []sync.RemoteOrder{func() sync.RemoteOrder {
			o := remoteWooOrder("998")
			o.Status = "paid"
			return o
		}()}},
	}
	h := newHarness(t, woo, bc, shopify)

	summary, err := h.service.RunImport(context.Background(), sync.TriggerScheduled)
	require.NoError(t, err)
	assert.Equal(t, 2, summary.TotalImported)
	assert.Equal(t, sync.RunStatusPartial, summary.Status())

	var bcResult sync.PlatformImportResult
	for _, p := range summary.Platforms {
		if p.Platform == order.SourceBigCommerce {
			bcResult = p
		}
	}
	assert.Zero(t, bcResult.Imported)
	assert.Contains(t, bcResult.Message, "HTTP 500")

	// the failing platform's cursor stays put; the healthy ones advance
	assert.True(t, h.cursors.cursors[order.SourceBigCommerce].IsZero())
	assert.False(t, h.cursors.cursors[order.SourceWooCommerce].IsZero())
}

func TestRunImport_UnconfiguredPlatformsReported(t *testing.T) {
	h := newHarness(t) // no adapters at all

	summary, err := h.service.RunImport(context.Background(), sync.TriggerManual)
	require.NoError(t, err)
	require.Len(t, summary.Platforms, 3)
	for _, p := range summary.Platforms {
		assert.Equal(t, "credentials not configured", p.Message)
		assert.Zero(t, p.Imported)
	}
}

func TestRunImport_CursorFloorAppliedToFetch(t *testing.T) {
	floor := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	adapter := &fakeAdapter{platform: order.SourceWooCommerce, minimumDate: floor}
	h := newHarness(t, adapter)
	ctx := context.Background()

	// corrupted cursor far below the floor
	h.cursors.cursors[order.SourceWooCommerce] = floor.AddDate(-3, 0, 0)

	_, err := h.service.RunImport(ctx, sync.TriggerManual)
	require.NoError(t, err)
	assert.True(t, adapter.lastSince.Equal(floor), "fetch must start at the floor, not the corrupted cursor")
}

func TestRunImport_CursorAdvancesAfterRun(t *testing.T) {
	adapter := &fakeAdapter{
		platform:    order.SourceWooCommerce,
		minimumDate: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}
	h := newHarness(t, adapter)
	before := time.Now()

	_, err := h.service.RunImport(context.Background(), sync.TriggerManual)
	require.NoError(t, err)

	cursor := h.cursors.cursors[order.SourceWooCommerce]
	assert.False(t, cursor.IsZero(), "cursor advances even when zero orders were imported")
	assert.False(t, cursor.Before(before))
}

func TestRunImport_UnknownStatusDefaultsToPending(t *testing.T) {
	remote := remoteWooOrder("wc_900")
	remote.Status = "utterly-novel-status"
	adapter := &fakeAdapter{
		platform:    order.SourceWooCommerce,
		minimumDate: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		result:      &sync.FetchResult{Orders: []sync.RemoteOrder{remote}},
	}
	h := newHarness(t, adapter)

	_, err := h.service.RunImport(context.Background(), sync.TriggerManual)
	require.NoError(t, err)

	imported, err := h.orders.FindByOrigin(context.Background(), order.SourceWooCommerce, "wc_900")
	require.NoError(t, err)
	assert.Equal(t, order.StatusPending, imported.Status)
}

func TestRunImport_AppendsAggregateLogEntry(t *testing.T) {
	adapter := &fakeAdapter{
		platform:    order.SourceWooCommerce,
		minimumDate: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		result:      &sync.FetchResult{Orders: []sync.RemoteOrder{remoteWooOrder("wc_501")}, Skipped: 2},
	}
	h := newHarness(t, adapter)

	_, err := h.service.RunImport(context.Background(), sync.TriggerScheduled)
	require.NoError(t, err)

	require.Len(t, h.logs.entries, 1)
	entry := h.logs.entries[0]
	assert.Equal(t, sync.TriggerScheduled, entry.Trigger)
	assert.Equal(t, "all", entry.Platform)
	assert.Equal(t, 1, entry.OrdersImported)
	assert.Equal(t, 2, entry.OrdersSkipped)
}

func TestRunImport_NoCustomerNotifications(t *testing.T) {
	adapter := &fakeAdapter{
		platform:    order.SourceWooCommerce,
		minimumDate: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		result:      &sync.FetchResult{Orders: []sync.RemoteOrder{remoteWooOrder("wc_501")}},
	}
	h := newHarness(t, adapter)

	_, err := h.service.RunImport(context.Background(), sync.TriggerManual)
	require.NoError(t, err)
	assert.Zero(t, h.notifier.sent, "imports must never email customers")
}

func TestTestPlatformConnection_Unconfigured(t *testing.T) {
	h := newHarness(t)
	err := h.service.TestPlatformConnection(context.Background(), order.SourceShopify)
	assert.ErrorIs(t, err, sync.ErrCredentialsNotConfigured)
}
