package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/oms/backend/internal/domain/order"
	"github.com/oms/backend/internal/domain/shared"
	"github.com/oms/backend/internal/infrastructure/notification"
	"github.com/oms/backend/internal/interfaces/http/dto"
	"github.com/oms/backend/internal/interfaces/http/router"
)

type stubOrderRepo struct {
	byID  map[uuid.UUID]*order.LocalOrder
	notes map[uuid.UUID][]order.Note
}

func newStubOrderRepo() *stubOrderRepo {
	return &stubOrderRepo{
		byID:  make(map[uuid.UUID]*order.LocalOrder),
		notes: make(map[uuid.UUID][]order.Note),
	}
}

func (r *stubOrderRepo) Create(_ context.Context, o *order.LocalOrder) error {
	r.byID[o.ID] = o
	return nil
}

func (r *stubOrderRepo) FindByID(_ context.Context, id uuid.UUID) (*order.LocalOrder, error) {
	o, ok := r.byID[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return o, nil
}

func (r *stubOrderRepo) FindByOrigin(_ context.Context, source order.Source, externalID string) (*order.LocalOrder, error) {
	for _, o := range r.byID {
		if o.Origin.Source == source && o.Origin.ExternalID == externalID {
			return o, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *stubOrderRepo) ExistsByOrigin(ctx context.Context, source order.Source, externalID string) (bool, error) {
	_, err := r.FindByOrigin(ctx, source, externalID)
	return err == nil, nil
}

func (r *stubOrderRepo) Update(_ context.Context, o *order.LocalOrder) error {
	if _, ok := r.byID[o.ID]; !ok {
		return shared.ErrNotFound
	}
	r.byID[o.ID] = o
	return nil
}

func (r *stubOrderRepo) AddNote(_ context.Context, orderID uuid.UUID, text string) error {
	r.notes[orderID] = append(r.notes[orderID], order.Note{
		ID: uuid.New(), OrderID: orderID, Text: text, CreatedAt: time.Now(),
	})
	return nil
}

func (r *stubOrderRepo) FindNotes(_ context.Context, orderID uuid.UUID) ([]order.Note, error) {
	return r.notes[orderID], nil
}

type capturingPublisher struct {
	events []shared.DomainEvent
}

func (p *capturingPublisher) Publish(_ context.Context, events ...shared.DomainEvent) error {
	p.events = append(p.events, events...)
	return nil
}

type recordingNotifier struct {
	shipped int
}

func (n *recordingNotifier) OrderCreated(context.Context, *order.LocalOrder) error { return nil }
func (n *recordingNotifier) OrderShipped(context.Context, *order.LocalOrder) error {
	n.shipped++
	return nil
}

func newOrderTestRouter(t *testing.T) (*gin.Engine, *stubOrderRepo, *capturingPublisher, *recordingNotifier) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	repo := newStubOrderRepo()
	publisher := &capturingPublisher{}
	notifier := &recordingNotifier{}
	gate := notification.NewGate(notifier, zap.NewNop())

	engine := gin.New()
	router.NewRouter(engine).
		Register(NewOrderHandler(repo, publisher, gate, zap.NewNop())).
		Setup()
	return engine, repo, publisher, notifier
}

func seedProcessingOrder(t *testing.T, repo *stubOrderRepo) *order.LocalOrder {
	t.Helper()
	o, err := order.NewImportedOrder("501", order.StatusProcessing, order.Origin{
		Source:     order.SourceWooCommerce,
		ExternalID: "wc_501",
	}, time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	o.AddItem(uuid.New(), "Widget", "ABC", decimal.NewFromInt(2), decimal.NewFromInt(10))
	o.GrandTotal = decimal.NewFromInt(20)
	require.NoError(t, repo.Create(context.Background(), o))
	return o
}

func TestGetOrder(t *testing.T) {
	engine, repo, _, _ := newOrderTestRouter(t)
	o := seedProcessingOrder(t, repo)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/orders/"+o.ID.String(), nil)
	engine.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	data := resp.Data.(map[string]any)
	assert.Equal(t, "501", data["number"])
	assert.Equal(t, "woocommerce", data["origin_source"])
	assert.Equal(t, true, data["imported"])
}

func TestGetOrder_NotFound(t *testing.T) {
	engine, _, _, _ := newOrderTestRouter(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/orders/"+uuid.NewString(), nil)
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetOrder_InvalidID(t *testing.T) {
	engine, _, _, _ := newOrderTestRouter(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/orders/not-a-uuid", nil)
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestMarkShipped(t *testing.T) {
	engine, repo, publisher, notifier := newOrderTestRouter(t)
	o := seedProcessingOrder(t, repo)

	body := `{"tracking_number":"1Z999AA10123456784","carrier":"ups"}`
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/orders/"+o.ID.String()+"/shipment", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	engine.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	stored, err := repo.FindByID(context.Background(), o.ID)
	require.NoError(t, err)
	assert.Equal(t, order.StatusShipped, stored.Status)
	assert.Equal(t, "1Z999AA10123456784", stored.TrackingNumber)
	assert.Equal(t, "ups", stored.TrackingCarrier)

	require.Len(t, publisher.events, 1)
	assert.Equal(t, order.EventTypeOrderShipped, publisher.events[0].EventType())
	assert.Equal(t, 1, notifier.shipped, "shipment notification goes out for imported orders too")
}

func TestMarkShipped_MissingTrackingNumber(t *testing.T) {
	engine, repo, publisher, _ := newOrderTestRouter(t)
	o := seedProcessingOrder(t, repo)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/orders/"+o.ID.String()+"/shipment", strings.NewReader(`{"carrier":"ups"}`))
	req.Header.Set("Content-Type", "application/json")
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Empty(t, publisher.events)
}

func TestMarkShipped_InvalidTransition(t *testing.T) {
	engine, repo, _, _ := newOrderTestRouter(t)
	o := seedProcessingOrder(t, repo)
	require.NoError(t, o.MarkShipped("FIRST", "ups"))
	o.ClearEvents()

	body := `{"tracking_number":"SECOND"}`
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/orders/"+o.ID.String()+"/shipment", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestListNotes(t *testing.T) {
	engine, repo, _, _ := newOrderTestRouter(t)
	o := seedProcessingOrder(t, repo)
	require.NoError(t, repo.AddNote(context.Background(), o.ID, "tracking 1Z (ups) pushed to woocommerce"))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/orders/"+o.ID.String()+"/notes", nil)
	engine.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	notes := resp.Data.([]any)
	require.Len(t, notes, 1)
	assert.Contains(t, notes[0].(map[string]any)["text"], "pushed to woocommerce")
}
