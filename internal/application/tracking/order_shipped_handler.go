package tracking

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/oms/backend/internal/domain/order"
	"github.com/oms/backend/internal/domain/shared"
)

// OrderShippedHandler handles OrderShippedEvent and triggers the
// tracking sync-back for imported orders
type OrderShippedHandler struct {
	dispatcher *Dispatcher
	logger     *zap.Logger
}

// NewOrderShippedHandler creates a new handler for order shipped events
func NewOrderShippedHandler(dispatcher *Dispatcher, logger *zap.Logger) *OrderShippedHandler {
	return &OrderShippedHandler{
		dispatcher: dispatcher,
		logger:     logger,
	}
}

// EventTypes returns the event types this handler is interested in
func (h *OrderShippedHandler) EventTypes() []string {
	return []string{order.EventTypeOrderShipped}
}

// Handle processes an OrderShippedEvent by dispatching the tracking push
func (h *OrderShippedHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	shippedEvent, ok := event.(*order.OrderShippedEvent)
	if !ok {
		h.logger.Error("unexpected event type",
			zap.String("expected", order.EventTypeOrderShipped),
			zap.String("actual", event.EventType()),
		)
		return fmt.Errorf("unexpected event type: expected %s, got %s",
			order.EventTypeOrderShipped, event.EventType())
	}

	h.logger.Info("processing order shipped event for tracking sync-back",
		zap.String("order_id", shippedEvent.AggregateID().String()),
		zap.String("order_number", shippedEvent.OrderNumber),
		zap.String("origin_source", shippedEvent.OriginSource.String()),
	)

	return h.dispatcher.Dispatch(ctx, shippedEvent.AggregateID())
}

// Ensure OrderShippedHandler implements shared.EventHandler
var _ shared.EventHandler = (*OrderShippedHandler)(nil)
