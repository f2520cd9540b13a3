package order

import (
	"github.com/oms/backend/internal/domain/shared"
)

// Event types for the order aggregate
const (
	EventTypeOrderShipped = "order.shipped"
)

// OrderShippedEvent is emitted when an order transitions to shipped.
// The tracking sync-back dispatcher subscribes to it.
type OrderShippedEvent struct {
	shared.BaseDomainEvent

	OrderNumber     string `json:"order_number"`
	OriginSource    Source `json:"origin_source"`
	TrackingNumber  string `json:"tracking_number"`
	TrackingCarrier string `json:"tracking_carrier"`
}

// NewOrderShippedEvent creates a shipped event from the order's current state
func NewOrderShippedEvent(o *LocalOrder) *OrderShippedEvent {
	return &OrderShippedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderShipped, o.ID, "LocalOrder"),
		OrderNumber:     o.Number,
		OriginSource:    o.Origin.Source,
		TrackingNumber:  o.TrackingNumber,
		TrackingCarrier: o.TrackingCarrier,
	}
}
