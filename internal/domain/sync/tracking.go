package sync

import (
	"github.com/google/uuid"

	"github.com/oms/backend/internal/domain/order"
)

// TrackingPush is the transient request built on a shipped-status
// transition and consumed synchronously by the dispatcher. It is never
// persisted; the outcome is recorded as an audit note on the order.
type TrackingPush struct {
	LocalOrderID   uuid.UUID
	Origin         order.Origin
	TrackingNumber string
	Carrier        string
}
