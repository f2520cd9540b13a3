package tracking

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/oms/backend/internal/domain/order"
	"github.com/oms/backend/internal/domain/sync"
)

// Dispatcher pushes shipment tracking back to the platform an order was
// imported from. One attempt per shipped transition, no retry, no state
// rollback: the local order stays shipped whatever the platform says,
// and the outcome lands as an audit note on the order.
type Dispatcher struct {
	registry sync.AdapterRegistry
	orders   order.Repository
	logger   *zap.Logger
}

// NewDispatcher creates a new tracking sync-back dispatcher
func NewDispatcher(registry sync.AdapterRegistry, orders order.Repository, logger *zap.Logger) *Dispatcher {
	return &Dispatcher{
		registry: registry,
		orders:   orders,
		logger:   logger.Named("tracking"),
	}
}

// Dispatch attempts the sync-back for one order. Locally created orders
// are a silent no-op. Push failures are recorded as notes and swallowed;
// the returned error covers only failures to load the order itself.
func (d *Dispatcher) Dispatch(ctx context.Context, orderID uuid.UUID) error {
	o, err := d.orders.FindByID(ctx, orderID)
	if err != nil {
		return fmt.Errorf("loading order for tracking push: %w", err)
	}

	if !o.IsImported() {
		return nil
	}

	push := sync.TrackingPush{
		LocalOrderID:   o.ID,
		Origin:         o.Origin,
		TrackingNumber: o.TrackingNumber,
		Carrier:        o.TrackingCarrier,
	}

	if push.TrackingNumber == "" {
		d.addNote(ctx, o.ID, fmt.Sprintf("tracking push to %s skipped: no tracking number recorded", push.Origin.Source))
		return nil
	}

	adapter, err := d.registry.Get(push.Origin.Source)
	if err != nil {
		d.addNote(ctx, o.ID, fmt.Sprintf("tracking push to %s skipped: credentials not configured", push.Origin.Source))
		return nil
	}

	if err := adapter.PushTracking(ctx, push.Origin.ExternalID, push.TrackingNumber, push.Carrier); err != nil {
		d.logger.Warn("tracking push failed",
			zap.String("order_id", o.ID.String()),
			zap.String("platform", push.Origin.Source.String()),
			zap.String("external_id", push.Origin.ExternalID),
			zap.Error(err),
		)
		d.addNote(ctx, o.ID, fmt.Sprintf("tracking push to %s failed: %v", push.Origin.Source, err))
		return nil
	}

	d.logger.Info("tracking pushed",
		zap.String("order_id", o.ID.String()),
		zap.String("platform", push.Origin.Source.String()),
		zap.String("external_id", push.Origin.ExternalID),
		zap.String("tracking_number", push.TrackingNumber),
	)
	d.addNote(ctx, o.ID, fmt.Sprintf("tracking %s (%s) pushed to %s", push.TrackingNumber, push.Carrier, push.Origin.Source))
	return nil
}

// addNote records the push outcome; a note write failure only logs
func (d *Dispatcher) addNote(ctx context.Context, orderID uuid.UUID, text string) {
	if err := d.orders.AddNote(ctx, orderID, text); err != nil {
		d.logger.Error("failed to record tracking push note",
			zap.String("order_id", orderID.String()),
			zap.Error(err),
		)
	}
}
