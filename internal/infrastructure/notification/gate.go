package notification

import (
	"context"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/oms/backend/internal/domain/order"
)

// Notifier sends customer-facing notifications for order lifecycle
// moments. Implementations must be safe for concurrent use.
type Notifier interface {
	// OrderCreated notifies the customer that their order was received
	OrderCreated(ctx context.Context, o *order.LocalOrder) error

	// OrderShipped notifies the customer that their order is on its way
	OrderShipped(ctx context.Context, o *order.LocalOrder) error
}

type suppressKey struct{}

// suppressionScope marks a context region in which customer-facing
// notifications must not fire. The released flag keeps a leaked context
// from suppressing work that outlives the scope.
type suppressionScope struct {
	released atomic.Bool
}

// Gate wraps a Notifier and silences it inside suppression scopes.
// Imported orders already happened from the customer's point of view;
// materializing them locally must not trigger a second round of
// confirmation mail.
type Gate struct {
	notifier Notifier
	logger   *zap.Logger
}

// NewGate creates a notification gate over the given notifier
func NewGate(notifier Notifier, logger *zap.Logger) *Gate {
	return &Gate{
		notifier: notifier,
		logger:   logger.Named("notification"),
	}
}

// Suppress derives a context whose notifications are silenced until
// release is called. Callers defer release so the scope closes on every
// exit path.
func (g *Gate) Suppress(ctx context.Context) (context.Context, func()) {
	scope := &suppressionScope{}
	release := func() { scope.released.Store(true) }
	return context.WithValue(ctx, suppressKey{}, scope), release
}

// Suppressed reports whether the context is inside an active
// suppression scope
func Suppressed(ctx context.Context) bool {
	scope, ok := ctx.Value(suppressKey{}).(*suppressionScope)
	return ok && !scope.released.Load()
}

// OrderCreated forwards to the notifier unless suppressed
func (g *Gate) OrderCreated(ctx context.Context, o *order.LocalOrder) error {
	if Suppressed(ctx) {
		g.logger.Debug("order created notification suppressed",
			zap.String("order_id", o.ID.String()),
			zap.String("origin_source", o.Origin.Source.String()),
		)
		return nil
	}
	return g.notifier.OrderCreated(ctx, o)
}

// OrderShipped forwards to the notifier unless suppressed
func (g *Gate) OrderShipped(ctx context.Context, o *order.LocalOrder) error {
	if Suppressed(ctx) {
		g.logger.Debug("order shipped notification suppressed",
			zap.String("order_id", o.ID.String()),
		)
		return nil
	}
	return g.notifier.OrderShipped(ctx, o)
}

// Ensure Gate itself satisfies Notifier so it can stand in anywhere
var _ Notifier = (*Gate)(nil)
