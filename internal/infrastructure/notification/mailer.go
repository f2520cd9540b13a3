package notification

import (
	"context"

	"go.uber.org/zap"

	"github.com/oms/backend/internal/domain/order"
)

// LoggingMailer is a Notifier that records would-be customer mail in
// the application log. It stands in for a real mail transport in
// development and in deployments where outbound mail is handled by a
// separate system.
type LoggingMailer struct {
	logger *zap.Logger
}

// NewLoggingMailer creates a new logging mailer
func NewLoggingMailer(logger *zap.Logger) *LoggingMailer {
	return &LoggingMailer{logger: logger.Named("mailer")}
}

// OrderCreated logs the order confirmation that would be sent
func (m *LoggingMailer) OrderCreated(_ context.Context, o *order.LocalOrder) error {
	m.logger.Info("order confirmation",
		zap.String("order_id", o.ID.String()),
		zap.String("order_number", o.Number),
		zap.String("recipient", o.Billing.Email),
	)
	return nil
}

// OrderShipped logs the shipment notification that would be sent
func (m *LoggingMailer) OrderShipped(_ context.Context, o *order.LocalOrder) error {
	m.logger.Info("shipment notification",
		zap.String("order_id", o.ID.String()),
		zap.String("order_number", o.Number),
		zap.String("recipient", o.Billing.Email),
		zap.String("tracking_number", o.TrackingNumber),
		zap.String("tracking_carrier", o.TrackingCarrier),
	)
	return nil
}

// Ensure LoggingMailer implements Notifier
var _ Notifier = (*LoggingMailer)(nil)
