package order

// Status represents the canonical order status, independent of whichever
// platform the order originated from.
type Status string

const (
	// StatusPending indicates the order is awaiting payment or review
	StatusPending Status = "pending"
	// StatusProcessing indicates payment received, order being prepared
	StatusProcessing Status = "processing"
	// StatusOnHold indicates the order is paused pending manual action
	StatusOnHold Status = "on-hold"
	// StatusShipped indicates the order has left the warehouse
	StatusShipped Status = "shipped"
	// StatusCompleted indicates the order is fulfilled and closed
	StatusCompleted Status = "completed"
	// StatusCancelled indicates the order was cancelled before shipping
	StatusCancelled Status = "cancelled"
	// StatusRefunded indicates the order was refunded
	StatusRefunded Status = "refunded"
)

// IsValid returns true if the status is a known canonical status
func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusProcessing, StatusOnHold, StatusShipped,
		StatusCompleted, StatusCancelled, StatusRefunded:
		return true
	default:
		return false
	}
}

// String returns the string representation of Status
func (s Status) String() string {
	return string(s)
}

// IsFinal returns true if the status is a terminal state
func (s Status) IsFinal() bool {
	switch s {
	case StatusCompleted, StatusCancelled, StatusRefunded:
		return true
	default:
		return false
	}
}

// CanTransitionTo reports whether the status machine allows moving to target.
// Only the subset relevant to shipment handling is modelled here; other
// transitions belong to the surrounding order-management flows.
func (s Status) CanTransitionTo(target Status) bool {
	switch s {
	case StatusPending:
		return target == StatusProcessing || target == StatusOnHold ||
			target == StatusShipped || target == StatusCancelled || target == StatusRefunded
	case StatusProcessing:
		return target == StatusOnHold || target == StatusShipped ||
			target == StatusCancelled || target == StatusRefunded
	case StatusOnHold:
		return target == StatusProcessing || target == StatusShipped || target == StatusCancelled
	case StatusShipped:
		return target == StatusCompleted
	default:
		return false
	}
}
