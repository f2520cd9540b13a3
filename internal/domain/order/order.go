package order

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/oms/backend/internal/domain/shared"
)

var (
	ErrMissingOrderNumber = errors.New("order: order number is required")
	ErrNoLineItems        = errors.New("order: at least one line item is required")
	ErrInvalidStatus      = errors.New("order: invalid status")
	ErrInvalidTransition  = errors.New("order: status transition not allowed")
	ErrMissingTracking    = errors.New("order: tracking number is required to ship")
	ErrOriginImmutable    = errors.New("order: origin tag cannot be changed once set")
)

// Address is a postal address snapshot copied verbatim from the source.
// Missing fields stay empty strings.
type Address struct {
	FirstName  string
	LastName   string
	Company    string
	Line1      string
	Line2      string
	City       string
	State      string
	PostalCode string
	Country    string
	Email      string
	Phone      string
}

// LineItem is a purchased product line on an order
type LineItem struct {
	ID        uuid.UUID
	ProductID uuid.UUID
	Name      string
	SKU       string
	Quantity  decimal.Decimal
	UnitPrice decimal.Decimal
	Total     decimal.Decimal
}

// ShippingLine is a shipping charge on an order
type ShippingLine struct {
	Title      string
	MethodCode string
	Amount     decimal.Decimal
}

// FeeLine is an additional fee on an order
type FeeLine struct {
	Name   string
	Amount decimal.Decimal
}

// DiscountLine is an applied discount code on an order
type DiscountLine struct {
	Code   string
	Amount decimal.Decimal
}

// Note is an audit note attached to an order (sync-back results,
// import diagnostics). Notes are append-only.
type Note struct {
	ID        uuid.UUID
	OrderID   uuid.UUID
	Text      string
	CreatedAt time.Time
}

// LocalOrder is the canonical order aggregate. Imported orders carry an
// immutable Origin tag; status and tracking fields are mutated later by
// the surrounding order-management flows.
type LocalOrder struct {
	shared.BaseEntity

	Number        string
	Status        Status
	Billing       Address
	Shipping      Address
	CustomerNote  string
	Items         []LineItem
	ShippingLines []ShippingLine
	FeeLines      []FeeLine
	Discounts     []DiscountLine
	TaxTotal      decimal.Decimal
	ShippingTotal decimal.Decimal
	GrandTotal    decimal.Decimal
	PaymentMethod string
	Origin        Origin
	Imported      bool
	AssigneeID    *uuid.UUID
	// PlacedAt is when the order was created on the source platform
	// (or locally for non-imported orders)
	PlacedAt time.Time

	TrackingNumber  string
	TrackingCarrier string

	events []shared.DomainEvent
}

// NewImportedOrder constructs an order materialized from a remote platform order
func NewImportedOrder(number string, status Status, origin Origin, placedAt time.Time) (*LocalOrder, error) {
	if number == "" {
		return nil, ErrMissingOrderNumber
	}
	if !status.IsValid() {
		return nil, ErrInvalidStatus
	}
	if !origin.IsExternal() {
		return nil, ErrOriginImmutable
	}
	if placedAt.IsZero() {
		placedAt = time.Now()
	}
	return &LocalOrder{
		BaseEntity: shared.NewBaseEntity(),
		Number:     number,
		Status:     status,
		Origin:     origin,
		Imported:   true,
		PlacedAt:   placedAt,
	}, nil
}

// AddItem appends a line item to the order
func (o *LocalOrder) AddItem(productID uuid.UUID, name, sku string, quantity, unitPrice decimal.Decimal) {
	o.Items = append(o.Items, LineItem{
		ID:        uuid.New(),
		ProductID: productID,
		Name:      name,
		SKU:       sku,
		Quantity:  quantity,
		UnitPrice: unitPrice,
		Total:     unitPrice.Mul(quantity),
	})
}

// IsImported returns true if the order was materialized from a remote platform
func (o *LocalOrder) IsImported() bool {
	return o.Imported && o.Origin.IsExternal()
}

// HasTracking returns true if shipment tracking data has been recorded
func (o *LocalOrder) HasTracking() bool {
	return o.TrackingNumber != ""
}

// MarkShipped records tracking data, transitions the order to shipped and
// emits an OrderShippedEvent. The remote sync-back is handled elsewhere;
// local state is authoritative regardless of the remote outcome.
func (o *LocalOrder) MarkShipped(trackingNumber, carrier string) error {
	if trackingNumber == "" {
		return ErrMissingTracking
	}
	if !o.Status.CanTransitionTo(StatusShipped) {
		return ErrInvalidTransition
	}
	o.Status = StatusShipped
	o.TrackingNumber = trackingNumber
	o.TrackingCarrier = carrier
	o.Touch()
	o.addEvent(NewOrderShippedEvent(o))
	return nil
}

// addEvent records a domain event for later publication
func (o *LocalOrder) addEvent(event shared.DomainEvent) {
	o.events = append(o.events, event)
}

// Events returns the recorded domain events
func (o *LocalOrder) Events() []shared.DomainEvent {
	return o.events
}

// ClearEvents clears the recorded domain events after publication
func (o *LocalOrder) ClearEvents() {
	o.events = nil
}
