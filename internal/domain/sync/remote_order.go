package sync

import (
	"time"

	"github.com/shopspring/decimal"
)

// RemoteAddress is a contact/address block as reported by the platform.
// Fields the platform omits stay empty strings.
type RemoteAddress struct {
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

// RemoteLineItem is an ordered product line as reported by the platform
type RemoteLineItem struct {
	Name      string
	SKU       string
	Quantity  decimal.Decimal
	UnitPrice decimal.Decimal
}

// RemoteShippingLine is a shipping charge as reported by the platform
type RemoteShippingLine struct {
	Title      string
	MethodCode string
	Amount     decimal.Decimal
}

// RemoteFeeLine is an additional fee as reported by the platform
type RemoteFeeLine struct {
	Name   string
	Amount decimal.Decimal
}

// RemoteDiscount is an applied discount code as reported by the platform
type RemoteDiscount struct {
	Code   string
	Amount decimal.Decimal
}

// RemoteOrder is the platform-neutral order shape every adapter produces.
// It lives for one fetch call: constructed by the adapter, consumed by
// the materializer, then discarded.
type RemoteOrder struct {
	// ExternalID is the platform-native order identifier (opaque)
	ExternalID string
	// Number is the human-readable order number on the platform
	Number string
	// Status is the order status in the platform's own vocabulary
	Status string
	// CreatedAt is when the order was created on the platform
	CreatedAt time.Time

	Billing      RemoteAddress
	Shipping     *RemoteAddress
	CustomerNote string

	Items         []RemoteLineItem
	ShippingLines []RemoteShippingLine
	FeeLines      []RemoteFeeLine
	Discounts     []RemoteDiscount

	// Totals are the platform's reported arithmetic, trusted as-is
	TaxTotal      decimal.Decimal
	ShippingTotal decimal.Decimal
	GrandTotal    decimal.Decimal

	PaymentMethod string
}

// ShippingOrBilling returns the shipping address, falling back to billing
// when the platform reported none
func (o *RemoteOrder) ShippingOrBilling() RemoteAddress {
	if o.Shipping != nil {
		return *o.Shipping
	}
	return o.Billing
}
