package order

// Source identifies which external platform an order was imported from
type Source string

const (
	// SourceNone marks an order created locally, not imported
	SourceNone Source = "none"
	// SourceWooCommerce marks an order imported from a WooCommerce store
	SourceWooCommerce Source = "woocommerce"
	// SourceBigCommerce marks an order imported from BigCommerce
	SourceBigCommerce Source = "bigcommerce"
	// SourceShopify marks an order imported from Shopify
	SourceShopify Source = "shopify"
)

// IsValid returns true if the source is known
func (s Source) IsValid() bool {
	switch s {
	case SourceNone, SourceWooCommerce, SourceBigCommerce, SourceShopify:
		return true
	default:
		return false
	}
}

// String returns the string representation of Source
func (s Source) String() string {
	return string(s)
}

// IsExternal returns true if the source refers to a remote platform
func (s Source) IsExternal() bool {
	return s.IsValid() && s != SourceNone
}

// Origin tags an imported order with the platform it came from.
// At most one order may carry a given (Source, ExternalID) pair; the
// tag is immutable once the order has been persisted.
type Origin struct {
	// Source is the originating platform
	Source Source
	// ExternalID is the platform-native order identifier (opaque)
	ExternalID string
	// ExternalOrderNumber is the human-readable order number on the platform
	ExternalOrderNumber string
}

// LocalOrigin returns the origin tag for orders created locally
func LocalOrigin() Origin {
	return Origin{Source: SourceNone}
}

// IsExternal returns true if the order was imported from a platform
func (o Origin) IsExternal() bool {
	return o.Source.IsExternal() && o.ExternalID != ""
}
