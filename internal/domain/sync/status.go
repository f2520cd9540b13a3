package sync

import (
	"strings"

	"github.com/oms/backend/internal/domain/order"
)

// Per-platform lookup tables from remote status vocabulary to the
// canonical status enum. Unknown remote statuses map to pending: the
// import favours availability over strict fidelity, and the caller logs
// the raw value for review.

var wooCommerceStatusMap = map[string]order.Status{
	"pending":    order.StatusPending,
	"processing": order.StatusProcessing,
	"on-hold":    order.StatusOnHold,
	"completed":  order.StatusCompleted,
	"cancelled":  order.StatusCancelled,
	"refunded":   order.StatusRefunded,
	"failed":     order.StatusPending,
}

var bigCommerceStatusMap = map[string]order.Status{
	"pending":                      order.StatusPending,
	"awaiting payment":             order.StatusPending,
	"awaiting fulfillment":         order.StatusProcessing,
	"awaiting shipment":            order.StatusProcessing,
	"awaiting pickup":              order.StatusProcessing,
	"partially shipped":            order.StatusProcessing,
	"shipped":                      order.StatusShipped,
	"completed":                    order.StatusCompleted,
	"cancelled":                    order.StatusCancelled,
	"declined":                     order.StatusCancelled,
	"refunded":                     order.StatusRefunded,
	"partially refunded":           order.StatusRefunded,
	"manual verification required": order.StatusOnHold,
	"disputed":                     order.StatusOnHold,
}

// Shopify reports financial and fulfillment status separately; the
// adapter folds them into one token before mapping.
var shopifyStatusMap = map[string]order.Status{
	"pending":            order.StatusPending,
	"authorized":         order.StatusPending,
	"partially_paid":     order.StatusPending,
	"paid":               order.StatusProcessing,
	"unfulfilled":        order.StatusProcessing,
	"partial":            order.StatusProcessing,
	"fulfilled":          order.StatusShipped,
	"voided":             order.StatusCancelled,
	"refunded":           order.StatusRefunded,
	"partially_refunded": order.StatusRefunded,
}

// MapStatus maps a platform-native status string to the canonical enum.
// Lookup is case-insensitive; unmapped values default to pending.
func MapStatus(source order.Source, remote string) (order.Status, bool) {
	var table map[string]order.Status
	switch source {
	case order.SourceWooCommerce:
		table = wooCommerceStatusMap
	case order.SourceBigCommerce:
		table = bigCommerceStatusMap
	case order.SourceShopify:
		table = shopifyStatusMap
	default:
		return order.StatusPending, false
	}

	if mapped, ok := table[strings.ToLower(strings.TrimSpace(remote))]; ok {
		return mapped, true
	}
	return order.StatusPending, false
}
