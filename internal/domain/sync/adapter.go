package sync

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/oms/backend/internal/domain/order"
)

var (
	// ErrCredentialsNotConfigured means the platform has no usable credentials;
	// its import reports zero orders without affecting sibling platforms
	ErrCredentialsNotConfigured = errors.New("sync: credentials not configured")
	// ErrPlatformUnavailable wraps transport-level failures (timeout, DNS)
	ErrPlatformUnavailable = errors.New("sync: platform temporarily unavailable")
	// ErrPlatformRequestFailed wraps non-2xx platform responses
	ErrPlatformRequestFailed = errors.New("sync: platform request failed")
	// ErrInvalidResponse means the platform returned an unparseable payload
	ErrInvalidResponse = errors.New("sync: invalid platform response")
	// ErrUnknownPlatform means no adapter is registered for the source
	ErrUnknownPlatform = errors.New("sync: unknown platform")
	// ErrTrackingPushFailed wraps a failed fulfillment/shipment call
	ErrTrackingPushFailed = errors.New("sync: tracking push failed")
)

// FetchResult is the outcome of one fetch pass over a platform.
// Orders older than the platform's minimum date are filtered out by the
// adapter itself and counted as skipped, never returned.
type FetchResult struct {
	Orders  []RemoteOrder
	Skipped int
}

// PlatformAdapter translates one platform's REST API into RemoteOrders
// and performs the reverse translation for tracking payloads.
//
// Adapters paginate internally and are restartable by timestamp:
// re-invoking FetchOrders with an unchanged since value is safe because
// the dedup guard absorbs re-delivery. Any transport error is returned
// as a wrapped sentinel with a human-readable message; an adapter never
// raises a fault that would abort sibling platforms' imports.
type PlatformAdapter interface {
	// Platform returns the source this adapter handles
	Platform() order.Source

	// MinimumDate returns the earliest-eligible-order cutover boundary.
	// Orders created before it are never imported, regardless of cursor.
	MinimumDate() time.Time

	// FetchOrders returns all orders created since the given time,
	// optionally filtered by platform-native statuses
	FetchOrders(ctx context.Context, since time.Time, statusFilter []string) (*FetchResult, error)

	// PushTracking sends tracking number and carrier for a previously
	// imported order back to the platform. Single best-effort attempt,
	// no internal retry.
	PushTracking(ctx context.Context, externalID, trackingNumber, carrier string) error

	// TestConnection performs one lightweight call to verify credentials
	TestConnection(ctx context.Context) error
}

// AdapterRegistry provides access to the configured platform adapters
type AdapterRegistry interface {
	// Get returns the adapter for the given source
	Get(source order.Source) (PlatformAdapter, error)

	// List returns all registered adapters in a stable order
	List() []PlatformAdapter
}

// StaticAdapterRegistry is a fixed, registration-time adapter registry
type StaticAdapterRegistry struct {
	adapters []PlatformAdapter
	bySource map[order.Source]PlatformAdapter
}

// NewAdapterRegistry creates a registry over the given adapters
func NewAdapterRegistry(adapters ...PlatformAdapter) *StaticAdapterRegistry {
	r := &StaticAdapterRegistry{
		adapters: adapters,
		bySource: make(map[order.Source]PlatformAdapter, len(adapters)),
	}
	for _, a := range adapters {
		r.bySource[a.Platform()] = a
	}
	return r
}

// Get returns the adapter for the given source
func (r *StaticAdapterRegistry) Get(source order.Source) (PlatformAdapter, error) {
	a, ok := r.bySource[source]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownPlatform, source)
	}
	return a, nil
}

// List returns all registered adapters in registration order
func (r *StaticAdapterRegistry) List() []PlatformAdapter {
	out := make([]PlatformAdapter, len(r.adapters))
	copy(out, r.adapters)
	return out
}

// Ensure StaticAdapterRegistry implements AdapterRegistry
var _ AdapterRegistry = (*StaticAdapterRegistry)(nil)
