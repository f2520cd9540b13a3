package order

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func wooOrigin(externalID string) Origin {
	return Origin{Source: SourceWooCommerce, ExternalID: externalID, ExternalOrderNumber: "501"}
}

func TestNewImportedOrder(t *testing.T) {
	placedAt := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)

	o, err := NewImportedOrder("501", StatusProcessing, wooOrigin("wc_501"), placedAt)
	require.NoError(t, err)
	assert.True(t, o.Imported)
	assert.True(t, o.IsImported())
	assert.Equal(t, placedAt, o.PlacedAt)
	assert.NotEqual(t, uuid.Nil, o.ID)
}

func TestNewImportedOrder_Validation(t *testing.T) {
	_, err := NewImportedOrder("", StatusProcessing, wooOrigin("wc_1"), time.Now())
	assert.ErrorIs(t, err, ErrMissingOrderNumber)

	_, err = NewImportedOrder("501", Status("weird"), wooOrigin("wc_1"), time.Now())
	assert.ErrorIs(t, err, ErrInvalidStatus)

	_, err = NewImportedOrder("501", StatusProcessing, LocalOrigin(), time.Now())
	assert.ErrorIs(t, err, ErrOriginImmutable)

	_, err = NewImportedOrder("501", StatusProcessing, Origin{Source: SourceShopify}, time.Now())
	assert.ErrorIs(t, err, ErrOriginImmutable, "external source without an external id is not a valid origin")
}

func TestNewImportedOrder_ZeroPlacedAtDefaultsToNow(t *testing.T) {
	o, err := NewImportedOrder("501", StatusPending, wooOrigin("wc_2"), time.Time{})
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now(), o.PlacedAt, time.Second)
}

func TestAddItem_ComputesLineTotal(t *testing.T) {
	o, err := NewImportedOrder("501", StatusProcessing, wooOrigin("wc_3"), time.Now())
	require.NoError(t, err)

	o.AddItem(uuid.New(), "Widget", "ABC", decimal.NewFromInt(2), decimal.RequireFromString("10.00"))

	require.Len(t, o.Items, 1)
	assert.Equal(t, "20", o.Items[0].Total.String())
}

func TestMarkShipped(t *testing.T) {
	o, err := NewImportedOrder("501", StatusProcessing, wooOrigin("wc_4"), time.Now())
	require.NoError(t, err)

	require.NoError(t, o.MarkShipped("1Z999", "ups"))
	assert.Equal(t, StatusShipped, o.Status)
	assert.Equal(t, "1Z999", o.TrackingNumber)
	assert.Equal(t, "ups", o.TrackingCarrier)
	assert.True(t, o.HasTracking())

	events := o.Events()
	require.Len(t, events, 1)
	shipped, ok := events[0].(*OrderShippedEvent)
	require.True(t, ok)
	assert.Equal(t, EventTypeOrderShipped, shipped.EventType())
	assert.Equal(t, o.ID, shipped.AggregateID())
	assert.Equal(t, SourceWooCommerce, shipped.OriginSource)
	assert.Equal(t, "1Z999", shipped.TrackingNumber)

	o.ClearEvents()
	assert.Empty(t, o.Events())
}

func TestMarkShipped_RequiresTrackingNumber(t *testing.T) {
	o, err := NewImportedOrder("501", StatusProcessing, wooOrigin("wc_5"), time.Now())
	require.NoError(t, err)

	assert.ErrorIs(t, o.MarkShipped("", "ups"), ErrMissingTracking)
	assert.Equal(t, StatusProcessing, o.Status)
}

func TestMarkShipped_InvalidTransition(t *testing.T) {
	o, err := NewImportedOrder("501", StatusCancelled, wooOrigin("wc_6"), time.Now())
	require.NoError(t, err)

	assert.ErrorIs(t, o.MarkShipped("1Z999", "ups"), ErrInvalidTransition)

	shipped, err := NewImportedOrder("502", StatusProcessing, wooOrigin("wc_7"), time.Now())
	require.NoError(t, err)
	require.NoError(t, shipped.MarkShipped("FIRST", "ups"))
	assert.ErrorIs(t, shipped.MarkShipped("SECOND", "ups"), ErrInvalidTransition)
}

func TestStatusTransitions(t *testing.T) {
	assert.True(t, StatusPending.CanTransitionTo(StatusShipped))
	assert.True(t, StatusOnHold.CanTransitionTo(StatusShipped))
	assert.True(t, StatusShipped.CanTransitionTo(StatusCompleted))
	assert.False(t, StatusShipped.CanTransitionTo(StatusProcessing))
	assert.False(t, StatusCompleted.CanTransitionTo(StatusShipped))
	assert.False(t, StatusRefunded.CanTransitionTo(StatusShipped))
}

func TestOriginIsExternal(t *testing.T) {
	assert.True(t, wooOrigin("wc_1").IsExternal())
	assert.False(t, LocalOrigin().IsExternal())
	assert.False(t, Origin{Source: Source("etsy"), ExternalID: "x"}.IsExternal())
}

func TestNewPlaceholderProduct(t *testing.T) {
	p, err := NewPlaceholderProduct("Widget", "ABC", decimal.NewFromInt(10))
	require.NoError(t, err)
	assert.True(t, p.Placeholder)

	_, err = NewPlaceholderProduct("Widget", "", decimal.Zero)
	assert.ErrorIs(t, err, ErrMissingSKU)

	_, err = NewProduct("", "ABC", decimal.Zero)
	assert.ErrorIs(t, err, ErrMissingProductName)
}
