package sync

import (
	"context"
	"time"

	"github.com/oms/backend/internal/domain/order"
)

// ImportCursor is the per-platform watermark of the last successful fetch
type ImportCursor struct {
	Platform     order.Source
	LastImportAt time.Time
	UpdatedAt    time.Time
}

// CursorRepository persists per-platform import cursors.
// Advance is monotonic: a cursor never moves backwards, even if handed
// an older timestamp by a stale concurrent run.
type CursorRepository interface {
	// Get returns the cursor for a platform; a zero LastImportAt means
	// no import has completed yet
	Get(ctx context.Context, platform order.Source) (*ImportCursor, error)

	// Advance moves the cursor forward to the given time. Creates the
	// record lazily on first import. Moving backwards is a no-op.
	Advance(ctx context.Context, platform order.Source, to time.Time) error
}

// EffectiveFetchFrom computes the timestamp a fetch must start from:
// the stored cursor floored by the platform's absolute minimum date.
// The floor holds even when the cursor is unset or corrupted.
func EffectiveFetchFrom(cursor *ImportCursor, minimumDate time.Time) time.Time {
	if cursor == nil || cursor.LastImportAt.Before(minimumDate) {
		return minimumDate
	}
	return cursor.LastImportAt
}
