package order

import (
	"context"

	"github.com/google/uuid"
)

// Repository defines persistence operations for the LocalOrder aggregate
type Repository interface {
	// Create persists a new order with its line items.
	// A unique-constraint violation on the origin tag is reported as
	// shared.ErrAlreadyExists so concurrent imports stay idempotent.
	Create(ctx context.Context, o *LocalOrder) error

	// FindByID loads an order with its line items
	FindByID(ctx context.Context, id uuid.UUID) (*LocalOrder, error)

	// FindByOrigin loads an order by its origin tag
	FindByOrigin(ctx context.Context, source Source, externalID string) (*LocalOrder, error)

	// ExistsByOrigin reports whether an order carrying the given
	// (source, external id) pair has already been materialized
	ExistsByOrigin(ctx context.Context, source Source, externalID string) (bool, error)

	// Update persists mutable order state (status, tracking)
	Update(ctx context.Context, o *LocalOrder) error

	// AddNote appends an audit note to an order
	AddNote(ctx context.Context, orderID uuid.UUID, text string) error

	// FindNotes returns an order's audit notes, oldest first
	FindNotes(ctx context.Context, orderID uuid.UUID) ([]Note, error)
}

// ProductRepository defines persistence operations for catalog products
type ProductRepository interface {
	// FindBySKU finds a product by SKU, returning shared.ErrNotFound on miss
	FindBySKU(ctx context.Context, sku string) (*Product, error)

	// Create persists a new product
	Create(ctx context.Context, p *Product) error
}
