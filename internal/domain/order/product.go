package order

import (
	"errors"

	"github.com/shopspring/decimal"

	"github.com/oms/backend/internal/domain/shared"
)

var (
	ErrMissingSKU         = errors.New("order: product SKU is required")
	ErrMissingProductName = errors.New("order: product name is required")
)

// Product is the minimal catalog entry line items resolve against.
// Products auto-created during import are flagged as placeholders so
// the catalog can surface them for review.
type Product struct {
	shared.BaseEntity

	Name        string
	SKU         string
	Price       decimal.Decimal
	Placeholder bool
}

// NewProduct creates a catalog product
func NewProduct(name, sku string, price decimal.Decimal) (*Product, error) {
	if sku == "" {
		return nil, ErrMissingSKU
	}
	if name == "" {
		return nil, ErrMissingProductName
	}
	return &Product{
		BaseEntity: shared.NewBaseEntity(),
		Name:       name,
		SKU:        sku,
		Price:      price,
	}, nil
}

// NewPlaceholderProduct creates a placeholder product for an unresolved SKU
func NewPlaceholderProduct(name, sku string, price decimal.Decimal) (*Product, error) {
	p, err := NewProduct(name, sku, price)
	if err != nil {
		return nil, err
	}
	p.Placeholder = true
	return p, nil
}
