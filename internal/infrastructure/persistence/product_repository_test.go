package persistence

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oms/backend/internal/domain/order"
	"github.com/oms/backend/internal/domain/shared"
)

func TestGormProductRepository_FindBySKU(t *testing.T) {
	db := newTestDB(t)
	repo := NewGormProductRepository(db)
	ctx := context.Background()

	_, err := repo.FindBySKU(ctx, "WID-1")
	assert.ErrorIs(t, err, shared.ErrNotFound)

	p, err := order.NewProduct("Widget", "WID-1", decimal.NewFromInt(10))
	require.NoError(t, err)
	require.NoError(t, repo.Create(ctx, p))

	found, err := repo.FindBySKU(ctx, "WID-1")
	require.NoError(t, err)
	assert.Equal(t, p.ID, found.ID)
	assert.Equal(t, "Widget", found.Name)
	assert.False(t, found.Placeholder)
}

func TestGormProductRepository_Create_DuplicateSKU(t *testing.T) {
	db := newTestDB(t)
	repo := NewGormProductRepository(db)
	ctx := context.Background()

	first, err := order.NewProduct("Widget", "WID-1", decimal.NewFromInt(10))
	require.NoError(t, err)
	require.NoError(t, repo.Create(ctx, first))

	second, err := order.NewPlaceholderProduct("Widget copy", "WID-1", decimal.Zero)
	require.NoError(t, err)
	err = repo.Create(ctx, second)
	assert.ErrorIs(t, err, shared.ErrAlreadyExists)
}
