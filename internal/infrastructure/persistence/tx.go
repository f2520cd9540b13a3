package persistence

import (
	"context"

	"gorm.io/gorm"
)

type txContextKey struct{}

// TxManager runs functions inside a database transaction. The
// transactional handle travels in the context so repositories join the
// surrounding transaction transparently.
type TxManager struct {
	db *gorm.DB
}

// NewTxManager creates a new transaction manager
func NewTxManager(db *gorm.DB) *TxManager {
	return &TxManager{db: db}
}

// Do executes fn within a transaction. Repositories called with the
// derived context operate on the transaction; any error rolls back.
func (m *TxManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	if _, ok := ctx.Value(txContextKey{}).(*gorm.DB); ok {
		// already inside a transaction, join it
		return fn(ctx)
	}
	return m.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(context.WithValue(ctx, txContextKey{}, tx))
	})
}

// dbFromContext returns the transactional handle when inside TxManager.Do,
// the fallback connection otherwise
func dbFromContext(ctx context.Context, fallback *gorm.DB) *gorm.DB {
	if tx, ok := ctx.Value(txContextKey{}).(*gorm.DB); ok {
		return tx
	}
	return fallback.WithContext(ctx)
}
