package persistence

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/oms/backend/internal/domain/order"
	"github.com/oms/backend/internal/domain/sync"
	"github.com/oms/backend/internal/infrastructure/persistence/models"
)

// GormCursorRepository implements sync.CursorRepository using GORM
type GormCursorRepository struct {
	db *gorm.DB
}

// NewGormCursorRepository creates a new GormCursorRepository
func NewGormCursorRepository(db *gorm.DB) *GormCursorRepository {
	return &GormCursorRepository{db: db}
}

// Get returns the cursor for a platform. A missing row maps to a cursor
// with zero LastImportAt rather than an error: no import has run yet.
func (r *GormCursorRepository) Get(ctx context.Context, platform order.Source) (*sync.ImportCursor, error) {
	var model models.SyncCursorModel
	if err := dbFromContext(ctx, r.db).First(&model, "platform = ?", platform.String()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &sync.ImportCursor{Platform: platform}, nil
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// Advance moves the cursor forward, creating the row lazily on first
// import. Moving backwards is a no-op, so a stale concurrent run can
// never rewind a fresher cursor.
func (r *GormCursorRepository) Advance(ctx context.Context, platform order.Source, to time.Time) error {
	db := dbFromContext(ctx, r.db)

	var model models.SyncCursorModel
	err := db.First(&model, "platform = ?", platform.String()).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return db.Create(&models.SyncCursorModel{
			Platform:     platform.String(),
			LastImportAt: to,
			UpdatedAt:    time.Now(),
		}).Error
	case err != nil:
		return err
	}

	if !to.After(model.LastImportAt) {
		return nil
	}
	// guard in SQL as well so a racing writer cannot rewind the cursor
	return db.Model(&models.SyncCursorModel{}).
		Where("platform = ? AND last_import_at < ?", platform.String(), to).
		Updates(map[string]any{
			"last_import_at": to,
			"updated_at":     time.Now(),
		}).Error
}

// Ensure GormCursorRepository implements sync.CursorRepository
var _ sync.CursorRepository = (*GormCursorRepository)(nil)
