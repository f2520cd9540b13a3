package persistence

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/oms/backend/internal/domain/sync"
	"github.com/oms/backend/internal/infrastructure/persistence/models"
)

// GormImportLogRepository implements sync.ImportLogRepository using GORM
type GormImportLogRepository struct {
	db *gorm.DB
}

// NewGormImportLogRepository creates a new GormImportLogRepository
func NewGormImportLogRepository(db *gorm.DB) *GormImportLogRepository {
	return &GormImportLogRepository{db: db}
}

// Append writes one log entry. Entries are never updated or deleted.
func (r *GormImportLogRepository) Append(ctx context.Context, entry *sync.ImportLogEntry) error {
	if entry.ID == uuid.Nil {
		entry.ID = uuid.New()
	}
	return dbFromContext(ctx, r.db).Create(models.ImportLogModelFromDomain(entry)).Error
}

// FindRecent returns the most recent entries, newest first
func (r *GormImportLogRepository) FindRecent(ctx context.Context, limit int) ([]sync.ImportLogEntry, error) {
	if limit <= 0 {
		limit = 20
	}

	var logModels []models.ImportLogModel
	if err := dbFromContext(ctx, r.db).
		Order("ran_at DESC").
		Limit(limit).
		Find(&logModels).Error; err != nil {
		return nil, err
	}

	entries := make([]sync.ImportLogEntry, 0, len(logModels))
	for i := range logModels {
		entries = append(entries, logModels[i].ToDomain())
	}
	return entries, nil
}

// Ensure GormImportLogRepository implements sync.ImportLogRepository
var _ sync.ImportLogRepository = (*GormImportLogRepository)(nil)
