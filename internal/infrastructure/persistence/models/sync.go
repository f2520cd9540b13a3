package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/oms/backend/internal/domain/order"
	"github.com/oms/backend/internal/domain/sync"
)

// SyncCursorModel is the persistence model for per-platform import cursors
type SyncCursorModel struct {
	Platform     string    `gorm:"type:varchar(20);primary_key"`
	LastImportAt time.Time `gorm:"not null"`
	UpdatedAt    time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (SyncCursorModel) TableName() string {
	return "sync_cursors"
}

// ToDomain converts the persistence model to a domain ImportCursor
func (m *SyncCursorModel) ToDomain() *sync.ImportCursor {
	return &sync.ImportCursor{
		Platform:     order.Source(m.Platform),
		LastImportAt: m.LastImportAt,
		UpdatedAt:    m.UpdatedAt,
	}
}

// ImportLogModel is the persistence model for append-only import log entries
type ImportLogModel struct {
	ID             uuid.UUID `gorm:"type:uuid;primary_key"`
	Trigger        string    `gorm:"type:varchar(20);not null"`
	Platform       string    `gorm:"type:varchar(20);not null"`
	OrdersImported int       `gorm:"not null;default:0"`
	OrdersSkipped  int       `gorm:"not null;default:0"`
	Status         string    `gorm:"type:varchar(20);not null"`
	Message        string    `gorm:"type:text"`
	RanAt          time.Time `gorm:"not null;index:idx_import_logs_ran_at,sort:desc"`
}

// TableName returns the table name for GORM
func (ImportLogModel) TableName() string {
	return "import_logs"
}

// ToDomain converts the persistence model to a domain ImportLogEntry
func (m *ImportLogModel) ToDomain() sync.ImportLogEntry {
	return sync.ImportLogEntry{
		ID:             m.ID,
		Trigger:        sync.Trigger(m.Trigger),
		Platform:       m.Platform,
		OrdersImported: m.OrdersImported,
		OrdersSkipped:  m.OrdersSkipped,
		Status:         sync.RunStatus(m.Status),
		Message:        m.Message,
		RanAt:          m.RanAt,
	}
}

// ImportLogModelFromDomain creates a new persistence model from a domain entry
func ImportLogModelFromDomain(e *sync.ImportLogEntry) *ImportLogModel {
	return &ImportLogModel{
		ID:             e.ID,
		Trigger:        e.Trigger.String(),
		Platform:       e.Platform,
		OrdersImported: e.OrdersImported,
		OrdersSkipped:  e.OrdersSkipped,
		Status:         string(e.Status),
		Message:        e.Message,
		RanAt:          e.RanAt,
	}
}
