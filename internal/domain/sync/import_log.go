package sync

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/oms/backend/internal/domain/order"
)

// Trigger identifies what started an import run
type Trigger string

const (
	// TriggerManual marks a run started by an administrator
	TriggerManual Trigger = "manual"
	// TriggerScheduled marks a run started by the periodic scheduler
	TriggerScheduled Trigger = "scheduled"
)

// IsValid returns true if the trigger is known
func (t Trigger) IsValid() bool {
	return t == TriggerManual || t == TriggerScheduled
}

// String returns the string representation of Trigger
func (t Trigger) String() string {
	return string(t)
}

// RunStatus is the overall outcome of an import run
type RunStatus string

const (
	RunStatusSuccess RunStatus = "success"
	RunStatusPartial RunStatus = "partial"
	RunStatusFailed  RunStatus = "failed"
)

// ImportLogEntry is one append-only record per import run, read by
// reporting tooling most-recent-first
type ImportLogEntry struct {
	ID             uuid.UUID
	Trigger        Trigger
	Platform       string // platform name or "all" for aggregate runs
	OrdersImported int
	OrdersSkipped  int
	Status         RunStatus
	Message        string
	RanAt          time.Time
}

// ImportLogRepository persists import log entries
type ImportLogRepository interface {
	// Append writes one log entry; entries are never updated or deleted
	Append(ctx context.Context, entry *ImportLogEntry) error

	// FindRecent returns the most recent entries, newest first
	FindRecent(ctx context.Context, limit int) ([]ImportLogEntry, error)
}

// PlatformImportResult is the per-platform slice of an import summary
type PlatformImportResult struct {
	Platform order.Source `json:"platform"`
	Imported int          `json:"imported"`
	Skipped  int          `json:"skipped"`
	Failed   int          `json:"failed"`
	Message  string       `json:"message,omitempty"`
}

// ImportSummary aggregates one import run across all platforms.
// The orchestrator always returns a summary, even when every platform
// failed; nothing in an import run is fatal to the host process.
type ImportSummary struct {
	Trigger       Trigger                `json:"trigger"`
	TotalImported int                    `json:"total_imported"`
	Platforms     []PlatformImportResult `json:"platforms"`
	StartedAt     time.Time              `json:"started_at"`
	FinishedAt    time.Time              `json:"finished_at"`
}

// Status derives the overall run status from the per-platform results
func (s *ImportSummary) Status() RunStatus {
	failed := 0
	for _, p := range s.Platforms {
		if p.Message != "" && p.Imported == 0 {
			failed++
		}
	}
	switch {
	case failed == 0:
		return RunStatusSuccess
	case failed == len(s.Platforms):
		return RunStatusFailed
	default:
		return RunStatusPartial
	}
}
