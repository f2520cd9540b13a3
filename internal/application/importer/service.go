package importer

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/oms/backend/internal/domain/order"
	"github.com/oms/backend/internal/domain/shared"
	"github.com/oms/backend/internal/domain/sync"
)

// importablePlatforms is the fixed set of sources the orchestrator
// walks on every run, configured or not. Unconfigured platforms show up
// in the summary so operators see what is switched off.
var importablePlatforms = []order.Source{
	order.SourceWooCommerce,
	order.SourceBigCommerce,
	order.SourceShopify,
}

const maxErrorsInMessage = 3

// Service orchestrates import runs across all platforms. It holds no
// locks: concurrent runs are safe because deduplication happens at the
// unique origin constraint and the cursor only ever moves forward.
type Service struct {
	registry      sync.AdapterRegistry
	cursors       sync.CursorRepository
	importLogs    sync.ImportLogRepository
	orders        order.Repository
	materializer  *Materializer
	statusFilters map[order.Source][]string
	logger        *zap.Logger
	now           func() time.Time
}

// NewService creates a new import orchestrator
func NewService(
	registry sync.AdapterRegistry,
	cursors sync.CursorRepository,
	importLogs sync.ImportLogRepository,
	orders order.Repository,
	materializer *Materializer,
	statusFilters map[order.Source][]string,
	logger *zap.Logger,
) *Service {
	return &Service{
		registry:      registry,
		cursors:       cursors,
		importLogs:    importLogs,
		orders:        orders,
		materializer:  materializer,
		statusFilters: statusFilters,
		logger:        logger.Named("importer"),
		now:           time.Now,
	}
}

// RunImport walks every platform sequentially and imports new orders.
// Platform failures are isolated: one platform erroring on every call
// leaves the others importing normally, and the summary reports each
// outcome distinctly. The returned error is reserved for conditions
// that prevent producing a summary at all, which currently do not
// exist; callers can rely on a non-nil summary.
func (s *Service) RunImport(ctx context.Context, trigger sync.Trigger) (*sync.ImportSummary, error) {
	startedAt := s.now()
	summary := &sync.ImportSummary{
		Trigger:   trigger,
		StartedAt: startedAt,
		Platforms: make([]sync.PlatformImportResult, 0, len(importablePlatforms)),
	}

	for _, platform := range importablePlatforms {
		result := s.importPlatform(ctx, platform)
		summary.TotalImported += result.Imported
		summary.Platforms = append(summary.Platforms, result)
	}
	summary.FinishedAt = s.now()

	s.appendLog(ctx, trigger, summary)

	s.logger.Info("import run finished",
		zap.String("trigger", trigger.String()),
		zap.Int("total_imported", summary.TotalImported),
		zap.String("status", string(summary.Status())),
		zap.Duration("elapsed", summary.FinishedAt.Sub(summary.StartedAt)),
	)
	return summary, nil
}

// importPlatform runs one platform's slice of an import run
func (s *Service) importPlatform(ctx context.Context, platform order.Source) sync.PlatformImportResult {
	result := sync.PlatformImportResult{Platform: platform}

	adapter, err := s.registry.Get(platform)
	if err != nil {
		result.Message = "credentials not configured"
		return result
	}

	cursor, err := s.cursors.Get(ctx, platform)
	if err != nil {
		result.Message = fmt.Sprintf("loading cursor: %v", err)
		return result
	}
	since := sync.EffectiveFetchFrom(cursor, adapter.MinimumDate())

	// the cursor will advance to the moment the fetch began, so orders
	// created while the fetch runs are picked up next time
	fetchStartedAt := s.now()

	fetched, err := adapter.FetchOrders(ctx, since, s.statusFilters[platform])
	if err != nil {
		result.Message = err.Error()
		s.logger.Error("platform fetch failed",
			zap.String("platform", platform.String()),
			zap.Error(err),
		)
		return result
	}
	result.Skipped = fetched.Skipped

	var failures []string
	for i := range fetched.Orders {
		remote := &fetched.Orders[i]

		status, known := sync.MapStatus(platform, remote.Status)
		if !known {
			s.logger.Warn("unknown remote status, defaulting to pending",
				zap.String("platform", platform.String()),
				zap.String("remote_status", remote.Status),
				zap.String("external_id", remote.ExternalID),
			)
		}

		exists, err := s.orders.ExistsByOrigin(ctx, platform, remote.ExternalID)
		if err != nil {
			result.Failed++
			failures = append(failures, fmt.Sprintf("%s: %v", remote.ExternalID, err))
			continue
		}
		if exists {
			result.Skipped++
			continue
		}

		if _, err := s.materializer.Materialize(ctx, remote, status, platform); err != nil {
			// a concurrent run won the insert race; same outcome as the
			// dedup check above
			if errors.Is(err, shared.ErrAlreadyExists) {
				result.Skipped++
				continue
			}
			result.Failed++
			failures = append(failures, fmt.Sprintf("%s: %v", remote.ExternalID, err))
			s.logger.Error("failed to materialize order",
				zap.String("platform", platform.String()),
				zap.String("external_id", remote.ExternalID),
				zap.Error(err),
			)
			continue
		}
		result.Imported++
	}

	result.Message = summarizeFailures(failures)

	// advance even after per-order failures: failed orders are traded
	// for forward progress and surface in the import log instead of
	// being refetched forever
	if err := s.cursors.Advance(ctx, platform, fetchStartedAt); err != nil {
		s.logger.Error("failed to advance import cursor",
			zap.String("platform", platform.String()),
			zap.Error(err),
		)
	}

	return result
}

// appendLog writes the aggregate import log entry. Log append failure
// is reported in the application log only; the summary already exists
// and the run itself succeeded or failed on its own terms.
func (s *Service) appendLog(ctx context.Context, trigger sync.Trigger, summary *sync.ImportSummary) {
	skipped := 0
	var messages []string
	for _, p := range summary.Platforms {
		skipped += p.Skipped
		if p.Message != "" {
			messages = append(messages, fmt.Sprintf("%s: %s", p.Platform, p.Message))
		}
	}

	entry := &sync.ImportLogEntry{
		Trigger:        trigger,
		Platform:       "all",
		OrdersImported: summary.TotalImported,
		OrdersSkipped:  skipped,
		Status:         summary.Status(),
		Message:        strings.Join(messages, "; "),
		RanAt:          summary.FinishedAt,
	}
	if err := s.importLogs.Append(ctx, entry); err != nil {
		s.logger.Error("failed to append import log entry", zap.Error(err))
	}
}

// TestPlatformConnection verifies one platform's credentials with a
// single lightweight call
func (s *Service) TestPlatformConnection(ctx context.Context, platform order.Source) error {
	adapter, err := s.registry.Get(platform)
	if err != nil {
		return sync.ErrCredentialsNotConfigured
	}
	return adapter.TestConnection(ctx)
}

// RecentImportLogs returns the most recent import log entries, newest first
func (s *Service) RecentImportLogs(ctx context.Context, limit int) ([]sync.ImportLogEntry, error) {
	return s.importLogs.FindRecent(ctx, limit)
}

func summarizeFailures(failures []string) string {
	if len(failures) == 0 {
		return ""
	}
	shown := failures
	if len(shown) > maxErrorsInMessage {
		shown = shown[:maxErrorsInMessage]
	}
	msg := strings.Join(shown, "; ")
	if extra := len(failures) - len(shown); extra > 0 {
		msg += fmt.Sprintf(" (+%d more)", extra)
	}
	return msg
}
