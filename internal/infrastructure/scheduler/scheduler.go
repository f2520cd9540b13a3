package scheduler

import (
	"context"
	gosync "sync"
	"time"

	"go.uber.org/zap"

	"github.com/oms/backend/internal/domain/sync"
)

// ImportRunner is the slice of the import service the scheduler drives
type ImportRunner interface {
	RunImport(ctx context.Context, trigger sync.Trigger) (*sync.ImportSummary, error)
}

// Scheduler triggers an import run on a fixed interval. Runs are
// sequential within one process; a run still in flight when the ticker
// fires simply delays the next one.
type Scheduler struct {
	runner   ImportRunner
	interval time.Duration
	logger   *zap.Logger

	cancel context.CancelFunc
	wg     gosync.WaitGroup
}

// NewScheduler creates a new periodic import scheduler
func NewScheduler(runner ImportRunner, interval time.Duration, logger *zap.Logger) *Scheduler {
	return &Scheduler{
		runner:   runner,
		interval: interval,
		logger:   logger.Named("scheduler"),
	}
}

// Start launches the polling loop. The first run happens after one full
// interval; startup imports are the operator's call via the manual
// trigger endpoint.
func (s *Scheduler) Start(ctx context.Context) {
	ctx, s.cancel = context.WithCancel(ctx)
	s.wg.Add(1)
	go s.loop(ctx)
	s.logger.Info("import scheduler started", zap.Duration("interval", s.interval))
}

// Stop cancels the polling loop and waits for an in-flight run to finish
func (s *Scheduler) Stop() {
	if s.cancel != nil {
		s.cancel()
	}
	s.wg.Wait()
	s.logger.Info("import scheduler stopped")
}

func (s *Scheduler) loop(ctx context.Context) {
	defer s.wg.Done()

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.runOnce(ctx)
		}
	}
}

func (s *Scheduler) runOnce(ctx context.Context) {
	summary, err := s.runner.RunImport(ctx, sync.TriggerScheduled)
	if err != nil {
		s.logger.Error("scheduled import run failed", zap.Error(err))
		return
	}
	s.logger.Info("scheduled import run finished",
		zap.Int("total_imported", summary.TotalImported),
		zap.String("status", string(summary.Status())),
	)
}
