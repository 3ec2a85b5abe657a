package maintenance

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"brainbot-hq/brainbot/pkg/admission/dedup"
)

// DefaultSchedule runs the nightly sweep at 3 AM.
const DefaultSchedule = "0 3 * * *"

// Pruner sweeps expired admission state. The admission Controller
// implements it.
type Pruner interface {
	Prune(ctx context.Context) (cacheRemoved, snapshotsRemoved int)
}

// Scheduler runs periodic maintenance on a cron schedule: expired cache
// entries, stale dedup records, and old persisted limit snapshots.
type Scheduler struct {
	schedule string
	pruner   Pruner
	guard    *dedup.Guard
	cron     *cron.Cron
	logger   *slog.Logger

	mu      sync.Mutex
	running bool
}

// NewScheduler creates a maintenance scheduler. schedule is a standard
// five-field cron expression; empty disables scheduling. guard may be
// nil when capture dedup is not wired.
func NewScheduler(schedule string, pruner Pruner, guard *dedup.Guard, logger *slog.Logger) *Scheduler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Scheduler{
		schedule: schedule,
		pruner:   pruner,
		guard:    guard,
		cron:     cron.New(),
		logger:   logger.With("component", "maintenance"),
	}
}

// Start begins scheduled maintenance and stops it when ctx is canceled.
// A nil error with an empty schedule means scheduling is disabled.
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.schedule == "" {
		s.logger.Info("prune schedule not configured, skipping scheduler")
		return nil
	}

	if _, err := cron.ParseStandard(s.schedule); err != nil {
		return fmt.Errorf("invalid cron schedule %q: %w", s.schedule, err)
	}

	if _, err := s.cron.AddFunc(s.schedule, func() {
		s.RunOnce(ctx)
	}); err != nil {
		return fmt.Errorf("failed to schedule maintenance: %w", err)
	}

	s.cron.Start()
	s.running = true
	s.logger.Info("maintenance scheduler started", "schedule", s.schedule)

	go func() {
		<-ctx.Done()
		s.Stop()
	}()

	return nil
}

// RunOnce executes a single maintenance sweep immediately.
func (s *Scheduler) RunOnce(ctx context.Context) {
	cacheRemoved, snapshotsRemoved := s.pruner.Prune(ctx)

	dedupRemoved := 0
	if s.guard != nil {
		dedupRemoved = s.guard.Prune(time.Now())
	}

	if cacheRemoved > 0 || snapshotsRemoved > 0 || dedupRemoved > 0 {
		s.logger.Info("maintenance sweep completed",
			"cache_removed", cacheRemoved,
			"snapshots_removed", snapshotsRemoved,
			"dedup_removed", dedupRemoved,
		)
	} else {
		s.logger.Debug("maintenance sweep completed, nothing to remove")
	}
}

// Stop halts the scheduler and waits for a running sweep to finish.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		<-s.cron.Stop().Done()
		s.running = false
		s.logger.Info("maintenance scheduler stopped")
	}
}

// NextRun returns the next scheduled sweep time, or nil when not running.
func (s *Scheduler) NextRun() *time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries := s.cron.Entries()
	if len(entries) == 0 {
		return nil
	}
	next := entries[0].Next
	return &next
}
