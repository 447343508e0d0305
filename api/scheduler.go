/*
scheduler.go - Saved-run retention scheduler

PURPOSE:
  Periodically deletes saved optimization runs older than the configured
  retention so the run table doesn't grow without bound.

DESIGN:
  - Runs a background goroutine with configurable check interval
  - Runs once immediately on start, then on every tick
  - A zero MaxAge disables pruning entirely

USAGE:
  scheduler := NewRetentionScheduler(store, 90*24*time.Hour, logger)
  scheduler.Start()
  // ... later
  scheduler.Stop()

SEE ALSO:
  - handlers.go: DeleteRun endpoint (manual deletion)
*/
package api

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/warp/lease-engine/renewal"
)

// RetentionScheduler deletes runs older than MaxAge.
type RetentionScheduler struct {
	Store         renewal.RunStore
	MaxAge        time.Duration
	CheckInterval time.Duration
	Logger        *slog.Logger

	now    func() time.Time
	ticker *time.Ticker
	stop   chan struct{}
	wg     sync.WaitGroup
	mu     sync.Mutex
}

// NewRetentionScheduler creates a new scheduler checking hourly.
func NewRetentionScheduler(store renewal.RunStore, maxAge time.Duration, logger *slog.Logger) *RetentionScheduler {
	if logger == nil {
		logger = slog.Default()
	}
	return &RetentionScheduler{
		Store:         store,
		MaxAge:        maxAge,
		CheckInterval: 1 * time.Hour,
		Logger:        logger,
		now:           time.Now,
	}
}

// Start begins the scheduler.
func (rs *RetentionScheduler) Start() {
	rs.mu.Lock()
	defer rs.mu.Unlock()

	if rs.MaxAge <= 0 {
		rs.Logger.Info("retention disabled, scheduler not started")
		return
	}
	if rs.ticker != nil {
		return
	}

	rs.ticker = time.NewTicker(rs.CheckInterval)
	rs.stop = make(chan struct{})
	rs.wg.Add(1)
	go rs.run(rs.ticker.C, rs.stop)

	rs.Logger.Info("retention scheduler started", "interval", rs.CheckInterval, "max_age", rs.MaxAge)
}

// Stop stops the scheduler and waits for an in-flight prune to finish.
// A stopped scheduler can be started again.
func (rs *RetentionScheduler) Stop() {
	rs.mu.Lock()
	defer rs.mu.Unlock()

	if rs.ticker != nil {
		rs.ticker.Stop()
		close(rs.stop)
		rs.wg.Wait()
		rs.ticker = nil
		rs.Logger.Info("retention scheduler stopped")
	}
}

func (rs *RetentionScheduler) run(tick <-chan time.Time, stop <-chan struct{}) {
	defer rs.wg.Done()

	rs.Prune(context.Background())

	for {
		select {
		case <-tick:
			rs.Prune(context.Background())
		case <-stop:
			return
		}
	}
}

// Prune deletes every run created before now - MaxAge and returns how many
// were removed.
func (rs *RetentionScheduler) Prune(ctx context.Context) int {
	if rs.MaxAge <= 0 {
		return 0
	}
	cutoff := rs.now().Add(-rs.MaxAge)

	runs, err := rs.Store.ListRuns(ctx)
	if err != nil {
		rs.Logger.Error("retention: list runs failed", "error", err)
		return 0
	}

	deleted := 0
	for _, r := range runs {
		if !r.CreatedAt.Before(cutoff) {
			continue
		}
		if err := rs.Store.DeleteRun(ctx, r.ID); err != nil {
			rs.Logger.Error("retention: delete failed", "run_id", r.ID, "error", err)
			continue
		}
		deleted++
	}
	if deleted > 0 {
		rs.Logger.Info("retention: pruned runs", "deleted", deleted, "cutoff", cutoff.Format(time.RFC3339))
	}
	return deleted
}
