package renewal

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

// =============================================================================
// SERVICE - Runs the engine and records the outcome
// =============================================================================

// Observer is notified after each successful run. Metrics implement it.
type Observer interface {
	ObserveRun(r Result, maxPerDay int, elapsed time.Duration)
}

// Service ties the engine to a RunStore. The engine stays pure; the service
// owns IDs, timestamps, logging and persistence.
type Service struct {
	Store    RunStore
	Logger   *slog.Logger
	Observer Observer // optional

	now func() time.Time
}

// NewService creates a service writing runs to store.
func NewService(store RunStore, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{Store: store, Logger: logger, now: time.Now}
}

// Run optimizes records and saves the result under a new run ID.
// Input errors from the engine are returned unchanged so callers can
// classify them with errors.As.
func (s *Service) Run(ctx context.Context, records []LeaseRecord, maxPerDay int, source string) (*Run, error) {
	start := s.now()
	result, err := Optimize(records, maxPerDay)
	if err != nil {
		s.Logger.Warn("optimization rejected", "source", source, "error", err)
		return nil, err
	}
	elapsed := s.now().Sub(start)

	for _, fb := range result.Fallbacks() {
		s.Logger.Warn("capacity exhausted, overbooking ideal date",
			"unit", fb.UnitNumber,
			"date", fb.OptimizedLeaseEndDate,
			"max_per_day", maxPerDay)
	}

	run := Run{
		ID:        uuid.NewString(),
		MaxPerDay: maxPerDay,
		CreatedAt: start.UTC(),
		Source:    source,
		Result:    result,
	}
	if s.Store != nil {
		if err := s.Store.SaveRun(ctx, run); err != nil {
			return nil, fmt.Errorf("save run: %w", err)
		}
	}
	if s.Observer != nil {
		s.Observer.ObserveRun(result, maxPerDay, elapsed)
	}

	s.Logger.Info("optimization complete",
		"run_id", run.ID,
		"leases", len(result.Assignments),
		"days_used", len(result.Distribution),
		"max_per_day", maxPerDay)
	return &run, nil
}
