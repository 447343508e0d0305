/*
Package sqlite provides a SQLite-backed implementation of renewal.RunStore.

PURPOSE:
  Persists optimization runs so a report can be fetched again later without
  re-uploading the lease file. The engine never touches the database; runs
  are written after the fact by renewal.Service.

KEY TABLES:
  runs:             One row per optimization (capacity, source, timestamp)
  run_assignments:  One row per lease, keyed by (run_id, seq) to keep input order
  run_distribution: One row per used day with its renewal count

ATOMIC SAVES:
  SaveRun writes all three tables in one SQL transaction. A run is either
  fully visible or absent.

CONCURRENCY:
  Uses sync.RWMutex for thread-safety, like the rest of the store layer.

WAL MODE:
  SQLite is opened with WAL (Write-Ahead Logging):
  - Multiple readers don't block
  - Single writer at a time

USAGE:
  store, err := sqlite.New("./data/leases.db")
  if err != nil {
      log.Fatal(err)
  }
  defer store.Close()

  svc := renewal.NewService(store, logger)

SEE ALSO:
  - renewal/store.go: Interface definition
  - store/memory/memory.go: In-memory implementation for testing
*/
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/warp/lease-engine/generic"
	"github.com/warp/lease-engine/renewal"
)

// timeLayout has fixed-width fractions so created_at sorts lexically.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// Store implements renewal.RunStore using SQLite.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

var _ renewal.RunStore = (*Store)(nil)

// New creates a new SQLite store with the given database path.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// Each connection to ":memory:" is a separate database.
	db.SetMaxOpenConns(1)

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// migrate creates the database schema.
func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		max_per_day INTEGER NOT NULL,
		source TEXT,
		lease_count INTEGER NOT NULL,
		created_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_runs_created_at
		ON runs(created_at DESC);

	-- seq preserves input order; unit numbers may repeat
	CREATE TABLE IF NOT EXISTS run_assignments (
		run_id TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
		seq INTEGER NOT NULL,
		unit_number INTEGER NOT NULL,
		original_date TEXT NOT NULL,
		optimized_date TEXT NOT NULL,
		offset_days INTEGER NOT NULL,
		fallback INTEGER NOT NULL DEFAULT 0,
		PRIMARY KEY (run_id, seq)
	);

	CREATE TABLE IF NOT EXISTS run_distribution (
		run_id TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
		day TEXT NOT NULL,
		count INTEGER NOT NULL,
		PRIMARY KEY (run_id, day)
	);
	`
	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// RUN STORE (renewal.RunStore interface)
// =============================================================================

// SaveRun persists the run, its assignments and its distribution atomically.
func (s *Store) SaveRun(ctx context.Context, run renewal.Run) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sqlTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer sqlTx.Rollback()

	_, err = sqlTx.ExecContext(ctx,
		"INSERT INTO runs (id, max_per_day, source, lease_count, created_at) VALUES (?, ?, ?, ?, ?)",
		run.ID, run.MaxPerDay, run.Source, len(run.Result.Assignments),
		run.CreatedAt.UTC().Format(timeLayout),
	)
	if err != nil {
		return fmt.Errorf("failed to insert run: %w", err)
	}

	assignStmt, err := sqlTx.PrepareContext(ctx, `
		INSERT INTO run_assignments
		(run_id, seq, unit_number, original_date, optimized_date, offset_days, fallback)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return err
	}
	defer assignStmt.Close()

	for i, a := range run.Result.Assignments {
		if _, err := assignStmt.ExecContext(ctx,
			run.ID, i, a.UnitNumber, a.OriginalLeaseEndDate, a.OptimizedLeaseEndDate,
			a.Offset, boolToInt(a.Fallback),
		); err != nil {
			return fmt.Errorf("failed to insert assignment %d: %w", i, err)
		}
	}

	distStmt, err := sqlTx.PrepareContext(ctx,
		"INSERT INTO run_distribution (run_id, day, count) VALUES (?, ?, ?)")
	if err != nil {
		return err
	}
	defer distStmt.Close()

	for day, count := range run.Result.Distribution {
		if _, err := distStmt.ExecContext(ctx, run.ID, day, count); err != nil {
			return fmt.Errorf("failed to insert distribution %s: %w", day, err)
		}
	}

	return sqlTx.Commit()
}

// GetRun retrieves a run with its assignments and distribution.
func (s *Store) GetRun(ctx context.Context, id string) (*renewal.Run, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var run renewal.Run
	var source sql.NullString
	var createdAt string
	var leaseCount int

	err := s.db.QueryRowContext(ctx,
		"SELECT id, max_per_day, source, lease_count, created_at FROM runs WHERE id = ?",
		id,
	).Scan(&run.ID, &run.MaxPerDay, &source, &leaseCount, &createdAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("run %s: %w", id, generic.ErrRunNotFound)
	}
	if err != nil {
		return nil, err
	}
	run.Source = source.String
	run.CreatedAt, _ = time.Parse(timeLayout, createdAt)

	assignments, err := s.loadAssignments(ctx, id, leaseCount)
	if err != nil {
		return nil, err
	}
	distribution, err := s.loadDistribution(ctx, id)
	if err != nil {
		return nil, err
	}
	run.Result = renewal.Result{Assignments: assignments, Distribution: distribution}
	return &run, nil
}

func (s *Store) loadAssignments(ctx context.Context, runID string, hint int) ([]renewal.OptimizedLease, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT unit_number, original_date, optimized_date, offset_days, fallback
		FROM run_assignments WHERE run_id = ? ORDER BY seq
	`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]renewal.OptimizedLease, 0, hint)
	for rows.Next() {
		var a renewal.OptimizedLease
		var fallback int
		if err := rows.Scan(&a.UnitNumber, &a.OriginalLeaseEndDate, &a.OptimizedLeaseEndDate, &a.Offset, &fallback); err != nil {
			return nil, err
		}
		a.Fallback = fallback != 0
		out = append(out, a)
	}
	return out, rows.Err()
}

func (s *Store) loadDistribution(ctx context.Context, runID string) (generic.Distribution, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT day, count FROM run_distribution WHERE run_id = ?", runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	dist := generic.NewDistribution()
	for rows.Next() {
		var day string
		var count int
		if err := rows.Scan(&day, &count); err != nil {
			return nil, err
		}
		dist[day] = count
	}
	return dist, rows.Err()
}

// ListRuns returns run headers, newest first.
func (s *Store) ListRuns(ctx context.Context) ([]renewal.RunInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		"SELECT id, max_per_day, source, lease_count, created_at FROM runs ORDER BY created_at DESC, id",
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []renewal.RunInfo
	for rows.Next() {
		var r renewal.RunInfo
		var source sql.NullString
		var createdAt string
		if err := rows.Scan(&r.ID, &r.MaxPerDay, &source, &r.LeaseCount, &createdAt); err != nil {
			return nil, err
		}
		r.Source = source.String
		r.CreatedAt, _ = time.Parse(timeLayout, createdAt)
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// DeleteRun removes a run; assignments and distribution cascade.
func (s *Store) DeleteRun(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, "DELETE FROM runs WHERE id = ?", id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("run %s: %w", id, generic.ErrRunNotFound)
	}
	return nil
}

// =============================================================================
// UTILITIES
// =============================================================================

// Reset clears all data (for testing/demo).
func (s *Store) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tables := []string{"run_distribution", "run_assignments", "runs"}
	for _, table := range tables {
		if _, err := s.db.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return err
		}
	}
	return nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
