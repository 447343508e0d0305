/*
store.go - Persistence interface for optimization runs

PURPOSE:
  The engine itself is stateless. Runs are saved after the fact so that a
  report can be fetched again later without re-uploading the lease file.

IMPLEMENTATIONS:
  - store/sqlite/sqlite.go: SQLite, used by the server
  - store/memory/memory.go: In-memory, used by tests and the CLI

CONTRACT:
  - SaveRun is all-or-nothing: run, assignments and distribution together.
  - GetRun returns generic.ErrRunNotFound (wrapped) for unknown IDs.
  - Assignments come back in their original input order.
*/
package renewal

import "context"

// RunStore persists optimization runs.
type RunStore interface {
	// SaveRun persists the run atomically.
	SaveRun(ctx context.Context, run Run) error

	// GetRun returns the full run including assignments and distribution.
	GetRun(ctx context.Context, id string) (*Run, error)

	// ListRuns returns run headers, newest first.
	ListRuns(ctx context.Context) ([]RunInfo, error)

	// DeleteRun removes a run. Unknown IDs return generic.ErrRunNotFound.
	DeleteRun(ctx context.Context, id string) error
}
