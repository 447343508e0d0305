// Package renewal assigns renewal dates to leases under a per-day capacity.
// It uses the generic calendar primitives and capacity ledger.
package renewal

import (
	"time"

	"github.com/warp/lease-engine/generic"
)

// =============================================================================
// INPUT
// =============================================================================

// LeaseRecord is one lease as supplied by ingestion.
// UnitNumber is opaque to the engine; duplicates pass through unchanged.
type LeaseRecord struct {
	UnitNumber   int
	LeaseEndDate string // YYYY-MM-DD, validated by the engine
}

// =============================================================================
// OUTPUT
// =============================================================================

// OptimizedLease is the assignment produced for one LeaseRecord.
type OptimizedLease struct {
	UnitNumber            int    `json:"unitNumber"`
	OriginalLeaseEndDate  string `json:"originalLeaseEndDate"`
	OptimizedLeaseEndDate string `json:"optimizedLeaseEndDate"`
	Offset                int    `json:"offsetDays"` // Signed days from the ideal date (+ later, - earlier)
	Fallback              bool   `json:"fallback"`   // Placed on a full ideal date because the window had no room
}

// Result is the outcome of one optimization run.
type Result struct {
	Assignments  []OptimizedLease
	Distribution generic.Distribution
}

// Fallbacks returns the assignments that overbooked their ideal date.
func (r Result) Fallbacks() []OptimizedLease {
	var out []OptimizedLease
	for _, a := range r.Assignments {
		if a.Fallback {
			out = append(out, a)
		}
	}
	return out
}

// =============================================================================
// SAVED RUNS
// =============================================================================

// Run is a persisted optimization result.
type Run struct {
	ID        string
	MaxPerDay int
	CreatedAt time.Time
	Source    string // e.g. uploaded file name, "api", "cli"
	Result    Result
}

// RunInfo is the list view of a Run, without assignments.
type RunInfo struct {
	ID         string
	MaxPerDay  int
	CreatedAt  time.Time
	Source     string
	LeaseCount int
}
