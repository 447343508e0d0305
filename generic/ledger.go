/*
ledger.go - Per-day capacity ledger

PURPOSE:
  The Distribution is the capacity ledger of one optimization run: how many
  renewals have been placed on each calendar day so far. The engine reads it
  before every placement and increments it after.

CRITICAL INVARIANTS:
  1. INCREMENT-ONLY: Counts are never decremented or reset within a run.
  2. LAZY KEYS: A day appears only once something is placed on it.
     Absence means zero.
  3. CANONICAL KEYS: Keys are YYYY-MM-DD strings (TimePoint.String()).
  4. SINGLE WRITER: One run owns one Distribution. The check-then-increment
     sequence is not safe to race, so a Distribution is never shared across
     goroutines without external serialization.

EXAMPLE FLOW (max 2 per day):
  place 2025-01-15 → {2025-01-15: 1}
  place 2025-01-15 → {2025-01-15: 2}
  2025-01-15 full, place 2025-01-16 → {2025-01-15: 2, 2025-01-16: 1}

SEE ALSO:
  - renewal/engine.go: Consumes the ledger
  - report/report.go: Renders the ledger as the distribution summary
*/
package generic

import "sort"

// =============================================================================
// DISTRIBUTION - Day → placement count
// =============================================================================

// Distribution maps a canonical date key to the number of renewals placed on it.
type Distribution map[string]int

// NewDistribution returns an empty ledger.
func NewDistribution() Distribution {
	return make(Distribution)
}

// Count returns how many renewals are placed on the day. Missing days count zero.
func (d Distribution) Count(day TimePoint) int {
	return d[day.String()]
}

// HasRoom reports whether the day is strictly below maxPerDay.
func (d Distribution) HasRoom(day TimePoint, maxPerDay int) bool {
	return d.Count(day) < maxPerDay
}

// Increment records one more renewal on the day and returns the new count.
func (d Distribution) Increment(day TimePoint) int {
	key := day.String()
	d[key]++
	return d[key]
}

// Total returns the number of placements recorded.
func (d Distribution) Total() int {
	total := 0
	for _, n := range d {
		total += n
	}
	return total
}

// Dates returns the keys in ascending date order.
// Canonical keys sort lexically in chronological order.
func (d Distribution) Dates() []string {
	keys := make([]string, 0, len(d))
	for k := range d {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Clone returns an independent copy.
func (d Distribution) Clone() Distribution {
	out := make(Distribution, len(d))
	for k, v := range d {
		out[k] = v
	}
	return out
}
