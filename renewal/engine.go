/*
engine.go - Capacity-constrained renewal date assignment

PURPOSE:
  Gives every lease a renewal date close to its ideal date (current end date
  plus one calendar year) without putting more than maxPerDay renewals on
  any single day.

ALGORITHM (per record, strictly in input order):
  1. ideal = original end date + 1 calendar year
  2. offset 0: ideal has room → take it
  3. offset 1..364: try ideal+offset, then ideal-offset; first day with room wins
  4. nothing found: fallback to ideal (overbooked)
  5. increment the chosen day in the ledger

  Forward wins ties: at equal distance the later day is preferred.

ORDER SENSITIVITY:
  Greedy first-fit. Earlier records consume capacity near their ideal
  dates, so records later in the input are more likely to be displaced.
  No decision is ever revisited. Callers that care about fairness must
  order their input accordingly.

CAPACITY <= 0:
  No day ever has room (a count is never below zero), so every record
  falls back to its ideal date. Accepted, not rejected.

INVALID DATES:
  A record with a missing or unparseable end date fails the entire batch
  with *generic.InvalidDateError. No partial result is returned.

COMPLEXITY:
  O(records × 729) ledger lookups, no backtracking.

SEE ALSO:
  - generic/ledger.go: Distribution (capacity ledger)
  - generic/time.go: Calendar-correct AddYears
*/
package renewal

import (
	"github.com/warp/lease-engine/generic"
)

// SearchRadius is the largest offset probed on each side of the ideal date.
const SearchRadius = 364

// Placement is the outcome of placing one lease.
type Placement struct {
	Date     generic.TimePoint
	Offset   int
	Fallback bool
}

// IdealDate returns the renewal date a lease would get with unlimited capacity.
func IdealDate(original generic.TimePoint) generic.TimePoint {
	return original.AddYears(1)
}

// TryAssign places one lease whose ideal date is given, recording the
// placement in ledger. The ledger is the only state it touches.
func TryAssign(ideal generic.TimePoint, ledger generic.Distribution, maxPerDay int) Placement {
	p := search(ideal, ledger, maxPerDay)
	ledger.Increment(p.Date)
	return p
}

func search(ideal generic.TimePoint, ledger generic.Distribution, maxPerDay int) Placement {
	if ledger.HasRoom(ideal, maxPerDay) {
		return Placement{Date: ideal}
	}
	window := generic.WindowAround(ideal, SearchRadius)
	for offset := 1; ; offset++ {
		later, earlier := ideal.AddDays(offset), ideal.AddDays(-offset)
		if !window.Contains(later) {
			break
		}
		if ledger.HasRoom(later, maxPerDay) {
			return Placement{Date: later, Offset: offset}
		}
		if ledger.HasRoom(earlier, maxPerDay) {
			return Placement{Date: earlier, Offset: -offset}
		}
	}
	return Placement{Date: ideal, Fallback: true}
}

// Optimize assigns a renewal date to every record, in order, against a fresh
// ledger. It returns *generic.InvalidDateError for the first record whose end
// date cannot be parsed; in that case no assignments are returned.
func Optimize(records []LeaseRecord, maxPerDay int) (Result, error) {
	originals, err := parseRecords(records)
	if err != nil {
		return Result{}, err
	}

	ledger := generic.NewDistribution()
	assignments := make([]OptimizedLease, 0, len(records))
	for i, rec := range records {
		p := TryAssign(IdealDate(originals[i]), ledger, maxPerDay)
		assignments = append(assignments, OptimizedLease{
			UnitNumber:            rec.UnitNumber,
			OriginalLeaseEndDate:  originals[i].String(),
			OptimizedLeaseEndDate: p.Date.String(),
			Offset:                p.Offset,
			Fallback:              p.Fallback,
		})
	}

	return Result{Assignments: assignments, Distribution: ledger}, nil
}

// parseRecords validates every date up front so a bad record never leaves a
// half-built ledger behind.
func parseRecords(records []LeaseRecord) ([]generic.TimePoint, error) {
	dates := make([]generic.TimePoint, len(records))
	for i, rec := range records {
		d, err := generic.ParseDate(rec.LeaseEndDate)
		if err != nil {
			return nil, &generic.InvalidDateError{
				Index:      i,
				UnitNumber: rec.UnitNumber,
				Value:      rec.LeaseEndDate,
				Err:        err,
			}
		}
		dates[i] = d
	}
	return dates, nil
}
