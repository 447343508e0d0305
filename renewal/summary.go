package renewal

import (
	"github.com/shopspring/decimal"
	"github.com/warp/lease-engine/generic"
)

// =============================================================================
// SUMMARY - Headline numbers for a run
// =============================================================================

// Summary describes how well a run spread its renewals.
// Averages use decimal.Decimal rounded to two places so that reports and
// API responses print the same figures.
type Summary struct {
	LeaseCount     int
	DaysUsed       int
	OnIdealDate    int // Offset 0 and not a fallback
	Fallbacks      int
	OverbookedDays int // Days whose count exceeds maxPerDay
	PeakLoad       int
	PeakDate       string // Earliest day carrying PeakLoad
	MaxAbsOffset   int
	MeanAbsOffset  decimal.Decimal // Average days moved from the ideal date
	MeanLoad       decimal.Decimal // Renewals per used day
	Span           generic.Period  // First to last assigned day; zero when empty
}

// Summarize computes the Summary of a result produced with maxPerDay.
func Summarize(r Result, maxPerDay int) Summary {
	s := Summary{
		LeaseCount:    len(r.Assignments),
		DaysUsed:      len(r.Distribution),
		MeanAbsOffset: decimal.Zero,
		MeanLoad:      decimal.Zero,
	}

	totalOffset := 0
	for _, a := range r.Assignments {
		abs := a.Offset
		if abs < 0 {
			abs = -abs
		}
		totalOffset += abs
		if abs > s.MaxAbsOffset {
			s.MaxAbsOffset = abs
		}
		switch {
		case a.Fallback:
			s.Fallbacks++
		case a.Offset == 0:
			s.OnIdealDate++
		}
	}

	dates := r.Distribution.Dates()
	for _, d := range dates {
		n := r.Distribution[d]
		if n > s.PeakLoad {
			s.PeakLoad = n
			s.PeakDate = d
		}
		if n > maxPerDay {
			s.OverbookedDays++
		}
	}

	if s.LeaseCount > 0 {
		s.MeanAbsOffset = decimal.NewFromInt(int64(totalOffset)).
			DivRound(decimal.NewFromInt(int64(s.LeaseCount)), 2)
	}
	if s.DaysUsed > 0 {
		s.MeanLoad = decimal.NewFromInt(int64(r.Distribution.Total())).
			DivRound(decimal.NewFromInt(int64(s.DaysUsed)), 2)
		s.Span = generic.Period{
			Start: generic.MustParseDate(dates[0]),
			End:   generic.MustParseDate(dates[len(dates)-1]),
		}
	}
	return s
}
