package generic

// =============================================================================
// PERIOD - A closed range of calendar days
// =============================================================================

// Period is the closed day range [Start, End].
//
// Examples:
//   - Renewal search window: ideal date ± 364 days
//   - Reporting range: first to last assigned date of a run
type Period struct {
	Start TimePoint
	End   TimePoint
}

// WindowAround returns the period spanning radius days on each side of center.
func WindowAround(center TimePoint, radius int) Period {
	return Period{Start: center.AddDays(-radius), End: center.AddDays(radius)}
}

// Contains returns true if the time point is within the period [Start, End]
func (p Period) Contains(t TimePoint) bool {
	return t.AfterOrEqual(p.Start) && t.BeforeOrEqual(p.End)
}

// Len returns the number of days in the period, both ends included.
func (p Period) Len() int {
	if p.End.Before(p.Start) {
		return 0
	}
	return DaysBetween(p.Start, p.End) + 1
}

// Days returns all days in the period as a slice of TimePoints.
func (p Period) Days() []TimePoint {
	var days []TimePoint
	current := p.Start
	for current.BeforeOrEqual(p.End) {
		days = append(days, current)
		current = current.AddDays(1)
	}
	return days
}

// Validate reports ErrInvalidPeriod when End precedes Start.
func (p Period) Validate() error {
	if p.End.Before(p.Start) {
		return ErrInvalidPeriod
	}
	return nil
}

// String returns a string representation of the period.
func (p Period) String() string {
	return "[" + p.Start.String() + ", " + p.End.String() + "]"
}
