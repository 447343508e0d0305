// Package generic holds the day-granular calendar, the per-day capacity
// ledger and the shared error types used by the renewal engine.
package generic

import (
	"strings"
	"time"
)

// =============================================================================
// TIME POINT - Calendar day abstraction (renewals are scheduled per day)
// =============================================================================

// DateLayout is the canonical YYYY-MM-DD form used for ledger keys and output.
const DateLayout = "2006-01-02"

// TimePoint is a calendar day in UTC. The time-of-day part is always zero.
type TimePoint struct {
	Time time.Time
}

// Constructors
func NewTimePoint(year int, month time.Month, day int) TimePoint {
	return TimePoint{Time: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// ParseDate parses a YYYY-MM-DD string into a TimePoint.
// An RFC 3339 timestamp is accepted and truncated to its date part.
// Dates that do not exist on the calendar (2023-02-29, 2024-13-01) are rejected.
func ParseDate(s string) (TimePoint, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return TimePoint{}, ErrMissingDate
	}
	if t, err := time.Parse(DateLayout, s); err == nil {
		return NewTimePoint(t.Year(), t.Month(), t.Day()), nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return TimePoint{}, err
	}
	return NewTimePoint(t.Year(), t.Month(), t.Day()), nil
}

// MustParseDate is ParseDate for literals in tests and fixtures.
func MustParseDate(s string) TimePoint {
	tp, err := ParseDate(s)
	if err != nil {
		panic(err)
	}
	return tp
}

// Comparison
func (tp TimePoint) Before(other TimePoint) bool        { return tp.Time.Before(other.Time) }
func (tp TimePoint) Equal(other TimePoint) bool         { return tp.Time.Equal(other.Time) }
func (tp TimePoint) After(other TimePoint) bool         { return tp.Time.After(other.Time) }
func (tp TimePoint) BeforeOrEqual(other TimePoint) bool { return !tp.After(other) }
func (tp TimePoint) AfterOrEqual(other TimePoint) bool  { return !tp.Before(other) }

// Arithmetic
func (tp TimePoint) AddDays(n int) TimePoint { return TimePoint{Time: tp.Time.AddDate(0, 0, n)} }

// AddYears moves the date n calendar years, keeping month and day.
// When the day does not exist in the target year (Feb 29), the result is the
// last day of that month instead of rolling into the next one.
func (tp TimePoint) AddYears(n int) TimePoint {
	year := tp.Year() + n
	day := tp.Day()
	if last := EndOfMonth(year, tp.Month()).Day(); day > last {
		day = last
	}
	return NewTimePoint(year, tp.Month(), day)
}

// Properties
func (tp TimePoint) Year() int         { return tp.Time.Year() }
func (tp TimePoint) Month() time.Month { return tp.Time.Month() }
func (tp TimePoint) Day() int          { return tp.Time.Day() }
func (tp TimePoint) IsZero() bool      { return tp.Time.IsZero() }

// String returns the canonical YYYY-MM-DD form.
func (tp TimePoint) String() string {
	return tp.Time.Format(DateLayout)
}

// =============================================================================
// TIME UTILITIES
// =============================================================================

func DaysBetween(from, to TimePoint) int { return int(to.Time.Sub(from.Time).Hours() / 24) }

func EndOfMonth(year int, month time.Month) TimePoint {
	return TimePoint{Time: time.Date(year, month+1, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, -1)}
}
