/*
errors.go - Centralized error types for the renewal engine

PURPOSE:
  All error types in one place for consistency and discoverability.
  Packages wrap these errors with additional context.

ERROR CATEGORIES:
  1. Input errors - Malformed lease records (bad dates, bad unit numbers)
  2. Store errors - Saved run lookups and persistence failures

NOT AN ERROR:
  Capacity exhaustion. When no day within the search window has room, the
  engine overbooks the ideal date and flags the placement as a fallback.
  Callers observe it through OptimizedLease.Fallback, never through an error.

USAGE:
  Callers classify with errors.Is / errors.As:

    var dateErr *generic.InvalidDateError
    if errors.As(err, &dateErr) {
        log.Printf("row %d has bad date %q", dateErr.Index, dateErr.Value)
    }

SEE ALSO:
  - renewal/engine.go: Returns InvalidDateError
  - factory/records.go: Returns RowError wrapping ErrInvalidRecord
*/
package generic

import (
	"errors"
	"fmt"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrInvalidDate is returned when a lease end date is not a real calendar date.
	ErrInvalidDate = errors.New("invalid date")

	// ErrMissingDate is returned by ParseDate for empty input.
	ErrMissingDate = errors.New("missing date")

	// ErrInvalidRecord is returned when an input row cannot become a lease record.
	ErrInvalidRecord = errors.New("invalid lease record")

	// ErrInvalidPeriod is returned when a period is malformed (end before start).
	ErrInvalidPeriod = errors.New("invalid period: end before start")

	// ErrRunNotFound is returned when a saved optimization run doesn't exist.
	ErrRunNotFound = errors.New("run not found")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// InvalidDateError reports the record whose lease end date could not be parsed.
// The whole batch is rejected; no partial assignment is produced.
type InvalidDateError struct {
	Index      int    // Position of the record in the input (0-based)
	UnitNumber int    // Unit number of the offending record
	Value      string // Raw date text as supplied
	Err        error  // Underlying parse error
}

func (e *InvalidDateError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("invalid lease end date %q for unit %d (record %d): %v",
			e.Value, e.UnitNumber, e.Index, e.Err)
	}
	return fmt.Sprintf("invalid lease end date %q for unit %d (record %d)",
		e.Value, e.UnitNumber, e.Index)
}

func (e *InvalidDateError) Unwrap() error {
	return ErrInvalidDate
}

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsClientError returns true if the error is due to invalid client input.
func IsClientError(err error) bool {
	return errors.Is(err, ErrInvalidDate) ||
		errors.Is(err, ErrInvalidRecord) ||
		errors.Is(err, ErrInvalidPeriod)
}

// IsNotFound returns true if the error indicates a missing resource.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrRunNotFound)
}
