/*
Package factory converts uploaded lease files into renewal.LeaseRecord values.

PURPOSE:
  Property managers export their rent roll as CSV (or send JSON from the
  web front end). The factory turns either shape into the ordered record
  list the engine consumes. Row order is preserved exactly; the engine's
  output depends on it.

CSV SCHEMA:
  unitNumber,leaseEndDate
  101,2024-01-15
  102,2024-03-31

  - Header row required. Column names are matched case-insensitively, and
    "unit_number" / "lease_end_date" are accepted as aliases.
  - Extra columns are ignored; column order is free.
  - Blank lines are skipped. Cells are trimmed.

JSON SCHEMA:
  [
    {"unit_number": 101, "lease_end_date": "2024-01-15"},
    {"unit_number": 102, "lease_end_date": "2024-03-31"}
  ]

VALIDATION:
  Unit numbers must be integers; a bad one is a *RowError.
  Dates are passed through raw. The engine validates them and reports
  *generic.InvalidDateError with the record index, so the caller gets the
  same error whatever the input format.

SEE ALSO:
  - renewal/engine.go: Consumes the records
  - generic/errors.go: ErrInvalidRecord
*/
package factory

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/warp/lease-engine/generic"
	"github.com/warp/lease-engine/renewal"
)

// =============================================================================
// ERRORS
// =============================================================================

// ErrMissingColumn is returned when the CSV header lacks a required column.
var ErrMissingColumn = fmt.Errorf("%w: missing required column", generic.ErrInvalidRecord)

// RowError describes one unusable cell in the input.
type RowError struct {
	Line   int // 1-based line in the CSV, or 1-based element in JSON
	Column string
	Value  string
	Err    error
}

func (e *RowError) Error() string {
	return fmt.Sprintf("line %d: invalid %s %q: %v", e.Line, e.Column, e.Value, e.Err)
}

func (e *RowError) Unwrap() error {
	return generic.ErrInvalidRecord
}

// =============================================================================
// CSV
// =============================================================================

var columnAliases = map[string]string{
	"unitnumber":     colUnit,
	"unit_number":    colUnit,
	"unit":           colUnit,
	"leaseenddate":   colDate,
	"lease_end_date": colDate,
}

const (
	colUnit = "unitNumber"
	colDate = "leaseEndDate"
)

// ParseCSV reads lease records from CSV with a header row.
func ParseCSV(r io.Reader) ([]renewal.LeaseRecord, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("%w: %s, %s (empty input)", ErrMissingColumn, colUnit, colDate)
	}
	if err != nil {
		return nil, fmt.Errorf("read csv header: %w: %w", generic.ErrInvalidRecord, err)
	}

	index, err := columnIndex(header)
	if err != nil {
		return nil, err
	}

	var records []renewal.LeaseRecord
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv: %w: %w", generic.ErrInvalidRecord, err)
		}
		line, _ := cr.FieldPos(0)
		if isBlank(row) {
			continue
		}

		unitText := cell(row, index[colUnit])
		unit, err := parseUnit(unitText)
		if err != nil {
			return nil, &RowError{Line: line, Column: colUnit, Value: unitText, Err: err}
		}
		records = append(records, renewal.LeaseRecord{
			UnitNumber:   unit,
			LeaseEndDate: cell(row, index[colDate]),
		})
	}
	return records, nil
}

func columnIndex(header []string) (map[string]int, error) {
	index := make(map[string]int, 2)
	for i, name := range header {
		key := strings.ToLower(strings.TrimSpace(strings.TrimPrefix(name, "\ufeff")))
		if col, ok := columnAliases[key]; ok {
			if _, dup := index[col]; !dup {
				index[col] = i
			}
		}
	}
	for _, col := range []string{colUnit, colDate} {
		if _, ok := index[col]; !ok {
			return nil, fmt.Errorf("%w: %s", ErrMissingColumn, col)
		}
	}
	return index, nil
}

func cell(row []string, i int) string {
	if i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

func isBlank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

func parseUnit(s string) (int, error) {
	if s == "" {
		return 0, errors.New("empty")
	}
	return strconv.Atoi(s)
}

// =============================================================================
// JSON
// =============================================================================

// RecordJSON is the JSON representation of a lease record.
type RecordJSON struct {
	UnitNumber   json.Number `json:"unit_number"`
	LeaseEndDate string      `json:"lease_end_date"`
}

// ParseJSON reads a JSON array of lease records.
func ParseJSON(r io.Reader) ([]renewal.LeaseRecord, error) {
	var raw []RecordJSON
	dec := json.NewDecoder(r)
	dec.UseNumber()
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("decode records: %w: %w", generic.ErrInvalidRecord, err)
	}
	return FromJSON(raw)
}

// FromJSON converts decoded records, validating unit numbers.
func FromJSON(raw []RecordJSON) ([]renewal.LeaseRecord, error) {
	records := make([]renewal.LeaseRecord, 0, len(raw))
	for i, rec := range raw {
		unit, err := parseUnit(rec.UnitNumber.String())
		if err != nil {
			return nil, &RowError{Line: i + 1, Column: colUnit, Value: rec.UnitNumber.String(), Err: err}
		}
		records = append(records, renewal.LeaseRecord{UnitNumber: unit, LeaseEndDate: rec.LeaseEndDate})
	}
	return records, nil
}
