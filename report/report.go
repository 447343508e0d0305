/*
Package report renders an optimization result for people.

PURPOSE:
  Turns a renewal.Result into the document a property manager prints or
  downloads: a title, one row per lease (unit, original end, optimized end)
  and a closing summary of how many renewals land on each day.

FORMATS:
  Text: fixed-width, paginated. A page holds RowsPerPage lines of rows;
        pages are separated by a form feed and repeat the title with a
        page number.
  CSV:  one row per lease, no pagination, for spreadsheets.

PAGINATION:
  Only the renderer knows about pages. Detail rows and summary lines count
  toward the same RowsPerPage limit.

SEE ALSO:
  - renewal/summary.go: Headline statistics printed under the title
*/
package report

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/warp/lease-engine/renewal"
)

// Title heads every page of the text report.
const Title = "Lease Optimization Report"

// DefaultRowsPerPage matches the printed layout: 26 ten-point lines per page.
const DefaultRowsPerPage = 26

// Renderer writes reports. The zero value uses DefaultRowsPerPage.
type Renderer struct {
	RowsPerPage int
	MaxPerDay   int // Printed in the header and used for the summary
}

// RenderText writes the paginated text report.
func (r Renderer) RenderText(w io.Writer, result renewal.Result) error {
	p := &pager{w: bufio.NewWriter(w), perPage: r.rowsPerPage()}

	p.title()
	s := renewal.Summarize(result, r.MaxPerDay)
	p.printf("Max renewals per day: %d\n", r.MaxPerDay)
	p.printf("Leases: %d   Days used: %d   On ideal date: %d   Fallbacks: %d   Overbooked days: %d\n",
		s.LeaseCount, s.DaysUsed, s.OnIdealDate, s.Fallbacks, s.OverbookedDays)
	p.printf("Mean shift: %s days   Max shift: %d days\n\n", s.MeanAbsOffset.StringFixed(2), s.MaxAbsOffset)

	p.printf("Lease Details:\n")
	header := fmt.Sprintf("%-12s %-20s %s\n", "Unit Number", "Original Lease End", "Optimized Lease End")
	p.printf("%s", header)
	p.onBreak = func() { p.printf("%s", header) }
	for _, a := range result.Assignments {
		mark := ""
		if a.Fallback {
			mark = " *"
		}
		p.row("%-12d %-20s %s%s\n", a.UnitNumber, a.OriginalLeaseEndDate, a.OptimizedLeaseEndDate, mark)
	}
	p.onBreak = nil

	p.printf("\nLease Distribution Summary:\n")
	for _, date := range result.Distribution.Dates() {
		p.row("%s: %d\n", date, result.Distribution[date])
	}
	if s.Fallbacks > 0 {
		p.printf("\n* capacity exhausted within a year of the ideal date; ideal date overbooked\n")
	}
	return p.flush()
}

// RenderCSV writes one row per assignment.
func (r Renderer) RenderCSV(w io.Writer, result renewal.Result) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"unit_number", "original_lease_end", "optimized_lease_end", "offset_days", "fallback"}); err != nil {
		return err
	}
	for _, a := range result.Assignments {
		row := []string{
			strconv.Itoa(a.UnitNumber),
			a.OriginalLeaseEndDate,
			a.OptimizedLeaseEndDate,
			strconv.Itoa(a.Offset),
			strconv.FormatBool(a.Fallback),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func (r Renderer) rowsPerPage() int {
	if r.RowsPerPage <= 0 {
		return DefaultRowsPerPage
	}
	return r.RowsPerPage
}

// =============================================================================
// PAGER
// =============================================================================

type pager struct {
	w       *bufio.Writer
	perPage int
	page    int
	rows    int
	onBreak func()
	err     error
}

func (p *pager) title() {
	p.page++
	p.printf("%s - Page %d\n\n", Title, p.page)
}

func (p *pager) printf(format string, args ...any) {
	if p.err != nil {
		return
	}
	_, p.err = fmt.Fprintf(p.w, format, args...)
}

// row writes one counted line, starting a new page first when the current
// one is full.
func (p *pager) row(format string, args ...any) {
	if p.rows == p.perPage {
		p.printf("\f")
		p.title()
		p.rows = 0
		if p.onBreak != nil {
			p.onBreak()
		}
	}
	p.printf(format, args...)
	p.rows++
}

func (p *pager) flush() error {
	if p.err != nil {
		return p.err
	}
	return p.w.Flush()
}
