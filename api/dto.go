/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. These types decouple
  the internal domain model from the external API contract.

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients

VALIDATION:
  Validation is done in handlers and the engine, not in DTOs.

SEE ALSO:
  - handlers.go: Uses these types
  - factory/records.go: RecordJSON type
*/
package api

import (
	"time"

	"github.com/warp/lease-engine/factory"
	"github.com/warp/lease-engine/renewal"
)

// OptimizeRequest is the JSON body of POST /api/optimize.
type OptimizeRequest struct {
	MaxPerDay *int                 `json:"max_per_day,omitempty"` // nil = server default
	Records   []factory.RecordJSON `json:"records"`
	Source    string               `json:"source,omitempty"`
}

// AssignmentDTO is one optimized lease.
type AssignmentDTO struct {
	UnitNumber            int    `json:"unit_number"`
	OriginalLeaseEndDate  string `json:"original_lease_end_date"`
	OptimizedLeaseEndDate string `json:"optimized_lease_end_date"`
	OffsetDays            int    `json:"offset_days"`
	Fallback              bool   `json:"fallback"`
}

// SummaryDTO mirrors renewal.Summary.
type SummaryDTO struct {
	LeaseCount     int    `json:"lease_count"`
	DaysUsed       int    `json:"days_used"`
	OnIdealDate    int    `json:"on_ideal_date"`
	Fallbacks      int    `json:"fallbacks"`
	OverbookedDays int    `json:"overbooked_days"`
	PeakLoad       int    `json:"peak_load"`
	PeakDate       string `json:"peak_date,omitempty"`
	MaxAbsOffset   int    `json:"max_abs_offset_days"`
	MeanAbsOffset  string `json:"mean_abs_offset_days"`
	MeanLoad       string `json:"mean_load"`
	FirstDate      string `json:"first_date,omitempty"`
	LastDate       string `json:"last_date,omitempty"`
}

// RunDTO is a full run in API responses.
type RunDTO struct {
	ID           string          `json:"id"`
	MaxPerDay    int             `json:"max_per_day"`
	Source       string          `json:"source,omitempty"`
	CreatedAt    string          `json:"created_at"`
	Assignments  []AssignmentDTO `json:"assignments"`
	Distribution map[string]int  `json:"distribution"`
	Summary      SummaryDTO      `json:"summary"`
}

// RunInfoDTO is a run in list responses.
type RunInfoDTO struct {
	ID         string `json:"id"`
	MaxPerDay  int    `json:"max_per_day"`
	Source     string `json:"source,omitempty"`
	CreatedAt  string `json:"created_at"`
	LeaseCount int    `json:"lease_count"`
}

// ErrorResponse is returned on any failure.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// =============================================================================
// CONVERSIONS
// =============================================================================

func toRunDTO(run *renewal.Run) RunDTO {
	assignments := make([]AssignmentDTO, len(run.Result.Assignments))
	for i, a := range run.Result.Assignments {
		assignments[i] = AssignmentDTO{
			UnitNumber:            a.UnitNumber,
			OriginalLeaseEndDate:  a.OriginalLeaseEndDate,
			OptimizedLeaseEndDate: a.OptimizedLeaseEndDate,
			OffsetDays:            a.Offset,
			Fallback:              a.Fallback,
		}
	}
	distribution := make(map[string]int, len(run.Result.Distribution))
	for k, v := range run.Result.Distribution {
		distribution[k] = v
	}

	return RunDTO{
		ID:           run.ID,
		MaxPerDay:    run.MaxPerDay,
		Source:       run.Source,
		CreatedAt:    run.CreatedAt.Format(time.RFC3339),
		Assignments:  assignments,
		Distribution: distribution,
		Summary:      toSummaryDTO(renewal.Summarize(run.Result, run.MaxPerDay)),
	}
}

func toSummaryDTO(s renewal.Summary) SummaryDTO {
	dto := SummaryDTO{
		LeaseCount:     s.LeaseCount,
		DaysUsed:       s.DaysUsed,
		OnIdealDate:    s.OnIdealDate,
		Fallbacks:      s.Fallbacks,
		OverbookedDays: s.OverbookedDays,
		PeakLoad:       s.PeakLoad,
		PeakDate:       s.PeakDate,
		MaxAbsOffset:   s.MaxAbsOffset,
		MeanAbsOffset:  s.MeanAbsOffset.StringFixed(2),
		MeanLoad:       s.MeanLoad.StringFixed(2),
	}
	if s.DaysUsed > 0 {
		dto.FirstDate = s.Span.Start.String()
		dto.LastDate = s.Span.End.String()
	}
	return dto
}

func toRunInfoDTO(r renewal.RunInfo) RunInfoDTO {
	return RunInfoDTO{
		ID:         r.ID,
		MaxPerDay:  r.MaxPerDay,
		Source:     r.Source,
		CreatedAt:  r.CreatedAt.Format(time.RFC3339),
		LeaseCount: r.LeaseCount,
	}
}
