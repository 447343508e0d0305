/*
handlers.go - HTTP API handlers for the lease renewal engine

PURPOSE:
  Exposes the renewal engine via REST API. Handles HTTP request/response,
  upload parsing and JSON serialization, and delegates to renewal.Service.

ENDPOINTS:
  Optimization:
    POST   /api/optimize               Optimize records (JSON body or CSV upload)

  Runs:
    GET    /api/runs                   List saved runs
    GET    /api/runs/{id}              Run with assignments and distribution
    GET    /api/runs/{id}/report       Text (default) or CSV report
    DELETE /api/runs/{id}              Delete a run

UPLOADS:
  POST /api/optimize accepts:
  - application/json   OptimizeRequest
  - text/csv           raw CSV body, capacity in ?max_per_day=
  - multipart/form-data "file" part holding the CSV, capacity in the
                        "max_per_day" form field or query

  Capacity falls back to the server default when not supplied.

ERROR HANDLING:
  Errors are returned as JSON with appropriate HTTP status:
  - 400: Invalid dates, bad rows, bad max_per_day
  - 404: Run not found
  - 413: Upload too large
  - 500: Internal errors

SEE ALSO:
  - dto.go: Request/response data structures
  - server.go: Router setup and middleware
*/
package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"mime"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/warp/lease-engine/factory"
	"github.com/warp/lease-engine/generic"
	"github.com/warp/lease-engine/renewal"
	"github.com/warp/lease-engine/report"
)

// MaxUploadBytes bounds request bodies on /api/optimize.
const MaxUploadBytes = 10 << 20

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Service     *renewal.Service
	Store       renewal.RunStore
	Logger      *slog.Logger
	MaxPerDay   int // Default capacity when a request gives none
	RowsPerPage int
}

// NewHandler creates a handler that saves runs to store.
func NewHandler(store renewal.RunStore, logger *slog.Logger, maxPerDay, rowsPerPage int) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		Service:     renewal.NewService(store, logger),
		Store:       store,
		Logger:      logger,
		MaxPerDay:   maxPerDay,
		RowsPerPage: rowsPerPage,
	}
}

// =============================================================================
// OPTIMIZATION
// =============================================================================

// Optimize parses the uploaded records, runs the engine and saves the run.
// POST /api/optimize
func (h *Handler) Optimize(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, MaxUploadBytes)

	records, maxPerDay, source, err := h.decodeOptimize(r)
	if err != nil {
		h.writeDomainError(w, "Invalid optimization request", err)
		return
	}

	run, err := h.Service.Run(r.Context(), records, maxPerDay, source)
	if err != nil {
		h.writeDomainError(w, "Optimization failed", err)
		return
	}

	writeJSON(w, http.StatusCreated, toRunDTO(run))
}

func (h *Handler) decodeOptimize(r *http.Request) ([]renewal.LeaseRecord, int, string, error) {
	maxPerDay, err := h.capacityFrom(r.URL.Query().Get("max_per_day"))
	if err != nil {
		return nil, 0, "", err
	}

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	switch mediaType {
	case "text/csv", "application/csv":
		records, err := factory.ParseCSV(r.Body)
		return records, maxPerDay, "upload.csv", err

	case "multipart/form-data":
		file, header, err := r.FormFile("file")
		if err != nil {
			return nil, 0, "", fmt.Errorf("%w: missing \"file\" part: %w", generic.ErrInvalidRecord, err)
		}
		defer file.Close()
		if v := r.FormValue("max_per_day"); v != "" {
			if maxPerDay, err = h.capacityFrom(v); err != nil {
				return nil, 0, "", err
			}
		}
		records, err := factory.ParseCSV(file)
		return records, maxPerDay, header.Filename, err

	default:
		var req OptimizeRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			return nil, 0, "", fmt.Errorf("%w: %w", generic.ErrInvalidRecord, err)
		}
		if req.MaxPerDay != nil {
			maxPerDay = *req.MaxPerDay
		}
		source := req.Source
		if source == "" {
			source = "api"
		}
		records, err := factory.FromJSON(req.Records)
		return records, maxPerDay, source, err
	}
}

// capacityFrom parses max_per_day, defaulting to the server setting.
// Zero and negative values are accepted; the engine treats them as no capacity.
func (h *Handler) capacityFrom(v string) (int, error) {
	if v == "" {
		return h.MaxPerDay, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%w: max_per_day %q is not an integer", generic.ErrInvalidRecord, v)
	}
	return n, nil
}

// =============================================================================
// RUNS
// =============================================================================

// ListRuns returns all saved runs, newest first.
// GET /api/runs
func (h *Handler) ListRuns(w http.ResponseWriter, r *http.Request) {
	runs, err := h.Store.ListRuns(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list runs", err)
		return
	}

	dtos := make([]RunInfoDTO, len(runs))
	for i, run := range runs {
		dtos[i] = toRunInfoDTO(run)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// GetRun returns a single run.
// GET /api/runs/{id}
func (h *Handler) GetRun(w http.ResponseWriter, r *http.Request) {
	run, err := h.Store.GetRun(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeDomainError(w, "Failed to get run", err)
		return
	}
	writeJSON(w, http.StatusOK, toRunDTO(run))
}

// GetReport renders a saved run.
// GET /api/runs/{id}/report?format=text|csv
func (h *Handler) GetReport(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	run, err := h.Store.GetRun(r.Context(), id)
	if err != nil {
		h.writeDomainError(w, "Failed to get run", err)
		return
	}

	renderer := report.Renderer{RowsPerPage: h.RowsPerPage, MaxPerDay: run.MaxPerDay}
	switch format := r.URL.Query().Get("format"); format {
	case "", "text":
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		err = renderer.RenderText(w, run.Result)
	case "csv":
		w.Header().Set("Content-Type", "text/csv")
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", "lease-optimization-"+id+".csv"))
		w.WriteHeader(http.StatusOK)
		err = renderer.RenderCSV(w, run.Result)
	default:
		writeError(w, http.StatusBadRequest, "Unknown report format (use text or csv)", nil)
		return
	}
	if err != nil {
		h.Logger.Error("report write failed", "run_id", id, "error", err)
	}
}

// DeleteRun removes a saved run.
// DELETE /api/runs/{id}
func (h *Handler) DeleteRun(w http.ResponseWriter, r *http.Request) {
	if err := h.Store.DeleteRun(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.writeDomainError(w, "Failed to delete run", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Health reports liveness.
// GET /healthz
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// =============================================================================
// HELPERS
// =============================================================================

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}

// writeDomainError maps engine and store errors onto HTTP status codes.
func (h *Handler) writeDomainError(w http.ResponseWriter, message string, err error) {
	var tooLarge *http.MaxBytesError
	switch {
	case errors.As(err, &tooLarge):
		writeError(w, http.StatusRequestEntityTooLarge, message, err)
	case generic.IsClientError(err):
		writeError(w, http.StatusBadRequest, message, err)
	case generic.IsNotFound(err):
		writeError(w, http.StatusNotFound, message, err)
	default:
		h.Logger.Error(message, "error", err)
		writeError(w, http.StatusInternalServerError, message, err)
	}
}
