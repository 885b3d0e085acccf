package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/lendlens/lendlens/internal/core"
	"github.com/lendlens/lendlens/internal/core/engine"
	"github.com/lendlens/lendlens/internal/core/store"
	apperrors "github.com/lendlens/lendlens/internal/errors"
	"github.com/lendlens/lendlens/internal/server/middleware"
)

// BatchRunner executes a monitoring batch for a set of subjects.
type BatchRunner interface {
	Run(ctx context.Context, subjects []core.Subject) (*core.BatchResult, error)
}

// ReportStore is the subset of the report store the API reads and writes.
type ReportStore interface {
	SaveBatch(ctx context.Context, result *core.BatchResult, summary core.BatchSummary) error
	RecentBatches(ctx context.Context, limit int) ([]store.BatchRun, error)
	LatestReport(ctx context.Context, subjectName string) (*core.SubjectReport, error)
}

// API holds the dependencies shared by the batch endpoints. Store may be
// nil when persistence is disabled.
type API struct {
	Runner BatchRunner
	Store  ReportStore
	Logger *zap.Logger
}

// BatchRequest is the POST /api/v1/batch payload.
type BatchRequest struct {
	Subjects []core.Subject `json:"subjects"`
}

// BatchResponse carries the completed batch and its summary.
type BatchResponse struct {
	Summary core.BatchSummary `json:"summary"`
	Result  *core.BatchResult `json:"result"`
}

// RunBatch runs a monitoring batch synchronously and returns the result.
func (a *API) RunBatch(w http.ResponseWriter, r *http.Request) {
	var req BatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		middleware.WriteError(w, r, http.StatusBadRequest,
			"INVALID_REQUEST", "request body must be valid JSON")
		return
	}

	result, err := a.Runner.Run(r.Context(), req.Subjects)
	if err != nil {
		switch {
		case apperrors.IsConfigError(err), errors.Is(err, apperrors.ErrNoSubjects):
			middleware.WriteError(w, r, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
			middleware.WriteError(w, r, http.StatusServiceUnavailable, "BATCH_INTERRUPTED", err.Error())
		default:
			middleware.WriteError(w, r, http.StatusInternalServerError, "BATCH_FAILED", err.Error())
		}
		return
	}

	summary := engine.Summarize(result)

	if a.Store != nil {
		if err := a.Store.SaveBatch(r.Context(), result, summary); err != nil && a.Logger != nil {
			a.Logger.Warn("Failed to persist batch",
				zap.String("batch_id", result.BatchID),
				zap.Error(err))
		}
	}

	writeJSON(w, http.StatusOK, BatchResponse{Summary: summary, Result: result})
}

// RecentBatches lists recently completed batch runs from the store.
func (a *API) RecentBatches(w http.ResponseWriter, r *http.Request) {
	if a.Store == nil {
		middleware.WriteError(w, r, http.StatusNotImplemented,
			"STORE_DISABLED", "report persistence is not configured")
		return
	}

	limit := 10
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			middleware.WriteError(w, r, http.StatusBadRequest,
				"INVALID_REQUEST", "limit must be a positive integer")
			return
		}
		limit = parsed
	}

	runs, err := a.Store.RecentBatches(r.Context(), limit)
	if err != nil {
		middleware.WriteError(w, r, http.StatusInternalServerError, "STORE_ERROR", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"batches": runs})
}

// LatestReport returns the most recent report for one subject.
func (a *API) LatestReport(w http.ResponseWriter, r *http.Request) {
	if a.Store == nil {
		middleware.WriteError(w, r, http.StatusNotImplemented,
			"STORE_DISABLED", "report persistence is not configured")
		return
	}

	name := chi.URLParam(r, "name")
	report, err := a.Store.LatestReport(r.Context(), name)
	if err != nil {
		middleware.WriteError(w, r, http.StatusInternalServerError, "STORE_ERROR", err.Error())
		return
	}
	if report == nil {
		middleware.WriteError(w, r, http.StatusNotFound,
			"NOT_FOUND", "no report found for subject")
		return
	}

	writeJSON(w, http.StatusOK, report)
}

func writeJSON(w http.ResponseWriter, statusCode int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(payload)
}
