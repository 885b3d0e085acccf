package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/lendlens/lendlens/internal/config"
	"github.com/lendlens/lendlens/internal/core"
	"github.com/lendlens/lendlens/internal/core/store"
	"github.com/lendlens/lendlens/internal/server/handlers"
	"github.com/lendlens/lendlens/internal/server/middleware"
)

type stubRunner struct {
	result *core.BatchResult
	err    error
}

func (s stubRunner) Run(ctx context.Context, subjects []core.Subject) (*core.BatchResult, error) {
	return s.result, s.err
}

type stubStore struct {
	saved   *core.BatchResult
	runs    []store.BatchRun
	report  *core.SubjectReport
	saveErr error
}

func (s *stubStore) SaveBatch(ctx context.Context, result *core.BatchResult, summary core.BatchSummary) error {
	s.saved = result
	return s.saveErr
}

func (s *stubStore) RecentBatches(ctx context.Context, limit int) ([]store.BatchRun, error) {
	if limit < len(s.runs) {
		return s.runs[:limit], nil
	}
	return s.runs, nil
}

func (s *stubStore) LatestReport(ctx context.Context, subjectName string) (*core.SubjectReport, error) {
	return s.report, nil
}

func newTestServer(api *handlers.API) *Server {
	return New(config.ServerConfig{Host: "127.0.0.1", Port: 0}, api)
}

func TestServerUsesStandardErrorHandlers(t *testing.T) {
	srv := newTestServer(&handlers.API{Runner: stubRunner{}})

	req := httptest.NewRequest(http.MethodGet, "/does-not-exist", nil)
	rec := httptest.NewRecorder()

	srv.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d", rec.Code)
	}

	var body middleware.ErrorResponse
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode error response: %v", err)
	}

	if body.Error.Code != "NOT_FOUND" {
		t.Fatalf("expected error code NOT_FOUND, got %s", body.Error.Code)
	}
}

func TestServerHealthEndpoint(t *testing.T) {
	srv := newTestServer(&handlers.API{Runner: stubRunner{}})

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()

	srv.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}

	var resp handlers.HealthResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Status != "healthy" {
		t.Fatalf("expected healthy status, got %s", resp.Status)
	}
}

func TestServerRunBatchEndpoint(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	result := &core.BatchResult{
		BatchID: "batch-1",
		Entries: []core.BatchEntry{
			{Subject: core.Subject{Name: "Acme Lending"}, Status: core.JobStatusSuccess},
		},
		StartedAt:   now,
		CompletedAt: now.Add(time.Second),
	}
	st := &stubStore{}
	srv := newTestServer(&handlers.API{Runner: stubRunner{result: result}, Store: st})

	body := `{"subjects": [{"name": "Acme Lending"}]}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/batch", strings.NewReader(body))
	rec := httptest.NewRecorder()

	srv.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp handlers.BatchResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Result == nil || resp.Result.BatchID != "batch-1" {
		t.Fatalf("unexpected result: %+v", resp.Result)
	}
	if resp.Summary.Total != 1 || resp.Summary.Succeeded != 1 {
		t.Fatalf("unexpected summary: %+v", resp.Summary)
	}
	if st.saved == nil || st.saved.BatchID != "batch-1" {
		t.Fatalf("expected batch to be persisted, got %+v", st.saved)
	}
}

func TestServerRunBatchRejectsBadJSON(t *testing.T) {
	srv := newTestServer(&handlers.API{Runner: stubRunner{}})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/batch", strings.NewReader("{not json"))
	rec := httptest.NewRecorder()

	srv.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rec.Code)
	}
}

func TestServerRecentBatchesEndpoint(t *testing.T) {
	st := &stubStore{runs: []store.BatchRun{{BatchID: "a"}, {BatchID: "b"}, {BatchID: "c"}}}
	srv := newTestServer(&handlers.API{Runner: stubRunner{}, Store: st})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/batches/recent?limit=2", nil)
	rec := httptest.NewRecorder()

	srv.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}

	var resp struct {
		Batches []store.BatchRun `json:"batches"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(resp.Batches) != 2 {
		t.Fatalf("expected 2 batches, got %d", len(resp.Batches))
	}
}

func TestServerRecentBatchesWithoutStore(t *testing.T) {
	srv := newTestServer(&handlers.API{Runner: stubRunner{}})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/batches/recent", nil)
	rec := httptest.NewRecorder()

	srv.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusNotImplemented {
		t.Fatalf("expected status 501, got %d", rec.Code)
	}
}

func TestServerLatestReportNotFound(t *testing.T) {
	srv := newTestServer(&handlers.API{Runner: stubRunner{}, Store: &stubStore{}})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/subjects/Acme/report", nil)
	rec := httptest.NewRecorder()

	srv.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d", rec.Code)
	}
}

func TestServerAttachesRequestID(t *testing.T) {
	srv := newTestServer(&handlers.API{Runner: stubRunner{}})

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()

	srv.Handler().ServeHTTP(rec, req)

	if rec.Header().Get(middleware.RequestIDHeader) == "" {
		t.Fatal("expected X-Request-ID header to be set")
	}
}
