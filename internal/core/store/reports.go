package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/lendlens/lendlens/internal/core"
)

// BatchRun is a stored batch with its derived summary.
type BatchRun struct {
	BatchID     string            `json:"batch_id"`
	StartedAt   time.Time         `json:"started_at"`
	CompletedAt time.Time         `json:"completed_at"`
	Summary     core.BatchSummary `json:"summary"`
}

// SaveReport persists one subject report outside any batch.
func (s *Store) SaveReport(ctx context.Context, report *core.SubjectReport) error {
	return s.saveReport(ctx, "", core.JobStatusSuccess, report)
}

// SaveBatch persists a batch run and every settled entry it carries.
func (s *Store) SaveBatch(ctx context.Context, result *core.BatchResult, summary core.BatchSummary) error {
	if s == nil || s.DB == nil {
		return errors.New("store is not initialized")
	}
	if result == nil {
		return errors.New("batch result is required")
	}
	if ctx == nil {
		ctx = context.Background()
	}

	summaryJSON, err := json.Marshal(summary)
	if err != nil {
		return fmt.Errorf("marshal batch summary: %w", err)
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin batch save: %w", err)
	}
	defer tx.Rollback() // nolint:errcheck // no-op after commit

	_, err = tx.ExecContext(ctx,
		`INSERT OR REPLACE INTO batch_runs
			(batch_id, started_at, completed_at, total, succeeded, failed, summary_json)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		result.BatchID,
		result.StartedAt.Unix(),
		result.CompletedAt.Unix(),
		summary.Total,
		summary.Succeeded,
		summary.Failed,
		string(summaryJSON),
	)
	if err != nil {
		return fmt.Errorf("save batch run: %w", err)
	}

	for _, entry := range result.Entries {
		if entry.Report == nil {
			continue
		}
		reportJSON, err := json.Marshal(entry.Report)
		if err != nil {
			return fmt.Errorf("marshal report for %s: %w", entry.Subject.Name, err)
		}
		_, err = tx.ExecContext(ctx,
			`INSERT OR REPLACE INTO subject_reports
				(report_id, batch_id, subject_name, status, generated_at, report_json)
			 VALUES (?, ?, ?, ?, ?, ?)`,
			entry.Report.ReportID,
			result.BatchID,
			entry.Subject.Name,
			string(entry.Status),
			entry.Report.GeneratedAt.Unix(),
			string(reportJSON),
		)
		if err != nil {
			return fmt.Errorf("save report for %s: %w", entry.Subject.Name, err)
		}
	}

	return tx.Commit()
}

// SaveResearchOutcomes persists sequential research results.
func (s *Store) SaveResearchOutcomes(ctx context.Context, outcomes []core.UnitOutcome) error {
	if s == nil || s.DB == nil {
		return errors.New("store is not initialized")
	}
	if ctx == nil {
		ctx = context.Background()
	}

	for _, outcome := range outcomes {
		_, err := s.DB.ExecContext(ctx,
			`INSERT INTO research_outcomes
				(subject_name, research_kind, result, error, completed_at)
			 VALUES (?, ?, ?, ?, ?)`,
			outcome.Subject.Name,
			string(outcome.Kind),
			outcome.Result,
			outcome.Err,
			outcome.CompletedAt.Unix(),
		)
		if err != nil {
			return fmt.Errorf("save research outcome for %s: %w", outcome.Subject.Name, err)
		}
	}
	return nil
}

// RecentBatches lists the most recent batch runs, newest first.
func (s *Store) RecentBatches(ctx context.Context, limit int) ([]BatchRun, error) {
	if s == nil || s.DB == nil {
		return nil, errors.New("store is not initialized")
	}
	if ctx == nil {
		ctx = context.Background()
	}
	if limit <= 0 {
		limit = 10
	}

	rows, err := s.DB.QueryContext(ctx,
		`SELECT batch_id, started_at, completed_at, summary_json
		 FROM batch_runs ORDER BY completed_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list batch runs: %w", err)
	}
	defer rows.Close() // nolint:errcheck // read-only cursor

	runs := make([]BatchRun, 0, limit)
	for rows.Next() {
		var (
			run         BatchRun
			startedAt   int64
			completedAt int64
			summaryJSON string
		)
		if err := rows.Scan(&run.BatchID, &startedAt, &completedAt, &summaryJSON); err != nil {
			return nil, fmt.Errorf("scan batch run: %w", err)
		}
		run.StartedAt = time.Unix(startedAt, 0).UTC()
		run.CompletedAt = time.Unix(completedAt, 0).UTC()
		if err := json.Unmarshal([]byte(summaryJSON), &run.Summary); err != nil {
			return nil, fmt.Errorf("decode batch summary: %w", err)
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// LatestReport fetches the newest stored report for a subject.
func (s *Store) LatestReport(ctx context.Context, subjectName string) (*core.SubjectReport, error) {
	if s == nil || s.DB == nil {
		return nil, errors.New("store is not initialized")
	}
	if ctx == nil {
		ctx = context.Background()
	}

	var reportJSON string
	err := s.DB.QueryRowContext(ctx,
		`SELECT report_json FROM subject_reports
		 WHERE subject_name = ? ORDER BY generated_at DESC LIMIT 1`,
		subjectName).Scan(&reportJSON)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load report for %s: %w", subjectName, err)
	}

	report := &core.SubjectReport{}
	if err := json.Unmarshal([]byte(reportJSON), report); err != nil {
		return nil, fmt.Errorf("decode report for %s: %w", subjectName, err)
	}
	return report, nil
}

func (s *Store) saveReport(ctx context.Context, batchID string, status core.JobStatus, report *core.SubjectReport) error {
	if s == nil || s.DB == nil {
		return errors.New("store is not initialized")
	}
	if report == nil {
		return errors.New("report is required")
	}
	if ctx == nil {
		ctx = context.Background()
	}

	reportJSON, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}

	_, err = s.DB.ExecContext(ctx,
		`INSERT OR REPLACE INTO subject_reports
			(report_id, batch_id, subject_name, status, generated_at, report_json)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		report.ReportID,
		batchID,
		report.Subject.Name,
		string(status),
		report.GeneratedAt.Unix(),
		string(reportJSON),
	)
	if err != nil {
		return fmt.Errorf("save report: %w", err)
	}
	return nil
}
