package store

import (
	"context"
	"errors"
	"fmt"
)

var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS batch_runs (
		batch_id TEXT PRIMARY KEY,
		started_at INTEGER NOT NULL,
		completed_at INTEGER NOT NULL,
		total INTEGER NOT NULL,
		succeeded INTEGER NOT NULL,
		failed INTEGER NOT NULL,
		summary_json TEXT NOT NULL
	);`,
	`CREATE TABLE IF NOT EXISTS subject_reports (
		report_id TEXT PRIMARY KEY,
		batch_id TEXT,
		subject_name TEXT NOT NULL,
		status TEXT NOT NULL,
		generated_at INTEGER NOT NULL,
		report_json TEXT NOT NULL
	);`,
	`CREATE INDEX IF NOT EXISTS idx_subject_reports_batch ON subject_reports(batch_id);`,
	`CREATE INDEX IF NOT EXISTS idx_subject_reports_name ON subject_reports(subject_name, generated_at);`,
	`CREATE TABLE IF NOT EXISTS research_outcomes (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		subject_name TEXT NOT NULL,
		research_kind TEXT NOT NULL,
		result TEXT,
		error TEXT,
		completed_at INTEGER NOT NULL
	);`,
	`CREATE INDEX IF NOT EXISTS idx_research_outcomes_subject ON research_outcomes(subject_name, completed_at);`,
}

// Migrate ensures the required database tables exist.
func (s *Store) Migrate(ctx context.Context) error {
	if s == nil || s.DB == nil {
		return errors.New("store is not initialized")
	}

	if ctx == nil {
		ctx = context.Background()
	}

	for _, stmt := range schemaStatements {
		if _, err := s.DB.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("store migration failed: %w", err)
		}
	}

	return nil
}
