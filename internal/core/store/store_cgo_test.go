//go:build cgo

package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/lendlens/lendlens/internal/config"
	"github.com/lendlens/lendlens/internal/core"
)

func openMemoryStore(t *testing.T) *Store {
	t.Helper()
	ctx := context.Background()
	s, err := Open(ctx, config.StoreConfig{Driver: "libsql", Path: ":memory:"})
	require.NoError(t, err)
	require.NoError(t, s.Migrate(ctx))
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestOpenMemoryStore(t *testing.T) {
	s := openMemoryStore(t)
	require.Equal(t, "libsql", s.Driver())
}

func TestSaveBatchAndRecentBatches(t *testing.T) {
	ctx := context.Background()
	s := openMemoryStore(t)

	now := time.Now().UTC().Truncate(time.Second)
	result := &core.BatchResult{
		BatchID:     "batch-1",
		StartedAt:   now.Add(-time.Minute),
		CompletedAt: now,
		Entries: []core.BatchEntry{
			{
				Subject: core.Subject{Name: "Acme Inc"},
				Status:  core.JobStatusSuccess,
				Report: &core.SubjectReport{
					ReportID:    "rep-1",
					Subject:     core.Subject{Name: "Acme Inc"},
					Outcomes:    map[core.SourceKind]core.ProbeOutcome{core.SourceKindNews: {Kind: core.SourceKindNews}},
					GeneratedAt: now,
				},
			},
			{
				Subject: core.Subject{Name: "Bad Corp"},
				Status:  core.JobStatusError,
				Err:     "bad subject",
			},
		},
	}
	summary := core.BatchSummary{Total: 2, Succeeded: 1, Failed: 1,
		FailedSubjects: []core.FailedSubject{{Name: "Bad Corp", Message: "bad subject"}}}

	require.NoError(t, s.SaveBatch(ctx, result, summary))

	runs, err := s.RecentBatches(ctx, 5)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	require.Equal(t, "batch-1", runs[0].BatchID)
	require.Equal(t, summary, runs[0].Summary)

	report, err := s.LatestReport(ctx, "Acme Inc")
	require.NoError(t, err)
	require.NotNil(t, report)
	require.Equal(t, "rep-1", report.ReportID)
	require.Len(t, report.Outcomes, 1)

	missing, err := s.LatestReport(ctx, "Nobody Inc")
	require.NoError(t, err)
	require.Nil(t, missing)
}

func TestSaveResearchOutcomes(t *testing.T) {
	ctx := context.Background()
	s := openMemoryStore(t)

	outcomes := []core.UnitOutcome{
		{Subject: core.Subject{Name: "Acme Inc"}, Kind: core.ResearchKindCredit, Result: "low risk", CompletedAt: time.Now().UTC()},
		{Subject: core.Subject{Name: "Acme Inc"}, Kind: core.ResearchKindSEC, Err: "rate limited", CompletedAt: time.Now().UTC()},
	}
	require.NoError(t, s.SaveResearchOutcomes(ctx, outcomes))

	var count int
	require.NoError(t, s.DB.QueryRow(`SELECT COUNT(*) FROM research_outcomes`).Scan(&count))
	require.Equal(t, 2, count)
}
