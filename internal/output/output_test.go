package output

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/lendlens/lendlens/internal/core"
)

func sampleBatch() (*core.BatchResult, core.BatchSummary) {
	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	result := &core.BatchResult{
		BatchID:     "batch-1",
		StartedAt:   now,
		CompletedAt: now.Add(time.Minute),
		Entries: []core.BatchEntry{
			{
				Subject: core.Subject{Name: "Acme Inc", Industry: "Technology", Location: "United States"},
				Status:  core.JobStatusSuccess,
				Report: &core.SubjectReport{
					ReportID: "rep-1",
					Subject:  core.Subject{Name: "Acme Inc"},
					Outcomes: map[core.SourceKind]core.ProbeOutcome{
						core.SourceKindNews:    {Kind: core.SourceKindNews, Analysis: "fine"},
						core.SourceKindReviews: {Kind: core.SourceKindReviews, Err: "blocked"},
					},
					GeneratedAt: now,
					Summary:     "Stable borrower with healthy coverage.",
				},
			},
			{
				Subject: core.Subject{Name: "Bad Corp", Industry: "Retail"},
				Status:  core.JobStatusError,
				Err:     "subject construction failed",
			},
		},
	}
	summary := core.BatchSummary{
		Total: 2, Succeeded: 1, Failed: 1,
		FailedSubjects: []core.FailedSubject{{Name: "Bad Corp", Message: "subject construction failed"}},
	}
	return result, summary
}

func TestParseFormat(t *testing.T) {
	for _, value := range []string{"", "table", "json", "markdown", "csv", " JSON "} {
		_, err := ParseFormat(value)
		require.NoError(t, err, value)
	}
	_, err := ParseFormat("yaml")
	require.Error(t, err)
}

func TestJSONFormatter(t *testing.T) {
	result, summary := sampleBatch()
	rendered, err := (&JSONFormatter{Indent: true}).FormatBatch(result, summary)
	require.NoError(t, err)

	var doc jsonDocument
	require.NoError(t, json.Unmarshal([]byte(rendered), &doc))
	require.Equal(t, summary, doc.Summary)
	require.Len(t, doc.Result.Entries, 2)
}

func TestTableFormatter(t *testing.T) {
	result, summary := sampleBatch()
	rendered, err := (&TableFormatter{}).FormatBatch(result, summary)
	require.NoError(t, err)
	require.Contains(t, rendered, "Acme Inc")
	require.Contains(t, rendered, "Bad Corp")
	// go-pretty renders footer rows in upper case.
	require.Contains(t, rendered, "1/2 SUCCEEDED")
}

func TestMarkdownFormatter(t *testing.T) {
	result, summary := sampleBatch()
	rendered, err := (&MarkdownFormatter{}).FormatBatch(result, summary)
	require.NoError(t, err)
	require.Contains(t, rendered, "| Acme Inc |")
	require.Contains(t, rendered, "### Acme Inc")
	require.Contains(t, rendered, "Stable borrower")
	require.Contains(t, rendered, "**failed**: 1")
}

func TestCSVFormatter(t *testing.T) {
	result, summary := sampleBatch()
	rendered, err := (&CSVFormatter{}).FormatBatch(result, summary)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(rendered), "\n")
	require.Len(t, lines, 3)
	require.Contains(t, lines[0], "Company Name")
	require.Contains(t, lines[1], "Acme Inc")
	require.Contains(t, lines[1], "Success")
	require.Contains(t, lines[2], "Error: subject construction failed")
}

func TestStatusLabels(t *testing.T) {
	result, _ := sampleBatch()
	require.Equal(t, "ok", statusLabel(result.Entries[0]))
	require.Equal(t, "error", statusLabel(result.Entries[1]))

	degraded := result.Entries[0]
	degraded.Report.SummaryError = "model down"
	require.Equal(t, "degraded", statusLabel(degraded))
}
