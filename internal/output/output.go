// Package output renders batch results and summaries for the CLI and for
// file export. Persistence format is the caller's choice; the engine only
// hands over aggregated values.
package output

import (
	"fmt"
	"strings"

	"github.com/lendlens/lendlens/internal/core"
)

// Format represents an output format.
type Format string

const (
	FormatTable    Format = "table"
	FormatJSON     Format = "json"
	FormatMarkdown Format = "markdown"
	FormatCSV      Format = "csv"
)

// Formatter renders a batch result with its derived summary.
type Formatter interface {
	FormatBatch(result *core.BatchResult, summary core.BatchSummary) (string, error)
}

// ParseFormat validates and normalizes a format string.
func ParseFormat(value string) (Format, error) {
	normalized := strings.ToLower(strings.TrimSpace(value))
	switch normalized {
	case "", string(FormatTable):
		return FormatTable, nil
	case string(FormatJSON):
		return FormatJSON, nil
	case string(FormatMarkdown):
		return FormatMarkdown, nil
	case string(FormatCSV):
		return FormatCSV, nil
	default:
		return "", fmt.Errorf("unsupported output format: %s", value)
	}
}

// NewFormatter returns a formatter for the requested format.
func NewFormatter(format Format) Formatter {
	switch format {
	case FormatJSON:
		return &JSONFormatter{Indent: true}
	case FormatMarkdown:
		return &MarkdownFormatter{}
	case FormatCSV:
		return &CSVFormatter{}
	default:
		return &TableFormatter{}
	}
}

func statusLabel(entry core.BatchEntry) string {
	if entry.Status == core.JobStatusError {
		return "error"
	}
	if entry.Report != nil && entry.Report.SummaryError != "" {
		return "degraded"
	}
	return "ok"
}

func entryNotes(entry core.BatchEntry) string {
	if entry.Status == core.JobStatusError {
		return entry.Err
	}
	if entry.Report == nil {
		return ""
	}
	notes := fmt.Sprintf("%d/%d sources ok",
		len(entry.Report.Outcomes)-entry.Report.FailedOutcomes(),
		len(entry.Report.Outcomes))
	if entry.Report.SummaryError != "" {
		notes += "; summary failed"
	}
	return notes
}
