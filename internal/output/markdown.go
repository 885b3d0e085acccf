package output

import (
	"fmt"
	"strings"

	"github.com/lendlens/lendlens/internal/core"
)

// MarkdownFormatter renders results as a markdown report.
type MarkdownFormatter struct{}

// FormatBatch renders a batch result as Markdown, entry table first, then
// one section per subject with its summary text.
func (f *MarkdownFormatter) FormatBatch(result *core.BatchResult, summary core.BatchSummary) (string, error) {
	if result == nil {
		return "", nil
	}

	var sb strings.Builder
	sb.WriteString("## Batch monitoring report\n\n")
	sb.WriteString(fmt.Sprintf("**Total**: %d, **succeeded**: %d, **failed**: %d\n\n",
		summary.Total, summary.Succeeded, summary.Failed))

	sb.WriteString("| Company | Industry | Status | Notes |\n")
	sb.WriteString("|---------|----------|--------|-------|\n")
	for _, entry := range result.Entries {
		sb.WriteString(fmt.Sprintf("| %s | %s | %s | %s |\n",
			escapeMarkdownCell(entry.Subject.Name),
			escapeMarkdownCell(entry.Subject.Industry),
			escapeMarkdownCell(statusLabel(entry)),
			escapeMarkdownCell(entryNotes(entry)),
		))
	}

	for _, entry := range result.Entries {
		if entry.Report == nil || entry.Report.Summary == "" {
			continue
		}
		sb.WriteString(fmt.Sprintf("\n### %s\n\n%s\n", entry.Subject.Name, entry.Report.Summary))
	}

	return sb.String(), nil
}

func escapeMarkdownCell(value string) string {
	value = strings.ReplaceAll(value, "|", "\\|")
	value = strings.ReplaceAll(value, "\n", " ")
	return value
}
