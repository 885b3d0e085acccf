package output

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/lendlens/lendlens/internal/core"
)

// TableFormatter renders results as an ASCII table.
type TableFormatter struct{}

// FormatBatch renders a batch result as a table with a summary footer.
func (f *TableFormatter) FormatBatch(result *core.BatchResult, summary core.BatchSummary) (string, error) {
	if result == nil {
		return "", nil
	}

	t := table.NewWriter()
	t.SetStyle(table.StyleRounded)
	t.AppendHeader(table.Row{"Company", "Industry", "Status", "Notes"})

	for _, entry := range result.Entries {
		t.AppendRow(table.Row{
			entry.Subject.Name,
			entry.Subject.Industry,
			statusLabel(entry),
			entryNotes(entry),
		})
	}

	t.AppendFooter(table.Row{
		"",
		"",
		fmt.Sprintf("%d/%d succeeded", summary.Succeeded, summary.Total),
		"",
	})

	return t.Render(), nil
}
