package output

import (
	"encoding/csv"
	"strconv"
	"strings"

	"github.com/lendlens/lendlens/internal/core"
)

// CSVFormatter exports a one-row-per-company summary suitable for
// spreadsheet review by credit analysts.
type CSVFormatter struct{}

// FormatBatch renders a batch result as CSV.
func (f *CSVFormatter) FormatBatch(result *core.BatchResult, _ core.BatchSummary) (string, error) {
	if result == nil {
		return "", nil
	}

	var sb strings.Builder
	w := csv.NewWriter(&sb)

	header := []string{"Company Name", "Industry", "Location", "Monitoring Date", "Sources OK", "Sources Failed", "Status"}
	if err := w.Write(header); err != nil {
		return "", err
	}

	for _, entry := range result.Entries {
		row := []string{entry.Subject.Name, entry.Subject.Industry, entry.Subject.Location}
		if entry.Status == core.JobStatusSuccess && entry.Report != nil {
			failed := entry.Report.FailedOutcomes()
			row = append(row,
				entry.Report.GeneratedAt.Format("2006-01-02 15:04:05"),
				strconv.Itoa(len(entry.Report.Outcomes)-failed),
				strconv.Itoa(failed),
				"Success",
			)
		} else {
			row = append(row, "", "", "", "Error: "+entry.Err)
		}
		if err := w.Write(row); err != nil {
			return "", err
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return "", err
	}
	return sb.String(), nil
}
