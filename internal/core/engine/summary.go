package engine

import "github.com/lendlens/lendlens/internal/core"

// Summarize reduces a batch result into counts and the list of failed
// subjects. It is a pure function of its input; persistence is the
// caller's business.
func Summarize(result *core.BatchResult) core.BatchSummary {
	summary := core.BatchSummary{}
	if result == nil {
		return summary
	}

	summary.Total = len(result.Entries)
	for _, entry := range result.Entries {
		if entry.Status == core.JobStatusSuccess {
			summary.Succeeded++
			continue
		}
		summary.Failed++
		summary.FailedSubjects = append(summary.FailedSubjects, core.FailedSubject{
			Name:    entry.Subject.Name,
			Message: entry.Err,
		})
	}
	return summary
}
