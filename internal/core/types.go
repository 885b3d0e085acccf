package core

import "time"

// SourceKind identifies one external content source probed per subject.
type SourceKind string

const (
	SourceKindReviews SourceKind = "reviews"
	SourceKindNews    SourceKind = "news"
	SourceKindSocial  SourceKind = "social"
	SourceKindWebsite SourceKind = "website"
)

// DefaultSourceKinds is the full monitoring surface in stable order.
var DefaultSourceKinds = []SourceKind{
	SourceKindReviews,
	SourceKindNews,
	SourceKindSocial,
	SourceKindWebsite,
}

// ResearchKind identifies one deep-research pass run by the sequential mode.
type ResearchKind string

const (
	ResearchKindFinancial     ResearchKind = "financial"
	ResearchKindNews          ResearchKind = "news"
	ResearchKindIndustry      ResearchKind = "industry"
	ResearchKindSEC           ResearchKind = "sec"
	ResearchKindCredit        ResearchKind = "credit"
	ResearchKindCompetitive   ResearchKind = "competitive"
	ResearchKindManagement    ResearchKind = "management"
	ResearchKindComprehensive ResearchKind = "comprehensive"
)

// KnownResearchKinds lists every supported research pass.
var KnownResearchKinds = []ResearchKind{
	ResearchKindFinancial,
	ResearchKindNews,
	ResearchKindIndustry,
	ResearchKindSEC,
	ResearchKindCredit,
	ResearchKindCompetitive,
	ResearchKindManagement,
	ResearchKindComprehensive,
}

// Subject is the company under research. Read-only to the engine once a
// job starts.
type Subject struct {
	Name     string `json:"name"`
	Location string `json:"location,omitempty"`
	Website  string `json:"website,omitempty"`
	Industry string `json:"industry,omitempty"`
}

// ProbeOutcome is the settled result of one (subject, source) lookup.
// A probe never raises past its boundary; failures arrive here as Err.
type ProbeOutcome struct {
	Kind     SourceKind `json:"kind"`
	Label    string     `json:"label"`
	URL      string     `json:"url,omitempty"`
	Excerpt  string     `json:"excerpt,omitempty"`
	Analysis string     `json:"analysis,omitempty"`
	Err      string     `json:"error,omitempty"`
}

// Failed reports whether the probe settled with an error.
func (o ProbeOutcome) Failed() bool {
	return o.Err != ""
}

// SubjectReport aggregates every probe outcome for one subject. It is only
// emitted once all configured probes have settled, so Outcomes always has
// one entry per configured SourceKind.
type SubjectReport struct {
	ReportID     string                      `json:"report_id"`
	Subject      Subject                     `json:"subject"`
	Outcomes     map[SourceKind]ProbeOutcome `json:"outcomes"`
	GeneratedAt  time.Time                   `json:"generated_at"`
	Summary      string                      `json:"summary,omitempty"`
	SummaryError string                      `json:"summary_error,omitempty"`
}

// FailedOutcomes counts probes that settled with an error.
func (r *SubjectReport) FailedOutcomes() int {
	if r == nil {
		return 0
	}
	failed := 0
	for _, outcome := range r.Outcomes {
		if outcome.Failed() {
			failed++
		}
	}
	return failed
}

// JobStatus classifies one subject's job at the batch level.
type JobStatus string

const (
	JobStatusSuccess JobStatus = "success"
	JobStatusError   JobStatus = "error"
)

// BatchEntry records the outcome of one subject's job. Report is nil only
// when Status is JobStatusError.
type BatchEntry struct {
	Subject Subject        `json:"subject"`
	Status  JobStatus      `json:"status"`
	Report  *SubjectReport `json:"report,omitempty"`
	Err     string         `json:"error,omitempty"`
}

// BatchResult is the ordered outcome of a batch run. Entry order follows
// submission order, not completion order.
type BatchResult struct {
	BatchID     string       `json:"batch_id"`
	Entries     []BatchEntry `json:"entries"`
	StartedAt   time.Time    `json:"started_at"`
	CompletedAt time.Time    `json:"completed_at"`
}

// FailedSubject pairs a failed subject name with its job error.
type FailedSubject struct {
	Name    string `json:"name"`
	Message string `json:"message"`
}

// BatchSummary is derived from a BatchResult on demand and never stored
// redundantly alongside it.
type BatchSummary struct {
	Total          int             `json:"total"`
	Succeeded      int             `json:"succeeded"`
	Failed         int             `json:"failed"`
	FailedSubjects []FailedSubject `json:"failed_subjects,omitempty"`
}

// UnitOutcome is the settled result of one (subject, research kind) unit in
// the sequential research mode.
type UnitOutcome struct {
	Subject     Subject      `json:"subject"`
	Kind        ResearchKind `json:"kind"`
	Result      string       `json:"result,omitempty"`
	Err         string       `json:"error,omitempty"`
	CompletedAt time.Time    `json:"completed_at"`
}

// Failed reports whether the unit settled with an error.
func (u UnitOutcome) Failed() bool {
	return u.Err != ""
}
