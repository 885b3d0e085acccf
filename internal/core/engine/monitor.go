// Package engine coordinates probes across subjects: concurrent per-subject
// fan-out, a bounded batch orchestrator, a throttled sequential mode, and
// the batch summary reduction.
package engine

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/lendlens/lendlens/internal/core"
	"github.com/lendlens/lendlens/internal/core/probe"
	apperrors "github.com/lendlens/lendlens/internal/errors"
)

// Summarizer produces the per-subject assessment from a settled report.
type Summarizer interface {
	SummarizeReport(ctx context.Context, report *core.SubjectReport) (string, error)
}

// Monitor fans out all configured probes for one subject and folds the
// settled outcomes into a SubjectReport.
type Monitor struct {
	Probes     []probe.Probe
	Summarizer Summarizer
	Logger     *zap.Logger
	Clock      func() time.Time
}

// Monitor runs every probe concurrently, waits for all of them to settle,
// then invokes the summarizer once over the full outcome set. A probe
// failure degrades the report; it never aborts it. The returned error covers
// only failures outside probe boundaries, which the batch layer records as
// job errors.
func (m *Monitor) Monitor(ctx context.Context, subject core.Subject) (*core.SubjectReport, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if subject.Name == "" {
		return nil, apperrors.NewConfigError("subject", "name is required")
	}
	if len(m.Probes) == 0 {
		return nil, apperrors.ErrNoSourceKinds
	}

	m.log().Debug("monitoring subject",
		zap.String("subject", subject.Name),
		zap.Int("probes", len(m.Probes)))

	outcomes := make(map[core.SourceKind]core.ProbeOutcome, len(m.Probes))

	var (
		wg sync.WaitGroup
		mu sync.Mutex
	)
	for _, p := range m.Probes {
		wg.Add(1)
		go func(p probe.Probe) {
			defer wg.Done()
			outcome := p.Probe(ctx, subject)

			mu.Lock()
			outcomes[p.Kind()] = outcome
			mu.Unlock()
		}(p)
	}
	wg.Wait()

	report := &core.SubjectReport{
		ReportID:    uuid.New().String(),
		Subject:     subject,
		Outcomes:    outcomes,
		GeneratedAt: m.now(),
	}

	if m.Summarizer != nil {
		summary, err := m.Summarizer.SummarizeReport(ctx, report)
		if err != nil {
			// The outcomes are still valid; only the summary is missing.
			report.SummaryError = err.Error()
			m.log().Warn("summarization failed",
				zap.String("subject", subject.Name),
				zap.Error(err))
		} else {
			report.Summary = summary
		}
	}

	m.log().Info("subject report settled",
		zap.String("subject", subject.Name),
		zap.Int("outcomes", len(report.Outcomes)),
		zap.Int("failed", report.FailedOutcomes()))

	return report, nil
}

func (m *Monitor) log() *zap.Logger {
	if m != nil && m.Logger != nil {
		return m.Logger
	}
	return zap.NewNop()
}

func (m *Monitor) now() time.Time {
	if m != nil && m.Clock != nil {
		return m.Clock()
	}
	return time.Now().UTC()
}
