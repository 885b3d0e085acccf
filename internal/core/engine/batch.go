package engine

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/lendlens/lendlens/internal/core"
	apperrors "github.com/lendlens/lendlens/internal/errors"
)

// SubjectMonitor is the unit of work the orchestrator schedules per subject.
type SubjectMonitor interface {
	Monitor(ctx context.Context, subject core.Subject) (*core.SubjectReport, error)
}

// Orchestrator runs one monitoring job per subject under a bounded worker
// pool. One job's failure never aborts its siblings or the batch.
type Orchestrator struct {
	Monitor     SubjectMonitor
	Concurrency int
	Logger      *zap.Logger
	Clock       func() time.Time
}

type batchJob struct {
	index   int
	subject core.Subject
}

// Run monitors every subject and returns one entry per subject in
// submission order, regardless of completion order. It fails fast only on
// invalid input; afterwards it always makes forward progress, even when
// every job fails. When ctx is cancelled mid-batch the completed entries
// are returned together with ctx's error; abandoned subjects are omitted,
// never emitted half-populated.
func (o *Orchestrator) Run(ctx context.Context, subjects []core.Subject) (*core.BatchResult, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if err := o.validate(subjects); err != nil {
		return nil, err
	}

	startedAt := o.now()
	o.log().Info("starting batch",
		zap.Int("subjects", len(subjects)),
		zap.Int("concurrency", o.Concurrency))

	entries := make([]*core.BatchEntry, len(subjects))
	jobs := make(chan batchJob)

	var wg sync.WaitGroup

	worker := func() {
		defer wg.Done()
		for job := range jobs {
			if ctx.Err() != nil {
				return
			}
			entries[job.index] = o.runJob(ctx, job.subject)
		}
	}

	concurrency := o.Concurrency
	if concurrency > len(subjects) {
		concurrency = len(subjects)
	}
	for i := 0; i < concurrency; i++ {
		wg.Add(1)
		go worker()
	}

sendLoop:
	for i, subject := range subjects {
		select {
		case <-ctx.Done():
			break sendLoop
		case jobs <- batchJob{index: i, subject: subject}:
		}
	}
	close(jobs)
	wg.Wait()

	result := &core.BatchResult{
		BatchID:     uuid.New().String(),
		Entries:     make([]core.BatchEntry, 0, len(subjects)),
		StartedAt:   startedAt,
		CompletedAt: o.now(),
	}
	for _, entry := range entries {
		if entry != nil {
			result.Entries = append(result.Entries, *entry)
		}
	}

	o.log().Info("batch completed",
		zap.String("batch_id", result.BatchID),
		zap.Int("entries", len(result.Entries)))

	if err := ctx.Err(); err != nil {
		return result, err
	}
	return result, nil
}

// runJob wraps one subject's monitoring so that whatever escapes the probe
// boundaries becomes a job-error entry instead of unwinding the pool.
func (o *Orchestrator) runJob(ctx context.Context, subject core.Subject) *core.BatchEntry {
	report, err := o.Monitor.Monitor(ctx, subject)
	if err != nil {
		o.log().Warn("subject job failed",
			zap.String("subject", subject.Name),
			zap.Error(err))
		return &core.BatchEntry{
			Subject: subject,
			Status:  core.JobStatusError,
			Err:     err.Error(),
		}
	}
	return &core.BatchEntry{
		Subject: subject,
		Status:  core.JobStatusSuccess,
		Report:  report,
	}
}

func (o *Orchestrator) validate(subjects []core.Subject) error {
	if o.Monitor == nil {
		return apperrors.NewConfigError("monitor", "subject monitor is required")
	}
	if o.Concurrency < 1 {
		return apperrors.NewConfigError("concurrency", "must be at least 1, got %d", o.Concurrency)
	}
	if len(subjects) == 0 {
		return apperrors.ErrNoSubjects
	}

	seen := make(map[string]struct{}, len(subjects))
	for _, subject := range subjects {
		if subject.Name == "" {
			return apperrors.NewConfigError("subjects", "subject name is required")
		}
		if _, dup := seen[subject.Name]; dup {
			return apperrors.NewConfigError("subjects", "duplicate subject name %q", subject.Name)
		}
		seen[subject.Name] = struct{}{}
	}
	return nil
}

func (o *Orchestrator) log() *zap.Logger {
	if o != nil && o.Logger != nil {
		return o.Logger
	}
	return zap.NewNop()
}

func (o *Orchestrator) now() time.Time {
	if o != nil && o.Clock != nil {
		return o.Clock()
	}
	return time.Now().UTC()
}
