package engine

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/lendlens/lendlens/internal/core"
	apperrors "github.com/lendlens/lendlens/internal/errors"
)

// Unit is one (subject, research kind) pairing for the sequential mode.
type Unit struct {
	Subject core.Subject
	Kind    core.ResearchKind
}

// UnitFunc performs one research unit.
type UnitFunc func(ctx context.Context, subject core.Subject, kind core.ResearchKind) (string, error)

// Sequencer executes research units strictly one at a time with a fixed
// pause after every unit. It trades throughput for being gentle with
// rate-limited services; the batch orchestrator is the throughput path.
type Sequencer struct {
	Research UnitFunc

	// Delay is inserted after every unit, success or failure.
	Delay time.Duration

	// OnProgress, when set, observes the running completed/total count.
	// It is progress reporting only, never control flow.
	OnProgress func(completed, total int)

	Logger *zap.Logger
	Clock  func() time.Time

	// Sleep is injectable for tests; nil means a ctx-aware time.Sleep.
	Sleep func(ctx context.Context, d time.Duration) error
}

// BuildUnits expands subjects × kinds into submission-ordered units, all
// kinds of one subject before the next subject.
func BuildUnits(subjects []core.Subject, kinds []core.ResearchKind) []Unit {
	units := make([]Unit, 0, len(subjects)*len(kinds))
	for _, subject := range subjects {
		for _, kind := range kinds {
			units = append(units, Unit{Subject: subject, Kind: kind})
		}
	}
	return units
}

// RunSequential executes the units in order. Unit n+1 never starts before
// unit n has finished and the delay has elapsed. A failing unit is recorded
// and the sequence continues; only cancellation stops it early, returning
// the outcomes settled so far.
func (s *Sequencer) RunSequential(ctx context.Context, units []Unit) ([]core.UnitOutcome, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if s.Research == nil {
		return nil, apperrors.NewConfigError("research", "unit function is required")
	}
	if len(units) == 0 {
		return nil, apperrors.NewConfigError("units", "at least one research unit is required")
	}

	total := len(units)
	outcomes := make([]core.UnitOutcome, 0, total)

	for i, unit := range units {
		if err := ctx.Err(); err != nil {
			return outcomes, err
		}

		s.log().Info("running research unit",
			zap.String("subject", unit.Subject.Name),
			zap.String("kind", string(unit.Kind)),
			zap.Int("position", i+1),
			zap.Int("total", total))

		outcome := core.UnitOutcome{Subject: unit.Subject, Kind: unit.Kind}
		result, err := s.Research(ctx, unit.Subject, unit.Kind)
		if err != nil {
			outcome.Err = err.Error()
			s.log().Warn("research unit failed",
				zap.String("subject", unit.Subject.Name),
				zap.String("kind", string(unit.Kind)),
				zap.Error(err))
		} else {
			outcome.Result = result
		}
		outcome.CompletedAt = s.now()
		outcomes = append(outcomes, outcome)

		if s.OnProgress != nil {
			s.OnProgress(i+1, total)
		}

		if i < total-1 && s.Delay > 0 {
			if err := s.sleep(ctx, s.Delay); err != nil {
				return outcomes, err
			}
		}
	}

	return outcomes, nil
}

func (s *Sequencer) sleep(ctx context.Context, d time.Duration) error {
	if s.Sleep != nil {
		return s.Sleep(ctx, d)
	}

	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func (s *Sequencer) log() *zap.Logger {
	if s != nil && s.Logger != nil {
		return s.Logger
	}
	return zap.NewNop()
}

func (s *Sequencer) now() time.Time {
	if s != nil && s.Clock != nil {
		return s.Clock()
	}
	return time.Now().UTC()
}
