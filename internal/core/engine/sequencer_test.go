package engine

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/lendlens/lendlens/internal/core"
	apperrors "github.com/lendlens/lendlens/internal/errors"
)

func researchUnits(n int) []Unit {
	units := make([]Unit, 0, n)
	for i := 0; i < n; i++ {
		units = append(units, Unit{
			Subject: core.Subject{Name: fmt.Sprintf("Company %02d", i)},
			Kind:    core.ResearchKindFinancial,
		})
	}
	return units
}

func TestSequencerStrictOrderAndDelays(t *testing.T) {
	var executed []string
	var sleeps []time.Duration

	sequencer := &Sequencer{
		Research: func(ctx context.Context, subject core.Subject, kind core.ResearchKind) (string, error) {
			executed = append(executed, subject.Name)
			return "done", nil
		},
		Delay: 2 * time.Second,
		Sleep: func(ctx context.Context, d time.Duration) error {
			sleeps = append(sleeps, d)
			return nil
		},
	}

	units := researchUnits(4)
	outcomes, err := sequencer.RunSequential(context.Background(), units)
	require.NoError(t, err)
	require.Len(t, outcomes, 4)

	// Strict submission order.
	for i, unit := range units {
		require.Equal(t, unit.Subject.Name, executed[i])
		require.Equal(t, unit.Subject.Name, outcomes[i].Subject.Name)
	}

	// N units, N-1 delays of the configured duration.
	require.Len(t, sleeps, 3)
	for _, d := range sleeps {
		require.Equal(t, 2*time.Second, d)
	}
}

func TestSequencerFailingUnitContinues(t *testing.T) {
	sequencer := &Sequencer{
		Research: func(ctx context.Context, subject core.Subject, kind core.ResearchKind) (string, error) {
			if subject.Name == "Company 01" {
				return "", fmt.Errorf("rate limited")
			}
			return "insight", nil
		},
		Sleep: func(ctx context.Context, d time.Duration) error { return nil },
	}

	outcomes, err := sequencer.RunSequential(context.Background(), researchUnits(3))
	require.NoError(t, err)
	require.Len(t, outcomes, 3)
	require.False(t, outcomes[0].Failed())
	require.True(t, outcomes[1].Failed())
	require.Contains(t, outcomes[1].Err, "rate limited")
	require.False(t, outcomes[2].Failed())
}

func TestSequencerProgressReporting(t *testing.T) {
	var progress [][2]int
	sequencer := &Sequencer{
		Research: func(ctx context.Context, subject core.Subject, kind core.ResearchKind) (string, error) {
			return "", fmt.Errorf("always fails")
		},
		OnProgress: func(completed, total int) {
			progress = append(progress, [2]int{completed, total})
		},
		Sleep: func(ctx context.Context, d time.Duration) error { return nil },
	}

	_, err := sequencer.RunSequential(context.Background(), researchUnits(3))
	require.NoError(t, err)
	// Progress advances even when every unit fails.
	require.Equal(t, [][2]int{{1, 3}, {2, 3}, {3, 3}}, progress)
}

func TestSequencerDelayElapsesBetweenUnits(t *testing.T) {
	sequencer := &Sequencer{
		Research: func(ctx context.Context, subject core.Subject, kind core.ResearchKind) (string, error) {
			return "ok", nil
		},
		Delay: 20 * time.Millisecond,
	}

	start := time.Now()
	outcomes, err := sequencer.RunSequential(context.Background(), researchUnits(3))
	require.NoError(t, err)
	require.Len(t, outcomes, 3)
	// Total wall-clock time >= (N-1) * delay.
	require.GreaterOrEqual(t, time.Since(start), 40*time.Millisecond)
}

func TestSequencerCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	sequencer := &Sequencer{
		Research: func(ctx context.Context, subject core.Subject, kind core.ResearchKind) (string, error) {
			if subject.Name == "Company 01" {
				cancel()
			}
			return "ok", nil
		},
	}

	outcomes, err := sequencer.RunSequential(ctx, researchUnits(5))
	require.ErrorIs(t, err, context.Canceled)
	require.Len(t, outcomes, 2)
}

func TestSequencerValidation(t *testing.T) {
	sequencer := &Sequencer{}
	_, err := sequencer.RunSequential(context.Background(), researchUnits(1))
	require.True(t, apperrors.IsConfigError(err))

	sequencer = &Sequencer{Research: func(ctx context.Context, s core.Subject, k core.ResearchKind) (string, error) {
		return "", nil
	}}
	_, err = sequencer.RunSequential(context.Background(), nil)
	require.True(t, apperrors.IsConfigError(err))
}

func TestBuildUnits(t *testing.T) {
	units := BuildUnits(
		[]core.Subject{{Name: "A"}, {Name: "B"}},
		[]core.ResearchKind{core.ResearchKindCredit, core.ResearchKindSEC},
	)
	require.Len(t, units, 4)
	require.Equal(t, "A", units[0].Subject.Name)
	require.Equal(t, core.ResearchKindCredit, units[0].Kind)
	require.Equal(t, "A", units[1].Subject.Name)
	require.Equal(t, core.ResearchKindSEC, units[1].Kind)
	require.Equal(t, "B", units[2].Subject.Name)
}
