package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/lendlens/lendlens/internal/config"
	"github.com/lendlens/lendlens/internal/core"
	"github.com/lendlens/lendlens/internal/core/analyze"
	"github.com/lendlens/lendlens/internal/core/engine"
	"github.com/lendlens/lendlens/internal/observability"
)

var researchCmd = &cobra.Command{
	Use:   "research [company...]",
	Short: "Run sequential deep research for companies",
	Long: `Run one research prompt per company and research type, strictly one
at a time with a pause between requests. Each completed unit is written to
its own markdown file.

Research types: financial, news, industry, sec, credit, competitive,
management, comprehensive.`,
	RunE: runResearch,
}

func init() {
	rootCmd.AddCommand(researchCmd)

	researchCmd.Flags().String("subjects-file", "", "File with companies to research (- for stdin)")
	researchCmd.Flags().StringSlice("types", nil, "Research types to run (default from config)")
	researchCmd.Flags().Duration("delay", 0, "Pause between research units (default from config)")
	researchCmd.Flags().String("out-dir", "", "Directory for result files (default from config)")
	researchCmd.Flags().Bool("save", false, "Persist research outcomes to the local store")
}

func runResearch(cmd *cobra.Command, args []string) error {
	subjectsFile, err := cmd.Flags().GetString("subjects-file")
	if err != nil {
		return err
	}
	subjects, err := resolveSubjects(args, subjectsFile)
	if err != nil {
		return err
	}

	cfg := config.GetConfig()
	if cfg == nil {
		return errors.New("config not loaded")
	}

	kinds := cfg.Research.ResearchKinds()
	if typeValues, err := cmd.Flags().GetStringSlice("types"); err != nil {
		return err
	} else if len(typeValues) > 0 {
		kinds = make([]core.ResearchKind, 0, len(typeValues))
		for _, value := range typeValues {
			kinds = append(kinds, core.ResearchKind(strings.TrimSpace(value)))
		}
	}

	delay, err := cmd.Flags().GetDuration("delay")
	if err != nil {
		return err
	}
	if delay == 0 {
		delay = cfg.Research.Delay
	}

	outDir, err := cmd.Flags().GetString("out-dir")
	if err != nil {
		return err
	}
	if strings.TrimSpace(outDir) == "" {
		outDir = cfg.Output.Dir
	}
	if err := os.MkdirAll(outDir, 0755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	save, err := cmd.Flags().GetBool("save")
	if err != nil {
		return err
	}

	analyzer := analyze.NewClient(cfg.Analyzer)
	sequencer := &engine.Sequencer{
		Research: analyzer.Research,
		Delay:    delay,
		Logger:   observability.CLILogger,
		OnProgress: func(completed, total int) {
			fmt.Printf("Progress: %d/%d research units completed\n", completed, total)
		},
	}

	units := engine.BuildUnits(subjects, kinds)

	observability.CLILogger.Info("Starting research",
		zap.Int("companies", len(subjects)),
		zap.Int("types", len(kinds)),
		zap.Int("units", len(units)),
		zap.Duration("delay", delay))

	outcomes, runErr := sequencer.RunSequential(cmd.Context(), units)

	written, err := writeResearchResults(outDir, outcomes)
	if err != nil {
		return err
	}

	if save && len(outcomes) > 0 {
		db, err := openStore(cmd.Context())
		if err != nil {
			return err
		}
		defer db.Close() // nolint:errcheck
		if err := db.SaveResearchOutcomes(cmd.Context(), outcomes); err != nil {
			return fmt.Errorf("persist research outcomes: %w", err)
		}
	}

	observability.CLILogger.Info("Research complete",
		zap.Int("units", len(outcomes)),
		zap.Int("written", written))

	return runErr
}

// writeResearchResults writes one file per completed unit; failed units
// are logged and skipped. Returns the number of files written.
func writeResearchResults(dir string, outcomes []core.UnitOutcome) (int, error) {
	written := 0
	for _, outcome := range outcomes {
		if outcome.Failed() {
			observability.CLILogger.Warn("Research unit failed",
				zap.String("company", outcome.Subject.Name),
				zap.String("type", string(outcome.Kind)),
				zap.String("error", outcome.Err))
			continue
		}
		path, err := writeResearchFile(dir, outcome)
		if err != nil {
			return written, err
		}
		written++
		observability.CLILogger.Info("Research written",
			zap.String("company", outcome.Subject.Name),
			zap.String("type", string(outcome.Kind)),
			zap.String("path", path))
	}
	return written, nil
}

func writeResearchFile(dir string, outcome core.UnitOutcome) (string, error) {
	filename := fmt.Sprintf("%s_%s_%s.md",
		sanitizeFilename(outcome.Subject.Name),
		sanitizeFilename(string(outcome.Kind)),
		outcome.CompletedAt.Format("20060102_150405"))
	path := filepath.Join(dir, filename)

	var b strings.Builder
	fmt.Fprintf(&b, "# %s - %s research\n\n", outcome.Subject.Name, outcome.Kind)
	fmt.Fprintf(&b, "Generated: %s\n\n", outcome.CompletedAt.Format(time.RFC3339))
	b.WriteString(outcome.Result)
	b.WriteString("\n")

	if err := os.WriteFile(path, []byte(b.String()), 0644); err != nil {
		return "", fmt.Errorf("write research file: %w", err)
	}
	return path, nil
}
