package cmd

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/lendlens/lendlens/internal/config"
	"github.com/lendlens/lendlens/internal/core/engine"
	"github.com/lendlens/lendlens/internal/observability"
	"github.com/lendlens/lendlens/internal/output"
)

var batchCmd = &cobra.Command{
	Use:   "batch [company...]",
	Short: "Monitor multiple companies concurrently",
	Long: `Run the monitoring pipeline for several companies at once with a
bounded worker pool. Companies come from positional arguments or from
--subjects-file (JSON array of subjects, or one "Name | Location" per line).

A company that fails is reported in the results; it never aborts the rest
of the batch.`,
	RunE: runBatch,
}

func init() {
	rootCmd.AddCommand(batchCmd)

	batchCmd.Flags().String("subjects-file", "", "File with companies to monitor (- for stdin)")
	batchCmd.Flags().Int("concurrency", 0, "Concurrent company jobs (default from config)")
	batchCmd.Flags().String("output", "table", "Output format: table, json, markdown, csv")
	batchCmd.Flags().String("out", "", "Write output to file instead of stdout")
	batchCmd.Flags().String("out-dir", "", "Write output to a timestamped file in this directory")
	batchCmd.Flags().Bool("save", false, "Persist reports to the local store")
}

func runBatch(cmd *cobra.Command, args []string) error {
	subjectsFile, err := cmd.Flags().GetString("subjects-file")
	if err != nil {
		return err
	}
	subjects, err := resolveSubjects(args, subjectsFile)
	if err != nil {
		return err
	}

	concurrency, err := cmd.Flags().GetInt("concurrency")
	if err != nil {
		return err
	}
	format, err := resolveOutputFormat(cmd)
	if err != nil {
		return err
	}
	outPath, err := cmd.Flags().GetString("out")
	if err != nil {
		return err
	}
	outDir, err := cmd.Flags().GetString("out-dir")
	if err != nil {
		return err
	}
	if outPath != "" && outDir != "" {
		return errors.New("--out and --out-dir are mutually exclusive")
	}
	save, err := cmd.Flags().GetBool("save")
	if err != nil {
		return err
	}

	cfg := config.GetConfig()
	if cfg == nil {
		return errors.New("config not loaded")
	}

	orchestrator, err := buildOrchestrator(cfg, concurrency)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	startedAt := time.Now()

	observability.CLILogger.Info("Starting batch",
		zap.Int("companies", len(subjects)),
		zap.Int("concurrency", orchestrator.Concurrency))

	result, runErr := orchestrator.Run(ctx, subjects)
	if result == nil {
		return runErr
	}
	summary := engine.Summarize(result)

	if save {
		db, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer db.Close() // nolint:errcheck
		if err := db.SaveBatch(ctx, result, summary); err != nil {
			return fmt.Errorf("persist batch: %w", err)
		}
	}

	rendered, err := output.NewFormatter(format).FormatBatch(result, summary)
	if err != nil {
		return err
	}

	sink, err := openSink(outPath, outDir, "batch", format)
	if err != nil {
		return err
	}
	defer sink.close() // nolint:errcheck

	if _, err := fmt.Fprintln(sink.writer, rendered); err != nil {
		return err
	}
	if sink.path != "-" {
		observability.CLILogger.Info("Batch report written", zap.String("path", sink.path))
	}

	observability.CLILogger.Info("Batch complete",
		zap.Int("total", summary.Total),
		zap.Int("succeeded", summary.Succeeded),
		zap.Int("failed", summary.Failed),
		zap.Duration("elapsed", time.Since(startedAt)))

	// An interrupted batch still renders its settled entries, but the
	// interruption is surfaced as the command's error.
	return runErr
}
