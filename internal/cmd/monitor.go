package cmd

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/lendlens/lendlens/internal/config"
	"github.com/lendlens/lendlens/internal/core"
	"github.com/lendlens/lendlens/internal/core/engine"
	"github.com/lendlens/lendlens/internal/observability"
	"github.com/lendlens/lendlens/internal/output"
)

var monitorCmd = &cobra.Command{
	Use:   "monitor <company>",
	Short: "Monitor a single company across configured sources",
	Long: `Gather and analyze reviews, news, social mentions, and the company
website for one company, then produce a lending-focused summary.`,
	Args: cobra.ExactArgs(1),
	RunE: runMonitor,
}

func init() {
	rootCmd.AddCommand(monitorCmd)

	monitorCmd.Flags().String("location", "", "Company location to scope searches")
	monitorCmd.Flags().String("website", "", "Company website URL (guessed when omitted)")
	monitorCmd.Flags().String("industry", "", "Company industry")
	monitorCmd.Flags().String("output", "table", "Output format: table, json, markdown, csv")
	monitorCmd.Flags().String("out", "", "Write output to file instead of stdout")
	monitorCmd.Flags().Bool("save", false, "Persist the report to the local store")
}

func runMonitor(cmd *cobra.Command, args []string) error {
	subject := core.Subject{Name: strings.TrimSpace(args[0])}
	subject.Location, _ = cmd.Flags().GetString("location")
	subject.Website, _ = cmd.Flags().GetString("website")
	subject.Industry, _ = cmd.Flags().GetString("industry")

	format, err := resolveOutputFormat(cmd)
	if err != nil {
		return err
	}
	outPath, err := cmd.Flags().GetString("out")
	if err != nil {
		return err
	}
	save, err := cmd.Flags().GetBool("save")
	if err != nil {
		return err
	}

	cfg := config.GetConfig()
	if cfg == nil {
		return errors.New("config not loaded")
	}

	monitor, err := buildMonitor(cfg)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	startedAt := time.Now()

	observability.CLILogger.Info("Monitoring company",
		zap.String("company", subject.Name),
		zap.Int("sources", len(monitor.Probes)))

	report, err := monitor.Monitor(ctx, subject)
	if err != nil {
		return err
	}

	// Render as a one-entry batch so every format works unchanged.
	result := &core.BatchResult{
		BatchID:     report.ReportID,
		Entries:     []core.BatchEntry{{Subject: subject, Status: core.JobStatusSuccess, Report: report}},
		StartedAt:   startedAt,
		CompletedAt: time.Now(),
	}
	summary := engine.Summarize(result)

	if save {
		db, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer db.Close() // nolint:errcheck
		if err := db.SaveBatch(ctx, result, summary); err != nil {
			return fmt.Errorf("persist report: %w", err)
		}
	}

	rendered, err := output.NewFormatter(format).FormatBatch(result, summary)
	if err != nil {
		return err
	}

	sink, err := openSink(outPath, "", subject.Name, format)
	if err != nil {
		return err
	}
	defer sink.close() // nolint:errcheck

	if _, err := fmt.Fprintln(sink.writer, rendered); err != nil {
		return err
	}
	if sink.path != "-" {
		observability.CLILogger.Info("Report written", zap.String("path", sink.path))
	}
	return nil
}
