package cmd

import (
	"errors"

	"github.com/lendlens/lendlens/internal/config"
	"github.com/lendlens/lendlens/internal/core/analyze"
	"github.com/lendlens/lendlens/internal/core/engine"
	"github.com/lendlens/lendlens/internal/core/fetch"
	"github.com/lendlens/lendlens/internal/core/probe"
	"github.com/lendlens/lendlens/internal/observability"
)

// buildMonitor wires the fetch and analyze clients into a subject monitor
// using the loaded configuration.
func buildMonitor(cfg *config.Config) (*engine.Monitor, error) {
	if cfg == nil {
		return nil, errors.New("config not loaded")
	}

	analyzer := analyze.NewClient(cfg.Analyzer)
	deps := probe.Deps{
		Fetcher:  fetch.NewClient(cfg.Crawler),
		Analyzer: analyzer,
		Timeout:  cfg.Monitor.ProbeTimeout,
	}

	return &engine.Monitor{
		Probes:     probe.ForKinds(cfg.Monitor.SourceKinds(), deps),
		Summarizer: analyzer,
		Logger:     observability.CLILogger,
	}, nil
}

// buildOrchestrator wires a monitor into the concurrent batch engine.
func buildOrchestrator(cfg *config.Config, concurrency int) (*engine.Orchestrator, error) {
	monitor, err := buildMonitor(cfg)
	if err != nil {
		return nil, err
	}
	if concurrency < 1 {
		concurrency = cfg.Monitor.Concurrency
	}

	return &engine.Orchestrator{
		Monitor:     monitor,
		Concurrency: concurrency,
		Logger:      observability.CLILogger,
	}, nil
}
