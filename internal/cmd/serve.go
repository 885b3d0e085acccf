package cmd

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/lendlens/lendlens/internal/config"
	"github.com/lendlens/lendlens/internal/observability"
	"github.com/lendlens/lendlens/internal/server"
	"github.com/lendlens/lendlens/internal/server/handlers"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	Long: `Start the HTTP API for running monitoring batches remotely.

SIGINT or SIGTERM triggers a graceful shutdown: in-flight batches get
the configured shutdown timeout to finish before the listener closes.`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().String("host", "", "Host to bind (default from config)")
	serveCmd.Flags().Int("port", 0, "Port to bind (default from config)")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := config.GetConfig()
	if cfg == nil {
		return errors.New("config not loaded")
	}

	serverCfg := cfg.Server
	if host, err := cmd.Flags().GetString("host"); err != nil {
		return err
	} else if host != "" {
		serverCfg.Host = host
	}
	if port, err := cmd.Flags().GetInt("port"); err != nil {
		return err
	} else if port != 0 {
		serverCfg.Port = port
	}

	observability.InitServerLogger("lendlens", cfg.Logging.Level)
	logger := observability.ServerLogger

	handlers.SetVersionInfo("lendlens", versionInfo.Version, versionInfo.Commit, versionInfo.BuildDate)

	orchestrator, err := buildOrchestrator(cfg, 0)
	if err != nil {
		return err
	}
	orchestrator.Logger = logger

	api := &handlers.API{Runner: orchestrator, Logger: logger}

	// The store is optional for the API; a failure to open it disables
	// persistence endpoints instead of refusing to serve.
	if db, err := openStore(cmd.Context()); err != nil {
		logger.Warn("Report store unavailable; persistence endpoints disabled",
			zap.Error(err))
	} else {
		defer db.Close() // nolint:errcheck
		api.Store = db
	}

	srv := server.New(serverCfg, api)

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- srv.Start()
	}()

	select {
	case err := <-serveErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	shutdownTimeout := serverCfg.ShutdownTimeout
	if shutdownTimeout == 0 {
		shutdownTimeout = 10 * time.Second
	}

	logger.Info("Shutdown signal received",
		zap.Duration("timeout", shutdownTimeout))

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}

	logger.Info("HTTP server stopped gracefully")
	_ = logger.Sync()
	return nil
}
