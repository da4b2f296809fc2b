// =============================================================================
// CSV Cleaner - Serve Command
// =============================================================================
//
// This file defines the 'serve' command, which starts the upload form.
//
// COMMAND USAGE:
//   clean serve [--addr :8080]
//
// ENDPOINTS:
//   GET  /         - upload form
//   POST /clean    - clean an uploaded file and download the result
//   GET  /healthz  - liveness
//   GET  /metrics  - Prometheus metrics
//
// The server stops gracefully on SIGINT or SIGTERM, waiting at most
// server.shutdown_timeout for in-flight requests.
//
// =============================================================================

package cmd

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ginjaninja78/csv-cleaner/internal/config"
	"github.com/ginjaninja78/csv-cleaner/internal/metrics"
	"github.com/ginjaninja78/csv-cleaner/internal/web"
)

// serveAddr is the listen address flag; bound to server.addr with viper.
var serveAddr string

// serveCmd represents the 'serve' command.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the upload form",
	Long: `Start an HTTP server with a form to upload a CSV file and download the
cleaned copy. Nothing is kept after a request completes.`,
	Args: usageArgs(cobra.NoArgs),
	RunE: runServe,
}

// init registers the serve command with the root command.
func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(
		&serveAddr,
		"addr",
		config.DefaultAddr,
		"Listen address (env CSVCLEAN_SERVER_ADDR)",
	)
}

// runServe starts the server and blocks until it stops.
func runServe(cmd *cobra.Command, args []string) error {
	cfg, logger, err := setup(cmd)
	if err != nil {
		return err
	}

	server := web.NewServer(cfg.Server, logger, metrics.NewCollector())

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info().Msg("shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("shutdown error")
		return err
	}

	if err := <-errCh; err != nil {
		return err
	}

	logger.Info().Msg("server stopped")
	return nil
}
