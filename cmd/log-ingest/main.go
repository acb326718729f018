package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/upb/log-ingest/app"
	"github.com/upb/log-ingest/config"
	"github.com/upb/log-ingest/handlers"
	"github.com/upb/log-ingest/internal/observability"
	"github.com/upb/log-ingest/routes"
	"go.uber.org/zap"
)

type rootOptions struct {
	configFile string
	envFile    string
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:   "log-ingest",
		Short: "Multi-tenant log ingestion service",
		Long: `log-ingest accepts unstructured log lines and structured UDM security events
over HTTP, normalizes both into a single canonical log record and keeps them
in an in-memory store for the lifetime of the process.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), opts)
		},
	}

	root.PersistentFlags().StringVarP(&opts.configFile, "config", "c", "", "Path to a YAML configuration file (default: $CONFIG_FILE)")
	root.PersistentFlags().StringVar(&opts.envFile, "env-file", ".env", "Path to a dotenv file")

	root.AddCommand(
		&cobra.Command{
			Use:   "serve",
			Short: "Start the HTTP ingestion server",
			RunE: func(cmd *cobra.Command, args []string) error {
				return runServe(cmd.Context(), opts)
			},
		},
		&cobra.Command{
			Use:   "version",
			Short: "Show version information",
			Run: func(cmd *cobra.Command, args []string) {
				fmt.Fprintf(cmd.OutOrStdout(), "log-ingest %s\n", handlers.Version)
			},
		},
	)

	return root
}

// loadConfig reads configuration using the command line overrides
func loadConfig(ctx context.Context, opts *rootOptions) (*config.Config, error) {
	var cfgOpts []config.Option
	if opts.envFile != "" {
		cfgOpts = append(cfgOpts, config.WithEnvFile(opts.envFile))
	}
	if opts.configFile != "" {
		cfgOpts = append(cfgOpts, config.WithConfigFile(opts.configFile))
	}
	return config.New(ctx, cfgOpts...)
}

// initLogger builds the process logger
func initLogger(cfg config.ObservabilityConfig) (*zap.Logger, error) {
	return observability.NewLogger(cfg)
}

func runServe(parent context.Context, opts *rootOptions) error {
	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := loadConfig(ctx, opts)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	logger, err := initLogger(cfg.Observability)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	deps, err := app.NewDependencies(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to initialize dependencies", zap.Error(err))
		return err
	}

	srv := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      routes.SetupRoutes(deps),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	return serve(ctx, srv, cfg, deps)
}

// serve runs srv until ctx is cancelled, then drains in-flight requests
// within the configured shutdown timeout.
func serve(ctx context.Context, srv *http.Server, cfg *config.Config, deps *app.Dependencies) error {
	logger := deps.Logger
	errCh := make(chan error, 1)

	go func() {
		logger.Info("starting server",
			zap.String("addr", srv.Addr),
			zap.String("environment", cfg.Environment),
			zap.Bool("tls", cfg.Server.TLS.Enabled))

		var err error
		if cfg.Server.TLS.Enabled {
			err = srv.ListenAndServeTLS(cfg.Server.TLS.CertFile, cfg.Server.TLS.KeyFile)
		} else {
			err = srv.ListenAndServe()
		}
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			logger.Error("server failed", zap.Error(err))
			return err
		}
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", zap.Error(err))
		return err
	}

	if err := deps.Close(shutdownCtx); err != nil {
		logger.Error("failed to close dependencies", zap.Error(err))
		return err
	}

	logger.Info("server stopped")
	return nil
}
