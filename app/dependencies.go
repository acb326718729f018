package app

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/upb/log-ingest/config"
	"github.com/upb/log-ingest/handlers"
	"github.com/upb/log-ingest/internal/observability"
	"github.com/upb/log-ingest/middleware"
	"github.com/upb/log-ingest/repositories/memory"
	"github.com/upb/log-ingest/services/ingest"
	"go.uber.org/zap"
)

// Dependencies holds all application dependencies.
// This is the central wiring point for dependency injection.
type Dependencies struct {
	// Infrastructure
	Config   *config.Config
	Logger   *zap.Logger
	Registry *prometheus.Registry
	Metrics  observability.Metrics

	// Storage
	LogStore *memory.LogRepository

	// Services
	Ingest *ingest.Service

	// HTTP
	IngestHandler *handlers.IngestHandler
	HealthHandler *handlers.HealthHandler
	RateLimiter   *middleware.RateLimiter
}

// NewDependencies creates and wires up all application dependencies.
func NewDependencies(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Dependencies, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger is required")
	}

	deps := &Dependencies{
		Config: cfg,
		Logger: logger,
	}

	deps.initMetrics(cfg)
	deps.initStore()
	deps.initServices()
	deps.initHTTP(cfg)

	logger.Info("all dependencies initialized successfully",
		zap.Bool("metrics_enabled", cfg.Observability.MetricsEnabled),
		zap.Bool("rate_limit_enabled", deps.RateLimiter != nil))
	return deps, nil
}

// initMetrics sets up a private Prometheus registry, or a no-op sink when
// metrics are disabled
func (d *Dependencies) initMetrics(cfg *config.Config) {
	if !cfg.Observability.MetricsEnabled {
		d.Metrics = observability.NopMetrics{}
		return
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	d.Registry = reg
	d.Metrics = observability.NewPrometheusMetrics(reg)
}

func (d *Dependencies) initStore() {
	d.LogStore = memory.NewLogRepository()
	d.Logger.Info("log store initialized")
}

func (d *Dependencies) initServices() {
	d.Ingest = ingest.NewService(d.LogStore, d.Logger, ingest.WithMetrics(d.Metrics))
}

func (d *Dependencies) initHTTP(cfg *config.Config) {
	d.IngestHandler = handlers.NewIngestHandler(d.Ingest, cfg.Ingest, cfg.Query, d.Logger)
	d.HealthHandler = handlers.NewHealthHandler(d.Ingest, cfg.Environment, d.Logger)

	if cfg.Ingest.RateLimitRPS > 0 {
		d.RateLimiter = middleware.NewRateLimiter(cfg.Ingest.RateLimitRPS, cfg.Ingest.RateLimitBurst, d.Logger)
	}
}

// Close gracefully shuts down all dependencies
func (d *Dependencies) Close(ctx context.Context) error {
	d.Logger.Info("shutting down dependencies")

	if d.LogStore != nil {
		d.Logger.Info("log store released", zap.Int("entities", d.LogStore.Len()))
	}

	// Sync logger; stdout sync errors are expected on some platforms
	_ = d.Logger.Sync()

	return nil
}
