package routes

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/upb/log-ingest/app"
	"github.com/upb/log-ingest/handlers"
	"github.com/upb/log-ingest/middleware"
)

// requestTimeout bounds every request, including body reads
const requestTimeout = 60 * time.Second

// SetupRoutes configures all application routes and middleware
func SetupRoutes(deps *app.Dependencies) http.Handler {
	r := chi.NewRouter()

	// Core middleware
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.RequestLogger(deps.Logger, deps.Metrics))
	r.Use(chimw.Recoverer)
	r.Use(chimw.Timeout(requestTimeout))

	// CORS middleware
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: allowedOrigins(deps),
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
		ExposedHeaders: []string{"X-Request-ID"},
		MaxAge:         300,
	}))

	// Health check endpoints
	r.Get("/healthz", deps.HealthHandler.HandleHealth)
	r.Get("/readyz", deps.HealthHandler.HandleReadiness)

	if deps.Registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(deps.Registry, promhttp.HandlerOpts{}))
	}

	// API v1 routes
	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/status", deps.HealthHandler.HandleStatus)

		r.Route("/logs", func(r chi.Router) {
			r.Get("/", deps.IngestHandler.HandleListLogs)

			r.Group(func(r chi.Router) {
				if deps.RateLimiter != nil {
					r.Use(deps.RateLimiter.Middleware)
				}
				r.Post("/unstructured", deps.IngestHandler.HandleUnstructured)
				r.Post("/udm", deps.IngestHandler.HandleUDMEvents)
			})
		})
	})

	r.NotFound(handlers.NotFound)
	r.MethodNotAllowed(handlers.MethodNotAllowed)

	return r
}

func allowedOrigins(deps *app.Dependencies) []string {
	if deps.Config != nil && len(deps.Config.Server.CORSAllowedOrigins) > 0 {
		return deps.Config.Server.CORSAllowedOrigins
	}
	return []string{"http://localhost:*", "https://*"}
}
