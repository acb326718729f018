package middleware

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/upb/log-ingest/internal/observability"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// RequestLogger writes one access log line per request and records HTTP metrics
func RequestLogger(logger *zap.Logger, metrics observability.Metrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)

			defer func() {
				duration := time.Since(start)
				status := ww.Status()
				if status == 0 {
					status = http.StatusOK
				}
				route := routePattern(r)

				metrics.RecordHTTPRequest(r.Context(), observability.RequestLabels{
					Method: r.Method,
					Route:  route,
					Status: status,
				}, duration)

				level := zapcore.InfoLevel
				switch {
				case status >= 500:
					level = zapcore.ErrorLevel
				case status >= 400:
					level = zapcore.WarnLevel
				}

				if ce := logger.Check(level, "http request"); ce != nil {
					ce.Write(
						zap.String("request_id", GetRequestIDFromContext(r.Context())),
						zap.String("method", r.Method),
						zap.String("path", r.URL.Path),
						zap.String("route", route),
						zap.Int("status", status),
						zap.Int("bytes", ww.BytesWritten()),
						zap.String("remote_addr", r.RemoteAddr),
						zap.Duration("duration", duration),
					)
				}
			}()

			next.ServeHTTP(ww, r)
		})
	}
}

// routePattern returns the matched chi route so metric labels stay bounded
func routePattern(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if pattern := rctx.RoutePattern(); pattern != "" {
			return pattern
		}
	}
	return "unmatched"
}
