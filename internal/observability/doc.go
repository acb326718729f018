// Package observability provides structured logging and metrics for the
// log ingest gateway.
//
// This package implements:
//   - Structured logging with contextual fields (zap-based)
//   - Optional log file rotation (lumberjack)
//   - Prometheus metrics collection
//   - Request ID propagation into loggers
package observability
