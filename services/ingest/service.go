package ingest

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/upb/log-ingest/internal/observability"
	"github.com/upb/log-ingest/models"
	"github.com/upb/log-ingest/repositories"
	"github.com/upb/log-ingest/services"
	"go.uber.org/zap"
)

// Result describes one accepted submission
type Result struct {
	IngestID uuid.UUID `json:"ingest_id"`
	Accepted int       `json:"accepted"`
}

// Service normalizes submissions and appends them to the log store
type Service struct {
	repo    repositories.LogRepository
	metrics observability.Metrics
	logger  *zap.Logger
	now     func() time.Time
}

// Option configures a Service
type Option func(*Service)

// WithClock overrides the wall clock used for entries without timestamps
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

// WithMetrics sets the metrics sink
func WithMetrics(m observability.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

// NewService creates a new ingest Service instance
func NewService(repo repositories.LogRepository, logger *zap.Logger, opts ...Option) *Service {
	s := &Service{
		repo:    repo,
		metrics: observability.NopMetrics{},
		logger:  logger,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// IngestUnstructured normalizes a free-text submission and appends every
// resulting log in one step.
func (s *Service) IngestUnstructured(ctx context.Context, sub models.UnstructuredLogs) (*Result, error) {
	logs := NormalizeUnstructured(sub, s.now)
	return s.store(ctx, models.SubmissionKindUnstructured, sub.CustomerID, logs)
}

// IngestUDMEvents normalizes a structured event submission and appends every
// resulting log in one step.
func (s *Service) IngestUDMEvents(ctx context.Context, sub models.UDMEvents) (*Result, error) {
	logs := NormalizeUDMEvents(sub, s.now)

	invalid := 0
	for _, event := range sub.Events {
		if event.IsInvalid() {
			invalid++
		}
	}
	s.metrics.RecordInvalidEvents(ctx, invalid)

	return s.store(ctx, models.SubmissionKindUDM, sub.CustomerID, logs)
}

func (s *Service) store(ctx context.Context, kind models.SubmissionKind, customerID string, logs []models.Log) (*Result, error) {
	ingestID := uuid.New()
	logger := observability.FromContext(ctx, s.logger).With(
		zap.String("ingest_id", ingestID.String()),
		zap.String("kind", string(kind)),
		zap.String("customer_id", customerID),
	)

	size, err := s.repo.Append(ctx, logs)
	if err != nil {
		logger.Error("failed to append logs", zap.Int("entities", len(logs)), zap.Error(err))
		return nil, fmt.Errorf("append %d logs: %w: %w", len(logs), services.ErrStoreFailed, err)
	}

	s.metrics.RecordSubmission(ctx, kind, len(logs))
	s.metrics.SetStoreSize(ctx, size)

	logger.Debug("submission ingested", zap.Int("entities", len(logs)))

	return &Result{
		IngestID: ingestID,
		Accepted: len(logs),
	}, nil
}

// Query reads stored logs for the reporting endpoints
type Query struct {
	Filter repositories.LogFilter
	Limit  int
	Offset int
}

// Page is one page of stored logs plus the total number of matches
type Page struct {
	Logs   []models.Log `json:"logs"`
	Total  int          `json:"total"`
	Limit  int          `json:"limit"`
	Offset int          `json:"offset"`
}

// ListLogs returns a page of stored logs
func (s *Service) ListLogs(ctx context.Context, q Query) (*Page, error) {
	if q.Limit <= 0 || q.Offset < 0 {
		return nil, fmt.Errorf("limit %d, offset %d: %w", q.Limit, q.Offset, services.ErrInvalidPagination)
	}

	logs, total, err := s.repo.List(ctx, q.Filter, q.Limit, q.Offset)
	if err != nil {
		return nil, services.WrapInternal("failed to list logs", err)
	}

	return &Page{
		Logs:   logs,
		Total:  total,
		Limit:  q.Limit,
		Offset: q.Offset,
	}, nil
}

// StoredCount returns the number of logs in the store
func (s *Service) StoredCount() int {
	return s.repo.Len()
}
