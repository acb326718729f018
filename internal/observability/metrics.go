package observability

import (
	"context"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/upb/log-ingest/models"
)

// Metrics collects application metrics.
type Metrics interface {
	RecordSubmission(ctx context.Context, kind models.SubmissionKind, entities int)
	RecordInvalidEvents(ctx context.Context, count int)
	SetStoreSize(ctx context.Context, size int)
	RecordHTTPRequest(ctx context.Context, labels RequestLabels, duration time.Duration)
}

// RequestLabels contains HTTP metric dimensions.
type RequestLabels struct {
	Method string
	Route  string
	Status int
}

const namespace = "logingest"

// PrometheusMetrics implements Metrics on a Prometheus registry
type PrometheusMetrics struct {
	submissions   *prometheus.CounterVec
	entities      *prometheus.CounterVec
	invalidEvents prometheus.Counter
	storeSize     prometheus.Gauge
	httpRequests  *prometheus.CounterVec
	httpDuration  *prometheus.HistogramVec
}

// NewPrometheusMetrics registers all collectors on reg
func NewPrometheusMetrics(reg prometheus.Registerer) *PrometheusMetrics {
	factory := promauto.With(reg)

	return &PrometheusMetrics{
		submissions: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "submissions_total",
				Help:      "Total submissions ingested by kind",
			},
			[]string{"kind"},
		),
		entities: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "entities_total",
				Help:      "Total canonical log entities appended by submission kind",
			},
			[]string{"kind"},
		),
		invalidEvents: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "invalid_events_total",
				Help:      "UDM events received with the invalid flag set",
			},
		),
		storeSize: factory.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "store_entities",
				Help:      "Number of entities currently held in the log store",
			},
		),
		httpRequests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "HTTP requests by method, route and status",
			},
			[]string{"method", "route", "status"},
		),
		httpDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request latency",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
	}
}

func (m *PrometheusMetrics) RecordSubmission(_ context.Context, kind models.SubmissionKind, entities int) {
	m.submissions.WithLabelValues(string(kind)).Inc()
	m.entities.WithLabelValues(string(kind)).Add(float64(entities))
}

func (m *PrometheusMetrics) RecordInvalidEvents(_ context.Context, count int) {
	if count > 0 {
		m.invalidEvents.Add(float64(count))
	}
}

func (m *PrometheusMetrics) SetStoreSize(_ context.Context, size int) {
	m.storeSize.Set(float64(size))
}

func (m *PrometheusMetrics) RecordHTTPRequest(_ context.Context, labels RequestLabels, duration time.Duration) {
	m.httpRequests.WithLabelValues(labels.Method, labels.Route, strconv.Itoa(labels.Status)).Inc()
	m.httpDuration.WithLabelValues(labels.Method, labels.Route).Observe(duration.Seconds())
}

// NopMetrics discards everything; used when metrics are disabled
type NopMetrics struct{}

func (NopMetrics) RecordSubmission(context.Context, models.SubmissionKind, int) {}
func (NopMetrics) RecordInvalidEvents(context.Context, int)                     {}
func (NopMetrics) SetStoreSize(context.Context, int)                            {}
func (NopMetrics) RecordHTTPRequest(context.Context, RequestLabels, time.Duration) {}
