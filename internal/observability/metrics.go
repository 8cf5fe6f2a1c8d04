package observability

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsCollector owns the service's Prometheus registry. A dedicated
// registry keeps this service's metrics free of default Go collectors pulled
// in by shared libraries.
type MetricsCollector struct {
	registry *prometheus.Registry

	httpRequests    *prometheus.CounterVec
	httpDuration    *prometheus.HistogramVec
	ledgerEntries   *prometheus.CounterVec
	outboxPublished prometheus.Counter
	outboxFailed    prometheus.Counter
}

func NewMetricsCollector() *MetricsCollector {
	registry := prometheus.NewRegistry()

	return &MetricsCollector{
		registry: registry,
		httpRequests: promauto.With(registry).NewCounterVec(prometheus.CounterOpts{
			Name: "escrow_http_requests_total",
			Help: "HTTP requests served, by route and status class",
		}, []string{"route", "method", "status"}),
		httpDuration: promauto.With(registry).NewHistogramVec(prometheus.HistogramOpts{
			Name:    "escrow_http_request_duration_seconds",
			Help:    "HTTP request latency",
			Buckets: prometheus.DefBuckets,
		}, []string{"route", "method"}),
		ledgerEntries: promauto.With(registry).NewCounterVec(prometheus.CounterOpts{
			Name: "escrow_ledger_entries_total",
			Help: "Ledger entries appended, by transaction type",
		}, []string{"transaction_type"}),
		outboxPublished: promauto.With(registry).NewCounter(prometheus.CounterOpts{
			Name: "escrow_outbox_published_total",
			Help: "Outbox events published downstream",
		}),
		outboxFailed: promauto.With(registry).NewCounter(prometheus.CounterOpts{
			Name: "escrow_outbox_publish_failures_total",
			Help: "Outbox publish attempts that failed",
		}),
	}
}

func (m *MetricsCollector) RecordHTTPRequest(route, method string, statusCode int, duration time.Duration) {
	status := statusClass(statusCode)
	m.httpRequests.WithLabelValues(route, method, status).Inc()
	m.httpDuration.WithLabelValues(route, method).Observe(duration.Seconds())
}

func (m *MetricsCollector) RecordLedgerEntry(transactionType string) {
	m.ledgerEntries.WithLabelValues(transactionType).Inc()
}

func (m *MetricsCollector) RecordOutboxPublish(success bool) {
	if success {
		m.outboxPublished.Inc()
		return
	}
	m.outboxFailed.Inc()
}

func (m *MetricsCollector) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func statusClass(code int) string {
	switch {
	case code >= 500:
		return "5xx"
	case code >= 400:
		return "4xx"
	case code >= 300:
		return "3xx"
	default:
		return "2xx"
	}
}
