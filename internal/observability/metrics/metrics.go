package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "projecthub_http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})

	httpRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "projecthub_http_request_duration_seconds",
		Help:    "Duration of HTTP requests",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	entityOperations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "projecthub_entity_operations_total",
		Help: "Count of entity mutations by entity, operation and result",
	}, []string{"entity", "operation", "result"})

	authFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "projecthub_auth_failures_total",
		Help: "Count of rejected authentication attempts by reason",
	}, []string{"reason"})

	tableRows = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "projecthub_table_rows",
		Help: "Approximate row count per table, refreshed by the stats worker",
	}, []string{"table"})
)

// ObserveHTTPRequest records an HTTP request metric
func ObserveHTTPRequest(method, path, status string, duration time.Duration) {
	httpRequestsTotal.WithLabelValues(method, path, status).Inc()
	httpRequestDuration.WithLabelValues(method, path, status).Observe(duration.Seconds())
}

// ObserveEntityOperation records an entity mutation outcome.
func ObserveEntityOperation(entity, operation, result string) {
	entityOperations.WithLabelValues(entity, operation, result).Inc()
}

// ObserveAuthFailure records a rejected login or token verification.
func ObserveAuthFailure(reason string) {
	authFailures.WithLabelValues(reason).Inc()
}

// SetTableRows updates the row-count gauge for a table.
func SetTableRows(table string, count int64) {
	if count < 0 {
		count = 0
	}
	tableRows.WithLabelValues(table).Set(float64(count))
}
