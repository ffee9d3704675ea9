package metrics

import (
	"database/sql"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var durationBuckets = []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5}

// Metrics provides observability for the directory service.
// Tracks connection scope outcomes, service operations and HTTP traffic.
type Metrics struct {
	registry *prometheus.Registry

	ScopeDuration     *prometheus.HistogramVec
	Operations        *prometheus.CounterVec
	OperationDuration *prometheus.HistogramVec
	HTTPRequests      *prometheus.CounterVec
	HTTPDuration      *prometheus.HistogramVec
}

// New creates a Metrics instance with every collector registered on reg.
// A nil reg gets a fresh registry.
func New(reg *prometheus.Registry) *Metrics {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	f := promauto.With(reg)

	return &Metrics{
		registry: reg,
		ScopeDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "obras_sociales_connection_scope_duration_seconds",
			Help:    "Duration of connection scopes from checkout to release, by outcome",
			Buckets: durationBuckets,
		}, []string{"outcome"}),
		Operations: f.NewCounterVec(prometheus.CounterOpts{
			Name: "obras_sociales_operations_total",
			Help: "Directory operations by name and result",
		}, []string{"operation", "result"}),
		OperationDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "obras_sociales_operation_duration_seconds",
			Help:    "Duration of directory operations",
			Buckets: durationBuckets,
		}, []string{"operation"}),
		HTTPRequests: f.NewCounterVec(prometheus.CounterOpts{
			Name: "obras_sociales_http_requests_total",
			Help: "HTTP requests by method, route and status code",
		}, []string{"method", "route", "status"}),
		HTTPDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "obras_sociales_http_request_duration_seconds",
			Help:    "HTTP request latency by method and route",
			Buckets: durationBuckets,
		}, []string{"method", "route"}),
	}
}

// RegisterDB exports connection pool statistics for db.
func (m *Metrics) RegisterDB(db *sql.DB, name string) error {
	return m.registry.Register(collectors.NewDBStatsCollector(db, name))
}

// ObserveScope records the duration of a connection scope.
// Call with time.Now() taken before the connection was requested.
func (m *Metrics) ObserveScope(outcome string, start time.Time) {
	m.ScopeDuration.WithLabelValues(outcome).Observe(time.Since(start).Seconds())
}

// ObserveOperation records one directory operation and its result.
func (m *Metrics) ObserveOperation(operation, result string, start time.Time) {
	m.Operations.WithLabelValues(operation, result).Inc()
	m.OperationDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
}

// ObserveHTTP records one served HTTP request.
func (m *Metrics) ObserveHTTP(method, route string, status int, start time.Time) {
	m.HTTPRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.HTTPDuration.WithLabelValues(method, route).Observe(time.Since(start).Seconds())
}

// Handler exposes the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
