package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	statusSuccess = "success"
	statusError   = "error"
)

// Metrics holds all Prometheus metrics for the API. Each server carries its
// own registry so two servers in one process never fight over registration.
type Metrics struct {
	registry *prometheus.Registry

	// HTTP request metrics
	httpRequestsTotal    *prometheus.CounterVec
	httpRequestDuration  *prometheus.HistogramVec
	httpRequestsInFlight *prometheus.GaugeVec

	// Index operation metrics
	indexOperationsTotal   *prometheus.CounterVec
	indexOperationDuration *prometheus.HistogramVec
	entitiesTotal          prometheus.Gauge
	indexNodesTotal        prometheus.Gauge
	indexMaxDepth          prometheus.Gauge
}

// NewMetrics creates and registers all Prometheus metrics
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()
	factory := promauto.With(registry)

	m := &Metrics{
		registry: registry,

		// HTTP request metrics
		httpRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "njord_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "endpoint", "status_code"},
		),

		httpRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "njord_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "endpoint"},
		),

		httpRequestsInFlight: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "njord_http_requests_in_flight",
				Help: "Number of HTTP requests currently being processed",
			},
			[]string{"method", "endpoint"},
		),

		// Index operation metrics
		indexOperationsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "njord_index_operations_total",
				Help: "Total number of spatial index operations",
			},
			[]string{"operation", "status"},
		),

		indexOperationDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "njord_index_operation_duration_seconds",
				Help:    "Spatial index operation duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),

		entitiesTotal: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "njord_entities_total",
				Help: "Number of entities registered in the catalog",
			},
		),

		indexNodesTotal: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "njord_index_nodes_total",
				Help: "Number of nodes in the quadtree index",
			},
		),

		indexMaxDepth: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "njord_index_max_depth",
				Help: "Maximum depth of the quadtree index",
			},
		),
	}

	return m
}

// RecordHTTPRequest records an HTTP request
func (m *Metrics) RecordHTTPRequest(method, endpoint string, statusCode int, duration time.Duration) {
	statusCodeStr := strconv.Itoa(statusCode)

	m.httpRequestsTotal.WithLabelValues(method, endpoint, statusCodeStr).Inc()
	m.httpRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// RecordIndexOperation records a spatial index operation
func (m *Metrics) RecordIndexOperation(operation string, success bool, duration time.Duration) {
	status := statusSuccess
	if !success {
		status = statusError
	}

	m.indexOperationsTotal.WithLabelValues(operation, status).Inc()
	m.indexOperationDuration.WithLabelValues(operation).Observe(duration.Seconds())
}

// UpdateIndexStats updates catalog and index shape gauges
func (m *Metrics) UpdateIndexStats(entities, nodes, maxDepth int) {
	m.entitiesTotal.Set(float64(entities))
	m.indexNodesTotal.Set(float64(nodes))
	m.indexMaxDepth.Set(float64(maxDepth))
}

// InstrumentHandler instruments an HTTP handler with metrics
func (m *Metrics) InstrumentHandler(method, endpoint string, handler http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		// Record request in flight
		gauge := m.httpRequestsInFlight.WithLabelValues(method, endpoint)
		gauge.Inc()
		defer gauge.Dec()

		// Create response writer wrapper to capture status code
		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

		// Call the original handler
		handler(rw, r)

		// Record metrics
		duration := time.Since(start)
		m.RecordHTTPRequest(method, endpoint, rw.statusCode, duration)
	}
}

// responseWriter wraps http.ResponseWriter to capture status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}
