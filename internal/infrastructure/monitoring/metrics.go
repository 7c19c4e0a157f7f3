package monitoring

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	// HTTP metrics
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
	RequestSize     *prometheus.HistogramVec
	ResponseSize    *prometheus.HistogramVec

	// Service metrics
	ServiceCalls    *prometheus.CounterVec
	ServiceDuration *prometheus.HistogramVec
	ServiceErrors   *prometheus.CounterVec

	// Tomography metrics
	DatasetsLive prometheus.Gauge

	// System metrics
	Uptime    prometheus.Gauge
	startTime time.Time

	registry *prometheus.Registry

	// Snapshot for JSON API - track current values
	snapshot MetricsSnapshot

	mu sync.RWMutex
}

// MetricsSnapshot holds current metric values for JSON API
type MetricsSnapshot struct {
	TotalRequests int64
	TotalErrors   int64
	DatasetsLive  int64
	TotalDuration float64 // sum of all request durations
	RequestCount  int64   // count for averaging
}

// NewMetrics creates a new metrics collector. Each collector owns its own
// registry so independent instances never collide on metric names.
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(registry)

	m := &Metrics{
		startTime: time.Now(),
		registry:  registry,

		// HTTP metrics
		RequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "backend_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		RequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "backend_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
			},
			[]string{"method", "path"},
		),
		RequestSize: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "backend_http_request_size_bytes",
				Help:    "HTTP request size in bytes",
				Buckets: []float64{100, 1000, 10000, 100000, 1000000, 10000000},
			},
			[]string{"method", "path"},
		),
		ResponseSize: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "backend_http_response_size_bytes",
				Help:    "HTTP response size in bytes",
				Buckets: []float64{100, 1000, 10000, 100000, 1000000, 10000000},
			},
			[]string{"method", "path"},
		),

		// Service metrics
		ServiceCalls: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "backend_service_calls_total",
				Help: "Total number of service calls",
			},
			[]string{"service", "method", "status"},
		),
		ServiceDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "backend_service_duration_seconds",
				Help:    "Service call duration in seconds",
				Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
			},
			[]string{"service", "method"},
		),
		ServiceErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "backend_service_errors_total",
				Help: "Total number of service errors",
			},
			[]string{"service", "method", "error_type"},
		),

		// Tomography metrics
		DatasetsLive: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "backend_tomo_datasets_live",
				Help: "Number of tomography datasets currently held in memory",
			},
		),

		// System metrics
		Uptime: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "backend_uptime_seconds",
				Help: "Backend uptime in seconds",
			},
		),
	}

	// Start uptime updater
	go m.updateUptime()

	return m
}

// updateUptime continuously updates the uptime metric
func (m *Metrics) updateUptime() {
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for range ticker.C {
		m.Uptime.Set(time.Since(m.startTime).Seconds())
	}
}

// RecordHTTPRequest records an HTTP request
func (m *Metrics) RecordHTTPRequest(method, path, status string, duration time.Duration, reqSize, respSize int64) {
	m.RequestsTotal.WithLabelValues(method, path, status).Inc()
	m.RequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
	m.RequestSize.WithLabelValues(method, path).Observe(float64(reqSize))
	m.ResponseSize.WithLabelValues(method, path).Observe(float64(respSize))

	// Update snapshot
	m.mu.Lock()
	m.snapshot.TotalRequests++
	m.snapshot.TotalDuration += duration.Seconds()
	m.snapshot.RequestCount++
	if status[0] == '4' || status[0] == '5' {
		m.snapshot.TotalErrors++
	}
	m.mu.Unlock()
}

// RecordServiceCall records a service call
func (m *Metrics) RecordServiceCall(service, method, status string, duration time.Duration) {
	m.ServiceCalls.WithLabelValues(service, method, status).Inc()
	m.ServiceDuration.WithLabelValues(service, method).Observe(duration.Seconds())
}

// RecordServiceError records a service error
func (m *Metrics) RecordServiceError(service, method, errorType string) {
	m.ServiceErrors.WithLabelValues(service, method, errorType).Inc()
}

// SetDatasetsLive sets the number of datasets held in memory
func (m *Metrics) SetDatasetsLive(count int) {
	m.DatasetsLive.Set(float64(count))
	m.mu.Lock()
	m.snapshot.DatasetsLive = int64(count)
	m.mu.Unlock()
}

// Registry exposes the collector's registry for exposition handlers
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// GetSnapshot returns current metric values for JSON consumers
func (m *Metrics) GetSnapshot() MetricsSnapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.snapshot
}

// UptimeSeconds returns seconds since the collector was created
func (m *Metrics) UptimeSeconds() float64 {
	return time.Since(m.startTime).Seconds()
}
