// Package metrics provides Prometheus metrics for the timeline server.
package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const defaultRefreshInterval = 10 * time.Second

// defaultLatencyBuckets are in milliseconds.
var defaultLatencyBuckets = []float64{1, 2.5, 5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000, 15000}

// Manager owns every metric of the service.
type Manager struct {
	namespace        string
	subsystem        string
	latencyBuckets   []float64
	refreshInterval  time.Duration
	constLabels      map[string]string
	registry         prometheus.Registerer

	// Engine
	zoomTicks       *prometheus.CounterVec
	panCorrections  prometheus.Counter
	renderDuration  *prometheus.HistogramVec
	hoverChanges    *prometheus.CounterVec
	activeSessions  prometheus.Gauge
	sessionsEvicted prometheus.Counter

	// Data
	eventsLoaded     prometheus.Gauge
	eventFetchErrors prometheus.Counter

	// Export
	rasterExports  *prometheus.CounterVec
	rasterDuration prometheus.Histogram

	// HTTP
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	errorRateByEndpoint *prometheus.CounterVec
	errorRateByType     *prometheus.CounterVec

	// System
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
	systemGCPauseTime    prometheus.Histogram
}

var globalManager *Manager //nolint:gochecknoglobals // singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // metrics registry

func init() { //nolint:gochecknoinits // global metrics setup
	globalManager = NewManager(WithRegisterer(customRegistry))
}

// NewManager creates a manager and registers its metrics.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "epochline",
		subsystem:        "timeline",
		latencyBuckets:   defaultLatencyBuckets,
		refreshInterval:  defaultRefreshInterval,
		constLabels:      make(map[string]string),
		registry:         prometheus.DefaultRegisterer,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.initializeMetrics()
	return m
}

// RefreshInterval is how often gauges should be refreshed by pollers.
func (m *Manager) RefreshInterval() time.Duration { return m.refreshInterval }

func (m *Manager) counter(name, help string) prometheus.Counter {
	return promauto.With(m.registry).NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help,
		ConstLabels: m.constLabels,
	})
}

func (m *Manager) counterVec(name, help string, labels ...string) *prometheus.CounterVec {
	return promauto.With(m.registry).NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help,
		ConstLabels: m.constLabels,
	}, labels)
}

func (m *Manager) gauge(name, help string) prometheus.Gauge {
	return promauto.With(m.registry).NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help,
		ConstLabels: m.constLabels,
	})
}

func (m *Manager) histogram(name, help string) prometheus.Histogram {
	return promauto.With(m.registry).NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help,
		ConstLabels: m.constLabels, Buckets: m.latencyBuckets,
	})
}

func (m *Manager) histogramVec(name, help string, labels ...string) *prometheus.HistogramVec {
	return promauto.With(m.registry).NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help,
		ConstLabels: m.constLabels, Buckets: m.latencyBuckets,
	}, labels)
}

func (m *Manager) initializeMetrics() {
	m.zoomTicks = m.counterVec("zoom_ticks_total", "Zoom and pan gestures applied, by gesture kind", "kind")
	m.panCorrections = m.counter("pan_corrections_total", "Transforms re-issued after the pan clamp moved them")
	m.renderDuration = m.histogramVec("render_duration_milliseconds", "Time to mount or update a surface", "phase")
	m.hoverChanges = m.counterVec("hover_transitions_total", "Hover state transitions, by layer", "layer")
	m.activeSessions = m.gauge("active_sessions", "Interactive sessions currently held")
	m.sessionsEvicted = m.counter("sessions_evicted_total", "Sessions dropped by the registry")

	m.eventsLoaded = m.gauge("events_loaded", "Approved events returned by the last fetch")
	m.eventFetchErrors = m.counter("event_fetch_errors_total", "Failed event fetches")

	m.rasterExports = m.counterVec("raster_exports_total", "Raster exports, by format and outcome", "format", "outcome")
	m.rasterDuration = m.histogram("raster_duration_milliseconds", "Time spent in the headless browser")

	m.httpRequests = m.counterVec("http_requests_total", "Total number of HTTP requests by endpoint and method",
		"endpoint", "method", "status_code")
	m.httpRequestDuration = m.histogramVec("http_request_duration_milliseconds", "HTTP request duration in milliseconds",
		"endpoint", "method", "status_code")
	m.errorRateByEndpoint = m.counterVec("errors_by_endpoint_total", "Errors by endpoint", "endpoint", "method", "error_type")
	m.errorRateByType = m.counterVec("errors_by_type_total", "Errors by type and severity", "error_type", "severity")

	m.systemMemoryUsage = m.gauge("system_memory_bytes", "Allocated heap memory in bytes")
	m.systemGoroutineCount = m.gauge("system_goroutines", "Current number of goroutines")
	m.systemGCPauseTime = m.histogram("system_gc_pause_milliseconds", "Average GC pause in milliseconds")
}

// RecordZoom counts one applied gesture.
func RecordZoom(kind string) { globalManager.zoomTicks.WithLabelValues(kind).Inc() }

// RecordPanCorrection counts one clamp correction.
func RecordPanCorrection() { globalManager.panCorrections.Inc() }

// RecordRenderDuration observes a mount or update in milliseconds.
func RecordRenderDuration(phase string, ms float64) {
	globalManager.renderDuration.WithLabelValues(phase).Observe(ms)
}

// RecordHover counts a hover transition on layer.
func RecordHover(layer string) { globalManager.hoverChanges.WithLabelValues(layer).Inc() }

// UpdateActiveSessions sets the live session count.
func UpdateActiveSessions(n int) { globalManager.activeSessions.Set(float64(n)) }

// RecordSessionEvicted counts a dropped session.
func RecordSessionEvicted() { globalManager.sessionsEvicted.Inc() }

// UpdateEventsLoaded sets the size of the last fetched event set.
func UpdateEventsLoaded(n int) { globalManager.eventsLoaded.Set(float64(n)) }

// RecordEventFetchError counts a failed fetch.
func RecordEventFetchError() { globalManager.eventFetchErrors.Inc() }

// RecordRaster counts an export and observes its duration.
func RecordRaster(format, outcome string, ms float64) {
	globalManager.rasterExports.WithLabelValues(format, outcome).Inc()
	globalManager.rasterDuration.Observe(ms)
}

// RecordHTTPRequest increments the HTTP request counter.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration observes request latency in milliseconds.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
}

// RecordErrorByEndpoint counts an error response on endpoint.
func RecordErrorByEndpoint(endpoint, method, errorType string) {
	globalManager.errorRateByEndpoint.WithLabelValues(endpoint, method, errorType).Inc()
}

// RecordErrorByType counts an error by type and severity.
func RecordErrorByType(errorType, severity string) {
	globalManager.errorRateByType.WithLabelValues(errorType, severity).Inc()
}

// UpdateSystemMemoryUsage sets allocated heap bytes.
func UpdateSystemMemoryUsage(bytes uint64) { globalManager.systemMemoryUsage.Set(float64(bytes)) }

// UpdateSystemGoroutineCount sets the goroutine count.
func UpdateSystemGoroutineCount(count int) { globalManager.systemGoroutineCount.Set(float64(count)) }

// RecordSystemGCPauseTime observes a GC pause in milliseconds.
func RecordSystemGCPauseTime(pauseMs float64) { globalManager.systemGCPauseTime.Observe(pauseMs) }

// RefreshInterval returns the refresh interval of the global manager.
func RefreshInterval() time.Duration { return globalManager.refreshInterval }

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}

// Sum gathers the registry and adds up every sample of the named metric
// family. Counters, gauges and histogram sample counts are supported.
func Sum(name string) (float64, error) {
	families, err := customRegistry.Gather()
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrObserveFailed, err)
	}
	for _, f := range families {
		if f.GetName() != name {
			continue
		}
		var total float64
		for _, m := range f.GetMetric() {
			switch {
			case m.GetCounter() != nil:
				total += m.GetCounter().GetValue()
			case m.GetGauge() != nil:
				total += m.GetGauge().GetValue()
			case m.GetHistogram() != nil:
				total += float64(m.GetHistogram().GetSampleCount())
			}
		}
		return total, nil
	}
	return 0, fmt.Errorf("%w: no metric %s", ErrObserveFailed, name)
}
