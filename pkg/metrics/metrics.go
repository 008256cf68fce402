package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	// HTTP metrics
	HTTPRequestsTotal    *prometheus.CounterVec
	HTTPRequestDuration  *prometheus.HistogramVec
	HTTPRequestsInFlight prometheus.Gauge

	// Remote store metrics
	StoreCalls    *prometheus.CounterVec
	StoreDuration *prometheus.HistogramVec
	StoreFailures *prometheus.CounterVec

	// Resolution metrics
	ResolutionsTotal *prometheus.CounterVec

	// Allocation metrics
	AllocationsTotal *prometheus.CounterVec

	// Admin write metrics
	AdminWritesTotal *prometheus.CounterVec

	// Tracking metrics
	TrackingEventsTotal *prometheus.CounterVec
	FlushesTotal        *prometheus.CounterVec
	FlushDuration       prometheus.Histogram
	PendingEvents       prometheus.Gauge
}

func New() *Metrics {
	return &Metrics{
		HTTPRequestsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "endpoint", "status_code"},
		),

		HTTPRequestDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "endpoint"},
		),

		HTTPRequestsInFlight: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "http_requests_in_flight",
				Help: "Number of HTTP requests currently being processed",
			},
		),

		StoreCalls: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "kv_store_calls_total",
				Help: "Total number of remote key-value store calls",
			},
			[]string{"operation", "status"},
		),

		StoreDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "kv_store_call_duration_seconds",
				Help:    "Remote key-value store call duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),

		StoreFailures: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "kv_store_failures_total",
				Help: "Total number of remote key-value store failures",
			},
			[]string{"operation", "error_type"},
		),

		ResolutionsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "product_resolutions_total",
				Help: "Total number of product resolutions",
			},
			[]string{"step", "status"},
		),

		AllocationsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "storage_key_allocations_total",
				Help: "Total number of storage key allocations",
			},
			[]string{"outcome"},
		),

		AdminWritesTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "admin_writes_total",
				Help: "Total number of admin write operations",
			},
			[]string{"operation", "status"},
		),

		TrackingEventsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tracking_events_total",
				Help: "Total number of tracking events buffered",
			},
			[]string{"event"},
		),

		FlushesTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "metrics_flushes_total",
				Help: "Total number of metrics buffer flushes",
			},
			[]string{"status"},
		),

		FlushDuration: promauto.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "metrics_flush_duration_seconds",
				Help:    "Metrics buffer flush duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
		),

		PendingEvents: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "tracking_events_pending",
				Help: "Number of tracking events waiting to be flushed",
			},
		),
	}
}

// HTTP request metrics
func (m *Metrics) RecordHTTPRequest(method, endpoint, statusCode string, duration time.Duration) {
	m.HTTPRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// Remote store call metrics
func (m *Metrics) RecordStoreCall(operation, status string, duration time.Duration) {
	m.StoreCalls.WithLabelValues(operation, status).Inc()
	m.StoreDuration.WithLabelValues(operation).Observe(duration.Seconds())
}

// Remote store failure metrics
func (m *Metrics) RecordStoreFailure(operation, errorType string) {
	m.StoreFailures.WithLabelValues(operation, errorType).Inc()
}

// Resolution outcome metrics
func (m *Metrics) RecordResolution(step, status string) {
	m.ResolutionsTotal.WithLabelValues(step, status).Inc()
}

// Allocation outcome metrics
func (m *Metrics) RecordAllocation(outcome string) {
	m.AllocationsTotal.WithLabelValues(outcome).Inc()
}

// Admin write metrics
func (m *Metrics) RecordAdminWrite(operation, status string) {
	m.AdminWritesTotal.WithLabelValues(operation, status).Inc()
}

// Tracking event metrics
func (m *Metrics) RecordTrackingEvent(event string) {
	m.TrackingEventsTotal.WithLabelValues(event).Inc()
}

// Flush outcome metrics
func (m *Metrics) RecordFlush(status string, duration time.Duration) {
	m.FlushesTotal.WithLabelValues(status).Inc()
	m.FlushDuration.Observe(duration.Seconds())
}

// Pending buffer gauge
func (m *Metrics) SetPendingEvents(count int) {
	m.PendingEvents.Set(float64(count))
}

// HTTP requests in flight counter
func (m *Metrics) IncHTTPRequestsInFlight() {
	m.HTTPRequestsInFlight.Inc()
}

// HTTP requests in flight counter
func (m *Metrics) DecHTTPRequestsInFlight() {
	m.HTTPRequestsInFlight.Dec()
}
