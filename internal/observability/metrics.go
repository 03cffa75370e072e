package observability

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Load outcomes reported by list views.
const (
	LoadApplied = "applied"
	LoadStale   = "stale"
	LoadFailed  = "failed"
	LoadSkipped = "skipped"
)

// Metrics holds the service's prometheus collectors on a private registry.
type Metrics struct {
	registry       *prometheus.Registry
	requests       *prometheus.CounterVec
	requestLatency *prometheus.HistogramVec
	errors         *prometheus.CounterVec
	backendCalls   *prometheus.CounterVec
	backendLatency *prometheus.HistogramVec
	viewLoads      *prometheus.CounterVec
	openViews      prometheus.Gauge
}

// NewMetrics registers all collectors.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "fleet_admin",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "HTTP requests by route, method and status.",
		}, []string{"route", "method", "status"}),
		requestLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "fleet_admin",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency by route and method.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route", "method"}),
		errors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "fleet_admin",
			Subsystem: "http",
			Name:      "errors_total",
			Help:      "Error responses by route, method and error code.",
		}, []string{"route", "method", "code"}),
		backendCalls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "fleet_admin",
			Subsystem: "backend",
			Name:      "calls_total",
			Help:      "REST backend calls by endpoint and result.",
		}, []string{"endpoint", "result"}),
		backendLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "fleet_admin",
			Subsystem: "backend",
			Name:      "call_duration_seconds",
			Help:      "REST backend call latency by endpoint.",
			Buckets: []float64{
				0.005, 0.01, 0.025, 0.05,
				0.1, 0.25, 0.5, 1,
				2.5, 5, 10,
			},
		}, []string{"endpoint"}),
		viewLoads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "fleet_admin",
			Subsystem: "listview",
			Name:      "loads_total",
			Help:      "List view loads by outcome.",
		}, []string{"outcome"}),
		openViews: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "fleet_admin",
			Subsystem: "listview",
			Name:      "open_views",
			Help:      "View instances currently held in memory.",
		}),
	}
	m.registry.MustRegister(
		m.requests,
		m.requestLatency,
		m.errors,
		m.backendCalls,
		m.backendLatency,
		m.viewLoads,
		m.openViews,
	)
	return m
}

// Registry exposes the underlying registry, mainly for tests.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// RecordRequest increments counters for requests.
func (m *Metrics) RecordRequest(route, method string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	m.requests.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	m.requestLatency.WithLabelValues(route, method).Observe(duration.Seconds())
}

// RecordError increments error counters.
func (m *Metrics) RecordError(route, method, code string) {
	if m == nil {
		return
	}
	m.errors.WithLabelValues(route, method, code).Inc()
}

// RecordBackendCall tracks one REST backend round trip. status is 0 on transport errors.
func (m *Metrics) RecordBackendCall(endpoint string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	m.backendCalls.WithLabelValues(endpoint, backendResult(status)).Inc()
	m.backendLatency.WithLabelValues(endpoint).Observe(duration.Seconds())
}

// RecordViewLoad counts a list view load by outcome.
func (m *Metrics) RecordViewLoad(outcome string) {
	if m == nil {
		return
	}
	m.viewLoads.WithLabelValues(outcome).Inc()
}

// SetOpenViews publishes the number of live view instances.
func (m *Metrics) SetOpenViews(n int) {
	if m == nil {
		return
	}
	m.openViews.Set(float64(n))
}

func backendResult(status int) string {
	switch {
	case status == 0:
		return "transport_error"
	case status >= 500:
		return "5xx"
	case status >= 400:
		return "4xx"
	default:
		return "ok"
	}
}
