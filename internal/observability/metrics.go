package observability

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics wraps the service's Prometheus collectors. A nil *Metrics is a valid no-op.
type Metrics struct {
	registry          *prometheus.Registry
	requestCount      *prometheus.CounterVec
	requestDuration   *prometheus.HistogramVec
	errorCount        *prometheus.CounterVec
	hierarchyRounds   *prometheus.HistogramVec
	aggregateDuration prometheus.Histogram
}

// NewMetrics registers collectors on a private registry.
func NewMetrics(namespace string) *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		registry: reg,
		requestCount: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by route, method and status.",
		}, []string{"path", "method", "status"}),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"path", "method"}),
		errorCount: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_errors_total",
			Help:      "Failed requests by error code.",
		}, []string{"path", "method", "code"}),
		hierarchyRounds: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "hierarchy_fetch_rounds",
			Help:      "Batched account fetches issued per hierarchy resolution.",
			Buckets:   []float64{0, 1, 2, 3, 4},
		}, []string{"role"}),
		aggregateDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "insights_aggregate_duration_seconds",
			Help:      "Time spent aggregating recordings for one request.",
			Buckets:   prometheus.DefBuckets,
		}),
	}
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.requestCount,
		m.requestDuration,
		m.errorCount,
		m.hierarchyRounds,
		m.aggregateDuration,
	)
	return m
}

// RecordRequest increments counters for requests.
func (m *Metrics) RecordRequest(path, method string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	m.requestCount.WithLabelValues(path, method, strconv.Itoa(status)).Inc()
	m.requestDuration.WithLabelValues(path, method).Observe(duration.Seconds())
}

// RecordError increments error counters.
func (m *Metrics) RecordError(path, method, code string) {
	if m == nil {
		return
	}
	m.errorCount.WithLabelValues(path, method, code).Inc()
}

// ObserveHierarchyRounds records how many batched fetches one resolution took.
func (m *Metrics) ObserveHierarchyRounds(role string, rounds int) {
	if m == nil {
		return
	}
	m.hierarchyRounds.WithLabelValues(role).Observe(float64(rounds))
}

// ObserveAggregate records aggregation latency.
func (m *Metrics) ObserveAggregate(duration time.Duration) {
	if m == nil {
		return
	}
	m.aggregateDuration.Observe(duration.Seconds())
}

// Handler exposes the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
