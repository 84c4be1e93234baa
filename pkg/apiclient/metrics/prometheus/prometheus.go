package prommetrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics implements apiclient.Metrics using Prometheus.
type Metrics struct {
	requestDuration *prometheus.HistogramVec
	requestsTotal   *prometheus.CounterVec
	outcomesTotal   *prometheus.CounterVec
	cacheHitsTotal  prometheus.Counter
	cacheMissTotal  prometheus.Counter
	refreshTotal    *prometheus.CounterVec
}

// NewMetrics creates a new Prometheus metrics implementation.
func NewMetrics(reg prometheus.Registerer, namespace string) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		requestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "api_request_duration_seconds",
			Help:      "Latency of API requests.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "endpoint"}),

		requestsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "api_requests_total",
			Help:      "Total number of API requests by status.",
		}, []string{"method", "endpoint", "status"}),

		outcomesTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "api_outcomes_total",
			Help:      "Total number of classified request outcomes.",
		}, []string{"category"}),

		cacheHitsTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "conditional_cache_hits_total",
			Help:      "Total number of conditional GETs answered with 304 Not Modified.",
		}),

		cacheMissTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "conditional_cache_misses_total",
			Help:      "Total number of conditional GETs that returned a full response.",
		}),

		refreshTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "session_refresh_total",
			Help:      "Total number of session refresh attempts.",
		}, []string{"success"}),
	}
}

// RecordRequest implements apiclient.Metrics.
func (m *Metrics) RecordRequest(method, endpoint string, status int, duration time.Duration) {
	m.requestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
	m.requestsTotal.WithLabelValues(method, endpoint, strconv.Itoa(status)).Inc()
}

// RecordOutcome implements apiclient.Metrics.
func (m *Metrics) RecordOutcome(category string) {
	m.outcomesTotal.WithLabelValues(category).Inc()
}

// RecordCacheHit implements apiclient.Metrics.
func (m *Metrics) RecordCacheHit() {
	m.cacheHitsTotal.Inc()
}

// RecordCacheMiss implements apiclient.Metrics.
func (m *Metrics) RecordCacheMiss() {
	m.cacheMissTotal.Inc()
}

// RecordRefresh implements apiclient.Metrics.
func (m *Metrics) RecordRefresh(success bool) {
	m.refreshTotal.WithLabelValues(strconv.FormatBool(success)).Inc()
}
