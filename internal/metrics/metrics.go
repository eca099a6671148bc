// Package metrics exposes Prometheus instrumentation for collectors and verdicts.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "veracity"

// Collector call outcomes
const (
	OutcomeOK      = "ok"
	OutcomeError   = "error"
	OutcomeTimeout = "timeout"
	OutcomePanic   = "panic"
)

// Metrics holds all Veracity Prometheus metrics.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	CollectorCalls    *prometheus.CounterVec
	CollectorDuration *prometheus.HistogramVec
	CollectorItems    *prometheus.CounterVec
	Verdicts          *prometheus.CounterVec
	CacheLookups      *prometheus.CounterVec
	AnalysisDuration  prometheus.Histogram

	gatherer prometheus.Gatherer
}

// NewMetrics registers every metric with reg.
// Pass a fresh prometheus.NewRegistry() in tests to avoid duplicate registration.
func NewMetrics(reg *prometheus.Registry) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		CollectorCalls: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "collector_calls_total",
			Help:      "Evidence collector calls by outcome",
		}, []string{"collector", "outcome"}),
		CollectorDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "collector_duration_seconds",
			Help:      "Evidence collector call latency",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2, 4, 8},
		}, []string{"collector"}),
		CollectorItems: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "collector_items_total",
			Help:      "Evidence items returned per collector",
		}, []string{"collector"}),
		Verdicts: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "verdicts_total",
			Help:      "Verdicts produced by label and decision tier",
		}, []string{"label", "tier"}),
		CacheLookups: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_lookups_total",
			Help:      "Verdict cache lookups by result",
		}, []string{"result"}),
		AnalysisDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "analysis_duration_seconds",
			Help:      "End-to-end claim analysis latency",
			Buckets:   prometheus.DefBuckets,
		}),
		gatherer: reg,
	}
}

// ObserveCollector records one collector call
func (m *Metrics) ObserveCollector(name, outcome string, items int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.CollectorCalls.WithLabelValues(name, outcome).Inc()
	m.CollectorDuration.WithLabelValues(name).Observe(elapsed.Seconds())
	if items > 0 {
		m.CollectorItems.WithLabelValues(name).Add(float64(items))
	}
}

// ObserveVerdict records a produced verdict
func (m *Metrics) ObserveVerdict(label, tier string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.Verdicts.WithLabelValues(label, tier).Inc()
	m.AnalysisDuration.Observe(elapsed.Seconds())
}

// ObserveCache records a cache hit or miss
func (m *Metrics) ObserveCache(hit bool) {
	if m == nil {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	m.CacheLookups.WithLabelValues(result).Inc()
}

// Handler returns the HTTP handler for the /metrics endpoint
func (m *Metrics) Handler() http.Handler {
	if m == nil || m.gatherer == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}
