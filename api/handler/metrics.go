package handler

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/use-agent/distill/models"
)

// Metrics tracks request traffic and realized token savings. All record
// methods are nil-safe so handlers never need to guard.
type Metrics struct {
	requests     *prometheus.CounterVec
	cacheLookups *prometheus.CounterVec
	reductionPct prometheus.Histogram
	tokensIn     prometheus.Counter
	tokensSaved  prometheus.Counter
}

var (
	defaultMetrics     *Metrics
	defaultMetricsOnce sync.Once
)

// NewMetrics builds the Metrics recorder using the default registry. The
// collectors are created only once to avoid duplicate registration panics
// when the router is instantiated multiple times (e.g. in tests).
func NewMetrics() *Metrics {
	defaultMetricsOnce.Do(func() {
		defaultMetrics = newMetrics(prometheus.DefaultRegisterer)
	})
	return defaultMetrics
}

// NewMetricsWithRegisterer allows tests to provide a dedicated registry.
func NewMetricsWithRegisterer(reg prometheus.Registerer) *Metrics {
	return newMetrics(reg)
}

func newMetrics(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)
	return &Metrics{
		requests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "distill",
			Subsystem: "api",
			Name:      "requests_total",
			Help:      "Requests handled, labeled by endpoint and outcome",
		}, []string{"endpoint", "outcome"}),
		cacheLookups: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "distill",
			Subsystem: "api",
			Name:      "cache_lookups_total",
			Help:      "Response cache lookups, labeled hit or miss",
		}, []string{"status"}),
		reductionPct: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: "distill",
			Subsystem: "optimize",
			Name:      "reduction_percent",
			Help:      "Relative token reduction achieved per optimization",
			Buckets:   prometheus.LinearBuckets(0, 10, 11),
		}),
		tokensIn: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "distill",
			Subsystem: "optimize",
			Name:      "tokens_in_total",
			Help:      "Estimated tokens received for optimization",
		}),
		tokensSaved: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "distill",
			Subsystem: "optimize",
			Name:      "tokens_saved_total",
			Help:      "Estimated tokens removed by optimization",
		}),
	}
}

// RecordRequest counts one handled request for an endpoint with the given
// outcome ("success", "invalid", "too_large", "error", ...).
func (m *Metrics) RecordRequest(endpoint, outcome string) {
	if m == nil {
		return
	}
	m.requests.WithLabelValues(endpoint, outcome).Inc()
}

// RecordCache counts one cache lookup with status "hit" or "miss".
func (m *Metrics) RecordCache(status string) {
	if m == nil {
		return
	}
	m.cacheLookups.WithLabelValues(status).Inc()
}

// RecordOptimization accounts one completed rewrite: input tokens, tokens
// actually removed (never negative), and the reduction percentage.
func (m *Metrics) RecordOptimization(result *models.OptimizationResult) {
	if m == nil || result == nil {
		return
	}
	m.tokensIn.Add(float64(result.OriginalTokens))
	if result.Reduction > 0 {
		m.tokensSaved.Add(float64(result.Reduction))
	}
	m.reductionPct.Observe(result.ReductionPercent)
}
