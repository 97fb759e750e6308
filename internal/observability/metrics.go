package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters and histograms for the query service.
type Metrics struct {
	UpstreamRequests *prometheus.CounterVec // labels: outcome={success,error}
	PageCache        *prometheus.CounterVec // labels: result={hit,miss}

	QueryDuration *prometheus.HistogramVec // labels: method
	QueryErrors   *prometheus.CounterVec   // labels: method

	BulletinsPublished prometheus.Counter
}

// NewMetrics creates and registers all service metrics with the default
// Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(
		m.UpstreamRequests,
		m.PageCache,
		m.QueryDuration,
		m.QueryErrors,
		m.BulletinsPublished,
	)
	return m
}

// NewMetricsForTesting creates Metrics without registering them, avoiding
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		UpstreamRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "typhoon_info",
			Name:      "upstream_requests_total",
			Help:      "Requests to the data.go.kr typhoon endpoint by outcome.",
		}, []string{"outcome"}),
		PageCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "typhoon_info",
			Name:      "page_cache_total",
			Help:      "Upstream page-cache lookups by result.",
		}, []string{"result"}),
		QueryDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "typhoon_info",
			Name:      "query_duration_seconds",
			Help:      "Duration of query operations by RPC method.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1, 2.5, 5, 10, 30},
		}, []string{"method"}),
		QueryErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "typhoon_info",
			Name:      "query_errors_total",
			Help:      "Failed query operations by RPC method.",
		}, []string{"method"}),
		BulletinsPublished: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "typhoon_info",
			Name:      "bulletins_published_total",
			Help:      "Typhoon bulletin events published to the sink topic.",
		}),
	}
}
