package metrics

import "github.com/prometheus/client_golang/prometheus"

// Search ladder Prometheus metrics.
var (
	SearchRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "prodex",
			Name:      "search_requests_total",
			Help:      "Total number of search requests by terminal tier",
		},
		[]string{"tier"}, // "semantic" / "structured" / "fallback"
	)

	SearchTierTransitionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "prodex",
			Name:      "search_tier_transitions_total",
			Help:      "Degradation ladder transitions by tier and cause",
		},
		[]string{"tier", "cause"},
	)

	SearchDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "prodex",
			Name:      "search_duration_seconds",
			Help:      "End-to-end search duration in seconds",
			Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		},
		[]string{"tier"},
	)
)

var searchMetricsRegistered bool

// RegisterSearchMetrics registers Prometheus search metrics. Must be called
// once from main.
func RegisterSearchMetrics() {
	if searchMetricsRegistered {
		return
	}
	prometheus.MustRegister(SearchRequestsTotal)
	prometheus.MustRegister(SearchTierTransitionsTotal)
	prometheus.MustRegister(SearchDuration)
	searchMetricsRegistered = true
}
