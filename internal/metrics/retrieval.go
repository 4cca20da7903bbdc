package metrics

import "github.com/prometheus/client_golang/prometheus"

// Retrieval and generation Prometheus metrics.
var (
	RetrievalRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "storeassist",
			Name:      "retrieval_requests_total",
			Help:      "Total retrieval calls by strategy and outcome",
		},
		[]string{"strategy", "outcome"},
	)

	RetrievalTopScore = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "storeassist",
			Name:      "retrieval_top_score",
			Help:      "Top hit score per retrieval call",
			Buckets:   []float64{0.1, 0.2, 0.3, 0.4, 0.5, 0.6, 0.7, 0.8, 0.9, 1},
		},
		[]string{"strategy"},
	)

	RetrievalExpansionTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "storeassist",
			Name:      "retrieval_expansion_total",
			Help:      "Query-expansion fallback runs by result",
		},
		[]string{"result"}, // "recovered" / "empty"
	)

	GenerationRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "storeassist",
			Name:      "generation_requests_total",
			Help:      "Total generation backend requests",
		},
		[]string{"model", "status"},
	)

	GenerationRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "storeassist",
			Name:      "generation_request_duration_seconds",
			Help:      "Generation backend request duration in seconds",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60, 120},
		},
		[]string{"model"},
	)
)

var retrievalMetricsRegistered bool

// RegisterRetrievalMetrics registers retrieval and generation metrics. Must be called once from main.
func RegisterRetrievalMetrics() {
	if retrievalMetricsRegistered {
		return
	}
	prometheus.MustRegister(RetrievalRequestsTotal)
	prometheus.MustRegister(RetrievalTopScore)
	prometheus.MustRegister(RetrievalExpansionTotal)
	prometheus.MustRegister(GenerationRequestsTotal)
	prometheus.MustRegister(GenerationRequestDuration)
	retrievalMetricsRegistered = true
}
