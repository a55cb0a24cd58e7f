package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	// DocumentsUploaded counts stored documents by detected category.
	DocumentsUploaded = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "docsense",
			Name:      "documents_uploaded_total",
			Help:      "Total number of uploaded documents by category",
		},
		[]string{"category"},
	)

	// AnalysesTotal counts analysis runs by mode.
	AnalysesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "docsense",
			Name:      "analyses_total",
			Help:      "Total number of analysis runs by mode",
		},
		[]string{"mode"},
	)

	// SearchesTotal counts search calls and whether they matched.
	SearchesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "docsense",
			Name:      "searches_total",
			Help:      "Total number of search calls by outcome",
		},
		[]string{"outcome"}, // hit, miss
	)

	// FallbacksTotal counts fallback coordinator invocations by resolved kind.
	FallbacksTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "docsense",
			Name:      "fallbacks_total",
			Help:      "Total number of fallback invocations by resolved request kind",
		},
		[]string{"kind"},
	)
)

// RegisterEngineMetrics registers the engine counters explicitly (no init()).
func RegisterEngineMetrics() {
	prometheus.MustRegister(DocumentsUploaded)
	prometheus.MustRegister(AnalysesTotal)
	prometheus.MustRegister(SearchesTotal)
	prometheus.MustRegister(FallbacksTotal)
}
