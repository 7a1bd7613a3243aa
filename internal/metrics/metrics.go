// Package metrics holds the prometheus collectors exported on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Step outcomes recorded by the enrichment pipeline
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
	OutcomeSkipped = "skipped"
	OutcomeNoMatch = "no_match"
)

var (
	// EnrichmentSteps counts enrichment step outcomes by step name
	EnrichmentSteps = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "ecofinder",
			Name:      "enrichment_steps_total",
			Help:      "Enrichment step outcomes by step.",
		},
		[]string{"step", "outcome"},
	)

	// ProviderRequestDuration observes outbound provider calls
	ProviderRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "ecofinder",
			Name:      "provider_request_duration_seconds",
			Help:      "Latency of calls to external providers.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"provider", "status"},
	)

	// SuggestionCache counts suggestion cache lookups by result (hit or miss)
	SuggestionCache = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "ecofinder",
			Name:      "suggestion_cache_total",
			Help:      "Suggestion cache lookups by result.",
		},
		[]string{"result"},
	)
)

// Registry is the registry served on /metrics
var Registry = prometheus.NewRegistry()

func init() {
	Registry.MustRegister(EnrichmentSteps, ProviderRequestDuration, SuggestionCache)
}
