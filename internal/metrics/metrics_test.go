package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestEnrichmentStepsCounter(t *testing.T) {
	before := testutil.ToFloat64(EnrichmentSteps.WithLabelValues("keywords", OutcomeNoMatch))

	EnrichmentSteps.WithLabelValues("keywords", OutcomeNoMatch).Inc()

	after := testutil.ToFloat64(EnrichmentSteps.WithLabelValues("keywords", OutcomeNoMatch))
	assert.Equal(t, before+1, after)
}

func TestRegistryGathers(t *testing.T) {
	SuggestionCache.WithLabelValues("miss").Inc()

	families, err := Registry.Gather()
	assert.NoError(t, err)

	names := make(map[string]bool)
	for _, f := range families {
		names[f.GetName()] = true
	}
	assert.True(t, names["ecofinder_suggestion_cache_total"])
}
