package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// counterValue reads a counter from the default registry. labels filters on
// label values; a family with no match reads as zero.
func counterValue(t *testing.T, name string, labels map[string]string) float64 {
	t.Helper()
	families, err := prometheus.DefaultGatherer.Gather()
	require.NoError(t, err)
	for _, mf := range families {
		if mf.GetName() != name {
			continue
		}
	metrics:
		for _, m := range mf.GetMetric() {
			for _, lp := range m.GetLabel() {
				if want, ok := labels[lp.GetName()]; ok && want != lp.GetValue() {
					continue metrics
				}
			}
			return m.GetCounter().GetValue()
		}
	}
	return 0
}

func TestObserveConsistency(t *testing.T) {
	before := counterValue(t, "verdict_inconsistent_matrices_total", nil)

	ObserveConsistency(0.03, 0.10)
	assert.Equal(t, before, counterValue(t, "verdict_inconsistent_matrices_total", nil))

	ObserveConsistency(0.25, 0.10)
	assert.Equal(t, before+1, counterValue(t, "verdict_inconsistent_matrices_total", nil))
}

func TestCoreError(t *testing.T) {
	labels := map[string]string{"kind": "invalid_matrix"}
	before := counterValue(t, "verdict_core_errors_total", labels)

	CoreError("invalid_matrix")
	CoreError("")

	assert.Equal(t, before+1, counterValue(t, "verdict_core_errors_total", labels))
}
