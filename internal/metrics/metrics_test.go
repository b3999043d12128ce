package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRegistry_CollectorsWork(t *testing.T) {
	reg := prometheus.NewRegistry()
	r := NewRegistry(reg)

	r.FixturesAnalyzed.Inc()
	r.FixturesAnalyzed.Inc()
	r.MarketsEvaluated.WithLabelValues("HIGH").Inc()
	r.TrapBlocks.Inc()
	r.StoreRetries.Inc()
	r.StoreAbsences.WithLabelValues("team").Inc()
	r.SimDuration.Observe(0.02)

	assert.Equal(t, 2.0, testutil.ToFloat64(r.FixturesAnalyzed))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.MarketsEvaluated.WithLabelValues("HIGH")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.TrapBlocks))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.StoreAbsences.WithLabelValues("team")))

	families, err := reg.Gather()
	require.NoError(t, err)
	assert.Len(t, families, 6)
}

func TestNewRegistry_DuplicateRegistrationPanics(t *testing.T) {
	reg := prometheus.NewRegistry()
	NewRegistry(reg)
	assert.Panics(t, func() { NewRegistry(reg) })
}

func TestDefault_Stable(t *testing.T) {
	assert.Same(t, Default(), Default())
}
