// Package metrics exposes the engine's Prometheus collectors.
package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// Registry holds every collector the pipeline touches.
type Registry struct {
	FixturesAnalyzed prometheus.Counter
	MarketsEvaluated *prometheus.CounterVec // label: recommendation bucket
	TrapBlocks       prometheus.Counter
	StoreRetries     prometheus.Counter
	StoreAbsences    *prometheus.CounterVec // label: entity kind
	SimDuration      prometheus.Histogram
}

var (
	defaultRegistry *Registry
	once            sync.Once
)

// NewRegistry builds and registers the collectors on the given registerer.
func NewRegistry(reg prometheus.Registerer) *Registry {
	r := &Registry{
		FixturesAnalyzed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "pitchquant_fixtures_analyzed_total",
			Help: "Total fixtures run through the prediction pipeline",
		}),
		MarketsEvaluated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "pitchquant_markets_evaluated_total",
			Help: "Markets evaluated, by resulting recommendation bucket",
		}, []string{"bucket"}),
		TrapBlocks: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "pitchquant_trap_blocks_total",
			Help: "Picks blocked by market-trap rules",
		}),
		StoreRetries: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "pitchquant_store_retries_total",
			Help: "Feature-store query retries after transient failures",
		}),
		StoreAbsences: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "pitchquant_store_absences_total",
			Help: "Feature-store lookups that returned no usable data",
		}, []string{"entity"}),
		SimDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "pitchquant_simulation_duration_seconds",
			Help:    "Monte Carlo simulation wall time per fixture",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0},
		}),
	}
	reg.MustRegister(
		r.FixturesAnalyzed, r.MarketsEvaluated, r.TrapBlocks,
		r.StoreRetries, r.StoreAbsences, r.SimDuration,
	)
	return r
}

// Default returns the process-wide registry backed by the default Prometheus
// registerer. Safe for concurrent use.
func Default() *Registry {
	once.Do(func() {
		defaultRegistry = NewRegistry(prometheus.DefaultRegisterer)
	})
	return defaultRegistry
}
