package engine

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const metricsNamespace = "synergy"

const (
	outcomeLinked      = "linked"
	outcomeSingle      = "single"
	outcomeInterrupted = "interrupted"

	ledgerDiscovery = "discovery"
	ledgerMastery   = "mastery"
)

// Metrics are registered on the Registerer given to NewMetrics.
// A nil Registerer yields working but unregistered collectors.
type Metrics struct {
	Resolutions     prometheus.Counter
	Discoveries     *prometheus.CounterVec
	Chains          *prometheus.CounterVec
	ChainLength     prometheus.Histogram
	LevelUps        prometheus.Counter
	PersistFailures *prometheus.CounterVec
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		Resolutions: f.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "resolutions_total",
			Help:      "Show resolutions run",
		}),
		Discoveries: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "discoveries_total",
			Help:      "First-time combo discoveries by rarity",
		}, []string{"rarity"}),
		Chains: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "chains_total",
			Help:      "Chain reactions built, by outcome",
		}, []string{"outcome"}),
		ChainLength: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Name:      "chain_length",
			Help:      "Links per chain reaction",
			Buckets:   []float64{1, 2, 3, 4, 5, 6},
		}),
		LevelUps: f.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "mastery_level_ups_total",
			Help:      "Mastery level transitions",
		}),
		PersistFailures: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "persist_failures_total",
			Help:      "Failed ledger writes; in-memory state is kept",
		}, []string{"ledger"}),
	}
}

// PersistFailureHook returns a ledger failure hook counting under the given ledger label.
func (m *Metrics) PersistFailureHook(ledger string) func(error) {
	return func(error) {
		m.PersistFailures.WithLabelValues(ledger).Inc()
	}
}
