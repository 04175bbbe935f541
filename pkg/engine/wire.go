package engine

import (
	"context"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/jtomasevic/synergy/pkg/chain_graph"
	"github.com/jtomasevic/synergy/pkg/discovery"
	"github.com/jtomasevic/synergy/pkg/effect_composer"
	"github.com/jtomasevic/synergy/pkg/mastery"
	"github.com/jtomasevic/synergy/pkg/synergy"
)

// Store persists both ledgers.
type Store interface {
	discovery.Store
	mastery.Store
}

// Settings tune a wired engine. Zero values fall back to package defaults.
type Settings struct {
	Rewards       discovery.RewardTable
	Thresholds    mastery.Thresholds
	MaxChainDepth int
	Composer      *effect_composer.Config

	// Registerer receives the engine metrics. Nil leaves them unregistered.
	Registerer prometheus.Registerer
}

// Components exposes the ledgers of a wired engine for read-only use (CLI listings).
type Components struct {
	Discovery *discovery.Ledger
	Mastery   *mastery.Ledger
	Graph     *chain_graph.Graph
	Metrics   *Metrics
}

// Build loads both ledgers from store and wires a ready Engine around catalog.
func Build(ctx context.Context, catalog *synergy.Catalog, store Store, settings Settings, logger *slog.Logger) (*Engine, Components, error) {
	if logger == nil {
		logger = slog.Default()
	}
	metrics := NewMetrics(settings.Registerer)

	disc, err := discovery.NewLedger(ctx, store, settings.Rewards, logger.With(slog.String("component", "discovery")),
		discovery.WithPersistFailureHook(metrics.PersistFailureHook(ledgerDiscovery)),
	)
	if err != nil {
		return nil, Components{}, err
	}

	mast, err := mastery.NewLedger(ctx, store, catalog, settings.Thresholds, logger.With(slog.String("component", "mastery")),
		mastery.WithPersistFailureHook(metrics.PersistFailureHook(ledgerMastery)),
	)
	if err != nil {
		return nil, Components{}, err
	}

	composerCfg := effect_composer.DefaultConfig()
	if settings.Composer != nil {
		composerCfg = *settings.Composer
	}

	graph := chain_graph.NewGraph(catalog, logger.With(slog.String("component", "chain_graph")),
		chain_graph.WithMaxDepth(settings.MaxChainDepth),
	)

	eng, err := New(Deps{
		Catalog:   catalog,
		Matcher:   synergy.NewMatcher(logger.With(slog.String("component", "matcher"))),
		Discovery: disc,
		Mastery:   mast,
		Enhancer:  mastery.NewEnhancer(catalog, mast, logger.With(slog.String("component", "enhancer"))),
		Graph:     graph,
		Composer:  effect_composer.NewComposer(composerCfg, logger.With(slog.String("component", "composer"))),
		Metrics:   metrics,
		Logger:    logger,
	})
	if err != nil {
		return nil, Components{}, err
	}

	return eng, Components{Discovery: disc, Mastery: mast, Graph: graph, Metrics: metrics}, nil
}
