package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/jtomasevic/synergy/internal/config"
	"github.com/jtomasevic/synergy/pkg/engine"
	"github.com/jtomasevic/synergy/pkg/mastery"
	"github.com/jtomasevic/synergy/pkg/persistence"
	"github.com/jtomasevic/synergy/pkg/synergy"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "synergyctl",
		Short: "Resolve shows against a synergy catalog and inspect the save",
		Long: `synergyctl runs the combo engine of a venue-management game from the
command line: match a show against the catalog, report discoveries and
chain reactions, and list mastery and collection progress.

Settings come from SYNERGY_* environment variables.`,
		SilenceUsage: true,
	}

	catalogCmd := &cobra.Command{
		Use:   "catalog",
		Short: "Inspect synergy catalogs",
	}
	catalogCmd.AddCommand(newCatalogValidateCmd(), newCatalogListCmd())

	root.AddCommand(
		newResolveCmd(),
		catalogCmd,
		newMasteryCmd(),
		newDiscoveryCmd(),
	)
	return root
}

// runtime is everything a command needs once the save is open.
type runtime struct {
	cfg        config.Config
	logger     *slog.Logger
	catalog    *synergy.Catalog
	store      persistence.Store
	engine     *engine.Engine
	components engine.Components
}

func (r *runtime) Close() error {
	return r.store.Close()
}

func newLogger(cmd *cobra.Command, cfg config.Config) *slog.Logger {
	return slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: cfg.Level()}))
}

func loadCatalog(cfg config.Config, logger *slog.Logger) (*synergy.Catalog, error) {
	if cfg.CatalogPath != "" {
		return synergy.LoadCatalogFile(cfg.CatalogPath, logger)
	}
	return synergy.DefaultCatalog(logger)
}

// openRuntime loads config, catalog and save, then wires the engine.
// Callers must Close the runtime.
func openRuntime(ctx context.Context, cmd *cobra.Command) (*runtime, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	logger := newLogger(cmd, cfg)

	cat, err := loadCatalog(cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}

	store, err := persistence.Open(cfg.StoreOptions(logger))
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}

	composerCfg := cfg.Composer()
	eng, comps, err := engine.Build(ctx, cat, store, engine.Settings{
		Rewards:       cfg.Rewards(),
		Thresholds:    mastery.Thresholds(cfg.MasteryThresholds),
		MaxChainDepth: cfg.MaxChainDepth,
		Composer:      &composerCfg,
	}, logger)
	if err != nil {
		_ = store.Close()
		return nil, err
	}

	return &runtime{
		cfg:        cfg,
		logger:     logger,
		catalog:    cat,
		store:      store,
		engine:     eng,
		components: comps,
	}, nil
}
