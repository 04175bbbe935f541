package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/jtomasevic/synergy/internal/config"
	"github.com/jtomasevic/synergy/pkg/chain_graph"
	"github.com/jtomasevic/synergy/pkg/synergy"
)

func newCatalogValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate [path]",
		Short: "Load a catalog file and report what it defines",
		Long: `Loads the catalog at path, or the configured catalog when path is omitted.
Structural problems fail the command. Unknown requirement kinds and dangling
chain edges are logged as warnings and only make those parts inert.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if len(args) == 1 {
				cfg.CatalogPath = args[0]
			}
			logger := newLogger(cmd, cfg)

			cat, err := loadCatalog(cfg, logger)
			if err != nil {
				return err
			}
			graph := chain_graph.NewGraph(cat, logger, chain_graph.WithMaxDepth(cfg.MaxChainDepth))

			enhancements, usable := 0, 0
			for _, def := range cat.All() {
				enhancements += len(cat.Enhancements(def.ID))
				usable += len(graph.EdgesFrom(def.ID))
			}

			source := cfg.CatalogPath
			if source == "" {
				source = "embedded showcase"
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(),
				"%s: ok\n  synergies    %d\n  enhancements %d\n  chain edges  %d (%d usable)\n  conflicts    %d\n",
				source, cat.Len(), enhancements, len(cat.ChainEdges()), usable, len(cat.Conflicts()))
			return nil
		},
	}
}

func newCatalogListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List every combo with its enhancements and chain reach",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			logger := newLogger(cmd, cfg)

			cat, err := loadCatalog(cfg, logger)
			if err != nil {
				return err
			}
			graph := chain_graph.NewGraph(cat, logger, chain_graph.WithMaxDepth(cfg.MaxChainDepth))

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			_, _ = fmt.Fprintln(tw, "ID\tRARITY\tREQUIREMENTS\tENHANCEMENTS\tREACHES")
			for _, def := range cat.All() {
				_, _ = fmt.Fprintf(tw, "%s\t%s\t%d\t%s\t%s\n",
					def.ID,
					def.Rarity,
					len(def.Requirements),
					enhancementSummary(cat.Enhancements(def.ID)),
					joinOrDash(graph.Reachable(def.ID, graph.MaxDepth())),
				)
			}
			return tw.Flush()
		},
	}
}

func enhancementSummary(es []synergy.Enhancement) string {
	parts := make([]string, 0, len(es))
	for _, e := range es {
		parts = append(parts, fmt.Sprintf("L%d %s", e.RequiredLevel, e.ID))
	}
	return joinOrDash(parts)
}

func joinOrDash(items []string) string {
	if len(items) == 0 {
		return "-"
	}
	return strings.Join(items, ", ")
}
