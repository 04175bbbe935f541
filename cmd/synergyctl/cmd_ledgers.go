package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/jtomasevic/synergy/pkg/synergy"
)

func newMasteryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mastery",
		Short: "Inspect mastery progress",
	}
	cmd.AddCommand(newMasteryListCmd())
	return cmd
}

func newMasteryListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List mastery records from the save",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			rt, err := openRuntime(cmd.Context(), cmd)
			if err != nil {
				return err
			}
			defer rt.Close()

			records := rt.components.Mastery.Records()
			if len(records) == 0 {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "no combo has been used yet")
				return nil
			}

			maxLevel := rt.components.Mastery.Thresholds().MaxLevel()
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			_, _ = fmt.Fprintln(tw, "COMBO\tUSES\tLEVEL\tPROGRESS\tSCORE\tUNLOCKED\tLAST USED")
			for _, r := range records {
				_, _ = fmt.Fprintf(tw, "%s\t%d\t%d/%d\t%3.0f%%\t%.1f\t%s\t%s\n",
					r.ComboID, r.UsageCount, r.Level, maxLevel, r.Progress*100, r.CumulativeScore,
					joinOrDash(r.UnlockedEnhancements), r.LastUsed.Format("2006-01-02 15:04"))
			}
			return tw.Flush()
		},
	}
}

func newDiscoveryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "discovery",
		Short: "Inspect the combo collection",
	}
	cmd.AddCommand(newDiscoveryListCmd())
	return cmd
}

func newDiscoveryListCmd() *cobra.Command {
	var showHistory bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "Show collection progress and discovered combos",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			rt, err := openRuntime(cmd.Context(), cmd)
			if err != nil {
				return err
			}
			defer rt.Close()

			w := cmd.OutOrStdout()
			ledger := rt.components.Discovery
			progress := ledger.Progress(rt.catalog)

			_, _ = fmt.Fprintln(w, "Collection")
			for _, rarity := range synergy.Rarities() {
				p := progress[rarity]
				_, _ = fmt.Fprintf(w, "  %-10s %d/%d\n", rarity, p.Discovered, p.Total)
			}

			_, _ = fmt.Fprintln(w, "\nDiscovered")
			tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
			for _, id := range ledger.Discovered() {
				name := id
				if def, ok := rt.catalog.Get(id); ok {
					name = def.Name
				}
				_, _ = fmt.Fprintf(tw, "  %s\t%s\ttriggered %d\n", id, name, ledger.TriggerCount(id))
			}
			if err := tw.Flush(); err != nil {
				return err
			}

			if !showHistory {
				return nil
			}
			_, _ = fmt.Fprintln(w, "\nHistory")
			for _, h := range ledger.History() {
				mark := ""
				if h.FirstTime {
					mark = " (first)"
				}
				_, _ = fmt.Fprintf(w, "  %s %s%s\n", h.At.Format("2006-01-02 15:04:05"), h.ComboID, mark)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&showHistory, "history", false, "also print the retained trigger history")
	return cmd
}
