package main

import (
	"errors"
	"fmt"
	"io"
	"maps"
	"os"
	"slices"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/jtomasevic/synergy/pkg/chain_graph"
	"github.com/jtomasevic/synergy/pkg/effect_composer"
	"github.com/jtomasevic/synergy/pkg/engine"
	"github.com/jtomasevic/synergy/pkg/synergy"
)

// showFile is the YAML document accepted by resolve.
type showFile struct {
	Context      synergy.Context `yaml:"context"`
	Achievements []string        `yaml:"achievements"`
	Base         struct {
		Attendance       float64 `yaml:"attendance"`
		Revenue          float64 `yaml:"revenue"`
		ReputationChange float64 `yaml:"reputation_change"`
		StressChange     float64 `yaml:"stress_change"`
	} `yaml:"base"`
}

func (s showFile) outcome() effect_composer.Outcome {
	return effect_composer.Outcome{
		Attendance:       s.Base.Attendance,
		Revenue:          s.Base.Revenue,
		ReputationChange: s.Base.ReputationChange,
		StressChange:     s.Base.StressChange,
	}
}

func readShow(path string) (showFile, error) {
	f, err := os.Open(path)
	if err != nil {
		return showFile{}, fmt.Errorf("open show: %w", err)
	}
	defer f.Close()

	var show showFile
	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(&show); err != nil && !errors.Is(err, io.EOF) {
		return showFile{}, fmt.Errorf("decode show %s: %w", path, err)
	}
	return show, nil
}

func newResolveCmd() *cobra.Command {
	var (
		showPath     string
		achievements []string
		repeat       int
	)

	cmd := &cobra.Command{
		Use:   "resolve",
		Short: "Resolve one show and print discoveries, chains and the outcome",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			show, err := readShow(showPath)
			if err != nil {
				return err
			}
			unlocked := synergy.NewAchievementSet(append(show.Achievements, achievements...)...)

			rt, err := openRuntime(cmd.Context(), cmd)
			if err != nil {
				return err
			}
			defer rt.Close()

			for range max(repeat, 1) {
				res, err := rt.engine.Resolve(cmd.Context(), show.Context, unlocked, show.outcome())
				if err != nil {
					return err
				}
				printResolution(cmd.OutOrStdout(), res)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&showPath, "show", "s", "", "YAML file with context, achievements and base outcome")
	cmd.Flags().StringSliceVarP(&achievements, "achievement", "a", nil, "unlocked achievement id (repeatable)")
	cmd.Flags().IntVarP(&repeat, "repeat", "n", 1, "resolve the same show this many times")
	_ = cmd.MarkFlagRequired("show")
	return cmd
}

func printResolution(w io.Writer, res engine.Resolution) {
	_, _ = fmt.Fprintf(w, "Resolution %s\n", res.ID)

	if len(res.Notifications) == 0 {
		_, _ = fmt.Fprintln(w, "  no combos active")
	}
	for _, n := range res.Notifications {
		tag := "triggered"
		switch {
		case n.PreUnlocked:
			tag = "pre-unlocked"
		case n.FirstTime:
			tag = "DISCOVERED"
		}
		line := fmt.Sprintf("  %-12s %s (%s)", tag, n.Combo.Name, n.Combo.Rarity)
		if n.Reward != nil {
			line += fmt.Sprintf(" +%d %s", n.Reward.Amount, n.Reward.Currency)
		}
		_, _ = fmt.Fprintln(w, line)
	}

	for _, up := range res.LevelUps {
		_, _ = fmt.Fprintf(w, "  mastery      %s level %d -> %d", up.ComboID, up.From, up.To)
		if len(up.Unlocked) > 0 {
			_, _ = fmt.Fprintf(w, " unlocked %v", up.Unlocked)
		}
		_, _ = fmt.Fprintln(w)
	}

	chain_graph.PrintChains(w, res.Chains)

	out := res.Result
	_, _ = fmt.Fprintf(w, "\nattendance %.1f  revenue %.2f  reputation %+.2f  stress %+.2f  chain bonus %d\n",
		out.Attendance, out.Revenue, out.ReputationChange, out.StressChange, out.ChainBonus)
	for _, kind := range slices.Sorted(maps.Keys(out.SideChannel.Values)) {
		_, _ = fmt.Fprintf(w, "  %s %.2f\n", kind, out.SideChannel.Values[kind])
	}
	for _, kind := range slices.Sorted(maps.Keys(out.SideChannel.Payloads)) {
		_, _ = fmt.Fprintf(w, "  %s %v\n", kind, out.SideChannel.Payloads[kind])
	}
	_, _ = fmt.Fprintf(w, "score %.2f\n\n", res.Score)
}
