package effect_composer

import (
	"log/slog"
	"math"
	"slices"

	"github.com/jtomasevic/synergy/pkg/chain_graph"
	"github.com/jtomasevic/synergy/pkg/synergy"
)

// Composer folds active effects and chain multipliers into one outcome.
type Composer struct {
	cfg    Config
	logger *slog.Logger
}

func NewComposer(cfg Config, logger *slog.Logger) *Composer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Composer{cfg: cfg, logger: logger}
}

func (c *Composer) Config() Config {
	return c.cfg
}

// Accumulate sums every effect of every active combo per kind.
func (c *Composer) Accumulate(active []synergy.Definition) Totals {
	totals := make(Totals)
	for _, def := range active {
		for _, eff := range def.Effects {
			totals.add(eff.Kind, eff.Value, eff.Percent)
		}
	}
	return totals
}

// Compose applies, in order: base effect totals, chain link contributions from
// non-interrupted chains, the kind mapping table, and the chain bonus.
// base is not modified.
func (c *Composer) Compose(active []synergy.Definition, chains []chain_graph.Reaction, base Outcome) Result {
	totals := c.Accumulate(active)

	for _, r := range chains {
		if r.Interrupted {
			continue
		}
		for _, link := range r.Links[1:] {
			extra := link.Multiplier - 1
			for _, eff := range link.Combo.Effects {
				totals.add(eff.Kind, eff.Value*extra, eff.Percent)
			}
		}
	}

	res := Result{Outcome: base, Totals: totals}
	for _, kind := range totals.Kinds() {
		c.applyKind(&res, base, kind, totals[kind])
	}
	res.SideChannel.Payloads = collectPayloads(active)
	res.ChainBonus = c.ChainBonus(chains)

	c.logger.Debug("effects composed",
		slog.Int("active", len(active)),
		slog.Int("chains", len(chains)),
		slog.Int("chain_bonus", res.ChainBonus),
	)
	return res
}

func (c *Composer) applyKind(res *Result, base Outcome, kind string, t Total) {
	switch kind {
	case synergy.EffectAttendance:
		res.Attendance = res.Attendance*(1+t.Percent/100) + t.Flat
	case synergy.EffectRevenue:
		res.Revenue = res.Revenue*(1+t.Percent/100) + t.Flat
	case synergy.EffectReputation:
		res.ReputationChange += t.Flat + math.Abs(base.ReputationChange)*t.Percent/100
	case synergy.EffectStressReduction:
		res.StressChange -= t.Flat + math.Abs(base.StressChange)*t.Percent/100
	default:
		if t.Sum() == 0 {
			return
		}
		if res.SideChannel.Values == nil {
			res.SideChannel.Values = make(map[string]float64)
		}
		res.SideChannel.Values[kind] = t.Sum()
	}
}

// ChainBonus scales the best non-interrupted chain multiplier above 1.
func (c *Composer) ChainBonus(chains []chain_graph.Reaction) int {
	best := 1.0
	for _, r := range chains {
		if !r.Interrupted && r.TotalMultiplier > best {
			best = r.TotalMultiplier
		}
	}
	return int(math.Round((best - 1) * c.cfg.ChainBonusScale))
}

// Score is the fixed weighting credited back to mastery.
func (c *Composer) Score(res Result) float64 {
	return res.Revenue*c.cfg.RevenueWeight +
		res.ReputationChange*c.cfg.ReputationWeight +
		res.Attendance*c.cfg.AttendanceWeight +
		float64(res.ChainBonus)
}

func collectPayloads(active []synergy.Definition) map[string][]string {
	var out map[string][]string
	for _, def := range active {
		for _, eff := range def.Effects {
			if eff.Payload == "" {
				continue
			}
			if out == nil {
				out = make(map[string][]string)
			}
			if !slices.Contains(out[eff.Kind], eff.Payload) {
				out[eff.Kind] = append(out[eff.Kind], eff.Payload)
			}
		}
	}
	return out
}
