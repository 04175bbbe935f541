package effect_composer

import (
	"maps"
	"slices"
)

// Total is the running total of one effect kind, split by interpretation.
type Total struct {
	Flat    float64 `json:"flat"`
	Percent float64 `json:"percent"`
}

func (t Total) Sum() float64 {
	return t.Flat + t.Percent
}

// Totals is keyed by effect kind.
type Totals map[string]Total

func (t Totals) add(kind string, value float64, percent bool) {
	cur := t[kind]
	if percent {
		cur.Percent += value
	} else {
		cur.Flat += value
	}
	t[kind] = cur
}

// Values collapses Flat and Percent into one number per kind.
// This is the shape effect_threshold chain conditions are checked against.
func (t Totals) Values() map[string]float64 {
	out := make(map[string]float64, len(t))
	for kind, v := range t {
		out[kind] = v.Sum()
	}
	return out
}

func (t Totals) Kinds() []string {
	return slices.Sorted(maps.Keys(t))
}

// Outcome is the part of a show result the engine mutates.
type Outcome struct {
	Attendance       float64 `json:"attendance"`
	Revenue          float64 `json:"revenue"`
	ReputationChange float64 `json:"reputation_change"`
	StressChange     float64 `json:"stress_change"`
}

// SideChannel carries effect kinds the composer does not interpret.
type SideChannel struct {
	Values   map[string]float64  `json:"values,omitempty"`
	Payloads map[string][]string `json:"payloads,omitempty"`
}

func (s SideChannel) Empty() bool {
	return len(s.Values) == 0 && len(s.Payloads) == 0
}

type Result struct {
	Outcome

	SideChannel SideChannel `json:"side_channel"`

	// ChainBonus is derived from the best non-interrupted chain.
	ChainBonus int `json:"chain_bonus"`

	Totals Totals `json:"totals"`
}

// Config holds the score weights and chain bonus scale.
type Config struct {
	ChainBonusScale  float64
	RevenueWeight    float64
	ReputationWeight float64
	AttendanceWeight float64
}

func DefaultConfig() Config {
	return Config{
		ChainBonusScale:  100,
		RevenueWeight:    1,
		ReputationWeight: 10,
		AttendanceWeight: 0.5,
	}
}
