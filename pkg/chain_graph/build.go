package chain_graph

import (
	"fmt"
	"log/slog"

	"github.com/jtomasevic/synergy/pkg/synergy"
)

// BuildChains places every active combo in exactly one chain.
//
// Roots are taken in the order of active. A root that conflicts with any active
// combo yields an interrupted single-link chain. Otherwise the chain grows
// depth-first along static edges, then dynamic ones, from each newly added node.
// A target is added only if it is active, not used by this or an earlier chain,
// and all edge conditions hold. A target conflicting with an active combo
// interrupts the chain, unless the edge carries no_conflict, in which case the
// edge simply does not fire.
//
// effectTotals holds the accumulated value per effect kind for effect_threshold
// conditions. dynamic may be nil.
func (g *Graph) BuildChains(active []synergy.Definition, effectTotals map[string]float64, dynamic EdgeProvider) []Reaction {
	byID := make(map[synergy.ComboID]synergy.Definition, len(active))
	for _, def := range active {
		byID[def.ID] = def
	}

	consumed := make(map[synergy.ComboID]bool, len(active))
	reactions := make([]Reaction, 0, len(active))

	for _, root := range active {
		if consumed[root.ID] {
			continue
		}
		consumed[root.ID] = true

		b := &chainBuilder{
			graph:    g,
			active:   active,
			byID:     byID,
			totals:   effectTotals,
			dynamic:  dynamic,
			consumed: consumed,
			inChain:  map[synergy.ComboID]bool{root.ID: true},
			reaction: Reaction{
				Links: []Link{{Combo: root, Multiplier: 1.0, Depth: 0}},
			},
		}

		if other, ok := b.activeConflict(root.ID); ok {
			b.interrupt(fmt.Sprintf("%s conflicts with active combo %s", root.ID, other))
		} else {
			b.expand(root.ID, 0)
		}

		reactions = append(reactions, b.finish())
	}

	return reactions
}

type chainBuilder struct {
	graph   *Graph
	active  []synergy.Definition
	byID    map[synergy.ComboID]synergy.Definition
	totals  map[string]float64
	dynamic EdgeProvider

	// consumed is shared across chains of one BuildChains call
	consumed map[synergy.ComboID]bool
	inChain  map[synergy.ComboID]bool

	reaction Reaction
}

func (b *chainBuilder) expand(from synergy.ComboID, depth int) {
	if depth >= b.graph.maxDepth {
		return
	}

	for _, edge := range b.edgesFrom(from) {
		if b.reaction.Interrupted || len(b.reaction.Links) > b.graph.maxDepth {
			return
		}

		target, ok := b.byID[edge.To]
		if !ok || b.inChain[edge.To] || b.consumed[edge.To] {
			continue
		}
		if !b.conditionsHold(edge) {
			continue
		}
		if other, conflicting := b.activeConflict(edge.To); conflicting {
			b.interrupt(fmt.Sprintf("%s -> %s blocked: %s conflicts with active combo %s",
				from, edge.To, edge.To, other))
			return
		}

		b.inChain[edge.To] = true
		b.consumed[edge.To] = true
		b.reaction.Links = append(b.reaction.Links, Link{
			Combo:       target,
			TriggeredBy: from,
			Multiplier:  1 + edge.MultiplierBonus + float64(depth)*depthStep,
			Depth:       depth + 1,
		})

		b.expand(edge.To, depth+1)
	}
}

func (b *chainBuilder) edgesFrom(id synergy.ComboID) []synergy.ChainEdge {
	edges := b.graph.out[id]
	if b.dynamic == nil {
		return edges
	}
	extra := b.dynamic.EdgesFrom(id)
	if len(extra) == 0 {
		return edges
	}
	merged := make([]synergy.ChainEdge, 0, len(edges)+len(extra))
	merged = append(merged, edges...)
	return append(merged, extra...)
}

func (b *chainBuilder) conditionsHold(edge synergy.ChainEdge) bool {
	for _, c := range edge.Conditions {
		if !b.conditionHolds(edge, c) {
			return false
		}
	}
	return true
}

func (b *chainBuilder) conditionHolds(edge synergy.ChainEdge, c synergy.ChainCondition) bool {
	switch c.Kind {
	case synergy.EffectThreshold:
		return b.totals[c.Effect] >= c.Min
	case synergy.MinLinks:
		return len(b.reaction.Links) >= c.Count
	case synergy.RequiresCombo:
		return b.inChain[c.Combo]
	case synergy.NoConflict:
		_, conflicting := b.activeConflict(edge.To)
		return !conflicting
	}

	b.graph.logger.Warn("unknown chain condition never holds",
		slog.String("from", edge.From),
		slog.String("to", edge.To),
		slog.String("kind", string(c.Kind)),
	)
	return false
}

// activeConflict returns the first active combo, in active order, that conflicts with id.
func (b *chainBuilder) activeConflict(id synergy.ComboID) (synergy.ComboID, bool) {
	for _, def := range b.active {
		if def.ID != id && b.graph.Conflicts(id, def.ID) {
			return def.ID, true
		}
	}
	return "", false
}

func (b *chainBuilder) interrupt(reason string) {
	b.reaction.Interrupted = true
	b.reaction.InterruptReason = reason
	b.graph.logger.Debug("chain interrupted",
		slog.String("root", b.reaction.Root().Combo.ID),
		slog.String("reason", reason),
	)
}

func (b *chainBuilder) finish() Reaction {
	b.reaction.TotalMultiplier = TotalMultiplier(b.reaction.Links)
	return b.reaction
}

// TotalMultiplier is the product of the link multipliers.
func TotalMultiplier(links []Link) float64 {
	total := 1.0
	for _, l := range links {
		total *= l.Multiplier
	}
	return total
}
