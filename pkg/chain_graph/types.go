package chain_graph

import "github.com/jtomasevic/synergy/pkg/synergy"

const (
	DefaultMaxDepth = 5

	// depthStep is added to a link multiplier for every level of its source.
	depthStep = 0.1
)

// EdgeProvider supplies chain edges unlocked at runtime (mastery chain_enable).
type EdgeProvider interface {
	EdgesFrom(id synergy.ComboID) []synergy.ChainEdge
}

// Catalog is the static content the graph is built from.
type Catalog interface {
	Has(id synergy.ComboID) bool
	ChainEdges() []synergy.ChainEdge
	Conflicts() []synergy.Conflict
}

// Link is one node of a built chain.
type Link struct {
	Combo synergy.Definition

	// TriggeredBy is empty for the root.
	TriggeredBy synergy.ComboID

	Multiplier float64
	Depth      int
}

// Reaction is one chain. Interrupted chains keep the links built so far for inspection.
type Reaction struct {
	Links           []Link
	TotalMultiplier float64
	Interrupted     bool
	InterruptReason string
}

func (r Reaction) Root() Link {
	return r.Links[0]
}

// ComboIDs lists the link combos in chain order.
func (r Reaction) ComboIDs() []synergy.ComboID {
	ids := make([]synergy.ComboID, 0, len(r.Links))
	for _, l := range r.Links {
		ids = append(ids, l.Combo.ID)
	}
	return ids
}
