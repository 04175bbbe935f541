package chain_graph

import (
	"fmt"
	"log/slog"
	"slices"

	"github.com/jtomasevic/synergy/pkg/synergy"
)

// Graph is the immutable static chain graph: combo ids are nodes, chain edges
// are directed edges, and conflicts are stored symmetrically.
type Graph struct {
	// adjacency lists, definition order
	out map[synergy.ComboID][]synergy.ChainEdge
	in  map[synergy.ComboID][]synergy.ChainEdge

	conflicts map[synergy.ComboID]map[synergy.ComboID]struct{}

	maxDepth int
	logger   *slog.Logger
}

type Option func(*Graph)

// WithMaxDepth bounds chain depth. Values below 1 keep the default.
func WithMaxDepth(depth int) Option {
	return func(g *Graph) {
		if depth > 0 {
			g.maxDepth = depth
		}
	}
}

// NewGraph resolves every edge against the catalog once.
// Edges naming an unknown combo are dropped with a warning.
func NewGraph(catalog Catalog, logger *slog.Logger, opts ...Option) *Graph {
	if logger == nil {
		logger = slog.Default()
	}
	g := &Graph{
		out:       make(map[synergy.ComboID][]synergy.ChainEdge),
		in:        make(map[synergy.ComboID][]synergy.ChainEdge),
		conflicts: make(map[synergy.ComboID]map[synergy.ComboID]struct{}),
		maxDepth:  DefaultMaxDepth,
		logger:    logger,
	}
	for _, opt := range opts {
		opt(g)
	}

	for _, edge := range catalog.ChainEdges() {
		if err := g.addEdge(catalog, edge); err != nil {
			g.logger.Warn("dropping chain edge", slog.Any("err", err))
		}
	}

	for _, cf := range catalog.Conflicts() {
		for _, other := range cf.ConflictsWith {
			g.addConflict(cf.ComboID, other)
			g.addConflict(other, cf.ComboID)
		}
	}
	return g
}

func (g *Graph) addEdge(catalog Catalog, edge synergy.ChainEdge) error {
	if !catalog.Has(edge.From) {
		return fmt.Errorf("from combo not found: %s -> %s", edge.From, edge.To)
	}
	if !catalog.Has(edge.To) {
		return fmt.Errorf("to combo not found: %s -> %s", edge.From, edge.To)
	}
	edge.Conditions = slices.Clone(edge.Conditions)
	g.out[edge.From] = append(g.out[edge.From], edge)
	g.in[edge.To] = append(g.in[edge.To], edge)
	return nil
}

func (g *Graph) addConflict(a, b synergy.ComboID) {
	set, ok := g.conflicts[a]
	if !ok {
		set = make(map[synergy.ComboID]struct{})
		g.conflicts[a] = set
	}
	set[b] = struct{}{}
}

func (g *Graph) MaxDepth() int {
	return g.maxDepth
}

// Conflicts reports whether a and b may not chain, in either direction.
func (g *Graph) Conflicts(a, b synergy.ComboID) bool {
	_, ok := g.conflicts[a][b]
	return ok
}

// EdgesFrom returns the static edges leaving id.
func (g *Graph) EdgesFrom(id synergy.ComboID) []synergy.ChainEdge {
	return slices.Clone(g.out[id])
}

// EdgesTo returns the static edges entering id.
func (g *Graph) EdgesTo(id synergy.ComboID) []synergy.ChainEdge {
	return slices.Clone(g.in[id])
}

// Reachable returns every combo reachable from id within maxDepth static hops,
// ignoring conditions. Breadth-first, no duplicates, cycles are safe.
func (g *Graph) Reachable(id synergy.ComboID, maxDepth int) []synergy.ComboID {
	if maxDepth <= 0 {
		return nil
	}

	type item struct {
		id    synergy.ComboID
		depth int
	}

	visited := map[synergy.ComboID]bool{id: true}
	queue := []item{{id: id, depth: 0}}
	var result []synergy.ComboID

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]

		if cur.depth >= maxDepth {
			continue
		}
		for _, edge := range g.out[cur.id] {
			if visited[edge.To] {
				continue
			}
			visited[edge.To] = true
			result = append(result, edge.To)
			queue = append(queue, item{id: edge.To, depth: cur.depth + 1})
		}
	}
	return result
}
