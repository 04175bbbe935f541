package chain_graph

import (
	"io"
	"log/slog"
	"testing"

	"github.com/jtomasevic/synergy/pkg/synergy"
	"github.com/stretchr/testify/require"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func def(id string) synergy.Definition {
	return synergy.Definition{ID: id, Rarity: synergy.Common}
}

func defs(ids ...string) []synergy.Definition {
	out := make([]synergy.Definition, 0, len(ids))
	for _, id := range ids {
		out = append(out, def(id))
	}
	return out
}

func edge(from, to string, bonus float64, conds ...synergy.ChainCondition) synergy.ChainEdge {
	return synergy.ChainEdge{From: from, To: to, MultiplierBonus: bonus, Conditions: conds}
}

func newTestGraph(t *testing.T, ids []string, edges []synergy.ChainEdge, conflicts []synergy.Conflict, opts ...Option) *Graph {
	t.Helper()
	cat, err := synergy.NewCatalog(defs(ids...), nil, edges, conflicts)
	require.NoError(t, err)
	return NewGraph(cat, quietLogger(), opts...)
}

func showcaseGraph(t *testing.T) (*synergy.Catalog, *Graph) {
	t.Helper()
	cat, err := synergy.DefaultCatalog(quietLogger())
	require.NoError(t, err)
	return cat, NewGraph(cat, quietLogger())
}

func mustGet(t *testing.T, cat *synergy.Catalog, ids ...string) []synergy.Definition {
	t.Helper()
	out := make([]synergy.Definition, 0, len(ids))
	for _, id := range ids {
		d, ok := cat.Get(id)
		require.True(t, ok, id)
		out = append(out, d)
	}
	return out
}

// staticEdges is an EdgeProvider backed by a map.
type staticEdges map[string][]synergy.ChainEdge

func (s staticEdges) EdgesFrom(id synergy.ComboID) []synergy.ChainEdge {
	return s[id]
}
