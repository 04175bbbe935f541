package chain_graph

import (
	"bytes"
	"fmt"
	"testing"

	"github.com/jtomasevic/synergy/pkg/synergy"
	"github.com/stretchr/testify/require"
)

func TestBuildChains_EffectThreshold(t *testing.T) {
	cat, g := showcaseGraph(t)
	active := mustGet(t, cat, "punk_unity", "scene_explosion")

	chains := g.BuildChains(active, map[string]float64{synergy.EffectAuthenticity: 60}, nil)
	require.Len(t, chains, 1)

	c := chains[0]
	require.False(t, c.Interrupted)
	require.Equal(t, []string{"punk_unity", "scene_explosion"}, c.ComboIDs())
	require.Equal(t, 1.0, c.Links[0].Multiplier)
	require.Equal(t, 0, c.Links[0].Depth)
	require.Empty(t, c.Links[0].TriggeredBy)
	require.InDelta(t, 1.5, c.Links[1].Multiplier, 1e-9)
	require.Equal(t, 1, c.Links[1].Depth)
	require.Equal(t, "punk_unity", c.Links[1].TriggeredBy)
	require.InDelta(t, 1.5, c.TotalMultiplier, 1e-9)

	chains = g.BuildChains(active, map[string]float64{synergy.EffectAuthenticity: 40}, nil)
	require.Len(t, chains, 2)
	require.Equal(t, []string{"punk_unity"}, chains[0].ComboIDs())
	require.Equal(t, 1.0, chains[0].TotalMultiplier)
}

func TestBuildChains_RootConflictInterrupts(t *testing.T) {
	cat, g := showcaseGraph(t)
	active := mustGet(t, cat, "commercial_sellout", "diy_ethos")

	chains := g.BuildChains(active, nil, nil)
	require.Len(t, chains, 2)

	diy := chains[1]
	require.Equal(t, "diy_ethos", diy.Root().Combo.ID)
	require.True(t, diy.Interrupted)
	require.NotEmpty(t, diy.InterruptReason)
	require.Len(t, diy.Links, 1)

	// declared on commercial_sellout, enforced in both directions
	require.True(t, chains[0].Interrupted)
	require.True(t, g.Conflicts("diy_ethos", "commercial_sellout"))
}

func TestBuildChains_TotalIsProductOfLinks(t *testing.T) {
	g := newTestGraph(t,
		[]string{"a", "b", "c"},
		[]synergy.ChainEdge{edge("a", "b", 0.5), edge("b", "c", 0.1)},
		nil,
	)

	chains := g.BuildChains(defs("a", "b", "c"), nil, nil)
	require.Len(t, chains, 1)

	links := chains[0].Links
	require.InDelta(t, 1.0, links[0].Multiplier, 1e-9)
	require.InDelta(t, 1.5, links[1].Multiplier, 1e-9)
	require.InDelta(t, 1.2, links[2].Multiplier, 1e-9)
	require.InDelta(t, 1.8, chains[0].TotalMultiplier, 1e-9)
}

func TestBuildChains_CycleIsBounded(t *testing.T) {
	var ids []string
	var edges []synergy.ChainEdge
	for i := range 8 {
		ids = append(ids, fmt.Sprintf("n%d", i))
	}
	for i := range ids {
		edges = append(edges, edge(ids[i], ids[(i+1)%len(ids)], 0))
	}

	g := newTestGraph(t, ids, edges, nil)
	chains := g.BuildChains(defs(ids...), nil, nil)

	require.Len(t, chains[0].Links, DefaultMaxDepth+1)
	require.Equal(t, []string{"n6", "n7"}, chains[1].ComboIDs())
	for _, c := range chains {
		require.LessOrEqual(t, len(c.Links), DefaultMaxDepth+1)
	}

	shallow := newTestGraph(t, ids, edges, nil, WithMaxDepth(2))
	chains = shallow.BuildChains(defs(ids...), nil, nil)
	require.Len(t, chains[0].Links, 3)
	require.Equal(t, 2, chains[0].Links[2].Depth)
}

func TestBuildChains_FanOutIsBounded(t *testing.T) {
	ids := []string{"hub"}
	var edges []synergy.ChainEdge
	for i := range 9 {
		id := fmt.Sprintf("leaf%d", i)
		ids = append(ids, id)
		edges = append(edges, edge("hub", id, 0.1))
	}

	g := newTestGraph(t, ids, edges, nil)
	chains := g.BuildChains(defs(ids...), nil, nil)

	require.Len(t, chains[0].Links, DefaultMaxDepth+1)
	for _, l := range chains[0].Links[1:] {
		require.Equal(t, 1, l.Depth)
		require.InDelta(t, 1.1, l.Multiplier, 1e-9)
	}
	// leaves the hub could not take become their own roots
	require.Len(t, chains, 1+9-DefaultMaxDepth)
}

func TestBuildChains_ComboUsedOnce(t *testing.T) {
	g := newTestGraph(t,
		[]string{"a", "b", "c"},
		[]synergy.ChainEdge{edge("a", "b", 0.2), edge("c", "b", 0.9)},
		nil,
	)

	chains := g.BuildChains(defs("a", "b", "c"), nil, nil)
	require.Len(t, chains, 2)
	require.Equal(t, []string{"a", "b"}, chains[0].ComboIDs())
	require.Equal(t, []string{"c"}, chains[1].ComboIDs())
}

func TestBuildChains_InactiveTargetSkipped(t *testing.T) {
	g := newTestGraph(t,
		[]string{"a", "b", "c"},
		[]synergy.ChainEdge{edge("a", "b", 0.2), edge("a", "c", 0.3)},
		nil,
	)

	chains := g.BuildChains(defs("a", "c"), nil, nil)
	require.Len(t, chains, 1)
	require.Equal(t, []string{"a", "c"}, chains[0].ComboIDs())
}

func TestBuildChains_DanglingEdgesDropped(t *testing.T) {
	g := newTestGraph(t,
		[]string{"a", "b"},
		[]synergy.ChainEdge{edge("a", "ghost", 1), edge("ghost", "b", 1), edge("a", "b", 0.2)},
		nil,
	)

	require.Len(t, g.EdgesFrom("a"), 1)
	require.Empty(t, g.EdgesFrom("ghost"))
	require.Len(t, g.EdgesTo("b"), 1)

	chains := g.BuildChains(defs("a", "b"), nil, nil)
	require.Equal(t, []string{"a", "b"}, chains[0].ComboIDs())
}

func TestBuildChains_DynamicEdges(t *testing.T) {
	g := newTestGraph(t,
		[]string{"a", "b", "c"},
		[]synergy.ChainEdge{edge("a", "c", 0.2)},
		nil,
	)
	dynamic := staticEdges{"a": {edge("a", "b", 0.3)}}

	chains := g.BuildChains(defs("a", "b", "c"), nil, dynamic)
	require.Len(t, chains, 1)
	// static edges are followed before dynamic ones
	require.Equal(t, []string{"a", "c", "b"}, chains[0].ComboIDs())
	require.InDelta(t, 1.3, chains[0].Links[2].Multiplier, 1e-9)

	require.Empty(t, g.EdgesFrom("b"))
}

func TestBuildChains_MidChainConflict(t *testing.T) {
	conflicts := []synergy.Conflict{{ComboID: "x", ConflictsWith: []string{"b"}}}

	g := newTestGraph(t,
		[]string{"a", "b", "x"},
		[]synergy.ChainEdge{edge("a", "b", 0.2)},
		conflicts,
	)
	chains := g.BuildChains(defs("a", "b", "x"), nil, nil)
	require.True(t, chains[0].Interrupted)
	require.Equal(t, []string{"a"}, chains[0].ComboIDs())
	require.Contains(t, chains[0].InterruptReason, "x")

	guarded := newTestGraph(t,
		[]string{"a", "b", "x"},
		[]synergy.ChainEdge{edge("a", "b", 0.2, synergy.ChainCondition{Kind: synergy.NoConflict})},
		conflicts,
	)
	chains = guarded.BuildChains(defs("a", "b", "x"), nil, nil)
	require.False(t, chains[0].Interrupted)
	require.Equal(t, []string{"a"}, chains[0].ComboIDs())
}

func TestBuildChains_Conditions(t *testing.T) {
	g := newTestGraph(t,
		[]string{"a", "b", "c", "d", "e"},
		[]synergy.ChainEdge{
			edge("a", "b", 0.1),
			edge("b", "c", 0.1, synergy.ChainCondition{Kind: synergy.MinLinks, Count: 2}),
			edge("c", "d", 0.1, synergy.ChainCondition{Kind: synergy.RequiresCombo, Combo: "a"}),
			edge("d", "e", 0.1, synergy.ChainCondition{Kind: "moon_phase"}),
		},
		nil,
	)

	chains := g.BuildChains(defs("a", "b", "c", "d", "e"), nil, nil)
	require.Equal(t, []string{"a", "b", "c", "d"}, chains[0].ComboIDs())
	require.Equal(t, []string{"e"}, chains[1].ComboIDs())

	// rooted at b the chain is too short for the min_links edge
	chains = g.BuildChains(defs("b", "c"), nil, nil)
	require.Len(t, chains, 2)
	require.Equal(t, []string{"b"}, chains[0].ComboIDs())

	chains = g.BuildChains(defs("c", "d"), nil, nil)
	require.Len(t, chains, 2)
}

func TestReachable(t *testing.T) {
	g := newTestGraph(t,
		[]string{"a", "b", "c", "d"},
		[]synergy.ChainEdge{edge("a", "b", 0), edge("b", "c", 0), edge("c", "a", 0), edge("c", "d", 0)},
		nil,
	)

	require.Equal(t, []string{"b"}, g.Reachable("a", 1))
	require.Equal(t, []string{"b", "c", "d"}, g.Reachable("a", 5))
	require.Nil(t, g.Reachable("a", 0))
}

func TestPrintChains(t *testing.T) {
	cat, g := showcaseGraph(t)
	active := mustGet(t, cat, "punk_unity", "scene_explosion", "commercial_sellout", "diy_ethos")

	var buf bytes.Buffer
	PrintChains(&buf, g.BuildChains(active, map[string]float64{synergy.EffectAuthenticity: 80}, nil))

	out := buf.String()
	require.Contains(t, out, "[Chain 1] x1.50")
	require.Contains(t, out, "scene_explosion (rare) ↳ punk_unity x1.50")
	require.Contains(t, out, "interrupted:")
}
