package synergy

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDefaultCatalog_Loads(t *testing.T) {
	cat, err := DefaultCatalog(quietLogger())
	require.NoError(t, err)
	require.Equal(t, 8, cat.Len())

	all := cat.All()
	require.Equal(t, PunkInBasement, all[0].ID)
	require.Equal(t, PerfectStorm, all[1].ID)

	storm, ok := cat.Get(PerfectStorm)
	require.True(t, ok)
	require.Equal(t, Legendary, storm.Rarity)
	require.Len(t, storm.Requirements, 5)

	enh := cat.Enhancements(PunkInBasement)
	require.Len(t, enh, 2)
	require.Equal(t, "basement_roots", enh[0].ID)
	require.Equal(t, EffectBoost, enh[0].Kind)
	require.Equal(t, 1.5, enh[0].Multiplier)
	require.Equal(t, "intimidation", enh[1].NewEffect.Kind)

	require.Len(t, cat.ChainEdges(), 4)
	require.Len(t, cat.Conflicts(), 1)
}

func TestDefaultCatalog_ActiveSetFromYAML(t *testing.T) {
	cat, err := DefaultCatalog(quietLogger())
	require.NoError(t, err)
	m := NewMatcher(quietLogger())

	active := cat.ActiveSet(m, perfectStormContext(), nil)
	ids := make([]string, 0, len(active))
	for _, d := range active {
		ids = append(ids, d.ID)
	}
	require.Equal(t, []string{PerfectStorm, "punk_unity", "scene_explosion"}, ids)

	active = cat.ActiveSet(m, punkBasementContext(), nil)
	require.Equal(t, PunkInBasement, active[0].ID)
}

func TestCatalog_GetReturnsCopy(t *testing.T) {
	cat, err := DefaultCatalog(quietLogger())
	require.NoError(t, err)

	d, _ := cat.Get(PunkInBasement)
	d.Effects[0].Value = 999

	again, _ := cat.Get(PunkInBasement)
	require.Equal(t, 20.0, again.Effects[0].Value)
}

func TestNewCatalog_Rejects(t *testing.T) {
	base := Definition{ID: "a", Rarity: Common}

	_, err := NewCatalog([]Definition{base, base}, nil, nil, nil)
	require.ErrorIs(t, err, ErrDuplicateCombo)

	_, err = NewCatalog([]Definition{{ID: "b", Rarity: "mythic"}}, nil, nil, nil)
	require.ErrorIs(t, err, ErrInvalidCatalog)

	_, err = NewCatalog([]Definition{base}, []Enhancement{{ID: "e", ComboID: "ghost", Kind: EffectBoost, Effect: "x"}}, nil, nil)
	require.ErrorIs(t, err, ErrUnknownCombo)

	_, err = NewCatalog([]Definition{base}, []Enhancement{{ID: "e", ComboID: "a", Kind: ChainEnable}}, nil, nil)
	require.ErrorIs(t, err, ErrInvalidCatalog)

	_, err = NewCatalog([]Definition{base}, nil, nil, []Conflict{{ComboID: "a", ConflictsWith: []string{"ghost"}}})
	require.ErrorIs(t, err, ErrUnknownCombo)
}

func TestNewCatalog_KeepsDanglingEdges(t *testing.T) {
	cat, err := NewCatalog(
		[]Definition{{ID: "a", Rarity: Common}},
		nil,
		[]ChainEdge{{From: "a", To: "ghost"}},
		nil,
	)
	require.NoError(t, err)
	require.Len(t, cat.ChainEdges(), 1)
}

func TestLoadCatalog_UnknownRequirementDegrades(t *testing.T) {
	doc := `
synergies:
  - id: moonlight
    rarity: rare
    requirements:
      - kind: moon_phase
        value: full
  - id: plain
    rarity: common
`
	cat, err := LoadCatalog(strings.NewReader(doc), quietLogger())
	require.NoError(t, err)

	d, ok := cat.Get("moonlight")
	require.True(t, ok)
	require.IsType(t, UnknownRequirement{}, d.Requirements[0])

	m := NewMatcher(quietLogger())
	active := cat.ActiveSet(m, perfectStormContext(), nil)
	require.Len(t, active, 1)
	require.Equal(t, "plain", active[0].ID)
}

func TestLoadCatalog_StructuralErrors(t *testing.T) {
	cases := map[string]string{
		"bad rarity": `
synergies:
  - id: a
    rarity: mythic
`,
		"missing id": `
synergies:
  - rarity: common
`,
		"unknown field": `
synergies:
  - id: a
    rarity: common
    colour: red
`,
		"duplicate": `
synergies:
  - id: a
    rarity: common
  - id: a
    rarity: rare
`,
		"enhancement for unknown combo": `
synergies:
  - id: a
    rarity: common
enhancements:
  - id: e
    combo: ghost
    level: 1
    kind: effect_boost
    effect: attendance
    multiplier: 2
`,
	}

	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := LoadCatalog(strings.NewReader(doc), quietLogger())
			require.Error(t, err)
		})
	}
}

func TestLoadCatalog_WarnsOnUnknownChainEnableTarget(t *testing.T) {
	doc := `
synergies:
  - id: a
    rarity: common
enhancements:
  - id: a_spark
    combo: a
    level: 1
    kind: chain_enable
    target: ghost
    base_bonus: 0.1
`
	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, nil))

	cat, err := LoadCatalog(strings.NewReader(doc), logger)
	require.NoError(t, err)
	require.Len(t, cat.Enhancements("a"), 1)
	require.Contains(t, logs.String(), "chain_enable target is not in the catalog")
	require.Contains(t, logs.String(), "enhancement=a_spark")
	require.Contains(t, logs.String(), "target=ghost")

	logs.Reset()
	_, err = DefaultCatalog(logger)
	require.NoError(t, err)
	require.NotContains(t, logs.String(), "chain_enable target")
}
