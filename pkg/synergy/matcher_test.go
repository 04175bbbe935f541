package synergy

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMatcher_PunkInBasement(t *testing.T) {
	m := NewMatcher(quietLogger())
	def := Definition{
		ID:           PunkInBasement,
		Rarity:       Common,
		Requirements: Require().Genre(Punk).VenueType(Basement).List(),
	}

	require.True(t, m.Active(def, punkBasementContext(), nil))

	ctx := punkBasementContext()
	ctx.VenueType = Warehouse
	require.False(t, m.Active(def, ctx, nil))
}

func TestMatcher_EmptyRequirementsMatch(t *testing.T) {
	m := NewMatcher(quietLogger())
	require.True(t, m.Active(Definition{ID: "always"}, Context{}, nil))
}

func TestMatcher_PerfectStorm_AndSemantics(t *testing.T) {
	m := NewMatcher(quietLogger())
	def := perfectStormDefinition()

	require.True(t, m.Active(def, perfectStormContext(), nil))

	breakers := map[string]func(*Context){
		"authenticity": func(c *Context) { c.Authenticity = 90 },
		"energy":       func(c *Context) { c.Energy = 40 },
		"venue":        func(c *Context) { c.VenueType = Basement },
		"lineup":       func(c *Context) { c.LineupSize = 5 },
		"equipment":    func(c *Context) { c.Equipment = []string{"fog_machine"} },
	}
	for name, breakIt := range breakers {
		t.Run(name, func(t *testing.T) {
			ctx := perfectStormContext()
			breakIt(&ctx)
			require.False(t, m.Active(def, ctx, nil))
		})
	}
}

func TestMatcher_MixedGenreIgnoresOperator(t *testing.T) {
	m := NewMatcher(quietLogger())

	for _, op := range []Operator{Equals, Contains, GreaterThan, LessThan, ""} {
		req := GenreRequirement{Genre: MixedGenres, Op: op}
		require.True(t, m.Matches(req, Context{Genres: []string{Punk, Jazz}}), "op %q", op)
		require.False(t, m.Matches(req, Context{Genres: []string{Punk, "punk"}}), "op %q", op)
		require.False(t, m.Matches(req, Context{}), "op %q", op)
	}
}

func TestMatcher_Operators(t *testing.T) {
	m := NewMatcher(quietLogger())
	ctx := Context{
		Traits:     []string{"diy_spirit"},
		VenueType:  "Old Warehouse",
		TimeOfDay:  "late_night",
		LineupSize: 3,
		Energy:     70,
	}

	require.True(t, m.Matches(TraitRequirement{Trait: "diy", Op: Contains}, ctx))
	require.False(t, m.Matches(TraitRequirement{Trait: "diy"}, ctx))
	require.True(t, m.Matches(VenueTypeRequirement{VenueType: "warehouse", Op: Contains}, ctx))
	require.True(t, m.Matches(TimeOfDayRequirement{TimeOfDay: "LATE_NIGHT"}, ctx))
	require.True(t, m.Matches(LineupSizeRequirement{Size: 2, Op: GreaterThan}, ctx))
	require.True(t, m.Matches(LineupSizeRequirement{Size: 4, Op: LessThan}, ctx))
	require.True(t, m.Matches(StatRequirement{Stat: "energy", Value: 70}, ctx))
	require.False(t, m.Matches(StatRequirement{Stat: "energy", Value: 70, Op: GreaterThan}, ctx))
}

func TestMatcher_MalformedNeverMatches(t *testing.T) {
	m := NewMatcher(quietLogger())
	ctx := perfectStormContext()

	require.False(t, m.Matches(UnknownRequirement{RawKind: "moon_phase", Value: "full"}, ctx))
	require.False(t, m.Matches(StatRequirement{Stat: "charisma", Value: 1, Op: GreaterThan}, ctx))
	require.False(t, m.Matches(VenueTypeRequirement{VenueType: Warehouse, Op: GreaterThan}, ctx))
	require.False(t, m.Matches(GenreRequirement{Genre: Punk, Op: LessThan}, ctx))
	require.False(t, m.Matches(LineupSizeRequirement{Size: 4, Op: Contains}, ctx))
	require.False(t, m.Matches(AchievementRequirement{Achievement: "x"}, ctx))
}

func TestMatcher_AchievementGated(t *testing.T) {
	m := NewMatcher(quietLogger())
	def := Definition{
		ID:           "legacy_headliner",
		Rarity:       Rare,
		Requirements: Require().Achievement("first_sellout_tour").List(),
	}

	require.True(t, def.AchievementGated())
	require.False(t, m.Active(def, Context{}, nil))
	require.False(t, m.Active(def, Context{}, NewAchievementSet("other")))
	require.True(t, m.Active(def, Context{}, NewAchievementSet("first_sellout_tour")))
	require.False(t, m.MatchesAchievement(AchievementRequirement{}, NewAchievementSet("")))
}
