package synergy

import (
	"slices"
	"strings"
)

type ComboID = string

// Rarity is totally ordered: common < uncommon < rare < legendary.
type Rarity string

const (
	Common    Rarity = "common"
	Uncommon  Rarity = "uncommon"
	Rare      Rarity = "rare"
	Legendary Rarity = "legendary"
)

var rarityRank = map[Rarity]int{
	Common:    0,
	Uncommon:  1,
	Rare:      2,
	Legendary: 3,
}

// Rank returns the position of r in the rarity order, -1 for unknown values.
func (r Rarity) Rank() int {
	rank, ok := rarityRank[r]
	if !ok {
		return -1
	}
	return rank
}

func (r Rarity) Valid() bool {
	return r.Rank() >= 0
}

// Rarities lists every rarity in ascending order.
func Rarities() []Rarity {
	return []Rarity{Common, Uncommon, Rare, Legendary}
}

type EffectKind = string

const (
	EffectAttendance      EffectKind = "attendance"
	EffectRevenue         EffectKind = "revenue"
	EffectReputation      EffectKind = "reputation"
	EffectStressReduction EffectKind = "stress_reduction"
	EffectAuthenticity    EffectKind = "authenticity"
	EffectEnergy          EffectKind = "energy"
	EffectSpawnEvent      EffectKind = "spawn_event"
	EffectUnlockContent   EffectKind = "unlock_content"
	EffectTransform       EffectKind = "transform"
)

// Effect is one bonus granted by an active combo.
// Numeric kinds use Value; side-channel kinds (spawn_event, unlock_content,
// transform, ...) carry their target in Payload.
type Effect struct {
	Kind    EffectKind `json:"kind" yaml:"kind"`
	Value   float64    `json:"value" yaml:"value"`
	Payload string     `json:"payload,omitempty" yaml:"payload,omitempty"`
	Percent bool       `json:"percent,omitempty" yaml:"percent,omitempty"`
}

// Definition is an immutable combo loaded into the Catalog.
type Definition struct {
	ID           ComboID
	Name         string
	Description  string
	Rarity       Rarity
	Requirements []Requirement
	Effects      []Effect
}

// AchievementGated reports whether the combo is unlocked by achievements
// rather than discovered from a context snapshot.
func (d Definition) AchievementGated() bool {
	for _, req := range d.Requirements {
		if _, ok := req.(AchievementRequirement); ok {
			return true
		}
	}
	return false
}

// Clone returns a copy whose slices can be modified without touching d.
func (d Definition) Clone() Definition {
	out := d
	out.Requirements = slices.Clone(d.Requirements)
	out.Effects = slices.Clone(d.Effects)
	return out
}

// Context is the read-only snapshot of one show that requirements are matched against.
type Context struct {
	Genres       []string `json:"genres" yaml:"genres"`
	Traits       []string `json:"traits" yaml:"traits"`
	Authenticity float64  `json:"authenticity" yaml:"authenticity"`
	Energy       float64  `json:"energy" yaml:"energy"`
	LineupSize   int      `json:"lineup_size" yaml:"lineup_size"`
	Equipment    []string `json:"equipment" yaml:"equipment"`
	VenueType    string   `json:"venue_type" yaml:"venue_type"`
	TimeOfDay    string   `json:"time_of_day" yaml:"time_of_day"`
}

// DistinctGenres counts genres ignoring case and duplicates.
func (c Context) DistinctGenres() int {
	seen := make(map[string]struct{}, len(c.Genres))
	for _, g := range c.Genres {
		seen[strings.ToLower(g)] = struct{}{}
	}
	return len(seen)
}

// AchievementSet is the externally supplied set of unlocked achievement ids.
type AchievementSet map[string]struct{}

func NewAchievementSet(ids ...string) AchievementSet {
	set := make(AchievementSet, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}

func (s AchievementSet) Has(id string) bool {
	_, ok := s[id]
	return ok
}

type EnhancementKind string

const (
	EffectBoost EnhancementKind = "effect_boost"
	NewEffect   EnhancementKind = "new_effect"
	ChainEnable EnhancementKind = "chain_enable"
)

// Enhancement is a mastery-gated modification of one combo.
type Enhancement struct {
	ID            string
	ComboID       ComboID
	RequiredLevel int
	Kind          EnhancementKind

	// effect_boost
	Effect     EffectKind
	Multiplier float64

	// new_effect
	NewEffect Effect

	// chain_enable
	Target        ComboID
	BaseBonus     float64
	BonusPerLevel float64
}

// ChainBonusAt returns the multiplier bonus a chain_enable enhancement grants at level.
func (e Enhancement) ChainBonusAt(level int) float64 {
	return e.BaseBonus + float64(level)*e.BonusPerLevel
}

type ChainConditionKind string

const (
	EffectThreshold ChainConditionKind = "effect_threshold"
	MinLinks        ChainConditionKind = "min_links"
	RequiresCombo   ChainConditionKind = "requires_combo"
	NoConflict      ChainConditionKind = "no_conflict"
)

type ChainCondition struct {
	Kind ChainConditionKind

	// effect_threshold: accumulated total for Effect must be >= Min
	Effect EffectKind
	Min    float64

	// min_links: links already in the chain must be >= Count
	Count int

	// requires_combo: Combo must appear earlier in the chain
	Combo ComboID
}

// ChainEdge is a directed trigger from one combo to another.
type ChainEdge struct {
	From            ComboID
	To              ComboID
	Conditions      []ChainCondition
	MultiplierBonus float64
}

// HasCondition reports whether the edge carries a condition of the given kind.
func (e ChainEdge) HasCondition(kind ChainConditionKind) bool {
	for _, c := range e.Conditions {
		if c.Kind == kind {
			return true
		}
	}
	return false
}

// Conflict declares the combos ComboID cannot chain with.
type Conflict struct {
	ComboID       ComboID
	ConflictsWith []ComboID
}
