package synergy

type Operator string

const (
	Equals      Operator = "equals"
	Contains    Operator = "contains"
	GreaterThan Operator = "greater_than"
	LessThan    Operator = "less_than"
)

func (o Operator) orDefault() Operator {
	if o == "" {
		return Equals
	}
	return o
}

type RequirementKind string

const (
	KindGenre       RequirementKind = "genre"
	KindVenueType   RequirementKind = "venue_type"
	KindTrait       RequirementKind = "trait"
	KindEquipment   RequirementKind = "equipment"
	KindLineupSize  RequirementKind = "lineup_size"
	KindTimeOfDay   RequirementKind = "time_of_day"
	KindStat        RequirementKind = "stat"
	KindAchievement RequirementKind = "achievement"
)

// MixedGenres is the genre value meaning "more than one distinct genre present".
const MixedGenres = "mixed"

// Requirement is one predicate of a combo. The set of implementations is closed:
// every kind carries only the fields it reads.
type Requirement interface {
	Kind() RequirementKind
	isRequirement()
}

type GenreRequirement struct {
	Genre string
	Op    Operator
}

type VenueTypeRequirement struct {
	VenueType string
	Op        Operator
}

type TraitRequirement struct {
	Trait string
	Op    Operator
}

type EquipmentRequirement struct {
	Equipment string
	Op        Operator
}

type LineupSizeRequirement struct {
	Size int
	Op   Operator
}

type TimeOfDayRequirement struct {
	TimeOfDay string
	Op        Operator
}

// StatRequirement is a numeric threshold on a named context stat
// (authenticity, energy, lineup_size).
type StatRequirement struct {
	Stat  string
	Value float64
	Op    Operator
}

// AchievementRequirement is satisfied by the external achievement set, not the context.
type AchievementRequirement struct {
	Achievement string
}

// UnknownRequirement keeps catalog data the engine does not understand.
// It never matches.
type UnknownRequirement struct {
	RawKind string
	Value   any
}

func (GenreRequirement) Kind() RequirementKind       { return KindGenre }
func (VenueTypeRequirement) Kind() RequirementKind   { return KindVenueType }
func (TraitRequirement) Kind() RequirementKind       { return KindTrait }
func (EquipmentRequirement) Kind() RequirementKind   { return KindEquipment }
func (LineupSizeRequirement) Kind() RequirementKind  { return KindLineupSize }
func (TimeOfDayRequirement) Kind() RequirementKind   { return KindTimeOfDay }
func (StatRequirement) Kind() RequirementKind        { return KindStat }
func (AchievementRequirement) Kind() RequirementKind { return KindAchievement }
func (u UnknownRequirement) Kind() RequirementKind   { return RequirementKind(u.RawKind) }

func (GenreRequirement) isRequirement()       {}
func (VenueTypeRequirement) isRequirement()   {}
func (TraitRequirement) isRequirement()       {}
func (EquipmentRequirement) isRequirement()   {}
func (LineupSizeRequirement) isRequirement()  {}
func (TimeOfDayRequirement) isRequirement()   {}
func (StatRequirement) isRequirement()        {}
func (AchievementRequirement) isRequirement() {}
func (UnknownRequirement) isRequirement()     {}

/*
========================
Fluent DSL
========================
*/

// Requirements is a fluent builder for requirement lists. All entries are AND-combined.
//
//	synergy.Require().Genre("PUNK").VenueType("BASEMENT").List()
type Requirements struct {
	list []Requirement
}

func Require() *Requirements {
	return &Requirements{}
}

func (r *Requirements) Genre(genre string) *Requirements {
	return r.add(GenreRequirement{Genre: genre, Op: Equals})
}

func (r *Requirements) MixedGenres() *Requirements {
	return r.add(GenreRequirement{Genre: MixedGenres, Op: Equals})
}

func (r *Requirements) VenueType(venue string) *Requirements {
	return r.add(VenueTypeRequirement{VenueType: venue, Op: Equals})
}

func (r *Requirements) Trait(trait string) *Requirements {
	return r.add(TraitRequirement{Trait: trait, Op: Equals})
}

func (r *Requirements) Equipment(equipment string) *Requirements {
	return r.add(EquipmentRequirement{Equipment: equipment, Op: Contains})
}

func (r *Requirements) LineupSize(size int, op Operator) *Requirements {
	return r.add(LineupSizeRequirement{Size: size, Op: op})
}

func (r *Requirements) TimeOfDay(bucket string) *Requirements {
	return r.add(TimeOfDayRequirement{TimeOfDay: bucket, Op: Equals})
}

func (r *Requirements) Stat(stat string, op Operator, value float64) *Requirements {
	return r.add(StatRequirement{Stat: stat, Op: op, Value: value})
}

func (r *Requirements) Achievement(id string) *Requirements {
	return r.add(AchievementRequirement{Achievement: id})
}

func (r *Requirements) List() []Requirement {
	return append([]Requirement(nil), r.list...)
}

func (r *Requirements) add(req Requirement) *Requirements {
	r.list = append(r.list, req)
	return r
}
