package synergy

import (
	"log/slog"
	"math"
	"strings"
)

const floatTolerance = 1e-9

// Matcher evaluates requirements against a context snapshot.
// Unknown kinds and malformed values never match; they are logged as data errors.
type Matcher struct {
	logger *slog.Logger
}

func NewMatcher(logger *slog.Logger) *Matcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Matcher{logger: logger}
}

// Active reports whether every requirement of def holds. An empty list matches.
func (m *Matcher) Active(def Definition, ctx Context, achievements AchievementSet) bool {
	for _, req := range def.Requirements {
		if a, ok := req.(AchievementRequirement); ok {
			if !m.MatchesAchievement(a, achievements) {
				return false
			}
			continue
		}
		if !m.Matches(req, ctx) {
			return false
		}
	}
	return true
}

// Matches evaluates one context requirement.
func (m *Matcher) Matches(req Requirement, ctx Context) bool {
	switch r := req.(type) {

	case GenreRequirement:
		if strings.EqualFold(r.Genre, MixedGenres) {
			return ctx.DistinctGenres() > 1
		}
		return m.matchSet(r.Kind(), ctx.Genres, r.Genre, r.Op)

	case VenueTypeRequirement:
		return m.matchScalar(r.Kind(), ctx.VenueType, r.VenueType, r.Op)

	case TraitRequirement:
		return m.matchSet(r.Kind(), ctx.Traits, r.Trait, r.Op)

	case EquipmentRequirement:
		return m.matchSet(r.Kind(), ctx.Equipment, r.Equipment, r.Op)

	case LineupSizeRequirement:
		return m.matchNumber(r.Kind(), float64(ctx.LineupSize), float64(r.Size), r.Op)

	case TimeOfDayRequirement:
		return m.matchScalar(r.Kind(), ctx.TimeOfDay, r.TimeOfDay, r.Op)

	case StatRequirement:
		v, ok := statValue(ctx, r.Stat)
		if !ok {
			m.dataError("unknown context stat", r.Kind(), slog.String("stat", r.Stat))
			return false
		}
		return m.matchNumber(r.Kind(), v, r.Value, r.Op)

	case AchievementRequirement:
		// Achievements are never part of the context snapshot.
		return false

	case UnknownRequirement:
		m.dataError("unrecognized requirement kind", r.Kind(), slog.Any("value", r.Value))
		return false
	}

	m.dataError("unsupported requirement type", "", slog.Any("requirement", req))
	return false
}

// MatchesAchievement is the achievement-gated counterpart of Matches.
func (m *Matcher) MatchesAchievement(req AchievementRequirement, unlocked AchievementSet) bool {
	if req.Achievement == "" {
		m.dataError("empty achievement id", KindAchievement)
		return false
	}
	return unlocked.Has(req.Achievement)
}

/*
========================
Helpers
========================
*/

func statValue(ctx Context, stat string) (float64, bool) {
	switch strings.ToLower(stat) {
	case "authenticity":
		return ctx.Authenticity, true
	case "energy":
		return ctx.Energy, true
	case "lineup_size", "lineupsize":
		return float64(ctx.LineupSize), true
	}
	return 0, false
}

func (m *Matcher) matchSet(kind RequirementKind, values []string, want string, op Operator) bool {
	switch op.orDefault() {
	case Equals:
		for _, v := range values {
			if strings.EqualFold(v, want) {
				return true
			}
		}
		return false
	case Contains:
		needle := strings.ToLower(want)
		for _, v := range values {
			if strings.Contains(strings.ToLower(v), needle) {
				return true
			}
		}
		return false
	}
	m.dataError("operator not applicable to set field", kind, slog.String("op", string(op)))
	return false
}

func (m *Matcher) matchScalar(kind RequirementKind, value, want string, op Operator) bool {
	switch op.orDefault() {
	case Equals:
		return strings.EqualFold(value, want)
	case Contains:
		return strings.Contains(strings.ToLower(value), strings.ToLower(want))
	}
	m.dataError("operator not applicable to text field", kind, slog.String("op", string(op)))
	return false
}

func (m *Matcher) matchNumber(kind RequirementKind, value, want float64, op Operator) bool {
	if math.IsNaN(value) || math.IsNaN(want) {
		m.dataError("NaN in numeric requirement", kind)
		return false
	}
	switch op.orDefault() {
	case Equals:
		return math.Abs(value-want) < floatTolerance
	case GreaterThan:
		return value > want
	case LessThan:
		return value < want
	}
	m.dataError("operator not applicable to numeric field", kind, slog.String("op", string(op)))
	return false
}

func (m *Matcher) dataError(msg string, kind RequirementKind, attrs ...any) {
	args := append([]any{slog.String("kind", string(kind))}, attrs...)
	m.logger.Warn("synergy data error: "+msg, args...)
}
