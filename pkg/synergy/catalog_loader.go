package synergy

import (
	"bytes"
	"embed"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

//go:embed catalogs/showcase.yaml
var embeddedCatalogs embed.FS

const showcaseCatalog = "catalogs/showcase.yaml"

var catalogValidate = validator.New()

// CatalogFile is the on-disk shape of a catalog.
type CatalogFile struct {
	Synergies    []SynergySpec     `yaml:"synergies" validate:"required,min=1,dive"`
	Enhancements []EnhancementSpec `yaml:"enhancements" validate:"dive"`
	Chains       []ChainEdgeSpec   `yaml:"chains" validate:"dive"`
	Conflicts    []ConflictSpec    `yaml:"conflicts" validate:"dive"`
}

type SynergySpec struct {
	ID           string            `yaml:"id" validate:"required"`
	Name         string            `yaml:"name"`
	Description  string            `yaml:"description"`
	Rarity       string            `yaml:"rarity" validate:"required,oneof=common uncommon rare legendary"`
	Requirements []RequirementSpec `yaml:"requirements" validate:"dive"`
	Effects      []EffectSpec      `yaml:"effects" validate:"dive"`
}

type RequirementSpec struct {
	Kind  string `yaml:"kind" validate:"required"`
	Value any    `yaml:"value"`
	Stat  string `yaml:"stat"`
	Op    string `yaml:"op" validate:"omitempty,oneof=equals contains greater_than less_than"`
}

type EffectSpec struct {
	Kind    string  `yaml:"kind" validate:"required"`
	Value   float64 `yaml:"value"`
	Payload string  `yaml:"payload"`
	Percent bool    `yaml:"percent"`
}

type EnhancementSpec struct {
	ID            string      `yaml:"id" validate:"required"`
	Combo         string      `yaml:"combo" validate:"required"`
	Level         int         `yaml:"level" validate:"gte=0"`
	Kind          string      `yaml:"kind" validate:"required,oneof=effect_boost new_effect chain_enable"`
	Effect        string      `yaml:"effect"`
	Multiplier    float64     `yaml:"multiplier"`
	NewEffect     *EffectSpec `yaml:"new_effect"`
	Target        string      `yaml:"target"`
	BaseBonus     float64     `yaml:"base_bonus"`
	BonusPerLevel float64     `yaml:"bonus_per_level"`
}

type ChainEdgeSpec struct {
	From       string          `yaml:"from" validate:"required"`
	To         string          `yaml:"to" validate:"required"`
	Bonus      float64         `yaml:"bonus" validate:"gte=0"`
	Conditions []ConditionSpec `yaml:"conditions" validate:"dive"`
}

type ConditionSpec struct {
	Kind   string  `yaml:"kind" validate:"required"`
	Effect string  `yaml:"effect"`
	Min    float64 `yaml:"min"`
	Count  int     `yaml:"count"`
	Combo  string  `yaml:"combo"`
}

type ConflictSpec struct {
	Combo         string   `yaml:"combo" validate:"required"`
	ConflictsWith []string `yaml:"conflicts_with" validate:"required,min=1"`
}

// DefaultCatalog loads the showcase catalog embedded in the binary.
func DefaultCatalog(logger *slog.Logger) (*Catalog, error) {
	data, err := embeddedCatalogs.ReadFile(showcaseCatalog)
	if err != nil {
		return nil, fmt.Errorf("read embedded catalog: %w", err)
	}
	return LoadCatalog(bytes.NewReader(data), logger)
}

func LoadCatalogFile(path string, logger *slog.Logger) (*Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open catalog %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()
	return LoadCatalog(f, logger)
}

// LoadCatalog decodes, validates and compiles a YAML catalog.
// Structural problems are fatal; unknown requirement kinds only degrade the
// affected combo (the requirement never matches).
func LoadCatalog(r io.Reader, logger *slog.Logger) (*Catalog, error) {
	if logger == nil {
		logger = slog.Default()
	}

	var file CatalogFile
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&file); err != nil {
		return nil, fmt.Errorf("%w: decode: %v", ErrInvalidCatalog, err)
	}
	if err := catalogValidate.Struct(file); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidCatalog, err)
	}

	compiler := &catalogCompiler{logger: logger}
	return compiler.Compile(file)
}

/*
========================
Catalog compiler
========================
*/

type catalogCompiler struct {
	logger *slog.Logger
}

func (c *catalogCompiler) Compile(file CatalogFile) (*Catalog, error) {
	defs := make([]Definition, 0, len(file.Synergies))
	for _, s := range file.Synergies {
		def := Definition{
			ID:          s.ID,
			Name:        s.Name,
			Description: s.Description,
			Rarity:      Rarity(s.Rarity),
		}
		for _, rs := range s.Requirements {
			def.Requirements = append(def.Requirements, c.compileRequirement(s.ID, rs))
		}
		for _, es := range s.Effects {
			def.Effects = append(def.Effects, compileEffect(es))
		}
		defs = append(defs, def)
	}

	enhancements := make([]Enhancement, 0, len(file.Enhancements))
	for _, es := range file.Enhancements {
		e := Enhancement{
			ID:            es.ID,
			ComboID:       es.Combo,
			RequiredLevel: es.Level,
			Kind:          EnhancementKind(es.Kind),
			Effect:        es.Effect,
			Multiplier:    es.Multiplier,
			Target:        es.Target,
			BaseBonus:     es.BaseBonus,
			BonusPerLevel: es.BonusPerLevel,
		}
		if es.NewEffect != nil {
			e.NewEffect = compileEffect(*es.NewEffect)
		}
		enhancements = append(enhancements, e)
	}

	edges := make([]ChainEdge, 0, len(file.Chains))
	for _, cs := range file.Chains {
		edge := ChainEdge{From: cs.From, To: cs.To, MultiplierBonus: cs.Bonus}
		for _, cond := range cs.Conditions {
			edge.Conditions = append(edge.Conditions, ChainCondition{
				Kind:   ChainConditionKind(cond.Kind),
				Effect: cond.Effect,
				Min:    cond.Min,
				Count:  cond.Count,
				Combo:  cond.Combo,
			})
		}
		edges = append(edges, edge)
	}

	conflicts := make([]Conflict, 0, len(file.Conflicts))
	for _, cf := range file.Conflicts {
		conflicts = append(conflicts, Conflict{ComboID: cf.Combo, ConflictsWith: cf.ConflictsWith})
	}

	cat, err := NewCatalog(defs, enhancements, edges, conflicts)
	if err != nil {
		return nil, err
	}

	// such an enhancement unlocks but its edge never fires
	for _, e := range enhancements {
		if e.Kind == ChainEnable && !cat.Has(e.Target) {
			c.logger.Warn("chain_enable target is not in the catalog",
				slog.String("enhancement", e.ID),
				slog.String("combo", e.ComboID),
				slog.String("target", e.Target),
			)
		}
	}
	return cat, nil
}

func (c *catalogCompiler) compileRequirement(comboID string, rs RequirementSpec) Requirement {
	op := Operator(rs.Op).orDefault()

	switch RequirementKind(rs.Kind) {
	case KindGenre:
		return GenreRequirement{Genre: toString(rs.Value), Op: op}
	case KindVenueType:
		return VenueTypeRequirement{VenueType: toString(rs.Value), Op: op}
	case KindTrait:
		return TraitRequirement{Trait: toString(rs.Value), Op: op}
	case KindEquipment:
		return EquipmentRequirement{Equipment: toString(rs.Value), Op: op}
	case KindTimeOfDay:
		return TimeOfDayRequirement{TimeOfDay: toString(rs.Value), Op: op}
	case KindAchievement:
		return AchievementRequirement{Achievement: toString(rs.Value)}
	case KindLineupSize:
		n, ok := toFloat(rs.Value)
		if !ok {
			return c.unknown(comboID, rs, "lineup_size value is not a number")
		}
		return LineupSizeRequirement{Size: int(n), Op: op}
	case KindStat:
		n, ok := toFloat(rs.Value)
		if !ok || rs.Stat == "" {
			return c.unknown(comboID, rs, "stat requirement needs stat and numeric value")
		}
		return StatRequirement{Stat: rs.Stat, Value: n, Op: op}
	}
	return c.unknown(comboID, rs, "unrecognized requirement kind")
}

func (c *catalogCompiler) unknown(comboID string, rs RequirementSpec, reason string) Requirement {
	c.logger.Warn("catalog requirement will never match",
		slog.String("combo", comboID),
		slog.String("kind", rs.Kind),
		slog.String("reason", reason),
	)
	return UnknownRequirement{RawKind: rs.Kind, Value: rs.Value}
}

func compileEffect(es EffectSpec) Effect {
	return Effect{Kind: es.Kind, Value: es.Value, Payload: es.Payload, Percent: es.Percent}
}

func toString(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	default:
		return fmt.Sprint(x)
	}
}

func toFloat(v any) (float64, bool) {
	switch x := v.(type) {
	case int:
		return float64(x), true
	case int64:
		return float64(x), true
	case float64:
		return x, true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(x), 64)
		return f, err == nil
	}
	return 0, false
}
