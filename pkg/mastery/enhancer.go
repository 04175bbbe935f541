package mastery

import (
	"log/slog"
	"slices"

	"github.com/jtomasevic/synergy/pkg/synergy"
)

// Catalog is the read-only catalog view the Enhancer needs.
type Catalog interface {
	Get(id synergy.ComboID) (synergy.Definition, bool)
	Enhancements(id synergy.ComboID) []synergy.Enhancement
}

// EffectiveSynergy is a definition with its unlocked enhancements applied.
type EffectiveSynergy struct {
	synergy.Definition

	Level int

	// Applied lists the enhancement ids that shaped this value, in application order.
	Applied []string

	// Edges are the chain edges unlocked by chain_enable enhancements.
	Edges []synergy.ChainEdge
}

// Enhancer derives effective combos from the catalog and the current mastery records.
// It never mutates either; every call starts again from the base definition.
type Enhancer struct {
	catalog Catalog
	records RecordSource
	logger  *slog.Logger
}

func NewEnhancer(catalog Catalog, records RecordSource, logger *slog.Logger) *Enhancer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Enhancer{catalog: catalog, records: records, logger: logger}
}

// Effective returns the enhanced version of comboID. Unknown ids report false.
func (e *Enhancer) Effective(comboID synergy.ComboID) (EffectiveSynergy, bool) {
	base, ok := e.catalog.Get(comboID)
	if !ok {
		return EffectiveSynergy{}, false
	}
	return e.apply(base), true
}

// EffectiveSet enhances every definition, keeping order.
func (e *Enhancer) EffectiveSet(defs []synergy.Definition) []EffectiveSynergy {
	out := make([]EffectiveSynergy, 0, len(defs))
	for _, def := range defs {
		out = append(out, e.apply(def))
	}
	return out
}

// EdgesFrom returns the dynamic chain edges sourced at comboID.
func (e *Enhancer) EdgesFrom(comboID synergy.ComboID) []synergy.ChainEdge {
	rec, ok := e.records.Get(comboID)
	if !ok || len(rec.UnlockedEnhancements) == 0 {
		return nil
	}

	var edges []synergy.ChainEdge
	for _, enh := range e.catalog.Enhancements(comboID) {
		if enh.Kind != synergy.ChainEnable || !rec.HasUnlocked(enh.ID) {
			continue
		}
		edges = append(edges, chainEdgeFor(enh, rec.Level))
	}
	return edges
}

func (e *Enhancer) apply(base synergy.Definition) EffectiveSynergy {
	out := EffectiveSynergy{Definition: base.Clone()}

	rec, ok := e.records.Get(base.ID)
	if !ok {
		return out
	}
	out.Level = rec.Level

	for _, enh := range e.catalog.Enhancements(base.ID) {
		if !rec.HasUnlocked(enh.ID) {
			continue
		}

		switch enh.Kind {
		case synergy.EffectBoost:
			i := slices.IndexFunc(out.Effects, func(eff synergy.Effect) bool {
				return eff.Kind == enh.Effect
			})
			if i < 0 {
				e.logger.Debug("effect boost has nothing to boost",
					slog.String("combo", base.ID),
					slog.String("enhancement", enh.ID),
					slog.String("effect", enh.Effect),
				)
				continue
			}
			out.Effects[i].Value *= enh.Multiplier

		case synergy.NewEffect:
			out.Effects = append(out.Effects, enh.NewEffect)

		case synergy.ChainEnable:
			out.Edges = append(out.Edges, chainEdgeFor(enh, rec.Level))

		default:
			e.logger.Warn("unknown enhancement kind",
				slog.String("combo", base.ID),
				slog.String("enhancement", enh.ID),
				slog.String("kind", string(enh.Kind)),
			)
			continue
		}
		out.Applied = append(out.Applied, enh.ID)
	}
	return out
}

func chainEdgeFor(enh synergy.Enhancement, level int) synergy.ChainEdge {
	return synergy.ChainEdge{
		From:            enh.ComboID,
		To:              enh.Target,
		MultiplierBonus: enh.ChainBonusAt(level),
	}
}
