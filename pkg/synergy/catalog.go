package synergy

import (
	"fmt"
	"slices"
)

// Catalog is the immutable registry of combo definitions, their enhancements,
// and the static chain edges and conflicts between them.
// It is built once at startup; every accessor returns copies.
type Catalog struct {
	defs  []Definition
	index map[ComboID]int

	enhancements map[ComboID][]Enhancement
	edges        []ChainEdge
	conflicts    []Conflict
}

// NewCatalog validates the supplied content and freezes it.
// Duplicate ids, and enhancements or conflicts naming unknown combos, are load errors.
// Chain edges are kept as-is; the chain graph resolves their references.
func NewCatalog(defs []Definition, enhancements []Enhancement, edges []ChainEdge, conflicts []Conflict) (*Catalog, error) {
	c := &Catalog{
		defs:         make([]Definition, 0, len(defs)),
		index:        make(map[ComboID]int, len(defs)),
		enhancements: make(map[ComboID][]Enhancement),
	}

	for _, def := range defs {
		if def.ID == "" {
			return nil, fmt.Errorf("%w: definition without id", ErrInvalidCatalog)
		}
		if _, dup := c.index[def.ID]; dup {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateCombo, def.ID)
		}
		if !def.Rarity.Valid() {
			return nil, fmt.Errorf("%w: combo %s has rarity %q", ErrInvalidCatalog, def.ID, def.Rarity)
		}
		c.index[def.ID] = len(c.defs)
		c.defs = append(c.defs, def.Clone())
	}

	seenEnhancements := make(map[string]bool, len(enhancements))
	for _, e := range enhancements {
		if _, ok := c.index[e.ComboID]; !ok {
			return nil, fmt.Errorf("%w: enhancement %s belongs to %s", ErrUnknownCombo, e.ID, e.ComboID)
		}
		if seenEnhancements[e.ID] {
			return nil, fmt.Errorf("%w: duplicate enhancement id %s", ErrInvalidCatalog, e.ID)
		}
		seenEnhancements[e.ID] = true
		if err := validateEnhancement(e); err != nil {
			return nil, err
		}
		c.enhancements[e.ComboID] = append(c.enhancements[e.ComboID], e)
	}

	for _, cf := range conflicts {
		if _, ok := c.index[cf.ComboID]; !ok {
			return nil, fmt.Errorf("%w: conflict declared by %s", ErrUnknownCombo, cf.ComboID)
		}
		for _, other := range cf.ConflictsWith {
			if _, ok := c.index[other]; !ok {
				return nil, fmt.Errorf("%w: %s conflicts with %s", ErrUnknownCombo, cf.ComboID, other)
			}
		}
		c.conflicts = append(c.conflicts, Conflict{
			ComboID:       cf.ComboID,
			ConflictsWith: slices.Clone(cf.ConflictsWith),
		})
	}

	for _, e := range edges {
		c.edges = append(c.edges, cloneEdge(e))
	}

	return c, nil
}

func validateEnhancement(e Enhancement) error {
	if e.RequiredLevel < 0 {
		return fmt.Errorf("%w: enhancement %s requires level %d", ErrInvalidCatalog, e.ID, e.RequiredLevel)
	}
	switch e.Kind {
	case EffectBoost:
		if e.Effect == "" || e.Multiplier <= 0 {
			return fmt.Errorf("%w: effect_boost %s needs effect and positive multiplier", ErrInvalidCatalog, e.ID)
		}
	case NewEffect:
		if e.NewEffect.Kind == "" {
			return fmt.Errorf("%w: new_effect %s without effect kind", ErrInvalidCatalog, e.ID)
		}
	case ChainEnable:
		if e.Target == "" {
			return fmt.Errorf("%w: chain_enable %s without target", ErrInvalidCatalog, e.ID)
		}
	default:
		return fmt.Errorf("%w: enhancement %s has kind %q", ErrInvalidCatalog, e.ID, e.Kind)
	}
	return nil
}

func cloneEdge(e ChainEdge) ChainEdge {
	e.Conditions = slices.Clone(e.Conditions)
	return e
}

func (c *Catalog) Len() int {
	return len(c.defs)
}

func (c *Catalog) Get(id ComboID) (Definition, bool) {
	i, ok := c.index[id]
	if !ok {
		return Definition{}, false
	}
	return c.defs[i].Clone(), true
}

func (c *Catalog) Has(id ComboID) bool {
	_, ok := c.index[id]
	return ok
}

// All returns every definition in catalog order.
func (c *Catalog) All() []Definition {
	out := make([]Definition, 0, len(c.defs))
	for _, d := range c.defs {
		out = append(out, d.Clone())
	}
	return out
}

// Enhancements returns the enhancements of one combo in definition order.
func (c *Catalog) Enhancements(id ComboID) []Enhancement {
	return slices.Clone(c.enhancements[id])
}

func (c *Catalog) ChainEdges() []ChainEdge {
	out := make([]ChainEdge, 0, len(c.edges))
	for _, e := range c.edges {
		out = append(out, cloneEdge(e))
	}
	return out
}

func (c *Catalog) Conflicts() []Conflict {
	out := make([]Conflict, 0, len(c.conflicts))
	for _, cf := range c.conflicts {
		out = append(out, Conflict{ComboID: cf.ComboID, ConflictsWith: slices.Clone(cf.ConflictsWith)})
	}
	return out
}

// ActiveSet returns, in catalog order, every combo whose requirements all hold.
func (c *Catalog) ActiveSet(m *Matcher, ctx Context, achievements AchievementSet) []Definition {
	var out []Definition
	for _, d := range c.defs {
		if m.Active(d, ctx, achievements) {
			out = append(out, d.Clone())
		}
	}
	return out
}
