package mastery

import (
	"context"
	"slices"
	"time"

	"github.com/jtomasevic/synergy/pkg/synergy"
)

// Record is the per-combo mastery state. Level only ever goes up.
type Record struct {
	ComboID              string    `json:"combo_id"`
	UsageCount           int       `json:"usage_count"`
	Level                int       `json:"level"`
	Progress             float64   `json:"progress"`
	UnlockedEnhancements []string  `json:"unlocked_enhancements"`
	CumulativeScore      float64   `json:"cumulative_score"`
	LastUsed             time.Time `json:"last_used"`
}

func (r Record) Clone() Record {
	r.UnlockedEnhancements = slices.Clone(r.UnlockedEnhancements)
	return r
}

func (r Record) HasUnlocked(enhancementID string) bool {
	return slices.Contains(r.UnlockedEnhancements, enhancementID)
}

// LevelUp describes one level transition observed by a caller.
type LevelUp struct {
	ComboID  string
	From     int
	To       int
	Unlocked []string
}

// Store persists one Record per combo id.
type Store interface {
	LoadMastery(ctx context.Context) ([]Record, error)
	SaveMastery(ctx context.Context, rec Record) error
}

// EnhancementSource lists the enhancements of a combo in definition order.
type EnhancementSource interface {
	Enhancements(id synergy.ComboID) []synergy.Enhancement
}

// RecordSource is the read side of the Ledger used by the Enhancer.
type RecordSource interface {
	Get(id synergy.ComboID) (Record, bool)
}
