package discovery

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jtomasevic/synergy/pkg/synergy"
)

const defaultHistoryLimit = 500

// Ledger owns the discovered-combo set.
// In-memory state is authoritative; every mutating call writes it back to the Store.
type Ledger struct {
	mu sync.RWMutex

	store   Store
	rewards RewardTable
	logger  *slog.Logger
	now     func() time.Time

	discovered map[string]struct{}
	triggers   map[string]int

	// history keeps at most historyLimit entries, oldest dropped first.
	history      []HistoryEntry
	historyLimit int

	onPersistFailure func(error)
}

type Option func(*Ledger)

func WithClock(now func() time.Time) Option {
	return func(l *Ledger) { l.now = now }
}

// WithHistoryLimit caps the informational history. Zero or less keeps the default.
func WithHistoryLimit(n int) Option {
	return func(l *Ledger) {
		if n > 0 {
			l.historyLimit = n
		}
	}
}

// WithPersistFailureHook is called after a failed write, in addition to logging.
func WithPersistFailureHook(fn func(error)) Option {
	return func(l *Ledger) { l.onPersistFailure = fn }
}

// NewLedger loads the discovered set once. A nil store keeps the ledger in memory only.
func NewLedger(ctx context.Context, store Store, rewards RewardTable, logger *slog.Logger, opts ...Option) (*Ledger, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if rewards == nil {
		rewards = DefaultRewards()
	}

	l := &Ledger{
		store:        store,
		rewards:      rewards,
		logger:       logger,
		now:          time.Now,
		discovered:   make(map[string]struct{}),
		triggers:     make(map[string]int),
		historyLimit: defaultHistoryLimit,
	}
	for _, opt := range opts {
		opt(l)
	}

	if store == nil {
		return l, nil
	}

	state, found, err := store.LoadDiscovery(ctx)
	if err != nil {
		return nil, fmt.Errorf("load discovery state: %w", err)
	}
	if found {
		for _, id := range state.Discovered {
			l.discovered[id] = struct{}{}
		}
		for id, n := range state.TriggerCounts {
			l.triggers[id] = n
		}
		l.history = append(l.history, state.History...)
		l.trimHistoryLocked()
	}

	l.logger.Debug("discovery ledger loaded",
		slog.Int("discovered", len(l.discovered)),
		slog.Bool("found", found),
	)
	return l, nil
}

// Resolve emits one notification per active combo, in the given order.
// A combo is rewarded only on the call that first inserts it; achievement-gated
// combos are inserted silently and never rewarded.
func (l *Ledger) Resolve(ctx context.Context, active []synergy.Definition, snapshot synergy.Context) []Notification {
	if len(active) == 0 {
		return nil
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	at := l.now()
	out := make([]Notification, 0, len(active))

	for _, def := range active {
		l.triggers[def.ID]++

		_, known := l.discovered[def.ID]
		n := Notification{Combo: def}

		switch {
		case def.AchievementGated():
			n.PreUnlocked = true
			if !known {
				l.discovered[def.ID] = struct{}{}
				l.logger.Debug("achievement combo pre-unlocked", slog.String("combo", def.ID))
			}

		case !known:
			l.discovered[def.ID] = struct{}{}
			n.FirstTime = true
			if reward, ok := l.rewards.For(def.Rarity); ok {
				r := reward
				n.Reward = &r
			} else {
				l.logger.Warn("no discovery reward for rarity",
					slog.String("combo", def.ID),
					slog.String("rarity", string(def.Rarity)),
				)
			}
			l.logger.Info("combo discovered",
				slog.String("combo", def.ID),
				slog.String("rarity", string(def.Rarity)),
			)
		}

		l.appendHistoryLocked(HistoryEntry{
			ID:        uuid.New(),
			ComboID:   def.ID,
			At:        at,
			FirstTime: n.FirstTime,
			Context:   cloneContext(snapshot),
		})
		out = append(out, n)
	}

	l.persistLocked(ctx)
	return out
}

func (l *Ledger) IsDiscovered(id string) bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	_, ok := l.discovered[id]
	return ok
}

// Discovered returns the discovered ids sorted.
func (l *Ledger) Discovered() []string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.discoveredLocked()
}

func (l *Ledger) TriggerCount(id string) int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.triggers[id]
}

// History returns a copy of the retained trigger history, oldest first.
func (l *Ledger) History() []HistoryEntry {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return slices.Clone(l.history)
}

// Progress reports discovered/total per rarity for the given catalog.
func (l *Ledger) Progress(catalog Definitions) map[synergy.Rarity]CollectionProgress {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make(map[synergy.Rarity]CollectionProgress, len(synergy.Rarities()))
	for _, r := range synergy.Rarities() {
		out[r] = CollectionProgress{}
	}
	for _, def := range catalog.All() {
		p := out[def.Rarity]
		p.Total++
		if _, ok := l.discovered[def.ID]; ok {
			p.Discovered++
		}
		out[def.Rarity] = p
	}
	return out
}

/*
========================
Internals
========================
*/

func (l *Ledger) discoveredLocked() []string {
	ids := make([]string, 0, len(l.discovered))
	for id := range l.discovered {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

func (l *Ledger) appendHistoryLocked(e HistoryEntry) {
	l.history = append(l.history, e)
	l.trimHistoryLocked()
}

func (l *Ledger) trimHistoryLocked() {
	if over := len(l.history) - l.historyLimit; over > 0 {
		l.history = slices.Delete(l.history, 0, over)
	}
}

func (l *Ledger) snapshotLocked() State {
	counts := make(map[string]int, len(l.triggers))
	for id, n := range l.triggers {
		counts[id] = n
	}
	return State{
		Discovered:    l.discoveredLocked(),
		TriggerCounts: counts,
		History:       slices.Clone(l.history),
	}
}

// persistLocked never rolls back: a failed write only costs durability.
func (l *Ledger) persistLocked(ctx context.Context) {
	if l.store == nil {
		return
	}
	if err := l.store.SaveDiscovery(ctx, l.snapshotLocked()); err != nil {
		l.logger.Error("persist discovery state failed", slog.Any("err", err))
		if l.onPersistFailure != nil {
			l.onPersistFailure(err)
		}
	}
}

func cloneContext(c synergy.Context) synergy.Context {
	c.Genres = slices.Clone(c.Genres)
	c.Traits = slices.Clone(c.Traits)
	c.Equipment = slices.Clone(c.Equipment)
	return c
}
