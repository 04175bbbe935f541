package discovery

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jtomasevic/synergy/pkg/synergy"
)

type Currency string

const (
	CurrencyCash    Currency = "cash"
	CurrencyPremium Currency = "premium"
)

// Reward is granted exactly once per combo id, on its first discovery.
type Reward struct {
	Currency Currency `json:"currency"`
	Amount   int      `json:"amount"`
}

// RewardTable maps a rarity to its discovery reward.
type RewardTable map[synergy.Rarity]Reward

func DefaultRewards() RewardTable {
	return RewardTable{
		synergy.Common:    {Currency: CurrencyCash, Amount: 50},
		synergy.Uncommon:  {Currency: CurrencyCash, Amount: 150},
		synergy.Rare:      {Currency: CurrencyCash, Amount: 500},
		synergy.Legendary: {Currency: CurrencyPremium, Amount: 1},
	}
}

func (t RewardTable) For(r synergy.Rarity) (Reward, bool) {
	reward, ok := t[r]
	return reward, ok
}

// Notification is emitted for every active combo on every Resolve.
type Notification struct {
	Combo synergy.Definition

	// FirstTime is true only on the call that inserted the id into the discovered set.
	FirstTime bool

	// PreUnlocked marks achievement-gated combos. They are never rewarded.
	PreUnlocked bool

	Reward *Reward
}

// HistoryEntry is one trigger of one combo. Informational only.
type HistoryEntry struct {
	ID        uuid.UUID       `json:"id"`
	ComboID   string          `json:"combo_id"`
	At        time.Time       `json:"at"`
	FirstTime bool            `json:"first_time"`
	Context   synergy.Context `json:"context"`
}

// State is the persisted shape of the ledger.
type State struct {
	Discovered    []string       `json:"discovered"`
	TriggerCounts map[string]int `json:"trigger_counts,omitempty"`
	History       []HistoryEntry `json:"history,omitempty"`
}

// Store persists the discovered set. Load reports found=false for a fresh save.
type Store interface {
	LoadDiscovery(ctx context.Context) (state State, found bool, err error)
	SaveDiscovery(ctx context.Context, state State) error
}

// Definitions is the part of the catalog needed for collection progress.
type Definitions interface {
	All() []synergy.Definition
}

// CollectionProgress counts discovered combos out of the catalog total.
type CollectionProgress struct {
	Discovered int
	Total      int
}
