package persistence

import (
	"context"
	"slices"
	"sync"

	"github.com/jtomasevic/synergy/pkg/discovery"
	"github.com/jtomasevic/synergy/pkg/mastery"
)

// MemoryStore keeps saves for the lifetime of the process.
type MemoryStore struct {
	mu sync.RWMutex

	discovery *discovery.State
	mastery   map[string]mastery.Record
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{mastery: make(map[string]mastery.Record)}
}

func (s *MemoryStore) LoadDiscovery(context.Context) (discovery.State, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.discovery == nil {
		return discovery.State{}, false, nil
	}
	return cloneState(*s.discovery), true, nil
}

func (s *MemoryStore) SaveDiscovery(_ context.Context, state discovery.State) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := cloneState(state)
	s.discovery = &st
	return nil
}

// LoadMastery returns records sorted by combo id.
func (s *MemoryStore) LoadMastery(context.Context) ([]mastery.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]mastery.Record, 0, len(s.mastery))
	for _, id := range sortedKeys(s.mastery) {
		out = append(out, s.mastery[id].Clone())
	}
	return out, nil
}

func (s *MemoryStore) SaveMastery(_ context.Context, rec mastery.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.mastery[rec.ComboID] = rec.Clone()
	return nil
}

func (s *MemoryStore) Close() error {
	return nil
}

func cloneState(st discovery.State) discovery.State {
	out := discovery.State{
		Discovered: slices.Clone(st.Discovered),
		History:    slices.Clone(st.History),
	}
	if st.TriggerCounts != nil {
		out.TriggerCounts = make(map[string]int, len(st.TriggerCounts))
		for k, v := range st.TriggerCounts {
			out.TriggerCounts[k] = v
		}
	}
	return out
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
