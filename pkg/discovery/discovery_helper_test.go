package discovery

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"time"

	"github.com/jtomasevic/synergy/pkg/synergy"
)

var errDiskFull = errors.New("disk full")

// fakeStore keeps the last saved state; failNext makes the next save fail.
type fakeStore struct {
	state    State
	found    bool
	saves    int
	failNext bool
}

func (s *fakeStore) LoadDiscovery(context.Context) (State, bool, error) {
	return s.state, s.found, nil
}

func (s *fakeStore) SaveDiscovery(_ context.Context, state State) error {
	if s.failNext {
		s.failNext = false
		return errDiskFull
	}
	s.saves++
	s.state = state
	s.found = true
	return nil
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func fixedClock() func() time.Time {
	at := time.Date(2026, 3, 14, 21, 0, 0, 0, time.UTC)
	return func() time.Time { return at }
}

func punkInBasement() synergy.Definition {
	return synergy.Definition{
		ID:           "punk_in_basement",
		Rarity:       synergy.Common,
		Requirements: synergy.Require().Genre("PUNK").VenueType("BASEMENT").List(),
	}
}

func perfectStorm() synergy.Definition {
	return synergy.Definition{ID: "perfect_storm", Rarity: synergy.Legendary}
}

func legacyHeadliner() synergy.Definition {
	return synergy.Definition{
		ID:           "legacy_headliner",
		Rarity:       synergy.Rare,
		Requirements: synergy.Require().Achievement("first_sellout_tour").List(),
	}
}

func basementContext() synergy.Context {
	return synergy.Context{Genres: []string{"PUNK"}, VenueType: "BASEMENT"}
}

type staticCatalog []synergy.Definition

func (c staticCatalog) All() []synergy.Definition { return c }
