package mastery

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/jtomasevic/synergy/pkg/synergy"
	"github.com/stretchr/testify/require"
)

const (
	PunkInBasement = "punk_in_basement"
	PunkUnity      = "punk_unity"
	LateNight      = "late_night_ritual"
)

var errDiskFull = errors.New("disk full")

type fakeStore struct {
	records  map[string]Record
	saves    int
	failNext bool
}

func newFakeStore() *fakeStore {
	return &fakeStore{records: make(map[string]Record)}
}

func (s *fakeStore) LoadMastery(context.Context) ([]Record, error) {
	out := make([]Record, 0, len(s.records))
	for _, r := range s.records {
		out = append(out, r)
	}
	return out, nil
}

func (s *fakeStore) SaveMastery(_ context.Context, rec Record) error {
	if s.failNext {
		s.failNext = false
		return errDiskFull
	}
	s.saves++
	s.records[rec.ComboID] = rec
	return nil
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func fixedClock() func() time.Time {
	at := time.Date(2026, 3, 14, 21, 0, 0, 0, time.UTC)
	return func() time.Time { return at }
}

// testCatalog mirrors the showcase enhancements on three combos.
func testCatalog(t *testing.T) *synergy.Catalog {
	t.Helper()

	defs := []synergy.Definition{
		{
			ID:     PunkInBasement,
			Rarity: synergy.Common,
			Effects: []synergy.Effect{
				{Kind: synergy.EffectAttendance, Value: 20, Percent: true},
				{Kind: synergy.EffectAuthenticity, Value: 10},
			},
		},
		{
			ID:      PunkUnity,
			Rarity:  synergy.Uncommon,
			Effects: []synergy.Effect{{Kind: synergy.EffectAuthenticity, Value: 30}},
		},
		{
			ID:      LateNight,
			Rarity:  synergy.Uncommon,
			Effects: []synergy.Effect{{Kind: synergy.EffectEnergy, Value: 15}},
		},
	}
	enhancements := []synergy.Enhancement{
		{ID: "basement_roots", ComboID: PunkInBasement, RequiredLevel: 1, Kind: synergy.EffectBoost, Effect: synergy.EffectAuthenticity, Multiplier: 1.5},
		{ID: "basement_mosh_pit", ComboID: PunkInBasement, RequiredLevel: 2, Kind: synergy.NewEffect, NewEffect: synergy.Effect{Kind: "intimidation", Value: 20}},
		{ID: "basement_echo", ComboID: PunkInBasement, RequiredLevel: 3, Kind: synergy.EffectBoost, Effect: synergy.EffectRevenue, Multiplier: 2},
		{ID: "unity_wildfire", ComboID: PunkUnity, RequiredLevel: 1, Kind: synergy.ChainEnable, Target: LateNight, BaseBonus: 0.2, BonusPerLevel: 0.05},
	}

	cat, err := synergy.NewCatalog(defs, enhancements, nil, nil)
	require.NoError(t, err)
	return cat
}

func newTestLedger(t *testing.T, store Store, cat *synergy.Catalog) *Ledger {
	t.Helper()
	l, err := NewLedger(context.Background(), store, cat, nil, quietLogger(), WithClock(fixedClock()))
	require.NoError(t, err)
	return l
}

func useN(l *Ledger, id string, n int) Record {
	var rec Record
	for range n {
		rec = l.RecordUse(context.Background(), id, 0)
	}
	return rec
}
