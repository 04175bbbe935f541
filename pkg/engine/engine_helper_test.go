package engine

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/jtomasevic/synergy/pkg/discovery"
	"github.com/jtomasevic/synergy/pkg/effect_composer"
	"github.com/jtomasevic/synergy/pkg/mastery"
	"github.com/jtomasevic/synergy/pkg/persistence"
	"github.com/jtomasevic/synergy/pkg/synergy"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func showcase(t *testing.T) *synergy.Catalog {
	t.Helper()
	cat, err := synergy.DefaultCatalog(quietLogger())
	require.NoError(t, err)
	return cat
}

type testRig struct {
	engine     *Engine
	components Components
	registry   *prometheus.Registry
}

func newRig(t *testing.T, store Store, settings Settings) testRig {
	t.Helper()
	reg := prometheus.NewRegistry()
	settings.Registerer = reg

	eng, comps, err := Build(context.Background(), showcase(t), store, settings, quietLogger())
	require.NoError(t, err)
	return testRig{engine: eng, components: comps, registry: reg}
}

func (r testRig) resolve(t *testing.T, snapshot synergy.Context, achievements synergy.AchievementSet) Resolution {
	t.Helper()
	res, err := r.engine.Resolve(context.Background(), snapshot, achievements, baseOutcome())
	require.NoError(t, err)
	return res
}

func baseOutcome() effect_composer.Outcome {
	return effect_composer.Outcome{Attendance: 100, Revenue: 1000}
}

// basementShow activates punk_in_basement only.
func basementShow() synergy.Context {
	return synergy.Context{Genres: []string{"PUNK"}, VenueType: "BASEMENT", LineupSize: 1}
}

// scenesterShow activates punk_in_basement, punk_unity, scene_explosion,
// diy_ethos and late_night_ritual.
func scenesterShow() synergy.Context {
	return synergy.Context{
		Genres:     []string{"PUNK", "JAZZ"},
		Traits:     []string{"diy"},
		VenueType:  "BASEMENT",
		LineupSize: 3,
		TimeOfDay:  "late_night",
	}
}

// failingStore loads nothing and fails every write.
type failingStore struct{}

var errReadOnly = errors.New("read-only save")

func (failingStore) LoadDiscovery(context.Context) (discovery.State, bool, error) {
	return discovery.State{}, false, nil
}

func (failingStore) SaveDiscovery(context.Context, discovery.State) error {
	return errReadOnly
}

func (failingStore) LoadMastery(context.Context) ([]mastery.Record, error) {
	return nil, nil
}

func (failingStore) SaveMastery(context.Context, mastery.Record) error {
	return errReadOnly
}

func ids(notifications []discovery.Notification) []string {
	out := make([]string, 0, len(notifications))
	for _, n := range notifications {
		out = append(out, n.Combo.ID)
	}
	return out
}

var _ Store = persistence.NewMemoryStore()
