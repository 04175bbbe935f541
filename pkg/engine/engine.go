package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/jtomasevic/synergy/pkg/chain_graph"
	"github.com/jtomasevic/synergy/pkg/discovery"
	"github.com/jtomasevic/synergy/pkg/effect_composer"
	"github.com/jtomasevic/synergy/pkg/mastery"
	"github.com/jtomasevic/synergy/pkg/synergy"
)

var tracer = otel.Tracer("synergy.engine")

var ErrMissingDependency = errors.New("engine dependency missing")

type DiscoveryLedger interface {
	Resolve(ctx context.Context, active []synergy.Definition, snapshot synergy.Context) []discovery.Notification
}

type MasteryLedger interface {
	Get(id synergy.ComboID) (mastery.Record, bool)
	RecordUse(ctx context.Context, id synergy.ComboID, scoreGenerated float64) mastery.Record
	CreditScore(ctx context.Context, id synergy.ComboID, score float64) mastery.Record
}

type Enhancer interface {
	chain_graph.EdgeProvider
	EffectiveSet(defs []synergy.Definition) []mastery.EffectiveSynergy
}

type ChainBuilder interface {
	BuildChains(active []synergy.Definition, effectTotals map[string]float64, dynamic chain_graph.EdgeProvider) []chain_graph.Reaction
}

type Composer interface {
	Accumulate(active []synergy.Definition) effect_composer.Totals
	Compose(active []synergy.Definition, chains []chain_graph.Reaction, base effect_composer.Outcome) effect_composer.Result
	Score(res effect_composer.Result) float64
}

// Deps are the collaborators of one Engine. Metrics and Logger are optional.
type Deps struct {
	Catalog   *synergy.Catalog
	Matcher   *synergy.Matcher
	Discovery DiscoveryLedger
	Mastery   MasteryLedger
	Enhancer  Enhancer
	Graph     ChainBuilder
	Composer  Composer

	Metrics *Metrics
	Logger  *slog.Logger
}

// Resolution is everything one show resolution produced.
type Resolution struct {
	ID            uuid.UUID
	Active        []mastery.EffectiveSynergy
	Notifications []discovery.Notification
	LevelUps      []mastery.LevelUp
	Chains        []chain_graph.Reaction
	Result        effect_composer.Result
	Score         float64
}

// Engine runs show resolutions strictly one after another.
type Engine struct {
	deps Deps
}

func New(deps Deps) (*Engine, error) {
	checks := []struct {
		name    string
		missing bool
	}{
		{"catalog", deps.Catalog == nil},
		{"matcher", deps.Matcher == nil},
		{"discovery", deps.Discovery == nil},
		{"mastery", deps.Mastery == nil},
		{"enhancer", deps.Enhancer == nil},
		{"graph", deps.Graph == nil},
		{"composer", deps.Composer == nil},
	}
	for _, c := range checks {
		if c.missing {
			return nil, fmt.Errorf("%w: %s", ErrMissingDependency, c.name)
		}
	}
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	if deps.Metrics == nil {
		deps.Metrics = NewMetrics(nil)
	}
	return &Engine{deps: deps}, nil
}

func (e *Engine) Catalog() *synergy.Catalog {
	return e.deps.Catalog
}

// Resolve runs the pipeline once: match, discover, record usage, enhance,
// chain, compose, then credit the score back to every active combo.
// Catalog data problems only make combos or edges not fire; the only error is
// a cancelled context.
func (e *Engine) Resolve(ctx context.Context, snapshot synergy.Context, achievements synergy.AchievementSet, base effect_composer.Outcome) (Resolution, error) {
	ctx, span := tracer.Start(ctx, "Engine.Resolve")
	defer span.End()

	if err := ctx.Err(); err != nil {
		return Resolution{}, failSpan(span, fmt.Errorf("resolve: %w", err))
	}

	res := Resolution{ID: uuid.New()}
	logger := e.deps.Logger.With(slog.String("resolution", res.ID.String()))

	// 1) active set
	active := e.deps.Catalog.ActiveSet(e.deps.Matcher, snapshot, achievements)
	logger.Debug("active combos", slog.Int("count", len(active)))

	// 2) discovery
	res.Notifications = e.deps.Discovery.Resolve(ctx, active, snapshot)

	// 3) usage; the score is credited after composition
	for _, def := range active {
		before, _ := e.deps.Mastery.Get(def.ID)
		after := e.deps.Mastery.RecordUse(ctx, def.ID, 0)
		if after.Level > before.Level {
			res.LevelUps = append(res.LevelUps, mastery.LevelUp{
				ComboID:  def.ID,
				From:     before.Level,
				To:       after.Level,
				Unlocked: after.UnlockedEnhancements[len(before.UnlockedEnhancements):],
			})
		}
	}

	// 4) enhance
	res.Active = e.deps.Enhancer.EffectiveSet(active)
	effective := make([]synergy.Definition, 0, len(res.Active))
	for _, eff := range res.Active {
		effective = append(effective, eff.Definition)
	}

	// 5) chains over the effective combos
	totals := e.deps.Composer.Accumulate(effective)
	res.Chains = e.deps.Graph.BuildChains(effective, totals.Values(), e.deps.Enhancer)

	// 6) compose and close the mastery loop
	res.Result = e.deps.Composer.Compose(effective, res.Chains, base)
	res.Score = e.deps.Composer.Score(res.Result)
	for _, def := range active {
		e.deps.Mastery.CreditScore(ctx, def.ID, res.Score)
	}

	e.observe(res)
	span.SetAttributes(
		attribute.String("synergy.resolution_id", res.ID.String()),
		attribute.Int("synergy.active", len(res.Active)),
		attribute.Int("synergy.chains", len(res.Chains)),
		attribute.Int("synergy.discoveries", countFirstTime(res.Notifications)),
		attribute.Float64("synergy.score", res.Score),
	)
	logger.Info("show resolved",
		slog.Int("active", len(res.Active)),
		slog.Int("discoveries", countFirstTime(res.Notifications)),
		slog.Int("chains", len(res.Chains)),
		slog.Int("level_ups", len(res.LevelUps)),
		slog.Float64("score", res.Score),
	)
	return res, nil
}

func (e *Engine) observe(res Resolution) {
	m := e.deps.Metrics
	m.Resolutions.Inc()
	for _, n := range res.Notifications {
		if n.FirstTime {
			m.Discoveries.WithLabelValues(string(n.Combo.Rarity)).Inc()
		}
	}
	for _, c := range res.Chains {
		m.Chains.WithLabelValues(chainOutcome(c)).Inc()
		m.ChainLength.Observe(float64(len(c.Links)))
	}
	m.LevelUps.Add(float64(len(res.LevelUps)))
}

func failSpan(span trace.Span, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	return err
}

func chainOutcome(r chain_graph.Reaction) string {
	switch {
	case r.Interrupted:
		return outcomeInterrupted
	case len(r.Links) > 1:
		return outcomeLinked
	}
	return outcomeSingle
}

func countFirstTime(ns []discovery.Notification) int {
	n := 0
	for _, x := range ns {
		if x.FirstTime {
			n++
		}
	}
	return n
}
