package mastery

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/jtomasevic/synergy/pkg/synergy"
)

// Ledger tracks per-combo usage and derives mastery levels from a fixed threshold table.
// Records are created lazily on first use and written to the Store after every mutation.
type Ledger struct {
	mu sync.RWMutex

	store        Store
	enhancements EnhancementSource
	thresholds   Thresholds
	logger       *slog.Logger
	now          func() time.Time

	records map[string]*Record

	onPersistFailure func(error)
}

type Option func(*Ledger)

func WithClock(now func() time.Time) Option {
	return func(l *Ledger) { l.now = now }
}

func WithPersistFailureHook(fn func(error)) Option {
	return func(l *Ledger) { l.onPersistFailure = fn }
}

// NewLedger loads every persisted record once. Nil thresholds use DefaultThresholds;
// a nil store keeps records in memory only.
func NewLedger(ctx context.Context, store Store, enhancements EnhancementSource, thresholds Thresholds, logger *slog.Logger, opts ...Option) (*Ledger, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if thresholds == nil {
		thresholds = DefaultThresholds()
	}
	if err := thresholds.Validate(); err != nil {
		return nil, err
	}

	l := &Ledger{
		store:        store,
		enhancements: enhancements,
		thresholds:   slices.Clone(thresholds),
		logger:       logger,
		now:          time.Now,
		records:      make(map[string]*Record),
	}
	for _, opt := range opts {
		opt(l)
	}

	if store == nil {
		return l, nil
	}

	recs, err := store.LoadMastery(ctx)
	if err != nil {
		return nil, fmt.Errorf("load mastery records: %w", err)
	}
	for _, r := range recs {
		rec := r.Clone()
		// the level is derived; a stale persisted level never wins
		raised := false
		if lvl := l.thresholds.LevelFor(rec.UsageCount); lvl > rec.Level {
			rec.Level = lvl
			raised = true
		}
		unlocked := l.unlockLocked(&rec)
		if raised {
			rec.Progress = l.thresholds.Progress(rec.Level, rec.UsageCount)
		}
		l.records[rec.ComboID] = &rec

		if raised || len(unlocked) > 0 {
			l.logger.Info("mastery record normalised on load",
				slog.String("combo", rec.ComboID),
				slog.Int("level", rec.Level),
				slog.Any("unlocked", unlocked),
			)
			l.persistLocked(ctx, &rec)
		}
	}
	l.logger.Debug("mastery ledger loaded", slog.Int("records", len(l.records)))
	return l, nil
}

func (l *Ledger) Thresholds() Thresholds {
	return slices.Clone(l.thresholds)
}

// RecordUse counts one use of comboID and credits scoreGenerated to it.
// On a level-up every enhancement with RequiredLevel <= the new level that is
// not yet unlocked is unlocked; nothing is ever revoked.
// Level-0 enhancements unlock when the record is created, without a level-up.
func (l *Ledger) RecordUse(ctx context.Context, comboID synergy.ComboID, scoreGenerated float64) Record {
	l.mu.Lock()
	defer l.mu.Unlock()

	rec, created := l.recordLocked(comboID)
	oldLevel := rec.Level

	rec.UsageCount++
	rec.CumulativeScore += scoreGenerated
	rec.LastUsed = l.now()

	rec.Level = max(l.thresholds.LevelFor(rec.UsageCount), oldLevel)
	leveledUp := rec.Level > oldLevel

	// level 0 enhancements unlock with the first use
	var unlocked []string
	if leveledUp || created {
		unlocked = l.unlockLocked(rec)
	}

	if leveledUp {
		rec.Progress = 0
		l.logger.Info("mastery level up",
			slog.String("combo", comboID),
			slog.Int("from", oldLevel),
			slog.Int("to", rec.Level),
			slog.Any("unlocked", unlocked),
		)
	} else {
		rec.Progress = l.thresholds.Progress(rec.Level, rec.UsageCount)
	}

	l.persistLocked(ctx, rec)
	return rec.Clone()
}

// CreditScore adds score attributed after composition without counting a use.
func (l *Ledger) CreditScore(ctx context.Context, comboID synergy.ComboID, score float64) Record {
	l.mu.Lock()
	defer l.mu.Unlock()

	rec, _ := l.recordLocked(comboID)
	rec.CumulativeScore += score

	l.persistLocked(ctx, rec)
	return rec.Clone()
}

func (l *Ledger) Get(comboID synergy.ComboID) (Record, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	rec, ok := l.records[comboID]
	if !ok {
		return Record{}, false
	}
	return rec.Clone(), true
}

// Records returns every record sorted by combo id.
func (l *Ledger) Records() []Record {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make([]Record, 0, len(l.records))
	for _, r := range l.records {
		out = append(out, r.Clone())
	}
	slices.SortFunc(out, func(a, b Record) int {
		switch {
		case a.ComboID < b.ComboID:
			return -1
		case a.ComboID > b.ComboID:
			return 1
		}
		return 0
	})
	return out
}

/*
========================
Internals
========================
*/

func (l *Ledger) recordLocked(comboID string) (*Record, bool) {
	if rec, ok := l.records[comboID]; ok {
		return rec, false
	}
	rec := &Record{ComboID: comboID}
	l.records[comboID] = rec
	return rec, true
}

// unlockLocked appends newly reachable enhancement ids and returns them.
func (l *Ledger) unlockLocked(rec *Record) []string {
	if l.enhancements == nil {
		return nil
	}
	var unlocked []string
	for _, e := range l.enhancements.Enhancements(rec.ComboID) {
		if e.RequiredLevel > rec.Level || rec.HasUnlocked(e.ID) {
			continue
		}
		rec.UnlockedEnhancements = append(rec.UnlockedEnhancements, e.ID)
		unlocked = append(unlocked, e.ID)
	}
	return unlocked
}

func (l *Ledger) persistLocked(ctx context.Context, rec *Record) {
	if l.store == nil {
		return
	}
	if err := l.store.SaveMastery(ctx, rec.Clone()); err != nil {
		l.logger.Error("persist mastery record failed",
			slog.String("combo", rec.ComboID),
			slog.Any("err", err),
		)
		if l.onPersistFailure != nil {
			l.onPersistFailure(err)
		}
	}
}
