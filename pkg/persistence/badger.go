package persistence

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/dgraph-io/badger/v4"
	"github.com/jtomasevic/synergy/pkg/discovery"
	"github.com/jtomasevic/synergy/pkg/mastery"
)

const (
	badgerDiscoveryKey   = "discovery/state"
	badgerMasteryPrefix  = "mastery/"
	badgerDirPermissions = 0o750
)

// BadgerConfig configures the embedded key-value save.
type BadgerConfig struct {
	// Path is ignored when InMemory is set.
	Path     string
	InMemory bool

	SyncWrites bool

	// Logger receives badger's internal logs. Nil silences them.
	Logger *slog.Logger
}

func DefaultBadgerConfig() BadgerConfig {
	return BadgerConfig{SyncWrites: true}
}

// InMemoryBadgerConfig is meant for tests.
func InMemoryBadgerConfig() BadgerConfig {
	return BadgerConfig{InMemory: true}
}

// BadgerStore keeps the discovery state under one key and each mastery record
// under its own key.
type BadgerStore struct {
	db *badger.DB
}

func OpenBadger(cfg BadgerConfig) (*BadgerStore, error) {
	if !cfg.InMemory && cfg.Path == "" {
		return nil, errors.New("badger path is required for a persistent store")
	}

	var opts badger.Options
	if cfg.InMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		if err := os.MkdirAll(cfg.Path, badgerDirPermissions); err != nil {
			return nil, fmt.Errorf("create badger directory %s: %w", cfg.Path, err)
		}
		opts = badger.DefaultOptions(cfg.Path)
	}
	opts = opts.WithSyncWrites(cfg.SyncWrites).WithNumVersionsToKeep(1)

	if cfg.Logger != nil {
		opts = opts.WithLogger(&badgerLogger{logger: cfg.Logger})
	} else {
		opts = opts.WithLogger(nil)
	}

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger database: %w", err)
	}
	return &BadgerStore{db: db}, nil
}

func (s *BadgerStore) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *BadgerStore) LoadDiscovery(_ context.Context) (discovery.State, bool, error) {
	var st discovery.State
	found := false

	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(badgerDiscoveryKey))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		found = true
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &st)
		})
	})
	if err != nil {
		return discovery.State{}, false, fmt.Errorf("load discovery state: %w", err)
	}
	return st, found, nil
}

func (s *BadgerStore) SaveDiscovery(_ context.Context, state discovery.State) error {
	payload, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("encode discovery state: %w", err)
	}
	if err := s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(badgerDiscoveryKey), payload)
	}); err != nil {
		return fmt.Errorf("save discovery state: %w", err)
	}
	return nil
}

// LoadMastery iterates the mastery prefix; badger yields keys in byte order.
func (s *BadgerStore) LoadMastery(_ context.Context) ([]mastery.Record, error) {
	var out []mastery.Record

	err := s.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		prefix := []byte(badgerMasteryPrefix)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			item := it.Item()
			var rec mastery.Record
			if err := item.Value(func(val []byte) error {
				return json.Unmarshal(val, &rec)
			}); err != nil {
				return fmt.Errorf("decode %s: %w", item.Key(), err)
			}
			out = append(out, rec)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("load mastery records: %w", err)
	}
	return out, nil
}

func (s *BadgerStore) SaveMastery(_ context.Context, rec mastery.Record) error {
	payload, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("encode mastery record %s: %w", rec.ComboID, err)
	}
	if err := s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(badgerMasteryPrefix+rec.ComboID), payload)
	}); err != nil {
		return fmt.Errorf("save mastery record %s: %w", rec.ComboID, err)
	}
	return nil
}

// badgerLogger adapts slog to badger.Logger.
type badgerLogger struct {
	logger *slog.Logger
}

func (l *badgerLogger) Errorf(format string, args ...any) {
	l.logger.Error(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Warningf(format string, args ...any) {
	l.logger.Warn(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Infof(format string, args ...any) {
	l.logger.Info(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Debugf(format string, args ...any) {
	l.logger.Debug(fmt.Sprintf(format, args...))
}
