// Package persistence holds the save-game adapters for the discovery and mastery ledgers.
package persistence

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/jtomasevic/synergy/pkg/discovery"
	"github.com/jtomasevic/synergy/pkg/mastery"
)

// Store is implemented by every adapter in this package.
type Store interface {
	discovery.Store
	mastery.Store
	io.Closer
}

type Kind string

const (
	KindMemory Kind = "memory"
	KindSQLite Kind = "sqlite"
	KindBadger Kind = "badger"
)

var ErrUnknownKind = errors.New("unknown store kind")

var (
	_ Store = (*MemoryStore)(nil)
	_ Store = (*SQLiteStore)(nil)
	_ Store = (*BadgerStore)(nil)
)

// Options selects and configures one adapter.
type Options struct {
	Kind       Kind
	SQLitePath string
	BadgerPath string
	Logger     *slog.Logger
}

// Open builds the adapter named by opts.Kind.
func Open(opts Options) (Store, error) {
	switch opts.Kind {
	case KindMemory, "":
		return NewMemoryStore(), nil
	case KindSQLite:
		return OpenSQLite(opts.SQLitePath)
	case KindBadger:
		cfg := DefaultBadgerConfig()
		cfg.Path = opts.BadgerPath
		cfg.Logger = opts.Logger
		return OpenBadger(cfg)
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownKind, opts.Kind)
}
