package persistence

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/jtomasevic/synergy/pkg/discovery"
	"github.com/jtomasevic/synergy/pkg/mastery"
	_ "modernc.org/sqlite"
)

const discoveryBucket = "discovery"

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS state (
	bucket  TEXT PRIMARY KEY,
	payload BLOB NOT NULL
);
CREATE TABLE IF NOT EXISTS mastery (
	combo_id TEXT PRIMARY KEY,
	payload  BLOB NOT NULL
);`

// SQLiteStore keeps the discovery state as one JSON snapshot row and one
// JSON row per mastery record.
type SQLiteStore struct {
	db *sql.DB
}

func OpenSQLite(path string) (*SQLiteStore, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("sqlite path is required")
	}

	dsn := filepath.Clean(path) + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if _, err := db.Exec(sqliteSchema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create sqlite schema: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *SQLiteStore) LoadDiscovery(ctx context.Context) (discovery.State, bool, error) {
	var payload []byte
	err := s.db.QueryRowContext(ctx,
		`SELECT payload FROM state WHERE bucket = ?`, discoveryBucket,
	).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return discovery.State{}, false, nil
	}
	if err != nil {
		return discovery.State{}, false, fmt.Errorf("load discovery state: %w", err)
	}

	var st discovery.State
	if err := json.Unmarshal(payload, &st); err != nil {
		return discovery.State{}, false, fmt.Errorf("decode discovery state: %w", err)
	}
	return st, true, nil
}

func (s *SQLiteStore) SaveDiscovery(ctx context.Context, state discovery.State) error {
	payload, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("encode discovery state: %w", err)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO state (bucket, payload) VALUES (?, ?)
		 ON CONFLICT(bucket) DO UPDATE SET payload = excluded.payload`,
		discoveryBucket, payload,
	)
	if err != nil {
		return fmt.Errorf("save discovery state: %w", err)
	}
	return nil
}

func (s *SQLiteStore) LoadMastery(ctx context.Context) ([]mastery.Record, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT combo_id, payload FROM mastery ORDER BY combo_id`)
	if err != nil {
		return nil, fmt.Errorf("load mastery records: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []mastery.Record
	for rows.Next() {
		var id string
		var payload []byte
		if err := rows.Scan(&id, &payload); err != nil {
			return nil, fmt.Errorf("scan mastery record: %w", err)
		}
		var rec mastery.Record
		if err := json.Unmarshal(payload, &rec); err != nil {
			return nil, fmt.Errorf("decode mastery record %s: %w", id, err)
		}
		rec.ComboID = id
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate mastery records: %w", err)
	}
	return out, nil
}

func (s *SQLiteStore) SaveMastery(ctx context.Context, rec mastery.Record) error {
	payload, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("encode mastery record %s: %w", rec.ComboID, err)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO mastery (combo_id, payload) VALUES (?, ?)
		 ON CONFLICT(combo_id) DO UPDATE SET payload = excluded.payload`,
		rec.ComboID, payload,
	)
	if err != nil {
		return fmt.Errorf("save mastery record %s: %w", rec.ComboID, err)
	}
	return nil
}
