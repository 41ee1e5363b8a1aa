// Package sqlite provides a SQLite-backed implementation of the
// storage.Store interface using Go's standard database/sql package.
//
// WHY SQLite?
// ───────────
// It lets the service run locally without a Redis server: everything
// lives in a single file, there is no network and no separate process.
// Both keyspaces share one kv table; ephemeral entries carry an
// expires_at timestamp that reads filter on, so expiry semantics match
// the production engine closely enough for development.
//
// The blank import below registers the sqlite3 driver with database/sql.
package sqlite

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/aanand-mishra/scoring-api/internal/config"
	"github.com/aanand-mishra/scoring-api/internal/storage"

	// Blank import: side-effect only (registers the "sqlite3" driver).
	_ "github.com/mattn/go-sqlite3"
)

// SQLite is the concrete implementation of storage.Store.
// A single *sql.DB is a connection pool and is safe for concurrent use.
type SQLite struct {
	db    *sql.DB
	retry storage.RetryPolicy
}

// New opens the database at cfg.Storage.SQLitePath and creates the kv
// table if it does not already exist.
func New(cfg *config.Config) (*SQLite, error) {
	db, err := sql.Open("sqlite3", cfg.Storage.SQLitePath)
	if err != nil {
		return nil, fmt.Errorf("sqlite.New: open db: %w", err)
	}

	// expires_at is a unix timestamp; NULL means the entry never expires.
	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS kv (
			key        TEXT PRIMARY KEY,
			value      BLOB NOT NULL,
			expires_at INTEGER
		)
	`)
	if err != nil {
		return nil, fmt.Errorf("sqlite.New: create table: %w", err)
	}

	return &SQLite{
		db: db,
		retry: storage.RetryPolicy{
			Attempts: cfg.Storage.RetryAttempts,
			Delay:    cfg.Storage.RetryDelay,
		},
	}, nil
}

// get runs one retried lookup, filtering out expired entries.
// sql.ErrNoRows is a successful miss and does not consume the budget.
func (s *SQLite) get(key string) (value []byte, found bool, err error) {
	err = s.retry.Do(func() error {
		row := s.db.QueryRow(
			"SELECT value FROM kv WHERE key = ? AND (expires_at IS NULL OR expires_at > ?)",
			key, time.Now().Unix(),
		)
		var b []byte
		if err := row.Scan(&b); err != nil {
			if err == sql.ErrNoRows {
				found = false
				return nil
			}
			return err
		}
		value, found = b, true
		return nil
	})
	return value, found, err
}

func (s *SQLite) put(key string, value []byte, expiresAt any) error {
	return s.retry.Do(func() error {
		_, err := s.db.Exec(
			"INSERT OR REPLACE INTO kv (key, value, expires_at) VALUES (?, ?, ?)",
			key, value, expiresAt,
		)
		return err
	})
}

// Get fetches a durable value, surfacing the final failure.
func (s *SQLite) Get(key string) ([]byte, error) {
	value, found, err := s.get(key)
	if err != nil {
		return nil, fmt.Errorf("%w: get %q: %v", storage.ErrUnavailable, key, err)
	}
	if !found {
		return nil, storage.ErrNotFound
	}
	return value, nil
}

// Set writes a durable value with no expiry.
func (s *SQLite) Set(key string, value []byte) error {
	if err := s.put(key, value, nil); err != nil {
		return fmt.Errorf("%w: set %q: %v", storage.ErrUnavailable, key, err)
	}
	return nil
}

// CacheGet fetches an ephemeral value; failures degrade to a miss.
func (s *SQLite) CacheGet(key string) ([]byte, bool) {
	value, found, err := s.get(key)
	if err != nil {
		return nil, false
	}
	return value, found
}

// CacheSet writes an ephemeral value; failures are swallowed.
func (s *SQLite) CacheSet(key string, value []byte, ttl time.Duration) {
	var expiresAt any
	if ttl != 0 {
		expiresAt = time.Now().Add(ttl).Unix()
	}
	_ = s.put(key, value, expiresAt)
}

// Close releases the underlying connection pool.
func (s *SQLite) Close() error {
	return s.db.Close()
}
