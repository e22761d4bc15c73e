// Package store owns the single SQLite connection: schema creation, the
// connection lifecycle, and the query surface used by the record services.
package store

import (
	"database/sql"
	"fmt"
	"sync/atomic"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/halstein/pulse/internal/apperr"
)

// SchemaVersion is recorded in the settings table on every open.
const SchemaVersion = "1"

const schemaSQL = `
CREATE TABLE IF NOT EXISTS projects (
	id             TEXT PRIMARY KEY,
	name           TEXT NOT NULL,
	description    TEXT NOT NULL DEFAULT '',
	status         TEXT NOT NULL DEFAULT 'active' CHECK (status IN ('active', 'on-hold', 'completed', 'archived')),
	color          TEXT,
	icon           TEXT,
	is_published   INTEGER NOT NULL DEFAULT 0,
	created_at     DATETIME NOT NULL,
	updated_at     DATETIME NOT NULL,
	azure_sync_id  TEXT,
	last_synced_at DATETIME
);

CREATE TABLE IF NOT EXISTS updates (
	id               TEXT PRIMARY KEY,
	project_id       TEXT NOT NULL REFERENCES projects(id) ON DELETE CASCADE,
	content          TEXT NOT NULL,
	content_plain    TEXT NOT NULL DEFAULT '',
	category         TEXT,
	created_at       DATETIME NOT NULL,
	updated_at       DATETIME NOT NULL,
	improved_content TEXT,
	azure_sync_id    TEXT,
	last_synced_at   DATETIME
);

CREATE TABLE IF NOT EXISTS settings (
	key        TEXT PRIMARY KEY,
	value      TEXT NOT NULL,
	updated_at DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_updates_project_id ON updates(project_id);
CREATE INDEX IF NOT EXISTS idx_updates_created_at ON updates(created_at);
CREATE INDEX IF NOT EXISTS idx_projects_status ON projects(status);
`

// Store wraps the SQLite handle. A nil or closed Store fails every
// operation fast with apperr.ErrClosed rather than silently reopening.
type Store struct {
	conn   *sql.DB
	closed atomic.Bool
}

// Open opens (or creates) the database at path, enables WAL and foreign
// keys, and applies the schema. Schema creation is idempotent.
func Open(path string) (*Store, error) {
	conn, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("store: open db: %w", err)
	}
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("store: ping: %w", err)
	}
	if _, err := conn.Exec(schemaSQL); err != nil {
		conn.Close()
		return nil, fmt.Errorf("store: apply schema: %w", err)
	}
	if err := initSearch(conn); err != nil {
		conn.Close()
		return nil, fmt.Errorf("store: apply search schema: %w", err)
	}
	s := &Store{conn: conn}
	if err := s.SetSetting(SchemaVersionKey, SchemaVersion, time.Now().UTC()); err != nil {
		conn.Close()
		return nil, fmt.Errorf("store: record schema version: %w", err)
	}
	return s, nil
}

// Close releases the connection. Safe to call more than once; only the
// first call closes the handle.
func (s *Store) Close() error {
	if s.closed.CompareAndSwap(false, true) {
		return s.conn.Close()
	}
	return nil
}

// db returns the live handle or ErrClosed.
func (s *Store) db() (*sql.DB, error) {
	if s == nil || s.conn == nil || s.closed.Load() {
		return nil, apperr.ErrClosed
	}
	return s.conn, nil
}

// withTx runs fn inside a transaction: commit on nil error, rollback on any
// error or panic path. Every multi-statement write goes through here so
// either all rows change or none do.
func (s *Store) withTx(fn func(tx *sql.Tx) error) error {
	conn, err := s.db()
	if err != nil {
		return err
	}
	tx, err := conn.Begin()
	if err != nil {
		return fmt.Errorf("store: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // best-effort on failure path

	if err := fn(tx); err != nil {
		return err
	}
	return tx.Commit()
}
