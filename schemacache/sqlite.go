package schemacache

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/dtfdb/dtfdb/schema"
)

// SQLite is a schema cache persisted in a SQLite file, shared across
// process invocations.
type SQLite struct {
	db *sql.DB
}

// OpenSQLite opens or creates a SQLite-backed cache at path.
func OpenSQLite(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open cache database: %w", err)
	}
	_, err = db.Exec(`CREATE TABLE IF NOT EXISTS schemas (
		key         TEXT PRIMARY KEY,
		schema_json TEXT NOT NULL,
		updated_at  TEXT NOT NULL
	)`)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize cache schema: %w", err)
	}
	return &SQLite{db: db}, nil
}

// Get returns the cached schema for key, or nil when absent. A corrupt
// entry is treated as absent so the caller falls back to a cold parse.
func (c *SQLite) Get(key string) (*schema.Schema, error) {
	var raw string
	err := c.db.QueryRow("SELECT schema_json FROM schemas WHERE key = ?", key).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read cache entry: %w", err)
	}
	var s schema.Schema
	if err := json.Unmarshal([]byte(raw), &s); err != nil {
		return nil, nil
	}
	return &s, nil
}

// Put stores or replaces the entry for key.
func (c *SQLite) Put(key string, s *schema.Schema) error {
	raw, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("failed to marshal schema: %w", err)
	}
	_, err = c.db.Exec(`INSERT INTO schemas (key, schema_json, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET schema_json = excluded.schema_json, updated_at = excluded.updated_at`,
		key, string(raw), time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("failed to write cache entry: %w", err)
	}
	return nil
}

// Close releases the underlying database handle.
func (c *SQLite) Close() error {
	return c.db.Close()
}
