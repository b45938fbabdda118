// Package store covers the SQLite side of the toolkit: completion caching
// for the normalize stage and dataset export for downstream querying.
package store

import (
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

// Cache persists model completions keyed by a hash of (model, prompt) so a
// rerun over the same dataset does not hit the endpoint again.
type Cache struct {
	db *sql.DB
}

// OpenCache opens (creating if needed) a completion cache at path.
func OpenCache(path string) (*Cache, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	const schema = `CREATE TABLE IF NOT EXISTS completions (
		key        TEXT PRIMARY KEY,
		run_id     TEXT NOT NULL,
		model      TEXT NOT NULL,
		completion TEXT NOT NULL,
		created_at TEXT NOT NULL
	)`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("init completion cache: %w", err)
	}
	return &Cache{db: db}, nil
}

// Close releases the underlying database.
func (c *Cache) Close() error {
	return c.db.Close()
}

// Key derives the cache key for one request.
func Key(model, prompt string) string {
	sum := sha256.Sum256([]byte(model + "\x00" + prompt))
	return hex.EncodeToString(sum[:])
}

// Get returns the cached completion for key, reporting whether it exists.
func (c *Cache) Get(key string) (string, bool, error) {
	var completion string
	err := c.db.QueryRow(`SELECT completion FROM completions WHERE key = ?`, key).Scan(&completion)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return completion, true, nil
}

// Put stores a completion, overwriting any previous entry for the key.
func (c *Cache) Put(key, runID, model, completion string) error {
	_, err := c.db.Exec(
		`INSERT INTO completions (key, run_id, model, completion, created_at)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET
		   run_id = excluded.run_id, completion = excluded.completion, created_at = excluded.created_at`,
		key, runID, model, completion, time.Now().UTC().Format(time.RFC3339),
	)
	return err
}
