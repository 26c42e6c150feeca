package cache

import (
	"context"
	"database/sql"
	"time"

	_ "modernc.org/sqlite" // registers the "sqlite" driver

	"github.com/ZaguanLabs/badtl"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS hops (
	key       TEXT PRIMARY KEY,
	value     TEXT NOT NULL,
	stored_at INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS hops_stored_at ON hops(stored_at);
`

// SQLiteCache persists hop results in a single SQLite file so the cache
// survives between runs without a server.
type SQLiteCache struct {
	db  *sql.DB
	ttl time.Duration
	now func() time.Time
}

// SQLiteConfig holds configuration for the SQLite cache.
type SQLiteConfig struct {
	Path string // Database file, or ":memory:"
	TTL  int    // TTL in seconds (0 = no expiration)
}

// NewSQLiteCache opens (creating if needed) the database at cfg.Path.
func NewSQLiteCache(cfg SQLiteConfig) (*SQLiteCache, error) {
	if cfg.Path == "" {
		return nil, &badtl.CacheError{Message: "sqlite path is required"}
	}

	db, err := sql.Open("sqlite", cfg.Path)
	if err != nil {
		return nil, &badtl.CacheError{Message: "open sqlite", Cause: err}
	}
	// ":memory:" databases exist per connection.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(sqliteSchema); err != nil {
		_ = db.Close()
		return nil, &badtl.CacheError{Message: "create sqlite schema", Cause: err}
	}

	var ttl time.Duration
	if cfg.TTL > 0 {
		ttl = time.Duration(cfg.TTL) * time.Second
	}

	return &SQLiteCache{db: db, ttl: ttl, now: time.Now}, nil
}

// cutoff returns the oldest stored_at still considered live, or 0 without a
// TTL.
func (c *SQLiteCache) cutoff() int64 {
	if c.ttl <= 0 {
		return 0
	}
	return c.now().Add(-c.ttl).UnixNano()
}

// Get returns the value stored under key, if present and not expired.
func (c *SQLiteCache) Get(key string) (string, bool) {
	var value string
	err := c.db.QueryRowContext(context.Background(),
		`SELECT value FROM hops WHERE key = ? AND stored_at >= ?`,
		key, c.cutoff(),
	).Scan(&value)
	if err != nil {
		return "", false
	}
	return value, true
}

// Set stores value under key, replacing any previous value.
func (c *SQLiteCache) Set(key string, value string) error {
	_, err := c.db.ExecContext(context.Background(),
		`INSERT INTO hops (key, value, stored_at) VALUES (?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value, stored_at = excluded.stored_at`,
		key, value, c.now().UnixNano(),
	)
	if err != nil {
		return &badtl.CacheError{Message: "sqlite set failed", Cause: err}
	}
	return nil
}

// Entries returns all non-expired entries.
func (c *SQLiteCache) Entries() (map[string]string, error) {
	rows, err := c.db.QueryContext(context.Background(),
		`SELECT key, value FROM hops WHERE stored_at >= ?`, c.cutoff())
	if err != nil {
		return nil, &badtl.CacheError{Message: "sqlite query failed", Cause: err}
	}
	defer rows.Close()

	result := make(map[string]string)
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return nil, &badtl.CacheError{Message: "sqlite scan failed", Cause: err}
		}
		result[key] = value
	}
	if err := rows.Err(); err != nil {
		return nil, &badtl.CacheError{Message: "sqlite rows failed", Cause: err}
	}
	return result, nil
}

// Len returns the number of stored entries, expired ones included.
func (c *SQLiteCache) Len() (int, error) {
	var n int
	if err := c.db.QueryRow(`SELECT COUNT(*) FROM hops`).Scan(&n); err != nil {
		return 0, &badtl.CacheError{Message: "sqlite count failed", Cause: err}
	}
	return n, nil
}

// Prune deletes expired entries and returns how many were removed.
func (c *SQLiteCache) Prune() (int, error) {
	if c.ttl <= 0 {
		return 0, nil
	}
	res, err := c.db.Exec(`DELETE FROM hops WHERE stored_at < ?`, c.cutoff())
	if err != nil {
		return 0, &badtl.CacheError{Message: "sqlite prune failed", Cause: err}
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, &badtl.CacheError{Message: "sqlite prune failed", Cause: err}
	}
	return int(n), nil
}

// Close closes the database.
func (c *SQLiteCache) Close() error {
	return c.db.Close()
}

var _ ExportableCache = (*SQLiteCache)(nil)
