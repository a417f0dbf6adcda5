package cache

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"
)

// SQLiteCache is a SQLite-backed response cache. The cache contract has no
// error channel, so storage failures are logged and degrade to misses.
type SQLiteCache struct {
	db     *sql.DB
	logger *zap.Logger
	now    func() time.Time
}

// NewSQLiteCache opens (and if needed initializes) a SQLite-backed cache.
func NewSQLiteCache(dbPath string, logger *zap.Logger) (*SQLiteCache, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite cache: %w", err)
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS response_cache (
			cache_key TEXT PRIMARY KEY,
			payload BLOB NOT NULL,
			expires_at INTEGER NOT NULL
		)
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("create cache table: %w", err)
	}

	return &SQLiteCache{
		db:     db,
		logger: logger,
		now:    time.Now,
	}, nil
}

// Get returns the payload for key; an expired row is deleted and reported
// as a miss.
func (c *SQLiteCache) Get(key string) ([]byte, bool) {
	var payload []byte
	var expiresAt int64

	err := c.db.QueryRow(`
		SELECT payload, expires_at FROM response_cache WHERE cache_key = ?
	`, key).Scan(&payload, &expiresAt)
	if err != nil {
		if err != sql.ErrNoRows {
			c.logger.Error("sqlite cache read failed", zap.String("key", key), zap.Error(err))
		}
		return nil, false
	}

	if c.now().UnixNano() > expiresAt {
		if _, err := c.db.Exec(`DELETE FROM response_cache WHERE cache_key = ?`, key); err != nil {
			c.logger.Error("sqlite cache eviction failed", zap.String("key", key), zap.Error(err))
		}
		return nil, false
	}

	return payload, true
}

// Set stores the payload under key, overwriting any existing row.
func (c *SQLiteCache) Set(key string, payload []byte, ttl time.Duration) {
	_, err := c.db.Exec(`
		INSERT OR REPLACE INTO response_cache (cache_key, payload, expires_at)
		VALUES (?, ?, ?)
	`, key, payload, c.now().Add(ttl).UnixNano())
	if err != nil {
		c.logger.Error("sqlite cache write failed", zap.String("key", key), zap.Error(err))
	}
}

// Clear empties the cache unconditionally.
func (c *SQLiteCache) Clear() {
	if _, err := c.db.Exec(`DELETE FROM response_cache`); err != nil {
		c.logger.Error("sqlite cache clear failed", zap.Error(err))
	}
}

// Close closes the underlying database.
func (c *SQLiteCache) Close() error {
	return c.db.Close()
}
