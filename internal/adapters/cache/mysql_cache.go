package cache

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"go.uber.org/zap"
)

// MySQLCache is a MySQL-backed response cache for multi-instance
// deployments sharing one cache. Storage failures degrade to misses.
type MySQLCache struct {
	db     *sql.DB
	logger *zap.Logger
	now    func() time.Time
}

// NewMySQLCache connects to MySQL and initializes the cache table.
func NewMySQLCache(dsn string, logger *zap.Logger) (*MySQLCache, error) {
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("open mysql cache: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping mysql cache: %w", err)
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS response_cache (
			cache_key VARCHAR(512) PRIMARY KEY,
			payload MEDIUMBLOB NOT NULL,
			expires_at BIGINT NOT NULL
		)
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("create cache table: %w", err)
	}

	return &MySQLCache{
		db:     db,
		logger: logger,
		now:    time.Now,
	}, nil
}

// Get returns the payload for key; an expired row is deleted and reported
// as a miss.
func (c *MySQLCache) Get(key string) ([]byte, bool) {
	var payload []byte
	var expiresAt int64

	err := c.db.QueryRow(`
		SELECT payload, expires_at FROM response_cache WHERE cache_key = ?
	`, key).Scan(&payload, &expiresAt)
	if err != nil {
		if err != sql.ErrNoRows {
			c.logger.Error("mysql cache read failed", zap.String("key", key), zap.Error(err))
		}
		return nil, false
	}

	if c.now().UnixNano() > expiresAt {
		if _, err := c.db.Exec(`DELETE FROM response_cache WHERE cache_key = ?`, key); err != nil {
			c.logger.Error("mysql cache eviction failed", zap.String("key", key), zap.Error(err))
		}
		return nil, false
	}

	return payload, true
}

// Set stores the payload under key, overwriting any existing row.
func (c *MySQLCache) Set(key string, payload []byte, ttl time.Duration) {
	_, err := c.db.Exec(`
		INSERT INTO response_cache (cache_key, payload, expires_at)
		VALUES (?, ?, ?)
		ON DUPLICATE KEY UPDATE payload = VALUES(payload), expires_at = VALUES(expires_at)
	`, key, payload, c.now().Add(ttl).UnixNano())
	if err != nil {
		c.logger.Error("mysql cache write failed", zap.String("key", key), zap.Error(err))
	}
}

// Clear empties the cache unconditionally.
func (c *MySQLCache) Clear() {
	if _, err := c.db.Exec(`DELETE FROM response_cache`); err != nil {
		c.logger.Error("mysql cache clear failed", zap.Error(err))
	}
}

// Close closes the underlying database.
func (c *MySQLCache) Close() error {
	return c.db.Close()
}
