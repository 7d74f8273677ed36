package cache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/EMNTV/excellencemedianumerique/internal/dbx"
)

const createCacheTable = `
CREATE TABLE IF NOT EXISTS cache (
  key   TEXT PRIMARY KEY,
  value BLOB NOT NULL
);`

// SQLiteCache implements Cache over a key/value table. Multi-key
// writes run inside a transaction so a crash mid-write cannot leave
// the document and its last_saved marker out of step.
type SQLiteCache struct {
	db *sql.DB
}

var _ Cache = (*SQLiteCache)(nil)

// NewSQLiteCache binds a cache to the given database. The cache table
// must already exist; see InitSQLite.
func NewSQLiteCache(db *sql.DB) *SQLiteCache {
	return &SQLiteCache{db: db}
}

// InitSQLite opens (or creates) the cache database at path using the
// modernc sqlite driver and ensures the cache table exists.
func InitSQLite(ctx context.Context, path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open cache db: %w", err)
	}
	if _, err := db.ExecContext(ctx, createCacheTable); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to init cache table: %w", err)
	}
	return db, nil
}

func (c *SQLiteCache) Get(ctx context.Context, key string) ([]byte, error) {
	var value []byte
	err := c.db.QueryRowContext(ctx, `SELECT value FROM cache WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get cache[%s]: %w", key, err)
	}
	return value, nil
}

func (c *SQLiteCache) Set(ctx context.Context, key string, value []byte) error {
	return upsert(ctx, c.db, key, value)
}

func (c *SQLiteCache) SetMany(ctx context.Context, entries map[string][]byte) error {
	return dbx.WithTx(ctx, c.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		for key, value := range entries {
			if err := upsert(ctx, tx, key, value); err != nil {
				return err
			}
		}
		return nil
	})
}

func upsert(ctx context.Context, db dbx.DBTX, key string, value []byte) error {
	_, err := db.ExecContext(ctx, `
		INSERT INTO cache (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, key, value)
	if err != nil {
		return fmt.Errorf("failed to set cache[%s]: %w", key, err)
	}
	return nil
}

func (c *SQLiteCache) Delete(ctx context.Context, key string) error {
	_, err := c.db.ExecContext(ctx, `DELETE FROM cache WHERE key = ?`, key)
	if err != nil {
		return fmt.Errorf("failed to delete cache[%s]: %w", key, err)
	}
	return nil
}
