package cache

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/require"

	_ "modernc.org/sqlite"
)

func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", "file:cachetest?mode=memory&cache=shared")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec(createCacheTable)
	require.NoError(t, err)
	return db
}

// testBackend exercises the Cache contract shared by all backends.
func testBackend(t *testing.T, c Cache) {
	ctx := context.Background()

	t.Run("miss returns nil nil", func(t *testing.T) {
		v, err := c.Get(ctx, "absent")
		require.NoError(t, err)
		require.Nil(t, v)
	})

	t.Run("set then get", func(t *testing.T) {
		require.NoError(t, c.Set(ctx, "doc", []byte(`{"pressData":[]}`)))
		v, err := c.Get(ctx, "doc")
		require.NoError(t, err)
		require.Equal(t, []byte(`{"pressData":[]}`), v)
	})

	t.Run("set overwrites", func(t *testing.T) {
		require.NoError(t, c.Set(ctx, "doc", []byte("v2")))
		v, err := c.Get(ctx, "doc")
		require.NoError(t, err)
		require.Equal(t, []byte("v2"), v)
	})

	t.Run("set many", func(t *testing.T) {
		require.NoError(t, c.SetMany(ctx, map[string][]byte{
			"doc":        []byte("v3"),
			"last_saved": []byte("2026-01-01T00:00:00Z"),
		}))
		v, err := c.Get(ctx, "doc")
		require.NoError(t, err)
		require.Equal(t, []byte("v3"), v)
		v, err = c.Get(ctx, "last_saved")
		require.NoError(t, err)
		require.Equal(t, []byte("2026-01-01T00:00:00Z"), v)
	})

	t.Run("delete is idempotent", func(t *testing.T) {
		require.NoError(t, c.Delete(ctx, "doc"))
		require.NoError(t, c.Delete(ctx, "doc"))
		v, err := c.Get(ctx, "doc")
		require.NoError(t, err)
		require.Nil(t, v)
	})
}

func TestMemoryCache(t *testing.T) {
	testBackend(t, NewMemoryCache())
}

func TestSQLiteCache(t *testing.T) {
	testBackend(t, NewSQLiteCache(setupDB(t)))
}

func TestMemoryCacheCopiesValues(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache()

	src := []byte("original")
	require.NoError(t, c.Set(ctx, "k", src))
	src[0] = 'X'

	v, err := c.Get(ctx, "k")
	require.NoError(t, err)
	require.Equal(t, []byte("original"), v)
}

func TestInitSQLiteCreatesTable(t *testing.T) {
	ctx := context.Background()

	db, err := InitSQLite(ctx, t.TempDir()+"/cache.db")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	c := NewSQLiteCache(db)
	require.NoError(t, c.Set(ctx, "k", []byte("v")))
	v, err := c.Get(ctx, "k")
	require.NoError(t, err)
	require.Equal(t, []byte("v"), v)
}
