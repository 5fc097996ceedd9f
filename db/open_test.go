package db

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestParseTarget(t *testing.T) {
	t.Run("memory marker", func(t *testing.T) {
		target, err := ParseTarget(":memory:")
		require.NoError(t, err)
		assert.True(t, target.InMemory())
		assert.Equal(t, MemoryTarget, target.dsn(time.Second))
	})

	t.Run("anything else is a path", func(t *testing.T) {
		target, err := ParseTarget("data/bookings.db")
		require.NoError(t, err)
		assert.False(t, target.InMemory())
		assert.Equal(t, "data/bookings.db", target.String())
		assert.Equal(t, "file:data/bookings.db?_busy_timeout=5000&_foreign_keys=on", target.dsn(5*time.Second))
	})

	t.Run("uri characters in the path are escaped", func(t *testing.T) {
		tests := map[string]string{
			"a#1.db":           "file:a%231.db?_busy_timeout=1000&_foreign_keys=on",
			"what?.db":         "file:what%3F.db?_busy_timeout=1000&_foreign_keys=on",
			"100%.db":          "file:100%25.db?_busy_timeout=1000&_foreign_keys=on",
			"/tmp/x?a=b#c.db":  "file:/tmp/x%3Fa=b%23c.db?_busy_timeout=1000&_foreign_keys=on",
			"dir/plain-db.sql": "file:dir/plain-db.sql?_busy_timeout=1000&_foreign_keys=on",
		}
		for path, want := range tests {
			target, err := ParseTarget(path)
			require.NoError(t, err)
			assert.Equal(t, want, target.dsn(time.Second), "path %q", path)
		}
	})

	t.Run("empty target is rejected", func(t *testing.T) {
		_, err := ParseTarget("")
		require.Error(t, err)
	})
}

func TestOpen(t *testing.T) {
	t.Run("creates the database file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "bookings.db")
		target, err := ParseTarget(path)
		require.NoError(t, err)

		conn, err := Open(target, Options{BusyTimeout: time.Second})
		require.NoError(t, err)
		require.NoError(t, InitSchema(context.Background(), conn, zap.NewNop().Sugar()))
		require.NoError(t, Close(conn))

		_, err = os.Stat(path)
		require.NoError(t, err)
	})

	t.Run("holds a single connection", func(t *testing.T) {
		conn := setupTestDB(t)
		sqlDB, err := conn.DB()
		require.NoError(t, err)
		assert.Equal(t, 1, sqlDB.Stats().MaxOpenConnections)
	})

	t.Run("opens exactly the named file", func(t *testing.T) {
		ctx := context.Background()
		dir := t.TempDir()
		names := []string{"bookings#1.db", "bookings#2.db", "what?.db", "100%.db"}
		for i, name := range names {
			target, err := ParseTarget(filepath.Join(dir, name))
			require.NoError(t, err)
			conn, err := Open(target, Options{})
			require.NoError(t, err)
			require.NoError(t, InitSchema(ctx, conn, zap.NewNop().Sugar()))

			store := NewSQLStore(conn, nil)
			_, err = store.CreateResource(ctx, fmt.Sprintf("room-%d", i))
			require.NoError(t, err)
			resources, err := store.ListResources(ctx)
			require.NoError(t, err)
			require.Len(t, resources, 1, "%s shares a database with another path", name)
			require.NoError(t, Close(conn))

			_, err = os.Stat(filepath.Join(dir, name))
			require.NoError(t, err)
		}

		entries, err := os.ReadDir(dir)
		require.NoError(t, err)
		var files []string
		for _, e := range entries {
			files = append(files, e.Name())
		}
		assert.ElementsMatch(t, names, files)
	})

	t.Run("missing directory fails on ping", func(t *testing.T) {
		target, err := ParseTarget(filepath.Join(t.TempDir(), "missing", "bookings.db"))
		require.NoError(t, err)
		conn, err := Open(target, Options{})
		if err == nil {
			t.Cleanup(func() { _ = Close(conn) })
			err = NewSQLStore(conn, nil).Ping(context.Background())
			require.ErrorIs(t, err, ErrStorage)
		}
		require.Error(t, err)
	})

	t.Run("sql trace goes to the logger", func(t *testing.T) {
		core, logs := observer.New(zapcore.DebugLevel)
		target, err := ParseTarget(MemoryTarget)
		require.NoError(t, err)

		conn, err := Open(target, Options{Logger: zap.New(core).Sugar(), LogSQL: true})
		require.NoError(t, err)
		t.Cleanup(func() { _ = Close(conn) })

		require.NoError(t, InitSchema(context.Background(), conn, zap.NewNop().Sugar()))
		assert.NotEmpty(t, logs.FilterMessageSnippet("CREATE TABLE IF NOT EXISTS resource").All())
	})

	t.Run("closing nil is a no-op", func(t *testing.T) {
		assert.NoError(t, Close(nil))
	})
}
