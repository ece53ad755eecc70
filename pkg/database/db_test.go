package database

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func connectTemp(t *testing.T) *Store {
	t.Helper()
	cfg := Config{
		// nested path: Connect must create the directory
		Path:    filepath.Join(t.TempDir(), "data", "grafica.db"),
		Timeout: 5 * time.Second,
	}
	store, err := Connect(cfg, zap.NewNop().Sugar())
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestConnect_CreatesFileAndDirectory(t *testing.T) {
	dir := t.TempDir()
	cfg := Config{Path: filepath.Join(dir, "nested", "db.sqlite"), Timeout: 5 * time.Second}

	store, err := Connect(cfg, zap.NewNop().Sugar())
	require.NoError(t, err)
	defer store.Close()

	// the ping forces the driver to materialize the file
	_, err = store.Run(context.Background(), "SELECT 1 AS one")
	require.NoError(t, err)

	_, err = os.Stat(cfg.Path)
	assert.NoError(t, err)
}

func TestRun_SelectReturnsRowsAsMaps(t *testing.T) {
	store := connectTemp(t)
	ctx := context.Background()

	_, err := store.Run(ctx, `CREATE TABLE t (id INTEGER PRIMARY KEY, label TEXT)`)
	require.NoError(t, err)

	out, err := store.Run(ctx, `INSERT INTO t (label) VALUES (?)`, "first")
	require.NoError(t, err)
	assert.Nil(t, out) // mutating statements return nothing

	rows, err := store.Run(ctx, `SELECT id, label FROM t ORDER BY id`)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.EqualValues(t, 1, rows[0]["id"])
	assert.Equal(t, "first", rows[0]["label"])
}

func TestRun_EmptySelect(t *testing.T) {
	store := connectTemp(t)
	ctx := context.Background()

	_, err := store.Run(ctx, `CREATE TABLE t (id INTEGER PRIMARY KEY)`)
	require.NoError(t, err)

	rows, err := store.Run(ctx, `SELECT id FROM t`)
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestRun_PropagatesStorageErrors(t *testing.T) {
	store := connectTemp(t)
	_, err := store.Run(context.Background(), `SELECT * FROM no_such_table`)
	require.Error(t, err)
	_, err = store.Run(context.Background(), `INSERT INTO no_such_table VALUES (1)`)
	require.Error(t, err)
}

func TestRunBatch_InsertsAllSetsInOneTransaction(t *testing.T) {
	store := connectTemp(t)
	ctx := context.Background()

	_, err := store.Run(ctx, `CREATE TABLE t (id INTEGER PRIMARY KEY, label TEXT NOT NULL)`)
	require.NoError(t, err)

	err = store.RunBatch(ctx, `INSERT INTO t (label) VALUES (?)`, [][]any{
		{"a"}, {"b"}, {"c"},
	})
	require.NoError(t, err)

	rows, err := store.Run(ctx, `SELECT COUNT(*) AS n FROM t`)
	require.NoError(t, err)
	assert.EqualValues(t, 3, rows[0]["n"])
}

func TestRunBatch_RollsBackOnFailure(t *testing.T) {
	store := connectTemp(t)
	ctx := context.Background()

	_, err := store.Run(ctx, `CREATE TABLE t (id INTEGER PRIMARY KEY, label TEXT NOT NULL)`)
	require.NoError(t, err)

	err = store.RunBatch(ctx, `INSERT INTO t (label) VALUES (?)`, [][]any{
		{"ok"}, {nil}, // second set violates NOT NULL
	})
	require.Error(t, err)

	rows, err := store.Run(ctx, `SELECT COUNT(*) AS n FROM t`)
	require.NoError(t, err)
	assert.EqualValues(t, 0, rows[0]["n"])
}

func TestIsRowProducing(t *testing.T) {
	assert.True(t, isRowProducing("SELECT 1"))
	assert.True(t, isRowProducing("  select * from t"))
	assert.True(t, isRowProducing("WITH x AS (SELECT 1) SELECT * FROM x"))
	assert.True(t, isRowProducing("PRAGMA table_info(t)"))
	assert.False(t, isRowProducing("INSERT INTO t VALUES (1)"))
	assert.False(t, isRowProducing("UPDATE t SET a = 1"))
	assert.False(t, isRowProducing("DELETE FROM t"))
	assert.False(t, isRowProducing("CREATE TABLE t (id INTEGER)"))
}

func TestConfigFromEnv_Default(t *testing.T) {
	t.Setenv("GRAFICA_DB_PATH", "")
	cfg := ConfigFromEnv()
	assert.Equal(t, filepath.Join("database", "grafica.db"), cfg.Path)

	t.Setenv("GRAFICA_DB_PATH", "/tmp/custom.db")
	cfg = ConfigFromEnv()
	assert.Equal(t, "/tmp/custom.db", cfg.Path)
}
