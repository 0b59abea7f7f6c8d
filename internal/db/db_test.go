package db

import (
	"context"
	"path/filepath"
	"testing"

	"cropdesk/internal/kv"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConnectSQLiteAndMigrate(t *testing.T) {
	gdb, err := Connect("sqlite", filepath.Join(t.TempDir(), "cropdesk.db"))
	require.NoError(t, err)
	require.NoError(t, AutoMigrate(gdb))
	// idempotent
	require.NoError(t, AutoMigrate(gdb))

	store := kv.NewGormStore(gdb)
	require.NoError(t, store.Set(context.Background(), "k", map[string]int{"v": 1}))

	var got map[string]int
	ok, err := store.Get(context.Background(), "k", &got)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 1, got["v"])
}

func TestDialectorFor(t *testing.T) {
	_, err := dialectorFor("oracle", "x")
	assert.Error(t, err)

	_, err = dialectorFor("mysql", "::not a dsn::")
	assert.Error(t, err)

	d, err := dialectorFor("mysql", "user:pw@tcp(localhost:3306)/cropdesk")
	require.NoError(t, err)
	assert.Equal(t, "mysql", d.Name())

	d, err = dialectorFor("postgres", "postgres://localhost/cropdesk")
	require.NoError(t, err)
	assert.Equal(t, "postgres", d.Name())
}

func TestSQLiteDSN(t *testing.T) {
	assert.Equal(t, "a.db?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)", sqliteDSN("a.db"))
	assert.Equal(t, "a.db?mode=ro", sqliteDSN("a.db?mode=ro"))
}
