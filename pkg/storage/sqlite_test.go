package storage

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupSQLiteBackend(t *testing.T) *SQLiteBackend {
	t.Helper()

	conn, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "storage.db")), &gorm.Config{})
	require.NoError(t, err)

	backend, err := NewSQLiteBackend(conn)
	require.NoError(t, err)
	return backend
}

func TestSQLiteBackendRoundTrip(t *testing.T) {
	backend := setupSQLiteBackend(t)
	ctx := context.Background()

	_, ok, err := backend.GetItem(ctx, "cart")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, backend.SetItem(ctx, "cart", "[]"))
	value, ok, err := backend.GetItem(ctx, "cart")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "[]", value)

	require.NoError(t, backend.SetItem(ctx, "cart", `[{"productId":"P1"}]`))
	value, ok, err = backend.GetItem(ctx, "cart")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `[{"productId":"P1"}]`, value)

	require.NoError(t, backend.RemoveItem(ctx, "cart"))
	_, ok, err = backend.GetItem(ctx, "cart")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSQLiteBackendRemoveMissingKey(t *testing.T) {
	backend := setupSQLiteBackend(t)
	require.NoError(t, backend.RemoveItem(context.Background(), "never-set"))
}

func TestNewSQLiteBackendRequiresConnection(t *testing.T) {
	_, err := NewSQLiteBackend(nil)
	require.Error(t, err)
}
