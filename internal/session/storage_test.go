package session

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// storageContract exercises the behavior every backend must share.
func storageContract(t *testing.T, storage Storage) {
	ctx := context.Background()

	t.Run("missing field returns ErrNotFound", func(t *testing.T) {
		_, err := storage.Get(ctx, "c1", "nope")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("set all then read back", func(t *testing.T) {
		require.NoError(t, storage.SetAll(ctx, "c1", map[string]string{
			"a": "1",
			"b": "2",
		}))

		v, err := storage.Get(ctx, "c1", "a")
		require.NoError(t, err)
		assert.Equal(t, "1", v)

		all, err := storage.GetAll(ctx, "c1")
		require.NoError(t, err)
		assert.Equal(t, map[string]string{"a": "1", "b": "2"}, all)
	})

	t.Run("set all overwrites and merges", func(t *testing.T) {
		require.NoError(t, storage.SetAll(ctx, "c1", map[string]string{
			"b": "20",
			"c": "3",
		}))

		all, err := storage.GetAll(ctx, "c1")
		require.NoError(t, err)
		assert.Equal(t, map[string]string{"a": "1", "b": "20", "c": "3"}, all)
	})

	t.Run("sessions are isolated", func(t *testing.T) {
		require.NoError(t, storage.SetAll(ctx, "c2", map[string]string{"a": "other"}))

		v, err := storage.Get(ctx, "c1", "a")
		require.NoError(t, err)
		assert.Equal(t, "1", v)
	})

	t.Run("delete selected fields", func(t *testing.T) {
		require.NoError(t, storage.Delete(ctx, "c1", "a", "c"))

		_, err := storage.Get(ctx, "c1", "a")
		assert.ErrorIs(t, err, ErrNotFound)
		v, err := storage.Get(ctx, "c1", "b")
		require.NoError(t, err)
		assert.Equal(t, "20", v)
	})

	t.Run("delete with no fields is a no-op", func(t *testing.T) {
		require.NoError(t, storage.Delete(ctx, "c1"))
	})

	t.Run("delete on absent session succeeds", func(t *testing.T) {
		require.NoError(t, storage.Delete(ctx, "ghost", "a"))
	})
}

func TestMemoryStorageContract(t *testing.T) {
	storageContract(t, NewMemoryStorage())
}

func TestSQLiteStorageContract(t *testing.T) {
	storage, err := NewSQLiteStorage(filepath.Join(t.TempDir(), "sessions.db"))
	require.NoError(t, err)
	t.Cleanup(func() { storage.Close() })

	_, err = storage.DB().Exec(`CREATE TABLE session_entries (
		session_id TEXT NOT NULL,
		field      TEXT NOT NULL,
		value      TEXT NOT NULL,
		updated_at TIMESTAMP NOT NULL,
		PRIMARY KEY (session_id, field)
	)`)
	require.NoError(t, err)

	storageContract(t, storage)
}
