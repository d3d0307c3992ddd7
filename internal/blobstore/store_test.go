// internal/blobstore/store_test.go
package blobstore

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// runStoreSuite exercises the Store contract against any backend.
func runStoreSuite(t *testing.T, store Store) {
	ctx := context.Background()

	t.Run("load missing key", func(t *testing.T) {
		_, ok, err := store.Load(ctx, "never-written")
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("save and load", func(t *testing.T) {
		require.NoError(t, store.Save(ctx, KeyProperties, `[{"id":"p1"}]`))
		got, ok, err := store.Load(ctx, KeyProperties)
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, `[{"id":"p1"}]`, got)
	})

	t.Run("last write wins", func(t *testing.T) {
		require.NoError(t, store.Save(ctx, KeyActivePropertyID, "p1"))
		require.NoError(t, store.Save(ctx, KeyActivePropertyID, "p2"))
		got, ok, err := store.Load(ctx, KeyActivePropertyID)
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, "p2", got)
	})

	t.Run("delete", func(t *testing.T) {
		require.NoError(t, store.Save(ctx, KeyWizardState, `{"step":1}`))
		require.NoError(t, store.Delete(ctx, KeyWizardState))
		_, ok, err := store.Load(ctx, KeyWizardState)
		require.NoError(t, err)
		assert.False(t, ok)

		// Deleting an absent key is a no-op.
		require.NoError(t, store.Delete(ctx, KeyWizardState))
	})

	t.Run("empty value round trips", func(t *testing.T) {
		require.NoError(t, store.Save(ctx, KeyMembers, ""))
		got, ok, err := store.Load(ctx, KeyMembers)
		require.NoError(t, err)
		require.True(t, ok)
		assert.Empty(t, got)
	})
}

func TestMemoryStore(t *testing.T) {
	runStoreSuite(t, NewMemory())
}

func TestFileStore(t *testing.T) {
	store, err := NewFile(t.TempDir())
	require.NoError(t, err)
	runStoreSuite(t, store)
}

func TestFileStoreSurvivesReopen(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	store, err := NewFile(dir)
	require.NoError(t, err)
	require.NoError(t, store.Save(ctx, KeyMembers, `[]`))

	reopened, err := NewFile(dir)
	require.NoError(t, err)
	got, ok, err := reopened.Load(ctx, KeyMembers)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, `[]`, got)
}
