package kv

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore_GetSet(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	_, err := store.Get(ctx, "missing")
	assert.ErrorIs(t, err, ErrKeyNotFound)

	require.NoError(t, store.Set(ctx, "k", []byte(`{"a":1}`)))

	got, err := store.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte(`{"a":1}`), got)

	// Returned slice is a copy; mutating it must not affect the store.
	got[0] = 'X'
	again, err := store.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte(`{"a":1}`), again)
}

func TestMemoryStore_Delete(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	require.NoError(t, store.Set(ctx, "k", []byte("v")))

	require.NoError(t, store.Delete(ctx, "k"))
	_, err := store.Get(ctx, "k")
	assert.ErrorIs(t, err, ErrKeyNotFound)

	// Deleting an absent key is fine.
	assert.NoError(t, store.Delete(ctx, "k"))
}

func TestMemoryStore_DeleteByPrefix(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	require.NoError(t, store.Set(ctx, SnapshotKey("alice"), []byte("a")))
	require.NoError(t, store.Set(ctx, SnapshotKey("bob"), []byte("b")))

	require.NoError(t, store.DeleteByPrefix(ctx, LearnerPrefix("alice")))

	_, err := store.Get(ctx, SnapshotKey("alice"))
	assert.ErrorIs(t, err, ErrKeyNotFound)
	_, err = store.Get(ctx, SnapshotKey("bob"))
	assert.NoError(t, err)
	assert.Equal(t, 1, store.Len())
}

func TestMemoryStore_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	store := NewMemoryStore()

	assert.Error(t, store.Set(ctx, "k", []byte("v")))
	_, err := store.Get(ctx, "k")
	assert.Error(t, err)
	assert.Error(t, store.Ping(ctx))
}

func TestKeyLayout(t *testing.T) {
	assert.Equal(t, "progress:alice:snapshot", SnapshotKey("alice"))
	assert.Equal(t, "progress:alice:", LearnerPrefix("alice"))
}
