package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStoreKeysOldestFirst(t *testing.T) {
	store := NewMemoryStore()

	require.NoError(t, store.Set("dogs", "[]"))
	require.NoError(t, store.Set("cats", "[]"))
	require.NoError(t, store.Set("dogs", "[]"))

	keys, err := store.Keys()
	require.NoError(t, err)
	assert.Equal(t, []string{"cats", "dogs"}, keys)
}

func TestMemoryStoreReplaceKeepsKeyOrder(t *testing.T) {
	store := NewMemoryStore()

	require.NoError(t, store.Set("dogs", "[]"))
	require.NoError(t, store.Set("cats", "[]"))
	require.NoError(t, store.Replace("dogs", `["fresh"]`))

	got, err := store.Get("dogs")
	require.NoError(t, err)
	assert.Equal(t, `["fresh"]`, got)

	keys, err := store.Keys()
	require.NoError(t, err)
	assert.Equal(t, []string{"dogs", "cats"}, keys)

	assert.True(t, IsNotFound(store.Replace("birds", "[]")))
}
