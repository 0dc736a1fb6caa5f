package tokenstore

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStoreEmpty(t *testing.T) {
	store := NewMemoryStore()

	_, err := store.Read()
	assert.ErrorIs(t, err, ErrNoToken)
}

func TestMemoryStoreRoundTrip(t *testing.T) {
	store := NewMemoryStore()

	require.NoError(t, store.Store("abc"))

	token, err := store.Read()
	require.NoError(t, err)
	assert.Equal(t, "abc", token)

	require.NoError(t, store.Clear())

	_, err = store.Read()
	assert.ErrorIs(t, err, ErrNoToken)
}

func TestMemoryStoreOverwrite(t *testing.T) {
	store := NewMemoryStore()

	require.NoError(t, store.Store("first"))
	require.NoError(t, store.Store("second"))

	token, err := store.Read()
	require.NoError(t, err)
	assert.Equal(t, "second", token)
}

func TestMemoryStoreClearIdempotent(t *testing.T) {
	store := NewMemoryStore()

	assert.NoError(t, store.Clear())
	assert.NoError(t, store.Clear())

	_, err := store.Read()
	assert.ErrorIs(t, err, ErrNoToken)
}
