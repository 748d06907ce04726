package storage

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMemoryStoreRoundTrip(t *testing.T) {
	store := NewMemoryStore()

	_, ok, err := store.Get("missing")
	require.NoError(t, err)
	require.False(t, ok)

	require.NoError(t, store.Set("users", []byte(`[]`)))
	value, ok, err := store.Get("users")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, []byte(`[]`), value)

	// Mutating the returned slice must not affect stored data.
	value[0] = 'x'
	again, _, err := store.Get("users")
	require.NoError(t, err)
	require.Equal(t, []byte(`[]`), again)
}

func TestMemoryStoreFailSet(t *testing.T) {
	store := NewMemoryStore()
	boom := errors.New("disk full")
	store.FailSet = boom

	require.ErrorIs(t, store.Set("k", []byte("v")), boom)

	_, ok, err := store.Get("k")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestPebbleStoreRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "kv")

	store, err := OpenPebble(path)
	require.NoError(t, err)

	_, ok, err := store.Get("missing")
	require.NoError(t, err)
	require.False(t, ok)

	require.NoError(t, store.Set("adminConfig", []byte(`{"x":1}`)))
	value, ok, err := store.Get("adminConfig")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, []byte(`{"x":1}`), value)

	require.NoError(t, store.Close())

	// Values survive a reopen.
	reopened, err := OpenPebble(path)
	require.NoError(t, err)
	defer reopened.Close()

	value, ok, err = reopened.Get("adminConfig")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, []byte(`{"x":1}`), value)
}

func TestPebbleStoreOverwrite(t *testing.T) {
	store, err := OpenPebble(filepath.Join(t.TempDir(), "kv"))
	require.NoError(t, err)
	defer store.Close()

	require.NoError(t, store.Set("k", []byte("one")))
	require.NoError(t, store.Set("k", []byte("two")))

	value, ok, err := store.Get("k")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, []byte("two"), value)
}
