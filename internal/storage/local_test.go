package storage

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *LocalStore {
	t.Helper()
	store, err := NewLocalStore(zerolog.Nop(), t.TempDir())
	require.NoError(t, err)
	return store
}

func TestLocalStoreSaveAndRemove(t *testing.T) {
	store := newTestStore(t)

	storedName, err := store.Save(strings.NewReader("hello"), "notes.TXT")
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(storedName, ".txt"))
	assert.NotContains(t, storedName, "notes")

	content, err := os.ReadFile(store.Path(storedName))
	require.NoError(t, err)
	assert.Equal(t, "hello", string(content))

	require.NoError(t, store.Remove(storedName))
	_, err = os.Stat(store.Path(storedName))
	assert.True(t, os.IsNotExist(err))
}

func TestLocalStoreSaveUniqueNames(t *testing.T) {
	store := newTestStore(t)

	first, err := store.Save(strings.NewReader("a"), "photo.png")
	require.NoError(t, err)
	second, err := store.Save(strings.NewReader("b"), "photo.png")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}

func TestLocalStorePathBlocksTraversal(t *testing.T) {
	dir := t.TempDir()
	store, err := NewLocalStore(zerolog.Nop(), dir)
	require.NoError(t, err)

	path := store.Path("../../etc/passwd")
	assert.Equal(t, filepath.Join(dir, "passwd"), path)
}

func TestLocalStoreRemoveMissing(t *testing.T) {
	store := newTestStore(t)
	assert.Error(t, store.Remove("missing.bin"))
}

func TestSafeExt(t *testing.T) {
	assert.Equal(t, ".png", safeExt("photo.PNG"))
	assert.Equal(t, "", safeExt("noext"))
	assert.Equal(t, "", safeExt("weird."+strings.Repeat("x", 20)))
}
