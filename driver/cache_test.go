package driver

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCacheKeySeparatesSettings(t *testing.T) {
	content := []byte("define void @f() { ret void }")

	require.Equal(t, CacheKey(content, "a", "b"), CacheKey(content, "a", "b"))
	require.NotEqual(t, CacheKey(content, "ab", "c"), CacheKey(content, "a", "bc"))
	require.NotEqual(t, CacheKey(content, "x"), CacheKey([]byte("other"), "x"))
	require.Len(t, CacheKey(content), 64)
}

func TestCacheStoreAndReopen(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "cache")

	c, err := OpenCache(dir)
	require.NoError(t, err)
	require.Zero(t, c.Len())

	_, ok := c.Lookup("k")
	require.False(t, ok)

	path, err := c.Store("k", "square.ll", ".o", []byte("object"))
	require.NoError(t, err)
	require.Equal(t, filepath.Join(dir, "k.o"), path)

	got, ok := c.Lookup("k")
	require.True(t, ok)
	require.Equal(t, path, got)

	require.NoError(t, c.Save())

	reopened, err := OpenCache(dir)
	require.NoError(t, err)
	require.Equal(t, 1, reopened.Len())

	entry := reopened.manifest.Entries["k"]
	require.Equal(t, "square.ll", entry.Input)
	require.Equal(t, int64(6), entry.Size)

	// a truncated output is dropped
	require.NoError(t, os.WriteFile(path, []byte("obj"), 0o644))
	_, ok = reopened.Lookup("k")
	require.False(t, ok)
	require.Zero(t, reopened.Len())
}

func TestCorruptManifestIsDiscarded(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, manifestFileName), []byte{0xc1, 0xff}, 0o644))

	c, err := OpenCache(dir)
	require.NoError(t, err)
	require.Zero(t, c.Len())

	require.NoError(t, c.Save())

	reopened, err := OpenCache(dir)
	require.NoError(t, err)
	require.Zero(t, reopened.Len())
	require.False(t, reopened.dirty)
}
