package cache

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKeyStableForSameInput(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "adjacency.jsonl")
	require.NoError(t, os.WriteFile(path, []byte("{}\n"), 0o644))

	k1, err := Key(path, "layout=force,seed=7")
	require.NoError(t, err)
	k2, err := Key(path, "layout=force,seed=7")
	require.NoError(t, err)
	assert.Equal(t, k1, k2, "expected stable key")

	k3, err := Key(path, "layout=circle,seed=7")
	require.NoError(t, err)
	assert.NotEqual(t, k1, k3, "expected different params to produce a different key")
}

func TestPutGetRoundTrip(t *testing.T) {
	dir := t.TempDir()
	m, err := New(dir)
	require.NoError(t, err)

	require.NoError(t, m.Put("abc123", "layout=force", []byte("hello")))

	got, ok := m.Get("abc123")
	require.True(t, ok, "expected cache hit")
	assert.Equal(t, "hello", string(got))

	_, ok = m.Get("missing-key")
	assert.False(t, ok, "expected cache miss for unknown key")
}

func TestPutLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	m, err := New(dir)
	require.NoError(t, err)
	require.NoError(t, m.Put("k", "p", []byte("v")))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	for _, e := range entries {
		assert.NotEqual(t, ".tmp", filepath.Ext(e.Name()), "expected no leftover temp files, found %s", e.Name())
	}
}
