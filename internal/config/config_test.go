package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestSaveWritesLoadableYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "incgraph.yaml")

	require.NoError(t, Save(Default(), path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, Default(), loaded)
}

func TestSaveProducesValidYAMLDocument(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "incgraph.yaml")

	require.NoError(t, Save(Default(), path))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)

	var doc map[string]any
	require.NoError(t, yaml.Unmarshal(raw, &doc))
	assert.Contains(t, doc, "input")
	assert.Contains(t, doc, "layout")
}
