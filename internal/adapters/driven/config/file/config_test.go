package file

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_MissingFileYieldsDefaults(t *testing.T) {
	cfg, err := Load(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, Default(), cfg)
	assert.Equal(t, 1000, cfg.Fragmenter.MaxSize)
	assert.Equal(t, 100, cfg.Fragmenter.Overlap)
	assert.Equal(t, 3, cfg.Retrieval.TopK)
	assert.Equal(t, "sqlite", cfg.Storage.Backend)
}

func TestLoad_PartialFileKeepsDefaults(t *testing.T) {
	dir := t.TempDir()
	content := `
[fragmenter]
max_size = 300
overlap = 50

[embedding]
provider = "openai"
model = "text-embedding-3-small"
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.toml"), []byte(content), 0600))

	cfg, err := Load(dir)
	require.NoError(t, err)

	assert.Equal(t, 300, cfg.Fragmenter.MaxSize)
	assert.Equal(t, 50, cfg.Fragmenter.Overlap)
	assert.Equal(t, "openai", cfg.Embedding.Provider)

	// Unset values fall back to defaults.
	assert.Equal(t, 200, cfg.Fragmenter.Backtrack)
	assert.Equal(t, 4, cfg.Ingest.Fanout)
	assert.Equal(t, 4000, cfg.Retrieval.ContextBudget)
}

func TestLoad_InvalidTOML(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.toml"), []byte("not [valid toml"), 0600))

	_, err := Load(dir)
	assert.Error(t, err)
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()

	cfg := Default()
	cfg.Fragmenter.MaxSize = 500
	cfg.Embedding.Provider = "openai"
	cfg.Embedding.APIKey = "sk-test"
	cfg.Ingest.RateLimit = 2.5

	require.NoError(t, Save(dir, cfg))

	loaded, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)

	// Config may hold an API key, permissions must be restricted.
	info, err := os.Stat(filepath.Join(dir, "config.toml"))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
}

func TestSave_CreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "config")

	require.NoError(t, Save(dir, Default()))

	_, err := os.Stat(filepath.Join(dir, "config.toml"))
	assert.NoError(t, err)
}
