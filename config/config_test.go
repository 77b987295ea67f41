package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadReturnsDefaultsWithoutFile(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "ollama", cfg.Provider)
	assert.Equal(t, 300, cfg.Processing.ChunkSize)
	assert.Equal(t, 4, cfg.Processing.TopK)
	assert.Equal(t, int32(4), cfg.Database.MaxConns)

	_, err = os.Stat(Path())
	assert.True(t, os.IsNotExist(err))
}

func TestSaveThenLoadRoundTrips(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	cfg := Default()
	cfg.Provider = "gemini"
	cfg.Processing.TopK = 7
	cfg.Database.Enabled = true
	cfg.Database.MaxConns = 2
	require.NoError(t, cfg.Save())

	loaded, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "gemini", loaded.Provider)
	assert.Equal(t, 7, loaded.Processing.TopK)
	assert.True(t, loaded.Database.Enabled)
	assert.Equal(t, int32(2), loaded.Database.MaxConns)
}

func TestLoadKeepsDefaultsForMissingKeys(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	require.NoError(t, os.MkdirAll(home+"/.transito-ai", 0755))
	require.NoError(t, os.WriteFile(Path(), []byte("provider: gemini\n"), 0644))

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "gemini", cfg.Provider)
	assert.Equal(t, 300, cfg.Processing.ChunkSize)
	assert.Equal(t, 50, cfg.Processing.ChunkOverlap)
}
