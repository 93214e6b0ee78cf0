package config

import (
	"encoding/hex"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()

	assert.Equal(t, "./data", config.DataDir)
	assert.Equal(t, 8080, config.Port)
	assert.Equal(t, "127.0.0.1", config.Bind)
	assert.Equal(t, float64(-180), config.World.OriginX)
	assert.Equal(t, float64(-90), config.World.OriginY)
	assert.Equal(t, float64(360), config.World.Width)
	assert.Equal(t, float64(180), config.World.Height)
	assert.Equal(t, uint16(4), config.Index.Capacity)
	assert.True(t, config.Index.Threaded)
	assert.Equal(t, "auto", config.Security.APIKey)
	assert.Equal(t, "info", config.Logging.Level)

	assert.NoError(t, config.Validate())
}

func TestGenerateAPIKey(t *testing.T) {
	t.Run("generate 32 byte key", func(t *testing.T) {
		key, err := GenerateAPIKey(32)
		require.NoError(t, err)
		assert.Len(t, key, 64) // 32 bytes = 64 hex characters

		// Verify it's valid hex
		_, err = hex.DecodeString(key)
		assert.NoError(t, err)
	})

	t.Run("generate different keys", func(t *testing.T) {
		key1, err := GenerateAPIKey(16)
		require.NoError(t, err)
		key2, err := GenerateAPIKey(16)
		require.NoError(t, err)

		assert.NotEqual(t, key1, key2)
	})
}

func TestLoadConfig(t *testing.T) {
	t.Run("load existing config", func(t *testing.T) {
		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, "config.yaml")

		want := DefaultConfig()
		want.Port = 9090
		want.World = World{OriginX: 0, OriginY: 0, Width: 100, Height: 100}
		want.Index.Capacity = 8
		require.NoError(t, SaveConfig(want, configPath))

		got, err := LoadConfig(configPath)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	})

	t.Run("missing config", func(t *testing.T) {
		_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
		assert.ErrorContains(t, err, "does not exist")
	})

	t.Run("invalid yaml", func(t *testing.T) {
		configPath := filepath.Join(t.TempDir(), "bad.yaml")
		require.NoError(t, os.WriteFile(configPath, []byte("world: [unclosed"), 0600))

		_, err := LoadConfig(configPath)
		assert.ErrorContains(t, err, "failed to parse")
	})

	t.Run("rejects degenerate world", func(t *testing.T) {
		configPath := filepath.Join(t.TempDir(), "flat.yaml")
		cfg := DefaultConfig()
		cfg.World.Height = 0
		require.NoError(t, SaveConfig(cfg, configPath))

		_, err := LoadConfig(configPath)
		assert.ErrorContains(t, err, "world dimensions")
	})
}

func TestBootstrapConfig(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")

	config, err := BootstrapConfig(configPath, "/tmp/njord-data")
	require.NoError(t, err)

	assert.Equal(t, "/tmp/njord-data", config.DataDir)
	assert.NotEqual(t, "auto", config.Security.APIKey)
	assert.Len(t, config.Security.APIKey, 64)
	assert.True(t, ConfigExists(configPath))

	loaded, err := LoadConfig(configPath)
	require.NoError(t, err)
	assert.Equal(t, config.Security.APIKey, loaded.Security.APIKey)
}
