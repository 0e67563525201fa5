package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, "./data", cfg.DataDir)
	assert.Equal(t, "s2", cfg.Codec)
	assert.Equal(t, 64, cfg.ChunkSizeKB)
	assert.Equal(t, 64*1024, cfg.ChunkSize())
	assert.NoError(t, cfg.Validate())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults pass", func(c *Config) {}, false},
		{"zstd codec", func(c *Config) { c.Codec = "zstd" }, false},
		{"snappy codec", func(c *Config) { c.Codec = "snappy" }, false},
		{"unknown codec", func(c *Config) { c.Codec = "brotli" }, true},
		{"zero chunk size", func(c *Config) { c.ChunkSizeKB = 0 }, true},
		{"negative chunk size", func(c *Config) { c.ChunkSizeKB = -1 }, true},
		{"zero arena capacity", func(c *Config) { c.Pool.ArenaCapacityKB = 0 }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	cfg := DefaultConfig()
	cfg.Codec = "zstd"
	cfg.ChunkSizeKB = 128
	cfg.Pool.MaxIdle = 4
	require.NoError(t, SaveConfig(cfg, path))
	assert.True(t, ConfigExists(path))

	loaded, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
	assert.False(t, ConfigExists(filepath.Join(t.TempDir(), "nope.yaml")))
}

func TestLoadPartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "partial.yaml")
	require.NoError(t, os.WriteFile(path, []byte("codec: snappy\n"), 0600))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "snappy", cfg.Codec)
	assert.Equal(t, DefaultConfig().DataDir, cfg.DataDir)
	assert.Equal(t, DefaultConfig().ChunkSizeKB, cfg.ChunkSizeKB)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("codec: nope\n"), 0600))
	_, err := LoadConfig(path)
	assert.Error(t, err)
}

func TestLoadRejectsMalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.yaml")
	require.NoError(t, os.WriteFile(path, []byte("codec: [unclosed\n"), 0600))
	_, err := LoadConfig(path)
	assert.Error(t, err)
}

func TestGetDefaultConfigPath(t *testing.T) {
	path := GetDefaultConfigPath()
	assert.NotEmpty(t, path)
	assert.Contains(t, path, "dx")
}
