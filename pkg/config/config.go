/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/dxforge/dxmachine/pkg/compress"
)

// Config represents the dx tool configuration
type Config struct {
	DataDir     string `yaml:"data_dir"`
	Codec       string `yaml:"codec"`
	ChunkSizeKB int    `yaml:"chunk_size_kb"`
	Pool        Pool   `yaml:"pool"`
}

// Pool contains arena pool tuning
type Pool struct {
	ArenaCapacityKB int `yaml:"arena_capacity_kb"`
	MaxIdle         int `yaml:"max_idle"`
}

// DefaultConfig returns a default configuration
func DefaultConfig() *Config {
	return &Config{
		DataDir:     "./data",
		Codec:       compress.Default().Name(),
		ChunkSizeKB: 64,
		Pool: Pool{
			ArenaCapacityKB: 64,
			MaxIdle:         16,
		},
	}
}

// Validate checks the configuration for values the engine cannot honor
func (c *Config) Validate() error {
	if _, err := compress.ByName(c.Codec); err != nil {
		return fmt.Errorf("invalid codec %q (have %v): %w", c.Codec, compress.Names(), err)
	}
	if c.ChunkSizeKB <= 0 {
		return fmt.Errorf("chunk_size_kb must be positive, got %d", c.ChunkSizeKB)
	}
	if c.Pool.ArenaCapacityKB <= 0 {
		return fmt.Errorf("pool.arena_capacity_kb must be positive, got %d", c.Pool.ArenaCapacityKB)
	}
	return nil
}

// ChunkSize returns the streaming chunk size in bytes
func (c *Config) ChunkSize() int { return c.ChunkSizeKB * 1024 }

// LoadConfig loads configuration from the specified path
func LoadConfig(configPath string) (*Config, error) {
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("config file does not exist: %s", configPath)
	}

	// Validate path to prevent directory traversal
	if !filepath.IsAbs(configPath) {
		absPath, err := filepath.Abs(configPath)
		if err != nil {
			return nil, fmt.Errorf("invalid config path: %w", err)
		}
		configPath = absPath
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// SaveConfig saves the configuration to the specified path
func SaveConfig(config *Config, configPath string) error {
	// Ensure config directory exists
	configDir := filepath.Dir(configPath)
	if err := os.MkdirAll(configDir, 0750); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// GetDefaultConfigPath returns the default configuration path for the current platform
func GetDefaultConfigPath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "./dx.yaml"
	}

	configDir := filepath.Join(homeDir, ".config", "dx")
	return filepath.Join(configDir, "config.yaml")
}

// ConfigExists checks if a configuration file exists
func ConfigExists(configPath string) bool {
	_, err := os.Stat(configPath)
	return !os.IsNotExist(err)
}
