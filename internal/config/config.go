// Package config loads and persists the application configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// Config represents the application configuration.
type Config struct {
	// API server configuration
	Server ServerConfig `toml:"server"`

	// Card index configuration
	Cards CardsConfig `toml:"cards"`

	// Watch mode configuration
	Watch WatchConfig `toml:"watch"`
}

// ServerConfig contains API server settings.
type ServerConfig struct {
	ListenAddr string `toml:"listen_addr"` // Address the API server binds to
}

// CardsConfig contains card index settings.
type CardsConfig struct {
	DBPath     string `toml:"db_path"`      // Path to the SQLite card index
	APIBaseURL string `toml:"api_base_url"` // Card API base URL ("" = default)
	APIKey     string `toml:"api_key"`      // Optional card API key
	Offline    bool   `toml:"offline"`      // Never call the remote card API
}

// WatchConfig contains watch mode settings.
type WatchConfig struct {
	Debounce string `toml:"debounce"` // Re-parse debounce (e.g. "300ms")
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			ListenAddr: ":8080",
		},
		Cards: CardsConfig{
			DBPath: "", // resolved against the config dir when empty
		},
		Watch: WatchConfig{
			Debounce: "300ms",
		},
	}
}

// configDir returns the per-user configuration directory, creating it.
func configDir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get home directory: %w", err)
	}

	dir := filepath.Join(homeDir, ".deckimport")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create config directory: %w", err)
	}
	return dir, nil
}

// Load loads the configuration from disk. Returns default config if the
// file doesn't exist.
func Load() (*Config, error) {
	dir, err := configDir()
	if err != nil {
		return nil, err
	}
	path := filepath.Join(dir, "config.toml")

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return DefaultConfig(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	var config Config
	if err := toml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("parse config file: %w", err)
	}

	return &config, nil
}

// Save saves the configuration to disk.
func (c *Config) Save() error {
	dir, err := configDir()
	if err != nil {
		return err
	}

	data, err := toml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(filepath.Join(dir, "config.toml"), data, 0o644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}
	return nil
}

// Validate validates the configuration values.
func (c *Config) Validate() error {
	if c.Server.ListenAddr == "" {
		return fmt.Errorf("server listen address cannot be empty")
	}
	if _, err := time.ParseDuration(c.Watch.Debounce); err != nil {
		return fmt.Errorf("invalid watch debounce %q: %w", c.Watch.Debounce, err)
	}
	return nil
}

// CardDBPath resolves the card index path, defaulting into the config dir.
func (c *Config) CardDBPath() (string, error) {
	if c.Cards.DBPath != "" {
		return c.Cards.DBPath, nil
	}
	dir, err := configDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "cards.db"), nil
}

// WatchDebounce returns the watch debounce as a duration.
func (c *Config) WatchDebounce() (time.Duration, error) {
	return time.ParseDuration(c.Watch.Debounce)
}
