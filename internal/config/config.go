// Package config loads and persists the application configuration.
package config

import (
	"encoding/json"
	"os"
	"path/filepath"
)

// Config is the persistent application configuration.
type Config struct {
	// DataURL is the base URL of the country data documents
	// ({CC}.json and index.json live directly underneath it).
	DataURL string `json:"data_url"`

	// Countries overrides the built-in roster when non-empty.
	Countries []string `json:"countries,omitempty"`

	// RequestTimeoutSeconds bounds each per-country fetch.
	RequestTimeoutSeconds int `json:"request_timeout_seconds"`

	// RefreshMinutes is the background summary refresh interval.
	RefreshMinutes int `json:"refresh_minutes"`

	// FetchesPerSecond rate-limits outgoing requests during fan-out.
	FetchesPerSecond float64 `json:"fetches_per_second"`
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		DataURL:               "https://worldmood.report/countries",
		RequestTimeoutSeconds: 15,
		RefreshMinutes:        10,
		FetchesPerSecond:      20,
	}
}

// Dir returns the application data directory (~/.worldmood).
func Dir() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".worldmood")
}

// Path returns the config file location.
func Path() string {
	return filepath.Join(Dir(), "config.json")
}

// Load reads config from disk. Missing or corrupt files yield defaults
// rather than an error; a broken config should never keep the UI from
// starting.
func Load() (*Config, error) {
	data, err := os.ReadFile(Path())
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultConfig(), nil
		}
		return nil, err
	}

	cfg := DefaultConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return DefaultConfig(), nil
	}

	if cfg.RequestTimeoutSeconds <= 0 {
		cfg.RequestTimeoutSeconds = DefaultConfig().RequestTimeoutSeconds
	}
	if cfg.RefreshMinutes <= 0 {
		cfg.RefreshMinutes = DefaultConfig().RefreshMinutes
	}
	if cfg.FetchesPerSecond <= 0 {
		cfg.FetchesPerSecond = DefaultConfig().FetchesPerSecond
	}

	return cfg, nil
}

// Save writes config to disk.
func (c *Config) Save() error {
	if err := os.MkdirAll(Dir(), 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(Path(), data, 0644)
}
