// Package config provides configuration management for minutes.
package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"
)

const (
	// DefaultSSEPort is the default HTTP port for the MCP SSE transport.
	DefaultSSEPort = 38777

	// DefaultTimezone is the canonical time zone all meeting timestamps
	// are normalized to before comparison. The upstream recorder stamps
	// meetings in US Central, so that is the default.
	DefaultTimezone = "America/Chicago"

	// DefaultLookback is the implicit lower date bound applied by
	// list/search operations when the caller supplies no date filters.
	DefaultLookback = "3d"
)

// Config holds the application configuration.
type Config struct {
	// CachePath is the meeting cache file maintained by the recorder.
	CachePath string `json:"cache_path"`

	// Timezone is the canonical time zone name (IANA).
	Timezone string `json:"timezone"`

	// SSEPort is the HTTP port for the SSE/Streamable transports.
	SSEPort int `json:"sse_port"`

	// Lookback is the implicit date window for unbounded queries.
	Lookback string `json:"lookback"`
}

// DataDir returns the data directory path (~/.minutes).
func DataDir() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".minutes")
}

// SettingsPath returns the settings file path.
func SettingsPath() string {
	return filepath.Join(DataDir(), "settings.json")
}

// DefaultCachePath returns the default meeting cache file path.
func DefaultCachePath() string {
	return filepath.Join(DataDir(), "cache-v3.json")
}

// EnsureDataDir creates the data directory if it doesn't exist.
func EnsureDataDir() error {
	return os.MkdirAll(DataDir(), 0750)
}

// EnsureSettings creates a default settings file if it doesn't exist.
func EnsureSettings() error {
	path := SettingsPath()

	if _, err := os.Stat(path); err == nil {
		return nil // File exists
	}

	defaultSettings := `{
  "MINUTES_CACHE_PATH": "",
  "MINUTES_TIMEZONE": "America/Chicago",
  "MINUTES_SSE_PORT": 38777,
  "MINUTES_LOOKBACK": "3d"
}
`
	return os.WriteFile(path, []byte(defaultSettings), 0600)
}

// EnsureAll ensures all required directories and files exist.
func EnsureAll() error {
	if err := EnsureDataDir(); err != nil {
		return err
	}
	return EnsureSettings()
}

// Default returns a Config with default values.
func Default() *Config {
	return &Config{
		CachePath: DefaultCachePath(),
		Timezone:  DefaultTimezone,
		SSEPort:   DefaultSSEPort,
		Lookback:  DefaultLookback,
	}
}

// Load loads configuration from the settings file, merging with defaults.
func Load() (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(SettingsPath())
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, err
	}

	// Load settings into a map to preserve unknown fields
	var settings map[string]interface{}
	if err := json.Unmarshal(data, &settings); err != nil {
		return cfg, nil // Return defaults on parse error
	}

	if v, ok := settings["MINUTES_CACHE_PATH"].(string); ok && v != "" {
		cfg.CachePath = v
	}
	if v, ok := settings["MINUTES_TIMEZONE"].(string); ok && v != "" {
		cfg.Timezone = v
	}
	if v, ok := settings["MINUTES_SSE_PORT"].(float64); ok && v > 0 {
		cfg.SSEPort = int(v)
	}
	if v, ok := settings["MINUTES_LOOKBACK"].(string); ok && v != "" {
		cfg.Lookback = v
	}

	// Environment overrides
	if v := os.Getenv("MINUTES_CACHE_PATH"); v != "" {
		cfg.CachePath = v
	}
	if v := os.Getenv("MINUTES_TIMEZONE"); v != "" {
		cfg.Timezone = v
	}

	return cfg, nil
}

// Location resolves the canonical time zone. Falls back to UTC when the
// configured name cannot be loaded.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}
