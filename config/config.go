// ABOUTME: Configuration for API connection, cache TTLs, and identity
// ABOUTME: Loads JSON config from the XDG data dir with environment overrides
package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
)

const (
	// AppName is the application name used for data and cache paths.
	AppName = "revline"

	// ConfigFileName is where local config is stored.
	ConfigFileName = "config.json"

	// DefaultBaseURL points at the production revenue operations API.
	DefaultBaseURL = "https://api.revops.example.com"
)

// Config holds connection and cache policy settings. The two TTLs are the
// explicit per-view cache policy: the full actions view runs much shorter
// than the summary view so new actions surface quickly.
type Config struct {
	// BaseURL is the API server root.
	BaseURL string `json:"base_url,omitempty"`

	// AuthToken is the bearer token for API calls.
	AuthToken string `json:"auth_token,omitempty"`

	// CurrentUserID renders as "Me" in the timeline.
	CurrentUserID string `json:"current_user_id,omitempty"`

	// SummaryTTL bounds cache reuse for the summary timeline view.
	SummaryTTL time.Duration `json:"summary_ttl,omitempty"`

	// FullTTL bounds cache reuse for the full actions view.
	FullTTL time.Duration `json:"full_ttl,omitempty"`

	// RequestTimeout caps each API call.
	RequestTimeout time.Duration `json:"request_timeout,omitempty"`
}

// DefaultConfig returns a config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		BaseURL:        DefaultBaseURL,
		SummaryTTL:     5 * time.Minute,
		FullTTL:        30 * time.Second,
		RequestTimeout: 10 * time.Second,
	}
}

// configPath returns the path to the config file.
func configPath() (string, error) {
	dataDir := filepath.Join(xdg.DataHome, AppName)
	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return "", err
	}
	return filepath.Join(dataDir, ConfigFileName), nil
}

// CacheDir returns the directory for the badger cache database.
func CacheDir() string {
	return filepath.Join(xdg.CacheHome, AppName, "timeline")
}

// Load reads config from disk, falling back to defaults when missing or
// invalid, then applies environment overrides.
func Load() (*Config, error) {
	cfg := DefaultConfig()

	path, err := configPath()
	if err == nil {
		if data, err := os.ReadFile(path); err == nil {
			var loaded Config
			if json.Unmarshal(data, &loaded) == nil {
				cfg.merge(&loaded)
			}
		}
	}

	cfg.applyEnv()
	return cfg, nil
}

func (c *Config) merge(other *Config) {
	if other.BaseURL != "" {
		c.BaseURL = other.BaseURL
	}
	if other.AuthToken != "" {
		c.AuthToken = other.AuthToken
	}
	if other.CurrentUserID != "" {
		c.CurrentUserID = other.CurrentUserID
	}
	if other.SummaryTTL > 0 {
		c.SummaryTTL = other.SummaryTTL
	}
	if other.FullTTL > 0 {
		c.FullTTL = other.FullTTL
	}
	if other.RequestTimeout > 0 {
		c.RequestTimeout = other.RequestTimeout
	}
}

// applyEnv lets environment variables override file config. Durations use
// Go syntax ("90s", "3m").
func (c *Config) applyEnv() {
	if v := os.Getenv("REVLINE_BASE_URL"); v != "" {
		c.BaseURL = v
	}
	if v := os.Getenv("REVLINE_AUTH_TOKEN"); v != "" {
		c.AuthToken = v
	}
	if v := os.Getenv("REVLINE_USER_ID"); v != "" {
		c.CurrentUserID = v
	}
	if v := os.Getenv("REVLINE_SUMMARY_TTL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			c.SummaryTTL = d
		}
	}
	if v := os.Getenv("REVLINE_FULL_TTL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			c.FullTTL = d
		}
	}
	if v := os.Getenv("REVLINE_REQUEST_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			c.RequestTimeout = d
		}
	}
}

// Save persists the config to disk.
func (c *Config) Save() error {
	path, err := configPath()
	if err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0600)
}
