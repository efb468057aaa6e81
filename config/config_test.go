// ABOUTME: Tests for config defaults, file merge, and environment overrides
// ABOUTME: Exercises duration parsing for the TTL and timeout settings
package config

import (
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.BaseURL != DefaultBaseURL {
		t.Errorf("expected default base URL, got %q", cfg.BaseURL)
	}
	if cfg.SummaryTTL != 5*time.Minute {
		t.Errorf("expected 5m summary TTL, got %v", cfg.SummaryTTL)
	}
	if cfg.FullTTL != 30*time.Second {
		t.Errorf("expected 30s full TTL, got %v", cfg.FullTTL)
	}
}

func TestMergeKeepsDefaultsForEmptyFields(t *testing.T) {
	cfg := DefaultConfig()
	cfg.merge(&Config{AuthToken: "tok-1"})

	if cfg.AuthToken != "tok-1" {
		t.Errorf("expected merged token, got %q", cfg.AuthToken)
	}
	if cfg.BaseURL != DefaultBaseURL {
		t.Error("merge must not blank out the base URL")
	}
	if cfg.SummaryTTL != 5*time.Minute {
		t.Error("merge must not zero the summary TTL")
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("REVLINE_BASE_URL", "http://localhost:9999")
	t.Setenv("REVLINE_AUTH_TOKEN", "env-token")
	t.Setenv("REVLINE_SUMMARY_TTL", "90s")
	t.Setenv("REVLINE_FULL_TTL", "5s")

	cfg := DefaultConfig()
	cfg.applyEnv()

	if cfg.BaseURL != "http://localhost:9999" {
		t.Errorf("expected env base URL, got %q", cfg.BaseURL)
	}
	if cfg.AuthToken != "env-token" {
		t.Errorf("expected env token, got %q", cfg.AuthToken)
	}
	if cfg.SummaryTTL != 90*time.Second {
		t.Errorf("expected 90s summary TTL, got %v", cfg.SummaryTTL)
	}
	if cfg.FullTTL != 5*time.Second {
		t.Errorf("expected 5s full TTL, got %v", cfg.FullTTL)
	}
}

func TestEnvBadDurationIgnored(t *testing.T) {
	t.Setenv("REVLINE_SUMMARY_TTL", "not-a-duration")

	cfg := DefaultConfig()
	cfg.applyEnv()

	if cfg.SummaryTTL != 5*time.Minute {
		t.Errorf("bad duration must keep the default, got %v", cfg.SummaryTTL)
	}
}
