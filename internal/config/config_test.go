package config

import "testing"

func TestLoadDefaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("MONGODB_URI", "")
	t.Setenv("STATS_CACHE_TTL_SECONDS", "")

	cfg := Load()
	if cfg.Port != "7777" {
		t.Errorf("Port = %q, want 7777", cfg.Port)
	}
	if cfg.MongoURI != "mongodb://localhost:27017/contexthub" {
		t.Errorf("MongoURI = %q", cfg.MongoURI)
	}
	if cfg.Environment != "development" {
		t.Errorf("Environment = %q, want development", cfg.Environment)
	}
	if cfg.StatsCacheTTL != 30 {
		t.Errorf("StatsCacheTTL = %d, want 30", cfg.StatsCacheTTL)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "9999")
	t.Setenv("ENVIRONMENT", "production")
	t.Setenv("STATS_CACHE_TTL_SECONDS", "120")

	cfg := Load()
	if cfg.Port != "9999" {
		t.Errorf("Port = %q, want 9999", cfg.Port)
	}
	if cfg.Environment != "production" {
		t.Errorf("Environment = %q, want production", cfg.Environment)
	}
	if cfg.StatsCacheTTL != 120 {
		t.Errorf("StatsCacheTTL = %d, want 120", cfg.StatsCacheTTL)
	}
}

func TestGetIntEnvInvalid(t *testing.T) {
	t.Setenv("STATS_CACHE_TTL_SECONDS", "not-a-number")

	if cfg := Load(); cfg.StatsCacheTTL != 30 {
		t.Errorf("StatsCacheTTL = %d, want default 30 for invalid value", cfg.StatsCacheTTL)
	}
}
