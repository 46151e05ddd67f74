package config

import "testing"

func TestLoadDefaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.ServerPort != 8080 {
		t.Fatalf("default port %d", cfg.ServerPort)
	}
	if cfg.DBPort != 5432 || cfg.DBSSLMode != "disable" {
		t.Fatalf("unexpected db defaults: %+v", cfg)
	}
	if cfg.TokenTTLMinutes != 0 {
		t.Fatalf("default token ttl %d, want 0 (no expiry)", cfg.TokenTTLMinutes)
	}
	if cfg.RedisURL != "" {
		t.Fatalf("cache enabled by default: %q", cfg.RedisURL)
	}
	if cfg.CacheTTLSeconds != 60 || cfg.StatsIntervalMinutes != 1 {
		t.Fatalf("unexpected cache/stats defaults: %+v", cfg)
	}
}

func TestLoadRequiresSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")

	if _, err := Load(); err == nil {
		t.Fatal("expected error without JWT_SECRET")
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("TOKEN_TTL_MINUTES", "30")
	t.Setenv("REDIS_URL", "redis://localhost:6379/0")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.ServerPort != 9090 || cfg.TokenTTLMinutes != 30 {
		t.Fatalf("overrides not applied: %+v", cfg)
	}
	if cfg.RedisURL != "redis://localhost:6379/0" {
		t.Fatalf("redis url not applied: %q", cfg.RedisURL)
	}
}

func TestLoadRejectsBadInt(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("SERVER_PORT", "not-a-number")

	if _, err := Load(); err == nil {
		t.Fatal("expected error for non-numeric SERVER_PORT")
	}
}
