package config

import (
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func init() {
	zerolog.SetGlobalLevel(zerolog.Disabled)
}

func TestLoadEnv(t *testing.T) {
	// LoadEnv returns nil when no .env file exists
	if err := LoadEnv(); err != nil {
		t.Errorf("expected nil, got %v", err)
	}
}

func TestValidateEnvAllSet(t *testing.T) {
	t.Setenv("CLERK_SECRET_KEY", "test-secret")
	t.Setenv("DATABASE_URL", "test-db-url")
	t.Setenv("DEBUG", "")

	if err := ValidateEnv(); err != nil {
		t.Errorf("expected nil, got %v", err)
	}
}

func TestValidateEnvMissingSecret(t *testing.T) {
	t.Setenv("CLERK_SECRET_KEY", "")
	t.Setenv("DATABASE_URL", "test-db-url")
	t.Setenv("DEBUG", "")

	if err := ValidateEnv(); err == nil {
		t.Error("expected error for missing CLERK_SECRET_KEY")
	}
}

func TestValidateEnvDebugWithoutSecret(t *testing.T) {
	t.Setenv("CLERK_SECRET_KEY", "")
	t.Setenv("DATABASE_URL", "test-db-url")
	t.Setenv("DEBUG", "True")

	if err := ValidateEnv(); err != nil {
		t.Errorf("debug mode should not require the secret, got %v", err)
	}
}

func TestValidateEnvMissingDatabaseURL(t *testing.T) {
	t.Setenv("CLERK_SECRET_KEY", "test-secret")
	t.Setenv("DATABASE_URL", "")

	if err := ValidateEnv(); err == nil {
		t.Error("expected error for missing DATABASE_URL")
	}
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/test")
	t.Setenv("CLERK_SECRET_KEY", "test-secret")
	t.Setenv("PORT", "")
	t.Setenv("CORS_ORIGINS", "")
	t.Setenv("RATE_LIMIT_REQUESTS", "")
	t.Setenv("RATE_LIMIT_WINDOW", "")

	cfg, err := Load()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Port != "8000" {
		t.Errorf("expected default port 8000, got %s", cfg.Port)
	}
	if len(cfg.CORSOrigins) != 1 || cfg.CORSOrigins[0] != "http://localhost:3000" {
		t.Errorf("unexpected default CORS origins: %v", cfg.CORSOrigins)
	}
	if cfg.RateLimit.Requests != 100 || cfg.RateLimit.Window != time.Minute {
		t.Errorf("unexpected default rate limit: %+v", cfg.RateLimit)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/test")
	t.Setenv("CLERK_SECRET_KEY", "test-secret")
	t.Setenv("CORS_ORIGINS", "https://shop.example.com, https://admin.example.com,")
	t.Setenv("RATE_LIMIT_REQUESTS", "20")
	t.Setenv("RATE_LIMIT_WINDOW", "30s")

	cfg, err := Load()
	if err != nil {
		t.Fatal(err)
	}
	if len(cfg.CORSOrigins) != 2 || cfg.CORSOrigins[1] != "https://admin.example.com" {
		t.Errorf("unexpected CORS origins: %v", cfg.CORSOrigins)
	}
	if cfg.RateLimit.Requests != 20 || cfg.RateLimit.Window != 30*time.Second {
		t.Errorf("unexpected rate limit: %+v", cfg.RateLimit)
	}
}

func TestGetEnvDefault(t *testing.T) {
	t.Setenv("BLACKMARKET_TEST_UNSET", "")
	if got := GetEnv("BLACKMARKET_TEST_UNSET", "fallback"); got != "fallback" {
		t.Errorf("expected fallback, got %s", got)
	}
}
