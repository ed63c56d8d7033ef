package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

// Config holds the runtime settings read from the environment.
type Config struct {
	Port              string
	Env               string
	Debug             bool
	DatabaseURL       string
	RedisURL          string
	ClerkSecretKey    string
	CORSOrigins       []string
	FirebaseBucket    string
	GoogleCredentials string
	RateLimit         RateLimitConfig
}

// RateLimitConfig allows Requests per client within each Window.
type RateLimitConfig struct {
	Requests int
	Window   time.Duration
}

func LoadEnv() error {
	// A missing .env is fine: deployed environments set variables directly.
	_ = godotenv.Load()
	return nil
}

// Load reads the environment (after .env) into a Config and validates it.
func Load() (*Config, error) {
	if err := LoadEnv(); err != nil {
		return nil, err
	}

	cfg := &Config{
		Port:              GetEnv("PORT", "8000"),
		Env:               GetEnv("ENV", "development"),
		Debug:             strings.EqualFold(os.Getenv("DEBUG"), "true"),
		DatabaseURL:       os.Getenv("DATABASE_URL"),
		RedisURL:          os.Getenv("REDIS_URL"),
		ClerkSecretKey:    os.Getenv("CLERK_SECRET_KEY"),
		CORSOrigins:       splitList(GetEnv("CORS_ORIGINS", "http://localhost:3000")),
		FirebaseBucket:    os.Getenv("FIREBASE_STORAGE_BUCKET"),
		GoogleCredentials: os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"),
		RateLimit: RateLimitConfig{
			Requests: getInt("RATE_LIMIT_REQUESTS", 100),
			Window:   getDuration("RATE_LIMIT_WINDOW", time.Minute),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate fails on missing critical settings and warns about optional ones.
func (c *Config) Validate() error {
	var missing []string

	if c.DatabaseURL == "" {
		missing = append(missing, "DATABASE_URL")
	}
	// Debug mode accepts unverified identity tokens, so the secret is only
	// required outside it.
	if c.ClerkSecretKey == "" && !c.Debug {
		missing = append(missing, "CLERK_SECRET_KEY")
	}

	if len(missing) > 0 {
		return fmt.Errorf("critical environment variables not set: %v", missing)
	}

	if c.FirebaseBucket == "" {
		log.Warn().Msg("FIREBASE_STORAGE_BUCKET not set - image uploads are disabled")
	}
	if c.RedisURL == "" {
		log.Warn().Msg("REDIS_URL not set - rate limiting is per process")
	}
	if c.Debug {
		log.Warn().Msg("DEBUG is on - identity token signatures are not verified")
	}
	return nil
}

// ValidateEnv checks the environment without building a full Config.
func ValidateEnv() error {
	cfg := &Config{
		Debug:          strings.EqualFold(os.Getenv("DEBUG"), "true"),
		DatabaseURL:    os.Getenv("DATABASE_URL"),
		ClerkSecretKey: os.Getenv("CLERK_SECRET_KEY"),
		FirebaseBucket: os.Getenv("FIREBASE_STORAGE_BUCKET"),
		RedisURL:       os.Getenv("REDIS_URL"),
	}
	return cfg.Validate()
}

func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

func GetEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getInt(key string, defaultValue int) int {
	n, err := strconv.Atoi(os.Getenv(key))
	if err != nil || n <= 0 {
		return defaultValue
	}
	return n
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	d, err := time.ParseDuration(os.Getenv(key))
	if err != nil || d <= 0 {
		return defaultValue
	}
	return d
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
