package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Session backend names accepted by SESSION_BACKEND.
const (
	SessionBackendMemory = "memory"
	SessionBackendRedis  = "redis"
	SessionBackendSQLite = "sqlite"
)

// Config holds all application configuration loaded from environment
// variables. It is the single source of truth for runtime parameters.
type Config struct {
	Port string
	Env  string

	API     APIConfig
	Session SessionConfig
	Redis   RedisConfig
}

// APIConfig contains the upstream WiseTech API connection parameters.
type APIConfig struct {
	BaseURL string
	Timeout time.Duration
}

// SessionConfig controls where console sessions are persisted.
type SessionConfig struct {
	Backend    string
	TTL        time.Duration
	SQLitePath string
	CookieName string
}

// RedisConfig contains Redis connection parameters.
type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

// Load reads configuration from environment variables. If a .env file exists
// in the working directory, it will be loaded first. It returns a populated
// Config or an error with a human-friendly message.
func Load() (*Config, error) {
	// Load .env if present; ignore error if file is missing so that production
	// environments relying solely on real environment variables keep working.
	_ = godotenv.Load()

	cfg := &Config{}

	cfg.Port = getEnv("PORT", "3000")
	cfg.Env = getEnv("ENV", "development")

	cfg.API = APIConfig{
		BaseURL: getEnv("WISETECH_API_URL", "http://localhost:8000"),
	}

	cfg.Session = SessionConfig{
		Backend:    getEnv("SESSION_BACKEND", SessionBackendMemory),
		SQLitePath: getEnv("SESSION_SQLITE_PATH", "sessions.db"),
		CookieName: getEnv("SESSION_COOKIE_NAME", "wisetech_session"),
	}

	cfg.Redis = RedisConfig{
		Host:     getEnv("REDIS_HOST", "redis"),
		Port:     getEnv("REDIS_PORT", "6379"),
		Password: getEnv("REDIS_PASSWORD", ""),
		DB:       getEnvInt("REDIS_DB", 0),
	}

	var err error
	if cfg.API.Timeout, err = parseDurationEnv("WISETECH_API_TIMEOUT", "30s"); err != nil {
		return nil, fmt.Errorf("invalid WISETECH_API_TIMEOUT: %w", err)
	}
	if cfg.Session.TTL, err = parseDurationEnv("SESSION_TTL", "24h"); err != nil {
		return nil, fmt.Errorf("invalid SESSION_TTL: %w", err)
	}

	switch cfg.Session.Backend {
	case SessionBackendMemory, SessionBackendRedis, SessionBackendSQLite:
	default:
		return nil, fmt.Errorf("invalid SESSION_BACKEND %q: must be %s, %s, or %s",
			cfg.Session.Backend, SessionBackendMemory, SessionBackendRedis, SessionBackendSQLite)
	}

	return cfg, nil
}

// IsProduction reports whether the console runs with production settings.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// getEnv returns the value of an environment variable or a default if empty.
func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// getEnvInt returns the value of an environment variable as an integer or a
// default if empty/invalid.
func getEnvInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return i
}

// parseDurationEnv reads an environment variable and parses it as
// time.Duration. If the variable is empty, it falls back to the provided
// default value.
func parseDurationEnv(key, def string) (time.Duration, error) {
	raw := getEnv(key, def)
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, err
	}
	if d < 0 {
		return 0, fmt.Errorf("duration must be >= 0")
	}
	return d, nil
}
