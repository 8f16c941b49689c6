package config

import (
	"os"
	"strconv"
	"time"
)

// DevJWTSecret is used when MINIMALAPI_JWT_SECRET is unset. main warns about it.
const DevJWTSecret = "dev-secret-change-me"

type Config struct {
	HTTPAddr           string
	DatabaseURL        string
	AdministratorsPath string
	JWTSecret          string
	LogLevel           string

	// Login guard; disabled when RedisURL is empty.
	RedisURL       string
	LoginFailLimit int
	LoginLockTTL   time.Duration
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func getenvDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

func Load() Config {
	cfg := Config{
		HTTPAddr:           getenv("MINIMALAPI_HTTP_ADDR", ":8080"),
		DatabaseURL:        getenv("MINIMALAPI_DATABASE_URL", "sqlite://minimal_api.db"),
		AdministratorsPath: getenv("MINIMALAPI_ADMINISTRATORS_PATH", "config/administrators.yaml"),
		JWTSecret:          os.Getenv("MINIMALAPI_JWT_SECRET"),
		LogLevel:           getenv("MINIMALAPI_LOG_LEVEL", "info"),
		RedisURL:           os.Getenv("MINIMALAPI_REDIS_URL"),
		LoginFailLimit:     getenvInt("MINIMALAPI_LOGIN_FAIL_LIMIT", 5),
		LoginLockTTL:       getenvDuration("MINIMALAPI_LOGIN_LOCK_TTL", 15*time.Minute),
	}
	if cfg.JWTSecret == "" {
		cfg.JWTSecret = DevJWTSecret
	}
	return cfg
}
