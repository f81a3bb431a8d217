package app

import (
	"os"
	"strconv"
	"time"

	"github.com/lanternsoft/lantern/pkg/jwtx"
)

type Config struct {
	Issuer     string // Issuer claim for tokens (default: lantern)
	SigningKey string // Optional: path to a PEM Ed25519 private key; empty means an ephemeral key per process
	AccessTTL  time.Duration
	RefreshTTL time.Duration

	GoogleClientID string // Optional: audience for Google sign-in; empty disables the endpoint

	DatabaseFile         string
	Env                  string // dev, staging, prod (default: dev)
	LogLevel             string
	LogFormat            string // json, text
	Port                 int
	ShutdownGracePeriod  time.Duration
	HousekeepingInterval time.Duration
}

func LoadConfig() Config {
	return Config{
		Issuer:         getEnvOrDefault("LANTERN_ISSUER", "lantern"),
		SigningKey:     os.Getenv("LANTERN_SIGNING_KEY_FILE"),
		AccessTTL:      getEnvDurationOrDefault("LANTERN_ACCESS_TTL", jwtx.DefaultAccessTTL),
		RefreshTTL:     getEnvDurationOrDefault("LANTERN_REFRESH_TTL", jwtx.DefaultRefreshTTL),
		GoogleClientID: os.Getenv("LANTERN_GOOGLE_CLIENT_ID"),

		DatabaseFile:         getEnvOrDefault("LANTERN_DATABASE_FILE", "lantern.db"),
		Env:                  getEnvOrDefault("ENV", "dev"),
		LogLevel:             getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:            getEnvOrDefault("LOG_FORMAT", "json"),
		Port:                 getEnvIntOrDefault("PORT", 8080),
		ShutdownGracePeriod:  getEnvDurationOrDefault("SHUTDOWN_GRACE_PERIOD", 10*time.Second),
		HousekeepingInterval: getEnvDurationOrDefault("HOUSEKEEPING_INTERVAL", 1*time.Hour),
	}
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if intValue, err := strconv.Atoi(value); err == nil {
		return intValue
	}

	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if duration, err := time.ParseDuration(value); err == nil {
		return duration
	}

	return defaultValue
}
