// Package config loads and validates application configuration from environment variables.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Config holds all configuration values for the API server.
// Values are populated by Load from environment variables.
type Config struct {
	// Port is the TCP port the HTTP server listens on. Defaults to "8080".
	Port string

	// DatabaseURL is the Postgres connection string. Required.
	DatabaseURL string

	// LogLevel controls the minimum log level. Defaults to "info".
	// Valid values: debug, info, warn, error.
	LogLevel string

	// LogFile, when set, receives a rotated copy of the JSON log.
	LogFile string

	// CORSOrigins is the list of allowed cross-origin request origins.
	// Defaults to ["http://localhost:5173"] (Vite dev server).
	// Set CORS_ORIGINS to a comma-separated list to override.
	CORSOrigins []string

	// MaxBodyBytes caps request bodies. Defaults to 64 KiB; a single event is far smaller.
	MaxBodyBytes int64

	// MigrateOnStart applies pending migrations before serving. Defaults to false.
	MigrateOnStart bool

	// KafkaBrokers lists the brokers recorded events are published to.
	// Empty disables publishing.
	KafkaBrokers []string

	// KafkaTopic is the topic for recorded events. Defaults to "duty.events".
	KafkaTopic string
}

// Load reads configuration from environment variables and returns a Config.
// Returns an error listing any required variables that are not set, or any
// variable that could not be parsed.
func Load() (Config, error) {
	cfg := Config{
		Port:         getEnv("PORT", "8080"),
		LogLevel:     getEnv("LOG_LEVEL", "info"),
		LogFile:      os.Getenv("LOG_FILE"),
		CORSOrigins:  splitCSV(getEnv("CORS_ORIGINS", "http://localhost:5173")),
		KafkaBrokers: splitCSV(os.Getenv("KAFKA_BROKERS")),
		KafkaTopic:   getEnv("KAFKA_TOPIC", "duty.events"),
	}

	var missing []string

	cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	if cfg.DatabaseURL == "" {
		missing = append(missing, "DATABASE_URL")
	}

	if len(missing) > 0 {
		return Config{}, fmt.Errorf("required environment variables not set: %s", strings.Join(missing, ", "))
	}

	var err error
	cfg.MaxBodyBytes, err = strconv.ParseInt(getEnv("MAX_BODY_BYTES", "65536"), 10, 64)
	if err != nil || cfg.MaxBodyBytes <= 0 {
		return Config{}, fmt.Errorf("MAX_BODY_BYTES must be a positive integer, got %q", os.Getenv("MAX_BODY_BYTES"))
	}

	cfg.MigrateOnStart, err = strconv.ParseBool(getEnv("MIGRATE_ON_START", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("MIGRATE_ON_START must be a boolean, got %q", os.Getenv("MIGRATE_ON_START"))
	}

	return cfg, nil
}

// getEnv returns the value of the environment variable named by key,
// or fallback if the variable is not set or is empty.
func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// splitCSV splits a comma-separated string into a trimmed slice, ignoring empty entries.
func splitCSV(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if t := strings.TrimSpace(part); t != "" {
			out = append(out, t)
		}
	}
	return out
}
