package internal

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Env         string
	Port        int
	LogLevel    string
	DatabaseUrl string

	// Reporting timezone (IANA name, e.g. "Asia/Bangkok"). Period windows
	// are resolved in this zone rather than whatever the host happens to
	// run in, since business units span multiple countries. "Local" keeps
	// the process zone.
	ReportTimezone string

	// Background dashboard refresh
	RefreshEnabled  bool
	RefreshInterval time.Duration

	// Metrics endpoint authentication
	// If both are empty, the /metrics endpoint will be unprotected (not recommended)
	MetricsUsername string
	MetricsPassword string
}

func NewConfig() (*Config, error) {
	// Load .env file if it exists (ignored in production)
	_ = godotenv.Load()

	cfg := &Config{
		Env:      getEnv("ENV", "development"),
		Port:     getEnvInt("PORT", 8080),
		LogLevel: getEnv("LOG_LEVEL", "debug"),

		ReportTimezone: getEnv("REPORT_TIMEZONE", "Local"),

		RefreshEnabled:  getEnvBool("REFRESH_ENABLED", true),
		RefreshInterval: getEnvDuration("REFRESH_INTERVAL", 5*time.Minute),

		MetricsUsername: getEnv("METRICS_USERNAME", ""),
		MetricsPassword: getEnv("METRICS_PASSWORD", ""),
	}

	// Required
	cfg.DatabaseUrl = os.Getenv("DATABASE_URL")
	if cfg.DatabaseUrl == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	// Validate the timezone early so a typo fails at startup, not at the
	// first dashboard request.
	if _, err := time.LoadLocation(cfg.ReportTimezone); err != nil {
		return nil, fmt.Errorf("REPORT_TIMEZONE %q is not a valid IANA timezone: %w", cfg.ReportTimezone, err)
	}

	if cfg.RefreshInterval <= 0 {
		return nil, fmt.Errorf("REFRESH_INTERVAL must be positive, got: %s", cfg.RefreshInterval)
	}

	return cfg, nil
}

// Location resolves the configured reporting timezone.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.ReportTimezone)
	if err != nil {
		// Validated in NewConfig; falling back keeps this total.
		return time.Local
	}
	return loc
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return fallback
}
