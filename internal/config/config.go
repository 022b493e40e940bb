package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config contains all runtime settings for the scam-analysis service.
type Config struct {
	BindAddr         string
	MetricsNamespace string
	ShutdownTimeout  time.Duration

	AllowAnyOrigin bool

	DatabaseURL string

	// MaxInputBytes bounds the text accepted by the analyze endpoints.
	MaxInputBytes int

	// NameDenyListPath optionally points to a file of extra phrases the
	// full-name heuristic must ignore, one per line.
	NameDenyListPath string

	// HardBlockBankAccounts extends the transmission-blocking policy from
	// {SSN, credit card} to bank account numbers as well.
	HardBlockBankAccounts bool

	// BlocklistRefreshInterval is how long a cached blocklist snapshot is
	// served before re-reading the store.
	BlocklistRefreshInterval time.Duration
}

// Load reads environment variables and applies safe defaults.
func Load() (Config, error) {
	cfg := Config{
		BindAddr:                 envOrDefault("APP_BIND_ADDR", ":8080"),
		MetricsNamespace:         envOrDefault("APP_METRICS_NAMESPACE", "scamshield"),
		AllowAnyOrigin:           false,
		DatabaseURL:              stringsTrimSpace("DATABASE_URL"),
		MaxInputBytes:            64 * 1024,
		NameDenyListPath:         stringsTrimSpace("PII_NAME_DENYLIST_PATH"),
		ShutdownTimeout:          15 * time.Second,
		BlocklistRefreshInterval: 30 * time.Second,
	}

	var err error
	cfg.ShutdownTimeout, err = durationFromEnv("APP_SHUTDOWN_TIMEOUT", cfg.ShutdownTimeout)
	if err != nil {
		return Config{}, err
	}
	cfg.BlocklistRefreshInterval, err = durationFromEnv("BLOCKLIST_REFRESH_INTERVAL", cfg.BlocklistRefreshInterval)
	if err != nil {
		return Config{}, err
	}
	cfg.MaxInputBytes, err = intFromEnv("APP_MAX_INPUT_BYTES", cfg.MaxInputBytes)
	if err != nil {
		return Config{}, err
	}
	cfg.AllowAnyOrigin, err = boolFromEnv("APP_ALLOW_ANY_ORIGIN", cfg.AllowAnyOrigin)
	if err != nil {
		return Config{}, err
	}
	cfg.HardBlockBankAccounts, err = boolFromEnv("PII_HARD_BLOCK_BANK_ACCOUNTS", cfg.HardBlockBankAccounts)
	if err != nil {
		return Config{}, err
	}

	if cfg.ShutdownTimeout < time.Second {
		return Config{}, fmt.Errorf("APP_SHUTDOWN_TIMEOUT must be at least 1s")
	}
	if cfg.MaxInputBytes < 1024 {
		return Config{}, fmt.Errorf("APP_MAX_INPUT_BYTES must be at least 1024")
	}
	if cfg.BlocklistRefreshInterval < time.Second {
		return Config{}, fmt.Errorf("BLOCKLIST_REFRESH_INTERVAL must be at least 1s")
	}

	return cfg, nil
}

func envOrDefault(key, fallback string) string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	return v
}

func stringsTrimSpace(key string) string {
	return strings.TrimSpace(os.Getenv(key))
}

func durationFromEnv(key string, fallback time.Duration) (time.Duration, error) {
	v := stringsTrimSpace(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s parse error: %w", key, err)
	}
	return d, nil
}

func intFromEnv(key string, fallback int) (int, error) {
	v := stringsTrimSpace(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s parse error: %w", key, err)
	}
	return n, nil
}

func boolFromEnv(key string, fallback bool) (bool, error) {
	v := strings.ToLower(stringsTrimSpace(key))
	if v == "" {
		return fallback, nil
	}
	switch v {
	case "1", "true", "t", "yes", "y", "on":
		return true, nil
	case "0", "false", "f", "no", "n", "off":
		return false, nil
	default:
		return false, fmt.Errorf("%s parse error: expected bool", key)
	}
}
