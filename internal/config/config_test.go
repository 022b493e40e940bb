package config

import (
	"testing"
	"time"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"APP_BIND_ADDR", "APP_METRICS_NAMESPACE", "APP_SHUTDOWN_TIMEOUT",
		"APP_MAX_INPUT_BYTES", "APP_ALLOW_ANY_ORIGIN", "DATABASE_URL",
		"PII_NAME_DENYLIST_PATH", "PII_HARD_BLOCK_BANK_ACCOUNTS",
		"BLOCKLIST_REFRESH_INTERVAL",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.BindAddr != ":8080" {
		t.Errorf("BindAddr = %q", cfg.BindAddr)
	}
	if cfg.MetricsNamespace != "scamshield" {
		t.Errorf("MetricsNamespace = %q", cfg.MetricsNamespace)
	}
	if cfg.ShutdownTimeout != 15*time.Second {
		t.Errorf("ShutdownTimeout = %v", cfg.ShutdownTimeout)
	}
	if cfg.MaxInputBytes != 64*1024 {
		t.Errorf("MaxInputBytes = %d", cfg.MaxInputBytes)
	}
	if cfg.AllowAnyOrigin || cfg.HardBlockBankAccounts {
		t.Errorf("bool defaults: AllowAnyOrigin=%v HardBlockBankAccounts=%v",
			cfg.AllowAnyOrigin, cfg.HardBlockBankAccounts)
	}
	if cfg.BlocklistRefreshInterval != 30*time.Second {
		t.Errorf("BlocklistRefreshInterval = %v", cfg.BlocklistRefreshInterval)
	}
}

func TestLoadOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("APP_BIND_ADDR", "127.0.0.1:9999")
	t.Setenv("APP_SHUTDOWN_TIMEOUT", "5s")
	t.Setenv("APP_MAX_INPUT_BYTES", "2048")
	t.Setenv("PII_HARD_BLOCK_BANK_ACCOUNTS", "true")
	t.Setenv("BLOCKLIST_REFRESH_INTERVAL", "2m")
	t.Setenv("DATABASE_URL", "  postgres://localhost/scamshield  ")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.BindAddr != "127.0.0.1:9999" {
		t.Errorf("BindAddr = %q", cfg.BindAddr)
	}
	if cfg.ShutdownTimeout != 5*time.Second {
		t.Errorf("ShutdownTimeout = %v", cfg.ShutdownTimeout)
	}
	if cfg.MaxInputBytes != 2048 {
		t.Errorf("MaxInputBytes = %d", cfg.MaxInputBytes)
	}
	if !cfg.HardBlockBankAccounts {
		t.Error("HardBlockBankAccounts = false")
	}
	if cfg.BlocklistRefreshInterval != 2*time.Minute {
		t.Errorf("BlocklistRefreshInterval = %v", cfg.BlocklistRefreshInterval)
	}
	if cfg.DatabaseURL != "postgres://localhost/scamshield" {
		t.Errorf("DatabaseURL = %q, want trimmed", cfg.DatabaseURL)
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"bad duration", "APP_SHUTDOWN_TIMEOUT", "soon"},
		{"too short shutdown", "APP_SHUTDOWN_TIMEOUT", "100ms"},
		{"bad int", "APP_MAX_INPUT_BYTES", "lots"},
		{"too small input cap", "APP_MAX_INPUT_BYTES", "100"},
		{"bad bool", "PII_HARD_BLOCK_BANK_ACCOUNTS", "maybe"},
		{"too short refresh", "BLOCKLIST_REFRESH_INTERVAL", "10ms"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(tt.key, tt.value)
			if _, err := Load(); err == nil {
				t.Fatalf("Load accepted %s=%q", tt.key, tt.value)
			}
		})
	}
}
