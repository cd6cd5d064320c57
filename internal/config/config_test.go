package config

import (
	"flag"
	"os"
	"strings"
	"testing"
	"time"
)

// resetFlagSet создаёт новый FlagSet перед каждым вызовом NewConfig,
// чтобы избежать повторной регистрации одних и тех же флагов между тестами.
func resetFlagSet(t *testing.T) {
	t.Helper()
	flag.CommandLine = flag.NewFlagSet(os.Args[0], flag.ContinueOnError)
	flag.CommandLine.SetOutput(os.Stderr)
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"DATABASE_URI", "AUTH_SECRET", "LOG_FILE", "KDF_ALGORITHM", "KDF_ITERATIONS",
		"AUTOLOCK_MINUTES", "BASE_URL", "ENABLE_HTTPS",
	} {
		t.Setenv(k, "")
	}
}

func TestNewConfig_DefaultsWhenEnvEmpty(t *testing.T) {
	clearEnv(t)
	resetFlagSet(t)
	cfg := NewConfig()

	if cfg.AuthSecret != "dev-secret-key" {
		t.Fatalf("AuthSecret default expected 'dev-secret-key', got %q", cfg.AuthSecret)
	}
	if cfg.BaseURL != "localhost:8181" {
		t.Fatalf("BaseURL default expected 'localhost:8181', got %q", cfg.BaseURL)
	}
	if cfg.ServerURL != "http://localhost:8181" {
		t.Fatalf("ServerURL default expected 'http://localhost:8181', got %q", cfg.ServerURL)
	}
	if cfg.KDFAlgorithm != "pbkdf2-sha256" || cfg.KDFIterations != DefaultKDFIterations {
		t.Fatalf("unexpected KDF defaults: %s/%d", cfg.KDFAlgorithm, cfg.KDFIterations)
	}
	if cfg.AutolockDuration() != 5*time.Minute {
		t.Fatalf("autolock default expected 5m, got %s", cfg.AutolockDuration())
	}
	if !strings.HasSuffix(cfg.DatabaseDSN, "vault.db") {
		t.Fatalf("DatabaseDSN default must point to vault.db, got %q", cfg.DatabaseDSN)
	}
}

func TestNewConfig_FromEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("BASE_URL", "example.com:443")
	t.Setenv("ENABLE_HTTPS", "true")
	t.Setenv("AUTH_SECRET", "top")
	t.Setenv("KDF_ALGORITHM", "Argon2id")
	t.Setenv("AUTOLOCK_MINUTES", "15")

	resetFlagSet(t)
	cfg := NewConfig()

	if cfg.ServerURL != "https://example.com:443" {
		t.Fatalf("ServerURL expected 'https://example.com:443', got %q", cfg.ServerURL)
	}
	if cfg.AuthSecret != "top" {
		t.Fatalf("AuthSecret expected from env 'top', got %q", cfg.AuthSecret)
	}
	if cfg.KDFAlgorithm != "argon2id" || cfg.KDFIterations != 3 {
		t.Fatalf("argon2id expected with 3 passes, got %s/%d", cfg.KDFAlgorithm, cfg.KDFIterations)
	}
	if cfg.AutolockMinutes != 15 {
		t.Fatalf("AutolockMinutes expected 15, got %d", cfg.AutolockMinutes)
	}
}

func TestNewConfig_InvalidValuesFallback(t *testing.T) {
	clearEnv(t)
	// Невалидный BASE_URL (со схемой) должен откатиться на localhost:8181
	t.Setenv("BASE_URL", "http://bad:8080")
	t.Setenv("KDF_ITERATIONS", "-4")
	t.Setenv("AUTOLOCK_MINUTES", "0")

	resetFlagSet(t)
	cfg := NewConfig()

	if cfg.BaseURL != "localhost:8181" {
		t.Fatalf("invalid BASE_URL must fallback to 'localhost:8181', got %q", cfg.BaseURL)
	}
	if cfg.KDFIterations != DefaultKDFIterations {
		t.Fatalf("non-positive iterations must fallback, got %d", cfg.KDFIterations)
	}
	if cfg.AutolockMinutes != DefaultAutolockMinutes {
		t.Fatalf("autolock below one minute must fallback, got %d", cfg.AutolockMinutes)
	}
}
