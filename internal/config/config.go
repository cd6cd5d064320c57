package config

import (
	"flag"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
)

const (
	// DefaultKDFIterations — число итераций PBKDF2 для новых хранилищ.
	DefaultKDFIterations = 310000
	// DefaultAutolockMinutes — таймаут автоблокировки по умолчанию.
	DefaultAutolockMinutes = 5
)

type Config struct {
	// Daemon settings
	DatabaseDSN string `env:"DATABASE_URI"`
	AuthSecret  string `env:"AUTH_SECRET"`
	LogFile     string `env:"LOG_FILE"`

	// Vault settings (используются только при первом создании meta, кроме автоблокировки)
	KDFAlgorithm    string `env:"KDF_ALGORITHM"`
	KDFIterations   int    `env:"KDF_ITERATIONS"`
	AutolockMinutes int    `env:"AUTOLOCK_MINUTES"`

	// Shared settings
	BaseURL     string `env:"BASE_URL"`
	EnableHTTPS bool   `env:"ENABLE_HTTPS"`

	// Client-side settings
	ServerURL string `env:"-"`
	Version   bool   `env:"-"` // show version and exit (flag only)
}

func NewConfig() *Config {
	_ = godotenv.Load()

	cfg := &Config{}
	_ = env.Parse(cfg)

	// флаги переопределяют значения из env
	flag.StringVar(&cfg.DatabaseDSN, "d", cfg.DatabaseDSN, "строка подключения к хранилищу (sqlite path, postgres DSN или mongodb:// URI)")
	flag.StringVar(&cfg.AuthSecret, "auth-secret", cfg.AuthSecret, "секрет для подписи JWT локальных клиентов")
	flag.StringVar(&cfg.LogFile, "log-file", cfg.LogFile, "путь к файлу журнала (с ротацией)")
	flag.StringVar(&cfg.KDFAlgorithm, "kdf", cfg.KDFAlgorithm, "KDF для нового хранилища: pbkdf2-sha256 | argon2id")
	flag.IntVar(&cfg.KDFIterations, "kdf-iterations", cfg.KDFIterations, "число итераций KDF для нового хранилища")
	flag.IntVar(&cfg.AutolockMinutes, "autolock", cfg.AutolockMinutes, "автоблокировка по умолчанию, минуты")
	flag.StringVar(&cfg.BaseURL, "base-url", cfg.BaseURL, "address of the vault daemon (host:port)")
	flag.BoolVar(&cfg.EnableHTTPS, "https", cfg.EnableHTTPS, "enable HTTPS (client: prefer https scheme for BaseURL)")
	flag.BoolVar(&cfg.Version, "version", cfg.Version, "Show version and exit")

	flag.Parse()

	cfg.applyDefaults()
	return cfg
}

// AutolockDuration возвращает таймаут автоблокировки по умолчанию.
func (c *Config) AutolockDuration() time.Duration {
	return time.Duration(c.AutolockMinutes) * time.Minute
}

func (c *Config) applyDefaults() {
	if c.AuthSecret == "" {
		c.AuthSecret = "dev-secret-key"
	}
	// validate BaseURL: must be in "address:port" (no scheme, no path). Otherwise use default.
	hostPortRe := regexp.MustCompile(`^[A-Za-z0-9\.\-]+:\d{1,5}$`)
	if !hostPortRe.MatchString(c.BaseURL) {
		c.BaseURL = "localhost:8181"
	}
	if c.EnableHTTPS {
		c.ServerURL = "https://" + c.BaseURL
	} else {
		c.ServerURL = "http://" + c.BaseURL
	}

	switch strings.ToLower(c.KDFAlgorithm) {
	case "argon2id":
		c.KDFAlgorithm = "argon2id"
	default:
		c.KDFAlgorithm = "pbkdf2-sha256"
	}
	if c.KDFIterations < 1 {
		if c.KDFAlgorithm == "argon2id" {
			c.KDFIterations = 3
		} else {
			c.KDFIterations = DefaultKDFIterations
		}
	}
	if c.AutolockMinutes < 1 {
		c.AutolockMinutes = DefaultAutolockMinutes
	}

	if c.DatabaseDSN == "" {
		home, _ := os.UserHomeDir()
		c.DatabaseDSN = filepath.Join(home, ".vaultkeeper", "vault.db")
	}
}
