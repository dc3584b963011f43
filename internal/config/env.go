package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// envConfig holds MEDIATRACK_* values. Unset variables leave strings empty
// and pointers nil.
type envConfig struct {
	DatabasePath  string         `env:"MEDIATRACK_DATABASE_PATH"`
	MigrationsDir string         `env:"MEDIATRACK_MIGRATIONS_DIR"`
	ListenAddr    string         `env:"MEDIATRACK_LISTEN_ADDR"`
	LogLevel      string         `env:"MEDIATRACK_LOG_LEVEL"`
	LogFormat     string         `env:"MEDIATRACK_LOG_FORMAT"`
	BusyTimeout   *time.Duration `env:"MEDIATRACK_BUSY_TIMEOUT"`
	JournalMode   string         `env:"MEDIATRACK_JOURNAL_MODE"`
	ForeignKeys   *bool          `env:"MEDIATRACK_FOREIGN_KEYS"`
}

// MergeEnv overrides config fields from MEDIATRACK_* environment variables.
// A variable that is set but cannot be parsed is an error and leaves cfg
// unchanged.
func MergeEnv(cfg *Config) error {
	var raw envConfig
	if err := env.Parse(&raw); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}

	setIfNotEmpty(&cfg.DatabasePath, raw.DatabasePath)
	setIfNotEmpty(&cfg.MigrationsDir, raw.MigrationsDir)
	setIfNotEmpty(&cfg.ListenAddr, raw.ListenAddr)
	setIfNotEmpty(&cfg.LogLevel, raw.LogLevel)
	setIfNotEmpty(&cfg.LogFormat, raw.LogFormat)
	setIfNotEmpty(&cfg.JournalMode, raw.JournalMode)

	if raw.BusyTimeout != nil {
		cfg.BusyTimeout = *raw.BusyTimeout
	}

	if raw.ForeignKeys != nil {
		cfg.ForeignKeys = *raw.ForeignKeys
	}

	return nil
}
