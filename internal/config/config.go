// Package config loads mediatrack settings from a YAML or TOML file and
// MEDIATRACK_* environment variables. Command-line flags are applied on top
// by the CLI.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Default values for configuration fields.
const (
	DefaultConfigFile   = "mediatrack.yml"
	DefaultDatabasePath = "./data/mediatrack.db"
	DefaultListenAddr   = ":8080"
	DefaultLogLevel     = "info"
	DefaultLogFormat    = "text"
	DefaultBusyTimeout  = 5 * time.Second
	DefaultJournalMode  = "WAL"
	DefaultFormat       = "text"
)

// ErrInvalidConfig indicates a field holds a value outside its allowed set.
var ErrInvalidConfig = errors.New("invalid configuration")

//nolint:gochecknoglobals // fixed lookup table
var journalModes = map[string]bool{
	"DELETE": true, "TRUNCATE": true, "PERSIST": true, "MEMORY": true, "WAL": true, "OFF": true,
}

// Config holds the application configuration loaded from file, environment, and flags.
type Config struct {
	DatabasePath  string
	MigrationsDir string // empty means the directory next to the executable
	ListenAddr    string
	LogLevel      string
	LogFormat     string
	BusyTimeout   time.Duration
	JournalMode   string
	ForeignKeys   bool
	Format        string // output format for status: text or json
}

// fileConfig is the raw file representation with string durations.
type fileConfig struct {
	DatabasePath  string `toml:"database_path"  yaml:"database_path"`
	MigrationsDir string `toml:"migrations_dir" yaml:"migrations_dir"`
	ListenAddr    string `toml:"listen_addr"    yaml:"listen_addr"`
	LogLevel      string `toml:"log_level"      yaml:"log_level"`
	LogFormat     string `toml:"log_format"     yaml:"log_format"`
	BusyTimeout   string `toml:"busy_timeout"   yaml:"busy_timeout"`
	JournalMode   string `toml:"journal_mode"   yaml:"journal_mode"`
	ForeignKeys   *bool  `toml:"foreign_keys"   yaml:"foreign_keys"`
	Format        string `toml:"format"         yaml:"format"`
}

// New returns a Config populated with default values.
func New() *Config {
	return &Config{
		DatabasePath: DefaultDatabasePath,
		ListenAddr:   DefaultListenAddr,
		LogLevel:     DefaultLogLevel,
		LogFormat:    DefaultLogFormat,
		BusyTimeout:  DefaultBusyTimeout,
		JournalMode:  DefaultJournalMode,
		ForeignKeys:  true,
		Format:       DefaultFormat,
	}
}

// Load reads a configuration file and returns a Config. Files ending in
// .toml are parsed as TOML, anything else as YAML.
// If allowMissing is true and the file does not exist, defaults are returned.
func Load(path string, allowMissing bool) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) && allowMissing {
			return New(), nil
		}

		return nil, fmt.Errorf("reading config file %s: %w", path, err)
	}

	var raw fileConfig

	if strings.EqualFold(filepath.Ext(path), ".toml") {
		err = toml.Unmarshal(data, &raw)
	} else {
		err = yaml.Unmarshal(data, &raw)
	}

	if err != nil {
		return nil, fmt.Errorf("parsing config file %s: %w", path, err)
	}

	return fromFile(&raw)
}

// fromFile converts the raw file representation to a Config with defaults applied.
func fromFile(raw *fileConfig) (*Config, error) {
	cfg := New()

	setIfNotEmpty(&cfg.DatabasePath, raw.DatabasePath)
	setIfNotEmpty(&cfg.MigrationsDir, raw.MigrationsDir)
	setIfNotEmpty(&cfg.ListenAddr, raw.ListenAddr)
	setIfNotEmpty(&cfg.LogLevel, raw.LogLevel)
	setIfNotEmpty(&cfg.LogFormat, raw.LogFormat)
	setIfNotEmpty(&cfg.JournalMode, raw.JournalMode)
	setIfNotEmpty(&cfg.Format, raw.Format)

	if raw.BusyTimeout != "" {
		d, err := time.ParseDuration(raw.BusyTimeout)
		if err != nil {
			return nil, fmt.Errorf("parsing busy_timeout %q: %w", raw.BusyTimeout, err)
		}

		cfg.BusyTimeout = d
	}

	if raw.ForeignKeys != nil {
		cfg.ForeignKeys = *raw.ForeignKeys
	}

	return cfg, nil
}

// Validate checks fields that have a fixed set of allowed values.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.DatabasePath) == "" {
		return fmt.Errorf("%w: database path is empty", ErrInvalidConfig)
	}

	if c.JournalMode != "" && !journalModes[strings.ToUpper(c.JournalMode)] {
		return fmt.Errorf("%w: journal mode %q", ErrInvalidConfig, c.JournalMode)
	}

	if c.BusyTimeout < 0 {
		return fmt.Errorf("%w: busy timeout %s is negative", ErrInvalidConfig, c.BusyTimeout)
	}

	switch c.Format {
	case "text", "json":
	default:
		return fmt.Errorf("%w: format %q (want text or json)", ErrInvalidConfig, c.Format)
	}

	return nil
}

func setIfNotEmpty(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
