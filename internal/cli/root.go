package cli

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/aqasim81/mediatrack/internal/config"
	"github.com/aqasim81/mediatrack/internal/database"
	"github.com/aqasim81/mediatrack/internal/logging"
	"github.com/aqasim81/mediatrack/internal/runner"
)

const version = "0.1.0"

// AppConfig holds the loaded configuration, set during PersistentPreRunE.
var AppConfig *config.Config //nolint:gochecknoglobals // standard Cobra pattern for shared config

// AppLogger is the process logger built from AppConfig.
var AppLogger *slog.Logger //nolint:gochecknoglobals // built alongside AppConfig

// rootCmd is the base command for the mediatrack CLI.
var rootCmd = &cobra.Command{ //nolint:gochecknoglobals // standard Cobra pattern
	Use:     "mediatrack",
	Version: version,
	Short:   "Personal media tracker backed by SQLite",
	Long: `mediatrack keeps its SQLite schema current with forward-only SQL migrations.
Pending migrations are applied at startup, in filename order, each recorded in
a .migrations ledger next to the database file. Re-running a half-applied
migration skips columns and indexes that already exist.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		return loadConfig(cmd)
	},
}

func init() { //nolint:gochecknoinits // standard Cobra pattern for flag registration
	rootCmd.PersistentFlags().String("config", config.DefaultConfigFile, "path to configuration file")
	rootCmd.PersistentFlags().String("database-path", "", "path to the SQLite database file")
	rootCmd.PersistentFlags().String("migrations-dir", "", "path to migration files (default: next to the executable)")
	rootCmd.PersistentFlags().String("log-level", "", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("log-format", "", "log format (text, json)")
}

// Execute runs the root command. Called from main.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// loadConfig loads configuration with precedence: flag > env > file.
func loadConfig(cmd *cobra.Command) error {
	configPath, _ := cmd.Flags().GetString("config")
	allowMissing := !cmd.Flags().Changed("config")

	cfg, err := config.Load(configPath, allowMissing)
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}

	if err := config.MergeEnv(cfg); err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}

	mergeFlags(cmd.Flags(), cfg)

	if err := cfg.Validate(); err != nil {
		return err
	}

	logger, err := logging.New(cmd.ErrOrStderr(), cfg.LogFormat, cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("building logger: %w", err)
	}

	AppConfig = cfg
	AppLogger = logger

	return nil
}

// mergeFlags overrides config with explicitly-set CLI flags.
func mergeFlags(flags *pflag.FlagSet, cfg *config.Config) {
	if flags.Changed("database-path") {
		cfg.DatabasePath, _ = flags.GetString("database-path")
	}

	if flags.Changed("migrations-dir") {
		cfg.MigrationsDir, _ = flags.GetString("migrations-dir")
	}

	if flags.Changed("log-level") {
		cfg.LogLevel, _ = flags.GetString("log-level")
	}

	if flags.Changed("log-format") {
		cfg.LogFormat, _ = flags.GetString("log-format")
	}
}

// commandContext returns the command's context, or Background when the
// command was invoked directly rather than through Execute.
func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}

	return context.Background()
}

func appLogger() *slog.Logger {
	if AppLogger != nil {
		return AppLogger
	}

	return logging.Discard()
}

// migrationsDir resolves the configured directory, falling back to the one
// next to the executable.
func migrationsDir(cfg *config.Config) (string, error) {
	if cfg.MigrationsDir != "" {
		return cfg.MigrationsDir, nil
	}

	return runner.DefaultMigrationsDir()
}

// newRunner builds a runner for cfg. extra options are applied last.
func newRunner(cfg *config.Config, extra ...runner.Option) (*runner.Runner, error) {
	dir, err := migrationsDir(cfg)
	if err != nil {
		return nil, err
	}

	opts := append([]runner.Option{
		runner.WithMigrationsDir(dir),
		runner.WithLogger(appLogger()),
	}, extra...)

	return runner.New(opts...), nil
}

func openDatabase(ctx context.Context, cfg *config.Config) (*sql.DB, error) {
	db, err := database.Open(ctx, cfg.DatabasePath, database.Options{
		BusyTimeout: cfg.BusyTimeout,
		JournalMode: cfg.JournalMode,
		ForeignKeys: cfg.ForeignKeys,
	})
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	return db, nil
}
