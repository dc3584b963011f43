// Package runner brings a SQLite database up to date with the migration
// files on disk. It is called once at process start, before anything else
// touches the database.
package runner

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/aqasim81/mediatrack/internal/database"
	"github.com/aqasim81/mediatrack/internal/executor"
	"github.com/aqasim81/mediatrack/internal/logging"
	"github.com/aqasim81/mediatrack/internal/migration"
	"github.com/aqasim81/mediatrack/internal/tracker"
)

// MigrationsDirName is the directory, next to the executable, searched by default.
const MigrationsDirName = "migrations"

// Runner holds the settings for a migration run.
type Runner struct {
	migrationsDir string
	logger        *slog.Logger
	onProgress    func(executor.ProgressEvent)
	dryRun        bool
}

// Option configures a Runner.
type Option func(*Runner)

// WithMigrationsDir overrides the directory migrations are read from.
func WithMigrationsDir(dir string) Option {
	return func(r *Runner) { r.migrationsDir = dir }
}

// WithLogger sets the logger. Without it the logger attached to the
// context is used, and failing that nothing is logged.
func WithLogger(l *slog.Logger) Option {
	return func(r *Runner) { r.logger = l }
}

// WithProgress sets a function called for each migration processed.
func WithProgress(fn func(executor.ProgressEvent)) Option {
	return func(r *Runner) { r.onProgress = fn }
}

// WithDryRun reports pending migrations through the progress callback, with
// status skipped, without executing or recording them. db may be nil.
func WithDryRun(b bool) Option {
	return func(r *Runner) { r.dryRun = b }
}

// New creates a Runner with the given options.
func New(opts ...Option) *Runner {
	r := &Runner{}
	for _, opt := range opts {
		opt(r)
	}

	return r
}

// Run applies every pending migration to db and records each in the ledger
// beside dbPath. See Runner.Run.
func Run(ctx context.Context, db database.DBTX, dbPath string, opts ...Option) error {
	return New(opts...).Run(ctx, db, dbPath)
}

// DefaultMigrationsDir returns the "migrations" directory next to the
// running executable.
func DefaultMigrationsDir() (string, error) {
	exe, err := os.Executable()
	if err != nil {
		return "", fmt.Errorf("locating executable: %w", err)
	}

	if resolved, err := filepath.EvalSymlinks(exe); err == nil {
		exe = resolved
	}

	return filepath.Join(filepath.Dir(exe), MigrationsDirName), nil
}

// Report describes the migration state of one database.
type Report struct {
	Dir        string
	LedgerPath string
	Migrations []migration.Migration // every *.sql file, sorted
	Applied    []string              // ledger entries in ledger order
	Pending    []migration.Migration
	Orphaned   []string // ledger entries with no matching file
}

// Inspect discovers migrations and reads the ledger for dbPath without
// touching the database. A missing migrations directory is created.
func (r *Runner) Inspect(ctx context.Context, dbPath string) (*Report, error) {
	return r.inspect(dbPath, r.log(ctx))
}

func (r *Runner) inspect(dbPath string, log *slog.Logger) (*Report, error) {
	dir, err := r.dir()
	if err != nil {
		return nil, err
	}

	created, err := migration.EnsureDir(dir)
	if err != nil {
		return nil, err
	}

	if created {
		log.Info("created missing migrations directory", slog.String("dir", dir))
	}

	all, err := migration.ScanFS(os.DirFS(dir), dir)
	if err != nil {
		return nil, err
	}

	t := tracker.ForDatabase(dbPath)

	applied, err := t.Applied()
	if err != nil {
		return nil, err
	}

	return &Report{
		Dir:        dir,
		LedgerPath: t.Path(),
		Migrations: all,
		Applied:    applied,
		Pending:    migration.Pending(all, applied),
		Orphaned:   migration.Orphaned(all, applied),
	}, nil
}

// Run applies every pending migration to db in filename order and appends
// each to the ledger beside dbPath as it finishes. A migration that fails
// with a duplicate column error is recorded anyway. Any other failure stops
// the run; the returned error wraps the driver error.
func (r *Runner) Run(ctx context.Context, db database.DBTX, dbPath string) error {
	log := r.log(ctx).With(slog.String("run_id", uuid.NewString()))

	report, err := r.inspect(dbPath, log)
	if err != nil {
		return err
	}

	log.Info("discovered migrations",
		slog.String("dir", report.Dir),
		slog.Int("total", len(report.Migrations)),
		slog.Int("pending", len(report.Pending)),
	)

	if len(report.Pending) == 0 {
		return nil
	}

	var applied, salvaged int

	exec := executor.New(db, tracker.New(report.LedgerPath),
		executor.WithLogger(log),
		executor.WithSource(os.DirFS(report.Dir)),
		executor.WithDryRun(r.dryRun),
		executor.WithProgressCallback(func(event executor.ProgressEvent) {
			switch event.Status {
			case executor.StatusCompleted:
				applied++
			case executor.StatusSalvaged:
				salvaged++
			}

			if r.onProgress != nil {
				r.onProgress(event)
			}
		}),
	)

	if err := exec.Apply(ctx, report.Pending); err != nil {
		log.Error("migration run aborted", slog.Any("error", err))

		return err
	}

	if r.dryRun {
		log.Info("dry run complete", slog.Int("pending", len(report.Pending)))

		return nil
	}

	log.Info("migrations complete", slog.Int("applied", applied), slog.Int("salvaged", salvaged))

	return nil
}

func (r *Runner) dir() (string, error) {
	if r.migrationsDir != "" {
		return r.migrationsDir, nil
	}

	return DefaultMigrationsDir()
}

func (r *Runner) log(ctx context.Context) *slog.Logger {
	if r.logger != nil {
		return r.logger
	}

	if l := logging.FromContext(ctx); l != nil {
		return l
	}

	return logging.Discard()
}
