// Package executor applies migrations statement by statement, skipping work
// the schema shows is already done.
package executor

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"time"

	"github.com/aqasim81/mediatrack/internal/database"
	"github.com/aqasim81/mediatrack/internal/migration"
	"github.com/aqasim81/mediatrack/internal/parser"
)

// Progress status constants reported via ProgressEvent.
const (
	StatusStarting  = "starting"
	StatusCompleted = "completed"
	StatusSalvaged  = "salvaged"
	StatusFailed    = "failed"
	StatusSkipped   = "skipped"
)

// ProgressEvent is emitted by the executor for each migration processed.
type ProgressEvent struct {
	Migration *migration.Migration
	Status    string
	Duration  time.Duration
	Guarded   int // statements skipped because the schema already had their effect
	Error     error
}

// MigrationTracker records migrations that finished.
type MigrationTracker interface {
	RecordApplied(filename string) error
}

// sqlExecFunc sends one statement, or one whole batch, to the database.
type sqlExecFunc func(ctx context.Context, sql string) error

// Executor applies pending migrations in order without transactions.
// Each migration is recorded in the ledger as soon as it succeeds, so a
// failure leaves earlier migrations recorded and later ones pending.
type Executor struct {
	db         database.DBTX
	tracker    MigrationTracker
	logger     *slog.Logger
	source     fs.FS
	dryRun     bool
	onProgress func(ProgressEvent)
	execSQL    sqlExecFunc
	guard      guardFunc
}

// Option configures an Executor.
type Option func(*Executor)

// WithDryRun enables dry-run mode where no SQL is executed and nothing is recorded.
func WithDryRun(b bool) Option {
	return func(e *Executor) { e.dryRun = b }
}

// WithProgressCallback sets a function called for each migration processed.
func WithProgressCallback(fn func(ProgressEvent)) Option {
	return func(e *Executor) { e.onProgress = fn }
}

// WithLogger sets the structured logger. The default discards everything.
func WithLogger(l *slog.Logger) Option {
	return func(e *Executor) { e.logger = l }
}

// WithSource makes the executor read each migration's text from fsys right
// before executing it, instead of using the SQL already on the Migration.
func WithSource(fsys fs.FS) Option {
	return func(e *Executor) { e.source = fsys }
}

// New creates an Executor with the given database, tracker, and options.
func New(db database.DBTX, t MigrationTracker, opts ...Option) *Executor {
	e := &Executor{
		db:      db,
		tracker: t,
	}

	for _, opt := range opts {
		opt(e)
	}

	// Set defaults for injectable functions after options are applied,
	// so tests can override them via options.
	if e.logger == nil {
		e.logger = slog.New(slog.DiscardHandler)
	}

	if e.execSQL == nil {
		e.execSQL = e.exec
	}

	if e.guard == nil {
		e.guard = e.alreadyApplied
	}

	return e
}

// Apply executes migrations in the order given. It stops at the first
// migration that fails with anything other than a duplicate column error.
func (e *Executor) Apply(ctx context.Context, migrations []migration.Migration) error {
	for i := range migrations {
		if err := e.applyOne(ctx, &migrations[i]); err != nil {
			return err
		}
	}

	return nil
}

// applyOne handles a single migration: read, dry-run check, execute,
// salvage or fail, record, and fire progress.
func (e *Executor) applyOne(ctx context.Context, m *migration.Migration) error {
	if e.source != nil {
		loaded, err := migration.ReadSQL(e.source, *m)
		if err != nil {
			return err
		}

		*m = loaded
	}

	log := e.logger.With(slog.String("migration", m.Filename))

	if e.dryRun {
		log.Info("dry run, not executing")
		e.fireProgress(ProgressEvent{Migration: m, Status: StatusSkipped})

		return nil
	}

	log.Info("applying migration", slog.String("checksum", shortChecksum(m.Checksum)))
	e.fireProgress(ProgressEvent{Migration: m, Status: StatusStarting})

	start := time.Now()
	guarded, execErr := e.executeMigration(ctx, m, log)
	duration := time.Since(start)

	status := StatusCompleted

	if execErr != nil {
		if !database.IsDuplicateColumn(execErr) {
			log.Error("migration failed", slog.Any("error", execErr))
			e.fireProgress(ProgressEvent{
				Migration: m,
				Status:    StatusFailed,
				Duration:  duration,
				Guarded:   guarded,
				Error:     execErr,
			})

			return fmt.Errorf("%w: %s: %w", ErrExecutionFailed, m.Filename, execErr)
		}

		log.Warn("duplicate column, recording migration as applied", slog.Any("error", execErr))

		status = StatusSalvaged
	}

	if err := e.tracker.RecordApplied(m.Filename); err != nil {
		return fmt.Errorf("recording migration %s: %w", m.Filename, err)
	}

	log.Info("migration recorded",
		slog.String("status", status),
		slog.Duration("duration", duration),
		slog.Int("guarded", guarded),
	)

	e.fireProgress(ProgressEvent{
		Migration: m,
		Status:    status,
		Duration:  duration,
		Guarded:   guarded,
		Error:     execErr,
	})

	return nil
}

// executeMigration runs the statements of one migration in order and
// returns how many were skipped by their guards.
func (e *Executor) executeMigration(ctx context.Context, m *migration.Migration, log *slog.Logger) (int, error) {
	result := parser.Parse(m.SQL)
	if len(result.Stmts) == 0 {
		log.Info("no statements after stripping comments")

		return 0, nil
	}

	if result.Batch {
		log.Info("trigger migration, executing as a single batch")
	}

	guarded := 0

	for _, stmt := range result.Stmts {
		done, err := e.guard(ctx, stmt)
		if err != nil {
			return guarded, err
		}

		if done {
			guarded++

			log.Info("skipping statement, already applied", slog.String("check", Describe(stmt)))

			continue
		}

		if err := e.execSQL(ctx, stmt.SQL); err != nil {
			return guarded, err
		}
	}

	return guarded, nil
}

func (e *Executor) exec(ctx context.Context, sql string) error {
	_, err := e.db.ExecContext(ctx, sql)

	return err
}

func (e *Executor) fireProgress(event ProgressEvent) {
	if e.onProgress != nil {
		e.onProgress(event)
	}
}

func shortChecksum(sum string) string {
	const n = 12
	if len(sum) > n {
		return sum[:n]
	}

	return sum
}
