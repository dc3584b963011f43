// Package database opens the embedded SQLite database and answers the
// schema questions the migration guards ask.
package database

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite" // registers the "sqlite" driver
)

// MemoryPath opens a private in-memory database.
const MemoryPath = ":memory:"

const (
	DefaultBusyTimeout = 5 * time.Second
	DefaultJournalMode = "WAL"
	dirPerm            = 0o755
)

// DBTX is the subset of *sql.DB, *sql.Conn and *sql.Tx the migration
// runner needs.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Options configures Open.
type Options struct {
	BusyTimeout time.Duration
	JournalMode string // WAL, DELETE, TRUNCATE...; empty keeps the SQLite default
	ForeignKeys bool
}

// DefaultOptions returns the settings the application runs with.
func DefaultOptions() Options {
	return Options{
		BusyTimeout: DefaultBusyTimeout,
		JournalMode: DefaultJournalMode,
		ForeignKeys: true,
	}
}

// Open opens (creating if needed) the SQLite database at path and pings it.
// The parent directory is created for file databases. The pool is limited to
// one connection so every statement sees the same session.
func Open(ctx context.Context, path string, opts Options) (*sql.DB, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, fmt.Errorf("%w: path is empty", ErrInvalidDatabasePath)
	}

	if path != MemoryPath {
		path = filepath.Clean(path)
		if err := os.MkdirAll(filepath.Dir(path), dirPerm); err != nil {
			return nil, fmt.Errorf("%w: creating directory for %s: %w", ErrInvalidDatabasePath, path, err)
		}
	}

	db, err := sql.Open("sqlite", DSN(path, opts))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConnectionFailed, err)
	}

	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()

		return nil, fmt.Errorf("%w: %w", ErrConnectionFailed, err)
	}

	return db, nil
}

// DSN builds a modernc.org/sqlite connection string that applies opts as
// per-connection PRAGMAs.
func DSN(path string, opts Options) string {
	q := url.Values{}

	if opts.BusyTimeout > 0 {
		q.Add("_pragma", fmt.Sprintf("busy_timeout(%d)", opts.BusyTimeout.Milliseconds()))
	}

	if opts.JournalMode != "" && path != MemoryPath {
		q.Add("_pragma", fmt.Sprintf("journal_mode(%s)", strings.ToUpper(opts.JournalMode)))
	}

	if opts.ForeignKeys {
		q.Add("_pragma", "foreign_keys(1)")
	}

	if len(q) == 0 {
		return path
	}

	return path + "?" + q.Encode()
}
