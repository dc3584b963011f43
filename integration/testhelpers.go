//go:build integration

package integration

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/aqasim81/mediatrack/internal/database"
)

// Env is one application install: a database file under data/ and its
// migrations directory, both in a temp dir.
type Env struct {
	DB            *sql.DB
	DBPath        string
	MigrationsDir string
}

// SetupSQLite opens a fresh file-backed SQLite database with the settings
// the application runs with. The database is closed when the test completes.
func SetupSQLite(t *testing.T) *Env {
	t.Helper()

	root := t.TempDir()
	env := &Env{
		DBPath:        filepath.Join(root, "data", "mediatrack.db"),
		MigrationsDir: filepath.Join(root, "migrations"),
	}

	db, err := database.Open(context.Background(), env.DBPath, database.DefaultOptions())
	require.NoError(t, err)

	t.Cleanup(func() {
		require.NoError(t, db.Close())
	})

	env.DB = db

	return env
}

// WriteMigration writes a migration file into the environment.
func (e *Env) WriteMigration(t *testing.T, filename, sqlText string) {
	t.Helper()

	require.NoError(t, os.MkdirAll(e.MigrationsDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(e.MigrationsDir, filename), []byte(sqlText), 0o600))
}

// LedgerPath is where the runner keeps the ledger for this database.
func (e *Env) LedgerPath() string {
	return filepath.Join(filepath.Dir(e.DBPath), ".migrations")
}

// LedgerLines returns the ledger entries, or nil when there is no ledger.
func (e *Env) LedgerLines(t *testing.T) []string {
	t.Helper()

	data, err := os.ReadFile(e.LedgerPath())
	if os.IsNotExist(err) {
		return nil
	}

	require.NoError(t, err)

	return strings.Fields(string(data))
}

// Columns returns the column names of table in declaration order.
func (e *Env) Columns(t *testing.T, table string) []string {
	t.Helper()

	rows, err := e.DB.Query("SELECT name FROM pragma_table_info(?) ORDER BY cid", table)
	require.NoError(t, err)

	defer rows.Close()

	var cols []string

	for rows.Next() {
		var name string
		require.NoError(t, rows.Scan(&name))
		cols = append(cols, name)
	}

	require.NoError(t, rows.Err())

	return cols
}
