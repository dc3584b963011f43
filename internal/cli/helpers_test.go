package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"

	"github.com/aqasim81/mediatrack/internal/config"
)

// setupTestConfig sets AppConfig for the duration of the test and restores it on cleanup.
// The database lives in a fresh temp dir.
func setupTestConfig(t *testing.T, migrationsDir string) *config.Config {
	t.Helper()

	oldCfg, oldLogger := AppConfig, AppLogger

	cfg := config.New()
	cfg.MigrationsDir = migrationsDir
	cfg.DatabasePath = filepath.Join(t.TempDir(), "mediatrack.db")

	AppConfig = cfg
	AppLogger = nil

	t.Cleanup(func() {
		AppConfig = oldCfg
		AppLogger = oldLogger
	})

	return cfg
}

// newTestCmd creates a fresh cobra.Command wired to run with a captured output buffer.
func newTestCmd(t *testing.T, run func(*cobra.Command, []string) error) (*cobra.Command, *bytes.Buffer) {
	t.Helper()

	buf := new(bytes.Buffer)
	cmd := &cobra.Command{
		Use:  "test",
		RunE: run,
	}
	cmd.SetOut(buf)
	cmd.SetErr(buf)

	return cmd, buf
}

// writeMigrations writes each name/content pair into dir.
func writeMigrations(t *testing.T, dir string, files map[string]string) {
	t.Helper()

	require.NoError(t, os.MkdirAll(dir, 0o755))

	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o600))
	}
}

func readLedger(t *testing.T, dbPath string) string {
	t.Helper()

	data, err := os.ReadFile(filepath.Join(filepath.Dir(dbPath), ".migrations"))
	if os.IsNotExist(err) {
		return ""
	}

	require.NoError(t, err)

	return string(data)
}

// notADir returns a path below a regular file, so creating it always fails.
func notADir(t *testing.T) string {
	t.Helper()

	file := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(file, nil, 0o600))

	return filepath.Join(file, "migrations")
}
