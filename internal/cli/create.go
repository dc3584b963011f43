package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

const migrationTemplate = `-- %s
-- Statements run in order, separated by semicolons.
-- Prefer CREATE INDEX IF NOT EXISTS and ALTER TABLE ... ADD COLUMN so a re-run is safe.
`

var createCmd = &cobra.Command{ //nolint:gochecknoglobals // standard Cobra pattern
	Use:   "create <name>",
	Short: "Create a new timestamped migration file",
	Args:  cobra.ExactArgs(1),
	RunE:  runCreate,
}

func init() { //nolint:gochecknoinits // standard Cobra pattern for flag registration
	rootCmd.AddCommand(createCmd)
}

var errEmptyMigrationName = errors.New("migration name is empty")

func runCreate(cmd *cobra.Command, args []string) error {
	dir, err := migrationsDir(AppConfig)
	if err != nil {
		return err
	}

	path, err := createMigrationFile(dir, args[0], time.Now())
	if err != nil {
		return err
	}

	appLogger().Info("created migration", "path", path)
	fmt.Fprintln(cmd.OutOrStdout(), path)

	return nil
}

// createMigrationFile writes <UTC yyyymmddhhmmss>_<name>.sql into dir and
// returns its path. An existing file is never overwritten.
func createMigrationFile(dir, name string, now time.Time) (string, error) {
	clean := sanitizeName(name)
	if clean == "" {
		return "", errEmptyMigrationName
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating migrations directory: %w", err)
	}

	filename := fmt.Sprintf("%s_%s.sql", now.UTC().Format("20060102150405"), clean)
	path := filepath.Join(dir, filename)

	f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		return "", fmt.Errorf("creating %s: %w", filename, err)
	}

	if _, err := fmt.Fprintf(f, migrationTemplate, clean); err != nil {
		_ = f.Close()
		return "", fmt.Errorf("writing %s: %w", filename, err)
	}

	if err := f.Close(); err != nil {
		return "", fmt.Errorf("closing %s: %w", filename, err)
	}

	return path, nil
}

// sanitizeName lowercases s and maps separators to underscores, dropping
// anything that is not a letter, digit or underscore.
func sanitizeName(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.ReplaceAll(s, " ", "_")
	s = strings.ReplaceAll(s, "-", "_")

	var b strings.Builder

	for _, r := range s {
		if r == '_' || (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}

	return strings.Trim(b.String(), "_")
}
