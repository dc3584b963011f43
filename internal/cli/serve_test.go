package cli

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aqasim81/mediatrack/internal/executor"
	"github.com/aqasim81/mediatrack/internal/logging"
)

func TestServe_migrationFailure_returnsErrorBeforeListening(t *testing.T) { //nolint:paralleltest // mutates global AppConfig
	dir := t.TempDir()
	writeMigrations(t, dir, map[string]string{
		"001_broken.sql": "INSERT INTO missing_table VALUES (1);",
	})
	cfg := setupTestConfig(t, dir)
	// An address that cannot be bound proves the server was never reached.
	cfg.ListenAddr = "127.0.0.1:-1"

	err := serve(context.Background(), cfg, logging.Discard())

	require.ErrorIs(t, err, executor.ErrExecutionFailed)
	assert.Contains(t, err.Error(), "applying migrations")
	assert.Empty(t, readLedger(t, cfg.DatabasePath))
}

func TestServe_migratesThenStopsOnCancel(t *testing.T) { //nolint:paralleltest // mutates global AppConfig
	dir := t.TempDir()
	writeMigrations(t, dir, baseMigrations())
	cfg := setupTestConfig(t, dir)
	cfg.ListenAddr = "127.0.0.1:0"

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)

	go func() { done <- serve(ctx, cfg, logging.Discard()) }()

	ledgerPath := filepath.Join(filepath.Dir(cfg.DatabasePath), ".migrations")
	want := "001_create_media.sql\n002_add_rating.sql\n"
	require.Eventually(t, func() bool {
		data, err := os.ReadFile(ledgerPath)

		return err == nil && string(data) == want
	}, 5*time.Second, 10*time.Millisecond)

	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("serve did not return after cancel")
	}
}

func TestServe_badDatabasePath_returnsError(t *testing.T) { //nolint:paralleltest // mutates global AppConfig
	cfg := setupTestConfig(t, t.TempDir())
	cfg.DatabasePath = "  "

	err := serve(context.Background(), cfg, logging.Discard())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "opening database")
}
