package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/aqasim81/mediatrack/internal/config"
	"github.com/aqasim81/mediatrack/internal/server"
	"github.com/aqasim81/mediatrack/internal/tracker"
)

var serveCmd = &cobra.Command{ //nolint:gochecknoglobals // standard Cobra pattern
	Use:   "serve",
	Short: "Migrate the database, then serve HTTP",
	Long: `Open the database, apply pending migrations and start the HTTP server.
If any migration fails the process exits non-zero before the server is
started. SIGINT and SIGTERM shut the server down gracefully.`,
	RunE: runServe,
}

func init() { //nolint:gochecknoinits // standard Cobra pattern for flag registration
	serveCmd.Flags().String("listen-addr", "", "HTTP listen address (default :8080)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg := AppConfig

	if cmd.Flags().Changed("listen-addr") {
		cfg.ListenAddr, _ = cmd.Flags().GetString("listen-addr")
	}

	ctx, stop := signal.NotifyContext(commandContext(cmd), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return serve(ctx, cfg, appLogger())
}

// serve runs migrations and then the HTTP server until ctx is cancelled.
// The server is never constructed when migrations fail.
func serve(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	db, err := openDatabase(ctx, cfg)
	if err != nil {
		logger.Error("failed to open database", "error", err)
		return err
	}
	defer func() {
		if cerr := db.Close(); cerr != nil {
			logger.Error("failed to close database", "error", cerr)
		}
	}()

	r, err := newRunner(cfg)
	if err != nil {
		return err
	}

	if err := r.Run(ctx, db, cfg.DatabasePath); err != nil {
		logger.Error("failed to apply migrations", "error", err)
		return fmt.Errorf("applying migrations: %w", err)
	}

	srv := server.New(server.Config{
		Addr:   cfg.ListenAddr,
		DB:     db,
		Ledger: tracker.ForDatabase(cfg.DatabasePath),
		Logger: logger,
	})

	return srv.ListenAndServe(ctx)
}
