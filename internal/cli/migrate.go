package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/aqasim81/mediatrack/internal/analyzer"
	"github.com/aqasim81/mediatrack/internal/analyzer/rules"
	"github.com/aqasim81/mediatrack/internal/executor"
	"github.com/aqasim81/mediatrack/internal/migration"
	"github.com/aqasim81/mediatrack/internal/runner"
)

var migrateCmd = &cobra.Command{ //nolint:gochecknoglobals // standard Cobra pattern
	Use:   "migrate",
	Short: "Apply pending migrations and exit",
	Long: `Apply every pending migration to the database in filename order.
Each migration is recorded in the ledger as soon as it finishes. A migration
that fails because a column already exists is recorded anyway; any other
failure stops the run and leaves later migrations pending.`,
	RunE: runMigrate,
}

func init() { //nolint:gochecknoinits // standard Cobra pattern for flag registration
	migrateCmd.Flags().Bool("dry-run", false, "list pending migrations without executing them")
	migrateCmd.Flags().Bool("strict", false, "refuse to run when pending migrations have high/critical findings")
	rootCmd.AddCommand(migrateCmd)
}

// errStrictBlocked is returned when --strict is set and analysis finds high/critical issues.
var errStrictBlocked = errors.New("pending migrations have high or critical findings; fix them or drop --strict")

func runMigrate(cmd *cobra.Command, _ []string) error {
	cfg := AppConfig
	ctx := commandContext(cmd)
	out := cmd.OutOrStdout()

	dryRun, _ := cmd.Flags().GetBool("dry-run")
	strict, _ := cmd.Flags().GetBool("strict")

	r, err := newRunner(cfg)
	if err != nil {
		return err
	}

	report, err := r.Inspect(ctx, cfg.DatabasePath)
	if err != nil {
		return err
	}

	if len(report.Pending) == 0 {
		fmt.Fprintln(out, "Database is up to date.")
		return nil
	}

	if strict {
		blocked, err := checkPendingMigrations(cmd, report)
		if err != nil {
			return err
		}

		if blocked {
			return errStrictBlocked
		}
	}

	counts := &migrateCounts{}

	r, err = newRunner(cfg,
		runner.WithDryRun(dryRun),
		runner.WithProgress(progressPrinter(out, counts)),
	)
	if err != nil {
		return err
	}

	if dryRun {
		fmt.Fprintln(out, "--- DRY RUN (no changes will be made) ---")

		if err := r.Run(ctx, nil, cfg.DatabasePath); err != nil {
			return err
		}

		fmt.Fprintf(out, "\nDry run complete: %d migration(s) would be applied.\n", counts.skipped)

		return nil
	}

	db, err := openDatabase(ctx, cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := r.Run(ctx, db, cfg.DatabasePath); err != nil {
		return err
	}

	fmt.Fprintf(out, "\nMigrate complete: %d applied, %d salvaged.\n", counts.applied, counts.salvaged)

	return nil
}

type migrateCounts struct {
	applied  int
	salvaged int
	skipped  int
}

// progressPrinter writes one line per migration and tallies outcomes into counts.
func progressPrinter(out io.Writer, counts *migrateCounts) func(executor.ProgressEvent) {
	return func(event executor.ProgressEvent) {
		switch event.Status {
		case executor.StatusStarting:
			fmt.Fprintf(out, "  Applying %s ... ", event.Migration.Filename)
		case executor.StatusCompleted:
			if event.Guarded > 0 {
				fmt.Fprintf(out, "done (%s, %d already present)\n", event.Duration.Truncate(time.Millisecond), event.Guarded)
			} else {
				fmt.Fprintf(out, "done (%s)\n", event.Duration.Truncate(time.Millisecond))
			}

			counts.applied++
		case executor.StatusSalvaged:
			fmt.Fprintf(out, "salvaged (duplicate column)\n")

			counts.salvaged++
		case executor.StatusFailed:
			fmt.Fprintf(out, "FAILED\n")
			fmt.Fprintf(out, "    Error: %v\n", event.Error)
		case executor.StatusSkipped:
			fmt.Fprintf(out, "  would apply %s\n", event.Migration.Filename)

			counts.skipped++
		}
	}
}

// checkPendingMigrations runs the analyzer over the pending migrations and
// returns true if HIGH/CRITICAL findings were found.
func checkPendingMigrations(cmd *cobra.Command, report *runner.Report) (bool, error) {
	loaded, err := readPending(report)
	if err != nil {
		return false, err
	}

	a := analyzer.New(analyzer.WithRegistry(rules.NewDefaultRegistry()))

	return printAnalysisResults(cmd, a.AnalyzeAll(loaded)), nil
}

func readPending(report *runner.Report) ([]migration.Migration, error) {
	fsys := os.DirFS(report.Dir)
	loaded := make([]migration.Migration, 0, len(report.Pending))

	for _, m := range report.Pending {
		full, err := migration.ReadSQL(fsys, m)
		if err != nil {
			return nil, err
		}

		loaded = append(loaded, full)
	}

	return loaded, nil
}
