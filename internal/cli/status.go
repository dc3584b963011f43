package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/aqasim81/mediatrack/internal/config"
	"github.com/aqasim81/mediatrack/internal/runner"
)

// Migration states reported by status.
const (
	stateApplied  = "applied"
	statePending  = "pending"
	stateOrphaned = "orphaned"
)

var statusCmd = &cobra.Command{ //nolint:gochecknoglobals // standard Cobra pattern
	Use:   "status",
	Short: "Show applied and pending migrations",
	Long: `List every migration file with its state: applied when the ledger has it,
pending otherwise. Ledger entries with no matching file are listed as orphaned.
The database is not opened.`,
	RunE: runStatus,
}

func init() { //nolint:gochecknoinits // standard Cobra pattern for flag registration
	statusCmd.Flags().String("format", "", "output format (text, json)")
	rootCmd.AddCommand(statusCmd)
}

type statusEntry struct {
	Filename string `json:"filename"`
	State    string `json:"state"`
}

type statusOutput struct {
	MigrationsDir string        `json:"migrations_dir"`
	Ledger        string        `json:"ledger"`
	Migrations    []statusEntry `json:"migrations"`
	Applied       int           `json:"applied"`
	Pending       int           `json:"pending"`
	Orphaned      int           `json:"orphaned"`
}

func runStatus(cmd *cobra.Command, _ []string) error {
	cfg := AppConfig

	format := cfg.Format
	if cmd.Flags().Changed("format") {
		format, _ = cmd.Flags().GetString("format")
	}

	r, err := newRunner(cfg)
	if err != nil {
		return err
	}

	report, err := r.Inspect(commandContext(cmd), cfg.DatabasePath)
	if err != nil {
		return err
	}

	status := buildStatus(report)

	switch format {
	case "", config.DefaultFormat:
		printStatusText(cmd.OutOrStdout(), status)
		return nil
	case "json":
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")

		return enc.Encode(status)
	default:
		return fmt.Errorf("%w: format %q (want text or json)", config.ErrInvalidConfig, format)
	}
}

func buildStatus(report *runner.Report) statusOutput {
	pending := make(map[string]bool, len(report.Pending))
	for _, m := range report.Pending {
		pending[m.Filename] = true
	}

	out := statusOutput{
		MigrationsDir: report.Dir,
		Ledger:        report.LedgerPath,
		Migrations:    make([]statusEntry, 0, len(report.Migrations)+len(report.Orphaned)),
	}

	for _, m := range report.Migrations {
		state := stateApplied
		if pending[m.Filename] {
			state = statePending
			out.Pending++
		} else {
			out.Applied++
		}

		out.Migrations = append(out.Migrations, statusEntry{Filename: m.Filename, State: state})
	}

	for _, name := range report.Orphaned {
		out.Migrations = append(out.Migrations, statusEntry{Filename: name, State: stateOrphaned})
		out.Orphaned++
	}

	return out
}

func printStatusText(out io.Writer, status statusOutput) {
	fmt.Fprintf(out, "Migrations: %s\n", status.MigrationsDir)
	fmt.Fprintf(out, "Ledger:     %s\n\n", status.Ledger)

	if len(status.Migrations) == 0 {
		fmt.Fprintln(out, "No migration files found.")
		return
	}

	for _, e := range status.Migrations {
		fmt.Fprintf(out, "  %-10s %s\n", "["+e.State+"]", e.Filename)
	}

	fmt.Fprintf(out, "\n%d applied, %d pending, %d orphaned.\n", status.Applied, status.Pending, status.Orphaned)
}
