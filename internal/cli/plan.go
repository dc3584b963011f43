package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/aqasim81/mediatrack/internal/analyzer"
	"github.com/aqasim81/mediatrack/internal/executor"
	"github.com/aqasim81/mediatrack/internal/migration"
	"github.com/aqasim81/mediatrack/internal/parser"
)

const planSQLWidth = 72

var planCmd = &cobra.Command{ //nolint:gochecknoglobals // standard Cobra pattern
	Use:   "plan",
	Short: "Show execution plan for pending migrations",
	Long: `Display, for each pending migration, how every statement will be sent:
as one trigger batch, guarded by a column or index existence check, or
executed directly. The database is not opened.`,
	RunE: runPlan,
}

func init() { //nolint:gochecknoinits // standard Cobra pattern for flag registration
	rootCmd.AddCommand(planCmd)
}

func runPlan(cmd *cobra.Command, _ []string) error {
	cfg := AppConfig
	out := cmd.OutOrStdout()

	r, err := newRunner(cfg)
	if err != nil {
		return err
	}

	report, err := r.Inspect(commandContext(cmd), cfg.DatabasePath)
	if err != nil {
		return err
	}

	if len(report.Pending) == 0 {
		fmt.Fprintln(out, "No pending migrations.")
		return nil
	}

	pending, err := readPending(report)
	if err != nil {
		return err
	}

	for i := range pending {
		printPlan(out, i+1, &pending[i])
	}

	fmt.Fprintf(out, "\n%d pending migration(s).\n", len(pending))

	return nil
}

func printPlan(out io.Writer, step int, m *migration.Migration) {
	result := parser.Parse(m.SQL)

	fmt.Fprintf(out, "%d. %s\n", step, m.Filename)

	if len(result.Stmts) == 0 {
		fmt.Fprintln(out, "   (no statements; recorded only)")
		return
	}

	for _, stmt := range result.Stmts {
		fmt.Fprintf(out, "   %-32s %s\n", executor.Describe(stmt), analyzer.TruncateSQL(stmt.SQL, planSQLWidth))
	}
}
