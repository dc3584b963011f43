package cli

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/aqasim81/mediatrack/internal/analyzer"
	"github.com/aqasim81/mediatrack/internal/analyzer/rules"
	"github.com/aqasim81/mediatrack/internal/migration"
)

var analyzeCmd = &cobra.Command{ //nolint:gochecknoglobals // standard Cobra pattern
	Use:   "analyze [migration-dir]",
	Short: "Analyze migrations for statements that are unsafe to re-run",
	Long: `Analyze SQL migration files for statements that break when a migration is
re-run after a partial failure, or that SQLite cannot execute at all. Reports
findings with severity levels, what happens on a re-run, and a safer form.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runAnalyze,
}

func init() { //nolint:gochecknoinits // standard Cobra pattern for flag registration
	analyzeCmd.Flags().Bool("fail-on-high", false, "exit with non-zero code if high/critical findings exist")
	rootCmd.AddCommand(analyzeCmd)
}

// errHighSeverityFindings is returned when --fail-on-high is set and high/critical findings exist.
var errHighSeverityFindings = errors.New("high or critical severity findings detected")

func runAnalyze(cmd *cobra.Command, args []string) error {
	var dir string

	if len(args) > 0 {
		dir = args[0]
	} else {
		d, err := migrationsDir(AppConfig)
		if err != nil {
			return err
		}

		dir = d
	}

	migrations, err := migration.LoadFromDir(dir)
	if err != nil {
		return fmt.Errorf("loading migrations: %w", err)
	}

	if len(migrations) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No migration files found.")
		return nil
	}

	a := analyzer.New(analyzer.WithRegistry(rules.NewDefaultRegistry()))

	hasHighOrCritical := printAnalysisResults(cmd, a.AnalyzeAll(migration.Sort(migrations)))

	failOnHigh, _ := cmd.Flags().GetBool("fail-on-high")
	if failOnHigh && hasHighOrCritical {
		return errHighSeverityFindings
	}

	return nil
}

func printAnalysisResults(cmd *cobra.Command, results []analyzer.AnalysisResult) bool {
	out := cmd.OutOrStdout()
	color := useColor(out)
	totalFindings := 0
	hasHighOrCritical := false

	for _, r := range results {
		if len(r.Findings) == 0 {
			continue
		}

		fmt.Fprintf(out, "\n=== %s ===\n", r.Migration.Filename)

		for _, f := range r.Findings {
			fmt.Fprintf(out, "  %s %s\n", severityLabel(f.Severity, color), f.Message)

			if f.Table != "" {
				fmt.Fprintf(out, "    Table: %s\n", f.Table)
			}

			fmt.Fprintf(out, "    Rule:  %s\n", f.Rule)

			if f.Statement != "" {
				fmt.Fprintf(out, "    SQL:   %s\n", f.Statement)
			}

			fmt.Fprintf(out, "    Rerun: %s\n", f.Rerun)
			fmt.Fprintf(out, "    Fix:   %s\n\n", f.Suggestion)
		}

		totalFindings += len(r.Findings)

		if r.HasHighOrCritical() {
			hasHighOrCritical = true
		}
	}

	if totalFindings == 0 {
		fmt.Fprintln(out, "No re-run hazards detected.")
	} else {
		fmt.Fprintf(out, "Found %d finding(s) across %d migration(s).\n", totalFindings, countMigrationsWithFindings(results))
	}

	return hasHighOrCritical
}

func countMigrationsWithFindings(results []analyzer.AnalysisResult) int {
	count := 0

	for _, r := range results {
		if len(r.Findings) > 0 {
			count++
		}
	}

	return count
}

const colorReset = "\033[0m"

// useColor reports whether w is a terminal that accepts ANSI colors.
func useColor(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok || os.Getenv("NO_COLOR") != "" {
		return false
	}

	return term.IsTerminal(int(f.Fd()))
}

func severityLabel(s analyzer.Severity, color bool) string {
	label := "[" + s.String() + "]"
	if color {
		return s.Color() + label + colorReset
	}

	return label
}
