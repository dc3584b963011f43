package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aqasim81/mediatrack/internal/analyzer"
	"github.com/aqasim81/mediatrack/internal/migration"
)

// newAnalyzeCmd creates a fresh cobra.Command wired to runAnalyze with a captured output buffer.
func newAnalyzeCmd(t *testing.T) (*cobra.Command, *bytes.Buffer) {
	t.Helper()

	cmd, buf := newTestCmd(t, runAnalyze)
	cmd.Use = "analyze [migration-dir]"
	cmd.Flags().Bool("fail-on-high", false, "exit with non-zero code if high/critical findings exist")

	return cmd, buf
}

func TestCountMigrationsWithFindings(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		results  []analyzer.AnalysisResult
		expected int
	}{
		{
			name:     "empty results",
			results:  nil,
			expected: 0,
		},
		{
			name: "no findings",
			results: []analyzer.AnalysisResult{
				{Migration: &migration.Migration{Filename: "001_a.sql"}, Findings: nil},
			},
			expected: 0,
		},
		{
			name: "one with findings",
			results: []analyzer.AnalysisResult{
				{Migration: &migration.Migration{Filename: "001_a.sql"}, Findings: nil},
				{Migration: &migration.Migration{Filename: "002_b.sql"}, Findings: []analyzer.Finding{{Rule: "test"}}},
			},
			expected: 1,
		},
		{
			name: "all with findings",
			results: []analyzer.AnalysisResult{
				{Migration: &migration.Migration{Filename: "001_a.sql"}, Findings: []analyzer.Finding{{Rule: "a"}}},
				{Migration: &migration.Migration{Filename: "002_b.sql"}, Findings: []analyzer.Finding{{Rule: "b"}}},
			},
			expected: 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expected, countMigrationsWithFindings(tt.results))
		})
	}
}

func TestPrintAnalysisResults_noFindings_printsNoHazards(t *testing.T) {
	t.Parallel()

	buf := new(bytes.Buffer)
	cmd := &cobra.Command{}
	cmd.SetOut(buf)

	results := []analyzer.AnalysisResult{
		{Migration: &migration.Migration{Filename: "001_safe.sql"}, Findings: nil},
	}

	hasHigh := printAnalysisResults(cmd, results)
	assert.False(t, hasHigh)
	assert.Contains(t, buf.String(), "No re-run hazards detected.")
}

func TestPrintAnalysisResults_withFindings_formatsOutput(t *testing.T) {
	t.Parallel()

	buf := new(bytes.Buffer)
	cmd := &cobra.Command{}
	cmd.SetOut(buf)

	results := []analyzer.AnalysisResult{
		{
			Migration:   &migration.Migration{Filename: "003_drop_legacy.sql"},
			MaxSeverity: analyzer.Critical,
			Findings: []analyzer.Finding{
				{
					Rule:       "drop-table",
					Severity:   analyzer.Critical,
					Table:      "legacy",
					Statement:  "DROP TABLE legacy",
					Message:    "DROP TABLE destroys the table and its rows",
					Suggestion: "Use DROP TABLE IF EXISTS and confirm the data is no longer needed",
					Rerun:      "fails with no such table",
				},
			},
		},
	}

	hasHigh := printAnalysisResults(cmd, results)
	assert.True(t, hasHigh)

	output := buf.String()
	assert.Contains(t, output, "=== 003_drop_legacy.sql ===")
	assert.Contains(t, output, "[CRITICAL]")
	assert.Contains(t, output, "Table: legacy")
	assert.Contains(t, output, "Rule:  drop-table")
	assert.Contains(t, output, "SQL:   DROP TABLE legacy")
	assert.Contains(t, output, "Rerun: fails with no such table")
	assert.Contains(t, output, "Fix:   Use DROP TABLE IF EXISTS")
	assert.Contains(t, output, "Found 1 finding(s) across 1 migration(s).")
}

func TestPrintAnalysisResults_lowSeverityOnly_returnsFalse(t *testing.T) {
	t.Parallel()

	buf := new(bytes.Buffer)
	cmd := &cobra.Command{}
	cmd.SetOut(buf)

	results := []analyzer.AnalysisResult{
		{
			Migration:   &migration.Migration{Filename: "001_mild.sql"},
			MaxSeverity: analyzer.Low,
			Findings: []analyzer.Finding{
				{Rule: "test-rule", Severity: analyzer.Low, Message: "minor concern"},
			},
		},
	}

	hasHigh := printAnalysisResults(cmd, results)
	assert.False(t, hasHigh)
	assert.Contains(t, buf.String(), "Found 1 finding(s)")
}

func TestPrintAnalysisResults_noStatementOrTable_skipsLines(t *testing.T) {
	t.Parallel()

	buf := new(bytes.Buffer)
	cmd := &cobra.Command{}
	cmd.SetOut(buf)

	results := []analyzer.AnalysisResult{
		{
			Migration:   &migration.Migration{Filename: "001_test.sql"},
			MaxSeverity: analyzer.Medium,
			Findings: []analyzer.Finding{
				{Rule: "vacuum-in-migration", Severity: analyzer.Medium, Message: "test"},
			},
		},
	}

	printAnalysisResults(cmd, results)
	assert.NotContains(t, buf.String(), "SQL:")
	assert.NotContains(t, buf.String(), "Table:")
}

func TestRunAnalyze_withTestdata_producesOutput(t *testing.T) { //nolint:paralleltest // mutates global AppConfig
	dir := filepath.Join("testdata", "migrations")
	setupTestConfig(t, dir)

	cmd, buf := newAnalyzeCmd(t)
	cmd.SetArgs([]string{dir})

	err := cmd.Execute()
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "=== 002_add_rating.sql ===")
	assert.Contains(t, buf.String(), "add-column-not-null-without-default")
	assert.NotContains(t, buf.String(), "001_create_media.sql")
}

func TestRunAnalyze_emptyDir_printsNoMigrations(t *testing.T) { //nolint:paralleltest // mutates global AppConfig
	dir := t.TempDir()
	setupTestConfig(t, dir)

	cmd, buf := newAnalyzeCmd(t)
	cmd.SetArgs([]string{dir})

	err := cmd.Execute()
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "No migration files found.")
}

func TestRunAnalyze_invalidDir_returnsError(t *testing.T) { //nolint:paralleltest // mutates global AppConfig
	dir := notADir(t)
	setupTestConfig(t, dir)

	cmd, _ := newAnalyzeCmd(t)
	cmd.SetArgs([]string{dir})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "loading migrations")
}

func TestRunAnalyze_failOnHigh_returnsError(t *testing.T) { //nolint:paralleltest // mutates global AppConfig
	dir := filepath.Join("testdata", "migrations")
	setupTestConfig(t, dir)

	cmd, _ := newAnalyzeCmd(t)
	cmd.SetArgs([]string{"--fail-on-high", dir})

	err := cmd.Execute()
	require.Error(t, err)
	assert.ErrorIs(t, err, errHighSeverityFindings)
}

func TestRunAnalyze_usesConfigDir_whenNoArgs(t *testing.T) { //nolint:paralleltest // mutates global AppConfig
	dir := filepath.Join("testdata", "migrations")
	setupTestConfig(t, dir)

	cmd, buf := newAnalyzeCmd(t)
	cmd.SetArgs([]string{})

	err := cmd.Execute()
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "finding(s)")
}

func TestSeverityLabel(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "[HIGH]", severityLabel(analyzer.High, false))
	assert.Equal(t, analyzer.High.Color()+"[HIGH]"+colorReset, severityLabel(analyzer.High, true))
}

func TestUseColor_nonTerminal_false(t *testing.T) {
	t.Parallel()

	f, err := os.CreateTemp(t.TempDir(), "out")
	require.NoError(t, err)

	t.Cleanup(func() { _ = f.Close() })

	assert.False(t, useColor(new(bytes.Buffer)))
	assert.False(t, useColor(f))
}
