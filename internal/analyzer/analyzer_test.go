package analyzer_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aqasim81/mediatrack/internal/analyzer"
	"github.com/aqasim81/mediatrack/internal/migration"
	"github.com/aqasim81/mediatrack/internal/parser"
)

// stubRule is a test rule that always returns a finding.
type stubRule struct {
	seen []parser.Statement
	ctxs []analyzer.RuleContext
}

func (r *stubRule) ID() string { return "test-stub" }

func (r *stubRule) Check(stmt parser.Statement, ctx *analyzer.RuleContext) []analyzer.Finding {
	r.seen = append(r.seen, stmt)
	r.ctxs = append(r.ctxs, *ctx)

	return []analyzer.Finding{{
		Rule:      r.ID(),
		Severity:  analyzer.High,
		Message:   "stub finding",
		StmtIndex: ctx.StmtIndex,
	}}
}

func stubAnalyzer() (*analyzer.Analyzer, *stubRule) {
	rule := &stubRule{}
	registry := analyzer.NewRegistry()
	registry.Register(rule)

	return analyzer.New(analyzer.WithRegistry(registry)), rule
}

func TestAnalyze_noRules_noFindings(t *testing.T) {
	t.Parallel()

	m := &migration.Migration{Filename: "0001_movies.sql", SQL: "CREATE TABLE movies (id INTEGER PRIMARY KEY);"}

	result := analyzer.New().Analyze(m)
	assert.Empty(t, result.Findings)
	assert.Equal(t, analyzer.Safe, result.MaxSeverity)
	assert.Same(t, m, result.Migration)
}

func TestAnalyze_withStubRule_returnsFindings(t *testing.T) {
	t.Parallel()

	a, _ := stubAnalyzer()

	result := a.Analyze(&migration.Migration{SQL: "CREATE TABLE movies (id INTEGER);"})
	require.Len(t, result.Findings, 1)
	assert.Equal(t, analyzer.High, result.MaxSeverity)
	assert.Equal(t, "test-stub", result.Findings[0].Rule)
	assert.Equal(t, "CREATE TABLE movies (id INTEGER)", result.Findings[0].Statement, "statement filled in")
}

func TestAnalyze_commentsIgnored(t *testing.T) {
	t.Parallel()

	a, rule := stubAnalyzer()

	result := a.Analyze(&migration.Migration{SQL: "-- only a comment\n-- DROP TABLE movies;\n"})
	assert.Empty(t, result.Findings)
	assert.Empty(t, rule.seen)
}

func TestAnalyze_multiStatement_runsRulesOnEach(t *testing.T) {
	t.Parallel()

	a, rule := stubAnalyzer()

	result := a.Analyze(&migration.Migration{SQL: "CREATE TABLE a (id INTEGER); ALTER TABLE a ADD COLUMN b TEXT;"})
	require.Len(t, result.Findings, 2)
	assert.Equal(t, 0, result.Findings[0].StmtIndex)
	assert.Equal(t, 1, result.Findings[1].StmtIndex)
	assert.Equal(t, parser.KindAddColumn, rule.seen[1].Kind)
	assert.False(t, rule.ctxs[0].Batch)
}

func TestAnalyze_triggerBodySkipped(t *testing.T) {
	t.Parallel()

	a, rule := stubAnalyzer()

	a.Analyze(&migration.Migration{SQL: "CREATE TABLE log (msg TEXT);\n" +
		"CREATE TRIGGER trg AFTER DELETE ON movies BEGIN\n" +
		"  DELETE FROM log;\n" +
		"  INSERT INTO log VALUES ('gone');\n" +
		"END;\n" +
		"CREATE INDEX idx_log ON log(msg);"})

	require.Len(t, rule.seen, 3)
	assert.Contains(t, rule.seen[0].SQL, "CREATE TABLE log")
	assert.Contains(t, rule.seen[1].SQL, "CREATE TRIGGER trg")
	assert.Equal(t, parser.KindCreateIndex, rule.seen[2].Kind)

	for _, ctx := range rule.ctxs {
		assert.True(t, ctx.Batch)
	}
}

func TestAnalyzeAll_multipleMigrations_correctResultCount(t *testing.T) {
	t.Parallel()

	migrations := []migration.Migration{
		{Filename: "0001_a.sql", SQL: "CREATE TABLE a (id INTEGER);"},
		{Filename: "0002_b.sql", SQL: "CREATE TABLE b (id INTEGER);"},
	}

	results := analyzer.New().AnalyzeAll(migrations)
	require.Len(t, results, 2)
	assert.Equal(t, "0002_b.sql", results[1].Migration.Filename)
}

func TestTruncateSQL(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "SELECT 1", analyzer.TruncateSQL("SELECT 1", 100))
	assert.Equal(t, "SELECT 1", analyzer.TruncateSQL("SELECT 1", 8))
	assert.Equal(t, "SELECT 1", analyzer.TruncateSQL("SELECT 1", 3))

	result := analyzer.TruncateSQL("SELECT * FROM very_long_table_name WHERE id = 1", 20)
	assert.Equal(t, "SELECT * FROM ver...", result)
	assert.Len(t, result, 20)

	assert.Equal(t, "CREATE TABLE t ( id INTEGER )", analyzer.TruncateSQL("CREATE TABLE t (\n  id INTEGER\n)\n", 100))
}

func TestHasHighOrCritical(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		severity analyzer.Severity
		expected bool
	}{
		{"safe", analyzer.Safe, false},
		{"low", analyzer.Low, false},
		{"medium", analyzer.Medium, false},
		{"high", analyzer.High, true},
		{"critical", analyzer.Critical, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			r := &analyzer.AnalysisResult{MaxSeverity: tt.severity}
			assert.Equal(t, tt.expected, r.HasHighOrCritical())
		})
	}
}
