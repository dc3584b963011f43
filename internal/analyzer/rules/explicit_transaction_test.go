package rules_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/aqasim81/mediatrack/internal/analyzer"
	"github.com/aqasim81/mediatrack/internal/analyzer/rules"
)

func TestExplicitTransactionRule_ID(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "explicit-transaction", rules.NewExplicitTransactionRule().ID())
}

func TestExplicitTransactionRule_Check(t *testing.T) {
	t.Parallel()

	runRuleCases(t, rules.NewExplicitTransactionRule(), []ruleCase{
		{name: "BEGIN is HIGH", sql: "BEGIN", wantCount: 1, wantSeverity: analyzer.High},
		{name: "BEGIN TRANSACTION is HIGH", sql: "BEGIN IMMEDIATE TRANSACTION", wantCount: 1, wantSeverity: analyzer.High},
		{name: "COMMIT is HIGH", sql: "commit", wantCount: 1, wantSeverity: analyzer.High},
		{name: "END TRANSACTION is HIGH", sql: "END TRANSACTION", wantCount: 1, wantSeverity: analyzer.High},
		{name: "SAVEPOINT is HIGH", sql: "SAVEPOINT before_backfill", wantCount: 1, wantSeverity: analyzer.High},
		{name: "bare END closes a trigger body", sql: "END"},
		{name: "column named begin_at is not flagged", sql: "ALTER TABLE shows ADD COLUMN begin_at TEXT"},
	})
}
