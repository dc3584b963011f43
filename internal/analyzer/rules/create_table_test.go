package rules_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/aqasim81/mediatrack/internal/analyzer"
	"github.com/aqasim81/mediatrack/internal/analyzer/rules"
)

func TestCreateTableRule_ID(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "create-table-without-if-not-exists", rules.NewCreateTableRule().ID())
}

func TestCreateTableRule_Check(t *testing.T) {
	t.Parallel()

	runRuleCases(t, rules.NewCreateTableRule(), []ruleCase{
		{name: "plain CREATE TABLE is LOW", sql: "CREATE TABLE movies (id INTEGER)", wantCount: 1, wantSeverity: analyzer.Low, wantTable: "movies"},
		{name: "no space before paren", sql: "CREATE TABLE movies(id INTEGER)", wantCount: 1, wantSeverity: analyzer.Low, wantTable: "movies"},
		{name: "temporary table", sql: "CREATE TEMP TABLE scratch (id INTEGER)", wantCount: 1, wantSeverity: analyzer.Low, wantTable: "scratch"},
		{name: "IF NOT EXISTS is not flagged", sql: "CREATE TABLE IF NOT EXISTS movies (id INTEGER)"},
		{name: "CREATE INDEX is not flagged", sql: "CREATE INDEX idx ON movies(id)"},
	})
}
