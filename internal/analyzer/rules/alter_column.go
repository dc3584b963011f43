package rules

import (
	"regexp"

	"github.com/aqasim81/mediatrack/internal/analyzer"
	"github.com/aqasim81/mediatrack/internal/parser"
)

var alterColumnPattern = regexp.MustCompile(`(?i)^ALTER\s+TABLE\s+(\S+)\s+ALTER\s+`) //nolint:gochecknoglobals // compiled once

// AlterColumnRule detects ALTER TABLE ... ALTER [COLUMN], used for type
// changes and SET/DROP NOT NULL in other engines. SQLite supports none of them.
type AlterColumnRule struct{}

// NewAlterColumnRule creates a new AlterColumnRule.
func NewAlterColumnRule() *AlterColumnRule { return &AlterColumnRule{} }

// ID returns the rule identifier.
func (r *AlterColumnRule) ID() string { return "alter-column-unsupported" }

// Check examines a statement for ALTER COLUMN.
func (r *AlterColumnRule) Check(stmt parser.Statement, ctx *analyzer.RuleContext) []analyzer.Finding {
	table := captureIdent(alterColumnPattern, stmt.SQL)
	if table == "" {
		return nil
	}

	return []analyzer.Finding{{
		Rule:       r.ID(),
		Severity:   analyzer.High,
		Table:      table,
		Message:    "SQLite cannot alter an existing column's type or nullability",
		Suggestion: "Rebuild the table with the new column definition and copy the rows across",
		Rerun:      "fails on every run",
		StmtIndex:  ctx.StmtIndex,
	}}
}
