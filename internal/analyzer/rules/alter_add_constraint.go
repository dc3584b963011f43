package rules

import (
	"regexp"

	"github.com/aqasim81/mediatrack/internal/analyzer"
	"github.com/aqasim81/mediatrack/internal/parser"
)

var addConstraintPattern = regexp.MustCompile(`(?i)^ALTER\s+TABLE\s+(\S+)\s+ADD\s+CONSTRAINT\b`) //nolint:gochecknoglobals // compiled once

// AddConstraintRule detects ALTER TABLE ... ADD CONSTRAINT, which SQLite does not support.
type AddConstraintRule struct{}

// NewAddConstraintRule creates a new AddConstraintRule.
func NewAddConstraintRule() *AddConstraintRule { return &AddConstraintRule{} }

// ID returns the rule identifier.
func (r *AddConstraintRule) ID() string { return "alter-add-constraint-unsupported" }

// Check examines a statement for ADD CONSTRAINT.
func (r *AddConstraintRule) Check(stmt parser.Statement, ctx *analyzer.RuleContext) []analyzer.Finding {
	table := captureIdent(addConstraintPattern, stmt.SQL)
	if table == "" {
		return nil
	}

	return []analyzer.Finding{{
		Rule:       r.ID(),
		Severity:   analyzer.High,
		Table:      table,
		Message:    "SQLite has no ALTER TABLE ... ADD CONSTRAINT",
		Suggestion: "Rebuild the table: create a new table with the constraint, copy rows, drop and rename",
		Rerun:      "fails on every run",
		StmtIndex:  ctx.StmtIndex,
	}}
}
