package rules

import (
	"regexp"

	"github.com/aqasim81/mediatrack/internal/analyzer"
	"github.com/aqasim81/mediatrack/internal/parser"
)

var renamePattern = regexp.MustCompile(`(?i)^ALTER\s+TABLE\s+(\S+)\s+RENAME\b`) //nolint:gochecknoglobals // compiled once

// RenameRule detects ALTER TABLE ... RENAME [TO | COLUMN].
type RenameRule struct{}

// NewRenameRule creates a new RenameRule.
func NewRenameRule() *RenameRule { return &RenameRule{} }

// ID returns the rule identifier.
func (r *RenameRule) ID() string { return "rename-not-idempotent" }

// Check examines a statement for a table or column rename.
func (r *RenameRule) Check(stmt parser.Statement, ctx *analyzer.RuleContext) []analyzer.Finding {
	table := captureIdent(renamePattern, stmt.SQL)
	if table == "" {
		return nil
	}

	return []analyzer.Finding{{
		Rule:       r.ID(),
		Severity:   analyzer.Medium,
		Table:      table,
		Message:    "RENAME has no IF EXISTS form; the old name is gone after the first run",
		Suggestion: "Keep renames in a migration of their own so a partial run cannot strand them",
		Rerun:      "fails with no such table or column",
		StmtIndex:  ctx.StmtIndex,
	}}
}
