package rules

import (
	"regexp"

	"github.com/aqasim81/mediatrack/internal/analyzer"
	"github.com/aqasim81/mediatrack/internal/parser"
)

//nolint:gochecknoglobals // compiled once
var (
	dropTablePattern = regexp.MustCompile(`(?i)^DROP\s+TABLE\s+(?:IF\s+EXISTS\s+)?(\S+)`)
	dropIfExistsExpr = regexp.MustCompile(`(?i)^DROP\s+TABLE\s+IF\s+EXISTS\b`)
	deleteAllPattern = regexp.MustCompile(`(?i)^DELETE\s+FROM\s+(\S+)`)
	wherePattern     = regexp.MustCompile(`(?i)\bWHERE\b`)
)

// DropTableRule detects DROP TABLE and DELETE without WHERE.
type DropTableRule struct{}

// NewDropTableRule creates a new DropTableRule.
func NewDropTableRule() *DropTableRule { return &DropTableRule{} }

// ID returns the rule identifier.
func (r *DropTableRule) ID() string { return "drop-table" }

// Check examines a statement for DROP TABLE or an unqualified DELETE.
func (r *DropTableRule) Check(stmt parser.Statement, ctx *analyzer.RuleContext) []analyzer.Finding {
	if table := captureIdent(dropTablePattern, stmt.SQL); table != "" {
		msg := "DROP TABLE is irreversible and will permanently delete all data"
		rerun := "fails with no such table"

		if dropIfExistsExpr.MatchString(stmt.SQL) {
			msg = "DROP TABLE IF EXISTS is irreversible and will permanently delete all data"
			rerun = "drops the table again, including anything recreated since"
		}

		return []analyzer.Finding{{
			Rule:       r.ID(),
			Severity:   analyzer.Critical,
			Table:      table,
			Message:    msg,
			Suggestion: "Ensure you have a backup and that no application code references this table",
			Rerun:      rerun,
			StmtIndex:  ctx.StmtIndex,
		}}
	}

	if table := captureIdent(deleteAllPattern, stmt.SQL); table != "" && !wherePattern.MatchString(stmt.SQL) {
		return []analyzer.Finding{{
			Rule:       r.ID(),
			Severity:   analyzer.Critical,
			Table:      table,
			Message:    "DELETE without WHERE removes every row in the table",
			Suggestion: "Restrict the DELETE with a WHERE clause or back up the table first",
			Rerun:      "deletes rows written since the first run",
			StmtIndex:  ctx.StmtIndex,
		}}
	}

	return nil
}
