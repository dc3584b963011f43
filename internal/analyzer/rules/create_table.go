package rules

import (
	"regexp"

	"github.com/aqasim81/mediatrack/internal/analyzer"
	"github.com/aqasim81/mediatrack/internal/parser"
)

//nolint:gochecknoglobals // compiled once
var (
	createTablePattern     = regexp.MustCompile(`(?i)^CREATE\s+(?:TEMP(?:ORARY)?\s+)?TABLE\s+([^\s(]+)`)
	createTableIfNotExists = regexp.MustCompile(`(?i)^CREATE\s+(?:TEMP(?:ORARY)?\s+)?TABLE\s+IF\s+NOT\s+EXISTS\b`)
)

// CreateTableRule detects CREATE TABLE without IF NOT EXISTS.
type CreateTableRule struct{}

// NewCreateTableRule creates a new CreateTableRule.
func NewCreateTableRule() *CreateTableRule { return &CreateTableRule{} }

// ID returns the rule identifier.
func (r *CreateTableRule) ID() string { return "create-table-without-if-not-exists" }

// Check examines a statement for a plain CREATE TABLE.
func (r *CreateTableRule) Check(stmt parser.Statement, ctx *analyzer.RuleContext) []analyzer.Finding {
	if createTableIfNotExists.MatchString(stmt.SQL) {
		return nil
	}

	table := captureIdent(createTablePattern, stmt.SQL)
	if table == "" {
		return nil
	}

	return []analyzer.Finding{{
		Rule:       r.ID(),
		Severity:   analyzer.Low,
		Table:      table,
		Message:    "CREATE TABLE " + table + " fails if the table already exists",
		Suggestion: "Write CREATE TABLE IF NOT EXISTS",
		Rerun:      "fails with table already exists",
		StmtIndex:  ctx.StmtIndex,
	}}
}
