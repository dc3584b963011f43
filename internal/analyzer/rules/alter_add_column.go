package rules

import (
	"regexp"
	"strings"

	"github.com/aqasim81/mediatrack/internal/analyzer"
	"github.com/aqasim81/mediatrack/internal/parser"
)

//nolint:gochecknoglobals // compiled once
var (
	addWithoutColumnPattern = regexp.MustCompile(`(?i)^ALTER\s+TABLE\s+(\S+)\s+ADD\s+(\S+)`)
	notNullPattern          = regexp.MustCompile(`(?i)\bNOT\s+NULL\b`)
	defaultPattern          = regexp.MustCompile(`(?i)\bDEFAULT\b`)
)

// AddColumnUnguardedRule detects ALTER TABLE ... ADD <col> written without
// the COLUMN keyword, which the runner does not recognise as an ADD COLUMN.
type AddColumnUnguardedRule struct{}

// NewAddColumnUnguardedRule creates a new AddColumnUnguardedRule.
func NewAddColumnUnguardedRule() *AddColumnUnguardedRule { return &AddColumnUnguardedRule{} }

// ID returns the rule identifier.
func (r *AddColumnUnguardedRule) ID() string { return "add-column-unguarded" }

// Check examines a statement for ADD without COLUMN.
func (r *AddColumnUnguardedRule) Check(stmt parser.Statement, ctx *analyzer.RuleContext) []analyzer.Finding {
	if stmt.Kind != parser.KindExec {
		return nil
	}

	m := addWithoutColumnPattern.FindStringSubmatch(stmt.SQL)
	if m == nil {
		return nil
	}

	switch strings.ToUpper(m[2]) {
	case "COLUMN", "CONSTRAINT":
		return nil
	}

	return []analyzer.Finding{{
		Rule:       r.ID(),
		Severity:   analyzer.Medium,
		Table:      parser.Unquote(m[1]),
		Message:    "ADD " + parser.Unquote(m[2]) + " without the COLUMN keyword is not checked against pragma_table_info",
		Suggestion: "Write ALTER TABLE ... ADD COLUMN so an existing column is skipped",
		Rerun:      "duplicate column error; migration recorded and its remaining statements never run",
		StmtIndex:  ctx.StmtIndex,
	}}
}

// AddColumnNotNullRule detects ADD COLUMN ... NOT NULL without a DEFAULT,
// which SQLite rejects outright.
type AddColumnNotNullRule struct{}

// NewAddColumnNotNullRule creates a new AddColumnNotNullRule.
func NewAddColumnNotNullRule() *AddColumnNotNullRule { return &AddColumnNotNullRule{} }

// ID returns the rule identifier.
func (r *AddColumnNotNullRule) ID() string { return "add-column-not-null-without-default" }

// Check examines an added column for NOT NULL without DEFAULT.
func (r *AddColumnNotNullRule) Check(stmt parser.Statement, ctx *analyzer.RuleContext) []analyzer.Finding {
	table := stmt.Table

	switch stmt.Kind {
	case parser.KindAddColumn:
	case parser.KindExec:
		m := addWithoutColumnPattern.FindStringSubmatch(stmt.SQL)
		if m == nil || strings.EqualFold(m[2], "CONSTRAINT") {
			return nil
		}

		table = parser.Unquote(m[1])
	default:
		return nil
	}

	if !notNullPattern.MatchString(stmt.SQL) || defaultPattern.MatchString(stmt.SQL) {
		return nil
	}

	return []analyzer.Finding{{
		Rule:       r.ID(),
		Severity:   analyzer.High,
		Table:      table,
		Message:    "SQLite cannot add a NOT NULL column without a non-NULL DEFAULT",
		Suggestion: "Add a DEFAULT value, or add the column as nullable and backfill",
		Rerun:      "fails on every run",
		StmtIndex:  ctx.StmtIndex,
	}}
}
