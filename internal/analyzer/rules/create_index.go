package rules

import (
	"regexp"

	"github.com/aqasim81/mediatrack/internal/analyzer"
	"github.com/aqasim81/mediatrack/internal/parser"
)

var indexTablePattern = regexp.MustCompile(`(?i)\bON\s+([^\s(]+)`) //nolint:gochecknoglobals // compiled once

// CreateIndexRule detects CREATE INDEX without IF NOT EXISTS.
type CreateIndexRule struct{}

// NewCreateIndexRule creates a new CreateIndexRule.
func NewCreateIndexRule() *CreateIndexRule { return &CreateIndexRule{} }

// ID returns the rule identifier.
func (r *CreateIndexRule) ID() string { return "create-index-without-if-not-exists" }

// Check examines a statement for a plain CREATE INDEX.
func (r *CreateIndexRule) Check(stmt parser.Statement, ctx *analyzer.RuleContext) []analyzer.Finding {
	if stmt.Kind != parser.KindCreateIndex {
		return nil
	}

	f := analyzer.Finding{
		Rule:       r.ID(),
		Severity:   analyzer.Low,
		Table:      captureIdent(indexTablePattern, stmt.SQL),
		Message:    "CREATE INDEX " + stmt.Index + " relies on the runner's sqlite_master check",
		Suggestion: "Write CREATE INDEX IF NOT EXISTS so the statement is idempotent on its own",
		Rerun:      "skipped when the index exists",
		StmtIndex:  ctx.StmtIndex,
	}

	if ctx.Batch {
		f.Severity = analyzer.Medium
		f.Message = "CREATE INDEX " + stmt.Index + " inside a trigger migration is not checked before execution"
		f.Rerun = "fails with index already exists"
	}

	return []analyzer.Finding{f}
}
