package rules

import (
	"regexp"

	"github.com/aqasim81/mediatrack/internal/analyzer"
	"github.com/aqasim81/mediatrack/internal/parser"
)

//nolint:gochecknoglobals // compiled once
var (
	createTriggerPattern     = regexp.MustCompile(`(?i)^CREATE\s+(?:TEMP(?:ORARY)?\s+)?TRIGGER\s+(\S+)`)
	createTriggerIfNotExists = regexp.MustCompile(`(?i)^CREATE\s+(?:TEMP(?:ORARY)?\s+)?TRIGGER\s+IF\s+NOT\s+EXISTS\b`)
	triggerTablePattern      = regexp.MustCompile(`(?i)\bON\s+([^\s(]+)`)
)

// CreateTriggerRule detects CREATE TRIGGER without IF NOT EXISTS. Trigger
// migrations run as a single batch with no guards, so every object in them
// must be idempotent on its own.
type CreateTriggerRule struct{}

// NewCreateTriggerRule creates a new CreateTriggerRule.
func NewCreateTriggerRule() *CreateTriggerRule { return &CreateTriggerRule{} }

// ID returns the rule identifier.
func (r *CreateTriggerRule) ID() string { return "create-trigger-without-if-not-exists" }

// Check examines a statement for a plain CREATE TRIGGER.
func (r *CreateTriggerRule) Check(stmt parser.Statement, ctx *analyzer.RuleContext) []analyzer.Finding {
	if createTriggerIfNotExists.MatchString(stmt.SQL) {
		return nil
	}

	name := captureIdent(createTriggerPattern, stmt.SQL)
	if name == "" {
		return nil
	}

	return []analyzer.Finding{{
		Rule:       r.ID(),
		Severity:   analyzer.Medium,
		Table:      captureIdent(triggerTablePattern, stmt.SQL),
		Message:    "CREATE TRIGGER " + name + " fails if the trigger already exists",
		Suggestion: "Write CREATE TRIGGER IF NOT EXISTS",
		Rerun:      "fails with trigger already exists; the whole batch is retried",
		StmtIndex:  ctx.StmtIndex,
	}}
}
