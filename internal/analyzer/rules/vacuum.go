package rules

import (
	"regexp"

	"github.com/aqasim81/mediatrack/internal/analyzer"
	"github.com/aqasim81/mediatrack/internal/parser"
)

var vacuumPattern = regexp.MustCompile(`(?i)^VACUUM\b`) //nolint:gochecknoglobals // compiled once

// VacuumRule detects VACUUM statements.
type VacuumRule struct{}

// NewVacuumRule creates a new VacuumRule.
func NewVacuumRule() *VacuumRule { return &VacuumRule{} }

// ID returns the rule identifier.
func (r *VacuumRule) ID() string { return "vacuum-in-migration" }

// Check examines a statement for VACUUM.
func (r *VacuumRule) Check(stmt parser.Statement, ctx *analyzer.RuleContext) []analyzer.Finding {
	if !vacuumPattern.MatchString(stmt.SQL) {
		return nil
	}

	return []analyzer.Finding{{
		Rule:       r.ID(),
		Severity:   analyzer.Medium,
		Message:    "VACUUM rewrites the whole database file and blocks every other writer while it runs",
		Suggestion: "Run VACUUM as a maintenance task outside of startup migrations",
		Rerun:      "runs again; slow but harmless",
		StmtIndex:  ctx.StmtIndex,
	}}
}
