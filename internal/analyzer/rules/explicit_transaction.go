package rules

import (
	"regexp"
	"strings"

	"github.com/aqasim81/mediatrack/internal/analyzer"
	"github.com/aqasim81/mediatrack/internal/parser"
)

var transactionPattern = regexp.MustCompile( //nolint:gochecknoglobals // compiled once
	`(?i)^(BEGIN|COMMIT|END\s+TRANSACTION|ROLLBACK|SAVEPOINT|RELEASE)\b`,
)

// ExplicitTransactionRule detects transaction control statements. The runner
// executes statements one by one outside a transaction and records progress
// per migration, so a migration-level transaction desynchronises the two.
type ExplicitTransactionRule struct{}

// NewExplicitTransactionRule creates a new ExplicitTransactionRule.
func NewExplicitTransactionRule() *ExplicitTransactionRule { return &ExplicitTransactionRule{} }

// ID returns the rule identifier.
func (r *ExplicitTransactionRule) ID() string { return "explicit-transaction" }

// Check examines a statement for BEGIN, COMMIT, ROLLBACK or SAVEPOINT.
func (r *ExplicitTransactionRule) Check(stmt parser.Statement, ctx *analyzer.RuleContext) []analyzer.Finding {
	m := transactionPattern.FindStringSubmatch(stmt.SQL)
	if m == nil {
		return nil
	}

	return []analyzer.Finding{{
		Rule:       r.ID(),
		Severity:   analyzer.High,
		Message:    strings.ToUpper(m[1]) + " controls a transaction the runner does not know about",
		Suggestion: "Remove transaction statements; split the work into separate migrations instead",
		Rerun:      "a failure leaves the connection inside an open transaction",
		StmtIndex:  ctx.StmtIndex,
	}}
}
