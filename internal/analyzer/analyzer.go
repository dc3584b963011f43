// Package analyzer lints migration files for statements that are unsafe to
// run a second time. SQLite executes migrations here without a transaction,
// so a crash can leave a migration half applied; the findings describe what
// will happen when that migration is retried.
package analyzer

import (
	"regexp"

	"github.com/aqasim81/mediatrack/internal/migration"
	"github.com/aqasim81/mediatrack/internal/parser"
)

//nolint:gochecknoglobals // compiled once
var (
	triggerBeginPattern = regexp.MustCompile(`(?i)\bBEGIN\b`)
	triggerEndPattern   = regexp.MustCompile(`(?i)^END$`)
)

// Option configures the Analyzer.
type Option func(*Analyzer)

// Analyzer runs registered rules against migration statements.
type Analyzer struct {
	registry *Registry
}

// New creates a new Analyzer with the given options.
func New(opts ...Option) *Analyzer {
	a := &Analyzer{
		registry: NewRegistry(),
	}

	for _, opt := range opts {
		opt(a)
	}

	return a
}

// WithRegistry sets a custom rule registry.
func WithRegistry(r *Registry) Option {
	return func(a *Analyzer) { a.registry = r }
}

// Analyze checks every statement of a single migration.
//
// Trigger migrations are executed as one batch, but they are still split on
// semicolons here so each top-level statement can be checked. Statements
// inside a trigger's BEGIN...END body are not checked. RuleContext.Batch tells
// rules that no per-statement guard will protect them.
func (a *Analyzer) Analyze(m *migration.Migration) *AnalysisResult {
	stripped := parser.StripComments(m.SQL)
	batch := parser.ContainsTrigger(stripped)

	var findings []Finding

	maxSeverity := Safe
	inTriggerBody := false

	for i, raw := range parser.SplitStatements(stripped) {
		if batch {
			if inTriggerBody {
				inTriggerBody = !triggerEndPattern.MatchString(raw)

				continue
			}

			inTriggerBody = parser.ContainsTrigger(raw) && triggerBeginPattern.MatchString(raw)
		}

		stmt := parser.Classify(raw)
		ctx := &RuleContext{
			Migration: m,
			StmtIndex: i,
			Batch:     batch,
		}

		for _, rule := range a.registry.Rules() {
			fs := rule.Check(stmt, ctx)
			for j := range fs {
				if fs[j].Statement == "" {
					fs[j].Statement = TruncateSQL(stmt.SQL, statementDisplayLen)
				}

				if fs[j].Severity > maxSeverity {
					maxSeverity = fs[j].Severity
				}
			}

			findings = append(findings, fs...)
		}
	}

	return &AnalysisResult{
		Migration:   m,
		Findings:    findings,
		MaxSeverity: maxSeverity,
	}
}

// AnalyzeAll analyzes multiple migrations and returns results for each.
func (a *Analyzer) AnalyzeAll(migrations []migration.Migration) []AnalysisResult {
	results := make([]AnalysisResult, 0, len(migrations))

	for i := range migrations {
		results = append(results, *a.Analyze(&migrations[i]))
	}

	return results
}
