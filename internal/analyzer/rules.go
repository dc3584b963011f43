package analyzer

import (
	"github.com/aqasim81/mediatrack/internal/migration"
	"github.com/aqasim81/mediatrack/internal/parser"
)

// Rule is the interface that all hazard detection rules must implement.
type Rule interface {
	// ID returns a unique kebab-case identifier for this rule.
	ID() string
	// Check examines a single classified statement and returns any findings.
	Check(stmt parser.Statement, ctx *RuleContext) []Finding
}

// RuleContext provides contextual information to rules during analysis.
type RuleContext struct {
	Migration *migration.Migration
	StmtIndex int
	Batch     bool // the migration runs as one unsplit batch, with no per-statement guards
}

// Registry holds a collection of rules.
type Registry struct {
	rules []Rule
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// Register adds a rule to the registry.
func (r *Registry) Register(rule Rule) {
	r.rules = append(r.rules, rule)
}

// Rules returns all registered rules.
func (r *Registry) Rules() []Rule {
	return r.rules
}
