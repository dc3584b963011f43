package rules

import "github.com/aqasim81/mediatrack/internal/analyzer"

// NewDefaultRegistry returns a Registry with all built-in detection rules.
func NewDefaultRegistry() *analyzer.Registry {
	r := analyzer.NewRegistry()
	r.Register(NewCreateIndexRule())
	r.Register(NewAddColumnUnguardedRule())
	r.Register(NewAddColumnNotNullRule())
	r.Register(NewAddConstraintRule())
	r.Register(NewAlterColumnRule())
	r.Register(NewDropTableRule())
	r.Register(NewRenameRule())
	r.Register(NewVacuumRule())
	r.Register(NewExplicitTransactionRule())
	r.Register(NewCreateTableRule())
	r.Register(NewCreateTriggerRule())

	return r
}
