package rules

import "github.com/aqasim81/scriptdb/internal/analyzer"

// NewDefaultRegistry returns a Registry with all built-in rules.
func NewDefaultRegistry() *analyzer.Registry {
	r := analyzer.NewRegistry()
	r.Register(NewTransactionControlRule())
	r.Register(NewVacuumRule())
	r.Register(NewCreateIfNotExistsRule())
	r.Register(NewDropIfExistsRule())
	r.Register(NewCreateUniqueIndexRule())
	r.Register(NewDropTableRule())
	r.Register(NewDropColumnRule())
	r.Register(NewAddColumnRule())
	r.Register(NewUnsupportedAlterRule())
	r.Register(NewRenameRule())

	return r
}
