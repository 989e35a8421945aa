package rules

import (
	"github.com/aqasim81/scriptdb/internal/analyzer"
	"github.com/aqasim81/scriptdb/internal/parser"
)

// VacuumRule detects VACUUM in a migration script.
type VacuumRule struct{}

// NewVacuumRule creates a new VacuumRule.
func NewVacuumRule() *VacuumRule { return &VacuumRule{} }

// ID returns the rule identifier.
func (r *VacuumRule) ID() string { return "vacuum" }

// Check examines a statement for VACUUM.
func (r *VacuumRule) Check(stmt parser.Statement, _ *analyzer.RuleContext) []analyzer.Finding {
	if stmt.Keyword() != "VACUUM" {
		return nil
	}

	message := "VACUUM rewrites the whole database file and cannot run inside a transaction"
	if stmt.Contains("INTO") {
		message = "VACUUM INTO writes a copy of the database and cannot run inside a transaction"
	}

	return []analyzer.Finding{{
		Rule:       r.ID(),
		Severity:   analyzer.Medium,
		Message:    message,
		Suggestion: "Run VACUUM from a periodic task or by hand instead of from a migration",
	}}
}
