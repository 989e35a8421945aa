package rules

import (
	"github.com/aqasim81/scriptdb/internal/analyzer"
	"github.com/aqasim81/scriptdb/internal/parser"
)

// CreateUniqueIndexRule detects CREATE UNIQUE INDEX, which fails on tables
// that already hold duplicate values.
type CreateUniqueIndexRule struct{}

// NewCreateUniqueIndexRule creates a new CreateUniqueIndexRule.
func NewCreateUniqueIndexRule() *CreateUniqueIndexRule { return &CreateUniqueIndexRule{} }

// ID returns the rule identifier.
func (r *CreateUniqueIndexRule) ID() string { return "create-unique-index" }

// Check examines a statement for CREATE UNIQUE INDEX.
func (r *CreateUniqueIndexRule) Check(stmt parser.Statement, _ *analyzer.RuleContext) []analyzer.Finding {
	if !stmt.HasPrefix("CREATE", "UNIQUE", "INDEX") {
		return nil
	}

	return []analyzer.Finding{{
		Rule:       r.ID(),
		Severity:   analyzer.Medium,
		Table:      objectName(stmt, 3), //nolint:mnd // word after CREATE UNIQUE INDEX
		Message:    "CREATE UNIQUE INDEX fails if existing rows contain duplicate values",
		Suggestion: "Remove duplicates in an earlier statement of the same migration",
	}}
}
