package rules

import (
	"github.com/aqasim81/scriptdb/internal/analyzer"
	"github.com/aqasim81/scriptdb/internal/parser"
)

// CreateIfNotExistsRule detects CREATE statements that fail when re-run.
type CreateIfNotExistsRule struct{}

// NewCreateIfNotExistsRule creates a new CreateIfNotExistsRule.
func NewCreateIfNotExistsRule() *CreateIfNotExistsRule { return &CreateIfNotExistsRule{} }

// ID returns the rule identifier.
func (r *CreateIfNotExistsRule) ID() string { return "create-without-if-not-exists" }

// Check examines a CREATE TABLE, INDEX, VIEW or TRIGGER for IF NOT EXISTS.
func (r *CreateIfNotExistsRule) Check(stmt parser.Statement, _ *analyzer.RuleContext) []analyzer.Finding {
	kind, next, ok := createTarget(stmt)
	if !ok || (next < len(stmt.Words) && stmt.Words[next] == "IF") {
		return nil
	}

	return []analyzer.Finding{{
		Rule:       r.ID(),
		Severity:   analyzer.Low,
		Table:      stmt.Ident(next),
		Message:    "CREATE " + kind + " fails if the object already exists, so the script cannot be re-run after a partial apply",
		Suggestion: "Use CREATE " + kind + " IF NOT EXISTS",
	}}
}
