package rules

import (
	"github.com/aqasim81/scriptdb/internal/analyzer"
	"github.com/aqasim81/scriptdb/internal/parser"
)

// DropIfExistsRule detects DROP statements that fail when re-run.
type DropIfExistsRule struct{}

// NewDropIfExistsRule creates a new DropIfExistsRule.
func NewDropIfExistsRule() *DropIfExistsRule { return &DropIfExistsRule{} }

// ID returns the rule identifier.
func (r *DropIfExistsRule) ID() string { return "drop-without-if-exists" }

// Check examines a DROP TABLE, INDEX, VIEW or TRIGGER for IF EXISTS.
func (r *DropIfExistsRule) Check(stmt parser.Statement, _ *analyzer.RuleContext) []analyzer.Finding {
	if stmt.Keyword() != "DROP" || len(stmt.Words) < 3 { //nolint:mnd // DROP kind name
		return nil
	}

	kind := stmt.Words[1]

	switch kind {
	case "TABLE", "INDEX", "VIEW", "TRIGGER":
	default:
		return nil
	}

	if stmt.Words[2] == "IF" {
		return nil
	}

	return []analyzer.Finding{{
		Rule:       r.ID(),
		Severity:   analyzer.Low,
		Table:      stmt.Ident(2),
		Message:    "DROP " + kind + " fails if the object is already gone, so the script cannot be re-run after a partial apply",
		Suggestion: "Use DROP " + kind + " IF EXISTS",
	}}
}
