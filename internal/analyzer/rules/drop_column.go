package rules

import (
	"github.com/aqasim81/scriptdb/internal/analyzer"
	"github.com/aqasim81/scriptdb/internal/parser"
)

// DropColumnRule detects ALTER TABLE ... DROP COLUMN.
type DropColumnRule struct{}

// NewDropColumnRule creates a new DropColumnRule.
func NewDropColumnRule() *DropColumnRule { return &DropColumnRule{} }

// ID returns the rule identifier.
func (r *DropColumnRule) ID() string { return "drop-column" }

// Check examines a statement for DROP COLUMN.
func (r *DropColumnRule) Check(stmt parser.Statement, _ *analyzer.RuleContext) []analyzer.Finding {
	table, action, ok := alterTable(stmt)
	if !ok || stmt.Words[action] != "DROP" {
		return nil
	}

	// DROP CONSTRAINT is not SQLite syntax; UnsupportedAlterRule reports it.
	if action+1 < len(stmt.Words) && isTableConstraint(stmt.Words[action+1]) {
		return nil
	}

	return []analyzer.Finding{{
		Rule:       r.ID(),
		Severity:   analyzer.High,
		Table:      table,
		Message:    "DROP COLUMN permanently deletes the column's data and fails while an index or view still uses it",
		Suggestion: "Drop dependent indexes first and make sure no application code reads the column",
	}}
}
