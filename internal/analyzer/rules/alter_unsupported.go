package rules

import (
	"github.com/aqasim81/scriptdb/internal/analyzer"
	"github.com/aqasim81/scriptdb/internal/parser"
)

// UnsupportedAlterRule detects ALTER TABLE forms that SQLite does not
// implement, such as ALTER COLUMN TYPE, SET NOT NULL and ADD CONSTRAINT.
type UnsupportedAlterRule struct{}

// NewUnsupportedAlterRule creates a new UnsupportedAlterRule.
func NewUnsupportedAlterRule() *UnsupportedAlterRule { return &UnsupportedAlterRule{} }

// ID returns the rule identifier.
func (r *UnsupportedAlterRule) ID() string { return "unsupported-alter-table" }

// Check examines an ALTER TABLE action.
func (r *UnsupportedAlterRule) Check(stmt parser.Statement, _ *analyzer.RuleContext) []analyzer.Finding {
	table, action, ok := alterTable(stmt)
	if !ok {
		return nil
	}

	var next string
	if action+1 < len(stmt.Words) {
		next = stmt.Words[action+1]
	}

	switch stmt.Words[action] {
	case "RENAME":
		return nil
	case "ADD", "DROP":
		if !isTableConstraint(next) {
			return nil
		}
	}

	return []analyzer.Finding{{
		Rule:       r.ID(),
		Severity:   analyzer.High,
		Table:      table,
		Message:    "SQLite ALTER TABLE supports only RENAME, ADD COLUMN and DROP COLUMN; this statement fails",
		Suggestion: "Rebuild the table: create the new shape, copy the rows, drop the old table, rename the new one",
	}}
}
