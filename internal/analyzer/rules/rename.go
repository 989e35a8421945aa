package rules

import (
	"github.com/aqasim81/scriptdb/internal/analyzer"
	"github.com/aqasim81/scriptdb/internal/parser"
)

// RenameRule detects ALTER TABLE ... RENAME TO and RENAME COLUMN.
type RenameRule struct{}

// NewRenameRule creates a new RenameRule.
func NewRenameRule() *RenameRule { return &RenameRule{} }

// ID returns the rule identifier.
func (r *RenameRule) ID() string { return "rename" }

// Check examines a statement for RENAME TO or RENAME COLUMN.
func (r *RenameRule) Check(stmt parser.Statement, _ *analyzer.RuleContext) []analyzer.Finding {
	table, action, ok := alterTable(stmt)
	if !ok || stmt.Words[action] != "RENAME" {
		return nil
	}

	if action+1 < len(stmt.Words) && stmt.Words[action+1] == "TO" {
		return []analyzer.Finding{{
			Rule:       r.ID(),
			Severity:   analyzer.Medium,
			Table:      table,
			Message:    "RENAME TABLE breaks application code that references the old name",
			Suggestion: "Update application code in the same release, or keep a view under the old name",
		}}
	}

	return []analyzer.Finding{{
		Rule:       r.ID(),
		Severity:   analyzer.Medium,
		Table:      table,
		Message:    "RENAME COLUMN breaks application code that references the old column name",
		Suggestion: "Use a staged approach: add new column, backfill, update app code, drop old column",
	}}
}
