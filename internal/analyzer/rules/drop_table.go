package rules

import (
	"strings"

	"github.com/aqasim81/scriptdb/internal/analyzer"
	"github.com/aqasim81/scriptdb/internal/parser"
)

// DropTableRule detects DROP TABLE and DELETE without a WHERE clause.
type DropTableRule struct{}

// NewDropTableRule creates a new DropTableRule.
func NewDropTableRule() *DropTableRule { return &DropTableRule{} }

// ID returns the rule identifier.
func (r *DropTableRule) ID() string { return "drop-table" }

// Check examines a statement for DROP TABLE or an unfiltered DELETE.
func (r *DropTableRule) Check(stmt parser.Statement, _ *analyzer.RuleContext) []analyzer.Finding {
	switch {
	case stmt.HasPrefix("DROP", "TABLE"):
		msg := "DROP TABLE is irreversible and will permanently delete all data"
		if stmt.HasPrefix("DROP", "TABLE", "IF", "EXISTS") {
			msg = "DROP TABLE IF EXISTS is irreversible and will permanently delete all data"
		}

		return []analyzer.Finding{{
			Rule:       r.ID(),
			Severity:   analyzer.Critical,
			Table:      objectName(stmt, 2), //nolint:mnd // word after DROP TABLE
			Message:    msg,
			Suggestion: "Ensure you have a backup and that no application code references this table",
		}}
	case stmt.HasPrefix("DELETE", "FROM") && !hasWhere(stmt.Text):
		return []analyzer.Finding{{
			Rule:       r.ID(),
			Severity:   analyzer.Critical,
			Table:      stmt.Ident(2), //nolint:mnd // word after DELETE FROM
			Message:    "DELETE without WHERE removes all rows from the table",
			Suggestion: "Ensure you have a backup, or add a WHERE clause",
		}}
	default:
		return nil
	}
}

// hasWhere is a text check; a WHERE inside a string literal also counts.
func hasWhere(text string) bool {
	for _, f := range strings.Fields(strings.ToUpper(text)) {
		if f == "WHERE" {
			return true
		}
	}

	return false
}
