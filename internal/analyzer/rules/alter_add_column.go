package rules

import (
	"slices"
	"strings"

	"github.com/aqasim81/scriptdb/internal/analyzer"
	"github.com/aqasim81/scriptdb/internal/parser"
)

// nonConstantDefaults are DEFAULT values SQLite refuses in ADD COLUMN.
var nonConstantDefaults = []string{ //nolint:gochecknoglobals // read-only lookup
	"DEFAULT CURRENT_TIMESTAMP",
	"DEFAULT CURRENT_TIME",
	"DEFAULT CURRENT_DATE",
	"DEFAULT (",
	"DEFAULT(",
}

// AddColumnRule detects ADD COLUMN definitions that SQLite rejects.
type AddColumnRule struct{}

// NewAddColumnRule creates a new AddColumnRule.
func NewAddColumnRule() *AddColumnRule { return &AddColumnRule{} }

// ID returns the rule identifier.
func (r *AddColumnRule) ID() string { return "add-column-constraint" }

// Check examines an ADD COLUMN definition.
func (r *AddColumnRule) Check(stmt parser.Statement, _ *analyzer.RuleContext) []analyzer.Finding {
	table, action, ok := alterTable(stmt)
	if !ok || stmt.Words[action] != "ADD" {
		return nil
	}

	if action+1 < len(stmt.Words) && isTableConstraint(stmt.Words[action+1]) {
		return nil
	}

	fields := strings.Fields(strings.ToUpper(stmt.Text))
	def := strings.Join(fields, " ")

	msg, suggestion := "", ""

	switch {
	case strings.Contains(def, "PRIMARY KEY") || slices.Contains(fields, "UNIQUE"):
		msg = "SQLite cannot add a PRIMARY KEY or UNIQUE column"
		suggestion = "Add the column plainly, then CREATE UNIQUE INDEX on it"
	case strings.Contains(def, "NOT NULL") && !strings.Contains(def, "DEFAULT"):
		msg = "SQLite cannot add a NOT NULL column without a non-NULL DEFAULT"
		suggestion = "Give the column a constant DEFAULT, or add it as nullable and backfill"
	case hasNonConstantDefault(def):
		msg = "SQLite cannot add a column with a non-constant DEFAULT"
		suggestion = "Add the column with a constant DEFAULT, then backfill with UPDATE"
	default:
		return nil
	}

	return []analyzer.Finding{{
		Rule:       r.ID(),
		Severity:   analyzer.High,
		Table:      table,
		Message:    msg,
		Suggestion: suggestion,
	}}
}

func hasNonConstantDefault(def string) bool {
	for _, d := range nonConstantDefaults {
		if strings.Contains(def, d) {
			return true
		}
	}

	return false
}

func isTableConstraint(word string) bool {
	switch word {
	case "CONSTRAINT", "PRIMARY", "FOREIGN", "UNIQUE", "CHECK":
		return true
	default:
		return false
	}
}
