package executor

import (
	"fmt"

	"github.com/aqasim81/scriptdb/internal/parser"
)

// txControlKeywords are statements SQLite refuses inside, or that would end,
// an enclosing transaction. PRAGMA is included because foreign_keys and
// journal_mode are silently ignored inside one.
var txControlKeywords = map[string]bool{ //nolint:gochecknoglobals // fixed lookup table
	"BEGIN":    true,
	"COMMIT":   true,
	"END":      true,
	"ROLLBACK": true,
	"VACUUM":   true,
	"ATTACH":   true,
	"DETACH":   true,
	"PRAGMA":   true,
}

// containsTransactionControl parses the script and reports whether any
// statement manages transactions itself. Such scripts run directly on the
// connection and the ledger row is committed separately afterwards.
func containsTransactionControl(sql string) (bool, error) {
	result, err := parser.Parse(sql)
	if err != nil {
		return false, fmt.Errorf("parsing SQL for transaction control detection: %w", err)
	}

	for _, stmt := range result.Stmts {
		if txControlKeywords[stmt.Keyword()] {
			return true, nil
		}
	}

	return false, nil
}
