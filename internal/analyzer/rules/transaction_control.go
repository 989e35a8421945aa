package rules

import (
	"github.com/aqasim81/scriptdb/internal/analyzer"
	"github.com/aqasim81/scriptdb/internal/parser"
)

// TransactionControlRule detects scripts that manage their own transaction
// or attach databases. Such scripts run outside the migration transaction,
// so the script and its ledger row commit separately.
type TransactionControlRule struct{}

// NewTransactionControlRule creates a new TransactionControlRule.
func NewTransactionControlRule() *TransactionControlRule { return &TransactionControlRule{} }

// ID returns the rule identifier.
func (r *TransactionControlRule) ID() string { return "transaction-control" }

// Check examines a statement for BEGIN, COMMIT, ROLLBACK, SAVEPOINT, ATTACH and friends.
func (r *TransactionControlRule) Check(stmt parser.Statement, _ *analyzer.RuleContext) []analyzer.Finding {
	switch stmt.Keyword() {
	case "BEGIN", "COMMIT", "END", "ROLLBACK", "SAVEPOINT", "RELEASE":
		return []analyzer.Finding{{
			Rule:       r.ID(),
			Severity:   analyzer.Medium,
			Message:    stmt.Keyword() + " makes the script run outside the migration transaction; a crash before the ledger insert re-runs it",
			Suggestion: "Drop the transaction statements and let the engine wrap the script",
		}}
	case "ATTACH", "DETACH":
		return []analyzer.Finding{{
			Rule:       r.ID(),
			Severity:   analyzer.Medium,
			Message:    stmt.Keyword() + " cannot run inside a transaction, so the script commits separately from its ledger row",
			Suggestion: "Attach databases from a callback migration or at open time",
		}}
	default:
		return nil
	}
}
