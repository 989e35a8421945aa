package analyzer

import "github.com/aqasim81/scriptdb/internal/migration"

// StatementDisplayLen is how much statement text a finding carries.
const StatementDisplayLen = 80

// Finding represents a single risky pattern detected in a migration script.
type Finding struct {
	// Rule is the rule ID, e.g. "drop-table".
	Rule     string   `json:"rule"`
	Severity Severity `json:"severity"`
	// Table is the affected table, index, view or trigger name, if known.
	Table string `json:"table,omitempty"`
	// Statement is the statement text, truncated for display.
	Statement  string `json:"statement"`
	Message    string `json:"message"`
	Suggestion string `json:"suggestion"`
	// StmtIndex is the statement's index in the script (0-based).
	StmtIndex int `json:"stmt_index"`
}

// AnalysisResult holds all findings for a single migration.
type AnalysisResult struct {
	Migration   *migration.Migration
	Findings    []Finding
	MaxSeverity Severity // Highest severity across all findings
}

// HasHighOrCritical returns true if any finding is High or Critical severity.
func (r *AnalysisResult) HasHighOrCritical() bool {
	return r.MaxSeverity >= High
}

// TruncateSQL truncates a SQL string to maxLen bytes for display.
func TruncateSQL(sql string, maxLen int) string {
	if len(sql) <= maxLen {
		return sql
	}

	if maxLen < 4 { //nolint:mnd // no room for "..."
		return sql
	}

	return sql[:maxLen-3] + "..."
}
