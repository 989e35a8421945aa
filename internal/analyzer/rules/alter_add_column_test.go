package rules_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/aqasim81/scriptdb/internal/analyzer"
	"github.com/aqasim81/scriptdb/internal/analyzer/rules"
)

func TestAddColumnRule_ID(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "add-column-constraint", rules.NewAddColumnRule().ID())
}

func TestAddColumnRule_Check(t *testing.T) {
	t.Parallel()

	runRuleCases(t, rules.NewAddColumnRule(), []ruleCase{
		{
			name:         "NOT NULL without DEFAULT is HIGH",
			sql:          "ALTER TABLE users ADD COLUMN status TEXT NOT NULL;",
			wantCount:    1,
			wantSeverity: analyzer.High,
			wantTable:    "users",
		},
		{
			name:      "NOT NULL with constant DEFAULT is safe",
			sql:       "ALTER TABLE users ADD COLUMN status TEXT NOT NULL DEFAULT 'active';",
			wantCount: 0,
		},
		{
			name:         "CURRENT_TIMESTAMP default is HIGH",
			sql:          "ALTER TABLE users ADD COLUMN created_at TEXT DEFAULT CURRENT_TIMESTAMP;",
			wantCount:    1,
			wantSeverity: analyzer.High,
		},
		{
			name:         "expression default is HIGH",
			sql:          "ALTER TABLE users ADD COLUMN created_at INTEGER DEFAULT (strftime('%s','now'));",
			wantCount:    1,
			wantSeverity: analyzer.High,
		},
		{
			name:         "UNIQUE column is HIGH",
			sql:          "ALTER TABLE users ADD email TEXT UNIQUE;",
			wantCount:    1,
			wantSeverity: analyzer.High,
		},
		{
			name:      "column named like a keyword is safe",
			sql:       "ALTER TABLE users ADD COLUMN unique_code TEXT;",
			wantCount: 0,
		},
		{
			name:      "no constraints is safe",
			sql:       "ALTER TABLE users ADD COLUMN bio TEXT;",
			wantCount: 0,
		},
		{
			name:      "ADD CONSTRAINT is left to another rule",
			sql:       "ALTER TABLE users ADD CONSTRAINT chk CHECK (age > 0);",
			wantCount: 0,
		},
		{
			name:      "non-ALTER statement ignored",
			sql:       "CREATE TABLE users (id INT NOT NULL);",
			wantCount: 0,
		},
	})
}
