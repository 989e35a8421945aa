package rules_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/aqasim81/scriptdb/internal/analyzer"
	"github.com/aqasim81/scriptdb/internal/analyzer/rules"
)

func TestRenameRule_ID(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "rename", rules.NewRenameRule().ID())
}

func TestRenameRule_Check(t *testing.T) {
	t.Parallel()

	runRuleCases(t, rules.NewRenameRule(), []ruleCase{
		{name: "RENAME TO is MEDIUM", sql: "ALTER TABLE users RENAME TO members;", wantCount: 1, wantSeverity: analyzer.Medium, wantTable: "users"},
		{name: "RENAME COLUMN is MEDIUM", sql: "ALTER TABLE users RENAME COLUMN name TO full_name;", wantCount: 1, wantSeverity: analyzer.Medium, wantTable: "users"},
		{name: "RENAME without COLUMN keyword is MEDIUM", sql: "ALTER TABLE users RENAME name TO full_name;", wantCount: 1, wantSeverity: analyzer.Medium},
		{name: "ADD COLUMN is not flagged", sql: "ALTER TABLE users ADD COLUMN bio TEXT;", wantCount: 0},
		{name: "SELECT is not flagged", sql: "SELECT * FROM users;", wantCount: 0},
	})
}
