package rules_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/aqasim81/scriptdb/internal/analyzer"
	"github.com/aqasim81/scriptdb/internal/analyzer/rules"
)

func TestDropColumnRule_ID(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "drop-column", rules.NewDropColumnRule().ID())
}

func TestDropColumnRule_Check(t *testing.T) {
	t.Parallel()

	runRuleCases(t, rules.NewDropColumnRule(), []ruleCase{
		{name: "DROP COLUMN is HIGH", sql: "ALTER TABLE users DROP COLUMN email;", wantCount: 1, wantSeverity: analyzer.High, wantTable: "users"},
		{name: "DROP without COLUMN keyword is HIGH", sql: "alter table users drop email;", wantCount: 1, wantSeverity: analyzer.High, wantTable: "users"},
		{name: "DROP CONSTRAINT is left to another rule", sql: "ALTER TABLE users DROP CONSTRAINT fk;", wantCount: 0},
		{name: "ADD COLUMN is not flagged", sql: "ALTER TABLE users ADD COLUMN bio TEXT;", wantCount: 0},
	})
}
