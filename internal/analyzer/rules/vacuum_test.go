package rules_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aqasim81/scriptdb/internal/analyzer"
	"github.com/aqasim81/scriptdb/internal/analyzer/rules"
	"github.com/aqasim81/scriptdb/internal/parser"
)

func TestVacuumRule_ID(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "vacuum", rules.NewVacuumRule().ID())
}

func TestVacuumRule_Check(t *testing.T) {
	t.Parallel()

	runRuleCases(t, rules.NewVacuumRule(), []ruleCase{
		{name: "VACUUM is MEDIUM", sql: "VACUUM;", wantCount: 1, wantSeverity: analyzer.Medium},
		{name: "VACUUM INTO is MEDIUM", sql: "VACUUM INTO 'backup.db';", wantCount: 1, wantSeverity: analyzer.Medium},
		{name: "ANALYZE is not flagged", sql: "ANALYZE;", wantCount: 0},
	})
}

func TestVacuumRule_Check_intoMessage(t *testing.T) {
	t.Parallel()

	result, err := parser.Parse("VACUUM INTO 'backup.db'")
	require.NoError(t, err)

	findings := rules.NewVacuumRule().Check(result.Stmts[0], &analyzer.RuleContext{})
	require.Len(t, findings, 1)
	assert.Contains(t, findings[0].Message, "VACUUM INTO")
}
