package cli

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aqasim81/scriptdb/internal/analyzer"
	"github.com/aqasim81/scriptdb/internal/config"
	"github.com/aqasim81/scriptdb/internal/migration"
)

// setupAnalyzeConfig points AppConfig at migrationsDir for the duration of the test.
func setupAnalyzeConfig(t *testing.T, migrationsDir string) {
	t.Helper()

	cfg := config.New()
	cfg.MigrationsDir = migrationsDir
	setupTestConfig(t, cfg)
}

// newAnalyzeCmd creates a fresh cobra.Command wired to runAnalyze with a captured output buffer.
func newAnalyzeCmd(t *testing.T) (*cobra.Command, *bytes.Buffer) {
	t.Helper()

	buf := new(bytes.Buffer)
	cmd := &cobra.Command{
		Use:  "analyze [migration-dir]",
		RunE: runAnalyze,
	}
	cmd.Flags().String("format", "text", "output format (text, json)")
	cmd.Flags().Bool("fail-on-high", false, "exit with non-zero code if high/critical findings exist")
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs([]string{})

	return cmd, buf
}

func named(name string) *migration.Migration {
	m := migration.Script(name, "SELECT 1;")
	return &m
}

func TestCountMigrationsWithFindings(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		results  []analyzer.AnalysisResult
		expected int
	}{
		{
			name:     "empty results",
			results:  nil,
			expected: 0,
		},
		{
			name: "no findings",
			results: []analyzer.AnalysisResult{
				{Migration: named("001"), Findings: nil},
			},
			expected: 0,
		},
		{
			name: "one with findings",
			results: []analyzer.AnalysisResult{
				{Migration: named("001"), Findings: nil},
				{Migration: named("002"), Findings: []analyzer.Finding{{Rule: "test"}}},
			},
			expected: 1,
		},
		{
			name: "all with findings",
			results: []analyzer.AnalysisResult{
				{Migration: named("001"), Findings: []analyzer.Finding{{Rule: "a"}}},
				{Migration: named("002"), Findings: []analyzer.Finding{{Rule: "b"}}},
			},
			expected: 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expected, countMigrationsWithFindings(tt.results))
		})
	}
}

func TestPrintAnalysisResults_noFindings_printsNoDangers(t *testing.T) {
	t.Parallel()

	buf := new(bytes.Buffer)
	cmd := &cobra.Command{}
	cmd.SetOut(buf)

	results := []analyzer.AnalysisResult{
		{Migration: named("001_safe"), Findings: nil},
	}

	hasHigh := printAnalysisResults(cmd, results)
	assert.False(t, hasHigh)
	assert.Contains(t, buf.String(), "No dangerous operations detected.")
}

func TestPrintAnalysisResults_withFindings_formatsOutput(t *testing.T) {
	t.Parallel()

	buf := new(bytes.Buffer)
	cmd := &cobra.Command{}
	cmd.SetOut(buf)

	results := []analyzer.AnalysisResult{
		{
			Migration:   named("001_dangerous"),
			MaxSeverity: analyzer.High,
			Findings: []analyzer.Finding{
				{
					Rule:       "drop-column",
					Severity:   analyzer.High,
					Table:      "users",
					Statement:  "ALTER TABLE users DROP COLUMN email",
					Message:    "DROP COLUMN deletes data",
					Suggestion: "Check application code first",
				},
			},
		},
	}

	hasHigh := printAnalysisResults(cmd, results)
	assert.True(t, hasHigh)

	output := buf.String()
	assert.Contains(t, output, "=== 001_dangerous ===")
	assert.Contains(t, output, "[HIGH]")
	assert.Contains(t, output, "Table: users")
	assert.Contains(t, output, "Rule:  drop-column")
	assert.Contains(t, output, "SQL:   ALTER TABLE users DROP COLUMN email")
	assert.Contains(t, output, "Fix:   Check application code first")
	assert.Contains(t, output, "Found 1 finding(s) across 1 migration(s).")
}

func TestPrintAnalysisResults_lowSeverityOnly_returnsFalse(t *testing.T) {
	t.Parallel()

	buf := new(bytes.Buffer)
	cmd := &cobra.Command{}
	cmd.SetOut(buf)

	results := []analyzer.AnalysisResult{
		{
			Migration:   named("001_mild"),
			MaxSeverity: analyzer.Low,
			Findings: []analyzer.Finding{
				{Rule: "test-rule", Severity: analyzer.Low, Message: "minor concern"},
			},
		},
	}

	hasHigh := printAnalysisResults(cmd, results)
	assert.False(t, hasHigh)
	assert.Contains(t, buf.String(), "Found 1 finding(s)")
	assert.NotContains(t, buf.String(), "Table:")
}

func TestPrintAnalysisResults_noStatement_skipsSQL(t *testing.T) {
	t.Parallel()

	buf := new(bytes.Buffer)
	cmd := &cobra.Command{}
	cmd.SetOut(buf)

	results := []analyzer.AnalysisResult{
		{
			Migration:   named("001_test"),
			MaxSeverity: analyzer.Medium,
			Findings: []analyzer.Finding{
				{Rule: "test-rule", Severity: analyzer.Medium, Message: "test", Statement: ""},
			},
		},
	}

	printAnalysisResults(cmd, results)
	assert.NotContains(t, buf.String(), "SQL:")
}

func TestRunAnalyze_withTestdata_producesOutput(t *testing.T) { //nolint:paralleltest // writes global AppConfig
	dir := filepath.Join("testdata", "migrations")
	setupAnalyzeConfig(t, dir)

	cmd, buf := newAnalyzeCmd(t)
	cmd.SetArgs([]string{dir})

	err := cmd.Execute()
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "finding(s)")
	assert.Contains(t, buf.String(), "[CRITICAL]")
}

func TestRunAnalyze_json_encodesEveryMigration(t *testing.T) { //nolint:paralleltest // writes global AppConfig
	dir := filepath.Join("testdata", "migrations")
	setupAnalyzeConfig(t, dir)

	cmd, buf := newAnalyzeCmd(t)
	cmd.SetArgs([]string{"--format", "json", dir})

	require.NoError(t, cmd.Execute())

	var reports []struct {
		Migration   string `json:"migration"`
		MaxSeverity string `json:"max_severity"`
		Findings    []struct {
			Rule string `json:"rule"`
		} `json:"findings"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &reports))
	require.Len(t, reports, 2)

	assert.Equal(t, "001_create_users", reports[0].Migration)
	assert.Equal(t, "SAFE", reports[0].MaxSeverity)
	assert.Empty(t, reports[0].Findings)

	assert.Equal(t, "002_drop_legacy", reports[1].Migration)
	assert.Equal(t, "CRITICAL", reports[1].MaxSeverity)
	require.Len(t, reports[1].Findings, 1)
	assert.Equal(t, "drop-table", reports[1].Findings[0].Rule)
}

func TestRunAnalyze_emptyDir_printsNoMigrations(t *testing.T) { //nolint:paralleltest // writes global AppConfig
	dir := t.TempDir()
	setupAnalyzeConfig(t, dir)

	cmd, buf := newAnalyzeCmd(t)
	cmd.SetArgs([]string{dir})

	err := cmd.Execute()
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "No migration files found.")
}

func TestRunAnalyze_invalidDir_returnsError(t *testing.T) { //nolint:paralleltest // writes global AppConfig
	dir := "/nonexistent/path/to/migrations"
	setupAnalyzeConfig(t, dir)

	cmd, _ := newAnalyzeCmd(t)
	cmd.SetArgs([]string{dir})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "loading migrations")
}

func TestRunAnalyze_failOnHigh_returnsError(t *testing.T) { //nolint:paralleltest // writes global AppConfig
	dir := filepath.Join("testdata", "migrations")
	setupAnalyzeConfig(t, dir)

	cmd, _ := newAnalyzeCmd(t)
	cmd.SetArgs([]string{"--fail-on-high", dir})

	err := cmd.Execute()
	require.Error(t, err)
	assert.ErrorIs(t, err, errHighSeverityFindings)
}

func TestRunAnalyze_usesConfigDir_whenNoArgs(t *testing.T) { //nolint:paralleltest // writes global AppConfig
	dir := filepath.Join("testdata", "migrations")
	setupAnalyzeConfig(t, dir)

	cmd, buf := newAnalyzeCmd(t)

	err := cmd.Execute()
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "finding(s)")
}
