package cli

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aqasim81/scriptdb/internal/analyzer"
	"github.com/aqasim81/scriptdb/internal/analyzer/rules"
	"github.com/aqasim81/scriptdb/internal/migration"
)

var analyzeCmd = &cobra.Command{ //nolint:gochecknoglobals // standard Cobra pattern
	Use:   "analyze [migration-dir]",
	Short: "Analyze migrations for unsafe statements",
	Long: `Analyze SQL migration files for statements that cannot be re-run
after a partial apply, destroy data, or are rejected by SQLite. Reports
findings with severity levels and suggests safer alternatives.`,
	RunE: runAnalyze,
}

func init() { //nolint:gochecknoinits // standard Cobra pattern for flag registration
	analyzeCmd.Flags().String("format", "text", "output format (text, json)")
	analyzeCmd.Flags().Bool("fail-on-high", false, "exit with non-zero code if high/critical findings exist")
	rootCmd.AddCommand(analyzeCmd)
}

// errHighSeverityFindings is returned when --fail-on-high is set and high/critical findings exist.
var errHighSeverityFindings = errors.New("high or critical severity findings detected")

// analysisReport is the JSON shape of one migration's findings.
type analysisReport struct {
	Migration   string             `json:"migration"`
	MaxSeverity analyzer.Severity  `json:"max_severity"`
	Findings    []analyzer.Finding `json:"findings"`
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	dir := AppConfig.MigrationsDir
	if len(args) > 0 {
		dir = args[0]
	}

	format, err := outputFormat(cmd, AppConfig)
	if err != nil {
		return err
	}

	migrations, err := migration.LoadFromDir(dir)
	if err != nil {
		return fmt.Errorf("loading migrations: %w", err)
	}

	if len(migrations) == 0 && format == "text" {
		fmt.Fprintln(cmd.OutOrStdout(), "No migration files found.")
		return nil
	}

	a := analyzer.New(analyzer.WithRegistry(rules.NewDefaultRegistry()))

	results, err := a.AnalyzeAll(migrations)
	if err != nil {
		return fmt.Errorf("analyzing migrations: %w", err)
	}

	var hasHighOrCritical bool

	if format == "json" {
		hasHighOrCritical, err = printAnalysisJSON(cmd, results)
		if err != nil {
			return err
		}
	} else {
		hasHighOrCritical = printAnalysisResults(cmd, results)
	}

	failOnHigh, _ := cmd.Flags().GetBool("fail-on-high")
	if failOnHigh && hasHighOrCritical {
		return errHighSeverityFindings
	}

	return nil
}

func printAnalysisResults(cmd *cobra.Command, results []analyzer.AnalysisResult) bool {
	out := cmd.OutOrStdout()
	totalFindings := 0
	hasHighOrCritical := false

	for _, r := range results {
		if len(r.Findings) == 0 {
			continue
		}

		fmt.Fprintf(out, "\n=== %s ===\n", r.Migration.Name)

		for _, f := range r.Findings {
			fmt.Fprintf(out, "  [%s] %s\n", f.Severity, f.Message)

			if f.Table != "" {
				fmt.Fprintf(out, "    Table: %s\n", f.Table)
			}

			fmt.Fprintf(out, "    Rule:  %s\n", f.Rule)

			if f.Statement != "" {
				fmt.Fprintf(out, "    SQL:   %s\n", f.Statement)
			}

			fmt.Fprintf(out, "    Fix:   %s\n\n", f.Suggestion)
		}

		totalFindings += len(r.Findings)

		if r.HasHighOrCritical() {
			hasHighOrCritical = true
		}
	}

	if totalFindings == 0 {
		fmt.Fprintln(out, "No dangerous operations detected.")
	} else {
		fmt.Fprintf(out, "Found %d finding(s) across %d migration(s).\n", totalFindings, countMigrationsWithFindings(results))
	}

	return hasHighOrCritical
}

func printAnalysisJSON(cmd *cobra.Command, results []analyzer.AnalysisResult) (bool, error) {
	reports := make([]analysisReport, 0, len(results))
	hasHighOrCritical := false

	for _, r := range results {
		findings := r.Findings
		if findings == nil {
			findings = []analyzer.Finding{}
		}

		reports = append(reports, analysisReport{
			Migration:   r.Migration.Name,
			MaxSeverity: r.MaxSeverity,
			Findings:    findings,
		})

		if r.HasHighOrCritical() {
			hasHighOrCritical = true
		}
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")

	if err := enc.Encode(reports); err != nil {
		return false, fmt.Errorf("encoding findings: %w", err)
	}

	return hasHighOrCritical, nil
}

func countMigrationsWithFindings(results []analyzer.AnalysisResult) int {
	count := 0

	for _, r := range results {
		if len(r.Findings) > 0 {
			count++
		}
	}

	return count
}
