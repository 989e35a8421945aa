package analyzer

import (
	"fmt"

	"github.com/aqasim81/scriptdb/internal/migration"
	"github.com/aqasim81/scriptdb/internal/parser"
)

// Option configures the Analyzer.
type Option func(*Analyzer)

// Analyzer runs registered rules against the statements of script migrations.
type Analyzer struct {
	registry *Registry
	parseFn  func(string) (*parser.ParseResult, error)
}

// New creates a new Analyzer with the given options.
func New(opts ...Option) *Analyzer {
	a := &Analyzer{
		registry: NewRegistry(),
		parseFn:  parser.Parse,
	}

	for _, opt := range opts {
		opt(a)
	}

	return a
}

// WithRegistry sets a custom rule registry.
func WithRegistry(r *Registry) Option {
	return func(a *Analyzer) { a.registry = r }
}

// WithParser overrides the SQL parser function (useful for testing).
func WithParser(fn func(string) (*parser.ParseResult, error)) Option {
	return func(a *Analyzer) { a.parseFn = fn }
}

// Analyze parses and analyzes a single migration, returning all findings.
// Callback migrations have no SQL to inspect and yield an empty result.
func (a *Analyzer) Analyze(m *migration.Migration) (*AnalysisResult, error) {
	text, ok := m.ScriptText()
	if !ok {
		return &AnalysisResult{Migration: m, MaxSeverity: Safe}, nil
	}

	result, err := a.parseFn(text)
	if err != nil {
		return nil, fmt.Errorf("parsing migration %s: %w", m.Name, err)
	}

	var findings []Finding

	maxSeverity := Safe

	for i, stmt := range result.Stmts {
		ctx := &RuleContext{
			Migration: m,
			StmtIndex: i,
		}

		for _, rule := range a.registry.Rules() {
			fs := rule.Check(stmt, ctx)
			for j := range fs {
				fs[j].StmtIndex = i
				if fs[j].Statement == "" {
					fs[j].Statement = TruncateSQL(stmt.Text, StatementDisplayLen)
				}

				if fs[j].Severity > maxSeverity {
					maxSeverity = fs[j].Severity
				}
			}

			findings = append(findings, fs...)
		}
	}

	return &AnalysisResult{
		Migration:   m,
		Findings:    findings,
		MaxSeverity: maxSeverity,
	}, nil
}

// AnalyzeAll analyzes multiple migrations and returns results for each.
func (a *Analyzer) AnalyzeAll(migrations []migration.Migration) ([]AnalysisResult, error) {
	results := make([]AnalysisResult, 0, len(migrations))

	for i := range migrations {
		r, err := a.Analyze(&migrations[i])
		if err != nil {
			return nil, fmt.Errorf("migration %s: %w", migrations[i].Name, err)
		}

		results = append(results, *r)
	}

	return results, nil
}
