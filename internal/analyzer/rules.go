package analyzer

import (
	"github.com/aqasim81/scriptdb/internal/migration"
	"github.com/aqasim81/scriptdb/internal/parser"
)

// Rule is the interface that all rules must implement.
type Rule interface {
	// ID returns a unique kebab-case identifier for this rule.
	ID() string
	// Check examines a single statement and returns any findings.
	Check(stmt parser.Statement, ctx *RuleContext) []Finding
}

// RuleContext provides contextual information to rules during analysis.
type RuleContext struct {
	Migration *migration.Migration
	StmtIndex int
}

// Registry holds a collection of rules.
type Registry struct {
	rules []Rule
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// Register adds a rule to the registry.
func (r *Registry) Register(rule Rule) {
	r.rules = append(r.rules, rule)
}

// Rules returns all registered rules.
func (r *Registry) Rules() []Rule {
	return r.rules
}
