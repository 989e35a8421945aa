// Package schemafile reads YAML table descriptions and compiles them to
// SQLite DDL through the ddl package.
package schemafile

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/aqasim81/scriptdb/ddl"
)

// File is a parsed schema file.
type File struct {
	Tables []Table `yaml:"tables"`
}

// Table describes one table and its indexes.
type Table struct {
	Name         string     `yaml:"name"`
	IfNotExists  *bool      `yaml:"if_not_exists"`
	WithoutRowID bool       `yaml:"without_rowid"`
	PrimaryKey   *Column    `yaml:"primary_key"`
	Columns      []Column   `yaml:"columns"`
	Unique       [][]string `yaml:"unique"`
	Checks       []string   `yaml:"checks"`
	Indexes      []Index    `yaml:"indexes"`
}

// Column describes one column. References is written "table.column".
type Column struct {
	Name          string `yaml:"name"`
	Kind          string `yaml:"kind"`
	NotNull       bool   `yaml:"not_null"`
	Unique        bool   `yaml:"unique"`
	Default       any    `yaml:"default"`
	DefaultExpr   string `yaml:"default_expr"`
	References    string `yaml:"references"`
	AutoIncrement *bool  `yaml:"autoincrement"`
}

// Index describes a secondary index on its table.
type Index struct {
	Name    string   `yaml:"name"`
	Columns []string `yaml:"columns"`
	Unique  bool     `yaml:"unique"`
}

// Load reads and parses a schema file from disk.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading schema file %s: %w", path, err)
	}

	f, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("schema file %s: %w", path, err)
	}

	return f, nil
}

// Parse decodes a schema document.
func Parse(data []byte) (*File, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing schema: %w", err)
	}

	if len(f.Tables) == 0 {
		return nil, fmt.Errorf("%w: no tables", ErrInvalidFile)
	}

	return &f, nil
}

// Statements compiles every table, then its indexes, in file order.
func (f *File) Statements() ([]string, error) {
	var stmts []string

	for i := range f.Tables {
		t := &f.Tables[i]

		create, err := t.build()
		if err != nil {
			return nil, fmt.Errorf("table %q: %w", t.Name, err)
		}

		stmts = append(stmts, create)

		for _, idx := range t.Indexes {
			b := ddl.CreateIndex(idx.Name, t.Name, idx.Columns...)
			if idx.Unique {
				b.Unique()
			}

			s, err := b.Build()
			if err != nil {
				return nil, fmt.Errorf("index %q on %q: %w", idx.Name, t.Name, err)
			}

			stmts = append(stmts, s)
		}
	}

	return stmts, nil
}

// Script joins Statements into one migration script.
func (f *File) Script() (string, error) {
	stmts, err := f.Statements()
	if err != nil {
		return "", err
	}

	return strings.Join(stmts, "\n"), nil
}

func (t *Table) build() (string, error) {
	if strings.TrimSpace(t.Name) == "" {
		return "", fmt.Errorf("%w: table without a name", ErrInvalidFile)
	}

	b := ddl.CreateTable(t.Name)
	if t.IfNotExists != nil {
		b.IfNotExists(*t.IfNotExists)
	}

	if t.WithoutRowID {
		b.WithoutRowID()
	}

	if t.PrimaryKey != nil {
		kind, opts, err := t.PrimaryKey.options()
		if err != nil {
			return "", err
		}

		b.PrimaryKey(t.PrimaryKey.Name, kind, opts...)
	}

	for i := range t.Columns {
		kind, opts, err := t.Columns[i].options()
		if err != nil {
			return "", err
		}

		b.AddField(t.Columns[i].Name, kind, opts...)
	}

	for _, cols := range t.Unique {
		b.Unique(cols...)
	}

	for _, expr := range t.Checks {
		b.Check(expr)
	}

	return b.Build()
}

func (c *Column) options() (ddl.Kind, []ddl.ColumnOption, error) {
	if strings.TrimSpace(c.Name) == "" {
		return 0, nil, fmt.Errorf("%w: column without a name", ErrInvalidFile)
	}

	kind, err := ddl.ParseKind(c.Kind)
	if err != nil {
		return 0, nil, fmt.Errorf("column %q: %w", c.Name, err)
	}

	var opts []ddl.ColumnOption

	if c.NotNull {
		opts = append(opts, ddl.NotNull())
	}

	if c.Unique {
		opts = append(opts, ddl.Unique())
	}

	switch {
	case c.DefaultExpr != "" && c.Default != nil:
		return 0, nil, fmt.Errorf("%w: column %q sets both default and default_expr", ErrInvalidFile, c.Name)
	case c.DefaultExpr != "":
		opts = append(opts, ddl.Default(ddl.Expr(c.DefaultExpr)))
	case c.Default != nil:
		opts = append(opts, ddl.Default(c.Default))
	}

	if c.References != "" {
		i := strings.LastIndex(c.References, ".")
		if i <= 0 || i == len(c.References)-1 {
			return 0, nil, fmt.Errorf("%w: column %q references %q, want table.column", ErrInvalidFile, c.Name, c.References)
		}

		opts = append(opts, ddl.References(c.References[:i], c.References[i+1:]))
	}

	if c.AutoIncrement != nil {
		opts = append(opts, ddl.AutoIncrement(*c.AutoIncrement))
	}

	return kind, opts, nil
}
