package ddl

import (
	"fmt"
	"strings"
)

// Column describes one column definition.
type Column struct {
	Name       string
	Kind       Kind
	NotNull    bool
	Unique     bool
	HasDefault bool
	Default    any
	Ref        *Reference
	PrimaryKey bool

	// autoIncrement is nil when not requested explicitly.
	autoIncrement *bool
}

// Reference is a foreign-key target.
type Reference struct {
	Table  string
	Column string
}

// ColumnOption configures a Column.
type ColumnOption func(*Column)

// NotNull adds a NOT NULL constraint.
func NotNull() ColumnOption {
	return func(c *Column) { c.NotNull = true }
}

// Unique adds a column-level UNIQUE constraint.
func Unique() ColumnOption {
	return func(c *Column) { c.Unique = true }
}

// Default sets the column default. v is rendered with Literal.
func Default(v any) ColumnOption {
	return func(c *Column) {
		c.HasDefault = true
		c.Default = v
	}
}

// References adds a REFERENCES "table"("column") clause.
func References(table, column string) ColumnOption {
	return func(c *Column) { c.Ref = &Reference{Table: table, Column: column} }
}

// AutoIncrement controls AUTOINCREMENT on a primary key. Integer primary
// keys default to true.
func AutoIncrement(on bool) ColumnOption {
	return func(c *Column) { c.autoIncrement = &on }
}

func newColumn(name string, kind Kind, opts []ColumnOption) Column {
	c := Column{Name: name, Kind: kind}
	for _, opt := range opts {
		opt(&c)
	}

	return c
}

// autoIncrementOn resolves the AUTOINCREMENT flag, rejecting it on anything
// other than an integer primary key.
func (c *Column) autoIncrementOn() (bool, error) {
	if c.autoIncrement == nil {
		return c.PrimaryKey && c.Kind == Integer, nil
	}

	if !*c.autoIncrement {
		return false, nil
	}

	if !c.PrimaryKey || c.Kind != Integer {
		return false, fmt.Errorf("%w: column %q is %s", ErrAutoIncrement, c.Name, c.Kind)
	}

	return true, nil
}

// render returns the column definition text.
func (c *Column) render() (string, error) {
	affinity, err := c.Kind.Affinity()
	if err != nil {
		return "", fmt.Errorf("column %q: %w", c.Name, err)
	}

	auto, err := c.autoIncrementOn()
	if err != nil {
		return "", err
	}

	var sb strings.Builder

	sb.WriteString(Quote(c.Name))
	sb.WriteString(" ")
	sb.WriteString(affinity)

	if c.PrimaryKey {
		sb.WriteString(" PRIMARY KEY")

		if auto {
			sb.WriteString(" AUTOINCREMENT")
		}
	}

	if c.NotNull {
		sb.WriteString(" NOT NULL")
	}

	if c.Unique {
		sb.WriteString(" UNIQUE")
	}

	if c.HasDefault {
		lit, err := Literal(c.Default)
		if err != nil {
			return "", fmt.Errorf("column %q default: %w", c.Name, err)
		}

		sb.WriteString(" DEFAULT ")
		sb.WriteString(lit)
	}

	if c.Ref != nil {
		fmt.Fprintf(&sb, " REFERENCES %s(%s)", Quote(c.Ref.Table), Quote(c.Ref.Column))
	}

	return sb.String(), nil
}
