package ddl

import (
	"fmt"
	"strings"
)

// AlterBuilder accumulates ALTER TABLE actions. SQLite accepts one action
// per statement, so each action becomes its own statement.
type AlterBuilder struct {
	table      string
	current    string
	statements []string
	err        error
}

// AlterTable starts an ALTER TABLE script for table.
func AlterTable(table string) *AlterBuilder {
	return &AlterBuilder{table: table, current: table}
}

func (b *AlterBuilder) add(action string) *AlterBuilder {
	b.statements = append(b.statements, "ALTER TABLE "+Quote(b.current)+" "+action+";")
	return b
}

// AddColumn appends an ADD COLUMN action.
func (b *AlterBuilder) AddColumn(name string, kind Kind, opts ...ColumnOption) *AlterBuilder {
	if b.err != nil {
		return b
	}

	c := newColumn(name, kind, opts)

	def, err := c.render()
	if err != nil {
		b.err = fmt.Errorf("alter %q: %w", b.table, err)
		return b
	}

	return b.add("ADD COLUMN " + def)
}

// DropColumn appends a DROP COLUMN action.
func (b *AlterBuilder) DropColumn(name string) *AlterBuilder {
	if b.err != nil {
		return b
	}

	return b.add("DROP COLUMN " + Quote(name))
}

// RenameColumn appends a RENAME COLUMN action.
func (b *AlterBuilder) RenameColumn(from, to string) *AlterBuilder {
	if b.err != nil {
		return b
	}

	return b.add("RENAME COLUMN " + Quote(from) + " TO " + Quote(to))
}

// RenameTo appends a RENAME TO action. Later actions target the new name.
func (b *AlterBuilder) RenameTo(name string) *AlterBuilder {
	if b.err != nil {
		return b
	}

	b.add("RENAME TO " + Quote(name))
	b.current = name

	return b
}

// Build returns the statements joined by newlines.
func (b *AlterBuilder) Build() (string, error) {
	if b.err != nil {
		return "", b.err
	}

	if len(b.statements) == 0 {
		return "", fmt.Errorf("alter %q: %w", b.table, ErrNoActions)
	}

	return strings.Join(b.statements, "\n"), nil
}
