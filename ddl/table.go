package ddl

import (
	"fmt"
	"strings"
)

// TableBuilder accumulates a CREATE TABLE statement. Errors are sticky: the
// first one is kept and returned by Build, and nothing is emitted.
type TableBuilder struct {
	name         string
	ifNotExists  bool
	withoutRowID bool
	columns      []Column
	constraints  []string
	hasPK        bool
	err          error
}

// CreateTable starts a CREATE TABLE IF NOT EXISTS statement for name.
func CreateTable(name string) *TableBuilder {
	return &TableBuilder{name: name, ifNotExists: true}
}

// IfNotExists toggles the IF NOT EXISTS clause.
func (b *TableBuilder) IfNotExists(on bool) *TableBuilder {
	b.ifNotExists = on
	return b
}

// WithoutRowID appends the WITHOUT ROWID table option.
func (b *TableBuilder) WithoutRowID() *TableBuilder {
	b.withoutRowID = true
	return b
}

// PrimaryKey adds the primary key column. Integer keys get AUTOINCREMENT
// unless AutoIncrement(false) is passed; requesting it on any other kind
// is an error.
func (b *TableBuilder) PrimaryKey(name string, kind Kind, opts ...ColumnOption) *TableBuilder {
	if b.err != nil {
		return b
	}

	if b.hasPK {
		b.err = fmt.Errorf("table %q: %w", b.name, ErrDuplicatePrimaryKey)
		return b
	}

	c := newColumn(name, kind, opts)
	c.PrimaryKey = true

	if err := b.check(&c); err != nil {
		return b
	}

	b.hasPK = true
	b.columns = append(b.columns, c)

	return b
}

// AddField adds a regular column.
func (b *TableBuilder) AddField(name string, kind Kind, opts ...ColumnOption) *TableBuilder {
	if b.err != nil {
		return b
	}

	c := newColumn(name, kind, opts)
	if err := b.check(&c); err != nil {
		return b
	}

	b.columns = append(b.columns, c)

	return b
}

// Unique adds a table-level UNIQUE constraint over cols.
func (b *TableBuilder) Unique(cols ...string) *TableBuilder {
	if b.err != nil {
		return b
	}

	if len(cols) == 0 {
		b.err = fmt.Errorf("table %q unique constraint: %w", b.name, ErrNoColumns)
		return b
	}

	b.constraints = append(b.constraints, "UNIQUE ("+quoteList(cols)+")")

	return b
}

// Check adds a CHECK constraint. expr is emitted verbatim.
func (b *TableBuilder) Check(expr string) *TableBuilder {
	if b.err != nil {
		return b
	}

	b.constraints = append(b.constraints, "CHECK ("+expr+")")

	return b
}

// check validates a column as soon as it is declared so that errors surface
// before any text is produced.
func (b *TableBuilder) check(c *Column) error {
	if _, err := c.render(); err != nil {
		b.err = fmt.Errorf("table %q: %w", b.name, err)
		return b.err
	}

	return nil
}

// Err returns the first error recorded by the builder.
func (b *TableBuilder) Err() error {
	return b.err
}

// Build returns the CREATE TABLE statement.
func (b *TableBuilder) Build() (string, error) {
	if b.err != nil {
		return "", b.err
	}

	if len(b.columns) == 0 {
		return "", fmt.Errorf("table %q: %w", b.name, ErrNoColumns)
	}

	parts := make([]string, 0, len(b.columns)+len(b.constraints))

	for i := range b.columns {
		def, err := b.columns[i].render()
		if err != nil {
			return "", fmt.Errorf("table %q: %w", b.name, err)
		}

		parts = append(parts, def)
	}

	parts = append(parts, b.constraints...)

	var sb strings.Builder

	sb.WriteString("CREATE TABLE ")

	if b.ifNotExists {
		sb.WriteString("IF NOT EXISTS ")
	}

	sb.WriteString(Quote(b.name))
	sb.WriteString(" (")
	sb.WriteString(strings.Join(parts, ", "))
	sb.WriteString(")")

	if b.withoutRowID {
		sb.WriteString(" WITHOUT ROWID")
	}

	sb.WriteString(";")

	return sb.String(), nil
}

// MustBuild is like Build but panics on error. Intended for package-level
// schema declarations whose definitions are fixed at compile time.
func (b *TableBuilder) MustBuild() string {
	s, err := b.Build()
	if err != nil {
		panic(err)
	}

	return s
}

// DropTableBuilder produces a DROP TABLE statement.
type DropTableBuilder struct {
	name     string
	ifExists bool
}

// DropTable starts a DROP TABLE IF EXISTS statement.
func DropTable(name string) *DropTableBuilder {
	return &DropTableBuilder{name: name, ifExists: true}
}

// IfExists toggles the IF EXISTS clause.
func (b *DropTableBuilder) IfExists(on bool) *DropTableBuilder {
	b.ifExists = on
	return b
}

// Build returns the DROP TABLE statement.
func (b *DropTableBuilder) Build() string {
	if b.ifExists {
		return "DROP TABLE IF EXISTS " + Quote(b.name) + ";"
	}

	return "DROP TABLE " + Quote(b.name) + ";"
}
