package ddl

import "fmt"

// IndexBuilder produces a CREATE INDEX statement.
type IndexBuilder struct {
	name        string
	table       string
	columns     []string
	unique      bool
	ifNotExists bool
}

// CreateIndex starts a CREATE INDEX IF NOT EXISTS statement over cols, in order.
func CreateIndex(name, table string, cols ...string) *IndexBuilder {
	return &IndexBuilder{name: name, table: table, columns: cols, ifNotExists: true}
}

// Unique makes the index UNIQUE.
func (b *IndexBuilder) Unique() *IndexBuilder {
	b.unique = true
	return b
}

// IfNotExists toggles the IF NOT EXISTS clause.
func (b *IndexBuilder) IfNotExists(on bool) *IndexBuilder {
	b.ifNotExists = on
	return b
}

// Build returns the CREATE INDEX statement.
func (b *IndexBuilder) Build() (string, error) {
	if len(b.columns) == 0 {
		return "", fmt.Errorf("index %q: %w", b.name, ErrNoColumns)
	}

	stmt := "CREATE "
	if b.unique {
		stmt += "UNIQUE "
	}

	stmt += "INDEX "
	if b.ifNotExists {
		stmt += "IF NOT EXISTS "
	}

	return stmt + Quote(b.name) + " ON " + Quote(b.table) + " (" + quoteList(b.columns) + ");", nil
}

// DropIndexBuilder produces a DROP INDEX statement.
type DropIndexBuilder struct {
	name     string
	ifExists bool
}

// DropIndex starts a DROP INDEX IF EXISTS statement.
func DropIndex(name string) *DropIndexBuilder {
	return &DropIndexBuilder{name: name, ifExists: true}
}

// IfExists toggles the IF EXISTS clause.
func (b *DropIndexBuilder) IfExists(on bool) *DropIndexBuilder {
	b.ifExists = on
	return b
}

// Build returns the DROP INDEX statement.
func (b *DropIndexBuilder) Build() string {
	if b.ifExists {
		return "DROP INDEX IF EXISTS " + Quote(b.name) + ";"
	}

	return "DROP INDEX " + Quote(b.name) + ";"
}
