package scriptdb

import (
	"context"
	"io/fs"

	"github.com/aqasim81/scriptdb/internal/executor"
	"github.com/aqasim81/scriptdb/internal/migration"
	"github.com/aqasim81/scriptdb/internal/tracker"
)

// Migration is a named, run-once schema or data change.
type Migration = migration.Migration

// Conn is the handle a callback migration receives. During a transactional
// migration it is the transaction.
type Conn = migration.Conn

// ProgressEvent reports one migration being skipped, started, completed, or failed.
type ProgressEvent = executor.ProgressEvent

// AppliedMigration is a row of the applied_migrations ledger.
type AppliedMigration = tracker.AppliedMigration

// Script returns a migration that executes sqlText as one multi-statement script.
func Script(name, sqlText string) Migration {
	return migration.Script(name, sqlText)
}

// Callback returns a migration that calls fn with the connection.
func Callback(name string, fn func(ctx context.Context, conn Conn) error) Migration {
	return migration.Callback(name, fn)
}

// LoadMigrations reads every *.sql file in dir as a script migration named
// after the file, sorted by name.
func LoadMigrations(dir string) ([]Migration, error) {
	return migration.LoadFromDir(dir)
}

// LoadMigrationsFS is LoadMigrations over an fs.FS such as an embed.FS.
func LoadMigrationsFS(fsys fs.FS) ([]Migration, error) {
	return migration.LoadFromFS(fsys)
}
