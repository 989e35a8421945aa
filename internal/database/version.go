package database

import (
	"context"
	"database/sql"
	"fmt"

	"golang.org/x/mod/semver"
)

// returningSince is the first SQLite release that understands RETURNING.
const returningSince = "v3.35.0"

// Querier is the read side of *sql.DB and *sql.Tx.
type Querier interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// EngineVersion returns the linked SQLite library version, e.g. "3.46.1".
func EngineVersion(ctx context.Context, q Querier) (string, error) {
	var v string
	if err := q.QueryRowContext(ctx, `SELECT sqlite_version()`).Scan(&v); err != nil {
		return "", fmt.Errorf("reading sqlite version: %w", err)
	}

	return v, nil
}

// SupportsReturning reports whether an engine at version can execute
// INSERT ... RETURNING. Unparseable versions report false.
func SupportsReturning(version string) bool {
	v := "v" + version
	if !semver.IsValid(v) {
		return false
	}

	return semver.Compare(v, returningSince) >= 0
}
