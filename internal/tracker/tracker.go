package tracker

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// AppliedMigration is one row of the applied_migrations ledger.
type AppliedMigration struct {
	Name      string
	AppliedAt time.Time
}

// Execer is satisfied by *sql.DB and *sql.Tx. RecordApplied takes one so the
// ledger row can share a transaction with the migration itself.
type Execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// Tracker manages the applied_migrations table.
type Tracker struct {
	db  *sql.DB
	now func() time.Time
}

// New creates a Tracker backed by db.
func New(db *sql.DB) *Tracker {
	return &Tracker{db: db, now: time.Now}
}

// EnsureTable creates the applied_migrations table if it does not exist.
func (t *Tracker) EnsureTable(ctx context.Context) error {
	if _, err := t.db.ExecContext(ctx, createSchemaSQL); err != nil {
		return fmt.Errorf("%w: %w", ErrTableCreation, err)
	}

	return nil
}

// AppliedNames returns the set of recorded migration names.
func (t *Tracker) AppliedNames(ctx context.Context) (map[string]bool, error) {
	rows, err := t.db.QueryContext(ctx, `SELECT name FROM applied_migrations`)
	if err != nil {
		return nil, fmt.Errorf("querying applied migration names: %w", err)
	}
	defer rows.Close()

	names := make(map[string]bool)

	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scanning migration name: %w", err)
		}

		names[name] = true
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading applied migration names: %w", err)
	}

	return names, nil
}

// IsApplied reports whether name has a ledger row.
func (t *Tracker) IsApplied(ctx context.Context, name string) (bool, error) {
	var exists bool

	err := t.db.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM applied_migrations WHERE name = ?)`, name,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("checking if migration %s is applied: %w", name, err)
	}

	return exists, nil
}

// GetApplied returns every ledger row ordered by application time, then name.
func (t *Tracker) GetApplied(ctx context.Context) ([]AppliedMigration, error) {
	rows, err := t.db.QueryContext(ctx,
		`SELECT name, applied_at FROM applied_migrations ORDER BY applied_at, name`)
	if err != nil {
		return nil, fmt.Errorf("querying applied migrations: %w", err)
	}
	defer rows.Close()

	var applied []AppliedMigration

	for rows.Next() {
		m, err := scanApplied(rows)
		if err != nil {
			return nil, err
		}

		applied = append(applied, m)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading applied migrations: %w", err)
	}

	return applied, nil
}

// Get returns the ledger row for name.
func (t *Tracker) Get(ctx context.Context, name string) (AppliedMigration, error) {
	row := t.db.QueryRowContext(ctx,
		`SELECT name, applied_at FROM applied_migrations WHERE name = ?`, name)

	m, err := scanApplied(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return AppliedMigration{}, fmt.Errorf("migration %s: %w", name, ErrMigrationNotFound)
		}

		return AppliedMigration{}, err
	}

	return m, nil
}

// RecordApplied inserts the ledger row for name through conn, which may be
// the transaction that ran the migration. A second insert for the same name
// fails on the primary key.
func (t *Tracker) RecordApplied(ctx context.Context, conn Execer, name string) error {
	_, err := conn.ExecContext(ctx,
		`INSERT INTO applied_migrations (name, applied_at) VALUES (?, ?)`,
		name, t.now().UTC().Format(timeLayout),
	)
	if err != nil {
		return fmt.Errorf("recording migration %s as applied: %w", name, err)
	}

	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanApplied(s scanner) (AppliedMigration, error) {
	var (
		m  AppliedMigration
		at string
	)

	if err := s.Scan(&m.Name, &at); err != nil {
		return AppliedMigration{}, fmt.Errorf("scanning migration row: %w", err)
	}

	parsed, err := time.ParseInLocation(timeLayout, at, time.UTC)
	if err != nil {
		return AppliedMigration{}, fmt.Errorf("parsing applied_at %q for %s: %w", at, m.Name, err)
	}

	m.AppliedAt = parsed

	return m, nil
}
