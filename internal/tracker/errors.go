package tracker

import "errors"

// ErrMigrationNotFound indicates no ledger row exists for the given name.
var ErrMigrationNotFound = errors.New("migration not found in applied_migrations")

// ErrTableCreation indicates the applied_migrations table could not be created.
var ErrTableCreation = errors.New("creating applied_migrations table")
