package scriptdb

import (
	"context"
	"log/slog"
	"time"
)

// Default timeouts applied by Open.
const (
	DefaultMigrationTimeout = 90 * time.Second
	DefaultShutdownTimeout  = 30 * time.Second
)

// TaskFunc is a maintenance task bound to an open instance.
type TaskFunc func(ctx context.Context, db *DB) error

// PeriodicTask runs every Interval while the instance is open. The first run
// happens one interval after Open unless Immediate is set.
type PeriodicTask struct {
	Name      string
	Interval  time.Duration
	Run       TaskFunc
	Immediate bool
}

// QueryHook runs after every Threshold completed operations. Runs may overlap
// unless MaxInFlight is positive.
type QueryHook struct {
	Name        string
	Threshold   int64
	Run         TaskFunc
	MaxInFlight int64
}

// Config holds instance configuration.
type Config struct {
	// Path to the database file. Use ":memory:" for a private in-memory database.
	Path string

	// Migrations run in the given order; each name runs at most once per file.
	Migrations []Migration

	Periodic   []PeriodicTask
	QueryHooks []QueryHook

	// Logger for operational logging. Uses slog.Default() if nil.
	Logger *slog.Logger

	// MigrationTimeout bounds migration execution time. Default: 90s.
	MigrationTimeout time.Duration

	// ShutdownTimeout bounds how long Close waits for running tasks. Default: 30s.
	ShutdownTimeout time.Duration

	// DisableMigrationTransactions runs each migration and its ledger insert
	// as separate commits.
	DisableMigrationTransactions bool

	// OnMigration, if set, receives a ProgressEvent per migration.
	OnMigration func(ProgressEvent)

	// OnTaskError, if set, receives every failure of a periodic task or hook.
	OnTaskError func(task string, err error)
}

// defaults returns a copy of cfg with default values applied.
func (cfg Config) defaults() Config {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	if cfg.MigrationTimeout == 0 {
		cfg.MigrationTimeout = DefaultMigrationTimeout
	}

	if cfg.ShutdownTimeout == 0 {
		cfg.ShutdownTimeout = DefaultShutdownTimeout
	}

	return cfg
}
