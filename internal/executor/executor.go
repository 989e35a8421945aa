package executor

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/aqasim81/scriptdb/internal/migration"
	"github.com/aqasim81/scriptdb/internal/tracker"
)

// Progress status constants reported via ProgressEvent.
const (
	StatusStarting  = "starting"
	StatusCompleted = "completed"
	StatusFailed    = "failed"
	StatusSkipped   = "skipped"
	StatusPending   = "pending"
)

// ProgressEvent is emitted by the executor for each migration processed.
type ProgressEvent struct {
	Migration *migration.Migration
	Status    string
	Duration  time.Duration
	Error     error
}

// MigrationTracker abstracts applied_migrations operations for testability.
type MigrationTracker interface {
	EnsureTable(ctx context.Context) error
	AppliedNames(ctx context.Context) (map[string]bool, error)
	RecordApplied(ctx context.Context, conn tracker.Execer, name string) error
}

// runFunc runs one migration's action and records it in the ledger.
type runFunc func(ctx context.Context, m *migration.Migration) error

// Executor applies a declared migration list: entries already in the ledger
// are skipped, the rest run in order and are recorded as they complete.
type Executor struct {
	db            *sql.DB
	tracker       MigrationTracker
	transactional bool
	dryRun        bool
	logger        *slog.Logger
	onProgress    func(ProgressEvent)
	run           runFunc
}

// Option configures an Executor.
type Option func(*Executor)

// WithTransactions controls whether each migration and its ledger row share
// one transaction. Enabled by default.
func WithTransactions(b bool) Option {
	return func(e *Executor) { e.transactional = b }
}

// WithDryRun enables dry-run mode where nothing is executed or recorded.
func WithDryRun(b bool) Option {
	return func(e *Executor) { e.dryRun = b }
}

// WithProgressCallback sets a function called for each migration processed.
func WithProgressCallback(fn func(ProgressEvent)) Option {
	return func(e *Executor) { e.onProgress = fn }
}

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(e *Executor) { e.logger = l }
}

// New creates an Executor with the given database, tracker, and options.
func New(db *sql.DB, t MigrationTracker, opts ...Option) *Executor {
	e := &Executor{
		db:            db,
		tracker:       t,
		transactional: true,
	}

	for _, opt := range opts {
		opt(e)
	}

	if e.logger == nil {
		e.logger = slog.Default()
	}

	// Set after options so tests can inject their own.
	if e.run == nil {
		e.run = e.runMigration
	}

	return e
}

// Apply validates migrations and then applies every entry missing from the
// ledger, in order. The first failure stops the run; entries before it stay
// applied and the failing entry is not recorded. An invalid list is rejected
// before the ledger is touched.
func (e *Executor) Apply(ctx context.Context, migrations []migration.Migration) error {
	if err := migration.Validate(migrations); err != nil {
		return err
	}

	if err := e.tracker.EnsureTable(ctx); err != nil {
		return err
	}

	applied, err := e.tracker.AppliedNames(ctx)
	if err != nil {
		return err
	}

	for i := range migrations {
		if err := e.applyOne(ctx, &migrations[i], applied); err != nil {
			return err
		}
	}

	return nil
}

// Pending returns the entries of migrations that have no ledger row.
func (e *Executor) Pending(ctx context.Context, migrations []migration.Migration) ([]migration.Migration, error) {
	if err := e.tracker.EnsureTable(ctx); err != nil {
		return nil, err
	}

	applied, err := e.tracker.AppliedNames(ctx)
	if err != nil {
		return nil, err
	}

	var pending []migration.Migration

	for _, m := range migrations {
		if !applied[m.Name] {
			pending = append(pending, m)
		}
	}

	return pending, nil
}

// applyOne handles a single migration: skip if applied, dry-run check,
// execute, record, and fire progress.
func (e *Executor) applyOne(ctx context.Context, m *migration.Migration, applied map[string]bool) error {
	if applied[m.Name] {
		e.logger.Debug("migration already applied", "migration", m.Name)
		e.fireProgress(ProgressEvent{Migration: m, Status: StatusSkipped})

		return nil
	}

	if e.dryRun {
		e.fireProgress(ProgressEvent{Migration: m, Status: StatusPending})

		return nil
	}

	e.fireProgress(ProgressEvent{Migration: m, Status: StatusStarting})
	e.logger.Info("applying migration", "migration", m.Name)

	start := time.Now()
	runErr := e.run(ctx, m)
	duration := time.Since(start)

	if runErr != nil {
		e.logger.Error("migration failed", "migration", m.Name, "error", runErr)
		e.fireProgress(ProgressEvent{
			Migration: m,
			Status:    StatusFailed,
			Duration:  duration,
			Error:     runErr,
		})

		return fmt.Errorf("%w: %s: %w", ErrExecutionFailed, m.Name, runErr)
	}

	applied[m.Name] = true

	e.logger.Info("migration applied", "migration", m.Name, "duration", duration)
	e.fireProgress(ProgressEvent{
		Migration: m,
		Status:    StatusCompleted,
		Duration:  duration,
	})

	return nil
}

// runMigration runs the action and writes the ledger row, inside one
// transaction unless the script manages transactions itself or
// transactions are disabled.
func (e *Executor) runMigration(ctx context.Context, m *migration.Migration) error {
	inTx, err := e.useTransaction(m)
	if err != nil {
		return err
	}

	if inTx {
		return ExecInTransaction(ctx, e.db, func(tx *sql.Tx) error {
			if err := m.Action.Run(ctx, tx); err != nil {
				return err
			}

			return e.tracker.RecordApplied(ctx, tx, m.Name)
		})
	}

	e.logger.Debug("running migration outside a transaction", "migration", m.Name)

	if err := m.Action.Run(ctx, e.db); err != nil {
		return err
	}

	return e.tracker.RecordApplied(ctx, e.db, m.Name)
}

func (e *Executor) useTransaction(m *migration.Migration) (bool, error) {
	if !e.transactional {
		return false, nil
	}

	script, ok := m.ScriptText()
	if !ok {
		return true, nil
	}

	control, err := containsTransactionControl(script)
	if err != nil {
		return false, err
	}

	return !control, nil
}

func (e *Executor) fireProgress(event ProgressEvent) {
	if e.onProgress != nil {
		e.onProgress(event)
	}
}
