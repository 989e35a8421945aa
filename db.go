package scriptdb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/aqasim81/scriptdb/internal/database"
	"github.com/aqasim81/scriptdb/internal/executor"
	"github.com/aqasim81/scriptdb/internal/migration"
	"github.com/aqasim81/scriptdb/internal/scheduler"
	"github.com/aqasim81/scriptdb/internal/tracker"
)

// DB is an open scriptdb instance. It is safe for concurrent use; all
// statements share a single SQLite connection.
type DB struct {
	sql     *sql.DB
	path    string
	logger  *slog.Logger
	sched   *scheduler.Scheduler
	tracker *tracker.Tracker

	ready           atomic.Bool
	shutdownTimeout time.Duration

	engineVersion string
	returning     bool

	pkMu    sync.Mutex
	pkCache map[string]string

	closeOnce sync.Once
	closeErr  error
}

// Open opens the database at cfg.Path, applies pending migrations, and
// starts the configured tasks. Configuration errors are reported before the
// database file is touched. If any migration fails the connection is closed
// and the error returned; no task ever starts.
func Open(ctx context.Context, cfg Config) (*DB, error) {
	cfg = cfg.defaults()

	if err := migration.Validate(cfg.Migrations); err != nil {
		return nil, err
	}

	d := &DB{
		path:            cfg.Path,
		logger:          cfg.Logger,
		shutdownTimeout: cfg.ShutdownTimeout,
		pkCache:         make(map[string]string),
	}

	sched, err := scheduler.New(d.bindPeriodic(cfg.Periodic), d.bindHooks(cfg.QueryHooks),
		scheduler.WithLogger(cfg.Logger),
		scheduler.WithErrorHandler(cfg.OnTaskError),
	)
	if err != nil {
		return nil, err
	}

	d.sched = sched

	db, err := database.Open(ctx, cfg.Path, cfg.Logger)
	if err != nil {
		return nil, err
	}

	success := false

	defer func() {
		if !success {
			_ = db.Close()
		}
	}()

	d.sql = db
	d.tracker = tracker.New(db)

	d.engineVersion, err = database.EngineVersion(ctx, db)
	if err != nil {
		return nil, err
	}

	d.returning = database.SupportsReturning(d.engineVersion)
	cfg.Logger.Debug("sqlite engine", "version", d.engineVersion, "returning", d.returning)

	migCtx, cancel := context.WithTimeout(ctx, cfg.MigrationTimeout)
	defer cancel()

	exec := executor.New(db, d.tracker,
		executor.WithLogger(cfg.Logger),
		executor.WithTransactions(!cfg.DisableMigrationTransactions),
		executor.WithProgressCallback(cfg.OnMigration),
	)
	if err := exec.Apply(migCtx, cfg.Migrations); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}

	d.ready.Store(true)

	if err := sched.Start(ctx); err != nil {
		d.ready.Store(false)

		return nil, fmt.Errorf("starting scheduler: %w", err)
	}

	success = true

	return d, nil
}

// Close stops every task, waiting up to the configured shutdown timeout, then
// marks the instance closed and releases the connection. Later calls return
// the first call's result. Closing a DB that did not come from Open is a no-op.
func (d *DB) Close() error {
	d.closeOnce.Do(func() {
		d.ready.Store(false)

		if d.sched == nil || d.sql == nil {
			return
		}

		ctx, cancel := context.WithTimeout(context.Background(), d.shutdownTimeout)
		defer cancel()

		stopErr := d.sched.Stop(ctx)
		if stopErr != nil {
			d.logger.Warn("tasks still running at close", "error", stopErr)
		}

		d.closeErr = errors.Join(stopErr, d.sql.Close())
	})

	return d.closeErr
}

// Ready reports whether the instance accepts operations.
func (d *DB) Ready() bool {
	return d.ready.Load()
}

// Path returns the configured database path.
func (d *DB) Path() string {
	return d.path
}

// EngineVersion returns the SQLite library version, e.g. "3.46.1".
func (d *DB) EngineVersion() string {
	return d.engineVersion
}

// HookCount returns the current counter of the named query hook, or 0 for
// an unknown hook or a DB that did not come from Open.
func (d *DB) HookCount(name string) int64 {
	if d.sched == nil {
		return 0
	}

	return d.sched.Count(name)
}

// AppliedMigrations returns the ledger rows.
func (d *DB) AppliedMigrations(ctx context.Context) ([]AppliedMigration, error) {
	if err := d.check(); err != nil {
		return nil, err
	}

	return d.tracker.GetApplied(ctx)
}

func (d *DB) check() error {
	if !d.ready.Load() {
		return ErrNotReady
	}

	return nil
}

// done records one completed operation.
func (d *DB) done() {
	d.sched.Notify()
}

func (d *DB) bindPeriodic(tasks []PeriodicTask) []scheduler.Periodic {
	out := make([]scheduler.Periodic, 0, len(tasks))

	for _, t := range tasks {
		p := scheduler.Periodic{Name: t.Name, Interval: t.Interval, Immediate: t.Immediate}
		if t.Run != nil {
			p.Action = func(ctx context.Context) error { return t.Run(ctx, d) }
		}

		out = append(out, p)
	}

	return out
}

func (d *DB) bindHooks(hooks []QueryHook) []scheduler.QueryHook {
	out := make([]scheduler.QueryHook, 0, len(hooks))

	for _, h := range hooks {
		q := scheduler.QueryHook{Name: h.Name, Threshold: h.Threshold, MaxInFlight: h.MaxInFlight}
		if h.Run != nil {
			q.Action = func(ctx context.Context) error { return h.Run(ctx, d) }
		}

		out = append(out, q)
	}

	return out
}
