// Package cache is a key/value store with expiry, kept in a scriptdb table
// and swept by a periodic task.
package cache

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/aqasim81/scriptdb"
	"github.com/aqasim81/scriptdb/ddl"
)

const (
	defaultTable           = "cache"
	defaultSweepInterval   = time.Minute
	defaultCheckpointEvery = 1000
)

type options struct {
	logger          *slog.Logger
	table           string
	sweepInterval   time.Duration
	checkpointEvery int64
	now             func() time.Time
}

// Option configures a Cache.
type Option func(*options)

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithTable stores entries in the named table instead of "cache".
func WithTable(name string) Option {
	return func(o *options) { o.table = name }
}

// WithSweepInterval sets how often expired entries are deleted. Default: 1m.
func WithSweepInterval(d time.Duration) Option {
	return func(o *options) { o.sweepInterval = d }
}

// WithCheckpointEvery runs a passive WAL checkpoint after every n operations.
// Default: 1000.
func WithCheckpointEvery(n int64) Option {
	return func(o *options) { o.checkpointEvery = n }
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

// Cache is a persistent key/value cache. Expired entries are invisible to
// reads immediately and are deleted by the next sweep.
type Cache struct {
	db    *scriptdb.DB
	table string
	now   func() time.Time
}

// Schema returns the statements that create the cache table and its expiry index.
func Schema(table string) (string, error) {
	create, err := ddl.CreateTable(table).
		PrimaryKey("key", ddl.Text).
		AddField("value", ddl.Blob).
		AddField("expires_at", ddl.Integer).
		WithoutRowID().
		Build()
	if err != nil {
		return "", err
	}

	index, err := ddl.CreateIndex("idx_"+table+"_expires_at", table, "expires_at").Build()
	if err != nil {
		return "", err
	}

	return create + "\n" + index, nil
}

// Open opens or creates a cache at path (":memory:" for a private one).
func Open(ctx context.Context, path string, opts ...Option) (*Cache, error) {
	o := options{
		table:           defaultTable,
		sweepInterval:   defaultSweepInterval,
		checkpointEvery: defaultCheckpointEvery,
		now:             time.Now,
	}

	for _, opt := range opts {
		opt(&o)
	}

	schema, err := Schema(o.table)
	if err != nil {
		return nil, fmt.Errorf("building cache schema: %w", err)
	}

	c := &Cache{table: o.table, now: o.now}

	db, err := scriptdb.Open(ctx, scriptdb.Config{
		Path:       path,
		Logger:     o.logger,
		Migrations: []scriptdb.Migration{scriptdb.Script("cache_001_create_"+o.table, schema)},
		Periodic: []scriptdb.PeriodicTask{{
			Name:     "cache-sweep",
			Interval: o.sweepInterval,
			Run: func(ctx context.Context, db *scriptdb.DB) error {
				_, err := c.sweep(ctx, db)

				return err
			},
		}},
		QueryHooks: []scriptdb.QueryHook{{
			Name:        "cache-checkpoint",
			Threshold:   o.checkpointEvery,
			Run:         checkpoint,
			MaxInFlight: 1,
		}},
	})
	if err != nil {
		return nil, err
	}

	c.db = db

	return c, nil
}

// DB returns the underlying instance.
func (c *Cache) DB() *scriptdb.DB {
	return c.db
}

// Close stops the sweeper and closes the database.
func (c *Cache) Close() error {
	return c.db.Close()
}

// Set stores value under key. A ttl of zero or less never expires.
func (c *Cache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	var expires any
	if ttl > 0 {
		expires = c.now().Add(ttl).UnixMilli()
	}

	if value == nil {
		value = []byte{}
	}

	_, err := c.db.UpsertOne(ctx, c.table, scriptdb.Row{
		"key":        key,
		"value":      value,
		"expires_at": expires,
	})
	if err != nil {
		return fmt.Errorf("setting cache key %q: %w", key, err)
	}

	return nil
}

// SetString stores a string value.
func (c *Cache) SetString(ctx context.Context, key, value string, ttl time.Duration) error {
	return c.Set(ctx, key, []byte(value), ttl)
}

// Get returns the value for key and whether a live entry exists.
func (c *Cache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	v, err := c.db.QueryScalar(ctx,
		`SELECT value FROM `+ddl.Quote(c.table)+` WHERE key = ? AND `+liveClause, key, c.nowMilli())
	if err != nil {
		if errors.Is(err, scriptdb.ErrNoRows) {
			return nil, false, nil
		}

		return nil, false, fmt.Errorf("getting cache key %q: %w", key, err)
	}

	switch b := v.(type) {
	case []byte:
		return b, true, nil
	case string:
		return []byte(b), true, nil
	case nil:
		return []byte{}, true, nil
	default:
		return nil, false, fmt.Errorf("cache key %q holds %T", key, v)
	}
}

// GetString returns the value for key as a string.
func (c *Cache) GetString(ctx context.Context, key string) (string, bool, error) {
	b, ok, err := c.Get(ctx, key)

	return string(b), ok, err
}

// Delete removes key and reports whether it existed.
func (c *Cache) Delete(ctx context.Context, key string) (bool, error) {
	n, err := c.db.DeleteOne(ctx, c.table, key)
	if err != nil {
		return false, fmt.Errorf("deleting cache key %q: %w", key, err)
	}

	return n > 0, nil
}

// Keys returns the live keys in ascending order.
func (c *Cache) Keys(ctx context.Context) ([]string, error) {
	col, err := c.db.QueryColumn(ctx,
		`SELECT key FROM `+ddl.Quote(c.table)+` WHERE `+liveClause+` ORDER BY key`, c.nowMilli())
	if err != nil {
		return nil, fmt.Errorf("listing cache keys: %w", err)
	}

	keys := make([]string, 0, len(col))
	for _, v := range col {
		if s, ok := v.(string); ok {
			keys = append(keys, s)
		}
	}

	return keys, nil
}

// Clear removes every entry and returns how many were removed.
func (c *Cache) Clear(ctx context.Context) (int64, error) {
	return c.db.DeleteMany(ctx, c.table, "1 = 1")
}

// Sweep deletes expired entries now and returns how many were removed.
func (c *Cache) Sweep(ctx context.Context) (int64, error) {
	return c.sweep(ctx, c.db)
}

func (c *Cache) sweep(ctx context.Context, db *scriptdb.DB) (int64, error) {
	n, err := db.DeleteMany(ctx, c.table, "expires_at IS NOT NULL AND expires_at <= ?", c.nowMilli())
	if err != nil {
		return 0, fmt.Errorf("sweeping expired cache entries: %w", err)
	}

	return n, nil
}

func checkpoint(ctx context.Context, db *scriptdb.DB) error {
	_, err := db.QueryMany(ctx, `PRAGMA wal_checkpoint(PASSIVE)`)

	return err
}

const liveClause = `(expires_at IS NULL OR expires_at > ?)`

func (c *Cache) nowMilli() int64 {
	return c.now().UnixMilli()
}
