package executor

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aqasim81/scriptdb/internal/migration"
	"github.com/aqasim81/scriptdb/internal/tracker"
)

// mockTracker implements MigrationTracker for testing.
type mockTracker struct {
	ensureErr  error
	appliedErr error
	recordErr  error
	applied    map[string]bool
	recorded   []string
	ensured    bool
}

func newMockTracker() *mockTracker {
	return &mockTracker{applied: make(map[string]bool)}
}

func (m *mockTracker) EnsureTable(_ context.Context) error {
	m.ensured = true

	return m.ensureErr
}

func (m *mockTracker) AppliedNames(_ context.Context) (map[string]bool, error) {
	if m.appliedErr != nil {
		return nil, m.appliedErr
	}

	out := make(map[string]bool, len(m.applied))
	for k, v := range m.applied {
		out[k] = v
	}

	return out, nil
}

func (m *mockTracker) RecordApplied(_ context.Context, _ tracker.Execer, name string) error {
	if m.recordErr != nil {
		return m.recordErr
	}

	m.recorded = append(m.recorded, name)
	m.applied[name] = true

	return nil
}

// recordingRun mimics runMigration against the mock tracker.
func recordingRun(mt *mockTracker) runFunc {
	return func(ctx context.Context, m *migration.Migration) error {
		return mt.RecordApplied(ctx, nil, m.Name)
	}
}

func newTestExecutor(mt *mockTracker, events *[]ProgressEvent) *Executor {
	e := &Executor{
		tracker:       mt,
		transactional: true,
		run:           recordingRun(mt),
	}
	e.logger = discardLogger()

	if events != nil {
		e.onProgress = func(ev ProgressEvent) { *events = append(*events, ev) }
	}

	return e
}

// --- applyOne tests ---

func TestApplyOne_dryRun_reportsPending(t *testing.T) {
	t.Parallel()

	mt := newMockTracker()

	var events []ProgressEvent

	e := newTestExecutor(mt, &events)
	e.dryRun = true

	m := migration.Script("001", "CREATE TABLE t (id INT);")

	require.NoError(t, e.applyOne(context.Background(), &m, map[string]bool{}))
	require.Len(t, events, 1)
	assert.Equal(t, StatusPending, events[0].Status)
	assert.Empty(t, mt.recorded)
}

func TestApplyOne_alreadyApplied_skips(t *testing.T) {
	t.Parallel()

	mt := newMockTracker()

	var events []ProgressEvent

	e := newTestExecutor(mt, &events)
	m := migration.Script("001", "CREATE TABLE t (id INT);")

	require.NoError(t, e.applyOne(context.Background(), &m, map[string]bool{"001": true}))
	require.Len(t, events, 1)
	assert.Equal(t, StatusSkipped, events[0].Status)
	assert.Empty(t, mt.recorded)
}

func TestApplyOne_executes_records_andReportsProgress(t *testing.T) {
	t.Parallel()

	mt := newMockTracker()

	var events []ProgressEvent

	e := newTestExecutor(mt, &events)
	m := migration.Script("001", "CREATE TABLE t (id INT);")
	applied := map[string]bool{}

	require.NoError(t, e.applyOne(context.Background(), &m, applied))

	require.Len(t, events, 2)
	assert.Equal(t, StatusStarting, events[0].Status)
	assert.Equal(t, StatusCompleted, events[1].Status)
	assert.Equal(t, []string{"001"}, mt.recorded)
	assert.True(t, applied["001"])
}

func TestApplyOne_runError_reportsFailed(t *testing.T) {
	t.Parallel()

	mt := newMockTracker()

	var events []ProgressEvent

	runErr := errors.New("SQL error")
	e := newTestExecutor(mt, &events)
	e.run = func(context.Context, *migration.Migration) error { return runErr }

	m := migration.Script("001", "CREATE TABLE t (id INT);")

	err := e.applyOne(context.Background(), &m, map[string]bool{})

	require.ErrorIs(t, err, ErrExecutionFailed)
	require.ErrorIs(t, err, runErr)
	assert.Contains(t, err.Error(), "001")

	require.Len(t, events, 2)
	assert.Equal(t, StatusFailed, events[1].Status)
	assert.ErrorIs(t, events[1].Error, runErr)
	assert.Empty(t, mt.recorded)
}

// --- Apply tests ---

func TestApply_fullFlow_appliesAllInOrder(t *testing.T) {
	t.Parallel()

	mt := newMockTracker()

	var events []ProgressEvent

	e := newTestExecutor(mt, &events)

	err := e.Apply(context.Background(), []migration.Migration{
		migration.Script("b_second", "CREATE TABLE b (id INT);"),
		migration.Script("a_first", "CREATE TABLE a (id INT);"),
	})

	require.NoError(t, err)
	assert.Equal(t, []string{"b_second", "a_first"}, mt.recorded, "declared order wins over name order")
	require.Len(t, events, 4)
}

func TestApply_skipsAlreadyApplied_andAppliesPending(t *testing.T) {
	t.Parallel()

	mt := newMockTracker()
	mt.applied["001"] = true

	var events []ProgressEvent

	e := newTestExecutor(mt, &events)

	err := e.Apply(context.Background(), []migration.Migration{
		migration.Script("001", "CREATE TABLE a (id INT);"),
		migration.Script("002", "CREATE TABLE b (id INT);"),
	})

	require.NoError(t, err)
	assert.Equal(t, []string{"002"}, mt.recorded)

	require.Len(t, events, 3)
	assert.Equal(t, StatusSkipped, events[0].Status)
	assert.Equal(t, StatusStarting, events[1].Status)
	assert.Equal(t, StatusCompleted, events[2].Status)
}

func TestApply_stopsAtFirstFailure(t *testing.T) {
	t.Parallel()

	mt := newMockTracker()
	e := newTestExecutor(mt, nil)
	boom := errors.New("boom")
	e.run = func(ctx context.Context, m *migration.Migration) error {
		if m.Name == "002" {
			return boom
		}

		return mt.RecordApplied(ctx, nil, m.Name)
	}

	err := e.Apply(context.Background(), []migration.Migration{
		migration.Script("001", "SELECT 1;"),
		migration.Script("002", "SELECT 1;"),
		migration.Script("003", "SELECT 1;"),
	})

	require.ErrorIs(t, err, boom)
	assert.Equal(t, []string{"001"}, mt.recorded)
}

func TestApply_invalidList_touchesNothing(t *testing.T) {
	t.Parallel()

	mt := newMockTracker()
	e := newTestExecutor(mt, nil)

	err := e.Apply(context.Background(), []migration.Migration{
		migration.Script("001", "SELECT 1;"),
		migration.Script("001", "SELECT 2;"),
	})

	require.ErrorIs(t, err, migration.ErrDuplicateName)
	assert.False(t, mt.ensured)
	assert.Empty(t, mt.recorded)
}

func TestApply_ensureTableError_returnsError(t *testing.T) {
	t.Parallel()

	mt := newMockTracker()
	mt.ensureErr = errors.New("create table failed")

	err := newTestExecutor(mt, nil).Apply(context.Background(), nil)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "create table failed")
}

func TestApply_appliedNamesError_returnsError(t *testing.T) {
	t.Parallel()

	mt := newMockTracker()
	mt.appliedErr = errors.New("read failed")

	err := newTestExecutor(mt, nil).Apply(context.Background(), nil)

	require.ErrorIs(t, err, mt.appliedErr)
}

func TestApply_emptyMigrations_succeeds(t *testing.T) {
	t.Parallel()

	mt := newMockTracker()

	require.NoError(t, newTestExecutor(mt, nil).Apply(context.Background(), []migration.Migration{}))
	assert.True(t, mt.ensured)
}

// --- useTransaction tests ---

func TestUseTransaction(t *testing.T) {
	t.Parallel()

	noop := func(context.Context, migration.Conn) error { return nil }

	tests := []struct {
		name          string
		transactional bool
		m             migration.Migration
		want          bool
	}{
		{name: "plain script", transactional: true, m: migration.Script("a", "CREATE TABLE t (x);"), want: true},
		{name: "script with BEGIN", transactional: true, m: migration.Script("a", "BEGIN; CREATE TABLE t (x); COMMIT;"), want: false},
		{name: "script with VACUUM", transactional: true, m: migration.Script("a", "VACUUM;"), want: false},
		{name: "callback", transactional: true, m: migration.Callback("a", noop), want: true},
		{name: "transactions disabled", transactional: false, m: migration.Script("a", "CREATE TABLE t (x);"), want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			e := &Executor{transactional: tt.transactional}

			got, err := e.useTransaction(&tt.m)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

// --- fireProgress tests ---

func TestFireProgress_nilCallback_noPanic(t *testing.T) {
	t.Parallel()

	e := &Executor{}
	m := migration.Script("001", "SELECT 1;")

	assert.NotPanics(t, func() {
		e.fireProgress(ProgressEvent{Migration: &m, Status: StatusCompleted})
	})
}
