package migration

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
)

// Conn is the database handle a migration runs against. Both *sql.DB and
// *sql.Tx satisfy it; when the engine runs a migration inside a transaction
// the callback receives the *sql.Tx.
type Conn interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Action is what a migration does. The only implementations are ScriptAction
// and CallbackAction.
type Action interface {
	// Run applies the action against conn.
	Run(ctx context.Context, conn Conn) error
	isAction()
}

// ScriptAction runs a multi-statement SQL script in one execution.
type ScriptAction struct {
	SQL string
}

// Run executes the script.
func (a ScriptAction) Run(ctx context.Context, conn Conn) error {
	if _, err := conn.ExecContext(ctx, a.SQL); err != nil {
		return fmt.Errorf("executing script: %w", err)
	}

	return nil
}

func (ScriptAction) isAction() {}

// CallbackFunc is a migration written in Go.
type CallbackFunc func(ctx context.Context, conn Conn) error

// CallbackAction invokes a Go function with the connection. The function
// returns when its work is complete.
type CallbackAction struct {
	Fn CallbackFunc
}

// Run calls the callback.
func (a CallbackAction) Run(ctx context.Context, conn Conn) error {
	return a.Fn(ctx, conn)
}

func (CallbackAction) isAction() {}

// Migration is a named, run-once schema or data change.
type Migration struct {
	Name   string
	Action Action
	// Source is where the migration was loaded from, if anywhere.
	Source string
}

// Script returns a migration that executes sqlText.
func Script(name, sqlText string) Migration {
	return Migration{Name: name, Action: ScriptAction{SQL: sqlText}}
}

// Callback returns a migration that calls fn.
func Callback(name string, fn CallbackFunc) Migration {
	return Migration{Name: name, Action: CallbackAction{Fn: fn}}
}

// ScriptText returns the SQL of a script migration and true, or "" and false
// for callbacks.
func (m *Migration) ScriptText() (string, bool) {
	s, ok := m.Action.(ScriptAction)
	if !ok {
		return "", false
	}

	return s.SQL, true
}

// Validate checks a declared list before anything runs: every entry needs a
// name and exactly one non-empty action, and names must be unique.
func Validate(migrations []Migration) error {
	seen := make(map[string]int, len(migrations))

	var dupes []string

	for i := range migrations {
		m := &migrations[i]

		if strings.TrimSpace(m.Name) == "" {
			return fmt.Errorf("%w: entry %d", ErrMissingName, i)
		}

		if err := validateAction(m); err != nil {
			return err
		}

		seen[m.Name]++
		if seen[m.Name] == 2 {
			dupes = append(dupes, m.Name)
		}
	}

	if len(dupes) > 0 {
		return fmt.Errorf("%w: %s", ErrDuplicateName, strings.Join(dupes, ", "))
	}

	return nil
}

func validateAction(m *Migration) error {
	switch a := m.Action.(type) {
	case nil:
		return fmt.Errorf("%w: %s", ErrMissingAction, m.Name)
	case ScriptAction:
		if strings.TrimSpace(a.SQL) == "" {
			return fmt.Errorf("%w: %s has an empty script", ErrMissingAction, m.Name)
		}
	case CallbackAction:
		if a.Fn == nil {
			return fmt.Errorf("%w: %s has a nil callback", ErrMissingAction, m.Name)
		}
	}

	return nil
}
