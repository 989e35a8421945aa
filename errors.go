package scriptdb

import (
	"database/sql"
	"errors"
)

// ErrNotReady indicates an operation on an instance that is not open:
// migrations have not finished, or Close has been called.
var ErrNotReady = errors.New("scriptdb: database is not open")

// ErrNoPrimaryKey indicates a helper that needs a primary key was used on a
// table without one.
var ErrNoPrimaryKey = errors.New("scriptdb: table has no primary key")

// ErrEmptyRow indicates a write helper was given a row with no columns.
var ErrEmptyRow = errors.New("scriptdb: row has no columns")

// ErrNoRows is returned by QueryOne and QueryScalar when nothing matched.
var ErrNoRows = sql.ErrNoRows
