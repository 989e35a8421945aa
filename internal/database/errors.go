package database

import "errors"

// ErrInvalidPath indicates the database path cannot be opened as a SQLite file.
var ErrInvalidPath = errors.New("invalid database path")

// ErrConnectionFailed indicates a connection to the database could not be established.
var ErrConnectionFailed = errors.New("database connection failed")
