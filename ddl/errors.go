package ddl

import (
	"errors"
	"fmt"
)

// ErrInvalidDefinition is the parent of every build-time error in this package.
var ErrInvalidDefinition = errors.New("invalid ddl definition")

// ErrUnsupportedKind indicates a column kind with no physical affinity.
var ErrUnsupportedKind = fmt.Errorf("%w: unsupported column kind", ErrInvalidDefinition)

// ErrUnsupportedLiteral indicates a default value that cannot be rendered as SQL.
var ErrUnsupportedLiteral = fmt.Errorf("%w: unsupported literal", ErrInvalidDefinition)

// ErrAutoIncrement indicates AUTOINCREMENT was requested where SQLite forbids it.
var ErrAutoIncrement = fmt.Errorf("%w: AUTOINCREMENT requires an INTEGER primary key", ErrInvalidDefinition)

// ErrNoColumns indicates a table or index with nothing to cover.
var ErrNoColumns = fmt.Errorf("%w: no columns", ErrInvalidDefinition)

// ErrNoActions indicates an ALTER TABLE script with no actions.
var ErrNoActions = fmt.Errorf("%w: no alter actions", ErrInvalidDefinition)

// ErrDuplicatePrimaryKey indicates PrimaryKey was called more than once.
var ErrDuplicatePrimaryKey = fmt.Errorf("%w: primary key already defined", ErrInvalidDefinition)
