package migration

import (
	"errors"
	"fmt"
)

// ErrInvalidMigration indicates a migration list that cannot be applied as declared.
var ErrInvalidMigration = errors.New("invalid migration list")

// ErrMissingName indicates an entry without a name.
var ErrMissingName = fmt.Errorf("%w: migration entry missing name", ErrInvalidMigration)

// ErrMissingAction indicates an entry with neither a script nor a callback.
var ErrMissingAction = fmt.Errorf("%w: migration must have a script or a callback", ErrInvalidMigration)

// ErrDuplicateName indicates two entries sharing a name.
var ErrDuplicateName = fmt.Errorf("%w: duplicate migration names", ErrInvalidMigration)
