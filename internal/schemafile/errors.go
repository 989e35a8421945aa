package schemafile

import "errors"

// ErrInvalidFile indicates a table description that cannot be compiled.
var ErrInvalidFile = errors.New("invalid schema file")
