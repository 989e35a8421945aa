package executor

import "errors"

// ErrExecutionFailed indicates a migration action returned an error. The
// engine error is wrapped alongside it.
var ErrExecutionFailed = errors.New("migration execution failed")
