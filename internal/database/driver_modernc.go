//go:build !mattn

package database

import (
	"fmt"

	_ "modernc.org/sqlite" // registers the "sqlite" driver
)

const driverName = "sqlite"

// formatPragma renders modernc.org/sqlite's _pragma=name(value) syntax.
func formatPragma(p pragma) string {
	return fmt.Sprintf("_pragma=%s(%s)", p.name, p.value)
}
