//go:build mattn

package database

import (
	"fmt"

	_ "github.com/mattn/go-sqlite3" // registers the "sqlite3" driver
)

const driverName = "sqlite3"

// mattnNames maps pragma names to github.com/mattn/go-sqlite3 DSN keys.
var mattnNames = map[string]string{ //nolint:gochecknoglobals // fixed lookup table
	"foreign_keys": "_foreign_keys",
	"busy_timeout": "_busy_timeout",
	"journal_mode": "_journal_mode",
	"synchronous":  "_synchronous",
}

// formatPragma renders mattn's _name=value syntax. Pragmas without a DSN key
// fall back to _pragma, which mattn also accepts.
func formatPragma(p pragma) string {
	if key, ok := mattnNames[p.name]; ok {
		return fmt.Sprintf("%s=%s", key, p.value)
	}

	return fmt.Sprintf("_pragma=%s(%s)", p.name, p.value)
}
