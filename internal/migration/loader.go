package migration

import (
	"fmt"
	"io/fs"
	"os"
	"path"
	"regexp"
	"strings"
)

// filenamePattern matches script migrations such as 001_create_users.sql or
// 20240101120000_add_email.sql. The name is the file name without ".sql".
var filenamePattern = regexp.MustCompile( //nolint:gochecknoglobals // compiled once, used by LoadFromFS
	`^([0-9A-Za-z][0-9A-Za-z_.\-]*)\.sql$`,
)

// LoadFromDir reads script migrations from a directory on disk.
func LoadFromDir(dir string) ([]Migration, error) {
	if _, err := os.Stat(dir); err != nil {
		return nil, fmt.Errorf("reading migrations directory %s: %w", dir, err)
	}

	ms, err := LoadFromFS(os.DirFS(dir))
	if err != nil {
		return nil, fmt.Errorf("reading migrations directory %s: %w", dir, err)
	}

	return ms, nil
}

// LoadFromFS reads every top-level *.sql file in fsys as a script migration
// and returns them sorted by name. Files that do not match the naming pattern,
// *.down.sql files, and empty files are skipped.
func LoadFromFS(fsys fs.FS) ([]Migration, error) {
	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return nil, err
	}

	var migrations []Migration

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		matches := filenamePattern.FindStringSubmatch(entry.Name())
		if matches == nil || strings.HasSuffix(entry.Name(), ".down.sql") {
			continue
		}

		data, err := fs.ReadFile(fsys, entry.Name())
		if err != nil {
			return nil, fmt.Errorf("reading migration file %s: %w", entry.Name(), err)
		}

		body := strings.TrimSpace(string(data))
		if body == "" {
			continue
		}

		m := Script(matches[1], body)
		m.Source = path.Clean(entry.Name())
		migrations = append(migrations, m)
	}

	return Sort(migrations), nil
}
