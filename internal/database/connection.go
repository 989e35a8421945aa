package database

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/google/uuid"
)

// MemoryPath selects a private in-memory database.
const MemoryPath = ":memory:"

// pragma is a SQLite pragma applied through the DSN so that it holds for
// every connection the driver opens.
type pragma struct {
	name  string
	value string
}

// memoryPragmas trade durability for speed; the data dies with the process.
var memoryPragmas = []pragma{ //nolint:gochecknoglobals // fixed pragma set
	{name: "foreign_keys", value: "ON"},
	{name: "busy_timeout", value: "5000"},
	{name: "journal_mode", value: "MEMORY"},
	{name: "synchronous", value: "OFF"},
	{name: "temp_store", value: "MEMORY"},
}

// persistentPragmas favour concurrent readers and crash safety.
var persistentPragmas = []pragma{ //nolint:gochecknoglobals // fixed pragma set
	{name: "foreign_keys", value: "ON"},
	{name: "busy_timeout", value: "5000"},
	{name: "journal_mode", value: "WAL"},
	{name: "synchronous", value: "NORMAL"},
}

// IsMemory reports whether path names an in-memory database.
func IsMemory(path string) bool {
	return path == MemoryPath || strings.HasPrefix(path, "file::memory:")
}

// Open opens the SQLite database at path with a single connection and
// verifies it with a ping. Every ":memory:" open gets its own uniquely named
// database, so two instances in one process never share data.
func Open(ctx context.Context, path string, logger *slog.Logger) (*sql.DB, error) {
	if logger == nil {
		logger = slog.Default()
	}

	var dsn string

	if IsMemory(path) {
		dsn = buildDSN(memoryName(), true, memoryPragmas)
		logger.Info("DB mode: in-memory")
	} else {
		if err := validatePath(path); err != nil {
			return nil, err
		}

		dsn = buildDSN(path, false, persistentPragmas)
		logger.Info("DB mode: persistent", "path", path)
	}

	logger.Debug("opening database", "driver", driverName, "dsn", dsn)

	db, err := sql.Open(driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConnectionFailed, err)
	}

	// One connection: database/sql serializes every statement, and an
	// in-memory database lives exactly as long as this connection.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)
	db.SetConnMaxIdleTime(0)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()

		return nil, fmt.Errorf("%w: %w", ErrConnectionFailed, err)
	}

	return db, nil
}

func memoryName() string {
	return "scriptdb-" + uuid.NewString()
}

func validatePath(path string) error {
	if strings.TrimSpace(path) == "" {
		return fmt.Errorf("%w: empty path", ErrInvalidPath)
	}

	info, err := os.Stat(path)
	if err == nil && info.IsDir() {
		return fmt.Errorf("%w: %s is a directory", ErrInvalidPath, path)
	}

	return nil
}

// buildDSN constructs a URI filename. Memory databases use a unique shared-cache
// name; pragma syntax is driver specific (see formatPragma).
func buildDSN(path string, memory bool, pragmas []pragma) string {
	var sb strings.Builder

	sb.WriteString("file:")
	sb.WriteString(path)

	sep := "?"
	if memory {
		sb.WriteString("?mode=memory&cache=shared")

		sep = "&"
	}

	for _, p := range pragmas {
		sb.WriteString(sep)
		sb.WriteString(formatPragma(p))

		sep = "&"
	}

	return sb.String()
}
