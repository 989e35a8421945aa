package tracker

// createSchemaSQL is the DDL for the applied_migrations ledger.
const createSchemaSQL = `CREATE TABLE IF NOT EXISTS applied_migrations (
    name       TEXT PRIMARY KEY,
    applied_at TEXT NOT NULL DEFAULT (datetime('now'))
)`

// timeLayout matches SQLite's datetime('now') output.
const timeLayout = "2006-01-02 15:04:05"
