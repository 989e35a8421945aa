// Package ddl compiles declarative table, alter, and index descriptions into
// SQLite DDL text.
//
// The package never touches a connection. Every identifier is double-quoted
// with embedded quotes doubled; identifiers are not otherwise validated, so
// names the engine rejects (for example one containing NUL) surface as engine
// errors when the text is executed. All other problems, such as an unknown
// column kind, an unsupported default literal, or AUTOINCREMENT on a
// non-integer key, are reported by Build before any text is returned.
//
//	sql, err := ddl.CreateTable("users").
//	    PrimaryKey("id", ddl.Integer).
//	    AddField("name", ddl.Text, ddl.NotNull()).
//	    Build()
//	// CREATE TABLE IF NOT EXISTS "users" ("id" INTEGER PRIMARY KEY AUTOINCREMENT, "name" TEXT NOT NULL);
package ddl
