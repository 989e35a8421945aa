package schemafile_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aqasim81/scriptdb/ddl"
	"github.com/aqasim81/scriptdb/internal/schemafile"
)

const notesSchema = `
tables:
  - name: users
    primary_key: {name: id, kind: integer}
    columns:
      - {name: email, kind: text, not_null: true, unique: true}
      - {name: active, kind: bool, default: true}
  - name: notes
    primary_key: {name: id, kind: integer, autoincrement: false}
    columns:
      - {name: user_id, kind: integer, not_null: true, references: users.id}
      - {name: body, kind: text, default: "it's"}
      - {name: created_at, kind: integer, default_expr: "strftime('%s','now')"}
    unique:
      - [user_id, body]
    checks:
      - "length(body) > 0"
    indexes:
      - {name: idx_notes_user, columns: [user_id]}
      - {name: idx_notes_created, columns: [created_at], unique: true}
`

func TestFile_Statements_compilesTablesThenIndexes(t *testing.T) {
	t.Parallel()

	f, err := schemafile.Parse([]byte(notesSchema))
	require.NoError(t, err)

	stmts, err := f.Statements()
	require.NoError(t, err)

	assert.Equal(t, []string{
		`CREATE TABLE IF NOT EXISTS "users" ("id" INTEGER PRIMARY KEY AUTOINCREMENT, "email" TEXT NOT NULL UNIQUE, "active" INTEGER DEFAULT 1);`,
		`CREATE TABLE IF NOT EXISTS "notes" ("id" INTEGER PRIMARY KEY, "user_id" INTEGER NOT NULL REFERENCES "users"("id"), ` +
			`"body" TEXT DEFAULT 'it''s', "created_at" INTEGER DEFAULT (strftime('%s','now')), ` +
			`UNIQUE ("user_id", "body"), CHECK (length(body) > 0));`,
		`CREATE INDEX IF NOT EXISTS "idx_notes_user" ON "notes" ("user_id");`,
		`CREATE UNIQUE INDEX IF NOT EXISTS "idx_notes_created" ON "notes" ("created_at");`,
	}, stmts)
}

func TestFile_Script_joinsWithNewlines(t *testing.T) {
	t.Parallel()

	f, err := schemafile.Parse([]byte(`
tables:
  - name: kv
    if_not_exists: false
    without_rowid: true
    primary_key: {name: k, kind: text}
    columns:
      - {name: v, kind: blob}
`))
	require.NoError(t, err)

	script, err := f.Script()
	require.NoError(t, err)
	assert.Equal(t, `CREATE TABLE "kv" ("k" TEXT PRIMARY KEY, "v" BLOB) WITHOUT ROWID;`, script)
}

func TestParse_errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
		wantErr error
	}{
		{name: "no tables", content: "tables: []", wantErr: schemafile.ErrInvalidFile},
		{name: "empty document", content: "", wantErr: schemafile.ErrInvalidFile},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := schemafile.Parse([]byte(tt.content))
			require.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestParse_invalidYAML(t *testing.T) {
	t.Parallel()

	_, err := schemafile.Parse([]byte("{{{"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parsing schema")
}

func TestFile_Statements_errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
		wantErr error
	}{
		{
			name:    "unknown kind",
			content: "tables: [{name: t, columns: [{name: c, kind: uuid}]}]",
			wantErr: ddl.ErrUnsupportedKind,
		},
		{
			name:    "autoincrement on text key",
			content: "tables: [{name: t, primary_key: {name: id, kind: text, autoincrement: true}}]",
			wantErr: ddl.ErrAutoIncrement,
		},
		{
			name:    "table without columns",
			content: "tables: [{name: t}]",
			wantErr: ddl.ErrNoColumns,
		},
		{
			name:    "index without columns",
			content: "tables: [{name: t, columns: [{name: c, kind: int}], indexes: [{name: i}]}]",
			wantErr: ddl.ErrNoColumns,
		},
		{
			name:    "table without name",
			content: "tables: [{columns: [{name: c, kind: int}]}]",
			wantErr: schemafile.ErrInvalidFile,
		},
		{
			name:    "column without name",
			content: "tables: [{name: t, columns: [{kind: int}]}]",
			wantErr: schemafile.ErrInvalidFile,
		},
		{
			name:    "bad reference",
			content: "tables: [{name: t, columns: [{name: c, kind: int, references: users}]}]",
			wantErr: schemafile.ErrInvalidFile,
		},
		{
			name:    "default and default_expr together",
			content: "tables: [{name: t, columns: [{name: c, kind: int, default: 1, default_expr: 'random()'}]}]",
			wantErr: schemafile.ErrInvalidFile,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			f, err := schemafile.Parse([]byte(tt.content))
			require.NoError(t, err)

			_, err = f.Statements()
			require.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestLoad_readsFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "schema.yml")
	require.NoError(t, os.WriteFile(path, []byte(notesSchema), 0o644))

	f, err := schemafile.Load(path)
	require.NoError(t, err)
	assert.Len(t, f.Tables, 2)
}

func TestLoad_missingFile(t *testing.T) {
	t.Parallel()

	_, err := schemafile.Load(filepath.Join(t.TempDir(), "nope.yml"))
	require.ErrorIs(t, err, os.ErrNotExist)
}
