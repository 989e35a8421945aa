package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const usersSchema = `tables:
  - name: users
    primary_key: {name: id, kind: integer}
    columns:
      - {name: email, kind: text, not_null: true}
    indexes:
      - {name: idx_users_email, columns: [email], unique: true}
`

func newDDLCmd(t *testing.T) (*cobra.Command, *bytes.Buffer) {
	t.Helper()

	buf := new(bytes.Buffer)
	cmd := &cobra.Command{Use: "ddl", Args: cobra.ExactArgs(1), RunE: runDDL}
	cmd.Flags().StringP("output", "o", "", "")
	cmd.SetOut(buf)
	cmd.SetErr(buf)

	return cmd, buf
}

func writeSchema(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "schema.yml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	return path
}

func TestRunDDL_printsScript(t *testing.T) {
	t.Parallel()

	cmd, buf := newDDLCmd(t)
	cmd.SetArgs([]string{writeSchema(t, usersSchema)})

	require.NoError(t, cmd.Execute())
	assert.Equal(t,
		`CREATE TABLE IF NOT EXISTS "users" ("id" INTEGER PRIMARY KEY AUTOINCREMENT, "email" TEXT NOT NULL);`+"\n"+
			`CREATE UNIQUE INDEX IF NOT EXISTS "idx_users_email" ON "users" ("email");`+"\n",
		buf.String())
}

func TestRunDDL_output_writesFile(t *testing.T) {
	t.Parallel()

	out := filepath.Join(t.TempDir(), "001_users.sql")

	cmd, buf := newDDLCmd(t)
	cmd.SetArgs([]string{"--output", out, writeSchema(t, usersSchema)})

	require.NoError(t, cmd.Execute())
	assert.Empty(t, buf.String())

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Contains(t, string(data), `CREATE TABLE IF NOT EXISTS "users"`)
}

func TestRunDDL_invalidSchema_returnsError(t *testing.T) {
	t.Parallel()

	cmd, _ := newDDLCmd(t)
	cmd.SetArgs([]string{writeSchema(t, "tables: [{name: t, columns: [{name: c, kind: uuid}]}]")})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "compiling")
}

func TestRunDDL_requiresOneArg(t *testing.T) {
	t.Parallel()

	cmd, _ := newDDLCmd(t)
	cmd.SetArgs([]string{})

	require.Error(t, cmd.Execute())
}
