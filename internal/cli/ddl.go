package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/aqasim81/scriptdb/internal/schemafile"
)

var ddlCmd = &cobra.Command{ //nolint:gochecknoglobals // standard Cobra pattern
	Use:   "ddl <file.yml>",
	Short: "Compile a YAML table description to SQL",
	Long: `Read a YAML file describing tables, columns and indexes and print the
CREATE TABLE and CREATE INDEX statements for it. With --output the script
is written to a file instead, ready to be used as a migration.`,
	Args: cobra.ExactArgs(1),
	RunE: runDDL,
}

func init() { //nolint:gochecknoinits // standard Cobra pattern for flag registration
	ddlCmd.Flags().StringP("output", "o", "", "write the script to this file")
	rootCmd.AddCommand(ddlCmd)
}

func runDDL(cmd *cobra.Command, args []string) error {
	f, err := schemafile.Load(args[0])
	if err != nil {
		return err
	}

	script, err := f.Script()
	if err != nil {
		return fmt.Errorf("compiling %s: %w", args[0], err)
	}

	output, _ := cmd.Flags().GetString("output")
	if output == "" {
		fmt.Fprintln(cmd.OutOrStdout(), script)
		return nil
	}

	if err := os.WriteFile(output, []byte(script+"\n"), 0o644); err != nil { //nolint:gosec // migration files are not secret
		return fmt.Errorf("writing %s: %w", output, err)
	}

	logger.Info("wrote ddl script", "path", output)

	return nil
}
