package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/aqasim81/scriptdb/internal/database"
	"github.com/aqasim81/scriptdb/internal/migration"
	"github.com/aqasim81/scriptdb/internal/tracker"
)

// errDatabaseNotFound is returned by status for a database file that does not exist yet.
var errDatabaseNotFound = errors.New("database file does not exist")

var statusCmd = &cobra.Command{ //nolint:gochecknoglobals // standard Cobra pattern
	Use:   "status",
	Short: "Show migration status",
	Long: `Display the current migration status: every migration file with the
time it was applied or "pending", plus ledger rows with no matching file.`,
	RunE: runStatus,
}

func init() { //nolint:gochecknoinits // standard Cobra pattern for flag registration
	statusCmd.Flags().String("format", "text", "output format (text, json)")
	rootCmd.AddCommand(statusCmd)
}

// statusEntry is one line of the status report.
type statusEntry struct {
	Name      string     `json:"name"`
	Applied   bool       `json:"applied"`
	AppliedAt *time.Time `json:"applied_at,omitempty"`
	// Missing marks a ledger row whose file is gone from the migrations directory.
	Missing bool `json:"missing,omitempty"`
}

func runStatus(cmd *cobra.Command, _ []string) error {
	cfg := AppConfig

	if cfg.Database == "" {
		return errDatabaseRequired
	}

	format, err := outputFormat(cmd, cfg)
	if err != nil {
		return err
	}

	if !database.IsMemory(cfg.Database) {
		if _, err := os.Stat(cfg.Database); err != nil {
			return fmt.Errorf("%w: %s", errDatabaseNotFound, cfg.Database)
		}
	}

	migrations, err := migration.LoadFromDir(cfg.MigrationsDir)
	if err != nil {
		return fmt.Errorf("loading migrations: %w", err)
	}

	entries, err := collectStatus(commandContext(cmd), cfg.Database, migrations)
	if err != nil {
		return err
	}

	if format == "json" {
		return printStatusJSON(cmd.OutOrStdout(), entries)
	}

	printStatusText(cmd.OutOrStdout(), entries)

	return nil
}

// collectStatus joins the migration files with the ledger.
func collectStatus(ctx context.Context, path string, migrations []migration.Migration) ([]statusEntry, error) {
	db, err := database.Open(ctx, path, logger)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer db.Close()

	t := tracker.New(db)
	if err := t.EnsureTable(ctx); err != nil {
		return nil, err
	}

	applied, err := t.GetApplied(ctx)
	if err != nil {
		return nil, err
	}

	byName := make(map[string]tracker.AppliedMigration, len(applied))
	for _, a := range applied {
		byName[a.Name] = a
	}

	entries := make([]statusEntry, 0, len(migrations)+len(applied))

	for _, m := range migrations {
		e := statusEntry{Name: m.Name}

		if a, ok := byName[m.Name]; ok {
			at := a.AppliedAt
			e.Applied = true
			e.AppliedAt = &at

			delete(byName, m.Name)
		}

		entries = append(entries, e)
	}

	// Ledger order is applied_at, name.
	for _, a := range applied {
		if _, ok := byName[a.Name]; !ok {
			continue
		}

		at := a.AppliedAt
		entries = append(entries, statusEntry{Name: a.Name, Applied: true, AppliedAt: &at, Missing: true})
	}

	return entries, nil
}

func printStatusText(out io.Writer, entries []statusEntry) {
	if len(entries) == 0 {
		fmt.Fprintln(out, "No migrations found.")
		return
	}

	pending := 0

	for _, e := range entries {
		switch {
		case e.Missing:
			fmt.Fprintf(out, "  [missing]  %s (applied %s)\n", e.Name, e.AppliedAt.Format(time.DateTime))
		case e.Applied:
			fmt.Fprintf(out, "  [applied]  %s (%s)\n", e.Name, e.AppliedAt.Format(time.DateTime))
		default:
			fmt.Fprintf(out, "  [pending]  %s\n", e.Name)
			pending++
		}
	}

	fmt.Fprintf(out, "\n%d migration(s), %d pending.\n", len(entries), pending)
}

func printStatusJSON(out io.Writer, entries []statusEntry) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")

	if err := enc.Encode(entries); err != nil {
		return fmt.Errorf("encoding status: %w", err)
	}

	return nil
}
