package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/aqasim81/scriptdb"
	"github.com/aqasim81/scriptdb/internal/analyzer"
	"github.com/aqasim81/scriptdb/internal/analyzer/rules"
	"github.com/aqasim81/scriptdb/internal/config"
	"github.com/aqasim81/scriptdb/internal/database"
	"github.com/aqasim81/scriptdb/internal/executor"
	"github.com/aqasim81/scriptdb/internal/migration"
	"github.com/aqasim81/scriptdb/internal/tracker"
)

// errDangerousMigrations is returned when migrate is blocked by high/critical findings.
var errDangerousMigrations = errors.New("migrate aborted: dangerous migrations detected (use --force to override)")

// errDatabaseRequired is returned when no database file is configured.
var errDatabaseRequired = errors.New( //nolint:gochecknoglobals // sentinel error
	"database is required (set --database, SCRIPTDB_DATABASE, or database in config)",
)

var migrateCmd = &cobra.Command{ //nolint:gochecknoglobals // standard Cobra pattern
	Use:   "migrate",
	Short: "Apply pending migrations",
	Long: `Apply every *.sql file in the migrations directory that is not yet
recorded in the applied_migrations table, in file name order. Scripts with
high or critical findings are refused unless --force is given.`,
	RunE: runMigrate,
}

func init() { //nolint:gochecknoinits // standard Cobra pattern for flag registration
	migrateCmd.Flags().Bool("dry-run", false, "show what would be applied without executing")
	migrateCmd.Flags().Bool("force", false, "skip safety checks")
	migrateCmd.Flags().Duration("timeout", 0, "override the migration timeout (e.g., 30s, 5m)")
	rootCmd.AddCommand(migrateCmd)
}

func runMigrate(cmd *cobra.Command, _ []string) error {
	cfg := AppConfig

	if cfg.Database == "" {
		return errDatabaseRequired
	}

	dryRun, _ := cmd.Flags().GetBool("dry-run")
	force, _ := cmd.Flags().GetBool("force")

	timeout := cfg.MigrationTimeout
	if cmd.Flags().Changed("timeout") {
		timeout, _ = cmd.Flags().GetDuration("timeout")
	}

	sorted, err := loadMigrations(cfg.MigrationsDir, cmd.OutOrStdout())
	if err != nil || sorted == nil {
		return err
	}

	if !force && !dryRun {
		if blocked, analyzeErr := checkDangerousMigrations(cmd, sorted); analyzeErr != nil {
			return analyzeErr
		} else if blocked {
			return errDangerousMigrations
		}
	}

	ctx := commandContext(cmd)

	if dryRun {
		return previewMigrations(ctx, cmd.OutOrStdout(), cfg, sorted)
	}

	return applyMigrations(ctx, cmd.OutOrStdout(), cfg, sorted, timeout)
}

func loadMigrations(dir string, out io.Writer) ([]migration.Migration, error) {
	migrations, err := migration.LoadFromDir(dir)
	if err != nil {
		return nil, fmt.Errorf("loading migrations: %w", err)
	}

	if len(migrations) == 0 {
		fmt.Fprintln(out, "No migration files found.")
		return nil, nil //nolint:nilnil // nil,nil signals "no migrations, no error"
	}

	return migrations, nil
}

// progressPrinter reports executor progress events on out.
type progressPrinter struct {
	out     io.Writer
	applied int
	skipped int
	pending int
}

func (p *progressPrinter) handle(event executor.ProgressEvent) {
	switch event.Status {
	case executor.StatusStarting:
		fmt.Fprintf(p.out, "  Applying %s ... ", event.Migration.Name)
	case executor.StatusCompleted:
		fmt.Fprintf(p.out, "done (%s)\n", event.Duration.Truncate(time.Millisecond))
		p.applied++
	case executor.StatusSkipped:
		p.skipped++
	case executor.StatusPending:
		fmt.Fprintf(p.out, "  Would apply %s\n", event.Migration.Name)
		p.pending++
	case executor.StatusFailed:
		fmt.Fprintf(p.out, "FAILED\n")
		fmt.Fprintf(p.out, "    Error: %v\n", event.Error)
	}
}

// applyMigrations opens the database through scriptdb.Open, which applies
// the migrations before returning, then closes it.
func applyMigrations(
	ctx context.Context,
	out io.Writer,
	cfg *config.Config,
	sorted []migration.Migration,
	timeout time.Duration,
) error {
	progress := &progressPrinter{out: out}

	db, err := scriptdb.Open(ctx, scriptdb.Config{
		Path:             cfg.Database,
		Migrations:       sorted,
		Logger:           logger,
		MigrationTimeout: timeout,
		ShutdownTimeout:  cfg.ShutdownTimeout,
		OnMigration:      progress.handle,
	})
	if err != nil {
		return fmt.Errorf("migrating %s: %w", cfg.Database, err)
	}

	if err := db.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", cfg.Database, err)
	}

	fmt.Fprintf(out, "\nMigrate complete: %d applied, %d skipped.\n", progress.applied, progress.skipped)

	return nil
}

// previewMigrations reports which migrations would run without running them.
func previewMigrations(ctx context.Context, out io.Writer, cfg *config.Config, sorted []migration.Migration) error {
	db, err := database.Open(ctx, cfg.Database, logger)
	if err != nil {
		return fmt.Errorf("opening %s: %w", cfg.Database, err)
	}
	defer db.Close()

	progress := &progressPrinter{out: out}

	exec := executor.New(db, tracker.New(db),
		executor.WithDryRun(true),
		executor.WithLogger(logger),
		executor.WithProgressCallback(progress.handle),
	)

	fmt.Fprintln(out, "--- DRY RUN (no changes will be made) ---")

	if err := exec.Apply(ctx, sorted); err != nil {
		return err
	}

	fmt.Fprintf(out, "\nDry run complete: %d migration(s) would be applied, %d already applied.\n",
		progress.pending, progress.skipped)

	return nil
}

// checkDangerousMigrations runs the analyzer and returns true if
// HIGH/CRITICAL findings were found (blocking migrate).
func checkDangerousMigrations(cmd *cobra.Command, sorted []migration.Migration) (bool, error) {
	a := analyzer.New(analyzer.WithRegistry(rules.NewDefaultRegistry()))

	results, err := a.AnalyzeAll(sorted)
	if err != nil {
		return false, fmt.Errorf("analyzing migrations: %w", err)
	}

	hasHighOrCritical := printAnalysisResults(cmd, results)

	return hasHighOrCritical, nil
}
