package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/aqasim81/scriptdb"
	"github.com/aqasim81/scriptdb/internal/config"
)

// AppConfig holds the loaded configuration, set during PersistentPreRunE.
var AppConfig *config.Config //nolint:gochecknoglobals // standard Cobra pattern for shared config

// logger is built from --verbose during PersistentPreRunE.
var logger = slog.Default() //nolint:gochecknoglobals // standard Cobra pattern for shared state

// errUnsupportedFormat is returned for a --format other than text or json.
var errUnsupportedFormat = errors.New("unsupported output format (use text or json)")

// rootCmd is the base command for the scriptdb CLI.
var rootCmd = &cobra.Command{ //nolint:gochecknoglobals // standard Cobra pattern
	Use:     "scriptdb",
	Version: versionString(),
	Short:   "SQLite migrations, schema lint and DDL generation",
	Long: `scriptdb applies run-once SQL migrations to a SQLite database,
reports which migrations are applied, checks migration scripts for
statements that are unsafe to re-run or destroy data, and compiles YAML
table descriptions to CREATE TABLE statements.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		verbose, _ := cmd.Flags().GetBool("verbose")
		logger = newLogger(cmd.ErrOrStderr(), verbose)

		return loadConfig(cmd)
	},
}

func init() { //nolint:gochecknoinits // standard Cobra pattern for flag registration
	rootCmd.PersistentFlags().String("config", "scriptdb.yml", "path to configuration file")
	rootCmd.PersistentFlags().String("database", "", "SQLite database file")
	rootCmd.PersistentFlags().String("migrations-dir", "", "path to migration files")
	rootCmd.PersistentFlags().Bool("verbose", false, "enable debug logging")
}

// Execute runs the root command. Called from main.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	err := rootCmd.ExecuteContext(ctx)

	stop()

	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func versionString() string {
	v := scriptdb.Version()

	return fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch)
}

// newLogger returns a text logger on w; verbose enables debug records.
func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}

	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// loadConfig loads configuration with precedence: flag > env > file.
func loadConfig(cmd *cobra.Command) error {
	configPath, _ := cmd.Flags().GetString("config")
	allowMissing := !cmd.Flags().Changed("config")

	cfg, err := config.Load(configPath, allowMissing)
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}

	config.MergeEnv(cfg)
	mergeFlags(cmd, cfg)

	AppConfig = cfg

	return nil
}

// mergeFlags overrides config with explicitly-set CLI flags.
func mergeFlags(cmd *cobra.Command, cfg *config.Config) {
	if cmd.Flags().Changed("database") {
		cfg.Database, _ = cmd.Flags().GetString("database")
	}

	if cmd.Flags().Changed("migrations-dir") {
		cfg.MigrationsDir, _ = cmd.Flags().GetString("migrations-dir")
	}
}

// outputFormat resolves --format against the configured default.
func outputFormat(cmd *cobra.Command, cfg *config.Config) (string, error) {
	format := cfg.Format
	if cmd.Flags().Changed("format") {
		format, _ = cmd.Flags().GetString("format")
	}

	switch format {
	case "", "text":
		return "text", nil
	case "json":
		return format, nil
	default:
		return "", fmt.Errorf("%w: %q", errUnsupportedFormat, format)
	}
}

// commandContext returns the command's context, or Background when it runs
// outside Execute (tests).
func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}

	return context.Background()
}
