package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Default values for configuration fields.
const (
	DefaultMigrationsDir    = "./migrations"
	DefaultMigrationTimeout = 90 * time.Second
	DefaultShutdownTimeout  = 30 * time.Second
	DefaultFormat           = "text"
)

// Config holds the application configuration loaded from file, environment, and flags.
type Config struct {
	// Database is the SQLite file path, or ":memory:".
	Database         string
	MigrationsDir    string
	MigrationTimeout time.Duration
	ShutdownTimeout  time.Duration
	Format           string
}

// yamlConfig is the raw YAML file representation with string durations.
type yamlConfig struct {
	Database         string `yaml:"database"`
	MigrationsDir    string `yaml:"migrations_dir"`
	MigrationTimeout string `yaml:"migration_timeout"`
	ShutdownTimeout  string `yaml:"shutdown_timeout"`
	Format           string `yaml:"format"`
}

// New returns a Config populated with default values.
func New() *Config {
	return &Config{
		MigrationsDir:    DefaultMigrationsDir,
		MigrationTimeout: DefaultMigrationTimeout,
		ShutdownTimeout:  DefaultShutdownTimeout,
		Format:           DefaultFormat,
	}
}

// Load reads a YAML configuration file and returns a Config.
// If allowMissing is true and the file does not exist, defaults are returned.
func Load(path string, allowMissing bool) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) && allowMissing {
			return New(), nil
		}

		return nil, fmt.Errorf("reading config file %s: %w", path, err)
	}

	var raw yamlConfig
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parsing config file %s: %w", path, err)
	}

	return fromYAML(&raw)
}

// fromYAML converts the raw YAML representation to a Config with defaults applied.
func fromYAML(raw *yamlConfig) (*Config, error) {
	cfg := New()

	if raw.Database != "" {
		cfg.Database = raw.Database
	}

	if raw.MigrationsDir != "" {
		cfg.MigrationsDir = raw.MigrationsDir
	}

	if raw.MigrationTimeout != "" {
		d, err := parseTimeout(raw.MigrationTimeout)
		if err != nil {
			return nil, fmt.Errorf("parsing migration_timeout %q: %w", raw.MigrationTimeout, err)
		}

		cfg.MigrationTimeout = d
	}

	if raw.ShutdownTimeout != "" {
		d, err := parseTimeout(raw.ShutdownTimeout)
		if err != nil {
			return nil, fmt.Errorf("parsing shutdown_timeout %q: %w", raw.ShutdownTimeout, err)
		}

		cfg.ShutdownTimeout = d
	}

	if raw.Format != "" {
		cfg.Format = raw.Format
	}

	return cfg, nil
}

// MergeEnv overrides config fields from SCRIPTDB_* environment variables.
func MergeEnv(cfg *Config) {
	if v := os.Getenv("SCRIPTDB_DATABASE"); v != "" {
		cfg.Database = v
	}

	if v := os.Getenv("SCRIPTDB_MIGRATIONS_DIR"); v != "" {
		cfg.MigrationsDir = v
	}

	if v := os.Getenv("SCRIPTDB_MIGRATION_TIMEOUT"); v != "" {
		if d, err := parseTimeout(v); err == nil {
			cfg.MigrationTimeout = d
		}
	}

	if v := os.Getenv("SCRIPTDB_SHUTDOWN_TIMEOUT"); v != "" {
		if d, err := parseTimeout(v); err == nil {
			cfg.ShutdownTimeout = d
		}
	}

	if v := os.Getenv("SCRIPTDB_FORMAT"); v != "" {
		cfg.Format = v
	}
}

func parseTimeout(s string) (time.Duration, error) {
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, err
	}

	if d <= 0 {
		return 0, fmt.Errorf("must be positive, got %s", d)
	}

	return d, nil
}
