package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
)

// Config holds the process configuration. The positional input path is the
// only required surface; everything else is optional and defaults to the
// plain one-argument, stdout-only run.
type Config struct {
	InputPath   string
	AuditDBPath string
	SnapshotDSN string
	LogLevel    slog.Level
}

// Load builds the configuration from command-line arguments and environment
// variables. args is the argument list without the program name.
func Load(args []string) (*Config, error) {
	cfg := &Config{
		AuditDBPath: os.Getenv("SETTLER_AUDIT_DB"),
		SnapshotDSN: os.Getenv("SETTLER_SNAPSHOT_DSN"),
	}

	if len(args) > 0 {
		cfg.InputPath = args[0]
	}
	if len(args) > 1 {
		return nil, fmt.Errorf("unexpected extra arguments: %s", strings.Join(args[1:], " "))
	}

	level, err := parseLevel(os.Getenv("SETTLER_LOG_LEVEL"))
	if err != nil {
		return nil, err
	}
	cfg.LogLevel = level

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks that the configuration is valid.
func (c *Config) Validate() error {
	if c.InputPath == "" {
		return errors.New("missing required argument: path to the transactions file")
	}
	return nil
}

// parseLevel maps a SETTLER_LOG_LEVEL token to a slog level. The default is
// warn so a default run emits nothing but the snapshot CSV.
func parseLevel(token string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(token)) {
	case "":
		return slog.LevelWarn, nil
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("invalid SETTLER_LOG_LEVEL %q", token)
	}
}
