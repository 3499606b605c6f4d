// Package config loads the librarian settings from an optional YAML file,
// a .env file and LIBRARY_* environment variables, in increasing priority.
package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"library-loans/library"
)

// Config holds all configuration for the application.
type Config struct {
	PenaltyFormula string `yaml:"penalty_formula"`
	GraceDays      int    `yaml:"grace_days"`
	// JournalDSN is the SQLite DSN of the journal. Empty means in-memory.
	JournalDSN string `yaml:"journal_dsn"`
	// Seed is an optional YAML file of items and patrons loaded at startup.
	Seed      string `yaml:"seed"`
	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"`

	Policy library.PenaltyPolicy `yaml:"-"`
	Level  slog.Level            `yaml:"-"`
}

func defaults() *Config {
	return &Config{
		PenaltyFormula: library.FormulaProportional.String(),
		GraceDays:      library.DefaultGraceDays,
		LogLevel:       "info",
		LogFormat:      "text",
	}
}

// Load builds the configuration. path may be empty; a named file that does
// not exist is an error. A missing .env file is not.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	cfg := defaults()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	cfg.PenaltyFormula = getEnv("LIBRARY_PENALTY_FORMULA", cfg.PenaltyFormula)
	cfg.JournalDSN = getEnv("LIBRARY_JOURNAL_DSN", cfg.JournalDSN)
	cfg.Seed = getEnv("LIBRARY_SEED", cfg.Seed)
	cfg.LogLevel = getEnv("LIBRARY_LOG_LEVEL", cfg.LogLevel)
	cfg.LogFormat = getEnv("LIBRARY_LOG_FORMAT", cfg.LogFormat)
	if v := os.Getenv("LIBRARY_GRACE_DAYS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("LIBRARY_GRACE_DAYS: invalid integer %q", v)
		}
		cfg.GraceDays = n
	}

	if err := cfg.finalize(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// finalize validates the raw fields and derives Policy and Level.
func (c *Config) finalize() error {
	formula, err := library.ParsePenaltyFormula(c.PenaltyFormula)
	if err != nil {
		return fmt.Errorf("penalty_formula: %w", err)
	}
	if c.GraceDays < 0 {
		return fmt.Errorf("grace_days: must not be negative, got %d", c.GraceDays)
	}
	c.Policy = library.PenaltyPolicy{Formula: formula, GraceDays: c.GraceDays}

	if c.Level, err = parseLogLevel(c.LogLevel); err != nil {
		return fmt.Errorf("log_level: %w", err)
	}
	c.LogFormat = strings.ToLower(c.LogFormat)
	if c.LogFormat != "json" && c.LogFormat != "text" {
		return fmt.Errorf("log_format: invalid value %q (must be json or text)", c.LogFormat)
	}
	return nil
}

// SetPenaltyFormula overrides the formula, e.g. from a command-line flag.
func (c *Config) SetPenaltyFormula(s string) error {
	c.PenaltyFormula = s
	return c.finalize()
}

// SetLogLevel overrides the log level, e.g. from a command-line flag.
func (c *Config) SetLogLevel(s string) error {
	c.LogLevel = s
	return c.finalize()
}

// SetupLogger creates the application logger writing to w.
func SetupLogger(cfg *Config, w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{
		Level: cfg.Level,
	}

	var handler slog.Handler
	if cfg.LogFormat == "json" {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}

	logger := slog.New(handler)
	slog.SetDefault(logger)
	return logger
}

func parseLogLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return slog.LevelInfo, fmt.Errorf("invalid value %q (must be debug, info, warn or error)", s)
}

// getEnv gets environment variable with default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
