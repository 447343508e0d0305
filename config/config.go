package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the on-disk configuration shape (YAML).
// Command-line flags override any value set here.
type Config struct {
	MaxPerDay      int      `yaml:"max_per_day"`
	RowsPerPage    int      `yaml:"rows_per_page"`
	Port           int      `yaml:"port"`
	DBPath         string   `yaml:"db_path"`
	LogLevel       string   `yaml:"log_level"`
	AllowedOrigins []string `yaml:"allowed_origins"`

	// RetentionDays prunes saved runs older than this many days; 0 keeps them forever.
	RetentionDays int `yaml:"retention_days"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		MaxPerDay:      5,
		RowsPerPage:    26,
		Port:           8080,
		DBPath:         "leases.db",
		LogLevel:       "info",
		AllowedOrigins: []string{"http://localhost:5173", "http://localhost:8080"},
	}
}

// Load reads path over the defaults and validates the result.
// An empty path returns the defaults.
func Load(path string) (*Config, error) {
	c := Default()
	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		if err := yaml.Unmarshal(raw, &c); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}
	// max_per_day <= 0 is allowed: every lease then keeps its ideal date.
	if c.RowsPerPage < 0 {
		return errors.New("rows_per_page must not be negative")
	}
	if c.RetentionDays < 0 {
		return errors.New("retention_days must not be negative")
	}
	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("port %d out of range", c.Port)
	}
	if _, err := ParseLevel(c.LogLevel); err != nil {
		return err
	}
	return nil
}

// Retention returns RetentionDays as a duration.
func (c *Config) Retention() time.Duration {
	return time.Duration(c.RetentionDays) * 24 * time.Hour
}

// ParseLevel maps a config log level to slog.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("unknown log_level %q", s)
	}
}

// NewLogger builds the process logger: text on stderr at the configured level.
func (c *Config) NewLogger() *slog.Logger {
	level, _ := ParseLevel(c.LogLevel)
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}
