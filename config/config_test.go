package config_test

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/lease-engine/config"
)

func writeFile(t *testing.T, body string) string {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad_EmptyPathReturnsDefaults(t *testing.T) {
	c, err := config.Load("")
	require.NoError(t, err)
	assert.Equal(t, config.Default(), *c)
}

func TestLoad_OverridesDefaults(t *testing.T) {
	path := writeFile(t, "max_per_day: 3\nrows_per_page: 40\nlog_level: debug\n")

	c, err := config.Load(path)
	require.NoError(t, err)

	assert.Equal(t, 3, c.MaxPerDay)
	assert.Equal(t, 40, c.RowsPerPage)
	assert.Equal(t, 8080, c.Port, "unset keys keep defaults")
	assert.Equal(t, "leases.db", c.DBPath)
}

func TestLoad_ZeroCapacityAllowed(t *testing.T) {
	c, err := config.Load(writeFile(t, "max_per_day: 0\n"))
	require.NoError(t, err)
	assert.Equal(t, 0, c.MaxPerDay)
}

func TestLoad_Invalid(t *testing.T) {
	tests := map[string]string{
		"bad yaml":       "max_per_day: [",
		"bad level":      "log_level: loud\n",
		"negative rows":  "rows_per_page: -1\n",
		"port too large": "port: 70000\n",
		"negative keep":  "retention_days: -2\n",
	}
	for name, body := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := config.Load(writeFile(t, body))
			assert.Error(t, err)
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := config.Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestParseLevel(t *testing.T) {
	level, err := config.ParseLevel("WARN")
	require.NoError(t, err)
	assert.Equal(t, slog.LevelWarn, level)
}

func TestRetention(t *testing.T) {
	c, err := config.Load(writeFile(t, "retention_days: 30\n"))
	require.NoError(t, err)
	assert.Equal(t, 30*24*time.Hour, c.Retention())

	assert.Zero(t, config.Default().RetentionDays, "retention is off by default")
}
