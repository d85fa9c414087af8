package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ethanolivertroy/exemplar-check/internal/models"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "exemplar-check.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, models.DefaultConfig(), cfg)
}

func TestLoadFile(t *testing.T) {
	path := writeConfig(t, `
output_format = "sarif"
fail_on_error = false
kinds = ["reentrancy", "LogicError"]
workers = 8
max_steps = 5000
timeout = "250ms"
cache_ttl = "1h"
metrics_file = "/tmp/exemplar.prom"

[logger]
level = "debug"
json_format = true
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "sarif", cfg.OutputFormat)
	assert.False(t, cfg.FailOnError)
	assert.Equal(t, []string{"reentrancy", "LogicError"}, cfg.Kinds)
	assert.Equal(t, 8, cfg.Workers)
	assert.Equal(t, 5000, cfg.MaxSteps)
	assert.Equal(t, 250*time.Millisecond, cfg.Timeout)
	assert.Equal(t, time.Hour, cfg.CacheTTL)
	assert.Equal(t, "/tmp/exemplar.prom", cfg.MetricsFile)
	assert.Equal(t, "debug", cfg.Logger.Level)
	assert.True(t, cfg.Logger.JSONFormat)
	assert.True(t, cfg.Logger.DisableTime)
}

func TestLoadLoggerTimestamps(t *testing.T) {
	path := writeConfig(t, "[logger]\ndisable_time = false\n")
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.False(t, cfg.Logger.DisableTime)
	assert.False(t, cfg.Logger.JSONFormat)
	assert.Equal(t, "INFO", cfg.Logger.Level)
}

func TestLoadErrors(t *testing.T) {
	testCases := []struct {
		name    string
		content string
	}{
		{"unknown key", `colour = "red"`},
		{"bad duration", `timeout = "soon"`},
		{"bad format", `output_format = "xml"`},
		{"bad kind", `kinds = ["rowhammer"]`},
		{"negative workers", `workers = -1`},
		{"syntax", `workers = `},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tc.content))
			assert.Error(t, err)
		})
	}
}

func TestValidatePath(t *testing.T) {
	assert.Error(t, ValidatePath(filepath.Join(t.TempDir(), "nope.toml")))
	assert.Error(t, ValidatePath(t.TempDir()))
	assert.NoError(t, ValidatePath(writeConfig(t, "")))
}

func TestValidateJoinsErrors(t *testing.T) {
	cfg := models.DefaultConfig()
	cfg.Workers = 0
	cfg.Timeout = 0
	err := Validate(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "workers")
	assert.Contains(t, err.Error(), "timeout")
}
