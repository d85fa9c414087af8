package logger

import (
	"bytes"
	"testing"

	"github.com/hashicorp/go-hclog"
	"github.com/stretchr/testify/assert"

	"github.com/ethanolivertroy/exemplar-check/internal/models"
)

func TestDetermineLogLevel(t *testing.T) {
	cfg := models.DefaultConfig()
	cfg.Logger.Level = "debug"

	t.Setenv(EnvLogLevel, "")
	assert.Equal(t, hclog.Debug, determineLogLevel(cfg))
	assert.Equal(t, hclog.Info, determineLogLevel(nil))

	t.Setenv(EnvLogLevel, "trace")
	assert.Equal(t, hclog.Trace, determineLogLevel(cfg))
}

func TestParseLogLevel(t *testing.T) {
	assert.Equal(t, hclog.Warn, parseLogLevel("WARN"))
	assert.Equal(t, hclog.Error, parseLogLevel("ERROR"))
	assert.Equal(t, hclog.Info, parseLogLevel(""))
	assert.Equal(t, hclog.Info, parseLogLevel("LOUD"))
}

func TestNewWithOutput(t *testing.T) {
	t.Setenv(EnvLogLevel, "")
	cfg := models.DefaultConfig()
	cfg.Logger.Level = "warn"

	var buf bytes.Buffer
	log := NewWithOutput(cfg, "exemplar-check", &buf)
	log.Info("hidden")
	log.Warn("shown", "kind", "reentrancy")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "exemplar-check: shown")
	assert.Contains(t, out, "kind=reentrancy")
}

func TestJSONFormat(t *testing.T) {
	t.Setenv(EnvLogLevel, "")
	cfg := models.DefaultConfig()
	cfg.Logger.JSONFormat = true

	var buf bytes.Buffer
	NewWithOutput(cfg, "exemplar-check", &buf).Info("hello")
	assert.Contains(t, buf.String(), `"@message":"hello"`)
}
