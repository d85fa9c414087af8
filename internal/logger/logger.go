package logger

import (
	"io"
	"os"
	"strings"

	"github.com/hashicorp/go-hclog"

	"github.com/ethanolivertroy/exemplar-check/internal/models"
)

// EnvLogLevel overrides the configured log level when set
const EnvLogLevel = "EXEMPLAR_LOG_LEVEL"

// New creates an hclog.Logger named name. Logs go to stderr so that reports
// written to stdout stay machine-readable.
func New(cfg *models.Config, name string) hclog.Logger {
	return NewWithOutput(cfg, name, os.Stderr)
}

// NewWithOutput is New with an explicit writer, used by tests
func NewWithOutput(cfg *models.Config, name string, out io.Writer) hclog.Logger {
	opts := &hclog.LoggerOptions{
		Name:        name,
		Output:      out,
		Level:       determineLogLevel(cfg),
		DisableTime: true,
	}
	if cfg != nil {
		opts.DisableTime = cfg.Logger.DisableTime
		opts.JSONFormat = cfg.Logger.JSONFormat
	}
	return hclog.New(opts)
}

// determineLogLevel prefers the environment variable, then the config, and
// falls back to INFO.
func determineLogLevel(cfg *models.Config) hclog.Level {
	if env := os.Getenv(EnvLogLevel); env != "" {
		return parseLogLevel(strings.ToUpper(env))
	}
	if cfg == nil {
		return hclog.Info
	}
	return parseLogLevel(strings.ToUpper(cfg.Logger.Level))
}

func parseLogLevel(levelStr string) hclog.Level {
	switch levelStr {
	case "TRACE":
		return hclog.Trace
	case "DEBUG":
		return hclog.Debug
	case "INFO", "":
		return hclog.Info
	case "WARN":
		return hclog.Warn
	case "ERROR":
		return hclog.Error
	default:
		hclog.New(&hclog.LoggerOptions{
			Level:       hclog.Warn,
			DisableTime: true,
			Output:      os.Stderr,
		}).Warn("unrecognized log level, defaulting to INFO", "providedLevel", levelStr)
		return hclog.Info
	}
}
