// Package config loads run configuration from TOML files.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/ethanolivertroy/exemplar-check/internal/models"
)

// fileConfig mirrors models.Config with durations as strings, since TOML has
// no native duration type
type fileConfig struct {
	OutputFormat string     `toml:"output_format"`
	OutputFile   string     `toml:"output_file"`
	FailOnError  *bool      `toml:"fail_on_error"`
	Kinds        []string   `toml:"kinds"`
	Workers      int        `toml:"workers"`
	MaxSteps     int        `toml:"max_steps"`
	Timeout      string     `toml:"timeout"`
	ScenarioFile string     `toml:"scenario_file"`
	CacheDir     string     `toml:"cache_dir"`
	CacheTTL     string     `toml:"cache_ttl"`
	NoCache      bool       `toml:"no_cache"`
	MetricsFile  string     `toml:"metrics_file"`
	Logger       fileLogger `toml:"logger"`
}

type fileLogger struct {
	Level       string `toml:"level"`
	JSONFormat  *bool  `toml:"json_format"`
	DisableTime *bool  `toml:"disable_time"`
}

// ValidatePath checks that path exists and is a regular file
func ValidatePath(path string) error {
	s, err := os.Stat(path)
	if err != nil {
		return err
	}
	if s.IsDir() {
		return fmt.Errorf("'%s' is a directory, not a file", path)
	}
	return nil
}

// Load reads a TOML config file over the defaults. An empty path returns
// the defaults unchanged.
func Load(path string) (*models.Config, error) {
	cfg := models.DefaultConfig()
	if path == "" {
		return cfg, nil
	}
	if err := ValidatePath(path); err != nil {
		return nil, err
	}

	var fc fileConfig
	md, err := toml.DecodeFile(path, &fc)
	if err != nil {
		return nil, fmt.Errorf("failed to decode config %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("unknown config key %q in %s", undecoded[0].String(), path)
	}

	if err := merge(cfg, &fc); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func merge(cfg *models.Config, fc *fileConfig) error {
	if fc.OutputFormat != "" {
		cfg.OutputFormat = fc.OutputFormat
	}
	if fc.OutputFile != "" {
		cfg.OutputFile = fc.OutputFile
	}
	if fc.FailOnError != nil {
		cfg.FailOnError = *fc.FailOnError
	}
	if len(fc.Kinds) > 0 {
		cfg.Kinds = fc.Kinds
	}
	if fc.Workers != 0 {
		cfg.Workers = fc.Workers
	}
	if fc.MaxSteps != 0 {
		cfg.MaxSteps = fc.MaxSteps
	}
	if fc.Timeout != "" {
		d, err := time.ParseDuration(fc.Timeout)
		if err != nil {
			return fmt.Errorf("timeout: %w", err)
		}
		cfg.Timeout = d
	}
	if fc.ScenarioFile != "" {
		cfg.ScenarioFile = fc.ScenarioFile
	}
	if fc.CacheDir != "" {
		cfg.CacheDir = fc.CacheDir
	}
	if fc.CacheTTL != "" {
		d, err := time.ParseDuration(fc.CacheTTL)
		if err != nil {
			return fmt.Errorf("cache_ttl: %w", err)
		}
		cfg.CacheTTL = d
	}
	cfg.NoCache = cfg.NoCache || fc.NoCache
	if fc.MetricsFile != "" {
		cfg.MetricsFile = fc.MetricsFile
	}
	if fc.Logger.Level != "" {
		cfg.Logger.Level = fc.Logger.Level
	}
	if fc.Logger.JSONFormat != nil {
		cfg.Logger.JSONFormat = *fc.Logger.JSONFormat
	}
	if fc.Logger.DisableTime != nil {
		cfg.Logger.DisableTime = *fc.Logger.DisableTime
	}
	return nil
}

// Validate checks value ranges that flags and files can both get wrong
func Validate(cfg *models.Config) error {
	var errs []error
	switch cfg.OutputFormat {
	case "terminal", "json", "sarif":
	default:
		errs = append(errs, fmt.Errorf("unsupported output format %q", cfg.OutputFormat))
	}
	if cfg.Workers <= 0 {
		errs = append(errs, fmt.Errorf("workers must be positive, got %d", cfg.Workers))
	}
	if cfg.MaxSteps <= 0 {
		errs = append(errs, fmt.Errorf("max_steps must be positive, got %d", cfg.MaxSteps))
	}
	if cfg.Timeout <= 0 {
		errs = append(errs, fmt.Errorf("timeout must be positive, got %s", cfg.Timeout))
	}
	for _, k := range cfg.Kinds {
		if _, err := models.ParseKind(k); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
