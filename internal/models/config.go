package models

import "time"

// Config holds configuration for a verification run
type Config struct {
	// Output settings
	OutputFormat string // "terminal", "json", "sarif"
	OutputFile   string // Optional output file path

	// Behavior settings
	FailOnError bool     // Exit with code 1 on failed results or harness errors
	Kinds       []string // Restrict verification to these kinds (empty = all)

	// Harness settings
	Workers  int
	MaxSteps int           // Step budget per variant invocation
	Timeout  time.Duration // Wall-clock budget per variant invocation

	// Scenario table override (TOML or YAML)
	ScenarioFile string

	// Baseline cache settings
	CacheDir string
	CacheTTL time.Duration
	NoCache  bool

	// Prometheus textfile export path (empty = disabled)
	MetricsFile string

	Logger LoggerConfig
}

// LoggerConfig controls hclog output
type LoggerConfig struct {
	Level       string `toml:"level"`
	JSONFormat  bool   `toml:"json_format"`
	DisableTime bool   `toml:"disable_time"`
}

// DefaultConfig returns a Config with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		OutputFormat: "terminal",
		FailOnError:  true,
		Workers:      4,
		MaxSteps:     100_000,
		Timeout:      5 * time.Second,
		CacheTTL:     7 * 24 * time.Hour,
		Logger: LoggerConfig{
			Level:       "INFO",
			DisableTime: true,
		},
	}
}
