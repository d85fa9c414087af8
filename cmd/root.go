package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"

	"github.com/ethanolivertroy/exemplar-check/internal/config"
	"github.com/ethanolivertroy/exemplar-check/internal/logger"
	"github.com/ethanolivertroy/exemplar-check/internal/models"
	"github.com/ethanolivertroy/exemplar-check/internal/reporter"
	"github.com/ethanolivertroy/exemplar-check/internal/scanner"
)

// ErrVerificationFailed is returned when results failed or harness errors
// occurred and failing is enabled
var ErrVerificationFailed = errors.New("verification failed")

var (
	flagConfig    string
	flagOutput    string
	flagFormat    string
	flagNoFail    bool
	flagNoCache   bool
	flagWorkers   int
	flagMaxSteps  int
	flagTimeout   string
	flagScenarios string
	flagKinds     []string
	flagMetrics   string
)

// newRootCmd builds the base command with its subcommands. Registering the
// flags also resets their bound variables to the defaults.
func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "exemplar-check",
		Short: "Verify that every vulnerability exemplar is exploitable and its fix holds",
		Long: `exemplar-check runs each registered vulnerability exemplar against its
attack scenarios. A kind passes when the attack compromises the vulnerable
implementation and does not compromise the secure one.

Failures the exemplar declares (arithmetic overflow, bounds violations,
authorization aborts, exhausted step budgets) are contained and turned into
outcomes. Anything else is reported as a harness error, separately from
failing results.

Examples:
  # Verify the whole catalog
  exemplar-check

  # Verify two kinds only
  exemplar-check --kind reentrancy --kind logic-error

  # Output SARIF for code scanning
  exemplar-check --format sarif --output results.sarif

  # Override scenario setup values
  exemplar-check --scenarios scenarios.toml

  # Don't fail on failing results (exit 0 regardless)
  exemplar-check --no-fail`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runCheck,
	}

	rootCmd.PersistentFlags().StringVarP(&flagConfig, "config", "c", "", "Path to a TOML config file")
	rootCmd.Flags().StringVarP(&flagOutput, "output", "o", "", "Output file path (default: stdout)")
	rootCmd.Flags().StringVarP(&flagFormat, "format", "f", "terminal", "Output format: terminal, json, sarif")
	rootCmd.Flags().BoolVar(&flagNoFail, "no-fail", false, "Don't exit with error code on failing results")
	rootCmd.Flags().BoolVar(&flagNoCache, "no-cache", false, "Disable baseline caching")
	rootCmd.Flags().IntVar(&flagWorkers, "workers", 4, "Number of exemplars verified concurrently")
	rootCmd.Flags().IntVar(&flagMaxSteps, "max-steps", 100_000, "Step budget per variant invocation")
	rootCmd.Flags().StringVar(&flagTimeout, "timeout", "5s", "Time budget per variant invocation")
	rootCmd.Flags().StringVar(&flagScenarios, "scenarios", "", "TOML or YAML file overriding scenario setup")
	rootCmd.Flags().StringSliceVarP(&flagKinds, "kind", "k", nil, "Only verify these kinds (repeatable)")
	rootCmd.Flags().StringVar(&flagMetrics, "metrics-file", "", "Write Prometheus metrics to this textfile")

	rootCmd.AddCommand(newListCmd(), newShowCmd(), newAnnotationsCmd(), newVersionCmd())
	return rootCmd
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		if errors.Is(err, ErrVerificationFailed) {
			stop()
			os.Exit(1)
		}
		fmt.Fprintln(os.Stderr, "Error:", err)
		stop()
		os.Exit(2)
	}
}

// loadConfig reads --config and applies explicitly set flags on top
func loadConfig(cmd *cobra.Command) (*models.Config, error) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("format") {
		cfg.OutputFormat = flagFormat
	}
	if flags.Changed("output") {
		cfg.OutputFile = flagOutput
	}
	if flags.Changed("no-fail") {
		cfg.FailOnError = !flagNoFail
	}
	if flags.Changed("no-cache") {
		cfg.NoCache = flagNoCache
	}
	if flags.Changed("workers") {
		cfg.Workers = flagWorkers
	}
	if flags.Changed("max-steps") {
		cfg.MaxSteps = flagMaxSteps
	}
	if flags.Changed("timeout") {
		d, err := time.ParseDuration(flagTimeout)
		if err != nil {
			return nil, fmt.Errorf("invalid --timeout: %w", err)
		}
		cfg.Timeout = d
	}
	if flags.Changed("scenarios") {
		cfg.ScenarioFile = flagScenarios
	}
	if flags.Changed("kind") {
		cfg.Kinds = flagKinds
	}
	if flags.Changed("metrics-file") {
		cfg.MetricsFile = flagMetrics
	}

	if err := config.Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func runCheck(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	log := logger.New(cfg, "exemplar-check")

	// Create scanner
	s, err := scanner.New(cfg, log)
	if err != nil {
		return fmt.Errorf("failed to initialize scanner: %w", err)
	}

	// Run verification
	report, err := s.Scan(cmd.Context())
	if err != nil {
		return fmt.Errorf("verification run failed: %w", err)
	}

	// Generate report
	output, err := reporter.Get(cfg.OutputFormat, s.Registry()).Report(report)
	if err != nil {
		return fmt.Errorf("failed to generate report: %w", err)
	}

	// Write output
	if err := writeOutput(cmd.OutOrStdout(), cfg.OutputFile, output); err != nil {
		return err
	}
	if cfg.OutputFile != "" {
		log.Info("report written", "path", cfg.OutputFile)
	}

	if !report.OK() && cfg.FailOnError {
		s := report.Summary()
		return fmt.Errorf("%w: %d failed, %d harness errors", ErrVerificationFailed, s.Failed, s.HarnessErrors)
	}
	return nil
}

func writeOutput(stdout io.Writer, path string, output []byte) error {
	if path == "" {
		_, err := stdout.Write(output)
		return err
	}
	if err := os.WriteFile(path, output, 0o644); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}
	return nil
}
