// Package scanner wires a verification run together: it builds the catalog,
// applies scenario overrides, runs the harness and compares the outcome with
// the cached baseline.
package scanner

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/hashicorp/go-hclog"

	"github.com/ethanolivertroy/exemplar-check/internal/cache"
	"github.com/ethanolivertroy/exemplar-check/internal/catalog"
	"github.com/ethanolivertroy/exemplar-check/internal/exemplars"
	"github.com/ethanolivertroy/exemplar-check/internal/harness"
	"github.com/ethanolivertroy/exemplar-check/internal/metrics"
	"github.com/ethanolivertroy/exemplar-check/internal/models"
	"github.com/ethanolivertroy/exemplar-check/internal/parsers"
	"github.com/ethanolivertroy/exemplar-check/internal/scenario"
)

// AppName names the cache directory
const AppName = "exemplar-check"

// Scanner orchestrates a verification run
type Scanner struct {
	config   *models.Config
	logger   hclog.Logger
	registry *catalog.Registry
	table    *scenario.Table
	cache    *cache.Cache
	metrics  *metrics.Recorder
}

// New builds the catalog and scenario table for config
func New(config *models.Config, logger hclog.Logger) (*Scanner, error) {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}

	registry, err := catalog.Build(logger.Named("catalog"), exemplars.Constructors()...)
	if err != nil {
		return nil, fmt.Errorf("failed to build catalog: %w", err)
	}

	table, err := LoadTable(config.ScenarioFile)
	if err != nil {
		return nil, err
	}

	s := &Scanner{
		config:   config,
		logger:   logger,
		registry: registry,
		table:    table,
	}

	if !config.NoCache {
		s.cache, err = openCache(config)
		if err != nil {
			// Non-fatal: continue without baselines
			logger.Warn("baseline cache unavailable", "error", err)
			s.cache = nil
		}
	}

	if config.MetricsFile != "" {
		s.metrics, err = metrics.New()
		if err != nil {
			return nil, err
		}
	}
	return s, nil
}

func openCache(config *models.Config) (*cache.Cache, error) {
	if config.CacheDir != "" {
		return cache.NewAt(config.CacheDir, config.CacheTTL)
	}
	return cache.New(AppName, config.CacheTTL)
}

// LoadTable returns the built-in table, with overrides from path if set
func LoadTable(path string) (*scenario.Table, error) {
	table, err := exemplars.DefaultTable()
	if err != nil {
		return nil, fmt.Errorf("invalid built-in scenarios: %w", err)
	}
	if path == "" {
		return table, nil
	}
	file, err := parsers.ParseFile(path)
	if err != nil {
		return nil, err
	}
	table, err = table.WithOverrides(file)
	if err != nil {
		return nil, fmt.Errorf("failed to apply scenario file %s: %w", path, err)
	}
	return table, nil
}

// Registry returns the frozen catalog
func (s *Scanner) Registry() *catalog.Registry {
	return s.registry
}

// Table returns the scenario table in effect
func (s *Scanner) Table() *scenario.Table {
	return s.table
}

// Scan performs the full verification run
func (s *Scanner) Scan(ctx context.Context) (*models.Report, error) {
	kinds, err := s.kinds()
	if err != nil {
		return nil, err
	}

	h := harness.New(s.registry, s.table, harness.Options{
		Workers:  s.config.Workers,
		MaxSteps: s.config.MaxSteps,
		Timeout:  s.config.Timeout,
		Kinds:    kinds,
		Metrics:  s.metrics,
	}, s.logger.Named("harness"))

	report, err := h.Run(ctx)
	if err != nil {
		return nil, err
	}

	s.compareBaseline(report, len(kinds) == 0)

	if s.config.MetricsFile != "" {
		if err := s.metrics.WriteTextfile(s.config.MetricsFile); err != nil {
			s.logger.Warn("failed to export metrics", "error", err)
		}
	}
	return report, nil
}

// kinds resolves the kind filter, dropping repeats in first-seen order
func (s *Scanner) kinds() ([]models.Kind, error) {
	var kinds []models.Kind
	for _, name := range s.config.Kinds {
		k, err := models.ParseKind(name)
		if err != nil {
			return nil, err
		}
		if !slices.Contains(kinds, k) {
			kinds = append(kinds, k)
		}
	}
	return kinds, nil
}

// compareBaseline fills report.Regressions and records the new baseline.
// Only full runs replace the stored baseline.
func (s *Scanner) compareBaseline(report *models.Report, fullRun bool) {
	if s.cache == nil {
		return
	}
	fingerprint := s.registry.Fingerprint(s.table.Digest())
	if baseline, ok := s.cache.LoadBaseline(fingerprint); ok {
		report.Regressions = models.Regressions(baseline.Outcomes, report.Results)
		if len(report.Regressions) > 0 {
			s.logger.Warn("regressions against baseline", "baseline_run", baseline.RunID, "count", len(report.Regressions))
		}
	}
	if !fullRun {
		return
	}
	err := s.cache.SaveBaseline(&cache.Baseline{
		Fingerprint: fingerprint,
		RunID:       report.RunID,
		RecordedAt:  time.Now().UTC(),
		Outcomes:    report.Outcomes(),
	})
	if err != nil {
		s.logger.Warn("failed to save baseline", "error", err)
	}
}
