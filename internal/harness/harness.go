// Package harness verifies every registered exemplar against its attack
// scenarios: the vulnerable variant must be compromised and the secure
// variant must not be.
package harness

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/go-hclog"
	"golang.org/x/sync/errgroup"

	"github.com/ethanolivertroy/exemplar-check/internal/catalog"
	"github.com/ethanolivertroy/exemplar-check/internal/exemplar"
	"github.com/ethanolivertroy/exemplar-check/internal/metrics"
	"github.com/ethanolivertroy/exemplar-check/internal/models"
	"github.com/ethanolivertroy/exemplar-check/internal/scenario"
)

const (
	DefaultMaxSteps = 100_000
	DefaultTimeout  = 5 * time.Second
)

// Options tunes a harness run
type Options struct {
	// Workers bounds how many exemplars are verified concurrently
	Workers int

	// MaxSteps and Timeout budget each variant invocation
	MaxSteps int
	Timeout  time.Duration

	// Kinds restricts the run; empty means every registered kind
	Kinds []models.Kind

	// Metrics is optional
	Metrics *metrics.Recorder
}

// Harness runs scenarios against a frozen registry
type Harness struct {
	registry *catalog.Registry
	table    *scenario.Table
	opts     Options
	logger   hclog.Logger
}

// Verification is everything one exemplar produced. Results that completed
// before a harness error are kept.
type Verification struct {
	Results []models.VerificationResult
	Error   *models.HarnessError
}

// New creates a harness. Zero options fall back to defaults.
func New(registry *catalog.Registry, table *scenario.Table, opts Options, logger hclog.Logger) *Harness {
	if opts.Workers < 1 {
		opts.Workers = 1
	}
	if opts.MaxSteps < 1 {
		opts.MaxSteps = DefaultMaxSteps
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &Harness{registry: registry, table: table, opts: opts, logger: logger}
}

// Run verifies the selected exemplars concurrently and aggregates the
// report in registry order. The returned error is only set when the run
// itself could not complete, e.g. on cancellation or an unknown kind.
func (h *Harness) Run(ctx context.Context) (*models.Report, error) {
	if !h.registry.Frozen() {
		return nil, errors.New("harness requires a frozen registry")
	}
	targets, err := h.targets()
	if err != nil {
		return nil, err
	}

	report := &models.Report{RunID: uuid.NewString(), StartedAt: time.Now()}
	h.logger.Info("starting verification", "run_id", report.RunID, "exemplars", len(targets), "workers", h.opts.Workers, "table", h.table.Version())

	slots := make([]*Verification, len(targets))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(h.opts.Workers)
	for i, e := range targets {
		g.Go(func() error {
			v, err := h.Verify(gctx, e)
			if err != nil {
				return err
			}
			slots[i] = v
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("verification aborted: %w", err)
	}

	for _, v := range slots {
		report.Results = append(report.Results, v.Results...)
		if v.Error != nil {
			report.HarnessErrors = append(report.HarnessErrors, v.Error)
		}
	}
	report.Duration = time.Since(report.StartedAt)
	h.opts.Metrics.ObserveReport(report)

	s := report.Summary()
	h.logger.Info("verification complete", "run_id", report.RunID, "passed", s.Passed, "failed", s.Failed, "harness_errors", s.HarnessErrors, "duration", report.Duration)
	return report, nil
}

func (h *Harness) targets() ([]exemplar.Exemplar, error) {
	if len(h.opts.Kinds) == 0 {
		var all []exemplar.Exemplar
		for e := range h.registry.All() {
			all = append(all, e)
		}
		return all, nil
	}
	selected := make([]exemplar.Exemplar, 0, len(h.opts.Kinds))
	for _, kind := range h.opts.Kinds {
		e, err := h.registry.Get(kind)
		if err != nil {
			return nil, err
		}
		selected = append(selected, e)
	}
	return selected, nil
}

// Verify runs every scenario of e in ordinal order. The first harness error
// stops verification of e only. A non-nil error means ctx ended.
func (h *Harness) Verify(ctx context.Context, e exemplar.Exemplar) (*Verification, error) {
	v := &Verification{}
	scenarios, err := h.table.Lookup(e.Kind())
	if err != nil {
		v.Error = &models.HarnessError{Kind: e.Kind(), Cause: err}
		h.reportError(v.Error)
		return v, nil
	}

	for _, s := range scenarios {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		res, err := h.VerifyScenario(ctx, e, s)
		if err != nil {
			var herr *models.HarnessError
			if errors.As(err, &herr) {
				v.Error = herr
				h.reportError(herr)
				return v, nil
			}
			return nil, err
		}
		v.Results = append(v.Results, res)
	}
	return v, nil
}

// VerifyScenario runs the vulnerable then the secure variant of e against s.
// A harness-fatal failure is returned as a *models.HarnessError; any other
// error means ctx ended.
func (h *Harness) VerifyScenario(ctx context.Context, e exemplar.Exemplar, s scenario.AttackScenario) (models.VerificationResult, error) {
	start := time.Now()

	vulnerable, vulnDetail, err := h.runVariant(ctx, e, s, models.VariantVulnerable, e.Vulnerable)
	if err != nil {
		return models.VerificationResult{}, err
	}
	secure, secureDetail, err := h.runVariant(ctx, e, s, models.VariantSecure, e.Secure)
	if err != nil {
		return models.VerificationResult{}, err
	}

	res := models.NewVerificationResult(e.Kind(), s.Ordinal, s.Name, vulnerable, secure)
	res.VulnerableDetail = vulnDetail
	res.SecureDetail = secureDetail
	res.Duration = time.Since(start)
	h.opts.Metrics.ObserveResult(res)

	if res.Passed {
		h.logger.Debug("scenario passed", "kind", e.Kind().Slug(), "scenario", s.Name)
	} else {
		h.logger.Warn("scenario failed", "kind", e.Kind().Slug(), "scenario", s.Name, "vulnerable", vulnerable, "secure", secure)
	}
	return res, nil
}

func (h *Harness) runVariant(ctx context.Context, e exemplar.Exemplar, s scenario.AttackScenario, variant models.Variant, b exemplar.Behavior) (models.Outcome, string, error) {
	inv := invoke(ctx, b, s.Input(), h.opts.MaxSteps, h.opts.Timeout)
	if inv.aborted != nil {
		return 0, "", inv.aborted
	}
	outcome, detail, err := classify(e, variant, s, inv)
	if err != nil {
		return 0, "", &models.HarnessError{
			Kind:     e.Kind(),
			Ordinal:  s.Ordinal,
			Scenario: s.Name,
			Variant:  variant,
			Cause:    err,
		}
	}
	h.logger.Trace("variant finished", "kind", e.Kind().Slug(), "scenario", s.Name, "variant", variant, "outcome", outcome, "steps", inv.steps)
	return outcome, detail, nil
}

func (h *Harness) reportError(err *models.HarnessError) {
	h.opts.Metrics.ObserveHarnessError(err)
	h.logger.Error("harness error", "kind", err.Kind.Slug(), "scenario", err.Scenario, "variant", err.Variant, "error", err.Cause)
}
