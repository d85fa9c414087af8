// Package metrics records verification counters in a private Prometheus
// registry and exports them in the node exporter textfile format.
package metrics

import (
	"fmt"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/ethanolivertroy/exemplar-check/internal/models"
)

// Recorder collects metrics for harness runs. A nil *Recorder is valid and
// records nothing.
type Recorder struct {
	registry *prometheus.Registry

	verificationsTotal *prometheus.CounterVec
	outcomesTotal      *prometheus.CounterVec
	harnessErrorsTotal *prometheus.CounterVec
	variantSeconds     *prometheus.HistogramVec
	lastRunPassed      prometheus.Gauge
}

// New creates a recorder with its own registry
func New() (*Recorder, error) {
	r := &Recorder{registry: prometheus.NewRegistry()}

	r.verificationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "exemplar_check_verifications_total",
			Help: "Total number of scenario verifications by kind and verdict",
		},
		[]string{"kind", "passed"},
	)
	r.outcomesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "exemplar_check_outcomes_total",
			Help: "Total number of variant outcomes by kind, variant and outcome",
		},
		[]string{"kind", "variant", "outcome"},
	)
	r.harnessErrorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "exemplar_check_harness_errors_total",
			Help: "Total number of harness-fatal errors by kind",
		},
		[]string{"kind"},
	)
	r.variantSeconds = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "exemplar_check_verification_duration_seconds",
			Help:    "Time taken to verify one scenario against both variants",
			Buckets: prometheus.ExponentialBuckets(0.0001, 4, 10),
		},
		[]string{"kind"},
	)
	r.lastRunPassed = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "exemplar_check_last_run_ok",
		Help: "1 if the last run had no failures and no harness errors",
	})

	collectors := []prometheus.Collector{
		r.verificationsTotal,
		r.outcomesTotal,
		r.harnessErrorsTotal,
		r.variantSeconds,
		r.lastRunPassed,
	}
	for _, c := range collectors {
		if err := r.registry.Register(c); err != nil {
			return nil, fmt.Errorf("failed to register metric: %w", err)
		}
	}
	return r, nil
}

// Registry exposes the underlying registry, mainly for tests
func (r *Recorder) Registry() *prometheus.Registry {
	if r == nil {
		return nil
	}
	return r.registry
}

// ObserveResult records one verification verdict
func (r *Recorder) ObserveResult(res models.VerificationResult) {
	if r == nil {
		return
	}
	kind := res.Kind.Slug()
	r.verificationsTotal.WithLabelValues(kind, strconv.FormatBool(res.Passed)).Inc()
	r.outcomesTotal.WithLabelValues(kind, string(models.VariantVulnerable), res.Vulnerable.String()).Inc()
	r.outcomesTotal.WithLabelValues(kind, string(models.VariantSecure), res.Secure.String()).Inc()
	r.variantSeconds.WithLabelValues(kind).Observe(res.Duration.Seconds())
}

// ObserveHarnessError records one harness-fatal error
func (r *Recorder) ObserveHarnessError(err *models.HarnessError) {
	if r == nil {
		return
	}
	r.harnessErrorsTotal.WithLabelValues(err.Kind.Slug()).Inc()
}

// ObserveReport records the overall verdict of a run
func (r *Recorder) ObserveReport(report *models.Report) {
	if r == nil {
		return
	}
	if report.OK() {
		r.lastRunPassed.Set(1)
	} else {
		r.lastRunPassed.Set(0)
	}
}

// WriteTextfile writes all metrics to path for the node exporter textfile
// collector
func (r *Recorder) WriteTextfile(path string) error {
	if r == nil {
		return nil
	}
	if err := prometheus.WriteToTextfile(path, r.registry); err != nil {
		return fmt.Errorf("failed to write metrics to %s: %w", path, err)
	}
	return nil
}
