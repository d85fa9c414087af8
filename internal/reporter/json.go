package reporter

import (
	"encoding/json"
	"time"

	"github.com/ethanolivertroy/exemplar-check/internal/catalog"
	"github.com/ethanolivertroy/exemplar-check/internal/models"
)

// JSONReporter outputs the run in JSON format
type JSONReporter struct {
	registry *catalog.Registry
}

// jsonOutput represents the JSON output structure
type jsonOutput struct {
	RunID         string             `json:"run_id"`
	StartedAt     string             `json:"started_at"`
	DurationMS    int64              `json:"duration_ms"`
	Summary       jsonSummary        `json:"summary"`
	Results       []jsonResult       `json:"results"`
	HarnessErrors []jsonHarnessError `json:"harness_errors"`
	Regressions   []string           `json:"regressions,omitempty"`
}

type jsonSummary struct {
	Total         int `json:"total"`
	Passed        int `json:"passed"`
	Failed        int `json:"failed"`
	HarnessErrors int `json:"harness_errors"`
	Regressions   int `json:"regressions"`
}

type jsonResult struct {
	Kind             string         `json:"kind"`
	Name             string         `json:"name"`
	Ordinal          int            `json:"ordinal,omitempty"`
	Scenario         string         `json:"scenario"`
	Passed           bool           `json:"passed"`
	Vulnerable       models.Outcome `json:"vulnerable"`
	Secure           models.Outcome `json:"secure"`
	VulnerableDetail string         `json:"vulnerable_detail,omitempty"`
	SecureDetail     string         `json:"secure_detail,omitempty"`
	DurationUS       int64          `json:"duration_us"`
}

type jsonHarnessError struct {
	Kind     string `json:"kind"`
	Ordinal  int    `json:"ordinal,omitempty"`
	Scenario string `json:"scenario,omitempty"`
	Variant  string `json:"variant,omitempty"`
	Error    string `json:"error"`
}

// Report generates JSON output for the given run
func (r *JSONReporter) Report(report *models.Report) ([]byte, error) {
	s := report.Summary()
	output := jsonOutput{
		RunID:      report.RunID,
		StartedAt:  report.StartedAt.UTC().Format(time.RFC3339),
		DurationMS: report.Duration.Milliseconds(),
		Summary: jsonSummary{
			Total:         s.Total,
			Passed:        s.Passed,
			Failed:        s.Failed,
			HarnessErrors: s.HarnessErrors,
			Regressions:   s.Regressions,
		},
		Results:       make([]jsonResult, 0, len(report.Results)),
		HarnessErrors: make([]jsonHarnessError, 0, len(report.HarnessErrors)),
		Regressions:   report.Regressions,
	}

	for _, res := range report.Results {
		output.Results = append(output.Results, jsonResult{
			Kind:             res.Kind.Slug(),
			Name:             displayName(r.registry, res.Kind),
			Ordinal:          res.Ordinal,
			Scenario:         res.Scenario,
			Passed:           res.Passed,
			Vulnerable:       res.Vulnerable,
			Secure:           res.Secure,
			VulnerableDetail: res.VulnerableDetail,
			SecureDetail:     res.SecureDetail,
			DurationUS:       res.Duration.Microseconds(),
		})
	}

	for _, herr := range report.HarnessErrors {
		output.HarnessErrors = append(output.HarnessErrors, jsonHarnessError{
			Kind:     herr.Kind.Slug(),
			Ordinal:  herr.Ordinal,
			Scenario: herr.Scenario,
			Variant:  string(herr.Variant),
			Error:    herr.Cause.Error(),
		})
	}

	return json.MarshalIndent(output, "", "  ")
}
