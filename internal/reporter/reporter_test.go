package reporter

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/owenrumney/go-sarif/v2/sarif"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ethanolivertroy/exemplar-check/internal/catalog"
	"github.com/ethanolivertroy/exemplar-check/internal/exemplars"
	"github.com/ethanolivertroy/exemplar-check/internal/models"
)

func sampleReport() *models.Report {
	pass := models.NewVerificationResult(models.IntegerOverflow, 0, "deposit wraps a maximal balance", models.OutcomeCompromised, models.OutcomeRejected)
	fail := models.NewVerificationResult(models.LogicError, 4, "staking reward claimed twice", models.OutcomeCompromised, models.OutcomeCompromised)
	fail.SecureDetail = "attack succeeded"
	return &models.Report{
		RunID:     "run-1",
		StartedAt: time.Date(2026, 10, 17, 12, 0, 0, 0, time.UTC),
		Duration:  42 * time.Millisecond,
		Results:   []models.VerificationResult{pass, fail},
		HarnessErrors: []*models.HarnessError{{
			Kind:    models.FlashLoan,
			Variant: models.VariantSecure,
			Cause:   assert.AnError,
		}},
		Regressions: []string{"logic-error#4"},
	}
}

func registry(t *testing.T) *catalog.Registry {
	t.Helper()
	reg, err := catalog.Build(nil, exemplars.Constructors()...)
	require.NoError(t, err)
	return reg
}

func TestGet(t *testing.T) {
	assert.IsType(t, &JSONReporter{}, Get("json", nil))
	assert.IsType(t, &SARIFReporter{}, Get("sarif", nil))
	assert.IsType(t, &TerminalReporter{}, Get("terminal", nil))
	assert.IsType(t, &TerminalReporter{}, Get("", nil))
}

func TestTerminalReport(t *testing.T) {
	out, err := Get("terminal", registry(t)).Report(sampleReport())
	require.NoError(t, err)
	text := string(out)

	assert.Contains(t, text, "PASS")
	assert.Contains(t, text, "Integer Overflow/Underflow")
	assert.Contains(t, text, "FAIL")
	assert.Contains(t, text, "Logic Errors #4")
	assert.Contains(t, text, "secure:     compromised (attack succeeded)")
	assert.Contains(t, text, "HARNESS ERRORS")
	assert.Contains(t, text, "flash-loan")
	assert.Contains(t, text, "REGRESSIONS")
	assert.Contains(t, text, "1 passed, 1 failed, 1 harness errors, 1 regressions")
}

func TestJSONReport(t *testing.T) {
	out, err := Get("json", registry(t)).Report(sampleReport())
	require.NoError(t, err)

	var decoded jsonOutput
	require.NoError(t, json.Unmarshal(out, &decoded))
	assert.Equal(t, "run-1", decoded.RunID)
	assert.Equal(t, jsonSummary{Total: 2, Passed: 1, Failed: 1, HarnessErrors: 1, Regressions: 1}, decoded.Summary)
	require.Len(t, decoded.Results, 2)
	assert.Equal(t, "integer-overflow", decoded.Results[0].Kind)
	assert.Equal(t, "Integer Overflow/Underflow", decoded.Results[0].Name)
	assert.Equal(t, 4, decoded.Results[1].Ordinal)
	require.Len(t, decoded.HarnessErrors, 1)
	assert.Equal(t, "secure", decoded.HarnessErrors[0].Variant)

	var raw map[string]any
	require.NoError(t, json.Unmarshal(out, &raw))
	first := raw["results"].([]any)[0].(map[string]any)
	assert.Equal(t, "compromised", first["vulnerable"])
	assert.Equal(t, "rejected", first["secure"])
}

func TestJSONReportWithoutRegistry(t *testing.T) {
	out, err := Get("json", nil).Report(&models.Report{})
	require.NoError(t, err)
	assert.Contains(t, string(out), `"results": []`)
	assert.Contains(t, string(out), `"harness_errors": []`)
}

func TestSARIFReport(t *testing.T) {
	reg := registry(t)
	out, err := Get("sarif", reg).Report(sampleReport())
	require.NoError(t, err)

	parsed, err := sarif.FromBytes(out)
	require.NoError(t, err)
	require.Len(t, parsed.Runs, 1)
	run := parsed.Runs[0]

	ruleIDs := map[string]bool{}
	for _, rule := range run.Tool.Driver.Rules {
		ruleIDs[rule.ID] = true
		if rule.ID == "integer-overflow" {
			require.NotNil(t, rule.FullDescription)
			require.NotNil(t, rule.FullDescription.Text)
			assert.Contains(t, *rule.FullDescription.Text, "Detection: ")
		}
	}
	assert.True(t, ruleIDs["integer-overflow"])
	assert.True(t, ruleIDs["logic-error"])
	assert.True(t, ruleIDs[harnessErrorRule])

	require.Len(t, run.Results, 3)
	overflow := run.Results[0]
	require.NotNil(t, overflow.Level)
	assert.Equal(t, "warning", *overflow.Level)

	e, err := reg.Get(models.IntegerOverflow)
	require.NoError(t, err)
	a := e.Annotations()[0]
	require.Len(t, overflow.Locations, 1)
	assert.Equal(t, a.File, *overflow.Locations[0].PhysicalLocation.ArtifactLocation.URI)
	assert.Equal(t, a.SinkLine, *overflow.Locations[0].PhysicalLocation.Region.StartLine)
	require.Len(t, overflow.CodeFlows, 1)
	steps := overflow.CodeFlows[0].ThreadFlows[0].Locations
	require.Len(t, steps, 2)
	assert.Equal(t, a.SourceLine, *steps[0].Location.PhysicalLocation.Region.StartLine)

	logic := run.Results[1]
	assert.Equal(t, "error", *logic.Level)
	require.Len(t, logic.Locations, 1, "only the ordinal 4 annotation applies")
	assert.Equal(t, "error", *run.Results[2].Level)
}
