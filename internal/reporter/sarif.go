package reporter

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/owenrumney/go-sarif/v2/sarif"

	"github.com/ethanolivertroy/exemplar-check/internal/catalog"
	"github.com/ethanolivertroy/exemplar-check/internal/models"
)

const (
	toolName           = "exemplar-check"
	toolInformationURI = "https://github.com/ethanolivertroy/exemplar-check"
	harnessErrorRule   = "harness-error"
)

// SARIFReporter outputs the run in SARIF 2.1.0. Each verified flaw becomes
// a result located at its annotated sink, with a code flow from source to
// sink.
type SARIFReporter struct {
	registry *catalog.Registry
}

// Report generates SARIF output for the given run
func (r *SARIFReporter) Report(report *models.Report) ([]byte, error) {
	reportSarif, err := sarif.New(sarif.Version210)
	if err != nil {
		return nil, fmt.Errorf("failed to create SARIF report: %w", err)
	}

	run := sarif.NewRunWithInformationURI(toolName, toolInformationURI)
	rules := map[string]bool{}

	for _, res := range report.Results {
		ruleID := res.Kind.Slug()
		if !rules[ruleID] {
			r.addRule(run, res.Kind)
			rules[ruleID] = true
		}

		level := "warning"
		if !res.Passed {
			level = "error"
		}
		message := fmt.Sprintf("%s: %s (vulnerable %s, secure %s)",
			displayName(r.registry, res.Kind), res.Scenario, res.Vulnerable, res.Secure)

		result := sarif.NewRuleResult(ruleID).
			WithMessage(sarif.NewTextMessage(message)).
			WithLevel(level)
		result.Properties = map[string]any{
			"run_id":     report.RunID,
			"ordinal":    res.Ordinal,
			"passed":     res.Passed,
			"vulnerable": res.Vulnerable.String(),
			"secure":     res.Secure.String(),
		}

		for _, a := range r.annotationsFor(res.Kind, res.Ordinal) {
			result.Locations = append(result.Locations, newLocation(a.File, a.SinkLine))
			result.CodeFlows = append(result.CodeFlows, &sarif.CodeFlow{
				ThreadFlows: []*sarif.ThreadFlow{{
					Locations: []*sarif.ThreadFlowLocation{
						{Location: newLocation(a.File, a.SourceLine).WithMessage(sarif.NewTextMessage("source"))},
						{Location: newLocation(a.File, a.SinkLine).WithMessage(sarif.NewTextMessage("sink"))},
					},
				}},
			})
		}
		run.AddResult(result)
	}

	if len(report.HarnessErrors) > 0 {
		run.AddRule(harnessErrorRule).
			WithDescription("A failure escaped containment or a fixture is broken").
			WithDefaultConfiguration(&sarif.ReportingConfiguration{Level: "error"})
		for _, herr := range report.HarnessErrors {
			result := sarif.NewRuleResult(harnessErrorRule).
				WithMessage(sarif.NewTextMessage(herr.Error())).
				WithLevel("error")
			if found := r.annotationsFor(herr.Kind, herr.Ordinal); len(found) > 0 {
				result.Locations = append(result.Locations, newLocation(found[0].File, found[0].SourceLine))
			}
			run.AddResult(result)
		}
	}

	reportSarif.AddRun(run)

	var buf bytes.Buffer
	if err := reportSarif.PrettyWrite(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (r *SARIFReporter) addRule(run *sarif.Run, kind models.Kind) {
	description := kind.String()
	var help, full string
	if r.registry != nil {
		if e, err := r.registry.Get(kind); err == nil {
			info := e.Info()
			description = info.Description
			if len(info.Remediation) > 0 {
				help = "- " + strings.Join(info.Remediation, "\n- ")
			}
			if len(info.Detection) > 0 {
				full = info.Description + " Detection: " + strings.Join(info.Detection, "; ") + "."
			}
		}
	}

	rule := run.AddRule(kind.Slug()).
		WithDescription(description).
		WithDefaultConfiguration(&sarif.ReportingConfiguration{Level: "warning"})
	name := displayName(r.registry, kind)
	rule.Name = &name
	if full != "" {
		rule.FullDescription = &sarif.MultiformatMessageString{Text: &full}
	}
	if help != "" {
		rule.Help = &sarif.MultiformatMessageString{Text: &help, Markdown: &help}
	}
}

// annotationsFor returns the annotations with the given ordinal
func (r *SARIFReporter) annotationsFor(kind models.Kind, ordinal int) []models.Annotation {
	if r.registry == nil {
		return nil
	}
	e, err := r.registry.Get(kind)
	if err != nil {
		return nil
	}
	var out []models.Annotation
	for _, a := range e.Annotations() {
		if a.Ordinal == ordinal {
			out = append(out, a)
		}
	}
	return out
}

func newLocation(uri string, line int) *sarif.Location {
	return sarif.NewLocation().WithPhysicalLocation(
		sarif.NewPhysicalLocation().
			WithArtifactLocation(sarif.NewArtifactLocation().WithUri(uri)).
			WithRegion(sarif.NewRegion().WithStartLine(line)),
	)
}
