package reporter

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/ethanolivertroy/exemplar-check/internal/catalog"
	"github.com/ethanolivertroy/exemplar-check/internal/models"
)

var (
	passStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#00D26A")).Bold(true)
	failStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6B6B")).Bold(true)
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF0000")).Bold(true)
	headingStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#7D56F4")).Bold(true)
	mutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#6C6C6C"))
)

// TerminalReporter outputs a human-readable verdict per kind
type TerminalReporter struct {
	registry *catalog.Registry
}

// Report generates terminal output for the given run
func (r *TerminalReporter) Report(report *models.Report) ([]byte, error) {
	var sb strings.Builder
	s := report.Summary()

	sb.WriteString("\n" + headingStyle.Render("EXEMPLAR VERIFICATION") + "\n")
	sb.WriteString(strings.Repeat("=", 60) + "\n\n")

	for _, res := range report.Results {
		label := passStyle.Render("PASS")
		if !res.Passed {
			label = failStyle.Render("FAIL")
		}
		name := displayName(r.registry, res.Kind)
		if res.Ordinal > 0 {
			name = fmt.Sprintf("%s #%d", name, res.Ordinal)
		}
		sb.WriteString(fmt.Sprintf("%s  %s\n", label, name))
		sb.WriteString(mutedStyle.Render(fmt.Sprintf("      %s", res.Scenario)) + "\n")
		if !res.Passed {
			sb.WriteString(fmt.Sprintf("      vulnerable: %s (%s)\n", res.Vulnerable, res.VulnerableDetail))
			sb.WriteString(fmt.Sprintf("      secure:     %s (%s)\n", res.Secure, res.SecureDetail))
		}
	}

	if len(report.HarnessErrors) > 0 {
		sb.WriteString("\n" + errorStyle.Render("HARNESS ERRORS") + "\n")
		for _, herr := range report.HarnessErrors {
			sb.WriteString(fmt.Sprintf("%s  %s\n", errorStyle.Render("ERROR"), herr.Error()))
		}
	}

	if len(report.Regressions) > 0 {
		sb.WriteString("\n" + failStyle.Render("REGRESSIONS") + "\n")
		for _, key := range report.Regressions {
			sb.WriteString(fmt.Sprintf("   %s\n", key))
		}
	}

	sb.WriteString("\n" + strings.Repeat("-", 60) + "\n")
	sb.WriteString(fmt.Sprintf("%d passed, %d failed, %d harness errors", s.Passed, s.Failed, s.HarnessErrors))
	if s.Regressions > 0 {
		sb.WriteString(fmt.Sprintf(", %d regressions", s.Regressions))
	}
	sb.WriteString(fmt.Sprintf(" in %s\n", report.Duration.Round(1_000)))

	return []byte(sb.String()), nil
}
