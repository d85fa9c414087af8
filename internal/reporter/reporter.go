// Package reporter renders verification reports for terminals, JSON
// consumers and SARIF-aware code scanning tools.
package reporter

import (
	"github.com/ethanolivertroy/exemplar-check/internal/catalog"
	"github.com/ethanolivertroy/exemplar-check/internal/models"
)

// Reporter is the interface for output formatters
type Reporter interface {
	// Report generates output for the given run
	Report(report *models.Report) ([]byte, error)
}

// Get returns a reporter for the specified format. The registry supplies
// exemplar metadata and annotations.
func Get(format string, registry *catalog.Registry) Reporter {
	switch format {
	case "json":
		return &JSONReporter{registry: registry}
	case "sarif":
		return &SARIFReporter{registry: registry}
	default:
		return &TerminalReporter{registry: registry}
	}
}

// displayName returns the exemplar's human name, or the kind name when the
// kind is not registered
func displayName(registry *catalog.Registry, kind models.Kind) string {
	if registry != nil {
		if e, err := registry.Get(kind); err == nil {
			if name := e.Info().Name; name != "" {
				return name
			}
		}
	}
	return kind.String()
}
