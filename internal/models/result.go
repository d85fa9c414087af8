package models

import (
	"fmt"
	"time"
)

// Outcome classifies one run of a behavior variant against a scenario
type Outcome int

const (
	OutcomeSafe Outcome = iota
	OutcomeRejected
	OutcomeCompromised
)

// String returns the lowercase outcome name
func (o Outcome) String() string {
	switch o {
	case OutcomeSafe:
		return "safe"
	case OutcomeRejected:
		return "rejected"
	case OutcomeCompromised:
		return "compromised"
	default:
		return fmt.Sprintf("outcome(%d)", int(o))
	}
}

// MarshalText encodes the outcome by name
func (o Outcome) MarshalText() ([]byte, error) {
	return []byte(o.String()), nil
}

// UnmarshalText decodes an outcome name
func (o *Outcome) UnmarshalText(text []byte) error {
	for _, candidate := range []Outcome{OutcomeSafe, OutcomeRejected, OutcomeCompromised} {
		if string(text) == candidate.String() {
			*o = candidate
			return nil
		}
	}
	return fmt.Errorf("unknown outcome %q", text)
}

// Compromised reports whether the attack succeeded
func (o Outcome) Compromised() bool {
	return o == OutcomeCompromised
}

// Variant names which half of an exemplar ran
type Variant string

const (
	VariantVulnerable Variant = "vulnerable"
	VariantSecure     Variant = "secure"
)

// VerificationResult is the verdict for one exemplar under one scenario.
// Build it with NewVerificationResult so Passed always agrees with the
// outcomes.
type VerificationResult struct {
	Kind     Kind
	Ordinal  int
	Scenario string

	Vulnerable Outcome
	Secure     Outcome
	Passed     bool

	// Human-readable detail for each variant, e.g. a rejection reason
	VulnerableDetail string
	SecureDetail     string

	Duration time.Duration
}

// NewVerificationResult derives Passed from the two outcomes
func NewVerificationResult(kind Kind, ordinal int, scenario string, vulnerable, secure Outcome) VerificationResult {
	return VerificationResult{
		Kind:       kind,
		Ordinal:    ordinal,
		Scenario:   scenario,
		Vulnerable: vulnerable,
		Secure:     secure,
		Passed:     vulnerable == OutcomeCompromised && secure != OutcomeCompromised,
	}
}

// Key returns a stable identifier for the result, used by baselines
func (r VerificationResult) Key() string {
	return fmt.Sprintf("%s#%d", r.Kind.Slug(), r.Ordinal)
}

// HarnessError reports a broken fixture: a failure that escaped containment,
// a missing scenario or a secure variant that could not bound its work. It is
// never folded into a failing VerificationResult.
type HarnessError struct {
	Kind     Kind
	Ordinal  int
	Scenario string
	Variant  Variant
	Cause    error
}

func (e *HarnessError) Error() string {
	where := e.Kind.Slug()
	if e.Scenario != "" {
		where += "/" + e.Scenario
	}
	if e.Variant != "" {
		where += " (" + string(e.Variant) + ")"
	}
	return fmt.Sprintf("harness error in %s: %v", where, e.Cause)
}

func (e *HarnessError) Unwrap() error {
	return e.Cause
}

// Report is the aggregate product of one harness run
type Report struct {
	RunID         string
	StartedAt     time.Time
	Duration      time.Duration
	Results       []VerificationResult
	HarnessErrors []*HarnessError

	// Regressions lists result keys that passed in the baseline run and
	// fail now
	Regressions []string
}

// Summary counts results and harness errors separately
type Summary struct {
	Total         int
	Passed        int
	Failed        int
	HarnessErrors int
	Regressions   int
}

// Summary tallies the report
func (r *Report) Summary() Summary {
	s := Summary{
		Total:         len(r.Results),
		HarnessErrors: len(r.HarnessErrors),
		Regressions:   len(r.Regressions),
	}
	for _, res := range r.Results {
		if res.Passed {
			s.Passed++
		} else {
			s.Failed++
		}
	}
	return s
}

// OK is true when every result passed and no harness error occurred
func (r *Report) OK() bool {
	s := r.Summary()
	return s.Failed == 0 && s.HarnessErrors == 0
}

// Outcomes maps result keys to their pass state
func (r *Report) Outcomes() map[string]bool {
	out := make(map[string]bool, len(r.Results))
	for _, res := range r.Results {
		out[res.Key()] = res.Passed
	}
	return out
}

// Regressions returns, in result order, the keys that passed in baseline
// and fail in current
func Regressions(baseline map[string]bool, current []VerificationResult) []string {
	var regressed []string
	for _, res := range current {
		if res.Passed {
			continue
		}
		if passed, ok := baseline[res.Key()]; ok && passed {
			regressed = append(regressed, res.Key())
		}
	}
	return regressed
}
