// Package exemplar defines the contract every vulnerability exemplar
// implements: a vulnerable behavior, its secure counterpart, the failure
// classes the pair may raise and the source/sink annotations locating the
// flaw in code.
package exemplar

import (
	"slices"

	"github.com/ethanolivertroy/exemplar-check/internal/models"
)

// Input is what a behavior receives from an attack scenario
type Input struct {
	// Action selects the operation when an exemplar supports several
	// independent attacks
	Action string
	Setup  Values
}

// Behavior runs one variant. It returns the observed effect, or an error
// wrapping ErrRejected for a controlled refusal. Unguarded failure paths
// panic with a *Failure.
type Behavior func(m *Meter, in Input) (Values, error)

// Info is the human-facing metadata of an exemplar
type Info struct {
	Name           string
	Description    string
	ExploitExample string
	Platforms      []string
	Detection      []string
	Remediation    []string
}

// Exemplar pairs a vulnerable and a secure implementation of one
// vulnerability kind. Implementations hold no mutable state: Kind,
// Annotations and Contains return the same values on every call.
type Exemplar interface {
	Kind() models.Kind
	Info() Info
	Annotations() []models.Annotation

	// Contains lists the failure classes the harness may convert into an
	// outcome. ClassBudget is implied.
	Contains() []FailureClass

	Vulnerable(m *Meter, in Input) (Values, error)
	Secure(m *Meter, in Input) (Values, error)
}

// Declares reports whether e declares class as containable
func Declares(e Exemplar, class FailureClass) bool {
	return class == ClassBudget || slices.Contains(e.Contains(), class)
}
