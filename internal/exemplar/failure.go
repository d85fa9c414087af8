package exemplar

import (
	"errors"
	"fmt"
	"runtime"
	"strings"
)

// FailureClass names a kind of uncontrolled failure an exemplar may produce
type FailureClass string

const (
	ClassArithmetic    FailureClass = "arithmetic"
	ClassBounds        FailureClass = "bounds"
	ClassAuthorization FailureClass = "authorization"

	// ClassBudget is raised by the Meter and is always contained
	ClassBudget FailureClass = "budget"
)

// Failure is the panic value for an unguarded failure path, modelled as data
// so the harness can classify it instead of crashing
type Failure struct {
	Class  FailureClass
	Detail string
	cause  error
}

func (f *Failure) Error() string {
	return fmt.Sprintf("%s failure: %s", f.Class, f.Detail)
}

func (f *Failure) Unwrap() error {
	return f.cause
}

// Overflow aborts with an arithmetic failure
func Overflow(format string, args ...any) {
	panic(&Failure{Class: ClassArithmetic, Detail: fmt.Sprintf(format, args...)})
}

// OutOfBounds aborts with a bounds failure
func OutOfBounds(format string, args ...any) {
	panic(&Failure{Class: ClassBounds, Detail: fmt.Sprintf(format, args...)})
}

// Unauthorized aborts with an authorization failure
func Unauthorized(format string, args ...any) {
	panic(&Failure{Class: ClassAuthorization, Detail: fmt.Sprintf(format, args...)})
}

// BudgetExceeded builds the failure reported when a step or time budget runs
// out
func BudgetExceeded(cause error) *Failure {
	return &Failure{Class: ClassBudget, Detail: cause.Error(), cause: cause}
}

// ErrRejected marks a controlled refusal by a behavior
var ErrRejected = errors.New("rejected")

// Reject returns an error wrapping ErrRejected with the given reason
func Reject(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrRejected, fmt.Sprintf(format, args...))
}

// Classify maps a recovered panic value to a Failure. Explicit *Failure
// values keep their class; Go runtime bounds and division errors map to
// ClassBounds and ClassArithmetic. Anything else is not a failure the
// exemplar can declare and returns false.
func Classify(recovered any) (*Failure, bool) {
	switch v := recovered.(type) {
	case *Failure:
		return v, true
	case runtime.Error:
		msg := v.Error()
		switch {
		case strings.Contains(msg, "index out of range"),
			strings.Contains(msg, "slice bounds out of range"):
			return &Failure{Class: ClassBounds, Detail: msg, cause: v}, true
		case strings.Contains(msg, "integer divide by zero"):
			return &Failure{Class: ClassArithmetic, Detail: msg, cause: v}, true
		}
	}
	return nil, false
}
