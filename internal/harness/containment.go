package harness

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ethanolivertroy/exemplar-check/internal/exemplar"
	"github.com/ethanolivertroy/exemplar-check/internal/models"
	"github.com/ethanolivertroy/exemplar-check/internal/scenario"
)

// ErrUncontained wraps every failure that escaped containment
var ErrUncontained = errors.New("uncontained failure")

// invocation is the raw result of running one behavior
type invocation struct {
	effect    exemplar.Values
	err       error
	panicked  bool
	recovered any
	steps     int
	// aborted is set when the caller's context ended, as opposed to the
	// invocation's own time budget
	aborted error
}

// invoke runs b under a step budget and a wall-clock budget. The behavior
// runs in its own goroutine so a timeout can be observed even when the
// behavior never steps the meter; such a goroutine is abandoned.
func invoke(ctx context.Context, b exemplar.Behavior, in exemplar.Input, maxSteps int, timeout time.Duration) invocation {
	runCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	meter := exemplar.NewMeter(runCtx, maxSteps)
	done := make(chan invocation, 1)
	go func() {
		var out invocation
		defer func() {
			if r := recover(); r != nil {
				out.panicked, out.recovered = true, r
			}
			out.steps = meter.Steps()
			done <- out
		}()
		out.effect, out.err = b(meter, in)
	}()

	select {
	case out := <-done:
		if out.panicked && ctx.Err() != nil {
			out.aborted = ctx.Err()
		}
		return out
	case <-runCtx.Done():
		if err := ctx.Err(); err != nil {
			return invocation{aborted: err}
		}
		select {
		case out := <-done:
			return out
		default:
		}
		return invocation{panicked: true, recovered: exemplar.BudgetExceeded(runCtx.Err())}
	}
}

// classify applies the containment policy to one invocation. A non-nil
// error means the invocation is harness-fatal and yields no outcome.
func classify(e exemplar.Exemplar, variant models.Variant, s scenario.AttackScenario, inv invocation) (models.Outcome, string, error) {
	if inv.panicked {
		failure, ok := exemplar.Classify(inv.recovered)
		if !ok {
			if err, isErr := inv.recovered.(error); isErr {
				return 0, "", fmt.Errorf("%w: %w", ErrUncontained, err)
			}
			return 0, "", fmt.Errorf("%w: panic: %v", ErrUncontained, inv.recovered)
		}
		if failure.Class == exemplar.ClassBudget {
			if variant == models.VariantVulnerable {
				return models.OutcomeCompromised, failure.Error(), nil
			}
			return 0, "", fmt.Errorf("secure variant did not bound its work: %w", failure)
		}
		if !exemplar.Declares(e, failure.Class) {
			return 0, "", fmt.Errorf("%w: undeclared %s failure: %w", ErrUncontained, failure.Class, failure)
		}
		if variant == models.VariantVulnerable {
			return models.OutcomeCompromised, failure.Error(), nil
		}
		return models.OutcomeRejected, failure.Error(), nil
	}

	if inv.err != nil {
		if errors.Is(inv.err, exemplar.ErrRejected) {
			return models.OutcomeRejected, inv.err.Error(), nil
		}
		return 0, "", fmt.Errorf("%w: %w", ErrUncontained, inv.err)
	}

	compromised, err := evaluate(s.Compromised, s.Setup, inv.effect)
	if err != nil {
		return 0, "", err
	}
	if compromised {
		return models.OutcomeCompromised, "attack succeeded", nil
	}
	return models.OutcomeSafe, "attack had no effect", nil
}

// evaluate runs a success predicate, turning a fixture panic into an error
func evaluate(p scenario.Predicate, setup, effect exemplar.Values) (compromised bool, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: predicate panic: %v", ErrUncontained, r)
		}
	}()
	return p(setup, effect), nil
}
