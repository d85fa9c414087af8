package exemplar

import (
	"context"
	"errors"
	"fmt"
)

// ErrBudgetExhausted is wrapped by the budget failure when the step limit is
// reached
var ErrBudgetExhausted = errors.New("step budget exhausted")

// Meter enforces a step budget on one behavior invocation. Behaviors call
// Step once per unit of work inside any loop whose length depends on input.
// A Meter is owned by a single invocation and is not safe for concurrent use.
type Meter struct {
	ctx   context.Context
	max   int
	steps int
}

// NewMeter returns a meter allowing max steps, also bounded by ctx
func NewMeter(ctx context.Context, max int) *Meter {
	return &Meter{ctx: ctx, max: max}
}

// Step consumes one unit of budget. It panics with a ClassBudget failure once
// the limit is passed or the context is done.
func (m *Meter) Step() {
	m.steps++
	if m.steps > m.max {
		panic(BudgetExceeded(fmt.Errorf("%w after %d steps", ErrBudgetExhausted, m.max)))
	}
	if err := m.ctx.Err(); err != nil {
		panic(BudgetExceeded(err))
	}
}

// Steps returns the number of steps consumed so far
func (m *Meter) Steps() int {
	return m.steps
}
