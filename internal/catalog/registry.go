// Package catalog holds the process-wide registry of exemplars, one per
// vulnerability kind, in registration order.
package catalog

import (
	"errors"
	"fmt"
	"iter"
	"reflect"
	"sync"

	"github.com/hashicorp/go-hclog"

	"github.com/ethanolivertroy/exemplar-check/internal/exemplar"
	"github.com/ethanolivertroy/exemplar-check/internal/models"
)

var (
	// ErrNotFound is returned by Get when no exemplar is registered for a kind
	ErrNotFound = errors.New("exemplar not found")

	// ErrFrozen is returned by Register once the build step has completed
	ErrFrozen = errors.New("registry is frozen")
)

// Conflict records two distinct exemplar types claiming the same kind in
// one build pass. The later registration wins.
type Conflict struct {
	Kind     models.Kind
	Previous string
	Current  string
}

func (c *Conflict) Error() string {
	return fmt.Sprintf("duplicate kind conflict for %s: %s replaced by %s", c.Kind.Slug(), c.Previous, c.Current)
}

// Registry maps each kind to its exemplar. It is built single-threaded,
// then frozen and shared read-only.
type Registry struct {
	logger hclog.Logger

	mu        sync.RWMutex
	order     []models.Kind
	entries   map[models.Kind]exemplar.Exemplar
	conflicts []*Conflict
	frozen    bool
}

// New creates an empty registry
func New(logger hclog.Logger) *Registry {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &Registry{
		logger:  logger,
		entries: make(map[models.Kind]exemplar.Exemplar),
	}
}

// Build registers the exemplars produced by constructors, in order, and
// freezes the registry. It is the only supported way to populate the
// catalog outside tests.
func Build(logger hclog.Logger, constructors ...func() exemplar.Exemplar) (*Registry, error) {
	r := New(logger)
	for _, construct := range constructors {
		if err := r.Register(construct()); err != nil {
			return nil, err
		}
	}
	r.Freeze()
	return r, nil
}

// Register inserts e, or replaces the exemplar already registered for its
// kind. A replacement keeps the kind's original position. Replacing with a
// different exemplar type is recorded as a Conflict and logged.
func (r *Registry) Register(e exemplar.Exemplar) error {
	if e == nil {
		return errors.New("cannot register nil exemplar")
	}
	kind := e.Kind()
	if !kind.Valid() {
		return fmt.Errorf("cannot register exemplar %s: invalid kind %d", identity(e), int(kind))
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.frozen {
		return fmt.Errorf("register %s: %w", kind.Slug(), ErrFrozen)
	}

	previous, exists := r.entries[kind]
	switch {
	case !exists:
		r.order = append(r.order, kind)
		r.logger.Trace("registered exemplar", "kind", kind.Slug(), "type", identity(e))
	case identity(previous) == identity(e):
		r.logger.Debug("exemplar re-registered", "kind", kind.Slug(), "type", identity(e))
	default:
		c := &Conflict{Kind: kind, Previous: identity(previous), Current: identity(e)}
		r.conflicts = append(r.conflicts, c)
		r.logger.Warn("exemplar override", "kind", kind.Slug(), "previous", c.Previous, "current", c.Current)
	}
	r.entries[kind] = e
	return nil
}

// Freeze makes the registry read-only
func (r *Registry) Freeze() {
	r.mu.Lock()
	r.frozen = true
	r.mu.Unlock()
}

// Frozen reports whether the build step has completed
func (r *Registry) Frozen() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.frozen
}

// Get returns the most recently registered exemplar for kind
func (r *Registry) Get(kind models.Kind) (exemplar.Exemplar, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.entries[kind]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, kind.Slug())
	}
	return e, nil
}

// All yields exemplars in registration order. The sequence is finite and can
// be iterated any number of times.
func (r *Registry) All() iter.Seq[exemplar.Exemplar] {
	return func(yield func(exemplar.Exemplar) bool) {
		r.mu.RLock()
		order := append([]models.Kind(nil), r.order...)
		r.mu.RUnlock()

		for _, kind := range order {
			r.mu.RLock()
			e := r.entries[kind]
			r.mu.RUnlock()
			if !yield(e) {
				return
			}
		}
	}
}

// Kinds returns the registered kinds in registration order
func (r *Registry) Kinds() []models.Kind {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]models.Kind(nil), r.order...)
}

// Len returns the number of registered kinds
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.order)
}

// Conflicts returns the duplicate kind conflicts seen while building
func (r *Registry) Conflicts() []*Conflict {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]*Conflict(nil), r.conflicts...)
}

func identity(e exemplar.Exemplar) string {
	return reflect.TypeOf(e).String()
}
