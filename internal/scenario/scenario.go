// Package scenario holds the attack scenarios that drive exemplar
// verification, keyed by vulnerability kind and ordinal.
package scenario

import (
	"cmp"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"maps"
	"slices"

	"github.com/ethanolivertroy/exemplar-check/internal/exemplar"
	"github.com/ethanolivertroy/exemplar-check/internal/models"
	"github.com/ethanolivertroy/exemplar-check/internal/parsers"
)

// DefaultVersion is the version of the built-in scenario table
const DefaultVersion = "v1.0.0"

// ErrNoScenario is returned when a kind has no scenario in the table
var ErrNoScenario = errors.New("no attack scenario")

// Predicate decides from the setup and the observed effect whether the
// attack succeeded
type Predicate func(setup, effect exemplar.Values) bool

// AttackScenario drives both variants of one exemplar
type AttackScenario struct {
	Kind    models.Kind
	Ordinal int
	Name    string
	Action  string
	Setup   exemplar.Values

	Compromised Predicate
}

// Input builds the behavior input, copying setup so variants cannot see each
// other's mutations
func (s AttackScenario) Input() exemplar.Input {
	return exemplar.Input{Action: s.Action, Setup: s.Setup.Clone()}
}

type key struct {
	kind    models.Kind
	ordinal int
}

// Table is an immutable, versioned mapping from kind to scenarios
type Table struct {
	version   string
	scenarios map[key]AttackScenario
}

// NewTable validates and indexes scenarios
func NewTable(version string, scenarios ...AttackScenario) (*Table, error) {
	t := &Table{version: version, scenarios: make(map[key]AttackScenario, len(scenarios))}
	for _, s := range scenarios {
		if !s.Kind.Valid() {
			return nil, fmt.Errorf("scenario %q: invalid kind %d", s.Name, int(s.Kind))
		}
		if s.Compromised == nil {
			return nil, fmt.Errorf("scenario %s#%d: no success predicate", s.Kind.Slug(), s.Ordinal)
		}
		k := key{s.Kind, s.Ordinal}
		if _, dup := t.scenarios[k]; dup {
			return nil, fmt.Errorf("duplicate scenario %s#%d", s.Kind.Slug(), s.Ordinal)
		}
		t.scenarios[k] = s
	}
	return t, nil
}

// Version returns the table version
func (t *Table) Version() string {
	return t.version
}

// Lookup returns the scenarios for kind in ordinal order
func (t *Table) Lookup(kind models.Kind) ([]AttackScenario, error) {
	var out []AttackScenario
	for k, s := range t.scenarios {
		if k.kind == kind {
			out = append(out, s)
		}
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("%w for %s", ErrNoScenario, kind.Slug())
	}
	slices.SortFunc(out, func(a, b AttackScenario) int {
		return cmp.Compare(a.Ordinal, b.Ordinal)
	})
	return out, nil
}

// Digest hashes the version together with every scenario's name, action and
// setup values, so two tables that share a version but differ in overrides
// get different digests.
func (t *Table) Digest() string {
	keys := slices.SortedFunc(maps.Keys(t.scenarios), func(a, b key) int {
		return cmp.Or(cmp.Compare(a.kind, b.kind), cmp.Compare(a.ordinal, b.ordinal))
	})

	h := sha256.New()
	fmt.Fprintf(h, "version=%s\n", t.version)
	for _, k := range keys {
		s := t.scenarios[k]
		fmt.Fprintf(h, "%s#%d %q %q\n", k.kind.Slug(), k.ordinal, s.Name, s.Action)
		for _, name := range slices.Sorted(maps.Keys(s.Setup)) {
			fmt.Fprintf(h, "  %s=%T:%v\n", name, s.Setup[name], s.Setup[name])
		}
	}
	sum := h.Sum(nil)
	return t.version + "+" + hex.EncodeToString(sum[:8])
}

// Len returns the number of scenarios
func (t *Table) Len() int {
	return len(t.scenarios)
}

// WithOverrides returns a new table whose setup values are replaced key by
// key from the scenario file. Overrides may not introduce new scenarios,
// since predicates live in code.
func (t *Table) WithOverrides(file *parsers.TableFile) (*Table, error) {
	next := &Table{version: file.Version, scenarios: make(map[key]AttackScenario, len(t.scenarios))}
	for k, s := range t.scenarios {
		s.Setup = s.Setup.Clone()
		next.scenarios[k] = s
	}

	for _, o := range file.Scenarios {
		kind, err := models.ParseKind(o.Kind)
		if err != nil {
			return nil, err
		}
		k := key{kind, o.Ordinal}
		s, ok := next.scenarios[k]
		if !ok {
			return nil, fmt.Errorf("%w %s#%d to override", ErrNoScenario, kind.Slug(), o.Ordinal)
		}
		if o.Name != "" {
			s.Name = o.Name
		}
		for name, value := range o.Setup {
			s.Setup[name] = value
		}
		next.scenarios[k] = s
	}
	return next, nil
}
