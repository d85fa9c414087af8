package exemplar

import (
	"fmt"
	"maps"
	"math"
	"strconv"
	"strings"
)

// Values carries scenario setup into a behavior and the observed effect back
// out. Scenario files decode integers as int, int64 or float64, so the typed
// accessors convert between numeric forms.
//
// Accessors panic with a *FixtureError on a missing or mistyped key. That
// panic is not a declared failure class, so the harness reports it as a
// broken fixture rather than as an outcome.
type Values map[string]any

// FixtureError reports setup data a behavior could not use
type FixtureError struct {
	Key    string
	Reason string
}

func (e *FixtureError) Error() string {
	return fmt.Sprintf("fixture value %q: %s", e.Key, e.Reason)
}

// Clone returns a shallow copy so behaviors cannot mutate shared setup
func (v Values) Clone() Values {
	if v == nil {
		return Values{}
	}
	return maps.Clone(v)
}

// Has reports whether key is present
func (v Values) Has(key string) bool {
	_, ok := v[key]
	return ok
}

func (v Values) lookup(key string) any {
	raw, ok := v[key]
	if !ok {
		panic(&FixtureError{Key: key, Reason: "missing"})
	}
	return raw
}

// Uint64 reads an unsigned integer. The string "max" yields math.MaxUint64,
// which TOML cannot express as an integer literal.
func (v Values) Uint64(key string) uint64 {
	switch n := v.lookup(key).(type) {
	case uint64:
		return n
	case uint:
		return uint64(n)
	case uint32:
		return uint64(n)
	case int:
		if n >= 0 {
			return uint64(n)
		}
	case int64:
		if n >= 0 {
			return uint64(n)
		}
	case float64:
		if n >= 0 && n == math.Trunc(n) && n < math.MaxUint64 {
			return uint64(n)
		}
	case string:
		if strings.EqualFold(n, "max") {
			return math.MaxUint64
		}
		if parsed, err := strconv.ParseUint(n, 10, 64); err == nil {
			return parsed
		}
	}
	panic(&FixtureError{Key: key, Reason: fmt.Sprintf("not an unsigned integer: %v", v[key])})
}

// Int reads a signed integer
func (v Values) Int(key string) int {
	switch n := v.lookup(key).(type) {
	case int:
		return n
	case int64:
		return int(n)
	case uint64:
		if n <= math.MaxInt64 {
			return int(n)
		}
	case float64:
		if n == math.Trunc(n) {
			return int(n)
		}
	case string:
		if parsed, err := strconv.Atoi(n); err == nil {
			return parsed
		}
	}
	panic(&FixtureError{Key: key, Reason: fmt.Sprintf("not an integer: %v", v[key])})
}

// Str reads a string
func (v Values) Str(key string) string {
	s, ok := v.lookup(key).(string)
	if !ok {
		panic(&FixtureError{Key: key, Reason: fmt.Sprintf("not a string: %v", v[key])})
	}
	return s
}

// Bool reads a boolean
func (v Values) Bool(key string) bool {
	b, ok := v.lookup(key).(bool)
	if !ok {
		panic(&FixtureError{Key: key, Reason: fmt.Sprintf("not a bool: %v", v[key])})
	}
	return b
}

// Strings reads a list of strings
func (v Values) Strings(key string) []string {
	switch list := v.lookup(key).(type) {
	case []string:
		return append([]string(nil), list...)
	case []any:
		out := make([]string, 0, len(list))
		for _, item := range list {
			s, ok := item.(string)
			if !ok {
				panic(&FixtureError{Key: key, Reason: fmt.Sprintf("list item is not a string: %v", item)})
			}
			out = append(out, s)
		}
		return out
	}
	panic(&FixtureError{Key: key, Reason: fmt.Sprintf("not a string list: %v", v[key])})
}

// Uint64s reads a list of unsigned integers
func (v Values) Uint64s(key string) []uint64 {
	var items []any
	switch list := v.lookup(key).(type) {
	case []uint64:
		return append([]uint64(nil), list...)
	case []any:
		items = list
	case []int:
		for _, n := range list {
			items = append(items, n)
		}
	case []int64:
		for _, n := range list {
			items = append(items, n)
		}
	default:
		panic(&FixtureError{Key: key, Reason: fmt.Sprintf("not an integer list: %v", v[key])})
	}
	out := make([]uint64, 0, len(items))
	for _, item := range items {
		out = append(out, Values{key: item}.Uint64(key))
	}
	return out
}
