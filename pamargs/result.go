package pamargs

import (
	"strings"

	"github.com/dzonerzy/go-pamargs/internal/intern"
)

type matchedValue struct {
	raw      string
	hasValue bool
	value    any
}

// Result is the outcome of one successful Parse. It is owned by the caller
// and safe to read from multiple goroutines.
type Result struct {
	table    *intern.Table
	flags    map[string]struct{}
	values   map[string]matchedValue
	order    []string // canonical names in first-match order
	overflow KeyValueStore
	leftover []string
}

func newResult(table *intern.Table, overflow KeyValueStore) *Result {
	return &Result{
		table:    table,
		flags:    make(map[string]struct{}),
		values:   make(map[string]matchedValue),
		overflow: overflow,
	}
}

func (r *Result) addFlag(name string) {
	if _, ok := r.flags[name]; ok {
		return
	}
	r.flags[name] = struct{}{}
	r.order = append(r.order, name)
}

func (r *Result) setValue(name string, v matchedValue) {
	if _, ok := r.values[name]; !ok {
		r.order = append(r.order, name)
	}
	r.values[name] = v
}

// has reports presence of an already canonical name.
func (r *Result) has(name string) bool {
	if _, ok := r.flags[name]; ok {
		return true
	}
	_, ok := r.values[name]
	return ok
}

func (r *Result) resolve(name string) string {
	if canonical, ok := r.table.Lookup(name); ok {
		return canonical
	}
	return name
}

// IsPresent reports whether the named flag or key matched.
func (r *Result) IsPresent(name string) bool {
	return r.has(r.resolve(name))
}

// HasFlag reports whether the named flag matched.
func (r *Result) HasFlag(name string) bool {
	_, ok := r.flags[r.resolve(name)]
	return ok
}

// HasKey reports whether the named key/value matched.
func (r *Result) HasKey(name string) bool {
	_, ok := r.values[r.resolve(name)]
	return ok
}

// Flags returns the matched flags in the order first seen.
func (r *Result) Flags() []string {
	out := make([]string, 0, len(r.flags))
	for _, name := range r.order {
		if _, ok := r.flags[name]; ok {
			out = append(out, name)
		}
	}
	return out
}

// Keys returns the matched key/value names in the order first seen.
func (r *Result) Keys() []string {
	out := make([]string, 0, len(r.values))
	for _, name := range r.order {
		if _, ok := r.values[name]; ok {
			out = append(out, name)
		}
	}
	return out
}

// Value returns the converted value of a key. The boolean is false when the
// key did not match. The value is nil for a bare key or an absent optional.
func (r *Result) Value(name string) (any, bool) {
	v, ok := r.values[r.resolve(name)]
	if !ok {
		return nil, false
	}
	return v.value, true
}

// Raw returns the value text of a key after tokenization and trimming,
// before conversion.
func (r *Result) Raw(name string) (string, bool) {
	v, ok := r.values[r.resolve(name)]
	if !ok || !v.hasValue {
		return "", false
	}
	return v.raw, true
}

// Get returns the value of a key as T. ok is false when the key is absent,
// has no value, or holds a different type.
func Get[T any](r *Result, name string) (T, bool) {
	v, present := r.Value(name)
	if !present || v == nil {
		var zero T
		return zero, false
	}
	t, ok := v.(T)
	return t, ok
}

// GetString returns a string value.
func (r *Result) GetString(name string) (string, bool) { return Get[string](r, name) }

// GetInt32 returns an int32 value.
func (r *Result) GetInt32(name string) (int32, bool) { return Get[int32](r, name) }

// GetBool returns a bool value.
func (r *Result) GetBool(name string) (bool, bool) { return Get[bool](r, name) }

// GetChar returns a single character value.
func (r *Result) GetChar(name string) (rune, bool) {
	c, ok := Get[Char](r, name)
	return rune(c), ok
}

// MustString returns the string value or def.
func (r *Result) MustString(name, def string) string {
	if v, ok := r.GetString(name); ok {
		return v
	}
	return def
}

// MustInt32 returns the int32 value or def.
func (r *Result) MustInt32(name string, def int32) int32 {
	if v, ok := r.GetInt32(name); ok {
		return v
	}
	return def
}

// MustBool returns the bool value or def.
func (r *Result) MustBool(name string, def bool) bool {
	if v, ok := r.GetBool(name); ok {
		return v
	}
	return def
}

// MustChar returns the character value or def.
func (r *Result) MustChar(name string, def rune) rune {
	if v, ok := r.GetChar(name); ok {
		return v
	}
	return def
}

// Overflow returns the undeclared key/values. It is empty unless
// Config.AcceptUndeclared is set.
func (r *Result) Overflow() KeyValueStore { return r.overflow }

// Leftover returns the unmatched text in input order.
func (r *Result) Leftover() []string {
	out := make([]string, len(r.leftover))
	copy(out, r.leftover)
	return out
}

// LeftoverText joins the leftover text with single spaces.
func (r *Result) LeftoverText() string { return strings.Join(r.leftover, " ") }
