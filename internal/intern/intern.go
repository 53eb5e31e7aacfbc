// Package intern provides the case-normalizing name table used by the parser
// to resolve argument names to their declared spelling.
package intern

import (
	"strings"
	"unicode/utf8"
)

// Table maps normalized names to their canonical (declared) spelling.
// It is filled once while a parser is built and read-only afterwards, so
// concurrent lookups need no locking.
type Table struct {
	fold  bool
	names map[string]string
	order []string
}

// NewTable creates a table. When caseSensitive is false, lookups fold case.
func NewTable(caseSensitive bool, capacity int) *Table {
	if capacity <= 0 {
		capacity = 16
	}
	return &Table{
		fold:  !caseSensitive,
		names: make(map[string]string, capacity),
		order: make([]string, 0, capacity),
	}
}

// CaseSensitive reports whether the table compares names exactly.
func (t *Table) CaseSensitive() bool { return !t.fold }

// Normalize returns the lookup key for s. It does not allocate when s is
// already in normal form.
func (t *Table) Normalize(s string) string {
	return Fold(s, !t.fold)
}

// Add registers name. It returns the canonical spelling and false when an
// equivalent name was already registered.
func (t *Table) Add(name string) (string, bool) {
	key := t.Normalize(name)
	if existing, ok := t.names[key]; ok {
		return existing, false
	}
	t.names[key] = name
	t.order = append(t.order, name)
	return name, true
}

// Lookup resolves s to the canonical spelling of a registered name.
func (t *Table) Lookup(s string) (string, bool) {
	name, ok := t.names[t.Normalize(s)]
	return name, ok
}

// Names returns the registered names in registration order.
func (t *Table) Names() []string {
	out := make([]string, len(t.order))
	copy(out, t.order)
	return out
}

// Len returns the number of registered names.
func (t *Table) Len() int { return len(t.order) }

// Fold lowercases s unless caseSensitive is set. ASCII input without upper
// case letters is returned as is.
func Fold(s string, caseSensitive bool) string {
	if caseSensitive {
		return s
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c >= utf8.RuneSelf || (c >= 'A' && c <= 'Z') {
			return strings.ToLower(s)
		}
	}
	return s
}
