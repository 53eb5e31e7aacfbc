package pamargs

import "github.com/dzonerzy/go-pamargs/internal/intern"

// KeyValueStore holds undeclared key/value pairs accepted during a parse.
type KeyValueStore interface {
	// Add records key. A repeated key replaces the previous value but keeps
	// its first spelling and position.
	Add(key, value string, hasValue bool)
	// Get returns the value of key; ok is false when the key is absent.
	Get(key string) (value string, hasValue, ok bool)
	HasKey(key string) bool
	// Keys returns the stored keys in insertion order.
	Keys() []string
	Len() int
	// Range calls fn for every entry in insertion order until fn returns false.
	Range(fn func(key, value string, hasValue bool) bool)
	Clear()
}

type storeEntry struct {
	key      string
	value    string
	hasValue bool
}

// Store is the default KeyValueStore. It is not safe for concurrent writes;
// each parse gets its own.
type Store struct {
	caseSensitive bool
	index         map[string]int
	entries       []storeEntry
}

// NewStore creates an empty store.
func NewStore(caseSensitive bool) *Store {
	return &Store{caseSensitive: caseSensitive, index: make(map[string]int)}
}

func (s *Store) Add(key, value string, hasValue bool) {
	k := intern.Fold(key, s.caseSensitive)
	if i, ok := s.index[k]; ok {
		s.entries[i].value = value
		s.entries[i].hasValue = hasValue
		return
	}
	s.index[k] = len(s.entries)
	s.entries = append(s.entries, storeEntry{key: key, value: value, hasValue: hasValue})
}

func (s *Store) Get(key string) (string, bool, bool) {
	i, ok := s.index[intern.Fold(key, s.caseSensitive)]
	if !ok {
		return "", false, false
	}
	e := s.entries[i]
	return e.value, e.hasValue, true
}

func (s *Store) HasKey(key string) bool {
	_, ok := s.index[intern.Fold(key, s.caseSensitive)]
	return ok
}

func (s *Store) Keys() []string {
	keys := make([]string, len(s.entries))
	for i, e := range s.entries {
		keys[i] = e.key
	}
	return keys
}

func (s *Store) Len() int { return len(s.entries) }

func (s *Store) Range(fn func(key, value string, hasValue bool) bool) {
	for _, e := range s.entries {
		if !fn(e.key, e.value, e.hasValue) {
			return
		}
	}
}

func (s *Store) Clear() {
	clear(s.index)
	s.entries = s.entries[:0]
}

// StoreValue converts the value stored under key. ok is false when the key
// is absent or has no value.
func StoreValue[T any](s KeyValueStore, key string, c Converter) (value T, ok bool, err error) {
	raw, hasValue, found := s.Get(key)
	if !found || !hasValue {
		return value, false, nil
	}
	return ConvertAs[T](c, raw)
}
