package core

import (
	"fmt"
	"sort"
)

// Store is the in-memory collection of months keyed by month key. An
// invocation loads it from a repository, mutates it, and saves it back; it
// is always passed explicitly, never held in a package-level variable.
type Store map[string]*Month

// NewStore returns an empty store.
func NewStore() Store {
	return make(Store)
}

// Get returns the month for key or a not-found error.
func (s Store) Get(key string) (*Month, error) {
	m, ok := s[key]
	if !ok {
		return nil, fmt.Errorf("%w: no month found for %s", ErrNotFound, key)
	}
	return m, nil
}

// Has reports whether key exists.
func (s Store) Has(key string) bool {
	_, ok := s[key]
	return ok
}

// Put inserts or replaces the month under its own key.
func (s Store) Put(m *Month) {
	s[m.MonthKey] = m
}

// Delete removes the month for key, failing if it does not exist.
func (s Store) Delete(key string) error {
	if _, ok := s[key]; !ok {
		return fmt.Errorf("%w: no month found for %s", ErrNotFound, key)
	}
	delete(s, key)
	return nil
}

// Keys returns the month keys in ascending order. Display layers that want
// newest-first reverse it.
func (s Store) Keys() []string {
	keys := make([]string, 0, len(s))
	for k := range s {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
