// Package sets provides a small generic hash set.
package sets

import (
	"sort"
	"strings"
)

// Set is a simple generic hash set for comparable keys.
// Usage: s := sets.New[string]("a","b"); s.Add("c"); if s.Has("b") {...}
type Set[T comparable] map[T]struct{}

// New creates a set pre-populated with the provided values.
func New[T comparable](vals ...T) Set[T] {
	s := make(Set[T], len(vals))
	for _, v := range vals {
		s[v] = struct{}{}
	}
	return s
}

// Add inserts value into the set.
func (s Set[T]) Add(v T) { s[v] = struct{}{} }

// Has returns true if v is present.
func (s Set[T]) Has(v T) bool {
	_, ok := s[v]
	return ok
}

// Sorted returns the members of a string set in ascending order.
func Sorted(s Set[string]) []string {
	out := make([]string, 0, len(s))
	for k := range s {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// DedupFold returns vals without case-insensitive duplicates, keeping the
// first spelling of each and the original order.
func DedupFold(vals []string) []string {
	seen := New[string]()
	out := make([]string, 0, len(vals))
	for _, v := range vals {
		key := strings.ToLower(v)
		if seen.Has(key) {
			continue
		}
		seen.Add(key)
		out = append(out, v)
	}
	return out
}
