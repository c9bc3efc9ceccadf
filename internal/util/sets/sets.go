// Package sets provides a small generic set used for keyword and folder bookkeeping.
package sets

import (
	"cmp"
	"slices"
)

// Set is a hash set for comparable keys.
type Set[T comparable] map[T]struct{}

// New creates a set pre-populated with vals.
func New[T comparable](vals ...T) Set[T] {
	s := make(Set[T], len(vals))
	for _, v := range vals {
		s[v] = struct{}{}
	}
	return s
}

// Add inserts v and reports whether it was absent.
func (s Set[T]) Add(v T) bool {
	if _, ok := s[v]; ok {
		return false
	}
	s[v] = struct{}{}
	return true
}

// Has reports whether v is present.
func (s Set[T]) Has(v T) bool {
	_, ok := s[v]
	return ok
}

// Difference returns the members of s that are not in other.
func (s Set[T]) Difference(other Set[T]) Set[T] {
	out := make(Set[T])
	for k := range s {
		if !other.Has(k) {
			out[k] = struct{}{}
		}
	}
	return out
}

// Sorted returns the members of an ordered set in ascending order.
func Sorted[T cmp.Ordered](s Set[T]) []T {
	out := make([]T, 0, len(s))
	for k := range s {
		out = append(out, k)
	}
	slices.Sort(out)
	return out
}

// Unique returns vals without duplicates, keeping first occurrences in order.
func Unique[T comparable](vals []T) []T {
	seen := make(Set[T], len(vals))
	out := make([]T, 0, len(vals))
	for _, v := range vals {
		if seen.Add(v) {
			out = append(out, v)
		}
	}
	return out
}
