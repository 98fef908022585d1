// Package orderedset provides an insertion-ordered set.
package orderedset

// Set keeps unique values in the order they were first added.
// The zero value is ready to use; it is not safe for concurrent use.
type Set[T comparable] struct {
	index map[T]struct{}
	items []T
}

// New creates a set seeded with values
func New[T comparable](values ...T) *Set[T] {
	s := &Set[T]{}
	s.Add(values...)
	return s
}

// Add appends values not already present and reports how many were added
func (s *Set[T]) Add(values ...T) int {
	if s.index == nil {
		s.index = make(map[T]struct{}, len(values))
	}
	added := 0
	for _, v := range values {
		if _, ok := s.index[v]; ok {
			continue
		}
		s.index[v] = struct{}{}
		s.items = append(s.items, v)
		added++
	}
	return added
}

// Contains reports whether v is in the set
func (s *Set[T]) Contains(v T) bool {
	_, ok := s.index[v]
	return ok
}

func (s *Set[T]) Len() int {
	return len(s.items)
}

// Values returns a copy of the items in insertion order
func (s *Set[T]) Values() []T {
	out := make([]T, len(s.items))
	copy(out, s.items)
	return out
}

// Union returns the ordered union of the given slices
func Union[T comparable](lists ...[]T) []T {
	s := &Set[T]{}
	for _, l := range lists {
		s.Add(l...)
	}
	return s.Values()
}
