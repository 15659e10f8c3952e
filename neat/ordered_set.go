package neat

import "math/rand"

// OrderedSet is an insertion-ordered collection of values keyed by a comparable identity.
// Adding is O(1) and ignores keys already present; removal is O(n) and keeps the order of
// the remaining elements.
type OrderedSet[K comparable, V any] struct {
	keys   []K
	values []V
	index  map[K]int
}

// NewOrderedSet creates an empty OrderedSet.
func NewOrderedSet[K comparable, V any]() *OrderedSet[K, V] {
	return &OrderedSet[K, V]{index: make(map[K]int)}
}

// Add appends value under key unless key is already present. It reports whether the value was added.
func (s *OrderedSet[K, V]) Add(key K, value V) bool {
	if _, ok := s.index[key]; ok {
		return false
	}
	s.index[key] = len(s.keys)
	s.keys = append(s.keys, key)
	s.values = append(s.values, value)
	return true
}

// Get returns the value stored under key.
func (s *OrderedSet[K, V]) Get(key K) (V, bool) {
	i, ok := s.index[key]
	if !ok {
		var zero V
		return zero, false
	}
	return s.values[i], true
}

// Contains reports whether key is present.
func (s *OrderedSet[K, V]) Contains(key K) bool {
	_, ok := s.index[key]
	return ok
}

// Remove deletes key and reports whether it was present.
func (s *OrderedSet[K, V]) Remove(key K) bool {
	i, ok := s.index[key]
	if !ok {
		return false
	}
	s.RemoveAt(i)
	return true
}

// RemoveAt deletes the element at position i and returns its value.
func (s *OrderedSet[K, V]) RemoveAt(i int) V {
	value := s.values[i]
	delete(s.index, s.keys[i])

	s.keys = append(s.keys[:i], s.keys[i+1:]...)
	s.values = append(s.values[:i], s.values[i+1:]...)
	for j := i; j < len(s.keys); j++ {
		s.index[s.keys[j]] = j
	}
	return value
}

// At returns the key and value at position i.
func (s *OrderedSet[K, V]) At(i int) (K, V) {
	return s.keys[i], s.values[i]
}

// Len returns the number of elements.
func (s *OrderedSet[K, V]) Len() int {
	return len(s.keys)
}

// Random returns a uniformly chosen element. ok is false when the set is empty.
func (s *OrderedSet[K, V]) Random(rng *rand.Rand) (key K, value V, ok bool) {
	if len(s.keys) == 0 {
		return key, value, false
	}
	i := rng.Intn(len(s.keys))
	return s.keys[i], s.values[i], true
}

// Keys returns a copy of the keys in insertion order.
func (s *OrderedSet[K, V]) Keys() []K {
	return append([]K(nil), s.keys...)
}

// Values returns a copy of the values in insertion order.
func (s *OrderedSet[K, V]) Values() []V {
	return append([]V(nil), s.values...)
}
