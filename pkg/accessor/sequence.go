package accessor

import (
	"iter"
	"slices"
)

// Sequence is a lazy, restartable view of accessor elements. Elements are
// decoded on demand; sparse overrides replace base elements at their indices.
// Without a base run, unpatched elements come from zero, or are the zero
// value of T when zero is nil. zero builds a fresh value on every call.
type Sequence[T any] struct {
	count  int
	base   *layout
	zero   func() T
	decode func([]byte) T
	sparse *overlay
}

func newSequence[T any](src *source, decode func([]byte) T) *Sequence[T] {
	return &Sequence[T]{
		count:  src.count,
		base:   src.base,
		decode: decode,
		sparse: src.sparse,
	}
}

// Len returns the number of elements.
func (s *Sequence[T]) Len() int {
	return s.count
}

// At returns element i. ok is false when i is out of range.
func (s *Sequence[T]) At(i int) (v T, ok bool) {
	if i < 0 || i >= s.count {
		return v, false
	}
	if s.sparse != nil {
		if j, found := slices.BinarySearch(s.sparse.indices, i); found {
			return s.decode(s.sparse.values.at(j)), true
		}
	}
	if s.base == nil {
		return s.fill(), true
	}
	return s.decode(s.base.at(i)), true
}

// All yields every index and element in order.
func (s *Sequence[T]) All() iter.Seq2[int, T] {
	return func(yield func(int, T) bool) {
		next := 0
		for i := 0; i < s.count; i++ {
			var v T
			switch {
			case s.sparse != nil && next < len(s.sparse.indices) && s.sparse.indices[next] == i:
				v = s.decode(s.sparse.values.at(next))
				next++
			case s.base != nil:
				v = s.decode(s.base.at(i))
			default:
				v = s.fill()
			}
			if !yield(i, v) {
				return
			}
		}
	}
}

func (s *Sequence[T]) fill() (v T) {
	if s.zero != nil {
		v = s.zero()
	}
	return v
}

// Values yields every element in order.
func (s *Sequence[T]) Values() iter.Seq[T] {
	return func(yield func(T) bool) {
		for _, v := range s.All() {
			if !yield(v) {
				return
			}
		}
	}
}

// Collect decodes every element into a new slice.
func (s *Sequence[T]) Collect() []T {
	out := make([]T, 0, s.count)
	for v := range s.Values() {
		out = append(out, v)
	}
	return out
}

// Map returns a sequence that applies f to every element of s.
func Map[T, U any](s *Sequence[T], f func(T) U) *Sequence[U] {
	return &Sequence[U]{
		count:  s.count,
		base:   s.base,
		zero:   func() U { return f(s.fill()) },
		decode: func(b []byte) U { return f(s.decode(b)) },
		sparse: s.sparse,
	}
}
