// Package handle implements a versioned handle table: an arena of values of
// type T keyed by a (index, generation) pair. Looking a value up through a
// handle whose generation no longer matches the slot's current generation
// fails, which is what lets the table detect use of a handle after the slot
// it once named was removed and recycled.
package handle

import "iter"

// Key identifies a value stored in a Table. The zero Key is Null and never
// resolves to a value.
type Key struct {
	index      uint32
	generation uint32
}

// Null is the distinguished Key that never resolves, regardless of what a
// Table contains.
var Null = Key{}

// Valid reports whether k is not Null. A Valid Key is not guaranteed to
// resolve: the entry it names may since have been removed.
func (k Key) Valid() bool { return k.generation != 0 }

type slot[T any] struct {
	value      T
	generation uint32
	occupied   bool
}

// Table is an arena of values of type T addressed by Key. The zero Table is
// ready to use.
type Table[T any] struct {
	slots []slot[T]
	free  []uint32
	len   int
}

// Insert adds v to the table and returns the Key that now identifies it along
// with a pointer to the stored value.
func (t *Table[T]) Insert(v T) (Key, *T) {
	var index uint32
	if n := len(t.free); n > 0 {
		index = t.free[n-1]
		t.free = t.free[:n-1]
	} else {
		index = uint32(len(t.slots))
		t.slots = append(t.slots, slot[T]{})
	}
	s := &t.slots[index]
	s.generation++
	if s.generation == 0 {
		// Wrapped past zero, which would collide with Null. Skip it.
		s.generation = 1
	}
	s.value = v
	s.occupied = true
	t.len++
	return Key{index: index, generation: s.generation}, &s.value
}

// Remove removes the entry named by k, if any, and returns its value.
func (t *Table[T]) Remove(k Key) (T, bool) {
	s, ok := t.resolve(k)
	if !ok {
		var zero T
		return zero, false
	}
	v := s.value
	s.occupied = false
	var zero T
	s.value = zero
	t.free = append(t.free, k.index)
	t.len--
	return v, true
}

// Get returns a pointer to the value named by k, or (nil, false) if k does
// not resolve to a live entry.
func (t *Table[T]) Get(k Key) (*T, bool) {
	s, ok := t.resolve(k)
	if !ok {
		return nil, false
	}
	return &s.value, true
}

func (t *Table[T]) resolve(k Key) (*slot[T], bool) {
	if !k.Valid() || int(k.index) >= len(t.slots) {
		return nil, false
	}
	s := &t.slots[k.index]
	if !s.occupied || s.generation != k.generation {
		return nil, false
	}
	return s, true
}

// Len returns the number of live entries in the table.
func (t *Table[T]) Len() int { return t.len }

// Retain keeps only the entries for which keep returns true, removing the
// rest.
func (t *Table[T]) Retain(keep func(Key, *T) bool) {
	for i := range t.slots {
		s := &t.slots[i]
		if !s.occupied {
			continue
		}
		k := Key{index: uint32(i), generation: s.generation}
		if !keep(k, &s.value) {
			var zero T
			s.occupied = false
			s.value = zero
			t.free = append(t.free, k.index)
			t.len--
		}
	}
}

// All returns an iterator over every live (Key, *T) pair in the table. The
// iteration order is unspecified but stable within a single call as long as
// the table isn't mutated concurrently with the iteration.
func (t *Table[T]) All() iter.Seq2[Key, *T] {
	return func(yield func(Key, *T) bool) {
		for i := range t.slots {
			s := &t.slots[i]
			if !s.occupied {
				continue
			}
			if !yield(Key{index: uint32(i), generation: s.generation}, &s.value) {
				return
			}
		}
	}
}
