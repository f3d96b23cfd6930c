// Package rchandle implements a reference-counted handle table: an arena of
// values of type T where each live entry tracks the number of outstanding
// Handle values that name it. The entry is deleted the moment its reference
// count drops to zero. It is used for state shared across many clients, such
// as the player-list store's PlayerList entries (spec.md §3, §4.2).
package rchandle

import "iter"

// Key identifies a slot in a Table, independent of any particular Handle
// cloned from it.
type Key struct{ index uint32 }

type entry[T any] struct {
	value    T
	refs     int
	occupied bool
}

// Table is a reference-counted arena of values of type T. The zero Table is
// ready to use. Table is not safe for concurrent use; callers that share a
// Table across goroutines must synchronize externally (the player-list store
// does so by only mutating it between per-client updates, per spec.md §5).
type Table[T any] struct {
	entries []entry[T]
	free    []uint32
}

// Handle is a cloneable, reference-counted reference to an entry in a Table.
// The zero Handle is invalid and names nothing.
type Handle[T any] struct {
	table *Table[T]
	key   Key
	valid bool
}

// Insert adds v to the table with an initial reference count of one and
// returns a Handle owning that first reference.
func (t *Table[T]) Insert(v T) Handle[T] {
	var index uint32
	if n := len(t.free); n > 0 {
		index = t.free[n-1]
		t.free = t.free[:n-1]
	} else {
		index = uint32(len(t.entries))
		t.entries = append(t.entries, entry[T]{})
	}
	e := &t.entries[index]
	e.value = v
	e.refs = 1
	e.occupied = true
	return Handle[T]{table: t, key: Key{index: index}, valid: true}
}

// Valid reports whether h still names an entry. A zero-value Handle is
// always invalid.
func (h Handle[T]) Valid() bool { return h.valid }

// Get returns a pointer to the value h names. Lookup through a live Handle is
// infallible: as long as h.Valid() the entry is guaranteed to exist, because
// the Handle itself holds one of the references keeping it alive.
func (h Handle[T]) Get() *T {
	if !h.valid {
		panic("rchandle: Get called on an invalid Handle")
	}
	e := &h.table.entries[h.key.index]
	return &e.value
}

// Clone increments the entry's reference count and returns a new Handle
// naming the same entry.
func (h Handle[T]) Clone() Handle[T] {
	if !h.valid {
		return Handle[T]{}
	}
	h.table.entries[h.key.index].refs++
	return h
}

// Release decrements the entry's reference count. When the count reaches
// zero the entry is deleted. Release marks h invalid, so calling it again on
// the same Handle is a no-op. Releasing more references than the entry holds
// (for example through a plain copy of a Handle rather than a Clone) panics,
// matching the teacher's debug-assertion posture in server/internal/txguard
// for misuse of owned resources.
func (h *Handle[T]) Release() {
	if !h.valid {
		return
	}
	e := &h.table.entries[h.key.index]
	e.refs--
	if e.refs < 0 {
		panic("rchandle: Release called more times than the entry was referenced")
	}
	if e.refs == 0 {
		var zero T
		e.value = zero
		e.occupied = false
		h.table.free = append(h.table.free, h.key.index)
	}
	h.valid = false
}

// RefCount returns the current reference count of the entry h names, or 0 if
// h is invalid. Exposed for tests and diagnostics only.
func (h Handle[T]) RefCount() int {
	if !h.valid {
		return 0
	}
	return h.table.entries[h.key.index].refs
}

// Len returns the number of live entries currently in the table.
func (t *Table[T]) Len() int {
	n := 0
	for _, e := range t.entries {
		if e.occupied {
			n++
		}
	}
	return n
}

// All iterates every live entry's value. Used by collaborators (such as the
// player-list store) that must visit every outstanding entry once per tick
// regardless of how many Handles reference it (spec.md §4.3).
func (t *Table[T]) All() iter.Seq[*T] {
	return func(yield func(*T) bool) {
		for i := range t.entries {
			e := &t.entries[i]
			if !e.occupied {
				continue
			}
			if !yield(&e.value) {
				return
			}
		}
	}
}
