package handle_test

import (
	"testing"

	"github.com/df-mc/clientupdate/server/handle"
)

func TestInsertGetRemove(t *testing.T) {
	var tbl handle.Table[string]
	k, v := tbl.Insert("alpha")
	if *v != "alpha" {
		t.Fatalf("inserted value = %q, want alpha", *v)
	}
	if got, ok := tbl.Get(k); !ok || *got != "alpha" {
		t.Fatalf("Get(k) = %v, %v, want alpha, true", got, ok)
	}
	if tbl.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", tbl.Len())
	}
	old, ok := tbl.Remove(k)
	if !ok || old != "alpha" {
		t.Fatalf("Remove(k) = %q, %v, want alpha, true", old, ok)
	}
	if tbl.Len() != 0 {
		t.Fatalf("Len() after remove = %d, want 0", tbl.Len())
	}
}

func TestUseAfterFreeDetected(t *testing.T) {
	var tbl handle.Table[int]
	k, _ := tbl.Insert(1)
	tbl.Remove(k)

	k2, _ := tbl.Insert(2)
	if k2 == k {
		t.Fatalf("recycled key %v compared equal to stale key", k2)
	}
	if _, ok := tbl.Get(k); ok {
		t.Fatalf("Get(k) succeeded after the slot was recycled with a new generation")
	}
	if v, ok := tbl.Get(k2); !ok || *v != 2 {
		t.Fatalf("Get(k2) = %v, %v, want 2, true", v, ok)
	}
}

func TestNullNeverResolves(t *testing.T) {
	var tbl handle.Table[int]
	tbl.Insert(0)
	if _, ok := tbl.Get(handle.Null); ok {
		t.Fatalf("Get(Null) resolved to a value")
	}
	if handle.Null.Valid() {
		t.Fatalf("Null.Valid() = true, want false")
	}
}

func TestRetain(t *testing.T) {
	var tbl handle.Table[int]
	var keys []handle.Key
	for i := 0; i < 5; i++ {
		k, _ := tbl.Insert(i)
		keys = append(keys, k)
	}
	tbl.Retain(func(_ handle.Key, v *int) bool {
		return *v%2 == 0
	})
	if tbl.Len() != 3 {
		t.Fatalf("Len() after Retain = %d, want 3", tbl.Len())
	}
	if _, ok := tbl.Get(keys[1]); ok {
		t.Fatalf("odd entry survived Retain")
	}
}

func TestAllIteratesLiveEntries(t *testing.T) {
	var tbl handle.Table[int]
	k0, _ := tbl.Insert(10)
	k1, _ := tbl.Insert(20)
	tbl.Remove(k0)

	seen := map[handle.Key]int{}
	for k, v := range tbl.All() {
		seen[k] = *v
	}
	if len(seen) != 1 {
		t.Fatalf("All() yielded %d entries, want 1", len(seen))
	}
	if seen[k1] != 20 {
		t.Fatalf("All() missing live entry k1=20, got %v", seen)
	}
}
