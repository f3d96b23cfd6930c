package inventory_test

import (
	"testing"

	"github.com/df-mc/clientupdate/server/inventory"
	"github.com/df-mc/clientupdate/server/protocol/packet"
)

func TestSetMarksDirtyOnlyOnChange(t *testing.T) {
	var s inventory.Slots
	s.Set(3, packet.ItemStack{Present: true, ID: 1, Count: 1})
	if s.ModifiedSlots&(1<<3) == 0 {
		t.Fatalf("bit 3 not set after first Set")
	}
	s.ClearModified()
	s.Set(3, packet.ItemStack{Present: true, ID: 1, Count: 1})
	if s.ModifiedSlots != 0 {
		t.Fatalf("Set with an identical value marked the slot dirty")
	}
}

func TestModifiedIndicesMatchesPopcount(t *testing.T) {
	var s inventory.Slots
	s.Set(3, packet.ItemStack{Present: true, ID: 1, Count: 1})
	s.Set(17, packet.ItemStack{Present: true, ID: 2, Count: 1})
	if s.ModifiedCount() != 2 {
		t.Fatalf("ModifiedCount() = %d, want 2", s.ModifiedCount())
	}
	var got []int
	s.ModifiedIndices(func(i int) bool {
		got = append(got, i)
		return true
	})
	if len(got) != 2 || got[0] != 3 || got[1] != 17 {
		t.Fatalf("ModifiedIndices() = %v, want [3 17]", got)
	}
}

func TestWholeResendNeeded(t *testing.T) {
	var s inventory.Slots
	for i := 0; i < inventory.Size; i++ {
		s.Set(i, packet.ItemStack{Present: true, ID: int32(i), Count: 1})
	}
	if s.WholeResendNeeded(false) {
		t.Fatalf("WholeResendNeeded(false) = true, want false (cursor not modified)")
	}
	if !s.WholeResendNeeded(true) {
		t.Fatalf("WholeResendNeeded(true) = false, want true (all slots + cursor modified)")
	}
}

func TestRegistryOpenCloseGet(t *testing.T) {
	var reg inventory.Registry
	inv := inventory.New("chest", "Chest", 27)
	id := reg.Open(inv)

	got, ok := reg.Get(id)
	if !ok || got != inv {
		t.Fatalf("Get(id) = %v, %v, want the opened inventory, true", got, ok)
	}

	reg.Close(id)
	if _, ok := reg.Get(id); ok {
		t.Fatalf("Get(id) succeeded after Close")
	}
}
