// Package inventory implements the fixed-size, bitmask-diffed slot array
// spec.md §3 attaches to every Client, plus a concrete, host-usable
// implementation of the world.Inventory collaborator for non-player
// containers (chests, furnaces, crafting tables; spec.md §6, SPEC_FULL.md §5.1).
package inventory

import (
	"math/bits"

	"github.com/df-mc/clientupdate/server/handle"
	"github.com/df-mc/clientupdate/server/protocol/packet"
	"github.com/df-mc/clientupdate/server/sink"
	"github.com/df-mc/clientupdate/server/world"
)

// Size is the number of slots in a player's own inventory window (spec.md
// §3).
const Size = 45

// AllSlotsMask has every one of the Size low bits set; a client's
// ModifiedSlots equals AllSlotsMask exactly when every slot changed this
// tick (spec.md §4.4.9's whole-inventory-resend condition).
const AllSlotsMask = uint64(1)<<Size - 1

// Slots is the fixed 45-slot array a Client carries, along with the dirty
// bitmask that tracks which slots changed since they were last sent.
type Slots struct {
	items         [Size]packet.ItemStack
	ModifiedSlots uint64
}

// Get returns the item currently in slot i.
func (s *Slots) Get(i int) packet.ItemStack { return s.items[i] }

// Set stores item in slot i and marks it dirty if the value actually
// changed, matching spec.md §3's invariant that bit i is set iff slots[i]
// differs from what was last sent.
func (s *Slots) Set(i int, item packet.ItemStack) {
	if s.items[i] == item {
		return
	}
	s.items[i] = item
	s.ModifiedSlots |= 1 << uint(i)
}

// WholeResendNeeded reports whether every slot changed and the cursor item
// also changed, the condition spec.md §4.4.9 treats the same as
// CreatedThisTick for resend purposes.
func (s *Slots) WholeResendNeeded(cursorModified bool) bool {
	return s.ModifiedSlots == AllSlotsMask && cursorModified
}

// ModifiedCount returns the number of slots currently marked dirty.
func (s *Slots) ModifiedCount() int { return bits.OnesCount64(s.ModifiedSlots) }

// ModifiedIndices iterates the indices of every dirty slot, lowest first.
func (s *Slots) ModifiedIndices(yield func(int) bool) {
	m := s.ModifiedSlots
	for m != 0 {
		i := bits.TrailingZeros64(m)
		if !yield(i) {
			return
		}
		m &^= 1 << uint(i)
	}
}

// ClearModified clears the dirty bitmask.
func (s *Slots) ClearModified() { s.ModifiedSlots = 0 }

// All returns a copy of the 45 slots, in order, for a whole-inventory
// resend.
func (s *Slots) All() [Size]packet.ItemStack { return s.items }

// Inventory is a non-player container the engine forwards per-tick updates
// for (spec.md §6's Inventory collaborator). Its contents and interaction
// rules (crafting, hoppers, ...) are out of scope; only the bookkeeping
// needed to satisfy world.Inventory is implemented.
type Inventory struct {
	kind, title string
	slots       []packet.ItemStack
	dirty       []int
}

// New returns an Inventory with size slots, all empty.
func New(kind, title string, size int) *Inventory {
	return &Inventory{kind: kind, title: title, slots: make([]packet.ItemStack, size)}
}

func (inv *Inventory) Kind() string  { return inv.kind }
func (inv *Inventory) Title() string { return inv.title }

// SetSlot stores item in slot i and marks it for the next SendUpdate call.
func (inv *Inventory) SetSlot(i int, item packet.ItemStack) {
	if inv.slots[i] == item {
		return
	}
	inv.slots[i] = item
	inv.dirty = append(inv.dirty, i)
}

// SendUpdate appends a SetContainerSlot packet for every slot dirtied since
// the last call, satisfying world.Inventory.
func (inv *Inventory) SendUpdate(s *sink.Sink, windowID uint8, stateID int32) {
	for _, i := range inv.dirty {
		s.AppendPacket(&packet.SetContainerSlot{
			WindowID: int8(windowID),
			StateID:  stateID,
			Slot:     int16(i),
			Item:     inv.slots[i],
		})
	}
	inv.dirty = inv.dirty[:0]
}

// Registry is a handle.Table of open, non-player Inventories, letting a host
// hand out world.InventoryId values that resolve through world.Inventories.
type Registry struct {
	table handle.Table[*Inventory]
}

// Open inserts inv into the registry and returns the id a Client's
// OpenInventory field should be set to.
func (r *Registry) Open(inv *Inventory) world.InventoryId {
	k, _ := r.table.Insert(inv)
	return k
}

// Close removes the inventory named by id from the registry.
func (r *Registry) Close(id world.InventoryId) {
	r.table.Remove(id)
}

// Get implements world.Inventories.
func (r *Registry) Get(id world.InventoryId) (world.Inventory, bool) {
	p, ok := r.table.Get(id)
	if !ok {
		return nil, false
	}
	return *p, true
}
