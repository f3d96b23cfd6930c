// Package client declares the per-connection record the update engine reads
// and mutates every tick (spec.md §3, component 7).
package client

import (
	"math/rand/v2"

	"github.com/df-mc/clientupdate/server/handle"
	"github.com/df-mc/clientupdate/server/inventory"
	"github.com/df-mc/clientupdate/server/playerlist"
	"github.com/df-mc/clientupdate/server/protocol/packet"
	"github.com/df-mc/clientupdate/server/sink"
	"github.com/df-mc/clientupdate/server/world"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/google/uuid"
)

// Id is an opaque handle into a Table, valid for exactly as long as the
// Client it names exists (spec.md §3).
type Id = handle.Key

// Table is the host-owned arena of Clients.
type Table = handle.Table[*Client]

// flags packs the eight per-client state booleans below into one byte,
// matching spec.md §9's bitfield-packing guideline. Presence flags that sit
// next to their values (HasTextures, HasSelfEntity, HasOpenInventory) are
// plain bool fields.
type flags uint8

const (
	flagCreatedThisTick flags = 1 << iota
	flagRespawn
	flagHardcore
	flagFlat
	flagRespawnScreen
	flagGotKeepalive
	flagCursorItemModified
	flagOpenInventoryModified
)

func (f *flags) set(bit flags, v bool) {
	if v {
		*f |= bit
	} else {
		*f &^= bit
	}
}
func (f flags) has(bit flags) bool { return f&bit != 0 }

// Client is a single connected player's server-side record (spec.md §3).
type Client struct {
	// identity
	Username string
	UUID     uuid.UUID
	IP       string
	Textures    []byte
	HasTextures bool

	// transport
	Send *sink.Sink // nil ⇒ disconnected (spec.md §3 invariant)

	// view
	World, OldWorld               world.WorldId
	Position, OldPosition         mgl64.Vec3
	Yaw, Pitch                    float32
	ViewDistance, OldViewDistance int32

	// self-entity
	SelfEntity      world.EntityId
	HasSelfEntity   bool
	selfUpdateStart int
	selfUpdateEnd   int
	hasSelfRange    bool

	// player list
	PlayerList, OldPlayerList playerlist.Id

	// respawn/death
	DeathLocation    *packet.DeathLocation
	GameMode         int32
	PreviousGameMode int32

	// teleport bookkeeping
	TeleportIDCounter uint32
	PendingTeleports  int

	// keepalive
	LastKeepaliveID uint64

	// block-change ack
	BlockChangeSequence int32

	// own player metadata
	MetadataDirty []byte

	// inventory
	Slots            inventory.Slots
	Cursor           packet.ItemStack
	OpenInventory    world.InventoryId
	HasOpenInventory bool
	WindowID         uint8
	InvStateID       int32

	f flags
}

// New returns a freshly created Client, with created_this_tick set as
// spec.md §9's global-tick-counter note requires. got_keepalive starts set,
// since no keepalive has been sent to the client yet.
func New(username string, id uuid.UUID) *Client {
	return &Client{
		Username:         username,
		UUID:             id,
		WindowID:         1,
		GameMode:         0,
		PreviousGameMode: -1,
		f:                flagCreatedThisTick | flagGotKeepalive,
	}
}

func (c *Client) CreatedThisTick() bool           { return c.f.has(flagCreatedThisTick) }
func (c *Client) SetCreatedThisTick(v bool)       { c.f.set(flagCreatedThisTick, v) }
func (c *Client) Respawn() bool                   { return c.f.has(flagRespawn) }
func (c *Client) SetRespawn(v bool)               { c.f.set(flagRespawn, v) }
func (c *Client) Hardcore() bool                  { return c.f.has(flagHardcore) }
func (c *Client) SetHardcore(v bool)              { c.f.set(flagHardcore, v) }
func (c *Client) Flat() bool                      { return c.f.has(flagFlat) }
func (c *Client) SetFlat(v bool)                  { c.f.set(flagFlat, v) }
func (c *Client) RespawnScreen() bool             { return c.f.has(flagRespawnScreen) }
func (c *Client) SetRespawnScreen(v bool)         { c.f.set(flagRespawnScreen, v) }
func (c *Client) GotKeepalive() bool              { return c.f.has(flagGotKeepalive) }
func (c *Client) SetGotKeepalive(v bool)          { c.f.set(flagGotKeepalive, v) }
func (c *Client) CursorItemModified() bool        { return c.f.has(flagCursorItemModified) }
func (c *Client) SetCursorItemModified(v bool)    { c.f.set(flagCursorItemModified, v) }
func (c *Client) OpenInventoryModified() bool     { return c.f.has(flagOpenInventoryModified) }
func (c *Client) SetOpenInventoryModified(v bool) { c.f.set(flagOpenInventoryModified, v) }

// Disconnected reports whether the client's transport has been dropped
// (spec.md §3 invariant: absent sink ⇒ disconnected, later update calls are
// no-ops).
func (c *Client) Disconnected() bool { return c.Send == nil }

// SetSelfEntity records the entity id sharing this client's uuid, along with
// the self-update byte range the engine must splice out of its chunk cell's
// cached update blob (spec.md §4.4.4). Which cell that is gets re-derived
// each tick from cell membership (engine.selfRangeFor), not stored here.
func (c *Client) SetSelfEntity(id world.EntityId, start, end int, hasRange bool) {
	c.SelfEntity, c.HasSelfEntity = id, true
	c.selfUpdateStart, c.selfUpdateEnd, c.hasSelfRange = start, end, hasRange
}

// ClearSelfEntity resets the self-entity id to the Null key, which never
// names a live entity, and drops the self-update range, per spec.md §4.4.4's
// fallback for "no such entity".
func (c *Client) ClearSelfEntity() {
	c.SelfEntity, c.HasSelfEntity = world.EntityId{}, false
	c.selfUpdateStart, c.selfUpdateEnd, c.hasSelfRange = 0, 0, false
}

// SelfUpdateRange returns the byte span within the self-entity's chunk
// cell's cached update blob that must be spliced out for this client
// (spec.md §4.4.6, §9 "splicing out self-updates").
func (c *Client) SelfUpdateRange() (start, end int, ok bool) {
	return c.selfUpdateStart, c.selfUpdateEnd, c.hasSelfRange
}

// ChunkPos returns the chunk position of the client's current authoritative
// position.
func (c *Client) ChunkPos() world.ChunkPos { return world.FromVec3(c.Position) }

// OldChunkPos returns the chunk position of the client's previous
// authoritative position.
func (c *Client) OldChunkPos() world.ChunkPos { return world.FromVec3(c.OldPosition) }

// SetPlayerList attaches pl as the client's player list. The transition
// itself (emitting clear/init packets) is the update engine's responsibility
// at the next tick (spec.md §4.4.2); this only updates the handle,
// mirroring the original engine's Client::player_list setter
// (SPEC_FULL.md §5.1). Pass the zero Id to detach without attaching a new
// list.
func (c *Client) SetPlayerList(pl playerlist.Id) {
	c.PlayerList = pl
}

// Teleport sets the client's authoritative position and emits a
// SynchronizePlayerPosition with a freshly incremented teleport id,
// incrementing PendingTeleports (spec.md §4.5).
func (c *Client) Teleport(pos mgl64.Vec3, yaw, pitch float32) {
	c.Position = pos
	c.Yaw, c.Pitch = yaw, pitch
	c.TeleportIDCounter++
	c.PendingTeleports++
	if c.Send != nil {
		c.Send.AppendPacket(&packet.SynchronizePlayerPosition{
			Pos:        [3]float64{pos[0], pos[1], pos[2]},
			Yaw:        yaw,
			Pitch:      pitch,
			TeleportID: int32(c.TeleportIDCounter),
		})
	}
}

// AcknowledgeTeleport decrements PendingTeleports when a client response for
// an outstanding teleport arrives. Incoming position packets must be
// ignored by the event layer while PendingTeleports > 0 (spec.md §4.5).
func (c *Client) AcknowledgeTeleport() {
	if c.PendingTeleports > 0 {
		c.PendingTeleports--
	}
}

// NextKeepaliveID returns a fresh random 64-bit keepalive id, matching the
// teacher's use of math/rand/v2 for scratch randomness (server/world/tick.go's
// randUint4).
func NextKeepaliveID() uint64 { return rand.Uint64() }

// NextWindowID advances WindowID, cycling 1..=100 as spec.md §3 requires.
func (c *Client) NextWindowID() uint8 {
	c.WindowID = c.WindowID%100 + 1
	return c.WindowID
}

// NextInvStateID advances and returns InvStateID, wrapping at 2^31 as
// spec.md §3 requires ("strictly monotonic ... wrap at 2^31").
func (c *Client) NextInvStateID() int32 {
	c.InvStateID++
	if c.InvStateID < 0 {
		c.InvStateID = 0
	}
	return c.InvStateID
}
