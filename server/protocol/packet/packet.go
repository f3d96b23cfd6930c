// Package packet declares the concrete packet types the update engine (and
// the player-list store) construct directly. Packets whose payload is owned
// by a collaborator named in spec.md §6 — chunk data, block-change updates,
// entity spawn/update bytes — are opaque byte blobs written straight to the
// sink by that collaborator and have no type here; see server/world.
package packet

import (
	"github.com/df-mc/clientupdate/server/protocol"
	"github.com/google/uuid"
)

// ItemStack is the wire representation of an inventory slot. An absent item
// is represented by the zero value (Present == false).
type ItemStack struct {
	Present bool
	ID      int32
	Count   int16
}

func (s ItemStack) encode(w *protocol.Writer) {
	w.Bool(s.Present)
	if !s.Present {
		return
	}
	w.Int32(s.ID)
	w.Int32(int32(s.Count))
}

// DeathLocation is an optional (dimension, block position) pair shown on the
// client's respawn screen.
type DeathLocation struct {
	Dimension string
	Pos       [3]int32
}

func (d *DeathLocation) encode(w *protocol.Writer) {
	w.Bool(d != nil)
	if d == nil {
		return
	}
	w.String(d.Dimension)
	w.Int32(d.Pos[0])
	w.Int32(d.Pos[1])
	w.Int32(d.Pos[2])
}

// LoginPlay is the first packet a freshly connected client must receive
// (spec.md §4.4.2, §8 invariant 1).
type LoginPlay struct {
	EntityID           int32
	Hardcore           bool
	GameMode           int32
	PreviousGameMode   int32
	DimensionNames     []string
	RegistryCodec      []byte
	DimensionType      string
	DimensionName      string
	HashedSeed         int64
	ViewDistance       int32
	SimulationDistance int32
	ReducedDebugInfo   bool
	RespawnScreen      bool
	IsDebug            bool
	IsFlat             bool
	LastDeathLocation  *DeathLocation
}

func (p *LoginPlay) Encode(w *protocol.Writer) {
	w.Int32(p.EntityID)
	w.Bool(p.Hardcore)
	w.Int32(p.GameMode)
	w.Int32(p.PreviousGameMode)
	w.Varuint32(uint32(len(p.DimensionNames)))
	for _, n := range p.DimensionNames {
		w.String(n)
	}
	w.Varuint32(uint32(len(p.RegistryCodec)))
	w.RawBytes(p.RegistryCodec)
	w.String(p.DimensionType)
	w.String(p.DimensionName)
	w.Int64(p.HashedSeed)
	w.Int32(p.ViewDistance)
	w.Int32(p.SimulationDistance)
	w.Bool(p.ReducedDebugInfo)
	w.Bool(p.RespawnScreen)
	w.Bool(p.IsDebug)
	w.Bool(p.IsFlat)
	p.LastDeathLocation.encode(w)
}

// Respawn mirrors LoginPlay's dimension/game-mode fields for a client moving
// to a new world without a fresh connection (spec.md §4.4.2).
type Respawn struct {
	DimensionType     string
	DimensionName     string
	HashedSeed        int64
	GameMode          int32
	PreviousGameMode  int32
	IsDebug           bool
	IsFlat            bool
	RespawnScreen     bool
	LastDeathLocation *DeathLocation
}

func (p *Respawn) Encode(w *protocol.Writer) {
	w.String(p.DimensionType)
	w.String(p.DimensionName)
	w.Int64(p.HashedSeed)
	w.Int32(p.GameMode)
	w.Int32(p.PreviousGameMode)
	w.Bool(p.IsDebug)
	w.Bool(p.IsFlat)
	w.Bool(p.RespawnScreen)
	p.LastDeathLocation.encode(w)
}

// SetRenderDistance updates the client's view (render) distance.
type SetRenderDistance struct{ Distance int32 }

func (p *SetRenderDistance) Encode(w *protocol.Writer) { w.Int32(p.Distance) }

// SetCenterChunk tells the client which chunk column it is currently
// centered on, ahead of any chunk loads (spec.md §4.4.5).
type SetCenterChunk struct{ X, Z int32 }

func (p *SetCenterChunk) Encode(w *protocol.Writer) { w.Int32(p.X); w.Int32(p.Z) }

// UnloadChunk tells the client to discard a chunk column it previously held.
type UnloadChunk struct{ X, Z int32 }

func (p *UnloadChunk) Encode(w *protocol.Writer) { w.Int32(p.X); w.Int32(p.Z) }

// KeepAliveS2c is the server-initiated half of the keepalive handshake
// (spec.md §4.4.3).
type KeepAliveS2c struct{ ID uint64 }

func (p *KeepAliveS2c) Encode(w *protocol.Writer) { w.Uint64(p.ID) }

// SetEntityMetadata carries a pre-encoded metadata byte stream (spec.md
// §4.4.7). Data already includes its 0xFF terminator by the time it reaches
// this packet.
type SetEntityMetadata struct {
	EntityID int32
	Data     []byte
}

func (p *SetEntityMetadata) Encode(w *protocol.Writer) {
	w.Int32(p.EntityID)
	w.Varuint32(uint32(len(p.Data)))
	w.RawBytes(p.Data)
}

// AcknowledgeBlockChange acknowledges a client-predicted block change
// sequence (spec.md §4.4.8).
type AcknowledgeBlockChange struct{ Sequence int32 }

func (p *AcknowledgeBlockChange) Encode(w *protocol.Writer) { w.Int32(p.Sequence) }

// SetContainerContent resends the container contents listed in Slots along
// with a fresh state id (spec.md §4.4.9). The engine fills Slots with all 45
// player-inventory slots for window 0 and leaves it empty for a newly opened
// window.
type SetContainerContent struct {
	WindowID uint8
	StateID  int32
	Slots    []ItemStack
	Cursor   ItemStack
}

func (p *SetContainerContent) Encode(w *protocol.Writer) {
	w.Uint8(p.WindowID)
	w.Int32(p.StateID)
	w.Varuint32(uint32(len(p.Slots)))
	for _, s := range p.Slots {
		s.encode(w)
	}
	p.Cursor.encode(w)
}

// SetContainerSlot updates a single container slot (spec.md §4.4.9). Window
// -1 and Slot -1 address the cursor item.
type SetContainerSlot struct {
	WindowID int8
	StateID  int32
	Slot     int16
	Item     ItemStack
}

func (p *SetContainerSlot) Encode(w *protocol.Writer) {
	w.Int32(int32(p.WindowID))
	w.Int32(p.StateID)
	w.Int32(int32(p.Slot))
	p.Item.encode(w)
}

// OpenScreen announces a newly opened container window (spec.md §4.4.9).
type OpenScreen struct {
	WindowID   uint8
	WindowType int32
	Title      string
}

func (p *OpenScreen) Encode(w *protocol.Writer) {
	w.Uint8(p.WindowID)
	w.Int32(p.WindowType)
	w.String(p.Title)
}

// SynchronizePlayerPosition is a server-initiated teleport (spec.md §4.5).
type SynchronizePlayerPosition struct {
	Pos        [3]float64
	Yaw, Pitch float32
	TeleportID int32
}

func (p *SynchronizePlayerPosition) Encode(w *protocol.Writer) {
	w.Int64(int64(p.Pos[0] * 1000))
	w.Int64(int64(p.Pos[1] * 1000))
	w.Int64(int64(p.Pos[2] * 1000))
	w.Float32(p.Yaw)
	w.Float32(p.Pitch)
	w.Int32(p.TeleportID)
}

// DisconnectPlay terminates the connection with a reason (spec.md §4.4,
// §7). An empty Reason is valid: it is used for the silent disconnects
// emitted on invariant violations.
type DisconnectPlay struct{ Reason string }

func (p *DisconnectPlay) Encode(w *protocol.Writer) { w.String(p.Reason) }

// RemoveEntities batches the despawn of one or more entities the client
// previously had spawned (spec.md §4.4.6).
type RemoveEntities struct{ EntityIDs []int32 }

func (p *RemoveEntities) Encode(w *protocol.Writer) {
	w.Varuint32(uint32(len(p.EntityIDs)))
	for _, id := range p.EntityIDs {
		w.Int32(id)
	}
}

// AddPlayerEntry is one entry of an AddPlayer batch (spec.md §4.3).
type AddPlayerEntry struct {
	UUID        uuid.UUID
	Username    string
	GameMode    int32
	Ping        int32
	DisplayName string
	HasTextures bool
	Textures    []byte
}

// AddPlayer introduces new player-list entries to the client.
type AddPlayer struct{ Entries []AddPlayerEntry }

func (p *AddPlayer) Encode(w *protocol.Writer) {
	w.Varuint32(uint32(len(p.Entries)))
	for _, e := range p.Entries {
		w.UUID(e.UUID)
		w.String(e.Username)
		w.Int32(e.GameMode)
		w.Int32(e.Ping)
		w.String(e.DisplayName)
		w.Bool(e.HasTextures)
		if e.HasTextures {
			w.Varuint32(uint32(len(e.Textures)))
			w.RawBytes(e.Textures)
		}
	}
}

// RemovePlayer removes one or more entries from the client's player list.
type RemovePlayer struct{ UUIDs []uuid.UUID }

func (p *RemovePlayer) Encode(w *protocol.Writer) {
	w.Varuint32(uint32(len(p.UUIDs)))
	for _, u := range p.UUIDs {
		w.UUID(u)
	}
}

// GameModeUpdate is one entry of an UpdateGameMode batch.
type GameModeUpdate struct {
	UUID     uuid.UUID
	GameMode int32
}

// UpdateGameMode batches game-mode changes for existing player-list entries.
type UpdateGameMode struct{ Updates []GameModeUpdate }

func (p *UpdateGameMode) Encode(w *protocol.Writer) {
	w.Varuint32(uint32(len(p.Updates)))
	for _, u := range p.Updates {
		w.UUID(u.UUID)
		w.Int32(u.GameMode)
	}
}

// LatencyUpdate is one entry of an UpdateLatency batch.
type LatencyUpdate struct {
	UUID uuid.UUID
	Ping int32
}

// UpdateLatency batches ping changes for existing player-list entries.
type UpdateLatency struct{ Updates []LatencyUpdate }

func (p *UpdateLatency) Encode(w *protocol.Writer) {
	w.Varuint32(uint32(len(p.Updates)))
	for _, u := range p.Updates {
		w.UUID(u.UUID)
		w.Int32(u.Ping)
	}
}

// DisplayNameUpdate is one entry of an UpdateDisplayName batch.
type DisplayNameUpdate struct {
	UUID        uuid.UUID
	DisplayName string
}

// UpdateDisplayName batches display-name changes for existing player-list
// entries.
type UpdateDisplayName struct{ Updates []DisplayNameUpdate }

func (p *UpdateDisplayName) Encode(w *protocol.Writer) {
	w.Varuint32(uint32(len(p.Updates)))
	for _, u := range p.Updates {
		w.UUID(u.UUID)
		w.String(u.DisplayName)
	}
}

// SetTabListHeaderAndFooter sets the player list's header/footer text.
type SetTabListHeaderAndFooter struct{ Header, Footer string }

func (p *SetTabListHeaderAndFooter) Encode(w *protocol.Writer) {
	w.String(p.Header)
	w.String(p.Footer)
}
