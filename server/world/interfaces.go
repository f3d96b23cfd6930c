package world

import (
	"iter"

	"github.com/df-mc/clientupdate/server/handle"
	"github.com/df-mc/clientupdate/server/sink"
	"github.com/google/uuid"
)

// WorldId, EntityId and InventoryId are opaque handles into host-owned
// tables. They reuse the versioned handle table's Key type (spec.md §4.1)
// rather than each inventing their own, so that a stale id referring to a
// removed world or entity is detected the same way a stale ClientId would
// be.
type (
	WorldId     = handle.Key
	EntityId    = handle.Key
	InventoryId = handle.Key
)

// EntityRef names an entity together with the chunk it is moving to or
// from, as recorded in a Cell's incoming/outgoing lists (spec.md §6).
type EntityRef struct {
	Entity EntityId
	Chunk  ChunkPos
	HasPos bool
}

// Worlds resolves WorldId handles to World values (spec.md §6).
type Worlds interface {
	Get(WorldId) (World, bool)
}

// World exposes the subset of a server-side world the engine reads: whether
// it has been torn down, its dimension identity and its chunk store.
type World interface {
	Deleted() bool
	Dimension() string
	Chunks() Chunks
}

// Chunks resolves chunk positions to Chunk/Cell pairs within one World.
type Chunks interface {
	Get(ChunkPos) (Chunk, bool)
	ChunkAndCell(ChunkPos) (Chunk, Cell, bool)
}

// Chunk is a single loaded chunk column.
type Chunk interface {
	CreatedThisTick() bool
	Deleted() bool
	// WriteBlockChangePackets appends this chunk's accumulated block-change
	// packets to the sink. Called only for chunks neither freshly created
	// nor deleted this tick (spec.md §4.4.6 case A).
	WriteBlockChangePackets(s *sink.Sink)
	// WriteChunkDataPacket appends a full chunk-data packet for pos. scratch
	// is caller-owned reusable buffer space the collaborator may use to
	// avoid allocating; chunks is the owning Chunks store, passed through so
	// border-dependent data (e.g. lighting) can consult neighbours.
	WriteChunkDataPacket(s *sink.Sink, scratch []byte, pos ChunkPos, chunks Chunks)
}

// Cell is the per-chunk-position container of entities currently residing
// in that chunk, plus the entities that crossed its boundary this tick and
// a cached per-entity update byte blob (spec.md GLOSSARY, §6).
type Cell interface {
	Incoming() []EntityRef
	Outgoing() []EntityRef
	Entities() iter.Seq[EntityId]
	CachedUpdatePackets() []byte
}

// Entities resolves entity ids and uuids to Entity values.
type Entities interface {
	GetWithUUID(uuid.UUID) (EntityId, bool)
	Get(EntityId) (Entity, bool)
}

// Entity exposes the subset of entity state the engine reads.
type Entity interface {
	Position() [3]float64
	OldPosition() [3]float64
	World() WorldId
	UUID() uuid.UUID
	Deleted() bool
	// WireID is the int32 entity id the protocol uses to address this
	// entity once spawned (e.g. in a batched despawn). The client's own
	// self-entity always uses the reserved wire id 0 (spec.md §4.4.2,
	// §4.4.7); WireID is never called for it.
	WireID() int32
	// SelfUpdateRange returns the [start, end) byte span within the owning
	// Cell's CachedUpdatePackets blob that refers to this entity itself, so
	// the engine can splice it out for the entity's own controlling client
	// (spec.md §4.4.6, design notes §9). ok is false if the entity has no
	// such range (e.g. the blob has not been built yet).
	SelfUpdateRange() (start, end int, ok bool)
	// SendInitPackets appends the packets needed to spawn this entity to a
	// client seeing it for the first time.
	SendInitPackets(s *sink.Sink, pos [3]float64, id EntityId, scratch []byte)
}

// Inventories resolves InventoryId handles to Inventory values.
type Inventories interface {
	Get(InventoryId) (Inventory, bool)
}

// Inventory is an open, non-player container (chest, furnace, crafting
// table, ...). Its contents and behaviour are out of scope (spec.md §1);
// only the sync hook the engine forwards per-tick updates through is
// modelled here.
type Inventory interface {
	Kind() string
	Title() string
	// SendUpdate forwards this tick's container-specific update packets to
	// the sink, addressed to windowID with the state id supplied.
	SendUpdate(s *sink.Sink, windowID uint8, stateID int32)
}

// Shared exposes server-global state the engine reads every tick (spec.md
// §6).
type Shared interface {
	TickRate() int
	CurrentTick() int64
	Dimensions() iter.Seq[string]
	RegistryCodec() []byte
}
