package world

import (
	"iter"

	"github.com/google/uuid"
)

// NopWorlds is a Worlds that never resolves anything, mirroring the
// teacher's NopProvider/NopGenerator no-op collaborators (see
// server/world/loader_test.go upstream).
type NopWorlds struct{}

func (NopWorlds) Get(WorldId) (World, bool) { return nil, false }

// NopChunks is a Chunks with no loaded chunks.
type NopChunks struct{}

func (NopChunks) Get(ChunkPos) (Chunk, bool)                { return nil, false }
func (NopChunks) ChunkAndCell(ChunkPos) (Chunk, Cell, bool) { return nil, nil, false }

// NopEntities is an Entities with no entities.
type NopEntities struct{}

func (NopEntities) GetWithUUID(uuid.UUID) (EntityId, bool) { return EntityId{}, false }
func (NopEntities) Get(EntityId) (Entity, bool)            { return nil, false }

// NopInventories is an Inventories with no inventories.
type NopInventories struct{}

func (NopInventories) Get(InventoryId) (Inventory, bool) { return nil, false }

// NopCell is an empty Cell: no entities, no crossings, no cached bytes.
type NopCell struct{}

func (NopCell) Incoming() []EntityRef        { return nil }
func (NopCell) Outgoing() []EntityRef        { return nil }
func (NopCell) Entities() iter.Seq[EntityId] { return func(func(EntityId) bool) {} }
func (NopCell) CachedUpdatePackets() []byte  { return nil }

// SharedConfig is a simple, test-friendly implementation of Shared backed by
// plain fields rather than a live server, grounded on the teacher's
// Config-struct-as-test-fixture style (server/conf.go).
type SharedConfig struct {
	Rate  int
	Tick  int64
	Dims  []string
	Codec []byte
}

func (s SharedConfig) TickRate() int      { return s.Rate }
func (s SharedConfig) CurrentTick() int64 { return s.Tick }
func (s SharedConfig) Dimensions() iter.Seq[string] {
	return func(yield func(string) bool) {
		for _, d := range s.Dims {
			if !yield(d) {
				return
			}
		}
	}
}
func (s SharedConfig) RegistryCodec() []byte { return s.Codec }
