package engine

import (
	"testing"

	"github.com/df-mc/clientupdate/server/client"
	"github.com/df-mc/clientupdate/server/handle"
	"github.com/df-mc/clientupdate/server/protocol/packet"
	"github.com/df-mc/clientupdate/server/sink"
	"github.com/df-mc/clientupdate/server/world"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/google/uuid"
)

// TestViewShiftUnloadsLoadsNoOverlapReload drives scenario S2 (spec.md §8)
// and testable property 3 ("view overlap ⇒ no reload"): a client walking
// from chunk (0,0) to chunk (1,0) with view distance 1 must unload exactly
// the chunks that left view, load exactly the chunks that entered it, and
// leave both chunks common to the old and new discs untouched.
func TestViewShiftUnloadsLoadsNoOverlapReload(t *testing.T) {
	var tab handle.Table[struct{}]
	wid := newWorldID(&tab)
	w := discWorld("overworld", 1, world.ChunkPos{0, 0}, world.ChunkPos{1, 0})
	fw := &fakeWorlds{worlds: map[world.WorldId]*fakeWorld{wid: w}}

	c := client.New("steve", uuid.New())
	c.World, c.OldWorld = wid, wid
	c.OldPosition = mgl64.Vec3{8, 64, 8} // chunk (0,0)
	c.Position = mgl64.Vec3{24, 64, 8}   // chunk (1,0)
	c.ViewDistance, c.OldViewDistance = 1, 1
	c.SetCreatedThisTick(false)
	c.SetGotKeepalive(true)
	s := sink.New()

	col := Collaborators{
		Shared:      fakeShared{},
		Entities:    newFakeEntities(),
		Worlds:      fw,
		Inventories: nopInventories{},
	}
	if err := updateFallible(c, s, 1, Config{}.withDefaults(), col); err != nil {
		t.Fatalf("updateFallible: %v", err)
	}

	pkts := s.Packets()
	if len(pkts) == 0 {
		t.Fatalf("no packets were queued")
	}
	center, ok := pkts[0].(*packet.SetCenterChunk)
	if !ok || center.X != 1 || center.Z != 0 {
		t.Fatalf("first packet = %+v, want SetCenterChunk(1,0)", pkts[0])
	}
	for _, p := range pkts {
		if _, ok := p.(*packet.LoginPlay); ok {
			t.Fatalf("view shift emitted a LoginPlay")
		}
	}

	var unloaded []world.ChunkPos
	for _, p := range pkts[1:] {
		u, ok := p.(*packet.UnloadChunk)
		if !ok {
			t.Fatalf("unexpected packet %T among view-shift output", p)
		}
		unloaded = append(unloaded, world.ChunkPos{u.X, u.Z})
	}
	wantUnloaded := map[world.ChunkPos]bool{{-1, 0}: true, {0, -1}: true, {0, 1}: true}
	if len(unloaded) != len(wantUnloaded) {
		t.Fatalf("UnloadChunk positions = %v, want %v", unloaded, wantUnloaded)
	}
	for _, pos := range unloaded {
		if !wantUnloaded[pos] {
			t.Fatalf("unexpected UnloadChunk for %v", pos)
		}
	}

	wantLoaded := map[world.ChunkPos]bool{{1, -1}: true, {1, 1}: true, {2, 0}: true}
	overlap := map[world.ChunkPos]bool{{0, 0}: true, {1, 0}: true}
	for pos, ch := range w.chunks.chunks {
		switch {
		case wantLoaded[pos]:
			if !ch.loaded {
				t.Fatalf("chunk %v entered view but was never loaded", pos)
			}
		case overlap[pos]:
			if ch.loaded {
				t.Fatalf("overlapping chunk %v was reloaded, violating the view-overlap property", pos)
			}
		}
	}
}

// TestWorldChangeUnloadsOldLoadsNewWithRespawn drives scenario S3: a respawn
// into a different-dimension world unloads every old-world view chunk and
// loads every new-world view chunk, prefixed by a Respawn packet reporting
// the new dimension.
func TestWorldChangeUnloadsOldLoadsNewWithRespawn(t *testing.T) {
	var tab handle.Table[struct{}]
	oldWid := newWorldID(&tab)
	newWid := newWorldID(&tab)
	oldWorld := discWorld("overworld", 1, world.ChunkPos{0, 0})
	newWorld := discWorld("nether", 1, world.ChunkPos{0, 0})
	fw := &fakeWorlds{worlds: map[world.WorldId]*fakeWorld{oldWid: oldWorld, newWid: newWorld}}

	c := client.New("steve", uuid.New())
	c.OldWorld, c.World = oldWid, newWid
	c.OldPosition, c.Position = mgl64.Vec3{8, 64, 8}, mgl64.Vec3{8, 64, 8}
	c.ViewDistance, c.OldViewDistance = 1, 1
	c.SetCreatedThisTick(false)
	c.SetGotKeepalive(true)
	c.SetRespawn(true)
	s := sink.New()

	col := Collaborators{
		Shared:      fakeShared{},
		Entities:    newFakeEntities(),
		Worlds:      fw,
		Inventories: nopInventories{},
	}
	if err := updateFallible(c, s, 1, Config{}.withDefaults(), col); err != nil {
		t.Fatalf("updateFallible: %v", err)
	}

	pkts := s.Packets()
	if len(pkts) == 0 {
		t.Fatalf("no packets were queued")
	}
	respawn, ok := pkts[0].(*packet.Respawn)
	if !ok || respawn.DimensionName != "nether" {
		t.Fatalf("first packet = %+v, want Respawn into \"nether\"", pkts[0])
	}

	var unloaded int
	for _, p := range pkts[1:] {
		if _, ok := p.(*packet.UnloadChunk); !ok {
			t.Fatalf("unexpected packet %T after Respawn", p)
		}
		unloaded++
	}
	if want := len(oldWorld.chunks.chunks); unloaded != want {
		t.Fatalf("unloaded %d old-world chunks, want %d", unloaded, want)
	}
	for pos, ch := range newWorld.chunks.chunks {
		if !ch.loaded {
			t.Fatalf("new-world chunk %v was never loaded", pos)
		}
	}
}
