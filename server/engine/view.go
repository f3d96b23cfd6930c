package engine

import (
	"github.com/df-mc/clientupdate/server/client"
	"github.com/df-mc/clientupdate/server/internal/safe"
	"github.com/df-mc/clientupdate/server/protocol/packet"
	"github.com/df-mc/clientupdate/server/sink"
	"github.com/df-mc/clientupdate/server/world"
)

// diffView implements spec.md §4.4.6: the chunk/entity view differencer,
// honoring the ordering contract "Unload -> Load -> BlockChanges ->
// EntityRemove -> EntitySpawn -> EntityUpdates".
func diffView(c *client.Client, s *sink.Sink, w world.World, col Collaborators) {
	chunks := w.Chunks()
	newCenter, newDist := c.ChunkPos(), c.ViewDistance
	oldCenter, oldDist := c.OldChunkPos(), c.OldViewDistance

	isSelf := func(id world.EntityId) bool { return c.HasSelfEntity && id == c.SelfEntity }

	var despawn []int32
	var spawn []world.EntityId
	var updateCells []world.Cell

	addDespawns := func(cell world.Cell) {
		for id := range cell.Entities() {
			if isSelf(id) {
				continue
			}
			if e, ok := col.Entities.Get(id); ok {
				despawn = append(despawn, e.WireID())
			}
		}
	}

	switch {
	case c.World != c.OldWorld:
		// Case B: world changed. Unload the whole old view, load the whole
		// new view; nothing is shared between them.
		if ow, ok := col.Worlds.Get(c.OldWorld); ok {
			oldChunks := ow.Chunks()
			for pos := range world.Disc(oldCenter, oldDist) {
				ch, cell, ok := oldChunks.ChunkAndCell(pos)
				if !ok {
					continue
				}
				if ch != nil && !ch.Deleted() {
					s.AppendPacket(&packet.UnloadChunk{X: pos[0], Z: pos[1]})
				}
				addDespawns(cell)
			}
		}
		for pos := range world.Disc(newCenter, newDist) {
			ch, cell, ok := chunks.ChunkAndCell(pos)
			if !ok || ch == nil || ch.Deleted() {
				continue
			}
			ch.WriteChunkDataPacket(s, nil, pos, chunks)
			updateCells = append(updateCells, cell)
			for id := range cell.Entities() {
				if !isSelf(id) {
					spawn = append(spawn, id)
				}
			}
		}

	case oldCenter != newCenter || oldDist != newDist:
		// Case C: same world, view moved or resized.
		unloaded := make(map[world.ChunkPos]struct{})
		for pos := range world.Disc(oldCenter, oldDist) {
			if newCenter.IsInView(pos, newDist) {
				continue // overlap: no work
			}
			ch, cell, ok := chunks.ChunkAndCell(pos)
			if !ok {
				continue
			}
			if ch != nil && !ch.Deleted() {
				s.AppendPacket(&packet.UnloadChunk{X: pos[0], Z: pos[1]})
			}
			unloaded[pos] = struct{}{}
			addDespawns(cell)
		}
		for pos := range world.Disc(newCenter, newDist) {
			if oldCenter.IsInView(pos, oldDist) {
				continue // overlap: no work
			}
			_, wasUnloaded := unloaded[pos]
			safe.Assert(!wasUnloaded, "chunk %v unloaded and loaded in the same tick", pos)
			ch, cell, ok := chunks.ChunkAndCell(pos)
			if !ok || ch == nil || ch.Deleted() {
				continue
			}
			ch.WriteChunkDataPacket(s, nil, pos, chunks)
			updateCells = append(updateCells, cell)
			for id := range cell.Entities() {
				if !isSelf(id) {
					spawn = append(spawn, id)
				}
			}
		}

	default:
		// Case A: same world, same view.
		for pos := range world.Disc(oldCenter, oldDist) {
			ch, cell, ok := chunks.ChunkAndCell(pos)
			if !ok {
				continue
			}
			created := ch != nil && ch.CreatedThisTick()
			deleted := ch == nil || ch.Deleted()
			switch {
			case created && deleted:
				// skip: created and deleted in the same tick
			case created:
				ch.WriteChunkDataPacket(s, nil, pos, chunks)
			case deleted:
				s.AppendPacket(&packet.UnloadChunk{X: pos[0], Z: pos[1]})
			default:
				ch.WriteBlockChangePackets(s)
			}
			if !deleted {
				updateCells = append(updateCells, cell)
			}

			for _, ref := range cell.Incoming() {
				if isSelf(ref.Entity) {
					continue
				}
				if !ref.HasPos || !oldCenter.IsInView(ref.Chunk, oldDist) {
					spawn = append(spawn, ref.Entity)
				}
			}
			for _, ref := range cell.Outgoing() {
				if isSelf(ref.Entity) {
					continue
				}
				if !ref.HasPos || !oldCenter.IsInView(ref.Chunk, oldDist) {
					if e, ok := col.Entities.Get(ref.Entity); ok {
						despawn = append(despawn, e.WireID())
					}
				}
			}
		}
	}

	if len(despawn) > 0 {
		s.AppendPacket(&packet.RemoveEntities{EntityIDs: despawn})
	}
	for _, id := range spawn {
		e, ok := col.Entities.Get(id)
		if !ok {
			continue
		}
		e.SendInitPackets(s, e.Position(), id, nil)
	}
	for _, cell := range updateCells {
		blob := cell.CachedUpdatePackets()
		if start, end, ok := selfRangeFor(c, cell); ok {
			safe.Assert(start >= 0 && end >= start && end <= len(blob),
				"self-update range [%d:%d] out of bounds for a blob of length %d", start, end, len(blob))
			s.AppendBytes(blob[:start])
			s.AppendBytes(blob[end:])
			continue
		}
		s.AppendBytes(blob)
	}
}

// selfRangeFor reports the self-update byte range to splice out of cell's
// cached blob, if this is the cell currently holding the client's
// self-entity (spec.md §9 "splicing out self-updates").
func selfRangeFor(c *client.Client, cell world.Cell) (start, end int, ok bool) {
	if !c.HasSelfEntity {
		return 0, 0, false
	}
	for id := range cell.Entities() {
		if id == c.SelfEntity {
			return c.SelfUpdateRange()
		}
	}
	return 0, 0, false
}
