// Package world declares the chunk-position view geometry (spec.md §3, §4,
// component 4) and the read-only World/Chunks/Cell/Entities/Inventories
// interfaces the update engine consumes (spec.md §6). This package owns no
// simulation state of its own: block storage, physics, AI and generation are
// out of scope (spec.md §1) and live entirely behind these interfaces, in
// whatever host application wires the engine up.
package world

import (
	"iter"
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// ChunkPos is a chunk column coordinate.
type ChunkPos [2]int32

// IsInView reports whether other lies within d chunks of p, using squared
// distance as spec.md §3 specifies.
func (p ChunkPos) IsInView(other ChunkPos, d int32) bool {
	dx, dz := int64(p[0]-other[0]), int64(p[1]-other[1])
	dd := int64(d)
	return dx*dx+dz*dz <= dd*dd
}

// Disc returns an iterator over every ChunkPos within view distance d of
// center, inclusive, in a fixed but otherwise unspecified order (spec.md
// §4.1's iteration-order guarantee: deterministic within one tick).
func Disc(center ChunkPos, d int32) iter.Seq[ChunkPos] {
	return func(yield func(ChunkPos) bool) {
		for dx := -d; dx <= d; dx++ {
			for dz := -d; dz <= d; dz++ {
				if dx*dx+dz*dz > d*d {
					continue
				}
				if !yield(ChunkPos{center[0] + dx, center[1] + dz}) {
					return
				}
			}
		}
	}
}

// FromPos derives the ChunkPos containing the block position (x, _, z).
func FromPos(x, z float64) ChunkPos {
	return ChunkPos{int32(math.Floor(x / 16)), int32(math.Floor(z / 16))}
}

// FromVec3 derives the ChunkPos containing pos, using its X and Z
// components. Positions are tracked as mgl64.Vec3 throughout this module,
// the way the teacher's world.Loader tracks loader position (see
// server/world/loader_test.go upstream).
func FromVec3(pos mgl64.Vec3) ChunkPos {
	return FromPos(pos[0], pos[2])
}
