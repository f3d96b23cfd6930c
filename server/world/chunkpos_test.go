package world_test

import (
	"testing"

	"github.com/df-mc/clientupdate/server/world"
)

func TestIsInView(t *testing.T) {
	p := world.ChunkPos{0, 0}
	cases := []struct {
		other world.ChunkPos
		d     int32
		want  bool
	}{
		{world.ChunkPos{0, 0}, 0, true},
		{world.ChunkPos{2, 0}, 2, true},
		{world.ChunkPos{2, 1}, 2, false},
		{world.ChunkPos{3, 0}, 2, false},
	}
	for _, c := range cases {
		if got := p.IsInView(c.other, c.d); got != c.want {
			t.Errorf("IsInView(%v, %d) = %v, want %v", c.other, c.d, got, c.want)
		}
	}
}

func TestDiscContainsOnlyInViewPositions(t *testing.T) {
	center := world.ChunkPos{5, -3}
	const d = int32(3)
	count := 0
	for pos := range world.Disc(center, d) {
		if !center.IsInView(pos, d) {
			t.Fatalf("Disc yielded %v, which is not within %d of %v", pos, d, center)
		}
		count++
	}
	want := 0
	for dx := -d; dx <= d; dx++ {
		for dz := -d; dz <= d; dz++ {
			if dx*dx+dz*dz <= d*d {
				want++
			}
		}
	}
	if count != want {
		t.Fatalf("Disc yielded %d positions, want %d", count, want)
	}
}

func TestFromPos(t *testing.T) {
	cases := []struct {
		x, z float64
		want world.ChunkPos
	}{
		{8, 8, world.ChunkPos{0, 0}},
		{16, 0, world.ChunkPos{1, 0}},
		{-1, -1, world.ChunkPos{-1, -1}},
		{-16, 0, world.ChunkPos{-1, 0}},
	}
	for _, c := range cases {
		if got := world.FromPos(c.x, c.z); got != c.want {
			t.Errorf("FromPos(%v, %v) = %v, want %v", c.x, c.z, got, c.want)
		}
	}
}
