package client_test

import (
	"testing"

	"github.com/df-mc/clientupdate/server/client"
	"github.com/df-mc/clientupdate/server/sink"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/google/uuid"
)

func TestNewClientIsCreatedThisTick(t *testing.T) {
	c := client.New("steve", uuid.New())
	if !c.CreatedThisTick() {
		t.Fatalf("freshly created client has CreatedThisTick() = false")
	}
	if c.WindowID != 1 {
		t.Fatalf("WindowID = %d, want 1", c.WindowID)
	}
	if c.PreviousGameMode != -1 {
		t.Fatalf("PreviousGameMode = %d, want -1", c.PreviousGameMode)
	}
}

func TestDisconnectedWithoutSink(t *testing.T) {
	c := client.New("steve", uuid.New())
	if !c.Disconnected() {
		t.Fatalf("client with nil Send is not reported Disconnected")
	}
	c.Send = sink.New()
	if c.Disconnected() {
		t.Fatalf("client with a Send sink is reported Disconnected")
	}
}

func TestTeleportMonotonicityAndPendingCount(t *testing.T) {
	c := client.New("steve", uuid.New())
	c.Send = sink.New()

	var ids []uint32
	for i := 0; i < 3; i++ {
		c.Teleport(mgl64.Vec3{float64(i), 64, 0}, 0, 0)
		ids = append(ids, c.TeleportIDCounter)
	}
	for i := 1; i < len(ids); i++ {
		if ids[i] != ids[i-1]+1 {
			t.Fatalf("teleport ids not strictly increasing: %v", ids)
		}
	}
	if c.PendingTeleports != 3 {
		t.Fatalf("PendingTeleports = %d, want 3", c.PendingTeleports)
	}
	c.AcknowledgeTeleport()
	c.AcknowledgeTeleport()
	c.AcknowledgeTeleport()
	if c.PendingTeleports != 0 {
		t.Fatalf("PendingTeleports = %d after acking all, want 0", c.PendingTeleports)
	}
	c.AcknowledgeTeleport()
	if c.PendingTeleports != 0 {
		t.Fatalf("AcknowledgeTeleport on an empty count went negative")
	}
}

func TestWindowIDCycles1To100(t *testing.T) {
	c := client.New("steve", uuid.New())
	c.WindowID = 100
	if got := c.NextWindowID(); got != 1 {
		t.Fatalf("NextWindowID() at 100 = %d, want 1 (wrap)", got)
	}
	if got := c.NextWindowID(); got != 2 {
		t.Fatalf("NextWindowID() after wrap = %d, want 2", got)
	}
}

func TestInvStateIDMonotonic(t *testing.T) {
	c := client.New("steve", uuid.New())
	prev := c.InvStateID
	for i := 0; i < 5; i++ {
		next := c.NextInvStateID()
		if next <= prev {
			t.Fatalf("NextInvStateID() = %d, want strictly greater than %d", next, prev)
		}
		prev = next
	}
}

func TestChunkPosDerivedFromPosition(t *testing.T) {
	c := client.New("steve", uuid.New())
	c.Position = mgl64.Vec3{24, 64, 8}
	if got, want := c.ChunkPos(), (struct{ X, Z int32 }{1, 0}); got[0] != want.X || got[1] != want.Z {
		t.Fatalf("ChunkPos() = %v, want (1,0)", got)
	}
}
