// Package engine implements the per-tick client update function: the core
// that computes and flushes the minimal packet stream needed to bring one
// client's view in sync with the server's authoritative state (spec.md §4.4,
// component 8).
package engine

import (
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"

	"github.com/df-mc/clientupdate/server/client"
	"github.com/df-mc/clientupdate/server/internal/safe"
	"github.com/df-mc/clientupdate/server/inventory"
	"github.com/df-mc/clientupdate/server/playerlist"
	"github.com/df-mc/clientupdate/server/protocol/packet"
	"github.com/df-mc/clientupdate/server/sink"
	"github.com/df-mc/clientupdate/server/world"
)

// Sentinel errors for the invariant-violation and timeout cases spec.md §7
// names. All are wrapped with additional context via fmt.Errorf("...: %w").
var (
	ErrInvalidWorld     = errors.New("engine: client's world does not resolve to a live world")
	ErrWorldDeleted     = errors.New("engine: client's world has been deleted")
	ErrKeepaliveTimeout = errors.New("engine: client did not respond to keepalive in time")
	// ErrInvariant reports that a debug-only internal self-consistency
	// assertion failed (spec.md §7: "the core never panics on external-state
	// input; only debug-only assertions may check internal self-consistency").
	// A real bug surfaces this as a client disconnect rather than a panic
	// propagating into the host's tick loop.
	ErrInvariant = errors.New("engine: internal invariant violated")
)

// Config configures Update, following the teacher's hand-rolled,
// zero-value-friendly Config struct convention (server/conf.go) rather than
// a functional-options pattern or a CLI/env framework.
type Config struct {
	// Log receives Warn-level entries for disconnects caused by an invariant
	// violation or keepalive timeout. If nil, no logging occurs.
	Log *slog.Logger
	// SimulationDistance is reported to the client in LoginPlay/Respawn. If
	// zero, defaults to 16 (spec.md §4.4.2).
	SimulationDistance int32
	// TickRate is the number of ticks per second the keepalive cadence
	// (tick_rate * 10) is measured against. If zero, defaults to 20.
	TickRate int
}

func (cfg Config) withDefaults() Config {
	if cfg.SimulationDistance == 0 {
		cfg.SimulationDistance = 16
	}
	if cfg.TickRate == 0 {
		cfg.TickRate = 20
	}
	return cfg
}

// Collaborators bundles the read-only external state Update consults every
// tick (spec.md §6).
type Collaborators struct {
	Shared      world.Shared
	Entities    world.Entities
	Worlds      world.Worlds
	PlayerLists *playerlist.Store
	Inventories world.Inventories
}

// Update computes one tick's worth of packets for c and returns the flushed
// bytes. If c has no sink, Update is a no-op and returns nil (spec.md §4.4).
// On an invariant violation or keepalive timeout, an empty DisconnectPlay is
// appended and the client's sink is permanently dropped — later calls to
// Update become no-ops, which is how the host observes disconnection.
func Update(c *client.Client, tick int64, cfg Config, col Collaborators) []byte {
	if c.Disconnected() {
		return nil
	}
	cfg = cfg.withDefaults()

	s := c.Send
	c.Send = nil

	if err := updateFallible(c, s, tick, cfg, col); err != nil {
		if cfg.Log != nil {
			cfg.Log.Warn("disconnecting client", "username", c.Username, "error", err)
		}
		s.AppendPacket(&packet.DisconnectPlay{})
		return s.Flush()
	}

	c.SetCreatedThisTick(false)
	c.Send = s
	return s.Flush()
}

func updateFallible(c *client.Client, s *sink.Sink, tick int64, cfg Config, col Collaborators) error {
	w, ok := col.Worlds.Get(c.World)
	if !ok {
		return fmt.Errorf("client %s: %w", c.Username, ErrInvalidWorld)
	}
	if w.Deleted() {
		return fmt.Errorf("client %s: %w", c.Username, ErrWorldDeleted)
	}

	if err := loginOrSteadyState(c, s, w, cfg, col); err != nil {
		return err
	}
	if err := keepaliveSupervisor(c, s, tick, cfg); err != nil {
		return err
	}

	resolveSelfEntity(c, col.Entities)

	chunkPos, oldChunkPos := c.ChunkPos(), c.OldChunkPos()
	if c.CreatedThisTick() || chunkPos != oldChunkPos {
		s.AppendPacket(&packet.SetCenterChunk{X: chunkPos[0], Z: chunkPos[1]})
	}

	if ok := safe.Check(func() { diffView(c, s, w, col) }); !ok {
		return fmt.Errorf("client %s: %w", c.Username, ErrInvariant)
	}

	if len(c.MetadataDirty) > 0 {
		s.AppendPacket(&packet.SetEntityMetadata{
			EntityID: 0,
			Data:     append(append([]byte(nil), c.MetadataDirty...), 0xFF),
		})
	}

	if c.BlockChangeSequence != 0 {
		s.AppendPacket(&packet.AcknowledgeBlockChange{Sequence: c.BlockChangeSequence})
		c.BlockChangeSequence = 0
	}

	syncInventory(c, s, col.Inventories)

	closeTick(c)
	return nil
}

// loginOrSteadyState implements spec.md §4.4.2.
func loginOrSteadyState(c *client.Client, s *sink.Sink, w world.World, cfg Config, col Collaborators) error {
	if c.CreatedThisTick() {
		c.SetRespawn(false)
		s.PrependPacket(&packet.LoginPlay{
			EntityID:           0,
			Hardcore:           c.Hardcore(),
			GameMode:           c.GameMode,
			PreviousGameMode:   c.PreviousGameMode,
			DimensionNames:     collectDimensions(col.Shared),
			RegistryCodec:      col.Shared.RegistryCodec(),
			DimensionType:      w.Dimension(),
			DimensionName:      w.Dimension(),
			HashedSeed:         0,
			ViewDistance:       c.ViewDistance,
			SimulationDistance: cfg.SimulationDistance,
			ReducedDebugInfo:   false,
			RespawnScreen:      c.RespawnScreen(),
			IsDebug:            false,
			IsFlat:             c.Flat(),
			LastDeathLocation:  c.DeathLocation,
		})
		if c.PlayerList.Valid() {
			for _, p := range c.PlayerList.Get().InitPackets() {
				s.AppendPacket(p)
			}
		}
		return nil
	}

	if c.ViewDistance != c.OldViewDistance {
		s.AppendPacket(&packet.SetRenderDistance{Distance: c.ViewDistance})
	}
	if c.Respawn() {
		s.AppendPacket(&packet.Respawn{
			DimensionType:     w.Dimension(),
			DimensionName:     w.Dimension(),
			HashedSeed:        0,
			GameMode:          c.GameMode,
			PreviousGameMode:  c.PreviousGameMode,
			IsDebug:           false,
			IsFlat:            c.Flat(),
			RespawnScreen:     c.RespawnScreen(),
			LastDeathLocation: c.DeathLocation,
		})
		c.SetRespawn(false)
	}

	switch {
	case c.PlayerList != c.OldPlayerList:
		if c.OldPlayerList.Valid() {
			s.AppendPacket(c.OldPlayerList.Get().ClearPacket())
		}
		if c.PlayerList.Valid() {
			for _, p := range c.PlayerList.Get().InitPackets() {
				s.AppendPacket(p)
			}
		}
		c.OldPlayerList = c.PlayerList
	case c.PlayerList.Valid():
		s.AppendBytes(c.PlayerList.Get().CachedBytes())
	}
	return nil
}

// keepaliveSupervisor implements spec.md §4.4.3.
func keepaliveSupervisor(c *client.Client, s *sink.Sink, tick int64, cfg Config) error {
	period := int64(cfg.TickRate) * 10
	if period <= 0 || tick%period != 0 {
		return nil
	}
	if !c.GotKeepalive() {
		return fmt.Errorf("client %s: %w", c.Username, ErrKeepaliveTimeout)
	}
	id := rand.Uint64()
	s.AppendPacket(&packet.KeepAliveS2c{ID: id})
	c.LastKeepaliveID = id
	c.SetGotKeepalive(false)
	return nil
}

// resolveSelfEntity implements spec.md §4.4.4.
func resolveSelfEntity(c *client.Client, entities world.Entities) {
	id, ok := entities.GetWithUUID(c.UUID)
	if !ok {
		c.ClearSelfEntity()
		return
	}
	e, ok := entities.Get(id)
	if !ok || e.Deleted() {
		c.ClearSelfEntity()
		return
	}
	start, end, hasRange := e.SelfUpdateRange()
	c.SetSelfEntity(id, start, end, hasRange)
}

// syncInventory implements spec.md §4.4.9.
func syncInventory(c *client.Client, s *sink.Sink, inventories world.Inventories) {
	if c.Slots.ModifiedSlots != 0 {
		whole := c.CreatedThisTick() || c.Slots.WholeResendNeeded(c.CursorItemModified())
		if whole {
			s.AppendPacket(&packet.SetContainerContent{
				WindowID: 0,
				StateID:  c.NextInvStateID(),
				Slots:    sliceOf(c.Slots.All()),
				Cursor:   c.Cursor,
			})
			c.SetCursorItemModified(false)
		} else {
			c.Slots.ModifiedIndices(func(i int) bool {
				s.AppendPacket(&packet.SetContainerSlot{
					WindowID: 0,
					StateID:  c.NextInvStateID(),
					Slot:     int16(i),
					Item:     c.Slots.Get(i),
				})
				return true
			})
		}
		c.Slots.ClearModified()
	}

	if c.CursorItemModified() {
		s.AppendPacket(&packet.SetContainerSlot{
			WindowID: -1,
			StateID:  c.NextInvStateID(),
			Slot:     -1,
			Item:     c.Cursor,
		})
		c.SetCursorItemModified(false)
	}

	if c.OpenInventoryModified() {
		id := c.NextWindowID()
		stateID := c.NextInvStateID()
		inv, ok := inventories.Get(c.OpenInventory)
		title := ""
		if ok {
			title = inv.Title()
		}
		s.AppendPacket(&packet.OpenScreen{WindowID: id, WindowType: 0, Title: title})
		// world.Inventory exposes no slot contents, so the SetContainerContent
		// for the newly opened window carries an empty slot list.
		if ok {
			s.AppendPacket(&packet.SetContainerContent{
				WindowID: id,
				StateID:  stateID,
				Slots:    nil,
				Cursor:   c.Cursor,
			})
		}
		c.SetOpenInventoryModified(false)
	} else if c.HasOpenInventory {
		if inv, ok := inventories.Get(c.OpenInventory); ok {
			inv.SendUpdate(s, c.WindowID, c.InvStateID)
		}
	}
}

// closeTick implements spec.md §4.4.10 (flush happens in Update).
func closeTick(c *client.Client) {
	c.OldWorld = c.World
	c.OldPosition = c.Position
	c.OldViewDistance = c.ViewDistance
	c.MetadataDirty = c.MetadataDirty[:0]
}

func collectDimensions(shared world.Shared) []string {
	var out []string
	for d := range shared.Dimensions() {
		out = append(out, d)
	}
	return out
}

func sliceOf(a [inventory.Size]packet.ItemStack) []packet.ItemStack {
	out := make([]packet.ItemStack, inventory.Size)
	copy(out, a[:])
	return out
}
