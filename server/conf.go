package server

import (
	"log/slog"

	"github.com/df-mc/clientupdate/server/client"
	"github.com/df-mc/clientupdate/server/engine"
	"github.com/df-mc/clientupdate/server/inventory"
	"github.com/df-mc/clientupdate/server/playerlist"
	"github.com/df-mc/clientupdate/server/sink"
	"github.com/df-mc/clientupdate/server/world"
	"github.com/google/uuid"
)

// Config holds the settings a host passes to New, following the teacher's
// hand-rolled, zero-value-friendly Config convention rather than a
// functional-options pattern or a flags/env framework (SPEC_FULL.md §4.6).
// Its fields are a subset of engine.Config; Server forwards them to
// engine.Update every tick.
type Config struct {
	// Log receives Warn-level entries for client disconnects, forwarded
	// straight through to engine.Config.Log. If nil, no logging occurs.
	Log *slog.Logger
	// SimulationDistance is reported to clients in LoginPlay/Respawn. If
	// zero, engine.Config.withDefaults fills in 16.
	SimulationDistance int32
	// TickRate is the number of ticks per second the keepalive cadence is
	// measured against. If zero, engine.Config.withDefaults fills in 20.
	TickRate int
}

func (cfg Config) engineConfig() engine.Config {
	return engine.Config{
		Log:                cfg.Log,
		SimulationDistance: cfg.SimulationDistance,
		TickRate:           cfg.TickRate,
	}
}

// Server is the host-facing entry point bundling the per-connection Client
// arena with the shared player-list and inventory stores, and driving one
// engine.Update call per connected client per tick (spec.md §2). Worlds,
// Entities and Shared are supplied by the host embedding this module: this
// package has no opinion on how chunks, entities or dimensions are stored
// (spec.md §6, Non-goals).
type Server struct {
	Config

	Worlds   world.Worlds
	Entities world.Entities
	Shared   world.Shared

	Clients     client.Table
	PlayerLists playerlist.Store
	Inventories inventory.Registry

	tick int64
}

// New returns a Server ready to accept connections, wired against the
// host-supplied world/entity/shared collaborators.
func New(cfg Config, worlds world.Worlds, entities world.Entities, shared world.Shared) *Server {
	return &Server{
		Config:   cfg,
		Worlds:   worlds,
		Entities: entities,
		Shared:   shared,
	}
}

// Connect admits a new client, giving it a fresh Sink and marking it
// created-this-tick (client.New already does the latter), and returns the
// handle the host uses to address it in subsequent calls.
func (srv *Server) Connect(username string, id uuid.UUID) (client.Id, *client.Client) {
	c := client.New(username, id)
	c.Send = sink.New()
	key, _ := srv.Clients.Insert(c)
	return key, c
}

// Disconnect removes id from the Client arena. It does not itself send a
// DisconnectPlay; that is the engine's job when an invariant is violated, or
// the host's job when it initiates the disconnect.
func (srv *Server) Disconnect(id client.Id) {
	srv.Clients.Remove(id)
}

// Get resolves id to its Client, if still connected.
func (srv *Server) Get(id client.Id) (*client.Client, bool) {
	p, ok := srv.Clients.Get(id)
	if !ok {
		return nil, false
	}
	return *p, true
}

// Tick runs one engine.Update per connected client, refreshing every
// player-list's cache first (spec.md §2, §4.3) and clearing per-tick
// removed-sets last. It returns the flushed bytes for every client that
// produced any, keyed by client handle; disconnected clients (those for
// which Update returned a DisconnectPlay and dropped their sink) are not
// removed from the arena automatically — the host observes the
// disconnection via Client.Disconnected and calls Disconnect itself.
func (srv *Server) Tick() map[client.Id][]byte {
	srv.PlayerLists.RefreshCaches()

	col := engine.Collaborators{
		Shared:      srv.Shared,
		Entities:    srv.Entities,
		Worlds:      srv.Worlds,
		PlayerLists: &srv.PlayerLists,
		Inventories: &srv.Inventories,
	}

	out := make(map[client.Id][]byte)
	for id, pc := range srv.Clients.All() {
		c := *pc
		if b := engine.Update(c, srv.tick, srv.Config.engineConfig(), col); len(b) > 0 {
			out[id] = b
		}
	}

	srv.PlayerLists.EndTick()
	srv.tick++
	return out
}

// CurrentTick returns the tick counter Tick will use next.
func (srv *Server) CurrentTick() int64 { return srv.tick }
