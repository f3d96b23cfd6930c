// Package playerlist implements the shared, refcounted tab-list state and
// its per-tick cache refresh (spec.md §3, §4.3, component 5).
package playerlist

import (
	"github.com/cespare/xxhash/v2"
	"github.com/df-mc/clientupdate/server/protocol"
	"github.com/df-mc/clientupdate/server/protocol/packet"
	"github.com/df-mc/clientupdate/server/rchandle"
	"github.com/df-mc/clientupdate/server/sink"
	"github.com/google/uuid"
)

// Id is a reference-counted handle to a PlayerList, cheaply cloneable so the
// same list can be attached to many clients (spec.md §3 invariant, design
// notes §9). A list is collected when Release has been called on its last
// outstanding handle. Client, the engine and server.Server never call Clone
// or Release themselves: detaching a list from a client, switching lists or
// removing the client leaves the list's reference count unchanged.
type Id = rchandle.Handle[PlayerList]

// Entry is one row of a PlayerList: a player's tab-list presentation.
type Entry struct {
	Username       string
	Textures       []byte
	HasTextures    bool
	GameMode       int32
	Ping           int32
	DisplayName    string
	HasDisplayName bool

	createdThisTick     bool
	modifiedGameMode    bool
	modifiedPing        bool
	modifiedDisplayName bool
}

// PlayerList is a named, shared tab-list table: uuid -> Entry plus a
// header/footer and the bookkeeping RefreshCaches needs (spec.md §3).
type PlayerList struct {
	entries map[uuid.UUID]*Entry
	removed map[uuid.UUID]struct{}

	Header, Footer         string
	modifiedHeaderOrFooter bool

	cache      *sink.Sink
	cachedHash uint64
}

func newList() PlayerList {
	return PlayerList{
		entries: make(map[uuid.UUID]*Entry),
		removed: make(map[uuid.UUID]struct{}),
		cache:   sink.New(),
	}
}

// Upsert adds id to the list if absent (marking it created-this-tick) or
// updates its game mode, ping and display name, setting the per-field
// modified bits only for fields that actually changed. The username and
// textures of an existing entry are left unchanged.
func (pl *PlayerList) Upsert(id uuid.UUID, username string, gameMode, ping int32, displayName string, hasDisplayName bool, textures []byte, hasTextures bool) {
	e, ok := pl.entries[id]
	if !ok {
		pl.entries[id] = &Entry{
			Username: username, GameMode: gameMode, Ping: ping,
			DisplayName: displayName, HasDisplayName: hasDisplayName,
			Textures: textures, HasTextures: hasTextures,
			createdThisTick: true,
		}
		delete(pl.removed, id)
		return
	}
	if e.GameMode != gameMode {
		e.GameMode, e.modifiedGameMode = gameMode, true
	}
	if e.Ping != ping {
		e.Ping, e.modifiedPing = ping, true
	}
	if e.DisplayName != displayName || e.HasDisplayName != hasDisplayName {
		e.DisplayName, e.HasDisplayName, e.modifiedDisplayName = displayName, hasDisplayName, true
	}
}

// Remove deletes id from the list and records it in the removed-set for the
// RemovePlayer batch emitted at the next RefreshCaches (spec.md §4.3 step 2,
// §8 invariant 7).
func (pl *PlayerList) Remove(id uuid.UUID) {
	if _, ok := pl.entries[id]; !ok {
		return
	}
	delete(pl.entries, id)
	pl.removed[id] = struct{}{}
}

// SetHeaderFooter sets the list's header/footer text, marking it modified if
// either actually changed.
func (pl *PlayerList) SetHeaderFooter(header, footer string) {
	if pl.Header == header && pl.Footer == footer {
		return
	}
	pl.Header, pl.Footer = header, footer
	pl.modifiedHeaderOrFooter = true
}

// CachedBytes returns the encoded delta packets built by the most recent
// RefreshCaches call. Clients referencing this list append it verbatim via
// sink.Sink.AppendBytes (spec.md §4.4.2).
func (pl *PlayerList) CachedBytes() []byte { return pl.cache.Bytes() }

// CachedPackets returns, for tests, the typed packets built by the most
// recent RefreshCaches call (spec.md §8 invariants 6 and 7).
func (pl *PlayerList) CachedPackets() []protocol.Packet { return pl.cache.Packets() }

// CachedHash is a content fingerprint of the cached delta, useful for a host
// metrics reporter to cheaply detect whether a list actually changed this
// tick without re-diffing it.
func (pl *PlayerList) CachedHash() uint64 { return pl.cachedHash }

// refreshCache implements spec.md §4.3 steps 1-6 for a single list.
func (pl *PlayerList) refreshCache() {
	pl.cache.Reset()

	if len(pl.removed) > 0 {
		ids := make([]uuid.UUID, 0, len(pl.removed))
		for id := range pl.removed {
			ids = append(ids, id)
		}
		pl.cache.AppendPacket(&packet.RemovePlayer{UUIDs: ids})
	}

	var add packet.AddPlayer
	var gameMode packet.UpdateGameMode
	var ping packet.UpdateLatency
	var displayName packet.UpdateDisplayName

	for id, e := range pl.entries {
		if e.createdThisTick {
			add.Entries = append(add.Entries, packet.AddPlayerEntry{
				UUID: id, Username: e.Username, GameMode: e.GameMode, Ping: e.Ping,
				DisplayName: e.DisplayName, HasTextures: e.HasTextures, Textures: e.Textures,
			})
			continue
		}
		if e.modifiedGameMode {
			gameMode.Updates = append(gameMode.Updates, packet.GameModeUpdate{UUID: id, GameMode: e.GameMode})
		}
		if e.modifiedPing {
			ping.Updates = append(ping.Updates, packet.LatencyUpdate{UUID: id, Ping: e.Ping})
		}
		if e.modifiedDisplayName {
			displayName.Updates = append(displayName.Updates, packet.DisplayNameUpdate{UUID: id, DisplayName: e.DisplayName})
		}
	}

	if len(add.Entries) > 0 {
		pl.cache.AppendPacket(&add)
	}
	if len(gameMode.Updates) > 0 {
		pl.cache.AppendPacket(&gameMode)
	}
	if len(ping.Updates) > 0 {
		pl.cache.AppendPacket(&ping)
	}
	if len(displayName.Updates) > 0 {
		pl.cache.AppendPacket(&displayName)
	}

	if pl.modifiedHeaderOrFooter {
		pl.cache.AppendPacket(&packet.SetTabListHeaderAndFooter{Header: pl.Header, Footer: pl.Footer})
		pl.modifiedHeaderOrFooter = false
	}

	for _, e := range pl.entries {
		e.createdThisTick, e.modifiedGameMode, e.modifiedPing, e.modifiedDisplayName = false, false, false, false
	}

	pl.cachedHash = xxhash.Sum64(pl.cache.Bytes())
}

// ClearPacket returns the single RemovePlayer packet spec.md §4.4.2 emits
// when a client transitions off this list: every uuid currently present,
// plus anything in the removed-set (covering an entry removed and the list
// swap happening in the same tick).
func (pl *PlayerList) ClearPacket() *packet.RemovePlayer {
	ids := make([]uuid.UUID, 0, len(pl.entries)+len(pl.removed))
	for id := range pl.entries {
		ids = append(ids, id)
	}
	for id := range pl.removed {
		ids = append(ids, id)
	}
	return &packet.RemovePlayer{UUIDs: ids}
}

// InitPackets returns the packets a client transitioning onto this list must
// receive to see its full current state: every entry as an AddPlayer record
// plus the header/footer if set.
func (pl *PlayerList) InitPackets() []protocol.Packet {
	s := sink.New()
	if len(pl.entries) > 0 {
		add := packet.AddPlayer{}
		for id, e := range pl.entries {
			add.Entries = append(add.Entries, packet.AddPlayerEntry{
				UUID: id, Username: e.Username, GameMode: e.GameMode, Ping: e.Ping,
				DisplayName: e.DisplayName, HasTextures: e.HasTextures, Textures: e.Textures,
			})
		}
		s.AppendPacket(&add)
	}
	if pl.Header != "" || pl.Footer != "" {
		s.AppendPacket(&packet.SetTabListHeaderAndFooter{Header: pl.Header, Footer: pl.Footer})
	}
	return s.Packets()
}

// Store is the collection of shared player-lists (spec.md §2 component 5).
type Store struct {
	table rchandle.Table[PlayerList]
}

// New creates a fresh, empty PlayerList and returns the first handle
// referencing it.
func (s *Store) New() Id { return s.table.Insert(newList()) }

// RefreshCaches rebuilds every list's cached delta exactly once per tick,
// before any client update runs (spec.md §2, §4.3).
func (s *Store) RefreshCaches() {
	for pl := range s.table.All() {
		pl.refreshCache()
	}
}

// EndTick clears every list's removed-set. Called once, after every client
// has been updated for the tick (spec.md §2, §4.3).
func (s *Store) EndTick() {
	for pl := range s.table.All() {
		clear(pl.removed)
	}
}

// Len reports how many player-lists are currently alive. Exposed for tests
// asserting that an unreferenced list was collected (spec.md §3 invariant).
func (s *Store) Len() int { return s.table.Len() }
