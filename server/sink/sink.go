// Package sink implements the append-only packet sink each Client writes its
// per-tick packet stream to (spec.md §4, component 3; design notes §9).
package sink

import "github.com/df-mc/clientupdate/server/protocol"

// entry is either a typed Packet (appended/prepended through AppendPacket /
// PrependPacket) or a raw, already-encoded byte blob owned by a collaborator
// (appended through AppendBytes, e.g. cached chunk or entity-update bytes).
// Keeping the Packet alongside its encoding lets tests assert on packet
// identity and ordering (spec.md §8) without re-parsing the wire format.
type entry struct {
	pk  protocol.Packet
	raw []byte
}

func (e entry) encode() []byte {
	if e.pk == nil {
		return e.raw
	}
	w := protocol.NewWriter()
	e.pk.Encode(w)
	return w.Bytes()
}

// Sink is an append-only buffer fed by encoded packets. It supports a cheap
// Prepend because the update engine must, on a freshly created client,
// insert a LoginPlay packet ahead of anything already buffered by host-side
// setup code that ran earlier in the tick (design notes §9): the buffer
// keeps a separate head section rather than shifting the body on every
// prepend.
type Sink struct {
	head []entry
	body []entry
}

// New returns an empty Sink.
func New() *Sink { return &Sink{} }

// AppendPacket queues p to be written after everything currently buffered.
func (s *Sink) AppendPacket(p protocol.Packet) {
	s.body = append(s.body, entry{pk: p})
}

// PrependPacket queues p to be written ahead of every appended entry.
// Prepended packets keep their call order among themselves: a later prepend
// is written after earlier ones. The engine only ever prepends once per tick
// (LoginPlay), so prepend-of-prepend ordering is not a concern in practice.
func (s *Sink) PrependPacket(p protocol.Packet) {
	s.head = append(s.head, entry{pk: p})
}

// AppendBytes appends a raw, already-encoded byte blob verbatim. It is used
// to splice in collaborator-owned bytes (cached chunk/entity update data)
// without requiring those collaborators to depend on this package or expose
// a protocol.Packet.
func (s *Sink) AppendBytes(b []byte) {
	if len(b) == 0 {
		return
	}
	s.body = append(s.body, entry{raw: b})
}

// Len returns the number of queued entries (head and body combined).
// Exposed mainly for tests that assert the sink was left empty after an
// invariant-violation disconnect.
func (s *Sink) Len() int { return len(s.head) + len(s.body) }

// Packets returns, in wire order, every protocol.Packet appended or
// prepended this tick. Raw byte blobs appended via AppendBytes are skipped:
// they carry no Packet identity to assert on. This is the primary surface
// spec.md §8's ordering properties are tested against.
func (s *Sink) Packets() []protocol.Packet {
	out := make([]protocol.Packet, 0, len(s.head)+len(s.body))
	for _, e := range s.head {
		if e.pk != nil {
			out = append(out, e.pk)
		}
	}
	for _, e := range s.body {
		if e.pk != nil {
			out = append(out, e.pk)
		}
	}
	return out
}

// Flush encodes and returns the buffered bytes in the order they must reach
// the wire (head first, then body), clearing the Sink for the next tick. The
// actual write to the transport is the host's responsibility (spec.md §6);
// Flush only hands the framed bytes over.
func (s *Sink) Flush() []byte {
	out := s.Bytes()
	s.head = s.head[:0]
	s.body = s.body[:0]
	return out
}

// Bytes encodes and returns the buffered bytes in wire order without
// clearing the Sink. Used by collaborators that rebuild a cached blob once
// per tick (e.g. the player-list store) and need to hand the same bytes to
// every client referencing it before the Sink is reset for the next rebuild.
func (s *Sink) Bytes() []byte {
	out := make([]byte, 0, 4096)
	for _, e := range s.head {
		out = append(out, e.encode()...)
	}
	for _, e := range s.body {
		out = append(out, e.encode()...)
	}
	return out
}

// Reset clears the Sink without encoding anything, discarding all queued
// entries.
func (s *Sink) Reset() {
	s.head = s.head[:0]
	s.body = s.body[:0]
}
