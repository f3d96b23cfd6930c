package sink_test

import (
	"bytes"
	"testing"

	"github.com/df-mc/clientupdate/server/protocol/packet"
	"github.com/df-mc/clientupdate/server/sink"
)

func TestAppendOrderPreserved(t *testing.T) {
	s := sink.New()
	s.AppendPacket(&packet.SetCenterChunk{X: 1, Z: 2})
	s.AppendBytes([]byte{0xAA})
	s.AppendPacket(&packet.KeepAliveS2c{ID: 7})

	pks := s.Packets()
	if len(pks) != 2 {
		t.Fatalf("Packets() len = %d, want 2", len(pks))
	}
	if _, ok := pks[0].(*packet.SetCenterChunk); !ok {
		t.Fatalf("Packets()[0] = %T, want *packet.SetCenterChunk", pks[0])
	}
	if _, ok := pks[1].(*packet.KeepAliveS2c); !ok {
		t.Fatalf("Packets()[1] = %T, want *packet.KeepAliveS2c", pks[1])
	}
}

func TestPrependPrecedesBody(t *testing.T) {
	s := sink.New()
	s.AppendPacket(&packet.SetCenterChunk{})
	s.PrependPacket(&packet.LoginPlay{})

	pks := s.Packets()
	if len(pks) != 2 {
		t.Fatalf("Packets() len = %d, want 2", len(pks))
	}
	if _, ok := pks[0].(*packet.LoginPlay); !ok {
		t.Fatalf("Packets()[0] = %T, want *packet.LoginPlay", pks[0])
	}
}

func TestFlushClearsSink(t *testing.T) {
	s := sink.New()
	s.AppendPacket(&packet.KeepAliveS2c{ID: 1})
	if s.Len() == 0 {
		t.Fatalf("Len() = 0 before Flush, want nonzero")
	}
	b1 := s.Flush()
	if len(b1) == 0 {
		t.Fatalf("Flush() returned no bytes")
	}
	if s.Len() != 0 {
		t.Fatalf("Len() after Flush = %d, want 0", s.Len())
	}
	b2 := s.Flush()
	if len(b2) != 0 {
		t.Fatalf("Flush() on an empty sink returned %d bytes", len(b2))
	}
}

func TestAppendBytesSplicesRawPayload(t *testing.T) {
	s := sink.New()
	s.AppendBytes([]byte{1, 2, 3})
	out := s.Flush()
	if !bytes.Equal(out, []byte{1, 2, 3}) {
		t.Fatalf("Flush() = %v, want [1 2 3]", out)
	}
}
