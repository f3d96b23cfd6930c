// Package protocol declares the wire-codec contract the update engine writes
// through. Actual on-the-wire framing, compression and encryption are
// external collaborators (spec.md §6) owned by the transport layer; this
// package only defines the Packet interface and a minimal Writer so that the
// packet types in package packet can be exercised and tested in isolation.
package protocol

import (
	"encoding/binary"
	"math"

	"github.com/google/uuid"
)

// Writer accumulates the encoded form of a single packet. It intentionally
// mirrors the narrow, pointer-free subset of a Minecraft-style protocol
// writer that the packets in package packet need: unsigned varints, raw
// integers, strings and UUIDs.
type Writer struct {
	buf []byte
}

// NewWriter returns a Writer with an empty backing buffer.
func NewWriter() *Writer { return &Writer{} }

// Bytes returns the bytes written so far. The returned slice is owned by the
// Writer and must be copied before the Writer is reused.
func (w *Writer) Bytes() []byte { return w.buf }

// Uint8 writes a single byte.
func (w *Writer) Uint8(x uint8) { w.buf = append(w.buf, x) }

// Bool writes a boolean as a single byte.
func (w *Writer) Bool(x bool) {
	if x {
		w.Uint8(1)
		return
	}
	w.Uint8(0)
}

// Int32 writes a big-endian 32-bit signed integer.
func (w *Writer) Int32(x int32) {
	var b [4]byte
	binary.BigEndian.PutUint32(b[:], uint32(x))
	w.buf = append(w.buf, b[:]...)
}

// Int64 writes a big-endian 64-bit signed integer.
func (w *Writer) Int64(x int64) {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], uint64(x))
	w.buf = append(w.buf, b[:]...)
}

// Uint64 writes a big-endian 64-bit unsigned integer.
func (w *Writer) Uint64(x uint64) {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], x)
	w.buf = append(w.buf, b[:]...)
}

// Float32 writes a big-endian IEEE-754 32-bit float.
func (w *Writer) Float32(x float32) { w.Int32(int32(math.Float32bits(x))) }

// Varuint32 writes x as an unsigned LEB128 varint.
func (w *Writer) Varuint32(x uint32) {
	for x >= 0x80 {
		w.buf = append(w.buf, byte(x)|0x80)
		x >>= 7
	}
	w.buf = append(w.buf, byte(x))
}

// String writes a length-prefixed UTF-8 string.
func (w *Writer) String(x string) {
	w.Varuint32(uint32(len(x)))
	w.buf = append(w.buf, x...)
}

// UUID writes a UUID's raw 16 bytes.
func (w *Writer) UUID(x uuid.UUID) { w.buf = append(w.buf, x[:]...) }

// RawBytes appends raw bytes verbatim, with no length prefix.
func (w *Writer) RawBytes(b []byte) { w.buf = append(w.buf, b...) }

// Packet is implemented by every type that can be written to a client's
// packet sink. Encoding is otherwise delegated entirely to the external
// codec/transport layer (spec.md §6); Encode is the seam at which that
// delegation happens.
type Packet interface {
	Encode(w *Writer)
}
