// Package ramdev is a minimal flat-memory bus.Device: byte offsets,
// word-sized aligned reads and writes, zeroed on Reset. It exists to give the board and cmd/vm32run
// packages something concrete to map and drive; it is not a shipped
// peripheral in the sense spec.md §1 scopes out (display, keyboard, clock,
// storage controllers).
package ramdev

import (
	"github.com/ktstephano-labs/vm32/bus"
	"github.com/ktstephano-labs/vm32/fault"
)

// RAM is a fixed-size, byte-addressed, word-aligned memory device.
type RAM struct {
	name  string
	bytes []byte
}

// New returns a zeroed RAM device of the given size, which must be a
// nonzero multiple of 4.
func New(name string, size uint32) *RAM {
	return &RAM{name: name, bytes: make([]byte, size)}
}

// Load copies program/data words into the device starting at local offset
// 0, for test and CLI setup before the CPU's first fetch.
func (r *RAM) Load(words []uint32) {
	for i, w := range words {
		off := i * 4
		r.bytes[off] = byte(w >> 24)
		r.bytes[off+1] = byte(w >> 16)
		r.bytes[off+2] = byte(w >> 8)
		r.bytes[off+3] = byte(w)
	}
}

func (r *RAM) Name() string { return r.name }

func (r *RAM) Metadata() bus.Metadata {
	return bus.Metadata{ByteSize: uint32(len(r.bytes)), Category: bus.CategoryMemory}
}

func (r *RAM) Size() uint32 { return uint32(len(r.bytes)) }

func (r *RAM) Read(localOffset uint32) (uint32, fault.Code) {
	if localOffset%4 != 0 || uint64(localOffset)+4 > uint64(len(r.bytes)) {
		return 0, fault.UnmappedAddress
	}
	b := r.bytes[localOffset : localOffset+4]
	return uint32(b[0])<<24 | uint32(b[1])<<16 | uint32(b[2])<<8 | uint32(b[3]), fault.None
}

func (r *RAM) Write(localOffset uint32, val uint32) fault.Code {
	if localOffset%4 != 0 || uint64(localOffset)+4 > uint64(len(r.bytes)) {
		return fault.UnmappedAddress
	}
	r.bytes[localOffset] = byte(val >> 24)
	r.bytes[localOffset+1] = byte(val >> 16)
	r.bytes[localOffset+2] = byte(val >> 8)
	r.bytes[localOffset+3] = byte(val)
	return fault.None
}

func (r *RAM) Reset() {
	for i := range r.bytes {
		r.bytes[i] = 0
	}
}
