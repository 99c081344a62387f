// Package bus defines the abstract memory-mapped device contract, the
// address-space mapper that routes guest addresses to devices, and the
// Transactor interface a motherboard exposes to the CPU. Concrete
// peripherals (RAM, ROM, display sinks, keyboards, clocks) are external
// collaborators per spec.md §1 — this package only defines the contract
// they implement.
package bus

import "github.com/ktstephano-labs/vm32/fault"

// Category identifies the broad class of hardware a device represents.
// 0x6-0xFFFF are reserved for future extension.
type Category uint16

const (
	CategoryMemory   Category = 0x1
	CategoryStorage  Category = 0x2
	CategoryDisplay  Category = 0x3
	CategoryKeyboard Category = 0x4
	CategoryClock    Category = 0x5
)

// Metadata is a device's fixed 8-word (32-byte) descriptor. It is produced
// by Device.Metadata and encoded big-endian exactly as spec.md §6
// describes.
type Metadata struct {
	HardwareID  uint64
	ByteSize    uint32
	Category    Category
	Subcategory uint16
	// TypeFields holds the 4 category-specific words (words 4-7 of the
	// encoded block). Unused entries are zero.
	TypeFields [4]uint32
}

// Encode packs m into the big-endian 32-byte wire form.
func (m Metadata) Encode() [8]uint32 {
	return [8]uint32{
		uint32(m.HardwareID >> 32),
		uint32(m.HardwareID),
		m.ByteSize,
		uint32(m.Category)<<16 | uint32(m.Subcategory),
		m.TypeFields[0], m.TypeFields[1], m.TypeFields[2], m.TypeFields[3],
	}
}

// DecodeMetadata is the inverse of Metadata.Encode.
func DecodeMetadata(words [8]uint32) Metadata {
	return Metadata{
		HardwareID:  uint64(words[0])<<32 | uint64(words[1]),
		ByteSize:    words[2],
		Category:    Category(words[3] >> 16),
		Subcategory: uint16(words[3]),
		TypeFields:  [4]uint32{words[4], words[5], words[6], words[7]},
	}
}

// Device is the bus contract every memory-mapped peripheral implements.
// Reads and writes are always word-aligned and word-sized; localOffset is
// relative to the device's own base (the mapper has already translated the
// guest address). A device signals failure by returning a non-None
// fault.Code; the zero value means success.
type Device interface {
	// Name is a short display string, e.g. "ram0".
	Name() string
	// Metadata returns the device's fixed descriptor block.
	Metadata() Metadata
	// Size is the total number of bytes the device occupies in the guest
	// address space. Must be nonzero and a multiple of 4.
	Size() uint32
	// Read returns the word at localOffset, or a fault.Code on failure.
	Read(localOffset uint32) (uint32, fault.Code)
	// Write stores val at localOffset, returning a fault.Code on failure
	// (e.g. fault.ReadOnlyViolation).
	Write(localOffset uint32, val uint32) fault.Code
	// Reset clears volatile device state. Safe to call any number of
	// times; must not re-run device discovery or remapping.
	Reset()
}
