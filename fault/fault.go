// Package fault defines the 16-bit exception taxonomy shared by the bus,
// the CPU, and every device. Codes are reproduced bit-exact so a host can
// compare a latched cpu.CPU exception code against these constants.
package fault

import (
	"errors"
	"fmt"
)

// Code is a 16-bit exception code. Zero means "no exception".
type Code uint16

const (
	None Code = 0x00

	UnalignedAddress  Code = 0x01
	UnmappedAddress   Code = 0x02
	ReadOnlyViolation Code = 0x03

	InvalidOpcode       Code = 0x10
	InvalidOperandKind  Code = 0x11
	UnknownRegister     Code = 0x12

	DivByZero      Code = 0x20
	OverflowTrapped Code = 0x21

	// DeviceFaultBase is the first codepoint of the device-reported range.
	// Device faults are passed through verbatim: upper byte is the
	// device's category code, lower byte is the device-local code.
	DeviceFaultBase Code = 0x30
)

// String renders the code the way the teacher's sentinel errors print:
// short and lower case.
func (c Code) String() string {
	switch c {
	case None:
		return "none"
	case UnalignedAddress:
		return "unaligned address"
	case UnmappedAddress:
		return "unmapped address"
	case ReadOnlyViolation:
		return "read-only violation"
	case InvalidOpcode:
		return "invalid opcode"
	case InvalidOperandKind:
		return "invalid operand kind"
	case UnknownRegister:
		return "unknown register"
	case DivByZero:
		return "division by zero"
	case OverflowTrapped:
		return "overflow trapped"
	default:
		if c >= DeviceFaultBase {
			return fmt.Sprintf("device fault (category=0x%02x local=0x%02x)", uint16(c)>>8, uint16(c)&0xFF)
		}
		return fmt.Sprintf("unknown fault 0x%02x", uint16(c))
	}
}

// DeviceFault packs a device category byte and a device-local code byte
// into the 0x30.. range reserved for device-reported faults: upper byte is
// the category, lower byte is the device-local code.
func DeviceFault(category, local uint8) Code {
	return Code(category)<<8 | Code(local)
}

// Fault is the richer payload threaded from a bus transaction up into the
// CPU's special registers (pga/ett/mtt) when a transaction fails.
type Fault struct {
	Code Code
	// PGA is the pending guest address associated with the fault, latched
	// into the CPU's PGA register.
	PGA uint32
	// DeviceCategory is the originating device's category code (0 if the
	// fault did not originate at a device), latched into ETT.
	DeviceCategory uint16
	// MemType carries a memory-type token (MTT) for memory-shaped faults;
	// zero when not applicable.
	MemType uint16
}

// Error lets a Fault be used directly where an error is expected, matching
// the error taxonomy's "reproducible exactly" requirement while still
// playing nicely with errors.Is/errors.As.
func (f Fault) Error() string {
	return f.Code.String()
}

// IsFault reports whether err is (or wraps) a Fault with the given code.
func IsFault(err error, code Code) bool {
	var f Fault
	return errors.As(err, &f) && f.Code == code
}
