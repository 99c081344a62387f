package bus

import "github.com/ktstephano-labs/vm32/fault"

// Transactor is the motherboard-side surface the CPU drives: issue a
// word-aligned read or write at a guest address and get back either the
// word (for reads) or a fault.Fault describing why the transaction failed.
// A Motherboard is the canonical implementation; the CPU depends only on
// this interface so it never imports the board package.
type Transactor interface {
	ReadWord(addr uint32) (uint32, *fault.Fault)
	WriteWord(addr uint32, val uint32) *fault.Fault
}

// CheckAlignment is the one piece of bus-transaction logic shared by every
// Transactor implementation: spec.md §4.1 step 1 requires addr%4==0 before
// even consulting the address map.
func CheckAlignment(addr uint32) *fault.Fault {
	if addr%4 != 0 {
		return &fault.Fault{Code: fault.UnalignedAddress, PGA: addr}
	}
	return nil
}
