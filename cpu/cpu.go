// Package cpu implements the fetch/decode/execute loop, register file, and
// exception latching for the 32-bit CPU core described in spec.md §4.2.
// The CPU talks to memory only through a bus.Transactor; it never touches
// devices or the address map directly, which is what lets board.Motherboard
// own the CPU without an import cycle.
package cpu

import (
	"go.uber.org/zap"

	"github.com/ktstephano-labs/vm32/bus"
	"github.com/ktstephano-labs/vm32/fault"
	"github.com/ktstephano-labs/vm32/isa"
)

// State is an immutable snapshot of everything a host needs to diagnose a
// halted or faulted CPU: spec.md §7 calls out pc, ec, pga, ett, mtt
// specifically, so Snapshot surfaces the whole register file alongside
// them rather than making the host reach back into CPU internals.
type State struct {
	Registers [isa.NumRegisters]uint32
	Halted    bool
}

// CPU is the register file, halted flag, and latched exception state.
// Nothing here is safe for concurrent use: spec.md §5 is explicit that the
// VM is single-threaded.
type CPU struct {
	registers [isa.NumRegisters]uint32
	halted    bool

	bus bus.Transactor
	log *zap.Logger
}

// Option configures a CPU at construction time.
type Option func(*CPU)

// WithLogger attaches a structured logger used only for exception and
// fault diagnostics; a nil logger keeps the default no-op logger, which
// disables logging entirely.
func WithLogger(l *zap.Logger) Option {
	return func(c *CPU) {
		if l != nil {
			c.log = l
		}
	}
}

// New returns a CPU wired to transactor t, with every register zeroed and
// pc == 0 (§3's post-reset state).
func New(t bus.Transactor, opts ...Option) *CPU {
	c := &CPU{bus: t, log: zap.NewNop()}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Reset restores every register to zero, pc to 0, and clears the halted
// flag. Callable any number of times (spec.md §5's reset discipline).
func (c *CPU) Reset() {
	for i := range c.registers {
		c.registers[i] = 0
	}
	c.halted = false
}

// Halted reports whether the CPU has stopped advancing.
func (c *CPU) Halted() bool { return c.halted }

// Reg reads register r's current value.
func (c *CPU) Reg(r isa.Reg) uint32 { return c.registers[r] }

// SetReg writes v into register r. Exported so a host can seed initial
// state (e.g. SSP) before the first Next() call.
func (c *CPU) SetReg(r isa.Reg, v uint32) { c.registers[r] = v }

// Snapshot returns a copy of the full register file and halted flag.
func (c *CPU) Snapshot() State {
	return State{Registers: c.registers, Halted: c.halted}
}

// latch records a fault into EC/PGA/ETT/MTT and halts the CPU. Per
// spec.md §4.2 and §7, any exception — bus or decode — stops the CPU from
// advancing pc any further.
func (c *CPU) latch(f fault.Fault) {
	c.registers[isa.EC] = uint32(f.Code)
	c.registers[isa.PGA] = f.PGA
	c.registers[isa.ETT] = uint32(f.DeviceCategory)
	c.registers[isa.MTT] = uint32(f.MemType)
	c.halted = true
	c.log.Info("cpu fault latched",
		zap.Uint16("code", uint16(f.Code)),
		zap.String("reason", f.Code.String()),
		zap.Uint32("pga", f.PGA),
		zap.Uint32("pc", c.registers[isa.PC]),
	)
}

// Next executes exactly one instruction. A no-op if the CPU is already
// halted (spec.md §8's "next() on a halted CPU is a no-op").
func (c *CPU) Next() {
	if c.halted {
		return
	}

	pc := c.registers[isa.PC]
	word, txFault := c.bus.ReadWord(pc)
	if txFault != nil {
		c.latch(*txFault)
		return
	}

	instr, err := isa.Decode(word)
	if err != nil {
		decErr, _ := err.(isa.DecodeError)
		c.latch(fault.Fault{Code: decErr.Code, PGA: pc})
		return
	}

	c.execute(instr, pc)
}
