package cpu_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ktstephano-labs/vm32/bus"
	"github.com/ktstephano-labs/vm32/cpu"
	"github.com/ktstephano-labs/vm32/fault"
	"github.com/ktstephano-labs/vm32/isa"
)

// flatMemory is a minimal bus.Transactor backed by a plain byte slice,
// used to unit test the CPU core in isolation from board.Motherboard.
type flatMemory struct {
	bytes []byte
}

func newFlatMemory(size uint32) *flatMemory {
	return &flatMemory{bytes: make([]byte, size)}
}

func (m *flatMemory) ReadWord(addr uint32) (uint32, *fault.Fault) {
	if f := bus.CheckAlignment(addr); f != nil {
		return 0, f
	}
	if uint64(addr)+4 > uint64(len(m.bytes)) {
		return 0, &fault.Fault{Code: fault.UnmappedAddress, PGA: addr}
	}
	b := m.bytes[addr : addr+4]
	return uint32(b[0])<<24 | uint32(b[1])<<16 | uint32(b[2])<<8 | uint32(b[3]), nil
}

func (m *flatMemory) WriteWord(addr uint32, val uint32) *fault.Fault {
	if f := bus.CheckAlignment(addr); f != nil {
		return f
	}
	if uint64(addr)+4 > uint64(len(m.bytes)) {
		return &fault.Fault{Code: fault.UnmappedAddress, PGA: addr}
	}
	m.bytes[addr] = byte(val >> 24)
	m.bytes[addr+1] = byte(val >> 16)
	m.bytes[addr+2] = byte(val >> 8)
	m.bytes[addr+3] = byte(val)
	return nil
}

func (m *flatMemory) loadProgram(instrs ...isa.Instruction) {
	off := uint32(0)
	for _, i := range instrs {
		m.WriteWord(off, isa.Encode(i))
		off += 4
	}
}

func TestHltOnlyDoesNotAdvancePC(t *testing.T) {
	mem := newFlatMemory(0x100)
	mem.loadProgram(isa.Instruction{Op: isa.OpHlt})

	c := cpu.New(mem)
	c.Next()

	require.True(t, c.Halted())
	require.Equal(t, uint32(0), c.Reg(isa.PC))

	// Next() on an already-halted CPU is a no-op.
	c.Next()
	require.Equal(t, uint32(0), c.Reg(isa.PC))
}

func TestCpyImmSetsLow16Bits(t *testing.T) {
	mem := newFlatMemory(0x100)
	mem.loadProgram(isa.Instruction{
		Op: isa.OpCpyImm, NumOperands: 2,
		Operands: [3]isa.Operand{isa.RegOperand(isa.A0), isa.Imm16Operand(0x1234)},
	})

	c := cpu.New(mem)
	c.Next()

	require.Equal(t, uint32(0x00001234), c.Reg(isa.A0))
	require.False(t, c.Halted())
}

func TestSetRegLoweringLoadsFull32Bits(t *testing.T) {
	mem := newFlatMemory(0x100)
	mem.loadProgram(isa.SetReg(isa.A0, 0xDEADBEEF)...)

	c := cpu.New(mem)
	c.Next()
	c.Next()
	c.Next()

	require.Equal(t, uint32(0xDEADBEEF), c.Reg(isa.A0))
}

func TestUnalignedLoadRaisesException(t *testing.T) {
	mem := newFlatMemory(0x1000)
	mem.loadProgram(isa.Instruction{
		Op: isa.OpLeaReg, NumOperands: 3,
		Operands: [3]isa.Operand{isa.RegOperand(isa.A0), isa.RegOperand(isa.A1), isa.RegOperand(isa.A2)},
	})

	c := cpu.New(mem)
	c.SetReg(isa.A1, 0)
	c.SetReg(isa.A2, 1) // unaligned offset
	c.Next()

	require.True(t, c.Halted())
	require.Equal(t, uint32(fault.UnalignedAddress), c.Reg(isa.EC))
	require.Equal(t, uint32(1), c.Reg(isa.PGA))
}

func TestUnmappedWriteRaisesException(t *testing.T) {
	mem := newFlatMemory(0x1000)
	mem.loadProgram(isa.Instruction{
		Op: isa.OpWeaImm, NumOperands: 3,
		Operands: [3]isa.Operand{isa.RegOperand(isa.A0), isa.Imm8Operand(0), isa.RegOperand(isa.A1)},
	})

	c := cpu.New(mem)
	c.SetReg(isa.A0, 0x2000)
	c.Next()

	require.True(t, c.Halted())
	require.Equal(t, uint32(fault.UnmappedAddress), c.Reg(isa.EC))
	require.Equal(t, uint32(0x2000), c.Reg(isa.PGA))
}

func TestDivisionByZeroRaisesException(t *testing.T) {
	mem := newFlatMemory(0x100)
	mem.loadProgram(isa.Instruction{
		Op: isa.OpDivImm, NumOperands: 2,
		Operands: [3]isa.Operand{isa.RegOperand(isa.A0), isa.Imm16Operand(0)},
	})

	c := cpu.New(mem)
	c.Next()

	require.True(t, c.Halted())
	require.Equal(t, uint32(fault.DivByZero), c.Reg(isa.EC))
	require.Equal(t, uint32(0), c.Reg(isa.PC))
}

func TestConditionalBranchTaken(t *testing.T) {
	mem := newFlatMemory(0x100)
	mem.loadProgram(
		isa.Instruction{Op: isa.OpCmpImm, NumOperands: 2, Operands: [3]isa.Operand{isa.RegOperand(isa.A0), isa.Imm16Operand(0)}}, // a0 == 0
		isa.Instruction{Op: isa.OpIfEqImm, NumOperands: 1, Operands: [3]isa.Operand{isa.Imm16Operand(4)}},                       // branch +4 past the hlt, to the landing pad
		isa.Instruction{Op: isa.OpHlt},                                                                                          // skipped
		isa.Instruction{Op: isa.OpNop},                                                                                          // landing pad
	)

	c := cpu.New(mem)
	c.Next() // cmp
	c.Next() // ifeq, should branch over the hlt
	require.Equal(t, uint32(12), c.Reg(isa.PC))
	require.False(t, c.Halted())
}

func TestCallAndRet(t *testing.T) {
	mem := newFlatMemory(0x100)
	mem.loadProgram(
		isa.Instruction{Op: isa.OpCallImm, NumOperands: 1, Operands: [3]isa.Operand{isa.Imm16Operand(12)}}, // @0: call 12
		isa.Instruction{Op: isa.OpHlt},                                                                     // @4: return lands here
		isa.Instruction{Op: isa.OpNop},                                                                     // @8
		isa.Instruction{Op: isa.OpRet},                                                                     // @12
	)

	c := cpu.New(mem)
	c.SetReg(isa.SSP, 0x80)
	c.Next() // call -> pc=12, pushes return addr 4
	require.Equal(t, uint32(12), c.Reg(isa.PC))
	c.Next() // ret -> pc=4
	require.Equal(t, uint32(4), c.Reg(isa.PC))
	c.Next() // hlt
	require.True(t, c.Halted())
}
