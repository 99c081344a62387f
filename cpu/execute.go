package cpu

import (
	"github.com/ktstephano-labs/vm32/fault"
	"github.com/ktstephano-labs/vm32/isa"
)

// operandValue resolves an operand to its 32-bit value: a register's
// current contents, or an immediate zero-extended to 32 bits.
func (c *CPU) operandValue(o isa.Operand) uint32 {
	if o.Kind == isa.KindReg {
		return c.registers[o.Reg]
	}
	return o.Imm
}

// carryOf reports whether a 64-bit result overflowed 32 bits; ADD and MUL
// surface it in cc as their carry. SUB computes its borrow directly.
func carryOf(wide uint64) uint32 {
	if wide>>32 != 0 {
		return 1
	}
	return 0
}

// signExtend16 widens a 16-bit two's-complement value to 32 bits, used for
// conditional branches' relative offsets.
func signExtend16(v uint16) int32 {
	return int32(int16(v))
}

// execute runs one decoded instruction. pc is the address it was fetched
// from; execute is responsible for deciding the next pc (sequential, or a
// branch/call/ret target) and writing it back, except when a fault halts
// the CPU first — in that case pc is left exactly where the fault
// occurred, per spec.md §7.
func (c *CPU) execute(instr isa.Instruction, pc uint32) {
	nextPC := pc + 4

	switch instr.Op {
	case isa.OpNop:

	case isa.OpAddReg, isa.OpAddImm:
		dst := instr.Operands[0].Reg
		wide := uint64(c.registers[dst]) + uint64(c.operandValue(instr.Operands[1]))
		c.registers[dst] = uint32(wide)
		c.registers[isa.CC] = carryOf(wide)
	case isa.OpSubReg, isa.OpSubImm:
		dst := instr.Operands[0].Reg
		a, b := c.registers[dst], c.operandValue(instr.Operands[1])
		c.registers[dst] = a - b
		if b > a {
			c.registers[isa.CC] = 1
		} else {
			c.registers[isa.CC] = 0
		}
	case isa.OpMulReg, isa.OpMulImm:
		dst := instr.Operands[0].Reg
		wide := uint64(c.registers[dst]) * uint64(c.operandValue(instr.Operands[1]))
		c.registers[dst] = uint32(wide)
		c.registers[isa.CC] = carryOf(wide)
	case isa.OpDivReg, isa.OpDivImm:
		dst := instr.Operands[0].Reg
		divisor := c.operandValue(instr.Operands[1])
		if divisor == 0 {
			c.latch(fault.Fault{Code: fault.DivByZero, PGA: pc})
			return
		}
		c.registers[dst] = c.registers[dst] / divisor
	case isa.OpModReg, isa.OpModImm:
		dst := instr.Operands[0].Reg
		divisor := c.operandValue(instr.Operands[1])
		if divisor == 0 {
			c.latch(fault.Fault{Code: fault.DivByZero, PGA: pc})
			return
		}
		c.registers[dst] = c.registers[dst] % divisor

	case isa.OpAndReg, isa.OpAndImm:
		dst := instr.Operands[0].Reg
		c.registers[dst] &= c.operandValue(instr.Operands[1])
	case isa.OpOrReg, isa.OpOrImm:
		dst := instr.Operands[0].Reg
		c.registers[dst] |= c.operandValue(instr.Operands[1])
	case isa.OpXorReg, isa.OpXorImm:
		dst := instr.Operands[0].Reg
		c.registers[dst] ^= c.operandValue(instr.Operands[1])
	case isa.OpNot:
		dst := instr.Operands[0].Reg
		c.registers[dst] = ^c.registers[dst]
	case isa.OpShlReg, isa.OpShlImm:
		dst := instr.Operands[0].Reg
		shift := c.operandValue(instr.Operands[1])
		if shift >= 32 {
			c.registers[dst] = 0
		} else {
			c.registers[dst] <<= shift
		}
	case isa.OpShrReg, isa.OpShrImm:
		dst := instr.Operands[0].Reg
		shift := c.operandValue(instr.Operands[1])
		if shift >= 32 {
			c.registers[dst] = 0
		} else {
			c.registers[dst] >>= shift
		}

	case isa.OpCpyReg:
		dst := instr.Operands[0].Reg
		c.registers[dst] = c.registers[instr.Operands[1].Reg]
	case isa.OpCpyImm:
		dst := instr.Operands[0].Reg
		// An immediate move only ever writes the low 16 bits; a full
		// 32-bit load is the extended SetReg lowering (cpy hi; shl 16;
		// add lo).
		c.registers[dst] = (c.registers[dst] &^ 0xFFFF) | uint32(instr.Operands[1].Imm)

	case isa.OpCmpReg, isa.OpCmpImm:
		a := int32(c.registers[instr.Operands[0].Reg])
		b := int32(c.operandValue(instr.Operands[1]))
		switch {
		case a < b:
			c.registers[isa.CC] = 0xFFFFFFFF // -1
		case a > b:
			c.registers[isa.CC] = 1
		default:
			c.registers[isa.CC] = 0
		}

	case isa.OpIfEqReg, isa.OpIfEqImm:
		c.branch(instr, pc, &nextPC, c.registers[isa.CC] == 0)
	case isa.OpIfNeReg, isa.OpIfNeImm:
		c.branch(instr, pc, &nextPC, c.registers[isa.CC] != 0)
	case isa.OpIfLtReg, isa.OpIfLtImm:
		c.branch(instr, pc, &nextPC, int32(c.registers[isa.CC]) < 0)
	case isa.OpIfGtReg, isa.OpIfGtImm:
		c.branch(instr, pc, &nextPC, int32(c.registers[isa.CC]) > 0)
	case isa.OpIfLeReg, isa.OpIfLeImm:
		c.branch(instr, pc, &nextPC, int32(c.registers[isa.CC]) <= 0)
	case isa.OpIfGeReg, isa.OpIfGeImm:
		c.branch(instr, pc, &nextPC, int32(c.registers[isa.CC]) >= 0)

	case isa.OpJmpReg:
		nextPC = c.registers[instr.Operands[0].Reg]
	case isa.OpJmpImm:
		nextPC = instr.Operands[0].Imm

	case isa.OpCallReg, isa.OpCallImm:
		target := uint32(0)
		if instr.Op == isa.OpCallReg {
			target = c.registers[instr.Operands[0].Reg]
		} else {
			target = instr.Operands[0].Imm
		}
		ret := pc + 4
		ssp := c.registers[isa.SSP] - 4
		if f := c.bus.WriteWord(ssp, ret); f != nil {
			c.latch(*f)
			return
		}
		c.registers[isa.SSP] = ssp
		nextPC = target
	case isa.OpRet:
		ssp := c.registers[isa.SSP]
		ret, f := c.bus.ReadWord(ssp)
		if f != nil {
			c.latch(*f)
			return
		}
		c.registers[isa.SSP] = ssp + 4
		nextPC = ret

	case isa.OpHlt:
		// Reference behavior: HLT does not advance pc, so a faulted dump
		// still points at the halting instruction.
		c.halted = true
		return

	case isa.OpLeaReg, isa.OpLeaImm:
		dst, base := instr.Operands[0].Reg, instr.Operands[1].Reg
		offset := c.operandValue(instr.Operands[2])
		addr := c.registers[base] + offset
		word, f := c.bus.ReadWord(addr)
		if f != nil {
			c.latch(*f)
			return
		}
		c.registers[isa.AVR] = word
		c.registers[dst] = word
	case isa.OpWeaReg, isa.OpWeaImm:
		base := instr.Operands[0].Reg
		offset := c.operandValue(instr.Operands[1])
		value := c.registers[instr.Operands[2].Reg]
		addr := c.registers[base] + offset
		if f := c.bus.WriteWord(addr, value); f != nil {
			c.latch(*f)
			return
		}

	default:
		c.latch(fault.Fault{Code: fault.InvalidOpcode, PGA: pc})
		return
	}

	c.registers[isa.PC] = nextPC
}

// branch resolves one conditional-branch instruction: Reg form targets an
// absolute address held in a register, Imm form targets pc+4 plus a signed
// 16-bit relative offset. *next is only modified when cond holds.
func (c *CPU) branch(instr isa.Instruction, pc uint32, next *uint32, cond bool) {
	if !cond {
		return
	}
	o := instr.Operands[0]
	if o.Kind == isa.KindReg {
		*next = c.registers[o.Reg]
		return
	}
	*next = uint32(int32(pc+4) + signExtend16(uint16(o.Imm)))
}
