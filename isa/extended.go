package isa

// Extended instructions are pseudo-ops the assembler lowers into a fixed
// sequence of native instructions. The lowerings are part of the public
// contract (so a disassembler can recognize and re-fold them), grounded on
// spec.md §4.4. LEA/WEA's offset operand here is always an 8-bit immediate
// (see opcode.go), so the lowerings route through AVR as the effective
// address holder exactly as spec.md's worked examples do.

// SetReg lowers "load a full 32-bit constant into reg" into three native
// instructions: high 16 bits via CPY, shift left 16, then add the low 16
// bits.
func SetReg(reg Reg, v uint32) []Instruction {
	hi := uint16(v >> 16)
	lo := uint16(v)
	return []Instruction{
		{Op: OpCpyImm, NumOperands: 2, Operands: [3]Operand{RegOperand(reg), Imm16Operand(hi)}},
		{Op: OpShlImm, NumOperands: 2, Operands: [3]Operand{RegOperand(reg), Imm8Operand(16)}},
		{Op: OpAddImm, NumOperands: 2, Operands: [3]Operand{RegOperand(reg), Imm16Operand(lo)}},
	}
}

// ReadAddr computes addr into AVR and issues a LEA that reads the word at
// that address back into AVR.
func ReadAddr(addr uint32) []Instruction {
	out := SetReg(AVR, addr)
	out = append(out, Instruction{
		Op: OpLeaImm, NumOperands: 3,
		Operands: [3]Operand{RegOperand(AVR), RegOperand(AVR), Imm8Operand(0)},
	})
	return out
}

// ReadAddrTo computes addr into AVR, reads the word there, and copies it
// into reg.
func ReadAddrTo(reg Reg, addr uint32) []Instruction {
	out := ReadAddr(addr)
	out = append(out, Instruction{
		Op: OpCpyReg, NumOperands: 2,
		Operands: [3]Operand{RegOperand(reg), RegOperand(AVR)},
	})
	return out
}

// WriteAddr lowers "write reg's value to addr" using RR0 to hold the
// target address and AVR to stage the value, matching spec.md's native WEA
// shape (base, offset, value).
func WriteAddr(addr uint32, reg Reg) []Instruction {
	out := SetReg(RR0, addr)
	out = append(out, Instruction{
		Op: OpCpyReg, NumOperands: 2,
		Operands: [3]Operand{RegOperand(AVR), RegOperand(reg)},
	})
	out = append(out, Instruction{
		Op: OpWeaImm, NumOperands: 3,
		Operands: [3]Operand{RegOperand(RR0), Imm8Operand(0), RegOperand(AVR)},
	})
	return out
}

// WriteAddrLit lowers "write an immediate value to addr" the same way as
// WriteAddr, but loads the value into AVR via SetReg instead of copying it
// from a register.
func WriteAddrLit(addr uint32, value uint32) []Instruction {
	out := SetReg(RR0, addr)
	out = append(out, SetReg(AVR, value)...)
	out = append(out, Instruction{
		Op: OpWeaImm, NumOperands: 3,
		Operands: [3]Operand{RegOperand(RR0), Imm8Operand(0), RegOperand(AVR)},
	})
	return out
}
