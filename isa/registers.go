package isa

// Reg is a register selector. Only the low 6 bits are significant on the
// wire; Reg holds the full decoded value so callers never have to mask it
// again.
type Reg uint8

// Register file. General purpose registers come first so A0 can anchor a
// contiguous A0..S7 block; special purpose registers follow in the order
// the spec lists them.
const (
	A0 Reg = iota
	A1
	A2
	A3
	A4
	A5
	A6
	A7
	T0
	T1
	T2
	T3
	T4
	T5
	T6
	T7
	S0
	S1
	S2
	S3
	S4
	S5
	S6
	S7
	PC
	SSP
	USP
	RR0
	RR1
	RR2
	RR3
	RR4
	RR5
	RR6
	RR7
	AVR
	PGA
	EC
	ETT
	MTT
	CC

	numRegisters
)

// NumRegisters is the size of the register file backing a CPU.
const NumRegisters = int(numRegisters)

// regSelectorMask is the width of the operand field that carries a register
// selector. The register file has 41 named registers (24 general purpose,
// 17 special purpose) which do not fit in 5 bits as the prose spec implies;
// we reserve the low 6 bits of the 8-bit operand slot instead, leaving bits
// 6-7 as the malformed-operand guard band decode.go checks against.
const regSelectorMask = 0x3F

var regNames = [numRegisters]string{
	A0: "a0", A1: "a1", A2: "a2", A3: "a3", A4: "a4", A5: "a5", A6: "a6", A7: "a7",
	T0: "t0", T1: "t1", T2: "t2", T3: "t3", T4: "t4", T5: "t5", T6: "t6", T7: "t7",
	S0: "s0", S1: "s1", S2: "s2", S3: "s3", S4: "s4", S5: "s5", S6: "s6", S7: "s7",
	PC: "pc", SSP: "ssp", USP: "usp",
	RR0: "rr0", RR1: "rr1", RR2: "rr2", RR3: "rr3", RR4: "rr4", RR5: "rr5", RR6: "rr6", RR7: "rr7",
	AVR: "avr", PGA: "pga", EC: "ec", ETT: "ett", MTT: "mtt", CC: "cc",
}

// String renders the assembler-visible register name, e.g. "a0", "ssp".
func (r Reg) String() string {
	if int(r) < len(regNames) && regNames[r] != "" {
		return regNames[r]
	}
	return "?"
}

// Valid reports whether r names a real register in the file.
func (r Reg) Valid() bool {
	return r < numRegisters
}

// encode packs r into the low 6 bits of an 8-bit operand slot.
func (r Reg) encode() byte {
	return byte(r) & regSelectorMask
}

// decodeReg reads the low 6 bits of an operand slot back into a Reg. Bits
// 6-7 of the slot must be zero for a register operand; callers check that
// separately since it drives the InvalidOperandKind vs UnknownRegister
// distinction.
func decodeReg(slot byte) Reg {
	return Reg(slot & regSelectorMask)
}
