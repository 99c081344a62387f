package isa

import "fmt"

// Operand is a single decoded instruction operand. Kind says which field
// is meaningful.
type Operand struct {
	Kind OperandKind
	Reg  Reg
	Imm  uint32 // zero-extended; callers that need a signed offset cast themselves
}

// RegOperand builds a register operand.
func RegOperand(r Reg) Operand { return Operand{Kind: KindReg, Reg: r} }

// Imm8Operand builds an 8-bit immediate operand.
func Imm8Operand(v uint8) Operand { return Operand{Kind: KindImm8, Imm: uint32(v)} }

// Imm16Operand builds a 16-bit immediate operand.
func Imm16Operand(v uint16) Operand { return Operand{Kind: KindImm16, Imm: uint32(v)} }

// Instruction is a fully decoded 32-bit instruction word.
type Instruction struct {
	Op       Op
	Operands [3]Operand
	// NumOperands is how many entries in Operands are populated; the rest
	// are zero Operand values and must be ignored.
	NumOperands int
}

// String renders the instruction the way an assembler listing would, e.g.
// "add a0, 0x1234" or "hlt". It is a diagnostic aid only; nothing
// re-encodes from it.
func (i Instruction) String() string {
	s := i.Op.String()
	for idx := 0; idx < i.NumOperands; idx++ {
		if idx == 0 {
			s += " "
		} else {
			s += ", "
		}
		o := i.Operands[idx]
		switch o.Kind {
		case KindReg:
			s += o.Reg.String()
		default:
			s += fmt.Sprintf("0x%x", o.Imm)
		}
	}
	return s
}

// RawWord is an opaque 4-byte program entry that was permitted through the
// decoder in non-strict mode (embedded data such as strings) rather than
// being decoded as an instruction.
type RawWord struct {
	Bytes [4]byte
}

// ProgramWord is either a decoded Instruction or opaque RawWord data.
type ProgramWord struct {
	Instr  Instruction
	Raw    RawWord
	IsData bool
}
