package isa

import "fmt"

// Encode packs i into a big-endian 32-bit instruction word. Encode panics if
// i.Op is invalid or an operand's Kind doesn't match what the opcode
// expects — that can only happen if an Instruction was hand-built instead
// of coming from Decode or the constructors in this package, which is
// always a programmer error, not a runtime condition.
func Encode(i Instruction) uint32 {
	if !i.Op.Valid() {
		panic(fmt.Sprintf("isa: invalid opcode %d", i.Op))
	}
	kinds := i.Op.operandKinds()
	if len(kinds) != i.NumOperands {
		panic(fmt.Sprintf("isa: %s expects %d operands, got %d", i.Op, len(kinds), i.NumOperands))
	}

	var slots [3]byte
	cursor := 0
	for idx, kind := range kinds {
		o := i.Operands[idx]
		if o.Kind != kind {
			panic(fmt.Sprintf("isa: %s operand %d expects kind %d, got %d", i.Op, idx, kind, o.Kind))
		}
		switch kind {
		case KindReg:
			slots[cursor] = o.Reg.encode()
			cursor++
		case KindImm8:
			slots[cursor] = byte(o.Imm)
			cursor++
		case KindImm16:
			slots[cursor] = byte(o.Imm >> 8)
			slots[cursor+1] = byte(o.Imm)
			cursor += 2
		}
	}

	word := uint32(i.Op) << 24
	word |= uint32(slots[0]) << 16
	word |= uint32(slots[1]) << 8
	word |= uint32(slots[2])
	return word
}
