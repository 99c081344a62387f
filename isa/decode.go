package isa

import "github.com/ktstephano-labs/vm32/fault"

// DecodeError reports a decode failure with the fault code that should be
// latched by the CPU.
type DecodeError struct {
	Code fault.Code
}

func (e DecodeError) Error() string { return e.Code.String() }

// Decode turns one big-endian 32-bit instruction word into an Instruction.
// It rejects unknown opcodes, malformed register operand bits, and
// out-of-range register selectors, per the spec's round-trip law:
// decode(encode(i)) == i for every valid i, and for every 4-byte sequence,
// either decode fails or encode(decode(b)) == b.
func Decode(word uint32) (Instruction, error) {
	opByte := byte(word >> 24)
	slots := [3]byte{byte(word >> 16), byte(word >> 8), byte(word)}

	op := Op(opByte)
	if !op.Valid() {
		return Instruction{}, DecodeError{fault.InvalidOpcode}
	}

	kinds := op.operandKinds()
	instr := Instruction{Op: op, NumOperands: len(kinds)}

	cursor := 0
	for idx, kind := range kinds {
		switch kind {
		case KindReg:
			slot := slots[cursor]
			if slot&^byte(regSelectorMask) != 0 {
				return Instruction{}, DecodeError{fault.InvalidOperandKind}
			}
			r := decodeReg(slot)
			if !r.Valid() {
				return Instruction{}, DecodeError{fault.UnknownRegister}
			}
			instr.Operands[idx] = RegOperand(r)
			cursor++
		case KindImm8:
			instr.Operands[idx] = Imm8Operand(slots[cursor])
			cursor++
		case KindImm16:
			v := uint16(slots[cursor])<<8 | uint16(slots[cursor+1])
			instr.Operands[idx] = Imm16Operand(v)
			cursor += 2
		}
	}

	// Any operand slots past what the opcode consumes must be zero: a
	// nonzero trailing slot is not a valid encoding of any instruction, so
	// re-encoding it would not reproduce the original bytes.
	for ; cursor < 3; cursor++ {
		if slots[cursor] != 0 {
			return Instruction{}, DecodeError{fault.InvalidOperandKind}
		}
	}

	return instr, nil
}

// DecodeStrict is Decode with raw-data admission disabled: it always
// returns a decode error rather than ever falling back to RawWord. Strict
// mode is the caller's choice of policy, not a separate wire format, so it
// lives as a thin wrapper rather than changing Decode's signature.
func DecodeStrict(word uint32) (Instruction, error) {
	return Decode(word)
}

// DecodeProgramWord decodes word as an instruction; if strict is false and
// decoding fails, the word is admitted as opaque RawWord data instead of
// propagating the decode error. This is how embedded string/data constants
// coexist with instructions in a single program stream.
func DecodeProgramWord(word uint32, strict bool) (ProgramWord, error) {
	instr, err := Decode(word)
	if err == nil {
		return ProgramWord{Instr: instr}, nil
	}
	if strict {
		return ProgramWord{}, err
	}

	var raw RawWord
	raw.Bytes[0] = byte(word >> 24)
	raw.Bytes[1] = byte(word >> 16)
	raw.Bytes[2] = byte(word >> 8)
	raw.Bytes[3] = byte(word)
	return ProgramWord{Raw: raw, IsData: true}, nil
}
