package isa_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ktstephano-labs/vm32/fault"
	"github.com/ktstephano-labs/vm32/isa"
)

func TestRoundTripEveryValidInstruction(t *testing.T) {
	cases := []isa.Instruction{
		{Op: isa.OpNop},
		{Op: isa.OpHlt},
		{Op: isa.OpRet},
		{Op: isa.OpAddReg, NumOperands: 2, Operands: [3]isa.Operand{isa.RegOperand(isa.A0), isa.RegOperand(isa.A1)}},
		{Op: isa.OpAddImm, NumOperands: 2, Operands: [3]isa.Operand{isa.RegOperand(isa.A0), isa.Imm16Operand(0x1234)}},
		{Op: isa.OpCpyImm, NumOperands: 2, Operands: [3]isa.Operand{isa.RegOperand(isa.S3), isa.Imm16Operand(0xBEEF)}},
		{Op: isa.OpNot, NumOperands: 1, Operands: [3]isa.Operand{isa.RegOperand(isa.T2)}},
		{Op: isa.OpShlImm, NumOperands: 2, Operands: [3]isa.Operand{isa.RegOperand(isa.T2), isa.Imm8Operand(16)}},
		{Op: isa.OpJmpImm, NumOperands: 1, Operands: [3]isa.Operand{isa.Imm16Operand(0x0010)}},
		{Op: isa.OpIfEqReg, NumOperands: 1, Operands: [3]isa.Operand{isa.RegOperand(isa.RR0)}},
		{Op: isa.OpLeaImm, NumOperands: 3, Operands: [3]isa.Operand{isa.RegOperand(isa.AVR), isa.RegOperand(isa.A1), isa.Imm8Operand(4)}},
		{Op: isa.OpWeaImm, NumOperands: 3, Operands: [3]isa.Operand{isa.RegOperand(isa.RR0), isa.Imm8Operand(0), isa.RegOperand(isa.AVR)}},
	}

	for _, want := range cases {
		word := isa.Encode(want)
		got, err := isa.Decode(word)
		require.NoError(t, err)
		require.Equal(t, want, got)
		require.Equal(t, word, isa.Encode(got))
	}
}

func TestDecodeRejectsUnknownOpcode(t *testing.T) {
	_, err := isa.Decode(0xFF000000)
	require.ErrorIs(t, err, isa.DecodeError{Code: fault.InvalidOpcode})
}

func TestDecodeRejectsMalformedRegisterBits(t *testing.T) {
	// ADD reg,reg with a first operand slot that sets the guard bits above
	// the 6-bit selector.
	word := uint32(isa.OpAddReg)<<24 | 0x00C0<<16
	_, err := isa.Decode(word)
	require.ErrorIs(t, err, isa.DecodeError{Code: fault.InvalidOperandKind})
}

func TestDecodeRejectsOutOfRangeRegister(t *testing.T) {
	// Selector 41 is in range for 6 bits but past the last named register.
	word := uint32(isa.OpNot)<<24 | uint32(41)<<16
	_, err := isa.Decode(word)
	require.ErrorIs(t, err, isa.DecodeError{Code: fault.UnknownRegister})
}

func TestDecodeRejectsTrailingGarbage(t *testing.T) {
	// HLT takes no operands; a nonzero operand byte must not decode.
	word := uint32(isa.OpHlt)<<24 | 0x01
	_, err := isa.Decode(word)
	require.Error(t, err)
}

func TestDecodeProgramWordAdmitsRawDataNonStrict(t *testing.T) {
	word := uint32(0xDEADBEEF) // not a valid opcode byte (0xDE)
	pw, err := isa.DecodeProgramWord(word, false)
	require.NoError(t, err)
	require.True(t, pw.IsData)
	require.Equal(t, [4]byte{0xDE, 0xAD, 0xBE, 0xEF}, pw.Raw.Bytes)

	_, err = isa.DecodeProgramWord(word, true)
	require.Error(t, err)
}

func TestSetRegLoweringProducesCorrectWord(t *testing.T) {
	instrs := isa.SetReg(isa.A0, 0xDEADBEEF)
	require.Len(t, instrs, 3)
	require.Equal(t, isa.OpCpyImm, instrs[0].Op)
	require.Equal(t, uint32(0xDEAD), instrs[0].Operands[1].Imm)
	require.Equal(t, isa.OpShlImm, instrs[1].Op)
	require.Equal(t, uint32(16), instrs[1].Operands[1].Imm)
	require.Equal(t, isa.OpAddImm, instrs[2].Op)
	require.Equal(t, uint32(0xBEEF), instrs[2].Operands[1].Imm)
}
