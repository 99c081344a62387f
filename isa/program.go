package isa

import (
	"encoding/binary"
	"fmt"
)

// StreamError reports a failure decoding a raw machine-code image into
// words, independent of any individual instruction's own decode error.
type StreamError struct {
	// Offset is the byte offset (always 0, per spec.md §6: the whole
	// stream is rejected up front, not word-by-word) at which the error
	// was detected.
	Offset int
	Reason string
}

func (e StreamError) Error() string {
	return fmt.Sprintf("isa: %s at offset %d", e.Reason, e.Offset)
}

// ErrSourceNotMultipleOf4Bytes is the StreamError reason spec.md §6 names
// for an image whose length isn't a multiple of 4.
const ErrSourceNotMultipleOf4Bytes = "source length is not a multiple of 4 bytes"

// BytesToWords turns a flat big-endian byte image into a word stream.
// len(b) must be a multiple of 4; otherwise BytesToWords fails at offset 0
// exactly as spec.md §6 requires, rather than silently truncating the
// trailing partial word.
func BytesToWords(b []byte) ([]uint32, error) {
	if len(b)%4 != 0 {
		return nil, StreamError{Offset: 0, Reason: ErrSourceNotMultipleOf4Bytes}
	}
	words := make([]uint32, len(b)/4)
	for i := range words {
		words[i] = binary.BigEndian.Uint32(b[i*4:])
	}
	return words, nil
}

// WordsToBytes is the inverse of BytesToWords: it packs each word into 4
// big-endian bytes. Round-trip law (spec.md §8):
// BytesToWords(WordsToBytes(w)) == w for every word stream w.
func WordsToBytes(words []uint32) []byte {
	out := make([]byte, len(words)*4)
	for i, w := range words {
		binary.BigEndian.PutUint32(out[i*4:], w)
	}
	return out
}

// Program is a decoded machine-code image: one ProgramWord per input word,
// in stream order.
type Program struct {
	Words []ProgramWord
}

// DecodeProgram decodes every word in words into a ProgramWord, admitting
// raw data words only when strict is false. An error identifies the
// zero-based word index at which decoding failed.
func DecodeProgram(words []uint32, strict bool) (Program, error) {
	out := make([]ProgramWord, len(words))
	for i, w := range words {
		pw, err := DecodeProgramWord(w, strict)
		if err != nil {
			return Program{}, fmt.Errorf("isa: decode word %d: %w", i, err)
		}
		out[i] = pw
	}
	return Program{Words: out}, nil
}

// Encode re-encodes every word of p back into its original 32-bit form.
// For a Program produced by DecodeProgram, Encode(p) reproduces the input
// word stream bit-for-bit (spec.md §8's assemble-then-decode round-trip
// law), since Instruction encoding is bijective and RawWord retains the
// original bytes verbatim.
func (p Program) Encode() []uint32 {
	out := make([]uint32, len(p.Words))
	for i, pw := range p.Words {
		if pw.IsData {
			out[i] = uint32(pw.Raw.Bytes[0])<<24 | uint32(pw.Raw.Bytes[1])<<16 |
				uint32(pw.Raw.Bytes[2])<<8 | uint32(pw.Raw.Bytes[3])
			continue
		}
		out[i] = Encode(pw.Instr)
	}
	return out
}
