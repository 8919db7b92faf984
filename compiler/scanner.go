package compiler

// ---------------------------------------------------------------------------
// Scanner: raw source text -> flat opcode sequence
// ---------------------------------------------------------------------------

// Scan converts source text into an ordered opcode sequence. Every character
// that is not one of the eight command symbols is a comment and is dropped.
// Scanning never fails; scanning pure commentary yields an empty sequence.
func Scan(source string) []Opcode {
	var ops []Opcode
	for i := 0; i < len(source); i++ {
		if op, ok := opcodeFor(source[i]); ok {
			ops = append(ops, op)
		}
	}
	return ops
}

// ScanOffsets returns the byte offset in source of each opcode that Scan
// would produce, in the same order. Tooling that reports positions in the
// original text (the language server, for one) uses this to translate an
// opcode index into a source location; the opcodes themselves stay
// position-free.
func ScanOffsets(source string) []int {
	var offsets []int
	for i := 0; i < len(source); i++ {
		if _, ok := opcodeFor(source[i]); ok {
			offsets = append(offsets, i)
		}
	}
	return offsets
}
