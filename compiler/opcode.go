package compiler

import "fmt"

// ---------------------------------------------------------------------------
// Opcodes: the eight brainfuck command symbols
// ---------------------------------------------------------------------------

// Opcode represents a single recognized command symbol from the source text.
// Anything that is not one of the eight command characters is a comment and
// never becomes an opcode.
type Opcode byte

const (
	OpPointerRight Opcode = iota // >
	OpPointerLeft                // <
	OpIncrement                  // +
	OpDecrement                  // -
	OpWrite                      // .
	OpRead                       // ,
	OpLoopBegin                  // [
	OpLoopEnd                    // ]
)

var opcodeSymbols = [...]byte{
	OpPointerRight: '>',
	OpPointerLeft:  '<',
	OpIncrement:    '+',
	OpDecrement:    '-',
	OpWrite:        '.',
	OpRead:         ',',
	OpLoopBegin:    '[',
	OpLoopEnd:      ']',
}

// Symbol returns the source character for the opcode.
func (op Opcode) Symbol() byte {
	return opcodeSymbols[op]
}

func (op Opcode) String() string {
	if int(op) < len(opcodeSymbols) {
		return string(opcodeSymbols[op])
	}
	return fmt.Sprintf("Opcode(%d)", byte(op))
}

// opcodeFor maps a source byte to its opcode. The second return is false for
// comment characters.
func opcodeFor(ch byte) (Opcode, bool) {
	switch ch {
	case '>':
		return OpPointerRight, true
	case '<':
		return OpPointerLeft, true
	case '+':
		return OpIncrement, true
	case '-':
		return OpDecrement, true
	case '.':
		return OpWrite, true
	case ',':
		return OpRead, true
	case '[':
		return OpLoopBegin, true
	case ']':
		return OpLoopEnd, true
	}
	return 0, false
}
