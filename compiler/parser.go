package compiler

import (
	"errors"
	"fmt"
)

// ---------------------------------------------------------------------------
// Parser: opcode sequence -> instruction tree
// ---------------------------------------------------------------------------

// Instruction is a structurally resolved executable unit. The six non-loop
// opcodes map one-to-one; a loop is an Instruction with Op == OpLoopBegin
// whose Body holds the instructions between the matched bracket pair. Body
// is nil for every non-loop instruction and empty for a loop with no body.
//
// Instructions are immutable once parsed; the interpreter walks the same
// tree once per loop iteration without modifying it.
type Instruction struct {
	Op   Opcode        `cbor:"op"`
	Body []Instruction `cbor:"body,omitempty"`
}

// IsLoop reports whether the instruction is a loop node.
func (in Instruction) IsLoop() bool {
	return in.Op == OpLoopBegin
}

// Program is the top-level instruction sequence for a full source text.
type Program []Instruction

// Structural parse failures. Both are wrapped in a *ParseError carrying the
// opcode index they were detected at.
var (
	ErrUnmatchedLoopEnd   = errors.New("unmatched loop end")
	ErrUnmatchedLoopStart = errors.New("unmatched loop start")
)

// ParseError reports a bracket-matching failure at a given opcode index.
type ParseError struct {
	Pos int   // index into the opcode sequence handed to Parse
	Err error // ErrUnmatchedLoopEnd or ErrUnmatchedLoopStart
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s at opcode %d", e.Err, e.Pos)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// Parse converts an opcode sequence into an instruction tree, resolving each
// matched bracket pair into a loop node owning the instructions between the
// brackets. A loop end with no open loop, or a loop begin that is never
// closed, is a *ParseError.
func Parse(opcodes []Opcode) (Program, error) {
	return parseRange(opcodes, 0)
}

// parseRange parses one bracket-nesting level. base is the absolute index of
// opcodes[0] in the full sequence, so error positions stay absolute when
// recursing into loop bodies.
//
// The walk keeps a nesting depth counter. At depth zero, non-loop opcodes map
// directly to instructions and a loop begin records where the loop started.
// Above depth zero everything except bracket opcodes is skipped here; the
// recursive call for the body consumes them. When the depth returns to zero,
// the range strictly between the brackets becomes the body of a single loop
// instruction appended at this level.
func parseRange(opcodes []Opcode, base int) (Program, error) {
	var program Program
	depth := 0
	loopStart := 0

	for i, op := range opcodes {
		if depth == 0 {
			switch op {
			case OpLoopBegin:
				loopStart = i
				depth++
			case OpLoopEnd:
				return nil, &ParseError{Pos: base + i, Err: ErrUnmatchedLoopEnd}
			default:
				program = append(program, Instruction{Op: op})
			}
			continue
		}

		switch op {
		case OpLoopBegin:
			depth++
		case OpLoopEnd:
			depth--
			if depth == 0 {
				body, err := parseRange(opcodes[loopStart+1:i], base+loopStart+1)
				if err != nil {
					return nil, err
				}
				program = append(program, Instruction{Op: OpLoopBegin, Body: body})
			}
		}
	}

	if depth != 0 {
		return nil, &ParseError{Pos: base + loopStart, Err: ErrUnmatchedLoopStart}
	}
	return program, nil
}
