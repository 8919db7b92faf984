package vm

import (
	"bufio"
	"errors"
	"fmt"
	"io"

	"github.com/chazu/brack/compiler"
)

// ErrInputExhausted indicates a read instruction executed with no byte
// available on the input stream.
var ErrInputExhausted = errors.New("input exhausted")

// ---------------------------------------------------------------------------
// Interpreter: tree-walking execution engine
// ---------------------------------------------------------------------------

// Interpreter executes a parsed program against a fresh tape. Reads consume
// the input stream one byte per read instruction; writes emit the current
// cell as a raw byte, no encoding interpretation.
type Interpreter struct {
	tape Tape
	in   *bufio.Reader
	out  io.Writer
}

// New creates an interpreter reading from in and writing to out.
func New(in io.Reader, out io.Writer) *Interpreter {
	return &Interpreter{
		in:  bufio.NewReader(in),
		out: out,
	}
}

// Run executes the program to completion on a zeroed tape with the data
// pointer at cell zero. The first runtime error aborts execution; a program
// whose loops never reach a zero cell does not return.
func (i *Interpreter) Run(program compiler.Program) error {
	i.tape = Tape{}
	return i.exec(program)
}

// Tape exposes the tape for post-run inspection.
func (i *Interpreter) Tape() *Tape {
	return &i.tape
}

// exec walks one instruction sequence. Loop bodies recurse; the per-iteration
// condition re-check is a plain for loop, so host stack depth tracks bracket
// nesting, not iteration count.
func (i *Interpreter) exec(instructions []compiler.Instruction) error {
	for _, in := range instructions {
		switch in.Op {
		case compiler.OpPointerRight:
			if err := i.tape.MoveRight(); err != nil {
				return err
			}
		case compiler.OpPointerLeft:
			if err := i.tape.MoveLeft(); err != nil {
				return err
			}
		case compiler.OpIncrement:
			i.tape.Increment()
		case compiler.OpDecrement:
			i.tape.Decrement()
		case compiler.OpWrite:
			if _, err := i.out.Write([]byte{i.tape.Cell()}); err != nil {
				return fmt.Errorf("write failed: %w", err)
			}
		case compiler.OpRead:
			b, err := i.in.ReadByte()
			if err != nil {
				if err == io.EOF {
					return ErrInputExhausted
				}
				return fmt.Errorf("read failed: %w", err)
			}
			i.tape.SetCell(b)
		case compiler.OpLoopBegin:
			for i.tape.Cell() != 0 {
				if err := i.exec(in.Body); err != nil {
					return err
				}
			}
		default:
			return fmt.Errorf("invalid instruction %v", in.Op)
		}
	}
	return nil
}
