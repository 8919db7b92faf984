package vm

import (
	"errors"
	"fmt"
)

// TapeSize is the number of cells on the memory tape.
const TapeSize = 1024

// ErrPointerOutOfBounds indicates the data pointer moved below zero or past
// the last tape cell. The tape never grows; leaving it is fatal.
var ErrPointerOutOfBounds = errors.New("data pointer out of bounds")

// ---------------------------------------------------------------------------
// Tape: fixed-size byte cells plus the data pointer
// ---------------------------------------------------------------------------

// Tape is the interpreted program's entire mutable state: a zero-initialized
// array of 8-bit cells and the data pointer selecting the current cell. The
// zero value is ready to use.
type Tape struct {
	cells [TapeSize]byte
	ptr   int
}

// MoveRight advances the data pointer one cell.
func (t *Tape) MoveRight() error {
	if t.ptr+1 >= TapeSize {
		return fmt.Errorf("%w: %d", ErrPointerOutOfBounds, t.ptr+1)
	}
	t.ptr++
	return nil
}

// MoveLeft retreats the data pointer one cell.
func (t *Tape) MoveLeft() error {
	if t.ptr == 0 {
		return fmt.Errorf("%w: -1", ErrPointerOutOfBounds)
	}
	t.ptr--
	return nil
}

// Cell returns the value under the data pointer.
func (t *Tape) Cell() byte {
	return t.cells[t.ptr]
}

// SetCell stores v at the data pointer.
func (t *Tape) SetCell(v byte) {
	t.cells[t.ptr] = v
}

// Increment adds one to the current cell, wrapping 255 to 0.
func (t *Tape) Increment() {
	t.cells[t.ptr]++
}

// Decrement subtracts one from the current cell, wrapping 0 to 255.
func (t *Tape) Decrement() {
	t.cells[t.ptr]--
}

// Pointer returns the data pointer's current index.
func (t *Tape) Pointer() int {
	return t.ptr
}

// At returns the value of cell i without moving the pointer. Out-of-range
// indexes read as zero; this is an inspection helper, not an execution path.
func (t *Tape) At(i int) byte {
	if i < 0 || i >= TapeSize {
		return 0
	}
	return t.cells[i]
}
