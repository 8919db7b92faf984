// Package vm executes parsed brainfuck programs.
//
// This package contains:
//   - The fixed-size byte tape and data pointer
//   - The tree-walking interpreter
//   - The runtime error taxonomy (exhausted input, out-of-bounds pointer)
package vm
