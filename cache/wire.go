// Package cache stores parsed programs keyed by the hash of their source,
// so repeated runs of the same file skip the scan and parse passes.
package cache

import (
	"fmt"

	"github.com/fxamacker/cbor/v2"

	"github.com/chazu/brack/compiler"
)

// cborEncMode uses canonical options so the same tree always encodes to the
// same bytes.
var cborEncMode cbor.EncMode

func init() {
	em, err := cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		panic(fmt.Sprintf("cache: failed to create CBOR enc mode: %v", err))
	}
	cborEncMode = em
}

// MarshalProgram serializes an instruction tree to CBOR bytes.
func MarshalProgram(p compiler.Program) ([]byte, error) {
	return cborEncMode.Marshal(p)
}

// UnmarshalProgram deserializes an instruction tree from CBOR bytes.
func UnmarshalProgram(data []byte) (compiler.Program, error) {
	var p compiler.Program
	if err := cbor.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("cache: unmarshal program: %w", err)
	}
	return p, nil
}

// PutProgram encodes and stores the parsed program for source.
func (s *Store) PutProgram(source string, p compiler.Program) error {
	data, err := MarshalProgram(p)
	if err != nil {
		return fmt.Errorf("cache: marshal program: %w", err)
	}
	return s.Put(source, data)
}

// GetProgram loads and decodes the cached program for source, or ErrNotFound
// on a miss.
func (s *Store) GetProgram(source string) (compiler.Program, error) {
	data, err := s.Get(source)
	if err != nil {
		return nil, err
	}
	return UnmarshalProgram(data)
}
