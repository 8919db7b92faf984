package cache

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/chazu/brack/compiler"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "programs.db"))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func mustParse(t *testing.T, source string) compiler.Program {
	t.Helper()
	prog, err := compiler.Parse(compiler.Scan(source))
	if err != nil {
		t.Fatalf("Parse(%q) failed: %v", source, err)
	}
	return prog
}

// flatten returns the opcode of every instruction in execution-tree order,
// descending into loop bodies.
func flatten(p compiler.Program) []compiler.Opcode {
	var ops []compiler.Opcode
	for _, in := range p {
		ops = append(ops, in.Op)
		if in.IsLoop() {
			ops = append(ops, flatten(in.Body)...)
		}
	}
	return ops
}

func TestStoreMiss(t *testing.T) {
	s := openTestStore(t)
	_, err := s.GetProgram("+++")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("GetProgram err = %v, want ErrNotFound", err)
	}
}

func TestStoreHitPreservesTree(t *testing.T) {
	s := openTestStore(t)
	source := "+[>+<-]."
	if err := s.PutProgram(source, mustParse(t, source)); err != nil {
		t.Fatalf("PutProgram failed: %v", err)
	}

	got, err := s.GetProgram(source)
	if err != nil {
		t.Fatalf("GetProgram failed: %v", err)
	}

	want := mustParse(t, source)
	gotOps, wantOps := flatten(got), flatten(want)
	if len(gotOps) != len(wantOps) {
		t.Fatalf("cached tree has %d ops, want %d", len(gotOps), len(wantOps))
	}
	for i := range wantOps {
		if gotOps[i] != wantOps[i] {
			t.Errorf("op[%d] = %v, want %v", i, gotOps[i], wantOps[i])
		}
	}
	if len(got) != 2 || !got[1].IsLoop() {
		t.Errorf("cached tree lost loop structure: %v", got)
	}
}

func TestStoreKeyedByExactSource(t *testing.T) {
	s := openTestStore(t)
	if err := s.PutProgram("+++", mustParse(t, "+++")); err != nil {
		t.Fatalf("PutProgram failed: %v", err)
	}

	// Same opcodes, different commentary: different source, cache miss.
	if _, err := s.GetProgram("+ + +"); !errors.Is(err, ErrNotFound) {
		t.Errorf("GetProgram err = %v, want ErrNotFound for edited source", err)
	}
}

func TestStoreReplace(t *testing.T) {
	s := openTestStore(t)
	source := "++"
	if err := s.PutProgram(source, mustParse(t, source)); err != nil {
		t.Fatalf("PutProgram failed: %v", err)
	}
	if err := s.PutProgram(source, mustParse(t, source)); err != nil {
		t.Fatalf("second PutProgram failed: %v", err)
	}
	if _, err := s.GetProgram(source); err != nil {
		t.Errorf("GetProgram after replace failed: %v", err)
	}
}

func TestStorePersistsAcrossOpens(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "programs.db")

	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	if err := s.PutProgram("[-]", mustParse(t, "[-]")); err != nil {
		t.Fatalf("PutProgram failed: %v", err)
	}
	s.Close()

	s2, err := Open(path)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	defer s2.Close()
	prog, err := s2.GetProgram("[-]")
	if err != nil {
		t.Fatalf("GetProgram after reopen failed: %v", err)
	}
	if len(prog) != 1 || !prog[0].IsLoop() {
		t.Errorf("reopened tree = %v, want single loop", prog)
	}
}

func TestSourceKeyStable(t *testing.T) {
	if SourceKey("+") != SourceKey("+") {
		t.Error("SourceKey is not deterministic")
	}
	if SourceKey("+") == SourceKey("-") {
		t.Error("SourceKey collides for different sources")
	}
}

func TestMarshalEmptyProgram(t *testing.T) {
	data, err := MarshalProgram(nil)
	if err != nil {
		t.Fatalf("MarshalProgram failed: %v", err)
	}
	prog, err := UnmarshalProgram(data)
	if err != nil {
		t.Fatalf("UnmarshalProgram failed: %v", err)
	}
	if len(prog) != 0 {
		t.Errorf("round-tripped empty program = %v, want empty", prog)
	}
}
