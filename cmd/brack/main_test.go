package main

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/tliron/commonlog"

	"github.com/chazu/brack/compiler"
)

func testLogger() commonlog.Logger {
	return commonlog.GetLogger("brack.test")
}

func TestResolveTargetFile(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "prog.b")
	if err := os.WriteFile(file, []byte("+."), 0o644); err != nil {
		t.Fatal(err)
	}

	source, cachePath, err := resolveTarget(file, "override.db")
	if err != nil {
		t.Fatalf("resolveTarget failed: %v", err)
	}
	if source != file {
		t.Errorf("source = %q, want %q", source, file)
	}
	if cachePath != "override.db" {
		t.Errorf("cachePath = %q, want flag value", cachePath)
	}
}

func TestResolveTargetProjectDir(t *testing.T) {
	dir := t.TempDir()
	mf := `
[project]
name = "demo"

[source]
entry = "demo.b"

[cache]
path = ".brack/programs.db"
`
	if err := os.WriteFile(filepath.Join(dir, "brack.toml"), []byte(mf), 0o644); err != nil {
		t.Fatal(err)
	}

	source, cachePath, err := resolveTarget(dir, "")
	if err != nil {
		t.Fatalf("resolveTarget failed: %v", err)
	}
	if filepath.Base(source) != "demo.b" {
		t.Errorf("source = %q, want manifest entry demo.b", source)
	}
	if filepath.Base(cachePath) != "programs.db" {
		t.Errorf("cachePath = %q, want manifest cache path", cachePath)
	}
}

func TestResolveTargetMissing(t *testing.T) {
	if _, _, err := resolveTarget(filepath.Join(t.TempDir(), "absent.b"), ""); err == nil {
		t.Error("resolveTarget succeeded for missing file, want error")
	}
}

func TestLoadProgramWithoutCache(t *testing.T) {
	prog, err := loadProgram("+[-]", "", testLogger())
	if err != nil {
		t.Fatalf("loadProgram failed: %v", err)
	}
	if len(prog) != 2 {
		t.Errorf("program has %d instructions, want 2", len(prog))
	}
}

func TestLoadProgramParseError(t *testing.T) {
	_, err := loadProgram("[", "", testLogger())
	if !errors.Is(err, compiler.ErrUnmatchedLoopStart) {
		t.Errorf("loadProgram err = %v, want ErrUnmatchedLoopStart", err)
	}
}

func TestLoadProgramPopulatesCache(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "programs.db")
	source := "++[>+<-]."

	first, err := loadProgram(source, dbPath, testLogger())
	if err != nil {
		t.Fatalf("first loadProgram failed: %v", err)
	}

	// Second load hits the cache; the tree must come back identical in shape.
	second, err := loadProgram(source, dbPath, testLogger())
	if err != nil {
		t.Fatalf("second loadProgram failed: %v", err)
	}
	if len(first) != len(second) {
		t.Fatalf("cached program has %d instructions, want %d", len(second), len(first))
	}
	for i := range first {
		if first[i].Op != second[i].Op {
			t.Errorf("instruction %d = %v, want %v", i, second[i].Op, first[i].Op)
		}
	}
}
