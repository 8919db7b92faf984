// Brack CLI - runs brainfuck programs through the scan/parse/execute pipeline
package main

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/tliron/commonlog"
	_ "github.com/tliron/commonlog/simple"

	"github.com/chazu/brack/cache"
	"github.com/chazu/brack/compiler"
	"github.com/chazu/brack/manifest"
	"github.com/chazu/brack/server"
	"github.com/chazu/brack/vm"
)

func main() {
	verbose := flag.Bool("v", false, "Verbose logging")
	lspMode := flag.Bool("lsp", false, "Start language server on stdio")
	cachePath := flag.String("cache", "", "Parsed-program cache database (overrides brack.toml)")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: brack [options] <file|project-dir>\n\n")
		fmt.Fprintf(os.Stderr, "Runs the given brainfuck source file. A directory argument runs the\n")
		fmt.Fprintf(os.Stderr, "entry file named by its brack.toml manifest.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  brack hello.b                     # Run a source file\n")
		fmt.Fprintf(os.Stderr, "  brack ./mandelbrot                # Run a project directory\n")
		fmt.Fprintf(os.Stderr, "  brack -cache .brack.db hello.b    # Cache the parsed program\n")
		fmt.Fprintf(os.Stderr, "  brack -lsp                        # Start the language server\n")
	}
	flag.Parse()

	verbosity := 0
	if *verbose {
		verbosity = 2
	}
	commonlog.Configure(verbosity, nil)
	log := commonlog.GetLogger("brack")

	if *lspMode {
		if err := server.NewLSP().Run(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}

	sourcePath, dbPath, err := resolveTarget(flag.Arg(0), *cachePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	data, err := os.ReadFile(sourcePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	source := string(data)

	program, err := loadProgram(source, dbPath, log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	log.Debugf("loaded %s: %d top-level instructions", sourcePath, len(program))

	out := bufio.NewWriter(os.Stdout)
	runErr := vm.New(os.Stdin, out).Run(program)
	out.Flush()
	if runErr != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", runErr)
		os.Exit(1)
	}
}

// resolveTarget maps the positional argument to a source file. A directory
// argument is resolved through its brack.toml manifest, which may also
// supply a cache path when the -cache flag is unset.
func resolveTarget(target, cacheFlag string) (sourcePath, cachePath string, err error) {
	info, err := os.Stat(target)
	if err != nil {
		return "", "", err
	}
	if !info.IsDir() {
		return target, cacheFlag, nil
	}

	m, err := manifest.Load(target)
	if err != nil {
		return "", "", err
	}
	if cacheFlag == "" {
		cacheFlag = m.CachePath()
	}
	return m.EntryPath(), cacheFlag, nil
}

// loadProgram parses the source, going through the program cache when one is
// configured. A cache miss parses and stores; any cache failure other than a
// miss falls back to a plain parse.
func loadProgram(source, dbPath string, log commonlog.Logger) (compiler.Program, error) {
	if dbPath == "" {
		return compiler.Parse(compiler.Scan(source))
	}

	store, err := cache.Open(dbPath)
	if err != nil {
		log.Warningf("cache disabled: %v", err)
		return compiler.Parse(compiler.Scan(source))
	}
	defer store.Close()

	program, err := store.GetProgram(source)
	if err == nil {
		log.Debugf("cache hit for %s", cache.SourceKey(source))
		return program, nil
	}
	if !errors.Is(err, cache.ErrNotFound) {
		log.Warningf("cache read failed: %v", err)
	}

	program, err = compiler.Parse(compiler.Scan(source))
	if err != nil {
		return nil, err
	}
	if err := store.PutProgram(source, program); err != nil {
		log.Warningf("cache write failed: %v", err)
	}
	return program, nil
}
