package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"

	"github.com/tucanscript/tucan/core"
	"github.com/tucanscript/tucan/modules"
)

const version = "0.1.0"

const helpMessage = `tucan is a tiny embeddable scripting language.

Usage:
  tucan [flags] [file]

Without a file, tucan reads a program from stdin, or starts a REPL when
stdin is a terminal.

Flags:
`

var (
	debugTokens   = flag.Bool("debug-tokens", false, "print tokens before running")
	debugTree     = flag.Bool("debug-tree", false, "print the parsed statement tree before running")
	highlightOnly = flag.Bool("highlight", false, "print the source with syntax highlighting instead of running it")
	varsFile      = flag.String("vars", "", "YAML file of global variables to set before running")
	dump          = flag.Bool("dump", false, "print global variables as YAML after running")
	noColor       = flag.Bool("no-color", false, "disable colored output")
	showVersion   = flag.Bool("version", false, "print version and exit")
)

var (
	stdout = colorable.NewColorableStdout()
	stderr = colorable.NewColorableStderr()
)

func main() {
	flag.Usage = func() {
		fmt.Fprint(os.Stderr, helpMessage)
		flag.PrintDefaults()
	}

	flag.Parse()

	if *noColor || !isatty.IsTerminal(os.Stdout.Fd()) && !isatty.IsCygwinTerminal(os.Stdout.Fd()) {
		color.NoColor = true
	}

	if *showVersion {
		fmt.Fprintln(stdout, "tucan", version)
		return
	}

	args := flag.Args()

	switch {
	case len(args) > 0:
		content, err := os.ReadFile(args[0])
		if err != nil {
			fail(err)
		}
		runSource(string(content))
	case isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd()):
		repl()
	default:
		content, err := io.ReadAll(os.Stdin)
		if err != nil {
			fail(err)
		}
		runSource(string(content))
	}
}

func fail(err error) {
	fmt.Fprintln(stderr, color.RedString("%s", err))
	os.Exit(1)
}

// newScript builds a script with the standard modules and any -vars
// globals loaded.
func newScript() (*core.Script, error) {
	s := core.NewScript()
	modules.Initialize(s, stdout)

	if *varsFile != "" {
		if err := loadVars(s, *varsFile); err != nil {
			return nil, err
		}
	}
	return s, nil
}

func runSource(source string) {
	if *highlightOnly {
		if err := prettyPrint(stdout, source); err != nil {
			fail(err)
		}
		return
	}

	if *debugTokens {
		tokens, err := core.Tokenize(source)
		for _, tok := range tokens {
			fmt.Fprintf(stdout, "%s %s\n", tok.Pos, tok)
		}
		if err != nil {
			fail(err)
		}
	}

	s, err := newScript()
	if err != nil {
		fail(err)
	}

	if err := s.Load(source); err != nil {
		fail(err)
	}

	if *debugTree {
		fmt.Fprint(stdout, s.Tree())
	}

	if err := s.Run(); err != nil {
		fail(err)
	}

	if *dump {
		if err := dumpVars(stdout, s); err != nil {
			fail(err)
		}
	}
}
