// Command please is the CLI driver: run/compile .pls source, interpret
// .cpls compiled AST, or drop into a readline REPL — the outer surface
// spec.md §1 calls out as an external collaborator, not part of the core.
// Grounded directly on the teacher's cmd-level flag handling and
// Interpreter.Repl() (interpreter.go).
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	fortiolog "fortio.org/log"
	"github.com/bobappleyard/readline"

	please "github.com/ULL-ESIT-PL-2021/tfa-please"
	"github.com/ULL-ESIT-PL-2021/tfa-please/driver"
)

func main() {
	compile := flag.Bool("c", false, "compile the given .pls source to .cpls instead of running it")
	out := flag.String("o", "", "output path for -c (defaults to the source path with .cpls)")
	noOptimize := flag.Bool("no-optimize", false, "skip the optimizer pass before evaluation in the REPL (file runs always optimize)")
	flag.Parse()

	cfg := driver.FindConfig(".")
	if *noOptimize {
		cfg.Optimize = false
	}
	fortiolog.Infof("please starting, trace_level=%s optimize=%t", cfg.TraceLevel, cfg.Optimize)

	args := flag.Args()
	if len(args) == 0 {
		repl(cfg)
		return
	}

	if *compile {
		if err := driver.Compile(args[0], *out); err != nil {
			fail(err)
		}
		return
	}

	result, err := driver.RunFromFile(args[0])
	if err != nil {
		fail(err)
	}
	_ = result
}

func fail(err error) {
	fmt.Fprintln(os.Stderr, err)
	os.Exit(1)
}

// repl reads expressions from stdin with history and name completion,
// evaluating each against one persistent top scope so bindings survive
// across lines — matching the teacher's Repl(), which recompiles and
// executes one statement per line against a single long-lived Interpreter.
func repl(cfg driver.Config) {
	scope := please.NewTopScope()
	readline.Completer = func(query, _ string) []string {
		var out []string
		for _, name := range boundNames(scope) {
			if strings.HasPrefix(name, query) {
				out = append(out, name)
			}
		}
		return out
	}
	for {
		line, err := readline.String("please> ")
		if err == io.EOF {
			fmt.Println()
			return
		}
		if err != nil {
			fail(err)
		}
		if strings.TrimSpace(line) == "" {
			continue
		}
		readline.AddHistory(line)
		evalLine(line, scope, cfg)
	}
}

func evalLine(line string, scope *please.Scope, cfg driver.Config) {
	defer func() {
		if r := recover(); r != nil {
			fmt.Printf("%v\n", r)
		}
	}()
	ast, err := please.Parse(line)
	if err != nil {
		fmt.Println(err)
		return
	}
	if cfg.Optimize {
		ast = please.Optimize(ast)
	}
	val, err := please.Evaluate(ast, scope)
	if err != nil {
		fmt.Println(err)
		return
	}
	fmt.Println(please.Inspect(val))
}

func boundNames(scope *please.Scope) []string {
	return scope.OwnNames()
}
