// Package driver is the external surface spec.md §6 names but excludes from
// the core: parse/compile/interpret/run over .pls source and .cpls compiled
// AST files, plus the ambient configuration and logging those operations
// need. Grounded on the teacher's Repl()/Load()/Import() surface
// (interpreter.go) and, for configuration, davidkellis-able's
// pkg/driver/lockfile.go YAML document handling.
package driver

import (
	"fmt"
	"os"
	"strings"

	fortiolog "fortio.org/log"

	please "github.com/ULL-ESIT-PL-2021/tfa-please"
)

// CplsExt and SourceExt are the extensions spec.md §6 names verbatim.
const (
	SourceExt = ".pls"
	CplsExt   = ".cpls"
)

// Parse parses source into an AST, mirroring the teacher's Interpreter.Eval
// compile half without the execution half.
func Parse(source string) (please.Node, error) {
	return please.Parse(source)
}

// ParseFromFile reads path and parses its contents.
func ParseFromFile(path string) (please.Node, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(string(data))
}

// Compile parses sourcePath and writes its serialized AST to outputPath,
// defaulting outputPath to sourcePath with its extension replaced by
// CplsExt, per spec.md §6's compile(sourcePath, outputPath?).
func Compile(sourcePath, outputPath string) error {
	node, err := ParseFromFile(sourcePath)
	if err != nil {
		return err
	}
	if outputPath == "" {
		outputPath = defaultCplsPath(sourcePath)
	}
	fortiolog.Infof("compiling %s -> %s", sourcePath, outputPath)
	return WriteCompiled(node, outputPath)
}

func defaultCplsPath(sourcePath string) string {
	if strings.HasSuffix(sourcePath, SourceExt) {
		return strings.TrimSuffix(sourcePath, SourceExt) + CplsExt
	}
	return sourcePath + CplsExt
}

// Interpret evaluates an already-parsed AST against a fresh top scope
// running through the optimizer first, matching what Run/RunFromFile do
// under the hood so a .cpls load and a source run behave identically.
func Interpret(ast please.Node) (please.Value, error) {
	return interpret(ast, DefaultConfig())
}

// InterpretWithConfig evaluates ast, honoring cfg.Optimize.
func InterpretWithConfig(ast please.Node, cfg Config) (please.Value, error) {
	return interpret(ast, cfg)
}

func interpret(ast please.Node, cfg Config) (result please.Value, err error) {
	defer func() {
		if r := recover(); r != nil {
			if e, ok := r.(error); ok {
				err = &please.RuntimeError{Message: e.Error()}
				return
			}
			err = &please.RuntimeError{Message: fmt.Sprintf("%v", r)}
		}
	}()
	if cfg.Optimize {
		fortiolog.Debugf("optimizing before interpretation")
		ast = please.Optimize(ast)
	}
	scope := please.NewTopScope()
	return please.Evaluate(ast, scope)
}

// InterpretFromFile reads a .cpls file and evaluates it, falling back to
// reparsing the .pls sibling (with a warning) when the compiled file is
// missing or cannot be decoded. A .cpls file that loads is used as is; its
// age relative to the source is not checked — mirroring the teacher's Load(), which tries u.Load
// (compiled) before falling back to u.Compile (source) on the same path.
func InterpretFromFile(path string) (please.Value, error) {
	cfg := DefaultConfig()
	if strings.HasSuffix(path, CplsExt) {
		ast, err := ReadCompiled(path)
		if err == nil {
			return interpret(ast, cfg)
		}
		fortiolog.Warnf("failed to load compiled %s (%v), reparsing source", path, err)
		path = strings.TrimSuffix(path, CplsExt) + SourceExt
	}
	ast, err := ParseFromFile(path)
	if err != nil {
		return nil, err
	}
	return interpret(ast, cfg)
}

// Run parses and evaluates source in one step.
func Run(source string) (please.Value, error) {
	ast, err := Parse(source)
	if err != nil {
		return nil, err
	}
	return interpret(ast, DefaultConfig())
}

// RunFromFile reads path (source or compiled, by extension) and evaluates
// it.
func RunFromFile(path string) (please.Value, error) {
	if strings.HasSuffix(path, CplsExt) {
		return InterpretFromFile(path)
	}
	ast, err := ParseFromFile(path)
	if err != nil {
		return nil, err
	}
	return interpret(ast, DefaultConfig())
}
