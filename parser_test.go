package please

import (
	"strings"
	"testing"
)

func TestParseBasicShapes(t *testing.T) {
	node, err := Parse(`println(1, 2, 3)`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	call, ok := node.(*Call)
	if !ok {
		t.Fatalf("got %T, want *Call", node)
	}
	op, ok := call.Operator.(*Word)
	if !ok || op.Name != "println" {
		t.Fatalf("got operator %#v, want Word println", call.Operator)
	}
	if len(call.Args) != 3 {
		t.Fatalf("got %d args, want 3", len(call.Args))
	}
	for i, want := range []float64{1, 2, 3} {
		v, ok := call.Args[i].(*ValueNode)
		if !ok || v.Value.(float64) != want {
			t.Fatalf("arg %d: got %#v, want Value %v", i, call.Args[i], want)
		}
	}
}

func TestParseChainedCalls(t *testing.T) {
	node, err := Parse(`f(x)(y)`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	outer, ok := node.(*Call)
	if !ok {
		t.Fatalf("got %T, want *Call", node)
	}
	inner, ok := outer.Operator.(*Call)
	if !ok {
		t.Fatalf("got operator %T, want *Call", outer.Operator)
	}
	if w, ok := inner.Operator.(*Word); !ok || w.Name != "f" {
		t.Fatalf("got inner operator %#v, want Word f", inner.Operator)
	}
}

func TestParseParensAndBracesInterchangeable(t *testing.T) {
	a, err := Parse(`f(x)`)
	if err != nil {
		t.Fatalf("f(x): %v", err)
	}
	b, err := Parse(`f{x}`)
	if err != nil {
		t.Fatalf("f{x}: %v", err)
	}
	if Generate(a) != "f(x)" || Generate(b) != "f(x)" {
		t.Fatalf("expected identical parses, got %q and %q", Generate(a), Generate(b))
	}
}

func TestParseMismatchedBracketsIsError(t *testing.T) {
	_, err := Parse(`f(x}`)
	if err == nil {
		t.Fatalf("expected error for mismatched brackets")
	}
}

func TestParseEmptyArgList(t *testing.T) {
	node, err := Parse(`f()`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	call := node.(*Call)
	if len(call.Args) != 0 {
		t.Fatalf("got %d args, want 0", len(call.Args))
	}
}

func TestParseTrailingCommaRejected(t *testing.T) {
	_, err := Parse(`f(1,)`)
	if err == nil {
		t.Fatalf("expected error for trailing comma")
	}
}

func TestParseErrorMessages(t *testing.T) {
	tests := []struct {
		name     string
		source   string
		contains string
	}{
		{"unexpected token in call", `f(,)`, "Unexpected token"},
		{"expected comma or close paren", `f(1 2)`, "Expected ',' or ')'"},
		{"unmatched parenthesis", `f(1))`, "Unmatched parenthesis"},
		{"unexpected eof", `f(1,`, "EOF"},
		{"unexpected comma after program", `f(1), 2`, "Unexpected comma after program"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.source)
			if err == nil {
				t.Fatalf("expected error")
			}
			if !strings.Contains(err.Error(), tt.contains) {
				t.Fatalf("got error %q, want it to contain %q", err.Error(), tt.contains)
			}
		})
	}
}

func TestParseBraceVariantErrors(t *testing.T) {
	_, err := Parse(`f{1 2}`)
	if err == nil || !strings.Contains(err.Error(), "Expected ',' or '}'") {
		t.Fatalf("got %v, want Expected ',' or '}'", err)
	}
}

func TestParseStringAndNumberLiterals(t *testing.T) {
	node, err := Parse(`"hello"`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	v, ok := node.(*ValueNode)
	if !ok || v.Value.(string) != "hello" {
		t.Fatalf("got %#v, want Value \"hello\"", node)
	}
}

func TestParseDeeplyNestedCallsPreservesPositions(t *testing.T) {
	src := "f(g(h(i(1)))))"
	// The program itself is malformed (extra trailing paren) on purpose,
	// to check Parse still reports a sane, non-crashing location.
	_, err := Parse(src)
	if err == nil {
		t.Fatalf("expected an error from the stray trailing paren")
	}
	if !strings.Contains(err.Error(), "line 1") {
		t.Fatalf("got %v, want it to mention line 1", err)
	}
}
