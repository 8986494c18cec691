package please

import (
	"fmt"
	"os"
	"strings"
	"unicode/utf8"
)

// NewTopScope builds the outermost frame, populated once with the built-in
// operators/functions and the three named constants, per spec.md §4.3's
// "the top scope ... is initialized once before evaluation and is
// effectively read-only ... except for explicit user assignments." Grounded
// on the teacher's builtins.go init() chain (initBaseClasses /
// initSimpleClasses / ...), collapsed to one function since Please's
// built-in surface is a flat function registry rather than a class
// hierarchy.
func NewTopScope() *Scope {
	s := NewScope(nil)
	s.Define("true", true)
	s.Define("false", false)
	s.Define("undefined", Undef)
	for name, fn := range builtinFuncs {
		s.Define(name, &Builtin{Name: name, Fn: fn})
	}
	return s
}

// foldableOps is the fixed binary-operator set the optimizer is permitted
// to fold (spec.md §2, §4.4).
var foldableOps = map[string]bool{
	"+": true, "-": true, "*": true, "/": true,
	"==": true, "!=": true, "<": true, ">": true,
	"&&": true, "||": true,
}

// builtinFuncs backs every builtinFuncs entry for NewTopScope and also
// drives the optimizer's constant-folding step, which invokes these same
// functions directly against the top scope (spec.md §4.4, step 3).
var builtinFuncs = map[string]func(args []Value, pos Position) (Value, error){
	"+":        arith(func(a, b float64) float64 { return a + b }),
	"-":        arith(func(a, b float64) float64 { return a - b }),
	"*":        arith(func(a, b float64) float64 { return a * b }),
	"/":        arith(func(a, b float64) float64 { return a / b }),
	"==":       biEq(false),
	"!=":       biEq(true),
	"<":        biCompare(func(a, b float64) bool { return a < b }),
	">":        biCompare(func(a, b float64) bool { return a > b }),
	"&&":       biLogic(func(a, b bool) bool { return a && b }),
	"||":       biLogic(func(a, b bool) bool { return a || b }),
	"println":  biPrintln,
	"arr":      biArray,
	"array":    biArray,
	"map":      biHash,
	"hash":     biHash,
	"element":  biElement,
	"len":      biLen,
	"length":   biLen,
}

func arith(op func(a, b float64) float64) func([]Value, Position) (Value, error) {
	return func(args []Value, pos Position) (Value, error) {
		if len(args) != 2 {
			return nil, NewTypeError(pos, "wrong number of arguments: expected 2, got %d", len(args))
		}
		a, ok1 := args[0].(float64)
		b, ok2 := args[1].(float64)
		if !ok1 || !ok2 {
			return nil, NewTypeError(pos, "wrong type: arithmetic operator expects two numbers")
		}
		return op(a, b), nil
	}
}

func biEq(negate bool) func([]Value, Position) (Value, error) {
	return func(args []Value, pos Position) (Value, error) {
		if len(args) != 2 {
			return nil, NewTypeError(pos, "wrong number of arguments: expected 2, got %d", len(args))
		}
		eq := valuesEqual(args[0], args[1])
		if negate {
			eq = !eq
		}
		return eq, nil
	}
}

func biCompare(op func(a, b float64) bool) func([]Value, Position) (Value, error) {
	return func(args []Value, pos Position) (Value, error) {
		if len(args) != 2 {
			return nil, NewTypeError(pos, "wrong number of arguments: expected 2, got %d", len(args))
		}
		a, ok1 := args[0].(float64)
		b, ok2 := args[1].(float64)
		if !ok1 || !ok2 {
			return nil, NewTypeError(pos, "wrong type: comparison operator expects two numbers")
		}
		return op(a, b), nil
	}
}

// biLogic implements && and || as ordinary top-scope functions, not
// keywords (spec.md §2 lists them under built-ins, not the keyword table of
// §4.3) — so, like every other plain Call, both arguments are evaluated
// left-to-right before the operator runs. There is no short-circuiting.
func biLogic(op func(a, b bool) bool) func([]Value, Position) (Value, error) {
	return func(args []Value, pos Position) (Value, error) {
		if len(args) != 2 {
			return nil, NewTypeError(pos, "wrong number of arguments: expected 2, got %d", len(args))
		}
		return op(!isFalse(args[0]), !isFalse(args[1])), nil
	}
}

// biPrintln prints its arguments space-separated followed by a newline and
// returns them as an Array (spec.md §8 scenario 1).
func biPrintln(args []Value, pos Position) (Value, error) {
	parts := make([]string, len(args))
	for i, a := range args {
		parts[i] = Inspect(a)
	}
	fmt.Fprintln(os.Stdout, strings.Join(parts, " "))
	return NewArray(args), nil
}

func biArray(args []Value, pos Position) (Value, error) {
	return NewArray(args), nil
}

func biHash(args []Value, pos Position) (Value, error) {
	if len(args)%2 != 0 {
		return nil, NewTypeError(pos, "map/hash expects an even number of arguments, got %d", len(args))
	}
	h := NewHash()
	for i := 0; i < len(args); i += 2 {
		h.Set(args[i], args[i+1])
	}
	return h, nil
}

func biElement(args []Value, pos Position) (Value, error) {
	if len(args) != 2 {
		return nil, NewTypeError(pos, "wrong number of arguments: expected 2, got %d", len(args))
	}
	idx, ok := args[0].(Indexable)
	if !ok {
		return nil, NewTypeError(pos, "wrong type: %v is not indexable", Inspect(args[0]))
	}
	v, found := idx.Get(args[1])
	if !found {
		return Undef, nil
	}
	return v, nil
}

func biLen(args []Value, pos Position) (Value, error) {
	if len(args) != 1 {
		return nil, NewTypeError(pos, "wrong number of arguments: expected 1, got %d", len(args))
	}
	switch v := args[0].(type) {
	case string:
		return float64(utf8.RuneCountInString(v)), nil
	case *Array:
		return float64(len(v.Elems)), nil
	case *Hash:
		return float64(v.Len()), nil
	case *Object:
		return float64(len(v.Keys())), nil
	default:
		return nil, NewTypeError(pos, "wrong type: %v has no length", Inspect(args[0]))
	}
}
