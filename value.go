package please

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Value is the universe of run-time values: bool, float64, string, Undefined,
// *Array, *Hash, *Object, *Function, and *Builtin. There is no host-language
// prototype chain (see Object below) — every composite value is an explicit
// Go struct, per the teacher's "model as explicit frames, never appeal to
// host prototype semantics" design note.
type Value = interface{}

// Undefined is the sole value of the `undefined` top-scope binding.
type Undefined struct{}

// Undef is the canonical Undefined instance; builtins and keywords return it
// directly rather than constructing fresh ones.
var Undef = Undefined{}

// Array is a mutable, growable sequence of Values, built by arr/array and
// indexed through element / IndexedAssign.
type Array struct {
	Elems []Value
}

func NewArray(elems []Value) *Array {
	cp := make([]Value, len(elems))
	copy(cp, elems)
	return &Array{Elems: cp}
}

func (a *Array) Get(key Value) (Value, bool) {
	idx, ok := toIndex(key)
	if !ok || idx < 0 || idx >= len(a.Elems) {
		return nil, false
	}
	return a.Elems[idx], true
}

func (a *Array) IndexedAssign(value Value, indices ...Value) error {
	if len(indices) != 1 {
		return fmt.Errorf("array index expects exactly one index, got %d", len(indices))
	}
	idx, ok := toIndex(indices[0])
	if !ok || idx < 0 {
		return fmt.Errorf("wrong type: array index must be a non-negative number")
	}
	for len(a.Elems) <= idx {
		a.Elems = append(a.Elems, Undef)
	}
	a.Elems[idx] = value
	return nil
}

func (a *Array) Iterate() []Value { return a.Elems }

// Hash maps arbitrary Values to Values.
//
// For keys, the following rules hold:
//   - string, number, boolean and undefined keys compare by value.
//   - every other key compares by Go reference identity (the same rule the
//     teacher documents for HashClass, generalized past strings/numbers).
//
// Insertion order is preserved for Keys and `foreach`.
type Hash struct {
	order []Value
	index map[string]int
	vals  map[string]Value
}

func NewHash() *Hash {
	return &Hash{index: map[string]int{}, vals: map[string]Value{}}
}

func hashKey(v Value) string {
	switch x := v.(type) {
	case string:
		return "s:" + x
	case float64:
		return "n:" + strconv.FormatFloat(x, 'g', -1, 64)
	case bool:
		return "b:" + strconv.FormatBool(x)
	case Undefined:
		return "u:"
	default:
		return fmt.Sprintf("p:%p", v)
	}
}

func (h *Hash) Get(key Value) (Value, bool) {
	v, ok := h.vals[hashKey(key)]
	return v, ok
}

func (h *Hash) Set(key, value Value) {
	k := hashKey(key)
	if _, exists := h.vals[k]; !exists {
		h.order = append(h.order, key)
		h.index[k] = len(h.order) - 1
	}
	h.vals[k] = value
}

func (h *Hash) IndexedAssign(value Value, indices ...Value) error {
	if len(indices) != 1 {
		return fmt.Errorf("hash index expects exactly one key, got %d", len(indices))
	}
	h.Set(indices[0], value)
	return nil
}

func (h *Hash) Len() int { return len(h.order) }

func (h *Hash) Keys() []Value { return append([]Value{}, h.order...) }

func (h *Hash) Iterate() []Value {
	out := make([]Value, len(h.order))
	for i, k := range h.order {
		v, _ := h.Get(k)
		out[i] = v
	}
	return out
}

// Object is a bundle of name-bound values sharing one Scope frame, whose
// `self` binding closes over the object itself — this is the "explicit
// frame" realization of the source's prototype-linked object/environment
// pair (spec.md §3, §4.3, Design Notes), collapsed to a single frame since
// nothing in this implementation distinguishes the environment frame from
// the object frame.
type Object struct {
	Frame *Scope
}

func NewObject(parent *Scope) *Object {
	obj := &Object{Frame: NewScope(parent)}
	obj.Frame.Define("self", obj)
	return obj
}

func (o *Object) Get(key Value) (Value, bool) {
	name, ok := key.(string)
	if !ok {
		return nil, false
	}
	return o.Frame.GetOwn(name)
}

func (o *Object) IndexedAssign(value Value, indices ...Value) error {
	if len(indices) != 1 {
		return fmt.Errorf("object property write expects exactly one key, got %d", len(indices))
	}
	name, ok := indices[0].(string)
	if !ok {
		return fmt.Errorf("wrong type: object property key must be a string")
	}
	o.Frame.Define(name, value)
	return nil
}

// Keys lists the object's own declared property names, in definition order,
// excluding `self` — Design Note (b)'s closed method set.
func (o *Object) Keys() []string { return o.Frame.OwnNames() }

func (o *Object) Iterate() []Value {
	names := o.Keys()
	out := make([]Value, len(names))
	for i, n := range names {
		v, _ := o.Frame.GetOwn(n)
		out[i] = v
	}
	return out
}

// Function is a user-defined callable: a parameter list, a body, and the
// scope it closed over at definition time (fn/function/->).
type Function struct {
	Params  []string
	Body    Node
	Closure *Scope
}

// Builtin is a host-implemented callable bound in the top scope.
type Builtin struct {
	Name string
	Fn   func(args []Value, pos Position) (Value, error)
}

// Indexable is implemented by every Value that `element` can read from.
type Indexable interface {
	Get(key Value) (Value, bool)
}

// IndexedAssigner is implemented by every Value that assign/set/= can write
// into with indices — Open Question (a)'s container['='](value, indices...).
type IndexedAssigner interface {
	IndexedAssign(value Value, indices ...Value) error
}

// Iterable is implemented by every Value foreach can walk.
type Iterable interface {
	Iterate() []Value
}

func toIndex(v Value) (int, bool) {
	f, ok := v.(float64)
	if !ok {
		return 0, false
	}
	return int(f), true
}

// isFalse is the language's sole truthiness rule: every value other than the
// literal boolean false counts as true.
func isFalse(v Value) bool {
	b, ok := v.(bool)
	return ok && !b
}

// valuesEqual backs == and !=: primitives compare by value, everything else
// by Go reference identity.
func valuesEqual(a, b Value) bool {
	switch av := a.(type) {
	case bool:
		bv, ok := b.(bool)
		return ok && av == bv
	case float64:
		bv, ok := b.(float64)
		return ok && av == bv
	case string:
		bv, ok := b.(string)
		return ok && av == bv
	case Undefined:
		_, ok := b.(Undefined)
		return ok
	default:
		return a == b
	}
}

func formatNumber(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}

// Inspect renders a Value the way println and the REPL display it.
func Inspect(v Value) string {
	switch x := v.(type) {
	case nil:
		return "undefined"
	case Undefined:
		return "undefined"
	case bool:
		if x {
			return "true"
		}
		return "false"
	case float64:
		return formatNumber(x)
	case string:
		return x
	case *Array:
		parts := make([]string, len(x.Elems))
		for i, e := range x.Elems {
			parts[i] = Inspect(e)
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case *Hash:
		parts := make([]string, 0, x.Len())
		for _, k := range x.Keys() {
			v, _ := x.Get(k)
			parts = append(parts, Inspect(k)+": "+Inspect(v))
		}
		return "{" + strings.Join(parts, ", ") + "}"
	case *Object:
		keys := x.Keys()
		sort.Strings(keys)
		parts := make([]string, len(keys))
		for i, k := range keys {
			v, _ := x.Frame.GetOwn(k)
			parts[i] = k + ": " + Inspect(v)
		}
		return "<object " + strings.Join(parts, ", ") + ">"
	case *Function:
		return fmt.Sprintf("<function/%d>", len(x.Params))
	case *Builtin:
		return fmt.Sprintf("<builtin %s>", x.Name)
	default:
		return fmt.Sprintf("%v", x)
	}
}
