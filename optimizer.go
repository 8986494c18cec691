package please

import (
	"sort"

	fortiolog "fortio.org/log"
)

// Optimize performs the post-order AST rewrite of spec.md §4.4: constant
// folding over the fixed binary-operator set, and scope-aware constant
// propagation that is conservatively invalidated across separated scopes
// (foreach/while/for bodies, and a named fn literal) and at call sites of
// any callable with a tracked mutation set.
//
// Grounded on the teacher's compiler.go (the AST-to-bytecode compile pass);
// the recursive structure is kept, but it rewrites AST to AST rather than
// AST to instructions. The spec's "stack of frames" (constantVariables,
// depth, functions) is realized as the Go call stack plus an explicit
// constEnv scope-chain threaded through the recursion, rather than a
// package-level mutable slice — same behavior, more idiomatic for a
// recursive function than manual push/pop bookkeeping.
func Optimize(node Node) Node {
	cs := newConstEnv(nil)
	mut := map[string]struct{}{}
	return opt(node, cs, &mut)
}

// constEnv is one frame of the optimizer's own scope-chain, tracking for
// each name either a known-constant Value or a recorded mutation set
// (mutually exclusive per name, hence the two maps). separated marks a
// frame as the boundary of a *separated* scope (spec.md §4.4): a lookup
// that reaches a separated frame may use that frame's own bindings but
// must not continue past it into its parent — "a scope that blocks
// constant propagation from outside the enclosing function/loop."
type constEnv struct {
	parent    *constEnv
	consts    map[string]Value
	mutSets   map[string][]string
	separated bool
}

func newConstEnv(parent *constEnv) *constEnv {
	return &constEnv{parent: parent, consts: map[string]Value{}, mutSets: map[string][]string{}}
}

// newSeparatedEnv opens a new separated scope rooted at parent: foreach/
// while/for bodies and a function literal's body, per spec.md §4.4.
func newSeparatedEnv(parent *constEnv) *constEnv {
	e := newConstEnv(parent)
	e.separated = true
	return e
}

func (c *constEnv) lookupConst(name string) (Value, bool) {
	for e := c; e != nil; e = e.parent {
		if v, ok := e.consts[name]; ok {
			return v, true
		}
		if _, ok := e.mutSets[name]; ok {
			return nil, false
		}
		if e.separated {
			return nil, false
		}
	}
	return nil, false
}

func (c *constEnv) lookupMutSet(name string) ([]string, bool) {
	for e := c; e != nil; e = e.parent {
		if m, ok := e.mutSets[name]; ok {
			return m, true
		}
		if _, ok := e.consts[name]; ok {
			return nil, false
		}
		if e.separated {
			return nil, false
		}
	}
	return nil, false
}

// removeAll clears name from every frame along the chain from c outward —
// "remove that name from constantVariables along the chain" (spec.md §4.4).
func (c *constEnv) removeAll(name string) {
	for e := c; e != nil; e = e.parent {
		delete(e.consts, name)
		delete(e.mutSets, name)
	}
}

// resetAll clears every tracked name along the chain — the "enter" rule's
// full reset for an indirect callable.
func (c *constEnv) resetAll() {
	for e := c; e != nil; e = e.parent {
		e.consts = map[string]Value{}
		e.mutSets = map[string][]string{}
	}
}

func (c *constEnv) setConst(name string, v Value) {
	delete(c.mutSets, name)
	c.consts[name] = v
}

func (c *constEnv) setMutSet(name string, names []string) {
	delete(c.consts, name)
	c.mutSets[name] = names
}

// shadow blocks upward lookup for name without claiming it as a tracked
// constant or mutator — used for per-iteration loop variables, object
// `self`, and function parameters, which must never be propagated from an
// outer constant of the same name.
func (c *constEnv) shadow(name string) {
	delete(c.consts, name)
	c.mutSets[name] = nil
}

func markMutated(mut *map[string]struct{}, name string) {
	if mut != nil {
		(*mut)[name] = struct{}{}
	}
}

func opt(n Node, cs *constEnv, mut *map[string]struct{}) Node {
	switch v := n.(type) {
	case *ValueNode:
		return v
	case *Word:
		if val, ok := cs.lookupConst(v.Name); ok {
			fortiolog.Debugf("propagate constant %s", v.Name)
			return &ValueNode{Value: val, Pos: v.Pos}
		}
		return v
	case *Call:
		return optCall(v, cs, mut)
	default:
		return n
	}
}

func optCall(call *Call, cs *constEnv, mut *map[string]struct{}) Node {
	opWord, isWord := call.Operator.(*Word)
	if !isWord {
		fortiolog.Debugf("indirect callable, resetting constants")
		cs.resetAll()
		return call
	}
	switch keywordNames[opWord.Name] {
	case "if":
		return optIf(call, cs, mut)
	case "while":
		return optWhile(call, cs, mut)
	case "for":
		return optFor(call, cs, mut)
	case "foreach":
		return optForeach(call, cs, mut)
	case "run":
		return optRun(call, cs, mut)
	case "let":
		return optLet(call, cs, mut)
	case "assign":
		return optAssign(call, cs, mut)
	case "fn":
		return optInlineFn(call, cs, mut)
	case "object":
		return optObject(call, cs, mut)
	default:
		return optOrdinaryCall(call, cs, mut)
	}
}

func optOrdinaryCall(call *Call, cs *constEnv, mut *map[string]struct{}) Node {
	opWord := call.Operator.(*Word)
	newArgs := make([]Node, len(call.Args))
	for i, a := range call.Args {
		newArgs[i] = opt(a, cs, mut)
	}
	if foldableOps[opWord.Name] && len(newArgs) == 2 {
		if v1, ok1 := newArgs[0].(*ValueNode); ok1 {
			if v2, ok2 := newArgs[1].(*ValueNode); ok2 {
				if fn, ok := builtinFuncs[opWord.Name]; ok {
					if result, err := fn([]Value{v1.Value, v2.Value}, call.Pos); err == nil {
						fortiolog.Debugf("fold %s(%v, %v) -> %v", opWord.Name, v1.Value, v2.Value, result)
						return &ValueNode{Value: result, Pos: call.Pos}
					}
				}
			}
		}
	}
	if mutSet, ok := cs.lookupMutSet(opWord.Name); ok {
		for _, name := range mutSet {
			cs.removeAll(name)
			markMutated(mut, name)
		}
	}
	return &Call{Operator: call.Operator, Args: newArgs, Pos: call.Pos}
}

func optIf(call *Call, cs *constEnv, mut *map[string]struct{}) Node {
	args := call.Args
	if len(args) != 2 && len(args) != 3 {
		return call
	}
	newArgs := make([]Node, len(args))
	for i, a := range args {
		newArgs[i] = opt(a, cs, mut)
	}
	return &Call{Operator: call.Operator, Args: newArgs, Pos: call.Pos}
}

func optWhile(call *Call, cs *constEnv, mut *map[string]struct{}) Node {
	if len(call.Args) != 2 {
		return call
	}
	child := newSeparatedEnv(cs)
	childMut := map[string]struct{}{}
	newCond := opt(call.Args[0], child, &childMut)
	newBody := opt(call.Args[1], child, &childMut)
	bubble(childMut, mut)
	return &Call{Operator: call.Operator, Args: []Node{newCond, newBody}, Pos: call.Pos}
}

// optFor opens two nested separated scopes, per spec.md §4.4: one for the
// initializer/condition/update group, then another for the body. Before
// the condition or update is optimized, every name the update or body
// assigns is invalidated in the outer frame — otherwise the condition
// would fold against the loop variable's initial value alone, as if the
// loop ran exactly once.
func optFor(call *Call, cs *constEnv, mut *map[string]struct{}) Node {
	if len(call.Args) != 4 {
		return call
	}
	outer := newSeparatedEnv(cs)
	outerMut := map[string]struct{}{}
	newInit := opt(call.Args[0], outer, &outerMut)

	mutated := map[string]struct{}{}
	collectMutatedNames(call.Args[2], mutated)
	collectMutatedNames(call.Args[3], mutated)
	for name := range mutated {
		outer.removeAll(name)
	}

	newCond := opt(call.Args[1], outer, &outerMut)
	newUpdate := opt(call.Args[2], outer, &outerMut)

	inner := newSeparatedEnv(outer)
	innerMut := map[string]struct{}{}
	newBody := opt(call.Args[3], inner, &innerMut)

	bubble(innerMut, &outerMut)
	bubble(outerMut, mut)
	return &Call{Operator: call.Operator, Args: []Node{newInit, newCond, newUpdate, newBody}, Pos: call.Pos}
}

// collectMutatedNames walks n looking for assign/set/= calls whose first
// argument is a plain Word, recording that name — used by optFor to find
// every name the loop may rebind before its header is folded.
func collectMutatedNames(n Node, out map[string]struct{}) {
	call, ok := n.(*Call)
	if !ok {
		return
	}
	if opWord, ok := call.Operator.(*Word); ok && keywordNames[opWord.Name] == "assign" && len(call.Args) >= 1 {
		if w, ok := call.Args[0].(*Word); ok {
			out[w.Name] = struct{}{}
		}
	}
	if opCall, ok := call.Operator.(*Call); ok {
		collectMutatedNames(opCall, out)
	}
	for _, a := range call.Args {
		collectMutatedNames(a, out)
	}
}

func optForeach(call *Call, cs *constEnv, mut *map[string]struct{}) Node {
	if len(call.Args) != 3 {
		return call
	}
	nameNode, ok := call.Args[0].(*Word)
	if !ok {
		return call
	}
	newIterable := opt(call.Args[1], cs, mut)

	child := newSeparatedEnv(cs)
	child.shadow(nameNode.Name)
	childMut := map[string]struct{}{}
	newBody := opt(call.Args[2], child, &childMut)
	bubble(childMut, mut)

	return &Call{Operator: call.Operator, Args: []Node{nameNode, newIterable, newBody}, Pos: call.Pos}
}

func optRun(call *Call, cs *constEnv, mut *map[string]struct{}) Node {
	child := newConstEnv(cs)
	newArgs := make([]Node, len(call.Args))
	for i, a := range call.Args {
		newArgs[i] = opt(a, child, mut)
	}
	return &Call{Operator: call.Operator, Args: newArgs, Pos: call.Pos}
}

func optObject(call *Call, cs *constEnv, mut *map[string]struct{}) Node {
	if len(call.Args)%2 != 0 {
		return call
	}
	child := newConstEnv(cs)
	child.shadow("self")
	newArgs := make([]Node, len(call.Args))
	for i := range call.Args {
		newArgs[i] = opt(call.Args[i], child, mut)
	}
	return &Call{Operator: call.Operator, Args: newArgs, Pos: call.Pos}
}

func optLet(call *Call, cs *constEnv, mut *map[string]struct{}) Node {
	args := call.Args
	if len(args) != 2 {
		return call
	}
	nameNode, ok := args[0].(*Word)
	if !ok {
		return call
	}
	if rawCall, ok := args[1].(*Call); ok && isFnLiteral(rawCall.Operator) {
		newFnCall, mutNames := optFnLiteral(rawCall, cs)
		cs.setMutSet(nameNode.Name, mutNames)
		return &Call{Operator: call.Operator, Args: []Node{nameNode, newFnCall}, Pos: call.Pos}
	}
	newVal := opt(args[1], cs, mut)
	if vn, ok := newVal.(*ValueNode); ok {
		cs.setConst(nameNode.Name, vn.Value)
	} else {
		cs.removeAll(nameNode.Name)
	}
	return &Call{Operator: call.Operator, Args: []Node{nameNode, newVal}, Pos: call.Pos}
}

func optAssign(call *Call, cs *constEnv, mut *map[string]struct{}) Node {
	args := call.Args
	if len(args) < 2 {
		return call
	}
	target := args[0]
	rest := args[1:]

	word, isWord := target.(*Word)
	if !isWord {
		newTarget := opt(target, cs, mut)
		newRest := make([]Node, len(rest))
		for i, a := range rest {
			newRest[i] = opt(a, cs, mut)
		}
		return &Call{Operator: call.Operator, Args: append([]Node{newTarget}, newRest...), Pos: call.Pos}
	}

	// Step 1: register the variable change (not propagated as the first
	// argument of an assign, per §4.4 step 4's exception).
	cs.removeAll(word.Name)
	markMutated(mut, word.Name)

	if len(rest) == 1 {
		if rawCall, ok := rest[0].(*Call); ok && isFnLiteral(rawCall.Operator) {
			newFnCall, mutNames := optFnLiteral(rawCall, cs)
			if existing, ok := cs.lookupMutSet(word.Name); ok {
				mutNames = unionNames(existing, mutNames)
			}
			cs.setMutSet(word.Name, mutNames)
			return &Call{Operator: call.Operator, Args: []Node{word, newFnCall}, Pos: call.Pos}
		}
	}

	newRest := make([]Node, len(rest))
	for i, a := range rest {
		newRest[i] = opt(a, cs, mut)
	}
	return &Call{Operator: call.Operator, Args: append([]Node{word}, newRest...), Pos: call.Pos}
}

// optFnLiteral optimizes a fn/function/-> literal's body in its own
// separated scope, returning the rewritten call and the set of outer names
// it mutates (spec.md §4.4's "functions" stack, one entry per separated
// scope).
func optFnLiteral(call *Call, cs *constEnv) (*Call, []string) {
	args := call.Args
	if len(args) < 1 {
		return call, nil
	}
	child := newSeparatedEnv(cs)
	params := args[:len(args)-1]
	for _, p := range params {
		if w, ok := p.(*Word); ok {
			child.shadow(w.Name)
		}
	}
	childMut := map[string]struct{}{}
	newBody := opt(args[len(args)-1], child, &childMut)

	newArgs := make([]Node, len(args))
	copy(newArgs, params)
	newArgs[len(args)-1] = newBody

	return &Call{Operator: call.Operator, Args: newArgs, Pos: call.Pos}, sortedKeys(childMut)
}

// optInlineFn optimizes a fn literal that is not directly bound by
// let/assign to a name (e.g. passed inline as a callback argument). It does
// not get its own tracked mutation set — mutation tracking only matters for
// named, later-invoked callables — but its parameters still shadow outer
// constants of the same name, and any direct assign inside its body still
// invalidates per the generic rule.
func optInlineFn(call *Call, cs *constEnv, mut *map[string]struct{}) Node {
	args := call.Args
	if len(args) < 1 {
		return call
	}
	child := newSeparatedEnv(cs)
	params := args[:len(args)-1]
	for _, p := range params {
		if w, ok := p.(*Word); ok {
			child.shadow(w.Name)
		}
	}
	newBody := opt(args[len(args)-1], child, mut)
	newArgs := make([]Node, len(args))
	copy(newArgs, params)
	newArgs[len(args)-1] = newBody
	return &Call{Operator: call.Operator, Args: newArgs, Pos: call.Pos}
}

func bubble(inner map[string]struct{}, outer *map[string]struct{}) {
	for name := range inner {
		markMutated(outer, name)
	}
}

func unionNames(a, b []string) []string {
	seen := map[string]struct{}{}
	var out []string
	for _, n := range a {
		if _, ok := seen[n]; !ok {
			seen[n] = struct{}{}
			out = append(out, n)
		}
	}
	for _, n := range b {
		if _, ok := seen[n]; !ok {
			seen[n] = struct{}{}
			out = append(out, n)
		}
	}
	return out
}

func sortedKeys(m map[string]struct{}) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
