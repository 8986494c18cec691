package please

import (
	"reflect"
	"testing"
)

func optimizeSource(t *testing.T, src string) Node {
	t.Helper()
	node := mustParse(t, src)
	return Optimize(node)
}

func TestOptimizeConstantFold(t *testing.T) {
	node := optimizeSource(t, `println(+(1, 2))`)
	call, ok := node.(*Call)
	if !ok {
		t.Fatalf("got %T, want *Call", node)
	}
	if len(call.Args) != 1 {
		t.Fatalf("got %d args, want 1", len(call.Args))
	}
	v, ok := call.Args[0].(*ValueNode)
	if !ok || v.Value.(float64) != 3 {
		t.Fatalf("got %#v, want Value 3", call.Args[0])
	}
}

func TestOptimizeFullyLiteralArithmeticReducesToSingleValue(t *testing.T) {
	node := optimizeSource(t, `+(1, *(2, 3))`)
	v, ok := node.(*ValueNode)
	if !ok {
		t.Fatalf("got %T, want *ValueNode", node)
	}
	if v.Value.(float64) != 7 {
		t.Fatalf("got %v, want 7", v.Value)
	}
}

func TestOptimizePreservesSemantics(t *testing.T) {
	sources := []string{
		`do( println(1, 2, 3) )`,
		`do( let(x, 1), let(f, ->(assign(x, 2))), f(), x )`,
		`do( let(x, 1), let(mut, ->(assign(x, 2))), mut(), x )`,
		`do( let(acc, 0), for(let(i, 0), <(i, 5), assign(i, +(i, 1)), assign(acc, +(acc, i))), acc )`,
		`if(==(1, 1), "yes", "no")`,
		// A function that only reads an outer variable, called after that
		// variable is reassigned: f must see the mutation, not the value
		// constant-propagated at the point f was defined.
		`do( let(x, 1), let(f, ->(x)), assign(x, 2), f() )`,
		// A while loop whose condition reads a variable the body mutates —
		// the condition must not be folded against the variable's value at
		// loop entry, or the loop would never terminate.
		`do( let(x, 0), while(<(x, 5), assign(x, +(x, 1))), x )`,
	}
	for _, src := range sources {
		t.Run(src, func(t *testing.T) {
			node := mustParse(t, src)
			before, err := Evaluate(node, NewTopScope())
			if err != nil {
				t.Fatalf("unoptimized eval: %v", err)
			}
			optimized := Optimize(mustParse(t, src))
			after, err := Evaluate(optimized, NewTopScope())
			if err != nil {
				t.Fatalf("optimized eval: %v", err)
			}
			// Compared structurally: each run builds its own composites
			// (println's result Array), and valuesEqual compares those by
			// identity.
			if !reflect.DeepEqual(before, after) {
				t.Fatalf("optimize changed observable result: before=%v after=%v", Inspect(before), Inspect(after))
			}
		})
	}
}

// TestOptimizePropagationInvalidation is spec.md §8 scenario 8: a function
// that mutates an outer variable must block constant propagation of that
// variable's prior value into code that runs after the call.
func TestOptimizePropagationInvalidation(t *testing.T) {
	src := `do( let(x, 1), let(mut, ->(assign(x, 2))), mut(), println(x) )`
	node := optimizeSource(t, src)
	call, ok := node.(*Call)
	if !ok {
		t.Fatalf("got %T, want *Call", node)
	}
	last := call.Args[len(call.Args)-1]
	println_, ok := last.(*Call)
	if !ok {
		t.Fatalf("got %T, want the trailing println call", last)
	}
	if _, ok := println_.Args[0].(*ValueNode); ok {
		t.Fatalf("constant 1 must not have been propagated into println(x) after mut() runs")
	}
	if w, ok := println_.Args[0].(*Word); !ok || w.Name != "x" {
		t.Fatalf("got %#v, want an unresolved Word x", println_.Args[0])
	}
}

func TestOptimizePropagatesSimpleConstant(t *testing.T) {
	node := optimizeSource(t, `do( let(x, 1), println(x) )`)
	call := node.(*Call)
	last := call.Args[len(call.Args)-1].(*Call)
	v, ok := last.Args[0].(*ValueNode)
	if !ok || v.Value.(float64) != 1 {
		t.Fatalf("got %#v, want x propagated to Value 1", last.Args[0])
	}
}

func TestOptimizeDoesNotPropagateIntoAssignTarget(t *testing.T) {
	// The first argument of an assign is never replaced by its prior
	// constant value (spec.md §4.4 step 4's stated exception) — it names
	// the binding being rewritten, not a value read.
	node := optimizeSource(t, `do( let(x, 1), assign(x, 2) )`)
	call := node.(*Call)
	assignCall := call.Args[1].(*Call)
	if _, ok := assignCall.Args[0].(*Word); !ok {
		t.Fatalf("got %#v, want assign's target to remain a Word", assignCall.Args[0])
	}
}

// TestOptimizeForConditionNotFoldedAcrossIterations guards against folding
// a for loop's header using the loop variable's initial value: the
// condition reads a name the update/body mutate every iteration, so it
// must stay an unresolved Call, never a literal `true` ValueNode.
func TestOptimizeForConditionNotFoldedAcrossIterations(t *testing.T) {
	src := `do( let(acc, 0), for(let(i, 0), <(i, 5), assign(i, +(i, 1)), assign(acc, +(acc, i))), acc )`
	node := optimizeSource(t, src)
	call := node.(*Call)
	forCall, ok := call.Args[1].(*Call)
	if !ok {
		t.Fatalf("got %T, want the for Call", call.Args[1])
	}
	cond := forCall.Args[1]
	if _, ok := cond.(*ValueNode); ok {
		t.Fatalf("for's condition must not fold to a literal across iterations, got %#v", cond)
	}
	condCall, ok := cond.(*Call)
	if !ok || len(condCall.Args) != 2 {
		t.Fatalf("got %#v, want the unfolded <(i, 5) call", cond)
	}
	if _, ok := condCall.Args[0].(*Word); !ok {
		t.Fatalf("got %#v, want i to remain an unresolved Word in the condition", condCall.Args[0])
	}
}

// TestOptimizeClosureSeesMutationAfterDefinition is spec.md §4.4's
// separated-scope rule applied to a read-only closure: a fn literal's body
// must not have the enclosing scope's constant propagated into it, because
// the closure may run after that variable changes.
func TestOptimizeClosureSeesMutationAfterDefinition(t *testing.T) {
	src := `run( let(x, 1), let(f, ->(x)), assign(x, 2), println(f()) )`
	node := optimizeSource(t, src)
	call := node.(*Call)
	letF, ok := call.Args[1].(*Call)
	if !ok {
		t.Fatalf("got %T, want the let(f, ...) Call", call.Args[1])
	}
	fnLiteral, ok := letF.Args[1].(*Call)
	if !ok {
		t.Fatalf("got %T, want the ->(x) Call", letF.Args[1])
	}
	body := fnLiteral.Args[len(fnLiteral.Args)-1]
	if _, ok := body.(*ValueNode); ok {
		t.Fatalf("closure body must not fold the outer x at definition time, got %#v", body)
	}
	if w, ok := body.(*Word); !ok || w.Name != "x" {
		t.Fatalf("got %#v, want an unresolved Word x", body)
	}
}

// TestOptimizeWhileConditionNotFoldedFromOuterConstant guards the other
// loop-folding hazard: a while condition reading a variable that is
// constant in the *enclosing* scope at loop entry, but mutated in the
// loop's own body, must not be folded to a literal — that would make the
// loop run forever (or zero times) regardless of the body's effect.
func TestOptimizeWhileConditionNotFoldedFromOuterConstant(t *testing.T) {
	src := `run( let(x, 1), while(>(x, 0), assign(x, 0)) )`
	node := optimizeSource(t, src)
	call := node.(*Call)
	whileCall, ok := call.Args[1].(*Call)
	if !ok {
		t.Fatalf("got %T, want the while Call", call.Args[1])
	}
	cond := whileCall.Args[0]
	if _, ok := cond.(*ValueNode); ok {
		t.Fatalf("while's condition must not fold the outer constant, got %#v", cond)
	}
}

func TestOptimizeResetsOnIndirectCallable(t *testing.T) {
	// A call through anything other than a direct Word or a directly-bound
	// fn literal — here, a function value tucked inside an array and
	// invoked via element(...)() — is outside what the optimizer tracks,
	// so x's apparent constant value must never reach the final println.
	src := `do( let(x, 1), let(fs, arr(->(assign(x, 2)))), element(fs, 0)(), println(x) )`
	node := optimizeSource(t, src)
	call := node.(*Call)
	last := call.Args[len(call.Args)-1].(*Call)
	if _, ok := last.Args[0].(*ValueNode); ok {
		t.Fatalf("constant x must have been invalidated by the indirect call")
	}
}
