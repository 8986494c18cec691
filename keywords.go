package please

// keywordNames maps every keyword spelling to its canonical name. Keywords
// are checked before scope lookup whenever a Call's operator is a Word, and
// are therefore shadowable by neither let nor assign (spec.md §4.3).
var keywordNames = map[string]string{
	"if":       "if",
	"while":    "while",
	"for":      "for",
	"foreach":  "foreach",
	"run":      "run",
	"do":       "run",
	"let":      "let",
	"def":      "let",
	":=":       "let",
	"fn":       "fn",
	"function": "fn",
	"->":       "fn",
	"assign":   "assign",
	"set":      "assign",
	"=":        "assign",
	"object":   "object",
}

func isFnLiteral(n Node) bool {
	w, ok := n.(*Word)
	return ok && keywordNames[w.Name] == "fn"
}

// KeywordFunc is a special form: it receives the Call's unevaluated
// argument nodes and the scope it was invoked in.
type KeywordFunc func(call *Call, scope *Scope) (Value, error)

var keywords map[string]KeywordFunc

func init() {
	keywords = map[string]KeywordFunc{
		"if":      kwIf,
		"while":   kwWhile,
		"for":     kwFor,
		"foreach": kwForeach,
		"run":     kwRun,
		"let":     kwLet,
		"fn":      kwFn,
		"assign":  kwAssign,
		"object":  kwObject,
	}
}

func kwIf(call *Call, scope *Scope) (Value, error) {
	args := call.Args
	if len(args) != 2 && len(args) != 3 {
		return nil, NewSyntaxError(call.Pos, "if expects 2 or 3 arguments, got %d", len(args))
	}
	cond, err := Evaluate(args[0], scope)
	if err != nil {
		return nil, err
	}
	if !isFalse(cond) {
		return Evaluate(args[1], scope)
	}
	if len(args) == 3 {
		return Evaluate(args[2], scope)
	}
	return Undef, nil
}

func kwWhile(call *Call, scope *Scope) (Value, error) {
	args := call.Args
	if len(args) != 2 {
		return nil, NewSyntaxError(call.Pos, "while expects 2 arguments, got %d", len(args))
	}
	child := NewScope(scope)
	for {
		cond, err := Evaluate(args[0], child)
		if err != nil {
			return nil, err
		}
		if isFalse(cond) {
			return Undef, nil
		}
		if _, err := Evaluate(args[1], child); err != nil {
			return nil, err
		}
	}
}

func kwFor(call *Call, scope *Scope) (Value, error) {
	args := call.Args
	if len(args) != 4 {
		return nil, NewSyntaxError(call.Pos, "for expects 4 arguments, got %d", len(args))
	}
	child := NewScope(scope)
	if _, err := Evaluate(args[0], child); err != nil {
		return nil, err
	}
	for {
		cond, err := Evaluate(args[1], child)
		if err != nil {
			return nil, err
		}
		if isFalse(cond) {
			return Undef, nil
		}
		if _, err := Evaluate(args[3], child); err != nil {
			return nil, err
		}
		if _, err := Evaluate(args[2], child); err != nil {
			return nil, err
		}
	}
}

func kwForeach(call *Call, scope *Scope) (Value, error) {
	args := call.Args
	if len(args) != 3 {
		return nil, NewSyntaxError(call.Pos, "foreach expects 3 arguments, got %d", len(args))
	}
	nameNode, ok := args[0].(*Word)
	if !ok {
		return nil, NewSyntaxError(args[0].Position(), "foreach's first argument must be a name")
	}
	iterVal, err := Evaluate(args[1], scope)
	if err != nil {
		return nil, err
	}
	elems, err := iterate(iterVal, args[1].Position())
	if err != nil {
		return nil, err
	}
	for _, elem := range elems {
		child := NewScope(scope)
		child.Define(nameNode.Name, elem)
		if _, err := Evaluate(args[2], child); err != nil {
			return nil, err
		}
	}
	return Undef, nil
}

func iterate(v Value, pos Position) ([]Value, error) {
	if s, ok := v.(string); ok {
		runes := []rune(s)
		out := make([]Value, len(runes))
		for i, r := range runes {
			out[i] = string(r)
		}
		return out, nil
	}
	it, ok := v.(Iterable)
	if !ok {
		return nil, NewTypeError(pos, "wrong type: %v is not iterable", Inspect(v))
	}
	return it.Iterate(), nil
}

func kwRun(call *Call, scope *Scope) (Value, error) {
	child := NewScope(scope)
	var last Value = Undef
	for _, a := range call.Args {
		v, err := Evaluate(a, child)
		if err != nil {
			return nil, err
		}
		last = v
	}
	return last, nil
}

func kwLet(call *Call, scope *Scope) (Value, error) {
	args := call.Args
	if len(args) != 2 {
		return nil, NewSyntaxError(call.Pos, "let expects 2 arguments, got %d", len(args))
	}
	nameNode, ok := args[0].(*Word)
	if !ok {
		return nil, NewSyntaxError(args[0].Position(), "let's first argument must be a name")
	}
	val, err := Evaluate(args[1], scope)
	if err != nil {
		return nil, err
	}
	scope.Define(nameNode.Name, val)
	return val, nil
}

func kwFn(call *Call, scope *Scope) (Value, error) {
	args := call.Args
	if len(args) < 1 {
		return nil, NewSyntaxError(call.Pos, "fn expects at least a body, got 0 arguments")
	}
	params := make([]string, len(args)-1)
	for i, p := range args[:len(args)-1] {
		w, ok := p.(*Word)
		if !ok {
			return nil, NewSyntaxError(p.Position(), "fn's parameters must be names")
		}
		params[i] = w.Name
	}
	return &Function{Params: params, Body: args[len(args)-1], Closure: scope}, nil
}

// kwAssign resolves Open Question (a): args[0] is either a plain Word (a
// variable rebind, with any middle arguments evaluated as indices into its
// current value) or a Call (the transient "MethodCall" shape — e.g.
// element(container, key)) whose own arguments resolve the container and
// index/key to write through IndexedAssigner.
func kwAssign(call *Call, scope *Scope) (Value, error) {
	args := call.Args
	if len(args) < 2 {
		return nil, NewSyntaxError(call.Pos, "assign expects at least 2 arguments, got %d", len(args))
	}
	target := args[0]
	valueNode := args[len(args)-1]
	indexNodes := args[1 : len(args)-1]

	switch t := target.(type) {
	case *Word:
		if len(indexNodes) == 0 {
			val, err := Evaluate(valueNode, scope)
			if err != nil {
				return nil, err
			}
			if !scope.Assign(t.Name, val) {
				return nil, NewReferenceError(t.Pos, t.Name)
			}
			return val, nil
		}
		container, ok := scope.Lookup(t.Name)
		if !ok {
			return nil, NewReferenceError(t.Pos, t.Name)
		}
		return assignIndexed(container, indexNodes, valueNode, scope, call.Pos)
	case *Call:
		// The MethodCall shape: target is element(container, key, ...) —
		// the container is the Call's first argument, the rest are the
		// indices/keys, per Design Note (a)'s container['='](value, indices...).
		if len(indexNodes) != 0 {
			return nil, NewSyntaxError(call.Pos, "assign's indexed Call target takes its indices inline")
		}
		if len(t.Args) < 1 {
			return nil, NewSyntaxError(t.Pos, "assign's indexed reference target must name a container and at least one index")
		}
		container, err := Evaluate(t.Args[0], scope)
		if err != nil {
			return nil, err
		}
		return assignIndexed(container, t.Args[1:], valueNode, scope, call.Pos)
	default:
		return nil, NewSyntaxError(target.Position(), "assign's first argument must be a name or an indexed reference")
	}
}

func assignIndexed(container Value, indexNodes []Node, valueNode Node, scope *Scope, pos Position) (Value, error) {
	assigner, ok := container.(IndexedAssigner)
	if !ok {
		return nil, NewTypeError(pos, "wrong type: %v does not support indexed assignment", Inspect(container))
	}
	indices := make([]Value, len(indexNodes))
	for i, n := range indexNodes {
		v, err := Evaluate(n, scope)
		if err != nil {
			return nil, err
		}
		indices[i] = v
	}
	val, err := Evaluate(valueNode, scope)
	if err != nil {
		return nil, err
	}
	if err := assigner.IndexedAssign(val, indices...); err != nil {
		return nil, NewTypeError(pos, "%s", err.Error())
	}
	return val, nil
}

// kwObject builds an object frame whose parent is the current scope, binds
// self to the object itself, then evaluates each key/value pair in the
// object's own context and defines it as a property.
func kwObject(call *Call, scope *Scope) (Value, error) {
	args := call.Args
	if len(args)%2 != 0 {
		return nil, NewSyntaxError(call.Pos, "object expects an even number of arguments, got %d", len(args))
	}
	obj := NewObject(scope)
	for i := 0; i < len(args); i += 2 {
		keyVal, err := Evaluate(args[i], obj.Frame)
		if err != nil {
			return nil, err
		}
		key, ok := keyVal.(string)
		if !ok {
			return nil, NewTypeError(args[i].Position(), "wrong type: object property key must be a string")
		}
		val, err := Evaluate(args[i+1], obj.Frame)
		if err != nil {
			return nil, err
		}
		obj.Frame.Define(key, val)
	}
	return obj, nil
}
