package please

import "fmt"

// Generate lowers an AST to an equivalent target-language expression
// string — the optional collaborator spec.md §1/§6 specifies at the
// interface level only. Grounded on the teacher's doc.go description of
// TranScript's own surface syntax (expression-oriented, call-based), here
// turned around to re-emit the same Please call syntax it parses, since
// spec.md names no other target language; declaration hoisting is the one
// piece of real design the interface implies (a `let` nested inside an
// expression position has no nested-statement form to target, so it must
// surface above the expression using it).
func Generate(node Node) string {
	var decls []string
	expr := generate(node, &decls)
	if len(decls) == 0 {
		return expr
	}
	out := ""
	for _, d := range decls {
		out += d + "\n"
	}
	return out + expr
}

func generate(node Node, decls *[]string) string {
	switch n := node.(type) {
	case *ValueNode:
		return genLiteral(n.Value)
	case *Word:
		return n.Name
	case *Call:
		return generateCall(n, decls)
	default:
		return ""
	}
}

func generateCall(call *Call, decls *[]string) string {
	if w, ok := call.Operator.(*Word); ok && keywordNames[w.Name] == "let" && len(call.Args) == 2 {
		if nameNode, ok := call.Args[0].(*Word); ok {
			hoisted := fmt.Sprintf("let(%s, %s)", nameNode.Name, generate(call.Args[1], decls))
			*decls = append(*decls, hoisted)
			return nameNode.Name
		}
	}
	opStr := generate(call.Operator, decls)
	args := make([]string, len(call.Args))
	for i, a := range call.Args {
		args[i] = generate(a, decls)
	}
	out := opStr + "("
	for i, a := range args {
		if i > 0 {
			out += ", "
		}
		out += a
	}
	return out + ")"
}

func genLiteral(v Value) string {
	switch x := v.(type) {
	case string:
		return fmt.Sprintf("%q", x)
	default:
		return Inspect(x)
	}
}
