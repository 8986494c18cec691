package driver

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	please "github.com/ULL-ESIT-PL-2021/tfa-please"
)

// doc is the .cpls wire shape: a tree of tagged objects with a
// discriminator field and the natural payload fields spec.md §6 names
// (value, name, operator, args). YAML rather than hand-rolled JSON, reusing
// the same dependency davidkellis-able's driver package already wires in
// for please.yaml, and satisfying §6's "human-readable structured
// serialization" requirement without a second format in the tree.
type doc struct {
	Type     string      `yaml:"type"`
	Value    interface{} `yaml:"value,omitempty"`
	Name     string      `yaml:"name,omitempty"`
	Operator *doc        `yaml:"operator,omitempty"`
	Args     []*doc      `yaml:"args,omitempty"`
}

func toDoc(node please.Node) *doc {
	switch n := node.(type) {
	case *please.ValueNode:
		return &doc{Type: "Value", Value: n.Value}
	case *please.Word:
		return &doc{Type: "Word", Name: n.Name}
	case *please.Call:
		args := make([]*doc, len(n.Args))
		for i, a := range n.Args {
			args[i] = toDoc(a)
		}
		return &doc{Type: "Call", Operator: toDoc(n.Operator), Args: args}
	default:
		return nil
	}
}

func fromDoc(d *doc) (please.Node, error) {
	if d == nil {
		return nil, fmt.Errorf("cpls: empty node")
	}
	switch d.Type {
	case "Value":
		v, err := valueFromYAML(d.Value)
		if err != nil {
			return nil, err
		}
		return &please.ValueNode{Value: v}, nil
	case "Word":
		return &please.Word{Name: d.Name}, nil
	case "Call":
		op, err := fromDoc(d.Operator)
		if err != nil {
			return nil, err
		}
		args := make([]please.Node, len(d.Args))
		for i, a := range d.Args {
			n, err := fromDoc(a)
			if err != nil {
				return nil, err
			}
			args[i] = n
		}
		return &please.Call{Operator: op, Args: args}, nil
	default:
		return nil, fmt.Errorf("cpls: unrecognized node type %q", d.Type)
	}
}

// valueFromYAML narrows the interface{} a YAML decoder hands back to the
// literal Value kinds a freshly-parsed AST can ever carry.
func valueFromYAML(v interface{}) (please.Value, error) {
	switch x := v.(type) {
	case string:
		return x, nil
	case float64:
		return x, nil
	case int:
		return float64(x), nil
	case bool:
		return x, nil
	case nil:
		return please.Undef, nil
	default:
		return nil, fmt.Errorf("cpls: unsupported literal value %v (%T)", v, v)
	}
}

// WriteCompiled serializes node as a .cpls YAML document at path.
func WriteCompiled(node please.Node, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	enc := yaml.NewEncoder(f)
	defer enc.Close()
	return enc.Encode(toDoc(node))
}

// ReadCompiled deserializes a .cpls YAML document at path back into an AST.
func ReadCompiled(path string) (please.Node, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	var d doc
	if err := dec.Decode(&d); err != nil {
		return nil, err
	}
	return fromDoc(&d)
}
