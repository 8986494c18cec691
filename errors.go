package please

import "fmt"

// Please reports five error types, each carrying a source Position, matching
// the teacher's plain-error-value style (errors.go) generalized with
// location: LexError and ParseError for the syntax front end, SyntaxError
// for keyword misuse, ReferenceError for unbound names, and TypeError for
// shape/arity mismatches at evaluation time. The lexer and parser raise
// theirs via panic, caught at the Parse boundary; the evaluator returns
// theirs normally. The optimizer reports no errors: a fold whose operator
// fails leaves the call unfolded.

// LexError reports a tokenization failure.
type LexError struct {
	Pos     Position
	Message string
}

func (e *LexError) Error() string { return e.Message }

// NewLexError builds a LexError with its position baked into the message.
func NewLexError(pos Position, format string, a ...interface{}) *LexError {
	msg := fmt.Sprintf(format, a...)
	return &LexError{Pos: pos, Message: fmt.Sprintf("%s at %s", msg, pos)}
}

// ParseError reports a grammar violation.
type ParseError struct {
	Pos     Position
	Message string
}

func (e *ParseError) Error() string { return e.Message }

func NewParseError(pos Position, format string, a ...interface{}) *ParseError {
	msg := fmt.Sprintf(format, a...)
	return &ParseError{Pos: pos, Message: fmt.Sprintf("%s at %s", msg, pos)}
}

// SyntaxError reports structural keyword misuse: wrong arity, or a
// non-Word where a Word is required (e.g. let's first argument).
type SyntaxError struct {
	Pos     Position
	Message string
}

func (e *SyntaxError) Error() string { return e.Message }

func NewSyntaxError(pos Position, format string, a ...interface{}) *SyntaxError {
	msg := fmt.Sprintf(format, a...)
	return &SyntaxError{Pos: pos, Message: fmt.Sprintf("%s at %s", msg, pos)}
}

// ReferenceError reports a lookup or assignment against an unbound name.
type ReferenceError struct {
	Pos     Position
	Name    string
	Message string
}

func (e *ReferenceError) Error() string { return e.Message }

func NewReferenceError(pos Position, name string) *ReferenceError {
	return &ReferenceError{
		Pos:     pos,
		Name:    name,
		Message: fmt.Sprintf("Undefined binding: %s at %s", name, pos),
	}
}

// TypeError reports a callable applied with the wrong arity, or an
// operation attempted on a value of the wrong shape.
type TypeError struct {
	Pos     Position
	Message string
}

func (e *TypeError) Error() string { return e.Message }

func NewTypeError(pos Position, format string, a ...interface{}) *TypeError {
	msg := fmt.Sprintf(format, a...)
	return &TypeError{Pos: pos, Message: fmt.Sprintf("%s at %s", msg, pos)}
}

// RuntimeError wraps a panic recovered at the driver boundary, the
// systems-language analogue of the teacher's top-level recover in Repl().
type RuntimeError struct {
	Message string
}

func (e *RuntimeError) Error() string { return e.Message }
