package core

import (
	"errors"
	"fmt"
)

type ErrorKind int

const (
	LexError ErrorKind = iota
	ParseError
	MismatchedParentheses
	InvalidExpression
	UndefinedReference
	DivisionByZero
	RuntimeError
)

func (k ErrorKind) String() string {
	switch k {
	case LexError:
		return "Lex error"
	case ParseError:
		return "Parse error"
	case MismatchedParentheses:
		return "Mismatched parentheses"
	case InvalidExpression:
		return "Invalid expression"
	case UndefinedReference:
		return "Undefined reference"
	case DivisionByZero:
		return "Division by zero"
	default:
		return "Runtime error"
	}
}

// Error is the single error type surfaced by the interpreter. Kind tells
// the host which stage failed.
type Error struct {
	Kind   ErrorKind
	Reason string
	Pos    position
}

func (e *Error) Error() string {
	if e.Pos.line == 0 {
		return fmt.Sprintf("%s: %s", e.Kind, e.Reason)
	}
	return fmt.Sprintf("%s at %s: %s", e.Kind, e.Pos, e.Reason)
}

// KindOf reports the kind of an interpreter error anywhere in err's chain.
func KindOf(err error) (ErrorKind, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind, true
	}
	return RuntimeError, false
}

func errorAt(kind ErrorKind, tok token, format string, args ...any) *Error {
	return &Error{
		Kind:   kind,
		Reason: fmt.Sprintf(format, args...),
		Pos:    tok.Pos,
	}
}

// NativeFunc is a host callback used as a function body. It reads its
// arguments from the frame and leaves its result in Frame.Result.
type NativeFunc func(f *Frame) error

// Frame is the set of bindings live during one function invocation.
type Frame struct {
	fn       *Function
	params   []*Value
	bindings []binding
	result   *Value

	// number of arguments supplied by the call site
	argc int
}

func newFrame(fn *Function, size int) *Frame {
	params := make([]*Value, size)
	for i := range params {
		params[i] = NewInt(0)
	}
	return &Frame{
		fn:     fn,
		params: params,
		result: NewInt(0),
	}
}

// Name is the name of the function being invoked.
func (f *Frame) Name() string {
	return f.fn.Name
}

// Len is the number of arguments supplied by the call site.
func (f *Frame) Len() int {
	return f.argc
}

// Arg returns the i-th parameter cell. Writes to a by-reference parameter
// reach the caller when the invocation ends.
func (f *Frame) Arg(i int) *Value {
	return f.params[i]
}

func (f *Frame) Args() []*Value {
	return f.params[:f.argc]
}

func (f *Frame) Result() *Value {
	return f.result
}

func (f *Frame) SetResult(v *Value) {
	f.result.Set(v)
}

func (f *Frame) RequireArgLen(count int) error {
	if f.argc < count {
		return &Error{
			Kind:   RuntimeError,
			Reason: fmt.Sprintf("%s requires %d arguments, got %d", f.fn.Name, count, f.argc),
		}
	}

	return nil
}

// Errorf builds a runtime error attributed to the invoked function.
func (f *Frame) Errorf(format string, args ...any) error {
	return &Error{
		Kind:   RuntimeError,
		Reason: f.fn.Name + ": " + fmt.Sprintf(format, args...),
	}
}
