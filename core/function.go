package core

import (
	"fmt"
	"strings"
)

type Param struct {
	Name  string
	ByRef bool
}

func (p Param) String() string {
	if p.ByRef {
		return "&" + p.Name
	}
	return p.Name
}

// Function is a declared function. Its parameter list and body are shared
// by every call; per-call state lives in a Frame.
type Function struct {
	Name   string
	params []Param
	body   []executable
	native NativeFunc

	// result of the most recent completed call
	last *Value
}

func newFunction(name string, params []Param) *Function {
	return &Function{
		Name:   name,
		params: params,
		last:   NewInt(0),
	}
}

func (fn *Function) Params() []Param {
	return fn.params
}

func (fn *Function) paramIndex(name string) (int, bool) {
	for i, p := range fn.params {
		if p.Name == name {
			return i, true
		}
	}
	return 0, false
}

func (fn *Function) String() string {
	params := make([]string, len(fn.params))
	for i, p := range fn.params {
		params[i] = p.String()
	}
	head := "DEF " + fn.Name
	if len(params) > 0 {
		head += " " + strings.Join(params, " ")
	}
	if fn.native != nil {
		return head + " <native>"
	}
	return head + " " + renderBlock(fn.body)
}

type bindMode int

const (
	byValue bindMode = iota
	byReference
)

// binding ties a parameter slot to its call-site source for one call.
type binding struct {
	mode   bindMode
	source *Value
}

// invoke runs fn in a new frame. Arguments are bound positionally; extra
// arguments declare argN value parameters. By-reference parameters are
// copied back to their sources after the body ends, returned early or not.
func (fn *Function) invoke(s *Script, sources []*Value, tok token) (*Value, error) {
	for len(fn.params) < len(sources) {
		fn.params = append(fn.params, Param{Name: fmt.Sprintf("arg%d", len(fn.params))})
	}

	frame := newFrame(fn, len(fn.params))
	frame.argc = len(sources)
	frame.bindings = make([]binding, len(sources))
	for i, src := range sources {
		mode := byValue
		if fn.params[i].ByRef {
			mode = byReference
		}
		frame.bindings[i] = binding{mode: mode, source: src}
		frame.params[i].Set(src)
	}

	if err := s.pushFrame(frame); err != nil {
		if e, ok := err.(*Error); ok {
			e.Pos = tok.Pos
		}
		return nil, err
	}
	err := fn.run(s, frame)
	s.popFrame()
	if err != nil {
		return nil, err
	}

	for i, b := range frame.bindings {
		if b.mode == byReference {
			b.source.Set(frame.params[i])
		}
	}

	fn.last.Set(frame.result)
	return frame.result, nil
}

func (fn *Function) run(s *Script, frame *Frame) error {
	if fn.native != nil {
		return fn.native(frame)
	}

	for _, stmt := range fn.body {
		sig, err := stmt.execute(s)
		if err != nil {
			return err
		}
		if sig.kind != signalNone {
			return nil
		}
	}
	return nil
}

// argument is a call-site argument. Single identifiers and literals are
// kept as bare terms; anything longer is a full expression.
type argument struct {
	expr *Expression
	term *term
}

func (a argument) String() string {
	if a.expr != nil {
		return a.expr.String()
	}
	return a.term.String()
}

// source evaluates the argument in the caller's frame. For a bare
// variable it is the variable's own cell, so reference parameters can
// write back to it.
func (a argument) source(s *Script) (*Value, error) {
	if a.expr != nil {
		return a.expr.execute(s)
	}
	if a.term.kind == slotTerm {
		return s.cell(a.term.slot), nil
	}
	return a.term.reset(s).val, nil
}

type call struct {
	fn   *Function
	args []argument
	tok  token
}

func (c *call) String() string {
	args := make([]string, len(c.args))
	for i, arg := range c.args {
		args[i] = arg.String()
	}
	return fmt.Sprintf("%s(%s)", c.fn.Name, strings.Join(args, ", "))
}

func (c *call) execute(s *Script) (*Value, error) {
	sources := make([]*Value, len(c.args))
	for i, arg := range c.args {
		src, err := arg.source(s)
		if err != nil {
			return nil, err
		}
		sources[i] = src
	}
	return c.fn.invoke(s, sources, c.tok)
}
