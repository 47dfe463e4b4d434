package core

import (
	"fmt"
	"strings"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// Script owns the interpreter state: global variables, declared functions,
// the top-level statements and the call stack. It is not safe for
// concurrent use.
type Script struct {
	globals     []*Value
	globalIndex map[string]int

	functions     []*Function
	functionIndex map[string]int

	body   []executable
	frames []*Frame
}

func NewScript() *Script {
	return &Script{
		globals:       []*Value{},
		globalIndex:   map[string]int{},
		functions:     []*Function{},
		functionIndex: map[string]int{},
		body:          []executable{},
		frames:        []*Frame{},
	}
}

// declare returns the index of a global, creating it as int 0 if needed.
func (s *Script) declare(name string) int {
	if index, ok := s.globalIndex[name]; ok {
		return index
	}
	s.globals = append(s.globals, NewInt(0))
	s.globalIndex[name] = len(s.globals) - 1
	return len(s.globals) - 1
}

func (s *Script) function(name string) (*Function, bool) {
	index, ok := s.functionIndex[name]
	if !ok {
		return nil, false
	}
	return s.functions[index], true
}

func (s *Script) declareFunction(name string, params []Param) *Function {
	fn := newFunction(name, params)
	s.functions = append(s.functions, fn)
	s.functionIndex[name] = len(s.functions) - 1
	return fn
}

// defineFunction handles DEF. Redeclaring a script function is an error;
// redeclaring a native one replaces its parameter list.
func (s *Script) defineFunction(tok token, params []Param) error {
	if fn, ok := s.function(tok.Payload); ok {
		if fn.native == nil {
			return errorAt(ParseError, tok, "function %s is already declared", tok.Payload)
		}
		fn.params = params
		return nil
	}
	s.declareFunction(tok.Payload, params)
	return nil
}

// declarations records the global and function tables so a failed parse
// can be undone.
type declarations struct {
	globals   int
	functions []Function
}

func (s *Script) snapshot() declarations {
	d := declarations{
		globals:   len(s.globals),
		functions: make([]Function, len(s.functions)),
	}
	for i, fn := range s.functions {
		d.functions[i] = *fn
	}
	return d
}

// restore drops globals and functions declared after d was taken and
// resets the parameters and bodies of the ones that existed.
func (s *Script) restore(d declarations) {
	for name, index := range s.globalIndex {
		if index >= d.globals {
			delete(s.globalIndex, name)
		}
	}
	s.globals = s.globals[:d.globals]

	for name, index := range s.functionIndex {
		if index >= len(d.functions) {
			delete(s.functionIndex, name)
		}
	}
	s.functions = s.functions[:len(d.functions)]
	for i := range d.functions {
		*s.functions[i] = d.functions[i]
	}
}

// parse builds the statements of source. On failure nothing it declared
// is kept.
func (s *Script) parse(source string) ([]executable, error) {
	tokenizer := NewTokenizer(source)
	tokens, err := tokenizer.Tokenize()
	if err != nil {
		return nil, err
	}

	d := s.snapshot()
	body, err := newParser(s, tokens).parseBlock()
	if err != nil {
		s.restore(d)
		return nil, err
	}
	return body, nil
}

// Load parses source and appends its statements to the program. Functions
// and globals it declares are visible to later loads.
func (s *Script) Load(source string) error {
	body, err := s.parse(source)
	if err != nil {
		return err
	}
	s.body = append(s.body, body...)
	return nil
}

// Run executes every loaded statement. A top-level RETURN ends the run.
func (s *Script) Run() error {
	return s.run(s.body)
}

func (s *Script) run(body []executable) error {
	_, err := runBlock(s, body)
	return err
}

// Exec parses and runs a fragment against the current state without
// adding it to the program.
func (s *Script) Exec(source string) error {
	body, err := s.parse(source)
	if err != nil {
		return err
	}
	return s.run(body)
}

// Eval evaluates a single expression and returns a copy of its value.
// Trailing semicolons are ignored.
func (s *Script) Eval(source string) (*Value, error) {
	tokenizer := NewTokenizer(source)
	tokens, err := tokenizer.Tokenize()
	if err != nil {
		return nil, err
	}
	for len(tokens) > 0 && tokens[len(tokens)-1].Kind == SEMICOLON {
		tokens = tokens[:len(tokens)-1]
	}
	if len(tokens) == 0 {
		return nil, &Error{Kind: ParseError, Reason: "empty expression"}
	}

	p := newParser(s, tokens)
	end, err := p.scanExpression(0)
	if err != nil {
		return nil, err
	}
	if end != len(tokens) {
		return nil, errorAt(ParseError, tokens[end], "unexpected token %s after expression", tokens[end])
	}
	d := s.snapshot()
	expr, err := p.buildExpression(tokens)
	if err != nil {
		s.restore(d)
		return nil, err
	}

	v, err := expr.execute(s)
	if err != nil {
		return nil, err
	}
	return v.Clone(), nil
}

// Get returns a copy of a global variable, or of a function's most recent
// result.
func (s *Script) Get(name string) (*Value, bool) {
	if index, ok := s.globalIndex[name]; ok {
		return s.globals[index].Clone(), true
	}
	if fn, ok := s.function(name); ok {
		return fn.last.Clone(), true
	}
	return nil, false
}

// Set assigns a global, declaring it if needed. Statements parsed later
// resolve the name to this global.
func (s *Script) Set(name string, v *Value) {
	s.globals[s.declare(name)].Set(v)
}

// Names lists the declared globals in sorted order.
func (s *Script) Names() []string {
	names := maps.Keys(s.globalIndex)
	slices.Sort(names)
	return names
}

// LoadFunc declares name with a Go body. A parameter written as "&x" is
// passed by reference. If name was already declared with DEF, the native
// becomes its body, keeping the declared parameters when none are given.
func (s *Script) LoadFunc(name string, fn NativeFunc, params ...string) {
	decl := make([]Param, len(params))
	for i, p := range params {
		decl[i] = Param{Name: strings.TrimPrefix(p, "&"), ByRef: strings.HasPrefix(p, "&")}
	}

	existing, ok := s.function(name)
	if !ok {
		existing = s.declareFunction(name, decl)
	} else if len(decl) > 0 {
		existing.params = decl
	}
	existing.native = fn
	existing.body = nil
}

// Call invokes a declared function from the host. Arguments bound to
// by-reference parameters are updated in place.
func (s *Script) Call(name string, args ...*Value) (*Value, error) {
	fn, ok := s.function(name)
	if !ok {
		return nil, &Error{Kind: UndefinedReference, Reason: fmt.Sprintf("%s is not a declared function", name)}
	}
	for i, arg := range args {
		if arg == nil {
			args[i] = NewInt(0)
		}
	}

	result, err := fn.invoke(s, args, token{})
	if err != nil {
		return nil, err
	}
	return result.Clone(), nil
}

// Tree renders the declared functions and the loaded program, one
// statement per line.
func (s *Script) Tree() string {
	builder := strings.Builder{}
	for _, fn := range s.functions {
		builder.WriteString(fn.String())
		builder.WriteByte('\n')
	}
	for _, stmt := range s.body {
		builder.WriteString(stmt.String())
		builder.WriteByte('\n')
	}
	return builder.String()
}
