package core

import (
	"strings"
)

type signalKind int

const (
	signalNone signalKind = iota
	signalBreak
	signalContinue
	signalReturn
)

// signal reports a pending BREAK, CONTINUE or RETURN to the enclosing
// containers. loop and fn name the node the statement was bound to at
// parse time; a nil fn on a return means the top-level script.
type signal struct {
	kind signalKind
	loop executable
	fn   *Function
}

type executable interface {
	execute(s *Script) (signal, error)
	String() string
}

// runBlock executes statements in order and stops at the first signal.
func runBlock(s *Script, body []executable) (signal, error) {
	for _, stmt := range body {
		sig, err := stmt.execute(s)
		if err != nil || sig.kind != signalNone {
			return sig, err
		}
	}
	return signal{}, nil
}

func renderBlock(body []executable) string {
	if len(body) == 0 {
		return "{}"
	}
	stmts := make([]string, len(body))
	for i, stmt := range body {
		stmts[i] = stmt.String()
	}
	return "{ " + strings.Join(stmts, " ") + " }"
}

type exprStatement struct {
	expr *Expression
}

func (n *exprStatement) execute(s *Script) (signal, error) {
	_, err := n.expr.execute(s)
	return signal{}, err
}

func (n *exprStatement) String() string {
	return n.expr.String() + ";"
}

// holds reports whether a condition passes. Only a boolean true does.
func holds(cond *Value) bool {
	return cond.Type() == BoolType && cond.Bool()
}

type ifStatement struct {
	cond *Expression
	body []executable
	tok  token
}

func (n *ifStatement) execute(s *Script) (signal, error) {
	cond, err := n.cond.execute(s)
	if err != nil {
		return signal{}, err
	}
	if !holds(cond) {
		return signal{}, nil
	}
	return runBlock(s, n.body)
}

func (n *ifStatement) String() string {
	return "IF " + n.cond.String() + " " + renderBlock(n.body)
}

type whileStatement struct {
	cond *Expression
	body []executable
	tok  token
}

func (n *whileStatement) execute(s *Script) (signal, error) {
	for {
		cond, err := n.cond.execute(s)
		if err != nil {
			return signal{}, err
		}
		if !holds(cond) {
			return signal{}, nil
		}

		sig, err := runBlock(s, n.body)
		if err != nil {
			return signal{}, err
		}
		if stop, pending := consumeLoopSignal(n, sig); stop {
			return pending, nil
		}
	}
}

func (n *whileStatement) String() string {
	return "WHILE " + n.cond.String() + " " + renderBlock(n.body)
}

type forStatement struct {
	vars  []slot
	array *Expression
	body  []executable
	tok   token
}

func (n *forStatement) execute(s *Script) (signal, error) {
	array, err := n.array.execute(s)
	if err != nil {
		return signal{}, err
	}

	for _, element := range array.Elements() {
		for _, v := range n.vars {
			s.cell(v).Set(element)
		}

		sig, err := runBlock(s, n.body)
		if err != nil {
			return signal{}, err
		}
		if stop, pending := consumeLoopSignal(n, sig); stop {
			return pending, nil
		}
	}
	return signal{}, nil
}

func (n *forStatement) String() string {
	vars := make([]string, len(n.vars))
	for i, v := range n.vars {
		vars[i] = v.String()
	}
	return "FOR " + strings.Join(vars, " ") + " IN " + n.array.String() + " " + renderBlock(n.body)
}

// consumeLoopSignal absorbs break/continue signals aimed at loop. stop is
// true when the loop must end, with pending holding a signal for outer
// nodes.
func consumeLoopSignal(loop executable, sig signal) (stop bool, pending signal) {
	switch {
	case sig.kind == signalNone:
		return false, signal{}
	case sig.kind == signalContinue && sig.loop == loop:
		return false, signal{}
	case sig.kind == signalBreak && sig.loop == loop:
		return true, signal{}
	}
	return true, sig
}

// breakStatement with a nil loop was parsed outside of any loop and does
// nothing.
type breakStatement struct {
	loop executable
	tok  token
}

func (n *breakStatement) execute(s *Script) (signal, error) {
	if n.loop == nil {
		return signal{}, nil
	}
	return signal{kind: signalBreak, loop: n.loop}, nil
}

func (n *breakStatement) String() string {
	return "BREAK;"
}

type continueStatement struct {
	loop executable
	tok  token
}

func (n *continueStatement) execute(s *Script) (signal, error) {
	if n.loop == nil {
		return signal{}, nil
	}
	return signal{kind: signalContinue, loop: n.loop}, nil
}

func (n *continueStatement) String() string {
	return "CONTINUE;"
}

type returnStatement struct {
	fn  *Function
	tok token
}

func (n *returnStatement) execute(s *Script) (signal, error) {
	return signal{kind: signalReturn, fn: n.fn}, nil
}

func (n *returnStatement) String() string {
	return "RETURN;"
}
