package core

import (
	"strings"
)

type termKind int

const (
	literalTerm termKind = iota
	slotTerm
	callTerm
	arrayTerm
	operatorTerm
	leftParenTerm
	rightParenTerm
)

// term is one element of an expression's infix token list, with
// identifiers already resolved to slots.
type term struct {
	kind    termKind
	tok     token
	literal *Value
	slot    slot
	call    *call
	items   []*Expression
}

func (t *term) resettable() bool {
	return t.kind == literalTerm || t.kind == slotTerm
}

// reset materializes a fresh operand for one evaluation: literals restart
// from their origin, variables pull from their source cell.
func (t *term) reset(s *Script) *operand {
	switch t.kind {
	case literalTerm:
		return &operand{val: t.literal.Clone()}
	case slotTerm:
		o := &operand{src: s.cell(t.slot)}
		o.pull()
		return o
	}
	panic("core: reset of non-resettable term " + t.String())
}

func (t *term) String() string {
	switch t.kind {
	case literalTerm:
		if t.literal.Type() == StringType {
			return `"` + t.literal.String() + `"`
		}
		return t.literal.String()
	case slotTerm:
		return t.slot.String()
	case callTerm:
		return t.call.String()
	case arrayTerm:
		items := make([]string, len(t.items))
		for i, item := range t.items {
			items[i] = item.String()
		}
		return "{" + strings.Join(items, ", ") + "}"
	}
	return t.tok.String()
}

// operand is a value on the evaluation stack. A bound operand remembers
// the cell it was read from so assignments can write back.
type operand struct {
	val *Value
	src *Value
}

func (o *operand) pull() {
	o.val = o.src.Clone()
}

func (o *operand) push() {
	if o.src != nil {
		o.src.Set(o.val)
	}
}

type Expression struct {
	terms []term
	tok   token
}

func (e *Expression) String() string {
	parts := make([]string, len(e.terms))
	for i := range e.terms {
		parts[i] = e.terms[i].String()
	}
	return strings.Join(parts, " ")
}

func precedence(kind tokenKind) int {
	switch kind {
	case AND, OR:
		return 1
	case EQ, GEQ, LEQ, GREATER, LESS:
		return 2
	case PLUS, MINUS:
		return 3
	case TIMES, DIVIDE, MODULUS:
		return 4
	default:
		return 0
	}
}

// queued is an entry of the postfix output queue: either an operand or
// an operator term.
type queued struct {
	operand *operand
	op      *term
}

// execute recompiles the expression to postfix and evaluates it. Nothing
// is cached between evaluations, so function calls run again every time.
func (e *Expression) execute(s *Script) (*Value, error) {
	operands := make([]*operand, len(e.terms))
	for i := range e.terms {
		if e.terms[i].resettable() {
			operands[i] = e.terms[i].reset(s)
		}
	}

	output, err := e.toPostfix(s, operands)
	if err != nil {
		return nil, err
	}

	stack := make([]*operand, 0, len(output))
	for _, entry := range output {
		if entry.op == nil {
			stack = append(stack, entry.operand)
			continue
		}

		if len(stack) < 2 {
			return nil, errorAt(InvalidExpression, entry.op.tok, "operator %s is missing an operand", entry.op.tok)
		}
		b := stack[len(stack)-1]
		a := stack[len(stack)-2]
		stack = stack[:len(stack)-2]

		if err := apply(a, b, entry.op.tok); err != nil {
			return nil, err
		}
		stack = append(stack, a)
	}

	if len(stack) != 1 {
		return nil, errorAt(InvalidExpression, e.tok, "expression leaves %d values", len(stack))
	}

	return stack[0].val, nil
}

func (e *Expression) toPostfix(s *Script, operands []*operand) ([]queued, error) {
	output := make([]queued, 0, len(e.terms))
	ops := []*term{}

	for i := range e.terms {
		t := &e.terms[i]

		switch t.kind {
		case literalTerm, slotTerm:
			output = append(output, queued{operand: operands[i]})
		case arrayTerm:
			v, err := t.buildArray(s)
			if err != nil {
				return nil, err
			}
			output = append(output, queued{operand: &operand{val: v}})
		case callTerm:
			v, err := t.call.execute(s)
			if err != nil {
				return nil, err
			}
			output = append(output, queued{operand: &operand{val: v}})
		case operatorTerm:
			for len(ops) > 0 {
				top := ops[len(ops)-1]
				if top.kind != operatorTerm || precedence(t.tok.Kind) > precedence(top.tok.Kind) {
					break
				}
				output = append(output, queued{op: top})
				ops = ops[:len(ops)-1]
			}
			ops = append(ops, t)
		case leftParenTerm:
			ops = append(ops, t)
		case rightParenTerm:
			for len(ops) > 0 && ops[len(ops)-1].kind != leftParenTerm {
				output = append(output, queued{op: ops[len(ops)-1]})
				ops = ops[:len(ops)-1]
			}
			if len(ops) == 0 {
				return nil, errorAt(MismatchedParentheses, t.tok, "unexpected )")
			}
			ops = ops[:len(ops)-1]
		}
	}

	for len(ops) > 0 {
		top := ops[len(ops)-1]
		if top.kind == leftParenTerm || top.kind == rightParenTerm {
			return nil, errorAt(MismatchedParentheses, top.tok, "unclosed (")
		}
		output = append(output, queued{op: top})
		ops = ops[:len(ops)-1]
	}

	return output, nil
}

func (t *term) buildArray(s *Script) (*Value, error) {
	arr := make([]*Value, len(t.items))
	for i, item := range t.items {
		v, err := item.execute(s)
		if err != nil {
			return nil, err
		}
		arr[i] = v
	}
	return &Value{kind: ArrayType, arr: arr}, nil
}

// apply runs a binary operator on a, leaving the result in a.
func apply(a, b *operand, op token) error {
	var err error

	switch op.Kind {
	case SET:
		a.val.Set(b.val)
	case PLUS, PLUS_SET:
		a.val.Add(b.val)
	case MINUS, MINUS_SET:
		a.val.Sub(b.val)
	case TIMES, TIMES_SET:
		a.val.Mul(b.val)
	case DIVIDE, DIVIDE_SET:
		err = a.val.Div(b.val)
	case MODULUS:
		err = a.val.Rem(b.val)
	case EQ:
		a.val.Equal(b.val)
	case GREATER:
		a.val.Greater(b.val)
	case LESS:
		a.val.Less(b.val)
	case GEQ:
		a.val.GEqual(b.val)
	case LEQ:
		a.val.LEqual(b.val)
	case AND:
		a.val.And(b.val)
	case OR:
		a.val.Or(b.val)
	}

	if err != nil {
		if e, ok := err.(*Error); ok {
			e.Pos = op.Pos
		}
		return err
	}

	if op.Kind.isAssignment() {
		a.push()
	}
	return nil
}
