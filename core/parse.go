package core

type parser struct {
	script *Script
	tokens []token
	index  int

	// enclosing function body, nil at the top level
	fn *Function
	// nearest enclosing loop, target of BREAK and CONTINUE
	loop executable
}

func newParser(s *Script, tokens []token) *parser {
	return &parser{
		script: s,
		tokens: tokens,
	}
}

// sub returns a parser for the inside of a block.
func (p *parser) sub(tokens []token, fn *Function, loop executable) *parser {
	return &parser{
		script: p.script,
		tokens: tokens,
		fn:     fn,
		loop:   loop,
	}
}

func (p *parser) isEOF() bool {
	return p.index >= len(p.tokens)
}

func (p *parser) peek() token {
	return p.tokens[p.index]
}

func (p *parser) next() token {
	tok := p.tokens[p.index]

	if p.index < len(p.tokens) {
		p.index++
	}

	return tok
}

// last is used to position errors at the end of input.
func (p *parser) last() token {
	if len(p.tokens) == 0 {
		return token{}
	}
	return p.tokens[len(p.tokens)-1]
}

func (p *parser) expect(kind tokenKind) (token, error) {
	if p.isEOF() {
		return token{Kind: UNKNOWN}, errorAt(ParseError, p.last(), "unexpected end of input, expected %s", kind)
	}

	next := p.next()
	if next.Kind != kind {
		return token{Kind: UNKNOWN}, errorAt(ParseError, next, "unexpected token %s, expected %s", next, kind)
	}

	return next, nil
}

// matchingIndex returns the index of the bracket closing the one at start.
func matchingIndex(tokens []token, start int) (int, error) {
	open := tokens[start].Kind
	closing := RIGHT_PAREN
	kind := MismatchedParentheses
	if open == LEFT_BRACE {
		closing = RIGHT_BRACE
		kind = ParseError
	}

	depth := 0
	for i := start; i < len(tokens); i++ {
		switch tokens[i].Kind {
		case open:
			depth++
		case closing:
			depth--
			if depth == 0 {
				return i, nil
			}
		}
	}

	return 0, errorAt(kind, tokens[start], "unclosed %s", open)
}

// splitTopLevel splits tokens at commas outside of any bracket.
func splitTopLevel(tokens []token) [][]token {
	parts := [][]token{}
	depth := 0
	start := 0
	for i, tok := range tokens {
		switch tok.Kind {
		case LEFT_PAREN, LEFT_BRACE:
			depth++
		case RIGHT_PAREN, RIGHT_BRACE:
			depth--
		case COMMA:
			if depth == 0 {
				parts = append(parts, tokens[start:i])
				start = i + 1
			}
		}
	}
	return append(parts, tokens[start:])
}

// block consumes a { ... } group and returns the tokens inside it.
func (p *parser) block() ([]token, error) {
	if p.isEOF() {
		return nil, errorAt(ParseError, p.last(), "unexpected end of input, expected {")
	}
	if p.peek().Kind != LEFT_BRACE {
		return nil, errorAt(ParseError, p.peek(), "unexpected token %s, expected {", p.peek())
	}

	end, err := matchingIndex(p.tokens, p.index)
	if err != nil {
		return nil, err
	}
	inner := p.tokens[p.index+1 : end]
	p.index = end + 1
	return inner, nil
}

// scanExpression finds where an expression starting at start ends: at a
// top-level ';' or ',', a closing '}', a keyword, or a '{' that cannot
// begin an array literal.
func (p *parser) scanExpression(start int) (int, error) {
	expectOperand := true
	i := start

	for i < len(p.tokens) {
		tok := p.tokens[i]

		switch {
		case tok.Kind == SEMICOLON || tok.Kind == COMMA || tok.Kind == RIGHT_BRACE || tok.Kind.isKeyword():
			return i, nil
		case tok.Kind == LEFT_BRACE:
			if !expectOperand {
				return i, nil
			}
			end, err := matchingIndex(p.tokens, i)
			if err != nil {
				return 0, err
			}
			i = end + 1
			expectOperand = false
		case tok.Kind == IDENTIFIER && i+1 < len(p.tokens) && p.tokens[i+1].Kind == LEFT_PAREN:
			end, err := matchingIndex(p.tokens, i+1)
			if err != nil {
				return 0, err
			}
			i = end + 1
			expectOperand = false
		case tok.Kind.isOperator() || tok.Kind == LEFT_PAREN:
			expectOperand = true
			i++
		default:
			expectOperand = false
			i++
		}
	}

	return i, nil
}

// parseExpression reads an expression at the current position.
func (p *parser) parseExpression(after token) (*Expression, error) {
	end, err := p.scanExpression(p.index)
	if err != nil {
		return nil, err
	}
	tokens := p.tokens[p.index:end]
	if len(tokens) == 0 {
		at := after
		if !p.isEOF() {
			at = p.peek()
		}
		return nil, errorAt(ParseError, at, "expected expression after %s", after)
	}
	if end < len(p.tokens) && p.tokens[end].Kind.isKeyword() {
		return nil, errorAt(ParseError, p.tokens[end], "unexpected keyword %s in expression", p.tokens[end])
	}
	p.index = end
	return p.buildExpression(tokens)
}

// buildExpression turns a token list into expression terms, resolving
// names and parsing calls and array literals.
func (p *parser) buildExpression(tokens []token) (*Expression, error) {
	e := &Expression{tok: tokens[0]}
	expectOperand := true

	for i := 0; i < len(tokens); i++ {
		tok := tokens[i]

		switch {
		case tok.Kind.isLiteral():
			e.terms = append(e.terms, term{kind: literalTerm, tok: tok, literal: tok.literal})
			expectOperand = false

		case tok.Kind == MINUS && expectOperand && i+1 < len(tokens) &&
			(tokens[i+1].Kind == INT_LITERAL || tokens[i+1].Kind == FLOAT_LITERAL):
			lit := tokens[i+1]
			neg := NewInt(0)
			neg.Sub(lit.literal)
			e.terms = append(e.terms, term{kind: literalTerm, tok: tok, literal: neg})
			expectOperand = false
			i++

		case tok.Kind == IDENTIFIER && i+1 < len(tokens) && tokens[i+1].Kind == LEFT_PAREN:
			fn, ok := p.script.function(tok.Payload)
			if !ok {
				return nil, errorAt(UndefinedReference, tok, "%s is not a declared function", tok.Payload)
			}
			end, err := matchingIndex(tokens, i+1)
			if err != nil {
				return nil, err
			}
			c, err := p.parseCall(fn, tok, tokens[i+2:end])
			if err != nil {
				return nil, err
			}
			e.terms = append(e.terms, term{kind: callTerm, tok: tok, call: c})
			expectOperand = false
			i = end

		case tok.Kind == IDENTIFIER:
			e.terms = append(e.terms, term{kind: slotTerm, tok: tok, slot: p.resolveName(tok.Payload)})
			expectOperand = false

		case tok.Kind == LEFT_BRACE:
			if !expectOperand {
				return nil, errorAt(ParseError, tok, "unexpected { in expression")
			}
			end, err := matchingIndex(tokens, i)
			if err != nil {
				return nil, err
			}
			items, err := p.parseList(tokens[i+1 : end])
			if err != nil {
				return nil, err
			}
			e.terms = append(e.terms, term{kind: arrayTerm, tok: tok, items: items})
			expectOperand = false
			i = end

		case tok.Kind == LEFT_PAREN:
			e.terms = append(e.terms, term{kind: leftParenTerm, tok: tok})
			expectOperand = true

		case tok.Kind == RIGHT_PAREN:
			e.terms = append(e.terms, term{kind: rightParenTerm, tok: tok})
			expectOperand = false

		case tok.Kind.isOperator():
			e.terms = append(e.terms, term{kind: operatorTerm, tok: tok})
			expectOperand = true

		default:
			return nil, errorAt(ParseError, tok, "unexpected token %s in expression", tok)
		}
	}

	return e, nil
}

// parseList parses the comma separated elements of an array literal.
func (p *parser) parseList(tokens []token) ([]*Expression, error) {
	items := []*Expression{}
	for _, part := range splitTopLevel(tokens) {
		if len(part) == 0 {
			continue
		}
		item, err := p.buildExpression(part)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, nil
}

func (p *parser) parseCall(fn *Function, tok token, tokens []token) (*call, error) {
	c := &call{fn: fn, tok: tok}

	for _, part := range splitTopLevel(tokens) {
		switch {
		case len(part) == 0:
			continue
		case len(part) == 1 && part[0].Kind == IDENTIFIER:
			t := &term{kind: slotTerm, tok: part[0], slot: p.resolveName(part[0].Payload)}
			c.args = append(c.args, argument{term: t})
		case len(part) == 1 && part[0].Kind.isLiteral():
			t := &term{kind: literalTerm, tok: part[0], literal: part[0].literal}
			c.args = append(c.args, argument{term: t})
		default:
			expr, err := p.buildExpression(part)
			if err != nil {
				return nil, err
			}
			c.args = append(c.args, argument{expr: expr})
		}
	}

	return c, nil
}

// resolveName maps an identifier to storage: an existing global, then a
// function (its own result cell inside its body), then a parameter of the
// enclosing function, and otherwise a newly declared global.
func (p *parser) resolveName(name string) slot {
	s := p.script

	if index, ok := s.globalIndex[name]; ok {
		return slot{scope: globalSlot, index: index, name: name}
	}

	if index, ok := s.functionIndex[name]; ok {
		if p.fn != nil && s.functions[index] == p.fn {
			return slot{scope: resultSlot, index: index, name: name}
		}
		return slot{scope: functionSlot, index: index, name: name}
	}

	if p.fn != nil {
		if index, ok := p.fn.paramIndex(name); ok {
			return slot{scope: paramSlot, index: index, name: name}
		}
	}

	return slot{scope: globalSlot, index: s.declare(name), name: name}
}

func (p *parser) parseDef() error {
	p.next() // DEF

	nameTok, err := p.expect(IDENTIFIER)
	if err != nil {
		return err
	}

	params := []Param{}
	byRef := false
	for {
		if p.isEOF() {
			return errorAt(ParseError, p.last(), "unexpected end of input, expected ; after DEF %s", nameTok.Payload)
		}
		tok := p.next()
		switch tok.Kind {
		case SEMICOLON:
			return p.script.defineFunction(nameTok, params)
		case REF:
			byRef = true
		case COMMA:
		case IDENTIFIER:
			params = append(params, Param{Name: tok.Payload, ByRef: byRef})
			byRef = false
		default:
			return errorAt(ParseError, tok, "unexpected token %s in parameter list of %s", tok, nameTok.Payload)
		}
	}
}

func (p *parser) parseImp() error {
	p.next() // IMP

	nameTok, err := p.expect(IDENTIFIER)
	if err != nil {
		return err
	}
	fn, ok := p.script.function(nameTok.Payload)
	if !ok {
		return errorAt(ParseError, nameTok, "IMP of undeclared function %s", nameTok.Payload)
	}

	inner, err := p.block()
	if err != nil {
		return err
	}
	body, err := p.sub(inner, fn, nil).parseBlock()
	if err != nil {
		return err
	}
	fn.body = body
	fn.native = nil
	return nil
}

func (p *parser) parseIf() (executable, error) {
	tok := p.next()

	cond, err := p.parseExpression(tok)
	if err != nil {
		return nil, err
	}
	inner, err := p.block()
	if err != nil {
		return nil, err
	}

	node := &ifStatement{cond: cond, tok: tok}
	node.body, err = p.sub(inner, p.fn, p.loop).parseBlock()
	if err != nil {
		return nil, err
	}
	return node, nil
}

func (p *parser) parseWhile() (executable, error) {
	tok := p.next()

	cond, err := p.parseExpression(tok)
	if err != nil {
		return nil, err
	}
	inner, err := p.block()
	if err != nil {
		return nil, err
	}

	node := &whileStatement{cond: cond, tok: tok}
	node.body, err = p.sub(inner, p.fn, node).parseBlock()
	if err != nil {
		return nil, err
	}
	return node, nil
}

func (p *parser) parseFor() (executable, error) {
	tok := p.next()

	vars := []slot{}
	for {
		if p.isEOF() {
			return nil, errorAt(ParseError, p.last(), "unexpected end of input, expected IN")
		}
		next := p.next()
		if next.Kind == IN_KEYWORD {
			break
		}
		switch next.Kind {
		case IDENTIFIER:
			vars = append(vars, p.resolveName(next.Payload))
		case COMMA:
		default:
			return nil, errorAt(ParseError, next, "unexpected token %s in FOR variables", next)
		}
	}
	if len(vars) == 0 {
		return nil, errorAt(ParseError, tok, "FOR needs at least one variable")
	}

	array, err := p.parseExpression(tok)
	if err != nil {
		return nil, err
	}
	inner, err := p.block()
	if err != nil {
		return nil, err
	}

	node := &forStatement{vars: vars, array: array, tok: tok}
	node.body, err = p.sub(inner, p.fn, node).parseBlock()
	if err != nil {
		return nil, err
	}
	return node, nil
}

// parseBlock parses statements until the end of the parser's tokens.
func (p *parser) parseBlock() ([]executable, error) {
	body := []executable{}

	for !p.isEOF() {
		tok := p.peek()

		switch tok.Kind {
		case SEMICOLON, COMMA:
			p.next()

		case IDENTIFIER, STRING_LITERAL, INT_LITERAL, FLOAT_LITERAL, BOOL_LITERAL, LEFT_PAREN, MINUS:
			expr, err := p.parseExpression(tok)
			if err != nil {
				return nil, err
			}
			body = append(body, &exprStatement{expr: expr})

		case DEF_KEYWORD:
			if err := p.parseDef(); err != nil {
				return nil, err
			}

		case IMP_KEYWORD:
			if err := p.parseImp(); err != nil {
				return nil, err
			}

		case IF_KEYWORD, WHILE_KEYWORD, FOR_KEYWORD:
			var node executable
			var err error
			switch tok.Kind {
			case IF_KEYWORD:
				node, err = p.parseIf()
			case WHILE_KEYWORD:
				node, err = p.parseWhile()
			default:
				node, err = p.parseFor()
			}
			if err != nil {
				return nil, err
			}
			body = append(body, node)

		case RETURN_KEYWORD:
			p.next()
			body = append(body, &returnStatement{fn: p.fn, tok: tok})

		case BREAK_KEYWORD:
			p.next()
			body = append(body, &breakStatement{loop: p.loop, tok: tok})

		case CONTINUE_KEYWORD:
			p.next()
			body = append(body, &continueStatement{loop: p.loop, tok: tok})

		case LEFT_BRACE:
			inner, err := p.block()
			if err != nil {
				return nil, err
			}
			stmts, err := p.sub(inner, p.fn, p.loop).parseBlock()
			if err != nil {
				return nil, err
			}
			body = append(body, stmts...)

		default:
			return nil, errorAt(ParseError, tok, "unexpected token %s at start of statement", tok)
		}
	}

	return body, nil
}
