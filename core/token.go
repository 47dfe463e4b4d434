package core

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

type tokenKind int

const (
	UNKNOWN tokenKind = iota

	// literals
	STRING_LITERAL
	INT_LITERAL
	FLOAT_LITERAL
	BOOL_LITERAL

	// language tokens
	LEFT_PAREN
	RIGHT_PAREN
	LEFT_BRACE
	RIGHT_BRACE
	SEMICOLON
	COMMA
	REF

	// assignment operators
	SET
	PLUS_SET
	MINUS_SET
	TIMES_SET
	DIVIDE_SET

	// binary operators
	EQ
	GEQ
	LEQ
	GREATER
	LESS
	PLUS
	MINUS
	MODULUS
	TIMES
	DIVIDE
	AND
	OR

	// keywords
	IF_KEYWORD
	WHILE_KEYWORD
	DEF_KEYWORD
	IMP_KEYWORD
	FOR_KEYWORD
	IN_KEYWORD
	BREAK_KEYWORD
	CONTINUE_KEYWORD
	RETURN_KEYWORD

	IDENTIFIER
)

var singleTokens = map[rune]tokenKind{
	'=': SET,
	'*': TIMES,
	'/': DIVIDE,
	'%': MODULUS,
	'+': PLUS,
	'-': MINUS,
	'>': GREATER,
	'<': LESS,
	'(': LEFT_PAREN,
	')': RIGHT_PAREN,
	'{': LEFT_BRACE,
	'}': RIGHT_BRACE,
	';': SEMICOLON,
	',': COMMA,
	'&': REF,
}

// compound maps an operator to its form when directly followed by '='.
var compound = map[tokenKind]tokenKind{
	SET:     EQ,
	LESS:    LEQ,
	GREATER: GEQ,
	PLUS:    PLUS_SET,
	MINUS:   MINUS_SET,
	TIMES:   TIMES_SET,
	DIVIDE:  DIVIDE_SET,
}

var keywords = map[string]tokenKind{
	"AND":      AND,
	"OR":       OR,
	"IF":       IF_KEYWORD,
	"WHILE":    WHILE_KEYWORD,
	"DEF":      DEF_KEYWORD,
	"IMP":      IMP_KEYWORD,
	"FOR":      FOR_KEYWORD,
	"IN":       IN_KEYWORD,
	"BREAK":    BREAK_KEYWORD,
	"CONTINUE": CONTINUE_KEYWORD,
	"RETURN":   RETURN_KEYWORD,
}

type position struct {
	line   int
	col    int
	Offset int
}

func (p position) String() string {
	return fmt.Sprintf("[%d:%d]", p.line, p.col)
}

type token struct {
	Kind    tokenKind
	Pos     position
	Payload string
	Length  uint

	// origin value of a literal token
	literal *Value
}

func (k tokenKind) isOperator() bool {
	return k >= SET && k <= OR
}

func (k tokenKind) isAssignment() bool {
	return k >= SET && k <= DIVIDE_SET
}

func (k tokenKind) isLiteral() bool {
	return k >= STRING_LITERAL && k <= BOOL_LITERAL
}

func (k tokenKind) isKeyword() bool {
	return k >= IF_KEYWORD && k <= RETURN_KEYWORD
}

func (k tokenKind) String() string {
	return token{Kind: k}.String()
}

func (t token) String() string {
	switch t.Kind {
	case LEFT_PAREN:
		return "("
	case RIGHT_PAREN:
		return ")"
	case LEFT_BRACE:
		return "{"
	case RIGHT_BRACE:
		return "}"
	case SEMICOLON:
		return ";"
	case COMMA:
		return ","
	case REF:
		return "&"

	case SET:
		return "="
	case PLUS_SET:
		return "+="
	case MINUS_SET:
		return "-="
	case TIMES_SET:
		return "*="
	case DIVIDE_SET:
		return "/="

	case EQ:
		return "=="
	case GEQ:
		return ">="
	case LEQ:
		return "<="
	case GREATER:
		return ">"
	case LESS:
		return "<"
	case PLUS:
		return "+"
	case MINUS:
		return "-"
	case MODULUS:
		return "%"
	case TIMES:
		return "*"
	case DIVIDE:
		return "/"
	case AND:
		return "AND"
	case OR:
		return "OR"

	case IF_KEYWORD:
		return "IF"
	case WHILE_KEYWORD:
		return "WHILE"
	case DEF_KEYWORD:
		return "DEF"
	case IMP_KEYWORD:
		return "IMP"
	case FOR_KEYWORD:
		return "FOR"
	case IN_KEYWORD:
		return "IN"
	case BREAK_KEYWORD:
		return "BREAK"
	case CONTINUE_KEYWORD:
		return "CONTINUE"
	case RETURN_KEYWORD:
		return "RETURN"

	case IDENTIFIER:
		return fmt.Sprintf("var(%s)", t.Payload)
	case STRING_LITERAL:
		return fmt.Sprintf("string(%s)", t.Payload)
	case INT_LITERAL:
		return fmt.Sprintf("int(%s)", t.Payload)
	case FLOAT_LITERAL:
		return fmt.Sprintf("float(%s)", t.Payload)
	case BOOL_LITERAL:
		return fmt.Sprintf("bool(%s)", t.Payload)

	default:
		return "<unknown>"
	}
}

type tokenizer struct {
	source []rune
	index  int
	line   int
	col    int
}

func NewTokenizer(source string) tokenizer {
	return tokenizer{
		source: []rune(source),
		index:  0,
		line:   1,
		col:    0,
	}
}

func (t *tokenizer) isEOF() bool {
	return t.index >= len(t.source)
}

func (t *tokenizer) next() rune {
	char := t.source[t.index]

	if t.index < len(t.source) {
		t.index++
	}

	if char == '\n' {
		t.line++
		t.col = 0
	} else {
		t.col++
	}

	return char
}

func (t *tokenizer) peek() rune {
	return t.source[t.index]
}

func (t *tokenizer) pos() position {
	return position{
		line:   t.line,
		col:    t.col + 1,
		Offset: t.index,
	}
}

func (t *tokenizer) skipComment() {
	for !t.isEOF() && t.peek() != '\n' && t.peek() != '\r' {
		t.next()
	}
}

func (t *tokenizer) readString(pos position) (token, error) {
	t.next() // opening quote
	builder := strings.Builder{}
	for {
		if t.isEOF() {
			return token{}, &Error{
				Kind:   LexError,
				Reason: "unterminated string literal",
				Pos:    pos,
			}
		}
		ch := t.next()
		if ch == '"' {
			break
		}
		builder.WriteRune(ch)
	}

	payload := builder.String()
	return token{
		Kind:    STRING_LITERAL,
		Pos:     pos,
		Payload: payload,
		Length:  uint(t.index - pos.Offset),
		literal: NewString(payload),
	}, nil
}

func (t *tokenizer) readWord() string {
	word := []rune{}
	for !t.isEOF() {
		ch := t.peek()
		if unicode.IsSpace(ch) || ch == '"' || ch == '#' {
			break
		}
		if _, ok := singleTokens[ch]; ok {
			break
		}
		t.next()
		if unicode.IsControl(ch) {
			continue
		}
		word = append(word, ch)
	}
	return string(word)
}

// classify turns a raw word into a literal, keyword or identifier token.
// Boolean wins over integer, integer over float.
func classify(word string, pos position) token {
	tok := token{Pos: pos, Payload: word, Length: uint(len([]rune(word)))}

	switch {
	case strings.EqualFold(word, "true") || strings.EqualFold(word, "false"):
		tok.Kind = BOOL_LITERAL
		tok.literal = NewBool(strings.EqualFold(word, "true"))
		return tok
	}

	if n, err := strconv.ParseInt(word, 10, 64); err == nil {
		tok.Kind = INT_LITERAL
		tok.literal = NewInt(n)
		return tok
	}

	if startsNumeric(word) {
		if f, err := strconv.ParseFloat(word, 64); err == nil {
			tok.Kind = FLOAT_LITERAL
			tok.literal = NewFloat(f)
			return tok
		}
	}

	if kind, ok := keywords[word]; ok {
		tok.Kind = kind
		return tok
	}

	tok.Kind = IDENTIFIER
	return tok
}

func startsNumeric(word string) bool {
	if word == "" {
		return false
	}
	ch := word[0]
	return (ch >= '0' && ch <= '9') || ch == '.'
}

func (t *tokenizer) nextToken() (token, bool, error) {
	pos := t.pos()
	ch := t.peek()

	switch {
	case ch == '#':
		t.skipComment()
		return token{}, false, nil
	case unicode.IsSpace(ch), unicode.IsControl(ch):
		t.next()
		return token{}, false, nil
	case ch == '"':
		tok, err := t.readString(pos)
		return tok, err == nil, err
	}

	if kind, ok := singleTokens[ch]; ok {
		t.next()
		if folded, ok := compound[kind]; ok && !t.isEOF() && t.peek() == '=' {
			t.next()
			return token{Kind: folded, Pos: pos, Length: 2}, true, nil
		}
		return token{Kind: kind, Pos: pos, Length: 1}, true, nil
	}

	word := t.readWord()
	if word == "" {
		return token{}, false, nil
	}
	tok := classify(word, pos)
	tok.Length = uint(t.index - pos.Offset)
	return tok, true, nil
}

func (t *tokenizer) Tokenize() ([]token, error) {
	tokens := []token{}

	for !t.isEOF() {
		tok, ok, err := t.nextToken()
		if err != nil {
			return tokens, err
		}
		if ok {
			tokens = append(tokens, tok)
		}
	}

	return tokens, nil
}
