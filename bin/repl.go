package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/reeflective/readline"

	"github.com/tucanscript/tucan/core"
)

func repl() {
	rl := readline.NewShell()
	rl.Prompt.Primary(func() string { return "> " })
	rl.SyntaxHighlighter = highlight

	s, err := newScript()
	if err != nil {
		fail(err)
	}

	for {
		text, err := rl.Readline()

		if err == io.EOF {
			break
		} else if err != nil {
			fmt.Fprintln(stderr, err)
			break
		}

		if strings.TrimSpace(text) == "" {
			continue
		}

		if *debugTokens {
			tokens, _ := core.Tokenize(text)
			for _, tok := range tokens {
				fmt.Fprintf(stdout, "%s %s\n", tok.Pos, tok)
			}
		}

		result, err := evalLine(s, text)
		if err != nil {
			fmt.Fprintln(stderr, color.RedString("%s", err))
			continue
		}
		if result != nil {
			fmt.Fprintln(stdout, highlightValue(result))
		}
	}

	if *dump {
		if err := dumpVars(stdout, s); err != nil {
			fail(err)
		}
	}
}

// evalLine runs a REPL line as an expression when it parses as one and
// as statements otherwise. Statements produce no result.
func evalLine(s *core.Script, text string) (*core.Value, error) {
	result, err := s.Eval(text)
	if err == nil {
		return result, nil
	}
	if kind, ok := core.KindOf(err); !ok || kind != core.ParseError {
		return nil, err
	}

	return nil, s.Exec(text)
}

func highlightValue(v *core.Value) string {
	switch v.Type() {
	case core.StringType:
		return color.GreenString("%q", v.Str())
	case core.IntType, core.FloatType:
		return color.MagentaString("%s", v.String())
	case core.BoolType:
		return color.YellowString("%s", v.String())
	default:
		return v.String()
	}
}

// highlight colors a line being edited using the interpreter's own
// tokenizer. Text after a lex error is left as is.
func highlight(line []rune) string {
	tokens, _ := core.Tokenize(string(line))

	builder := strings.Builder{}

	i := 0
	for _, token := range tokens {
		start := token.Pos.Offset
		end := start + int(token.Length)
		if start > i {
			builder.WriteString(string(line[i:start]))
		}
		if end > len(line) {
			end = len(line)
		}
		text := string(line[start:end])

		switch token.Kind {
		case core.STRING_LITERAL:
			builder.WriteString(color.GreenString("%s", text))
		case core.INT_LITERAL, core.FLOAT_LITERAL:
			builder.WriteString(color.MagentaString("%s", text))
		case core.BOOL_LITERAL:
			builder.WriteString(color.YellowString("%s", text))
		case core.IF_KEYWORD, core.WHILE_KEYWORD, core.DEF_KEYWORD, core.IMP_KEYWORD,
			core.FOR_KEYWORD, core.IN_KEYWORD, core.BREAK_KEYWORD, core.CONTINUE_KEYWORD,
			core.RETURN_KEYWORD, core.AND, core.OR:
			builder.WriteString(color.BlueString("%s", text))
		default:
			builder.WriteString(text)
		}

		i = end
	}

	if i < len(line) {
		builder.WriteString(string(line[i:]))
	}

	return builder.String()
}
