package main

import (
	"io"

	"github.com/alecthomas/chroma"
	"github.com/alecthomas/chroma/formatters"
	"github.com/alecthomas/chroma/styles"
	"github.com/fatih/color"
)

var lexer = chroma.MustNewLexer(
	&chroma.Config{
		Name:      "Tucan",
		Aliases:   []string{"tucan"},
		Filenames: []string{"*.tuc"},
	},
	chroma.Rules{
		"root": {
			{Pattern: `#[^\n\r]*`, Type: chroma.CommentSingle},
			{Pattern: `\s+`, Type: chroma.Text},
			{Pattern: `"[^"]*"`, Type: chroma.LiteralString},
			{Pattern: `\b(IF|WHILE|FOR|IN|BREAK|CONTINUE|RETURN)\b`, Type: chroma.Keyword},
			{Pattern: `\b(DEF|IMP)\b`, Type: chroma.KeywordDeclaration},
			{Pattern: `\b(AND|OR)\b`, Type: chroma.OperatorWord},
			{Pattern: `(?i)\b(true|false)\b`, Type: chroma.KeywordConstant},
			{Pattern: `\d+\.\d*|\.\d+`, Type: chroma.LiteralNumberFloat},
			{Pattern: `\d+`, Type: chroma.LiteralNumberInteger},
			{Pattern: `[A-Za-z_][A-Za-z0-9_]*(?=\()`, Type: chroma.NameFunction},
			{Pattern: `[A-Za-z_][A-Za-z0-9_]*`, Type: chroma.Name},
			{Pattern: `[-+*/=<>]=|[-+*/%=<>&]`, Type: chroma.Operator},
			{Pattern: `[(){};,]`, Type: chroma.Punctuation},
			{Pattern: `.`, Type: chroma.Error},
		},
	},
)

// prettyPrint writes source highlighted for a 256 color terminal, or
// unchanged when color is disabled.
func prettyPrint(w io.Writer, source string) error {
	if color.NoColor {
		_, err := io.WriteString(w, source)
		return err
	}

	iterator, err := lexer.Tokenise(nil, source)
	if err != nil {
		return err
	}

	formatter := formatters.Get("terminal256")
	style := styles.Get("monokai")
	return formatter.Format(w, style, iterator)
}
