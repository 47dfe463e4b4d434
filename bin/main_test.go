package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/google/go-cmp/cmp"
	"gopkg.in/yaml.v3"

	"github.com/tucanscript/tucan/core"
)

func TestEvalLine(t *testing.T) {
	s := core.NewScript()

	cases := []struct {
		in   string
		want string
	}{
		{"x = 2 + 3", "5"},
		{"x * 2", "10"},
		{"DEF sq n; IMP sq { sq = n * n; }", ""},
		{"sq(x)", "25"},
		{"IF x > 1 { y = x; }", ""},
		{"y", "5"},
	}

	for _, c := range cases {
		got, err := evalLine(s, c.in)
		if err != nil {
			t.Errorf("evalLine(%q) returned %v", c.in, err)
			continue
		}
		text := ""
		if got != nil {
			text = got.String()
		}
		if text != c.want {
			t.Errorf("evalLine(%q) = %q, want %q", c.in, text, c.want)
		}
	}

	_, err := evalLine(s, "1 / 0")
	if kind, _ := core.KindOf(err); kind != core.DivisionByZero {
		t.Errorf("1 / 0 returned %v", err)
	}
}

func TestHighlight(t *testing.T) {
	defer func(old bool) { color.NoColor = old }(color.NoColor)

	lines := []string{
		`x = "héllo" + 1.5 # note`,
		`IF TRUE AND b { print(x); }`,
		`y = "unterminated`,
		"",
	}

	color.NoColor = true
	for _, line := range lines {
		if got := highlight([]rune(line)); got != line {
			t.Errorf("highlight without color changed %q to %q", line, got)
		}
	}

	if os.Getenv("NO_COLOR") != "" {
		return
	}
	color.NoColor = false
	got := highlight([]rune(`IF x { y = "s"; }`))
	if !strings.Contains(got, "\x1b[") {
		t.Errorf("highlight produced no escape codes: %q", got)
	}
}

func TestPrettyPrintWithoutColor(t *testing.T) {
	defer func(old bool) { color.NoColor = old }(color.NoColor)
	color.NoColor = true

	source := "DEF f;\nIMP f { f = 1; }\n"
	out := &bytes.Buffer{}
	if err := prettyPrint(out, source); err != nil {
		t.Fatal(err)
	}
	if out.String() != source {
		t.Errorf("got %q, want the source unchanged", out.String())
	}
}

func TestPrettyPrintLexer(t *testing.T) {
	iterator, err := lexer.Tokenise(nil, `IF x >= 1.5 { print("a"); }`)
	if err != nil {
		t.Fatal(err)
	}

	text := strings.Builder{}
	for _, tok := range iterator.Tokens() {
		text.WriteString(tok.Value)
	}
	if text.String() != `IF x >= 1.5 { print("a"); }` {
		t.Errorf("tokens do not cover the source: %q", text.String())
	}
}

func TestVars(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vars.yaml")
	content := "name: tucan\ncount: 3\nratio: 0.5\nflags: [true, false]\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	s := core.NewScript()
	if err := loadVars(s, path); err != nil {
		t.Fatal(err)
	}
	if err := core.Interpret(s, "count += 1; label = name + count;"); err != nil {
		t.Fatal(err)
	}

	out := &bytes.Buffer{}
	if err := dumpVars(out, s); err != nil {
		t.Fatal(err)
	}

	got := map[string]any{}
	if err := yaml.Unmarshal(out.Bytes(), &got); err != nil {
		t.Fatal(err)
	}
	want := map[string]any{
		"count": 4,
		"flags": []any{true, false},
		"label": "tucan4",
		"name":  "tucan",
		"ratio": 0.5,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("dump mismatch (-want +got):\n%s", diff)
	}
}

func TestVarsRejectsNestedMaps(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vars.yaml")
	if err := os.WriteFile(path, []byte("nested:\n  a: 1\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	if err := loadVars(core.NewScript(), path); err == nil {
		t.Error("expected an error for a nested mapping")
	}
}
