package core

import (
	"os"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"gopkg.in/yaml.v3"
)

type scriptCase struct {
	Name   string         `yaml:"name"`
	Source string         `yaml:"source"`
	Want   map[string]any `yaml:"want"`
	Error  string         `yaml:"error"`
}

var errorKinds = map[string]ErrorKind{
	"LexError":              LexError,
	"ParseError":            ParseError,
	"MismatchedParentheses": MismatchedParentheses,
	"InvalidExpression":     InvalidExpression,
	"UndefinedReference":    UndefinedReference,
	"DivisionByZero":        DivisionByZero,
	"RuntimeError":          RuntimeError,
}

func loadScriptCases(t *testing.T) []scriptCase {
	t.Helper()

	file, err := os.Open("testdata/scripts.yaml")
	if err != nil {
		t.Fatal(err)
	}
	defer file.Close()

	cases := []scriptCase{}
	if err := yaml.NewDecoder(file).Decode(&cases); err != nil {
		t.Fatalf("decode fixtures: %v", err)
	}
	return cases
}

func TestScripts(t *testing.T) {
	for _, c := range loadScriptCases(t) {
		c := c
		t.Run(c.Name, func(t *testing.T) {
			s := NewScript()
			err := Interpret(s, c.Source)

			if c.Error != "" {
				want, ok := errorKinds[c.Error]
				if !ok {
					t.Fatalf("unknown error kind %q in fixture", c.Error)
				}
				if err == nil {
					t.Fatalf("expected %s, script succeeded", want)
				}
				if kind, _ := KindOf(err); kind != want {
					t.Fatalf("got %v, want %s", err, want)
				}
				return
			}

			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			for name, native := range c.Want {
				want, err := FromNative(native)
				if err != nil {
					t.Fatal(err)
				}
				got, ok := s.Get(name)
				if !ok {
					t.Errorf("%s is not defined", name)
					continue
				}
				if diff := cmp.Diff(want.ToNative(), got.ToNative()); diff != "" {
					t.Errorf("%s mismatch (-want +got):\n%s", name, diff)
				}
			}
		})
	}
}

func TestErrorPosition(t *testing.T) {
	s := NewScript()
	err := Interpret(s, "a = 1;\nb = a / 0;")
	if err == nil {
		t.Fatal("expected an error")
	}
	want := "Division by zero at [2:7]: integer division by zero"
	if err.Error() != want {
		t.Errorf("got %q, want %q", err.Error(), want)
	}
}

func TestLoadKeepsState(t *testing.T) {
	s := NewScript()
	if err := s.Load("DEF sq n; IMP sq { sq = n * n; }"); err != nil {
		t.Fatal(err)
	}
	if err := s.Load("x = sq(4);"); err != nil {
		t.Fatal(err)
	}
	if err := s.Run(); err != nil {
		t.Fatal(err)
	}
	if x, _ := s.Get("x"); x.Int() != 16 {
		t.Errorf("x = %s, want 16", x)
	}

	if err := s.Exec("x += sq(2);"); err != nil {
		t.Fatal(err)
	}
	if x, _ := s.Get("x"); x.Int() != 20 {
		t.Errorf("x = %s after Exec, want 20", x)
	}

	// Exec does not add to the program, so a rerun starts from the loaded
	// statements only.
	if err := s.Run(); err != nil {
		t.Fatal(err)
	}
	if x, _ := s.Get("x"); x.Int() != 16 {
		t.Errorf("x = %s after rerun, want 16", x)
	}
}

func TestNames(t *testing.T) {
	s := NewScript()
	if err := s.Exec("zeta = 1; alpha = 2; mid = alpha;"); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{"alpha", "mid", "zeta"}, s.Names()); diff != "" {
		t.Errorf("Names mismatch (-want +got):\n%s", diff)
	}

	if _, ok := s.Get("missing"); ok {
		t.Error("Get of an undeclared name succeeded")
	}
}

func TestGetReturnsCopy(t *testing.T) {
	s := NewScript()
	s.Set("a", NewArray(NewInt(1)))

	a, _ := s.Get("a")
	a.Append(NewInt(2))

	again, _ := s.Get("a")
	if again.Len() != 1 {
		t.Errorf("Get exposed the live cell: %s", again)
	}
}

func TestSetBeforeLoad(t *testing.T) {
	s := NewScript()
	s.Set("limit", NewInt(3))

	if err := Interpret(s, "n = 0; WHILE n < limit { n += 1; }"); err != nil {
		t.Fatal(err)
	}
	if n, _ := s.Get("n"); n.Int() != 3 {
		t.Errorf("n = %s, want 3", n)
	}
}

func TestTree(t *testing.T) {
	s := NewScript()
	err := s.Load(`DEF inc &n;
IMP inc { n += 1; }
x = 1 + 2;
WHILE x < 10 { inc(x); IF x == 5 { BREAK; } }`)
	if err != nil {
		t.Fatal(err)
	}

	want := strings.Join([]string{
		"DEF inc &n { param(n) += 1; }",
		"var(x) = 1 + 2;",
		"WHILE var(x) < 10 { inc(var(x)); IF var(x) == 5 { BREAK; } }",
		"",
	}, "\n")
	if diff := cmp.Diff(want, s.Tree()); diff != "" {
		t.Errorf("Tree mismatch (-want +got):\n%s", diff)
	}
}

func TestFailedLoadKeepsNoDeclarations(t *testing.T) {
	s := NewScript()
	s.LoadFunc("twice", func(f *Frame) error {
		f.Result().SetInt(f.Arg(0).Int() * 2)
		return nil
	}, "n")

	err := Interpret(s, "DEF f; IMP f { f = 1; } DEF twice a b; g = 2; }")
	if kind, _ := KindOf(err); kind != ParseError {
		t.Fatalf("got %v, want a parse error", err)
	}
	if len(s.Names()) != 0 {
		t.Errorf("failed load left globals %v", s.Names())
	}
	if _, ok := s.function("f"); ok {
		t.Error("failed load left f declared")
	}

	if err := Interpret(s, "DEF f; IMP f { f = twice(21); } f();"); err != nil {
		t.Fatalf("reload after fixing the source: %v", err)
	}
	if f, _ := s.Get("f"); f.Int() != 42 {
		t.Errorf("f = %s, want 42", f)
	}

	twice, _ := s.function("twice")
	if diff := cmp.Diff([]Param{{Name: "n"}}, twice.Params()); diff != "" {
		t.Errorf("twice params mismatch (-want +got):\n%s", diff)
	}
}

func TestFailedEvalKeepsNoDeclarations(t *testing.T) {
	s := NewScript()
	_, err := s.Eval("fresh + nope(1)")
	if kind, _ := KindOf(err); kind != UndefinedReference {
		t.Fatalf("got %v, want an undefined reference", err)
	}
	if len(s.Names()) != 0 {
		t.Errorf("failed eval left globals %v", s.Names())
	}
}
