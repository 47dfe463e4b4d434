package modules

import (
	"bytes"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/tucanscript/tucan/core"
)

func newScript(t *testing.T) (*core.Script, *bytes.Buffer) {
	t.Helper()
	out := &bytes.Buffer{}
	s := core.NewScript()
	Initialize(s, out)
	return s, out
}

func TestNatives(t *testing.T) {
	cases := []struct {
		in   string
		want any
	}{
		{"str(12) + str(TRUE)", "12True"},
		{`int("42")`, int64(42)},
		{`int(" 7.9 ")`, int64(7)},
		{"int(3.9)", int64(3)},
		{"int(TRUE)", int64(1)},
		{"float(2)", 2.0},
		{`float("0.25")`, 0.25},
		{"type({1})", "array"},
		{"type(1.5)", "float"},
		{`len("héllo")`, int64(5)},
		{`len("👍🏽!")`, int64(2)},
		{"len({1, 2, 3})", int64(3)},
		{"len(4)", int64(0)},
		{"get({4, 5, 6}, 1)", int64(5)},
		{"range(3)", []any{int64(0), int64(1), int64(2)}},
		{"range(-1)", []any{}},
		{"ceil(1.2)", int64(2)},
		{"floor(-1.5)", int64(-2)},
		{"ceil(3)", int64(3)},
		{"sqrt(16)", 4.0},
		{"abs(-3)", int64(3)},
		{"abs(-2.5)", 2.5},
		{"pow(2, 10)", int64(1024)},
		{"pow(2, -1)", 0.5},
		{"pow(4, 0.5)", 2.0},
		{"sin(0)", 0.0},
		{"PI > 3.14 AND PI < 3.15", true},
	}

	for _, c := range cases {
		s, _ := newScript(t)
		got, err := s.Eval(c.in)
		if err != nil {
			t.Errorf("Eval(%q) returned %v", c.in, err)
			continue
		}
		if diff := cmp.Diff(c.want, got.ToNative()); diff != "" {
			t.Errorf("Eval(%q) mismatch (-want +got):\n%s", c.in, diff)
		}
	}
}

func TestNativeErrors(t *testing.T) {
	cases := []string{
		"str()",
		`int("x")`,
		`float("x")`,
		"get({1}, 5)",
		`get({1}, "0")`,
		"pow(2)",
		`sqrt("a")`,
		"sqrt(-1)",
		"ceil({1})",
		"set(a, -1, 0)",
	}

	for _, in := range cases {
		s, _ := newScript(t)
		err := s.Exec(in + ";")
		if kind, ok := core.KindOf(err); !ok || kind != core.RuntimeError {
			t.Errorf("%s returned %v, want a runtime error", in, err)
		}
	}
}

func TestArrayReferences(t *testing.T) {
	s, _ := newScript(t)
	err := s.Exec(`
a = {};
push(a, 1);
n = push(a, 2);
set(a, 3, "x");
first = get(a, 0);
`)
	if err != nil {
		t.Fatal(err)
	}

	a, _ := s.Get("a")
	if diff := cmp.Diff([]any{int64(1), int64(2), int64(0), "x"}, a.ToNative()); diff != "" {
		t.Errorf("a mismatch (-want +got):\n%s", diff)
	}
	if n, _ := s.Get("n"); n.Int() != 2 {
		t.Errorf("push returned %s, want 2", n)
	}
	if first, _ := s.Get("first"); first.Int() != 1 {
		t.Errorf("first = %s, want 1", first)
	}
}

func TestPrint(t *testing.T) {
	s, out := newScript(t)
	err := core.Interpret(s, `
FOR i IN range(3) { print("i =", i, i * 0.5); }
print();
print({1, "a"});
`)
	if err != nil {
		t.Fatal(err)
	}

	want := "i = 0 0\ni = 1 0.5\ni = 2 1\n\n{1, a}\n"
	if diff := cmp.Diff(want, out.String()); diff != "" {
		t.Errorf("output mismatch (-want +got):\n%s", diff)
	}
}

func TestConstants(t *testing.T) {
	s, _ := newScript(t)
	pi, ok := s.Get("PI")
	if !ok || pi.Float() != math.Pi {
		t.Errorf("PI = %v", pi)
	}
	e, ok := s.Get("E")
	if !ok || e.Float() != math.E {
		t.Errorf("E = %v", e)
	}
}
