package core

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestNativeRoundTrip(t *testing.T) {
	cases := []struct {
		in   any
		want any
	}{
		{"hello", "hello"},
		{int64(42), int64(42)},
		{7, int64(7)},
		{uint8(9), int64(9)},
		{float32(1.5), 1.5},
		{2.25, 2.25},
		{true, true},
		{[]any{1, "a", []any{false}}, []any{int64(1), "a", []any{false}}},
		{[]string{"x", "y"}, []any{"x", "y"}},
		{[]float64{}, []any{}},
	}

	for _, c := range cases {
		v, err := FromNative(c.in)
		if err != nil {
			t.Errorf("FromNative(%#v) returned %v", c.in, err)
			continue
		}
		if diff := cmp.Diff(c.want, v.ToNative()); diff != "" {
			t.Errorf("FromNative(%#v) mismatch (-want +got):\n%s", c.in, diff)
		}
	}

	if _, err := FromNative(map[string]int{}); err == nil {
		t.Error("FromNative of a map should fail")
	}
}

func TestLoadFunc(t *testing.T) {
	s := NewScript()
	s.LoadFunc("twice", func(f *Frame) error {
		if err := f.RequireArgLen(1); err != nil {
			return err
		}
		f.Result().SetInt(f.Arg(0).Int() * 2)
		return nil
	}, "n")
	s.LoadFunc("bump", func(f *Frame) error {
		f.Arg(0).Add(NewInt(10))
		return nil
	}, "&n")

	got, err := s.Eval("twice(21)")
	if err != nil {
		t.Fatal(err)
	}
	if got.Int() != 42 {
		t.Errorf("twice(21) = %s, want 42", got)
	}

	if err := s.Exec("a = 1; bump(a); b = twice(a) + 1;"); err != nil {
		t.Fatal(err)
	}
	if a, _ := s.Get("a"); a.Int() != 11 {
		t.Errorf("a = %s after bump, want 11", a)
	}
	if b, _ := s.Get("b"); b.Int() != 23 {
		t.Errorf("b = %s, want 23", b)
	}

	err = s.Exec("twice();")
	if kind, ok := KindOf(err); !ok || kind != RuntimeError {
		t.Errorf("twice() returned %v, want a runtime error", err)
	}
}

func TestLoadFuncVariadic(t *testing.T) {
	s := NewScript()
	s.LoadFunc("sum", func(f *Frame) error {
		total := NewInt(0)
		for _, arg := range f.Args() {
			total.Add(arg)
		}
		f.SetResult(total)
		return nil
	})

	got, err := s.Eval("sum(1, 2, 3.5)")
	if err != nil {
		t.Fatal(err)
	}
	if got.Float() != 6.5 {
		t.Errorf("sum(1, 2, 3.5) = %s, want 6.5", got)
	}

	names := []string{}
	fn, _ := s.function("sum")
	for _, p := range fn.Params() {
		names = append(names, p.String())
	}
	if diff := cmp.Diff([]string{"arg0", "arg1", "arg2"}, names); diff != "" {
		t.Errorf("params mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadFuncAttachesToDeclaration(t *testing.T) {
	s := NewScript()
	if err := s.Load("DEF host &out;"); err != nil {
		t.Fatal(err)
	}
	s.LoadFunc("host", func(f *Frame) error {
		f.Arg(0).SetString("from host")
		return nil
	})

	if err := s.Exec(`v = ""; host(v);`); err != nil {
		t.Fatal(err)
	}
	if v, _ := s.Get("v"); v.Str() != "from host" {
		t.Errorf("v = %q, want %q", v, "from host")
	}
}

func TestCall(t *testing.T) {
	s := NewScript()
	err := s.Load(`DEF fib n;
IMP fib {
  fib = n;
  IF n > 1 { fib = fib(n - 1) + fib(n - 2); }
}
DEF swap &a &b;
IMP swap { t = a; a = b; b = t; }`)
	if err != nil {
		t.Fatal(err)
	}

	got, err := s.Call("fib", NewInt(10))
	if err != nil {
		t.Fatal(err)
	}
	if got.Int() != 55 {
		t.Errorf("fib(10) = %s, want 55", got)
	}

	a, b := NewString("left"), NewString("right")
	if _, err := s.Call("swap", a, b); err != nil {
		t.Fatal(err)
	}
	if a.Str() != "right" || b.Str() != "left" {
		t.Errorf("swap left (%s, %s)", a, b)
	}

	_, err = s.Call("nothing")
	if kind, ok := KindOf(err); !ok || kind != UndefinedReference {
		t.Errorf("Call of an undeclared function returned %v", err)
	}
}
