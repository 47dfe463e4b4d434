package modules

import (
	"github.com/tucanscript/tucan/core"
)

func loadArray(s *core.Script) {
	s.LoadFunc("get", get, "array", "index")
	s.LoadFunc("set", set, "&array", "index", "value")
	s.LoadFunc("push", push, "&array", "value")
	s.LoadFunc("range", rangeOf, "n")
}

func index(f *core.Frame, i int) (int, error) {
	arg := f.Arg(i)
	if arg.Type() != core.IntType {
		return 0, f.Errorf("index must be int, got %s", arg.Type())
	}
	return int(arg.Int()), nil
}

func get(f *core.Frame) error {
	if err := f.RequireArgLen(2); err != nil {
		return err
	}

	i, err := index(f, 1)
	if err != nil {
		return err
	}
	item, ok := f.Arg(0).Index(i)
	if !ok {
		return f.Errorf("index %d out of range", i)
	}
	f.SetResult(item)
	return nil
}

func set(f *core.Frame) error {
	if err := f.RequireArgLen(3); err != nil {
		return err
	}

	i, err := index(f, 1)
	if err != nil {
		return err
	}
	if err := f.Arg(0).SetIndex(i, f.Arg(2)); err != nil {
		return err
	}
	f.SetResult(f.Arg(0))
	return nil
}

func push(f *core.Frame) error {
	if err := f.RequireArgLen(2); err != nil {
		return err
	}

	f.Arg(0).Append(f.Arg(1))
	f.Result().SetInt(int64(f.Arg(0).Len()))
	return nil
}

// rangeOf builds {0, 1, ..., n-1}.
func rangeOf(f *core.Frame) error {
	if err := f.RequireArgLen(1); err != nil {
		return err
	}

	n, err := index(f, 0)
	if err != nil {
		return err
	}
	if n < 0 {
		n = 0
	}
	items := make([]*core.Value, 0, n)
	for i := 0; i < n; i++ {
		items = append(items, core.NewInt(int64(i)))
	}
	f.SetResult(core.NewArray(items...))
	return nil
}
