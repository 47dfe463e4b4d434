package modules

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/rivo/uniseg"

	"github.com/tucanscript/tucan/core"
)

func loadStd(s *core.Script, out io.Writer) {
	s.LoadFunc("print", func(f *core.Frame) error {
		parts := make([]string, f.Len())
		for i, arg := range f.Args() {
			parts[i] = arg.String()
		}
		_, err := fmt.Fprintln(out, strings.Join(parts, " "))
		return err
	})

	s.LoadFunc("str", str, "x")
	s.LoadFunc("int", toInt, "x")
	s.LoadFunc("float", toFloat, "x")
	s.LoadFunc("type", typeOf, "x")
	s.LoadFunc("len", length, "x")
}

func str(f *core.Frame) error {
	if err := f.RequireArgLen(1); err != nil {
		return err
	}
	f.Result().SetString(f.Arg(0).String())
	return nil
}

func toInt(f *core.Frame) error {
	if err := f.RequireArgLen(1); err != nil {
		return err
	}

	switch arg := f.Arg(0); arg.Type() {
	case core.IntType:
		f.SetResult(arg)
	case core.FloatType:
		f.Result().SetInt(int64(arg.Float()))
	case core.BoolType:
		if arg.Bool() {
			f.Result().SetInt(1)
		} else {
			f.Result().SetInt(0)
		}
	case core.StringType:
		text := strings.TrimSpace(arg.Str())
		if n, err := strconv.ParseInt(text, 10, 64); err == nil {
			f.Result().SetInt(n)
			return nil
		}
		n, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return f.Errorf("cannot convert %q to int", arg.Str())
		}
		f.Result().SetInt(int64(n))
	default:
		return f.Errorf("does not support type %s", arg.Type())
	}
	return nil
}

func toFloat(f *core.Frame) error {
	if err := f.RequireArgLen(1); err != nil {
		return err
	}

	switch arg := f.Arg(0); arg.Type() {
	case core.IntType:
		f.Result().SetFloat(float64(arg.Int()))
	case core.FloatType:
		f.SetResult(arg)
	case core.BoolType:
		if arg.Bool() {
			f.Result().SetFloat(1)
		} else {
			f.Result().SetFloat(0)
		}
	case core.StringType:
		n, err := strconv.ParseFloat(strings.TrimSpace(arg.Str()), 64)
		if err != nil {
			return f.Errorf("cannot convert %q to float", arg.Str())
		}
		f.Result().SetFloat(n)
	default:
		return f.Errorf("does not support type %s", arg.Type())
	}
	return nil
}

func typeOf(f *core.Frame) error {
	if err := f.RequireArgLen(1); err != nil {
		return err
	}
	f.Result().SetString(f.Arg(0).Type().String())
	return nil
}

// length counts user-perceived characters of a string, elements of an
// array, and is 0 otherwise.
func length(f *core.Frame) error {
	if err := f.RequireArgLen(1); err != nil {
		return err
	}

	switch arg := f.Arg(0); arg.Type() {
	case core.StringType:
		f.Result().SetInt(int64(uniseg.GraphemeClusterCount(arg.Str())))
	default:
		f.Result().SetInt(int64(arg.Len()))
	}
	return nil
}
