package modules

import (
	"math"

	"github.com/tucanscript/tucan/core"
)

func loadMath(s *core.Script) {
	s.Set("PI", core.NewFloat(math.Pi))
	s.Set("E", core.NewFloat(math.E))

	s.LoadFunc("ceil", ceil, "x")
	s.LoadFunc("floor", floor, "x")
	s.LoadFunc("sqrt", sqrt, "x")
	s.LoadFunc("abs", abs, "x")
	s.LoadFunc("pow", pow, "base", "exp")
	s.LoadFunc("sin", sin, "x")
}

// number reads a numeric argument, widening ints.
func number(f *core.Frame, i int) (float64, error) {
	arg := f.Arg(i)
	switch arg.Type() {
	case core.IntType:
		return float64(arg.Int()), nil
	case core.FloatType:
		return arg.Float(), nil
	default:
		return 0, f.Errorf("does not support type %s", arg.Type())
	}
}

func ceil(f *core.Frame) error {
	if err := f.RequireArgLen(1); err != nil {
		return err
	}

	switch arg := f.Arg(0); arg.Type() {
	case core.IntType:
		f.SetResult(arg)
	case core.FloatType:
		f.Result().SetInt(int64(math.Ceil(arg.Float())))
	default:
		return f.Errorf("does not support type %s", arg.Type())
	}
	return nil
}

func floor(f *core.Frame) error {
	if err := f.RequireArgLen(1); err != nil {
		return err
	}

	switch arg := f.Arg(0); arg.Type() {
	case core.IntType:
		f.SetResult(arg)
	case core.FloatType:
		f.Result().SetInt(int64(math.Floor(arg.Float())))
	default:
		return f.Errorf("does not support type %s", arg.Type())
	}
	return nil
}

func sqrt(f *core.Frame) error {
	if err := f.RequireArgLen(1); err != nil {
		return err
	}

	x, err := number(f, 0)
	if err != nil {
		return err
	}
	if x < 0 {
		return f.Errorf("negative argument %v", x)
	}
	f.Result().SetFloat(math.Sqrt(x))
	return nil
}

func abs(f *core.Frame) error {
	if err := f.RequireArgLen(1); err != nil {
		return err
	}

	switch arg := f.Arg(0); arg.Type() {
	case core.IntType:
		n := arg.Int()
		if n < 0 {
			n = -n
		}
		f.Result().SetInt(n)
	case core.FloatType:
		f.Result().SetFloat(math.Abs(arg.Float()))
	default:
		return f.Errorf("does not support type %s", arg.Type())
	}
	return nil
}

// pow stays integral for an int base raised to a non-negative int.
func pow(f *core.Frame) error {
	if err := f.RequireArgLen(2); err != nil {
		return err
	}

	base, exp := f.Arg(0), f.Arg(1)
	if base.Type() == core.IntType && exp.Type() == core.IntType && exp.Int() >= 0 {
		result := int64(1)
		for i := int64(0); i < exp.Int(); i++ {
			result *= base.Int()
		}
		f.Result().SetInt(result)
		return nil
	}

	b, err := number(f, 0)
	if err != nil {
		return err
	}
	e, err := number(f, 1)
	if err != nil {
		return err
	}
	f.Result().SetFloat(math.Pow(b, e))
	return nil
}

func sin(f *core.Frame) error {
	if err := f.RequireArgLen(1); err != nil {
		return err
	}

	x, err := number(f, 0)
	if err != nil {
		return err
	}
	f.Result().SetFloat(math.Sin(x))
	return nil
}
