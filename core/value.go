package core

import (
	"math"
	"strconv"
	"strings"
)

type ValueType int

const (
	StringType ValueType = iota
	IntType
	FloatType
	BoolType
	ArrayType
)

func (t ValueType) String() string {
	switch t {
	case StringType:
		return "string"
	case IntType:
		return "int"
	case FloatType:
		return "float"
	case BoolType:
		return "bool"
	case ArrayType:
		return "array"
	}
	return "unknown"
}

// floatEpsilon bounds equality whenever a float takes part in a comparison.
const floatEpsilon = math.SmallestNonzeroFloat64

// Value is the dynamically typed runtime datum. Only the payload matching
// kind is meaningful; every mutator clears the others.
type Value struct {
	kind ValueType
	str  string
	i    int64
	f    float64
	b    bool
	arr  []*Value
}

func NewString(s string) *Value {
	return &Value{kind: StringType, str: s}
}

func NewInt(n int64) *Value {
	return &Value{kind: IntType, i: n}
}

func NewFloat(f float64) *Value {
	return &Value{kind: FloatType, f: f}
}

func NewBool(b bool) *Value {
	return &Value{kind: BoolType, b: b}
}

// NewArray builds an array holding copies of items.
func NewArray(items ...*Value) *Value {
	arr := make([]*Value, len(items))
	for i, item := range items {
		arr[i] = item.Clone()
	}
	return &Value{kind: ArrayType, arr: arr}
}

func (v *Value) Type() ValueType {
	return v.kind
}

func (v *Value) Str() string {
	return v.str
}

func (v *Value) Int() int64 {
	return v.i
}

func (v *Value) Float() float64 {
	return v.f
}

func (v *Value) Bool() bool {
	return v.b
}

func (v *Value) SetString(s string) {
	*v = Value{kind: StringType, str: s}
}

func (v *Value) SetInt(n int64) {
	*v = Value{kind: IntType, i: n}
}

func (v *Value) SetFloat(f float64) {
	*v = Value{kind: FloatType, f: f}
}

func (v *Value) SetBool(b bool) {
	*v = Value{kind: BoolType, b: b}
}

// Set replaces the receiver with a deep copy of other.
func (v *Value) Set(other *Value) {
	if v == other {
		return
	}
	*v = *other.Clone()
}

func (v *Value) Clone() *Value {
	c := &Value{kind: v.kind, str: v.str, i: v.i, f: v.f, b: v.b}
	if v.kind == ArrayType {
		c.arr = make([]*Value, len(v.arr))
		for i, item := range v.arr {
			c.arr[i] = item.Clone()
		}
	}
	return c
}

func (v *Value) isNumeric() bool {
	return v.kind == IntType || v.kind == FloatType
}

// number returns the numeric payload widened to float64.
func (v *Value) number() float64 {
	if v.kind == IntType {
		return float64(v.i)
	}
	return v.f
}

func (v *Value) String() string {
	switch v.kind {
	case StringType:
		return v.str
	case IntType:
		return strconv.FormatInt(v.i, 10)
	case FloatType:
		return strconv.FormatFloat(v.f, 'g', -1, 64)
	case BoolType:
		if v.b {
			return "True"
		}
		return "False"
	case ArrayType:
		items := make([]string, len(v.arr))
		for i, item := range v.arr {
			items[i] = item.String()
		}
		return "{" + strings.Join(items, ", ") + "}"
	}
	return ""
}

func (v *Value) Truthy() bool {
	switch v.kind {
	case StringType:
		return len(v.str) > 0
	case IntType:
		return v.i != 0
	case FloatType:
		return v.f != 0
	case BoolType:
		return v.b
	case ArrayType:
		return len(v.arr) > 0
	}
	return false
}

func (v *Value) Len() int {
	if v.kind == ArrayType {
		return len(v.arr)
	}
	return 0
}

// Index returns the element cell at i, or false when v is not an array or
// i is out of range.
func (v *Value) Index(i int) (*Value, bool) {
	if v.kind != ArrayType || i < 0 || i >= len(v.arr) {
		return nil, false
	}
	return v.arr[i], true
}

// SetIndex stores a copy of item at i. A non-array receiver becomes an
// empty array first; an index past the end grows the array with integer
// zeros.
func (v *Value) SetIndex(i int, item *Value) error {
	if i < 0 {
		return &Error{Kind: RuntimeError, Reason: "negative array index " + strconv.Itoa(i)}
	}
	if v.kind != ArrayType {
		*v = Value{kind: ArrayType, arr: []*Value{}}
	}
	for len(v.arr) <= i {
		v.arr = append(v.arr, NewInt(0))
	}
	v.arr[i] = item.Clone()
	return nil
}

func (v *Value) Append(item *Value) {
	if v.kind != ArrayType {
		*v = Value{kind: ArrayType, arr: []*Value{}}
	}
	v.arr = append(v.arr, item.Clone())
}

// Elements returns the element cells of an array, nil for scalars.
func (v *Value) Elements() []*Value {
	if v.kind != ArrayType {
		return nil
	}
	return v.arr
}

func (v *Value) Add(o *Value) {
	if v.kind == StringType {
		v.SetString(v.str + o.String())
		return
	}

	switch o.kind {
	case StringType:
		if v.kind == ArrayType {
			return
		}
		v.SetString(v.String() + o.str)
	case IntType:
		switch v.kind {
		case IntType:
			v.SetInt(v.i + o.i)
		case FloatType:
			v.SetFloat(v.f + float64(o.i))
		}
	case FloatType:
		switch v.kind {
		case IntType:
			v.SetFloat(float64(v.i) + o.f)
		case FloatType:
			v.SetFloat(v.f + o.f)
		}
	}
}

// arith applies a numeric operator with the int/float promotion rule:
// int⊗int stays int, anything involving a float makes the receiver float.
// Non-numeric combinations leave the receiver untouched.
func (v *Value) arith(o *Value, ints func(a, b int64) int64, floats func(a, b float64) float64) {
	if !v.isNumeric() || !o.isNumeric() {
		return
	}
	if v.kind == IntType && o.kind == IntType {
		v.SetInt(ints(v.i, o.i))
		return
	}
	v.SetFloat(floats(v.number(), o.number()))
}

func (v *Value) Sub(o *Value) {
	v.arith(o,
		func(a, b int64) int64 { return a - b },
		func(a, b float64) float64 { return a - b })
}

func (v *Value) Mul(o *Value) {
	v.arith(o,
		func(a, b int64) int64 { return a * b },
		func(a, b float64) float64 { return a * b })
}

func (v *Value) Div(o *Value) error {
	if v.kind == IntType && o.kind == IntType && o.i == 0 {
		return &Error{Kind: DivisionByZero, Reason: "integer division by zero"}
	}
	v.arith(o,
		func(a, b int64) int64 { return a / b },
		func(a, b float64) float64 { return a / b })
	return nil
}

func (v *Value) Rem(o *Value) error {
	if v.kind == IntType && o.kind == IntType && o.i == 0 {
		return &Error{Kind: DivisionByZero, Reason: "integer remainder by zero"}
	}
	v.arith(o,
		func(a, b int64) int64 { return a % b },
		math.Mod)
	return nil
}

func (v *Value) Equal(o *Value) {
	v.SetBool(v.equals(o))
}

func (v *Value) equals(o *Value) bool {
	if v.kind == ArrayType || o.kind == ArrayType {
		if v.kind != o.kind || len(v.arr) != len(o.arr) {
			return false
		}
		for i := range v.arr {
			if !v.arr[i].equals(o.arr[i]) {
				return false
			}
		}
		return true
	}

	switch {
	case v.kind == StringType || o.kind == StringType:
		return v.String() == o.String()
	case v.kind == BoolType && o.kind == BoolType:
		return v.b == o.b
	case v.kind == BoolType:
		return v.b == (o.number() != 0)
	case o.kind == BoolType:
		return (v.number() != 0) == o.b
	case v.kind == IntType && o.kind == IntType:
		return v.i == o.i
	default:
		return math.Abs(v.number()-o.number()) < floatEpsilon
	}
}

// compare orders two values; ok is false when the pair has no ordering.
func (v *Value) compare(o *Value) (int, bool) {
	switch {
	case v.kind == IntType && o.kind == IntType:
		switch {
		case v.i < o.i:
			return -1, true
		case v.i > o.i:
			return 1, true
		}
		return 0, true
	case v.isNumeric() && o.isNumeric():
		a, b := v.number(), o.number()
		switch {
		case math.IsNaN(a) || math.IsNaN(b):
			return 0, false
		case a < b:
			return -1, true
		case a > b:
			return 1, true
		}
		return 0, true
	case v.kind == StringType && o.kind == StringType:
		return strings.Compare(v.str, o.str), true
	case v.kind == BoolType && o.kind == BoolType:
		switch {
		case v.b == o.b:
			return 0, true
		case o.b:
			return -1, true
		}
		return 1, true
	}
	return 0, false
}

func (v *Value) Greater(o *Value) {
	c, ok := v.compare(o)
	v.SetBool(ok && c > 0)
}

func (v *Value) Less(o *Value) {
	c, ok := v.compare(o)
	v.SetBool(ok && c < 0)
}

func (v *Value) GEqual(o *Value) {
	c, ok := v.compare(o)
	v.SetBool(ok && c >= 0)
}

func (v *Value) LEqual(o *Value) {
	c, ok := v.compare(o)
	v.SetBool(ok && c <= 0)
}

// And and Or only act on a boolean receiver; a non-boolean operand counts
// as false.
func (v *Value) And(o *Value) {
	if v.kind == BoolType {
		v.SetBool(v.b && o.kind == BoolType && o.b)
	}
}

func (v *Value) Or(o *Value) {
	if v.kind == BoolType {
		v.SetBool(v.b || (o.kind == BoolType && o.b))
	}
}
