package core

import (
	"fmt"
)

// ToNative converts v into the nearest Go primitive: string, int64,
// float64, bool or []any for arrays.
func (v *Value) ToNative() any {
	switch v.kind {
	case StringType:
		return v.str
	case IntType:
		return v.i
	case FloatType:
		return v.f
	case BoolType:
		return v.b
	case ArrayType:
		items := make([]any, len(v.arr))
		for i, item := range v.arr {
			items[i] = item.ToNative()
		}
		return items
	}
	return nil
}

// FromNative is the inverse of ToNative. It also accepts the other Go
// integer and float widths and typed scalar slices.
func FromNative(native any) (*Value, error) {
	switch n := native.(type) {
	case *Value:
		return n.Clone(), nil
	case string:
		return NewString(n), nil
	case bool:
		return NewBool(n), nil
	case int:
		return NewInt(int64(n)), nil
	case int8:
		return NewInt(int64(n)), nil
	case int16:
		return NewInt(int64(n)), nil
	case int32:
		return NewInt(int64(n)), nil
	case int64:
		return NewInt(n), nil
	case uint:
		return NewInt(int64(n)), nil
	case uint8:
		return NewInt(int64(n)), nil
	case uint16:
		return NewInt(int64(n)), nil
	case uint32:
		return NewInt(int64(n)), nil
	case uint64:
		return NewInt(int64(n)), nil
	case float32:
		return NewFloat(float64(n)), nil
	case float64:
		return NewFloat(n), nil
	case []any:
		return fromSlice(n)
	case []string:
		return fromSlice(n)
	case []int:
		return fromSlice(n)
	case []int64:
		return fromSlice(n)
	case []float64:
		return fromSlice(n)
	case []bool:
		return fromSlice(n)
	}

	return nil, &Error{
		Kind:   RuntimeError,
		Reason: fmt.Sprintf("cannot convert %T to a value", native),
	}
}

func fromSlice[T any](items []T) (*Value, error) {
	arr := make([]*Value, len(items))
	for i, item := range items {
		v, err := FromNative(item)
		if err != nil {
			return nil, err
		}
		arr[i] = v
	}
	return &Value{kind: ArrayType, arr: arr}, nil
}
