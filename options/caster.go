package options

import (
	"errors"
	"reflect"
)

var (
	ErrIsNotAFunction       = errors.New("provided value is not a function")
	ErrUnsupportedSignature = errors.New("provided function is neither a comparer nor a copier")
	ErrDoublePointer        = errors.New("custom function does not support double pointers")
	ErrUnknownValue         = errors.New("unknown value")
)

// FuncKind tells how a custom function participates in a traversal.
type FuncKind int

const (
	FuncComparer FuncKind = iota + 1
	FuncCopier
)

// Func is a validated custom comparer or copier.
type Func struct {
	Kind FuncKind
	// Type is the type the function is registered for.
	Type reflect.Type
	// WithTarget is true for copiers that receive the current target value.
	WithTarget bool

	fn reflect.Value
}

// ParseFunc inspects fn and returns a Func if it is a recognizable custom function.
//
// Supports signatures:
//   - func(x, y T) bool     - comparer
//   - func(src, dst T) T    - copier that may reuse dst
//   - func(src T) T         - copier
func ParseFunc(fn any) (Func, error) {
	if fn == nil {
		return Func{}, ErrIsNotAFunction
	}

	fnVal := reflect.ValueOf(fn)
	fnType := fnVal.Type()
	if fnType.Kind() != reflect.Func {
		return Func{}, ErrIsNotAFunction
	}

	if fnVal.IsNil() || fnType.NumIn() == 0 || fnType.NumOut() != 1 || fnType.IsVariadic() {
		return Func{}, ErrUnsupportedSignature
	}

	subject := fnType.In(0)
	if subject.Kind() == reflect.Ptr && subject.Elem().Kind() == reflect.Ptr {
		return Func{}, ErrDoublePointer
	}

	for i := 1; i < fnType.NumIn(); i++ {
		if fnType.In(i) != subject {
			return Func{}, ErrUnsupportedSignature
		}
	}

	out := fnType.Out(0)

	switch {
	default:
		return Func{}, ErrUnsupportedSignature

	case fnType.NumIn() == 2 && out.Kind() == reflect.Bool && subject.Kind() != reflect.Bool:
		return Func{Kind: FuncComparer, Type: subject, fn: fnVal}, nil

	case fnType.NumIn() == 2 && out == subject:
		return Func{Kind: FuncCopier, Type: subject, WithTarget: true, fn: fnVal}, nil

	case fnType.NumIn() == 1 && out == subject:
		return Func{Kind: FuncCopier, Type: subject, fn: fnVal}, nil
	}
}

// Equal calls a comparer.
func (f Func) Equal(x, y reflect.Value) bool {
	return f.fn.Call([]reflect.Value{x, y})[0].Bool()
}

// Copy calls a copier and returns the value to store in the target.
func (f Func) Copy(src, dst reflect.Value) reflect.Value {
	if !f.WithTarget {
		return f.fn.Call([]reflect.Value{src})[0]
	}

	if !dst.IsValid() {
		dst = reflect.Zero(f.Type)
	}

	return f.fn.Call([]reflect.Value{src, dst})[0]
}
