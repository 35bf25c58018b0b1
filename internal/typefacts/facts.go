package typefacts

import (
	"reflect"
	"sync"

	"deepstate/primitive"
)

var (
	immutableCache sync.Map // reflect.Type -> bool
	equatableCache sync.Map // reflect.Type -> bool
)

// IsImmutable reports whether values of t cannot be modified once created, so
// they may be shared between graphs and compared by value.
//
// Immutable are: primitives and other basic kinds, funcs, arrays of immutable
// elements, structs whose fields are all immutable, and pointers to structs whose
// fields are all immutable and tagged `state:"readonly"`.
func IsImmutable(t reflect.Type) bool {
	if t == nil {
		return false
	}

	if v, ok := immutableCache.Load(t); ok {
		return v.(bool)
	}

	c := checker{visiting: make(map[reflect.Type]struct{})}
	result, _ := c.isImmutable(t)
	immutableCache.Store(t, result)

	return result
}

// checker carries the types currently being checked. A type that reappears in
// its own chain is assumed immutable for that chain, such verdicts are only
// cached once the outermost check completes.
type checker struct {
	visiting map[reflect.Type]struct{}
}

func (c *checker) isImmutable(t reflect.Type) (result, assumed bool) {
	if v, ok := immutableCache.Load(t); ok {
		return v.(bool), false
	}

	if _, ok := c.visiting[t]; ok {
		return true, true
	}

	c.visiting[t] = struct{}{}
	defer delete(c.visiting, t)

	result, assumed = c.classify(t)
	if !assumed {
		immutableCache.Store(t, result)
	}

	return result, assumed
}

func (c *checker) classify(t reflect.Type) (result, assumed bool) {
	if primitive.FromReflectType(t) != 0 {
		return true, false
	}

	switch t.Kind() {
	case reflect.Bool, reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
		reflect.Float32, reflect.Float64, reflect.Complex64, reflect.Complex128,
		reflect.String, reflect.UnsafePointer, reflect.Func:
		return true, false

	case reflect.Array:
		return c.isImmutable(t.Elem())

	case reflect.Struct:
		return c.fields(t, false)

	case reflect.Ptr:
		if t.Elem().Kind() != reflect.Struct {
			return false, false
		}

		return c.fields(t.Elem(), true)

	default:
		// slices, maps, chans and interfaces
		return false, false
	}
}

func (c *checker) fields(t reflect.Type, sealed bool) (result, assumed bool) {
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		tag := ParseTag(f)

		if tag.Ignored {
			continue
		}

		if sealed && !tag.ReadOnly {
			return false, false
		}

		ok, a := c.isImmutable(f.Type)
		assumed = assumed || a

		if !ok {
			return false, false
		}
	}

	return true, assumed
}

// IsEquatable reports whether values of t define their own equality: primitives,
// enums and other basic kinds, types with a method Equal(t) bool, and pointers
// to equatable value types.
func IsEquatable(t reflect.Type) bool {
	if t == nil {
		return false
	}

	if v, ok := equatableCache.Load(t); ok {
		return v.(bool)
	}

	result := isEquatable(t)
	equatableCache.Store(t, result)

	return result
}

func isEquatable(t reflect.Type) bool {
	if primitive.FromReflectType(t) != 0 || HasEqualMethod(t) {
		return true
	}

	switch t.Kind() {
	case reflect.Float32, reflect.Float64, reflect.Complex64, reflect.Complex128,
		reflect.Uintptr, reflect.UnsafePointer:
		return true

	case reflect.Ptr:
		// nullable wrapper: delegates to the element
		return isValueKind(t.Elem().Kind()) && IsEquatable(t.Elem())

	default:
		return false
	}
}

// HasEqualMethod reports whether t has a method Equal(t) bool.
func HasEqualMethod(t reflect.Type) bool {
	m, ok := t.MethodByName("Equal")
	if !ok {
		return false
	}

	// method types from a concrete type include the receiver
	mt := m.Type
	if t.Kind() == reflect.Interface {
		return mt.NumIn() == 1 && mt.In(0) == t && mt.NumOut() == 1 && mt.Out(0).Kind() == reflect.Bool
	}

	return mt.NumIn() == 2 && mt.In(1) == t && mt.NumOut() == 1 && mt.Out(0).Kind() == reflect.Bool
}

// IsValueKind reports whether values of t are copied whole on assignment and
// therefore carry no identity.
func IsValueKind(t reflect.Type) bool {
	return isValueKind(t.Kind())
}

func isValueKind(k reflect.Kind) bool {
	switch k {
	case reflect.Ptr, reflect.Slice, reflect.Map, reflect.Interface, reflect.Chan, reflect.Func, reflect.UnsafePointer:
		return false
	default:
		return true
	}
}
