package equal

import (
	"reflect"

	"deepstate/internal/typefacts"
	"deepstate/node"
)

// leaf compares values of an immutable or equatable type. Invalid values stand
// for items missing on one side.
func (c *comparer) leaf(x, y reflect.Value, t reflect.Type) bool {
	if !x.IsValid() || !y.IsValid() {
		return x.IsValid() == y.IsValid()
	}

	if fn, ok := c.s.Comparer(t); ok {
		return fn.Equal(x, y)
	}

	if typefacts.HasEqualMethod(t) {
		if nilable(x) && (x.IsNil() || y.IsNil()) {
			return x.IsNil() == y.IsNil()
		}

		return x.MethodByName("Equal").Call([]reflect.Value{y})[0].Bool()
	}

	switch t.Kind() {
	case reflect.Bool:
		return x.Bool() == y.Bool()
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return x.Int() == y.Int()
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return x.Uint() == y.Uint()
	case reflect.Float32, reflect.Float64:
		return x.Float() == y.Float()
	case reflect.Complex64, reflect.Complex128:
		return x.Complex() == y.Complex()
	case reflect.String:
		return x.String() == y.String()
	case reflect.Func, reflect.UnsafePointer, reflect.Chan:
		return x.Pointer() == y.Pointer()

	case reflect.Interface:
		if x.IsNil() || y.IsNil() {
			return x.IsNil() == y.IsNil()
		}

		if x.Elem().Type() != y.Elem().Type() {
			return false
		}

		return c.leaf(node.Addressable(x.Elem()), node.Addressable(y.Elem()), x.Elem().Type())

	case reflect.Ptr:
		return c.sealedPointer(x, y, t)

	case reflect.Array:
		for i := 0; i < x.Len(); i++ {
			if !c.leaf(x.Index(i), y.Index(i), t.Elem()) {
				return false
			}
		}

		return true

	case reflect.Struct:
		for _, m := range node.Members(t, c.s) {
			if !c.leaf(m.Get(x), m.Get(y), m.Type) {
				return false
			}
		}

		return true

	default:
		// slices and maps forced immutable
		return reflect.DeepEqual(x.Interface(), y.Interface())
	}
}

// sealedPointer compares pointers to immutable values by their targets. A pair
// met again is assumed equal, which holds for self-referencing sealed types.
func (c *comparer) sealedPointer(x, y reflect.Value, t reflect.Type) bool {
	if x.IsNil() || y.IsNil() {
		return x.IsNil() == y.IsNil()
	}

	if x.Pointer() == y.Pointer() {
		return true
	}

	if _, ok := c.sealed.Enter(x, y); !ok {
		return true
	}

	return c.leaf(x.Elem(), y.Elem(), t.Elem())
}
