package node

import (
	"reflect"

	"deepstate/diagnostic"
)

// slice is the resizable list strategy of Go slices. Copy rebuilds the slice at
// the source length when the lengths differ, reusing the existing target items.
type slice struct{ t reflect.Type }

func (s slice) Kind() Kind         { return KindList }
func (s slice) Elem() reflect.Type { return s.t.Elem() }

func (s slice) Equal(x, y reflect.Value, item ItemEqual) (bool, error) {
	return indexedEqual(x.Len(), y.Len(), x.Index, y.Index, item)
}

func (s slice) Diff(x, y reflect.Value, item ItemEqual) ([]any, error) {
	return indexedDiff(x.Len(), y.Len(), x.Index, y.Index, item)
}

func (s slice) Copy(src, dst reflect.Value, item ItemCopy) (reflect.Value, error) {
	if src.IsNil() {
		return reflect.Zero(s.t), nil
	}

	n := src.Len()
	out := dst
	existing := 0

	if !dst.IsValid() || dst.IsNil() || dst.Len() != n {
		out = reflect.MakeSlice(s.t, n, n)
		if dst.IsValid() && !dst.IsNil() {
			existing = reflect.Copy(out, dst)
		}
	} else {
		existing = n
	}

	for i := 0; i < n; i++ {
		var current reflect.Value
		if i < existing {
			current = out.Index(i)
		}

		v, err := item(i, src.Index(i), current)
		if err != nil {
			return dst, err
		}

		out.Index(i).Set(v)
	}

	return out, nil
}

// array is the fixed-size list strategy of Go arrays.
type array struct{ t reflect.Type }

func (a array) Kind() Kind         { return KindArray }
func (a array) Elem() reflect.Type { return a.t.Elem() }

func (a array) Equal(x, y reflect.Value, item ItemEqual) (bool, error) {
	return indexedEqual(x.Len(), y.Len(), x.Index, y.Index, item)
}

func (a array) Diff(x, y reflect.Value, item ItemEqual) ([]any, error) {
	return indexedDiff(x.Len(), y.Len(), x.Index, y.Index, item)
}

func (a array) Copy(src, dst reflect.Value, item ItemCopy) (reflect.Value, error) {
	out := reflect.New(a.t).Elem()
	if dst.IsValid() {
		out.Set(dst)
	}

	for i := 0; i < a.t.Len(); i++ {
		var current reflect.Value
		if dst.IsValid() {
			current = out.Index(i)
		}

		v, err := item(i, src.Index(i), current)
		if err != nil {
			return dst, err
		}

		out.Index(i).Set(v)
	}

	return out, nil
}

// customList is the strategy of types implementing List.
type customList struct {
	t         reflect.Type
	elem      reflect.Type
	resizable bool
}

func (l customList) Kind() Kind {
	if l.resizable {
		return KindList
	}

	return KindArray
}

func (l customList) Elem() reflect.Type { return l.elem }

func (l customList) Equal(x, y reflect.Value, item ItemEqual) (bool, error) {
	xl, yl := x.Interface().(List), y.Interface().(List)
	return indexedEqual(xl.Len(), yl.Len(), l.index(xl), l.index(yl), item)
}

func (l customList) Diff(x, y reflect.Value, item ItemEqual) ([]any, error) {
	xl, yl := x.Interface().(List), y.Interface().(List)
	return indexedDiff(xl.Len(), yl.Len(), l.index(xl), l.index(yl), item)
}

func (l customList) Copy(src, dst reflect.Value, item ItemCopy) (reflect.Value, error) {
	sl, dl := src.Interface().(List), dst.Interface().(List)
	n := sl.Len()

	if !l.resizable && dl.Len() != n {
		return dst, diagnostic.ErrNotResizableCollectionMismatch
	}

	existing := min(n, dl.Len())
	for i := 0; i < n; i++ {
		var current reflect.Value
		if i < existing {
			current = itemValue(l.elem, dl.Index(i))
		}

		v, err := item(i, itemValue(l.elem, sl.Index(i)), current)
		if err != nil {
			return dst, err
		}

		if i < existing {
			dl.SetIndex(i, toAny(v))
		} else {
			dl.(ResizableList).Append(toAny(v))
		}
	}

	if l.resizable && dl.Len() > n {
		dl.(ResizableList).Truncate(n)
	}

	return dst, nil
}

func (l customList) index(list List) func(int) reflect.Value {
	return func(i int) reflect.Value { return itemValue(l.elem, list.Index(i)) }
}

// indexedEqual compares by position. Lists of different lengths are unequal.
func indexedEqual(xn, yn int, xi, yi func(int) reflect.Value, item ItemEqual) (bool, error) {
	if xn != yn {
		return false, nil
	}

	for i := 0; i < xn; i++ {
		eq, err := item(i, xi(i), yi(i))
		if err != nil || !eq {
			return false, err
		}
	}

	return true, nil
}

func indexedDiff(xn, yn int, xi, yi func(int) reflect.Value, item ItemEqual) ([]any, error) {
	var out []any

	for i := 0; i < max(xn, yn); i++ {
		if i >= xn || i >= yn {
			out = append(out, i)
			continue
		}

		eq, err := item(i, xi(i), yi(i))
		if err != nil {
			return nil, err
		}

		if !eq {
			out = append(out, i)
		}
	}

	return out, nil
}
