package node

import (
	"fmt"
	"reflect"
	"sort"
)

// dictionary is the strategy of Go maps. Items are matched by key, keys are
// compared with ==.
type dictionary struct{ t reflect.Type }

func (d dictionary) Kind() Kind         { return KindMap }
func (d dictionary) Elem() reflect.Type { return d.t.Elem() }

func (d dictionary) Equal(x, y reflect.Value, item ItemEqual) (bool, error) {
	if x.Len() != y.Len() {
		return false, nil
	}

	for _, k := range sortedKeys(x) {
		yv := y.MapIndex(k)
		if !yv.IsValid() {
			return false, nil
		}

		eq, err := item(k.Interface(), Addressable(x.MapIndex(k)), Addressable(yv))
		if err != nil || !eq {
			return false, err
		}
	}

	return true, nil
}

func (d dictionary) Diff(x, y reflect.Value, item ItemEqual) ([]any, error) {
	var out []any

	for _, k := range sortedKeys(x) {
		yv := y.MapIndex(k)
		if !yv.IsValid() {
			out = append(out, k.Interface())
			continue
		}

		eq, err := item(k.Interface(), Addressable(x.MapIndex(k)), Addressable(yv))
		if err != nil {
			return nil, err
		}

		if !eq {
			out = append(out, k.Interface())
		}
	}

	for _, k := range sortedKeys(y) {
		if !x.MapIndex(k).IsValid() {
			out = append(out, k.Interface())
		}
	}

	return out, nil
}

// Copy removes target keys missing in the source, then copies every source
// item onto the target item with the same key.
func (d dictionary) Copy(src, dst reflect.Value, item ItemCopy) (reflect.Value, error) {
	if src.IsNil() {
		return reflect.Zero(d.t), nil
	}

	out := dst
	if !dst.IsValid() || dst.IsNil() {
		out = reflect.MakeMapWithSize(d.t, src.Len())
	}

	for _, k := range sortedKeys(out) {
		if !src.MapIndex(k).IsValid() {
			out.SetMapIndex(k, reflect.Value{})
		}
	}

	for _, k := range sortedKeys(src) {
		current := out.MapIndex(k)
		if current.IsValid() {
			current = Addressable(current)
		}

		v, err := item(k.Interface(), Addressable(src.MapIndex(k)), current)
		if err != nil {
			return dst, err
		}

		out.SetMapIndex(k, v)
	}

	return out, nil
}

// set is the strategy of map[K]struct{}. Items are the keys.
type set struct{ t reflect.Type }

func (s set) Kind() Kind         { return KindSet }
func (s set) Elem() reflect.Type { return s.t.Key() }

func (s set) Equal(x, y reflect.Value, _ ItemEqual) (bool, error) {
	if x.Len() != y.Len() {
		return false, nil
	}

	for _, k := range sortedKeys(x) {
		if !y.MapIndex(k).IsValid() {
			return false, nil
		}
	}

	return true, nil
}

func (s set) Diff(x, y reflect.Value, _ ItemEqual) ([]any, error) {
	var out []any

	for _, k := range sortedKeys(x) {
		if !y.MapIndex(k).IsValid() {
			out = append(out, k.Interface())
		}
	}

	for _, k := range sortedKeys(y) {
		if !x.MapIndex(k).IsValid() {
			out = append(out, k.Interface())
		}
	}

	return out, nil
}

// Copy clears the target and adds every source item.
func (s set) Copy(src, dst reflect.Value, _ ItemCopy) (reflect.Value, error) {
	if src.IsNil() {
		return reflect.Zero(s.t), nil
	}

	out := dst
	if !dst.IsValid() || dst.IsNil() {
		out = reflect.MakeMapWithSize(s.t, src.Len())
	}

	out.Clear()

	empty := reflect.Zero(s.t.Elem())
	for _, k := range sortedKeys(src) {
		out.SetMapIndex(k, empty)
	}

	return out, nil
}

// customSet is the strategy of types implementing Set. Items are matched with
// Contains.
type customSet struct {
	t    reflect.Type
	elem reflect.Type
}

func (s customSet) Kind() Kind         { return KindSet }
func (s customSet) Elem() reflect.Type { return s.elem }

func (s customSet) Equal(x, y reflect.Value, _ ItemEqual) (bool, error) {
	xs, ys := x.Interface().(Set), y.Interface().(Set)
	if xs.Len() != ys.Len() {
		return false, nil
	}

	for _, v := range xs.Items() {
		if !ys.Contains(v) {
			return false, nil
		}
	}

	return true, nil
}

func (s customSet) Diff(x, y reflect.Value, _ ItemEqual) ([]any, error) {
	xs, ys := x.Interface().(Set), y.Interface().(Set)

	var out []any

	for _, v := range xs.Items() {
		if !ys.Contains(v) {
			out = append(out, v)
		}
	}

	for _, v := range ys.Items() {
		if !xs.Contains(v) {
			out = append(out, v)
		}
	}

	return out, nil
}

func (s customSet) Copy(src, dst reflect.Value, _ ItemCopy) (reflect.Value, error) {
	ss, ds := src.Interface().(Set), dst.Interface().(Set)

	ds.Clear()

	for _, v := range ss.Items() {
		ds.Add(v)
	}

	return dst, nil
}

// sortedKeys returns the keys of a map in a stable order so traversals and
// diagnostics do not depend on map iteration order.
func sortedKeys(m reflect.Value) []reflect.Value {
	keys := m.MapKeys()
	sort.Slice(keys, func(i, j int) bool { return keyLess(keys[i], keys[j]) })

	return keys
}

func keyLess(a, b reflect.Value) bool {
	switch a.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return a.Int() < b.Int()
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return a.Uint() < b.Uint()
	case reflect.Float32, reflect.Float64:
		return a.Float() < b.Float()
	case reflect.String:
		return a.String() < b.String()
	case reflect.Bool:
		return !a.Bool() && b.Bool()
	default:
		return fmt.Sprint(a.Interface()) < fmt.Sprint(b.Interface())
	}
}
