package node

import (
	"iter"
	"reflect"

	"deepstate/diagnostic"
)

// sequence is the strategy of types implementing Sequence. Both sides are
// walked in lockstep; the shorter side is padded with invalid values so the
// item comparer sees every pair.
type sequence struct {
	t    reflect.Type
	elem reflect.Type
}

func (q sequence) Kind() Kind         { return KindSequence }
func (q sequence) Elem() reflect.Type { return q.elem }

func (q sequence) Equal(x, y reflect.Value, item ItemEqual) (bool, error) {
	equal := true

	err := q.walk(x, y, func(i int, xv, yv reflect.Value) (bool, error) {
		eq, err := item(i, xv, yv)
		if err != nil {
			return false, err
		}

		equal = eq

		return eq, nil
	})

	return equal && err == nil, err
}

func (q sequence) Diff(x, y reflect.Value, item ItemEqual) ([]any, error) {
	var out []any

	err := q.walk(x, y, func(i int, xv, yv reflect.Value) (bool, error) {
		eq, err := item(i, xv, yv)
		if err != nil {
			return false, err
		}

		if !eq {
			out = append(out, i)
		}

		return true, nil
	})

	return out, err
}

// Copy is not supported: a sequence cannot be written to.
func (q sequence) Copy(_, dst reflect.Value, _ ItemCopy) (reflect.Value, error) {
	return dst, diagnostic.ErrUnsupportedEnumerableShape
}

func (q sequence) walk(x, y reflect.Value, fn func(i int, xv, yv reflect.Value) (bool, error)) error {
	nextX, stopX := iter.Pull(x.Interface().(Sequence).All())
	defer stopX()

	nextY, stopY := iter.Pull(y.Interface().(Sequence).All())
	defer stopY()

	for i := 0; ; i++ {
		xv, xok := nextX()
		yv, yok := nextY()

		if !xok && !yok {
			return nil
		}

		var xr, yr reflect.Value
		if xok {
			xr = itemValue(q.elem, xv)
		}

		if yok {
			yr = itemValue(q.elem, yv)
		}

		more, err := fn(i, xr, yr)
		if err != nil || !more {
			return err
		}
	}
}
