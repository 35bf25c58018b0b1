package equal

import (
	"reflect"

	"deepstate/diagnostic"
	"deepstate/internal/analyze"
	"deepstate/node"
	"deepstate/options"
)

// comparer holds the state of one comparison call.
type comparer struct {
	s         *options.Settings
	operation string
	guard     *node.Guard
	sealed    *node.Guard
	path      *analyze.TypePath

	// diff collects the paths of all differences instead of stopping at the first.
	diff  bool
	paths []string
}

func newComparer(s *options.Settings, t reflect.Type) *comparer {
	operation := "equal.Properties"
	if s.Filter() == options.MembersAll {
		operation = "equal.Fields"
	}

	return &comparer{
		s:         s,
		operation: operation,
		guard:     node.NewGuard(s.ReferenceHandling()),
		sealed:    node.NewGuard(options.StructuralWithReferenceLoops),
		path:      analyze.RootOf(t),
	}
}

// root compares the roots structurally whatever the reference handling.
func (c *comparer) root(x, y reflect.Value, t reflect.Type) (bool, error) {
	if x.Kind() == reflect.Interface && t.Kind() != reflect.Interface {
		x, y = node.Addressable(x.Elem()), node.Addressable(y.Elem())
	}

	if node.EqualLeaf(t, c.s) {
		return c.report(c.path, c.leaf(x, y, t))
	}

	return c.structural(x, y, t, c.path)
}

// values compares x and y declared as t.
func (c *comparer) values(x, y reflect.Value, t reflect.Type, path *analyze.TypePath) (bool, error) {
	return node.Recurse(x, y, t, c.s, node.EqualLeaf, node.Handlers[bool]{
		Leaf: func(x, y reflect.Value) (bool, error) {
			return c.report(path, c.leaf(x, y, dynamicOr(x, y, t)))
		},
		Reference: func(x, y reflect.Value) (bool, error) {
			return c.report(path, node.SameIdentity(x, y))
		},
		Structural: func(x, y reflect.Value) (bool, error) {
			return c.structural(x, y, dynamicOr(x, y, t), path)
		},
		Reject: func(x, y reflect.Value) (bool, error) {
			return false, c.fail(diagnostic.RequiresReferenceHandling, path, t, x, y)
		},
		Ignore: func(_, _ reflect.Value) (bool, error) {
			return true, nil
		},
	})
}

// dynamicOr returns the type of the values Recurse handed over, which is the
// dynamic type when an interface was unwrapped.
func dynamicOr(x, y reflect.Value, t reflect.Type) reflect.Type {
	if t.Kind() != reflect.Interface {
		return t
	}

	for _, v := range []reflect.Value{x, y} {
		if v.IsValid() && v.Kind() != reflect.Interface {
			return v.Type()
		}
	}

	return t
}

func (c *comparer) structural(x, y reflect.Value, t reflect.Type, path *analyze.TypePath) (bool, error) {
	if !x.IsValid() || !y.IsValid() {
		return c.report(path, x.IsValid() == y.IsValid())
	}

	if x.Kind() == reflect.Interface {
		// dynamic types differ or both are nil
		return c.report(path, x.IsNil() && y.IsNil())
	}

	if nilable(x) && (x.IsNil() || y.IsNil()) {
		return c.report(path, x.IsNil() == y.IsNil())
	}

	if node.SameIdentity(x, y) {
		return true, nil
	}

	pair, ok := c.guard.Enter(x, y)
	if !ok {
		if c.guard.ToleratesLoops() {
			return true, nil
		}

		return false, c.fail(diagnostic.ReferenceLoop, path, t, x, y)
	}
	defer c.guard.Leave(pair)

	if coll, ok := node.Classify(t); ok {
		return c.collection(x, y, t, coll, path)
	}

	switch t.Kind() {
	case reflect.Ptr:
		return c.values(x.Elem(), y.Elem(), t.Elem(), path)

	case reflect.Struct:
		return c.members(x, y, t, path)

	case reflect.Chan:
		return false, c.fail(diagnostic.UnsupportedEnumerableShape, path, t, x, y)

	default:
		return c.report(path, c.leaf(x, y, t))
	}
}

func (c *comparer) members(x, y reflect.Value, t reflect.Type, path *analyze.TypePath) (bool, error) {
	equal := true

	for _, m := range node.Members(t, c.s) {
		eq, err := c.values(m.Get(x), m.Get(y), m.Type, path.Field(m.Name))
		if err != nil {
			return false, err
		}

		if !eq {
			if !c.diff {
				return false, nil
			}

			equal = false
		}
	}

	return equal, nil
}

func (c *comparer) collection(x, y reflect.Value, t reflect.Type, coll node.Collection, path *analyze.TypePath) (bool, error) {
	if t.Kind() == reflect.Map && !node.EqualLeaf(t.Key(), c.s) && c.s.ReferenceHandling() != options.References {
		return false, c.fail(diagnostic.UnsupportedIndexer, path, t, x, y)
	}

	if !c.diff {
		return coll.Equal(x, y, func(key any, xi, yi reflect.Value) (bool, error) {
			return c.values(xi, yi, coll.Elem(), path.Index(key))
		})
	}

	compared := make(map[any]struct{})

	keys, err := coll.Diff(x, y, func(key any, xi, yi reflect.Value) (bool, error) {
		compared[key] = struct{}{}
		return c.values(xi, yi, coll.Elem(), path.Index(key))
	})
	if err != nil {
		return false, err
	}

	for _, key := range keys {
		if _, ok := compared[key]; !ok {
			c.paths = append(c.paths, path.Index(key).String())
		}
	}

	return len(keys) == 0, nil
}

// report records a difference at path when collecting a diff.
func (c *comparer) report(path *analyze.TypePath, equal bool) (bool, error) {
	if !equal && c.diff {
		c.paths = append(c.paths, path.String())
	}

	return equal, nil
}

func (c *comparer) fail(kind diagnostic.Kind, path *analyze.TypePath, t reflect.Type, x, y reflect.Value) error {
	return diagnostic.NewError(c.operation, diagnostic.Fact{Kind: kind, Path: path, Type: t}).WithValues(x, y)
}

func nilable(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.Ptr, reflect.Map, reflect.Slice, reflect.Chan, reflect.Func, reflect.Interface:
		return true
	default:
		return false
	}
}
