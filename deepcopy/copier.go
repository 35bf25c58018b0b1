package deepcopy

import (
	"errors"
	"reflect"

	"deepstate/diagnostic"
	"deepstate/equal"
	"deepstate/internal/analyze"
	"deepstate/internal/typefacts"
	"deepstate/node"
	"deepstate/options"
)

// copier holds the state of one copy call.
type copier struct {
	s         *options.Settings
	operation string
	guard     *node.Guard
	path      *analyze.TypePath

	// memo maps source references to their copies when loops are tolerated,
	// so shared and cyclic references keep their shape in the target.
	memo map[node.Identity]reflect.Value
}

func newCopier(s *options.Settings, t reflect.Type) *copier {
	c := &copier{
		s:         s,
		operation: operation(s),
		guard:     node.NewGuard(options.Structural),
		path:      analyze.RootOf(t),
	}

	if s.ReferenceHandling() == options.StructuralWithReferenceLoops {
		c.memo = make(map[node.Identity]reflect.Value)
	}

	return c
}

// root copies the roots structurally whatever the reference handling. Only a
// copier registered for the root type replaces the traversal, the pointee of
// a sealed pointer root is reconciled like any existing target.
func (c *copier) root(src, dst reflect.Value, t reflect.Type) (reflect.Value, error) {
	if _, ok := c.s.Copier(t); ok && t.Kind() == reflect.Ptr {
		return c.leaf(src, dst, t), nil
	}

	return c.structural(src, dst, t, c.path)
}

// produce returns the value to store in place of dst, a copy of src declared
// as t. An invalid dst means there is no target value yet.
func (c *copier) produce(src, dst reflect.Value, t reflect.Type, path *analyze.TypePath) (reflect.Value, error) {
	if t.Kind() == reflect.Interface && (!src.IsValid() || src.IsNil()) {
		return reflect.Zero(t), nil
	}

	return node.Recurse(src, dst, t, c.s, node.CopyLeaf, node.Handlers[reflect.Value]{
		Leaf: func(src, dst reflect.Value) (reflect.Value, error) {
			return c.leaf(src, dst, dynamicOf(src, t)), nil
		},
		Reference: func(src, _ reflect.Value) (reflect.Value, error) {
			return src, nil
		},
		Structural: func(src, dst reflect.Value) (reflect.Value, error) {
			return c.structural(src, dst, dynamicOf(src, t), path)
		},
		Reject: func(src, dst reflect.Value) (reflect.Value, error) {
			return dst, c.fail(diagnostic.RequiresReferenceHandling, path, t, src, dst)
		},
		Ignore: func(_, _ reflect.Value) (reflect.Value, error) {
			return kept(dst, t), nil
		},
	})
}

// kept keeps the target of an ignored value, the zero value when there is
// no target yet.
func kept(dst reflect.Value, t reflect.Type) reflect.Value {
	if dst.IsValid() {
		return dst
	}

	return reflect.Zero(t)
}

func dynamicOf(src reflect.Value, t reflect.Type) reflect.Type {
	if t.Kind() == reflect.Interface && src.IsValid() && src.Kind() != reflect.Interface {
		return src.Type()
	}

	return t
}

// leaf shares immutable values unless a copier is registered.
func (c *copier) leaf(src, dst reflect.Value, t reflect.Type) reflect.Value {
	if fn, ok := c.s.Copier(t); ok {
		return fn.Copy(src, dst)
	}

	return src
}

func (c *copier) structural(src, dst reflect.Value, t reflect.Type, path *analyze.TypePath) (reflect.Value, error) {
	if src.Kind() == reflect.Interface {
		// dynamic types of source and target differ
		if src.IsNil() {
			return reflect.Zero(t), nil
		}

		v, err := c.produce(node.Addressable(src.Elem()), reflect.Value{}, src.Elem().Type(), path)
		if err != nil {
			return dst, err
		}

		out := reflect.New(t).Elem()
		out.Set(v)

		return out, nil
	}

	if nilable(src) && src.IsNil() {
		return reflect.Zero(t), nil
	}

	id, hasID := node.IdentityOf(src)
	if hasID && c.memo != nil {
		if v, ok := c.memo[id]; ok {
			return v, nil
		}
	}

	pair, ok := c.guard.Enter(src, reflect.Value{})
	if !ok {
		return dst, c.fail(diagnostic.ReferenceLoop, path, t, src, dst)
	}
	defer c.guard.Leave(pair)

	if coll, ok := node.Classify(t); ok {
		return c.collection(src, dst, t, coll, path, id, hasID)
	}

	switch t.Kind() {
	case reflect.Ptr:
		target, current := dst, reflect.Value{}
		if target.IsValid() && !target.IsNil() {
			current = target.Elem()
		} else {
			target = reflect.New(t.Elem())
		}

		c.remember(id, hasID, target)

		v, err := c.produce(src.Elem(), current, t.Elem(), path)
		if err != nil {
			return target, err
		}

		target.Elem().Set(v)

		return target, nil

	case reflect.Struct:
		return c.members(src, dst, t, path)

	case reflect.Chan:
		return dst, c.fail(diagnostic.UnsupportedEnumerableShape, path, t, src, dst)

	default:
		return src, nil
	}
}

// members copies field by field. Read-only fields of an existing target are
// reconciled instead of assigned, those of a new target are initialized.
func (c *copier) members(src, dst reflect.Value, t reflect.Type, path *analyze.TypePath) (reflect.Value, error) {
	fresh := !dst.IsValid()

	out := dst
	if fresh {
		out = reflect.New(t).Elem()
	} else if !out.CanAddr() {
		out = node.Addressable(out)
	}

	for _, m := range node.Members(t, c.s) {
		sv, dv := m.Get(src), m.Get(out)
		mp := path.Field(m.Name)

		if m.ReadOnly && !fresh {
			if err := c.readonly(m, sv, dv, mp); err != nil {
				return out, err
			}

			continue
		}

		v, err := c.produce(sv, dv, m.Type, mp)
		if err != nil {
			return out, err
		}

		dv.Set(v)
	}

	return out, nil
}

// readonly checks that a read-only field needs no assignment. Values are
// compared, references are copied into and must keep their identity.
func (c *copier) readonly(m *node.Member, sv, dv reflect.Value, path *analyze.TypePath) error {
	fact := diagnostic.Fact{
		Kind:   diagnostic.ReadonlyMemberDiffers,
		Path:   path,
		Type:   m.Type,
		Owner:  m.Owner,
		Member: m.Name,
	}

	if typefacts.IsValueKind(m.Type) || m.Type.Kind() == reflect.Interface || node.CopyLeaf(m.Type, c.s) {
		eq, err := equal.Value(sv, dv, c.s)
		if err != nil {
			return err
		}

		if !eq {
			return diagnostic.NewError(c.operation, fact).WithValues(sv, dv)
		}

		return nil
	}

	v, err := c.produce(sv, dv, m.Type, path)
	if err != nil {
		return err
	}

	if !sameReference(v, dv) {
		return diagnostic.NewError(c.operation, fact).WithValues(sv, dv)
	}

	return nil
}

func (c *copier) collection(src, dst reflect.Value, t reflect.Type, coll node.Collection, path *analyze.TypePath, id node.Identity, hasID bool) (reflect.Value, error) {
	if t.Kind() == reflect.Map && !node.CopyLeaf(t.Key(), c.s) && c.s.ReferenceHandling() != options.References {
		return dst, c.fail(diagnostic.UnsupportedIndexer, path, t, src, dst)
	}

	target := dst
	if t.Kind() == reflect.Ptr {
		if !target.IsValid() || target.IsNil() {
			target = reflect.New(t.Elem())
		}

		c.remember(id, hasID, target)
	}

	out, err := coll.Copy(src, target, func(key any, si, di reflect.Value) (reflect.Value, error) {
		return c.produce(si, di, coll.Elem(), path.Index(key))
	})
	if err != nil {
		return out, c.wrap(err, path, t, src, dst)
	}

	c.remember(id, hasID, out)

	return out, nil
}

func (c *copier) remember(id node.Identity, hasID bool, v reflect.Value) {
	if hasID && c.memo != nil {
		c.memo[id] = v
	}
}

func (c *copier) fail(kind diagnostic.Kind, path *analyze.TypePath, t reflect.Type, src, dst reflect.Value) error {
	return diagnostic.NewError(c.operation, diagnostic.Fact{Kind: kind, Path: path, Type: t}).WithValues(src, dst)
}

// wrap locates the sentinel errors of the collection strategies.
func (c *copier) wrap(err error, path *analyze.TypePath, t reflect.Type, src, dst reflect.Value) error {
	var located *diagnostic.Error
	if errors.As(err, &located) {
		return err
	}

	if kind, ok := diagnostic.KindOf(err); ok {
		return c.fail(kind, path, t, src, dst)
	}

	return err
}

// sameReference reports whether a and b are the same reference, or both nil.
func sameReference(a, b reflect.Value) bool {
	ai, aok := node.IdentityOf(a)
	bi, bok := node.IdentityOf(b)

	if aok || bok {
		return aok && bok && ai == bi
	}

	return a.IsNil() == b.IsNil()
}

func nilable(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.Ptr, reflect.Map, reflect.Slice, reflect.Chan, reflect.Func:
		return true
	default:
		return false
	}
}
