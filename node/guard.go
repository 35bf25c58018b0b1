package node

import (
	"reflect"

	"deepstate/options"
)

// Identity is the reference identity of a value: the address it points to, its
// dynamic type, and for slices the length of the view.
type Identity struct {
	Type reflect.Type
	Ptr  uintptr
	Len  int
}

// IdentityOf returns the identity of pointer-like values. Values, nil
// references, and empty slices have none.
func IdentityOf(v reflect.Value) (Identity, bool) {
	if !v.IsValid() {
		return Identity{}, false
	}

	switch v.Kind() {
	case reflect.Interface:
		if v.IsNil() {
			return Identity{}, false
		}

		return IdentityOf(v.Elem())
	case reflect.Ptr, reflect.Map, reflect.Chan, reflect.UnsafePointer:
		if v.IsNil() {
			return Identity{}, false
		}

		return Identity{Type: v.Type(), Ptr: v.Pointer()}, true
	case reflect.Slice:
		if v.IsNil() || v.Len() == 0 {
			return Identity{}, false
		}

		return Identity{Type: v.Type(), Ptr: v.Pointer(), Len: v.Len()}, true
	default:
		return Identity{}, false
	}
}

// SameIdentity reports whether x and y are the same reference. Two nils of one
// type are the same reference.
func SameIdentity(x, y reflect.Value) bool {
	xi, xok := IdentityOf(x)
	yi, yok := IdentityOf(y)

	if !xok || !yok {
		return !xok && !yok && isNil(x) && isNil(y)
	}

	return xi == yi
}

func isNil(v reflect.Value) bool {
	if !v.IsValid() {
		return true
	}

	switch v.Kind() {
	case reflect.Ptr, reflect.Map, reflect.Chan, reflect.Slice, reflect.Interface, reflect.Func, reflect.UnsafePointer:
		return v.IsNil()
	default:
		return false
	}
}

// ReferencePair is a pair of identities visited together. A side without
// identity is the zero Identity.
type ReferencePair struct {
	X, Y Identity
}

// Guard detects reference pairs met again while walking a graph. With
// StructuralWithReferenceLoops it remembers every pair of the walk, so shared
// and cyclic references are visited once. Otherwise it only remembers the
// pairs on the current recursion path, which is enough to stop on a loop.
type Guard struct {
	loops bool
	seen  map[ReferencePair]struct{}
}

// NewGuard creates a guard for a walk under handling h.
func NewGuard(h options.ReferenceHandling) *Guard {
	return &Guard{
		loops: h == options.StructuralWithReferenceLoops,
		seen:  make(map[ReferencePair]struct{}),
	}
}

// Enter records the pair (x, y). It returns false when the pair was already
// entered, in which case Leave must not be called.
func (g *Guard) Enter(x, y reflect.Value) (ReferencePair, bool) {
	xi, xok := IdentityOf(x)
	yi, yok := IdentityOf(y)

	pair := ReferencePair{X: xi, Y: yi}
	if !xok && !yok {
		return pair, true
	}

	if _, ok := g.seen[pair]; ok {
		return pair, false
	}

	g.seen[pair] = struct{}{}

	return pair, true
}

// Leave ends the visit of pair. Pairs stay remembered when loops are tolerated.
func (g *Guard) Leave(pair ReferencePair) {
	if !g.loops {
		delete(g.seen, pair)
	}
}

// ToleratesLoops reports whether a revisited pair is expected rather than an error.
func (g *Guard) ToleratesLoops() bool {
	return g.loops
}
