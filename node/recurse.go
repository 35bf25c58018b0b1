package node

import (
	"reflect"

	"deepstate/internal/typefacts"
	"deepstate/options"
)

// IsImmutable combines options.WithImmutable with the process-wide type facts.
func IsImmutable(t reflect.Type, s *options.Settings) bool {
	return s.IsForcedImmutable(t) || typefacts.IsImmutable(t)
}

// IsEquatable combines options.WithComparer with the process-wide type facts.
func IsEquatable(t reflect.Type, s *options.Settings) bool {
	if _, ok := s.Comparer(t); ok {
		return true
	}

	return typefacts.IsEquatable(t)
}

// LeafFunc tells whether values of a type end the recursion of an engine.
type LeafFunc func(t reflect.Type, s *options.Settings) bool

// EqualLeaf ends equality recursion on immutable and equatable types.
func EqualLeaf(t reflect.Type, s *options.Settings) bool {
	return IsImmutable(t, s) || IsEquatable(t, s)
}

// CopyLeaf ends copy recursion on immutable types and types with a custom
// copier. Values holding read-only fields are copied member by member so the
// fields of an existing target are reconciled instead of overwritten.
func CopyLeaf(t reflect.Type, s *options.Settings) bool {
	if _, ok := s.Copier(t); ok {
		return true
	}

	return IsImmutable(t, s) && !typefacts.HasReadOnly(t)
}

// TrackLeaf ends tracking on immutable types: their values can only be
// replaced, which the owner reports.
func TrackLeaf(t reflect.Type, s *options.Settings) bool {
	return IsImmutable(t, s)
}

// Action is what an engine does with a pair of values of one type.
type Action int

const (
	// ActionLeaf compares or assigns the values as a whole.
	ActionLeaf Action = iota + 1
	// ActionReference compares or assigns by identity.
	ActionReference
	// ActionStructural recurses into members or items.
	ActionStructural
	// ActionReject reports RequiresReferenceHandling.
	ActionReject
	// ActionIgnore treats the values as opaque: equal, and left as they are
	// by a copy.
	ActionIgnore
)

// Decide picks the action for values declared as t.
func Decide(t reflect.Type, s *options.Settings, leaf LeafFunc) Action {
	if s.IsIgnoredType(t) {
		return ActionIgnore
	}

	if leaf(t, s) {
		return ActionLeaf
	}

	if !NeedsReferenceHandling(t, s, leaf) {
		return ActionStructural
	}

	switch s.ReferenceHandling() {
	case options.Throw:
		return ActionReject
	case options.References:
		// slices and maps are walked, their items compared by reference
		if k := t.Kind(); k == reflect.Slice || k == reflect.Map {
			return ActionStructural
		}

		return ActionReference
	default:
		return ActionStructural
	}
}

// NeedsReferenceHandling reports whether recursing into t means following an
// identity: pointers and interfaces to non-leaf values, chans, and collections
// holding such values. Structs and arrays are values and never need it.
func NeedsReferenceHandling(t reflect.Type, s *options.Settings, leaf LeafFunc) bool {
	return needsReference(t, s, leaf, make(map[reflect.Type]struct{}))
}

func needsReference(t reflect.Type, s *options.Settings, leaf LeafFunc, visiting map[reflect.Type]struct{}) bool {
	if leaf(t, s) || s.IsIgnoredType(t) {
		return false
	}

	if _, ok := visiting[t]; ok {
		return false
	}

	visiting[t] = struct{}{}
	defer delete(visiting, t)

	if c, ok := Classify(t); ok {
		if c.Kind() == KindSequence || t.Kind() == reflect.Ptr || t.Kind() == reflect.Interface {
			return true
		}

		if t.Kind() == reflect.Map && needsReference(t.Key(), s, leaf, visiting) {
			return true
		}

		return needsReference(c.Elem(), s, leaf, visiting)
	}

	switch t.Kind() {
	case reflect.Struct, reflect.Array:
		return false
	default:
		return true
	}
}

// Handlers are the leaf actions of one engine, see Recurse.
type Handlers[R any] struct {
	Leaf       func(x, y reflect.Value) (R, error)
	Reference  func(x, y reflect.Value) (R, error)
	Structural func(x, y reflect.Value) (R, error)
	Reject     func(x, y reflect.Value) (R, error)
	Ignore     func(x, y reflect.Value) (R, error)
}

// Recurse dispatches x and y, declared as t, to the handler chosen by Decide.
// Interface-declared values are decided on their dynamic type when both sides
// share it. Ignored types are matched on the declared and the dynamic type.
func Recurse[R any](x, y reflect.Value, t reflect.Type, s *options.Settings, leaf LeafFunc, h Handlers[R]) (R, error) {
	if s.IsIgnoredType(t) {
		return h.Ignore(x, y)
	}

	if t.Kind() == reflect.Interface {
		if dt, ok := DynamicType(x, y); ok {
			t = dt
			x, y = elem(x), elem(y)
		}
	}

	switch Decide(t, s, leaf) {
	case ActionLeaf:
		return h.Leaf(x, y)
	case ActionReference:
		return h.Reference(x, y)
	case ActionReject:
		return h.Reject(x, y)
	case ActionIgnore:
		return h.Ignore(x, y)
	default:
		return h.Structural(x, y)
	}
}

// DynamicType returns the dynamic type shared by two interface values. A nil
// side takes the type of the other side.
func DynamicType(x, y reflect.Value) (reflect.Type, bool) {
	xt, yt := dynamic(x), dynamic(y)

	switch {
	case xt == nil && yt == nil:
		return nil, false
	case xt == nil:
		return yt, true
	case yt == nil || xt == yt:
		return xt, true
	default:
		return nil, false
	}
}

func dynamic(v reflect.Value) reflect.Type {
	if !v.IsValid() || v.Kind() != reflect.Interface || v.IsNil() {
		return nil
	}

	return v.Elem().Type()
}

func elem(v reflect.Value) reflect.Value {
	if !v.IsValid() || v.Kind() != reflect.Interface {
		return v
	}

	if v.IsNil() {
		return reflect.Value{}
	}

	return Addressable(v.Elem())
}
