package node

import (
	"iter"
	"reflect"
	"sync"
)

// List is a custom collection addressed by position.
type List interface {
	Len() int
	Index(i int) any
	SetIndex(i int, v any)
}

// ResizableList is a List whose length can change.
type ResizableList interface {
	List
	Append(v any)
	Truncate(n int)
}

// Set is a custom collection of distinct items without positions.
type Set interface {
	Len() int
	Contains(v any) bool
	Items() []any
	Clear()
	Add(v any)
}

// Sequence is a custom collection that can only be enumerated.
type Sequence interface {
	All() iter.Seq[any]
}

// Typed is implemented by custom collections that know their item type. The
// method is called on the zero value of the collection type.
type Typed interface {
	ItemType() reflect.Type
}

// ItemEqual compares two items of a collection. An invalid value stands for
// an item missing on that side.
type ItemEqual func(key any, x, y reflect.Value) (bool, error)

// ItemCopy produces the value to store for an item. An invalid dst means the
// target has no item at key yet.
type ItemCopy func(key any, src, dst reflect.Value) (reflect.Value, error)

// Collection is the traversal strategy of one collection shape.
type Collection interface {
	// Kind is the shape.
	Kind() Kind
	// Elem is the declared item type.
	Elem() reflect.Type
	// Equal compares two non-nil collections item by item.
	Equal(x, y reflect.Value, item ItemEqual) (bool, error)
	// Diff returns the keys or indices whose items differ.
	Diff(x, y reflect.Value, item ItemEqual) ([]any, error)
	// Copy synchronizes dst with src and returns the value to store in place of
	// dst, which is dst itself unless the collection had to be rebuilt.
	Copy(src, dst reflect.Value, item ItemCopy) (reflect.Value, error)
}

var (
	listType      = reflect.TypeFor[List]()
	resizableType = reflect.TypeFor[ResizableList]()
	setType       = reflect.TypeFor[Set]()
	sequenceType  = reflect.TypeFor[Sequence]()
	typedType     = reflect.TypeFor[Typed]()
	anyType       = reflect.TypeFor[any]()
	emptyType     = reflect.TypeFor[struct{}]()
)

var classifyCache sync.Map // reflect.Type -> Collection (nil when not a collection)

// Classify returns the strategy for values of t. The first match wins:
// custom Set, custom List, custom Sequence, slice, array, map[K]struct{}, map.
func Classify(t reflect.Type) (Collection, bool) {
	if t == nil {
		return nil, false
	}

	if cached, ok := classifyCache.Load(t); ok {
		c, _ := cached.(Collection)
		return c, c != nil
	}

	c := classify(t)
	classifyCache.Store(t, c)

	return c, c != nil
}

func classify(t reflect.Type) Collection {
	if t.Kind() != reflect.Interface {
		switch {
		case t.Implements(setType):
			return customSet{t: t, elem: itemType(t)}
		case t.Implements(listType):
			return customList{t: t, elem: itemType(t), resizable: t.Implements(resizableType)}
		case t.Implements(sequenceType):
			return sequence{t: t, elem: itemType(t)}
		}
	}

	switch t.Kind() {
	case reflect.Slice:
		return slice{t: t}
	case reflect.Array:
		return array{t: t}
	case reflect.Map:
		if t.Elem() == emptyType {
			return set{t: t}
		}

		return dictionary{t: t}
	default:
		return nil
	}
}

// Dispatch returns the collection kind of t.
func Dispatch(t reflect.Type) Kind {
	if c, ok := Classify(t); ok {
		return c.Kind()
	}

	return KindUnknown
}

func itemType(t reflect.Type) reflect.Type {
	if !t.Implements(typedType) {
		return anyType
	}

	if it := reflect.Zero(t).Interface().(Typed).ItemType(); it != nil {
		return it
	}

	return anyType
}

// itemValue wraps an item of a custom collection into an addressable value of
// the item type, so nil items stay valid values.
func itemValue(elem reflect.Type, v any) reflect.Value {
	out := reflect.New(elem).Elem()
	if v != nil {
		out.Set(reflect.ValueOf(v))
	}

	return out
}

func toAny(v reflect.Value) any {
	if !v.IsValid() {
		return nil
	}

	return v.Interface()
}
