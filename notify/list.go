package notify

import (
	"reflect"
)

// List is an observable resizable list. Use it through a pointer.
type List[T any] struct {
	items      []T
	collection Handlers[CollectionChanged]
}

// NewList creates a list holding items.
func NewList[T any](items ...T) *List[T] {
	return &List[T]{items: append([]T(nil), items...)}
}

// SubscribeCollection implements CollectionNotifier.
func (l *List[T]) SubscribeCollection(fn func(CollectionChanged)) *Subscription {
	return l.collection.Subscribe(fn)
}

// Subscribers returns the number of collection handlers.
func (l *List[T]) Subscribers() int {
	return l.collection.Len()
}

// ItemType returns T.
func (l *List[T]) ItemType() reflect.Type {
	return reflect.TypeFor[T]()
}

// Len returns the number of items.
func (l *List[T]) Len() int {
	return len(l.items)
}

// At returns the item at i.
func (l *List[T]) At(i int) T {
	return l.items[i]
}

// Items returns a copy of the items.
func (l *List[T]) Items() []T {
	return append([]T(nil), l.items...)
}

// Push appends v.
func (l *List[T]) Push(v T) {
	l.items = append(l.items, v)
	l.emit(ActionAdd, len(l.items)-1)
}

// Insert inserts v at i.
func (l *List[T]) Insert(i int, v T) {
	var zero T

	l.items = append(l.items, zero)
	copy(l.items[i+1:], l.items[i:])
	l.items[i] = v
	l.emit(ActionAdd, i)
}

// Put overwrites the item at i.
func (l *List[T]) Put(i int, v T) {
	l.items[i] = v
	l.emit(ActionReplace, i)
}

// RemoveAt removes the item at i.
func (l *List[T]) RemoveAt(i int) {
	l.items = append(l.items[:i], l.items[i+1:]...)
	l.emit(ActionRemove, i)
}

// Clear removes every item.
func (l *List[T]) Clear() {
	l.items = nil
	l.emit(ActionReset)
}

// Index implements node.List.
func (l *List[T]) Index(i int) any {
	return l.items[i]
}

// SetIndex implements node.List.
func (l *List[T]) SetIndex(i int, v any) {
	l.Put(i, cast[T](v))
}

// Append implements node.ResizableList.
func (l *List[T]) Append(v any) {
	l.Push(cast[T](v))
}

// Truncate implements node.ResizableList.
func (l *List[T]) Truncate(n int) {
	if n >= len(l.items) {
		return
	}

	removed := make([]int, 0, len(l.items)-n)
	for i := n; i < len(l.items); i++ {
		removed = append(removed, i)
	}

	clear(l.items[n:])
	l.items = l.items[:n]
	l.emit(ActionRemove, removed...)
}

func (l *List[T]) emit(action Action, indices ...int) {
	l.collection.Emit(CollectionChanged{Action: action, Indices: indices})
}

func cast[T any](v any) T {
	if v == nil {
		var zero T
		return zero
	}

	return v.(T)
}
