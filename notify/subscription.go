package notify

import (
	"slices"
	"sync"
)

// Subscription cancels a handler registration.
type Subscription struct {
	once   sync.Once
	cancel func()
}

// NewSubscription creates a subscription calling cancel on the first Unsubscribe.
func NewSubscription(cancel func()) *Subscription {
	return &Subscription{cancel: cancel}
}

// Unsubscribe removes the handler. It is safe to call more than once and on nil.
func (s *Subscription) Unsubscribe() {
	if s == nil || s.cancel == nil {
		return
	}

	s.once.Do(s.cancel)
}

// Handlers is a set of event handlers called in subscription order.
type Handlers[E any] struct {
	mu   sync.Mutex
	next int
	fns  map[int]func(E)
}

// Subscribe adds fn.
func (h *Handlers[E]) Subscribe(fn func(E)) *Subscription {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.fns == nil {
		h.fns = make(map[int]func(E))
	}

	id := h.next
	h.next++
	h.fns[id] = fn

	return NewSubscription(func() {
		h.mu.Lock()
		defer h.mu.Unlock()

		delete(h.fns, id)
	})
}

// Emit calls every handler with e. Handlers may subscribe or unsubscribe
// while being called.
func (h *Handlers[E]) Emit(e E) {
	h.mu.Lock()
	ids := make([]int, 0, len(h.fns))
	for id := range h.fns {
		ids = append(ids, id)
	}
	slices.Sort(ids)

	fns := make([]func(E), 0, len(ids))
	for _, id := range ids {
		fns = append(fns, h.fns[id])
	}
	h.mu.Unlock()

	for _, fn := range fns {
		fn(e)
	}
}

// Len returns the number of handlers.
func (h *Handlers[E]) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()

	return len(h.fns)
}
