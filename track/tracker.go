package track

import (
	"errors"
	"fmt"
	"log/slog"
	"reflect"
	"sync"

	"deepstate/diagnostic"
	"deepstate/internal/analyze"
	"deepstate/internal/verify"
	"deepstate/node"
	"deepstate/notify"
	"deepstate/options"
)

// ErrNotTrackable is returned for roots without a reference identity.
var ErrNotTrackable = errors.New("value cannot be tracked")

var (
	memberNotifierType     = reflect.TypeFor[notify.MemberNotifier]()
	collectionNotifierType = reflect.TypeFor[notify.CollectionNotifier]()
)

// Change is one mutation reported inside a tracked graph.
type Change struct {
	// Value is the object that reported the change.
	Value any
	// Member is the assigned member, empty for collection changes.
	Member string
	// Action and Indices describe a collection change.
	Action  notify.Action
	Indices []int
	// Count is what the change adds to change counters: one for the mutation
	// and one per tracker it created.
	Count int

	// passed holds the entries that emitted the change, each emits it once.
	passed map[*entry]struct{}
}

// Tracker counts the changes of a value and of everything reachable from it.
type Tracker struct {
	mu       sync.Mutex
	root     *entry
	sub      *notify.Subscription
	changes  int
	disposed bool
	handlers notify.Handlers[Change]
}

// Track starts tracking root, which must be a pointer or map implementing
// notify.MemberNotifier or notify.CollectionNotifier. Every struct reachable
// through pointers must notify as well. nil settings mean exported fields.
func Track(root any, s *options.Settings) (*Tracker, error) {
	if s == nil {
		s = options.Default(options.MembersExported, options.Structural)
	}

	v := reflect.ValueOf(root)
	if !v.IsValid() {
		return nil, fmt.Errorf("%w: nil", ErrNotTrackable)
	}

	t := v.Type()
	if err := verify.Err(t, s, verify.Track); err != nil {
		return nil, err
	}

	if !notifies(t) {
		return nil, diagnostic.NewError("track.Track", diagnostic.Fact{
			Kind: diagnostic.MissingChangeNotification,
			Path: analyze.RootOf(t),
			Type: t,
		})
	}

	id, ok := node.IdentityOf(v)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotTrackable, t)
	}

	done := registry.building()
	ctx := &attach{}
	tr := &Tracker{root: registry.acquire(s, v, id, ctx)}
	tr.sub = tr.root.Subscribe(tr.onChange)
	registry.addRoot(tr)
	done()

	s.Logger().Debug("tracking",
		slog.String("type", t.String()),
		slog.Int("trackers", ctx.created),
	)

	return tr, nil
}

func notifies(t reflect.Type) bool {
	return t.Implements(memberNotifierType) || t.Implements(collectionNotifierType)
}

// Changes returns the number of changes counted so far. The counter stops
// when the tracker is disposed.
func (t *Tracker) Changes() int {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.changes
}

// Value returns the tracked root.
func (t *Tracker) Value() any {
	return t.root.value.Interface()
}

// Subscribe calls fn for every change counted by t.
func (t *Tracker) Subscribe(fn func(Change)) *notify.Subscription {
	return t.handlers.Subscribe(fn)
}

// Dispose stops tracking. It is safe to call more than once.
func (t *Tracker) Dispose() {
	t.mu.Lock()
	if t.disposed {
		t.mu.Unlock()
		return
	}

	t.disposed = true
	t.mu.Unlock()

	t.sub.Unsubscribe()
	registry.removeRoot(t)
	registry.release(t.root)
	registry.sweep()

	t.root.s.Logger().Debug("tracking stopped", slog.String("type", t.root.value.Type().String()))
}

func (t *Tracker) onChange(c Change) {
	t.mu.Lock()
	if t.disposed {
		t.mu.Unlock()
		return
	}

	t.changes += c.Count
	t.mu.Unlock()

	t.handlers.Emit(c)
}

// entry observes one notifying value. Entries are shared between all owners
// of the value and released by reference count.
type entry struct {
	mu       sync.Mutex
	s        *options.Settings
	value    reflect.Value
	id       node.Identity
	disposed bool
	subs     []*notify.Subscription
	children map[string]*link
	handlers notify.Handlers[Change]

	// refs is guarded by the registry.
	refs int
}

type link struct {
	child *entry
	sub   *notify.Subscription
}

// attach counts the entries created while handling one change.
type attach struct {
	created int
}

// Subscribe calls fn for every change of the value or its children.
func (e *entry) Subscribe(fn func(Change)) *notify.Subscription {
	return e.handlers.Subscribe(fn)
}

// attach subscribes to the value and builds the children.
func (e *entry) attach(ctx *attach) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if n, ok := e.value.Interface().(notify.MemberNotifier); ok {
		e.subs = append(e.subs, n.SubscribeMembers(e.onMember))
	}

	if n, ok := e.value.Interface().(notify.CollectionNotifier); ok {
		e.subs = append(e.subs, n.SubscribeCollection(e.onCollection))
	}

	e.children, _ = e.rebuild(nil, ctx)
}

// rebuild links the entry to every notifying value currently reachable. Links
// to the same value under the same key are kept, the others are returned for
// release once the new children are acquired.
func (e *entry) rebuild(old map[string]*link, ctx *attach) (map[string]*link, []*link) {
	found := make(map[string]reflect.Value)
	c := &collector{s: e.s, out: found, seen: map[node.Identity]struct{}{e.id: {}}}
	c.contents("", e.value, e.value.Type())

	children := make(map[string]*link, len(found))
	for key, v := range found {
		id, _ := node.IdentityOf(v)

		if l, ok := old[key]; ok && l.child.id == id {
			children[key] = l
			delete(old, key)

			continue
		}

		child := registry.acquire(e.s, v, id, ctx)
		children[key] = &link{child: child, sub: child.Subscribe(e.onChild)}
	}

	removed := make([]*link, 0, len(old))
	for _, l := range old {
		removed = append(removed, l)
	}

	return children, removed
}

func (e *entry) onMember(m notify.MemberChanged) {
	e.changed(Change{Value: e.value.Interface(), Member: m.Name})
}

func (e *entry) onCollection(c notify.CollectionChanged) {
	e.changed(Change{Value: e.value.Interface(), Action: c.Action, Indices: c.Indices})
}

// changed rebuilds the children after the value reported a change.
func (e *entry) changed(c Change) {
	done := registry.building()

	e.mu.Lock()
	if e.disposed {
		e.mu.Unlock()
		done()

		return
	}

	ctx := &attach{}

	var removed []*link
	e.children, removed = e.rebuild(e.children, ctx)
	e.mu.Unlock()
	done()

	for _, l := range removed {
		l.sub.Unsubscribe()
		registry.release(l.child)
	}

	c.Count = 1 + ctx.created
	c.passed = map[*entry]struct{}{e: {}}
	e.handlers.Emit(c)
}

// onChild passes the changes of a child on to the owners.
func (e *entry) onChild(c Change) {
	e.mu.Lock()
	disposed := e.disposed
	e.mu.Unlock()

	if _, ok := c.passed[e]; ok || disposed {
		return
	}

	c.passed[e] = struct{}{}
	e.handlers.Emit(c)
}

// dispose unsubscribes from the value, then releases the children.
func (e *entry) dispose() {
	e.mu.Lock()
	if e.disposed {
		e.mu.Unlock()
		return
	}

	e.disposed = true
	subs, children := e.subs, e.children
	e.subs, e.children = nil, nil
	e.mu.Unlock()

	for _, sub := range subs {
		sub.Unsubscribe()
	}

	for _, l := range children {
		l.sub.Unsubscribe()
		registry.release(l.child)
	}
}

// linked returns the current children.
func (e *entry) linked() []*entry {
	e.mu.Lock()
	defer e.mu.Unlock()

	out := make([]*entry, 0, len(e.children))
	for _, l := range e.children {
		out = append(out, l.child)
	}

	return out
}
