package track

import (
	"log/slog"
	"reflect"
	"sync"

	"deepstate/node"
	"deepstate/options"
)

type registryKey struct {
	settings *options.Settings
	id       node.Identity
}

// trackers holds one entry per tracked value and settings, with explicit
// reference counts, and the live Tracker roots.
type trackers struct {
	mu      sync.Mutex
	build   sync.RWMutex
	entries map[registryKey]*entry
	roots   map[*Tracker]struct{}
}

var registry = &trackers{
	entries: make(map[registryKey]*entry),
	roots:   make(map[*Tracker]struct{}),
}

// acquire returns the entry of v, creating and attaching it when v is not
// tracked yet.
func (r *trackers) acquire(s *options.Settings, v reflect.Value, id node.Identity, ctx *attach) *entry {
	key := registryKey{settings: s, id: id}

	r.mu.Lock()
	if e, ok := r.entries[key]; ok {
		e.refs++
		r.mu.Unlock()

		return e
	}

	e := &entry{s: s, value: v, id: id, refs: 1}
	r.entries[key] = e
	r.mu.Unlock()

	ctx.created++
	s.Logger().Debug("tracker attached", slog.String("type", v.Type().String()))
	e.attach(ctx)

	return e
}

// release drops one reference and disposes the entry on the last one.
func (r *trackers) release(e *entry) {
	r.mu.Lock()
	e.refs--
	last := e.refs <= 0
	if last {
		key := registryKey{settings: e.s, id: e.id}
		if r.entries[key] == e {
			delete(r.entries, key)
		}
	}
	r.mu.Unlock()

	if last {
		e.s.Logger().Debug("tracker released", slog.String("type", e.value.Type().String()))
		e.dispose()
	}
}

func (r *trackers) addRoot(t *Tracker) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.roots[t] = struct{}{}
}

func (r *trackers) removeRoot(t *Tracker) {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.roots, t)
}

// building keeps sweeps out while entries are acquired and not linked yet.
// It is taken before any entry mutex, in the order sweep takes them.
func (r *trackers) building() func() {
	r.build.RLock()

	return r.build.RUnlock
}

// sweep disposes the entries no live root reaches. Reference counts alone
// never drop to zero on cycles of notifying values.
func (r *trackers) sweep() {
	r.build.Lock()
	defer r.build.Unlock()

	r.mu.Lock()
	pending := make([]*entry, 0, len(r.roots))
	for t := range r.roots {
		pending = append(pending, t.root)
	}
	r.mu.Unlock()

	reached := make(map[*entry]struct{})
	for len(pending) > 0 {
		e := pending[len(pending)-1]
		pending = pending[:len(pending)-1]

		if _, ok := reached[e]; ok {
			continue
		}

		reached[e] = struct{}{}
		pending = append(pending, e.linked()...)
	}

	r.mu.Lock()
	var unreached []*entry
	for key, e := range r.entries {
		if _, ok := reached[e]; !ok {
			delete(r.entries, key)
			unreached = append(unreached, e)
		}
	}
	r.mu.Unlock()

	for _, e := range unreached {
		e.dispose()
	}
}

// size returns the number of tracked values.
func (r *trackers) size() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return len(r.entries)
}
