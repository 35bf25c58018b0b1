package track

import (
	"log/slog"
	"sync"

	"deepstate/equal"
	"deepstate/notify"
	"deepstate/options"
)

// DirtyTracker tells whether two tracked values still compare equal.
type DirtyTracker[T any] struct {
	mu    sync.Mutex
	x, y  T
	s     *options.Settings
	diff  []string
	err   error
	trees [2]*Tracker
	subs  [2]*notify.Subscription
}

// Dirty tracks x and y and compares them again after every change of either.
// nil settings mean exported fields and options.Structural.
func Dirty[T any](x, y T, s *options.Settings) (*DirtyTracker[T], error) {
	if s == nil {
		s = options.Default(options.MembersExported, options.Structural)
	}

	d := &DirtyTracker[T]{x: x, y: y, s: s}

	for i, v := range []T{x, y} {
		t, err := Track(v, s)
		if err != nil {
			d.Dispose()
			return nil, err
		}

		d.trees[i] = t
		d.subs[i] = t.Subscribe(func(Change) { d.update() })
	}

	d.update()

	return d, nil
}

func (d *DirtyTracker[T]) update() {
	diff, err := equal.Diff(d.x, d.y, d.s)

	d.mu.Lock()
	d.diff, d.err = diff, err
	d.mu.Unlock()

	if err != nil {
		d.s.Logger().Debug("dirty comparison failed", slog.Any("error", err))
	}
}

// IsDirty reports whether the values differed after the last change.
func (d *DirtyTracker[T]) IsDirty() bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	return len(d.diff) > 0
}

// Diff returns the paths that differed after the last change.
func (d *DirtyTracker[T]) Diff() []string {
	d.mu.Lock()
	defer d.mu.Unlock()

	return append([]string(nil), d.diff...)
}

// Err returns the error of the last comparison.
func (d *DirtyTracker[T]) Err() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	return d.err
}

// Dispose stops tracking both values.
func (d *DirtyTracker[T]) Dispose() {
	for i := range d.trees {
		d.subs[i].Unsubscribe()

		if d.trees[i] != nil {
			d.trees[i].Dispose()
		}
	}
}
