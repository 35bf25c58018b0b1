package track

import (
	"log/slog"
	"reflect"
	"sync"

	"deepstate/deepcopy"
	"deepstate/notify"
	"deepstate/options"
)

// Synchronizer keeps a target a deep copy of a tracked source.
type Synchronizer[T any] struct {
	mu     sync.Mutex
	source reflect.Value
	target reflect.Value
	s      *options.Settings
	tree   *Tracker
	sub    *notify.Subscription
	copies int
	err    error
}

// Synchronize copies source into target now and after every change of the
// source tree. nil settings mean exported fields and options.Structural.
func Synchronize[T any](source, target T, s *options.Settings) (*Synchronizer[T], error) {
	if s == nil {
		s = options.Default(options.MembersExported, options.Structural)
	}

	y := &Synchronizer[T]{
		source: reflect.ValueOf(&source).Elem(),
		target: reflect.ValueOf(&target).Elem(),
		s:      s,
	}

	if err := deepcopy.Value(y.source, y.target, s); err != nil {
		return nil, err
	}

	tree, err := Track(source, s)
	if err != nil {
		return nil, err
	}

	y.tree = tree
	y.sub = tree.Subscribe(y.sync)

	return y, nil
}

func (y *Synchronizer[T]) sync(c Change) {
	y.mu.Lock()
	defer y.mu.Unlock()

	y.err = deepcopy.Value(y.source, y.target, y.s)
	y.copies++

	y.s.Logger().Debug("synchronized",
		slog.String("type", y.source.Type().String()),
		slog.String("member", c.Member),
		slog.Int("copies", y.copies),
		slog.Any("error", y.err),
	)
}

// Copies returns the number of copies made after source changes.
func (y *Synchronizer[T]) Copies() int {
	y.mu.Lock()
	defer y.mu.Unlock()

	return y.copies
}

// Err returns the error of the last copy.
func (y *Synchronizer[T]) Err() error {
	y.mu.Lock()
	defer y.mu.Unlock()

	return y.err
}

// Dispose stops synchronizing.
func (y *Synchronizer[T]) Dispose() {
	y.sub.Unsubscribe()
	y.tree.Dispose()
}
