package options

import (
	"fmt"
	"log/slog"
	"reflect"
	"sync"
)

// Settings is the traversal policy shared by the equal, deepcopy and track packages.
//
// A Settings value is never modified after New returns, and its pointer identity is
// used as a cache key: build it once and reuse it.
type Settings struct {
	filter   MemberFilter
	handling ReferenceHandling

	ignoredMembers map[reflect.Type]map[string]struct{}
	ignoredTypes   map[reflect.Type]struct{}
	immutable      map[reflect.Type]struct{}
	comparers      map[reflect.Type]Func
	copiers        map[reflect.Type]Func

	logger *slog.Logger

	variants sync.Map // MemberFilter -> *Settings
}

// Option configures Settings during New.
type Option func(*Settings) error

// New builds Settings. It panics if an option is invalid, options are expected
// to be static program configuration.
func New(filter MemberFilter, handling ReferenceHandling, opts ...Option) *Settings {
	s, err := Build(filter, handling, opts...)
	if err != nil {
		panic(err)
	}

	return s
}

// Build is New returning the option error instead of panicking.
func Build(filter MemberFilter, handling ReferenceHandling, opts ...Option) (*Settings, error) {
	s := &Settings{
		filter:         filter,
		handling:       handling,
		ignoredMembers: make(map[reflect.Type]map[string]struct{}),
		ignoredTypes:   make(map[reflect.Type]struct{}),
		immutable:      make(map[reflect.Type]struct{}),
		comparers:      make(map[reflect.Type]Func),
		copiers:        make(map[reflect.Type]Func),
	}

	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}

	return s, nil
}

type defaultKey struct {
	filter   MemberFilter
	handling ReferenceHandling
}

var defaults sync.Map // defaultKey -> *Settings

// Default returns the process-wide Settings for filter and handling with no
// other configuration.
func Default(filter MemberFilter, handling ReferenceHandling) *Settings {
	key := defaultKey{filter: filter, handling: handling}
	if s, ok := defaults.Load(key); ok {
		return s.(*Settings)
	}

	s, _ := defaults.LoadOrStore(key, New(filter, handling))

	return s.(*Settings)
}

// WithIgnoredField excludes the named fields of struct T (or the struct T points to).
func WithIgnoredField[T any](names ...string) Option {
	owner := Indirect(reflect.TypeFor[T]())

	return func(s *Settings) error {
		if owner.Kind() != reflect.Struct {
			return fmt.Errorf("ignored field owner %s is not a struct", owner)
		}

		for _, name := range names {
			if _, ok := owner.FieldByName(name); !ok {
				return fmt.Errorf("type %s has no field %q", owner, name)
			}
		}

		s.ignoreMembers(owner, names...)

		return nil
	}
}

// WithIgnoredType makes values of T opaque: they are neither compared, copied nor tracked.
func WithIgnoredType[T any]() Option {
	return withType(reflect.TypeFor[T](), func(s *Settings, t reflect.Type) { s.ignoredTypes[t] = struct{}{} })
}

// WithImmutable forces T to be classified as immutable.
func WithImmutable[T any]() Option {
	return withType(reflect.TypeFor[T](), func(s *Settings, t reflect.Type) { s.immutable[t] = struct{}{} })
}

// WithComparer overrides equality for T.
func WithComparer[T any](fn func(x, y T) bool) Option {
	return WithComparerFunc(fn)
}

// WithCopier overrides copying for T. The returned value is stored in the target.
func WithCopier[T any](fn func(src, dst T) T) Option {
	return WithCopierFunc(fn)
}

// WithComparerFunc registers a comparer given as an untyped function, see ParseFunc.
func WithComparerFunc(fn any) Option {
	return func(s *Settings) error {
		f, err := ParseFunc(fn)
		if err != nil {
			return err
		}

		if f.Kind != FuncComparer {
			return fmt.Errorf("%w: %T is a copier", ErrUnsupportedSignature, fn)
		}

		s.comparers[f.Type] = f

		return nil
	}
}

// WithCopierFunc registers a copier given as an untyped function, see ParseFunc.
func WithCopierFunc(fn any) Option {
	return func(s *Settings) error {
		f, err := ParseFunc(fn)
		if err != nil {
			return err
		}

		if f.Kind != FuncCopier {
			return fmt.Errorf("%w: %T is a comparer", ErrUnsupportedSignature, fn)
		}

		s.copiers[f.Type] = f

		return nil
	}
}

// WithLogger sets the logger used for debug records. nil means slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Settings) error {
		s.logger = logger
		return nil
	}
}

func withType(t reflect.Type, apply func(*Settings, reflect.Type)) Option {
	return func(s *Settings) error {
		apply(s, t)
		return nil
	}
}

func (s *Settings) ignoreMembers(owner reflect.Type, names ...string) {
	set, ok := s.ignoredMembers[owner]
	if !ok {
		set = make(map[string]struct{}, len(names))
		s.ignoredMembers[owner] = set
	}

	for _, name := range names {
		set[name] = struct{}{}
	}
}

// ForFilter returns Settings equal to s except for the member filter. The
// variant is built once per filter and reused.
func (s *Settings) ForFilter(filter MemberFilter) *Settings {
	if s.filter == filter {
		return s
	}

	if v, ok := s.variants.Load(filter); ok {
		return v.(*Settings)
	}

	variant := &Settings{
		filter:         filter,
		handling:       s.handling,
		ignoredMembers: s.ignoredMembers,
		ignoredTypes:   s.ignoredTypes,
		immutable:      s.immutable,
		comparers:      s.comparers,
		copiers:        s.copiers,
		logger:         s.logger,
	}

	v, _ := s.variants.LoadOrStore(filter, variant)

	return v.(*Settings)
}

// Filter returns the member filter.
func (s *Settings) Filter() MemberFilter { return s.filter }

// ReferenceHandling returns the reference handling mode.
func (s *Settings) ReferenceHandling() ReferenceHandling { return s.handling }

// IsIgnoredMember reports whether field name of owner is excluded.
func (s *Settings) IsIgnoredMember(owner reflect.Type, name string) bool {
	_, ok := s.ignoredMembers[Indirect(owner)][name]
	return ok
}

// IsIgnoredType reports whether values of t are opaque.
func (s *Settings) IsIgnoredType(t reflect.Type) bool {
	_, ok := s.ignoredTypes[t]
	return ok
}

// IsForcedImmutable reports whether t was registered with WithImmutable.
func (s *Settings) IsForcedImmutable(t reflect.Type) bool {
	_, ok := s.immutable[t]
	return ok
}

// Comparer returns the custom comparer registered for t.
func (s *Settings) Comparer(t reflect.Type) (Func, bool) {
	f, ok := s.comparers[t]
	return f, ok
}

// Copier returns the custom copier registered for t.
func (s *Settings) Copier(t reflect.Type) (Func, bool) {
	f, ok := s.copiers[t]
	return f, ok
}

// Logger returns the configured logger or slog.Default().
func (s *Settings) Logger() *slog.Logger {
	if s.logger == nil {
		return slog.Default()
	}

	return s.logger
}

// String summarizes the policy for log records.
func (s *Settings) String() string {
	return fmt.Sprintf("%s/%s", s.filter, s.handling)
}

// Indirect strips all pointer levels from t.
func Indirect(t reflect.Type) reflect.Type {
	for t != nil && t.Kind() == reflect.Ptr {
		t = t.Elem()
	}

	return t
}
