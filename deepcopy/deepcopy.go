package deepcopy

import (
	"errors"
	"fmt"
	"reflect"

	"deepstate/diagnostic"
	"deepstate/internal/analyze"
	"deepstate/internal/verify"
	"deepstate/node"
	"deepstate/options"
)

var (
	// ErrNotAddressable is returned for targets that cannot be modified in place.
	ErrNotAddressable = errors.New("target cannot be modified in place")
	// ErrTypeMismatch is returned for interface roots of different dynamic types.
	ErrTypeMismatch = errors.New("source and target types differ")
	// ErrNilSource is returned when a nil source would have to replace a target.
	ErrNilSource = errors.New("source is nil")
)

// Fields copies source into target field by field, unexported fields included.
// T is a pointer, map, slice or custom collection. nil settings mean
// options.Structural.
func Fields[T any](source, target T, s *options.Settings) error {
	return copyRoot(source, target, settings(s, options.MembersAll))
}

// Properties copies the exported fields of source into target. nil settings
// mean options.Structural.
func Properties[T any](source, target T, s *options.Settings) error {
	return copyRoot(source, target, settings(s, options.MembersExported))
}

// VerifyFields returns the errors Fields would fail with on any values of T,
// nil when T can be copied.
func VerifyFields[T any](s *options.Settings) error {
	return verify.Err(reflect.TypeFor[T](), settings(s, options.MembersAll), verify.Copy)
}

// VerifyProperties returns the errors Properties would fail with on any values
// of T, nil when T can be copied.
func VerifyProperties[T any](s *options.Settings) error {
	return verify.Err(reflect.TypeFor[T](), settings(s, options.MembersExported), verify.Copy)
}

// Value copies src into dst, which must be of the same type, as Fields or
// Properties depending on the settings filter.
func Value(src, dst reflect.Value, s *options.Settings) error {
	if !src.IsValid() || !dst.IsValid() || src.Type() != dst.Type() {
		return fmt.Errorf("%w: %v and %v", ErrTypeMismatch, src, dst)
	}

	return copyValues(src, dst, s)
}

func settings(s *options.Settings, filter options.MemberFilter) *options.Settings {
	if s == nil {
		return options.Default(filter, options.Structural)
	}

	return s.ForFilter(filter)
}

func copyRoot[T any](source, target T, s *options.Settings) error {
	sv := reflect.ValueOf(&source).Elem()
	dv := reflect.ValueOf(&target).Elem()

	return copyValues(sv, dv, s)
}

func copyValues(sv, dv reflect.Value, s *options.Settings) error {
	t := sv.Type()
	if t.Kind() == reflect.Interface {
		switch {
		case sv.IsNil() && dv.IsNil():
			return nil
		case dv.IsNil():
			return rootError(s, diagnostic.CannotDefaultConstruct, t, sv, dv)
		case sv.IsNil():
			return fmt.Errorf("%w: target is %s", ErrNilSource, dv.Elem().Type())
		case sv.Elem().Type() != dv.Elem().Type():
			return fmt.Errorf("%w: source is %s, target is %s", ErrTypeMismatch, sv.Elem().Type(), dv.Elem().Type())
		}

		t = sv.Elem().Type()
		sv, dv = node.Addressable(sv.Elem()), dv.Elem()
	}

	if s.ReferenceHandling() == options.Throw {
		if err := verify.Err(t, s, verify.Copy); err != nil {
			return err
		}
	}

	switch t.Kind() {
	case reflect.Ptr, reflect.Map:
		switch {
		case sv.IsNil() && dv.IsNil():
			return nil
		case dv.IsNil():
			return rootError(s, diagnostic.CannotDefaultConstruct, t, sv, dv)
		case sv.IsNil():
			return fmt.Errorf("%w: target is %s", ErrNilSource, t)
		}

	case reflect.Slice:
		if sv.IsNil() != dv.IsNil() || sv.Len() != dv.Len() {
			return rootError(s, diagnostic.NotResizableCollectionMismatch, t, sv, dv)
		}

		if sv.IsNil() {
			return nil
		}

	default:
		return fmt.Errorf("%w: %s", ErrNotAddressable, t)
	}

	c := newCopier(s, t)

	out, err := c.root(sv, dv, t)
	if err != nil {
		return err
	}

	if out.Kind() == reflect.Ptr && out.Pointer() != dv.Pointer() {
		dv.Elem().Set(out.Elem())
	}

	return nil
}

func rootError(s *options.Settings, kind diagnostic.Kind, t reflect.Type, sv, dv reflect.Value) error {
	return diagnostic.NewError(operation(s), diagnostic.Fact{Kind: kind, Path: analyze.RootOf(t), Type: t}).WithValues(sv, dv)
}

func operation(s *options.Settings) string {
	if s.Filter() == options.MembersAll {
		return "deepcopy.Fields"
	}

	return "deepcopy.Properties"
}
