package equal

import (
	"reflect"

	"deepstate/internal/verify"
	"deepstate/node"
	"deepstate/options"
)

// Fields reports whether x and y are equal field by field, unexported fields
// included. nil settings mean options.Structural.
func Fields[T any](x, y T, s *options.Settings) (bool, error) {
	return compare(x, y, settings(s, options.MembersAll))
}

// Properties reports whether x and y are equal comparing exported fields only.
// nil settings mean options.Structural.
func Properties[T any](x, y T, s *options.Settings) (bool, error) {
	return compare(x, y, settings(s, options.MembersExported))
}

// VerifyFields returns the errors Fields would fail with on any values of T,
// nil when T can be compared.
func VerifyFields[T any](s *options.Settings) error {
	return verify.Err(reflect.TypeFor[T](), settings(s, options.MembersAll), verify.Equal)
}

// VerifyProperties returns the errors Properties would fail with on any values
// of T, nil when T can be compared.
func VerifyProperties[T any](s *options.Settings) error {
	return verify.Err(reflect.TypeFor[T](), settings(s, options.MembersExported), verify.Equal)
}

// Diff returns the paths of the members and items that differ between x and y,
// comparing as Fields or Properties depending on the settings filter. nil
// settings mean exported fields and options.Structural.
func Diff[T any](x, y T, s *options.Settings) ([]string, error) {
	if s == nil {
		s = options.Default(options.MembersExported, options.Structural)
	}

	xv, yv := root(x), root(y)

	t, ok := rootType(xv, yv)
	if !ok {
		return []string{reflect.TypeFor[T]().String()}, nil
	}

	if err := check(t, s); err != nil {
		return nil, err
	}

	c := newComparer(s, t)
	c.diff = true

	if _, err := c.root(xv, yv, t); err != nil {
		return nil, err
	}

	return c.paths, nil
}

func settings(s *options.Settings, filter options.MemberFilter) *options.Settings {
	if s == nil {
		return options.Default(filter, options.Structural)
	}

	return s.ForFilter(filter)
}

// Value compares two values of the same type, as Fields or Properties depending
// on the settings filter.
func Value(x, y reflect.Value, s *options.Settings) (bool, error) {
	if !x.IsValid() || !y.IsValid() || x.Type() != y.Type() {
		return !x.IsValid() && !y.IsValid(), nil
	}

	return values(node.Addressable(x), node.Addressable(y), s)
}

func compare[T any](x, y T, s *options.Settings) (bool, error) {
	return values(root(x), root(y), s)
}

func values(xv, yv reflect.Value, s *options.Settings) (bool, error) {
	t, ok := rootType(xv, yv)
	if !ok {
		return false, nil
	}

	if err := check(t, s); err != nil {
		return false, err
	}

	return newComparer(s, t).root(xv, yv, t)
}

// root returns an addressable copy of v so unexported fields of a struct root
// can be read.
func root[T any](v T) reflect.Value {
	return reflect.ValueOf(&v).Elem()
}

// rootType returns the type the roots are compared as, the dynamic type for
// interface roots. Roots of different dynamic types are never equal.
func rootType(x, y reflect.Value) (reflect.Type, bool) {
	t := x.Type()
	if t.Kind() != reflect.Interface {
		return t, true
	}

	if x.IsNil() || y.IsNil() {
		return t, x.IsNil() == y.IsNil()
	}

	if x.Elem().Type() != y.Elem().Type() {
		return nil, false
	}

	return x.Elem().Type(), true
}

// check fails fast under options.Throw.
func check(t reflect.Type, s *options.Settings) error {
	if s.ReferenceHandling() != options.Throw {
		return nil
	}

	return verify.Err(t, s, verify.Equal)
}
