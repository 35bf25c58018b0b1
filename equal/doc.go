// Package equal compares object graphs structurally.
//
// Fields compares every struct field, Properties only exported ones. Values of
// immutable or equatable types (see options.WithImmutable, options.WithComparer
// and types with a method Equal(T) bool) end the recursion, everything else is
// handled as the settings' ReferenceHandling says.
package equal
