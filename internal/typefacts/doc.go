// Package typefacts answers "is this type immutable?" and "is this type
// equatable?" for reflect types. Verdicts are computed once per type and cached
// for the life of the process, type shapes cannot change at runtime.
package typefacts
