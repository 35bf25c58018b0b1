// Package verify checks, from the type alone, whether values of a type can be
// compared, copied or tracked under given settings. It mirrors the decisions
// the engines take on values and caches the outcome per settings, operation
// and type.
package verify
