// Package analyze renders readable paths through Go types and values for
// diagnostics.
//
// Paths look like "store.Order.Items[].Product" when describing a type shape and
// "store.Order.Items[2].Product" when describing a concrete value.
package analyze
