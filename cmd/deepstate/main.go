// Package main provides the deepstate CLI.
//
// deepstate checks ahead of time whether the equal, deepcopy and track
// engines can traverse the registered types under a settings file:
//
//	deepstate verify --config deepstate.yaml --op copy store.Order *store.Cart
//	deepstate config --config deepstate.yaml
package main

import (
	"os"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
