package options

import (
	"reflect"
	"strings"
	"sync"

	"deepstate/internal/common"
)

// TypeRegistry resolves type names used in configuration files to reflect types.
type TypeRegistry struct {
	mu    sync.RWMutex
	types map[string]reflect.Type // full name -> type
}

// NewTypeRegistry creates a registry holding the given named types.
func NewTypeRegistry(types ...reflect.Type) *TypeRegistry {
	r := &TypeRegistry{types: make(map[string]reflect.Type, len(types))}
	for _, t := range types {
		r.Add(t)
	}

	return r
}

// Register adds T to r.
func Register[T any](r *TypeRegistry) {
	r.Add(reflect.TypeFor[T]())
}

// Add registers a named type. Pointer types register their element.
func (r *TypeRegistry) Add(t reflect.Type) {
	t = Indirect(t)
	if t == nil || t.Name() == "" {
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.types[fullName(t)] = t
}

// Resolve resolves a type name like:
// - "deepstate/store.Order" (full)
// - "store.Order" (short)
// - "Order" (name only)
// - "*store.Order" (pointer to any of the above).
func (r *TypeRegistry) Resolve(name string) (reflect.Type, bool) {
	if r == nil {
		return nil, false
	}

	if rest, ok := strings.CutPrefix(name, "*"); ok {
		t, found := r.Resolve(rest)
		if !found {
			return nil, false
		}

		return reflect.PointerTo(t), true
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	// Name-only: best-effort match by type name.
	if !strings.Contains(name, ".") {
		if name == "" {
			return nil, false
		}

		for _, t := range r.types {
			if t.Name() == name {
				return t, true
			}
		}

		return nil, false
	}

	// 1) exact match (for fully qualified import path)
	if t, ok := r.types[name]; ok {
		return t, true
	}

	// 2) suffix match (for short forms like "store.Order" vs "deepstate/store.Order")
	lastDot := strings.LastIndex(name, ".")
	pkgStr, typeName := name[:lastDot], name[lastDot+1:]
	if pkgStr == "" || typeName == "" {
		return nil, false
	}

	for _, t := range r.types {
		if t.Name() != typeName {
			continue
		}

		if common.PkgAlias(t.PkgPath()) == pkgStr || strings.HasSuffix(t.PkgPath(), "/"+pkgStr) {
			return t, true
		}
	}

	return nil, false
}

func fullName(t reflect.Type) string {
	if t.PkgPath() == "" {
		return t.Name()
	}

	return t.PkgPath() + "." + t.Name()
}
