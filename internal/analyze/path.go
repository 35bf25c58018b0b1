package analyze

import (
	"fmt"
	"reflect"
	"strings"
)

// TypePath builds a readable path string for a type or a value.
// Examples:
//   - "store.Order" for a root type
//   - "store.Order.Items" for a nested field
//   - "store.Order.Items[]" for the elements of a collection field
//   - "store.Order.Items[3]" for one element of a collection value
type TypePath struct {
	parts []string
}

// NewTypePath creates a new TypePath from a root type name.
func NewTypePath(root string) *TypePath {
	return &TypePath{
		parts: []string{root},
	}
}

// RootOf creates a TypePath rooted at t, without pointer decoration.
func RootOf(t reflect.Type) *TypePath {
	for t != nil && t.Kind() == reflect.Ptr {
		t = t.Elem()
	}

	if t == nil {
		return NewTypePath("<nil>")
	}

	return NewTypePath(t.String())
}

// Field appends a field name to the path.
func (p *TypePath) Field(name string) *TypePath {
	return &TypePath{
		parts: append(append([]string{}, p.parts...), name),
	}
}

// Slice appends an element indicator "[]" to the path.
func (p *TypePath) Slice() *TypePath {
	return p.suffix("[]")
}

// Index appends an element indicator "[key]" to the path.
func (p *TypePath) Index(key any) *TypePath {
	if s, ok := key.(string); ok {
		return p.suffix(fmt.Sprintf("[%q]", s))
	}

	return p.suffix(fmt.Sprintf("[%v]", key))
}

func (p *TypePath) suffix(s string) *TypePath {
	if len(p.parts) == 0 {
		return &TypePath{parts: []string{s}}
	}
	newParts := make([]string, len(p.parts))
	copy(newParts, p.parts)
	newParts[len(newParts)-1] = newParts[len(newParts)-1] + s
	return &TypePath{parts: newParts}
}

// IsRoot reports whether the path has no member or element segments.
func (p *TypePath) IsRoot() bool {
	return p == nil || (len(p.parts) == 1 && !strings.HasSuffix(p.parts[0], "]"))
}

// EndsWithItem reports whether the last segment addresses a collection element.
func (p *TypePath) EndsWithItem() bool {
	return p != nil && len(p.parts) > 0 && strings.HasSuffix(p.parts[len(p.parts)-1], "]")
}

// String returns the full path string.
func (p *TypePath) String() string {
	if p == nil {
		return ""
	}

	return strings.Join(p.parts, ".")
}
