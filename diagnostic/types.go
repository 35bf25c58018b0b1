package diagnostic

import (
	"errors"
	"reflect"
	"strings"

	"deepstate/internal/analyze"
)

// Fact is one reason a type or value cannot be traversed.
type Fact struct {
	// Kind of the problem.
	Kind Kind
	// Path locates the problem from the type that declares it.
	Path *analyze.TypePath
	// Type is the offending type.
	Type reflect.Type
	// Owner is the struct declaring Member, nil for collection items and roots.
	Owner reflect.Type
	// Member is the offending field name, if any.
	Member string
}

// IsMember reports whether the fact is about a struct field.
func (f Fact) IsMember() bool {
	return f.Owner != nil && f.Member != ""
}

// TypeErrors holds the verification facts of one type and the errors of the
// types it reaches. Subtrees are shared between parents and may be cyclic.
type TypeErrors struct {
	// Operation names the public call the errors were computed for, e.g. "equal.Fields".
	Operation string
	// Type is the verified type.
	Type reflect.Type
	// Facts are the problems found directly on Type.
	Facts []Fact
	// Children are the errors of member and element types.
	Children []*TypeErrors
}

// NewTypeErrors creates an empty error tree for t.
func NewTypeErrors(operation string, t reflect.Type) *TypeErrors {
	return &TypeErrors{Operation: operation, Type: t}
}

// Add records a fact.
func (e *TypeErrors) Add(f Fact) {
	e.Facts = append(e.Facts, f)
}

// AddChild links the errors of a reached type. Nil and empty trees are skipped.
func (e *TypeErrors) AddChild(c *TypeErrors) {
	if c == nil || c == e {
		return
	}

	for _, existing := range e.Children {
		if existing == c {
			return
		}
	}

	e.Children = append(e.Children, c)
}

// IsEmpty reports whether neither the tree nor any subtree holds a fact.
func (e *TypeErrors) IsEmpty() bool {
	return e == nil || len(e.All()) == 0
}

// All returns every fact of the tree, depth first, each subtree visited once.
func (e *TypeErrors) All() []Fact {
	var out []Fact
	seen := map[*TypeErrors]struct{}{}

	var walk func(n *TypeErrors)
	walk = func(n *TypeErrors) {
		if n == nil {
			return
		}

		if _, ok := seen[n]; ok {
			return
		}

		seen[n] = struct{}{}
		out = append(out, n.Facts...)

		for _, c := range n.Children {
			walk(c)
		}
	}

	walk(e)

	return out
}

// HasKind reports whether any fact of the tree has kind k.
func (e *TypeErrors) HasKind(k Kind) bool {
	for _, f := range e.All() {
		if f.Kind == k {
			return true
		}
	}

	return false
}

// Is matches the sentinel errors of the contained kinds.
func (e *TypeErrors) Is(target error) bool {
	for _, f := range e.All() {
		if errors.Is(f.Kind.Err(), target) {
			return true
		}
	}

	return false
}

// Error renders one block per fact.
func (e *TypeErrors) Error() string {
	facts := e.All()
	blocks := make([]string, 0, len(facts))

	for _, f := range facts {
		blocks = append(blocks, Render(e.Operation, f))
	}

	return strings.Join(blocks, "\n\n")
}

// Error is a failure reached while walking a value.
type Error struct {
	Fact

	// Operation names the public call, e.g. "deepcopy.Fields".
	Operation string
	// Source and Target are the values involved, when known.
	Source, Target reflect.Value
}

// NewError creates a runtime error for fact f.
func NewError(operation string, f Fact) *Error {
	return &Error{Fact: f, Operation: operation}
}

// WithValues attaches the values that could not be reconciled.
func (e *Error) WithValues(source, target reflect.Value) *Error {
	e.Source, e.Target = source, target
	return e
}

// Error renders the fact followed by the values involved.
func (e *Error) Error() string {
	msg := Render(e.Operation, e.Fact)
	if e.Source.IsValid() || e.Target.IsValid() {
		msg += "\nSource: " + formatValue(e.Source) + "\nTarget: " + formatValue(e.Target)
	}

	return msg
}

// Unwrap returns the sentinel of the kind.
func (e *Error) Unwrap() error {
	return e.Kind.Err()
}
