package diagnostic

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/davecgh/go-spew/spew"
)

var valueConfig = spew.ConfigState{
	DisablePointerAddresses: true,
	DisableCapacities:       true,
	DisableMethods:          true,
	SortKeys:                true,
}

// Render formats a fact as:
//
//	<operation> failed for <field|item|type>: <path>.
//	Solve the problem by any of:
//	* <remediation>
func Render(operation string, f Fact) string {
	var b strings.Builder

	fmt.Fprintf(&b, "%s failed for %s: %s.\n", operation, subject(f), f.Path)
	b.WriteString("Solve the problem by any of:")

	for _, r := range Remediations(operation, f) {
		b.WriteString("\n* ")
		b.WriteString(r)
	}

	return b.String()
}

func subject(f Fact) string {
	switch {
	case f.IsMember():
		return "field"
	case f.Path.EndsWithItem():
		return "item"
	default:
		return "type"
	}
}

func formatValue(v reflect.Value) string {
	if !v.IsValid() {
		return "<missing>"
	}

	if !v.CanInterface() {
		return "<" + v.Type().String() + ">"
	}

	return valueConfig.Sprintf("%+v", v.Interface())
}

// Remediations generates the suggestions for a fact from its kind.
func Remediations(operation string, f Fact) []string {
	family, _, _ := strings.Cut(operation, ".")
	t := typeName(f.Type)

	var out []string

	switch f.Kind {
	case RequiresReferenceHandling:
		switch family {
		case "equal":
			out = append(out,
				fmt.Sprintf("Implement Equal(%s) bool on %s.", t, t),
				fmt.Sprintf("Register a comparer with options.WithComparer[%s].", t),
			)
		case "deepcopy":
			out = append(out,
				fmt.Sprintf("Make %s immutable or register it with options.WithImmutable[%s]().", t, t),
				fmt.Sprintf("Register a copier with options.WithCopier[%s].", t),
			)
		}
		out = append(out,
			"Use options.Structural or options.StructuralWithReferenceLoops to handle it structurally.",
			"Use options.References to handle it by reference.",
		)

	case ReferenceLoop:
		out = append(out,
			"Use options.StructuralWithReferenceLoops to tolerate reference loops.",
			"Use options.References to handle it by reference.",
		)

	case NotResizableCollectionMismatch:
		out = append(out,
			fmt.Sprintf("Make sure source and target %s have the same length.", t),
			fmt.Sprintf("Use a resizable collection (a slice or a node.ResizableList) instead of %s.", t),
			fmt.Sprintf("Register a copier with options.WithCopier[%s].", t),
		)

	case CannotDefaultConstruct:
		out = append(out,
			fmt.Sprintf("Make sure the target %s is not nil before copying.", t),
			"Use options.References to handle it by reference.",
			fmt.Sprintf("Register a copier with options.WithCopier[%s].", t),
		)

	case ReadonlyMemberDiffers:
		if f.IsMember() {
			out = append(out, fmt.Sprintf("Make %s.%s writable by removing its `state:\"readonly\"` tag.", typeName(f.Owner), f.Member))
		}
		out = append(out, "Make sure source and target agree on read-only values before copying.")

	case UnsupportedIndexer:
		key := t
		if f.Type != nil && f.Type.Kind() == reflect.Map {
			key = typeName(f.Type.Key())
		}
		out = append(out,
			fmt.Sprintf("Use an immutable or equatable map key instead of %s.", key),
			customFunc(family, t),
		)

	case UnsupportedEnumerableShape:
		if family == "deepcopy" {
			out = append(out, fmt.Sprintf("Implement node.ResizableList on %s.", t))
		}
		out = append(out,
			customFunc(family, t),
			"Use options.References to handle it by reference.",
		)

	case MissingChangeNotification:
		out = append(out,
			fmt.Sprintf("Implement notify.MemberNotifier on %s, for example by embedding notify.Object.", t),
			fmt.Sprintf("Make %s immutable or register it with options.WithImmutable[%s]().", t, t),
		)
	}

	out = append(out, fmt.Sprintf("Ignore the type with options.WithIgnoredType[%s]().", t))
	if f.IsMember() {
		out = append(out, fmt.Sprintf("Ignore the field with options.WithIgnoredField[%s](%q).", typeName(f.Owner), f.Member))
	}

	return out
}

func customFunc(family, t string) string {
	if family == "deepcopy" {
		return fmt.Sprintf("Register a copier with options.WithCopier[%s].", t)
	}

	return fmt.Sprintf("Register a comparer with options.WithComparer[%s].", t)
}

func typeName(t reflect.Type) string {
	if t == nil {
		return "<nil>"
	}

	return t.String()
}
