package typefacts

import (
	"reflect"
	"strings"
	"sync"
)

// TagKey is the struct tag consulted for member options.
const TagKey = "state"

// Tag holds the parsed `state:"..."` options of a struct field.
type Tag struct {
	// ReadOnly fields are never assigned by a copy.
	ReadOnly bool
	// Ignored fields are skipped by every traversal.
	Ignored bool
}

// ParseTag parses `state:"readonly"` and `state:"-"`.
func ParseTag(f reflect.StructField) Tag {
	raw, ok := f.Tag.Lookup(TagKey)
	if !ok {
		return Tag{}
	}

	if raw == "-" {
		return Tag{Ignored: true}
	}

	var tag Tag
	for _, opt := range strings.Split(raw, ",") {
		switch strings.TrimSpace(opt) {
		case "readonly":
			tag.ReadOnly = true
		case "-":
			tag.Ignored = true
		}
	}

	return tag
}

var readOnlyCache sync.Map // reflect.Type -> bool

// HasReadOnly reports whether assigning a whole value of t would write a field
// tagged `state:"readonly"`: t is a struct with such a field, or a struct or an
// array holding one by value. Pointers are not followed.
func HasReadOnly(t reflect.Type) bool {
	if v, ok := readOnlyCache.Load(t); ok {
		return v.(bool)
	}

	result := false

	switch t.Kind() {
	case reflect.Array:
		result = HasReadOnly(t.Elem())
	case reflect.Struct:
		for i := 0; i < t.NumField() && !result; i++ {
			f := t.Field(i)
			tag := ParseTag(f)

			if !tag.Ignored {
				result = tag.ReadOnly || HasReadOnly(f.Type)
			}
		}
	}

	readOnlyCache.Store(t, result)

	return result
}
