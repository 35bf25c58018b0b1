package options

import (
	"fmt"
	"strings"
)

//go:generate go tool stringer -type=ReferenceHandling -output=handling_string.go
//go:generate go tool stringer -type=MemberFilter -output=filter_string.go

// ReferenceHandling controls what happens when a traversal reaches a reference-typed
// member that is neither immutable nor equatable.
type ReferenceHandling int

const (
	// Throw rejects such members with a RequiresReferenceHandling error.
	Throw ReferenceHandling = iota
	// References compares and copies such members by identity.
	References
	// Structural recurses into such members. Reference loops are reported as errors.
	Structural
	// StructuralWithReferenceLoops recurses into such members and tolerates loops.
	StructuralWithReferenceLoops
)

// IsStructural reports whether members are recursed into.
func (h ReferenceHandling) IsStructural() bool {
	return h == Structural || h == StructuralWithReferenceLoops
}

// ParseReferenceHandling accepts the constant name in any case, with or without
// underscores, e.g. "structural_with_reference_loops".
func ParseReferenceHandling(s string) (ReferenceHandling, error) {
	norm := strings.ToLower(strings.ReplaceAll(s, "_", ""))
	for h := Throw; h <= StructuralWithReferenceLoops; h++ {
		if strings.ToLower(h.String()) == norm {
			return h, nil
		}
	}

	return 0, fmt.Errorf("%w: reference handling %q", ErrUnknownValue, s)
}

// MemberFilter selects which struct fields a traversal enumerates.
type MemberFilter int

const (
	// MembersExported enumerates exported fields only.
	MembersExported MemberFilter = iota
	// MembersAll enumerates exported and unexported fields.
	MembersAll
)

// ParseMemberFilter accepts "exported", "properties", "all" or "fields".
func ParseMemberFilter(s string) (MemberFilter, error) {
	switch strings.ToLower(s) {
	case "exported", "properties", "membersexported":
		return MembersExported, nil
	case "all", "fields", "membersall":
		return MembersAll, nil
	default:
		return 0, fmt.Errorf("%w: member filter %q", ErrUnknownValue, s)
	}
}
