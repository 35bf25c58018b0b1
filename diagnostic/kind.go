package diagnostic

import "errors"

//go:generate go tool stringer -type=Kind -output=kind_string.go

// Kind classifies why a type or value cannot be traversed.
type Kind int

const (
	_ Kind = iota

	// RequiresReferenceHandling: a reference-typed member that is neither immutable nor
	// equatable was reached under options.Throw.
	RequiresReferenceHandling
	// ReferenceLoop: a cycle was reached in a mode that does not tolerate it.
	ReferenceLoop
	// NotResizableCollectionMismatch: fixed-size collections differ in length.
	NotResizableCollectionMismatch
	// CannotDefaultConstruct: no target instance exists and none can be created.
	CannotDefaultConstruct
	// ReadonlyMemberDiffers: a read-only member could not be reconciled during copy.
	ReadonlyMemberDiffers
	// UnsupportedIndexer: a map key type cannot be aligned structurally.
	UnsupportedIndexer
	// UnsupportedEnumerableShape: a collection that cannot be walked or written.
	UnsupportedEnumerableShape
	// MissingChangeNotification: a mutable member type cannot report its changes.
	MissingChangeNotification
)

var (
	ErrRequiresReferenceHandling      = errors.New("requires reference handling")
	ErrReferenceLoop                  = errors.New("reference loop")
	ErrNotResizableCollectionMismatch = errors.New("collection is not resizable and lengths differ")
	ErrCannotDefaultConstruct         = errors.New("cannot create instance")
	ErrReadonlyMemberDiffers          = errors.New("readonly member differs")
	ErrUnsupportedIndexer             = errors.New("unsupported map key")
	ErrUnsupportedEnumerableShape     = errors.New("unsupported collection shape")
	ErrMissingChangeNotification      = errors.New("missing change notification")
)

// Err returns the sentinel error of the kind.
func (k Kind) Err() error {
	switch k {
	case RequiresReferenceHandling:
		return ErrRequiresReferenceHandling
	case ReferenceLoop:
		return ErrReferenceLoop
	case NotResizableCollectionMismatch:
		return ErrNotResizableCollectionMismatch
	case CannotDefaultConstruct:
		return ErrCannotDefaultConstruct
	case ReadonlyMemberDiffers:
		return ErrReadonlyMemberDiffers
	case UnsupportedIndexer:
		return ErrUnsupportedIndexer
	case UnsupportedEnumerableShape:
		return ErrUnsupportedEnumerableShape
	case MissingChangeNotification:
		return ErrMissingChangeNotification
	default:
		return nil
	}
}

// KindOf returns the kind whose sentinel err wraps.
func KindOf(err error) (Kind, bool) {
	for k := RequiresReferenceHandling; k <= MissingChangeNotification; k++ {
		if errors.Is(err, k.Err()) {
			return k, true
		}
	}

	return 0, false
}
