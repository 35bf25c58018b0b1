package notify

//go:generate go tool stringer -type=Action -output=action_string.go

// Action is the kind of a collection change.
type Action int

const (
	// ActionAdd reports items inserted at Indices.
	ActionAdd Action = iota + 1
	// ActionRemove reports items removed from Indices, in the order before removal.
	ActionRemove
	// ActionReplace reports items overwritten at Indices.
	ActionReplace
	// ActionReset reports that any item may have changed.
	ActionReset
)

// MemberChanged reports that the member Name of a value was assigned.
type MemberChanged struct {
	Name string
}

// CollectionChanged reports a change of the items of a collection.
type CollectionChanged struct {
	Action  Action
	Indices []int
}

// MemberNotifier is implemented by values reporting member assignments.
type MemberNotifier interface {
	SubscribeMembers(fn func(MemberChanged)) *Subscription
}

// CollectionNotifier is implemented by collections reporting item changes.
type CollectionNotifier interface {
	SubscribeCollection(fn func(CollectionChanged)) *Subscription
}
