package node

//go:generate go tool stringer -type=Kind -output=kind_string.go

// Kind is the collection shape a value is traversed as.
type Kind int

const (
	KindUnknown Kind = iota
	KindList
	KindArray
	KindMap
	KindSet
	KindSequence
)
