package verify

import (
	"fmt"
	"log/slog"
	"reflect"
	"sync"

	"golang.org/x/sync/singleflight"

	"deepstate/diagnostic"
	"deepstate/node"
	"deepstate/options"
)

//go:generate go tool stringer -type=Op -output=op_string.go

// Op is the engine a type is verified for.
type Op int

const (
	Equal Op = iota + 1
	Copy
	Track
)

// Name returns the public operation name used in diagnostics.
func (o Op) Name(s *options.Settings) string {
	switch o {
	case Equal:
		return "equal." + members(s)
	case Copy:
		return "deepcopy." + members(s)
	default:
		return "track.Track"
	}
}

func members(s *options.Settings) string {
	if s.Filter() == options.MembersAll {
		return "Fields"
	}

	return "Properties"
}

// Leaf returns the recursion end of the engine.
func (o Op) Leaf() node.LeafFunc {
	switch o {
	case Equal:
		return node.EqualLeaf
	case Copy:
		return node.CopyLeaf
	default:
		return node.TrackLeaf
	}
}

type cacheKey struct {
	settings *options.Settings
	op       Op
	t        reflect.Type
}

var (
	cache sync.Map // cacheKey -> *diagnostic.TypeErrors
	group singleflight.Group
)

// Type returns the verification errors of t, an empty tree when values of t
// can be traversed. The root type is always handled structurally.
func Type(t reflect.Type, s *options.Settings, op Op) *diagnostic.TypeErrors {
	key := cacheKey{settings: s, op: op, t: t}
	if cached, ok := cache.Load(key); ok {
		return cached.(*diagnostic.TypeErrors)
	}

	v, _, _ := group.Do(fmt.Sprintf("%p|%d|%p", s, op, t), func() (any, error) {
		if cached, ok := cache.Load(key); ok {
			return cached, nil
		}

		errs := newWalker(s, op).run(t)
		cache.Store(key, errs)

		s.Logger().Debug("verified type",
			slog.String("type", t.String()),
			slog.String("operation", op.Name(s)),
			slog.Int("facts", len(errs.All())),
		)

		return errs, nil
	})

	return v.(*diagnostic.TypeErrors)
}

// Err is Type as an error, nil when t can be traversed.
func Err(t reflect.Type, s *options.Settings, op Op) error {
	errs := Type(t, s, op)
	if errs.IsEmpty() {
		return nil
	}

	return errs
}
