package node

import (
	"reflect"
	"sync"
	"unsafe"

	"deepstate/internal/typefacts"
	"deepstate/options"
)

// Member reads and writes one struct field. Members are built once per
// (settings, type) and cached.
type Member struct {
	// Name is the field name.
	Name string
	// Type is the declared field type.
	Type reflect.Type
	// Owner is the struct type declaring the field.
	Owner reflect.Type
	// ReadOnly fields are tagged `state:"readonly"` and never assigned by a copy.
	ReadOnly bool
	// Exported fields can be accessed without unsafe.
	Exported bool

	index int
}

// Get returns the field of owner. Unexported fields are reachable when owner is
// addressable, see Addressable.
func (m *Member) Get(owner reflect.Value) reflect.Value {
	f := owner.Field(m.index)
	if m.Exported || !f.CanAddr() {
		return f
	}

	return reflect.NewAt(f.Type(), unsafe.Pointer(f.UnsafeAddr())).Elem()
}

// Set assigns v to the field of an addressable owner.
func (m *Member) Set(owner, v reflect.Value) {
	m.Get(owner).Set(v)
}

type memberKey struct {
	settings *options.Settings
	owner    reflect.Type
}

var memberCache sync.Map // memberKey -> []*Member

// Members returns the fields of struct type t enumerated under s: filtered by
// visibility, without ignored fields and fields of ignored types.
func Members(t reflect.Type, s *options.Settings) []*Member {
	key := memberKey{settings: s, owner: t}
	if cached, ok := memberCache.Load(key); ok {
		return cached.([]*Member)
	}

	members := make([]*Member, 0, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if f.Name == "_" {
			continue
		}

		if s.Filter() == options.MembersExported && !f.IsExported() {
			continue
		}

		tag := typefacts.ParseTag(f)
		if tag.Ignored || s.IsIgnoredMember(t, f.Name) || s.IsIgnoredType(f.Type) {
			continue
		}

		members = append(members, &Member{
			Name:     f.Name,
			Type:     f.Type,
			Owner:    t,
			ReadOnly: tag.ReadOnly,
			Exported: f.IsExported(),
			index:    i,
		})
	}

	cached, _ := memberCache.LoadOrStore(key, members)

	return cached.([]*Member)
}

// Addressable returns v itself when it is addressable, otherwise an addressable copy.
func Addressable(v reflect.Value) reflect.Value {
	if !v.IsValid() || v.CanAddr() {
		return v
	}

	c := reflect.New(v.Type()).Elem()
	c.Set(v)

	return c
}
