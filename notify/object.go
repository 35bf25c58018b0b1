package notify

// Object implements MemberNotifier for the struct embedding it.
type Object struct {
	members Handlers[MemberChanged]
}

// SubscribeMembers implements MemberNotifier.
func (o *Object) SubscribeMembers(fn func(MemberChanged)) *Subscription {
	return o.members.Subscribe(fn)
}

// Changed reports an assignment of member name.
func (o *Object) Changed(name string) {
	o.members.Emit(MemberChanged{Name: name})
}

// Subscribers returns the number of member handlers.
func (o *Object) Subscribers() int {
	return o.members.Len()
}

// Assign sets *field to v and reports member name when the value changed.
func Assign[T comparable](o *Object, field *T, v T, name string) bool {
	if *field == v {
		return false
	}

	*field = v
	o.Changed(name)

	return true
}
