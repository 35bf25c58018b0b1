// Package notify defines how values report their own changes: member changes
// through MemberNotifier and collection changes through CollectionNotifier.
//
// Object is an embeddable MemberNotifier:
//
//	type Player struct {
//		notify.Object `state:"-"`
//
//		name string
//	}
//
//	func (p *Player) SetName(name string) {
//		notify.Assign(&p.Object, &p.name, name, "name")
//	}
//
// The `state:"-"` tag keeps the subscriptions out of comparisons and copies.
// List is an observable list usable as a collection member.
package notify
