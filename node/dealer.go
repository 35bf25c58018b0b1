package node

import (
	"reflect"

	"deepstate/internal/analyze"
)

// Need is a type waiting to be visited, with the path it was first reached by.
type Need struct {
	Type reflect.Type
	Path *analyze.TypePath
}

// Dealer hands out types to visit, each at most once, in the order they were
// requested.
type Dealer struct {
	needs []Need
	done  map[reflect.Type]struct{}
}

// NextNeeds pops the next type not yet visited and marks it done.
func (d *Dealer) NextNeeds() (Need, bool) {
	for len(d.needs) > 0 {
		need := d.needs[0]
		d.needs = d.needs[1:]

		if !d.IsDone(need.Type) {
			d.Done(need.Type)

			return need, true
		}
	}

	return Need{}, false
}

// Needs queues t unless it was already visited.
func (d *Dealer) Needs(t reflect.Type, path *analyze.TypePath) {
	if !d.IsDone(t) {
		d.needs = append(d.needs, Need{Type: t, Path: path})
	}
}

// Done marks t visited.
func (d *Dealer) Done(t reflect.Type) {
	if d.done == nil {
		d.done = make(map[reflect.Type]struct{})
	}

	d.done[t] = struct{}{}
}

// IsDone reports whether t was visited.
func (d *Dealer) IsDone(t reflect.Type) bool {
	_, ok := d.done[t]
	return ok
}
