package verify

import (
	"reflect"

	"deepstate/diagnostic"
	"deepstate/internal/analyze"
	"deepstate/node"
	"deepstate/notify"
	"deepstate/options"
)

var (
	memberNotifierType     = reflect.TypeFor[notify.MemberNotifier]()
	collectionNotifierType = reflect.TypeFor[notify.CollectionNotifier]()
)

// walker visits every type reachable from a root once, in breadth-first order,
// and collects one error node per visited type.
type walker struct {
	s         *options.Settings
	op        Op
	leaf      node.LeafFunc
	operation string
	dealer    node.Dealer
	nodes     map[reflect.Type]*diagnostic.TypeErrors
}

func newWalker(s *options.Settings, op Op) *walker {
	return &walker{
		s:         s,
		op:        op,
		leaf:      op.Leaf(),
		operation: op.Name(s),
		nodes:     make(map[reflect.Type]*diagnostic.TypeErrors),
	}
}

func (w *walker) node(t reflect.Type) *diagnostic.TypeErrors {
	n, ok := w.nodes[t]
	if !ok {
		n = diagnostic.NewTypeErrors(w.operation, t)
		w.nodes[t] = n
	}

	return n
}

func (w *walker) run(root reflect.Type) *diagnostic.TypeErrors {
	w.dealer.Needs(root, analyze.RootOf(root))

	for {
		need, ok := w.dealer.NextNeeds()
		if !ok {
			break
		}

		w.visit(need.Type, need.Path)
	}

	return w.node(root)
}

// visit checks the members or items of t, which the engine recurses into.
func (w *walker) visit(t reflect.Type, path *analyze.TypePath) {
	n := w.node(t)

	if w.leaf(t, w.s) {
		return
	}

	if c, ok := node.Classify(t); ok {
		w.collection(n, t, c, path)
		return
	}

	switch t.Kind() {
	case reflect.Struct:
		for _, m := range node.Members(t, w.s) {
			w.child(n, m.Type, path.Field(m.Name), t, m.Name)
		}

	case reflect.Ptr:
		if w.op == Track && t.Elem().Kind() == reflect.Struct {
			w.notifier(n, t, path)
		}

		w.child(n, t.Elem(), path, nil, "")

	case reflect.Chan:
		if w.op != Track {
			n.Add(diagnostic.Fact{Kind: diagnostic.UnsupportedEnumerableShape, Path: path, Type: t})
		}
	}
}

func (w *walker) collection(n *diagnostic.TypeErrors, t reflect.Type, c node.Collection, path *analyze.TypePath) {
	if w.op == Track {
		if t.Kind() != reflect.Slice && t.Kind() != reflect.Array && t.Kind() != reflect.Map &&
			!t.Implements(collectionNotifierType) {
			n.Add(diagnostic.Fact{Kind: diagnostic.MissingChangeNotification, Path: path, Type: t})
		}

		w.child(n, c.Elem(), path.Slice(), nil, "")

		return
	}

	if t.Kind() == reflect.Map && !w.leaf(t.Key(), w.s) && w.s.ReferenceHandling() != options.References {
		n.Add(diagnostic.Fact{Kind: diagnostic.UnsupportedIndexer, Path: path, Type: t})
	}

	if w.op == Copy && c.Kind() == node.KindSequence {
		n.Add(diagnostic.Fact{Kind: diagnostic.UnsupportedEnumerableShape, Path: path, Type: t})
		return
	}

	if c.Kind() != node.KindSet {
		w.child(n, c.Elem(), path.Slice(), nil, "")
	}
}

// notifier checks that a pointer to a struct with writable members reports
// member changes.
func (w *walker) notifier(n *diagnostic.TypeErrors, t reflect.Type, path *analyze.TypePath) {
	if t.Implements(memberNotifierType) {
		return
	}

	for _, m := range node.Members(t.Elem(), w.s) {
		if !m.ReadOnly {
			n.Add(diagnostic.Fact{Kind: diagnostic.MissingChangeNotification, Path: path, Type: t})
			return
		}
	}
}

// child decides how the engine handles values declared as t and queues t when
// the engine recurses into it.
func (w *walker) child(n *diagnostic.TypeErrors, t reflect.Type, path *analyze.TypePath, owner reflect.Type, member string) {
	if w.leaf(t, w.s) || w.s.IsIgnoredType(t) {
		return
	}

	if w.op == Track {
		if t.Kind() != reflect.Interface {
			w.enqueue(n, t, path)
		}

		return
	}

	switch node.Decide(t, w.s, w.leaf) {
	case node.ActionReject:
		n.Add(diagnostic.Fact{
			Kind:   diagnostic.RequiresReferenceHandling,
			Path:   path,
			Type:   t,
			Owner:  owner,
			Member: member,
		})

	case node.ActionStructural:
		if t.Kind() != reflect.Interface {
			w.enqueue(n, t, path)
		}
	}
}

func (w *walker) enqueue(n *diagnostic.TypeErrors, t reflect.Type, path *analyze.TypePath) {
	n.AddChild(w.node(t))
	w.dealer.Needs(t, path)
}
