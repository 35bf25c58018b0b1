package node_test

import (
	"iter"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"deepstate/diagnostic"
	"deepstate/node"
	"deepstate/options"
)

type fixed struct{ items []any }

func (f *fixed) Len() int              { return len(f.items) }
func (f *fixed) Index(i int) any       { return f.items[i] }
func (f *fixed) SetIndex(i int, v any) { f.items[i] = v }

type growing struct{ fixed }

func (g *growing) Append(v any)   { g.items = append(g.items, v) }
func (g *growing) Truncate(n int) { g.items = g.items[:n] }

type bag struct{ items map[any]struct{} }

func (b *bag) Len() int  { return len(b.items) }
func (b *bag) Clear()    { clear(b.items) }
func (b *bag) Add(v any) { b.items[v] = struct{}{} }

func (b *bag) Contains(v any) bool {
	_, ok := b.items[v]
	return ok
}

func (b *bag) Items() []any {
	out := make([]any, 0, len(b.items))
	for v := range b.items {
		out = append(out, v)
	}

	return out
}

// listBag implements both Set and List, Set wins.
type listBag struct {
	bag
	fixed
}

func (l *listBag) Len() int { return l.bag.Len() }

type numbers []int

func (n numbers) All() iter.Seq[any] {
	return func(yield func(any) bool) {
		for _, v := range n {
			if !yield(v) {
				return
			}
		}
	}
}

type countdown int

func (c countdown) All() iter.Seq[any] {
	return func(yield func(any) bool) {
		for i := int(c); i > 0; i-- {
			if !yield(i) {
				return
			}
		}
	}
}

func TestDispatch(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		t    reflect.Type
		want node.Kind
	}{
		{"slice", reflect.TypeFor[[]int](), node.KindList},
		{"array", reflect.TypeFor[[3]int](), node.KindArray},
		{"map", reflect.TypeFor[map[string]int](), node.KindMap},
		{"map set", reflect.TypeFor[map[string]struct{}](), node.KindSet},
		{"custom list", reflect.TypeFor[*growing](), node.KindList},
		{"fixed list", reflect.TypeFor[*fixed](), node.KindArray},
		{"custom set", reflect.TypeFor[*bag](), node.KindSet},
		{"set before list", reflect.TypeFor[*listBag](), node.KindSet},
		{"sequence before slice", reflect.TypeFor[numbers](), node.KindSequence},
		{"sequence", reflect.TypeFor[countdown](), node.KindSequence},
		{"struct", reflect.TypeFor[struct{ A int }](), node.KindUnknown},
		{"pointer", reflect.TypeFor[*int](), node.KindUnknown},
		{"interface", reflect.TypeFor[node.List](), node.KindUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.want, node.Dispatch(tt.t))
		})
	}
}

func leafEqual(_ any, x, y reflect.Value) (bool, error) {
	if !x.IsValid() || !y.IsValid() {
		return x.IsValid() == y.IsValid(), nil
	}

	return x.Interface() == y.Interface(), nil
}

func leafCopy(_ any, src, _ reflect.Value) (reflect.Value, error) {
	return src, nil
}

func TestSliceEqualAndDiff(t *testing.T) {
	t.Parallel()

	c, ok := node.Classify(reflect.TypeFor[[]int]())
	require.True(t, ok)

	x := reflect.ValueOf([]int{1, 2, 3})

	eq, err := c.Equal(x, reflect.ValueOf([]int{1, 2, 3}), leafEqual)
	require.NoError(t, err)
	assert.True(t, eq)

	eq, err = c.Equal(x, reflect.ValueOf([]int{1, 2}), leafEqual)
	require.NoError(t, err)
	assert.False(t, eq)

	diff, err := c.Diff(x, reflect.ValueOf([]int{1, 5}), leafEqual)
	require.NoError(t, err)
	assert.Equal(t, []any{1, 2}, diff)
}

func TestSliceCopy(t *testing.T) {
	t.Parallel()

	c, _ := node.Classify(reflect.TypeFor[[]int]())

	target := []int{9, 9, 9}
	out, err := c.Copy(reflect.ValueOf([]int{1, 2, 3}), reflect.ValueOf(target), leafCopy)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 3}, target, "same length is copied in place")
	assert.Equal(t, []int{1, 2, 3}, out.Interface())

	out, err = c.Copy(reflect.ValueOf([]int{1}), reflect.ValueOf(target), leafCopy)
	require.NoError(t, err)
	assert.Equal(t, []int{1}, out.Interface())

	out, err = c.Copy(reflect.ValueOf([]int(nil)), reflect.ValueOf(target), leafCopy)
	require.NoError(t, err)
	assert.True(t, out.IsNil())
}

func TestMapCopy(t *testing.T) {
	t.Parallel()

	c, _ := node.Classify(reflect.TypeFor[map[string]int]())

	target := map[string]int{"a": 0, "stale": 1}
	out, err := c.Copy(reflect.ValueOf(map[string]int{"a": 1, "b": 2}), reflect.ValueOf(target), leafCopy)
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"a": 1, "b": 2}, target)
	assert.Equal(t, reflect.ValueOf(target).Pointer(), out.Pointer())

	diff, err := c.Diff(reflect.ValueOf(map[string]int{"a": 1, "b": 2}), reflect.ValueOf(map[string]int{"a": 1, "c": 3}), leafEqual)
	require.NoError(t, err)
	assert.Equal(t, []any{"b", "c"}, diff)
}

func TestSetEqualIgnoresOrder(t *testing.T) {
	t.Parallel()

	c, _ := node.Classify(reflect.TypeFor[*bag]())

	x := &bag{items: map[any]struct{}{1: {}, 2: {}}}
	y := &bag{items: map[any]struct{}{2: {}, 1: {}}}

	eq, err := c.Equal(reflect.ValueOf(x), reflect.ValueOf(y), leafEqual)
	require.NoError(t, err)
	assert.True(t, eq)

	y.Add(3)
	eq, err = c.Equal(reflect.ValueOf(x), reflect.ValueOf(y), leafEqual)
	require.NoError(t, err)
	assert.False(t, eq)

	_, err = c.Copy(reflect.ValueOf(y), reflect.ValueOf(x), leafCopy)
	require.NoError(t, err)
	assert.Equal(t, 3, x.Len())
}

func TestCustomListCopy(t *testing.T) {
	t.Parallel()

	grow, _ := node.Classify(reflect.TypeFor[*growing]())

	target := &growing{fixed{items: []any{1, 2, 3}}}
	_, err := grow.Copy(reflect.ValueOf(&growing{fixed{items: []any{7}}}), reflect.ValueOf(target), leafCopy)
	require.NoError(t, err)
	assert.Equal(t, []any{7}, target.items)

	_, err = grow.Copy(reflect.ValueOf(&growing{fixed{items: []any{1, 2}}}), reflect.ValueOf(target), leafCopy)
	require.NoError(t, err)
	assert.Equal(t, []any{1, 2}, target.items)

	fix, _ := node.Classify(reflect.TypeFor[*fixed]())

	_, err = fix.Copy(reflect.ValueOf(&fixed{items: []any{1}}), reflect.ValueOf(&fixed{items: []any{1, 2}}), leafCopy)
	assert.ErrorIs(t, err, diagnostic.ErrNotResizableCollectionMismatch)
}

func TestSequencePadsShorterSide(t *testing.T) {
	t.Parallel()

	c, _ := node.Classify(reflect.TypeFor[countdown]())

	var pairs [][2]bool
	record := func(_ any, x, y reflect.Value) (bool, error) {
		pairs = append(pairs, [2]bool{x.IsValid(), y.IsValid()})
		return true, nil
	}

	eq, err := c.Equal(reflect.ValueOf(countdown(3)), reflect.ValueOf(countdown(1)), record)
	require.NoError(t, err)
	assert.True(t, eq, "the item comparer decides on padded pairs")
	assert.Equal(t, [][2]bool{{true, true}, {true, false}, {true, false}}, pairs)

	eq, err = c.Equal(reflect.ValueOf(countdown(3)), reflect.ValueOf(countdown(2)), leafEqual)
	require.NoError(t, err)
	assert.False(t, eq)

	_, err = c.Copy(reflect.ValueOf(countdown(1)), reflect.ValueOf(countdown(1)), leafCopy)
	assert.ErrorIs(t, err, diagnostic.ErrUnsupportedEnumerableShape)
}

type leafy struct {
	Name string
	When [2]int
}

type tree struct {
	Name     string
	Children []*tree
}

type wrapper struct {
	Items []leafy
	Index map[string]leafy
}

func TestNeedsReferenceHandling(t *testing.T) {
	t.Parallel()

	s := options.Default(options.MembersExported, options.Throw)

	tests := []struct {
		name string
		t    reflect.Type
		want bool
	}{
		{"leaf struct", reflect.TypeFor[leafy](), false},
		{"slice of values", reflect.TypeFor[[]leafy](), false},
		{"collections of values", reflect.TypeFor[wrapper](), false},
		{"pointer", reflect.TypeFor[*tree](), true},
		{"slice of pointers", reflect.TypeFor[[]*tree](), true},
		{"struct holding pointers", reflect.TypeFor[tree](), false},
		{"map of pointers", reflect.TypeFor[map[string]*tree](), true},
		{"interface", reflect.TypeFor[any](), true},
		{"sequence", reflect.TypeFor[numbers](), true},
		{"immutable sequence", reflect.TypeFor[countdown](), false},
		{"chan", reflect.TypeFor[chan int](), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.want, node.NeedsReferenceHandling(tt.t, s, node.EqualLeaf))
		})
	}
}

func TestDecide(t *testing.T) {
	t.Parallel()

	pointer := reflect.TypeFor[*tree]()

	assert.Equal(t, node.ActionLeaf, node.Decide(reflect.TypeFor[string](), options.Default(options.MembersExported, options.Throw), node.EqualLeaf))
	assert.Equal(t, node.ActionStructural, node.Decide(reflect.TypeFor[tree](), options.Default(options.MembersExported, options.Throw), node.EqualLeaf))
	assert.Equal(t, node.ActionReject, node.Decide(pointer, options.Default(options.MembersExported, options.Throw), node.EqualLeaf))
	assert.Equal(t, node.ActionReference, node.Decide(pointer, options.Default(options.MembersExported, options.References), node.EqualLeaf))
	assert.Equal(t, node.ActionStructural, node.Decide(pointer, options.Default(options.MembersExported, options.Structural), node.EqualLeaf))

	ignored := options.New(options.MembersExported, options.Throw, options.WithIgnoredType[*tree]())
	assert.Equal(t, node.ActionIgnore, node.Decide(pointer, ignored, node.EqualLeaf))
	assert.False(t, node.NeedsReferenceHandling(reflect.TypeFor[[]*tree](), ignored, node.EqualLeaf))
}
