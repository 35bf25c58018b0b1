package equal_test

import (
	"fmt"
	"iter"
	"testing"

	"github.com/davecgh/go-spew/spew"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"deepstate/diagnostic"
	"deepstate/equal"
	"deepstate/options"
	"deepstate/store"
)

func ExampleFields() {
	x := &store.Order{ID: 1, Status: store.StatusPaid, Items: []store.OrderItem{{ProductID: 7, Quantity: 2}}}
	y := &store.Order{ID: 1, Status: store.StatusPaid, Items: []store.OrderItem{{ProductID: 7, Quantity: 2}}}

	eq, err := equal.Fields(x, y, nil)
	fmt.Println(eq, err)

	y.Items[0].Quantity = 3
	eq, _ = equal.Fields(x, y, nil)
	fmt.Println(eq)

	// Output:
	// true <nil>
	// false
}

func ExampleDiff() {
	x := &store.Order{
		Status: store.StatusPending,
		Items:  []store.OrderItem{{ProductID: 1, Quantity: 1}, {ProductID: 2, Quantity: 1}},
		Notes:  map[string]string{"a": "1"},
	}
	y := &store.Order{
		Status: store.StatusPaid,
		Items:  []store.OrderItem{{ProductID: 1, Quantity: 1}, {ProductID: 2, Quantity: 2}},
		Notes:  map[string]string{"a": "1", "b": "2"},
	}

	paths, _ := equal.Diff(x, y, nil)
	for _, p := range paths {
		fmt.Println(p)
	}

	// Output:
	// store.Order.Status
	// store.Order.Items[1]
	// store.Order.Notes["b"]
}

func TestPropertiesSkipUnexportedFields(t *testing.T) {
	t.Parallel()

	x, y := store.NewProduct(1, "sku", 5), store.NewProduct(1, "sku", 6)

	eq, err := equal.Properties(x, y, nil)
	require.NoError(t, err)
	assert.True(t, eq)

	eq, err = equal.Fields(x, y, nil)
	require.NoError(t, err)
	assert.False(t, eq)
}

func TestSymmetry(t *testing.T) {
	t.Parallel()

	address := "main st"
	other := "side st"

	tests := []struct {
		name string
		x, y *store.Order
		want bool
	}{
		{"both empty", &store.Order{}, &store.Order{}, true},
		{"nil and empty items", &store.Order{}, &store.Order{Items: []store.OrderItem{}}, false},
		{"more items", &store.Order{Items: make([]store.OrderItem, 1)}, &store.Order{Items: make([]store.OrderItem, 2)}, false},
		{"nil customer", &store.Order{Customer: &store.Customer{}}, &store.Order{}, false},
		{"same address", &store.Order{Customer: &store.Customer{Address: &address}}, &store.Order{Customer: &store.Customer{Address: &address}}, true},
		{"different address", &store.Order{Customer: &store.Customer{Address: &address}}, &store.Order{Customer: &store.Customer{Address: &other}}, false},
		{"notes", &store.Order{Notes: map[string]string{"a": "1"}}, &store.Order{Notes: map[string]string{"b": "1"}}, false},
		{"nil root", nil, &store.Order{}, false},
		{"nil roots", nil, nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			for _, h := range []options.ReferenceHandling{options.Structural, options.StructuralWithReferenceLoops} {
				s := options.Default(options.MembersAll, h)

				xy, err := equal.Fields(tt.x, tt.y, s)
				require.NoError(t, err)

				yx, err := equal.Fields(tt.y, tt.x, s)
				require.NoError(t, err)

				assert.Equal(t, tt.want, xy, "%s\n%s", spew.Sdump(tt.x), spew.Sdump(tt.y))
				assert.Equal(t, xy, yx)
			}
		})
	}
}

func tree(names ...string) *store.Category {
	root := &store.Category{Name: "root"}
	for _, name := range names {
		root.Add(&store.Category{Name: name})
	}

	return root
}

func TestReferenceLoops(t *testing.T) {
	t.Parallel()

	_, err := equal.Fields(tree("a"), tree("a"), options.Default(options.MembersAll, options.Structural))
	require.ErrorIs(t, err, diagnostic.ErrReferenceLoop)
	assert.Contains(t, err.Error(), "store.Category.Children[0].Parent")

	loops := options.Default(options.MembersAll, options.StructuralWithReferenceLoops)

	eq, err := equal.Fields(tree("a", "b"), tree("a", "b"), loops)
	require.NoError(t, err)
	assert.True(t, eq)

	eq, err = equal.Fields(tree("a", "b"), tree("a", "c"), loops)
	require.NoError(t, err)
	assert.False(t, eq)

	self := &store.Category{Name: "self"}
	self.Parent = self
	other := &store.Category{Name: "self"}
	other.Parent = other

	eq, err = equal.Fields(self, self, loops)
	require.NoError(t, err)
	assert.True(t, eq)

	eq, err = equal.Fields(self, other, loops)
	require.NoError(t, err)
	assert.True(t, eq)
}

func TestReferences(t *testing.T) {
	t.Parallel()

	s := options.Default(options.MembersExported, options.References)
	customer := &store.Customer{Email: "a@b.c"}

	eq, err := equal.Properties(&store.Order{Customer: customer}, &store.Order{Customer: customer}, s)
	require.NoError(t, err)
	assert.True(t, eq)

	eq, err = equal.Properties(&store.Order{Customer: customer}, &store.Order{Customer: &store.Customer{Email: "a@b.c"}}, s)
	require.NoError(t, err)
	assert.False(t, eq)
}

func TestThrow(t *testing.T) {
	t.Parallel()

	s := options.Default(options.MembersExported, options.Throw)

	want := "equal.Properties failed for field: store.Order.Customer.\n" +
		"Solve the problem by any of:\n" +
		"* Implement Equal(*store.Customer) bool on *store.Customer.\n" +
		"* Register a comparer with options.WithComparer[*store.Customer].\n" +
		"* Use options.Structural or options.StructuralWithReferenceLoops to handle it structurally.\n" +
		"* Use options.References to handle it by reference.\n" +
		"* Ignore the type with options.WithIgnoredType[*store.Customer]().\n" +
		"* Ignore the field with options.WithIgnoredField[store.Order](\"Customer\")."

	err := equal.VerifyProperties[*store.Order](s)
	require.ErrorIs(t, err, diagnostic.ErrRequiresReferenceHandling)
	assert.Equal(t, want, err.Error())

	_, err = equal.Properties(&store.Order{}, &store.Order{}, s)
	require.Error(t, err)
	assert.Equal(t, want, err.Error())

	require.NoError(t, equal.VerifyProperties[store.OrderItem](s))
	require.NoError(t, equal.VerifyProperties[*store.Order](
		options.New(options.MembersExported, options.Throw, options.WithIgnoredField[store.Order]("Customer")),
	))

	eq, err := equal.Properties(store.OrderItem{Quantity: 1}, store.OrderItem{Quantity: 1}, s)
	require.NoError(t, err)
	assert.True(t, eq)
}

func TestCustomComparerAndIgnores(t *testing.T) {
	t.Parallel()

	s := options.New(options.MembersExported, options.Structural,
		options.WithComparer(func(x, y store.Customer) bool { return x.Email == y.Email }),
		options.WithIgnoredField[store.Order]("TotalCents"),
		options.WithIgnoredType[map[string]string](),
	)

	x := &store.Order{TotalCents: 1, Customer: &store.Customer{Email: "a", FullName: "A"}, Notes: map[string]string{"k": "v"}}
	y := &store.Order{TotalCents: 2, Customer: &store.Customer{Email: "a", FullName: "B"}}

	eq, err := equal.Properties(x, y, s)
	require.NoError(t, err)
	assert.True(t, eq)

	y.Customer.Email = "b"
	eq, err = equal.Properties(x, y, s)
	require.NoError(t, err)
	assert.False(t, eq)
}

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

func TestPaddedPair(t *testing.T) {
	t.Parallel()

	eq, err := equal.Properties(numbers{1, 2, 3}, numbers{1, 2}, nil)
	require.NoError(t, err)
	assert.False(t, eq)

	eq, err = equal.Properties(numbers{1, 2}, numbers{1, 2, 3}, nil)
	require.NoError(t, err)
	assert.False(t, eq)

	eq, err = equal.Properties(numbers{1, 2, 3}, numbers{1, 2, 3}, nil)
	require.NoError(t, err)
	assert.True(t, eq)
}

func TestInterfaceRoots(t *testing.T) {
	t.Parallel()

	eq, err := equal.Properties[any](1, 1, nil)
	require.NoError(t, err)
	assert.True(t, eq)

	eq, err = equal.Properties[any](1, "1", nil)
	require.NoError(t, err)
	assert.False(t, eq)

	eq, err = equal.Properties[any](nil, nil, nil)
	require.NoError(t, err)
	assert.True(t, eq)

	eq, err = equal.Properties[any](&store.OrderItem{Quantity: 1}, &store.OrderItem{Quantity: 1}, nil)
	require.NoError(t, err)
	assert.True(t, eq)
}

type audit struct{ By string }

type document struct {
	Title string
	Last  *audit
	Trail []audit
	Notes map[string]audit
	Extra any
}

func newDocument(title, by string) *document {
	return &document{
		Title: title,
		Last:  &audit{By: by},
		Trail: []audit{{By: by}},
		Notes: map[string]audit{"a": {By: by}},
		Extra: audit{By: by},
	}
}

func TestIgnoredTypeInstances(t *testing.T) {
	t.Parallel()

	s := options.New(options.MembersExported, options.Structural, options.WithIgnoredType[audit]())

	eq, err := equal.Properties(newDocument("a", "ann"), newDocument("a", "bob"), s)
	require.NoError(t, err)
	assert.True(t, eq)

	diff, err := equal.Diff(newDocument("a", "ann"), newDocument("b", "bob"), s)
	require.NoError(t, err)
	assert.Equal(t, []string{"equal_test.document.Title"}, diff)

	eq, err = equal.Properties(newDocument("a", "ann"), newDocument("a", "bob"), nil)
	require.NoError(t, err)
	assert.False(t, eq)
}
