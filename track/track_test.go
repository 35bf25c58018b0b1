package track_test

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"deepstate/diagnostic"
	"deepstate/notify"
	"deepstate/store"
	"deepstate/track"
)

func ExampleTrack() {
	cart := store.NewCart("ann")

	tr, err := track.Track(cart, nil)
	if err != nil {
		panic(err)
	}
	defer tr.Dispose()

	line := store.NewCartLine("sku-1", 1)
	cart.Lines.Push(line)
	fmt.Println(tr.Changes())

	line.SetQuantity(3)
	fmt.Println(tr.Changes())

	cart.SetOwner("bob")
	fmt.Println(tr.Changes())

	// Output:
	// 2
	// 3
	// 4
}

func TestChangeCount(t *testing.T) {
	t.Parallel()

	cart := store.NewCart("ann")
	line := store.NewCartLine("sku-1", 1)
	cart.Lines.Push(line)

	tr, err := track.Track(cart, nil)
	require.NoError(t, err)
	assert.Equal(t, 0, tr.Changes())

	var seen []track.Change
	tr.Subscribe(func(c track.Change) { seen = append(seen, c) })

	line.SetQuantity(2)
	assert.Equal(t, 1, tr.Changes())

	cart.SetLines(notify.NewList(store.NewCartLine("sku-2", 1)))
	assert.Equal(t, 4, tr.Changes(), "the new list and its line are attached")

	line.SetQuantity(5)
	assert.Equal(t, 4, tr.Changes(), "the replaced line is released")
	assert.Zero(t, line.Subscribers())

	cart.Lines.RemoveAt(0)
	assert.Equal(t, 5, tr.Changes())

	require.Len(t, seen, 3)
	assert.Equal(t, "Quantity", seen[0].Member)
	assert.Equal(t, "Lines", seen[1].Member)
	assert.Equal(t, 3, seen[1].Count)
	assert.Equal(t, notify.ActionRemove, seen[2].Action)
	assert.Equal(t, []int{0}, seen[2].Indices)

	tr.Dispose()
	cart.SetOwner("bob")
	assert.Equal(t, 5, tr.Changes(), "the counter stops on dispose")
	assert.Zero(t, cart.Subscribers())
	assert.Zero(t, cart.Lines.Subscribers())

	assert.NotPanics(t, tr.Dispose)
}

func TestSharedChildren(t *testing.T) {
	t.Parallel()

	line := store.NewCartLine("sku-1", 1)

	first, second := store.NewCart("ann"), store.NewCart("bob")
	first.Lines.Push(line)
	second.Lines.Push(line)

	t1, err := track.Track(first, nil)
	require.NoError(t, err)

	t2, err := track.Track(second, nil)
	require.NoError(t, err)

	assert.Equal(t, 1, line.Subscribers(), "one tracker per value")

	line.SetQuantity(2)
	assert.Equal(t, 1, t1.Changes())
	assert.Equal(t, 1, t2.Changes())

	t1.Dispose()
	assert.Equal(t, 1, line.Subscribers(), "still owned by the second cart")

	line.SetQuantity(3)
	assert.Equal(t, 1, t1.Changes())
	assert.Equal(t, 2, t2.Changes())

	t2.Dispose()
	assert.Zero(t, line.Subscribers())
}

func TestDisposeDuringChanges(t *testing.T) {
	t.Parallel()

	const rounds = 2000

	cart := store.NewCart("ann")

	tr, err := track.Track(cart, nil)
	require.NoError(t, err)
	defer tr.Dispose()

	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()

		for range rounds {
			cart.Lines.Push(store.NewCartLine("sku-1", 1))
			cart.Lines.RemoveAt(0)
		}
	}()

	go func() {
		defer wg.Done()

		for range rounds {
			other, err := track.Track(store.NewCart("bob"), nil)
			if assert.NoError(t, err) {
				other.Dispose()
			}
		}
	}()

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(30 * time.Second):
		require.FailNow(t, "disposing trackers blocked changes of another tracker")
	}

	assert.Equal(t, 3*rounds, tr.Changes(), "each push attaches a line")
	assert.Zero(t, cart.Lines.Len())
}

type folder struct {
	notify.Object `state:"-"`

	Name     string
	Parent   *folder
	Children *notify.List[*folder]
}

func newFolder(name string, parent *folder) *folder {
	f := &folder{Name: name, Parent: parent, Children: notify.NewList[*folder]()}
	if parent != nil {
		parent.Children.Push(f)
	}

	return f
}

func (f *folder) SetName(name string) {
	notify.Assign(&f.Object, &f.Name, name, "Name")
}

func TestCycles(t *testing.T) {
	t.Parallel()

	root := newFolder("root", nil)
	child := newFolder("child", root)

	tr, err := track.Track(root, nil)
	require.NoError(t, err)

	child.SetName("docs")
	assert.Equal(t, 1, tr.Changes())

	root.SetName("home")
	assert.Equal(t, 2, tr.Changes(), "a change is counted once")

	tr.Dispose()
	assert.Zero(t, root.Subscribers())
	assert.Zero(t, child.Subscribers())
	assert.Zero(t, root.Children.Subscribers())
}

func TestMissingChangeNotification(t *testing.T) {
	t.Parallel()

	_, err := track.Track(&store.Order{}, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, diagnostic.ErrMissingChangeNotification)
	assert.Contains(t, err.Error(), "track.Track failed for type: store.Order.\n"+
		"Solve the problem by any of:\n"+
		"* Implement notify.MemberNotifier on *store.Order, for example by embedding notify.Object.\n"+
		"* Make *store.Order immutable or register it with options.WithImmutable[*store.Order]().\n"+
		"* Ignore the type with options.WithIgnoredType[*store.Order]().")

	_, err = track.Track(map[string]*store.CartLine{}, nil)
	assert.ErrorIs(t, err, diagnostic.ErrMissingChangeNotification, "the root itself must notify")

	_, err = track.Track(nil, nil)
	assert.ErrorIs(t, err, track.ErrNotTrackable)
}

func TestDirty(t *testing.T) {
	t.Parallel()

	x, y := store.NewCart("ann"), store.NewCart("ann")
	x.Lines.Push(store.NewCartLine("sku-1", 1))
	y.Lines.Push(store.NewCartLine("sku-1", 1))

	d, err := track.Dirty(x, y, nil)
	require.NoError(t, err)
	defer d.Dispose()

	assert.False(t, d.IsDirty())

	x.Lines.At(0).SetQuantity(2)
	assert.True(t, d.IsDirty())
	assert.Equal(t, []string{"store.Cart.Lines[0].Quantity"}, d.Diff())

	y.Lines.At(0).SetQuantity(2)
	assert.False(t, d.IsDirty())
	assert.Empty(t, d.Diff())
	assert.NoError(t, d.Err())
}

func TestSynchronize(t *testing.T) {
	t.Parallel()

	source, target := store.NewCart("ann"), store.NewCart("")

	y, err := track.Synchronize(source, target, nil)
	require.NoError(t, err)
	assert.Equal(t, "ann", target.Owner)

	source.Lines.Push(store.NewCartLine("sku-1", 1))
	require.Equal(t, 1, target.Lines.Len())
	assert.NotSame(t, source.Lines.At(0), target.Lines.At(0))

	source.Lines.At(0).SetQuantity(4)
	assert.Equal(t, 4, target.Lines.At(0).Quantity)
	assert.Equal(t, 2, y.Copies())
	assert.NoError(t, y.Err())

	y.Dispose()
	source.SetOwner("bob")
	assert.Equal(t, "ann", target.Owner)
}
