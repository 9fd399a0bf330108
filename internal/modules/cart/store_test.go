package cart

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) (*Store, Persister) {
	t.Helper()
	p := NewMemoryPersister()
	s := NewStore("session-1", p, nil)
	require.NoError(t, s.Load(context.Background()))
	return s, p
}

func sumLines(items []LineItem) float64 {
	var sum float64
	for _, it := range items {
		sum += it.Price * float64(it.Quantity)
	}
	return sum
}

func TestStore_RepeatedAddKeepsFirstPrice(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)

	for i, price := range []float64{12.50, 15.00, 9.99, 12.50} {
		li, err := s.AddItem(ctx, "Chocolate Cake", price)
		require.NoError(t, err)
		assert.Equal(t, i+1, li.Quantity)
	}

	items := s.Items()
	require.Len(t, items, 1)
	assert.Equal(t, "chocolate-cake", items[0].ID)
	assert.Equal(t, 4, items[0].Quantity)
	assert.Equal(t, 12.50, items[0].Price)
}

func TestStore_InsertionOrderIsDisplayOrder(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)

	for _, name := range []string{"Sourdough Loaf", "Butter Croissant", "Chocolate Cake", "Butter Croissant"} {
		_, err := s.AddItem(ctx, name, 1)
		require.NoError(t, err)
	}

	var ids []string
	for _, it := range s.Items() {
		ids = append(ids, it.ID)
	}
	assert.Equal(t, []string{"sourdough-loaf", "butter-croissant", "chocolate-cake"}, ids)
}

func TestStore_DecreaseNeverDropsBelowOne(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)
	_, err := s.AddItem(ctx, "Scone", 2)
	require.NoError(t, err)

	require.NoError(t, s.DecreaseQuantity(ctx, "scone"))
	require.NoError(t, s.DecreaseQuantity(ctx, "scone"))

	items := s.Items()
	require.Len(t, items, 1)
	assert.Equal(t, 1, items[0].Quantity)

	require.NoError(t, s.IncreaseQuantity(ctx, "scone"))
	require.NoError(t, s.IncreaseQuantity(ctx, "scone"))
	require.NoError(t, s.DecreaseQuantity(ctx, "scone"))
	assert.Equal(t, 2, s.Items()[0].Quantity)
}

func TestStore_UnknownIDsAreNoOps(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)
	_, err := s.AddItem(ctx, "Scone", 2)
	require.NoError(t, err)
	before := s.Snapshot()

	var changes int
	s.Subscribe(func(Change) { changes++ })
	changes = 0

	assert.NoError(t, s.IncreaseQuantity(ctx, "missing"))
	assert.NoError(t, s.DecreaseQuantity(ctx, "missing"))
	assert.NoError(t, s.RemoveItem(ctx, "missing"))
	assert.NoError(t, s.DecreaseQuantity(ctx, "scone"))

	assert.Equal(t, before, s.Snapshot())
	assert.Zero(t, changes)
}

func TestStore_RemoveThenAddStartsFresh(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)
	for i := 0; i < 3; i++ {
		_, err := s.AddItem(ctx, "Chocolate Cake", 12.50)
		require.NoError(t, err)
	}

	require.NoError(t, s.RemoveItem(ctx, "chocolate-cake"))
	assert.Empty(t, s.Items())

	li, err := s.AddItem(ctx, "Chocolate Cake", 14.00)
	require.NoError(t, err)
	assert.Equal(t, 1, li.Quantity)
	assert.Equal(t, 14.00, li.Price)
}

func TestStore_TotalsFollowEveryMutation(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)

	check := func() {
		t.Helper()
		items := s.Items()
		totals := s.Totals()
		assert.InDelta(t, sumLines(items), totals.Subtotal, 0.005)
		count := 0
		for _, it := range items {
			count += it.Quantity
		}
		assert.Equal(t, count, totals.TotalItems)
	}

	steps := []func() error{
		func() error { _, err := s.AddItem(ctx, "Butter Croissant", 3.50); return err },
		func() error { _, err := s.AddItem(ctx, "Sourdough Loaf", 8.00); return err },
		func() error { _, err := s.AddItem(ctx, "Butter Croissant", 3.50); return err },
		func() error { return s.IncreaseQuantity(ctx, "sourdough-loaf") },
		func() error { return s.DecreaseQuantity(ctx, "butter-croissant") },
		func() error { return s.RemoveItem(ctx, "sourdough-loaf") },
		func() error { _, err := s.AddItem(ctx, "Brownie", 0.1); return err },
		func() error { return s.IncreaseQuantity(ctx, "brownie") },
		func() error { return s.IncreaseQuantity(ctx, "brownie") },
		func() error { return s.Clear(ctx) },
	}
	for _, step := range steps {
		require.NoError(t, step())
		check()
	}

	assert.Equal(t, Totals{}, s.Totals())
}

func TestStore_ChocolateCakeScenario(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)

	_, err := s.AddItem(ctx, "Chocolate Cake", 12.50)
	require.NoError(t, err)
	_, err = s.AddItem(ctx, "Chocolate Cake", 12.50)
	require.NoError(t, err)

	items := s.Items()
	require.Len(t, items, 1)
	assert.Equal(t, 2, items[0].Quantity)
	assert.Equal(t, 25.00, s.Totals().Subtotal)

	require.NoError(t, s.RemoveItem(ctx, items[0].ID))
	assert.Empty(t, s.Items())
	assert.Equal(t, 0.00, s.Totals().Subtotal)
}

func TestStore_RejectsUnusablePrices(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)
	for _, price := range []float64{-1, math.NaN(), math.Inf(1)} {
		_, err := s.AddItem(ctx, "Bun", price)
		assert.ErrorIs(t, err, ErrInvalidPrice)
	}
	assert.Empty(t, s.Items())
}

func TestStore_EmptyNameFallsBack(t *testing.T) {
	s, _ := newTestStore(t)
	li, err := s.AddItem(context.Background(), "  ", 1)
	require.NoError(t, err)
	assert.Equal(t, "Product", li.Name)
	assert.Equal(t, "product", li.ID)
}

func TestStore_WriteThroughAndRehydrate(t *testing.T) {
	ctx := context.Background()
	s, p := newTestStore(t)
	_, err := s.AddItem(ctx, "Chocolate Cake", 12.50)
	require.NoError(t, err)
	_, err = s.AddItem(ctx, "Butter Croissant", 3.50)
	require.NoError(t, err)
	require.NoError(t, s.IncreaseQuantity(ctx, "butter-croissant"))

	reloaded := NewStore("session-1", p, nil)
	require.NoError(t, reloaded.Load(ctx))
	assert.Equal(t, s.Snapshot(), reloaded.Snapshot())

	require.NoError(t, s.Clear(ctx))
	require.NoError(t, reloaded.Load(ctx))
	assert.Empty(t, reloaded.Items())

	other := NewStore("session-2", p, nil)
	require.NoError(t, other.Load(ctx))
	assert.Empty(t, other.Items())
}

func TestStore_CorruptSavedCartLoadsEmpty(t *testing.T) {
	ctx := context.Background()
	for name, data := range map[string]string{
		"not json":       `{"oops"`,
		"wrong shape":    `{"id":"cake"}`,
		"zero quantity":  `[{"id":"cake","name":"Cake","price":1,"quantity":0}]`,
		"duplicate rows": `[{"id":"cake","name":"Cake","price":1,"quantity":1},{"id":"cake","name":"Cake","price":1,"quantity":2}]`,
		"missing id":     `[{"name":"Cake","price":1,"quantity":1}]`,
	} {
		t.Run(name, func(t *testing.T) {
			p := NewMemoryPersister()
			require.NoError(t, p.Save(ctx, "k", []byte(data)))
			s := NewStore("k", p, nil)
			require.NoError(t, s.Load(ctx))
			assert.Empty(t, s.Items())
		})
	}
}

type failingPersister struct{ err error }

func (f failingPersister) Load(ctx context.Context, key string) ([]byte, error) { return nil, f.err }
func (f failingPersister) Save(ctx context.Context, key string, data []byte) error {
	return f.err
}

func TestStore_StorageErrors(t *testing.T) {
	ctx := context.Background()
	boom := errors.New("disk full")
	s := NewStore("k", failingPersister{err: boom}, nil)

	assert.ErrorIs(t, s.Load(ctx), boom)

	_, err := s.AddItem(ctx, "Cake", 1)
	assert.ErrorIs(t, err, boom)
	assert.Len(t, s.Items(), 1, "the in-memory cart keeps the change")
}

func TestStore_SubscribersSeeEachChange(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)

	var kinds []ChangeKind
	var last Snapshot
	s.Subscribe(func(c Change) {
		kinds = append(kinds, c.Kind)
		last = c.Snapshot
	})

	_, err := s.AddItem(ctx, "Cake", 2)
	require.NoError(t, err)
	require.NoError(t, s.IncreaseQuantity(ctx, "cake"))
	require.NoError(t, s.RemoveItem(ctx, "cake"))
	require.NoError(t, s.Clear(ctx))

	assert.Equal(t, []ChangeKind{ChangeLoaded, ChangeAdded, ChangeQuantity, ChangeRemoved, ChangeCleared}, kinds)
	assert.True(t, last.Empty())
}
