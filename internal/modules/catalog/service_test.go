package catalog

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestService() Service {
	return NewService(NewMemoryRepository(), zap.NewNop())
}

func TestService_CreateAndResolve(t *testing.T) {
	ctx := context.Background()
	svc := newTestService()

	p, err := svc.CreateProduct(ctx, CreateProductRequest{Name: "Chocolate Cake", Category: "cakes", Price: 12.50})
	require.NoError(t, err)
	assert.Equal(t, "USD", p.Currency)
	assert.True(t, p.IsActive)

	item, err := svc.Resolve(ctx, p.ID.String())
	require.NoError(t, err)
	assert.Equal(t, Item{ID: "chocolate-cake", Name: "Chocolate Cake", Price: 12.50}, item)

	_, err = svc.Resolve(ctx, "not-a-uuid")
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestService_CreateValidation(t *testing.T) {
	svc := newTestService()
	_, err := svc.CreateProduct(context.Background(), CreateProductRequest{Name: " ", Price: 1})
	assert.ErrorIs(t, err, ErrNameRequired)
	_, err = svc.CreateProduct(context.Background(), CreateProductRequest{Name: "Bun", Price: -1})
	assert.ErrorIs(t, err, ErrInvalidPrice)
}

func TestService_InactiveProductsAreHidden(t *testing.T) {
	ctx := context.Background()
	svc := newTestService()
	inactive := false

	p, err := svc.CreateProduct(ctx, CreateProductRequest{Name: "Stollen", Price: 9, IsActive: &inactive})
	require.NoError(t, err)

	_, err = svc.Resolve(ctx, p.ID.String())
	assert.ErrorIs(t, err, ErrProductNotFound)

	active, err := svc.ListProducts(ctx, "", true)
	require.NoError(t, err)
	assert.Empty(t, active)

	all, err := svc.ListProducts(ctx, "", false)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestService_Update(t *testing.T) {
	ctx := context.Background()
	svc := newTestService()
	p, err := svc.CreateProduct(ctx, CreateProductRequest{Name: "Scone", Price: 2, Currency: "EUR"})
	require.NoError(t, err)

	updated, err := svc.UpdateProduct(ctx, p.ID.String(), CreateProductRequest{Name: "Cheese Scone", Price: 2.75})
	require.NoError(t, err)
	assert.Equal(t, "Cheese Scone", updated.Name)
	assert.Equal(t, "EUR", updated.Currency)

	got, err := svc.GetProduct(ctx, p.ID.String())
	require.NoError(t, err)
	assert.Equal(t, 2.75, got.Price)

	_, err = svc.UpdateProduct(ctx, "00000000-0000-0000-0000-000000000000", CreateProductRequest{Name: "X"})
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestService_SeedSkipsExisting(t *testing.T) {
	ctx := context.Background()
	svc := newTestService()
	seeds := []CreateProductRequest{
		{Name: "Croissant", Category: "pastries", Price: 3.5},
		{Name: "Sourdough Loaf", Category: "bread", Price: 8},
	}

	n, err := svc.Seed(ctx, seeds)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	n, err = svc.Seed(ctx, append(seeds, CreateProductRequest{Name: "croissant", Price: 4}))
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	pastries, err := svc.ListProducts(ctx, "pastries", true)
	require.NoError(t, err)
	require.Len(t, pastries, 1)
	assert.Equal(t, 3.5, pastries[0].Price)
}
