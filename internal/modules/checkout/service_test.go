package checkout

import (
	"context"
	"testing"
	"time"

	"github.com/georgemunganga/bakery-backend/internal/modules/cart"
	"github.com/georgemunganga/bakery-backend/internal/modules/order"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T, now *time.Time) (*service, cart.Service) {
	t.Helper()
	carts := cart.NewService(cart.Options{BasePath: cart.BasePath})
	opts := Options{
		Carts:  carts,
		Orders: order.NewService(order.NewMemoryRepository(), "USD", nil),
		Policy: DefaultPolicy(),
	}
	if now != nil {
		opts.Now = func() time.Time { return *now }
	}
	return NewService(opts).(*service), carts
}

func TestService_SweepForgetsIdleFlows(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 10, 1, 9, 0, 0, 0, time.UTC)
	svc, carts := newTestService(t, &now)

	for _, id := range []string{"a", "b"} {
		_, err := carts.AddItem(ctx, id, "Seasonal Fruit Pie", 18)
		require.NoError(t, err)
	}
	_, err := svc.Open(ctx, "a")
	require.NoError(t, err)
	now = now.Add(time.Hour)
	_, err = svc.Open(ctx, "b")
	require.NoError(t, err)

	now = now.Add(30 * time.Minute)
	assert.Equal(t, 1, svc.Sweep(time.Hour))

	s, err := svc.Summary(ctx, "a")
	require.NoError(t, err)
	assert.False(t, s.Open)
	s, err = svc.Summary(ctx, "b")
	require.NoError(t, err)
	assert.True(t, s.Open)

	now = now.Add(2 * time.Hour)
	assert.Equal(t, 1, svc.Sweep(time.Hour))
	assert.Empty(t, svc.flows)
}

func TestService_CloseAndSubmitForgetFlows(t *testing.T) {
	ctx := context.Background()
	svc, carts := newTestService(t, nil)

	_, err := svc.Summary(ctx, "reader")
	require.NoError(t, err)
	assert.Empty(t, svc.flows, "reading the summary does not create a flow")

	_, err = carts.AddItem(ctx, "a", "Seasonal Fruit Pie", 18)
	require.NoError(t, err)
	_, err = svc.Open(ctx, "a")
	require.NoError(t, err)
	s, err := svc.Close(ctx, "a")
	require.NoError(t, err)
	assert.False(t, s.Open)
	assert.Empty(t, svc.flows)

	_, err = svc.Open(ctx, "a")
	require.NoError(t, err)
	_, err = svc.Submit(ctx, "a", order.Customer{Name: "Wendy"})
	require.Error(t, err)
	assert.Len(t, svc.flows, 1, "a rejected submit keeps the flow open")

	receipt, err := svc.Submit(ctx, "a", wendy)
	require.NoError(t, err)
	assert.NotEmpty(t, receipt.OrderNumber)
	assert.Empty(t, svc.flows)
}
