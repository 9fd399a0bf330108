package cart

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestView_EmptyPanel(t *testing.T) {
	s, _ := newTestStore(t)
	v := NewView("$", BasePath)
	v.Attach(s)

	want := Panel{
		Empty:   true,
		Message: EmptyMessage,
		Rows:    []Row{},
		Total:   "$0.00",
	}
	if diff := cmp.Diff(want, v.Panel()); diff != "" {
		t.Errorf("panel mismatch (-want +got):\n%s", diff)
	}
}

func TestView_RendersRowsAndTotals(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)
	v := NewView("$", BasePath)
	v.Attach(s)

	_, err := s.AddItem(ctx, "Chocolate Cake", 12.5)
	require.NoError(t, err)
	_, err = s.AddItem(ctx, "Chocolate Cake", 12.5)
	require.NoError(t, err)
	_, err = s.AddItem(ctx, "Butter Croissant", 3.5)
	require.NoError(t, err)

	want := Panel{
		Open: true,
		Rows: []Row{
			{
				ID: "chocolate-cake", Name: "Chocolate Cake", UnitPrice: "$12.50", Quantity: 2, LineTotal: "$25.00",
				Actions: []Action{
					{Name: "increase", Method: "POST", Href: "/api/v1/cart/items/chocolate-cake/increase"},
					{Name: "decrease", Method: "POST", Href: "/api/v1/cart/items/chocolate-cake/decrease"},
					{Name: "remove", Method: "DELETE", Href: "/api/v1/cart/items/chocolate-cake"},
				},
			},
			{
				ID: "butter-croissant", Name: "Butter Croissant", UnitPrice: "$3.50", Quantity: 1, LineTotal: "$3.50",
				Actions: []Action{
					{Name: "increase", Method: "POST", Href: "/api/v1/cart/items/butter-croissant/increase"},
					{Name: "decrease", Method: "POST", Href: "/api/v1/cart/items/butter-croissant/decrease"},
					{Name: "remove", Method: "DELETE", Href: "/api/v1/cart/items/butter-croissant"},
				},
			},
		},
		Badge:    3,
		Total:    "$28.50",
		Subtotal: 28.5,
	}
	if diff := cmp.Diff(want, v.Panel()); diff != "" {
		t.Errorf("panel mismatch (-want +got):\n%s", diff)
	}
}

func TestView_OpenClose(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)
	v := NewView("€", "")
	v.Attach(s)

	assert.False(t, v.IsOpen())
	v.Open()
	assert.True(t, v.Panel().Open)
	v.Close()
	assert.False(t, v.Panel().Open)

	_, err := s.AddItem(ctx, "Stollen", 9)
	require.NoError(t, err)
	assert.True(t, v.IsOpen(), "adding an item opens the panel")
	assert.Equal(t, "€9.00", v.Panel().Total)

	v.Close()
	require.NoError(t, s.IncreaseQuantity(ctx, "stollen"))
	assert.False(t, v.IsOpen(), "quantity changes keep the panel closed")
	assert.Equal(t, 2, v.Panel().Badge)
}

func TestView_PanelIsACopy(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)
	v := NewView("$", BasePath)
	v.Attach(s)
	_, err := s.AddItem(ctx, "Cake", 1)
	require.NoError(t, err)

	p := v.Panel()
	p.Rows[0].Name = "changed"
	assert.Equal(t, "Cake", v.Panel().Rows[0].Name)
}
