package cart

import (
	"errors"
	"math"
)

var (
	ErrInvalidPrice = errors.New("invalid price")
	ErrNoCart       = errors.New("no saved cart")
)

// LineItem is one distinct product in the cart. ID is derived from Name.
type LineItem struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Quantity int     `json:"quantity"`
	ImageURL string  `json:"image,omitempty"`
}

// LineTotal is Price × Quantity.
func (li LineItem) LineTotal() float64 {
	return round2(li.Price * float64(li.Quantity))
}

// Totals are derived from the current rows on every call.
type Totals struct {
	TotalItems int     `json:"total_items"`
	Subtotal   float64 `json:"subtotal"`
}

// Snapshot is an immutable copy of the cart at one point in time.
type Snapshot struct {
	Items  []LineItem `json:"items"`
	Totals Totals     `json:"totals"`
}

// Empty reports whether the snapshot has no rows.
func (s Snapshot) Empty() bool { return len(s.Items) == 0 }

// ChangeKind says which operation produced a Change.
type ChangeKind string

const (
	ChangeLoaded   ChangeKind = "loaded"
	ChangeAdded    ChangeKind = "added"
	ChangeQuantity ChangeKind = "quantity"
	ChangeRemoved  ChangeKind = "removed"
	ChangeCleared  ChangeKind = "cleared"
)

// Change is delivered to subscribers after every completed mutation.
type Change struct {
	Kind     ChangeKind
	ItemID   string
	Snapshot Snapshot
}

func computeTotals(items []LineItem) Totals {
	var t Totals
	var sum float64
	for _, it := range items {
		t.TotalItems += it.Quantity
		sum += it.Price * float64(it.Quantity)
	}
	t.Subtotal = round2(sum)
	return t
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
