package checkout

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/georgemunganga/bakery-backend/internal/modules/cart"
	"github.com/georgemunganga/bakery-backend/internal/modules/order"
	"go.uber.org/zap"
)

var (
	ErrCartEmpty = errors.New("your cart is empty")
	ErrNotOpen   = errors.New("checkout is not open")
)

// Submitter records an order. order.Service satisfies it.
type Submitter interface {
	PlaceOrder(ctx context.Context, req order.PlaceOrderRequest) (*order.Order, error)
}

// SummaryLine is one cart row as shown in the order summary.
type SummaryLine struct {
	Name      string  `json:"name"`
	Quantity  int     `json:"quantity"`
	LineTotal float64 `json:"line_total"`
	Text      string  `json:"text"`
	Amount    string  `json:"amount"`
}

// Summary is the checkout panel: lines and money, recomputed on every read.
type Summary struct {
	Open            bool              `json:"open"`
	Fulfillment     order.Fulfillment `json:"fulfillment"`
	Lines           []SummaryLine     `json:"lines"`
	Subtotal        float64           `json:"subtotal"`
	DeliveryFee     float64           `json:"delivery_fee"`
	Total           float64           `json:"total"`
	SubtotalText    string            `json:"subtotal_text"`
	DeliveryFeeText string            `json:"delivery_fee_text"`
	TotalText       string            `json:"total_text"`
}

// Receipt acknowledges a submitted order.
type Receipt struct {
	OrderNumber string  `json:"order_number"`
	Total       float64 `json:"total"`
	Message     string  `json:"message"`
}

// Flow is one shopper's checkout. It reads the cart on every call and only
// mutates it by clearing after a successful submit.
type Flow struct {
	policy Policy
	orders Submitter
	logger *zap.Logger

	mu          sync.Mutex
	open        bool
	fulfillment order.Fulfillment
}

func NewFlow(policy Policy, orders Submitter, logger *zap.Logger) *Flow {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Flow{policy: policy, orders: orders, logger: logger, fulfillment: order.FulfillmentPickup}
}

// Open shows the summary for c and closes its cart panel. An empty cart
// keeps checkout closed.
func (f *Flow) Open(ctx context.Context, c *cart.Cart) (Summary, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	snap := c.Store.Snapshot()
	if snap.Empty() {
		return f.summary(c, snap), ErrCartEmpty
	}
	f.open = true
	c.View.Close()
	return f.summary(c, snap), nil
}

func (f *Flow) Close(c *cart.Cart) Summary {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.open = false
	return f.summary(c, c.Store.Snapshot())
}

func (f *Flow) Summary(c *cart.Cart) Summary {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.summary(c, c.Store.Snapshot())
}

// SetFulfillment switches between pickup and delivery and re-prices.
func (f *Flow) SetFulfillment(c *cart.Cart, ful order.Fulfillment) (Summary, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.open {
		return f.summary(c, c.Store.Snapshot()), ErrNotOpen
	}
	if ful != order.FulfillmentPickup && ful != order.FulfillmentDelivery {
		return f.summary(c, c.Store.Snapshot()), fmt.Errorf("%w: unknown fulfillment %q", order.ErrInvalidCustomer, ful)
	}
	f.fulfillment = ful
	return f.summary(c, c.Store.Snapshot()), nil
}

// Submit hands the cart and customer to the Submitter, then clears the cart
// and closes checkout. The customer's fulfillment, when set, wins over the
// one picked with SetFulfillment.
func (f *Flow) Submit(ctx context.Context, c *cart.Cart, customer order.Customer) (Receipt, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.open {
		return Receipt{}, ErrNotOpen
	}
	snap := c.Store.Snapshot()
	if snap.Empty() {
		return Receipt{}, ErrCartEmpty
	}
	if customer.Fulfillment == "" {
		customer.Fulfillment = f.fulfillment
	}
	customer, err := customer.Normalize()
	if err != nil {
		return Receipt{}, err
	}

	fee := f.policy.DeliveryFee(snap.Totals.Subtotal, customer.Fulfillment)
	req := order.PlaceOrderRequest{
		Customer:    customer,
		Subtotal:    snap.Totals.Subtotal,
		DeliveryFee: fee,
		Total:       round2(snap.Totals.Subtotal + fee),
	}
	for _, it := range snap.Items {
		req.Items = append(req.Items, order.LineRequest{
			ItemKey:   it.ID,
			Name:      it.Name,
			Quantity:  it.Quantity,
			UnitPrice: it.Price,
		})
	}

	o, err := f.orders.PlaceOrder(ctx, req)
	if err != nil {
		return Receipt{}, fmt.Errorf("submit order: %w", err)
	}

	if err := c.Store.Clear(ctx); err != nil {
		// The order is recorded and the in-memory cart is empty; only the saved copy lags.
		f.logger.Warn("cart not cleared after order",
			zap.String("order_number", o.OrderNumber), zap.Error(err))
	}
	f.open = false
	f.fulfillment = order.FulfillmentPickup
	return Receipt{OrderNumber: o.OrderNumber, Total: o.Total, Message: order.SuccessMessage}, nil
}

func (f *Flow) summary(c *cart.Cart, snap cart.Snapshot) Summary {
	fee := f.policy.DeliveryFee(snap.Totals.Subtotal, f.fulfillment)
	s := Summary{
		Open:        f.open,
		Fulfillment: f.fulfillment,
		Lines:       make([]SummaryLine, 0, len(snap.Items)),
		Subtotal:    snap.Totals.Subtotal,
		DeliveryFee: fee,
		Total:       round2(snap.Totals.Subtotal + fee),
	}
	for _, it := range snap.Items {
		s.Lines = append(s.Lines, SummaryLine{
			Name:      it.Name,
			Quantity:  it.Quantity,
			LineTotal: it.LineTotal(),
			Text:      fmt.Sprintf("%s x%d", it.Name, it.Quantity),
			Amount:    c.View.Money(it.LineTotal()),
		})
	}
	s.SubtotalText = c.View.Money(s.Subtotal)
	s.DeliveryFeeText = c.View.Money(s.DeliveryFee)
	s.TotalText = c.View.Money(s.Total)
	return s
}
