package order

import (
	"context"
	"fmt"
	"math"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// SuccessMessage is shown to the shopper once an order is recorded.
const SuccessMessage = "Order placed successfully! You will receive a confirmation email shortly."

// Service records submitted orders and lets staff look them up.
type Service interface {
	// PlaceOrder validates the customer and totals and persists the order atomically.
	PlaceOrder(ctx context.Context, req PlaceOrderRequest) (*Order, error)

	GetOrder(ctx context.Context, id string) (*Order, error)
	GetOrderByNumber(ctx context.Context, orderNumber string) (*Order, error)
	ListOrders(ctx context.Context, limit int) ([]*Order, error)
}

type service struct {
	repo     Repository
	currency string
	logger   *zap.Logger
	now      func() time.Time
}

// NewService creates a new order service. currency defaults to USD.
func NewService(repo Repository, currency string, logger *zap.Logger) Service {
	if currency == "" {
		currency = "USD"
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &service{repo: repo, currency: currency, logger: logger, now: time.Now}
}

func (s *service) PlaceOrder(ctx context.Context, req PlaceOrderRequest) (*Order, error) {
	if len(req.Items) == 0 {
		return nil, ErrNoItems
	}
	customer, err := req.Customer.Normalize()
	if err != nil {
		return nil, err
	}

	o := &Order{
		ID:          uuid.New(),
		OrderNumber: generateOrderNumber(s.now()),
		Status:      StatusReceived,
		Customer:    customer,
		Currency:    s.currency,
	}

	var subtotal float64
	for i, li := range req.Items {
		if li.Quantity <= 0 {
			return nil, fmt.Errorf("%w: quantity must be > 0 for %q", ErrTotalsMismatch, li.ItemKey)
		}
		if li.UnitPrice < 0 || math.IsNaN(li.UnitPrice) || math.IsInf(li.UnitPrice, 0) {
			return nil, fmt.Errorf("%w: bad price for %q", ErrTotalsMismatch, li.ItemKey)
		}
		subtotal += li.UnitPrice * float64(li.Quantity)
		o.Items = append(o.Items, &OrderItem{
			ID:        uuid.New(),
			OrderID:   o.ID,
			ItemKey:   li.ItemKey,
			Name:      li.Name,
			Quantity:  li.Quantity,
			UnitPrice: li.UnitPrice,
			LineTotal: round2(li.UnitPrice * float64(li.Quantity)),
			Position:  i,
		})
	}
	o.Subtotal = round2(subtotal)
	o.DeliveryFee = round2(req.DeliveryFee)
	o.Total = round2(o.Subtotal + o.DeliveryFee)

	if !cents(o.Subtotal, req.Subtotal) || !cents(o.Total, req.Total) {
		return nil, fmt.Errorf("%w: got subtotal %.2f total %.2f, computed %.2f and %.2f",
			ErrTotalsMismatch, req.Subtotal, req.Total, o.Subtotal, o.Total)
	}
	if o.DeliveryFee < 0 || (customer.Fulfillment == FulfillmentPickup && o.DeliveryFee != 0) {
		return nil, fmt.Errorf("%w: delivery fee %.2f for %s", ErrTotalsMismatch, o.DeliveryFee, customer.Fulfillment)
	}

	if err := s.repo.CreateOrder(ctx, o); err != nil {
		return nil, fmt.Errorf("failed to persist order: %w", err)
	}
	s.logger.Info("order placed",
		zap.String("order_number", o.OrderNumber),
		zap.String("fulfillment", string(customer.Fulfillment)),
		zap.Int("items", len(o.Items)),
		zap.Float64("total", o.Total))
	return o, nil
}

func (s *service) GetOrder(ctx context.Context, id string) (*Order, error) {
	return s.repo.GetOrderByID(ctx, id)
}

func (s *service) GetOrderByNumber(ctx context.Context, orderNumber string) (*Order, error) {
	return s.repo.GetOrderByNumber(ctx, orderNumber)
}

func (s *service) ListOrders(ctx context.Context, limit int) ([]*Order, error) {
	return s.repo.ListOrders(ctx, limit)
}

// Normalize trims the form fields, defaults fulfillment to pickup and checks
// that name, email and phone are present. Delivery needs an address.
func (c Customer) Normalize() (Customer, error) {
	c.Name = strings.TrimSpace(c.Name)
	c.Email = strings.TrimSpace(c.Email)
	c.Phone = strings.TrimSpace(c.Phone)
	c.Address = strings.TrimSpace(c.Address)
	c.Date = strings.TrimSpace(c.Date)
	c.Notes = strings.TrimSpace(c.Notes)
	if c.Fulfillment == "" {
		c.Fulfillment = FulfillmentPickup
	}

	switch {
	case c.Fulfillment != FulfillmentPickup && c.Fulfillment != FulfillmentDelivery:
		return c, fmt.Errorf("%w: unknown fulfillment %q", ErrInvalidCustomer, c.Fulfillment)
	case c.Name == "":
		return c, fmt.Errorf("%w: name is required", ErrInvalidCustomer)
	case c.Email == "":
		return c, fmt.Errorf("%w: email is required", ErrInvalidCustomer)
	case c.Phone == "":
		return c, fmt.Errorf("%w: phone is required", ErrInvalidCustomer)
	case c.Fulfillment == FulfillmentDelivery && c.Address == "":
		return c, fmt.Errorf("%w: address is required for delivery", ErrInvalidCustomer)
	}
	if _, err := mail.ParseAddress(c.Email); err != nil {
		return c, fmt.Errorf("%w: email %q is not valid", ErrInvalidCustomer, c.Email)
	}
	return c, nil
}

// ── helpers ───────────────────────────────────────────────────────────────────

// generateOrderNumber creates a human-readable order number: BKY-YYYYMMDD-XXXX
func generateOrderNumber(now time.Time) string {
	date := now.UTC().Format("20060102")
	suffix := strings.ToUpper(uuid.New().String()[:4])
	return fmt.Sprintf("BKY-%s-%s", date, suffix)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func cents(a, b float64) bool {
	return math.Abs(a-b) < 0.005
}
