package order

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrOrderNotFound   = errors.New("order not found")
	ErrNoItems         = errors.New("order must contain at least one item")
	ErrInvalidCustomer = errors.New("invalid customer details")
	ErrTotalsMismatch  = errors.New("order totals do not match its items")
)

// OrderStatus represents the state of a submitted order. Orders are recorded,
// not fulfilled, so RECEIVED is the only state this service sets.
type OrderStatus string

const StatusReceived OrderStatus = "RECEIVED"

// Fulfillment is how the customer gets the order.
type Fulfillment string

const (
	FulfillmentPickup   Fulfillment = "pickup"
	FulfillmentDelivery Fulfillment = "delivery"
)

// Customer holds the checkout form fields.
type Customer struct {
	Name        string      `json:"name"`
	Email       string      `json:"email"`
	Phone       string      `json:"phone"`
	Fulfillment Fulfillment `json:"fulfillment"`
	Address     string      `json:"address,omitempty"`
	Date        string      `json:"date,omitempty"` // requested pickup or delivery date, free text
	Notes       string      `json:"notes,omitempty"`
}

// Order is a submitted bakery order.
type Order struct {
	ID          uuid.UUID    `json:"id"`
	OrderNumber string       `json:"order_number"`
	Status      OrderStatus  `json:"status"`
	Customer    Customer     `json:"customer"`
	Items       []*OrderItem `json:"items,omitempty"`
	Subtotal    float64      `json:"subtotal"`
	DeliveryFee float64      `json:"delivery_fee"`
	Total       float64      `json:"total"`
	Currency    string       `json:"currency"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}

// OrderItem is one cart row as it was at submission.
type OrderItem struct {
	ID        uuid.UUID `json:"id"`
	OrderID   uuid.UUID `json:"order_id"`
	ItemKey   string    `json:"item_key"`
	Name      string    `json:"name"`
	Quantity  int       `json:"quantity"`
	UnitPrice float64   `json:"unit_price"`
	LineTotal float64   `json:"line_total"`
	Position  int       `json:"position"`
}

// LineRequest describes one cart row being ordered.
type LineRequest struct {
	ItemKey   string  `json:"item_key"`
	Name      string  `json:"name"`
	Quantity  int     `json:"quantity"`
	UnitPrice float64 `json:"unit_price"`
}

// PlaceOrderRequest is what checkout hands over on submit.
type PlaceOrderRequest struct {
	Items       []LineRequest `json:"items"`
	Customer    Customer      `json:"customer"`
	Subtotal    float64       `json:"subtotal"`
	DeliveryFee float64       `json:"delivery_fee"`
	Total       float64       `json:"total"`
}
