package order

import "context"

// Repository defines data access for orders.
type Repository interface {
	// CreateOrder persists a new order and its items atomically.
	CreateOrder(ctx context.Context, o *Order) error

	GetOrderByID(ctx context.Context, id string) (*Order, error)
	GetOrderByNumber(ctx context.Context, orderNumber string) (*Order, error)

	// ListOrders returns orders newest first, at most limit of them (0 means all).
	ListOrders(ctx context.Context, limit int) ([]*Order, error)
}
