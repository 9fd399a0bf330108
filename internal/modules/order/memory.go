package order

import (
	"context"
	"sync"
	"time"
)

type memoryRepo struct {
	mu     sync.RWMutex
	orders []*Order
}

// NewMemoryRepository keeps orders in process memory.
func NewMemoryRepository() Repository { return &memoryRepo{} }

func (r *memoryRepo) CreateOrder(ctx context.Context, o *Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now().UTC()
	o.CreatedAt, o.UpdatedAt = now, now
	r.orders = append(r.orders, clone(o))
	return nil
}

func (r *memoryRepo) GetOrderByID(ctx context.Context, id string) (*Order, error) {
	return r.find(func(o *Order) bool { return o.ID.String() == id })
}

func (r *memoryRepo) GetOrderByNumber(ctx context.Context, orderNumber string) (*Order, error) {
	return r.find(func(o *Order) bool { return o.OrderNumber == orderNumber })
}

func (r *memoryRepo) ListOrders(ctx context.Context, limit int) ([]*Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []*Order
	for i := len(r.orders) - 1; i >= 0; i-- {
		if limit > 0 && len(out) == limit {
			break
		}
		out = append(out, clone(r.orders[i]))
	}
	return out, nil
}

func (r *memoryRepo) find(match func(*Order) bool) (*Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, o := range r.orders {
		if match(o) {
			return clone(o), nil
		}
	}
	return nil, ErrOrderNotFound
}

func clone(o *Order) *Order {
	cp := *o
	cp.Items = make([]*OrderItem, len(o.Items))
	for i, it := range o.Items {
		item := *it
		cp.Items[i] = &item
	}
	return &cp
}
