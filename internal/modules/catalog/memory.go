package catalog

import (
	"context"
	"strings"
	"sync"
	"time"
)

type memoryRepo struct {
	mu       sync.RWMutex
	products []*Product
}

// NewMemoryRepository keeps products in process memory, in insertion order.
func NewMemoryRepository() Repository { return &memoryRepo{} }

func (r *memoryRepo) Create(ctx context.Context, p *Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now().UTC()
	p.CreatedAt, p.UpdatedAt = now, now
	cp := *p
	r.products = append(r.products, &cp)
	return nil
}

func (r *memoryRepo) GetByID(ctx context.Context, id string) (*Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, p := range r.products {
		if p.ID.String() == id {
			cp := *p
			return &cp, nil
		}
	}
	return nil, ErrProductNotFound
}

func (r *memoryRepo) GetByName(ctx context.Context, name string) (*Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, p := range r.products {
		if strings.EqualFold(p.Name, name) {
			cp := *p
			return &cp, nil
		}
	}
	return nil, ErrProductNotFound
}

func (r *memoryRepo) List(ctx context.Context, category string, activeOnly bool) ([]*Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []*Product
	for _, p := range r.products {
		if category != "" && p.Category != category {
			continue
		}
		if activeOnly && !p.IsActive {
			continue
		}
		cp := *p
		out = append(out, &cp)
	}
	return out, nil
}

func (r *memoryRepo) Update(ctx context.Context, p *Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, existing := range r.products {
		if existing.ID == p.ID {
			p.UpdatedAt = time.Now().UTC()
			cp := *p
			r.products[i] = &cp
			return nil
		}
	}
	return ErrProductNotFound
}
