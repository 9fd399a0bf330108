package contact

import (
	"context"
	"sync"
	"time"
)

type memoryRepo struct {
	mu       sync.RWMutex
	messages []*Message
}

func NewMemoryRepository() Repository { return &memoryRepo{} }

func (r *memoryRepo) Create(ctx context.Context, m *Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	m.CreatedAt = time.Now().UTC()
	cp := *m
	r.messages = append(r.messages, &cp)
	return nil
}

func (r *memoryRepo) List(ctx context.Context) ([]*Message, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*Message, 0, len(r.messages))
	for i := len(r.messages) - 1; i >= 0; i-- {
		cp := *r.messages[i]
		out = append(out, &cp)
	}
	return out, nil
}
