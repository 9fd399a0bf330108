package newsletter

import (
	"context"
	"sync"
	"time"
)

type memoryRepo struct {
	mu   sync.RWMutex
	subs []*Subscriber
}

func NewMemoryRepository() Repository { return &memoryRepo{} }

func (r *memoryRepo) Add(ctx context.Context, s *Subscriber) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.subs {
		if existing.Email == s.Email {
			return false, nil
		}
	}
	s.CreatedAt = time.Now().UTC()
	cp := *s
	r.subs = append(r.subs, &cp)
	return true, nil
}

func (r *memoryRepo) List(ctx context.Context) ([]*Subscriber, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*Subscriber, 0, len(r.subs))
	for _, s := range r.subs {
		cp := *s
		out = append(out, &cp)
	}
	return out, nil
}
