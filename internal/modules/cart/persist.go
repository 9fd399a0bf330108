package cart

import (
	"context"
	"sync"
)

// Persister saves the serialized rows of one cart under a fixed key.
// Load returns ErrNoCart when nothing was saved under key.
type Persister interface {
	Load(ctx context.Context, key string) ([]byte, error)
	Save(ctx context.Context, key string, data []byte) error
}

type memoryPersister struct {
	mu    sync.RWMutex
	carts map[string][]byte
}

// NewMemoryPersister keeps carts for the lifetime of the process.
func NewMemoryPersister() Persister {
	return &memoryPersister{carts: make(map[string][]byte)}
}

func (p *memoryPersister) Load(ctx context.Context, key string) ([]byte, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	data, ok := p.carts[key]
	if !ok {
		return nil, ErrNoCart
	}
	return append([]byte(nil), data...), nil
}

func (p *memoryPersister) Save(ctx context.Context, key string, data []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.carts[key] = append([]byte(nil), data...)
	return nil
}
