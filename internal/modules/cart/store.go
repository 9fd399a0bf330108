package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"
	"sync"

	"github.com/georgemunganga/bakery-backend/internal/modules/catalog"
	"go.uber.org/zap"
)

// Store is the single owner of one session's cart rows. All mutation goes
// through its methods; each completed mutation is written through to the
// Persister and then announced to subscribers, both while the store lock is
// held, so saves and notifications are never reordered. Subscribers must not
// call back into the Store.
type Store struct {
	key       string
	persister Persister
	logger    *zap.Logger

	mu          sync.Mutex
	items       []LineItem
	subscribers []func(Change)
}

// NewStore returns an empty store saving under key. Call Load to rehydrate.
func NewStore(key string, persister Persister, logger *zap.Logger) *Store {
	if persister == nil {
		persister = NewMemoryPersister()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{key: key, persister: persister, logger: logger.With(zap.String("cart", key))}
}

// Key is the persistence key (the cart session).
func (s *Store) Key() string { return s.key }

// Subscribe calls fn once with the current contents, then for every future Change.
func (s *Store) Subscribe(fn func(Change)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subscribers = append(s.subscribers, fn)
	fn(Change{Kind: ChangeLoaded, Snapshot: s.snapshot()})
}

// Load replaces the rows with the persisted cart. A missing or unreadable
// saved cart leaves the store empty; only storage failures are returned.
func (s *Store) Load(ctx context.Context) error {
	data, err := s.persister.Load(ctx, s.key)
	var items []LineItem
	switch {
	case errors.Is(err, ErrNoCart):
	case err != nil:
		return fmt.Errorf("load cart: %w", err)
	default:
		items, err = decodeItems(data)
		if err != nil {
			s.logger.Warn("discarding unreadable saved cart", zap.Error(err))
			items = nil
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = items
	s.notify(Change{Kind: ChangeLoaded})
	return nil
}

// AddItem adds one unit of the named product. A product already in the cart
// keeps its first-seen name and price and only gains quantity.
func (s *Store) AddItem(ctx context.Context, name string, price float64) (LineItem, error) {
	return s.Add(ctx, catalog.Item{Name: name, Price: price})
}

// Add is AddItem for a catalog item, keeping its image for the cart row.
func (s *Store) Add(ctx context.Context, item catalog.Item) (LineItem, error) {
	if math.IsNaN(item.Price) || math.IsInf(item.Price, 0) || item.Price < 0 {
		return LineItem{}, fmt.Errorf("%w: %v", ErrInvalidPrice, item.Price)
	}
	name := strings.TrimSpace(item.Name)
	if name == "" {
		name = catalog.DefaultName
	}
	id := catalog.DeriveID(name)

	s.mu.Lock()
	defer s.mu.Unlock()

	if i := s.indexOf(id); i >= 0 {
		s.items[i].Quantity++
		return s.items[i], s.commit(ctx, Change{Kind: ChangeAdded, ItemID: id})
	}
	li := LineItem{ID: id, Name: name, Price: item.Price, Quantity: 1, ImageURL: item.ImageURL}
	s.items = append(s.items, li)
	return li, s.commit(ctx, Change{Kind: ChangeAdded, ItemID: id})
}

// IncreaseQuantity adds one unit to an existing row. Unknown ids are ignored.
func (s *Store) IncreaseQuantity(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexOf(id)
	if i < 0 {
		return nil
	}
	s.items[i].Quantity++
	return s.commit(ctx, Change{Kind: ChangeQuantity, ItemID: id})
}

// DecreaseQuantity removes one unit while more than one remains. It never
// deletes a row.
func (s *Store) DecreaseQuantity(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexOf(id)
	if i < 0 || s.items[i].Quantity <= 1 {
		return nil
	}
	s.items[i].Quantity--
	return s.commit(ctx, Change{Kind: ChangeQuantity, ItemID: id})
}

// RemoveItem deletes the row regardless of its quantity.
func (s *Store) RemoveItem(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexOf(id)
	if i < 0 {
		return nil
	}
	s.items = append(s.items[:i], s.items[i+1:]...)
	return s.commit(ctx, Change{Kind: ChangeRemoved, ItemID: id})
}

// Clear empties the cart.
func (s *Store) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = nil
	return s.commit(ctx, Change{Kind: ChangeCleared})
}

// Totals computes item count and subtotal from the current rows.
func (s *Store) Totals() Totals {
	s.mu.Lock()
	defer s.mu.Unlock()
	return computeTotals(s.items)
}

// Items returns a copy of the rows in display order.
func (s *Store) Items() []LineItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.copyItems()
}

// Snapshot returns rows and totals taken under one lock.
func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshot()
}

func (s *Store) indexOf(id string) int {
	for i := range s.items {
		if s.items[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *Store) copyItems() []LineItem {
	out := make([]LineItem, len(s.items))
	copy(out, s.items)
	return out
}

func (s *Store) snapshot() Snapshot {
	items := s.copyItems()
	return Snapshot{Items: items, Totals: computeTotals(items)}
}

// commit saves and notifies. The in-memory change stands even if the save fails.
func (s *Store) commit(ctx context.Context, c Change) error {
	data, err := json.Marshal(s.nonNilItems())
	if err == nil {
		err = s.persister.Save(ctx, s.key, data)
	}
	s.notify(c)
	if err != nil {
		s.logger.Error("saving cart failed", zap.String("change", string(c.Kind)), zap.Error(err))
		return fmt.Errorf("save cart: %w", err)
	}
	return nil
}

func (s *Store) nonNilItems() []LineItem {
	if s.items == nil {
		return []LineItem{}
	}
	return s.items
}

func (s *Store) notify(c Change) {
	c.Snapshot = s.snapshot()
	for _, fn := range s.subscribers {
		fn(c)
	}
}

// decodeItems parses a saved cart and rejects rows that break the cart's invariants.
func decodeItems(data []byte) ([]LineItem, error) {
	var items []LineItem
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, err
	}
	seen := make(map[string]bool, len(items))
	for _, it := range items {
		switch {
		case it.ID == "":
			return nil, fmt.Errorf("row without id")
		case seen[it.ID]:
			return nil, fmt.Errorf("duplicate row %q", it.ID)
		case it.Quantity < 1:
			return nil, fmt.Errorf("row %q has quantity %d", it.ID, it.Quantity)
		case it.Price < 0 || math.IsNaN(it.Price):
			return nil, fmt.Errorf("row %q has price %v", it.ID, it.Price)
		}
		seen[it.ID] = true
	}
	return items, nil
}
