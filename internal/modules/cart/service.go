package cart

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/georgemunganga/bakery-backend/internal/modules/catalog"
	"go.uber.org/zap"
)

// ErrNoSession is returned when a request carries no cart session.
var ErrNoSession = errors.New("cart session is required")

// Cart bundles a session's Store with the View rendering it.
type Cart struct {
	Store *Store
	View  *View
}

// ProductResolver looks up catalog products for add-by-id.
type ProductResolver interface {
	Resolve(ctx context.Context, productID string) (catalog.Item, error)
}

// Service owns one Cart per session, rehydrating it from the Persister on first use.
type Service interface {
	// Cart returns the session's cart, loading it if needed.
	Cart(ctx context.Context, sessionID string) (*Cart, error)
	// Use runs fn with the session's cart. The cart is not swept while fn runs.
	Use(ctx context.Context, sessionID string, fn func(*Cart) error) error

	Panel(ctx context.Context, sessionID string) (Panel, error)
	AddItem(ctx context.Context, sessionID, name string, price float64) (Panel, error)
	AddListing(ctx context.Context, sessionID string, l catalog.Listing) (Panel, error)
	AddProduct(ctx context.Context, sessionID, productID string) (Panel, error)
	IncreaseQuantity(ctx context.Context, sessionID, itemID string) (Panel, error)
	DecreaseQuantity(ctx context.Context, sessionID, itemID string) (Panel, error)
	RemoveItem(ctx context.Context, sessionID, itemID string) (Panel, error)
	Clear(ctx context.Context, sessionID string) (Panel, error)
	Open(ctx context.Context, sessionID string) (Panel, error)
	Close(ctx context.Context, sessionID string) (Panel, error)

	// Sweep drops carts idle for longer than idle from memory. Carts held by
	// a running call are skipped. Saved carts are reloaded on next use.
	Sweep(idle time.Duration) int
	// RunSweeper calls Sweep every interval until ctx is done.
	RunSweeper(ctx context.Context, interval, idle time.Duration)
}

// Options configures the cart Service.
type Options struct {
	Persister      Persister
	Products       ProductResolver
	Logger         *zap.Logger
	CurrencySymbol string
	// BasePath prefixes row action links, e.g. "/api/v1/cart".
	BasePath string
	Now      func() time.Time
}

type entry struct {
	once     sync.Once
	cart     *Cart
	err      error
	lastUsed time.Time
	inUse    int
}

type service struct {
	opts Options

	mu    sync.Mutex
	carts map[string]*entry
}

func NewService(opts Options) Service {
	if opts.Persister == nil {
		opts.Persister = NewMemoryPersister()
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.CurrencySymbol == "" {
		opts.CurrencySymbol = "$"
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &service{opts: opts, carts: make(map[string]*entry)}
}

func (s *service) Cart(ctx context.Context, sessionID string) (*Cart, error) {
	var c *Cart
	err := s.Use(ctx, sessionID, func(got *Cart) error {
		c = got
		return nil
	})
	return c, err
}

func (s *service) Use(ctx context.Context, sessionID string, fn func(*Cart) error) error {
	if sessionID == "" {
		return ErrNoSession
	}
	e := s.acquire(sessionID)
	defer s.release(e)

	e.once.Do(func() {
		store := NewStore(sessionID, s.opts.Persister, s.opts.Logger)
		if err := store.Load(ctx); err != nil {
			e.err = err
			return
		}
		view := NewView(s.opts.CurrencySymbol, s.opts.BasePath)
		view.Attach(store)
		e.cart = &Cart{Store: store, View: view}
	})
	if e.err != nil {
		s.mu.Lock()
		if s.carts[sessionID] == e {
			delete(s.carts, sessionID)
		}
		s.mu.Unlock()
		return e.err
	}
	return fn(e.cart)
}

func (s *service) acquire(sessionID string) *entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.carts[sessionID]
	if !ok {
		e = &entry{}
		s.carts[sessionID] = e
	}
	e.lastUsed = s.opts.Now()
	e.inUse++
	return e
}

func (s *service) release(e *entry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e.inUse--
	e.lastUsed = s.opts.Now()
}

func (s *service) Panel(ctx context.Context, sessionID string) (Panel, error) {
	return s.with(ctx, sessionID, func(c *Cart) error { return nil })
}

func (s *service) AddItem(ctx context.Context, sessionID, name string, price float64) (Panel, error) {
	return s.add(ctx, sessionID, catalog.Item{Name: name, Price: price})
}

func (s *service) AddListing(ctx context.Context, sessionID string, l catalog.Listing) (Panel, error) {
	item, err := catalog.ReadListing(l)
	if err != nil {
		return Panel{}, err
	}
	return s.add(ctx, sessionID, item)
}

func (s *service) AddProduct(ctx context.Context, sessionID, productID string) (Panel, error) {
	if s.opts.Products == nil {
		return Panel{}, catalog.ErrProductNotFound
	}
	item, err := s.opts.Products.Resolve(ctx, productID)
	if err != nil {
		return Panel{}, err
	}
	return s.add(ctx, sessionID, item)
}

func (s *service) add(ctx context.Context, sessionID string, item catalog.Item) (Panel, error) {
	return s.with(ctx, sessionID, func(c *Cart) error {
		li, err := c.Store.Add(ctx, item)
		if err == nil {
			s.opts.Logger.Debug("item added",
				zap.String("cart", sessionID), zap.String("item_id", li.ID), zap.Int("quantity", li.Quantity))
		}
		return err
	})
}

func (s *service) IncreaseQuantity(ctx context.Context, sessionID, itemID string) (Panel, error) {
	return s.with(ctx, sessionID, func(c *Cart) error { return c.Store.IncreaseQuantity(ctx, itemID) })
}

func (s *service) DecreaseQuantity(ctx context.Context, sessionID, itemID string) (Panel, error) {
	return s.with(ctx, sessionID, func(c *Cart) error { return c.Store.DecreaseQuantity(ctx, itemID) })
}

func (s *service) RemoveItem(ctx context.Context, sessionID, itemID string) (Panel, error) {
	return s.with(ctx, sessionID, func(c *Cart) error { return c.Store.RemoveItem(ctx, itemID) })
}

func (s *service) Clear(ctx context.Context, sessionID string) (Panel, error) {
	return s.with(ctx, sessionID, func(c *Cart) error { return c.Store.Clear(ctx) })
}

func (s *service) Open(ctx context.Context, sessionID string) (Panel, error) {
	return s.with(ctx, sessionID, func(c *Cart) error { c.View.Open(); return nil })
}

func (s *service) Close(ctx context.Context, sessionID string) (Panel, error) {
	return s.with(ctx, sessionID, func(c *Cart) error { c.View.Close(); return nil })
}

func (s *service) with(ctx context.Context, sessionID string, fn func(*Cart) error) (Panel, error) {
	var p Panel
	err := s.Use(ctx, sessionID, func(c *Cart) error {
		if err := fn(c); err != nil {
			return err
		}
		p = c.View.Panel()
		return nil
	})
	return p, err
}

func (s *service) Sweep(idle time.Duration) int {
	cutoff := s.opts.Now().Add(-idle)
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for id, e := range s.carts {
		if e.inUse == 0 && e.lastUsed.Before(cutoff) {
			delete(s.carts, id)
			n++
		}
	}
	return n
}

func (s *service) RunSweeper(ctx context.Context, interval, idle time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := s.Sweep(idle); n > 0 {
				s.opts.Logger.Debug("idle carts released", zap.Int("count", n))
			}
		}
	}
}
