package checkout

import (
	"context"
	"sync"
	"time"

	"github.com/georgemunganga/bakery-backend/internal/modules/cart"
	"github.com/georgemunganga/bakery-backend/internal/modules/order"
	"go.uber.org/zap"
)

type Service interface {
	Summary(ctx context.Context, sessionID string) (Summary, error)
	Open(ctx context.Context, sessionID string) (Summary, error)
	Close(ctx context.Context, sessionID string) (Summary, error)
	SetFulfillment(ctx context.Context, sessionID string, f order.Fulfillment) (Summary, error)
	Submit(ctx context.Context, sessionID string, customer order.Customer) (Receipt, error)

	// Sweep forgets checkout flows idle for longer than idle. A forgotten
	// flow reads as closed with pickup selected.
	Sweep(idle time.Duration) int
	// RunSweeper calls Sweep every interval until ctx is done.
	RunSweeper(ctx context.Context, interval, idle time.Duration)
}

type Options struct {
	Carts  cart.Service
	Orders Submitter
	Policy Policy
	Logger *zap.Logger
	Now    func() time.Time
}

type session struct {
	flow     *Flow
	lastUsed time.Time
	inUse    int
}

type service struct {
	opts Options

	mu    sync.Mutex
	flows map[string]*session
}

func NewService(opts Options) Service {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &service{opts: opts, flows: make(map[string]*session)}
}

func (s *service) newFlow(sessionID string) *Flow {
	return NewFlow(s.opts.Policy, s.opts.Orders, s.opts.Logger.With(zap.String("cart", sessionID)))
}

// with runs fn with the session's cart and checkout flow, creating the flow
// on first use.
func (s *service) with(ctx context.Context, sessionID string, fn func(*cart.Cart, *Flow) error) error {
	return s.opts.Carts.Use(ctx, sessionID, func(c *cart.Cart) error {
		s.mu.Lock()
		e, ok := s.flows[sessionID]
		if !ok {
			e = &session{flow: s.newFlow(sessionID)}
			s.flows[sessionID] = e
		}
		e.lastUsed = s.opts.Now()
		e.inUse++
		s.mu.Unlock()

		defer func() {
			s.mu.Lock()
			e.inUse--
			e.lastUsed = s.opts.Now()
			s.mu.Unlock()
		}()
		return fn(c, e.flow)
	})
}

func (s *service) forget(sessionID string, f *Flow) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if e, ok := s.flows[sessionID]; ok && e.flow == f {
		delete(s.flows, sessionID)
	}
}

func (s *service) summary(ctx context.Context, sessionID string, fn func(*cart.Cart, *Flow) (Summary, error)) (Summary, error) {
	var sum Summary
	err := s.with(ctx, sessionID, func(c *cart.Cart, f *Flow) error {
		var err error
		sum, err = fn(c, f)
		return err
	})
	return sum, err
}

// Summary prices the cart for the session's flow. Sessions that never
// opened checkout get a closed pickup summary without a stored flow.
func (s *service) Summary(ctx context.Context, sessionID string) (Summary, error) {
	var sum Summary
	err := s.opts.Carts.Use(ctx, sessionID, func(c *cart.Cart) error {
		s.mu.Lock()
		e, ok := s.flows[sessionID]
		s.mu.Unlock()
		f := s.newFlow(sessionID)
		if ok {
			f = e.flow
		}
		sum = f.Summary(c)
		return nil
	})
	return sum, err
}

func (s *service) Open(ctx context.Context, sessionID string) (Summary, error) {
	return s.summary(ctx, sessionID, func(c *cart.Cart, f *Flow) (Summary, error) { return f.Open(ctx, c) })
}

func (s *service) Close(ctx context.Context, sessionID string) (Summary, error) {
	return s.summary(ctx, sessionID, func(c *cart.Cart, f *Flow) (Summary, error) {
		sum := f.Close(c)
		s.forget(sessionID, f)
		return sum, nil
	})
}

func (s *service) SetFulfillment(ctx context.Context, sessionID string, ful order.Fulfillment) (Summary, error) {
	return s.summary(ctx, sessionID, func(c *cart.Cart, f *Flow) (Summary, error) { return f.SetFulfillment(c, ful) })
}

func (s *service) Submit(ctx context.Context, sessionID string, customer order.Customer) (Receipt, error) {
	var rec Receipt
	err := s.with(ctx, sessionID, func(c *cart.Cart, f *Flow) error {
		var err error
		rec, err = f.Submit(ctx, c, customer)
		if err == nil {
			s.forget(sessionID, f)
		}
		return err
	})
	return rec, err
}

func (s *service) Sweep(idle time.Duration) int {
	cutoff := s.opts.Now().Add(-idle)
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for id, e := range s.flows {
		if e.inUse == 0 && e.lastUsed.Before(cutoff) {
			delete(s.flows, id)
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
				s.opts.Logger.Debug("idle checkouts released", zap.Int("count", n))
			}
		}
	}
}
