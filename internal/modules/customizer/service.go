package customizer

import (
	"context"
	"sync"
	"time"

	"github.com/georgemunganga/bakery-backend/internal/modules/cart"
	"go.uber.org/zap"
)

// ErrNoSession is returned when a request carries no cart session.
var ErrNoSession = cart.ErrNoSession

// ConfirmResult is the wizard after a successful Confirm plus the cart it filled.
type ConfirmResult struct {
	State State         `json:"customizer"`
	Item  cart.LineItem `json:"item"`
	Cart  cart.Panel    `json:"cart"`
}

type Service interface {
	Options() Options
	State(ctx context.Context, sessionID string) (State, error)
	Open(ctx context.Context, sessionID string) (State, error)
	Close(ctx context.Context, sessionID string) (State, error)
	SelectSize(ctx context.Context, sessionID, label string) (State, error)
	SelectFlavor(ctx context.Context, sessionID, flavor string) (State, error)
	SelectFrosting(ctx context.Context, sessionID, frosting string) (State, error)
	Confirm(ctx context.Context, sessionID string) (ConfirmResult, error)

	// Sweep forgets wizards idle for longer than idle and returns how many
	// went. A forgotten wizard reads as closed.
	Sweep(idle time.Duration) int
	// RunSweeper calls Sweep every interval until ctx is done.
	RunSweeper(ctx context.Context, interval, idle time.Duration)
}

type session struct {
	wizard   *Wizard
	lastUsed time.Time
	inUse    int
}

type service struct {
	opts   Options
	carts  cart.Service
	logger *zap.Logger
	now    func() time.Time

	mu      sync.Mutex
	wizards map[string]*session
}

func NewService(opts Options, carts cart.Service, logger *zap.Logger) Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &service{
		opts:    opts,
		carts:   carts,
		logger:  logger,
		now:     time.Now,
		wizards: make(map[string]*session),
	}
}

func (s *service) Options() Options { return s.opts }

// with runs fn with the session's wizard, creating it on first use.
func (s *service) with(sessionID string, fn func(*Wizard) error) error {
	if sessionID == "" {
		return ErrNoSession
	}
	s.mu.Lock()
	e, ok := s.wizards[sessionID]
	if !ok {
		e = &session{wizard: NewWizard(s.opts)}
		s.wizards[sessionID] = e
	}
	e.lastUsed = s.now()
	e.inUse++
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		e.inUse--
		e.lastUsed = s.now()
		s.mu.Unlock()
	}()
	return fn(e.wizard)
}

func (s *service) forget(sessionID string, w *Wizard) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if e, ok := s.wizards[sessionID]; ok && e.wizard == w {
		delete(s.wizards, sessionID)
	}
}

func (s *service) step(sessionID string, fn func(*Wizard) (State, error)) (State, error) {
	var st State
	err := s.with(sessionID, func(w *Wizard) error {
		var err error
		st, err = fn(w)
		return err
	})
	return st, err
}

// State reports the session's wizard without creating one.
func (s *service) State(ctx context.Context, sessionID string) (State, error) {
	if sessionID == "" {
		return State{}, ErrNoSession
	}
	s.mu.Lock()
	e, ok := s.wizards[sessionID]
	s.mu.Unlock()
	if !ok {
		return State{Step: StepIdle}, nil
	}
	return e.wizard.State(), nil
}

func (s *service) Open(ctx context.Context, sessionID string) (State, error) {
	return s.step(sessionID, func(w *Wizard) (State, error) { return w.Open(), nil })
}

func (s *service) Close(ctx context.Context, sessionID string) (State, error) {
	return s.step(sessionID, func(w *Wizard) (State, error) {
		st := w.Close()
		s.forget(sessionID, w)
		return st, nil
	})
}

func (s *service) SelectSize(ctx context.Context, sessionID, label string) (State, error) {
	return s.step(sessionID, func(w *Wizard) (State, error) { return w.SelectSize(label) })
}

func (s *service) SelectFlavor(ctx context.Context, sessionID, flavor string) (State, error) {
	return s.step(sessionID, func(w *Wizard) (State, error) { return w.SelectFlavor(flavor) })
}

func (s *service) SelectFrosting(ctx context.Context, sessionID, frosting string) (State, error) {
	return s.step(sessionID, func(w *Wizard) (State, error) { return w.SelectFrosting(frosting) })
}

// Confirm adds the cake to the session's cart. Once the row is in the cart
// the wizard is forgotten, even if saving the cart failed.
func (s *service) Confirm(ctx context.Context, sessionID string) (ConfirmResult, error) {
	var res ConfirmResult
	err := s.with(sessionID, func(w *Wizard) error {
		return s.carts.Use(ctx, sessionID, func(c *cart.Cart) error {
			li, err := w.Confirm(ctx, c.Store)
			if li.ID == "" {
				return err
			}
			s.forget(sessionID, w)
			res = ConfirmResult{State: w.State(), Item: li, Cart: c.View.Panel()}
			return err
		})
	})
	switch {
	case res.Item.ID == "":
		return ConfirmResult{}, err
	case err != nil:
		s.logger.Warn("custom cake added but cart not saved",
			zap.String("cart", sessionID), zap.String("name", res.Item.Name), zap.Error(err))
	default:
		s.logger.Info("custom cake added",
			zap.String("cart", sessionID), zap.String("name", res.Item.Name), zap.Float64("price", res.Item.Price))
	}
	return res, err
}

func (s *service) Sweep(idle time.Duration) int {
	cutoff := s.now().Add(-idle)
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for id, e := range s.wizards {
		if e.inUse == 0 && e.lastUsed.Before(cutoff) {
			delete(s.wizards, id)
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
				s.logger.Debug("idle wizards released", zap.Int("count", n))
			}
		}
	}
}
