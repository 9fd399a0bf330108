package newsletter

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ErrNoSession is returned by Prompt without a session to remember it against.
var ErrNoSession = errors.New("session is required")

type Service interface {
	// Subscribe adds email to the list. Repeating an email is not an error.
	Subscribe(ctx context.Context, email string) (SubscribeResult, error)

	// Prompt reports Show=true the first time it is asked for a session and
	// false after that.
	Prompt(ctx context.Context, sessionID string) (Prompt, error)

	ListSubscribers(ctx context.Context) ([]*Subscriber, error)
}

type service struct {
	repo   Repository
	delay  time.Duration
	logger *zap.Logger

	mu    sync.Mutex
	shown map[string]struct{}
}

func NewService(repo Repository, promptDelay time.Duration, logger *zap.Logger) Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &service{repo: repo, delay: promptDelay, logger: logger, shown: make(map[string]struct{})}
}

func (s *service) Subscribe(ctx context.Context, email string) (SubscribeResult, error) {
	addr, err := normalizeEmail(email)
	if err != nil {
		return SubscribeResult{}, err
	}
	created, err := s.repo.Add(ctx, &Subscriber{ID: uuid.New(), Email: addr})
	if err != nil {
		return SubscribeResult{}, err
	}
	if created {
		s.logger.Info("newsletter signup", zap.String("email", addr))
	}
	return SubscribeResult{Message: SuccessMessage, Created: created}, nil
}

func (s *service) Prompt(ctx context.Context, sessionID string) (Prompt, error) {
	if sessionID == "" {
		return Prompt{}, ErrNoSession
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	p := Prompt{Delay: s.delay, DelayMS: s.delay.Milliseconds()}
	if _, seen := s.shown[sessionID]; !seen {
		s.shown[sessionID] = struct{}{}
		p.Show = true
	}
	return p, nil
}

func (s *service) ListSubscribers(ctx context.Context) ([]*Subscriber, error) {
	return s.repo.List(ctx)
}

func normalizeEmail(email string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return "", ErrInvalidEmail
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return "", fmt.Errorf("%w: %q", ErrInvalidEmail, email)
	}
	return email, nil
}
