package contact

import (
	"context"
	"fmt"
	"net/mail"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type Service interface {
	Submit(ctx context.Context, req SubmitRequest) (SubmitResult, error)
	List(ctx context.Context) ([]*Message, error)
}

type service struct {
	repo   Repository
	logger *zap.Logger
}

func NewService(repo Repository, logger *zap.Logger) Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &service{repo: repo, logger: logger}
}

func (s *service) Submit(ctx context.Context, req SubmitRequest) (SubmitResult, error) {
	m := &Message{
		ID:      uuid.New(),
		Name:    strings.TrimSpace(req.Name),
		Email:   strings.TrimSpace(req.Email),
		Phone:   strings.TrimSpace(req.Phone),
		Message: strings.TrimSpace(req.Message),
	}
	switch {
	case m.Name == "":
		return SubmitResult{}, fmt.Errorf("%w: name is required", ErrInvalidMessage)
	case m.Message == "":
		return SubmitResult{}, fmt.Errorf("%w: message is required", ErrInvalidMessage)
	}
	if _, err := mail.ParseAddress(m.Email); err != nil {
		return SubmitResult{}, fmt.Errorf("%w: email %q is not valid", ErrInvalidMessage, m.Email)
	}

	if err := s.repo.Create(ctx, m); err != nil {
		return SubmitResult{}, err
	}
	s.logger.Info("contact message received",
		zap.String("id", m.ID.String()), zap.String("email", m.Email), zap.Int("length", len(m.Message)))
	return SubmitResult{ID: m.ID, Message: SuccessMessage}, nil
}

func (s *service) List(ctx context.Context) ([]*Message, error) {
	return s.repo.List(ctx)
}
