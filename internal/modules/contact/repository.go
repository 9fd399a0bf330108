package contact

import "context"

type Repository interface {
	Create(ctx context.Context, m *Message) error
	// List returns messages newest first.
	List(ctx context.Context) ([]*Message, error)
}
