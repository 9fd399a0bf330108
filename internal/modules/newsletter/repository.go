package newsletter

import "context"

type Repository interface {
	// Add stores s unless its email is already subscribed. It reports whether a row was added.
	Add(ctx context.Context, s *Subscriber) (bool, error)
	List(ctx context.Context) ([]*Subscriber, error)
}
