package contact

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var ErrInvalidMessage = errors.New("invalid contact message")

// SuccessMessage replaces the form once a message is accepted.
const SuccessMessage = "Message Sent! We'll get back to you within 24 hours."

type Message struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone,omitempty"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}

type SubmitRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone,omitempty"`
	Message string `json:"message"`
}

type SubmitResult struct {
	ID      uuid.UUID `json:"id"`
	Message string    `json:"message"`
}
