package newsletter

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var ErrInvalidEmail = errors.New("a valid email address is required")

// SuccessMessage is shown after a signup, new or repeated.
const SuccessMessage = "Thank you for subscribing! Check your email for your 10% discount code."

type Subscriber struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

type SubscribeRequest struct {
	Email string `json:"email"`
}

// SubscribeResult acknowledges a signup. Created is false for an email
// that was already on the list.
type SubscribeResult struct {
	Message string `json:"message"`
	Created bool   `json:"created"`
}

// Prompt tells the page whether to pop the signup modal, and after how long.
type Prompt struct {
	Show    bool          `json:"show"`
	Delay   time.Duration `json:"-"`
	DelayMS int64         `json:"delay_ms"`
}
