package ports

import (
	"context"
	"time"

	"github.com/fleetgate/reservation-api/internal/core/domain"
)

// MailMessage is one outbound email. Bodies are HTML.
type MailMessage struct {
	To      string
	Subject string
	Body    string
}

// Mailer performs a single synchronous delivery.
type Mailer interface {
	Send(ctx context.Context, msg MailMessage) error
}

// MailDispatcher accepts messages for asynchronous, best-effort delivery.
// Enqueue never fails the caller; delivery errors are logged and counted
// by the implementation.
type MailDispatcher interface {
	Enqueue(msg MailMessage)
}

// DecisionTokenStore holds the single-use tokens embedded in reservation
// decision links. Consume must atomically return and invalidate a token so
// a link can never be used twice.
type DecisionTokenStore interface {
	Save(ctx context.Context, token string, ref domain.DecisionRef, ttl time.Duration) error
	Consume(ctx context.Context, token string) (*domain.DecisionRef, error)
}
