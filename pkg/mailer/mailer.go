package mailer

import (
	"context"
	"net/mail"
)

// Message is a single outbound email.
type Message struct {
	To      mail.Address
	Subject string
	Text    string
	HTML    string
}

// Mailer delivers a message to one recipient. Implementations must be
// safe for concurrent use; delivery jobs call Send from worker
// goroutines.
type Mailer interface {
	Send(ctx context.Context, msg Message) error
}
