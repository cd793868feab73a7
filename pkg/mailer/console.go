package mailer

import (
	"context"

	"go.uber.org/zap"
)

// ConsoleMailer logs messages instead of delivering them. Used when
// outbound mail is disabled, typically in development and tests.
type ConsoleMailer struct {
	logger *zap.Logger
}

// NewConsoleMailer builds a log-only mailer.
func NewConsoleMailer(logger *zap.Logger) *ConsoleMailer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ConsoleMailer{logger: logger}
}

// Send writes the message to the log and reports success.
func (m *ConsoleMailer) Send(_ context.Context, msg Message) error {
	m.logger.Sugar().Infow("mail (console)",
		"to", msg.To.Address,
		"subject", msg.Subject,
		"text", msg.Text,
	)
	return nil
}
