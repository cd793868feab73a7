package mailer

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/sendgrid/sendgrid-go"
	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"
)

const (
	sendgridHost     = "https://api.sendgrid.com"
	sendgridEndpoint = "/v3/mail/send"
)

// SendgridMailer delivers mail through the SendGrid v3 API.
type SendgridMailer struct {
	key        string
	from       *sgmail.Email
	subjectTag string
}

// NewSendgridMailer builds a mailer sending as fromName <fromAddress>.
// subjectTag, when non-empty, is prefixed to every subject line.
func NewSendgridMailer(key, fromName, fromAddress, subjectTag string) *SendgridMailer {
	return &SendgridMailer{
		key:        key,
		from:       sgmail.NewEmail(fromName, fromAddress),
		subjectTag: subjectTag,
	}
}

// Send delivers a single message, honoring context cancellation.
func (m *SendgridMailer) Send(ctx context.Context, msg Message) error {
	subject := msg.Subject
	if tag := strings.TrimSpace(m.subjectTag); tag != "" {
		subject = tag + " " + subject
	}

	p := sgmail.NewPersonalization()
	p.Subject = subject
	p.AddTos(sgmail.NewEmail(msg.To.Name, msg.To.Address))

	v3 := sgmail.NewV3Mail()
	v3.SetFrom(m.from)
	v3.AddPersonalizations(p)
	if msg.Text != "" {
		v3.AddContent(sgmail.NewContent("text/plain", msg.Text))
	}
	if msg.HTML != "" {
		v3.AddContent(sgmail.NewContent("text/html", msg.HTML))
	}

	req := sendgrid.GetRequest(m.key, sendgridEndpoint, sendgridHost)
	req.Method = http.MethodPost
	req.Body = sgmail.GetRequestBody(v3)

	res, err := sendgrid.MakeRequestWithContext(ctx, req)
	if err != nil {
		return fmt.Errorf("sendgrid request: %w", err)
	}
	if res.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf("sendgrid responded %d: %s", res.StatusCode, res.Body)
	}
	return nil
}
