// internal/mailer/mailer.go
package mailer

import (
	"context"
	"fmt"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

// Message is one outbound email.
type Message struct {
	To      string
	From    string
	Subject string
	HTML    string
}

// Sender delivers one message. Implementations must be safe for concurrent
// use; launches call Send from many goroutines at once.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// SendGridSender delivers mail through the SendGrid API. The API key and
// sender identity are fixed at construction.
type SendGridSender struct {
	apiKey   string
	fromName string
}

func NewSendGridSender(apiKey, fromName string) *SendGridSender {
	return &SendGridSender{apiKey: apiKey, fromName: fromName}
}

func (s *SendGridSender) Send(ctx context.Context, msg Message) error {
	from := mail.NewEmail(s.fromName, msg.From)
	to := mail.NewEmail("", msg.To)

	m := mail.NewSingleEmail(from, msg.Subject, to, "", msg.HTML)

	client := sendgrid.NewSendClient(s.apiKey)
	response, err := client.SendWithContext(ctx, m)
	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	if response.StatusCode >= 400 {
		return fmt.Errorf("sendgrid returned error status: %d", response.StatusCode)
	}
	return nil
}
