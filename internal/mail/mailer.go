package mail

import (
	"context"
	"fmt"
	"html"

	"github.com/sendgrid/sendgrid-go"
	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"
)

// Mailer sends a plain-text message to a single recipient.
type Mailer interface {
	Send(ctx context.Context, to, subject, body string) error
}

// SendGridMailer implements Mailer on the SendGrid API.
type SendGridMailer struct {
	apiKey    string
	fromName  string
	fromEmail string
}

// NewSendGridMailer creates a mailer sending from the given address.
func NewSendGridMailer(apiKey, fromName, fromEmail string) *SendGridMailer {
	return &SendGridMailer{
		apiKey:    apiKey,
		fromName:  fromName,
		fromEmail: fromEmail,
	}
}

// Send delivers the message via SendGrid, honoring ctx for cancellation
// and deadlines.
func (m *SendGridMailer) Send(ctx context.Context, to, subject, body string) error {
	if m.apiKey == "" {
		return fmt.Errorf("sendgrid api key is empty")
	}
	if to == "" {
		return fmt.Errorf("recipient address is empty")
	}

	from := sgmail.NewEmail(m.fromName, m.fromEmail)
	recipient := sgmail.NewEmail("", to)
	htmlBody := fmt.Sprintf("<pre>%s</pre>", html.EscapeString(body))
	message := sgmail.NewSingleEmail(from, subject, recipient, body, htmlBody)

	client := sendgrid.NewSendClient(m.apiKey)
	response, err := client.SendWithContext(ctx, message)
	if err != nil {
		return fmt.Errorf("sendgrid send: %w", err)
	}
	if response.StatusCode >= 400 {
		return fmt.Errorf("sendgrid send failed: status=%d body=%s", response.StatusCode, response.Body)
	}
	return nil
}
