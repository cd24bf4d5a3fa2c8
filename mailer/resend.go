// file: mailer/resend.go
package mailer

import (
	"context"
	"fmt"

	"founders-fest/logger"

	"github.com/resend/resend-go/v2"
)

// ResendTransport sends mail through the Resend API.
type ResendTransport struct {
	client *resend.Client
	from   string
}

// NewResendTransport requires an API key.
func NewResendTransport(apiKey, defaultFrom string) (*ResendTransport, error) {
	if apiKey == "" {
		return nil, &MissingConfigError{Transport: "Resend", Missing: []string{"RESEND_API_KEY"}}
	}
	return &ResendTransport{
		client: resend.NewClient(apiKey),
		from:   firstNonEmpty(defaultFrom, DefaultFrom),
	}, nil
}

// Send delivers msg and returns the Resend message id.
func (t *ResendTransport) Send(ctx context.Context, msg Message) (string, error) {
	if err := msg.Validate(); err != nil {
		return "", err
	}
	sent, err := t.client.Emails.SendWithContext(ctx, &resend.SendEmailRequest{
		From:    firstNonEmpty(msg.From, t.from),
		To:      []string{msg.To},
		Subject: msg.Subject,
		Html:    msg.HTML,
	})
	if err != nil {
		logger.Error.Printf("[mailer.Resend] Send to %s failed: %v", msg.To, err)
		return "", fmt.Errorf("resend send failed: %w", err)
	}
	logger.Info.Printf("[mailer.Resend] Sent %q to %s (%s)", msg.Subject, msg.To, sent.Id)
	return sent.Id, nil
}
