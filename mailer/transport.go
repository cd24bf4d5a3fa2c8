// Package mailer delivers outbound email over SMTP or the Resend API.
// file: mailer/transport.go
package mailer

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"founders-fest/config"
)

// DefaultFrom is used when neither the message nor the configuration names a sender.
const DefaultFrom = "no-reply@foundersfest.com"

// ErrIncompleteMessage is returned when to, subject or html is empty.
var ErrIncompleteMessage = errors.New("missing fields: to, subject and html are required")

// Message is one outbound email. From is optional.
type Message struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	HTML    string `json:"html"`
	From    string `json:"from,omitempty"`
}

// Validate checks the required fields.
func (m Message) Validate() error {
	if strings.TrimSpace(m.To) == "" || strings.TrimSpace(m.Subject) == "" || strings.TrimSpace(m.HTML) == "" {
		return ErrIncompleteMessage
	}
	return nil
}

// Transport sends a message and returns the provider's message id.
type Transport interface {
	Send(ctx context.Context, msg Message) (string, error)
}

// MissingConfigError lists every environment variable a transport needs but did not get.
type MissingConfigError struct {
	Transport string
	Missing   []string
}

func (e *MissingConfigError) Error() string {
	return fmt.Sprintf("missing %s env vars: %s", e.Transport, strings.Join(e.Missing, ", "))
}

// IsMissingConfig reports whether err is, or wraps, a *MissingConfigError.
func IsMissingConfig(err error) (*MissingConfigError, bool) {
	var mc *MissingConfigError
	if errors.As(err, &mc) {
		return mc, true
	}
	return nil, false
}

// NewTransport builds the transport selected by MAIL_TRANSPORT.
// An incomplete configuration yields *MissingConfigError.
func NewTransport(cfg *config.Config) (Transport, error) {
	switch cfg.MailTransport {
	case "smtp", "":
		return NewSMTPTransport(cfg.SMTP, cfg.MailFrom)
	case "resend":
		return NewResendTransport(cfg.ResendAPIKey, cfg.MailFrom)
	case "log":
		return NewLogTransport(), nil
	}
	return nil, fmt.Errorf("unsupported MAIL_TRANSPORT %q", cfg.MailTransport)
}

// Unavailable is a Transport that always fails with the error that prevented
// the real transport from being built. The server keeps running without mail.
type Unavailable struct {
	Err error
}

// Send returns the stored error.
func (u Unavailable) Send(context.Context, Message) (string, error) {
	return "", u.Err
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
