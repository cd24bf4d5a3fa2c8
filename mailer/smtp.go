// file: mailer/smtp.go
package mailer

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"founders-fest/config"
	"founders-fest/logger"

	"github.com/wneessen/go-mail"
)

// SMTPTransport sends mail through an authenticated SMTP relay.
type SMTPTransport struct {
	host   string
	port   int
	secure bool
	user   string
	pass   string
	from   string
}

// NewSMTPTransport validates the SMTP_* settings. Every required variable
// that is empty is reported in one *MissingConfigError.
func NewSMTPTransport(c config.SMTPConfig, defaultFrom string) (*SMTPTransport, error) {
	var missing []string
	if c.Host == "" {
		missing = append(missing, "SMTP_HOST")
	}
	if c.Port == "" {
		missing = append(missing, "SMTP_PORT")
	}
	if c.Secure == "" {
		missing = append(missing, "SMTP_SECURE")
	}
	if c.User == "" {
		missing = append(missing, "SMTP_USER")
	}
	if c.Pass == "" {
		missing = append(missing, "SMTP_PASS")
	}
	if len(missing) > 0 {
		return nil, &MissingConfigError{Transport: "SMTP", Missing: missing}
	}

	port, err := strconv.Atoi(c.Port)
	if err != nil {
		return nil, fmt.Errorf("SMTP_PORT must be a number: %w", err)
	}
	return &SMTPTransport{
		host:   c.Host,
		port:   port,
		secure: strings.EqualFold(c.Secure, "true"),
		user:   c.User,
		pass:   c.Pass,
		from:   firstNonEmpty(c.From, defaultFrom, DefaultFrom),
	}, nil
}

func (t *SMTPTransport) client() (*mail.Client, error) {
	opts := []mail.Option{
		mail.WithPort(t.port),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(t.user),
		mail.WithPassword(t.pass),
	}
	if t.secure {
		opts = append(opts, mail.WithSSL())
	} else {
		opts = append(opts, mail.WithTLSPolicy(mail.TLSOpportunistic))
	}
	return mail.NewClient(t.host, opts...)
}

// Send delivers msg and returns the generated Message-ID.
func (t *SMTPTransport) Send(ctx context.Context, msg Message) (string, error) {
	if err := msg.Validate(); err != nil {
		return "", err
	}

	m := mail.NewMsg()
	if err := m.From(firstNonEmpty(msg.From, t.from)); err != nil {
		return "", fmt.Errorf("invalid from address: %w", err)
	}
	if err := m.To(msg.To); err != nil {
		return "", fmt.Errorf("invalid recipient: %w", err)
	}
	m.Subject(msg.Subject)
	m.SetBodyString(mail.TypeTextHTML, msg.HTML)
	m.SetMessageID()
	m.SetDate()

	c, err := t.client()
	if err != nil {
		return "", fmt.Errorf("smtp client: %w", err)
	}
	if err := c.DialAndSendWithContext(ctx, m); err != nil {
		logger.Error.Printf("[mailer.SMTP] Send to %s failed: %v", msg.To, err)
		return "", fmt.Errorf("smtp send failed: %w", err)
	}

	id := ""
	if ids := m.GetGenHeader(mail.HeaderMessageID); len(ids) > 0 {
		id = ids[0]
	}
	logger.Info.Printf("[mailer.SMTP] Sent %q to %s (%s)", msg.Subject, msg.To, id)
	return id, nil
}
