// file: mailer/log.go
package mailer

import (
	"context"

	"founders-fest/logger"

	"github.com/google/uuid"
)

// LogTransport logs messages instead of delivering them. Used in development.
type LogTransport struct{}

// NewLogTransport returns a LogTransport.
func NewLogTransport() *LogTransport { return &LogTransport{} }

// Send logs msg and returns a fake id.
func (LogTransport) Send(_ context.Context, msg Message) (string, error) {
	if err := msg.Validate(); err != nil {
		return "", err
	}
	id := "log-" + uuid.NewString()
	logger.Info.Printf("[mailer.Log] Would send %q to %s (%s)", msg.Subject, msg.To, id)
	return id, nil
}
