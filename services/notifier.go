// file: services/notifier.go
package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"founders-fest/logger"
	"founders-fest/mailer"
	"founders-fest/metrics"
	"founders-fest/models"
	"founders-fest/websocket"

	"github.com/google/uuid"
)

// EmailSettingsSource loads email templates.
type EmailSettingsSource interface {
	EmailSettings(ctx context.Context, key string) (models.EmailSettings, error)
}

// DeliveryLog persists delivery attempts.
type DeliveryLog interface {
	Create(ctx context.Context, d *models.Delivery) error
	Save(ctx context.Context, d *models.Delivery) error
}

// NotifierOptions tunes delivery behaviour.
type NotifierOptions struct {
	BaseURL       string
	MaxAttempts   int
	RetryInterval time.Duration
	// Sync makes approval hooks send before returning. Used by tests and the CLI.
	Sync bool
}

// TicketNotifier emails e-tickets to approved attendees. Send failures are
// recorded and logged but never undo the approval.
type TicketNotifier struct {
	settings   EmailSettingsSource
	deliveries DeliveryLog
	transport  mailer.Transport
	recorder   metrics.Recorder
	messenger  websocket.Messenger
	opts       NotifierOptions
	now        func() time.Time
	wg         sync.WaitGroup
}

// NewTicketNotifier wires a notifier. recorder and messenger may be nil.
func NewTicketNotifier(settings EmailSettingsSource, deliveries DeliveryLog, transport mailer.Transport,
	recorder metrics.Recorder, messenger websocket.Messenger, opts NotifierOptions) *TicketNotifier {
	if recorder == nil {
		recorder = metrics.Nop{}
	}
	if messenger == nil {
		messenger = websocket.NopMessenger{}
	}
	if opts.MaxAttempts < 1 {
		opts.MaxAttempts = 1
	}
	if opts.RetryInterval <= 0 {
		opts.RetryInterval = time.Minute
	}
	return &TicketNotifier{
		settings:   settings,
		deliveries: deliveries,
		transport:  transport,
		recorder:   recorder,
		messenger:  messenger,
		opts:       opts,
		now:        time.Now,
	}
}

// OnAttendeeStatus is registered as the attendee queue's status hook. Every
// transition into approved triggers one send when auto-send is enabled,
// including repeated approvals.
func (n *TicketNotifier) OnAttendeeStatus(ctx context.Context, a *models.Attendee, _, to models.Status) {
	if to != models.StatusApproved {
		return
	}
	if a.Email == "" {
		logger.Warn.Printf("[TicketNotifier] Attendee %d approved without an email address", a.ID)
		return
	}

	run := func(ctx context.Context) {
		es, err := n.settings.EmailSettings(ctx, models.TicketEmailKey)
		if err != nil {
			logger.Error.Printf("[TicketNotifier] Loading email settings failed, ticket for attendee %d not sent: %v", a.ID, err)
			return
		}
		if !es.AutoSend {
			logger.Info.Printf("[TicketNotifier] Auto-send disabled, skipping ticket for attendee %d", a.ID)
			return
		}
		if _, err := n.send(ctx, es, a); err != nil {
			logger.Warn.Printf("[TicketNotifier] Ticket for attendee %d not delivered: %v", a.ID, err)
		}
	}

	if n.opts.Sync {
		run(ctx)
		return
	}
	n.wg.Add(1)
	go func() {
		defer n.wg.Done()
		// the request that approved the attendee may already be finished
		run(context.WithoutCancel(ctx))
	}()
}

// Send emails a ticket to a now, regardless of the auto-send setting.
func (n *TicketNotifier) Send(ctx context.Context, a *models.Attendee) (*models.Delivery, error) {
	es, err := n.settings.EmailSettings(ctx, models.TicketEmailKey)
	if err != nil {
		return nil, fmt.Errorf("load email settings: %w", err)
	}
	return n.send(ctx, es, a)
}

// Wait blocks until every asynchronous send has finished.
func (n *TicketNotifier) Wait() { n.wg.Wait() }

func (n *TicketNotifier) send(ctx context.Context, es models.EmailSettings, a *models.Attendee) (*models.Delivery, error) {
	te, err := BuildTicketEmail(es, a, n.opts.BaseURL)
	if err != nil {
		return nil, err
	}

	d := &models.Delivery{
		ID:          uuid.NewString(),
		Kind:        models.TicketEmailKey,
		RecordID:    a.ID,
		Recipient:   te.To,
		Sender:      te.From,
		Subject:     te.Subject,
		HTML:        te.HTML,
		Status:      models.DeliveryPending,
		MaxAttempts: n.opts.MaxAttempts,
	}
	if err := n.deliveries.Create(ctx, d); err != nil {
		return nil, err
	}
	return d, n.Attempt(ctx, d)
}

// Attempt makes one delivery attempt and stores the outcome. The returned
// error is the transport error, if any.
func (n *TicketNotifier) Attempt(ctx context.Context, d *models.Delivery) error {
	d.Attempts++
	id, sendErr := n.transport.Send(ctx, mailer.Message{
		To:      d.Recipient,
		Subject: d.Subject,
		HTML:    d.HTML,
		From:    d.Sender,
	})

	switch {
	case sendErr == nil:
		d.Status = models.DeliverySent
		d.MessageID = id
		d.LastError = ""
		d.NextRetryAt = nil
		logger.Info.Printf("[TicketNotifier] Delivery %s sent to %s", d.ID, d.Recipient)
	case retryable(sendErr) && d.CanRetry():
		d.Status = models.DeliveryRetrying
		d.LastError = sendErr.Error()
		next := n.now().UTC().Add(n.opts.RetryInterval * time.Duration(1<<(d.Attempts-1)))
		d.NextRetryAt = &next
		logger.Warn.Printf("[TicketNotifier] Delivery %s attempt %d/%d failed, retrying at %s: %v",
			d.ID, d.Attempts, d.MaxAttempts, next.Format(time.RFC3339), sendErr)
	default:
		d.Status = models.DeliveryFailed
		d.LastError = sendErr.Error()
		d.NextRetryAt = nil
		logger.Error.Printf("[TicketNotifier] Delivery %s failed after %d attempt(s): %v", d.ID, d.Attempts, sendErr)
	}

	if err := n.deliveries.Save(ctx, d); err != nil {
		logger.Error.Printf("[TicketNotifier] Saving delivery %s failed: %v", d.ID, err)
	}
	n.recorder.EmailDelivery(string(d.Status))
	n.messenger.Publish(websocket.Event{
		Action: websocket.ActionDeliveryUpdated,
		Topic:  "deliveries",
		ID:     d.ID,
		Data:   d,
	})
	return sendErr
}

// retryable is false for errors that another attempt cannot fix.
func retryable(err error) bool {
	if _, ok := mailer.IsMissingConfig(err); ok {
		return false
	}
	return !errors.Is(err, mailer.ErrIncompleteMessage)
}
