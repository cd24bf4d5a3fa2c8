// Package websocket pushes live admin events to connected dashboards.
// file: websocket/messenger.go
package websocket

import "time"

// Event actions sent to dashboards.
const (
	ActionSubmissionCreated = "submissionCreated"
	ActionStatusChanged     = "statusChanged"
	ActionCollectionChanged = "collectionChanged"
	ActionDeliveryUpdated   = "deliveryUpdated"
)

// Event is one message on the admin feed. Topic is the submission kind or
// collection name and is what clients subscribe to.
type Event struct {
	Action string    `json:"action"`
	Topic  string    `json:"topic"`
	ID     any       `json:"id,omitempty"`
	Data   any       `json:"data,omitempty"`
	At     time.Time `json:"at"`
}

// Messenger publishes events without blocking the caller.
type Messenger interface {
	Publish(ev Event)
}

// NopMessenger drops every event.
type NopMessenger struct{}

// Publish does nothing.
func (NopMessenger) Publish(Event) {}
