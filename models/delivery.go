// Package models file: models/delivery.go
package models

import "time"

// DeliveryStatus tracks an outbound email through its lifecycle.
type DeliveryStatus string

const (
	DeliveryPending  DeliveryStatus = "pending"
	DeliverySent     DeliveryStatus = "sent"
	DeliveryFailed   DeliveryStatus = "failed"
	DeliveryRetrying DeliveryStatus = "retrying"
)

// Delivery records one e-ticket email and every attempt to send it.
type Delivery struct {
	ID          string         `gorm:"primaryKey;type:varchar(36)" json:"id"`
	Kind        string         `gorm:"index" json:"kind"`
	RecordID    uint           `gorm:"index" json:"record_id"`
	Recipient   string         `json:"recipient"`
	Sender      string         `json:"sender"`
	Subject     string         `json:"subject"`
	HTML        string         `json:"-"`
	Status      DeliveryStatus `gorm:"type:varchar(16);index" json:"status"`
	Attempts    int            `json:"attempts"`
	MaxAttempts int            `json:"max_attempts"`
	LastError   string         `json:"last_error,omitempty"`
	MessageID   string         `json:"message_id,omitempty"`
	NextRetryAt *time.Time     `gorm:"index" json:"next_retry_at,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

// TableName keeps deliveries in a dedicated email table.
func (Delivery) TableName() string { return "email_deliveries" }

// CanRetry reports whether another attempt is allowed.
func (d *Delivery) CanRetry() bool {
	return d.Status != DeliverySent && d.Attempts < d.MaxAttempts
}
