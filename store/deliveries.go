// file: store/deliveries.go
package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"founders-fest/models"

	"gorm.io/gorm"
)

// Deliveries is the email delivery log.
type Deliveries struct {
	db *gorm.DB
}

// NewDeliveries returns a Deliveries repository on db.
func NewDeliveries(db *gorm.DB) *Deliveries { return &Deliveries{db: db} }

// Create records a new delivery.
func (d *Deliveries) Create(ctx context.Context, del *models.Delivery) error {
	if err := d.db.WithContext(ctx).Create(del).Error; err != nil {
		return fmt.Errorf("create delivery: %w", err)
	}
	return nil
}

// Save writes every column of del.
func (d *Deliveries) Save(ctx context.Context, del *models.Delivery) error {
	if err := d.db.WithContext(ctx).Save(del).Error; err != nil {
		return fmt.Errorf("save delivery %s: %w", del.ID, err)
	}
	return nil
}

// Get reads one delivery.
func (d *Deliveries) Get(ctx context.Context, id string) (*models.Delivery, error) {
	var del models.Delivery
	err := d.db.WithContext(ctx).Where("id = ?", id).First(&del).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get delivery %s: %w", id, err)
	}
	return &del, nil
}

// List returns the most recent deliveries, optionally for one record.
func (d *Deliveries) List(ctx context.Context, recordID uint, limit int) ([]models.Delivery, error) {
	q := d.db.WithContext(ctx).Order("created_at DESC")
	if recordID != 0 {
		q = q.Where("record_id = ?", recordID)
	}
	if limit > 0 {
		q = q.Limit(limit)
	}
	var rows []models.Delivery
	if err := q.Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list deliveries: %w", err)
	}
	return rows, nil
}

// DueForRetry returns retrying deliveries whose next attempt time has passed.
func (d *Deliveries) DueForRetry(ctx context.Context, now time.Time, limit int) ([]models.Delivery, error) {
	var rows []models.Delivery
	err := d.db.WithContext(ctx).
		Where("status = ? AND next_retry_at <= ?", models.DeliveryRetrying, now).
		Order("next_retry_at").Limit(limit).Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("load due deliveries: %w", err)
	}
	return rows, nil
}
