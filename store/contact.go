// file: store/contact.go
package store

import (
	"context"
	"fmt"
	"time"

	"founders-fest/models"

	"gorm.io/gorm"
)

// ContactQueries stores messages from the public contact form.
type ContactQueries struct {
	db *gorm.DB
}

// NewContactQueries returns a ContactQueries repository on db.
func NewContactQueries(db *gorm.DB) *ContactQueries { return &ContactQueries{db: db} }

// Create stores q with a server-side timestamp.
func (c *ContactQueries) Create(ctx context.Context, q *models.ContactQuery) error {
	q.ID = 0
	q.CreatedAt = time.Now().UTC()
	if err := c.db.WithContext(ctx).Create(q).Error; err != nil {
		return fmt.Errorf("create contact query: %w", err)
	}
	return nil
}

// List returns every query, newest first.
func (c *ContactQueries) List(ctx context.Context) ([]models.ContactQuery, error) {
	var rows []models.ContactQuery
	if err := c.db.WithContext(ctx).Order("created_at DESC").Order("id DESC").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list contact queries: %w", err)
	}
	return rows, nil
}
