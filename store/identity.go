// file: store/identity.go
package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"founders-fest/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Identity stores users and the admin allow-list.
type Identity struct {
	db *gorm.DB
}

// NewIdentity returns an Identity repository on db.
func NewIdentity(db *gorm.DB) *Identity { return &Identity{db: db} }

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// CreateUser stores a user, or updates the password hash when the email exists.
func (i *Identity) CreateUser(ctx context.Context, email, passwordHash string) (*models.User, error) {
	u := models.User{Email: normalizeEmail(email), PasswordHash: passwordHash}
	err := i.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "email"}},
		DoUpdates: clause.AssignmentColumns([]string{"password_hash"}),
	}).Create(&u).Error
	if err != nil {
		return nil, fmt.Errorf("create user %s: %w", u.Email, err)
	}
	// the upsert path may not report the existing id
	return i.UserByEmail(ctx, u.Email)
}

// UserByEmail looks up a user case-insensitively.
func (i *Identity) UserByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	err := i.db.WithContext(ctx).Where("email = ?", normalizeEmail(email)).First(&u).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("lookup user: %w", err)
	}
	return &u, nil
}

// IsAdmin reports whether userID is on the allow-list.
func (i *Identity) IsAdmin(ctx context.Context, userID uint) (bool, error) {
	var rows []models.Admin
	err := i.db.WithContext(ctx).Select("user_id").
		Where("user_id = ?", userID).Limit(1).Find(&rows).Error
	if err != nil {
		return false, fmt.Errorf("lookup admin %d: %w", userID, err)
	}
	return len(rows) > 0, nil
}

// GrantAdmin adds userID to the allow-list. Granting twice is not an error.
func (i *Identity) GrantAdmin(ctx context.Context, userID uint) error {
	err := i.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).
		Create(&models.Admin{UserID: userID}).Error
	if err != nil {
		return fmt.Errorf("grant admin %d: %w", userID, err)
	}
	return nil
}

// RevokeAdmin removes userID from the allow-list.
func (i *Identity) RevokeAdmin(ctx context.Context, userID uint) error {
	res := i.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&models.Admin{})
	if res.Error != nil {
		return fmt.Errorf("revoke admin %d: %w", userID, res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
