// Package models file: models/identity.go
package models

import "time"

// ----------------------- user model -----------------------

// User is a sign-in identity. Being a user grants nothing on its own;
// admin access requires an Admin row.
type User struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Email        string    `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string    `gorm:"not null" json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// ----------------------- admin allow-list -----------------------

// Admin is one entry of the admin allow-list.
type Admin struct {
	UserID    uint      `gorm:"primaryKey;autoIncrement:false" json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}
