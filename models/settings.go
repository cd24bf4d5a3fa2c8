// Package models file: models/settings.go
package models

import "time"

// HomeSettings is the single row (id 1) controlling the landing page hero.
type HomeSettings struct {
	ID               uint      `gorm:"primaryKey" json:"id" yaml:"id"`
	VideoURL         string    `json:"video_url" yaml:"video_url"`
	Autoplay         bool      `json:"autoplay" yaml:"autoplay"`
	FallbackImageURL string    `json:"fallback_image_url" yaml:"fallback_image_url"`
	UpdatedAt        time.Time `json:"updated_at" yaml:"updated_at"`
}

// HomeSettingsID is the fixed primary key of the home settings row.
const HomeSettingsID = 1

// AboutSection holds per-year presentation toggles for the about page.
type AboutSection struct {
	Year             int       `gorm:"primaryKey;autoIncrement:false" json:"year" yaml:"year"`
	RotationEnabled  bool      `json:"rotation_enabled" yaml:"rotation_enabled"`
	RotationSpeed    int       `json:"rotation_speed" yaml:"rotation_speed"`
	HoverZoomEnabled bool      `json:"hover_zoom_enabled" yaml:"hover_zoom_enabled"`
	SectionEnabled   bool      `json:"section_enabled" yaml:"section_enabled"`
	UpdatedAt        time.Time `json:"updated_at" yaml:"updated_at"`
}

// Rotation speed bounds in seconds, as offered by the admin form.
const (
	MinRotationSpeed = 4
	MaxRotationSpeed = 60
)

// DefaultAboutSection is used when no row exists for year.
func DefaultAboutSection(year int) AboutSection {
	return AboutSection{
		Year:             year,
		RotationEnabled:  true,
		RotationSpeed:    12,
		HoverZoomEnabled: true,
		SectionEnabled:   true,
	}
}

// EmailSettings is an admin-editable email template keyed by purpose.
type EmailSettings struct {
	Key       string    `gorm:"primaryKey" json:"key" yaml:"key"`
	Subject   string    `json:"subject" yaml:"subject"`
	Body      string    `json:"body" yaml:"body"`
	Sender    string    `json:"sender" yaml:"sender"`
	AutoSend  bool      `json:"auto_send" yaml:"auto_send"`
	UpdatedAt time.Time `json:"updated_at" yaml:"updated_at"`
}

// TicketEmailKey identifies the attendee e-ticket template.
const TicketEmailKey = "attendee_ticket"

// DefaultTicketEmail is used when no template row exists.
func DefaultTicketEmail() EmailSettings {
	return EmailSettings{
		Key:      TicketEmailKey,
		Subject:  "Your Founders Fest E-ticket",
		Body:     "Thank you for registering. Here is your E-ticket.",
		AutoSend: true,
	}
}

// KeyValue backs the free-form key/value tables (awards_content, contact_info).
type KeyValue struct {
	Key       string    `gorm:"primaryKey" json:"key" yaml:"key"`
	Value     string    `json:"value" yaml:"value"`
	UpdatedAt time.Time `json:"updated_at" yaml:"updated_at"`
}

// Key/value table names.
const (
	AwardsContentTable = "awards_content"
	ContactInfoTable   = "contact_info"
)
