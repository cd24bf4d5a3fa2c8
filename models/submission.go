// Package models file: models/submission.go
package models

import (
	"strconv"
	"time"
)

// ----------------------- review status -----------------------

// Status is the review state of a public submission.
type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

// Valid reports whether s is one of the three review states.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected:
		return true
	}
	return false
}

// Filter narrows a submission listing. The zero value and FilterAll list everything.
type Filter string

const FilterAll Filter = "all"

// ParseFilter accepts "", "all" or any Status.
func ParseFilter(v string) (Filter, bool) {
	if v == "" || v == string(FilterAll) {
		return FilterAll, true
	}
	if Status(v).Valid() {
		return Filter(v), true
	}
	return "", false
}

// ----------------------- submission base -----------------------

// Submission holds the columns common to every reviewed form.
type Submission struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Status    Status    `gorm:"type:varchar(16);index;not null" json:"status"`
}

// Review exposes the embedded Submission to generic code.
func (s *Submission) Review() *Submission { return s }

// Reviewable is implemented by pointers to every reviewed form.
type Reviewable interface {
	Review() *Submission
	CSVRecord() []string
}

func (s *Submission) idString() string { return strconv.FormatUint(uint64(s.ID), 10) }

func (s *Submission) createdString() string { return s.CreatedAt.UTC().Format(time.RFC3339) }

// ----------------------- attendees -----------------------

// Attendee is a public event registration.
type Attendee struct {
	Submission
	Name         string `json:"name"`
	WhatsApp     string `gorm:"column:whatsapp" json:"whatsapp"`
	Email        string `json:"email"`
	City         string `json:"city"`
	Referrer     string `json:"referrer"`
	Occupation   string `json:"occupation"`
	Organization string `json:"organization"`
}

// AttendeeCSVHeader lists the attendee export columns in order.
var AttendeeCSVHeader = []string{"id", "created_at", "name", "whatsapp", "email", "city", "referrer", "occupation", "organization", "status"}

// CSVRecord returns the attendee as an export row matching AttendeeCSVHeader.
func (a *Attendee) CSVRecord() []string {
	return []string{
		a.idString(), a.createdString(), a.Name, a.WhatsApp, a.Email, a.City,
		a.Referrer, a.Occupation, a.Organization, string(a.Status),
	}
}

// TicketCode is the payload encoded into the attendee's e-ticket QR code.
func (a *Attendee) TicketCode() string {
	return "attendee:" + a.idString() + ":" + a.Email
}

// ----------------------- stall bookings -----------------------

// StallBooking is a request for an exhibition stall.
type StallBooking struct {
	Submission
	Name                 string `json:"name"`
	StartupName          string `json:"startup_name"`
	LogoURL              string `json:"logo_url"`
	Category             string `json:"category"`
	BusinessDescription  string `json:"business_description"`
	Contact              string `json:"contact"`
	Email                string `json:"email"`
	SocialMediaHandle    string `json:"social_media_handle"`
	StallType            string `json:"stall_type"`
	PaymentScreenshotURL string `json:"payment_screenshot_url"`
}

// StallBookingCSVHeader lists the stall booking export columns in order.
var StallBookingCSVHeader = []string{"ID", "Name", "Startup Name", "Category", "Contact", "Email", "Stall Type", "Status", "Created At"}

// CSVRecord returns the booking as an export row matching StallBookingCSVHeader.
func (b *StallBooking) CSVRecord() []string {
	return []string{
		b.idString(), b.Name, b.StartupName, b.Category, b.Contact, b.Email,
		b.StallType, string(b.Status), b.createdString(),
	}
}

// ----------------------- award nominations -----------------------

// AwardNomination is an entry for the startup awards.
type AwardNomination struct {
	Submission
	Name                 string `json:"name"`
	Founder              string `json:"founder"`
	WhatsApp             string `gorm:"column:whatsapp" json:"whatsapp"`
	Email                string `json:"email"`
	Website              string `json:"website"`
	Category             string `json:"category"`
	About                string `json:"about"`
	UniqueValue          string `json:"unique_value"`
	Milestones           string `json:"milestones"`
	Challenges           string `json:"challenges"`
	Why                  string `json:"why"`
	LogoURL              string `json:"logo_url"`
	FounderImageURL      string `json:"founder_image_url"`
	ProductImageURL      string `json:"product_image_url"`
	VideoURL             string `json:"video_url"`
	PaymentNumber        string `json:"payment_number"`
	PaymentScreenshotURL string `json:"payment_screenshot_url"`
}

// AwardNominationCSVHeader lists the nomination export columns in order.
var AwardNominationCSVHeader = []string{"ID", "Startup Name", "Founder", "Email", "WhatsApp", "Category", "Status", "Created At"}

// CSVRecord returns the nomination as an export row matching AwardNominationCSVHeader.
func (n *AwardNomination) CSVRecord() []string {
	return []string{
		n.idString(), n.Name, n.Founder, n.Email, n.WhatsApp, n.Category,
		string(n.Status), n.createdString(),
	}
}

// ----------------------- contact queries -----------------------

// ContactQuery is a message left through the public contact form. It is not reviewed.
type ContactQuery struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`
	Name      string    `json:"name"`
	WhatsApp  string    `gorm:"column:whatsapp" json:"whatsapp"`
	Query     string    `json:"query"`
}
