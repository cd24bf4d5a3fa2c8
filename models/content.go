// Package models defines data structures used across the application.
// File: models/content.go
package models

import "time"

// ----------------------- ordered content -----------------------

// OrderedItem is the shape shared by every admin-editable content list.
// Order is not unique; ties keep fetch order.
type OrderedItem struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	SortOrder int       `gorm:"column:sort_order;not null" json:"order"`
	Visible   bool      `gorm:"not null" json:"visible"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Ordered exposes the embedded OrderedItem to generic code.
func (o *OrderedItem) Ordered() *OrderedItem { return o }

// Orderable is implemented by pointers to every content model.
type Orderable interface {
	Ordered() *OrderedItem
}

// AboutMetric is a headline number on the about page (e.g. "Attendees", "5000+").
type AboutMetric struct {
	OrderedItem
	Year  int    `gorm:"index" json:"year"`
	Title string `json:"title"`
	Value string `json:"value"`
}

// AboutImage is one slide of the about page gallery.
type AboutImage struct {
	OrderedItem
	Year int    `gorm:"index" json:"year"`
	URL  string `json:"url"`
	Alt  string `json:"alt"`
}

// WhyBullet is a bullet point in the "why participate" section.
type WhyBullet struct {
	OrderedItem
	Text string `json:"text"`
	Icon string `json:"icon"`
}

// WhyParagraph is a paragraph in the "why participate" section.
type WhyParagraph struct {
	OrderedItem
	Text string `json:"text"`
}

// Benefit is a participation benefit card.
type Benefit struct {
	OrderedItem
	Title       string `json:"title"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
}

// Complimentary is an item participants receive free of charge.
type Complimentary struct {
	OrderedItem
	Title string `json:"title"`
	Icon  string `json:"icon"`
}

// Partner is shared by the government, sponsor and influencer partner tables.
type Partner struct {
	OrderedItem
	Year        int    `json:"year"`
	Name        string `json:"name"`
	Logo        string `json:"logo"`
	Designation string `json:"designation"`
}

// AwardWinner is a past award winner.
type AwardWinner struct {
	OrderedItem
	Name  string `json:"name"`
	Title string `json:"title"`
	Image string `json:"image"`
}

// AwardCategory is a category offered on the nomination form.
type AwardCategory struct {
	OrderedItem
	Name string `json:"name"`
}

// TeamMember is an organiser shown on the team page.
type TeamMember struct {
	OrderedItem
	Name           string `json:"name"`
	Designation    string `json:"designation"`
	Responsibility string `json:"responsibility"`
	Image          string `json:"image"`
	SocialURL      string `json:"social_url"`
}
