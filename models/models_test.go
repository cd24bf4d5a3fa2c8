// file: models/models_test.go
package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// Test: only the three review states are valid
func TestStatusValid(t *testing.T) {
	assert.True(t, StatusPending.Valid())
	assert.True(t, StatusApproved.Valid())
	assert.True(t, StatusRejected.Valid())
	assert.False(t, Status("archived").Valid())
	assert.False(t, Status("").Valid())
}

// Test: filters accept "all", empty and any status
func TestParseFilter(t *testing.T) {
	for _, v := range []string{"", "all"} {
		f, ok := ParseFilter(v)
		assert.True(t, ok)
		assert.Equal(t, FilterAll, f)
	}

	f, ok := ParseFilter("approved")
	assert.True(t, ok)
	assert.Equal(t, Filter("approved"), f)

	_, ok = ParseFilter("deleted")
	assert.False(t, ok)
}

// Test: CSV records line up with their headers
func TestCSVRecords_MatchHeaders(t *testing.T) {
	created := time.Date(2025, 1, 31, 18, 30, 0, 0, time.FixedZone("IST", 19800))
	sub := Submission{ID: 7, CreatedAt: created, Status: StatusApproved}

	a := &Attendee{Submission: sub, Name: "Asha", Email: "asha@example.com"}
	rec := a.CSVRecord()
	assert.Len(t, rec, len(AttendeeCSVHeader))
	assert.Equal(t, "7", rec[0])
	assert.Equal(t, "2025-01-31T13:00:00Z", rec[1], "timestamps are exported in UTC")
	assert.Equal(t, "approved", rec[len(rec)-1])

	b := &StallBooking{Submission: sub, StartupName: "Chai Labs"}
	assert.Len(t, b.CSVRecord(), len(StallBookingCSVHeader))
	assert.Equal(t, "Chai Labs", b.CSVRecord()[2])

	n := &AwardNomination{Submission: sub, Founder: "Ravi"}
	assert.Len(t, n.CSVRecord(), len(AwardNominationCSVHeader))
	assert.Equal(t, "Ravi", n.CSVRecord()[2])
}

// Test: ticket code encodes record type, id and email
func TestAttendeeTicketCode(t *testing.T) {
	a := &Attendee{Submission: Submission{ID: 42}, Email: "guest@example.com"}
	assert.Equal(t, "attendee:42:guest@example.com", a.TicketCode())
}

// Test: retry budget
func TestDeliveryCanRetry(t *testing.T) {
	d := &Delivery{Status: DeliveryFailed, Attempts: 1, MaxAttempts: 3}
	assert.True(t, d.CanRetry())

	d.Attempts = 3
	assert.False(t, d.CanRetry())

	d = &Delivery{Status: DeliverySent, Attempts: 1, MaxAttempts: 3}
	assert.False(t, d.CanRetry(), "sent deliveries are never retried")
}

// Test: default ticket template
func TestDefaultTicketEmail(t *testing.T) {
	s := DefaultTicketEmail()
	assert.Equal(t, TicketEmailKey, s.Key)
	assert.Equal(t, "Your Founders Fest E-ticket", s.Subject)
	assert.True(t, s.AutoSend)
	assert.Empty(t, s.Sender)
}
