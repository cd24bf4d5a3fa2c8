//go:build unit
// +build unit

// file: controllers/submission_controller_test.go
package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"strings"
	"testing"

	"founders-fest/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func registerAttendee(t *testing.T, app *testApp, name, email string) uint {
	t.Helper()
	w := app.do("POST", "/api/attendees", map[string]string{
		"name": name, "whatsapp": "+91 99999 00000", "email": email, "city": "Pune",
		"status": "approved",
	}, nil)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var body struct {
		ID     uint   `json:"id"`
		Status string `json:"status"`
	}
	decode(t, w, &body)
	assert.Equal(t, "pending", body.Status, "clients cannot choose the initial status")
	return body.ID
}

func setStatus(app *testApp, kind string, id uint, status string) int {
	return app.asAdmin("POST", fmt.Sprintf("/admin/api/submissions/%s/%d/status", kind, id), map[string]string{"status": status}).Code
}

func TestSubmissions_ApproveSendsTicket(t *testing.T) {
	app := newTestApp(t)
	id := registerAttendee(t, app, "Asha", "asha@example.com")

	require.Equal(t, http.StatusOK, setStatus(app, "attendees", id, "approved"))

	sent := app.transport.Sent()
	require.Len(t, sent, 1)
	assert.Equal(t, "asha@example.com", sent[0].To)
	assert.Equal(t, "Your Founders Fest E-ticket", sent[0].Subject)
	assert.Contains(t, sent[0].HTML, "Asha")

	w := app.asAdmin("GET", fmt.Sprintf("/admin/api/submissions/attendees/%d", id), nil)
	require.Equal(t, http.StatusOK, w.Code)
	var detail struct {
		Item       models.Attendee   `json:"item"`
		Deliveries []models.Delivery `json:"deliveries"`
	}
	decode(t, w, &detail)
	assert.Equal(t, models.StatusApproved, detail.Item.Status)
	require.Len(t, detail.Deliveries, 1)
	assert.Equal(t, models.DeliverySent, detail.Deliveries[0].Status)

	// re-approving sends again
	require.Equal(t, http.StatusOK, setStatus(app, "attendees", id, "pending"))
	require.Equal(t, http.StatusOK, setStatus(app, "attendees", id, "approved"))
	assert.Len(t, app.transport.Sent(), 2)

	assert.Contains(t, app.events.Actions(), "submissionCreated:attendees")
	assert.Contains(t, app.events.Actions(), "statusChanged:attendees")
	assert.Contains(t, app.events.Actions(), "deliveryUpdated:deliveries")
}

func TestSubmissions_FailedEmailKeepsApproval(t *testing.T) {
	app := newTestApp(t)
	app.transport.err = errors.New("smtp: connection refused")
	id := registerAttendee(t, app, "Ravi", "ravi@example.com")

	require.Equal(t, http.StatusOK, setStatus(app, "attendees", id, "approved"))

	w := app.asAdmin("GET", "/admin/api/submissions/attendees?status=approved", nil)
	assert.Contains(t, w.Body.String(), "ravi@example.com")

	w = app.asAdmin("GET", fmt.Sprintf("/admin/api/deliveries?record_id=%d", id), nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"failed"`)
	assert.Contains(t, w.Body.String(), "connection refused")

	for _, q := range []string{"limit=ten", "limit=0", "limit=-5", "record_id=x"} {
		w = app.asAdmin("GET", "/admin/api/deliveries?"+q, nil)
		assert.Equal(t, http.StatusBadRequest, w.Code, q)
	}
	w = app.asAdmin("GET", "/admin/api/deliveries?limit=1", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	// a manual resend reports the failure
	w = app.asAdmin("POST", fmt.Sprintf("/admin/api/tickets/%d", id), nil)
	assert.Equal(t, http.StatusBadGateway, w.Code)

	app.transport.err = nil
	w = app.asAdmin("POST", fmt.Sprintf("/admin/api/tickets/%d", id), nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"sent"`)
}

func TestSubmissions_ListFilterAndCounts(t *testing.T) {
	app := newTestApp(t)
	a := registerAttendee(t, app, "A", "a@example.com")
	b := registerAttendee(t, app, "B", "b@example.com")
	registerAttendee(t, app, "C", "c@example.com")

	require.Equal(t, http.StatusOK, setStatus(app, "attendees", a, "approved"))
	require.Equal(t, http.StatusOK, setStatus(app, "attendees", b, "rejected"))

	w := app.asAdmin("GET", "/admin/api/submissions/attendees", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var body struct {
		Items  []models.Attendee `json:"items"`
		Counts map[string]int    `json:"counts"`
	}
	decode(t, w, &body)
	require.Len(t, body.Items, 3)
	assert.Equal(t, "C", body.Items[0].Name, "newest first")
	assert.Equal(t, map[string]int{"all": 3, "pending": 1, "approved": 1, "rejected": 1}, body.Counts)

	w = app.asAdmin("GET", "/admin/api/submissions/attendees?status=rejected", nil)
	decode(t, w, &body)
	require.Len(t, body.Items, 1)
	assert.Equal(t, "B", body.Items[0].Name)

	assert.Equal(t, http.StatusBadRequest, app.asAdmin("GET", "/admin/api/submissions/attendees?status=maybe", nil).Code)
	assert.Equal(t, http.StatusNotFound, app.asAdmin("GET", "/admin/api/submissions/speakers", nil).Code)
	assert.Equal(t, http.StatusBadRequest, setStatus(app, "attendees", a, "archived"))
	assert.Equal(t, http.StatusNotFound, setStatus(app, "attendees", 999, "approved"))
}

func TestSubmissions_Export(t *testing.T) {
	app := newTestApp(t)
	registerAttendee(t, app, `Dev "DJ" Jain, Jr.`, "dev@example.com")

	w := app.asAdmin("GET", "/admin/api/export/attendees?status=approved", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/csv", w.Header().Get("Content-Type"))
	assert.Regexp(t, regexp.MustCompile(`attachment; filename="attendees-approved-\d{4}-\d{2}-\d{2}\.csv"`), w.Header().Get("Content-Disposition"))
	assert.Equal(t, `"id","created_at","name","whatsapp","email","city","referrer","occupation","organization","status"`, w.Body.String(),
		"no approved rows exports only the header")

	w = app.asAdmin("GET", "/admin/api/export/attendees", nil)
	require.Equal(t, http.StatusOK, w.Code)
	lines := strings.Split(w.Body.String(), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[1], `"Dev ""DJ"" Jain, Jr."`)
}

func TestSubmissions_ContactQueries(t *testing.T) {
	app := newTestApp(t)

	w := app.do("POST", "/api/contact-queries", map[string]string{"name": "Meera", "whatsapp": "123", "query": "Parking?"}, nil)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = app.do("POST", "/api/contact-queries", map[string]string{"name": "Meera"}, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = app.asAdmin("GET", "/admin/api/contact-queries", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Parking?")
}
