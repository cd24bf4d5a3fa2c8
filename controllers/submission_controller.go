// file: controllers/submission_controller.go
package controllers

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"founders-fest/logger"
	"founders-fest/metrics"
	"founders-fest/middleware"
	"founders-fest/models"
	"founders-fest/services"
	"founders-fest/store"
	"founders-fest/websocket"

	"github.com/gin-gonic/gin"
)

// ReviewQueues looks up a review queue by submission kind.
type ReviewQueues interface {
	Reviewer(kind string) (store.Reviewer, bool)
}

// AttendeeLookup loads one attendee.
type AttendeeLookup interface {
	Get(ctx context.Context, id uint) (*models.Attendee, error)
}

// TicketSender emails an e-ticket on demand.
type TicketSender interface {
	Send(ctx context.Context, a *models.Attendee) (*models.Delivery, error)
}

// DeliveryLister reads the email delivery log.
type DeliveryLister interface {
	List(ctx context.Context, recordID uint, limit int) ([]models.Delivery, error)
}

// ContactLister reads contact form messages.
type ContactLister interface {
	List(ctx context.Context) ([]models.ContactQuery, error)
}

// ---------------- Submission Controller ----------------

// SubmissionController backs the admin review screens.
type SubmissionController struct {
	Queues     ReviewQueues
	Attendees  AttendeeLookup
	Tickets    TicketSender
	Deliveries DeliveryLister
	Contact    ContactLister
	Exporter   *services.Exporter
	Recorder   metrics.Recorder
	Messenger  websocket.Messenger
}

// SubmissionDeps groups the collaborators of a SubmissionController.
type SubmissionDeps struct {
	Queues     ReviewQueues
	Attendees  AttendeeLookup
	Tickets    TicketSender
	Deliveries DeliveryLister
	Contact    ContactLister
	Recorder   metrics.Recorder
	Messenger  websocket.Messenger
}

// NewSubmissionController initializes a SubmissionController.
func NewSubmissionController(d SubmissionDeps) *SubmissionController {
	if d.Recorder == nil {
		d.Recorder = metrics.Nop{}
	}
	if d.Messenger == nil {
		d.Messenger = websocket.NopMessenger{}
	}
	return &SubmissionController{
		Queues:     d.Queues,
		Attendees:  d.Attendees,
		Tickets:    d.Tickets,
		Deliveries: d.Deliveries,
		Contact:    d.Contact,
		Exporter:   services.NewExporter(),
		Recorder:   d.Recorder,
		Messenger:  d.Messenger,
	}
}

func (sc *SubmissionController) reviewer(c *gin.Context) (store.Reviewer, bool) {
	r, ok := sc.Queues.Reviewer(c.Param("kind"))
	if !ok {
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "unknown submission type"})
		return nil, false
	}
	return r, true
}

func queryFilter(c *gin.Context) (models.Filter, bool) {
	f, ok := models.ParseFilter(c.Query("status"))
	if !ok {
		badRequest(c, "status must be all, pending, approved or rejected")
	}
	return f, ok
}

// List returns the submissions matching ?status= newest first, with per-status counts.
func (sc *SubmissionController) List(c *gin.Context) {
	r, ok := sc.reviewer(c)
	if !ok {
		return
	}
	filter, ok := queryFilter(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()
	items, err := r.List(ctx, filter)
	if err != nil {
		respondError(c, "list "+r.Kind(), err)
		return
	}
	counts, err := r.Counts(ctx)
	if err != nil {
		respondError(c, "count "+r.Kind(), err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items, "counts": counts, "filter": filter})
}

// Detail returns one submission. Attendee details include their ticket deliveries.
func (sc *SubmissionController) Detail(c *gin.Context) {
	r, ok := sc.reviewer(c)
	if !ok {
		return
	}
	id, err := paramID(c)
	if err != nil {
		respondError(c, "detail "+r.Kind(), err)
		return
	}
	ctx := c.Request.Context()
	rec, err := r.Get(ctx, id)
	if err != nil {
		respondError(c, "detail "+r.Kind(), err)
		return
	}
	resp := gin.H{"item": rec}
	if r.Kind() == store.KindAttendees && sc.Deliveries != nil {
		deliveries, err := sc.Deliveries.List(ctx, id, 20)
		if err != nil {
			respondError(c, "detail deliveries", err)
			return
		}
		resp["deliveries"] = deliveries
	}
	c.JSON(http.StatusOK, resp)
}

type statusRequest struct {
	Status models.Status `json:"status" binding:"required"`
}

// SetStatus moves a submission to any of the three review states.
func (sc *SubmissionController) SetStatus(c *gin.Context) {
	r, ok := sc.reviewer(c)
	if !ok {
		return
	}
	id, err := paramID(c)
	if err != nil {
		respondError(c, "status "+r.Kind(), err)
		return
	}
	var req statusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "status is required")
		return
	}
	rec, err := r.SetStatus(c.Request.Context(), id, req.Status)
	if err != nil {
		respondError(c, "status "+r.Kind(), err)
		return
	}

	sc.Recorder.StatusChanged(r.Kind(), string(req.Status))
	sc.Messenger.Publish(websocket.Event{
		Action: websocket.ActionStatusChanged,
		Topic:  r.Kind(),
		ID:     id,
		Data:   gin.H{"status": req.Status},
		At:     time.Now().UTC(),
	})
	logger.Info.Printf("[Review] %s %d set to %s by user %d", r.Kind(), id, req.Status, c.GetUint(middleware.ContextUserKey))
	c.JSON(http.StatusOK, rec)
}

// Export downloads the submissions matching ?status= as CSV.
func (sc *SubmissionController) Export(c *gin.Context) {
	r, ok := sc.reviewer(c)
	if !ok {
		return
	}
	filter, ok := queryFilter(c)
	if !ok {
		return
	}
	name, body, err := sc.Exporter.Export(c.Request.Context(), r, filter)
	if err != nil {
		respondError(c, "export "+r.Kind(), err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="`+name+`"`)
	c.Data(http.StatusOK, services.CSVContentType, body)
}

// ResendTicket emails an attendee's e-ticket now, ignoring the auto-send setting.
func (sc *SubmissionController) ResendTicket(c *gin.Context) {
	id, err := paramID(c)
	if err != nil {
		respondError(c, "resend ticket", err)
		return
	}
	ctx := c.Request.Context()
	a, err := sc.Attendees.Get(ctx, id)
	if err != nil {
		respondError(c, "resend ticket", err)
		return
	}
	d, err := sc.Tickets.Send(ctx, a)
	if d == nil && err != nil {
		respondError(c, "resend ticket", err)
		return
	}
	code := http.StatusOK
	if d.Status != models.DeliverySent {
		code = http.StatusBadGateway
	}
	c.JSON(code, d)
}

// DeliveriesList lists recent email deliveries, optionally for one ?record_id=.
func (sc *SubmissionController) DeliveriesList(c *gin.Context) {
	var recordID uint
	if v := c.Query("record_id"); v != "" {
		n, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			badRequest(c, "invalid record_id")
			return
		}
		recordID = uint(n)
	}
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "100"))
	if err != nil || limit < 1 {
		badRequest(c, "invalid limit")
		return
	}
	rows, err := sc.Deliveries.List(c.Request.Context(), recordID, limit)
	if err != nil {
		respondError(c, "list deliveries", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": rows})
}

// ContactQueries lists contact form messages newest first.
func (sc *SubmissionController) ContactQueries(c *gin.Context) {
	rows, err := sc.Contact.List(c.Request.Context())
	if err != nil {
		respondError(c, "list contact queries", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": rows})
}
