// file: controllers/intake_controller.go
package controllers

import (
	"context"
	"errors"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"founders-fest/blob"
	"founders-fest/logger"
	"founders-fest/metrics"
	"founders-fest/models"
	"founders-fest/services"
	"founders-fest/store"
	"founders-fest/websocket"

	"github.com/gin-gonic/gin"
)

// Creator stores a new submission as pending.
type Creator[T any] interface {
	Create(ctx context.Context, record *T) error
}

// ContactCreator stores a contact form message.
type ContactCreator interface {
	Create(ctx context.Context, q *models.ContactQuery) error
}

// Buckets names the blob buckets used by the public forms.
type Buckets struct {
	StallBookings    string
	AwardNominations string
}

// otherCategory is the stall category option that requires a custom value.
const otherCategory = "Other:"

// ---------------- Intake Controller ----------------

// IntakeController accepts the public forms. Every record is created pending
// with a server timestamp regardless of what the client sends.
type IntakeController struct {
	Attendees   Creator[models.Attendee]
	Stalls      Creator[models.StallBooking]
	Nominations Creator[models.AwardNomination]
	Contact     ContactCreator
	Blob        blob.Store
	Buckets     Buckets
	Validator   *services.UploadValidator
	Recorder    metrics.Recorder
	Messenger   websocket.Messenger
	now         func() time.Time
}

// IntakeDeps groups the collaborators of an IntakeController.
type IntakeDeps struct {
	Attendees   Creator[models.Attendee]
	Stalls      Creator[models.StallBooking]
	Nominations Creator[models.AwardNomination]
	Contact     ContactCreator
	Blob        blob.Store
	Buckets     Buckets
	Recorder    metrics.Recorder
	Messenger   websocket.Messenger
}

// NewIntakeController initializes an IntakeController.
func NewIntakeController(d IntakeDeps) *IntakeController {
	if d.Recorder == nil {
		d.Recorder = metrics.Nop{}
	}
	if d.Messenger == nil {
		d.Messenger = websocket.NopMessenger{}
	}
	return &IntakeController{
		Attendees:   d.Attendees,
		Stalls:      d.Stalls,
		Nominations: d.Nominations,
		Contact:     d.Contact,
		Blob:        d.Blob,
		Buckets:     d.Buckets,
		Validator:   services.NewUploadValidator(),
		Recorder:    d.Recorder,
		Messenger:   d.Messenger,
		now:         time.Now,
	}
}

func (ic *IntakeController) received(kind string, id uint, data any) {
	ic.Recorder.SubmissionReceived(kind)
	ic.Messenger.Publish(websocket.Event{
		Action: websocket.ActionSubmissionCreated,
		Topic:  kind,
		ID:     id,
		Data:   data,
		At:     ic.now().UTC(),
	})
	logger.Info.Printf("[Intake] New %s submission %d", kind, id)
}

// bindError turns a gin binding failure into a client message.
func bindError(c *gin.Context, err error) {
	logger.Warn.Printf("[Intake] %s rejected: %v", c.FullPath(), err)
	badRequest(c, "Please fill in all required fields.")
}

// ---------------- attendees ----------------

type attendeeForm struct {
	Name         string `json:"name" form:"name" binding:"required"`
	WhatsApp     string `json:"whatsapp" form:"whatsapp" binding:"required"`
	Email        string `json:"email" form:"email" binding:"required,email"`
	City         string `json:"city" form:"city" binding:"required"`
	Referrer     string `json:"referrer" form:"referrer"`
	Occupation   string `json:"occupation" form:"occupation"`
	Organization string `json:"organization" form:"organization"`
}

// RegisterAttendee handles the event registration form.
func (ic *IntakeController) RegisterAttendee(c *gin.Context) {
	var f attendeeForm
	if err := c.ShouldBind(&f); err != nil {
		bindError(c, err)
		return
	}
	a := &models.Attendee{
		Name:         strings.TrimSpace(f.Name),
		WhatsApp:     strings.TrimSpace(f.WhatsApp),
		Email:        strings.TrimSpace(f.Email),
		City:         strings.TrimSpace(f.City),
		Referrer:     f.Referrer,
		Occupation:   f.Occupation,
		Organization: f.Organization,
	}
	if err := ic.Attendees.Create(c.Request.Context(), a); err != nil {
		respondError(c, "register attendee", err)
		return
	}
	ic.received(store.KindAttendees, a.ID, gin.H{"name": a.Name, "city": a.City})
	c.JSON(http.StatusCreated, gin.H{"id": a.ID, "status": a.Status})
}

// ---------------- stall bookings ----------------

type stallForm struct {
	Name                string `form:"name" binding:"required"`
	StartupName         string `form:"startup_name" binding:"required"`
	Category            string `form:"category" binding:"required"`
	CustomCategory      string `form:"custom_category"`
	BusinessDescription string `form:"business_description" binding:"required"`
	Contact             string `form:"contact" binding:"required"`
	Email               string `form:"email" binding:"required,email"`
	SocialMediaHandle   string `form:"social_media_handle" binding:"required"`
	StallType           string `form:"stall_type" binding:"required"`
}

// BookStall handles the multipart stall booking form with its logo and payment proof.
func (ic *IntakeController) BookStall(c *gin.Context) {
	var f stallForm
	if err := c.ShouldBind(&f); err != nil {
		bindError(c, err)
		return
	}
	category := f.Category
	if category == otherCategory {
		category = strings.TrimSpace(f.CustomCategory)
		if category == "" {
			respondError(c, "book stall", &fieldError{Field: "custom_category", Msg: "please specify the custom category"})
			return
		}
	}

	logo, err := formFile(c, "logo")
	if err == nil && logo == nil {
		err = &services.UploadError{Field: "logo", Err: services.ErrFileMissing}
	}
	if err != nil {
		respondError(c, "book stall", err)
		return
	}
	proof, err := formFile(c, "payment_screenshot")
	if err == nil && proof == nil {
		err = &services.UploadError{Field: "payment_screenshot", Err: services.ErrFileMissing}
	}
	if err != nil {
		respondError(c, "book stall", err)
		return
	}

	ctx := c.Request.Context()
	logoURL, err := ic.upload(ctx, ic.Buckets.StallBookings, "logos", "logo", logo, services.FileImage)
	if err != nil {
		respondError(c, "book stall", err)
		return
	}
	proofURL, err := ic.upload(ctx, ic.Buckets.StallBookings, "payments", "payment_screenshot", proof, services.FilePaymentProof)
	if err != nil {
		respondError(c, "book stall", err)
		return
	}

	b := &models.StallBooking{
		Name:                 f.Name,
		StartupName:          f.StartupName,
		LogoURL:              logoURL,
		Category:             category,
		BusinessDescription:  f.BusinessDescription,
		Contact:              f.Contact,
		Email:                f.Email,
		SocialMediaHandle:    f.SocialMediaHandle,
		StallType:            f.StallType,
		PaymentScreenshotURL: proofURL,
	}
	if err := ic.Stalls.Create(ctx, b); err != nil {
		respondError(c, "book stall", err)
		return
	}
	ic.received(store.KindStallBookings, b.ID, gin.H{"startup_name": b.StartupName, "stall_type": b.StallType})
	c.JSON(http.StatusCreated, gin.H{"id": b.ID, "status": b.Status})
}

// ---------------- award nominations ----------------

type nominationForm struct {
	Name                 string `form:"name" binding:"required"`
	Founder              string `form:"founder" binding:"required"`
	WhatsApp             string `form:"whatsapp" binding:"required"`
	Email                string `form:"email" binding:"required,email"`
	Website              string `form:"website"`
	Category             string `form:"category"`
	About                string `form:"about"`
	UniqueValue          string `form:"unique_value"`
	Milestones           string `form:"milestones"`
	Challenges           string `form:"challenges"`
	Why                  string `form:"why"`
	LogoURL              string `form:"logo_url"`
	FounderImageURL      string `form:"founder_image_url"`
	ProductImageURL      string `form:"product_image_url"`
	VideoURL             string `form:"video_url"`
	PaymentNumber        string `form:"payment_number"`
	PaymentScreenshotURL string `form:"payment_screenshot_url"`
}

// nominationUpload maps an optional file field to the URL it fills.
type nominationUpload struct {
	field  string
	folder string
	kind   services.FileKind
	dst    *string
}

// Nominate handles the award nomination form. Files are optional; an uploaded
// file replaces the matching *_url text field.
func (ic *IntakeController) Nominate(c *gin.Context) {
	var f nominationForm
	if err := c.ShouldBind(&f); err != nil {
		bindError(c, err)
		return
	}

	n := &models.AwardNomination{
		Name:                 f.Name,
		Founder:              f.Founder,
		WhatsApp:             f.WhatsApp,
		Email:                f.Email,
		Website:              f.Website,
		Category:             f.Category,
		About:                f.About,
		UniqueValue:          f.UniqueValue,
		Milestones:           f.Milestones,
		Challenges:           f.Challenges,
		Why:                  f.Why,
		LogoURL:              f.LogoURL,
		FounderImageURL:      f.FounderImageURL,
		ProductImageURL:      f.ProductImageURL,
		VideoURL:             f.VideoURL,
		PaymentNumber:        f.PaymentNumber,
		PaymentScreenshotURL: f.PaymentScreenshotURL,
	}

	ctx := c.Request.Context()
	uploads := []nominationUpload{
		{"logo", "logos", services.FileImage, &n.LogoURL},
		{"founder_image", "founders", services.FileImage, &n.FounderImageURL},
		{"product_image", "products", services.FileImage, &n.ProductImageURL},
		{"payment_screenshot", "payments", services.FilePaymentProof, &n.PaymentScreenshotURL},
	}
	for _, u := range uploads {
		fh, err := formFile(c, u.field)
		if err != nil {
			respondError(c, "nominate", err)
			return
		}
		if fh == nil {
			continue
		}
		url, err := ic.upload(ctx, ic.Buckets.AwardNominations, u.folder, u.field, fh, u.kind)
		if err != nil {
			respondError(c, "nominate", err)
			return
		}
		*u.dst = url
	}

	if err := ic.Nominations.Create(ctx, n); err != nil {
		respondError(c, "nominate", err)
		return
	}
	ic.received(store.KindAwardNominations, n.ID, gin.H{"name": n.Name, "category": n.Category})
	c.JSON(http.StatusCreated, gin.H{"id": n.ID, "status": n.Status})
}

// ---------------- contact queries ----------------

type contactForm struct {
	Name     string `json:"name" form:"name" binding:"required"`
	WhatsApp string `json:"whatsapp" form:"whatsapp" binding:"required"`
	Query    string `json:"query" form:"query" binding:"required"`
}

// SubmitContactQuery stores a contact form message.
func (ic *IntakeController) SubmitContactQuery(c *gin.Context) {
	var f contactForm
	if err := c.ShouldBind(&f); err != nil {
		bindError(c, err)
		return
	}
	q := &models.ContactQuery{Name: f.Name, WhatsApp: f.WhatsApp, Query: f.Query}
	if err := ic.Contact.Create(c.Request.Context(), q); err != nil {
		respondError(c, "contact query", err)
		return
	}
	ic.received("contact-queries", q.ID, gin.H{"name": q.Name})
	c.JSON(http.StatusCreated, gin.H{"id": q.ID})
}

// ---------------- uploads ----------------

// formFile returns the named file, or nil when the field was not sent.
func formFile(c *gin.Context, field string) (*multipart.FileHeader, error) {
	fh, err := c.FormFile(field)
	if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
		return nil, nil
	}
	return fh, err
}

// upload validates fh and uploads it under bucket/folder, returning its public URL.
func (ic *IntakeController) upload(ctx context.Context, bucket, folder, field string, fh *multipart.FileHeader, kind services.FileKind) (string, error) {
	ft, err := ic.Validator.Check(field, fh, kind)
	if err != nil {
		return "", err
	}
	f, err := fh.Open()
	if err != nil {
		return "", err
	}
	defer f.Close()
	return ic.Blob.Upload(ctx, bucket, blob.ObjectPath(folder, ft.Extension, ic.now()), f, ft.MIME)
}
