// Package controllers file: controllers/page_controller.go
package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"founders-fest/logger"
	"founders-fest/middleware"
	"founders-fest/services"
	"founders-fest/store"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/skip2/go-qrcode"
)

// PageController serves the server-rendered admin pages and small public endpoints.
type PageController struct {
	Collections  CollectionRegistry
	WebsocketURL string
	encode       services.QREncoder
}

// NewPageController initializes a PageController.
func NewPageController(collections CollectionRegistry, websocketURL string) *PageController {
	return &PageController{Collections: collections, WebsocketURL: websocketURL, encode: qrcode.Encode}
}

// Health reports liveness.
func Health(c *gin.Context) {
	c.String(http.StatusOK, "OK")
}

// Dashboard renders the admin home page.
func (pc *PageController) Dashboard(c *gin.Context) {
	email, _ := sessions.Default(c).Get(middleware.SessionEmailKey).(string)
	c.HTML(http.StatusOK, "dashboard.html", gin.H{
		"Email":        email,
		"WebsocketURL": pc.WebsocketURL,
		"Collections":  pc.Collections.Names(),
		"Kinds":        []string{store.KindAttendees, store.KindStallBookings, store.KindAwardNominations},
	})
}

// TicketQRCode renders ?data= as a PNG QR code of ?size= pixels.
func (pc *PageController) TicketQRCode(c *gin.Context) {
	size := services.DefaultQRSize
	if v := c.Query("size"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			badRequest(c, "invalid size")
			return
		}
		size = n
	}

	png, err := services.GenerateQRCode(c.Query("data"), size, pc.encode)
	if errors.Is(err, services.ErrQRContent) || errors.Is(err, services.ErrQRSize) {
		badRequest(c, err.Error())
		return
	}
	if err != nil {
		logger.Error.Printf("TicketQRCode: Error generating QR code: %v", err)
		c.String(http.StatusInternalServerError, "QR generation failed")
		return
	}

	c.Header("Cache-Control", "public, max-age=86400")
	c.Header("Content-Disposition", "inline; filename=\"ticket.png\"")
	c.Data(http.StatusOK, "image/png", png)
}
