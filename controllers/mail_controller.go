// file: controllers/mail_controller.go
package controllers

import (
	"errors"
	"net/http"
	"strings"

	"founders-fest/logger"
	"founders-fest/mailer"

	"github.com/gin-gonic/gin"
)

// MailController sends one-off emails from the admin panel.
type MailController struct {
	Transport mailer.Transport
}

// NewMailController initializes a MailController.
func NewMailController(t mailer.Transport) *MailController {
	return &MailController{Transport: t}
}

type sendRequest struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	HTML    string `json:"html"`
	From    string `json:"from"`
}

// Send dispatches {to, subject, html, from?} and returns the provider message id.
func (mc *MailController) Send(c *gin.Context) {
	var req sendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Missing fields")
		return
	}
	id, err := mc.Transport.Send(c.Request.Context(), mailer.Message{
		To:      req.To,
		Subject: req.Subject,
		HTML:    req.HTML,
		From:    req.From,
	})
	if errors.Is(err, mailer.ErrIncompleteMessage) {
		badRequest(c, "Missing fields")
		return
	}
	if missing, ok := mailer.IsMissingConfig(err); ok {
		logger.Error.Printf("[Mail] %v", missing)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Missing " + strings.ToUpper(missing.Transport) + " env vars",
			"missing": missing.Missing,
		})
		return
	}
	if err != nil {
		logger.Error.Printf("[Mail] send to %s failed: %v", req.To, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	logger.Info.Printf("[Mail] sent %q to %s (%s)", req.Subject, req.To, id)
	c.JSON(http.StatusOK, gin.H{"ok": true, "messageId": id})
}
