// file: controllers/upload_controller.go
package controllers

import (
	"net/http"
	"regexp"
	"time"

	"founders-fest/blob"
	"founders-fest/logger"
	"founders-fest/services"

	"github.com/gin-gonic/gin"
)

// ContentBucket holds images uploaded from the admin panel.
const ContentBucket = "content"

var folderPattern = regexp.MustCompile(`^[a-z0-9][a-z0-9_-]{0,62}$`)

// UploadController stores images for content items (partner logos, team photos).
type UploadController struct {
	Blob      blob.Store
	Validator *services.UploadValidator
	now       func() time.Time
}

// NewUploadController initializes an UploadController.
func NewUploadController(store blob.Store) *UploadController {
	return &UploadController{Blob: store, Validator: services.NewUploadValidator(), now: time.Now}
}

// Upload accepts a multipart "file" and optional "folder" and returns {"url": ...}.
func (uc *UploadController) Upload(c *gin.Context) {
	folder := c.DefaultPostForm("folder", "images")
	if !folderPattern.MatchString(folder) {
		badRequest(c, "invalid folder")
		return
	}
	fh, err := formFile(c, "file")
	if err == nil && fh == nil {
		err = &services.UploadError{Field: "file", Err: services.ErrFileMissing}
	}
	if err != nil {
		respondError(c, "upload", err)
		return
	}
	ft, err := uc.Validator.Check("file", fh, services.FileImage)
	if err != nil {
		respondError(c, "upload", err)
		return
	}
	f, err := fh.Open()
	if err != nil {
		respondError(c, "upload", err)
		return
	}
	defer f.Close()

	url, err := uc.Blob.Upload(c.Request.Context(), ContentBucket, blob.ObjectPath(folder, ft.Extension, uc.now()), f, ft.MIME)
	if err != nil {
		respondError(c, "upload", err)
		return
	}
	logger.Info.Printf("[Upload] %s stored at %s", fh.Filename, url)
	c.JSON(http.StatusCreated, gin.H{"url": url, "content_type": ft.MIME})
}
