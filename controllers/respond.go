// Package controllers holds the gin handlers for the public API and the admin panel.
// file: controllers/respond.go
package controllers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"founders-fest/logger"
	"founders-fest/services"
	"founders-fest/store"

	"github.com/gin-gonic/gin"
)

var errInvalidID = errors.New("invalid id")

// statusFor maps domain errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, store.ErrConcurrentEdit), errors.Is(err, store.ErrDuplicateKey):
		return http.StatusConflict
	case errors.Is(err, services.ErrFileTooLarge), errors.Is(err, services.ErrFileType):
		return http.StatusUnprocessableEntity
	case errors.Is(err, store.ErrNoEditableFields),
		errors.Is(err, store.ErrInvalidStatus),
		errors.Is(err, store.ErrScopeRequired),
		errors.Is(err, store.ErrInvalidValue),
		errors.Is(err, store.ErrRotationSpeed),
		errors.Is(err, services.ErrFileMissing),
		errors.Is(err, errInvalidID):
		return http.StatusBadRequest
	}
	var fe *fieldError
	if errors.As(err, &fe) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

// respondError writes {"error": ...}. Internal errors are logged and not echoed.
func respondError(c *gin.Context, op string, err error) {
	code := statusFor(err)
	if code == http.StatusInternalServerError {
		logger.Error.Printf("%s: %v", op, err)
		c.AbortWithStatusJSON(code, gin.H{"error": "internal error"})
		return
	}
	logger.Warn.Printf("%s: %v", op, err)
	c.AbortWithStatusJSON(code, gin.H{"error": err.Error()})
}

func badRequest(c *gin.Context, msg string) {
	c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": msg})
}

// paramID parses the :id path parameter.
func paramID(c *gin.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, errInvalidID
	}
	return uint(id), nil
}

// queryYear parses ?year= when required is set. Unscoped lists ignore it.
func queryYear(c *gin.Context, required bool) (int, error) {
	if !required {
		return 0, nil
	}
	v := c.Query("year")
	if v == "" {
		return 0, store.ErrScopeRequired
	}
	year, err := strconv.Atoi(v)
	if err != nil {
		return 0, store.ErrScopeRequired
	}
	return year, nil
}

// bindOptionalJSON decodes a JSON object body into dst; an empty body is allowed.
func bindOptionalJSON(c *gin.Context, dst *map[string]any) error {
	err := json.NewDecoder(c.Request.Body).Decode(dst)
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}

// fieldError reports a missing or invalid form field.
type fieldError struct {
	Field string
	Msg   string
}

func (e *fieldError) Error() string { return e.Field + ": " + e.Msg }
