// file: services/upload.go
package services

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"

	"github.com/gabriel-vasile/mimetype"
)

// MaxUploadBytes is the per-file size limit for public uploads.
const MaxUploadBytes = 10 << 20

var (
	// ErrFileTooLarge is returned for files over the size limit.
	ErrFileTooLarge = errors.New("file size must be less than 10 MB")
	// ErrFileType is returned when the content does not match an accepted type.
	ErrFileType = errors.New("unsupported file type")
	// ErrFileMissing is returned when a required file was not sent.
	ErrFileMissing = errors.New("file is required")
)

// FileKind names a class of accepted uploads.
type FileKind string

const (
	// FileImage accepts common web image formats.
	FileImage FileKind = "image"
	// FilePaymentProof accepts PDF, Word documents or images.
	FilePaymentProof FileKind = "payment"
)

var imageTypes = []string{"image/png", "image/jpeg", "image/gif", "image/webp"}

var acceptedTypes = map[FileKind][]string{
	FileImage: imageTypes,
	FilePaymentProof: append([]string{
		"application/pdf",
		"application/msword",
		"application/vnd.openxmlformats-officedocument.wordprocessingml.document",
	}, imageTypes...),
}

// FileType is the sniffed type of an accepted upload.
type FileType struct {
	MIME string
	// Extension belongs to MIME, with its leading dot. It is empty when the type has none.
	Extension string
}

// UploadError names the form field that failed validation.
type UploadError struct {
	Field string
	Err   error
}

func (e *UploadError) Error() string { return e.Field + ": " + e.Err.Error() }

func (e *UploadError) Unwrap() error { return e.Err }

// UploadValidator checks size and sniffed content type of uploaded files.
type UploadValidator struct {
	MaxBytes int64
}

// NewUploadValidator uses MaxUploadBytes.
func NewUploadValidator() *UploadValidator {
	return &UploadValidator{MaxBytes: MaxUploadBytes}
}

// Check validates fh as kind and returns the detected type. The client-declared
// Content-Type and filename are ignored.
func (v *UploadValidator) Check(field string, fh *multipart.FileHeader, kind FileKind) (FileType, error) {
	if fh == nil {
		return FileType{}, &UploadError{Field: field, Err: ErrFileMissing}
	}
	if fh.Size > v.MaxBytes {
		return FileType{}, &UploadError{Field: field, Err: ErrFileTooLarge}
	}

	f, err := fh.Open()
	if err != nil {
		return FileType{}, fmt.Errorf("open %s: %w", field, err)
	}
	defer f.Close()
	return v.sniff(field, f, kind)
}

func (v *UploadValidator) sniff(field string, r io.Reader, kind FileKind) (FileType, error) {
	mt, err := mimetype.DetectReader(r)
	if err != nil {
		return FileType{}, fmt.Errorf("detect %s type: %w", field, err)
	}
	for m := mt; m != nil; m = m.Parent() {
		if mimetype.EqualsAny(m.String(), acceptedTypes[kind]...) {
			return FileType{MIME: mt.String(), Extension: mt.Extension()}, nil
		}
	}
	return FileType{}, &UploadError{Field: field, Err: fmt.Errorf("%w: %s", ErrFileType, mt.String())}
}
