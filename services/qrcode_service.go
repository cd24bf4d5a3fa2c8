// services/qrcode_service.go
package services

import (
	"errors"

	"github.com/skip2/go-qrcode"
)

// QREncoder matches qrcode.Encode so tests can substitute it.
type QREncoder func(content string, level qrcode.RecoveryLevel, size int) ([]byte, error)

// QR code size limits in pixels.
const (
	DefaultQRSize = 220
	MaxQRSize     = 1024
)

var (
	// ErrQRContent is returned when there is nothing to encode.
	ErrQRContent = errors.New("qr content must not be empty")
	// ErrQRSize is returned for a size outside 1..MaxQRSize.
	ErrQRSize = errors.New("invalid dimensions: size must be between 1 and 1024")
)

// GenerateQRCode encodes content as a square PNG of size pixels.
func GenerateQRCode(content string, size int, encode QREncoder) ([]byte, error) {
	if content == "" {
		return nil, ErrQRContent
	}
	if size <= 0 || size > MaxQRSize {
		return nil, ErrQRSize
	}
	if encode == nil {
		encode = qrcode.Encode
	}

	png, err := encode(content, qrcode.Medium, size)
	if err != nil {
		return nil, err
	}
	return png, nil
}
