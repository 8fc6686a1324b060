package services

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"

	"github.com/skip2/go-qrcode"
)

// DefaultQRImageSize is the side length in pixels of rendered QR symbols
const DefaultQRImageSize = 256

// QRCodeService derives and validates employee QR code strings. The code is
// a pure function of (phone, name, salt): same inputs always yield the same
// 64-hex-char digest, and either input changing changes the code.
type QRCodeService struct {
	salt string
}

// NewQRCodeService creates a new QR code service. The salt must already be
// validated by config.Load (min length, presence).
func NewQRCodeService(salt string) *QRCodeService {
	return &QRCodeService{salt: salt}
}

// Derive computes the code for an employee. Phone is trimmed only (stored
// formatting is part of the identity); name is trimmed and lower-cased, with
// an absent name contributing the empty string.
func (s *QRCodeService) Derive(phone, name string) string {
	input := strings.TrimSpace(phone) + strings.ToLower(strings.TrimSpace(name)) + s.salt
	digest := sha256.Sum256([]byte(input))
	return hex.EncodeToString(digest[:])
}

// Validate reports whether a presented code matches the employee's identity
func (s *QRCodeService) Validate(code, phone, name string) bool {
	return code == s.Derive(phone, name)
}

// RenderPNG encodes a code string into a scannable QR symbol
func (s *QRCodeService) RenderPNG(code string, size int) ([]byte, error) {
	if size <= 0 {
		size = DefaultQRImageSize
	}
	return qrcode.Encode(code, qrcode.Medium, size)
}
