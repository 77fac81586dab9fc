package qr

import (
	"fmt"
	"strings"

	"github.com/skip2/go-qrcode"
)

// Generator renders the scannable check-in links shown on the landing page.
// The QR payload is the public form URL itself, so any phone camera opens the
// form directly.
type Generator struct {
	baseURL string
}

func NewGenerator(baseURL string) *Generator {
	return &Generator{baseURL: strings.TrimRight(baseURL, "/")}
}

// CheckinURL returns the public check-in form URL for a service.
func (g *Generator) CheckinURL(serviceID string) string {
	return fmt.Sprintf("%s/service/%s", g.baseURL, serviceID)
}

// GenerateCheckinQR encodes the service's check-in URL as a PNG QR code of
// the given pixel size.
func (g *Generator) GenerateCheckinQR(serviceID string, size int) ([]byte, error) {
	if size <= 0 {
		size = 256
	}
	png, err := qrcode.Encode(g.CheckinURL(serviceID), qrcode.Medium, size)
	if err != nil {
		return nil, fmt.Errorf("failed to generate QR: %w", err)
	}
	return png, nil
}
